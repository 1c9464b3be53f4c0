package analysis

import (
	"math"
	"sort"

	"github.com/ControladoriaGen/analitico-cdi/internal/model"
	"github.com/ControladoriaGen/analitico-cdi/internal/parser"
)

// sinalEpsilon é a tolerância do selo "na média".
const sinalEpsilon = 1e-9

// Classify compara um valor com a média do grupo: acima, abaixo ou na média
// (diferença menor que o épsilon). Sem teste de significância — é só o selo
// visual da tabela de placas.
func Classify(valor, media float64) model.Badge {
	diff := valor - media
	switch {
	case math.Abs(diff) < sinalEpsilon:
		return model.BadgeMedia
	case diff > 0:
		return model.BadgeAcima
	default:
		return model.BadgeAbaixo
	}
}

// Sum acumula os KPIs do conjunto. Puro: não toca nos registros.
func Sum(rows []model.Record) model.Totals {
	var t model.Totals
	for i := range rows {
		r := &rows[i]
		t.Receita += r.Receita
		t.Custo += r.CustoTotal
		t.Entregas += r.Entregas
		t.Coletas += r.Coletas
		t.CTRCs += r.CTRCs
		t.Peso += r.Peso
	}
	return t
}

// groupRows agrupa preservando a ordem de primeira aparição da chave.
func groupRows(rows []model.Record, key func(*model.Record) string) ([]string, map[string][]*model.Record) {
	var order []string
	groups := make(map[string][]*model.Record)
	for i := range rows {
		k := key(&rows[i])
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], &rows[i])
	}
	return order, groups
}

func sumPtrs(rows []*model.Record) model.Totals {
	var t model.Totals
	for _, r := range rows {
		t.Receita += r.Receita
		t.Custo += r.CustoTotal
		t.Entregas += r.Entregas
		t.Coletas += r.Coletas
		t.CTRCs += r.CTRCs
		t.Peso += r.Peso
	}
	return t
}

// ByUnit soma os KPIs por unidade, em ordem decrescente de receita
// (empates mantêm a ordem de entrada).
func ByUnit(rows []model.Record, roles parser.RoleMap) []model.GroupRow {
	if roles.Unit == "" {
		return nil
	}
	return byDimension(rows, func(r *model.Record) string { return r.Unidade })
}

// ByRel soma os KPIs por relacionamento.
func ByRel(rows []model.Record, roles parser.RoleMap) []model.GroupRow {
	if roles.Rel == "" {
		return nil
	}
	return byDimension(rows, func(r *model.Record) string { return r.Rel })
}

func byDimension(rows []model.Record, key func(*model.Record) string) []model.GroupRow {
	order, groups := groupRows(rows, key)
	out := make([]model.GroupRow, 0, len(order))
	for _, k := range order {
		t := sumPtrs(groups[k])
		out = append(out, model.GroupRow{
			Nome:     k,
			Receita:  t.Receita,
			Custo:    t.Custo,
			Entregas: t.Entregas,
			Coletas:  t.Coletas,
			CTRCs:    t.CTRCs,
			Peso:     t.Peso,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Receita > out[j].Receita })
	return out
}

// ByPlate soma os KPIs do dia por placa. Unidade/tipo/relacionamento da
// linha vêm do primeiro registro da placa.
func ByPlate(rows []model.Record, roles parser.RoleMap) []model.PlateRow {
	if roles.Plate == "" {
		return nil
	}
	order, groups := groupRows(rows, func(r *model.Record) string { return r.Placa })
	out := make([]model.PlateRow, 0, len(order))
	for _, k := range order {
		items := groups[k]
		t := sumPtrs(items)
		var retorno float64
		for _, r := range items {
			retorno += r.Retorno
		}
		out = append(out, model.PlateRow{
			Placa:    k,
			Unidade:  items[0].Unidade,
			Tipo:     items[0].Tipo,
			Rel:      items[0].Rel,
			Receita:  t.Receita,
			Custo:    t.Custo,
			Retorno:  retorno,
			Entregas: t.Entregas,
			Coletas:  t.Coletas,
			CTRCs:    t.CTRCs,
			Peso:     t.Peso,
		})
	}
	return out
}

// TopByReceita devolve as n placas de maior receita, decrescente.
func TopByReceita(plates []model.PlateRow, n int) []model.PlateRow {
	return rankPlates(plates, n, func(a, b *model.PlateRow) bool { return a.Receita > b.Receita })
}

// BottomByReceita devolve as n placas de menor receita, crescente.
func BottomByReceita(plates []model.PlateRow, n int) []model.PlateRow {
	return rankPlates(plates, n, func(a, b *model.PlateRow) bool { return a.Receita < b.Receita })
}

// TopByCusto devolve as n placas de maior custo, decrescente.
func TopByCusto(plates []model.PlateRow, n int) []model.PlateRow {
	return rankPlates(plates, n, func(a, b *model.PlateRow) bool { return a.Custo > b.Custo })
}

func rankPlates(plates []model.PlateRow, n int, less func(a, b *model.PlateRow) bool) []model.PlateRow {
	out := make([]model.PlateRow, len(plates))
	copy(out, plates)
	sort.SliceStable(out, func(i, j int) bool { return less(&out[i], &out[j]) })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// PlateSignals monta a visão Tipo de Veículo → Placa: cada registro do dia
// comparado à média do seu grupo (unidade, tipo). A média é por registro
// bruto do grupo, não por placa.
func PlateSignals(rows []model.Record, roles parser.RoleMap) []model.PlateSignalRow {
	if roles.Unit == "" || roles.Type == "" || roles.Plate == "" {
		return nil
	}

	type media struct{ peso, ctrcs, coletas, entregas float64 }
	key := func(r *model.Record) string { return r.Unidade + "||" + r.Tipo }

	order, groups := groupRows(rows, key)
	medias := make(map[string]media, len(order))
	for _, k := range order {
		items := groups[k]
		n := float64(len(items))
		if n == 0 {
			n = 1
		}
		t := sumPtrs(items)
		medias[k] = media{
			peso:     t.Peso / n,
			ctrcs:    t.CTRCs / n,
			coletas:  t.Coletas / n,
			entregas: t.Entregas / n,
		}
	}

	out := make([]model.PlateSignalRow, 0, len(rows))
	for i := range rows {
		r := &rows[i]
		m := medias[key(r)]
		sig := func(v, avg float64) model.SignalValue {
			return model.SignalValue{Valor: v, Media: avg, Badge: Classify(v, avg)}
		}
		out = append(out, model.PlateSignalRow{
			Unidade:  r.Unidade,
			Tipo:     r.Tipo,
			Placa:    r.Placa,
			Peso:     sig(r.Peso, m.peso),
			CTRCs:    sig(r.CTRCs, m.ctrcs),
			Coletas:  sig(r.Coletas, m.coletas),
			Entregas: sig(r.Entregas, m.entregas),
		})
	}
	return out
}

// CostBreakdown decompõe o custo do dia por componente Sum*. O percentual é
// sobre o custo total (zero quando o total é zero); as colunas de produção
// consideram só os registros em que aquele componente aparece com valor.
// Ordenação decrescente por valor, empates na ordem das colunas do arquivo.
func CostBreakdown(rows []model.Record, roles parser.RoleMap) []model.CostRow {
	if len(roles.CostComponents) == 0 {
		return nil
	}

	var total float64
	for i := range rows {
		total += rows[i].CustoTotal
	}

	out := make([]model.CostRow, 0, len(roles.CostComponents))
	for _, comp := range roles.CostComponents {
		row := model.CostRow{
			Nome:   parser.CostLabel(comp),
			Coluna: comp,
		}
		for i := range rows {
			r := &rows[i]
			v := r.Custos[comp]
			if v == 0 {
				continue
			}
			row.Valor += v
			row.CTRCs += r.CTRCs
			row.Coletas += r.Coletas
			row.Entregas += r.Entregas
			row.Peso += r.Peso
		}
		if total > 0 {
			row.Pct = row.Valor / total
		}
		out = append(out, row)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Valor > out[j].Valor })
	return out
}
