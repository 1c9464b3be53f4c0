package analysis

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ControladoriaGen/analitico-cdi/internal/model"
)

// Narrative gera o parágrafo de análise automática do dia: unidade, data,
// totais, placa de maior receita, placa de maior custo, tipo de custo
// dominante, alerta de baixa eficiência e as sugestões fixas. Concatenação
// templated sobre agregados já calculados.
func Narrative(unidade string, lastDate time.Time, totals model.Totals, plates []model.PlateRow, costs []model.CostRow) string {
	uniTxt := unidade
	if wantsAll(unidade) {
		uniTxt = "todas"
	}

	parts := []string{
		fmt.Sprintf("Unidade: %s. Dia %s.", uniTxt, FormatDate(lastDate)),
		fmt.Sprintf("Receita %s e custo %s; produção: %s entregas, %s coletas, %s CTRCs e %s kg.",
			FormatBRL(totals.Receita), FormatBRL(totals.Custo),
			FormatInt(totals.Entregas), FormatInt(totals.Coletas),
			FormatInt(totals.CTRCs), FormatKg(totals.Peso)),
	}

	if top := maxPlate(plates, func(p *model.PlateRow) float64 { return p.Receita }); top != nil && top.Receita > 0 {
		parts = append(parts, fmt.Sprintf("Maior receita no dia: placa %s com %s.", top.Placa, FormatBRL(top.Receita)))
	}
	if top := maxPlate(plates, func(p *model.PlateRow) float64 { return p.Custo }); top != nil && top.Custo > 0 {
		parts = append(parts, fmt.Sprintf("Maior custo no dia: placa %s com %s.", top.Placa, FormatBRL(top.Custo)))
	}
	if len(costs) > 0 && costs[0].Valor > 0 {
		parts = append(parts, fmt.Sprintf("Tipo de custo com maior impacto: %s (%s%% do custo total).",
			costs[0].Nome, FormatPct(costs[0].Pct)))
	}
	// custo alto frente à produção (entregas + coletas)
	if worst := maxPlate(plates, func(p *model.PlateRow) float64 { return p.Custo - p.Entregas - p.Coletas }); worst != nil {
		parts = append(parts, fmt.Sprintf("Atenção para baixa eficiência: placa %s com custo elevado frente à produção; avaliar escala, roteirização e relacionamento.", worst.Placa))
	}

	parts = append(parts, "Sugestões: priorizar veículos com maior receita por operação; reduzir componentes de custo líderes; reavaliar diárias e eventos em placas com baixa produção; conferir devoluções/retornos e causas.")

	return strings.Join(parts, " ")
}

func maxPlate(plates []model.PlateRow, metric func(*model.PlateRow) float64) *model.PlateRow {
	if len(plates) == 0 {
		return nil
	}
	sorted := make([]model.PlateRow, len(plates))
	copy(sorted, plates)
	sort.SliceStable(sorted, func(i, j int) bool { return metric(&sorted[i]) > metric(&sorted[j]) })
	return &sorted[0]
}
