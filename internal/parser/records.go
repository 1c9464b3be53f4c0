package parser

import (
	"strings"

	"github.com/ControladoriaGen/analitico-cdi/internal/model"
)

// BuildRecords converte as linhas posicionais da planilha em registros
// tipados segundo o RoleMap. Depois daqui o núcleo de agregação nunca mais
// vê cabeçalho cru. Células numéricas ilegíveis contribuem zero; data
// ilegível deixa Date nil e o registro fora da seleção por dia.
func BuildRecords(headers []string, rows [][]string, rm RoleMap) []model.Record {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		if _, ok := idx[h]; !ok {
			idx[h] = i
		}
	}

	cell := func(row []string, header string) string {
		if header == "" {
			return ""
		}
		i, ok := idx[header]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	num := func(row []string, header string) float64 {
		v, ok := CoerceNumber(cell(row, header))
		if !ok {
			return 0
		}
		return v
	}
	sumAll := func(row []string, hs []string) float64 {
		var total float64
		for _, h := range hs {
			total += num(row, h)
		}
		return total
	}

	resolved := make(map[string]bool)
	for _, h := range []string{rm.Date, rm.Unit, rm.Type, rm.Rel, rm.Plate, rm.Revenue, rm.TotalCost, rm.Return} {
		if h != "" {
			resolved[h] = true
		}
	}
	for _, hs := range [][]string{rm.Deliveries, rm.Pickups, rm.Waybills, rm.Weights, rm.CostComponents} {
		for _, h := range hs {
			resolved[h] = true
		}
	}

	records := make([]model.Record, 0, len(rows))
	for _, row := range rows {
		rec := model.Record{
			Unidade:    cell(row, rm.Unit),
			Tipo:       cell(row, rm.Type),
			Rel:        cell(row, rm.Rel),
			Placa:      cell(row, rm.Plate),
			Receita:    num(row, rm.Revenue),
			CustoTotal: num(row, rm.TotalCost),
			Retorno:    num(row, rm.Return),
			Entregas:   sumAll(row, rm.Deliveries),
			Coletas:    sumAll(row, rm.Pickups),
			CTRCs:      sumAll(row, rm.Waybills),
			Peso:       sumAll(row, rm.Weights),
		}

		if d, ok := CoerceDate(cell(row, rm.Date)); ok {
			rec.Date = &d
		}

		if len(rm.CostComponents) > 0 {
			rec.Custos = make(map[string]float64, len(rm.CostComponents))
			for _, h := range rm.CostComponents {
				rec.Custos[h] = num(row, h)
			}
		}

		for _, h := range headers {
			if h == "" || resolved[h] {
				continue
			}
			v := cell(row, h)
			if v == "" {
				continue
			}
			if rec.Extra == nil {
				rec.Extra = make(map[string]string)
			}
			rec.Extra[h] = v
		}

		records = append(records, rec)
	}

	return records
}
