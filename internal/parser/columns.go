package parser

import "strings"

// RoleMap liga cada papel semântico ao(s) cabeçalho(s) reais encontrados no
// arquivo do dia. Papéis sem coluna correspondente ficam vazios e todo
// consumidor trata ausência como contribuição zero.
type RoleMap struct {
	Date  string
	Unit  string
	Type  string
	Rel   string
	Plate string

	Revenue   string // SumReceita_Líquida
	TotalCost string // SumDiária_Total
	Return    string // SumRetorno

	Deliveries []string // contém "entrega"
	Pickups    []string // contém "coleta"
	Waybills   []string // contém "ctrc"
	Weights    []string // contém "peso"

	// Toda coluna Sum* que não é receita, total, retorno nem o marcador CDI.
	// É daqui que sai a decomposição por tipo de custo, sem enumeração fixa.
	CostComponents []string
}

// costLabels traduz o cabeçalho técnico do export para o nome exibido.
var costLabels = map[string]string{}

func init() {
	put := func(raw, label string) { costLabels[NormalizeKey(raw)] = label }
	put("SumAjudante", "Custo de Ajudantes")
	put("SumComissão_de_Recepção", "Comissão de Recepção")
	put("SumDesconto_de_Coleta", "Desconto de Coletas")
	put("SumDiária_Fixa", "Diárias Fixas: Agregados")
	put("SumDiária_Manual", "Diária Manual")
	put("SumDiária_Percentual", "Pagamento Percentual: Agregados")
	put("SumEvento", "Diária de Eventos: Agregados")
	put("SumGurgelmix", "Eventos Gurgelmix: Agregados")
	put("SumHerbalife", "Eventos Herbalife: Agregados")
	put("SumSaída", "Pagamento de Saídas")
	put("SumSetor_400", "Pagamento Setor 400")
	put("SumCusto_Fixo__Frota", "Custo Fixo: Frota")
	put("SumCusto_Variável__Frota", "Custo Variável: Frota")
	put("SumSal___Enc___Frota", "Custo de MO: Frota")
	put("SumH_E__Frota", "Custo de HEX: Frota")
}

// CostLabel devolve o nome amigável de um componente de custo; sem entrada
// na tabela, cai no cabeçalho sem o prefixo Sum.
func CostLabel(header string) string {
	if label, ok := costLabels[NormalizeKey(header)]; ok {
		return label
	}
	return strings.TrimPrefix(strings.TrimPrefix(header, "Sum"), "sum")
}

// ResolveColumns identifica os papéis semânticos na lista de cabeçalhos.
// Função pura e idempotente: só depende da lista recebida. Papéis de coluna
// única ficam com o primeiro cabeçalho que casa; papéis de lista coletam
// todos, pois o export espalha a mesma métrica em colunas de nome parecido.
func ResolveColumns(headers []string) RoleMap {
	rm := RoleMap{}

	keys := make([]string, len(headers))
	for i, h := range headers {
		keys[i] = NormalizeKey(h)
	}

	findFirst := func(match func(string) bool) string {
		for i, k := range keys {
			if k != "" && match(k) {
				return headers[i]
			}
		}
		return ""
	}
	findAll := func(match func(string) bool) []string {
		var out []string
		for i, k := range keys {
			if k != "" && match(k) {
				out = append(out, headers[i])
			}
		}
		return out
	}

	rm.Date = findFirst(func(k string) bool { return containsAny(k, "datab", "databas", "data") })
	rm.Unit = findFirst(func(k string) bool { return strings.Contains(k, "unidade") })
	rm.Type = findFirst(func(k string) bool { return strings.Contains(k, "tipo") })
	rm.Rel = findFirst(func(k string) bool { return strings.Contains(k, "relaciona") })
	rm.Plate = findFirst(func(k string) bool { return strings.Contains(k, "placa") })

	rm.Revenue = findFirst(func(k string) bool { return containsAll(k, "sumreceita", "liquida") })
	rm.TotalCost = findFirst(func(k string) bool { return containsAll(k, "sumdiaria", "total") })
	rm.Return = findFirst(func(k string) bool { return strings.Contains(k, "sumretorno") })

	rm.Deliveries = findAll(func(k string) bool { return strings.Contains(k, "entrega") })
	rm.Pickups = findAll(func(k string) bool { return strings.Contains(k, "coleta") })
	rm.Waybills = findAll(func(k string) bool { return strings.Contains(k, "ctrc") })
	rm.Weights = findAll(func(k string) bool { return strings.Contains(k, "peso") })

	rm.CostComponents = findAll(isCostComponentKey)

	return rm
}

// isCostComponentKey decide se uma coluna Sum* entra na decomposição de
// custos: exclui receita, o total de diária, retorno e o marcador CDI.
func isCostComponentKey(k string) bool {
	if !strings.HasPrefix(k, "sum") {
		return false
	}
	if strings.Contains(k, "receita") {
		return false
	}
	if strings.Contains(k, "diariatotal") {
		return false
	}
	if strings.Contains(k, "retorno") {
		return false
	}
	if strings.Contains(k, "sumcdi") {
		return false
	}
	return true
}
