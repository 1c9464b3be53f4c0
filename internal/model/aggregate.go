package model

// Badge é a classificação de um valor contra a média do grupo.
type Badge string

const (
	BadgeAcima  Badge = "acima"
	BadgeAbaixo Badge = "abaixo"
	BadgeMedia  Badge = "media"
)

// Totals são os KPIs do dia para o conjunto filtrado.
type Totals struct {
	Receita  float64 `json:"receita"`
	Custo    float64 `json:"custo"`
	Entregas float64 `json:"entregas"`
	Coletas  float64 `json:"coletas"`
	CTRCs    float64 `json:"ctrcs"`
	Peso     float64 `json:"peso"`
}

// GroupRow é uma linha agregada por unidade ou por relacionamento.
type GroupRow struct {
	Nome     string  `json:"nome"`
	Receita  float64 `json:"receita"`
	Custo    float64 `json:"custo"`
	Entregas float64 `json:"entregas"`
	Coletas  float64 `json:"coletas"`
	CTRCs    float64 `json:"ctrcs"`
	Peso     float64 `json:"peso"`
}

// PlateRow é o agregado do dia de uma placa.
type PlateRow struct {
	Placa    string  `json:"placa"`
	Unidade  string  `json:"unidade"`
	Tipo     string  `json:"tipo"`
	Rel      string  `json:"rel"`
	Receita  float64 `json:"receita"`
	Custo    float64 `json:"custo"`
	Retorno  float64 `json:"retorno"`
	Entregas float64 `json:"entregas"`
	Coletas  float64 `json:"coletas"`
	CTRCs    float64 `json:"ctrcs"`
	Peso     float64 `json:"peso"`
}

// SignalValue é um valor de produção com a média do grupo (unidade, tipo)
// e o selo de comparação.
type SignalValue struct {
	Valor float64 `json:"valor"`
	Media float64 `json:"media"`
	Badge Badge   `json:"badge"`
}

// PlateSignalRow é uma linha da visão Tipo de Veículo → Placa.
type PlateSignalRow struct {
	Unidade  string      `json:"unidade"`
	Tipo     string      `json:"tipo"`
	Placa    string      `json:"placa"`
	Peso     SignalValue `json:"peso"`
	CTRCs    SignalValue `json:"ctrcs"`
	Coletas  SignalValue `json:"coletas"`
	Entregas SignalValue `json:"entregas"`
}

// CostRow é uma linha da decomposição de tipos de custo. As colunas de
// produção consideram apenas os registros em que o componente é não nulo.
type CostRow struct {
	Nome     string  `json:"nome"`
	Coluna   string  `json:"coluna"`
	Valor    float64 `json:"valor"`
	Pct      float64 `json:"pct"`
	CTRCs    float64 `json:"ctrcs"`
	Coletas  float64 `json:"coletas"`
	Entregas float64 `json:"entregas"`
	Peso     float64 `json:"peso"`
}
