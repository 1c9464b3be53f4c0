package model

import "time"

// Record é uma linha da planilha CDI já tipada após a resolução de colunas.
// Métricas multi-coluna (entregas, coletas, CTRCs, peso) chegam aqui já
// somadas entre as colunas de mesma função. Colunas sem papel resolvido
// ficam em Extra, fora do núcleo de agregação.
type Record struct {
	Date *time.Time `json:"date"` // dia resolvido (hora descartada), nil se ilegível

	Unidade string `json:"unidade"`
	Tipo    string `json:"tipo"`
	Rel     string `json:"rel"`
	Placa   string `json:"placa"`

	Receita    float64 `json:"receita"`
	CustoTotal float64 `json:"custoTotal"`
	Retorno    float64 `json:"retorno"`

	Entregas float64 `json:"entregas"`
	Coletas  float64 `json:"coletas"`
	CTRCs    float64 `json:"ctrcs"`
	Peso     float64 `json:"peso"`

	// Custos por componente, chaveado pelo cabeçalho original (Sum*)
	Custos map[string]float64 `json:"custos,omitempty"`

	// Colunas não resolvidas, preservadas como texto
	Extra map[string]string `json:"-"`
}

// SameDay compara a data do registro com um dia (granularidade de dia).
func (r *Record) SameDay(day time.Time) bool {
	if r.Date == nil {
		return false
	}
	return r.Date.Equal(day)
}
