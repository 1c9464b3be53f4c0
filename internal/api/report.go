package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ControladoriaGen/analitico-cdi/internal/analysis"
	"github.com/ControladoriaGen/analitico-cdi/internal/model"
)

// filterFromQuery monta o filtro da requisição. Usuário com unidade
// fixa sempre enxerga só a própria unidade, ignorando o parâmetro.
func filterFromQuery(c *gin.Context) analysis.Filter {
	f := analysis.Filter{
		Unidade: c.Query("unidade"),
		Tipo:    c.Query("tipo"),
		Rel:     c.Query("rel"),
	}
	if u := currentUser(c); u.Unidade != "" {
		f.Unidade = u.Unidade
	}
	return f
}

// requireDataset responde 409 quando a planilha ainda não foi carregada
func (h *Handler) requireDataset(c *gin.Context) (*analysis.Dataset, bool) {
	ds, _, _ := h.snapshot()
	if ds == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "planilha ainda não carregada"})
		return nil, false
	}
	return ds, true
}

// StatusResponse estado do sistema
type StatusResponse struct {
	Carregado    bool   `json:"carregado"`
	Aba          string `json:"aba"`
	Registros    int    `json:"registros"`
	UltimaData   string `json:"ultimaData"`
	DataAnterior string `json:"dataAnterior"`
	CarregadoEm  string `json:"carregadoEm"`
	// CargaID é o id da recarga atualmente aplicada
	CargaID int64 `json:"cargaId"`
}

// GetStatus estado do sistema
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	h.mu.RLock()
	ds, sheet, loadedAt, seq := h.dataset, h.sheetName, h.loadedAt, h.appliedSeq
	h.mu.RUnlock()

	if ds == nil {
		c.JSON(http.StatusOK, StatusResponse{Carregado: false})
		return
	}
	c.JSON(http.StatusOK, StatusResponse{
		Carregado:    true,
		Aba:          sheet,
		Registros:    len(ds.Records),
		UltimaData:   analysis.FormatDate(ds.Current),
		DataAnterior: analysis.FormatDate(ds.Previous),
		CarregadoEm:  loadedAt.Format("02/01/2006 15:04:05"),
		CargaID:      seq,
	})
}

// GetFilters opções de filtro (valores distintos, ordenados)
// GET /api/filters
func (h *Handler) GetFilters(c *gin.Context) {
	ds, ok := h.requireDataset(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ds.Options())
}

// SummaryResponse KPIs do dia com comparação ao dia anterior
type SummaryResponse struct {
	Data     string       `json:"data"`
	Totais   model.Totals `json:"totais"`
	Anterior model.Totals `json:"anterior"`
	Delta    model.Totals `json:"delta"`
}

// GetSummary KPIs do dia filtrado
// GET /api/summary?unidade=&tipo=&rel=
func (h *Handler) GetSummary(c *gin.Context) {
	ds, ok := h.requireDataset(c)
	if !ok {
		return
	}
	f := filterFromQuery(c)

	atual := analysis.Sum(ds.CurrentDay(f))
	anterior := analysis.Sum(ds.PreviousDay(f))

	c.JSON(http.StatusOK, SummaryResponse{
		Data:     analysis.FormatDate(ds.Current),
		Totais:   atual,
		Anterior: anterior,
		Delta: model.Totals{
			Receita:  atual.Receita - anterior.Receita,
			Custo:    atual.Custo - anterior.Custo,
			Entregas: atual.Entregas - anterior.Entregas,
			Coletas:  atual.Coletas - anterior.Coletas,
			CTRCs:    atual.CTRCs - anterior.CTRCs,
			Peso:     atual.Peso - anterior.Peso,
		},
	})
}

// GetByUnit agregados por unidade
// GET /api/by-unit
func (h *Handler) GetByUnit(c *gin.Context) {
	ds, ok := h.requireDataset(c)
	if !ok {
		return
	}
	rows := ds.CurrentDay(filterFromQuery(c))
	c.JSON(http.StatusOK, gin.H{"items": analysis.ByUnit(rows, ds.Roles)})
}

// ByPlateResponse agregados por placa com os destaques do dia
type ByPlateResponse struct {
	Items         []model.PlateRow `json:"items"`
	TopReceita    []model.PlateRow `json:"topReceita"`
	BottomReceita []model.PlateRow `json:"bottomReceita"`
	TopCusto      []model.PlateRow `json:"topCusto"`
}

// GetByPlate agregados por placa, com top/bottom 10 de receita e top 10
// de custo
// GET /api/by-plate
func (h *Handler) GetByPlate(c *gin.Context) {
	ds, ok := h.requireDataset(c)
	if !ok {
		return
	}
	rows := ds.CurrentDay(filterFromQuery(c))
	plates := analysis.ByPlate(rows, ds.Roles)
	c.JSON(http.StatusOK, ByPlateResponse{
		Items:         plates,
		TopReceita:    analysis.TopByReceita(plates, 10),
		BottomReceita: analysis.BottomByReceita(plates, 10),
		TopCusto:      analysis.TopByCusto(plates, 10),
	})
}

// GetPlateSignals visão Tipo de Veículo → Placa com selos de comparação
// GET /api/plate-signals
func (h *Handler) GetPlateSignals(c *gin.Context) {
	ds, ok := h.requireDataset(c)
	if !ok {
		return
	}
	rows := ds.CurrentDay(filterFromQuery(c))
	c.JSON(http.StatusOK, gin.H{"items": analysis.PlateSignals(rows, ds.Roles)})
}

// GetByRelationship agregados por relacionamento
// GET /api/by-relationship
func (h *Handler) GetByRelationship(c *gin.Context) {
	ds, ok := h.requireDataset(c)
	if !ok {
		return
	}
	rows := ds.CurrentDay(filterFromQuery(c))
	c.JSON(http.StatusOK, gin.H{"items": analysis.ByRel(rows, ds.Roles)})
}

// GetCostBreakdown decomposição dos tipos de custo
// GET /api/cost-breakdown
func (h *Handler) GetCostBreakdown(c *gin.Context) {
	ds, ok := h.requireDataset(c)
	if !ok {
		return
	}
	rows := ds.CurrentDay(filterFromQuery(c))
	c.JSON(http.StatusOK, gin.H{"items": analysis.CostBreakdown(rows, ds.Roles)})
}

// GetNarrative parágrafo de análise do dia
// GET /api/narrative
func (h *Handler) GetNarrative(c *gin.Context) {
	ds, ok := h.requireDataset(c)
	if !ok {
		return
	}
	f := filterFromQuery(c)
	rows := ds.CurrentDay(f)

	unidade := f.Unidade
	if unidade == "" {
		unidade = analysis.FilterAll
	}

	texto := analysis.Narrative(
		unidade,
		ds.Current,
		analysis.Sum(rows),
		analysis.ByPlate(rows, ds.Roles),
		analysis.CostBreakdown(rows, ds.Roles),
	)
	c.JSON(http.StatusOK, gin.H{"texto": texto})
}
