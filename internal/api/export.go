package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ControladoriaGen/analitico-cdi/internal/analysis"
	"github.com/ControladoriaGen/analitico-cdi/internal/export"
)

// Export baixa o relatório do dia em XLSX
// GET /api/export
func (h *Handler) Export(c *gin.Context) {
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

	wb, err := export.NewExporter().Export(export.Input{
		Data:     ds.Current,
		Unidade:  unidade,
		Totais:   analysis.Sum(rows),
		Unidades: analysis.ByUnit(rows, ds.Roles),
		Placas:   analysis.ByPlate(rows, ds.Roles),
		Rel:      analysis.ByRel(rows, ds.Roles),
		Custos:   analysis.CostBreakdown(rows, ds.Roles),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer wb.Close()

	filename := fmt.Sprintf("cdi-%s.xlsx", ds.Current.Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := wb.Write(c.Writer); err != nil {
		// cabeçalhos já enviados; só registra no log do gin
		_ = c.Error(err)
	}
}
