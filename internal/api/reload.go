package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ControladoriaGen/analitico-cdi/internal/analysis"
)

// ReloadResponse resultado de uma recarga
type ReloadResponse struct {
	Aba       string `json:"aba"`
	Registros int    `json:"registros"`
	// Descartada indica que uma recarga mais recente já foi aplicada
	// enquanto esta terminava; o dado carregado foi ignorado.
	Descartada bool `json:"descartada"`
}

// nextSeq emite um id de recarga estritamente crescente
func (h *Handler) nextSeq() int64 {
	h.seqMu.Lock()
	defer h.seqMu.Unlock()
	h.lastSeq++
	return h.lastSeq
}

// Reload baixa a planilha de novo e substitui o dataset em memória.
// Entre recargas concorrentes vale a última pedida: cada pedido recebe
// um id crescente e só é aplicado se nenhum id maior já foi aplicado.
// POST /api/reload
func (h *Handler) Reload(c *gin.Context) {
	seq := h.nextSeq()

	logID, err := h.store.CreateRecarga(h.cfg.Planilha.URL)
	if err != nil {
		log.Printf("aviso: falha ao registrar recarga: %v", err)
	}

	result, err := h.loader.Load(c.Request.Context())
	if err != nil {
		if logID != 0 {
			if ferr := h.store.FinishRecarga(logID, "", 0, "erro", err.Error()); ferr != nil {
				log.Printf("aviso: falha ao concluir registro de recarga: %v", ferr)
			}
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	ds := analysis.NewDataset(result.Records, result.Roles)

	h.mu.Lock()
	stale := seq <= h.appliedSeq
	if !stale {
		h.dataset = ds
		h.sheetName = result.SheetName
		h.loadedAt = timeNow()
		h.appliedSeq = seq
	}
	h.mu.Unlock()

	status := "ok"
	if stale {
		status = "descartada"
	}
	if logID != 0 {
		if ferr := h.store.FinishRecarga(logID, result.SheetName, len(result.Records), status, ""); ferr != nil {
			log.Printf("aviso: falha ao concluir registro de recarga: %v", ferr)
		}
	}

	c.JSON(http.StatusOK, ReloadResponse{
		Aba:        result.SheetName,
		Registros:  len(result.Records),
		Descartada: stale,
	})
}
