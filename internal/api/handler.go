// Package api expõe os painéis do CDI como endpoints JSON: sessão,
// recarga da planilha, tabelas agregadas, narrativa e administração de
// usuários.
package api

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ControladoriaGen/analitico-cdi/internal/analysis"
	"github.com/ControladoriaGen/analitico-cdi/internal/config"
	"github.com/ControladoriaGen/analitico-cdi/internal/loader"
	"github.com/ControladoriaGen/analitico-cdi/internal/model"
	"github.com/ControladoriaGen/analitico-cdi/internal/store"
	"github.com/ControladoriaGen/analitico-cdi/internal/users"
)

// chave do token do GitHub na tabela config
const configKeyGitHubToken = "github_token"

// substituível nos testes
var timeNow = time.Now

// session sessão autenticada em memória
type session struct {
	User      model.User
	CreatedAt time.Time
}

// Handler processador da API
type Handler struct {
	cfg    *config.AppConfig
	store  *store.Store
	dir    *users.Directory
	pub    *users.Publisher
	loader *loader.Loader

	mu         sync.RWMutex
	dataset    *analysis.Dataset
	sheetName  string
	loadedAt   time.Time
	appliedSeq int64

	seqMu   sync.Mutex
	lastSeq int64

	sessMu   sync.RWMutex
	sessions map[string]session
}

// NewHandler cria o processador da API
func NewHandler(cfg *config.AppConfig, st *store.Store, dir *users.Directory) *Handler {
	return &Handler{
		cfg:   cfg,
		store: st,
		dir:   dir,
		pub: &users.Publisher{
			APIBase: cfg.GitHub.APIBase,
			Owner:   cfg.GitHub.Owner,
			Repo:    cfg.GitHub.Repo,
			Branch:  cfg.GitHub.Branch,
			Path:    cfg.GitHub.Path,
		},
		loader:   loader.New(cfg.Planilha.URL, cfg.Planilha.AbaHint),
		sessions: make(map[string]session),
	}
}

// RegisterRoutes registra as rotas da API
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// sessão
	router.POST("/login", h.Login)

	auth := router.Group("", h.RequireSession())
	auth.POST("/logout", h.Logout)

	// recarga da planilha
	auth.POST("/reload", h.Reload)

	// painéis
	auth.GET("/status", h.GetStatus)
	auth.GET("/filters", h.GetFilters)
	auth.GET("/summary", h.GetSummary)
	auth.GET("/by-unit", h.GetByUnit)
	auth.GET("/by-plate", h.GetByPlate)
	auth.GET("/plate-signals", h.GetPlateSignals)
	auth.GET("/by-relationship", h.GetByRelationship)
	auth.GET("/cost-breakdown", h.GetCostBreakdown)
	auth.GET("/narrative", h.GetNarrative)
	auth.GET("/export", h.Export)

	// administração
	admin := auth.Group("/admin", h.RequireAdmin())
	admin.GET("/users", h.ListUsers)
	admin.PUT("/users", h.ReplaceUsers)
	admin.POST("/users/refresh", h.RefreshUsers)
	admin.POST("/users/publish", h.PublishUsers)
	admin.PUT("/token", h.SaveToken)
}

// snapshot lê o dataset atual sob lock de leitura
func (h *Handler) snapshot() (*analysis.Dataset, string, time.Time) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.dataset, h.sheetName, h.loadedAt
}
