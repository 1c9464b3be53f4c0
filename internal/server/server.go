package server

import (
	"context"
	"embed"
	"io/fs"
	"log"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/ControladoriaGen/analitico-cdi/internal/api"
	"github.com/ControladoriaGen/analitico-cdi/internal/config"
	"github.com/ControladoriaGen/analitico-cdi/internal/store"
	"github.com/ControladoriaGen/analitico-cdi/internal/users"
)

//go:embed all:static
var staticFiles embed.FS

// Server servidor HTTP do painel
type Server struct {
	router *gin.Engine
	store  *store.Store
	api    *api.Handler
}

// NewServer cria o servidor
func NewServer(cfg *config.AppConfig) *Server {
	devMode := cfg.Server.DevMode
	if !devMode {
		gin.SetMode(gin.ReleaseMode)
	}

	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		dataDir = cfg.Data.DataDir
	}
	dbPath := filepath.Join(dataDir, "analitico-cdi.db")

	sqliteStore, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Falha ao inicializar banco de dados: %v", err)
	}

	dir := users.NewDirectory(cfg.Usuarios.URL, sqliteStore)
	if err := dir.Refresh(context.Background()); err != nil {
		log.Printf("aviso: %v", err)
	}

	apiHandler := api.NewHandler(cfg, sqliteStore, dir)

	s := &Server{
		router: gin.Default(),
		store:  sqliteStore,
		api:    apiHandler,
	}

	s.setupRoutes()

	return s
}

// setupRoutes configura as rotas
func (s *Server) setupRoutes() {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	apiGroup := s.router.Group("/api")
	{
		s.api.RegisterRoutes(apiGroup)
	}

	// página inicial embutida
	sub, _ := fs.Sub(staticFiles, "static")

	s.router.GET("/", func(c *gin.Context) {
		data, _ := fs.ReadFile(sub, "index.html")
		c.Data(http.StatusOK, "text/html; charset=utf-8", data)
	})

	s.router.NoRoute(func(c *gin.Context) {
		data, _ := fs.ReadFile(sub, "index.html")
		c.Data(http.StatusOK, "text/html; charset=utf-8", data)
	})
}

// Run inicia o servidor
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Close libera os recursos do servidor
func (s *Server) Close() error {
	return s.store.Close()
}

// GetStore acesso ao banco (usado nos testes)
func (s *Server) GetStore() *store.Store {
	return s.store
}
