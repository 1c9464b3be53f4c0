package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ControladoriaGen/analitico-cdi/internal/model"
	"github.com/ControladoriaGen/analitico-cdi/internal/store"
)

// ListUsers lista os usuários (senhas incluídas: a tela de administração
// edita o users.json completo, como no repositório publicado)
// GET /api/admin/users
func (h *Handler) ListUsers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": h.dir.List()})
}

// ReplaceUsers substitui a lista local de usuários
// PUT /api/admin/users
func (h *Handler) ReplaceUsers(c *gin.Context) {
	var req []model.User
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "json inválido"})
		return
	}
	if err := h.dir.Replace(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": h.dir.List()})
}

// RefreshUsers rebusca o users.json remoto
// POST /api/admin/users/refresh
func (h *Handler) RefreshUsers(c *gin.Context) {
	if err := h.dir.Refresh(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": h.dir.List()})
}

// PublishUsers publica a lista local no repositório GitHub
// POST /api/admin/users/publish
func (h *Handler) PublishUsers(c *gin.Context) {
	token, err := h.store.GetConfig(configKeyGitHubToken)
	if err != nil {
		if errors.Is(err, store.ErrConfigNaoEncontrada) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "token do GitHub não configurado"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := h.pub.Publish(c.Request.Context(), token, h.dir.List()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// SaveTokenRequest corpo do PUT /api/admin/token
type SaveTokenRequest struct {
	Token string `json:"token"`
}

// SaveToken guarda o token do GitHub no banco local (nunca volta em
// respostas)
// PUT /api/admin/token
func (h *Handler) SaveToken(c *gin.Context) {
	var req SaveTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "json inválido"})
		return
	}
	token := strings.TrimSpace(req.Token)
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token vazio"})
		return
	}
	if err := h.store.SetConfig(configKeyGitHubToken, token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
