package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ControladoriaGen/analitico-cdi/internal/model"
)

const ctxKeyUser = "usuario"

// LoginRequest credenciais de entrada
type LoginRequest struct {
	Usuario string `json:"usuario"`
	Senha   string `json:"senha"`
}

// LoginResponse sessão criada
type LoginResponse struct {
	Token   string     `json:"token"`
	Usuario model.User `json:"usuario"`
}

// Login autentica contra o diretório de usuários
// POST /api/login
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "json inválido"})
		return
	}

	user, ok := h.dir.Authenticate(strings.TrimSpace(req.Usuario), req.Senha)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Usuário ou senha inválidos"})
		return
	}

	token := uuid.NewString()
	h.sessMu.Lock()
	h.sessions[token] = session{User: user, CreatedAt: time.Now()}
	h.sessMu.Unlock()

	c.JSON(http.StatusOK, LoginResponse{
		Token:   token,
		Usuario: user.Public(),
	})
}

// Logout encerra a sessão do token apresentado
// POST /api/logout
func (h *Handler) Logout(c *gin.Context) {
	token := bearerToken(c)
	h.sessMu.Lock()
	delete(h.sessions, token)
	h.sessMu.Unlock()
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func bearerToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// RequireSession middleware que exige sessão válida
func (h *Handler) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "não autenticado"})
			return
		}

		h.sessMu.RLock()
		sess, ok := h.sessions[token]
		h.sessMu.RUnlock()
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "sessão expirada"})
			return
		}

		c.Set(ctxKeyUser, sess.User)
		c.Next()
	}
}

// RequireAdmin middleware que exige perfil admin
func (h *Handler) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "acesso restrito ao admin"})
			return
		}
		c.Next()
	}
}

// currentUser usuário da sessão corrente
func currentUser(c *gin.Context) model.User {
	v, ok := c.Get(ctxKeyUser)
	if !ok {
		return model.User{}
	}
	user, _ := v.(model.User)
	return user
}
