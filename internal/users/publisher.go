package users

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/carlmjohnson/requests"

	"github.com/ControladoriaGen/analitico-cdi/internal/model"
)

// Publisher grava o users.json no repositório via API de conteúdo do
// GitHub (GET para obter o sha atual, PUT para o novo conteúdo).
type Publisher struct {
	APIBase string
	Owner   string
	Repo    string
	Branch  string
	Path    string
}

type contentsResponse struct {
	SHA string `json:"sha"`
}

type putPayload struct {
	Message string `json:"message"`
	Content string `json:"content"`
	Branch  string `json:"branch"`
	SHA     string `json:"sha,omitempty"`
}

func (p *Publisher) contentsURL() string {
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s", p.APIBase, p.Owner, p.Repo, p.Path)
}

// currentSHA obtém o sha do arquivo no branch; retorna vazio se o
// arquivo ainda não existe (criação).
func (p *Publisher) currentSHA(ctx context.Context, token string) (string, error) {
	var resp contentsResponse
	err := requests.
		URL(p.contentsURL()).
		Param("ref", p.Branch).
		Header("Authorization", "Bearer "+token).
		Header("Accept", "application/vnd.github+json").
		ToJSON(&resp).
		Fetch(ctx)
	if err != nil {
		var re *requests.ResponseError
		if errors.As(err, &re) && re.StatusCode == http.StatusNotFound {
			return "", nil
		}
		return "", fmt.Errorf("falha ao consultar sha do users.json: %w", err)
	}
	return resp.SHA, nil
}

// Publish serializa a lista e grava no repositório. O commit leva uma
// mensagem fixa datável pelo histórico do próprio GitHub.
func (p *Publisher) Publish(ctx context.Context, token string, users []model.User) error {
	if token == "" {
		return fmt.Errorf("token do GitHub não configurado")
	}

	body, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return fmt.Errorf("falha ao serializar usuários: %w", err)
	}

	sha, err := p.currentSHA(ctx, token)
	if err != nil {
		return err
	}

	payload := putPayload{
		Message: "Atualiza usuários do painel",
		Content: base64.StdEncoding.EncodeToString(body),
		Branch:  p.Branch,
		SHA:     sha,
	}

	err = requests.
		URL(p.contentsURL()).
		Method(http.MethodPut).
		Header("Authorization", "Bearer "+token).
		Header("Accept", "application/vnd.github+json").
		BodyJSON(&payload).
		Fetch(ctx)
	if err != nil {
		var re *requests.ResponseError
		if errors.As(err, &re) {
			return fmt.Errorf("GitHub respondeu HTTP %d ao publicar users.json: %w", re.StatusCode, err)
		}
		return fmt.Errorf("falha ao publicar users.json: %w", err)
	}
	return nil
}
