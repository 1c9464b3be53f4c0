package users

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ControladoriaGen/analitico-cdi/internal/model"
)

func publisherDeTeste(apiBase string) *Publisher {
	return &Publisher{
		APIBase: apiBase,
		Owner:   "ControladoriaGen",
		Repo:    "analitico-cdi",
		Branch:  "main",
		Path:    "public/users.json",
	}
}

func TestPublish_AtualizacaoComSHA(t *testing.T) {
	var gotPut struct {
		Message string `json:"message"`
		Content string `json:"content"`
		Branch  string `json:"branch"`
		SHA     string `json:"sha"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/ControladoriaGen/analitico-cdi/contents/public/users.json" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer ghp_abc" {
			t.Errorf("Authorization = %q", got)
		}
		switch r.Method {
		case http.MethodGet:
			if r.URL.Query().Get("ref") != "main" {
				t.Errorf("ref = %q", r.URL.Query().Get("ref"))
			}
			_ = json.NewEncoder(w).Encode(map[string]string{"sha": "sha-atual"})
		case http.MethodPut:
			if err := json.NewDecoder(r.Body).Decode(&gotPut); err != nil {
				t.Errorf("decode put: %v", err)
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
		default:
			t.Errorf("método inesperado %s", r.Method)
		}
	}))
	defer srv.Close()

	p := publisherDeTeste(srv.URL)
	lista := []model.User{{Usuario: "admin", Senha: "x", Perfil: model.PerfilAdmin}}

	if err := p.Publish(context.Background(), "ghp_abc", lista); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if gotPut.SHA != "sha-atual" || gotPut.Branch != "main" {
		t.Fatalf("payload: %+v", gotPut)
	}

	// o conteúdo é a lista em JSON, base64
	raw, err := base64.StdEncoding.DecodeString(gotPut.Content)
	if err != nil {
		t.Fatalf("decode content: %v", err)
	}
	var publicada []model.User
	if err := json.Unmarshal(raw, &publicada); err != nil {
		t.Fatalf("unmarshal content: %v", err)
	}
	if len(publicada) != 1 || publicada[0].Usuario != "admin" {
		t.Fatalf("conteúdo publicado: %+v", publicada)
	}
}

func TestPublish_CriacaoSemSHA(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			// arquivo ainda não existe no branch
			http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
		case http.MethodPut:
			var payload map[string]any
			_ = json.NewDecoder(r.Body).Decode(&payload)
			if sha, ok := payload["sha"]; ok && sha != "" {
				t.Errorf("sha não deveria ir na criação: %v", sha)
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
		}
	}))
	defer srv.Close()

	p := publisherDeTeste(srv.URL)
	if err := p.Publish(context.Background(), "ghp_abc", nil); err != nil {
		t.Fatalf("Publish: %v", err)
	}
}

func TestPublish_SemToken(t *testing.T) {
	t.Parallel()

	p := publisherDeTeste("http://irrelevante")
	if err := p.Publish(context.Background(), "", nil); err == nil {
		t.Fatalf("publicação sem token deveria falhar")
	}
}

func TestPublish_ErroDoGitHub(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode(map[string]string{"sha": "s"})
		case http.MethodPut:
			http.Error(w, `{"message":"Bad credentials"}`, http.StatusUnauthorized)
		}
	}))
	defer srv.Close()

	p := publisherDeTeste(srv.URL)
	err := p.Publish(context.Background(), "ghp_ruim", nil)
	if err == nil {
		t.Fatalf("erro do GitHub deveria subir")
	}
}
