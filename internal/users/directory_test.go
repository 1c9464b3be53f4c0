package users

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/ControladoriaGen/analitico-cdi/internal/model"
	"github.com/ControladoriaGen/analitico-cdi/internal/store"
)

func novoStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "analitico-cdi.db"))
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

const usersJSON = `[
	{"usuario": "admin", "senha": "s3nh4", "perfil": "admin"},
	{"usuario": "bhz", "senha": "x", "perfil": "user", "unidade": "BHZ"},
	{"usuario": "", "senha": "ignorado"}
]`

func TestRefresh_FonteRemota(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// o fetch também fura o cache
		if r.URL.Query().Get("t") == "" {
			t.Errorf("cache-bust ausente")
		}
		_, _ = w.Write([]byte(usersJSON))
	}))
	defer srv.Close()

	st := novoStore(t)
	d := NewDirectory(srv.URL, st)
	if err := d.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	// entrada sem usuário é descartada
	lista := d.List()
	if len(lista) != 2 {
		t.Fatalf("lista = %+v", lista)
	}

	// a lista remota fica espelhada no banco
	cache, err := st.GetUsuariosCache()
	if err != nil || len(cache) != 2 {
		t.Fatalf("cache: %+v %v", cache, err)
	}
}

func TestRefresh_CaiParaCacheLocal(t *testing.T) {
	st := novoStore(t)
	if err := st.ReplaceUsuariosCache([]model.User{
		{Usuario: "offline", Senha: "x", Perfil: model.PerfilUser},
	}); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "fora do ar", http.StatusBadGateway)
	}))
	defer srv.Close()

	d := NewDirectory(srv.URL, st)
	if err := d.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh deveria cair para o cache: %v", err)
	}

	if _, ok := d.Authenticate("offline", "x"); !ok {
		t.Fatalf("cache local não usado")
	}
}

func TestRefresh_UsuarioSemente(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "fora do ar", http.StatusBadGateway)
	}))
	defer srv.Close()

	d := NewDirectory(srv.URL, novoStore(t))
	// sem fonte remota nem cache, o erro sobe mas o acesso semente vale
	_ = d.Refresh(context.Background())

	u, ok := d.Authenticate("admin", "admin")
	if !ok || !u.IsAdmin() {
		t.Fatalf("semente ausente: %+v ok=%v", u, ok)
	}
}

func TestAuthenticate(t *testing.T) {
	st := novoStore(t)
	d := NewDirectory("http://irrelevante", st)
	if err := d.Replace([]model.User{
		{Usuario: "admin", Senha: "s3nh4", Perfil: model.PerfilAdmin},
	}); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	if _, ok := d.Authenticate("admin", "s3nh4"); !ok {
		t.Fatalf("credencial válida rejeitada")
	}
	if _, ok := d.Authenticate("admin", "errada"); ok {
		t.Fatalf("senha errada aceita")
	}
	if _, ok := d.Authenticate("ninguem", "s3nh4"); ok {
		t.Fatalf("usuário inexistente aceito")
	}
}

func TestReplace_Validacao(t *testing.T) {
	d := NewDirectory("http://irrelevante", novoStore(t))

	if err := d.Replace(nil); err == nil {
		t.Fatalf("lista vazia aceita")
	}
	// sem admin ninguém mais consegue publicar
	if err := d.Replace([]model.User{{Usuario: "a", Senha: "b", Perfil: model.PerfilUser}}); err == nil {
		t.Fatalf("lista sem admin aceita")
	}
	// perfil desconhecido vira user
	if err := d.Replace([]model.User{
		{Usuario: "root", Senha: "x", Perfil: model.PerfilAdmin},
		{Usuario: "b", Senha: "y", Perfil: "gerente"},
	}); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	for _, u := range d.List() {
		if u.Usuario == "b" && u.Perfil != model.PerfilUser {
			t.Fatalf("perfil não normalizado: %+v", u)
		}
	}
}
