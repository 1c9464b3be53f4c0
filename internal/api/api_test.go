package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/ControladoriaGen/analitico-cdi/internal/config"
	"github.com/ControladoriaGen/analitico-cdi/internal/model"
	"github.com/ControladoriaGen/analitico-cdi/internal/store"
	"github.com/ControladoriaGen/analitico-cdi/internal/users"
)

// planilhaCDI monta o xlsx de teste com dois dias de movimento.
func planilhaCDI(t *testing.T) []byte {
	t.Helper()

	f := excelize.NewFile()
	const aba = "CDIAutomtico1"
	if err := f.SetSheetName("Sheet1", aba); err != nil {
		t.Fatalf("renomear aba: %v", err)
	}
	linhas := [][]any{
		{"Data_Base", "Unidade", "Tipo de Veículo", "Relacionamento", "Placa", "SumReceita_Líquida", "SumDiária_Total", "SumEntregas", "SumColetas", "SumCTRCs", "SumPeso", "SumAjudante"},
		{"04/08/2026", "BHZ", "Truck", "Agregado", "AAA1A11", "100", "60", 5, 1, 8, 400, 20},
		{"05/08/2026", "BHZ", "Truck", "Agregado", "AAA1A11", "150", "70", 6, 2, 9, 500, 25},
		{"05/08/2026", "SPO", "Van", "Frota", "BBB2B22", "250", "95", 9, 3, 12, 300, 0},
	}
	for i, linha := range linhas {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("célula: %v", err)
		}
		if err := f.SetSheetRow(aba, cell, &linha); err != nil {
			t.Fatalf("linha %d: %v", i+1, err)
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	_ = f.Close()
	return buf.Bytes()
}

type ambiente struct {
	router *gin.Engine
	st     *store.Store
	dir    *users.Directory
}

// novoAmbiente sobe a API completa contra servidores falsos de planilha e
// de GitHub.
func novoAmbiente(t *testing.T, github http.Handler) *ambiente {
	t.Helper()
	gin.SetMode(gin.TestMode)

	planilha := planilhaCDI(t)
	spSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(planilha)
	}))
	t.Cleanup(spSrv.Close)

	ghURL := "http://127.0.0.1:0"
	if github != nil {
		ghSrv := httptest.NewServer(github)
		t.Cleanup(ghSrv.Close)
		ghURL = ghSrv.URL
	}

	cfg := config.DefaultConfig()
	cfg.Planilha.URL = spSrv.URL
	cfg.Usuarios.URL = "http://127.0.0.1:0/users.json" // fora do ar: vale o semente
	cfg.GitHub.APIBase = ghURL

	st, err := store.New(filepath.Join(t.TempDir(), "analitico-cdi.db"))
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	dir := users.NewDirectory(cfg.Usuarios.URL, st)
	_ = dir.Refresh(context.Background())

	h := NewHandler(cfg, st, dir)
	router := gin.New()
	h.RegisterRoutes(router.Group("/api"))

	return &ambiente{router: router, st: st, dir: dir}
}

func (a *ambiente) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *ambiente) login(t *testing.T, usuario, senha string) string {
	t.Helper()

	w := a.do(t, http.MethodPost, "/api/login", "", LoginRequest{Usuario: usuario, Senha: senha})
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: HTTP %d: %s", usuario, w.Code, w.Body.String())
	}
	var resp LoginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	return resp.Token
}

func TestLogin_CredenciaisInvalidas(t *testing.T) {
	a := novoAmbiente(t, nil)

	w := a.do(t, http.MethodPost, "/api/login", "", LoginRequest{Usuario: "admin", Senha: "errada"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("HTTP %d", w.Code)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("Usuário ou senha inválidos")) {
		t.Fatalf("mensagem: %s", w.Body.String())
	}
}

func TestAPI_ExigeSessao(t *testing.T) {
	a := novoAmbiente(t, nil)

	if w := a.do(t, http.MethodGet, "/api/summary", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("sem token: HTTP %d", w.Code)
	}
	if w := a.do(t, http.MethodGet, "/api/summary", "token-inventado", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("token inválido: HTTP %d", w.Code)
	}
}

func TestReloadESummary(t *testing.T) {
	a := novoAmbiente(t, nil)
	token := a.login(t, "admin", "admin")

	// antes da carga os painéis avisam
	if w := a.do(t, http.MethodGet, "/api/summary", token, nil); w.Code != http.StatusConflict {
		t.Fatalf("sem dataset: HTTP %d", w.Code)
	}

	w := a.do(t, http.MethodPost, "/api/reload", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("reload: HTTP %d: %s", w.Code, w.Body.String())
	}
	var rr ReloadResponse
	_ = json.Unmarshal(w.Body.Bytes(), &rr)
	if rr.Aba != "CDIAutomtico1" || rr.Registros != 3 || rr.Descartada {
		t.Fatalf("reload: %+v", rr)
	}

	// a recarga fica no histórico
	logs, err := a.st.ListRecargas(5)
	if err != nil || len(logs) != 1 || logs[0].Status != "ok" {
		t.Fatalf("histórico: %+v %v", logs, err)
	}

	w = a.do(t, http.MethodGet, "/api/status", token, nil)
	var st StatusResponse
	_ = json.Unmarshal(w.Body.Bytes(), &st)
	if !st.Carregado || st.Registros != 3 || st.UltimaData != "05/08/2026" || st.CargaID != 1 {
		t.Fatalf("status: %+v", st)
	}

	w = a.do(t, http.MethodGet, "/api/summary", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("summary: HTTP %d", w.Code)
	}
	var sum SummaryResponse
	_ = json.Unmarshal(w.Body.Bytes(), &sum)

	// só o dia 05 entra nos totais; o 04 vira base do delta
	if sum.Data != "05/08/2026" {
		t.Fatalf("Data = %q", sum.Data)
	}
	if sum.Totais.Receita != 400 || sum.Totais.Custo != 165 {
		t.Fatalf("Totais = %+v", sum.Totais)
	}
	if sum.Anterior.Receita != 100 || sum.Delta.Receita != 300 {
		t.Fatalf("tendência = %+v / %+v", sum.Anterior, sum.Delta)
	}
}

func TestSummary_FiltroPorUnidade(t *testing.T) {
	a := novoAmbiente(t, nil)
	token := a.login(t, "admin", "admin")
	a.do(t, http.MethodPost, "/api/reload", token, nil)

	w := a.do(t, http.MethodGet, "/api/summary?unidade=SPO", token, nil)
	var sum SummaryResponse
	_ = json.Unmarshal(w.Body.Bytes(), &sum)
	if sum.Totais.Receita != 250 {
		t.Fatalf("filtro unidade: %+v", sum.Totais)
	}
}

func TestUsuarioComUnidadeFixa(t *testing.T) {
	a := novoAmbiente(t, nil)
	admin := a.login(t, "admin", "admin")
	a.do(t, http.MethodPost, "/api/reload", admin, nil)

	if err := a.dir.Replace([]model.User{
		{Usuario: "admin", Senha: "admin", Perfil: model.PerfilAdmin},
		{Usuario: "bhz", Senha: "x", Perfil: model.PerfilUser, Unidade: "BHZ"},
	}); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	token := a.login(t, "bhz", "x")

	// o parâmetro de unidade é ignorado para quem tem unidade fixa
	w := a.do(t, http.MethodGet, "/api/summary?unidade=SPO", token, nil)
	var sum SummaryResponse
	_ = json.Unmarshal(w.Body.Bytes(), &sum)
	if sum.Totais.Receita != 150 {
		t.Fatalf("unidade fixa não valeu: %+v", sum.Totais)
	}
}

func TestPaineisAgregados(t *testing.T) {
	a := novoAmbiente(t, nil)
	token := a.login(t, "admin", "admin")
	a.do(t, http.MethodPost, "/api/reload", token, nil)

	w := a.do(t, http.MethodGet, "/api/filters", token, nil)
	if w.Code != http.StatusOK || !bytes.Contains(w.Body.Bytes(), []byte("BHZ")) {
		t.Fatalf("filters: %d %s", w.Code, w.Body.String())
	}

	w = a.do(t, http.MethodGet, "/api/by-plate", token, nil)
	var placas ByPlateResponse
	_ = json.Unmarshal(w.Body.Bytes(), &placas)
	if len(placas.Items) != 2 {
		t.Fatalf("placas: %+v", placas.Items)
	}
	if placas.TopReceita[0].Placa != "BBB2B22" {
		t.Fatalf("top receita: %+v", placas.TopReceita)
	}

	w = a.do(t, http.MethodGet, "/api/by-unit", token, nil)
	if !bytes.Contains(w.Body.Bytes(), []byte(`"nome":"SPO"`)) {
		t.Fatalf("by-unit: %s", w.Body.String())
	}

	w = a.do(t, http.MethodGet, "/api/cost-breakdown", token, nil)
	if !bytes.Contains(w.Body.Bytes(), []byte("Custo de Ajudantes")) {
		t.Fatalf("cost-breakdown: %s", w.Body.String())
	}

	w = a.do(t, http.MethodGet, "/api/narrative", token, nil)
	if !bytes.Contains(w.Body.Bytes(), []byte("Unidade: todas. Dia 05/08/2026.")) {
		t.Fatalf("narrative: %s", w.Body.String())
	}

	w = a.do(t, http.MethodGet, "/api/export", token, nil)
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Fatalf("export: %d %q", w.Code, w.Header().Get("Content-Type"))
	}
}

func TestAdmin_RestritoAoPerfil(t *testing.T) {
	a := novoAmbiente(t, nil)
	admin := a.login(t, "admin", "admin")

	if err := a.dir.Replace([]model.User{
		{Usuario: "admin", Senha: "admin", Perfil: model.PerfilAdmin},
		{Usuario: "comum", Senha: "x", Perfil: model.PerfilUser},
	}); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	comum := a.login(t, "comum", "x")

	if w := a.do(t, http.MethodGet, "/api/admin/users", comum, nil); w.Code != http.StatusForbidden {
		t.Fatalf("perfil comum no admin: HTTP %d", w.Code)
	}
	if w := a.do(t, http.MethodGet, "/api/admin/users", admin, nil); w.Code != http.StatusOK {
		t.Fatalf("admin bloqueado: HTTP %d", w.Code)
	}
}

func TestAdmin_TokenEPublicacao(t *testing.T) {
	gh := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode(map[string]string{"sha": "abc"})
		case http.MethodPut:
			if r.Header.Get("Authorization") != "Bearer ghp_teste" {
				t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
		}
	})
	a := novoAmbiente(t, gh)
	admin := a.login(t, "admin", "admin")

	// publicar antes de salvar o token falha
	if w := a.do(t, http.MethodPost, "/api/admin/users/publish", admin, nil); w.Code != http.StatusBadRequest {
		t.Fatalf("publicação sem token: HTTP %d", w.Code)
	}

	if w := a.do(t, http.MethodPut, "/api/admin/token", admin, SaveTokenRequest{Token: "ghp_teste"}); w.Code != http.StatusOK {
		t.Fatalf("salvar token: HTTP %d", w.Code)
	}

	// o token fica no banco, não no navegador
	if v, err := a.st.GetConfig("github_token"); err != nil || v != "ghp_teste" {
		t.Fatalf("token no banco: %q %v", v, err)
	}

	if w := a.do(t, http.MethodPost, "/api/admin/users/publish", admin, nil); w.Code != http.StatusOK {
		t.Fatalf("publicar: HTTP %d: %s", w.Code, w.Body.String())
	}
}
