// Package users mantém o diretório de usuários do painel: a fonte de
// verdade é o users.json publicado no repositório GitHub, com um espelho
// local em SQLite para funcionar offline.
package users

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/carlmjohnson/requests"

	"github.com/ControladoriaGen/analitico-cdi/internal/model"
	"github.com/ControladoriaGen/analitico-cdi/internal/store"
)

// Directory carrega, autentica e atualiza a lista de usuários.
type Directory struct {
	url   string
	store *store.Store

	mu    sync.RWMutex
	users []model.User

	now func() time.Time
}

// NewDirectory cria o diretório apontando para a URL pública do users.json.
func NewDirectory(url string, st *store.Store) *Directory {
	return &Directory{
		url:   url,
		store: st,
		now:   time.Now,
	}
}

// seedUsers garante acesso inicial quando nenhuma fonte está disponível.
func seedUsers() []model.User {
	return []model.User{
		{Usuario: "admin", Senha: "admin", Perfil: model.PerfilAdmin},
	}
}

// Refresh busca o users.json remoto (com cache-bust) e atualiza o
// espelho local. Se a busca falhar, cai para o espelho; se nem o
// espelho existir, usa o usuário semente.
func (d *Directory) Refresh(ctx context.Context) error {
	var remote []model.User
	err := requests.
		URL(d.url).
		Param("t", fmt.Sprintf("%d", d.now().UnixMilli())).
		Header("Cache-Control", "no-store").
		ToJSON(&remote).
		Fetch(ctx)
	if err == nil && len(remote) > 0 {
		remote = sanitize(remote)
		d.mu.Lock()
		d.users = remote
		d.mu.Unlock()
		if cerr := d.store.ReplaceUsuariosCache(remote); cerr != nil {
			log.Printf("aviso: falha ao espelhar usuários localmente: %v", cerr)
		}
		return nil
	}
	if err != nil {
		log.Printf("aviso: falha ao buscar users.json remoto: %v", err)
	}

	cached, cerr := d.store.GetUsuariosCache()
	if cerr == nil && len(cached) > 0 {
		d.mu.Lock()
		d.users = cached
		d.mu.Unlock()
		return nil
	}

	d.mu.Lock()
	d.users = seedUsers()
	d.mu.Unlock()
	if err != nil {
		return fmt.Errorf("usando usuário semente: %w", err)
	}
	return nil
}

// sanitize descarta entradas sem usuário ou senha e normaliza o perfil.
func sanitize(users []model.User) []model.User {
	out := make([]model.User, 0, len(users))
	for _, u := range users {
		u.Usuario = strings.TrimSpace(u.Usuario)
		if u.Usuario == "" || u.Senha == "" {
			continue
		}
		if u.Perfil != model.PerfilAdmin {
			u.Perfil = model.PerfilUser
		}
		out = append(out, u)
	}
	return out
}

// Authenticate confere usuário e senha (comparação exata, como o
// users.json publicado define). Retorna o usuário em caso de sucesso.
func (d *Directory) Authenticate(usuario, senha string) (model.User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, u := range d.users {
		if u.Usuario == usuario && u.Senha == senha {
			return u, true
		}
	}
	return model.User{}, false
}

// List retorna uma cópia da lista atual.
func (d *Directory) List() []model.User {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]model.User, len(d.users))
	copy(out, d.users)
	return out
}

// Replace substitui a lista em memória e no espelho local. Não publica
// no GitHub; isso é papel do Publisher.
func (d *Directory) Replace(users []model.User) error {
	users = sanitize(users)
	if len(users) == 0 {
		return fmt.Errorf("lista de usuários vazia")
	}
	if !hasAdmin(users) {
		return fmt.Errorf("a lista precisa de ao menos um perfil admin")
	}

	d.mu.Lock()
	d.users = users
	d.mu.Unlock()

	return d.store.ReplaceUsuariosCache(users)
}

func hasAdmin(users []model.User) bool {
	for _, u := range users {
		if u.IsAdmin() {
			return true
		}
	}
	return false
}
