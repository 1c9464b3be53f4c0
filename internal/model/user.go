package model

// Perfis de acesso
const (
	PerfilAdmin = "admin"
	PerfilUser  = "user"
)

// User é um registro de credencial da lista de usuários (users.json).
// Unidade não vazia restringe o usuário àquela unidade nos relatórios.
type User struct {
	Usuario string `json:"usuario"`
	Senha   string `json:"senha"`
	Perfil  string `json:"perfil"`
	Unidade string `json:"unidade,omitempty"`
}

// IsAdmin indica se o usuário pode acessar o painel administrativo.
func (u *User) IsAdmin() bool {
	return u.Perfil == PerfilAdmin
}

// Public devolve uma cópia sem a senha, para respostas da API.
func (u *User) Public() User {
	c := *u
	c.Senha = ""
	return c
}
