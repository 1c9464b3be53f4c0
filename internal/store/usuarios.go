package store

import (
	"fmt"

	"github.com/ControladoriaGen/analitico-cdi/internal/model"
)

// GetUsuariosCache lê o espelho local da lista de usuários
func (s *Store) GetUsuariosCache() ([]model.User, error) {
	rows, err := s.db.Query(`
		SELECT usuario, senha, perfil, unidade
		FROM usuarios_cache
		ORDER BY usuario
	`)
	if err != nil {
		return nil, fmt.Errorf("falha ao ler cache de usuários: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.Usuario, &u.Senha, &u.Perfil, &u.Unidade); err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

// ReplaceUsuariosCache substitui o espelho local de forma atômica
func (s *Store) ReplaceUsuariosCache(users []model.User) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("falha ao iniciar transação: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM usuarios_cache"); err != nil {
		return fmt.Errorf("falha ao limpar cache de usuários: %w", err)
	}

	for _, u := range users {
		_, err := tx.Exec(`
			INSERT INTO usuarios_cache (usuario, senha, perfil, unidade)
			VALUES (?, ?, ?, ?)
		`, u.Usuario, u.Senha, u.Perfil, u.Unidade)
		if err != nil {
			return fmt.Errorf("falha ao gravar usuário %s: %w", u.Usuario, err)
		}
	}

	return tx.Commit()
}
