package store

import "fmt"

// RecargaLog uma entrada do histórico de recargas
type RecargaLog struct {
	ID          int64  `json:"id"`
	URL         string `json:"url"`
	Aba         string `json:"aba"`
	Registros   int    `json:"registros"`
	Status      string `json:"status"`
	Erro        string `json:"erro"`
	StartedAt   string `json:"started_at"`
	CompletedAt string `json:"completed_at"`
}

// CreateRecarga registra o início de uma recarga, retorna o id
func (s *Store) CreateRecarga(url string) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO recargas (url, status) VALUES (?, 'processando')
	`, url)
	if err != nil {
		return 0, fmt.Errorf("falha ao registrar recarga: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("falha ao obter id da recarga: %w", err)
	}
	return id, nil
}

// FinishRecarga conclui o registro de uma recarga
func (s *Store) FinishRecarga(id int64, aba string, registros int, status, erro string) error {
	_, err := s.db.Exec(`
		UPDATE recargas SET
			aba = ?,
			registros = ?,
			status = ?,
			erro = ?,
			completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, aba, registros, status, erro, id)
	if err != nil {
		return fmt.Errorf("falha ao atualizar recarga: %w", err)
	}
	return nil
}

// ListRecargas lista as recargas mais recentes
func (s *Store) ListRecargas(limit int) ([]RecargaLog, error) {
	rows, err := s.db.Query(`
		SELECT id, url, aba, registros, status, erro,
		       started_at, IFNULL(completed_at, '')
		FROM recargas
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar recargas: %w", err)
	}
	defer rows.Close()

	var logs []RecargaLog
	for rows.Next() {
		var l RecargaLog
		if err := rows.Scan(&l.ID, &l.URL, &l.Aba, &l.Registros, &l.Status, &l.Erro, &l.StartedAt, &l.CompletedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}

	return logs, rows.Err()
}
