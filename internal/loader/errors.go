package loader

import (
	"fmt"
	"strings"
)

// DownloadError indica falha na busca do arquivo (status não-2xx ou erro de
// rede). Não há retry automático: a mensagem sobe para o usuário e o
// recarregamento é manual.
type DownloadError struct {
	URL        string
	StatusCode int // 0 quando a falha é de transporte
	Err        error
}

func (e *DownloadError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("HTTP %d ao baixar o arquivo", e.StatusCode)
	}
	return fmt.Sprintf("falha ao baixar o arquivo: %v", e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }

// SheetNotFoundError indica que a aba alvo não existe no arquivo. Carrega as
// abas disponíveis (e um palpite da mais parecida) para facilitar a correção
// manual do hint.
type SheetNotFoundError struct {
	Hint       string
	Available  []string
	Suggestion string
}

func (e *SheetNotFoundError) Error() string {
	msg := fmt.Sprintf("aba %q não encontrada. Abas: %s", e.Hint, strings.Join(e.Available, ", "))
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (mais parecida: %q)", e.Suggestion)
	}
	return msg
}

// EmptySheetError indica aba localizada porém sem linha de cabeçalho.
type EmptySheetError struct {
	Sheet string
}

func (e *EmptySheetError) Error() string {
	return fmt.Sprintf("aba %q vazia", e.Sheet)
}
