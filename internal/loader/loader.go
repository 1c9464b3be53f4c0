package loader

import (
	"bytes"
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/carlmjohnson/requests"
	"github.com/schollz/closestmatch"
	"github.com/xuri/excelize/v2"

	"github.com/ControladoriaGen/analitico-cdi/internal/model"
	"github.com/ControladoriaGen/analitico-cdi/internal/parser"
)

// Result é o produto de um carregamento: cabeçalhos crus, registros tipados
// e o mapa de papéis resolvido para o arquivo do dia.
type Result struct {
	SheetName string
	Headers   []string
	Records   []model.Record
	Roles     parser.RoleMap
}

// Loader baixa a planilha do compartilhamento e a decodifica em registros.
// Sempre busca de novo: cada chamada anexa um parâmetro t=<agora> para furar
// qualquer cache intermediário.
type Loader struct {
	URL       string
	SheetHint string

	// now é substituível em teste para fixar o cache-bust
	now func() time.Time
}

// New cria um Loader para a URL de download e o hint de aba configurados.
func New(url, sheetHint string) *Loader {
	return &Loader{URL: url, SheetHint: sheetHint, now: time.Now}
}

// Load executa o ciclo completo: download, decodificação do workbook,
// localização tolerante da aba e conversão das linhas em registros tipados.
func (l *Loader) Load(ctx context.Context) (*Result, error) {
	data, err := l.fetch(ctx)
	if err != nil {
		return nil, err
	}
	return l.Decode(data)
}

// fetch baixa o binário com cache-bust, traduzindo falhas em DownloadError.
func (l *Loader) fetch(ctx context.Context) ([]byte, error) {
	var buf bytes.Buffer
	err := requests.
		URL(l.URL).
		Param("t", strconv.FormatInt(l.now().UnixMilli(), 10)).
		Header("Cache-Control", "no-store").
		ToBytesBuffer(&buf).
		Fetch(ctx)
	if err != nil {
		var re *requests.ResponseError
		if errors.As(err, &re) {
			return nil, &DownloadError{URL: l.URL, StatusCode: re.StatusCode, Err: err}
		}
		return nil, &DownloadError{URL: l.URL, Err: err}
	}
	return buf.Bytes(), nil
}

// Decode abre o workbook em memória e extrai cabeçalho e linhas da aba alvo.
func (l *Loader) Decode(data []byte) (*Result, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &DownloadError{URL: l.URL, Err: err}
	}
	defer f.Close()

	sheet, err := l.locateSheet(f.GetSheetList())
	if err != nil {
		return nil, err
	}

	// modo raw: números sem máscara de formato e datas como serial
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, &EmptySheetError{Sheet: sheet}
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	roles := parser.ResolveColumns(headers)
	records := parser.BuildRecords(headers, rows[1:], roles)

	return &Result{
		SheetName: sheet,
		Headers:   headers,
		Records:   records,
		Roles:     roles,
	}, nil
}

// locateSheet procura a aba pelo hint: igualdade normalizada primeiro,
// depois substring. A aba verdadeira costuma vir sem acento
// ("CDIAutomtico1"), daí a comparação tolerante.
func (l *Loader) locateSheet(names []string) (string, error) {
	want := parser.NormalizeKey(l.SheetHint)

	for _, n := range names {
		if parser.NormalizeKey(n) == want {
			return n, nil
		}
	}
	for _, n := range names {
		if strings.Contains(parser.NormalizeKey(n), want) {
			return n, nil
		}
	}

	suggestion := ""
	if len(names) > 0 {
		normalized := make([]string, len(names))
		for i, n := range names {
			normalized[i] = parser.NormalizeKey(n)
		}
		cm := closestmatch.New(normalized, []int{2, 3})
		if best := cm.Closest(want); best != "" {
			for i, n := range normalized {
				if n == best {
					suggestion = names[i]
					break
				}
			}
		}
	}

	return "", &SheetNotFoundError{Hint: l.SheetHint, Available: names, Suggestion: suggestion}
}
