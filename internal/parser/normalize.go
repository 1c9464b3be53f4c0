package parser

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripDiacritics remove acentos (NFD + remoção de marcas combinantes).
func stripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeKey reduz um cabeçalho à forma canônica usada pelo casamento de
// colunas: sem acentos, minúsculo, sem espaços e sem underscores.
// Os exports variam a grafia ("Data Base", "DATA_BASE", "DataBase"), então
// toda comparação de papel de coluna acontece sobre esta forma.
func NormalizeKey(s string) string {
	s = stripDiacritics(strings.TrimSpace(s))
	s = strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) || r == '_' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// containsAll verifica se a chave normalizada contém todos os fragmentos.
func containsAll(key string, bits ...string) bool {
	for _, b := range bits {
		if !strings.Contains(key, b) {
			return false
		}
	}
	return true
}

// containsAny verifica se a chave normalizada contém algum dos fragmentos.
func containsAny(key string, bits ...string) bool {
	for _, b := range bits {
		if strings.Contains(key, b) {
			return true
		}
	}
	return false
}
