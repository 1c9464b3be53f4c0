package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// CoerceNumber converte um valor de célula em número. Valores já canônicos
// (célula numérica lida em modo raw) passam direto; texto em formato
// brasileiro ("1.234,56") tem o milhar removido e a vírgula trocada por
// ponto. Entrada ilegível devolve ok=false — nunca erro; o agregador trata
// como zero.
func CoerceNumber(val string) (float64, bool) {
	s := strings.TrimSpace(val)
	if s == "" {
		return 0, false
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

var dmyRe = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{2,4})$`)

// layouts genéricos tentados por último, na ordem
var fallbackLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02/01/2006 15:04:05",
}

// CoerceDate converte um valor de célula em data com granularidade de dia.
// Aceita serial de planilha (época Excel), "D/M/A" ou "D-M-A" (ano com 2
// dígitos assumido nos anos 2000) e alguns formatos genéricos. Entrada
// ilegível devolve ok=false, nunca erro.
func CoerceDate(val string) (time.Time, bool) {
	s := strings.TrimSpace(val)
	if s == "" {
		return time.Time{}, false
	}

	if m := dmyRe.FindStringSubmatch(s); m != nil {
		d, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		y, _ := strconv.Atoi(m[3])
		if y < 100 {
			y += 2000
		}
		if mo >= 1 && mo <= 12 && d >= 1 && d <= 31 {
			t := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.UTC)
			// rejeita dias inexistentes (ex.: 31/02), que o Date normaliza
			if t.Day() == d && int(t.Month()) == mo {
				return t, true
			}
		}
		return time.Time{}, false
	}

	// célula de data lida em modo raw vira o serial numérico
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if serial <= 0 {
			return time.Time{}, false
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, false
		}
		return Day(t), true
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Day(t), true
		}
	}

	return time.Time{}, false
}

// Day descarta a hora, mantendo só o dia em UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
