package analysis

import (
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// printer formata números na convenção pt-BR (milhar com ponto, decimal
// com vírgula), como a tela sempre exibiu.
var printer = message.NewPrinter(language.BrazilianPortuguese)

// FormatBRL formata reais sem centavos: "R$ 12.345".
func FormatBRL(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "R$ 0"
	}
	return printer.Sprintf("R$ %v", number.Decimal(v, number.MaxFractionDigits(0)))
}

// FormatInt formata contagens inteiras: "1.234".
func FormatInt(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	return printer.Sprintf("%v", number.Decimal(v, number.MaxFractionDigits(0)))
}

// FormatKg formata peso em quilos, sem casas decimais.
func FormatKg(v float64) string {
	return FormatInt(v)
}

// FormatPct formata um percentual com uma casa: "37,5".
func FormatPct(frac float64) string {
	return printer.Sprintf("%v", number.Decimal(frac*100, number.MaxFractionDigits(1)))
}

// FormatDate formata a data no padrão brasileiro; traço quando ausente.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Format("02/01/2006")
}
