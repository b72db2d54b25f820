package pricing

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var copPrinter = message.NewPrinter(language.MustParse("es-CO"))

// FormatCOP renders an amount of whole Colombian pesos for display:
// no decimal places, thousands-grouped, e.g. "$ 47.600".
func FormatCOP(amount int64) string {
	return copPrinter.Sprintf("$ %d", amount)
}
