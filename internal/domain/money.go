package domain

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var pricePrinter = message.NewPrinter(language.BrazilianPortuguese)

// FormatPrice renders an amount in Brazilian reais, e.g. "R$ 1.234,50".
// Amounts that round to zero print without a sign.
func FormatPrice(amount decimal.Decimal) string {
	rounded := amount.Round(2)
	formatted := "R$ " + pricePrinter.Sprintf("%v", number.Decimal(rounded.Abs().InexactFloat64(), number.Scale(2)))
	if rounded.IsNegative() {
		return "-" + formatted
	}
	return formatted
}
