// README: Per-currency display rounding and formatting of totals.
package types

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.English)

// Scale returns the number of minor-unit digits used when displaying amounts in c
// (0 for JPY, VND and KRW; 2 for USD and CNY).
func Scale(c Currency) int32 {
	unit, err := currency.ParseISO(string(c))
	if err != nil {
		return 2
	}
	scale, _ := currency.Standard.Rounding(unit)
	return int32(scale)
}

// RoundForDisplay rounds half away from zero to the display scale of c.
// Calculations never call this; it is for presentation only.
func RoundForDisplay(amount decimal.Decimal, c Currency) decimal.Decimal {
	return amount.Round(Scale(c))
}

// FormatAmount renders "USD 1,234.50" style strings.
func FormatAmount(amount decimal.Decimal, c Currency) string {
	scale := Scale(c)
	v := amount.Round(scale).InexactFloat64()
	return fmt.Sprintf("%s %s", c, printer.Sprint(number.Decimal(v, number.Scale(int(scale)))))
}
