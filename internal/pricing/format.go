package pricing

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var groupedPrinter = message.NewPrinter(language.English)

// Format renders a converted amount as "{symbol} {value}".
//
// Zero always renders as "{symbol} 0" so the free tier never shows a trailing
// ".00". Large-denomination currencies group thousands and drop decimals;
// everything else shows exactly two decimals.
func Format(amount float64, currency Currency) string {
	if amount == 0 {
		return fmt.Sprintf("%s 0", currency.Symbol)
	}
	if currency.IsLargeDenomination() {
		return fmt.Sprintf("%s %s", currency.Symbol, groupedPrinter.Sprintf("%d", int64(math.Round(amount))))
	}
	return fmt.Sprintf("%s %.2f", currency.Symbol, amount)
}
