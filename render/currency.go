// Package render formats predicted claim costs for display.
package render

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const DefaultCurrency = "DH"

// CurrencyFormatter groups thousands with a plain space and appends the
// currency symbol, e.g. "250 000 DH".
type CurrencyFormatter struct {
	printer *message.Printer
	symbol  string
}

func NewCurrencyFormatter(symbol string) *CurrencyFormatter {
	return &CurrencyFormatter{
		printer: message.NewPrinter(language.English),
		symbol:  symbol,
	}
}

func (f *CurrencyFormatter) Format(amount int) string {
	grouped := strings.ReplaceAll(f.printer.Sprintf("%d", amount), ",", " ")
	if f.symbol == "" {
		return grouped
	}
	return grouped + " " + f.symbol
}
