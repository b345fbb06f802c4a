// Package money renders decimal prices for display.
//
// Catalog prices and the cart total use locale grouping without forced
// decimals ("₹1,200"). Line totals, checkout totals and confirmation
// messages carry two decimals without grouping ("₹2400.00"). Order history
// uses grouping with two decimals ("₹2,400.00").
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultSymbol and DefaultLocale match the brand's home market.
const (
	DefaultSymbol = "₹"
	DefaultLocale = "en-IN"
)

// Formatter formats amounts with a currency symbol and locale grouping.
// The zero value is not usable; construct with New.
type Formatter struct {
	symbol  string
	printer *message.Printer
}

// New returns a Formatter for the given symbol and BCP 47 locale.
func New(symbol, locale string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	return &Formatter{symbol: symbol, printer: message.NewPrinter(tag)}, nil
}

// Default returns the en-IN rupee formatter.
func Default() *Formatter {
	f, _ := New(DefaultSymbol, DefaultLocale)
	return f
}

// Price formats a unit or catalog price: grouped, no forced decimals.
func (f *Formatter) Price(d decimal.Decimal) string {
	return f.symbol + f.printer.Sprint(number.Decimal(d.InexactFloat64()))
}

// Amount formats a total with exactly two decimals.
func (f *Formatter) Amount(d decimal.Decimal) string {
	return f.symbol + f.printer.Sprint(number.Decimal(d.Round(2).InexactFloat64(), number.Scale(2)))
}

// Fixed formats a value with two decimals and no grouping.
func (f *Formatter) Fixed(d decimal.Decimal) string {
	return f.symbol + d.StringFixed(2)
}
