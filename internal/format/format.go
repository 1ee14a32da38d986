// Package format renders amounts for user-facing text. The ledger only uses it
// to build notification messages; no arithmetic depends on its output.
package format

import (
	"billetera/internal/core"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const symbol = "₡"

// Formatter turns an amount into display text.
type Formatter interface {
	Format(m core.Money) string
}

// Colones formats amounts as Costa Rican colones using the given locale's
// grouping and decimal separators.
type Colones struct {
	printer *message.Printer
}

// NewColones returns a formatter for tag. Use language.Spanish for the app default.
func NewColones(tag language.Tag) *Colones {
	return &Colones{printer: message.NewPrinter(tag)}
}

// Format implements Formatter.
func (c *Colones) Format(m core.Money) string {
	units := m.Units()
	sign := ""
	if units < 0 {
		sign = "-"
		units = -units
	}
	return sign + symbol + c.printer.Sprint(number.Decimal(units, number.Scale(2)))
}

// Default is the Spanish-locale colón formatter.
var Default Formatter = NewColones(language.Spanish)
