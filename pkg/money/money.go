// Package money handles Brazilian-locale monetary values: parsing the
// "1.234,56" statement notation (including the trailing "-" negative marker
// and the "R$" currency prefix), formatting values back into it, and bridging
// to go-money for currency-safe display arithmetic.
package money

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// ErrMalformedAmount is returned when an amount string cannot be converted
// into a decimal value.
var ErrMalformedAmount = errors.New("malformed amount")

// DateLayout is the DD/MM/YYYY token used across all three document types.
const DateLayout = "02/01/2006"

// ParseBRL converts a Brazilian-locale amount string into a decimal value.
// "." is the thousands separator, "," the decimal separator, and a trailing
// "-" (not a leading sign) marks debits: "1.234,56-" parses to -1234.56.
func ParseBRL(s string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(s)
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("%w: empty string", ErrMalformedAmount)
	}

	cleaned = strings.ReplaceAll(cleaned, ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	if strings.HasSuffix(cleaned, "-") {
		cleaned = "-" + strings.TrimSuffix(cleaned, "-")
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrMalformedAmount, s)
	}
	return d, nil
}

// ParseBRLCurrency parses an amount that may carry a leading "R$" prefix,
// as printed on receipts and PIX statements.
func ParseBRLCurrency(s string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.TrimPrefix(cleaned, "R$")
	return ParseBRL(cleaned)
}

// FormatBRL renders a decimal in the notation ParseBRL accepts: "." as
// thousands separator, "," as decimal separator, trailing "-" for negatives.
// ParseBRL(FormatBRL(x)) == x for any x with at most two decimal places.
func FormatBRL(d decimal.Decimal) string {
	negative := d.IsNegative()
	fixed := d.Abs().StringFixed(2)

	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte(',')
	b.WriteString(fracPart)
	if negative {
		b.WriteByte('-')
	}
	return b.String()
}

// BRL converts a decimal value into a go-money BRL amount for totals and
// display formatting.
func BRL(d decimal.Decimal) *money.Money {
	cents := d.Mul(decimal.New(1, 2)).Round(0).IntPart()
	return money.New(cents, money.BRL)
}

// DisplayBRL formats a decimal as a user-facing BRL string ("R$1.234,56").
func DisplayBRL(d decimal.Decimal) string {
	return BRL(d).Display()
}

// ParseDate parses a DD/MM/YYYY token.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}
