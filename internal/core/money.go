// Package core provides money parsing and handling utilities.
//
// Amounts are kept as integer cents. Parsing accepts both dot and comma
// decimal separators so that values typed in a Spanish locale ("10000,50")
// and values coming from JSON ("10000.50") produce the same cents.
package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ParseDecimalToCents converts a decimal string to cents with proper rounding.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and performs
// half-up rounding on the third decimal place. The result is always positive cents.
// Returns an error for invalid formats, negative values, or zero amounts.
//
// Examples:
//
//	ParseDecimalToCents("12.34") -> 1234, nil
//	ParseDecimalToCents("12,34") -> 1234, nil
//	ParseDecimalToCents("12.345") -> 1235, nil (rounds up)
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	cents, err := parseUnsignedCents(s)
	if err != nil {
		return 0, err
	}
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

// ParseSignedDecimalToCents is ParseDecimalToCents for signed amounts, used by
// envelope allocations where a leading minus means a withdrawal. Zero is rejected.
func ParseSignedDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	cents, err := parseUnsignedCents(s)
	if err != nil {
		return 0, err
	}
	if cents == 0 {
		return 0, ErrInvalidAmount
	}
	if neg {
		cents = -cents
	}
	return cents, nil
}

func parseUnsignedCents(s string) (int64, error) {
	if s == "" {
		return 0, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Take first two fractional digits; then half-up rounding on third
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	if iv > (math.MaxInt64-fracCents)/100 {
		return 0, ErrInvalidAmount
	}
	return iv*100 + fracCents, nil
}

// MoneyFromFloat converts a unit amount (e.g. 509015.40) into cents, rounding
// half away from zero. NaN and infinities are rejected with ErrInvalidAmount.
func MoneyFromFloat(v float64) (Money, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Money{}, ErrInvalidAmount
	}
	c := math.Round(v * 100)
	// float64(math.MaxInt64) rounds up to 2^63, which does not fit.
	if c >= math.MaxInt64 || c < math.MinInt64 {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: int64(c)}, nil
}

// TargetFromFloat converts an optional envelope goal. Non-finite or negative
// values yield ErrInvalidTarget.
func TargetFromFloat(v *float64) (*Money, error) {
	if v == nil {
		return nil, nil
	}
	m, err := MoneyFromFloat(*v)
	if err != nil || m.IsNegative() {
		return nil, ErrInvalidTarget
	}
	return &m, nil
}

// Units returns the amount in currency units as a float64 for display purposes.
// Use cents for calculations to avoid floating-point precision issues.
func (m Money) Units() float64 {
	return float64(m.Cents) / 100.0
}

// String renders cents as a plain decimal ("509015.40").
func (m Money) String() string {
	c := m.Cents
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}
	return sign + strconv.FormatInt(c/100, 10) + "." + fmt.Sprintf("%02d", c%100)
}

// MarshalJSON encodes money as a JSON number in currency units.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or numeric string in currency units.
func (m *Money) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	if strings.ContainsAny(s, "eE") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return ErrInvalidAmount
		}
		v, err := MoneyFromFloat(f)
		if err != nil {
			return err
		}
		if neg {
			v.Cents = -v.Cents
		}
		*m = v
		return nil
	}
	cents, err := parseUnsignedCents(s)
	if err != nil {
		return err
	}
	if neg {
		cents = -cents
	}
	m.Cents = cents
	return nil
}
