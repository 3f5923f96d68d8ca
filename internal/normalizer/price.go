package normalizer

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencyUSD is the only currency the inventory export carries.
const CurrencyUSD = "USD"

// Exponent window a price or odometer cell may carry before it is treated as
// unparsable. Amounts outside it never reach decimal rescaling.
const (
	minExponent = -12
	maxExponent = 12
)

var (
	maxPrice = decimal.New(1, 12)
	maxMiles = decimal.New(10_000_000, 0)
)

// parseAmount parses s as a decimal bounded by the exponent window and limit.
func parseAmount(s string, limit decimal.Decimal) (decimal.Decimal, bool) {
	value, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}

	if exp := value.Exponent(); exp < minExponent || exp > maxExponent {
		return decimal.Decimal{}, false
	}

	if value.Abs().GreaterThan(limit) {
		return decimal.Decimal{}, false
	}

	return value, true
}

// Money is an optional currency amount.
type Money struct {
	Amount decimal.Decimal
	Valid  bool
}

// String renders the amount with two decimals and the currency suffix,
// e.g. "25000.00 USD". Invalid amounts render as "".
func (m Money) String() string {
	if !m.Valid {
		return ""
	}

	return m.Amount.StringFixed(2) + " " + CurrencyUSD
}

// Equal reports whether both amounts are present and equal.
func (m Money) Equal(other Money) bool {
	return m.Valid && other.Valid && m.Amount.Equal(other.Amount)
}

// Or returns m when valid, otherwise fallback.
func (m Money) Or(fallback Money) Money {
	if m.Valid {
		return m
	}

	return fallback
}

// CleanPrice parses a raw price cell. Blank cells, zero amounts, amounts above
// 1e12 and unparsable text all yield an invalid Money rather than an error.
func CleanPrice(raw string) Money {
	s := strings.TrimSpace(raw)
	if s == "" || s == "0" || s == "0.00" {
		return Money{}
	}

	amount, ok := parseAmount(strings.ReplaceAll(s, ",", ""), maxPrice)
	if !ok || amount.IsZero() {
		return Money{}
	}

	return Money{Amount: amount, Valid: true}
}

// Mileage is an optional odometer reading in miles.
type Mileage struct {
	Miles int64
	Valid bool
}

// ParseMileage parses an odometer cell. Thousands separators are accepted and
// fractional readings are truncated toward zero. Readings above ten million
// miles are invalid.
func ParseMileage(raw string) Mileage {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if s == "" {
		return Mileage{}
	}

	value, ok := parseAmount(s, maxMiles)
	if !ok {
		return Mileage{}
	}

	return Mileage{Miles: value.IntPart(), Valid: true}
}
