// Package money provides the immutable amount+currency value used for every
// monetary figure in the estate ledger. Amounts are exact decimals; float
// arithmetic never touches estate values.
//
// Arithmetic between different currencies is a programming error surfaced as
// ErrCurrencyMismatch rather than silently coercing.
package money

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is assumed when callers construct amounts without naming
// one. Estates under the succession framework are administered in shillings.
const DefaultCurrency = "KES"

// ErrCurrencyMismatch is returned by arithmetic across two currencies.
var ErrCurrencyMismatch = errors.New("money: currency mismatch")

// Money is an immutable amount in a single currency. The zero value is
// 0 in the empty currency; use Zero for an explicit currency.
type Money struct {
	amount   decimal.Decimal
	currency string
}

// New builds Money from a float amount. Intended for literals and test
// fixtures; parsing external input should go through NewFromString.
func New(amount float64, currency string) Money {
	if currency == "" {
		currency = DefaultCurrency
	}
	return Money{amount: decimal.NewFromFloat(amount), currency: currency}
}

// NewFromDecimal builds Money from an exact decimal amount.
func NewFromDecimal(amount decimal.Decimal, currency string) Money {
	if currency == "" {
		currency = DefaultCurrency
	}
	return Money{amount: amount, currency: currency}
}

// NewFromString parses a decimal string ("1500.75") into Money.
func NewFromString(amount, currency string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("money: parse amount %q: %w", amount, err)
	}
	if currency == "" {
		currency = DefaultCurrency
	}
	return Money{amount: d, currency: currency}, nil
}

// Zero is the additive identity in the given currency.
func Zero(currency string) Money {
	if currency == "" {
		currency = DefaultCurrency
	}
	return Money{amount: decimal.Zero, currency: currency}
}

// Amount exposes the exact decimal value.
func (m Money) Amount() decimal.Decimal { return m.amount }

// Currency returns the ISO currency code.
func (m Money) Currency() string { return m.currency }

// Float64 returns the amount as a float for display-adjacent uses
// (percentages, logging). Never feed the result back into arithmetic.
func (m Money) Float64() float64 {
	f, _ := m.amount.Float64()
	return f
}

func (m Money) sameCurrency(o Money) error {
	// Zero values interoperate with any currency so uninitialized fields
	// behave as the additive identity.
	if m.currency == "" || o.currency == "" || m.currency == o.currency {
		return nil
	}
	return fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.currency, o.currency)
}

func (m Money) resolveCurrency(o Money) string {
	if m.currency != "" {
		return m.currency
	}
	return o.currency
}

// Add returns m + o.
func (m Money) Add(o Money) (Money, error) {
	if err := m.sameCurrency(o); err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount.Add(o.amount), currency: m.resolveCurrency(o)}, nil
}

// Sub returns m − o, which may be negative.
func (m Money) Sub(o Money) (Money, error) {
	if err := m.sameCurrency(o); err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount.Sub(o.amount), currency: m.resolveCurrency(o)}, nil
}

// SubFloor returns m − o clamped at zero. Used where the domain specifies
// negative results collapse to nothing (hotchpot share deductions).
func (m Money) SubFloor(o Money) (Money, error) {
	d, err := m.Sub(o)
	if err != nil {
		return Money{}, err
	}
	if d.IsNegative() {
		return Zero(d.currency), nil
	}
	return d, nil
}

// MulInt returns m × n.
func (m Money) MulInt(n int64) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(n)), currency: m.currency}
}

// MulDecimal returns m × d.
func (m Money) MulDecimal(d decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(d), currency: m.currency}
}

// MulFloat returns m × f. The factor is converted exactly from its decimal
// representation.
func (m Money) MulFloat(f float64) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromFloat(f)), currency: m.currency}
}

// DivInt returns m ÷ n with decimal division (not truncated). Splitting a
// pool into equal shares should use this and reconcile the final share by
// subtraction so the parts sum exactly.
func (m Money) DivInt(n int64) Money {
	return Money{amount: m.amount.Div(decimal.NewFromInt(n)), currency: m.currency}
}

// Cmp compares amounts: -1 if m < o, 0 if equal, +1 if m > o. Cross-currency
// comparison is reported alongside the result.
func (m Money) Cmp(o Money) (int, error) {
	if err := m.sameCurrency(o); err != nil {
		return 0, err
	}
	return m.amount.Cmp(o.amount), nil
}

// GreaterThan reports m > o, treating cross-currency as not-greater.
func (m Money) GreaterThan(o Money) bool {
	c, err := m.Cmp(o)
	return err == nil && c > 0
}

// LessThan reports m < o, treating cross-currency as not-less.
func (m Money) LessThan(o Money) bool {
	c, err := m.Cmp(o)
	return err == nil && c < 0
}

// Equal reports value equality (same currency, same amount).
func (m Money) Equal(o Money) bool {
	c, err := m.Cmp(o)
	return err == nil && c == 0
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool { return m.amount.IsZero() }

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool { return m.amount.IsNegative() }

// IsPositive reports whether the amount is above zero.
func (m Money) IsPositive() bool { return m.amount.IsPositive() }

// Neg returns the negated amount.
func (m Money) Neg() Money {
	return Money{amount: m.amount.Neg(), currency: m.currency}
}

// String renders "1500.00 KES" with two decimal places.
func (m Money) String() string {
	cur := m.currency
	if cur == "" {
		cur = DefaultCurrency
	}
	return m.amount.StringFixed(2) + " " + cur
}

// moneyJSON is the wire shape: {"amount":"1500.00","currency":"KES"}.
// Amounts travel as strings to keep exactness through JSON.
type moneyJSON struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// MarshalJSON implements json.Marshaler.
func (m Money) MarshalJSON() ([]byte, error) {
	cur := m.currency
	if cur == "" {
		cur = DefaultCurrency
	}
	return json.Marshal(moneyJSON{Amount: m.amount.String(), Currency: cur})
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Money) UnmarshalJSON(data []byte) error {
	var raw moneyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := NewFromString(raw.Amount, raw.Currency)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Sum adds a series of amounts, starting from zero in the given currency.
func Sum(currency string, amounts ...Money) (Money, error) {
	total := Zero(currency)
	for _, a := range amounts {
		var err error
		total, err = total.Add(a)
		if err != nil {
			return Money{}, err
		}
	}
	return total, nil
}
