package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money errors.
var (
	// ErrCurrencyMismatch is raised (as a panic payload by Add/Sub, as a
	// return value by Sum) when amounts in different currencies are combined.
	// Combining currencies is a programming error, never a data condition.
	ErrCurrencyMismatch = &Error{Code: EINVALID, Message: "money amounts have different currencies"}

	// ErrEmptySum is returned when summing an empty list of amounts.
	ErrEmptySum = &Error{Code: EINVALID, Message: "cannot sum an empty list of money amounts"}
)

// Money is an exact decimal amount in a single currency.
// The zero value is not usable; construct with NewMoney or Zero.
type Money struct {
	Amount   decimal.Decimal
	Currency Currency
}

// NewMoney creates a Money value from an exact decimal amount.
func NewMoney(amount decimal.Decimal, currency Currency) Money {
	return Money{Amount: amount, Currency: currency}
}

// MoneyFromString creates a Money value from a decimal string such as "3.00".
func MoneyFromString(amount string, currency Currency) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, WrapError(err, EINVALID, "money.parse", "invalid decimal amount")
	}
	return Money{Amount: d, Currency: currency}, nil
}

// Zero returns a zero amount in the given currency.
func Zero(currency Currency) Money {
	return Money{Amount: decimal.Zero, Currency: currency}
}

// Add returns m + other. Panics on currency mismatch.
func (m Money) Add(other Money) Money {
	m.mustMatch(other)
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}
}

// Sub returns m - other. Panics on currency mismatch.
func (m Money) Sub(other Money) Money {
	m.mustMatch(other)
	return Money{Amount: m.Amount.Sub(other.Amount), Currency: m.Currency}
}

// MulInt returns m multiplied by an integer quantity.
func (m Money) MulInt(quantity int) Money {
	return Money{Amount: m.Amount.Mul(decimal.NewFromInt(int64(quantity))), Currency: m.Currency}
}

// Negate returns -m.
func (m Money) Negate() Money {
	return Money{Amount: m.Amount.Neg(), Currency: m.Currency}
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m.Amount.IsNegative()
}

// GreaterThan reports m > other. Panics on currency mismatch.
func (m Money) GreaterThan(other Money) bool {
	m.mustMatch(other)
	return m.Amount.GreaterThan(other.Amount)
}

// Equal reports whether two amounts are numerically equal in the same currency.
func (m Money) Equal(other Money) bool {
	return m.Currency == other.Currency && m.Amount.Equal(other.Amount)
}

// Format renders the amount with its currency symbol at two fractional
// digits using bankers' rounding, e.g. "€7.00". Locale-stable.
func (m Money) Format() string {
	rounded := m.Amount.RoundBank(2)
	if rounded.IsNegative() {
		return fmt.Sprintf("-%s%s", m.Currency.Symbol, rounded.Neg().StringFixed(2))
	}
	return fmt.Sprintf("%s%s", m.Currency.Symbol, rounded.StringFixed(2))
}

// String implements fmt.Stringer for logging.
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Amount.String(), m.Currency.Code)
}

// SumMoney adds a list of amounts. Fails when the list is empty or the
// amounts do not share a single currency.
func SumMoney(amounts []Money) (Money, error) {
	if len(amounts) == 0 {
		return Money{}, ErrEmptySum
	}
	total := amounts[0]
	for _, m := range amounts[1:] {
		if m.Currency != total.Currency {
			return Money{}, ErrCurrencyMismatch
		}
		total = total.Add(m)
	}
	return total, nil
}

func (m Money) mustMatch(other Money) {
	if m.Currency != other.Currency {
		panic(ErrCurrencyMismatch)
	}
}
