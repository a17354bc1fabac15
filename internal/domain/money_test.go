package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/immflyretail/inseat-commerce/internal/domain"
)

func eur(t *testing.T, amount string) domain.Money {
	t.Helper()
	m, err := domain.MoneyFromString(amount, domain.EUR)
	require.NoError(t, err)
	return m
}

func usd(t *testing.T, amount string) domain.Money {
	t.Helper()
	d, err := decimal.NewFromString(amount)
	require.NoError(t, err)
	return domain.NewMoney(d, domain.Currency{Code: "USD", Symbol: "$"})
}

// Test_SumMoney_CurrencyClosure validates that sums exist iff all elements
// share one currency.
func Test_SumMoney_CurrencyClosure(t *testing.T) {
	t.Run("same currency sums", func(t *testing.T) {
		total, err := domain.SumMoney([]domain.Money{eur(t, "3.00"), eur(t, "3.00")})

		require.NoError(t, err)
		assert.True(t, total.Equal(eur(t, "6.00")), "3 EUR + 3 EUR = 6 EUR")
	})

	t.Run("mixed currencies fail", func(t *testing.T) {
		_, err := domain.SumMoney([]domain.Money{eur(t, "3.00"), usd(t, "3.00")})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrCurrencyMismatch)
	})

	t.Run("empty list fails", func(t *testing.T) {
		_, err := domain.SumMoney(nil)

		assert.ErrorIs(t, err, domain.ErrEmptySum)
	})
}

func Test_Money_Arithmetic(t *testing.T) {
	t.Run("add and subtract", func(t *testing.T) {
		total := eur(t, "9.00").Sub(eur(t, "2.00")).Add(eur(t, "0.50"))

		assert.True(t, total.Equal(eur(t, "7.50")))
	})

	t.Run("multiply by quantity", func(t *testing.T) {
		assert.True(t, eur(t, "3.00").MulInt(2).Equal(eur(t, "6.00")))
		assert.True(t, eur(t, "3.00").MulInt(0).IsZero())
	})

	t.Run("negate", func(t *testing.T) {
		negated := eur(t, "1.25").Negate()

		assert.True(t, negated.IsNegative())
		assert.True(t, negated.Negate().Equal(eur(t, "1.25")))
	})

	t.Run("zero", func(t *testing.T) {
		assert.True(t, domain.Zero(domain.EUR).IsZero())
		assert.False(t, eur(t, "0.01").IsZero())
	})

	t.Run("currency mismatch panics", func(t *testing.T) {
		assert.Panics(t, func() { eur(t, "1.00").Add(usd(t, "1.00")) })
		assert.Panics(t, func() { eur(t, "1.00").Sub(usd(t, "1.00")) })
	})
}

func Test_Money_Format(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		expected string
	}{
		{name: "whole amount", amount: "7", expected: "€7.00"},
		{name: "two fraction digits", amount: "5.50", expected: "€5.50"},
		{name: "bankers rounding down at half", amount: "2.125", expected: "€2.12"},
		{name: "bankers rounding up at half", amount: "2.135", expected: "€2.14"},
		{name: "negative amount", amount: "-1.5", expected: "-€1.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, eur(t, tt.amount).Format())
		})
	}
}

func Test_MoneyFromString_RejectsGarbage(t *testing.T) {
	_, err := domain.MoneyFromString("not a number", domain.EUR)

	require.Error(t, err)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
}

func Test_SumSavings_CouponsContributeZero(t *testing.T) {
	saving := eur(t, "2.00")
	applied := []domain.AppliedPromotion{
		{PromotionID: 1, Name: "Two off", TotalSaving: &saving},
		{PromotionID: 2, Name: "Free voucher", TotalSaving: nil},
	}

	total := domain.SumSavings(applied, domain.EUR)

	assert.True(t, total.Equal(eur(t, "2.00")), "coupon contributes 0 but remains listed")
}
