package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CART DOMAIN ERRORS
// =============================================================================

var (
	ErrCartEmpty = &Error{Code: EINVALID, Message: "Cart is empty"}
)

// CartService owns the current selection for one session and keeps its
// pricing consistent with the latest promotion evaluation.
//
// Mutation happens only through SetSelection, which replaces the whole
// selection map. Each call schedules one asynchronous promotion evaluation;
// results of superseded evaluations are discarded (last write wins).
type CartService interface {
	// SetSelection replaces the selection (product ID -> quantity).
	// Quantities <= 0 are removed; quantities above availability are clamped;
	// unknown product IDs are dropped. The returned channel yields the cart
	// snapshot current once the scheduled evaluation settles and is then
	// closed.
	SetSelection(ctx context.Context, selection map[int]int) <-chan Cart

	// CurrentCart returns the latest cart snapshot.
	CurrentCart() Cart

	// ResetCart empties the cart. Called after successful order submission.
	ResetCart()

	// Currency returns the session currency.
	Currency() Currency

	// Subtotal is the pre-discount sum of line item extended prices.
	// A cart with no items yields a zero amount, never an error.
	Subtotal(cart Cart) Money

	// Savings is the sum of applied promotion savings, or nil when zero.
	Savings(cart Cart) *Money

	// Total is subtotal minus savings, never negative.
	Total(cart Cart) Money
}

// Cart is the priced selection snapshot for one session.
// All items share the cart currency.
type Cart struct {
	Items             []CartItem
	AppliedPromotions []AppliedPromotion
	Currency          Currency
	TotalPrice        Money
}

// CartItem is one priced selection line.
type CartItem struct {
	ProductID int
	MasterID  int
	Name      string
	Quantity  int

	// UnitPrice is the price per single unit in the cart currency.
	UnitPrice decimal.Decimal
}

// ExtendedPrice returns unit price times quantity in the given currency.
func (i CartItem) ExtendedPrice(currency Currency) Money {
	return NewMoney(i.UnitPrice, currency).MulInt(i.Quantity)
}

// EmptyCart returns an empty cart in the given currency.
func EmptyCart(currency Currency) Cart {
	return Cart{Currency: currency, TotalPrice: Zero(currency)}
}
