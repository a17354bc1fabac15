package domain

import "github.com/shopspring/decimal"

// =============================================================================
// TRIGGERS
// =============================================================================

// TriggerType discriminates the condition that makes a promotion applicable.
type TriggerType string

const (
	// TriggerProductPurchase requires specific products and/or category
	// quantities to be present in the selection.
	TriggerProductPurchase TriggerType = "product_purchase"
	// TriggerSpendLimit requires cumulative spend on one category to reach a
	// currency-specific limit.
	TriggerSpendLimit TriggerType = "spend_limit"
)

// TriggerItem is a required individual product within a product-purchase
// trigger. Quantity is the number of units that must be selected.
type TriggerItem struct {
	MasterID int
	Quantity int
}

// TriggerCategory is a required category within a product-purchase trigger.
type TriggerCategory struct {
	CategoryID int
	Quantity   int
}

// Trigger is the tagged union of promotion trigger shapes. Fields are
// populated according to Type; unpopulated fields are ignored.
type Trigger struct {
	Type TriggerType

	// Product purchase fields.
	Items      []TriggerItem
	Categories []TriggerCategory

	// Spend limit fields.
	CategoryID int
	Limits     []Money
}

// LimitIn returns the spend limit for the given currency, if configured.
func (t Trigger) LimitIn(currency Currency) (Money, bool) {
	for _, limit := range t.Limits {
		if limit.Currency == currency {
			return limit, true
		}
	}
	return Money{}, false
}

// =============================================================================
// DISCOUNTS
// =============================================================================

// DiscountType discriminates the benefit granted once a trigger is satisfied.
type DiscountType string

const (
	// DiscountPercentage takes a percentage off the qualifying subtotal.
	DiscountPercentage DiscountType = "percentage"
	// DiscountAmount takes a fixed currency amount off the total.
	DiscountAmount DiscountType = "amount"
	// DiscountFixedPrice reprices the qualifying combination to a fixed amount.
	DiscountFixedPrice DiscountType = "fixed_price"
	// DiscountCoupon grants a non-monetary benefit resolved by the crew.
	DiscountCoupon DiscountType = "coupon"
)

// Discount is the tagged union of promotion benefit shapes.
type Discount struct {
	Type DiscountType

	// Percentage is the discount rate for DiscountPercentage, e.g. 10 for 10%.
	Percentage decimal.Decimal

	// Amounts holds the per-currency value for DiscountAmount and
	// DiscountFixedPrice. A promotion without an entry for the selected
	// currency is inapplicable.
	Amounts []Money
}

// AmountIn returns the discount value for the given currency, if configured.
func (d Discount) AmountIn(currency Currency) (Money, bool) {
	for _, amount := range d.Amounts {
		if amount.Currency == currency {
			return amount, true
		}
	}
	return Money{}, false
}

// =============================================================================
// PROMOTION
// =============================================================================

// Promotion is an immutable promotion definition fetched per session.
type Promotion struct {
	ID          int
	Name        string
	Description string
	Trigger     Trigger
	Discount    Discount
}

// AppliedPromotion records a promotion granted against the current cart.
// Instances are produced only by the promotion evaluator.
type AppliedPromotion struct {
	PromotionID int
	Name        string

	// TotalSaving is nil for coupon benefits, which carry no monetary value.
	TotalSaving *Money
}

// SumSavings adds the monetary savings of the given applied promotions in
// the given currency. Coupons contribute zero but remain listed.
func SumSavings(applied []AppliedPromotion, currency Currency) Money {
	total := Zero(currency)
	for _, promo := range applied {
		if promo.TotalSaving != nil {
			total = total.Add(*promo.TotalSaving)
		}
	}
	return total
}
