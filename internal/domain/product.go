package domain

import "time"

// =============================================================================
// CATALOG WIRE TYPES
// =============================================================================
// These mirror the payloads delivered by the catalog feed. They carry prices
// in every currency the crew shift supports; the projection in
// internal/catalog resolves them to a single currency.

// CatalogProduct is a raw product record from the catalog feed.
type CatalogProduct struct {
	ID          int
	MasterID    int
	CategoryID  int
	Name        string
	Description string
	Quantity    int
	Prices      []Money
	StartDate   time.Time
	EndDate     time.Time
}

// PriceIn returns the product price in the given currency, if listed.
func (p CatalogProduct) PriceIn(currency Currency) (Money, bool) {
	for _, price := range p.Prices {
		if price.Currency == currency {
			return price, true
		}
	}
	return Money{}, false
}

// =============================================================================
// PROJECTED PRODUCT
// =============================================================================

// Product is a currency-resolved, availability-adjusted catalog snapshot
// record. Instances are immutable and replaced wholesale on each sync.
type Product struct {
	ID          int
	MasterID    int
	CategoryID  int
	Name        string
	Description string

	// AvailableQuantity is never negative. Cart selections are clamped to it.
	AvailableQuantity int

	Price Money
}
