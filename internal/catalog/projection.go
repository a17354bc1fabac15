package catalog

import (
	"sort"
	"time"

	"github.com/immflyretail/inseat-commerce/internal/domain"
)

// ProjectionOptions control how raw catalog products are projected.
type ProjectionOptions struct {
	// Currency the snapshot is resolved to. Products without a price in this
	// currency are dropped.
	Currency domain.Currency

	// OrdersEnabledWhenShopClosed substitutes ClosedShopQuantity for products
	// reporting zero availability, so operators can test ordering against a
	// closed shop.
	OrdersEnabledWhenShopClosed bool
	ClosedShopQuantity          int
}

// MapProduct projects one raw catalog product into the selected currency.
// Returns false when the product carries no price in that currency.
func MapProduct(raw domain.CatalogProduct, opts ProjectionOptions) (domain.Product, bool) {
	price, ok := raw.PriceIn(opts.Currency)
	if !ok {
		return domain.Product{}, false
	}

	quantity := raw.Quantity
	if quantity < 0 {
		quantity = 0
	}
	if quantity == 0 && opts.OrdersEnabledWhenShopClosed {
		quantity = opts.ClosedShopQuantity
	}

	return domain.Product{
		ID:                raw.ID,
		MasterID:          raw.MasterID,
		CategoryID:        raw.CategoryID,
		Name:              raw.Name,
		Description:       raw.Description,
		AvailableQuantity: quantity,
		Price:             price,
	}, true
}

// Project filters and maps a raw product snapshot: products are sorted by
// name, restricted to their validity window at the given instant, and
// resolved to the selected currency.
func Project(raws []domain.CatalogProduct, now time.Time, opts ProjectionOptions) []domain.Product {
	sorted := make([]domain.CatalogProduct, len(raws))
	copy(sorted, raws)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	products := make([]domain.Product, 0, len(sorted))
	for _, raw := range sorted {
		if now.Before(raw.StartDate) || now.After(raw.EndDate) {
			continue
		}
		product, ok := MapProduct(raw, opts)
		if !ok {
			continue
		}
		products = append(products, product)
	}
	return products
}

// FlattenCategories turns the raw category tree into the flat display list:
// top-level categories with subcategories are replaced by them, and the
// result is ordered by sort order.
func FlattenCategories(raws []domain.CatalogCategory) []domain.Category {
	flat := make([]domain.CatalogCategory, 0, len(raws))
	for _, raw := range raws {
		if len(raw.Subcategories) == 0 {
			flat = append(flat, raw)
			continue
		}
		flat = append(flat, raw.Subcategories...)
	}
	sort.SliceStable(flat, func(i, j int) bool { return flat[i].SortOrder < flat[j].SortOrder })

	categories := make([]domain.Category, 0, len(flat))
	for _, c := range flat {
		categories = append(categories, domain.Category{ID: c.CategoryID, Name: c.Name})
	}
	return categories
}
