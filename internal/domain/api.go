package domain

import "context"

// Subscription is an explicit handle for a long-lived observer registration.
// The owner must call Cancel when the subscription is no longer needed;
// registrations are never dropped implicitly.
type Subscription interface {
	Cancel()
}

// CatalogAPI is the abstract catalog collaborator. Implementations are
// injected by the host; calls may fail and callers degrade gracefully
// (empty catalog, unavailable shop status) rather than propagate failures
// into pricing logic.
//
// Observer callbacks deliver full snapshots that replace the previously
// held value entirely. Callbacks may arrive on arbitrary goroutines.
type CatalogAPI interface {
	FetchShop(ctx context.Context) (*Shop, error)
	FetchProducts(ctx context.Context) ([]CatalogProduct, error)
	FetchCategories(ctx context.Context) ([]CatalogCategory, error)
	FetchPromotions(ctx context.Context) ([]Promotion, error)
	FetchPromotionCategories(ctx context.Context) ([]PromotionCategory, error)

	ObserveShop(fn func(*Shop)) (Subscription, error)
	ObserveProducts(fn func([]CatalogProduct)) (Subscription, error)
}

// OrderAPI is the abstract order submission collaborator.
type OrderAPI interface {
	CreateOrder(ctx context.Context, order RemoteOrder) error
	CancelOrder(ctx context.Context, orderID string) error

	// ObserveOrders streams full order list snapshots.
	ObserveOrders(fn func([]RemoteOrder)) (Subscription, error)
}
