package domain

import "context"

// SubscriptionFunc adapts a function to the Subscription interface.
type SubscriptionFunc func()

// Cancel implements Subscription.
func (f SubscriptionFunc) Cancel() {
	if f != nil {
		f()
	}
}

// MockCatalogAPI is a test implementation of CatalogAPI.
// Unset fetch functions return empty data; unset observe functions return a
// no-op subscription.
type MockCatalogAPI struct {
	FetchShopFunc                func(ctx context.Context) (*Shop, error)
	FetchProductsFunc            func(ctx context.Context) ([]CatalogProduct, error)
	FetchCategoriesFunc          func(ctx context.Context) ([]CatalogCategory, error)
	FetchPromotionsFunc          func(ctx context.Context) ([]Promotion, error)
	FetchPromotionCategoriesFunc func(ctx context.Context) ([]PromotionCategory, error)
	ObserveShopFunc              func(fn func(*Shop)) (Subscription, error)
	ObserveProductsFunc          func(fn func([]CatalogProduct)) (Subscription, error)
}

func (m *MockCatalogAPI) FetchShop(ctx context.Context) (*Shop, error) {
	if m.FetchShopFunc != nil {
		return m.FetchShopFunc(ctx)
	}
	return nil, nil
}

func (m *MockCatalogAPI) FetchProducts(ctx context.Context) ([]CatalogProduct, error) {
	if m.FetchProductsFunc != nil {
		return m.FetchProductsFunc(ctx)
	}
	return nil, nil
}

func (m *MockCatalogAPI) FetchCategories(ctx context.Context) ([]CatalogCategory, error) {
	if m.FetchCategoriesFunc != nil {
		return m.FetchCategoriesFunc(ctx)
	}
	return nil, nil
}

func (m *MockCatalogAPI) FetchPromotions(ctx context.Context) ([]Promotion, error) {
	if m.FetchPromotionsFunc != nil {
		return m.FetchPromotionsFunc(ctx)
	}
	return nil, nil
}

func (m *MockCatalogAPI) FetchPromotionCategories(ctx context.Context) ([]PromotionCategory, error) {
	if m.FetchPromotionCategoriesFunc != nil {
		return m.FetchPromotionCategoriesFunc(ctx)
	}
	return nil, nil
}

func (m *MockCatalogAPI) ObserveShop(fn func(*Shop)) (Subscription, error) {
	if m.ObserveShopFunc != nil {
		return m.ObserveShopFunc(fn)
	}
	return SubscriptionFunc(nil), nil
}

func (m *MockCatalogAPI) ObserveProducts(fn func([]CatalogProduct)) (Subscription, error) {
	if m.ObserveProductsFunc != nil {
		return m.ObserveProductsFunc(fn)
	}
	return SubscriptionFunc(nil), nil
}

// MockOrderAPI is a test implementation of OrderAPI.
type MockOrderAPI struct {
	CreateOrderFunc   func(ctx context.Context, order RemoteOrder) error
	CancelOrderFunc   func(ctx context.Context, orderID string) error
	ObserveOrdersFunc func(fn func([]RemoteOrder)) (Subscription, error)
}

func (m *MockOrderAPI) CreateOrder(ctx context.Context, order RemoteOrder) error {
	if m.CreateOrderFunc != nil {
		return m.CreateOrderFunc(ctx, order)
	}
	return nil
}

func (m *MockOrderAPI) CancelOrder(ctx context.Context, orderID string) error {
	if m.CancelOrderFunc != nil {
		return m.CancelOrderFunc(ctx, orderID)
	}
	return nil
}

func (m *MockOrderAPI) ObserveOrders(fn func([]RemoteOrder)) (Subscription, error) {
	if m.ObserveOrdersFunc != nil {
		return m.ObserveOrdersFunc(fn)
	}
	return SubscriptionFunc(nil), nil
}
