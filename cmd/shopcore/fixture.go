package main

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/immflyretail/inseat-commerce/internal/domain"
)

// memAPI is an in-memory stand-in for the host SDK: it serves a fixed
// catalog and keeps created orders, pushing snapshots to observers the way
// the real feed does.
type memAPI struct {
	mu sync.Mutex

	shop            *domain.Shop
	products        []domain.CatalogProduct
	categories      []domain.CatalogCategory
	promotions      []domain.Promotion
	promoCategories []domain.PromotionCategory

	orders       []domain.RemoteOrder
	orderWatcher func([]domain.RemoteOrder)
}

func newMemAPI() *memAPI {
	eur := func(s string) domain.Money {
		d, _ := decimal.NewFromString(s)
		return domain.NewMoney(d, domain.EUR)
	}
	window := func() (time.Time, time.Time) {
		now := time.Now()
		return now.Add(-time.Hour), now.Add(12 * time.Hour)
	}
	start, end := window()

	return &memAPI{
		shop: &domain.Shop{Status: domain.ShopPhaseOrder, ShiftID: "shift-42"},
		products: []domain.CatalogProduct{
			{ID: 1, MasterID: 101, CategoryID: 1, Name: "Lager Beer", Description: "330ml can", Quantity: 12, Prices: []domain.Money{eur("3.00")}, StartDate: start, EndDate: end},
			{ID: 2, MasterID: 102, CategoryID: 2, Name: "Salted Almonds", Description: "40g bag", Quantity: 8, Prices: []domain.Money{eur("3.00")}, StartDate: start, EndDate: end},
			{ID: 3, MasterID: 103, CategoryID: 2, Name: "Cheese Toastie", Description: "Served warm", Quantity: 5, Prices: []domain.Money{eur("5.50")}, StartDate: start, EndDate: end},
		},
		categories: []domain.CatalogCategory{
			{CategoryID: 1, Name: "Drinks", SortOrder: 1},
			{CategoryID: 2, Name: "Snacks", SortOrder: 2},
		},
		promotions: []domain.Promotion{
			{
				ID:          7,
				Name:        "Spend 9, save 2",
				Description: "Spend 9 EUR on food and drinks and get 2 EUR off",
				Trigger: domain.Trigger{
					Type:       domain.TriggerSpendLimit,
					CategoryID: 20,
					Limits:     []domain.Money{eur("9.00")},
				},
				Discount: domain.Discount{
					Type:    domain.DiscountAmount,
					Amounts: []domain.Money{eur("2.00")},
				},
			},
		},
		promoCategories: []domain.PromotionCategory{
			{CategoryID: 20, Items: []int{101, 102, 103}},
		},
	}
}

func (m *memAPI) FetchShop(ctx context.Context) (*domain.Shop, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shop, nil
}

func (m *memAPI) FetchProducts(ctx context.Context) ([]domain.CatalogProduct, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.products, nil
}

func (m *memAPI) FetchCategories(ctx context.Context) ([]domain.CatalogCategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.categories, nil
}

func (m *memAPI) FetchPromotions(ctx context.Context) ([]domain.Promotion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.promotions, nil
}

func (m *memAPI) FetchPromotionCategories(ctx context.Context) ([]domain.PromotionCategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.promoCategories, nil
}

func (m *memAPI) ObserveShop(fn func(*domain.Shop)) (domain.Subscription, error) {
	m.mu.Lock()
	shop := m.shop
	m.mu.Unlock()
	fn(shop)
	return domain.SubscriptionFunc(nil), nil
}

func (m *memAPI) ObserveProducts(fn func([]domain.CatalogProduct)) (domain.Subscription, error) {
	m.mu.Lock()
	products := m.products
	m.mu.Unlock()
	fn(products)
	return domain.SubscriptionFunc(nil), nil
}

func (m *memAPI) CreateOrder(ctx context.Context, order domain.RemoteOrder) error {
	m.mu.Lock()
	m.orders = append(m.orders, order)
	m.mu.Unlock()
	m.notifyOrders()
	return nil
}

func (m *memAPI) CancelOrder(ctx context.Context, orderID string) error {
	m.advance(orderID, domain.OrderCancelledByPassenger)
	return nil
}

func (m *memAPI) ObserveOrders(fn func([]domain.RemoteOrder)) (domain.Subscription, error) {
	m.mu.Lock()
	m.orderWatcher = fn
	m.mu.Unlock()
	m.notifyOrders()
	return domain.SubscriptionFunc(func() {
		m.mu.Lock()
		m.orderWatcher = nil
		m.mu.Unlock()
	}), nil
}

// advance simulates the crew moving an order through its lifecycle.
func (m *memAPI) advance(orderID string, status domain.RawStatus) {
	m.mu.Lock()
	for i := range m.orders {
		if m.orders[i].ID == orderID {
			m.orders[i].Status = status
			m.orders[i].UpdatedAt = time.Now()
		}
	}
	m.mu.Unlock()
	m.notifyOrders()
}

func (m *memAPI) notifyOrders() {
	m.mu.Lock()
	fn := m.orderWatcher
	snapshot := make([]domain.RemoteOrder, len(m.orders))
	copy(snapshot, m.orders)
	m.mu.Unlock()

	if fn != nil {
		fn(snapshot)
	}
}
