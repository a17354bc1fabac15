package promotion

import (
	"context"

	"github.com/immflyretail/inseat-commerce/internal/domain"
)

// MockEvaluator is a test implementation of Evaluator.
// Unset functions return empty results.
type MockEvaluator struct {
	ApplyAllFunc func(ctx context.Context, items []domain.CartItem, currency domain.Currency) ([]domain.AppliedPromotion, error)
	ApplyFunc    func(ctx context.Context, promo domain.Promotion, items []domain.CartItem, currency domain.Currency) ([]domain.AppliedPromotion, error)
	ProgressFunc func(ctx context.Context, promo domain.Promotion, selection map[int]int, currency domain.Currency) (*Progress, error)
}

// ApplyAll delegates to the configured function.
func (m *MockEvaluator) ApplyAll(ctx context.Context, items []domain.CartItem, currency domain.Currency) ([]domain.AppliedPromotion, error) {
	if m.ApplyAllFunc != nil {
		return m.ApplyAllFunc(ctx, items, currency)
	}
	return nil, nil
}

// Apply delegates to the configured function.
func (m *MockEvaluator) Apply(ctx context.Context, promo domain.Promotion, items []domain.CartItem, currency domain.Currency) ([]domain.AppliedPromotion, error) {
	if m.ApplyFunc != nil {
		return m.ApplyFunc(ctx, promo, items, currency)
	}
	return nil, nil
}

// Progress delegates to the configured function.
func (m *MockEvaluator) Progress(ctx context.Context, promo domain.Promotion, selection map[int]int, currency domain.Currency) (*Progress, error) {
	if m.ProgressFunc != nil {
		return m.ProgressFunc(ctx, promo, selection, currency)
	}
	return &Progress{}, nil
}
