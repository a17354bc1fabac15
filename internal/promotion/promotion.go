// Package promotion decides which promotions apply to a selection and what
// they save. It is the only producer of domain.AppliedPromotion values.
package promotion

import (
	"context"

	"github.com/immflyretail/inseat-commerce/internal/domain"
)

// Evaluator determines applicable promotions and their discounts for a set
// of cart line items projected to one currency.
// Implementations: LocalEvaluator, MockEvaluator.
type Evaluator interface {
	// ApplyAll evaluates every available promotion against the items.
	// Applicable promotions stack; each contributes one AppliedPromotion.
	ApplyAll(ctx context.Context, items []domain.CartItem, currency domain.Currency) ([]domain.AppliedPromotion, error)

	// Apply evaluates a single promotion against the items. The result is
	// empty when the promotion's trigger is not satisfied.
	Apply(ctx context.Context, promo domain.Promotion, items []domain.CartItem, currency domain.Currency) ([]domain.AppliedPromotion, error)

	// Progress reports how far a selection (master ID -> quantity) is from
	// satisfying a promotion's trigger, for requirement-builder UIs.
	Progress(ctx context.Context, promo domain.Promotion, selection map[int]int, currency domain.Currency) (*Progress, error)
}

// Progress describes trigger satisfaction for one promotion.
type Progress struct {
	// Satisfied is true when every evaluated requirement is met.
	Satisfied bool

	Items      []ItemProgress
	Categories []CategoryProgress

	// CurrentSpending is the spend across the selection's qualifying items.
	CurrentSpending domain.Money

	// RequiredSpending and RemainingSpending are set for spend-limit
	// triggers only. RemainingSpending never goes negative.
	RequiredSpending  *domain.Money
	RemainingSpending *domain.Money
}

// ItemProgress tracks one required individual product.
type ItemProgress struct {
	MasterID int
	Required int
	Selected int
	// Remaining is floored at zero for display.
	Remaining int
}

// CategoryProgress tracks one required category.
type CategoryProgress struct {
	CategoryID int
	Required   int
	Selected   int
	Remaining  int
}
