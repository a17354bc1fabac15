package promotion

import (
	"context"
	"sort"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/immflyretail/inseat-commerce/internal/catalog"
	"github.com/immflyretail/inseat-commerce/internal/domain"
	"github.com/immflyretail/inseat-commerce/internal/telemetry"
)

var oneHundred = decimal.NewFromInt(100)

// LocalEvaluator evaluates promotions against the local catalog projection.
// Promotion definitions and category membership are fetched per evaluation;
// product availability comes from the stock snapshot.
type LocalEvaluator struct {
	api     domain.CatalogAPI
	stock   *catalog.Stock
	metrics *telemetry.Metrics
	logger  zerolog.Logger
}

// NewLocalEvaluator creates an evaluator backed by the catalog collaborator
// and the projected stock snapshot.
func NewLocalEvaluator(api domain.CatalogAPI, stock *catalog.Stock, metrics *telemetry.Metrics, logger zerolog.Logger) *LocalEvaluator {
	return &LocalEvaluator{
		api:     api,
		stock:   stock,
		metrics: metrics,
		logger:  logger.With().Str("component", "promotion").Logger(),
	}
}

// ApplyAll implements Evaluator.
func (e *LocalEvaluator) ApplyAll(ctx context.Context, items []domain.CartItem, currency domain.Currency) ([]domain.AppliedPromotion, error) {
	promos, err := e.api.FetchPromotions(ctx)
	if err != nil {
		return nil, domain.Unavailable(err, "promotion.apply_all", "failed to fetch promotions")
	}
	categories, err := e.fetchCategories(ctx, "promotion.apply_all")
	if err != nil {
		return nil, err
	}

	lines := indexByMaster(items, currency)
	applied := make([]domain.AppliedPromotion, 0, len(promos))
	for _, promo := range promos {
		if result := e.evaluate(promo, categories, lines, currency); result != nil {
			applied = append(applied, *result)
		}
	}
	return applied, nil
}

// Apply implements Evaluator.
func (e *LocalEvaluator) Apply(ctx context.Context, promo domain.Promotion, items []domain.CartItem, currency domain.Currency) ([]domain.AppliedPromotion, error) {
	categories, err := e.fetchCategories(ctx, "promotion.apply")
	if err != nil {
		return nil, err
	}

	lines := indexByMaster(items, currency)
	if result := e.evaluate(promo, categories, lines, currency); result != nil {
		return []domain.AppliedPromotion{*result}, nil
	}
	return nil, nil
}

func (e *LocalEvaluator) fetchCategories(ctx context.Context, op string) (map[int]domain.PromotionCategory, error) {
	raw, err := e.api.FetchPromotionCategories(ctx)
	if err != nil {
		return nil, domain.Unavailable(err, op, "failed to fetch promotion categories")
	}
	categories := make(map[int]domain.PromotionCategory, len(raw))
	for _, c := range raw {
		categories[c.CategoryID] = c
	}
	return categories, nil
}

// selectionLine is the per-master view of the cart used for evaluation.
type selectionLine struct {
	quantity  int
	unitPrice domain.Money
}

func (l selectionLine) extended() domain.Money {
	return l.unitPrice.MulInt(l.quantity)
}

func indexByMaster(items []domain.CartItem, currency domain.Currency) map[int]selectionLine {
	lines := make(map[int]selectionLine, len(items))
	for _, item := range items {
		line := lines[item.MasterID]
		if line.quantity == 0 {
			line.unitPrice = domain.NewMoney(item.UnitPrice, currency)
		}
		line.quantity += item.Quantity
		lines[item.MasterID] = line
	}
	return lines
}

// availableMembers returns the category's member master IDs that resolve to
// an available product in the current snapshot.
func (e *LocalEvaluator) availableMembers(category domain.PromotionCategory) []int {
	members := make([]int, 0, len(category.Items))
	for _, masterID := range category.Items {
		if _, ok := e.stock.ProductByMaster(masterID); ok {
			members = append(members, masterID)
		}
	}
	return members
}

// evaluate returns the applied promotion, or nil when the trigger is not
// satisfied or the promotion is inapplicable in the selected currency.
//
// Requirement buckets are checked independently against the selected
// quantity per master ID: a selected unit may count toward an individual
// product requirement and a category requirement at the same time.
func (e *LocalEvaluator) evaluate(promo domain.Promotion, categories map[int]domain.PromotionCategory, lines map[int]selectionLine, currency domain.Currency) *domain.AppliedPromotion {
	qualifying := make(map[int]bool)
	evaluated := 0

	switch promo.Trigger.Type {
	case domain.TriggerProductPurchase:
		for _, required := range promo.Trigger.Items {
			evaluated++
			line, ok := lines[required.MasterID]
			if !ok || line.quantity < required.Quantity {
				return nil
			}
			qualifying[required.MasterID] = true
		}

		for _, required := range promo.Trigger.Categories {
			members := e.availableMembers(categories[required.CategoryID])
			if len(members) == 0 {
				// Diagnostics only: a misconfigured category must not make
				// the promotion unsatisfiable.
				e.logger.Info().
					Int("promotion_id", promo.ID).
					Str("promotion", promo.Name).
					Int("category_id", required.CategoryID).
					Msg("promotion category has no available products, excluding from evaluation")
				e.metrics.EmptyPromotionCategories.Inc()
				continue
			}
			evaluated++

			selected := 0
			for _, masterID := range members {
				selected += lines[masterID].quantity
			}
			if selected < required.Quantity {
				return nil
			}
			for _, masterID := range members {
				if lines[masterID].quantity > 0 {
					qualifying[masterID] = true
				}
			}
		}

	case domain.TriggerSpendLimit:
		limit, ok := promo.Trigger.LimitIn(currency)
		if !ok {
			return nil
		}
		members := e.availableMembers(categories[promo.Trigger.CategoryID])
		if len(members) == 0 {
			e.logger.Info().
				Int("promotion_id", promo.ID).
				Str("promotion", promo.Name).
				Int("category_id", promo.Trigger.CategoryID).
				Msg("spend-limit category has no available products, excluding from evaluation")
			e.metrics.EmptyPromotionCategories.Inc()
			return nil
		}
		evaluated++

		spend := domain.Zero(currency)
		for _, masterID := range members {
			line, ok := lines[masterID]
			if !ok {
				continue
			}
			spend = spend.Add(line.extended())
			qualifying[masterID] = true
		}
		if spend.Amount.LessThan(limit.Amount) {
			return nil
		}

	default:
		// A trigger shape this build does not know about. Never applied.
		e.logger.Warn().
			Int("promotion_id", promo.ID).
			Str("trigger_type", string(promo.Trigger.Type)).
			Msg("unrecognized promotion trigger type, skipping")
		return nil
	}

	if evaluated == 0 {
		// Every requirement was excluded; nothing was actually checked.
		return nil
	}

	return e.grant(promo, categories, lines, qualifying, currency)
}

// grant computes the benefit for a promotion whose trigger is satisfied.
func (e *LocalEvaluator) grant(promo domain.Promotion, categories map[int]domain.PromotionCategory, lines map[int]selectionLine, qualifying map[int]bool, currency domain.Currency) *domain.AppliedPromotion {
	applied := domain.AppliedPromotion{PromotionID: promo.ID, Name: promo.Name}

	switch promo.Discount.Type {
	case domain.DiscountPercentage:
		subtotal := qualifyingSubtotal(lines, qualifying, currency)
		saving := domain.NewMoney(
			subtotal.Amount.Mul(promo.Discount.Percentage).Div(oneHundred).RoundBank(2),
			currency,
		)
		applied.TotalSaving = &saving

	case domain.DiscountAmount:
		fixed, ok := promo.Discount.AmountIn(currency)
		if !ok {
			e.logger.Debug().
				Int("promotion_id", promo.ID).
				Str("currency", currency.Code).
				Msg("amount discount has no entry for selected currency, skipping")
			return nil
		}
		applied.TotalSaving = &fixed

	case domain.DiscountFixedPrice:
		fixed, ok := promo.Discount.AmountIn(currency)
		if !ok {
			e.logger.Debug().
				Int("promotion_id", promo.ID).
				Str("currency", currency.Code).
				Msg("fixed-price discount has no entry for selected currency, skipping")
			return nil
		}
		basis := e.comboBasis(promo, categories, lines, qualifying, currency)
		saving := basis.Sub(fixed)
		if saving.IsNegative() {
			saving = domain.Zero(currency)
		}
		applied.TotalSaving = &saving

	case domain.DiscountCoupon:
		// Non-monetary benefit resolved by the crew; no saving amount.
		applied.TotalSaving = nil

	default:
		e.logger.Warn().
			Int("promotion_id", promo.ID).
			Str("discount_type", string(promo.Discount.Type)).
			Msg("unrecognized discount type, skipping")
		return nil
	}

	return &applied
}

func qualifyingSubtotal(lines map[int]selectionLine, qualifying map[int]bool, currency domain.Currency) domain.Money {
	subtotal := domain.Zero(currency)
	for masterID := range qualifying {
		subtotal = subtotal.Add(lines[masterID].extended())
	}
	return subtotal
}

// comboBasis is the pre-discount price of one qualifying combination for a
// fixed-price promotion: required quantity times unit price for each
// required product, plus the cheapest selected units covering each category
// requirement. Spend-limit triggers reprice the whole qualifying spend.
func (e *LocalEvaluator) comboBasis(promo domain.Promotion, categories map[int]domain.PromotionCategory, lines map[int]selectionLine, qualifying map[int]bool, currency domain.Currency) domain.Money {
	if promo.Trigger.Type == domain.TriggerSpendLimit {
		return qualifyingSubtotal(lines, qualifying, currency)
	}

	basis := domain.Zero(currency)
	for _, required := range promo.Trigger.Items {
		line, ok := lines[required.MasterID]
		if !ok {
			continue
		}
		basis = basis.Add(line.unitPrice.MulInt(required.Quantity))
	}

	for _, required := range promo.Trigger.Categories {
		type unit struct {
			price    domain.Money
			quantity int
		}
		var selected []unit
		for _, masterID := range e.availableMembers(categories[required.CategoryID]) {
			line := lines[masterID]
			if line.quantity > 0 {
				selected = append(selected, unit{price: line.unitPrice, quantity: line.quantity})
			}
		}
		sort.Slice(selected, func(i, j int) bool {
			return selected[i].price.Amount.LessThan(selected[j].price.Amount)
		})

		remaining := required.Quantity
		for _, u := range selected {
			if remaining == 0 {
				break
			}
			take := u.quantity
			if take > remaining {
				take = remaining
			}
			basis = basis.Add(u.price.MulInt(take))
			remaining -= take
		}
	}

	return basis
}
