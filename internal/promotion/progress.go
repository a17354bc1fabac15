package promotion

import (
	"context"

	"github.com/immflyretail/inseat-commerce/internal/domain"
)

// Progress implements Evaluator. The selection maps master IDs to the
// quantity picked in the requirement builder. Buckets are evaluated
// independently; per-bucket remaining values are floored at zero.
func (e *LocalEvaluator) Progress(ctx context.Context, promo domain.Promotion, selection map[int]int, currency domain.Currency) (*Progress, error) {
	categories, err := e.fetchCategories(ctx, "promotion.progress")
	if err != nil {
		return nil, err
	}

	progress := &Progress{CurrentSpending: domain.Zero(currency)}

	switch promo.Trigger.Type {
	case domain.TriggerProductPurchase:
		satisfied := true
		evaluated := 0

		for _, required := range promo.Trigger.Items {
			if _, ok := e.stock.ProductByMaster(required.MasterID); !ok {
				e.logger.Info().
					Int("promotion_id", promo.ID).
					Int("master_id", required.MasterID).
					Msg("required product not available, excluding from progress")
				continue
			}
			evaluated++

			selected := selection[required.MasterID]
			remaining := required.Quantity - selected
			if remaining < 0 {
				remaining = 0
			}
			if remaining > 0 {
				satisfied = false
			}
			progress.Items = append(progress.Items, ItemProgress{
				MasterID:  required.MasterID,
				Required:  required.Quantity,
				Selected:  selected,
				Remaining: remaining,
			})
		}

		for _, required := range promo.Trigger.Categories {
			members := e.availableMembers(categories[required.CategoryID])
			if len(members) == 0 {
				e.logger.Info().
					Int("promotion_id", promo.ID).
					Int("category_id", required.CategoryID).
					Msg("promotion category has no available products, excluding from progress")
				e.metrics.EmptyPromotionCategories.Inc()
				continue
			}
			evaluated++

			selected := 0
			for _, masterID := range members {
				selected += selection[masterID]
			}
			remaining := required.Quantity - selected
			if remaining < 0 {
				remaining = 0
			}
			if remaining > 0 {
				satisfied = false
			}
			progress.Categories = append(progress.Categories, CategoryProgress{
				CategoryID: required.CategoryID,
				Required:   required.Quantity,
				Selected:   selected,
				Remaining:  remaining,
			})
		}

		progress.CurrentSpending = e.selectionSpend(selection, currency)
		progress.Satisfied = satisfied && evaluated > 0

	case domain.TriggerSpendLimit:
		limit, ok := promo.Trigger.LimitIn(currency)
		if !ok {
			return nil, domain.Errorf(domain.EINVALID, "promotion.progress",
				"promotion %d has no spend limit for currency %s", promo.ID, currency.Code)
		}

		members := e.availableMembers(categories[promo.Trigger.CategoryID])
		spend := domain.Zero(currency)
		for _, masterID := range members {
			quantity := selection[masterID]
			if quantity == 0 {
				continue
			}
			product, _ := e.stock.ProductByMaster(masterID)
			spend = spend.Add(product.Price.MulInt(quantity))
		}

		remaining := limit.Sub(spend)
		if remaining.IsNegative() {
			remaining = domain.Zero(currency)
		}

		progress.CurrentSpending = spend
		progress.RequiredSpending = &limit
		progress.RemainingSpending = &remaining
		progress.Satisfied = len(members) > 0 && !spend.Amount.LessThan(limit.Amount)

	default:
		return nil, domain.Errorf(domain.EINVALID, "promotion.progress",
			"unrecognized trigger type: %s", promo.Trigger.Type)
	}

	return progress, nil
}

// selectionSpend prices a builder selection against the stock snapshot.
func (e *LocalEvaluator) selectionSpend(selection map[int]int, currency domain.Currency) domain.Money {
	spend := domain.Zero(currency)
	for masterID, quantity := range selection {
		if quantity <= 0 {
			continue
		}
		product, ok := e.stock.ProductByMaster(masterID)
		if !ok {
			continue
		}
		spend = spend.Add(product.Price.MulInt(quantity))
	}
	return spend
}
