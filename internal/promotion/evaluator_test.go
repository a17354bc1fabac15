package promotion_test

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/immflyretail/inseat-commerce/internal/catalog"
	"github.com/immflyretail/inseat-commerce/internal/domain"
	"github.com/immflyretail/inseat-commerce/internal/promotion"
	"github.com/immflyretail/inseat-commerce/internal/telemetry"
)

func eur(t *testing.T, amount string) domain.Money {
	t.Helper()
	m, err := domain.MoneyFromString(amount, domain.EUR)
	require.NoError(t, err)
	return m
}

func dec(t *testing.T, amount string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(amount)
	require.NoError(t, err)
	return d
}

// seededStock mirrors a small bar cart: two 3.00 items and one 5.50 item.
func seededStock(t *testing.T) *catalog.Stock {
	t.Helper()
	stock := catalog.NewStock()
	stock.SetAvailable([]domain.Product{
		{ID: 1, MasterID: 101, Name: "Lager Beer", Price: eur(t, "3.00"), AvailableQuantity: 10},
		{ID: 2, MasterID: 102, Name: "Salted Almonds", Price: eur(t, "3.00"), AvailableQuantity: 10},
		{ID: 3, MasterID: 103, Name: "Cheese Toastie", Price: eur(t, "5.50"), AvailableQuantity: 10},
	})
	return stock
}

func cartLine(t *testing.T, productID, masterID int, price string, quantity int) domain.CartItem {
	t.Helper()
	return domain.CartItem{
		ProductID: productID,
		MasterID:  masterID,
		Quantity:  quantity,
		UnitPrice: dec(t, price),
	}
}

type evalFixture struct {
	evaluator *promotion.LocalEvaluator
	metrics   *telemetry.Metrics
}

func newEvaluator(t *testing.T, promos []domain.Promotion, categories []domain.PromotionCategory) evalFixture {
	t.Helper()
	api := &domain.MockCatalogAPI{
		FetchPromotionsFunc: func(ctx context.Context) ([]domain.Promotion, error) {
			return promos, nil
		},
		FetchPromotionCategoriesFunc: func(ctx context.Context) ([]domain.PromotionCategory, error) {
			return categories, nil
		},
	}
	metrics := telemetry.NewMetrics(prometheus.NewRegistry())
	return evalFixture{
		evaluator: promotion.NewLocalEvaluator(api, seededStock(t), metrics, zerolog.Nop()),
		metrics:   metrics,
	}
}

func Test_ApplyAll_SpendLimit(t *testing.T) {
	promo := domain.Promotion{
		ID:   7,
		Name: "Spend 9, save 2",
		Trigger: domain.Trigger{
			Type:       domain.TriggerSpendLimit,
			CategoryID: 20,
			Limits:     []domain.Money{eur(t, "9.00")},
		},
		Discount: domain.Discount{
			Type:    domain.DiscountAmount,
			Amounts: []domain.Money{eur(t, "2.00")},
		},
	}
	categories := []domain.PromotionCategory{{CategoryID: 20, Items: []int{101, 102, 103}}}

	t.Run("spend at limit grants the amount", func(t *testing.T) {
		f := newEvaluator(t, []domain.Promotion{promo}, categories)

		// 2 beers + 1 almonds = 9.00, exactly at the limit.
		applied, err := f.evaluator.ApplyAll(context.Background(), []domain.CartItem{
			cartLine(t, 1, 101, "3.00", 2),
			cartLine(t, 2, 102, "3.00", 1),
		}, domain.EUR)

		require.NoError(t, err)
		require.Len(t, applied, 1)
		assert.Equal(t, 7, applied[0].PromotionID)
		require.NotNil(t, applied[0].TotalSaving)
		assert.True(t, applied[0].TotalSaving.Equal(eur(t, "2.00")))
	})

	t.Run("spend below limit grants nothing", func(t *testing.T) {
		f := newEvaluator(t, []domain.Promotion{promo}, categories)

		applied, err := f.evaluator.ApplyAll(context.Background(), []domain.CartItem{
			cartLine(t, 1, 101, "3.00", 2),
		}, domain.EUR)

		require.NoError(t, err)
		assert.Empty(t, applied)
	})

	t.Run("limit missing for currency grants nothing", func(t *testing.T) {
		f := newEvaluator(t, []domain.Promotion{promo}, categories)
		usd := domain.Currency{Code: "USD", Symbol: "$"}

		applied, err := f.evaluator.ApplyAll(context.Background(), []domain.CartItem{
			cartLine(t, 1, 101, "3.00", 3),
			cartLine(t, 2, 102, "3.00", 1),
		}, usd)

		require.NoError(t, err)
		assert.Empty(t, applied)
	})
}

func Test_ApplyAll_FixedPriceCombo(t *testing.T) {
	// Meal deal: one toastie plus two drinks for a flat 8.00. The selected
	// constituents cost 5.50 + 3.00 + 3.00 = 11.50, so the saving is 3.50.
	promo := domain.Promotion{
		ID:   8,
		Name: "Meal deal",
		Trigger: domain.Trigger{
			Type:       domain.TriggerProductPurchase,
			Items:      []domain.TriggerItem{{MasterID: 103, Quantity: 1}},
			Categories: []domain.TriggerCategory{{CategoryID: 21, Quantity: 2}},
		},
		Discount: domain.Discount{
			Type:    domain.DiscountFixedPrice,
			Amounts: []domain.Money{eur(t, "8.00")},
		},
	}
	categories := []domain.PromotionCategory{{CategoryID: 21, Items: []int{101, 102}}}

	f := newEvaluator(t, []domain.Promotion{promo}, categories)

	applied, err := f.evaluator.ApplyAll(context.Background(), []domain.CartItem{
		cartLine(t, 3, 103, "5.50", 1),
		cartLine(t, 1, 101, "3.00", 2),
	}, domain.EUR)

	require.NoError(t, err)
	require.Len(t, applied, 1)
	require.NotNil(t, applied[0].TotalSaving)
	assert.True(t, applied[0].TotalSaving.Equal(eur(t, "3.50")), "11.50 combo repriced to 8.00")
}

func Test_ApplyAll_FixedPriceNeverNegative(t *testing.T) {
	// Flat price above the combo's real cost must not turn into a surcharge.
	promo := domain.Promotion{
		ID:   9,
		Name: "Bad deal",
		Trigger: domain.Trigger{
			Type:  domain.TriggerProductPurchase,
			Items: []domain.TriggerItem{{MasterID: 101, Quantity: 1}},
		},
		Discount: domain.Discount{
			Type:    domain.DiscountFixedPrice,
			Amounts: []domain.Money{eur(t, "4.00")},
		},
	}

	f := newEvaluator(t, []domain.Promotion{promo}, nil)

	applied, err := f.evaluator.ApplyAll(context.Background(), []domain.CartItem{
		cartLine(t, 1, 101, "3.00", 1),
	}, domain.EUR)

	require.NoError(t, err)
	require.Len(t, applied, 1)
	require.NotNil(t, applied[0].TotalSaving)
	assert.True(t, applied[0].TotalSaving.IsZero())
}

func Test_ApplyAll_Percentage(t *testing.T) {
	promo := domain.Promotion{
		ID:   10,
		Name: "10% off beer",
		Trigger: domain.Trigger{
			Type:  domain.TriggerProductPurchase,
			Items: []domain.TriggerItem{{MasterID: 101, Quantity: 2}},
		},
		Discount: domain.Discount{
			Type:       domain.DiscountPercentage,
			Percentage: dec(t, "10"),
		},
	}

	f := newEvaluator(t, []domain.Promotion{promo}, nil)

	applied, err := f.evaluator.ApplyAll(context.Background(), []domain.CartItem{
		cartLine(t, 1, 101, "3.00", 3),
		cartLine(t, 3, 103, "5.50", 1), // not qualifying, not discounted
	}, domain.EUR)

	require.NoError(t, err)
	require.Len(t, applied, 1)
	require.NotNil(t, applied[0].TotalSaving)
	assert.True(t, applied[0].TotalSaving.Equal(eur(t, "0.90")), "10 percent of the 9.00 qualifying subtotal")
}

func Test_ApplyAll_AmountWithoutCurrencyIsInapplicable(t *testing.T) {
	usd := domain.Currency{Code: "USD", Symbol: "$"}
	promo := domain.Promotion{
		ID:   11,
		Name: "Dollar saver",
		Trigger: domain.Trigger{
			Type:  domain.TriggerProductPurchase,
			Items: []domain.TriggerItem{{MasterID: 101, Quantity: 1}},
		},
		Discount: domain.Discount{
			Type:    domain.DiscountAmount,
			Amounts: []domain.Money{domain.NewMoney(dec(t, "2.00"), usd)},
		},
	}

	f := newEvaluator(t, []domain.Promotion{promo}, nil)

	applied, err := f.evaluator.ApplyAll(context.Background(), []domain.CartItem{
		cartLine(t, 1, 101, "3.00", 1),
	}, domain.EUR)

	require.NoError(t, err)
	assert.Empty(t, applied, "satisfied trigger with no benefit in the session currency")
}

func Test_ApplyAll_CouponHasNoSavingAmount(t *testing.T) {
	promo := domain.Promotion{
		ID:   12,
		Name: "Free lounge pass",
		Trigger: domain.Trigger{
			Type:  domain.TriggerProductPurchase,
			Items: []domain.TriggerItem{{MasterID: 103, Quantity: 1}},
		},
		Discount: domain.Discount{Type: domain.DiscountCoupon},
	}

	f := newEvaluator(t, []domain.Promotion{promo}, nil)

	applied, err := f.evaluator.ApplyAll(context.Background(), []domain.CartItem{
		cartLine(t, 3, 103, "5.50", 1),
	}, domain.EUR)

	require.NoError(t, err)
	require.Len(t, applied, 1)
	assert.Nil(t, applied[0].TotalSaving)
}

func Test_ApplyAll_PromotionsStack(t *testing.T) {
	promos := []domain.Promotion{
		{
			ID:       13,
			Name:     "Beer amount",
			Trigger:  domain.Trigger{Type: domain.TriggerProductPurchase, Items: []domain.TriggerItem{{MasterID: 101, Quantity: 2}}},
			Discount: domain.Discount{Type: domain.DiscountAmount, Amounts: []domain.Money{eur(t, "1.00")}},
		},
		{
			ID:       14,
			Name:     "Toastie percent",
			Trigger:  domain.Trigger{Type: domain.TriggerProductPurchase, Items: []domain.TriggerItem{{MasterID: 103, Quantity: 1}}},
			Discount: domain.Discount{Type: domain.DiscountPercentage, Percentage: dec(t, "10")},
		},
	}

	f := newEvaluator(t, promos, nil)

	applied, err := f.evaluator.ApplyAll(context.Background(), []domain.CartItem{
		cartLine(t, 1, 101, "3.00", 2),
		cartLine(t, 3, 103, "5.50", 1),
	}, domain.EUR)

	require.NoError(t, err)
	require.Len(t, applied, 2, "independent promotions stack")
	total := domain.SumSavings(applied, domain.EUR)
	assert.True(t, total.Equal(eur(t, "1.55")), "1.00 plus 10 percent of 5.50")
}

func Test_ApplyAll_UnitCountsTowardEveryBucket(t *testing.T) {
	// One beer satisfies the individual requirement and the category
	// requirement at the same time; buckets do not consume units.
	promo := domain.Promotion{
		ID:   15,
		Name: "Beer and a drink",
		Trigger: domain.Trigger{
			Type:       domain.TriggerProductPurchase,
			Items:      []domain.TriggerItem{{MasterID: 101, Quantity: 1}},
			Categories: []domain.TriggerCategory{{CategoryID: 21, Quantity: 1}},
		},
		Discount: domain.Discount{Type: domain.DiscountAmount, Amounts: []domain.Money{eur(t, "0.50")}},
	}
	categories := []domain.PromotionCategory{{CategoryID: 21, Items: []int{101, 102}}}

	f := newEvaluator(t, []domain.Promotion{promo}, categories)

	applied, err := f.evaluator.ApplyAll(context.Background(), []domain.CartItem{
		cartLine(t, 1, 101, "3.00", 1),
	}, domain.EUR)

	require.NoError(t, err)
	assert.Len(t, applied, 1)
}

func Test_ApplyAll_EmptyCategoryExcluded(t *testing.T) {
	promo := domain.Promotion{
		ID:   16,
		Name: "Beer plus phantom",
		Trigger: domain.Trigger{
			Type:       domain.TriggerProductPurchase,
			Items:      []domain.TriggerItem{{MasterID: 101, Quantity: 1}},
			Categories: []domain.TriggerCategory{{CategoryID: 99, Quantity: 1}},
		},
		Discount: domain.Discount{Type: domain.DiscountAmount, Amounts: []domain.Money{eur(t, "1.00")}},
	}
	// Category 99 references products that never made it into the snapshot.
	categories := []domain.PromotionCategory{{CategoryID: 99, Items: []int{901, 902}}}

	f := newEvaluator(t, []domain.Promotion{promo}, categories)

	applied, err := f.evaluator.ApplyAll(context.Background(), []domain.CartItem{
		cartLine(t, 1, 101, "3.00", 1),
	}, domain.EUR)

	require.NoError(t, err)
	assert.Len(t, applied, 1, "empty category is excluded, not unsatisfiable")
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.EmptyPromotionCategories))
}

func Test_ApplyAll_AllRequirementsExcludedGrantsNothing(t *testing.T) {
	promo := domain.Promotion{
		ID:   17,
		Name: "Phantom only",
		Trigger: domain.Trigger{
			Type:       domain.TriggerProductPurchase,
			Categories: []domain.TriggerCategory{{CategoryID: 99, Quantity: 1}},
		},
		Discount: domain.Discount{Type: domain.DiscountAmount, Amounts: []domain.Money{eur(t, "1.00")}},
	}
	categories := []domain.PromotionCategory{{CategoryID: 99, Items: []int{901}}}

	f := newEvaluator(t, []domain.Promotion{promo}, categories)

	applied, err := f.evaluator.ApplyAll(context.Background(), []domain.CartItem{
		cartLine(t, 1, 101, "3.00", 1),
	}, domain.EUR)

	require.NoError(t, err)
	assert.Empty(t, applied, "a promotion where nothing was evaluated never applies")
}

func Test_ApplyAll_UnknownShapesAreSkipped(t *testing.T) {
	promos := []domain.Promotion{
		{
			ID:       18,
			Name:     "Future trigger",
			Trigger:  domain.Trigger{Type: "loyalty_tier"},
			Discount: domain.Discount{Type: domain.DiscountAmount, Amounts: []domain.Money{eur(t, "1.00")}},
		},
		{
			ID:       19,
			Name:     "Future discount",
			Trigger:  domain.Trigger{Type: domain.TriggerProductPurchase, Items: []domain.TriggerItem{{MasterID: 101, Quantity: 1}}},
			Discount: domain.Discount{Type: "cashback"},
		},
	}

	f := newEvaluator(t, promos, nil)

	applied, err := f.evaluator.ApplyAll(context.Background(), []domain.CartItem{
		cartLine(t, 1, 101, "3.00", 1),
	}, domain.EUR)

	require.NoError(t, err)
	assert.Empty(t, applied)
}

func Test_ApplyAll_FetchFailure(t *testing.T) {
	api := &domain.MockCatalogAPI{
		FetchPromotionsFunc: func(ctx context.Context) ([]domain.Promotion, error) {
			return nil, errors.New("link down")
		},
	}
	metrics := telemetry.NewMetrics(prometheus.NewRegistry())
	evaluator := promotion.NewLocalEvaluator(api, seededStock(t), metrics, zerolog.Nop())

	_, err := evaluator.ApplyAll(context.Background(), []domain.CartItem{
		cartLine(t, 1, 101, "3.00", 1),
	}, domain.EUR)

	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.EUNAVAILABLE))
}

func Test_Apply_SinglePromotion(t *testing.T) {
	promo := domain.Promotion{
		ID:       20,
		Name:     "Almond amount",
		Trigger:  domain.Trigger{Type: domain.TriggerProductPurchase, Items: []domain.TriggerItem{{MasterID: 102, Quantity: 1}}},
		Discount: domain.Discount{Type: domain.DiscountAmount, Amounts: []domain.Money{eur(t, "0.50")}},
	}

	f := newEvaluator(t, nil, nil)

	t.Run("satisfied", func(t *testing.T) {
		applied, err := f.evaluator.Apply(context.Background(), promo, []domain.CartItem{
			cartLine(t, 2, 102, "3.00", 1),
		}, domain.EUR)

		require.NoError(t, err)
		assert.Len(t, applied, 1)
	})

	t.Run("unsatisfied", func(t *testing.T) {
		applied, err := f.evaluator.Apply(context.Background(), promo, nil, domain.EUR)

		require.NoError(t, err)
		assert.Empty(t, applied)
	})
}
