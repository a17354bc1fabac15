// Command shopcore runs a scripted in-flight retail session against an
// in-memory catalog, exercising the full selection -> promotion ->
// checkout -> order tracking flow.
package main

import (
	"context"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/immflyretail/inseat-commerce/internal"
	"github.com/immflyretail/inseat-commerce/internal/catalog"
	"github.com/immflyretail/inseat-commerce/internal/domain"
	"github.com/immflyretail/inseat-commerce/internal/order"
	"github.com/immflyretail/inseat-commerce/internal/promotion"
	"github.com/immflyretail/inseat-commerce/internal/service"
	"github.com/immflyretail/inseat-commerce/internal/telemetry"
)

func main() {
	cfg, err := internal.NewConfig()
	if err != nil {
		os.Exit(1)
	}

	logger := internal.NewLogger(os.Stderr, cfg.Env, cfg.LogLevel)

	currency, err := domain.CurrencyByCode(cfg.CurrencyCode)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid shop currency")
	}

	metrics := telemetry.NewMetrics(prometheus.NewRegistry())
	api := newMemAPI()

	stock := catalog.NewStock()
	catalogSvc := catalog.NewService(api, stock, metrics, logger, catalog.ProjectionOptions{
		Currency:                    currency,
		OrdersEnabledWhenShopClosed: cfg.OrdersEnabledWhenShopClosed,
		ClosedShopQuantity:          cfg.ClosedShopQuantityOverride,
	})

	evaluator := promotion.NewLocalEvaluator(api, stock, metrics, logger)
	cartSvc := service.NewCartService(stock, evaluator, metrics, logger, service.CartConfig{
		Currency:           currency,
		EvaluationTimeout:  cfg.EvaluationTimeout,
		ClampNegativeTotal: cfg.ClampNegativeTotal,
	})
	checkoutSvc := service.NewCheckoutService(cartSvc, api, api, metrics, logger)
	orderSvc := service.NewOrderService(api, metrics, logger)

	ctx := context.Background()

	catalogSvc.Refresh(ctx)
	if cfg.AutomaticDataRefresh {
		if err := catalogSvc.Start(); err != nil {
			logger.Error().Err(err).Msg("catalog observers unavailable, continuing with fetched data")
		}
	}
	if err := orderSvc.Start(); err != nil {
		logger.Error().Err(err).Msg("order observer unavailable")
	}

	logger.Info().Str("status", string(catalogSvc.Status())).Msg("shop status")
	for _, p := range stock.All() {
		logger.Info().Str("product", p.Name).Str("price", p.Price.Format()).Int("available", p.AvailableQuantity).Msg("on sale")
	}

	// Two beers and a bag of almonds: 9.00 EUR, triggering the 2 EUR saver.
	cart := <-cartSvc.SetSelection(ctx, map[int]int{1: 2, 2: 1})

	logger.Info().
		Str("subtotal", cartSvc.Subtotal(cart).Format()).
		Str("total", cartSvc.Total(cart).Format()).
		Msg("cart priced")
	if savings := cartSvc.Savings(cart); savings != nil {
		for _, applied := range cart.AppliedPromotions {
			logger.Info().Str("promotion", applied.Name).Msg("promotion applied")
		}
		logger.Info().Str("savings", savings.Format()).Msg("promotion savings")
	}

	orderID, err := checkoutSvc.Submit(ctx, service.SubmitParams{SeatNumber: "12A"})
	if err != nil {
		logger.Fatal().Err(err).Msg("order submission failed")
	}

	// Crew takes over: the fixture walks the order through its lifecycle.
	api.advance(orderID, domain.OrderPreparing)
	api.advance(orderID, domain.OrderCompleted)

	placed, err := orderSvc.Order(orderID)
	if err != nil {
		logger.Fatal().Err(err).Msg("order disappeared from snapshot")
	}

	display, _ := order.Classify(placed.Status)
	stages := order.SortedStages(display)
	logger.Info().
		Str("order_id", placed.ID).
		Str("total", placed.TotalPrice.Format()).
		Int("stage", order.CurrentIndex(display)+1).
		Int("of", len(stages)).
		Msg("order delivered")
}
