package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/immflyretail/inseat-commerce/internal/catalog"
	"github.com/immflyretail/inseat-commerce/internal/domain"
	"github.com/immflyretail/inseat-commerce/internal/promotion"
	"github.com/immflyretail/inseat-commerce/internal/telemetry"
)

// CartConfig carries the session pricing policy.
type CartConfig struct {
	Currency domain.Currency

	// EvaluationTimeout bounds each promotion evaluation task so a hung
	// collaborator cannot leave totals stale forever.
	EvaluationTimeout time.Duration

	// ClampNegativeTotal forfeits discount excess that would drive the total
	// below zero. When disabled the total is still floored at zero but the
	// overshoot is logged as a warning.
	ClampNegativeTotal bool
}

type cartService struct {
	stock     *catalog.Stock
	evaluator promotion.Evaluator
	metrics   *telemetry.Metrics
	logger    zerolog.Logger
	cfg       CartConfig

	mu   sync.Mutex
	cart domain.Cart
	// seq tags each scheduled evaluation with the selection generation it
	// was computed from. Results whose tag no longer matches are discarded:
	// last write wins.
	seq uint64
}

// NewCartService creates the cart manager for one session.
func NewCartService(stock *catalog.Stock, evaluator promotion.Evaluator, metrics *telemetry.Metrics, logger zerolog.Logger, cfg CartConfig) domain.CartService {
	if cfg.EvaluationTimeout <= 0 {
		cfg.EvaluationTimeout = 10 * time.Second
	}
	return &cartService{
		stock:     stock,
		evaluator: evaluator,
		metrics:   metrics,
		logger:    logger.With().Str("component", "cart").Logger(),
		cfg:       cfg,
		cart:      domain.EmptyCart(cfg.Currency),
	}
}

// SetSelection replaces the selection and schedules one promotion
// evaluation. Line items and subtotal are updated synchronously; applied
// promotions keep their last-known-good value until the evaluation settles.
func (s *cartService) SetSelection(ctx context.Context, selection map[int]int) <-chan domain.Cart {
	items := s.materialize(selection)

	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.cart.Items = items
	s.cart.TotalPrice = s.totalLocked()
	s.mu.Unlock()

	done := make(chan domain.Cart, 1)
	go s.evaluate(ctx, seq, items, done)
	return done
}

// materialize joins the selection against the stock snapshot: quantities
// <= 0 are removed, unknown or stale product IDs are dropped, and
// quantities are clamped to availability. Output is ordered by product ID
// so repeated selections price identically.
func (s *cartService) materialize(selection map[int]int) []domain.CartItem {
	items := make([]domain.CartItem, 0, len(selection))
	for productID, quantity := range selection {
		if quantity <= 0 {
			continue
		}
		product, ok := s.stock.Product(productID)
		if !ok {
			s.logger.Debug().Int("product_id", productID).Msg("selection references unknown product, dropping")
			continue
		}
		if quantity > product.AvailableQuantity {
			quantity = product.AvailableQuantity
		}
		if quantity == 0 {
			continue
		}
		items = append(items, domain.CartItem{
			ProductID: productID,
			MasterID:  product.MasterID,
			Name:      product.Name,
			Quantity:  quantity,
			UnitPrice: product.Price.Amount,
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })
	return items
}

func (s *cartService) evaluate(ctx context.Context, seq uint64, items []domain.CartItem, done chan<- domain.Cart) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.EvaluationTimeout)
	defer cancel()

	applied, err := s.evaluator.ApplyAll(ctx, items, s.cfg.Currency)

	s.mu.Lock()
	if seq != s.seq {
		// The selection changed while this evaluation was in flight.
		snapshot := s.cart
		s.mu.Unlock()

		s.logger.Debug().Uint64("seq", seq).Msg("discarding stale promotion evaluation")
		s.metrics.StaleEvaluations.Inc()
		done <- snapshot
		close(done)
		return
	}

	switch {
	case err != nil:
		// Keep the last-known-good applied promotions rather than clearing.
		s.logger.Error().Err(err).Msg("promotion evaluation failed, keeping previous promotions")
		s.metrics.PromotionEvaluations.WithLabelValues("error").Inc()
	case len(applied) == 0:
		s.cart.AppliedPromotions = nil
		s.metrics.PromotionEvaluations.WithLabelValues("none").Inc()
	default:
		s.cart.AppliedPromotions = applied
		s.metrics.PromotionEvaluations.WithLabelValues("applied").Inc()
	}
	s.cart.TotalPrice = s.totalLocked()
	snapshot := s.cart
	s.mu.Unlock()

	total, _ := snapshot.TotalPrice.Amount.Float64()
	s.metrics.CartValue.Observe(total)

	done <- snapshot
	close(done)
}

// totalLocked recomputes subtotal minus savings, floored at zero.
// Callers must hold s.mu.
func (s *cartService) totalLocked() domain.Money {
	subtotal := subtotalOf(s.cart.Items, s.cfg.Currency)
	savings := domain.SumSavings(s.cart.AppliedPromotions, s.cfg.Currency)
	total := subtotal.Sub(savings)
	if total.IsNegative() {
		if !s.cfg.ClampNegativeTotal {
			s.logger.Warn().
				Str("subtotal", subtotal.String()).
				Str("savings", savings.String()).
				Msg("savings exceed subtotal, forfeiting excess")
		}
		total = domain.Zero(s.cfg.Currency)
	}
	return total
}

// CurrentCart returns the latest cart snapshot.
func (s *cartService) CurrentCart() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart
}

// ResetCart empties the cart after a successful order submission.
func (s *cartService) ResetCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.cart = domain.EmptyCart(s.cfg.Currency)
}

// Currency returns the session currency.
func (s *cartService) Currency() domain.Currency {
	return s.cfg.Currency
}

// Subtotal is the pre-discount sum of extended line prices. An empty cart
// yields a zero amount in the session currency.
func (s *cartService) Subtotal(cart domain.Cart) domain.Money {
	return subtotalOf(cart.Items, cart.Currency)
}

// Savings sums the applied promotion savings; nil when nothing was saved.
func (s *cartService) Savings(cart domain.Cart) *domain.Money {
	savings := domain.SumSavings(cart.AppliedPromotions, cart.Currency)
	if !savings.Amount.IsPositive() {
		return nil
	}
	return &savings
}

// Total returns the resolved cart total.
func (s *cartService) Total(cart domain.Cart) domain.Money {
	return cart.TotalPrice
}

func subtotalOf(items []domain.CartItem, currency domain.Currency) domain.Money {
	subtotal := domain.Zero(currency)
	for _, item := range items {
		subtotal = subtotal.Add(item.ExtendedPrice(currency))
	}
	return subtotal
}
