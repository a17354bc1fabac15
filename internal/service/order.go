package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/immflyretail/inseat-commerce/internal/domain"
	"github.com/immflyretail/inseat-commerce/internal/order"
	"github.com/immflyretail/inseat-commerce/internal/telemetry"
)

// Order domain errors.
var (
	ErrCancelNotAllowed = &domain.Error{Code: domain.ECONFLICT, Message: "Order can no longer be cancelled"}
)

// OrderService tracks the session's orders as streamed by the order
// collaborator and enforces the cancellation policy.
type OrderService interface {
	// Start registers the orders observer. Calling Start while a
	// subscription is active is a no-op. A failed registration is returned
	// (and logged) and retried on the next Start.
	Start() error

	// Stop cancels the active subscription.
	Stop()

	// Orders returns the latest order snapshot.
	Orders() []domain.Order

	// Order returns one order by ID.
	Order(id string) (*domain.Order, error)

	// CancelOrder requests cancellation. Permitted only while the order's
	// display status is still Placed.
	CancelOrder(ctx context.Context, id string) error
}

type orderService struct {
	api     domain.OrderAPI
	metrics *telemetry.Metrics
	logger  zerolog.Logger

	mu          sync.Mutex
	sub         domain.Subscription
	registering bool
	orders      []domain.Order
}

// NewOrderService creates the order tracking service.
func NewOrderService(api domain.OrderAPI, metrics *telemetry.Metrics, logger zerolog.Logger) OrderService {
	return &orderService{
		api:     api,
		metrics: metrics,
		logger:  logger.With().Str("component", "orders").Logger(),
	}
}

func (s *orderService) Start() error {
	s.mu.Lock()
	if s.sub != nil || s.registering {
		s.mu.Unlock()
		return nil
	}
	s.registering = true
	s.mu.Unlock()

	// Registration runs unlocked: the feed may deliver the initial snapshot
	// synchronously from inside ObserveOrders, and handleOrders takes the
	// same mutex.
	sub, err := s.api.ObserveOrders(s.handleOrders)

	s.mu.Lock()
	s.registering = false
	if err == nil {
		s.sub = sub
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error().Err(err).Msg("failed to register orders observer")
		return domain.Unavailable(err, "order.start", "failed to register orders observer")
	}
	return nil
}

func (s *orderService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sub != nil {
		s.sub.Cancel()
		s.sub = nil
	}
}

// handleOrders replaces the order snapshot wholesale.
func (s *orderService) handleOrders(remotes []domain.RemoteOrder) {
	orders := make([]domain.Order, 0, len(remotes))
	for _, remote := range remotes {
		mapped, err := s.mapOrder(remote)
		if err != nil {
			s.logger.Warn().Err(err).Str("order_id", remote.ID).Msg("dropping order with unmappable payload")
			continue
		}
		orders = append(orders, mapped)
	}

	s.mu.Lock()
	s.orders = orders
	s.mu.Unlock()
}

// mapOrder projects a wire order into the domain. Savings are recovered
// from the applied promotions (coupons contribute nothing); the subtotal is
// the settled total with savings added back. A raw status this build does
// not recognize is projected as placed and reported, never fatal.
func (s *orderService) mapOrder(remote domain.RemoteOrder) (domain.Order, error) {
	currency, err := domain.CurrencyByCode(remote.Currency)
	if err != nil {
		return domain.Order{}, err
	}

	if _, known := order.Classify(remote.Status); !known {
		s.logger.Warn().
			Str("order_id", remote.ID).
			Str("status", string(remote.Status)).
			Msg("unrecognized raw order status, displaying as placed")
		s.metrics.UnknownOrderStatuses.Inc()
	}

	items := make([]domain.OrderItem, 0, len(remote.Items))
	for _, item := range remote.Items {
		items = append(items, domain.OrderItem{
			ID:        item.ID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: domain.NewMoney(item.Price, currency),
		})
	}

	savings := domain.SumSavings(remote.AppliedPromotions, currency)
	total := domain.NewMoney(remote.TotalPrice, currency)

	var totalSavings *domain.Money
	if savings.Amount.IsPositive() {
		totalSavings = &savings
	}

	return domain.Order{
		ID:            remote.ID,
		SeatNumber:    remote.SeatNumber,
		Items:         items,
		SubtotalPrice: total.Add(savings),
		TotalSavings:  totalSavings,
		TotalPrice:    total,
		Status:        remote.Status,
		CreatedAt:     remote.CreatedAt,
	}, nil
}

func (s *orderService) Orders() []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Order, len(s.orders))
	copy(out, s.orders)
	return out
}

func (s *orderService) Order(id string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID == id {
			o := s.orders[i]
			return &o, nil
		}
	}
	return nil, domain.NotFound("order.get", "order", id)
}

func (s *orderService) CancelOrder(ctx context.Context, id string) error {
	existing, err := s.Order(id)
	if err != nil {
		return err
	}

	if !order.CanCancel(existing.Status) {
		return ErrCancelNotAllowed
	}

	if err := s.api.CancelOrder(ctx, id); err != nil {
		return domain.Unavailable(err, "order.cancel", "failed to cancel order")
	}

	s.metrics.OrdersCancelled.Inc()
	s.logger.Info().Str("order_id", id).Msg("order cancellation requested")
	return nil
}
