package service

import (
	"context"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/immflyretail/inseat-commerce/internal/domain"
	"github.com/immflyretail/inseat-commerce/internal/telemetry"
)

// seatNumberPattern matches cabin seats such as "4C" or "31F".
var seatNumberPattern = regexp.MustCompile(`^[1-9][0-9]?[A-Z]$`)

// SubmitParams carries passenger input for order submission.
type SubmitParams struct {
	SeatNumber string `validate:"required,seat_number"`
}

// CheckoutService finalizes the current cart into an order.
type CheckoutService interface {
	// Submit validates the input, assembles the order from the current cart
	// and hands it to the order collaborator. The cart is reset only after
	// the collaborator accepts the order; on failure it is left intact so
	// the passenger can retry.
	Submit(ctx context.Context, params SubmitParams) (orderID string, err error)
}

type checkoutService struct {
	cart     domain.CartService
	catalog  domain.CatalogAPI
	orders   domain.OrderAPI
	metrics  *telemetry.Metrics
	logger   zerolog.Logger
	validate *validator.Validate
	now      func() time.Time
}

// NewCheckoutService creates the checkout service.
func NewCheckoutService(cart domain.CartService, catalogAPI domain.CatalogAPI, orderAPI domain.OrderAPI, metrics *telemetry.Metrics, logger zerolog.Logger) CheckoutService {
	validate := validator.New()
	// Registration only fails for empty tags or nil funcs.
	_ = validate.RegisterValidation("seat_number", func(fl validator.FieldLevel) bool {
		return seatNumberPattern.MatchString(fl.Field().String())
	})

	return &checkoutService{
		cart:     cart,
		catalog:  catalogAPI,
		orders:   orderAPI,
		metrics:  metrics,
		logger:   logger.With().Str("component", "checkout").Logger(),
		validate: validate,
		now:      time.Now,
	}
}

func (s *checkoutService) Submit(ctx context.Context, params SubmitParams) (string, error) {
	if err := s.validate.Struct(params); err != nil {
		return "", domain.WrapError(err, domain.EINVALID, "checkout.submit", "invalid seat number")
	}

	cart := s.cart.CurrentCart()
	if len(cart.Items) == 0 {
		return "", domain.ErrCartEmpty
	}

	shop, err := s.catalog.FetchShop(ctx)
	if err != nil {
		s.metrics.OrderSubmitFailures.Inc()
		return "", domain.Unavailable(err, "checkout.submit", "failed to fetch shop for shift")
	}
	if shop == nil || shop.ShiftID == "" {
		s.metrics.OrderSubmitFailures.Inc()
		return "", domain.Errorf(domain.EUNAVAILABLE, "checkout.submit", "no active shift")
	}

	items := make([]domain.RemoteOrderItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, domain.RemoteOrderItem{
			ID:       item.ProductID,
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.UnitPrice,
		})
	}

	now := s.now()
	remote := domain.RemoteOrder{
		ID:                uuid.NewString(),
		ShiftID:           shop.ShiftID,
		SeatNumber:        params.SeatNumber,
		Status:            domain.OrderPlaced,
		Items:             items,
		AppliedPromotions: cart.AppliedPromotions,
		Currency:          cart.Currency.Code,
		TotalPrice:        cart.TotalPrice.Amount,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.orders.CreateOrder(ctx, remote); err != nil {
		// Keep the cart so the passenger can retry.
		s.metrics.OrderSubmitFailures.Inc()
		s.logger.Error().Err(err).Str("order_id", remote.ID).Msg("order submission failed")
		return "", domain.Unavailable(err, "checkout.submit", "order submission failed")
	}

	s.cart.ResetCart()
	s.metrics.OrdersSubmitted.Inc()
	s.logger.Info().Str("order_id", remote.ID).Str("seat", params.SeatNumber).Msg("order submitted")
	return remote.ID, nil
}
