package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/immflyretail/inseat-commerce/internal/domain"
	"github.com/immflyretail/inseat-commerce/internal/telemetry"
)

// Service keeps the local catalog projection in sync with the catalog feed:
// shop status, projected products (via Stock) and display categories.
//
// All feed failures degrade to the previous or empty data; they never
// propagate into pricing logic.
type Service struct {
	api     domain.CatalogAPI
	stock   *Stock
	metrics *telemetry.Metrics
	logger  zerolog.Logger
	opts    ProjectionOptions
	now     func() time.Time

	mu          sync.Mutex
	status      domain.ShopStatus
	shop        *domain.Shop
	categories  []domain.Category
	shopSub     domain.Subscription
	productsSub domain.Subscription
	registering bool
}

// NewService creates a catalog service. The projection options decide the
// session currency and closed-shop availability policy.
func NewService(api domain.CatalogAPI, stock *Stock, metrics *telemetry.Metrics, logger zerolog.Logger, opts ProjectionOptions) *Service {
	return &Service{
		api:     api,
		stock:   stock,
		metrics: metrics,
		logger:  logger.With().Str("component", "catalog").Logger(),
		opts:    opts,
		now:     time.Now,
		status:  domain.ShopStatusUnavailable,
	}
}

// Refresh fetches shop, products and categories once. A failed fetch leaves
// an empty catalog and an unavailable shop status rather than returning the
// feed error to pricing callers.
func (s *Service) Refresh(ctx context.Context) {
	shop, err := s.api.FetchShop(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to fetch shop, marking unavailable")
		s.metrics.CatalogRefreshFailures.Inc()
		shop = nil
	}
	s.handleShop(shop)

	products, err := s.api.FetchProducts(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to fetch products, keeping empty catalog")
		s.metrics.CatalogRefreshFailures.Inc()
		products = nil
	}
	s.handleProducts(products)

	categories, err := s.api.FetchCategories(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to fetch categories")
		s.metrics.CatalogRefreshFailures.Inc()
		categories = nil
	}
	s.handleCategories(categories)
}

// Start registers the shop and product observers. Calling Start while
// observers are active (or while a registration is in flight) is a no-op;
// a failed registration is logged and retried on the next Start.
func (s *Service) Start() error {
	s.mu.Lock()
	if s.registering || (s.shopSub != nil && s.productsSub != nil) {
		s.mu.Unlock()
		return nil
	}
	s.registering = true
	needShop := s.shopSub == nil
	needProducts := s.productsSub == nil
	s.mu.Unlock()

	// Registration runs unlocked: feeds may deliver the initial snapshot
	// synchronously from inside the observe call, and the handlers take
	// the same mutex.
	var shopSub, productsSub domain.Subscription
	if needShop {
		sub, err := s.api.ObserveShop(func(shop *domain.Shop) {
			s.handleShop(shop)
		})
		if err != nil {
			s.storeSubs(nil, nil)
			s.logger.Error().Err(err).Msg("failed to register shop observer")
			return domain.Unavailable(err, "catalog.start", "failed to register shop observer")
		}
		shopSub = sub
	}

	if needProducts {
		sub, err := s.api.ObserveProducts(func(products []domain.CatalogProduct) {
			s.handleProducts(products)
		})
		if err != nil {
			s.storeSubs(shopSub, nil)
			s.logger.Error().Err(err).Msg("failed to register products observer")
			return domain.Unavailable(err, "catalog.start", "failed to register products observer")
		}
		productsSub = sub
	}

	s.storeSubs(shopSub, productsSub)
	return nil
}

// storeSubs records whichever registrations succeeded and releases the
// registering guard.
func (s *Service) storeSubs(shopSub, productsSub domain.Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registering = false
	if shopSub != nil {
		s.shopSub = shopSub
	}
	if productsSub != nil {
		s.productsSub = productsSub
	}
}

// Stop cancels the active observers.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.shopSub != nil {
		s.shopSub.Cancel()
		s.shopSub = nil
	}
	if s.productsSub != nil {
		s.productsSub.Cancel()
		s.productsSub = nil
	}
}

// Status returns the current shop availability state.
func (s *Service) Status() domain.ShopStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Shop returns the latest shop snapshot, or nil before any data arrived.
func (s *Service) Shop() *domain.Shop {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shop
}

// Categories returns the flattened display categories.
func (s *Service) Categories() []domain.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Category, len(s.categories))
	copy(out, s.categories)
	return out
}

func (s *Service) handleShop(shop *domain.Shop) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.shop = shop
	if shop == nil {
		s.status = domain.ShopStatusUnavailable
		return
	}

	switch shop.Status {
	case domain.ShopPhaseOpen:
		s.status = domain.ShopStatusBrowse
	case domain.ShopPhaseOrder:
		s.status = domain.ShopStatusOrder
	case domain.ShopPhaseClosed:
		s.status = domain.ShopStatusClosed
	default:
		// Forward compatibility: a phase this build does not know about.
		s.logger.Warn().Str("phase", string(shop.Status)).Msg("unrecognized shop phase, marking unavailable")
		s.status = domain.ShopStatusUnavailable
	}
}

func (s *Service) handleProducts(raws []domain.CatalogProduct) {
	products := Project(raws, s.now(), s.opts)
	s.stock.SetAvailable(products)
	s.metrics.ProductSnapshots.Inc()
	s.logger.Debug().Int("raw", len(raws)).Int("projected", len(products)).Msg("product snapshot applied")
}

func (s *Service) handleCategories(raws []domain.CatalogCategory) {
	categories := FlattenCategories(raws)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = categories
}
