package catalog

import (
	"sync"

	"github.com/immflyretail/inseat-commerce/internal/domain"
)

// Stock holds the current projected product snapshot. Snapshots are replaced
// wholesale; there are no partial updates. Safe for concurrent use, since
// feed callbacks arrive on arbitrary goroutines.
type Stock struct {
	mu       sync.RWMutex
	products []domain.Product
	byID     map[int]domain.Product
	byMaster map[int]domain.Product
}

// NewStock creates an empty stock snapshot store.
func NewStock() *Stock {
	return &Stock{
		byID:     make(map[int]domain.Product),
		byMaster: make(map[int]domain.Product),
	}
}

// SetAvailable replaces the snapshot with the given projected products.
func (s *Stock) SetAvailable(products []domain.Product) {
	byID := make(map[int]domain.Product, len(products))
	byMaster := make(map[int]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
		byMaster[p.MasterID] = p
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = products
	s.byID = byID
	s.byMaster = byMaster
}

// Product returns the product with the given sellable SKU id.
func (s *Stock) Product(id int) (domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byID[id]
	return p, ok
}

// ProductByMaster returns the product variant for the given master id.
func (s *Stock) ProductByMaster(masterID int) (domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byMaster[masterID]
	return p, ok
}

// All returns the current snapshot.
func (s *Stock) All() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out
}
