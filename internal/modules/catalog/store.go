package catalog

import (
	"strings"
	"sync"
)

// Store holds the active catalog generation, the shipping table and the PO
// config. All mutation goes through ReplaceCatalog and MergeConfig.
type Store struct {
	mu         sync.RWMutex
	products   []Product
	byID       map[int]int
	zones      []ShippingZone
	config     Config
	generation uint64
	listeners  []func(generation uint64)
}

// NewStore seeds a store with fallback data. The zone table is fixed for the
// lifetime of the store.
func NewStore(products []Product, zones []ShippingZone, cfg Config) *Store {
	s := &Store{
		zones:  append([]ShippingZone(nil), zones...),
		config: cfg,
	}
	s.setProducts(products)
	return s
}

func (s *Store) setProducts(products []Product) {
	s.products = append([]Product(nil), products...)
	s.byID = make(map[int]int, len(products))
	for i, p := range s.products {
		if _, dup := s.byID[p.ID]; !dup {
			s.byID[p.ID] = i
		}
	}
}

// OnReplace registers fn to run after every ReplaceCatalog with the new
// generation. Listeners run outside the store lock, in registration order.
func (s *Store) OnReplace(fn func(generation uint64)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// ReplaceCatalog swaps in a new catalog generation atomically and notifies
// the replacement listeners.
func (s *Store) ReplaceCatalog(products []Product) {
	s.mu.Lock()
	s.setProducts(products)
	s.generation++
	gen := s.generation
	listeners := append(([]func(uint64))(nil), s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(gen)
	}
}

// MergeConfig overwrites only the fields the patch supplies.
func (s *Store) MergeConfig(patch ConfigPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !patch.CloseDate.IsZero() {
		s.config.CloseDate = patch.CloseDate
	}
	if patch.DeliveryNotice != "" {
		s.config.DeliveryNotice = patch.DeliveryNotice
	}
	if patch.AdminContact != "" {
		s.config.AdminContact = patch.AdminContact
	}
}

func (s *Store) Catalog() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Product(nil), s.products...)
}

func (s *Store) Config() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

func (s *Store) Zones() []ShippingZone {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ShippingZone(nil), s.zones...)
}

// Product looks a product up by id in the current generation.
func (s *Store) Product(id int) (Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byID[id]
	if !ok {
		return Product{}, false
	}
	return s.products[i], true
}

// Generation increments on every ReplaceCatalog; the seed is generation 0.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Filter returns products whose name contains keyword (case-insensitive) and
// whose category matches. An empty or "all" category matches everything.
func (s *Store) Filter(keyword, category string) []Product {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	category = strings.TrimSpace(category)
	matchAll := category == "" || category == "all"

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		if !strings.Contains(strings.ToLower(p.Name), keyword) {
			continue
		}
		if !matchAll && p.Category != category {
			continue
		}
		out = append(out, p)
	}
	return out
}
