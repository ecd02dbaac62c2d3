package pos

import (
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Snapshot is a point-in-time view of one operator's cart.
type Snapshot struct {
	Lines []Line          `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

// CartStore keeps one cart per operator. Carts live in process memory;
// an unfinished sale does not survive a restart, which mirrors how a
// physical register works.
type CartStore struct {
	mu    sync.Mutex
	carts map[uuid.UUID]*Cart
}

// NewCartStore builds an empty cart store.
func NewCartStore() *CartStore {
	return &CartStore{carts: make(map[uuid.UUID]*Cart)}
}

func (s *CartStore) cartFor(sellerID uuid.UUID) *Cart {
	cart, ok := s.carts[sellerID]
	if !ok {
		cart = &Cart{}
		s.carts[sellerID] = cart
	}
	return cart
}

// AddItem adds one unit of the product to the operator's cart.
func (s *CartStore) AddItem(sellerID, productID uuid.UUID, name string, unitPrice decimal.Decimal) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart := s.cartFor(sellerID)
	cart.AddItem(productID, name, unitPrice)
	return snapshot(cart)
}

// UpdateQuantity sets the quantity for a cart line; zero or less removes it.
func (s *CartStore) UpdateQuantity(sellerID, productID uuid.UUID, quantity int) (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart := s.cartFor(sellerID)
	found := cart.UpdateQuantity(productID, quantity)
	return snapshot(cart), found
}

// RemoveItem drops the product from the operator's cart.
func (s *CartStore) RemoveItem(sellerID, productID uuid.UUID) (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart := s.cartFor(sellerID)
	found := cart.RemoveItem(productID)
	return snapshot(cart), found
}

// Clear empties the operator's cart.
func (s *CartStore) Clear(sellerID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sellerID)
}

// Get returns the operator's current cart contents.
func (s *CartStore) Get(sellerID uuid.UUID) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart, ok := s.carts[sellerID]
	if !ok {
		return Snapshot{Lines: []Line{}, Total: decimal.Zero}
	}
	return snapshot(cart)
}

func snapshot(cart *Cart) Snapshot {
	return Snapshot{
		Lines: cart.Lines(),
		Total: cart.Total(),
	}
}
