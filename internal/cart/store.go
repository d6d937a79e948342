// Package cart holds the client-side shopping cart.
//
// Store is owned by the UI event loop and is not safe for concurrent use.
// Observers registered with Subscribe are called synchronously after every
// mutation that changes the cart, once the new state is fully in place.
package cart

import (
	"loja/internal/catalog"

	"github.com/shopspring/decimal"
)

// Item is a product in the cart together with the desired quantity.
type Item struct {
	catalog.Product
	Quantity int
}

// Subtotal returns price * quantity for the line.
func (i Item) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Snapshot is an immutable view of the cart handed to observers.
type Snapshot struct {
	Items     []Item
	Total     decimal.Decimal
	ItemCount int
}

// Empty reports whether the snapshot has no items.
func (s Snapshot) Empty() bool { return len(s.Items) == 0 }

// Observer receives the cart state after a mutation.
type Observer func(Snapshot)

// Store is the canonical in-memory cart. Items keep the order in which
// products were first added; at most one item exists per product ID and
// every quantity is at least 1.
type Store struct {
	items     []Item
	observers map[int]Observer
	order     []int
	nextSub   int
}

// NewStore returns an empty cart.
func NewStore() *Store {
	return &Store{observers: make(map[int]Observer)}
}

// Add merges quantity into the item for product, appending a new item if the
// product is not in the cart yet. Non-positive quantities are ignored.
func (s *Store) Add(product catalog.Product, quantity int) {
	if quantity <= 0 {
		return
	}
	if i := s.index(product.ID); i >= 0 {
		s.items[i].Quantity += quantity
	} else {
		s.items = append(s.items, Item{Product: product, Quantity: quantity})
	}
	s.notify()
}

// AddOne adds a single unit of product.
func (s *Store) AddOne(product catalog.Product) {
	s.Add(product, 1)
}

// Remove deletes the item for productID. Absent IDs are a no-op.
func (s *Store) Remove(productID string) {
	i := s.index(productID)
	if i < 0 {
		return
	}
	s.items = append(s.items[:i:i], s.items[i+1:]...)
	s.notify()
}

// SetQuantity replaces the quantity of an existing item. A quantity of zero
// or less removes the item. Absent IDs are never inserted.
func (s *Store) SetQuantity(productID string, quantity int) {
	if quantity <= 0 {
		s.Remove(productID)
		return
	}
	i := s.index(productID)
	if i < 0 || s.items[i].Quantity == quantity {
		return
	}
	s.items[i].Quantity = quantity
	s.notify()
}

// Increment changes an item's quantity by delta, removing it when the result
// drops to zero or below.
func (s *Store) Increment(productID string, delta int) {
	i := s.index(productID)
	if i < 0 {
		return
	}
	s.SetQuantity(productID, s.items[i].Quantity+delta)
}

// Clear empties the cart.
func (s *Store) Clear() {
	if len(s.items) == 0 {
		return
	}
	s.items = nil
	s.notify()
}

// Total is the sum of price * quantity over all items.
func (s *Store) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range s.items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// ItemCount is the sum of all quantities, not the number of distinct items.
func (s *Store) ItemCount() int {
	n := 0
	for _, it := range s.items {
		n += it.Quantity
	}
	return n
}

// Len is the number of distinct products in the cart.
func (s *Store) Len() int { return len(s.items) }

// Items returns a copy of the cart lines in insertion order.
func (s *Store) Items() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Get returns the item for productID, if present.
func (s *Store) Get(productID string) (Item, bool) {
	if i := s.index(productID); i >= 0 {
		return s.items[i], true
	}
	return Item{}, false
}

// Snapshot captures the current state.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		Items:     s.Items(),
		Total:     s.Total(),
		ItemCount: s.ItemCount(),
	}
}

// Subscribe registers fn to be called after each change. The returned
// function removes the registration; calling it more than once is harmless.
func (s *Store) Subscribe(fn Observer) (unsubscribe func()) {
	id := s.nextSub
	s.nextSub++
	s.observers[id] = fn
	s.order = append(s.order, id)
	return func() {
		if _, ok := s.observers[id]; !ok {
			return
		}
		delete(s.observers, id)
		for i, v := range s.order {
			if v == id {
				s.order = append(s.order[:i:i], s.order[i+1:]...)
				break
			}
		}
	}
}

func (s *Store) notify() {
	if len(s.order) == 0 {
		return
	}
	snap := s.Snapshot()
	// Observers may unsubscribe while being notified.
	ids := append([]int(nil), s.order...)
	for _, id := range ids {
		if fn, ok := s.observers[id]; ok {
			fn(snap)
		}
	}
}

func (s *Store) index(productID string) int {
	for i, it := range s.items {
		if it.ID == productID {
			return i
		}
	}
	return -1
}
