// Package store implements the in-memory inventory: an ordered product
// collection with stock aggregation, active-product listing, and order
// execution.
package store

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dkotenko/storefront/internal/domain"
	"github.com/dkotenko/storefront/internal/domain/product"
)

// LineItem is one (product, requested quantity) pair of an order.
type LineItem struct {
	Product  *product.Product
	Quantity int
}

// Receipt records a completed order.
type Receipt struct {
	ID       string
	Lines    []LineItem
	Total    decimal.Decimal
	PlacedAt time.Time
}

// Store owns an ordered collection of products. Insertion order is
// preserved, the same product may appear more than once, and product names
// are not required to be unique.
//
// All operations take a single store-level lock, so concurrent callers can
// place orders without overselling. The products themselves are not
// synchronized; mutate them through the store once it owns them.
type Store struct {
	mu       sync.Mutex
	products []*product.Product
	receipts []Receipt

	now func() time.Time
}

// New creates a store holding the given initial products.
func New(initial []*product.Product) *Store {
	s := &Store{
		products: make([]*product.Product, len(initial)),
		now:      time.Now,
	}
	copy(s.products, initial)
	return s
}

// AddProduct appends a product to the inventory.
func (s *Store) AddProduct(p *product.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = append(s.products, p)
}

// RemoveProduct removes every occurrence of p, matched by identity.
func (s *Store) RemoveProduct(p *product.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.products[:0]
	for _, item := range s.products {
		if item != p {
			kept = append(kept, item)
		}
	}
	s.products = kept
}

// TotalQuantity sums the stock of every product, inactive ones included.
func (s *Store) TotalQuantity() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, p := range s.products {
		total += p.Quantity()
	}
	return total
}

// ActiveProducts returns the active products in insertion order.
func (s *Store) ActiveProducts() []*product.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := make([]*product.Product, 0, len(s.products))
	for _, p := range s.products {
		if p.IsActive() {
			active = append(active, p)
		}
	}
	return active
}

// Receipts returns a copy of the receipts of all completed orders, oldest
// first.
func (s *Store) Receipts() []Receipt {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Receipt, len(s.receipts))
	copy(out, s.receipts)
	return out
}

// Order processes the line items sequentially and returns the summed price.
// Each line requires an active product and enough stock; the first failing
// line aborts the order.
//
// Order is NOT atomic: lines before the failing one stay applied, there is
// no rollback. A failed order must be treated as partially applied. Use
// OrderAtomic for all-or-nothing semantics.
func (s *Store) Order(lines []LineItem) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, line := range lines {
		if !line.Product.IsActive() {
			return decimal.Zero, domain.Invalidf("%s is not active", line.Product.Name())
		}
		price, err := line.Product.Buy(line.Quantity)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(price)
	}

	s.record(lines, total)
	return total, nil
}

// OrderAtomic validates every line before touching any stock, then applies
// the whole order. When validation fails nothing is mutated. Validation
// covers activity, per-order purchase caps, and the aggregate requested
// quantity per product across duplicate lines.
func (s *Store) OrderAtomic(lines []LineItem) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	required := make(map[*product.Product]int, len(lines))
	for _, line := range lines {
		p := line.Product
		if !p.IsActive() {
			return decimal.Zero, domain.Invalidf("%s is not active", p.Name())
		}
		if line.Quantity <= 0 {
			return decimal.Zero, domain.Invalidf("purchase quantity must be greater than zero, got %d", line.Quantity)
		}
		if p.Kind() == product.KindLimited && line.Quantity > p.Maximum() {
			return decimal.Zero, domain.Invalidf("cannot purchase more than %d of %q at once", p.Maximum(), p.Name())
		}
		required[p] += line.Quantity
		if required[p] > p.Quantity() {
			return decimal.Zero, domain.Invalidf("not enough %q in stock: requested %d, available %d", p.Name(), required[p], p.Quantity())
		}
	}

	total := decimal.Zero
	for _, line := range lines {
		price, err := line.Product.Buy(line.Quantity)
		if err != nil {
			// Unreachable after validation; surface it instead of guessing.
			return decimal.Zero, err
		}
		total = total.Add(price)
	}

	s.record(lines, total)
	return total, nil
}

// record appends a receipt for a completed order. Caller holds the lock.
func (s *Store) record(lines []LineItem, total decimal.Decimal) {
	recorded := make([]LineItem, len(lines))
	copy(recorded, lines)
	s.receipts = append(s.receipts, Receipt{
		ID:       uuid.New().String(),
		Lines:    recorded,
		Total:    total,
		PlacedAt: s.now(),
	})
}
