// Package product implements catalog items: plain stocked products plus the
// non-stocked and per-order-limited variants.
package product

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dkotenko/storefront/internal/domain"
	"github.com/dkotenko/storefront/internal/domain/promo"
)

// Kind enumerates the product variants.
type Kind string

const (
	// KindStandard is a regular stocked product.
	KindStandard Kind = "standard"
	// KindNonStocked is an intangible good with no stock tracking; quantity
	// is pinned at zero.
	KindNonStocked Kind = "non_stocked"
	// KindLimited caps how many units a single purchase may take.
	KindLimited Kind = "limited"
)

// Product is a catalog item with a price, a mutable stock level, an active
// flag, and an optional attached promotion. The zero value is not usable;
// construct through New, NewNonStocked, or NewLimited.
type Product struct {
	name     string
	price    decimal.Decimal
	quantity int
	active   bool
	kind     Kind

	// maximum is the per-order purchase cap; only meaningful for KindLimited.
	maximum int

	// promotion is shared, not owned: the same value may be attached to
	// several products.
	promotion *promo.Promotion
}

// New creates a standard stocked product. The name must be non-empty and
// price and quantity non-negative. New products start active.
func New(name string, price decimal.Decimal, quantity int) (*Product, error) {
	return construct(name, price, quantity, KindStandard, 0)
}

// NewNonStocked creates a product without stock tracking, such as a software
// license. Its quantity is permanently zero.
func NewNonStocked(name string, price decimal.Decimal) (*Product, error) {
	return construct(name, price, 0, KindNonStocked, 0)
}

// NewLimited creates a stocked product that additionally caps how many units
// one purchase may take. maximum must be positive.
func NewLimited(name string, price decimal.Decimal, quantity, maximum int) (*Product, error) {
	if maximum <= 0 {
		return nil, domain.Invalidf("maximum purchase quantity must be greater than zero, got %d", maximum)
	}
	return construct(name, price, quantity, KindLimited, maximum)
}

func construct(name string, price decimal.Decimal, quantity int, kind Kind, maximum int) (*Product, error) {
	if name == "" {
		return nil, domain.Invalidf("product name cannot be empty")
	}
	if price.IsNegative() {
		return nil, domain.Invalidf("product price cannot be negative, got %s", price)
	}
	if quantity < 0 {
		return nil, domain.Invalidf("product quantity cannot be negative, got %d", quantity)
	}
	return &Product{
		name:     name,
		price:    price,
		quantity: quantity,
		active:   true,
		kind:     kind,
		maximum:  maximum,
	}, nil
}

// Name returns the product's display name.
func (p *Product) Name() string {
	return p.name
}

// Price returns the unit price.
func (p *Product) Price() decimal.Decimal {
	return p.price
}

// Kind returns the product variant.
func (p *Product) Kind() Kind {
	return p.kind
}

// Maximum returns the per-order purchase cap, or zero for unlimited variants.
func (p *Product) Maximum() int {
	return p.maximum
}

// Quantity returns the current stock level.
func (p *Product) Quantity() int {
	return p.quantity
}

// SetQuantity replaces the stock level. Negative values are rejected, and
// non-stocked products reject anything but zero. Setting the quantity to
// zero deactivates the product; raising it again later does NOT reactivate
// it, that takes an explicit Activate call.
func (p *Product) SetQuantity(quantity int) error {
	if quantity < 0 {
		return domain.Invalidf("product quantity cannot be negative, got %d", quantity)
	}
	if p.kind == KindNonStocked && quantity != 0 {
		return domain.Invalidf("non-stocked product %q cannot have a quantity other than 0", p.name)
	}
	p.quantity = quantity
	if p.quantity == 0 {
		p.Deactivate()
	}
	return nil
}

// IsActive reports whether the product is listed and purchasable.
func (p *Product) IsActive() bool {
	return p.active
}

// Activate marks the product as purchasable. It is an unconditional
// override: a zero-stock product can be reactivated.
func (p *Product) Activate() {
	p.active = true
}

// Deactivate removes the product from listings. Also unconditional: stock
// on hand does not prevent manual deactivation.
func (p *Product) Deactivate() {
	p.active = false
}

// Promotion returns the attached promotion, or nil.
func (p *Product) Promotion() *promo.Promotion {
	return p.promotion
}

// SetPromotion attaches a promotion, replacing any existing one. Passing nil
// clears the attachment. Promotions with an unrecognized kind are rejected.
func (p *Product) SetPromotion(pr *promo.Promotion) error {
	if pr != nil && !pr.Valid() {
		return domain.Invalidf("unrecognized promotion kind %q", pr.Kind)
	}
	p.promotion = pr
	return nil
}

// Buy purchases quantity units. The per-order maximum of limited products is
// checked first, then the requested quantity must be positive and covered by
// stock. The total is computed by the attached promotion when one is
// present, otherwise it is plain unit price times quantity. Stock is reduced
// through SetQuantity, so draining it deactivates the product.
//
// Non-stocked products keep the shared stock check: their quantity is always
// zero, so any positive purchase fails. Callers that want purchasable
// intangibles must model them as stocked products.
func (p *Product) Buy(quantity int) (decimal.Decimal, error) {
	if p.kind == KindLimited && quantity > p.maximum {
		return decimal.Zero, domain.Invalidf("cannot purchase more than %d of %q at once", p.maximum, p.name)
	}
	if quantity <= 0 {
		return decimal.Zero, domain.Invalidf("purchase quantity must be greater than zero, got %d", quantity)
	}
	if quantity > p.quantity {
		return decimal.Zero, domain.Invalidf("not enough %q in stock: requested %d, available %d", p.name, quantity, p.quantity)
	}

	var total decimal.Decimal
	if p.promotion != nil {
		total = p.promotion.Apply(p.price, quantity)
	} else {
		total = p.price.Mul(decimal.NewFromInt(int64(quantity)))
	}

	if err := p.SetQuantity(p.quantity - quantity); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// Show renders the product for listings: name, price, quantity, and the
// promotion name when one is attached.
func (p *Product) Show() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s, Price: $%s, Quantity: %d", p.name, p.price, p.quantity)
	if p.kind == KindLimited {
		fmt.Fprintf(&b, ", Limited to %d per order", p.maximum)
	}
	if p.promotion != nil {
		fmt.Fprintf(&b, ", Promotion: %s", p.promotion.Name)
	}
	return b.String()
}
