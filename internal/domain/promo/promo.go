// Package promo implements the promotional pricing rules a product can carry.
package promo

import (
	"github.com/shopspring/decimal"

	"github.com/dkotenko/storefront/internal/domain"
)

// Kind enumerates the supported promotion strategies.
type Kind string

const (
	// KindSecondHalfPrice prices every second item at half the unit price.
	KindSecondHalfPrice Kind = "second_half_price"
	// KindThirdOneFree makes every third item free.
	KindThirdOneFree Kind = "third_one_free"
	// KindPercentDiscount applies a flat percentage discount to the line total.
	KindPercentDiscount Kind = "percent_discount"
)

var (
	two     = decimal.NewFromInt(2)
	hundred = decimal.NewFromInt(100)
)

// Promotion is a named pricing rule over (unit price, quantity). It holds no
// purchase history: every Apply call is independent. A single Promotion value
// may be attached to several products at once.
type Promotion struct {
	Name    string
	Kind    Kind
	Percent decimal.Decimal
}

// NewSecondHalfPrice creates a promotion where items pair up and the second
// item of each pair costs half price.
func NewSecondHalfPrice(name string) *Promotion {
	return &Promotion{Name: name, Kind: KindSecondHalfPrice}
}

// NewThirdOneFree creates a promotion where every third item is free.
func NewThirdOneFree(name string) *Promotion {
	return &Promotion{Name: name, Kind: KindThirdOneFree}
}

// NewPercentDiscount creates a flat percentage discount. The percentage must
// be strictly between 0 and 100.
func NewPercentDiscount(name string, percent decimal.Decimal) (*Promotion, error) {
	if !percent.IsPositive() || percent.GreaterThanOrEqual(hundred) {
		return nil, domain.Invalidf("discount percent must be between 0 and 100, got %s", percent)
	}
	return &Promotion{Name: name, Kind: KindPercentDiscount, Percent: percent}, nil
}

// Valid reports whether the promotion carries a recognized kind.
func (p *Promotion) Valid() bool {
	switch p.Kind {
	case KindSecondHalfPrice, KindThirdOneFree, KindPercentDiscount:
		return true
	default:
		return false
	}
}

// Apply computes the total price for buying quantity items at unitPrice under
// this promotion.
func (p *Promotion) Apply(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	qty := decimal.NewFromInt(int64(quantity))

	switch p.Kind {
	case KindSecondHalfPrice:
		if quantity <= 1 {
			return unitPrice.Mul(qty)
		}
		// Integer split: for odd quantities the half-price share is the
		// larger one.
		full := int64(quantity / 2)
		half := int64(quantity) - full
		fullTotal := unitPrice.Mul(decimal.NewFromInt(full))
		halfTotal := unitPrice.Mul(decimal.NewFromInt(half)).Div(two)
		return fullTotal.Add(halfTotal)

	case KindThirdOneFree:
		if quantity <= 2 {
			return unitPrice.Mul(qty)
		}
		free := int64(quantity / 3)
		paid := int64(quantity) - free
		return unitPrice.Mul(decimal.NewFromInt(paid))

	case KindPercentDiscount:
		return unitPrice.Mul(qty).Mul(hundred.Sub(p.Percent)).Div(hundred)

	default:
		// Unrecognized kinds are rejected at attach time; plain pricing is
		// the only sensible fallback here.
		return unitPrice.Mul(qty)
	}
}
