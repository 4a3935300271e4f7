// Package catalog loads the store's initial inventory from a JSON file and
// provides the built-in demo catalog used when none is configured.
//
// The catalog is a JSON array of products:
//
//	[
//	  {"name": "MacBook Air M2", "price": 1450, "quantity": 100,
//	   "promotion": {"name": "Second Half price!", "kind": "second_half_price"}},
//	  {"name": "Windows License", "price": 125, "kind": "non_stocked"},
//	  {"name": "Shipping", "price": 10, "quantity": 250, "kind": "limited", "maximum": 1}
//	]
//
// Files ending in .gz are transparently decompressed.
package catalog

import (
	"io"
	"os"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"

	"github.com/dkotenko/storefront/internal/domain/product"
	"github.com/dkotenko/storefront/internal/domain/promo"
)

// entry is one decoded catalog record before domain validation.
type entry struct {
	name     string
	price    decimal.Decimal
	quantity int
	kind     product.Kind
	maximum  int

	promoName    string
	promoKind    promo.Kind
	promoPercent decimal.Decimal
	hasPromo     bool
}

// Load reads a catalog file and builds the products it describes. Promotions
// with the same name, kind, and percent are shared across products.
func Load(path string) ([]*product.Product, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open catalog")
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrap(err, "open gzip catalog")
		}
		defer gz.Close()
		r = gz
	}

	products, err := Parse(r)
	if err != nil {
		return nil, errors.Wrapf(err, "parse catalog %s", path)
	}
	return products, nil
}

// Parse decodes a JSON catalog from r and builds the products.
func Parse(r io.Reader) ([]*product.Product, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read catalog")
	}

	var entries []entry
	d := jx.DecodeBytes(data)
	if err := d.Arr(func(d *jx.Decoder) error {
		e, err := decodeEntry(d)
		if err != nil {
			return err
		}
		entries = append(entries, e)
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "decode catalog")
	}

	return build(entries)
}

func decodeEntry(d *jx.Decoder) (entry, error) {
	e := entry{kind: product.KindStandard}
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "name":
			v, err := d.Str()
			if err != nil {
				return err
			}
			e.name = v
			return nil
		case "price":
			v, err := decodeDecimal(d)
			if err != nil {
				return err
			}
			e.price = v
			return nil
		case "quantity":
			v, err := d.Int()
			if err != nil {
				return err
			}
			e.quantity = v
			return nil
		case "kind":
			v, err := d.Str()
			if err != nil {
				return err
			}
			e.kind = product.Kind(v)
			return nil
		case "maximum":
			v, err := d.Int()
			if err != nil {
				return err
			}
			e.maximum = v
			return nil
		case "promotion":
			if d.Next() == jx.Null {
				return d.Null()
			}
			e.hasPromo = true
			return d.Obj(func(d *jx.Decoder, key string) error {
				switch key {
				case "name":
					v, err := d.Str()
					if err != nil {
						return err
					}
					e.promoName = v
					return nil
				case "kind":
					v, err := d.Str()
					if err != nil {
						return err
					}
					e.promoKind = promo.Kind(v)
					return nil
				case "percent":
					v, err := decodeDecimal(d)
					if err != nil {
						return err
					}
					e.promoPercent = v
					return nil
				default:
					return d.Skip()
				}
			})
		default:
			return d.Skip()
		}
	})
	return e, err
}

// decodeDecimal reads a JSON number without a float round trip.
func decodeDecimal(d *jx.Decoder) (decimal.Decimal, error) {
	n, err := d.Num()
	if err != nil {
		return decimal.Zero, err
	}
	v, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "parse decimal")
	}
	return v, nil
}

// build turns decoded entries into domain products, sharing promotion values
// across entries that define the same promotion.
func build(entries []entry) ([]*product.Product, error) {
	promos := make(map[string]*promo.Promotion)
	products := make([]*product.Product, 0, len(entries))

	for i, e := range entries {
		p, err := newProduct(e)
		if err != nil {
			return nil, errors.Wrapf(err, "entry %d (%s)", i, e.name)
		}
		if e.hasPromo {
			pr, err := newPromotion(e, promos)
			if err != nil {
				return nil, errors.Wrapf(err, "entry %d (%s)", i, e.name)
			}
			if err := p.SetPromotion(pr); err != nil {
				return nil, errors.Wrapf(err, "entry %d (%s)", i, e.name)
			}
		}
		products = append(products, p)
	}
	return products, nil
}

func newProduct(e entry) (*product.Product, error) {
	switch e.kind {
	case product.KindStandard:
		return product.New(e.name, e.price, e.quantity)
	case product.KindNonStocked:
		return product.NewNonStocked(e.name, e.price)
	case product.KindLimited:
		return product.NewLimited(e.name, e.price, e.quantity, e.maximum)
	default:
		return nil, errors.Errorf("unknown product kind %q", e.kind)
	}
}

func newPromotion(e entry, promos map[string]*promo.Promotion) (*promo.Promotion, error) {
	key := string(e.promoKind) + "|" + e.promoName + "|" + e.promoPercent.String()
	if pr, ok := promos[key]; ok {
		return pr, nil
	}

	var (
		pr  *promo.Promotion
		err error
	)
	switch e.promoKind {
	case promo.KindSecondHalfPrice:
		pr = promo.NewSecondHalfPrice(e.promoName)
	case promo.KindThirdOneFree:
		pr = promo.NewThirdOneFree(e.promoName)
	case promo.KindPercentDiscount:
		pr, err = promo.NewPercentDiscount(e.promoName, e.promoPercent)
	default:
		return nil, errors.Errorf("unknown promotion kind %q", e.promoKind)
	}
	if err != nil {
		return nil, err
	}

	promos[key] = pr
	return pr, nil
}

// Default returns the built-in demo inventory used when no catalog file is
// configured.
func Default() []*product.Product {
	secondHalf := promo.NewSecondHalfPrice("Second Half price!")
	thirdFree := promo.NewThirdOneFree("Third One Free!")
	thirtyOff, err := promo.NewPercentDiscount("30% off!", decimal.NewFromInt(30))
	if err != nil {
		panic(err)
	}

	macbook := mustProduct(product.New("MacBook Air M2", decimal.NewFromInt(1450), 100))
	earbuds := mustProduct(product.New("Bose QuietComfort Earbuds", decimal.NewFromInt(250), 500))
	pixel := mustProduct(product.New("Google Pixel 7", decimal.NewFromInt(500), 250))
	license := mustProduct(product.NewNonStocked("Windows License", decimal.NewFromInt(125)))
	shipping := mustProduct(product.NewLimited("Shipping", decimal.NewFromInt(10), 250, 1))

	_ = macbook.SetPromotion(secondHalf)
	_ = earbuds.SetPromotion(thirdFree)
	_ = license.SetPromotion(thirtyOff)

	return []*product.Product{macbook, earbuds, pixel, license, shipping}
}

func mustProduct(p *product.Product, err error) *product.Product {
	if err != nil {
		panic(err)
	}
	return p
}
