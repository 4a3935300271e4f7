package product

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkotenko/storefront/internal/domain"
	"github.com/dkotenko/storefront/internal/domain/promo"
)

func requireInvalid(t *testing.T, err error) {
	t.Helper()
	var invalid *domain.InvalidArgumentError
	require.ErrorAs(t, err, &invalid)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		pname    string
		price    string
		quantity int
		wantErr  bool
	}{
		{name: "valid product", pname: "MacBook Air M2", price: "1450", quantity: 100},
		{name: "zero price allowed", pname: "Freebie", price: "0", quantity: 10},
		{name: "zero quantity allowed", pname: "Sold out", price: "10", quantity: 0},
		{name: "empty name rejected", pname: "", price: "10", quantity: 1, wantErr: true},
		{name: "negative price rejected", pname: "Gadget", price: "-1", quantity: 1, wantErr: true},
		{name: "negative quantity rejected", pname: "Gadget", price: "10", quantity: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.pname, decimal.RequireFromString(tt.price), tt.quantity)
			if tt.wantErr {
				requireInvalid(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.pname, p.Name())
			assert.Equal(t, tt.quantity, p.Quantity())
			assert.True(t, p.IsActive())
			assert.Nil(t, p.Promotion())
		})
	}
}

func TestBuy(t *testing.T) {
	newProduct := func(t *testing.T, quantity int) *Product {
		t.Helper()
		p, err := New("Bose QuietComfort Earbuds", decimal.NewFromInt(250), quantity)
		require.NoError(t, err)
		return p
	}

	t.Run("reduces stock and returns plain price", func(t *testing.T) {
		p := newProduct(t, 500)
		total, err := p.Buy(50)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(12500).Equal(total), "got %s", total)
		assert.Equal(t, 450, p.Quantity())
		assert.True(t, p.IsActive())
	})

	t.Run("draining stock deactivates", func(t *testing.T) {
		p := newProduct(t, 5)
		_, err := p.Buy(5)
		require.NoError(t, err)
		assert.Equal(t, 0, p.Quantity())
		assert.False(t, p.IsActive())
	})

	t.Run("zero quantity rejected, stock unchanged", func(t *testing.T) {
		p := newProduct(t, 5)
		_, err := p.Buy(0)
		requireInvalid(t, err)
		assert.Equal(t, 5, p.Quantity())
	})

	t.Run("negative quantity rejected, stock unchanged", func(t *testing.T) {
		p := newProduct(t, 5)
		_, err := p.Buy(-3)
		requireInvalid(t, err)
		assert.Equal(t, 5, p.Quantity())
	})

	t.Run("over stock rejected, stock unchanged", func(t *testing.T) {
		p := newProduct(t, 5)
		_, err := p.Buy(6)
		requireInvalid(t, err)
		assert.Equal(t, 5, p.Quantity())
		assert.True(t, p.IsActive())
	})

	t.Run("attached promotion computes the total", func(t *testing.T) {
		p := newProduct(t, 10)
		require.NoError(t, p.SetPromotion(promo.NewThirdOneFree("Third One Free!")))
		total, err := p.Buy(3)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(500).Equal(total), "got %s", total)
		assert.Equal(t, 7, p.Quantity())
	})
}

func TestSetQuantity(t *testing.T) {
	p, err := New("Google Pixel 7", decimal.NewFromInt(500), 250)
	require.NoError(t, err)

	require.NoError(t, p.SetQuantity(10))
	assert.Equal(t, 10, p.Quantity())
	assert.True(t, p.IsActive())

	requireInvalid(t, p.SetQuantity(-1))
	assert.Equal(t, 10, p.Quantity())

	// Zero deactivates within the call.
	require.NoError(t, p.SetQuantity(0))
	assert.False(t, p.IsActive())

	// Restocking does NOT reactivate; that takes an explicit Activate.
	require.NoError(t, p.SetQuantity(100))
	assert.False(t, p.IsActive())
	p.Activate()
	assert.True(t, p.IsActive())
}

func TestActivationOverrides(t *testing.T) {
	p, err := New("Google Pixel 7", decimal.NewFromInt(500), 250)
	require.NoError(t, err)

	// Positive stock does not prevent manual deactivation.
	p.Deactivate()
	assert.False(t, p.IsActive())
	assert.Equal(t, 250, p.Quantity())

	// A zero-stock product can be manually reactivated.
	require.NoError(t, p.SetQuantity(0))
	p.Activate()
	assert.True(t, p.IsActive())
}

func TestNonStocked(t *testing.T) {
	p, err := NewNonStocked("Windows License", decimal.NewFromInt(125))
	require.NoError(t, err)
	assert.Equal(t, 0, p.Quantity())
	assert.True(t, p.IsActive())
	assert.Equal(t, KindNonStocked, p.Kind())

	t.Run("nonzero quantity rejected", func(t *testing.T) {
		requireInvalid(t, p.SetQuantity(10))
		assert.Equal(t, 0, p.Quantity())
	})

	t.Run("zero quantity accepted", func(t *testing.T) {
		require.NoError(t, p.SetQuantity(0))
		assert.Equal(t, 0, p.Quantity())
	})

	t.Run("never purchasable through the stock check", func(t *testing.T) {
		// Stock is pinned at zero, so every positive purchase fails the
		// shared availability check.
		_, err := p.Buy(1)
		requireInvalid(t, err)
	})
}

func TestLimited(t *testing.T) {
	t.Run("maximum must be positive", func(t *testing.T) {
		_, err := NewLimited("Shipping", decimal.NewFromInt(10), 250, 0)
		requireInvalid(t, err)
		_, err = NewLimited("Shipping", decimal.NewFromInt(10), 250, -1)
		requireInvalid(t, err)
	})

	t.Run("buy within the limit", func(t *testing.T) {
		p, err := NewLimited("Shipping", decimal.NewFromInt(10), 250, 1)
		require.NoError(t, err)
		total, err := p.Buy(1)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(10).Equal(total), "got %s", total)
		assert.Equal(t, 249, p.Quantity())
	})

	t.Run("buy over the limit rejected before the stock check", func(t *testing.T) {
		p, err := NewLimited("Shipping", decimal.NewFromInt(10), 250, 1)
		require.NoError(t, err)
		_, err = p.Buy(2)
		requireInvalid(t, err)
		assert.Equal(t, 250, p.Quantity())
	})
}

func TestSetPromotion(t *testing.T) {
	p, err := New("MacBook Air M2", decimal.NewFromInt(1450), 100)
	require.NoError(t, err)

	secondHalf := promo.NewSecondHalfPrice("Second Half price!")
	require.NoError(t, p.SetPromotion(secondHalf))
	assert.Same(t, secondHalf, p.Promotion())

	// Unrecognized kinds are rejected, keeping the current attachment.
	requireInvalid(t, p.SetPromotion(&promo.Promotion{Name: "mystery", Kind: "buy_none_get_none"}))
	assert.Same(t, secondHalf, p.Promotion())

	// Nil clears.
	require.NoError(t, p.SetPromotion(nil))
	assert.Nil(t, p.Promotion())
}

func TestShow(t *testing.T) {
	p, err := New("MacBook Air M2", decimal.NewFromInt(1450), 100)
	require.NoError(t, err)
	assert.Equal(t, "MacBook Air M2, Price: $1450, Quantity: 100", p.Show())

	require.NoError(t, p.SetPromotion(promo.NewSecondHalfPrice("Second Half price!")))
	assert.Equal(t, "MacBook Air M2, Price: $1450, Quantity: 100, Promotion: Second Half price!", p.Show())

	limited, err := NewLimited("Shipping", decimal.NewFromInt(10), 250, 1)
	require.NoError(t, err)
	assert.Equal(t, "Shipping, Price: $10, Quantity: 250, Limited to 1 per order", limited.Show())
}
