package service_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/refurb_shop/internal/models"
	"github.com/Skotchmaster/refurb_shop/internal/service"
)

func TestCart_ReadFreshSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	view, err := f.cart.Read(ctx, "fresh", nil)
	require.NoError(t, err)
	assert.Equal(t, "fresh", view.SessionKey)
	assert.NotNil(t, view.Items)
	assert.Empty(t, view.Items)
	assert.Zero(t, view.TotalCLP)

	_, err = f.cart.Read(ctx, "fresh", nil)
	require.NoError(t, err)

	var n int64
	require.NoError(t, f.db.Model(&models.Cart{}).Where("session_key = ?", "fresh").Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestCart_AddIncrementsAndUpdateSets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v := f.variant(t, "Phone", 1000)

	require.NoError(t, f.cart.Add(ctx, "s", nil, v.ID, 2))
	require.NoError(t, f.cart.Add(ctx, "s", nil, v.ID, 3))

	view, err := f.cart.Read(ctx, "s", nil)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 5, view.Items[0].Quantity)
	assert.EqualValues(t, 5000, view.Items[0].Subtotal)
	assert.EqualValues(t, 5000, view.TotalCLP)
	assert.Equal(t, "Phone", view.Items[0].Variant.Title)
	assert.Equal(t, v.SKU, view.Items[0].Variant.SKU)
	assert.Equal(t, v.ProductID, view.Items[0].Variant.ProductID)

	require.NoError(t, f.cart.Add(ctx, "u", nil, v.ID, 2))
	res, err := f.cart.UpdateQuantity(ctx, "u", nil, v.ID, 5)
	require.NoError(t, err)
	assert.False(t, res.Removed)
	assert.Equal(t, 5, res.Quantity)

	view, err = f.cart.Read(ctx, "u", nil)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 5, view.Items[0].Quantity)

	assert.Equal(t, []string{"cart_item_added", "cart_item_added", "cart_item_added", "cart_item_updated"}, f.events.types())
}

func TestCart_AddDefaultsAndValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v := f.variant(t, "Tablet", 700)

	require.NoError(t, f.cart.Add(ctx, "s", nil, v.ID, 0))
	view, err := f.cart.Read(ctx, "s", nil)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 1, view.Items[0].Quantity)

	tests := []struct {
		name    string
		session string
		variant uint
		qty     int
		want    error
	}{
		{name: "missing variant", session: "s", variant: 0, qty: 1, want: service.ErrValidation},
		{name: "unknown variant", session: "s", variant: 9999, qty: 1, want: service.ErrNotFound},
		{name: "negative quantity", session: "s", variant: v.ID, qty: -1, want: service.ErrValidation},
		{name: "session too long", session: strings.Repeat("x", 256), variant: v.ID, qty: 1, want: service.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.cart.Add(ctx, tt.session, nil, tt.variant, tt.qty)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCart_UpdateToZeroRemovesIdempotently(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v := f.variant(t, "Watch", 300)

	require.NoError(t, f.cart.Add(ctx, "s", nil, v.ID, 2))

	res, err := f.cart.UpdateQuantity(ctx, "s", nil, v.ID, 0)
	require.NoError(t, err)
	assert.True(t, res.Removed)
	assert.EqualValues(t, 1, res.Deleted)

	res, err = f.cart.UpdateQuantity(ctx, "s", nil, v.ID, 0)
	require.NoError(t, err)
	assert.True(t, res.Removed)
	assert.EqualValues(t, 0, res.Deleted)

	view, err := f.cart.Read(ctx, "s", nil)
	require.NoError(t, err)
	assert.Empty(t, view.Items)

	_, err = f.cart.UpdateQuantity(ctx, "s", nil, 0, 3)
	require.ErrorIs(t, err, service.ErrValidation)
	_, err = f.cart.UpdateQuantity(ctx, "s", nil, 12345, 3)
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestCart_UpdateCreatesMissingLine(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v := f.variant(t, "Mouse", 50)

	_, err := f.cart.UpdateQuantity(ctx, "s", nil, v.ID, 4)
	require.NoError(t, err)

	view, err := f.cart.Read(ctx, "s", nil)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 4, view.Items[0].Quantity)
}

func TestCart_RemoveAndClear(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v1 := f.variant(t, "A", 10)
	v2 := f.variant(t, "B", 20)

	require.NoError(t, f.cart.Add(ctx, "s", nil, v1.ID, 1))
	require.NoError(t, f.cart.Add(ctx, "s", nil, v2.ID, 1))
	require.NoError(t, f.cart.Add(ctx, "other", nil, v1.ID, 1))

	n, err := f.cart.RemoveLine(ctx, "s", v1.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = f.cart.RemoveLine(ctx, "s", v1.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	_, err = f.cart.RemoveLine(ctx, "s", 0)
	require.ErrorIs(t, err, service.ErrValidation)

	n, err = f.cart.Clear(ctx, "s")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = f.cart.Clear(ctx, "s")
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	other, err := f.cart.Read(ctx, "other", nil)
	require.NoError(t, err)
	assert.Len(t, other.Items, 1)
}

func TestCart_AuthenticatedCallerClaimsOwnerlessCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := models.User{Username: "ana", Email: "ana@x.com", PasswordHash: "x", Role: "user"}
	require.NoError(t, f.db.Create(&u).Error)
	other := models.User{Username: "bob", Email: "bob@x.com", PasswordHash: "x", Role: "user"}
	require.NoError(t, f.db.Create(&other).Error)

	_, err := f.cart.Read(ctx, "s", nil)
	require.NoError(t, err)
	_, err = f.cart.Read(ctx, "s", uintPtr(u.ID))
	require.NoError(t, err)
	_, err = f.cart.Read(ctx, "s", uintPtr(other.ID))
	require.NoError(t, err)

	var c models.Cart
	require.NoError(t, f.db.Where("session_key = ?", "s").First(&c).Error)
	require.NotNil(t, c.UserID)
	assert.Equal(t, u.ID, *c.UserID)
}

func TestCart_ConcurrentAddsMerge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v := f.variant(t, "Laptop", 100)

	const callers = 8
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- f.cart.Add(ctx, "race", nil, v.ID, 1)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	var carts int64
	require.NoError(t, f.db.Model(&models.Cart{}).Where("session_key = ?", "race").Count(&carts).Error)
	assert.EqualValues(t, 1, carts)

	view, err := f.cart.Read(ctx, "race", nil)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, callers, view.Items[0].Quantity)
}
