package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"

	"github.com/Skotchmaster/colormania/internal/models"
	"github.com/Skotchmaster/colormania/internal/testutil"
)

func placeOrder(t *testing.T, f *fixture, email string) (*models.User, *models.Order) {
	t.Helper()
	ctx := context.Background()
	user := testutil.User(t, f.repo, email)
	prod := testutil.CatalogItem(t, f.repo, models.KindProduct, "Rodillo "+email, "10.00", 5)
	_, err := f.cart.AddOrIncrement(ctx, user.ID, models.ItemRef{Kind: models.ItemProduct, ID: prod.ID}, 2)
	require.NoError(t, err)
	order, err := f.checkout.Checkout(ctx, user.ID, oxxoRequest())
	require.NoError(t, err)
	return user, order
}

func TestOrders_ForUserHidesForeignOrders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana, order := placeOrder(t, f, "ana@example.com")
	luis, _ := placeOrder(t, f, "luis@example.com")

	got, err := f.orders.ForUser(ctx, ana.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.Reference, got.Reference)

	_, err = f.orders.ForUser(ctx, luis.ID, order.ID)
	assert.True(t, errors.Is(err, ErrNotFound))

	history, err := f.orders.History(ctx, ana.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, order.ID, history[0].ID)

	all, page, err := f.orders.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, int64(2), page.Total)
}

func TestOrders_ShippingUpdates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, order := placeOrder(t, f, "ana@example.com")

	require.NoError(t, f.orders.QuickAction(ctx, order.ID, "Enviado"))
	got, err := f.orders.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ShippingSent, got.ShippingState)

	assert.True(t, errors.Is(f.orders.QuickAction(ctx, order.ID, "Perdido"), ErrValidation))
	assert.True(t, errors.Is(f.orders.QuickAction(ctx, 999, "Enviado"), ErrNotFound))

	require.NoError(t, f.orders.Update(ctx, order.ID, "En aduana", "2026-04-01"))
	got, err = f.orders.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ShippingState("En aduana"), got.ShippingState)
	require.NotNil(t, got.EstimatedArrival)
	assert.Equal(t, "2026-04-01", got.EstimatedArrival.Format("2006-01-02"))

	assert.True(t, errors.Is(f.orders.Update(ctx, order.ID, "Enviado", "01/04/2026"), ErrValidation))
	assert.Contains(t, f.events.Types(), "order_shipping_updated")

	require.NoError(t, f.orders.Delete(ctx, order.ID))
	_, err = f.orders.Get(ctx, order.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestOrders_Export(t *testing.T) {
	f := newFixture(t)
	placeOrder(t, f, "ana@example.com")

	var buf bytes.Buffer
	require.NoError(t, f.orders.Export(context.Background(), &buf))

	wb, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, wb.Sheets, 2)
	assert.Equal(t, "Pedidos", wb.Sheets[0].Name)
	assert.Len(t, wb.Sheets[0].Rows, 2)
}
