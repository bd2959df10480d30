package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/colormania/internal/models"
	"github.com/Skotchmaster/colormania/internal/testutil"
)

func TestParseQuantity(t *testing.T) {
	n, err := ParseQuantity("")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = ParseQuantity(" 4 ")
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	for _, raw := range []string{"0", "-2", "dos"} {
		_, err := ParseQuantity(raw)
		assert.True(t, errors.Is(err, ErrValidation), raw)
	}
}

func TestCart_AddMergesLines(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := testutil.User(t, f.repo, "ana@example.com")
	prod := testutil.CatalogItem(t, f.repo, models.KindProduct, "Rodillo", "10.00", 5)
	ref := models.ItemRef{Kind: models.ItemProduct, ID: prod.ID}

	_, err := f.cart.AddOrIncrement(ctx, user.ID, ref, 1)
	require.NoError(t, err)
	line, err := f.cart.AddOrIncrement(ctx, user.ID, ref, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, line.Quantity)

	view, err := f.cart.View(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, "30.00", view.Total.StringFixed(2))
	assert.Equal(t, []string{"cart_item_added", "cart_item_added"}, f.events.Types())
}

func TestCart_AddOverStockLeavesCartUnchanged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := testutil.User(t, f.repo, "ana@example.com")
	prod := testutil.CatalogItem(t, f.repo, models.KindProduct, "Brocha", "5.00", 2)

	_, err := f.cart.AddOrIncrement(ctx, user.ID, models.ItemRef{Kind: models.ItemProduct, ID: prod.ID}, 5)
	require.True(t, errors.Is(err, ErrInsufficientStock))

	view, err := f.cart.View(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, view.Empty())
	assert.Empty(t, f.events.Types())
}

func TestCart_AddRejectsCustomAndUnknown(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := testutil.User(t, f.repo, "ana@example.com")

	_, err := f.cart.AddOrIncrement(ctx, user.ID, models.ItemRef{Kind: models.ItemCustom, ID: 1}, 1)
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = f.cart.AddOrIncrement(ctx, user.ID, models.ItemRef{Kind: models.ItemSealant, ID: 99}, 1)
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = f.cart.AddOrIncrement(ctx, 0, models.ItemRef{Kind: models.ItemSealant, ID: 1}, 1)
	assert.True(t, errors.Is(err, ErrUnauthenticated))
}

func TestCart_TotalFollowsLivePrices(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := testutil.User(t, f.repo, "ana@example.com")
	seal := testutil.CatalogItem(t, f.repo, models.KindSealant, "Sellador", "100.00", 10)

	_, err := f.cart.AddOrIncrement(ctx, user.ID, models.ItemRef{Kind: models.ItemSealant, ID: seal.ID}, 2)
	require.NoError(t, err)

	catalog := &CatalogService{Repo: f.repo}
	_, _, err = catalog.Update(ctx, models.KindSealant, seal.ID, CatalogInput{Name: "Sellador", Price: "80.50", Stock: "10"})
	require.NoError(t, err)

	view, err := f.cart.View(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "161.00", view.Total.StringFixed(2))

	total, err := f.cart.Total(ctx, view.Cart)
	require.NoError(t, err)
	assert.True(t, total.Equal(view.Total))
}

func TestCart_Actions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := testutil.User(t, f.repo, "ana@example.com")
	other := testutil.User(t, f.repo, "otro@example.com")
	prod := testutil.CatalogItem(t, f.repo, models.KindProduct, "Rodillo", "10.00", 5)

	line, err := f.cart.AddOrIncrement(ctx, user.ID, models.ItemRef{Kind: models.ItemProduct, ID: prod.ID}, 1)
	require.NoError(t, err)

	require.NoError(t, f.cart.Action(ctx, user.ID, line.ID, "sumar"))
	view, err := f.cart.View(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, view.Lines[0].Quantity)

	err = f.cart.Action(ctx, other.ID, line.ID, "sumar")
	assert.True(t, errors.Is(err, ErrNotFound), "foreign lines are invisible")

	err = f.cart.Action(ctx, user.ID, line.ID, "duplicar")
	assert.True(t, errors.Is(err, ErrValidation))

	require.NoError(t, f.cart.Action(ctx, user.ID, line.ID, "restar"))
	deleted, err := f.cart.ChangeQuantity(ctx, user.ID, line.ID, -1)
	require.NoError(t, err)
	assert.True(t, deleted)

	view, err = f.cart.View(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, view.Empty())

	err = f.cart.Action(ctx, user.ID, line.ID, "eliminar")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestCustomizer_ColorsStaySeparate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := testutil.User(t, f.repo, "ana@example.com")
	paint := testutil.CatalogItem(t, f.repo, models.KindPaint, "Base Blanca", "40.00", 10)

	_, _, err := f.custom.Personalize(ctx, user.ID, paint.ID, "Rojo", 1)
	require.NoError(t, err)
	_, _, err = f.custom.Personalize(ctx, user.ID, paint.ID, "Verde", 2)
	require.NoError(t, err)
	_, _, err = f.custom.Personalize(ctx, user.ID, paint.ID, "Rojo", 1)
	require.NoError(t, err)

	view, err := f.cart.View(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, view.Lines, 3)
	assert.Equal(t, "Base Blanca (Rojo)", view.Lines[0].Item.DisplayName())
	assert.Equal(t, "Base Blanca (Verde)", view.Lines[1].Item.DisplayName())
	assert.Equal(t, "160.00", view.Total.StringFixed(2))
	for _, l := range view.Lines {
		assert.Equal(t, LabelCustom, l.Item.TypeLabel())
		kind, id := l.Item.StockSource()
		assert.Equal(t, models.KindPaint, kind)
		assert.Equal(t, paint.ID, id)
	}
}

func TestCustomizer_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := testutil.User(t, f.repo, "ana@example.com")
	paint := testutil.CatalogItem(t, f.repo, models.KindPaint, "Base", "40.00", 10)

	_, _, err := f.custom.Personalize(ctx, user.ID, paint.ID, "   ", 1)
	assert.True(t, errors.Is(err, ErrValidation))

	_, _, err = f.custom.Personalize(ctx, user.ID, 999, "Rojo", 1)
	assert.True(t, errors.Is(err, ErrNotFound))

	_, _, err = f.custom.Personalize(ctx, user.ID, paint.ID, "Rojo", 0)
	assert.True(t, errors.Is(err, ErrValidation))

	var count int64
	require.NoError(t, f.repo.DB.Model(&models.CustomPaint{}).Count(&count).Error)
	assert.Zero(t, count)

	cp, err := f.custom.CreateCustomPaint(ctx, paint.ID, " Ocre ", nil)
	require.NoError(t, err)
	assert.Equal(t, "Ocre", cp.Color)
	assert.Nil(t, cp.UserID)
}

func TestCatalogDeletion_DropsCartLines(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := testutil.User(t, f.repo, "ana@example.com")
	paint := testutil.CatalogItem(t, f.repo, models.KindPaint, "Base", "40.00", 10)
	prod := testutil.CatalogItem(t, f.repo, models.KindProduct, "Rodillo", "10.00", 5)

	_, _, err := f.custom.Personalize(ctx, user.ID, paint.ID, "Rojo", 1)
	require.NoError(t, err)
	_, err = f.cart.AddOrIncrement(ctx, user.ID, models.ItemRef{Kind: models.ItemProduct, ID: prod.ID}, 1)
	require.NoError(t, err)

	catalog := &CatalogService{Repo: f.repo}
	_, err = catalog.Delete(ctx, models.KindPaint, paint.ID)
	require.NoError(t, err)

	view, err := f.cart.View(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, "Rodillo", view.Lines[0].Item.DisplayName())
}
