package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/colormania/internal/events"
	"github.com/Skotchmaster/colormania/internal/models"
	"github.com/Skotchmaster/colormania/internal/repo"
	"github.com/Skotchmaster/colormania/internal/testutil"
)

type fixture struct {
	repo     *repo.GormRepo
	events   *events.Recorder
	cart     *CartService
	custom   *CustomizerService
	checkout *CheckoutService
	orders   *OrderService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	r := testutil.NewRepo(t)
	rec := &events.Recorder{}
	return &fixture{
		repo:   r,
		events: rec,
		cart:   &CartService{Repo: r, Events: rec},
		custom: &CustomizerService{Repo: r, Events: rec},
		checkout: &CheckoutService{
			Repo: r, Events: rec,
			Now: func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) },
		},
		orders: &OrderService{Repo: r, Events: rec},
	}
}

func oxxoRequest() CheckoutRequest {
	return CheckoutRequest{PaymentMethod: models.PaymentOXXO, Shipping: testutil.Shipping()}
}

func stockOf(t *testing.T, r *repo.GormRepo, kind models.CatalogKind, id uint) int {
	t.Helper()
	it, err := r.GetCatalogItem(context.Background(), kind, id)
	require.NoError(t, err)
	return it.Stock
}

func TestCheckout_PersonalizedPaintScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := testutil.User(t, f.repo, "ana@example.com")
	paint := testutil.CatalogItem(t, f.repo, models.KindPaint, "Azul Marino", "50.00", 10)

	_, _, err := f.custom.Personalize(ctx, user.ID, paint.ID, "#112233", 3)
	require.NoError(t, err)

	view, err := f.cart.View(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "150.00", view.Total.StringFixed(2))

	order, err := f.checkout.Checkout(ctx, user.ID, oxxoRequest())
	require.NoError(t, err)
	assert.Equal(t, "150.00", order.Total.StringFixed(2))
	assert.Equal(t, models.ShippingPreparing, order.ShippingState)
	require.NotNil(t, order.EstimatedArrival)
	assert.Equal(t, "2026-03-08", order.EstimatedArrival.Format("2006-01-02"))
	assert.Nil(t, order.CardNumber)

	assert.Equal(t, 7, stockOf(t, f.repo, models.KindPaint, paint.ID))

	stored, err := f.repo.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "150.00", stored.Total.StringFixed(2))
	require.Len(t, stored.Lines, 1)
	assert.Equal(t, 3, stored.Lines[0].Quantity)
	assert.Equal(t, "50.00", stored.Lines[0].UnitPrice.StringFixed(2))
	assert.Equal(t, LabelCustom, stored.Lines[0].TypeLabel)
	assert.Equal(t, "Azul Marino (#112233)", stored.Lines[0].ProductName)

	assert.Contains(t, f.events.Types(), "order_created")
}

func TestCheckout_MirrorsEveryLineAndEmptiesCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := testutil.User(t, f.repo, "ana@example.com")
	prod := testutil.CatalogItem(t, f.repo, models.KindProduct, "Rodillo", "89.90", 5)
	seal := testutil.CatalogItem(t, f.repo, models.KindSealant, "Sellador", "120.50", 4)

	_, err := f.cart.AddOrIncrement(ctx, user.ID, models.ItemRef{Kind: models.ItemProduct, ID: prod.ID}, 2)
	require.NoError(t, err)
	_, err = f.cart.AddOrIncrement(ctx, user.ID, models.ItemRef{Kind: models.ItemSealant, ID: seal.ID}, 1)
	require.NoError(t, err)

	order, err := f.checkout.Checkout(ctx, user.ID, oxxoRequest())
	require.NoError(t, err)
	require.Len(t, order.Lines, 2)
	assert.Equal(t, "300.30", order.Total.StringFixed(2))
	assert.Equal(t, LabelProduct, order.Lines[0].TypeLabel)
	assert.Equal(t, LabelSealant, order.Lines[1].TypeLabel)

	assert.Equal(t, 3, stockOf(t, f.repo, models.KindProduct, prod.ID))
	assert.Equal(t, 3, stockOf(t, f.repo, models.KindSealant, seal.ID))

	view, err := f.cart.View(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, view.Empty())
	assert.NotZero(t, view.Cart.ID, "cart row survives checkout")

	u, err := f.repo.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Insurgentes", u.Street)
}

func TestCheckout_EmptyCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := testutil.User(t, f.repo, "ana@example.com")

	_, err := f.checkout.Checkout(ctx, user.ID, oxxoRequest())
	assert.True(t, errors.Is(err, ErrEmptyCart))

	_, err = f.cart.View(ctx, user.ID)
	require.NoError(t, err)
	_, err = f.checkout.Checkout(ctx, user.ID, oxxoRequest())
	assert.True(t, errors.Is(err, ErrEmptyCart))

	var orders int64
	require.NoError(t, f.repo.DB.Model(&models.Order{}).Count(&orders).Error)
	assert.Zero(t, orders)

	u, err := f.repo.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, u.Street, "no shipping snapshot for an empty cart")
}

func TestCheckout_Unauthenticated(t *testing.T) {
	f := newFixture(t)
	_, err := f.checkout.Checkout(context.Background(), 0, oxxoRequest())
	assert.True(t, errors.Is(err, ErrUnauthenticated))
}

func TestCheckout_ValidationFailsWithoutWrites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := testutil.User(t, f.repo, "ana@example.com")
	prod := testutil.CatalogItem(t, f.repo, models.KindProduct, "Rodillo", "10", 5)
	_, err := f.cart.AddOrIncrement(ctx, user.ID, models.ItemRef{Kind: models.ItemProduct, ID: prod.ID}, 1)
	require.NoError(t, err)

	req := oxxoRequest()
	req.PaymentMethod = "BITCOIN"
	_, err = f.checkout.Checkout(ctx, user.ID, req)
	assert.True(t, errors.Is(err, ErrValidation))

	card := oxxoRequest()
	card.PaymentMethod = models.PaymentCard
	card.CardNumber = "1234"
	card.CardExpiry = "12/30"
	_, err = f.checkout.Checkout(ctx, user.ID, card)
	assert.True(t, errors.Is(err, ErrValidation))

	assert.Equal(t, 5, stockOf(t, f.repo, models.KindProduct, prod.ID))
	view, err := f.cart.View(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, view.Lines, 1)
}

func TestCheckout_CardFieldsOnlyForCard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := testutil.User(t, f.repo, "ana@example.com")
	prod := testutil.CatalogItem(t, f.repo, models.KindProduct, "Rodillo", "10", 5)
	_, err := f.cart.AddOrIncrement(ctx, user.ID, models.ItemRef{Kind: models.ItemProduct, ID: prod.ID}, 1)
	require.NoError(t, err)

	req := oxxoRequest()
	req.PaymentMethod = models.PaymentCard
	req.CardNumber = "4111 1111 1111 1111"
	req.CardExpiry = "12/30"
	req.CLABE = "012345678901234567"
	order, err := f.checkout.Checkout(ctx, user.ID, req)
	require.NoError(t, err)
	require.NotNil(t, order.CardNumber)
	assert.Equal(t, "4111111111111111", *order.CardNumber)
	require.NotNil(t, order.CLABE)
	assert.Equal(t, "012345678901234567", *order.CLABE)
}

func TestCheckout_InsufficientStockRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := testutil.User(t, f.repo, "ana@example.com")
	first := testutil.CatalogItem(t, f.repo, models.KindProduct, "Rodillo", "10", 5)
	second := testutil.CatalogItem(t, f.repo, models.KindProduct, "Brocha", "5", 2)

	_, err := f.cart.AddOrIncrement(ctx, user.ID, models.ItemRef{Kind: models.ItemProduct, ID: first.ID}, 2)
	require.NoError(t, err)
	_, err = f.cart.AddOrIncrement(ctx, user.ID, models.ItemRef{Kind: models.ItemProduct, ID: second.ID}, 2)
	require.NoError(t, err)

	// stock drops after the item went into the cart
	require.NoError(t, f.repo.DB.Table("products").Where("id = ?", second.ID).Update("stock", 1).Error)

	_, err = f.checkout.Checkout(ctx, user.ID, oxxoRequest())
	require.True(t, errors.Is(err, ErrInsufficientStock))

	assert.Equal(t, 5, stockOf(t, f.repo, models.KindProduct, first.ID), "earlier decrement rolled back")
	var orders, lines int64
	require.NoError(t, f.repo.DB.Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, f.repo.DB.Model(&models.OrderLine{}).Count(&lines).Error)
	assert.Zero(t, orders)
	assert.Zero(t, lines)

	view, err := f.cart.View(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, view.Lines, 2, "cart kept for retry")
	assert.NotContains(t, f.events.Types(), "order_created")
}

func TestCheckout_ConcurrentLastUnit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	prod := testutil.CatalogItem(t, f.repo, models.KindProduct, "Última lata", "99", 1)

	users := []*models.User{
		testutil.User(t, f.repo, "uno@example.com"),
		testutil.User(t, f.repo, "dos@example.com"),
	}
	for _, u := range users {
		_, err := f.cart.AddOrIncrement(ctx, u.ID, models.ItemRef{Kind: models.ItemProduct, ID: prod.ID}, 1)
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	errs := make([]error, len(users))
	for i, u := range users {
		wg.Add(1)
		go func(i int, userID uint) {
			defer wg.Done()
			_, errs[i] = f.checkout.Checkout(ctx, userID, oxxoRequest())
		}(i, u.ID)
	}
	wg.Wait()

	var ok, short int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrInsufficientStock):
			short++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, short)
	assert.Equal(t, 0, stockOf(t, f.repo, models.KindProduct, prod.ID))
}

func TestCheckout_OrderLinesSurviveCatalogDeletion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := testutil.User(t, f.repo, "ana@example.com")
	prod := testutil.CatalogItem(t, f.repo, models.KindProduct, "Rodillo", "89.90", 5)
	_, err := f.cart.AddOrIncrement(ctx, user.ID, models.ItemRef{Kind: models.ItemProduct, ID: prod.ID}, 1)
	require.NoError(t, err)

	order, err := f.checkout.Checkout(ctx, user.ID, oxxoRequest())
	require.NoError(t, err)

	catalog := &CatalogService{Repo: f.repo}
	_, err = catalog.Delete(ctx, models.KindProduct, prod.ID)
	require.NoError(t, err)

	stored, err := f.orders.ForUser(ctx, user.ID, order.ID)
	require.NoError(t, err)
	require.Len(t, stored.Lines, 1)
	assert.Equal(t, "Rodillo", stored.Lines[0].ProductName)
	assert.Equal(t, "89.90", stored.Lines[0].UnitPrice.StringFixed(2))
}

func TestCheckoutRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *CheckoutRequest)
		wantErr bool
	}{
		{"oxxo ok", func(r *CheckoutRequest) {}, false},
		{"mercado pago ok", func(r *CheckoutRequest) { r.PaymentMethod = models.PaymentMercadoPago }, false},
		{"unknown method", func(r *CheckoutRequest) { r.PaymentMethod = "CASH" }, true},
		{"missing street", func(r *CheckoutRequest) { r.Shipping.Street = " " }, true},
		{"bad country", func(r *CheckoutRequest) { r.Shipping.Country = "ATLANTIS" }, true},
		{"lowercase country", func(r *CheckoutRequest) { r.Shipping.Country = "mexico" }, false},
		{"card ok", func(r *CheckoutRequest) {
			r.PaymentMethod = models.PaymentCard
			r.CardNumber = "4111111111111111"
			r.CardExpiry = "01/29"
		}, false},
		{"card bad expiry", func(r *CheckoutRequest) {
			r.PaymentMethod = models.PaymentCard
			r.CardNumber = "4111111111111111"
			r.CardExpiry = "13/29"
		}, true},
		{"card bad clabe", func(r *CheckoutRequest) {
			r.PaymentMethod = models.PaymentCard
			r.CardNumber = "4111111111111111"
			r.CardExpiry = "01/29"
			r.CLABE = "123"
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := oxxoRequest()
			tt.mutate(&req)
			err := req.Validate()
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrValidation), "got %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCheckoutRequest_DropsCardDataForOtherMethods(t *testing.T) {
	req := oxxoRequest()
	req.CardNumber = "4111111111111111"
	require.NoError(t, req.Validate())
	assert.Empty(t, req.CardNumber)
}
