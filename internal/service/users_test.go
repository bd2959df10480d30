package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/colormania/internal/events"
	"github.com/Skotchmaster/colormania/internal/hash"
	"github.com/Skotchmaster/colormania/internal/models"
	"github.com/Skotchmaster/colormania/internal/testutil"
)

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("Secreto123"))
	for _, pw := range []string{"Corta1", "sinmayuscula1", "SinNumeroAqui"} {
		err := ValidatePassword(pw)
		assert.True(t, errors.Is(err, ErrValidation), pw)
	}
}

func registration() UserInput {
	return UserInput{
		FirstName:       "Luis",
		LastName:        "Pérez",
		Email:           " Luis@Example.com ",
		Password:        "Secreto123",
		ConfirmPassword: "Secreto123",
		Shipping:        models.Shipping{Country: "mexico", Phone: "5511112222"},
	}
}

func TestUsers_Register(t *testing.T) {
	r := testutil.NewRepo(t)
	rec := &events.Recorder{}
	svc := &UserService{Repo: r, Events: rec}
	ctx := context.Background()

	u, err := svc.Register(ctx, registration())
	require.NoError(t, err)
	assert.Equal(t, "luis@example.com", u.Email)
	assert.Equal(t, models.Country("MEXICO"), u.Country)
	assert.NotEqual(t, "Secreto123", u.PasswordHash)
	assert.Equal(t, []string{"user_registered"}, rec.Types())

	_, err = svc.Register(ctx, registration())
	require.True(t, errors.Is(err, ErrConflict))
	assert.Equal(t, "Este correo ya está registrado.", Message(err))

	got, err := svc.Authenticate(ctx, "luis@example.com", "Secreto123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.Authenticate(ctx, "luis@example.com", "Incorrecta9")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))
	_, err = svc.Authenticate(ctx, "nadie@example.com", "Secreto123")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))
}

func TestUsers_RegisterValidation(t *testing.T) {
	svc := &UserService{Repo: testutil.NewRepo(t)}
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(in *UserInput)
	}{
		{"mismatch", func(in *UserInput) { in.ConfirmPassword = "Secreto124" }},
		{"weak", func(in *UserInput) { in.Password, in.ConfirmPassword = "secreto", "secreto" }},
		{"email", func(in *UserInput) { in.Email = "no-es-correo" }},
		{"name", func(in *UserInput) { in.FirstName = " " }},
		{"country", func(in *UserInput) { in.Shipping.Country = "NARNIA" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := registration()
			tt.mutate(&in)
			_, err := svc.Register(ctx, in)
			assert.True(t, errors.Is(err, ErrValidation), "got %v", err)
		})
	}
}

func TestUsers_AdminUpdateAndDelete(t *testing.T) {
	r := testutil.NewRepo(t)
	svc := &UserService{Repo: r}
	ctx := context.Background()

	a := testutil.User(t, r, "a@example.com")
	testutil.User(t, r, "b@example.com")
	oldHash := a.PasswordHash

	in := UserInput{FirstName: "Ana María", LastName: "López", Email: "B@example.com"}
	_, err := svc.AdminUpdate(ctx, a.ID, in)
	assert.True(t, errors.Is(err, ErrConflict))

	in.Email = "ana@example.com"
	u, err := svc.AdminUpdate(ctx, a.ID, in)
	require.NoError(t, err)
	assert.Equal(t, oldHash, u.PasswordHash, "blank password keeps the hash")
	assert.Equal(t, "Ana María López", u.FullName())

	in.Password = "Nuevo12345"
	u, err = svc.AdminUpdate(ctx, a.ID, in)
	require.NoError(t, err)
	assert.True(t, hash.CheckPassword(u.PasswordHash, "Nuevo12345"))

	require.NoError(t, svc.Delete(ctx, a.ID))
	_, err = svc.Get(ctx, a.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(svc.Delete(ctx, a.ID), ErrNotFound))

	users, page, err := svc.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, int64(1), page.Total)
}

func TestUsers_DeleteCascadesCartAndOrders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := testutil.User(t, f.repo, "ana@example.com")
	prod := testutil.CatalogItem(t, f.repo, models.KindProduct, "Rodillo", "10.00", 5)

	_, err := f.cart.AddOrIncrement(ctx, user.ID, models.ItemRef{Kind: models.ItemProduct, ID: prod.ID}, 1)
	require.NoError(t, err)
	_, err = f.checkout.Checkout(ctx, user.ID, oxxoRequest())
	require.NoError(t, err)

	svc := &UserService{Repo: f.repo}
	require.NoError(t, svc.Delete(ctx, user.ID))

	var orders, carts int64
	require.NoError(t, f.repo.DB.Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, f.repo.DB.Model(&models.Cart{}).Count(&carts).Error)
	assert.Zero(t, orders)
	assert.Zero(t, carts)
}
