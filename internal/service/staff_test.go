package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/colormania/internal/hash"
	"github.com/Skotchmaster/colormania/internal/models"
	"github.com/Skotchmaster/colormania/internal/testutil"
	"github.com/Skotchmaster/colormania/internal/tokens"
)

func newStaffService(t *testing.T) *StaffService {
	t.Helper()
	return &StaffService{
		Repo:          testutil.NewRepo(t),
		AccessSecret:  []byte("access-secret-for-tests"),
		RefreshSecret: []byte("refresh-secret-for-tests"),
	}
}

func TestStaff_LoginAndRotate(t *testing.T) {
	svc := newStaffService(t)
	ctx := context.Background()

	staff, err := svc.EnsureStaff(ctx, "admin", "Admin1234")
	require.NoError(t, err)
	again, err := svc.EnsureStaff(ctx, "admin", "otra")
	require.NoError(t, err)
	assert.Equal(t, staff.ID, again.ID)

	_, err = svc.Login(ctx, "admin", "mala")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))

	pair, err := svc.Login(ctx, "admin", "Admin1234")
	require.NoError(t, err)
	claims, err := tokens.AccessClaimsFromToken(pair.AccessToken, svc.AccessSecret)
	require.NoError(t, err)
	assert.Equal(t, tokens.RoleStaff, claims.Role)
	id, err := claims.StaffID()
	require.NoError(t, err)
	assert.Equal(t, staff.ID, id)

	next, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshJTI, next.RefreshJTI)

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.True(t, errors.Is(err, ErrUnauthenticated), "rotated token cannot be reused")

	require.NoError(t, svc.Logout(ctx, next.RefreshToken))
	_, err = svc.Refresh(ctx, next.RefreshToken)
	assert.True(t, errors.Is(err, ErrUnauthenticated))
}

func TestStaff_NonStaffRejected(t *testing.T) {
	svc := newStaffService(t)
	ctx := context.Background()
	pw, err := hash.HashPassword("Admin1234")
	require.NoError(t, err)
	require.NoError(t, svc.Repo.CreateStaff(ctx, &models.Staff{Username: "becario", PasswordHash: pw}))

	_, err = svc.Login(ctx, "becario", "Admin1234")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))
}

func TestStaff_RefreshGarbage(t *testing.T) {
	svc := newStaffService(t)
	_, err := svc.Refresh(context.Background(), "not-a-token")
	assert.True(t, errors.Is(err, ErrUnauthenticated))
	assert.NoError(t, svc.Logout(context.Background(), "not-a-token"))
}
