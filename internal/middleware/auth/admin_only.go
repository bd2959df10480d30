package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/colormania/internal/logging"
	"github.com/Skotchmaster/colormania/internal/tokens"
)

type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*tokens.Pair, error)
}

// Staff guards the admin surface with the access cookie and rotates the
// refresh cookie when the access token has expired.
type Staff struct {
	AccessSecret []byte
	Refresher    Refresher
	Secure       bool
}

func (m *Staff) RequireStaff(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		l := logging.FromContext(c.Request().Context()).With("mw", "require.staff")

		claims, err := m.claims(c)
		if err != nil {
			l.Warn("staff_auth_error", "status", 401, "error", err)
			ClearStaffCookies(c, m.Secure)
			return c.Redirect(http.StatusSeeOther, StaffLoginPath)
		}
		if claims.Role != tokens.RoleStaff {
			l.Warn("staff_auth_error", "status", 403, "reason", "role", "role", claims.Role)
			ClearStaffCookies(c, m.Secure)
			return c.Redirect(http.StatusSeeOther, StaffLoginPath)
		}
		id, err := claims.StaffID()
		if err != nil {
			ClearStaffCookies(c, m.Secure)
			return c.Redirect(http.StatusSeeOther, StaffLoginPath)
		}
		c.Set(staffIDKey, id)
		return next(c)
	}
}

func (m *Staff) claims(c echo.Context) (*tokens.AccessClaims, error) {
	access, err := c.Cookie(tokens.AccessCookie)
	if err == nil && access.Value != "" {
		claims, err := tokens.AccessClaimsFromToken(access.Value, m.AccessSecret)
		if err == nil {
			return claims, nil
		}
		if !errors.Is(err, jwt.ErrTokenExpired) {
			return nil, err
		}
	}

	refresh, err := c.Cookie(tokens.RefreshCookie)
	if err != nil || refresh.Value == "" {
		return nil, errors.New("refresh token missing")
	}
	pair, err := m.Refresher.Refresh(c.Request().Context(), refresh.Value)
	if err != nil {
		return nil, err
	}
	SetStaffCookies(c, pair, m.Secure)
	return tokens.AccessClaimsFromToken(pair.AccessToken, m.AccessSecret)
}
