package auth

import (
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/colormania/internal/session"
	"github.com/Skotchmaster/colormania/internal/tokens"
)

const (
	principalKey = "principal"
	staffIDKey   = "staff_id"

	ShopperLoginPath = "/login-usuario"
	StaffLoginPath   = "/admin-login"
)

// PrincipalFrom returns the shopper resolved for this request.
func PrincipalFrom(c echo.Context) (session.Principal, bool) {
	p, ok := c.Get(principalKey).(session.Principal)
	return p, ok && p.UserID != 0
}

func StaffIDFrom(c echo.Context) (uint, bool) {
	id, ok := c.Get(staffIDKey).(uint)
	return id, ok && id != 0
}

// SetStaffCookies writes both halves of a token pair.
func SetStaffCookies(c echo.Context, pair *tokens.Pair, secure bool) {
	c.SetCookie(tokens.CreateCookie(tokens.AccessCookie, pair.AccessToken, "/", pair.AccessExp, secure))
	c.SetCookie(tokens.CreateCookie(tokens.RefreshCookie, pair.RefreshToken, "/", pair.RefreshExp, secure))
}

func ClearStaffCookies(c echo.Context, secure bool) {
	c.SetCookie(tokens.DeleteCookie(tokens.AccessCookie, "/", secure))
	c.SetCookie(tokens.DeleteCookie(tokens.RefreshCookie, "/", secure))
}
