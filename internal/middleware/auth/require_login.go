package auth

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/colormania/internal/logging"
	"github.com/Skotchmaster/colormania/internal/session"
)

type UserChecker interface {
	UserExists(ctx context.Context, id uint) (bool, error)
}

type Shopper struct {
	Sessions *session.Manager
	Users    UserChecker
}

// Load resolves the session into a Principal for every request. A session
// pointing at a deleted user is cleared.
func (m *Shopper) Load(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		p, ok := m.Sessions.Principal(req)
		if !ok {
			return next(c)
		}
		exists, err := m.Users.UserExists(req.Context(), p.UserID)
		if err != nil {
			return err
		}
		if !exists {
			logging.FromContext(req.Context()).Warn("stale_session", "user_id", p.UserID)
			if err := m.Sessions.Logout(c.Response(), req); err != nil {
				return err
			}
			return next(c)
		}
		c.Set(principalKey, p)
		return next(c)
	}
}

// RequireShopper redirects anonymous requests to the shopper login page.
func (m *Shopper) RequireShopper(next echo.HandlerFunc) echo.HandlerFunc {
	return m.Load(func(c echo.Context) error {
		if _, ok := PrincipalFrom(c); ok {
			return next(c)
		}
		_ = m.Sessions.AddFlash(c.Response(), c.Request(), session.FlashWarning, "Debes iniciar sesión para continuar.")
		return c.Redirect(http.StatusSeeOther, ShopperLoginPath)
	})
}
