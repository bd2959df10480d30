package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/colormania/internal/logging"
	"github.com/Skotchmaster/colormania/internal/middleware/auth"
	"github.com/Skotchmaster/colormania/internal/service"
	"github.com/Skotchmaster/colormania/internal/session"
	"github.com/Skotchmaster/colormania/internal/tokens"
	"github.com/Skotchmaster/colormania/internal/transport"
)

type AuthHTTP struct {
	*Web
	Users *service.UserService
	Staff *service.StaffService
}

func (h *AuthHTTP) RegisterForm(c echo.Context) error {
	return h.render(c, http.StatusOK, "register.html", "Registro", map[string]any{"Form": transport.UserForm{}})
}

// Register re-renders the form with the entered values when validation fails.
func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var form transport.UserForm
	if err := c.Bind(&form); err != nil {
		l.Warn("register_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Formulario inválido.")
	}

	user, err := h.Users.Register(ctx, form.Input())
	if err != nil {
		if errors.Is(err, service.ErrValidation) || errors.Is(err, service.ErrConflict) {
			l.Warn("register_error", "status", 400, "error", err)
			form.Password, form.ConfirmarPassword = "", ""
			return h.render(c, http.StatusBadRequest, "register.html", "Registro", map[string]any{
				"Form":  form,
				"Error": service.Message(err),
			})
		}
		return h.fail(c, "register", err, "/registro")
	}

	if err := h.Sessions.Login(c.Response(), c.Request(), user); err != nil {
		return h.fail(c, "register", err, "/login-usuario")
	}
	return h.done(c, "¡Registro exitoso! Bienvenido, "+user.FirstName+".", "/")
}

func (h *AuthHTTP) LoginForm(c echo.Context) error {
	if _, ok := auth.PrincipalFrom(c); ok {
		return h.redirect(c, "/")
	}
	return h.render(c, http.StatusOK, "login.html", "Iniciar sesión", nil)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	var form transport.LoginForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Formulario inválido.")
	}
	user, err := h.Users.Authenticate(ctx, form.Email, form.Password)
	if err != nil {
		return h.fail(c, "login", err, auth.ShopperLoginPath)
	}
	if err := h.Sessions.Login(c.Response(), c.Request(), user); err != nil {
		return h.fail(c, "login", err, auth.ShopperLoginPath)
	}
	logging.FromContext(ctx).Info("shopper logged in", "user_id", user.ID)
	return h.done(c, "¡Bienvenido, "+user.FirstName+"!", "/")
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	if err := h.Sessions.Logout(c.Response(), c.Request()); err != nil {
		return h.fail(c, "logout", err, "/")
	}
	return h.done(c, "Sesión cerrada.", "/")
}

func (h *AuthHTTP) AdminLoginForm(c echo.Context) error {
	return h.render(c, http.StatusOK, "admin_login.html", "Administración", nil)
}

func (h *AuthHTTP) AdminLogin(c echo.Context) error {
	ctx := c.Request().Context()
	var form transport.StaffLoginForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Formulario inválido.")
	}
	pair, err := h.Staff.Login(ctx, form.Username, form.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.flash(c, session.FlashError, "Usuario o contraseña incorrectos, o no tienes permisos de administrador.")
			return h.redirect(c, auth.StaffLoginPath)
		}
		return h.fail(c, "admin_login", err, auth.StaffLoginPath)
	}
	auth.SetStaffCookies(c, pair, h.Secure)
	return h.redirect(c, "/index-admin")
}

func (h *AuthHTTP) AdminLogout(c echo.Context) error {
	ctx := c.Request().Context()
	if ck, err := c.Cookie(tokens.RefreshCookie); err == nil {
		if err := h.Staff.Logout(ctx, ck.Value); err != nil {
			logging.FromContext(ctx).Warn("admin_logout_error", "error", err)
		}
	}
	auth.ClearStaffCookies(c, h.Secure)
	return h.done(c, "Sesión de administrador cerrada.", auth.StaffLoginPath)
}
