package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/colormania/internal/logging"
	"github.com/Skotchmaster/colormania/internal/middleware/auth"
	"github.com/Skotchmaster/colormania/internal/middleware/csrf"
	"github.com/Skotchmaster/colormania/internal/service"
	"github.com/Skotchmaster/colormania/internal/session"
)

// Web holds what every page handler needs to render and redirect.
type Web struct {
	Sessions *session.Manager
	Secure   bool
}

func (w *Web) render(c echo.Context, status int, name, title string, data any) error {
	v := View{
		Title:   title,
		Flashes: w.Sessions.Flashes(c.Response(), c.Request()),
		CSRF:    csrf.Token(c),
		Data:    data,
	}
	if p, ok := auth.PrincipalFrom(c); ok {
		v.Principal = &p
	}
	_, v.Staff = auth.StaffIDFrom(c)
	return c.Render(status, name, v)
}

func (w *Web) flash(c echo.Context, kind, msg string) {
	if err := w.Sessions.AddFlash(c.Response(), c.Request(), kind, msg); err != nil {
		logging.FromContext(c.Request().Context()).Warn("flash_error", "error", err)
	}
}

func (w *Web) redirect(c echo.Context, to string) error {
	return c.Redirect(http.StatusSeeOther, to)
}

// done flashes a success notice and redirects.
func (w *Web) done(c echo.Context, msg, to string) error {
	w.flash(c, session.FlashSuccess, msg)
	return w.redirect(c, to)
}

// fail turns a service error into the response the shopper or admin sees:
// a redirect with a notice for expected failures, an error page otherwise.
func (w *Web) fail(c echo.Context, op string, err error, back string) error {
	l := logging.FromContext(c.Request().Context()).With("op", op)

	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		l.Warn(op+"_error", "status", 401, "error", err)
		w.flash(c, session.FlashWarning, service.Message(err))
		return w.redirect(c, auth.ShopperLoginPath)
	case errors.Is(err, service.ErrNotFound):
		l.Warn(op+"_error", "status", 404, "error", err)
		return echo.NewHTTPError(http.StatusNotFound, service.Message(err))
	case errors.Is(err, service.ErrEmptyCart):
		l.Warn(op+"_error", "status", 409, "reason", "empty cart")
		w.flash(c, session.FlashWarning, service.Message(err))
		return w.redirect(c, "/pinturas")
	case errors.Is(err, service.ErrInsufficientStock):
		l.Warn(op+"_error", "status", 409, "error", err)
		w.flash(c, session.FlashWarning, service.Message(err))
		return w.redirect(c, back)
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrConflict),
		errors.Is(err, service.ErrInvalidCredentials):
		l.Warn(op+"_error", "status", 400, "error", err)
		w.flash(c, session.FlashError, service.Message(err))
		return w.redirect(c, back)
	}

	l.Error(op+"_error", "status", 500, "error", err)
	if back != "" && c.Request().Method == http.MethodPost {
		w.flash(c, session.FlashError, service.Message(err))
		return w.redirect(c, back)
	}
	return echo.NewHTTPError(http.StatusInternalServerError, service.Message(err))
}

func paramID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusNotFound, "El elemento solicitado no existe.")
	}
	return uint(id), nil
}

func principalID(c echo.Context) uint {
	p, _ := auth.PrincipalFrom(c)
	return p.UserID
}

// ErrorHandler renders echo errors with the error page.
func ErrorHandler(w *Web) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code := http.StatusInternalServerError
		msg := service.Message(err)
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if s, ok := he.Message.(string); ok {
				msg = s
			} else {
				msg = http.StatusText(code)
			}
		}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		if rerr := w.render(c, code, "error.html", http.StatusText(code), map[string]any{"Code": code, "Message": msg}); rerr != nil {
			logging.FromContext(c.Request().Context()).Error("render_error_page", "error", rerr)
			_ = c.String(code, msg)
		}
	}
}
