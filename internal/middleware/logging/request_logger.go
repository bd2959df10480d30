package loggingmw

import (
	"log/slog"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/colormania/internal/logging"
	"github.com/Skotchmaster/colormania/internal/middleware/auth"
)

// quietPrefix marks probe routes whose successful hits are logged at debug.
const quietPrefix = "/health/"

// RequestLogger puts a request-scoped logger on the request context and logs
// one line per request, tagged with the shopper or staff member behind it.
// Handler errors are rendered here so the logged status is the one the
// client saw.
func RequestLogger(base *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			rid := req.Header.Get(echo.HeaderXRequestID)
			if rid == "" {
				rid = c.Response().Header().Get(echo.HeaderXRequestID)
			}

			l := base.With("method", req.Method, "path", c.Path(), "url", req.URL.Path)
			if rid != "" {
				l = l.With("request_id", rid)
				c.Response().Header().Set(echo.HeaderXRequestID, rid)
			}
			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), l)))

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Echo().HTTPErrorHandler(err, c)
			}

			attrs := []any{
				"status", c.Response().Status,
				"duration_ms", time.Since(start).Milliseconds(),
				"remote_ip", c.RealIP(),
			}
			if p, ok := auth.PrincipalFrom(c); ok {
				attrs = append(attrs, "user_id", p.UserID)
			}
			if id, ok := auth.StaffIDFrom(c); ok {
				attrs = append(attrs, "staff_id", id)
			}

			status := c.Response().Status
			switch {
			case status >= 500:
				l.Error("request completed", append(attrs, "error", err)...)
			case status >= 400:
				l.Warn("request completed", append(attrs, "error", err)...)
			case strings.HasPrefix(req.URL.Path, quietPrefix):
				l.Debug("request completed", attrs...)
			default:
				l.Info("request completed", append(attrs, "bytes", c.Response().Size)...)
			}
			return nil
		}
	}
}
