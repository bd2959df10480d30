package httpserver

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/colormania/internal/logging"
	"github.com/Skotchmaster/colormania/internal/models"
	"github.com/Skotchmaster/colormania/internal/service"
	"github.com/Skotchmaster/colormania/internal/util"
)

const featuredCount = 4

type PublicHTTP struct {
	*Web
	Catalog     *service.CatalogService
	Colors      *service.ColorService
	Inspiration *service.InspirationService
}

func (h *PublicHTTP) Index(c echo.Context) error {
	ctx := c.Request().Context()
	featured := make(map[models.CatalogKind][]models.CatalogItem, len(models.CatalogKinds))
	for _, kind := range models.CatalogKinds {
		items, _, err := h.Catalog.List(ctx, kind, 1)
		if err != nil {
			return h.fail(c, "index", err, "")
		}
		if len(items) > featuredCount {
			items = items[:featuredCount]
		}
		featured[kind] = items
	}
	return h.render(c, http.StatusOK, "index.html", "Colormania", map[string]any{"Featured": featured})
}

// CatalogPage lists one catalog kind, paged by ?page=.
func (h *PublicHTTP) CatalogPage(kind models.CatalogKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		page := util.ParseIntDefault(c.QueryParam("page"), 1)
		items, meta, err := h.Catalog.List(ctx, kind, page)
		if err != nil {
			return h.fail(c, "catalog_list", err, "")
		}
		return h.render(c, http.StatusOK, "catalog.html", kind.Label(), map[string]any{
			"Kind":  kind,
			"Items": items,
			"Page":  meta,
		})
	}
}

func (h *PublicHTTP) ColorsPage(c echo.Context) error {
	ctx := c.Request().Context()
	cat, colors, err := h.Colors.ByCategory(ctx, c.Param("categoria"))
	if err != nil {
		return h.fail(c, "colors", err, "")
	}
	return h.render(c, http.StatusOK, "colors.html", "Colores", map[string]any{
		"Category": cat,
		"Colors":   colors,
	})
}

func (h *PublicHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	q := strings.TrimSpace(c.QueryParam("q"))
	docs, err := h.Catalog.SearchResults(ctx, q)
	if err != nil {
		return h.fail(c, "search", err, "")
	}
	logging.FromContext(ctx).Debug("search", "q", q, "hits", len(docs))
	return h.render(c, http.StatusOK, "search.html", "Buscar", map[string]any{"Query": q, "Results": docs})
}

func (h *PublicHTTP) InspirationPage(c echo.Context) error {
	images, err := h.Inspiration.List(c.Request().Context())
	if err != nil {
		return h.fail(c, "inspiration", err, "")
	}
	return h.render(c, http.StatusOK, "inspiration.html", "Inspiración", map[string]any{"Images": images})
}

type Pinger interface {
	Ping(ctx context.Context) error
}

func Live(c echo.Context) error { return c.NoContent(http.StatusOK) }

func Ready(p Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := p.Ping(c.Request().Context()); err != nil {
			logging.FromContext(c.Request().Context()).Error("readiness_error", "status", 503, "error", err)
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	}
}
