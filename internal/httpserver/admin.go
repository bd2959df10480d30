package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/colormania/internal/logging"
	"github.com/Skotchmaster/colormania/internal/media"
	"github.com/Skotchmaster/colormania/internal/models"
	"github.com/Skotchmaster/colormania/internal/service"
	"github.com/Skotchmaster/colormania/internal/transport"
	"github.com/Skotchmaster/colormania/internal/util"
)

type AdminHTTP struct {
	*Web
	Catalog     *service.CatalogService
	Colors      *service.ColorService
	Users       *service.UserService
	Orders      *service.OrderService
	Inspiration *service.InspirationService
	Media       *media.Store
}

func adminPath(kind models.CatalogKind) string { return "/admin-" + kind.Slug() }

func (h *AdminHTTP) Index(c echo.Context) error {
	ctx := c.Request().Context()
	counts := make(map[string]int64)
	for _, kind := range models.CatalogKinds {
		_, meta, err := h.Catalog.List(ctx, kind, 1)
		if err != nil {
			return h.fail(c, "admin_index", err, "")
		}
		counts[kind.Slug()] = meta.Total
	}
	_, orders, err := h.Orders.List(ctx, 1)
	if err != nil {
		return h.fail(c, "admin_index", err, "")
	}
	counts["pedidos"] = orders.Total
	_, users, err := h.Users.List(ctx, 1)
	if err != nil {
		return h.fail(c, "admin_index", err, "")
	}
	counts["usuarios"] = users.Total
	return h.render(c, http.StatusOK, "admin_index.html", "Panel de administración", map[string]any{"Counts": counts})
}

// upload stores the optional foto file under sub. No file yields "".
func (h *AdminHTTP) upload(c echo.Context, sub string) (string, error) {
	fh, err := c.FormFile("foto")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", nil
		}
		return "", err
	}
	if fh.Size > media.MaxUploadBytes {
		return "", &service.ValidationError{Msg: "La imagen excede el tamaño máximo permitido."}
	}
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	p, err := h.Media.Save(sub, fh.Filename, src)
	if err != nil {
		if errors.Is(err, media.ErrUnsupportedType) {
			return "", &service.ValidationError{Msg: "Formato de imagen no soportado."}
		}
		return "", err
	}
	return p, nil
}

func (h *AdminHTTP) discard(c echo.Context, p string) {
	if p == "" {
		return
	}
	if err := h.Media.Remove(p); err != nil {
		logging.FromContext(c.Request().Context()).Warn("media_remove_error", "path", p, "error", err)
	}
}

func (h *AdminHTTP) CatalogList(kind models.CatalogKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		page := util.ParseIntDefault(c.QueryParam("page"), 1)
		items, meta, err := h.Catalog.List(c.Request().Context(), kind, page)
		if err != nil {
			return h.fail(c, "admin_catalog_list", err, "")
		}
		return h.render(c, http.StatusOK, "admin_catalog.html", kind.Label(), map[string]any{
			"Kind":  kind,
			"Base":  adminPath(kind),
			"Items": items,
			"Page":  meta,
		})
	}
}

func (h *AdminHTTP) CatalogCreateForm(kind models.CatalogKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		return h.render(c, http.StatusOK, "admin_catalog_form.html", "Crear "+kind.Label(), map[string]any{
			"Kind":   kind,
			"Action": adminPath(kind) + "/crear",
			"Form":   transport.CatalogForm{},
		})
	}
}

func (h *AdminHTTP) CatalogCreate(kind models.CatalogKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		back := adminPath(kind) + "/crear"

		var form transport.CatalogForm
		if err := c.Bind(&form); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Formulario inválido.")
		}
		img, err := h.upload(c, kind.Slug())
		if err != nil {
			return h.fail(c, "admin_catalog_create", err, back)
		}
		item, err := h.Catalog.Create(ctx, kind, form.Input(img))
		if err != nil {
			h.discard(c, img)
			return h.fail(c, "admin_catalog_create", err, back)
		}
		return h.done(c, fmt.Sprintf("%s \"%s\" creado.", kind.Label(), item.Name), adminPath(kind))
	}
}

func (h *AdminHTTP) CatalogUpdateForm(kind models.CatalogKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := paramID(c)
		if err != nil {
			return err
		}
		item, err := h.Catalog.Get(c.Request().Context(), kind, id)
		if err != nil {
			return h.fail(c, "admin_catalog_get", err, "")
		}
		return h.render(c, http.StatusOK, "admin_catalog_form.html", "Actualizar "+kind.Label(), map[string]any{
			"Kind":   kind,
			"Action": fmt.Sprintf("%s/%d/actualizar", adminPath(kind), id),
			"Form":   transport.CatalogFormOf(item),
			"Image":  item.ImagePath,
		})
	}
}

func (h *AdminHTTP) CatalogUpdate(kind models.CatalogKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		id, err := paramID(c)
		if err != nil {
			return err
		}
		back := fmt.Sprintf("%s/%d/actualizar", adminPath(kind), id)

		var form transport.CatalogForm
		if err := c.Bind(&form); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Formulario inválido.")
		}
		img, err := h.upload(c, kind.Slug())
		if err != nil {
			return h.fail(c, "admin_catalog_update", err, back)
		}
		item, previous, err := h.Catalog.Update(ctx, kind, id, form.Input(img))
		if err != nil {
			h.discard(c, img)
			return h.fail(c, "admin_catalog_update", err, back)
		}
		h.discard(c, previous)
		return h.done(c, fmt.Sprintf("%s \"%s\" actualizado.", kind.Label(), item.Name), adminPath(kind))
	}
}

func (h *AdminHTTP) CatalogDelete(kind models.CatalogKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := paramID(c)
		if err != nil {
			return err
		}
		item, err := h.Catalog.Delete(c.Request().Context(), kind, id)
		if err != nil {
			return h.fail(c, "admin_catalog_delete", err, adminPath(kind))
		}
		h.discard(c, item.ImagePath)
		return h.done(c, fmt.Sprintf("%s \"%s\" eliminado.", kind.Label(), item.Name), adminPath(kind))
	}
}
