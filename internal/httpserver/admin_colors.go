package httpserver

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/colormania/internal/transport"
)

const colorsPath = "/admin-colores"

func (h *AdminHTTP) ColorList(c echo.Context) error {
	colors, err := h.Colors.List(c.Request().Context())
	if err != nil {
		return h.fail(c, "admin_colors", err, "")
	}
	return h.render(c, http.StatusOK, "admin_colors.html", "Colores", map[string]any{"Colors": colors})
}

func (h *AdminHTTP) ColorCreateForm(c echo.Context) error {
	return h.render(c, http.StatusOK, "admin_color_form.html", "Crear color", map[string]any{
		"Action": colorsPath + "/crear",
		"Form":   transport.ColorForm{},
	})
}

func (h *AdminHTTP) ColorCreate(c echo.Context) error {
	var form transport.ColorForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Formulario inválido.")
	}
	color, err := h.Colors.Create(c.Request().Context(), form.Input())
	if err != nil {
		return h.fail(c, "admin_color_create", err, colorsPath+"/crear")
	}
	return h.done(c, fmt.Sprintf("Color %s creado.", color.Code), colorsPath)
}

func (h *AdminHTTP) ColorUpdateForm(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	color, err := h.Colors.Get(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, "admin_color_get", err, "")
	}
	return h.render(c, http.StatusOK, "admin_color_form.html", "Actualizar color", map[string]any{
		"Action": fmt.Sprintf("%s/%d/actualizar", colorsPath, id),
		"Form":   transport.ColorFormOf(color),
	})
}

func (h *AdminHTTP) ColorUpdate(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var form transport.ColorForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Formulario inválido.")
	}
	color, err := h.Colors.Update(c.Request().Context(), id, form.Input())
	if err != nil {
		return h.fail(c, "admin_color_update", err, fmt.Sprintf("%s/%d/actualizar", colorsPath, id))
	}
	return h.done(c, fmt.Sprintf("Color %s actualizado.", color.Code), colorsPath)
}

func (h *AdminHTTP) ColorDelete(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.Colors.Delete(c.Request().Context(), id); err != nil {
		return h.fail(c, "admin_color_delete", err, colorsPath)
	}
	return h.done(c, "Color eliminado.", colorsPath)
}

// ColorPrune keeps the most popular colors per category.
func (h *AdminHTTP) ColorPrune(c echo.Context) error {
	n, err := h.Colors.Prune(c.Request().Context())
	if err != nil {
		return h.fail(c, "admin_color_prune", err, colorsPath)
	}
	return h.done(c, fmt.Sprintf("Se eliminaron %d colores menos populares.", n), colorsPath)
}
