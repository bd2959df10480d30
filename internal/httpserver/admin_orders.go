package httpserver

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/colormania/internal/export"
	"github.com/Skotchmaster/colormania/internal/transport"
	"github.com/Skotchmaster/colormania/internal/util"
)

const ordersPath = "/admin-pedidos"

func (h *AdminHTTP) OrderList(c echo.Context) error {
	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	orders, meta, err := h.Orders.List(c.Request().Context(), page)
	if err != nil {
		return h.fail(c, "admin_orders", err, "")
	}
	return h.render(c, http.StatusOK, "admin_orders.html", "Pedidos", map[string]any{"Orders": orders, "Page": meta})
}

func (h *AdminHTTP) OrderUpdateForm(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	order, err := h.Orders.Get(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, "admin_order_get", err, "")
	}
	form := transport.OrderForm{EstadoEnvio: string(order.ShippingState)}
	if order.EstimatedArrival != nil {
		form.FechaLlegada = order.EstimatedArrival.Format("2006-01-02")
	}
	return h.render(c, http.StatusOK, "admin_order_form.html", "Pedido "+order.Reference, map[string]any{
		"Order": order,
		"Form":  form,
	})
}

// OrderUpdate applies accion_rapida when present, otherwise the free-form
// state and arrival date.
func (h *AdminHTTP) OrderUpdate(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var form transport.OrderForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Formulario inválido.")
	}

	if quick := strings.TrimSpace(form.AccionRapida); quick != "" {
		if err := h.Orders.QuickAction(ctx, id, quick); err != nil {
			return h.fail(c, "admin_order_quick", err, ordersPath)
		}
		return h.done(c, fmt.Sprintf("Pedido #%d marcado como %s.", id, quick), ordersPath)
	}

	if err := h.Orders.Update(ctx, id, form.EstadoEnvio, form.FechaLlegada); err != nil {
		return h.fail(c, "admin_order_update", err, fmt.Sprintf("%s/%d/actualizar", ordersPath, id))
	}
	return h.done(c, fmt.Sprintf("Pedido #%d actualizado.", id), ordersPath)
}

func (h *AdminHTTP) OrderDelete(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.Orders.Delete(c.Request().Context(), id); err != nil {
		return h.fail(c, "admin_order_delete", err, ordersPath)
	}
	return h.done(c, fmt.Sprintf("Pedido #%d eliminado.", id), ordersPath)
}

func (h *AdminHTTP) OrderExport(c echo.Context) error {
	var buf bytes.Buffer
	if err := h.Orders.Export(c.Request().Context(), &buf); err != nil {
		return h.fail(c, "admin_order_export", err, "")
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="pedidos-%s.xlsx"`, time.Now().Format("20060102")))
	return c.Blob(http.StatusOK, export.ContentType, buf.Bytes())
}
