package httpserver

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/colormania/internal/service"
	"github.com/Skotchmaster/colormania/internal/transport"
)

type CheckoutHTTP struct {
	*Web
	Checkout *service.CheckoutService
	Orders   *service.OrderService
}

// Form prefills the address with what the shopper used last time.
func (h *CheckoutHTTP) Form(c echo.Context) error {
	form, err := h.Checkout.Form(c.Request().Context(), principalID(c))
	if err != nil {
		return h.fail(c, "checkout_form", err, "/mi-carrito")
	}
	return h.render(c, http.StatusOK, "checkout.html", "Realizar pedido", map[string]any{
		"Cart": form.Cart,
		"Form": transport.CheckoutForm{ShippingFields: transport.ShippingFieldsOf(form.User.Shipping)},
	})
}

func (h *CheckoutHTTP) Submit(c echo.Context) error {
	ctx := c.Request().Context()
	var form transport.CheckoutForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Formulario inválido.")
	}
	order, err := h.Checkout.Checkout(ctx, principalID(c), form.Request())
	if err != nil {
		return h.fail(c, "checkout", err, "/realizar-pedido")
	}
	return h.done(c, "¡Pedido realizado con éxito!", fmt.Sprintf("/pedido-exitoso/%d", order.ID))
}

func (h *CheckoutHTTP) Success(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	order, err := h.Orders.ForUser(c.Request().Context(), principalID(c), id)
	if err != nil {
		return h.fail(c, "order_success", err, "")
	}
	return h.render(c, http.StatusOK, "order_success.html", "Pedido confirmado", map[string]any{"Order": order})
}
