package httpserver

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/colormania/internal/logging"
	"github.com/Skotchmaster/colormania/internal/models"
	"github.com/Skotchmaster/colormania/internal/service"
	"github.com/Skotchmaster/colormania/internal/transport"
)

type CartHTTP struct {
	*Web
	Cart   *service.CartService
	Custom *service.CustomizerService
	Orders *service.OrderService
}

// CartPage shows the lines, the live total and the shopper's previous orders.
func (h *CartHTTP) CartPage(c echo.Context) error {
	ctx := c.Request().Context()
	userID := principalID(c)

	view, err := h.Cart.View(ctx, userID)
	if err != nil {
		return h.fail(c, "get_cart", err, "")
	}
	history, err := h.Orders.History(ctx, userID)
	if err != nil {
		return h.fail(c, "get_cart", err, "")
	}
	return h.render(c, http.StatusOK, "cart.html", "Mi carrito", map[string]any{
		"Cart":   view,
		"Orders": history,
	})
}

// AddItem handles both add routes; kind picks product or sealant.
func (h *CartHTTP) AddItem(kind models.ItemKind) echo.HandlerFunc {
	back := "/productos"
	if kind == models.ItemSealant {
		back = "/selladores"
	}
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("handler", "cart.add", "kind", kind)

		id, err := paramID(c)
		if err != nil {
			return err
		}
		var form transport.CartForm
		if err := c.Bind(&form); err != nil {
			l.Warn("add_to_cart_error", "status", 400, "reason", "invalid body", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "Formulario inválido.")
		}
		qty, err := service.ParseQuantity(form.Cantidad)
		if err != nil {
			return h.fail(c, "add_to_cart", err, back)
		}

		if _, err := h.Cart.AddOrIncrement(ctx, principalID(c), models.ItemRef{Kind: kind, ID: id}, qty); err != nil {
			return h.fail(c, "add_to_cart", err, back)
		}
		l.Info("item added to cart", "item_id", id, "quantity", qty)
		return h.done(c, "Producto agregado al carrito.", "/mi-carrito")
	}
}

func (h *CartHTTP) PersonalizeForm(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	paint, err := h.Custom.BasePaint(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, "personalize", err, "")
	}
	return h.render(c, http.StatusOK, "customize.html", "Personalizar", map[string]any{"Paint": paint})
}

func (h *CartHTTP) Personalize(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := paramID(c)
	if err != nil {
		return err
	}
	back := fmt.Sprintf("/personalizar/%d", id)

	var form transport.PersonalizeForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Formulario inválido.")
	}
	qty, err := service.ParseQuantity(form.Cantidad)
	if err != nil {
		return h.fail(c, "personalize", err, back)
	}
	if _, _, err := h.Custom.Personalize(ctx, principalID(c), id, form.Color, qty); err != nil {
		return h.fail(c, "personalize", err, back)
	}
	return h.done(c, "Pintura personalizada agregada al carrito.", "/mi-carrito")
}

// LineAction applies sumar, restar or eliminar to one cart line.
func (h *CartHTTP) LineAction(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.Cart.Action(c.Request().Context(), principalID(c), id, c.Param("accion")); err != nil {
		return h.fail(c, "cart_action", err, "/mi-carrito")
	}
	return h.redirect(c, "/mi-carrito")
}
