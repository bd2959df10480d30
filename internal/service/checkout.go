package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/colormania/internal/events"
	"github.com/Skotchmaster/colormania/internal/logging"
	"github.com/Skotchmaster/colormania/internal/models"
	"github.com/Skotchmaster/colormania/internal/repo"
)

// ArrivalLeadTime is added to the submission date to estimate delivery.
const ArrivalLeadTime = 7 * 24 * time.Hour

var (
	digitsRe = regexp.MustCompile(`^[0-9]+$`)
	expiryRe = regexp.MustCompile(`^(0[1-9]|1[0-2])/[0-9]{2}$`)
)

type CheckoutRequest struct {
	PaymentMethod models.PaymentMethod
	CardNumber    string
	CardExpiry    string
	CLABE         string
	Shipping      models.Shipping
}

func maxLen(field, v string, n int) error {
	if utf8.RuneCountInString(v) > n {
		return invalid("%s no puede exceder %d caracteres.", field, n)
	}
	return nil
}

// Validate normalizes the request in place.
func (r *CheckoutRequest) Validate() error {
	if !r.PaymentMethod.Valid() {
		return invalid("Método de pago inválido.")
	}

	s := &r.Shipping
	s.Phone = strings.TrimSpace(s.Phone)
	s.Country = models.Country(strings.ToUpper(strings.TrimSpace(string(s.Country))))
	s.State = strings.TrimSpace(s.State)
	s.City = strings.TrimSpace(s.City)
	s.PostalCode = strings.TrimSpace(s.PostalCode)
	s.Street = strings.TrimSpace(s.Street)
	s.HouseNumber = strings.TrimSpace(s.HouseNumber)
	s.Details = strings.TrimSpace(s.Details)

	if !s.Country.Valid() {
		return invalid("Selecciona un país válido.")
	}
	required := []struct{ name, value string }{
		{"El teléfono", s.Phone},
		{"El estado", s.State},
		{"La ciudad", s.City},
		{"El código postal", s.PostalCode},
		{"La calle", s.Street},
		{"El número de domicilio", s.HouseNumber},
	}
	for _, f := range required {
		if f.value == "" {
			return invalid("%s es obligatorio.", f.name)
		}
	}
	limits := []struct {
		name, value string
		n           int
	}{
		{"El teléfono", s.Phone, 15},
		{"El estado", s.State, 50},
		{"La ciudad", s.City, 50},
		{"El código postal", s.PostalCode, 10},
		{"La calle", s.Street, 50},
		{"El número de domicilio", s.HouseNumber, 10},
		{"Los detalles", s.Details, 255},
	}
	for _, f := range limits {
		if err := maxLen(f.name, f.value, f.n); err != nil {
			return err
		}
	}

	if r.PaymentMethod != models.PaymentCard {
		r.CardNumber, r.CardExpiry, r.CLABE = "", "", ""
		return nil
	}

	r.CardNumber = strings.NewReplacer(" ", "", "-", "").Replace(r.CardNumber)
	if !digitsRe.MatchString(r.CardNumber) || len(r.CardNumber) < 13 || len(r.CardNumber) > 19 {
		return invalid("Número de tarjeta inválido.")
	}
	r.CardExpiry = strings.TrimSpace(r.CardExpiry)
	if !expiryRe.MatchString(r.CardExpiry) {
		return invalid("La fecha de vencimiento debe tener el formato MM/AA.")
	}
	r.CLABE = strings.TrimSpace(r.CLABE)
	if r.CLABE != "" && (!digitsRe.MatchString(r.CLABE) || len(r.CLABE) != 18) {
		return invalid("La CLABE debe tener 18 dígitos.")
	}
	return nil
}

type CheckoutService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
	Now    func() time.Time
}

func (s *CheckoutService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func newReference(now time.Time) string {
	return now.Format("20060102150405") + "-" + uuid.NewString()
}

func estimatedArrival(now time.Time) time.Time {
	d := now.Add(ArrivalLeadTime)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Checkout turns the shopper's cart into an order. Order creation, stock
// decrements, order lines and cart clearing share one transaction; any
// failure there rolls all of it back and leaves the cart as it was.
func (s *CheckoutService) Checkout(ctx context.Context, userID uint, req CheckoutRequest) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "checkout", "user_id", userID)

	if userID == 0 {
		return nil, ErrUnauthenticated
	}

	cart, err := s.Repo.FindCart(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmptyCart
		}
		return nil, err
	}
	existing, err := s.Repo.CartLines(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	if len(existing) == 0 {
		return nil, ErrEmptyCart
	}

	if err := req.Validate(); err != nil {
		l.Warn("checkout_error", "status", 400, "reason", "invalid form", "error", err)
		return nil, err
	}

	if err := s.Repo.UpdateShipping(ctx, userID, req.Shipping); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}

	now := s.now()
	var order *models.Order
	err = s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		if _, err := tx.LockCart(ctx, cart.ID); err != nil {
			return err
		}
		raw, err := tx.CartLines(ctx, cart.ID)
		if err != nil {
			return err
		}
		if len(raw) == 0 {
			return ErrEmptyCart
		}
		lines, err := resolveLines(ctx, tx, raw)
		if err != nil {
			return err
		}

		arrival := estimatedArrival(now)
		o := &models.Order{
			Reference:        newReference(now),
			UserID:           userID,
			PaymentMethod:    req.PaymentMethod,
			Total:            Total(lines),
			EstimatedArrival: &arrival,
			ShippingState:    models.ShippingPreparing,
		}
		if req.PaymentMethod == models.PaymentCard {
			o.CardNumber = strPtr(req.CardNumber)
			o.CardExpiry = strPtr(req.CardExpiry)
			o.CLABE = strPtr(req.CLABE)
		}
		if _, err := tx.CreateOrder(ctx, o); err != nil {
			return err
		}

		for _, line := range lines {
			kind, id := line.Item.StockSource()
			ok, err := tx.DecrementStock(ctx, kind, id, line.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%s: %w", line.Item.DisplayName(), ErrInsufficientStock)
			}

			ol := models.OrderLine{
				OrderID:     o.ID,
				ProductName: line.Item.DisplayName(),
				UnitPrice:   line.Item.UnitPrice(),
				Quantity:    line.Quantity,
				TypeLabel:   line.Item.TypeLabel(),
			}
			if err := tx.CreateOrderLine(ctx, &ol); err != nil {
				return err
			}
			o.Lines = append(o.Lines, ol)
		}

		if err := tx.ClearCart(ctx, cart.ID); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientStock) {
			l.Warn("checkout_error", "status", 409, "reason", "insufficient stock", "error", err)
		} else if !errors.Is(err, ErrEmptyCart) {
			l.Error("checkout_error", "status", 500, "error", err)
		}
		return nil, err
	}

	l.Info("order created", "order_id", order.ID, "reference", order.Reference, "total", order.Total.StringFixed(2))
	publish(ctx, s.Events, events.TopicOrder, strconv.FormatUint(uint64(order.ID), 10), "order_created", map[string]any{
		"order_id":       order.ID,
		"reference":      order.Reference,
		"user_id":        userID,
		"payment_method": order.PaymentMethod,
		"total_compra":   order.Total.StringFixed(2),
		"lines":          len(order.Lines),
	})
	return order, nil
}

// CheckoutForm is what the checkout page needs: the cart plus the shopper's
// saved address for prefilling.
type CheckoutForm struct {
	Cart *CartView
	User *models.User
}

func (s *CheckoutService) Form(ctx context.Context, userID uint) (*CheckoutForm, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	user, err := s.Repo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	cart, err := s.Repo.FindCart(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmptyCart
		}
		return nil, err
	}
	cs := CartService{Repo: s.Repo}
	view, err := cs.view(ctx, s.Repo, cart)
	if err != nil {
		return nil, err
	}
	if view.Empty() {
		return nil, ErrEmptyCart
	}
	return &CheckoutForm{Cart: view, User: user}, nil
}
