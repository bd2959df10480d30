package service

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Skotchmaster/colormania/internal/events"
	"github.com/Skotchmaster/colormania/internal/export"
	"github.com/Skotchmaster/colormania/internal/models"
	"github.com/Skotchmaster/colormania/internal/repo"
	"github.com/Skotchmaster/colormania/internal/util"
)

const historyLimit = 20

type OrderService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

// History lists the shopper's own orders, newest first.
func (s *OrderService) History(ctx context.Context, userID uint) ([]models.Order, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	return s.Repo.ListOrdersByUser(ctx, userID, historyLimit, 0)
}

// ForUser hides orders of other shoppers behind ErrNotFound.
func (s *OrderService) ForUser(ctx context.Context, userID, orderID uint) (*models.Order, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	o, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, notFound(err, "order")
	}
	if o.UserID != userID {
		return nil, fmt.Errorf("order %d: %w", orderID, ErrNotFound)
	}
	return o, nil
}

func (s *OrderService) Get(ctx context.Context, id uint) (*models.Order, error) {
	o, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		return nil, notFound(err, "order")
	}
	return o, nil
}

func (s *OrderService) List(ctx context.Context, page int) ([]models.Order, util.Page, error) {
	offset, limit := util.Calculate(page, util.DefaultPageSize)
	total, orders, err := s.Repo.ListOrders(ctx, offset, limit)
	if err != nil {
		return nil, util.Page{}, err
	}
	return orders, util.NewPage(page, limit, total), nil
}

// QuickAction moves an order to one of the known shipping states.
func (s *OrderService) QuickAction(ctx context.Context, id uint, state string) error {
	st := models.ShippingState(strings.TrimSpace(state))
	if !st.Known() {
		return invalid("Estado de envío inválido.")
	}
	return s.updateShipping(ctx, id, st, nil)
}

// Update sets a free-form shipping state and optionally the arrival date
// (YYYY-MM-DD).
func (s *OrderService) Update(ctx context.Context, id uint, state, arrival string) error {
	st := models.ShippingState(strings.TrimSpace(state))
	if st == "" {
		return invalid("El estado de envío es obligatorio.")
	}
	if err := maxLen("El estado de envío", string(st), 50); err != nil {
		return err
	}
	var when *time.Time
	if a := strings.TrimSpace(arrival); a != "" {
		t, err := time.Parse("2006-01-02", a)
		if err != nil {
			return invalid("Fecha de llegada inválida.")
		}
		when = &t
	}
	return s.updateShipping(ctx, id, st, when)
}

func (s *OrderService) updateShipping(ctx context.Context, id uint, st models.ShippingState, arrival *time.Time) error {
	if err := s.Repo.UpdateOrderShipping(ctx, id, st, arrival); err != nil {
		return notFound(err, "order")
	}
	publish(ctx, s.Events, events.TopicOrder, strconv.FormatUint(uint64(id), 10), "order_shipping_updated", map[string]any{
		"order_id": id, "shipping_state": st,
	})
	return nil
}

func (s *OrderService) Delete(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteOrder(ctx, id); err != nil {
		return notFound(err, "order")
	}
	publish(ctx, s.Events, events.TopicOrder, strconv.FormatUint(uint64(id), 10), "order_deleted", map[string]any{"order_id": id})
	return nil
}

// Export writes every order with its lines as an xlsx workbook.
func (s *OrderService) Export(ctx context.Context, w io.Writer) error {
	_, orders, err := s.Repo.ListOrders(ctx, 0, 0)
	if err != nil {
		return err
	}
	names := make(map[uint]string)
	for _, o := range orders {
		if _, ok := names[o.UserID]; ok {
			continue
		}
		if u, err := s.Repo.GetUser(ctx, o.UserID); err == nil {
			names[o.UserID] = u.FullName()
		}
	}
	return export.WriteOrders(w, orders, names)
}
