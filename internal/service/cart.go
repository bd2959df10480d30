package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/colormania/internal/events"
	"github.com/Skotchmaster/colormania/internal/logging"
	"github.com/Skotchmaster/colormania/internal/models"
	"github.com/Skotchmaster/colormania/internal/repo"
)

type CartService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

type CartView struct {
	Cart  *models.Cart
	Lines []Line
	Total decimal.Decimal
}

func (v *CartView) Empty() bool { return len(v.Lines) == 0 }

// ParseQuantity reads the cantidad form field. A blank value means one.
func ParseQuantity(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, invalid("La cantidad debe ser un número mayor a cero.")
	}
	return n, nil
}

func (s *CartService) View(ctx context.Context, userID uint) (*CartView, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	cart, err := s.Repo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, s.Repo, cart)
}

func (s *CartService) view(ctx context.Context, r *repo.GormRepo, cart *models.Cart) (*CartView, error) {
	raw, err := r.CartLines(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	lines, err := resolveLines(ctx, r, raw)
	if err != nil {
		return nil, err
	}
	return &CartView{Cart: cart, Lines: lines, Total: Total(lines)}, nil
}

// Total recomputes a cart's total from current catalog prices.
func (s *CartService) Total(ctx context.Context, cart *models.Cart) (decimal.Decimal, error) {
	v, err := s.view(ctx, s.Repo, cart)
	if err != nil {
		return decimal.Zero, err
	}
	return v.Total, nil
}

// AddOrIncrement puts a product or sealant in the cart, merging with an
// existing line for the same item. The requested quantity is checked against
// catalog stock before anything is written.
func (s *CartService) AddOrIncrement(ctx context.Context, userID uint, ref models.ItemRef, quantity int) (*models.CartLine, error) {
	l := logging.FromContext(ctx).With("svc", "cart.add", "user_id", userID, "kind", ref.Kind, "item_id", ref.ID)

	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	if ref.Kind != models.ItemProduct && ref.Kind != models.ItemSealant {
		return nil, fmt.Errorf("kind %q cannot be added directly: %w", ref.Kind, ErrValidation)
	}
	if quantity < 1 {
		return nil, invalid("La cantidad debe ser mayor a cero.")
	}

	it, err := Resolve(ctx, s.Repo, ref)
	if err != nil {
		return nil, err
	}
	kind, id := it.StockSource()
	src, err := s.Repo.GetCatalogItem(ctx, kind, id)
	if err != nil {
		return nil, notFound(err, "catalog item")
	}
	if quantity > src.Stock {
		l.Warn("add_to_cart_error", "status", 409, "reason", "insufficient stock", "stock", src.Stock, "quantity", quantity)
		return nil, fmt.Errorf("%s: requested %d, stock %d: %w", it.DisplayName(), quantity, src.Stock, ErrInsufficientStock)
	}

	cart, err := s.Repo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	line, err := s.Repo.IncrementLine(ctx, cart.ID, ref, quantity)
	if err != nil {
		return nil, err
	}

	publish(ctx, s.Events, events.TopicCart, strconv.FormatUint(uint64(userID), 10), "cart_item_added", map[string]any{
		"user_id": userID, "item_kind": ref.Kind, "item_id": ref.ID, "quantity": quantity,
	})
	return line, nil
}

// ChangeQuantity applies delta to an owned line and deletes it when the
// result drops to zero. It reports whether the line was deleted.
func (s *CartService) ChangeQuantity(ctx context.Context, userID, lineID uint, delta int) (bool, error) {
	if userID == 0 {
		return false, ErrUnauthenticated
	}
	line, err := s.Repo.OwnedLine(ctx, userID, lineID)
	if err != nil {
		return false, notFound(err, "cart line")
	}

	next := line.Quantity + delta
	if next <= 0 {
		if err := s.Repo.DeleteLine(ctx, line.ID); err != nil {
			return false, err
		}
		return true, nil
	}
	if err := s.Repo.SetLineQuantity(ctx, line.ID, next); err != nil {
		return false, err
	}
	return false, nil
}

func (s *CartService) Remove(ctx context.Context, userID, lineID uint) error {
	if userID == 0 {
		return ErrUnauthenticated
	}
	line, err := s.Repo.OwnedLine(ctx, userID, lineID)
	if err != nil {
		return notFound(err, "cart line")
	}
	if err := s.Repo.DeleteLine(ctx, line.ID); err != nil {
		return err
	}
	publish(ctx, s.Events, events.TopicCart, strconv.FormatUint(uint64(userID), 10), "cart_item_removed", map[string]any{
		"user_id": userID, "line_id": lineID,
	})
	return nil
}

// Action maps the sumar/restar/eliminar URL segment onto a cart mutation.
func (s *CartService) Action(ctx context.Context, userID, lineID uint, action string) error {
	switch action {
	case "sumar":
		_, err := s.ChangeQuantity(ctx, userID, lineID, 1)
		return err
	case "restar":
		_, err := s.ChangeQuantity(ctx, userID, lineID, -1)
		return err
	case "eliminar":
		return s.Remove(ctx, userID, lineID)
	}
	return fmt.Errorf("unknown cart action %q: %w", action, ErrValidation)
}
