package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Skotchmaster/colormania/internal/events"
	"github.com/Skotchmaster/colormania/internal/models"
	"github.com/Skotchmaster/colormania/internal/repo"
)

const maxColorLen = 50

type CustomizerService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

func normalizeColor(color string) (string, error) {
	color = strings.TrimSpace(color)
	if color == "" {
		return "", invalid("Elige un color.")
	}
	if utf8.RuneCountInString(color) > maxColorLen {
		return "", invalid("El color no puede exceder %d caracteres.", maxColorLen)
	}
	return color, nil
}

// CreateCustomPaint records a base paint tinted with color. No stock check
// happens here; stock is consumed at checkout.
func (s *CustomizerService) CreateCustomPaint(ctx context.Context, baseID uint, color string, owner *uint) (*models.CustomPaint, error) {
	return createCustomPaint(ctx, s.Repo, baseID, color, owner)
}

func createCustomPaint(ctx context.Context, r *repo.GormRepo, baseID uint, color string, owner *uint) (*models.CustomPaint, error) {
	color, err := normalizeColor(color)
	if err != nil {
		return nil, err
	}
	if _, err := r.GetCatalogItem(ctx, models.KindPaint, baseID); err != nil {
		return nil, notFound(err, "base paint")
	}
	cp := &models.CustomPaint{BasePaintID: baseID, Color: color, UserID: owner}
	if err := r.CreateCustomPaint(ctx, cp); err != nil {
		return nil, err
	}
	return cp, nil
}

// Personalize creates the custom paint and its own cart line in a single
// transaction. Lines for custom paints are never merged.
func (s *CustomizerService) Personalize(ctx context.Context, userID, baseID uint, color string, quantity int) (*models.CustomPaint, *models.CartLine, error) {
	if userID == 0 {
		return nil, nil, ErrUnauthenticated
	}
	if quantity < 1 {
		return nil, nil, invalid("La cantidad debe ser mayor a cero.")
	}

	var (
		cp   *models.CustomPaint
		line *models.CartLine
	)
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		owner := userID
		var err error
		cp, err = createCustomPaint(ctx, tx, baseID, color, &owner)
		if err != nil {
			return err
		}
		cart, err := tx.GetOrCreateCart(ctx, userID)
		if err != nil {
			return err
		}
		line, err = tx.AddLine(ctx, cart.ID, models.ItemRef{Kind: models.ItemCustom, ID: cp.ID}, quantity)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	publish(ctx, s.Events, events.TopicCart, strconv.FormatUint(uint64(userID), 10), "custom_paint_added", map[string]any{
		"user_id": userID, "custom_paint_id": cp.ID, "base_paint_id": baseID, "color": cp.Color, "quantity": quantity,
	})
	return cp, line, nil
}

// BasePaint loads the paint shown on the personalization form.
func (s *CustomizerService) BasePaint(ctx context.Context, id uint) (*models.CatalogItem, error) {
	p, err := s.Repo.GetCatalogItem(ctx, models.KindPaint, id)
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("paint %d", id))
	}
	return p, nil
}
