package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Skotchmaster/colormania/internal/logging"
	"github.com/Skotchmaster/colormania/internal/models"
	"github.com/Skotchmaster/colormania/internal/repo"
)

// KeepPerCategory is how many colors survive a prune in each category.
const KeepPerCategory = 15

type ColorService struct {
	Repo *repo.GormRepo
}

type ColorInput struct {
	Code        string
	Description string
	Category    string
	Popularity  string
}

func (in ColorInput) apply(c *models.Color) error {
	code := strings.TrimSpace(in.Code)
	if code == "" {
		return invalid("El código es obligatorio.")
	}
	if err := maxLen("El código", code, 50); err != nil {
		return err
	}
	desc := strings.TrimSpace(in.Description)
	if err := maxLen("La descripción", desc, 250); err != nil {
		return err
	}
	cat, ok := models.ParseColorCategory(in.Category)
	if !ok {
		return invalid("Tipo de color inválido.")
	}
	pop := 0
	if p := strings.TrimSpace(in.Popularity); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			return invalid("La popularidad debe ser un número entero.")
		}
		pop = n
	}
	c.Code, c.Description, c.Category, c.Popularity = code, desc, cat, pop
	return nil
}

func (s *ColorService) ByCategory(ctx context.Context, category string) (models.ColorCategory, []models.Color, error) {
	cat, ok := models.ParseColorCategory(category)
	if !ok {
		return "", nil, fmt.Errorf("color category %q: %w", category, ErrNotFound)
	}
	colors, err := s.Repo.ListColorsByCategory(ctx, cat)
	return cat, colors, err
}

func (s *ColorService) List(ctx context.Context) ([]models.Color, error) {
	return s.Repo.ListColors(ctx)
}

func (s *ColorService) Get(ctx context.Context, id uint) (*models.Color, error) {
	c, err := s.Repo.GetColor(ctx, id)
	if err != nil {
		return nil, notFound(err, "color")
	}
	return c, nil
}

func (s *ColorService) Create(ctx context.Context, in ColorInput) (*models.Color, error) {
	var c models.Color
	if err := in.apply(&c); err != nil {
		return nil, err
	}
	if err := s.Repo.CreateColor(ctx, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *ColorService) Update(ctx context.Context, id uint, in ColorInput) (*models.Color, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := in.apply(c); err != nil {
		return nil, err
	}
	if err := s.Repo.SaveColor(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *ColorService) Delete(ctx context.Context, id uint) error {
	return notFound(s.Repo.DeleteColor(ctx, id), "color")
}

// Prune keeps the most popular colors of each category and deletes the rest.
func (s *ColorService) Prune(ctx context.Context) (int64, error) {
	n, err := s.Repo.PruneColors(ctx, KeepPerCategory)
	if err != nil {
		return 0, err
	}
	logging.FromContext(ctx).Info("colors pruned", "removed", n, "keep_per_category", KeepPerCategory)
	return n, nil
}
