package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/colormania/internal/models"
	"github.com/Skotchmaster/colormania/internal/repo"
)

const (
	LabelProduct = "Product"
	LabelSealant = "Sealant"
	LabelCustom  = "Personalizado"
)

// Item is a resolved cart line target. The set of implementations is closed.
type Item interface {
	Ref() models.ItemRef
	DisplayName() string
	TypeLabel() string
	UnitPrice() decimal.Decimal
	// StockSource names the row whose stock a purchase consumes.
	StockSource() (models.CatalogKind, uint)
	ImagePath() string
	item()
}

type ProductItem struct {
	Product models.CatalogItem
}

func (p ProductItem) Ref() models.ItemRef {
	return models.ItemRef{Kind: models.ItemProduct, ID: p.Product.ID}
}
func (p ProductItem) DisplayName() string        { return p.Product.Name }
func (p ProductItem) TypeLabel() string          { return LabelProduct }
func (p ProductItem) UnitPrice() decimal.Decimal { return p.Product.Price }
func (p ProductItem) StockSource() (models.CatalogKind, uint) {
	return models.KindProduct, p.Product.ID
}
func (p ProductItem) ImagePath() string { return p.Product.ImagePath }
func (ProductItem) item()               {}

type SealantItem struct {
	Sealant models.CatalogItem
}

func (s SealantItem) Ref() models.ItemRef {
	return models.ItemRef{Kind: models.ItemSealant, ID: s.Sealant.ID}
}
func (s SealantItem) DisplayName() string        { return s.Sealant.Name }
func (s SealantItem) TypeLabel() string          { return LabelSealant }
func (s SealantItem) UnitPrice() decimal.Decimal { return s.Sealant.Price }
func (s SealantItem) StockSource() (models.CatalogKind, uint) {
	return models.KindSealant, s.Sealant.ID
}
func (s SealantItem) ImagePath() string { return s.Sealant.ImagePath }
func (SealantItem) item()               {}

// CustomItem is a base paint tinted with a chosen color. Its price is the
// base paint's current price.
type CustomItem struct {
	Custom models.CustomPaint
	Base   models.CatalogItem
}

func (c CustomItem) Ref() models.ItemRef {
	return models.ItemRef{Kind: models.ItemCustom, ID: c.Custom.ID}
}
func (c CustomItem) DisplayName() string {
	return fmt.Sprintf("%s (%s)", c.Base.Name, c.Custom.Color)
}
func (c CustomItem) TypeLabel() string          { return LabelCustom }
func (c CustomItem) UnitPrice() decimal.Decimal { return c.Base.Price }
func (c CustomItem) StockSource() (models.CatalogKind, uint) {
	return models.KindPaint, c.Base.ID
}
func (c CustomItem) ImagePath() string { return c.Base.ImagePath }
func (CustomItem) item()               {}

// Resolve loads the live catalog rows behind ref.
func Resolve(ctx context.Context, r *repo.GormRepo, ref models.ItemRef) (Item, error) {
	switch ref.Kind {
	case models.ItemProduct:
		p, err := r.GetCatalogItem(ctx, models.KindProduct, ref.ID)
		if err != nil {
			return nil, notFound(err, "product")
		}
		return ProductItem{Product: *p}, nil
	case models.ItemSealant:
		s, err := r.GetCatalogItem(ctx, models.KindSealant, ref.ID)
		if err != nil {
			return nil, notFound(err, "sealant")
		}
		return SealantItem{Sealant: *s}, nil
	case models.ItemCustom:
		cp, err := r.GetCustomPaint(ctx, ref.ID)
		if err != nil {
			return nil, notFound(err, "custom paint")
		}
		base, err := r.GetCatalogItem(ctx, models.KindPaint, cp.BasePaintID)
		if err != nil {
			return nil, notFound(err, "base paint")
		}
		return CustomItem{Custom: *cp, Base: *base}, nil
	}
	return nil, fmt.Errorf("unknown item kind %q: %w", ref.Kind, ErrValidation)
}

// Line is a cart line with its resolved target.
type Line struct {
	models.CartLine
	Item Item
}

func (l Line) Subtotal() decimal.Decimal {
	return l.Item.UnitPrice().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Total sums unit price times quantity over live prices.
func Total(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

func resolveLines(ctx context.Context, r *repo.GormRepo, raw []models.CartLine) ([]Line, error) {
	lines := make([]Line, 0, len(raw))
	for _, cl := range raw {
		it, err := Resolve(ctx, r, cl.Ref())
		if err != nil {
			return nil, fmt.Errorf("cart line %d: %w", cl.ID, err)
		}
		lines = append(lines, Line{CartLine: cl, Item: it})
	}
	return lines, nil
}
