package repo

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/colormania/internal/models"
)

func catalogTable(kind models.CatalogKind) (string, error) {
	t := kind.Table()
	if t == "" {
		return "", fmt.Errorf("unknown catalog kind %q", kind)
	}
	return t, nil
}

func (r *GormRepo) GetCatalogItem(ctx context.Context, kind models.CatalogKind, id uint) (*models.CatalogItem, error) {
	t, err := catalogTable(kind)
	if err != nil {
		return nil, err
	}
	var item models.CatalogItem
	if err := r.DB.WithContext(ctx).Table(t).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) ListCatalog(ctx context.Context, kind models.CatalogKind, offset, limit int) (int64, []models.CatalogItem, error) {
	t, err := catalogTable(kind)
	if err != nil {
		return 0, nil, err
	}
	var total int64
	if err := r.DB.WithContext(ctx).Table(t).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.CatalogItem
	q := r.DB.WithContext(ctx).Table(t).Order("id ASC").Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) CreateCatalogItem(ctx context.Context, kind models.CatalogKind, item *models.CatalogItem) error {
	t, err := catalogTable(kind)
	if err != nil {
		return err
	}
	return r.DB.WithContext(ctx).Table(t).Create(item).Error
}

func (r *GormRepo) UpdateCatalogItem(ctx context.Context, kind models.CatalogKind, item *models.CatalogItem) error {
	t, err := catalogTable(kind)
	if err != nil {
		return err
	}
	res := r.DB.WithContext(ctx).Table(t).Model(&models.CatalogItem{}).
		Where("id = ?", item.ID).
		Updates(map[string]any{
			"name":        item.Name,
			"description": item.Description,
			"image_path":  item.ImagePath,
			"price":       item.Price,
			"stock":       item.Stock,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteCatalogItem removes the row and every cart line pointing at it. A
// paint also takes its custom paints and their cart lines with it. Order
// lines are left untouched.
func (r *GormRepo) DeleteCatalogItem(ctx context.Context, kind models.CatalogKind, id uint) error {
	t, err := catalogTable(kind)
	if err != nil {
		return err
	}
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		switch kind {
		case models.KindProduct:
			if err := deleteLinesFor(tx, models.ItemProduct, id); err != nil {
				return err
			}
		case models.KindSealant:
			if err := deleteLinesFor(tx, models.ItemSealant, id); err != nil {
				return err
			}
		case models.KindPaint:
			customIDs := tx.Model(&models.CustomPaint{}).Select("id").Where("base_paint_id = ?", id)
			if err := deleteLinesFor(tx, models.ItemCustom, customIDs); err != nil {
				return err
			}
			if err := tx.Where("base_paint_id = ?", id).Delete(&models.CustomPaint{}).Error; err != nil {
				return err
			}
		}

		res := tx.Table(t).Where("id = ?", id).Delete(&models.CatalogItem{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// ids is a single id or a subquery selecting ids.
func deleteLinesFor(tx *gorm.DB, kind models.ItemKind, ids any) error {
	return tx.Where("item_kind = ? AND item_id IN (?)", kind, ids).Delete(&models.CartLine{}).Error
}

// DecrementStock subtracts qty only while enough stock remains. It reports
// false when the row is missing or short.
func (r *GormRepo) DecrementStock(ctx context.Context, kind models.CatalogKind, id uint, qty int) (bool, error) {
	t, err := catalogTable(kind)
	if err != nil {
		return false, err
	}
	res := r.DB.WithContext(ctx).Table(t).
		Where("id = ? AND stock >= ?", id, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

type CatalogHit struct {
	Kind models.CatalogKind
	Item models.CatalogItem
}

// SearchCatalog is the plain SQL search used when no search engine is
// configured.
func (r *GormRepo) SearchCatalog(ctx context.Context, q string, limit int) ([]CatalogHit, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(q)) + "%"
	var hits []CatalogHit
	for _, kind := range models.CatalogKinds {
		var items []models.CatalogItem
		if err := r.DB.WithContext(ctx).Table(kind.Table()).
			Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern).
			Order("name ASC").
			Limit(limit).
			Find(&items).Error; err != nil {
			return nil, err
		}
		for _, it := range items {
			hits = append(hits, CatalogHit{Kind: kind, Item: it})
		}
	}
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

func (r *GormRepo) CatalogItemByName(ctx context.Context, kind models.CatalogKind, name string) (*models.CatalogItem, error) {
	t, err := catalogTable(kind)
	if err != nil {
		return nil, err
	}
	var item models.CatalogItem
	if err := r.DB.WithContext(ctx).Table(t).Where("name = ?", name).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}
