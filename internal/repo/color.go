package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/colormania/internal/models"
)

func (r *GormRepo) ListColorsByCategory(ctx context.Context, category models.ColorCategory) ([]models.Color, error) {
	var colors []models.Color
	if err := r.DB.WithContext(ctx).Where("category = ?", category).
		Order("popularity DESC, id ASC").Find(&colors).Error; err != nil {
		return nil, err
	}
	return colors, nil
}

func (r *GormRepo) ListColors(ctx context.Context) ([]models.Color, error) {
	var colors []models.Color
	if err := r.DB.WithContext(ctx).Order("category ASC, popularity DESC, id ASC").Find(&colors).Error; err != nil {
		return nil, err
	}
	return colors, nil
}

func (r *GormRepo) GetColor(ctx context.Context, id uint) (*models.Color, error) {
	var color models.Color
	if err := r.DB.WithContext(ctx).First(&color, id).Error; err != nil {
		return nil, err
	}
	return &color, nil
}

func (r *GormRepo) CreateColor(ctx context.Context, color *models.Color) error {
	return r.DB.WithContext(ctx).Create(color).Error
}

func (r *GormRepo) SaveColor(ctx context.Context, color *models.Color) error {
	return r.DB.WithContext(ctx).Save(color).Error
}

func (r *GormRepo) DeleteColor(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Color{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// PruneColors keeps the keep most popular colors of every category and
// deletes the rest, returning how many rows went away.
func (r *GormRepo) PruneColors(ctx context.Context, keep int) (int64, error) {
	var removed int64
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, cat := range models.ColorCategories {
			var keepIDs []uint
			if err := tx.Model(&models.Color{}).Where("category = ?", cat).
				Order("popularity DESC, id ASC").Limit(keep).
				Pluck("id", &keepIDs).Error; err != nil {
				return err
			}
			q := tx.Where("category = ?", cat)
			if len(keepIDs) > 0 {
				q = q.Where("id NOT IN ?", keepIDs)
			}
			res := q.Delete(&models.Color{})
			if res.Error != nil {
				return res.Error
			}
			removed += res.RowsAffected
		}
		return nil
	})
	return removed, err
}

func (r *GormRepo) ColorExists(ctx context.Context, code string, category models.ColorCategory) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.Color{}).
		Where("code = ? AND category = ?", code, category).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
