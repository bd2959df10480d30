package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/colormania/internal/models"
)

func (r *GormRepo) ListInspiration(ctx context.Context) ([]models.Inspiration, error) {
	var images []models.Inspiration
	if err := r.DB.WithContext(ctx).Order("created_at DESC, id DESC").Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

func (r *GormRepo) GetInspiration(ctx context.Context, id uint) (*models.Inspiration, error) {
	var img models.Inspiration
	if err := r.DB.WithContext(ctx).First(&img, id).Error; err != nil {
		return nil, err
	}
	return &img, nil
}

func (r *GormRepo) CreateInspiration(ctx context.Context, img *models.Inspiration) error {
	return r.DB.WithContext(ctx).Create(img).Error
}

func (r *GormRepo) DeleteInspiration(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Inspiration{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
