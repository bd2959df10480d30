package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/colormania/internal/models"
)

var ErrTokenRevoked = errors.New("token expired or revoked")

func (r *GormRepo) GetStaffByUsername(ctx context.Context, username string) (*models.Staff, error) {
	var staff models.Staff
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&staff).Error; err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *GormRepo) GetStaff(ctx context.Context, id uint) (*models.Staff, error) {
	var staff models.Staff
	if err := r.DB.WithContext(ctx).First(&staff, id).Error; err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *GormRepo) CreateStaff(ctx context.Context, staff *models.Staff) error {
	return r.DB.WithContext(ctx).Create(staff).Error
}

func (r *GormRepo) AddRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	return r.DB.WithContext(ctx).Create(token).Error
}

func (r *GormRepo) refreshExpiredOrRevoked(db *gorm.DB, jti string) (bool, error) {
	var refresh models.RefreshToken
	if err := db.Where("jti = ?", jti).First(&refresh).Error; err != nil {
		return false, err
	}
	if refresh.ExpiresAt < time.Now().Unix() || refresh.Revoked {
		return true, nil
	}
	return false, nil
}

func (r *GormRepo) markAsUsed(db *gorm.DB, jti string) error {
	return db.Model(&models.RefreshToken{}).
		Where("jti = ?", jti).
		Update("revoked", true).Error
}

func (r *GormRepo) RevokeRefreshToken(ctx context.Context, jti string) error {
	return r.markAsUsed(r.DB.WithContext(ctx), jti)
}

// RotateRefreshToken revokes oldJTI and stores newToken atomically. An old
// token that is already revoked or expired fails with ErrTokenRevoked.
func (r *GormRepo) RotateRefreshToken(ctx context.Context, oldJTI string, newToken *models.RefreshToken) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		expired, err := r.refreshExpiredOrRevoked(tx, oldJTI)
		if err != nil {
			return err
		}
		if expired {
			return ErrTokenRevoked
		}

		if err := r.markAsUsed(tx, oldJTI); err != nil {
			return err
		}

		return tx.Create(newToken).Error
	})
}
