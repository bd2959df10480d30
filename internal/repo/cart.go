package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/colormania/internal/models"
)

func (r *GormRepo) GetOrCreateCart(ctx context.Context, userID uint) (*models.Cart, error) {
	var cart models.Cart
	if err := r.DB.WithContext(ctx).Where(models.Cart{UserID: userID}).FirstOrCreate(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// FindCart returns gorm.ErrRecordNotFound when the user never had a cart.
func (r *GormRepo) FindCart(ctx context.Context, userID uint) (*models.Cart, error) {
	var cart models.Cart
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// LockCart re-reads the cart row holding a row lock until the surrounding
// transaction ends.
func (r *GormRepo) LockCart(ctx context.Context, cartID uint) (*models.Cart, error) {
	var cart models.Cart
	if err := r.forUpdate(r.DB.WithContext(ctx)).Where("id = ?", cartID).First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *GormRepo) CartLines(ctx context.Context, cartID uint) ([]models.CartLine, error) {
	var lines []models.CartLine
	if err := r.DB.WithContext(ctx).Where("cart_id = ?", cartID).Order("id ASC").Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// IncrementLine adds qty to the line holding ref, creating it when missing.
func (r *GormRepo) IncrementLine(ctx context.Context, cartID uint, ref models.ItemRef, qty int) (*models.CartLine, error) {
	var line models.CartLine
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CartLine{}).
			Where("cart_id = ? AND item_kind = ? AND item_id = ?", cartID, ref.Kind, ref.ID).
			Update("quantity", gorm.Expr("quantity + ?", qty))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return tx.Where("cart_id = ? AND item_kind = ? AND item_id = ?", cartID, ref.Kind, ref.ID).First(&line).Error
		}

		line = models.CartLine{CartID: cartID, ItemKind: ref.Kind, ItemID: ref.ID, Quantity: qty}
		return tx.Create(&line).Error
	})
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// AddLine always inserts a new line. Custom paints use it so two
// personalizations never merge.
func (r *GormRepo) AddLine(ctx context.Context, cartID uint, ref models.ItemRef, qty int) (*models.CartLine, error) {
	line := models.CartLine{CartID: cartID, ItemKind: ref.Kind, ItemID: ref.ID, Quantity: qty}
	if err := r.DB.WithContext(ctx).Create(&line).Error; err != nil {
		return nil, err
	}
	return &line, nil
}

// OwnedLine loads a line only when it sits in the given user's cart.
func (r *GormRepo) OwnedLine(ctx context.Context, userID, lineID uint) (*models.CartLine, error) {
	var line models.CartLine
	if err := r.DB.WithContext(ctx).
		Joins("JOIN carts ON carts.id = cart_lines.cart_id").
		Where("cart_lines.id = ? AND carts.user_id = ?", lineID, userID).
		First(&line).Error; err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *GormRepo) SetLineQuantity(ctx context.Context, lineID uint, qty int) error {
	return r.DB.WithContext(ctx).Model(&models.CartLine{}).Where("id = ?", lineID).Update("quantity", qty).Error
}

func (r *GormRepo) DeleteLine(ctx context.Context, lineID uint) error {
	return r.DB.WithContext(ctx).Delete(&models.CartLine{}, lineID).Error
}

func (r *GormRepo) ClearCart(ctx context.Context, cartID uint) error {
	return r.DB.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&models.CartLine{}).Error
}

func (r *GormRepo) CreateCustomPaint(ctx context.Context, cp *models.CustomPaint) error {
	return r.DB.WithContext(ctx).Create(cp).Error
}

func (r *GormRepo) GetCustomPaint(ctx context.Context, id uint) (*models.CustomPaint, error) {
	var cp models.CustomPaint
	if err := r.DB.WithContext(ctx).First(&cp, id).Error; err != nil {
		return nil, err
	}
	return &cp, nil
}
