package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CatalogFields are shared by every stock-bearing catalog row.
type CatalogFields struct {
	Name        string          `gorm:"size:100;not null"                  json:"name"`
	Description string          `gorm:"type:text"                          json:"description"`
	ImagePath   string          `gorm:"size:255"                           json:"image_path"`
	Price       decimal.Decimal `gorm:"type:decimal(20,2);not null"        json:"price"`
	Stock       int             `gorm:"not null;default:0;check:stock >= 0" json:"stock"`
}

// CatalogItem is the row shape of paints, sealants and products. Queries pick
// the table through CatalogKind.Table.
type CatalogItem struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`
	CatalogFields
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Paint struct{ CatalogItem }

type Sealant struct{ CatalogItem }

type Product struct{ CatalogItem }

type CustomPaint struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	BasePaintID uint      `gorm:"index;not null"           json:"base_paint_id"`
	Color       string    `gorm:"size:50;not null"         json:"color"`
	UserID      *uint     `gorm:"index"                    json:"user_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Color struct {
	ID          uint          `gorm:"primaryKey;autoIncrement" json:"id"`
	Code        string        `gorm:"size:50;not null"         json:"code"`
	Description string        `gorm:"size:250"                 json:"description"`
	Category    ColorCategory `gorm:"size:30;not null;index"   json:"category"`
	Popularity  int           `gorm:"not null;default:0"       json:"popularity"`
}

type Inspiration struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ImagePath string    `gorm:"size:255;not null"        json:"image_path"`
	CreatedAt time.Time `json:"created_at"`
}

type Shipping struct {
	Phone       string  `gorm:"size:15"  json:"phone"`
	Country     Country `gorm:"size:30"  json:"country"`
	State       string  `gorm:"size:50"  json:"state"`
	City        string  `gorm:"size:50"  json:"city"`
	PostalCode  string  `gorm:"size:10"  json:"postal_code"`
	Street      string  `gorm:"size:50"  json:"street"`
	HouseNumber string  `gorm:"size:10"  json:"house_number"`
	Details     string  `gorm:"size:255" json:"details"`
}

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"  json:"id"`
	FirstName    string `gorm:"size:50;not null"          json:"first_name"`
	LastName     string `gorm:"size:50;not null"          json:"last_name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:128;not null"         json:"-"`
	Shipping
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

type Staff struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"size:100;uniqueIndex;not null" json:"username"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	IsStaff      bool   `gorm:"not null;default:true"    json:"is_staff"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"              json:"id"`
	Token     string `gorm:"uniqueIndex;not null"    json:"token"`
	StaffID   uint   `gorm:"index;not null"          json:"staff_id"`
	JTI       string `gorm:"uniqueIndex;not null"    json:"jti"`
	ExpiresAt int64  `gorm:"not null"                json:"expires_at"`
	Revoked   bool   `gorm:"default:false"           json:"revoked"`
}

// ItemRef is the tagged reference a cart line carries: exactly one of a
// product, a sealant or a custom paint.
type ItemRef struct {
	Kind ItemKind
	ID   uint
}

type Cart struct {
	ID        uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint       `gorm:"uniqueIndex;not null"     json:"user_id"`
	Lines     []CartLine `gorm:"constraint:OnDelete:CASCADE" json:"lines"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type CartLine struct {
	ID       uint     `gorm:"primaryKey;autoIncrement"                json:"id"`
	CartID   uint     `gorm:"index;not null"                          json:"cart_id"`
	ItemKind ItemKind `gorm:"size:16;not null;index:idx_cart_lines_item" json:"item_kind"`
	ItemID   uint     `gorm:"not null;index:idx_cart_lines_item"      json:"item_id"`
	Quantity int      `gorm:"not null;default:1;check:quantity >= 1"  json:"quantity"`
}

func (l CartLine) Ref() ItemRef {
	return ItemRef{Kind: l.ItemKind, ID: l.ItemID}
}

type Order struct {
	ID               uint            `gorm:"primaryKey;autoIncrement"    json:"id"`
	Reference        string          `gorm:"size:64;uniqueIndex;not null" json:"reference"`
	UserID           uint            `gorm:"index;not null"              json:"user_id"`
	PaymentMethod    PaymentMethod   `gorm:"size:30;not null"            json:"payment_method"`
	Total            decimal.Decimal `gorm:"column:total_compra;type:decimal(20,2);not null" json:"total_compra"`
	CardNumber       *string         `gorm:"size:19"                     json:"card_number,omitempty"`
	CardExpiry       *string         `gorm:"size:5"                      json:"card_expiry,omitempty"`
	CLABE            *string         `gorm:"column:clabe;size:18"        json:"clabe,omitempty"`
	EstimatedArrival *time.Time      `json:"estimated_arrival,omitempty"`
	ShippingState    ShippingState   `gorm:"size:50;not null"            json:"shipping_state"`
	Lines            []OrderLine     `gorm:"constraint:OnDelete:CASCADE" json:"lines"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// OrderLine is a frozen copy of a cart line. It keeps no reference to the
// catalog so deleting a catalog row never touches history.
type OrderLine struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"     json:"id"`
	OrderID     uint            `gorm:"index;not null"               json:"order_id"`
	ProductName string          `gorm:"size:150;not null"            json:"product_name"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(20,2);not null"  json:"unit_price"`
	Quantity    int             `gorm:"not null"                     json:"quantity"`
	TypeLabel   string          `gorm:"size:50"                      json:"type_label"`
}

func (l OrderLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// All lists every model for AutoMigrate.
func All() []any {
	return []any{
		&Paint{}, &Sealant{}, &Product{}, &CustomPaint{},
		&Color{}, &Inspiration{},
		&User{}, &Staff{}, &RefreshToken{},
		&Cart{}, &CartLine{},
		&Order{}, &OrderLine{},
	}
}
