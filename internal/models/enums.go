package models

import "strings"

type CatalogKind string

const (
	KindPaint   CatalogKind = "paint"
	KindSealant CatalogKind = "sealant"
	KindProduct CatalogKind = "product"
)

var CatalogKinds = []CatalogKind{KindPaint, KindSealant, KindProduct}

func (k CatalogKind) Table() string {
	switch k {
	case KindPaint:
		return "paints"
	case KindSealant:
		return "sealants"
	case KindProduct:
		return "products"
	}
	return ""
}

func (k CatalogKind) Label() string {
	switch k {
	case KindPaint:
		return "Pintura"
	case KindSealant:
		return "Sellador"
	case KindProduct:
		return "Producto"
	}
	return ""
}

// Slug is the plural used in public and admin URLs.
func (k CatalogKind) Slug() string {
	switch k {
	case KindPaint:
		return "pinturas"
	case KindSealant:
		return "selladores"
	case KindProduct:
		return "productos"
	}
	return ""
}

func (k CatalogKind) Valid() bool { return k.Table() != "" }

// ItemKind tags what a cart line points at.
type ItemKind string

const (
	ItemProduct ItemKind = "product"
	ItemSealant ItemKind = "sealant"
	ItemCustom  ItemKind = "custom"
)

func (k ItemKind) Valid() bool {
	switch k {
	case ItemProduct, ItemSealant, ItemCustom:
		return true
	}
	return false
}

type ColorCategory string

const (
	ColorWarm   ColorCategory = "CALIDOS"
	ColorCool   ColorCategory = "FRIOS"
	ColorGrey   ColorCategory = "GRISES"
	ColorPastel ColorCategory = "PASTELES"
	ColorVivid  ColorCategory = "VIVOS"
)

var ColorCategories = []ColorCategory{ColorWarm, ColorCool, ColorGrey, ColorPastel, ColorVivid}

func ParseColorCategory(s string) (ColorCategory, bool) {
	c := ColorCategory(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range ColorCategories {
		if c == known {
			return c, true
		}
	}
	return "", false
}

type PaymentMethod string

const (
	PaymentCard        PaymentMethod = "TARJETA"
	PaymentMercadoPago PaymentMethod = "MERCADO_PAGO"
	PaymentOXXO        PaymentMethod = "OXXO"
)

var PaymentMethods = []PaymentMethod{PaymentCard, PaymentMercadoPago, PaymentOXXO}

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCard, PaymentMercadoPago, PaymentOXXO:
		return true
	}
	return false
}

type ShippingState string

const (
	ShippingPending   ShippingState = "Pendiente"
	ShippingPreparing ShippingState = "Preparando"
	ShippingSent      ShippingState = "Enviado"
	ShippingDelivered ShippingState = "Entregado"
	ShippingCancelled ShippingState = "Cancelado"
)

var ShippingStates = []ShippingState{ShippingPending, ShippingPreparing, ShippingSent, ShippingDelivered, ShippingCancelled}

func (s ShippingState) Known() bool {
	for _, k := range ShippingStates {
		if s == k {
			return true
		}
	}
	return false
}

type Country string

var Countries = []Country{
	"MEXICO", "ESTADOS UNIDOS", "GUATEMALA", "EL SALVADOR", "HONDURAS", "COSTA RICA", "PANAMA",
}

func (c Country) Valid() bool {
	for _, k := range Countries {
		if c == k {
			return true
		}
	}
	return false
}
