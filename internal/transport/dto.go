package transport

import (
	"strconv"

	"github.com/Skotchmaster/colormania/internal/models"
	"github.com/Skotchmaster/colormania/internal/service"
)

type ShippingFields struct {
	Telefono     string `form:"telefono"`
	Pais         string `form:"pais"`
	Estado       string `form:"estado"`
	Ciudad       string `form:"ciudad"`
	CodigoPostal string `form:"codigo_postal"`
	Calle        string `form:"calle"`
	NumDomicilio string `form:"num_domicilio"`
	Detalles     string `form:"detalles"`
}

func (f ShippingFields) Shipping() models.Shipping {
	return models.Shipping{
		Phone:       f.Telefono,
		Country:     models.Country(f.Pais),
		State:       f.Estado,
		City:        f.Ciudad,
		PostalCode:  f.CodigoPostal,
		Street:      f.Calle,
		HouseNumber: f.NumDomicilio,
		Details:     f.Detalles,
	}
}

func ShippingFieldsOf(s models.Shipping) ShippingFields {
	return ShippingFields{
		Telefono:     s.Phone,
		Pais:         string(s.Country),
		Estado:       s.State,
		Ciudad:       s.City,
		CodigoPostal: s.PostalCode,
		Calle:        s.Street,
		NumDomicilio: s.HouseNumber,
		Detalles:     s.Details,
	}
}

// UserForm serves both shopper registration and the admin user screens.
type UserForm struct {
	Nombre            string `form:"nombre"`
	Apellido          string `form:"apellido"`
	Email             string `form:"email"`
	Password          string `form:"password"`
	ConfirmarPassword string `form:"confirmar_password"`
	ShippingFields
}

func (f UserForm) Input() service.UserInput {
	return service.UserInput{
		FirstName:       f.Nombre,
		LastName:        f.Apellido,
		Email:           f.Email,
		Password:        f.Password,
		ConfirmPassword: f.ConfirmarPassword,
		Shipping:        f.Shipping(),
	}
}

func UserFormOf(u *models.User) UserForm {
	return UserForm{
		Nombre:         u.FirstName,
		Apellido:       u.LastName,
		Email:          u.Email,
		ShippingFields: ShippingFieldsOf(u.Shipping),
	}
}

type LoginForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

type StaffLoginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

type CheckoutForm struct {
	MetodoPago       string `form:"metodo_pago"`
	NumeroTarjeta    string `form:"numero_tarjeta"`
	FechaVencimiento string `form:"fecha_vencimiento"`
	Clabe            string `form:"clabe"`
	ShippingFields
}

func (f CheckoutForm) Request() service.CheckoutRequest {
	return service.CheckoutRequest{
		PaymentMethod: models.PaymentMethod(f.MetodoPago),
		CardNumber:    f.NumeroTarjeta,
		CardExpiry:    f.FechaVencimiento,
		CLABE:         f.Clabe,
		Shipping:      f.Shipping(),
	}
}

type CartForm struct {
	Cantidad string `form:"cantidad"`
}

type PersonalizeForm struct {
	Color    string `form:"color"`
	Cantidad string `form:"cantidad"`
}

// CatalogForm carries the text fields; the image travels as the foto file.
type CatalogForm struct {
	Nombre      string `form:"nombre"`
	Descripcion string `form:"descripcion"`
	Precio      string `form:"precio"`
	Stock       string `form:"stock"`
}

func (f CatalogForm) Input(imagePath string) service.CatalogInput {
	return service.CatalogInput{
		Name:        f.Nombre,
		Description: f.Descripcion,
		Price:       f.Precio,
		Stock:       f.Stock,
		ImagePath:   imagePath,
	}
}

func CatalogFormOf(it *models.CatalogItem) CatalogForm {
	return CatalogForm{
		Nombre:      it.Name,
		Descripcion: it.Description,
		Precio:      it.Price.StringFixed(2),
		Stock:       strconv.Itoa(it.Stock),
	}
}

type ColorForm struct {
	Codigo      string `form:"codigo"`
	Descripcion string `form:"descripcion"`
	Tipo        string `form:"tipo"`
	Popularidad string `form:"popularidad"`
}

func (f ColorForm) Input() service.ColorInput {
	return service.ColorInput{
		Code:        f.Codigo,
		Description: f.Descripcion,
		Category:    f.Tipo,
		Popularity:  f.Popularidad,
	}
}

func ColorFormOf(c *models.Color) ColorForm {
	return ColorForm{
		Codigo:      c.Code,
		Descripcion: c.Description,
		Tipo:        string(c.Category),
		Popularidad: strconv.Itoa(c.Popularity),
	}
}

type OrderForm struct {
	EstadoEnvio  string `form:"estado_envio"`
	FechaLlegada string `form:"fecha_llegada"`
	AccionRapida string `form:"accion_rapida"`
}
