package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/colormania/internal/middleware/auth"
	"github.com/Skotchmaster/colormania/internal/models"
)

type Deps struct {
	Public   *PublicHTTP
	Auth     *AuthHTTP
	Cart     *CartHTTP
	Checkout *CheckoutHTTP
	Admin    *AdminHTTP

	Shopper *auth.Shopper
	Staff   *auth.Staff
	DB      Pinger
}

// Register mounts every route. Guards are attached per route: echo group
// middleware would also capture unmatched paths.
func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", Live)
	e.GET("/health/ready", Ready(d.DB))

	public := func(method, path string, h echo.HandlerFunc) {
		e.Add(method, path, h, d.Shopper.Load)
	}
	shopper := func(method, path string, h echo.HandlerFunc) {
		e.Add(method, path, h, d.Shopper.RequireShopper)
	}
	staff := func(method, path string, h echo.HandlerFunc) {
		e.Add(method, path, h, d.Staff.RequireStaff)
	}

	public(http.MethodGet, "/", d.Public.Index)
	for _, kind := range models.CatalogKinds {
		public(http.MethodGet, "/"+kind.Slug(), d.Public.CatalogPage(kind))
	}
	public(http.MethodGet, "/colores/:categoria", d.Public.ColorsPage)
	public(http.MethodGet, "/buscar", d.Public.Search)
	public(http.MethodGet, "/inspiracion", d.Public.InspirationPage)

	public(http.MethodGet, "/registro", d.Auth.RegisterForm)
	public(http.MethodPost, "/registro", d.Auth.Register)
	public(http.MethodGet, auth.ShopperLoginPath, d.Auth.LoginForm)
	public(http.MethodPost, auth.ShopperLoginPath, d.Auth.Login)
	public(http.MethodPost, "/logout", d.Auth.Logout)
	e.GET(auth.StaffLoginPath, d.Auth.AdminLoginForm)
	e.POST(auth.StaffLoginPath, d.Auth.AdminLogin)
	e.POST("/admin-logout", d.Auth.AdminLogout)

	shopper(http.MethodGet, "/mi-carrito", d.Cart.CartPage)
	shopper(http.MethodPost, "/agregar-producto/:id", d.Cart.AddItem(models.ItemProduct))
	shopper(http.MethodPost, "/agregar-sellador/:id", d.Cart.AddItem(models.ItemSealant))
	shopper(http.MethodGet, "/personalizar/:id", d.Cart.PersonalizeForm)
	shopper(http.MethodPost, "/personalizar/:id", d.Cart.Personalize)
	shopper(http.MethodPost, "/carrito/item/:id/:accion", d.Cart.LineAction)
	shopper(http.MethodGet, "/realizar-pedido", d.Checkout.Form)
	shopper(http.MethodPost, "/realizar-pedido", d.Checkout.Submit)
	shopper(http.MethodGet, "/pedido-exitoso/:id", d.Checkout.Success)

	a := d.Admin
	staff(http.MethodGet, "/index-admin", a.Index)
	for _, kind := range models.CatalogKinds {
		base := adminPath(kind)
		staff(http.MethodGet, base, a.CatalogList(kind))
		staff(http.MethodGet, base+"/crear", a.CatalogCreateForm(kind))
		staff(http.MethodPost, base+"/crear", a.CatalogCreate(kind))
		staff(http.MethodGet, base+"/:id/actualizar", a.CatalogUpdateForm(kind))
		staff(http.MethodPost, base+"/:id/actualizar", a.CatalogUpdate(kind))
		staff(http.MethodPost, base+"/:id/eliminar", a.CatalogDelete(kind))
	}

	staff(http.MethodGet, colorsPath, a.ColorList)
	staff(http.MethodGet, colorsPath+"/crear", a.ColorCreateForm)
	staff(http.MethodPost, colorsPath+"/crear", a.ColorCreate)
	staff(http.MethodGet, colorsPath+"/:id/actualizar", a.ColorUpdateForm)
	staff(http.MethodPost, colorsPath+"/:id/actualizar", a.ColorUpdate)
	staff(http.MethodPost, colorsPath+"/:id/eliminar", a.ColorDelete)
	staff(http.MethodPost, colorsPath+"/depurar", a.ColorPrune)

	staff(http.MethodGet, usersPath, a.UserList)
	staff(http.MethodGet, usersPath+"/crear", a.UserCreateForm)
	staff(http.MethodPost, usersPath+"/crear", a.UserCreate)
	staff(http.MethodGet, usersPath+"/:id/actualizar", a.UserUpdateForm)
	staff(http.MethodPost, usersPath+"/:id/actualizar", a.UserUpdate)
	staff(http.MethodPost, usersPath+"/:id/eliminar", a.UserDelete)

	staff(http.MethodGet, inspirationPath, a.InspirationList)
	staff(http.MethodPost, inspirationPath+"/subir", a.InspirationUpload)
	staff(http.MethodPost, inspirationPath+"/:id/eliminar", a.InspirationDelete)

	staff(http.MethodGet, ordersPath, a.OrderList)
	staff(http.MethodGet, ordersPath+"/exportar", a.OrderExport)
	staff(http.MethodGet, ordersPath+"/:id/actualizar", a.OrderUpdateForm)
	staff(http.MethodPost, ordersPath+"/:id/actualizar", a.OrderUpdate)
	staff(http.MethodPost, ordersPath+"/:id/eliminar", a.OrderDelete)
}
