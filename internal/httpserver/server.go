package httpserver

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/colormania/internal/events"
	"github.com/Skotchmaster/colormania/internal/media"
	"github.com/Skotchmaster/colormania/internal/middleware/auth"
	"github.com/Skotchmaster/colormania/internal/middleware/csrf"
	loggingmw "github.com/Skotchmaster/colormania/internal/middleware/logging"
	"github.com/Skotchmaster/colormania/internal/repo"
	"github.com/Skotchmaster/colormania/internal/search"
	"github.com/Skotchmaster/colormania/internal/service"
	"github.com/Skotchmaster/colormania/internal/session"
)

type Options struct {
	Repo     *repo.GormRepo
	Events   events.Publisher
	Search   search.Engine
	Sessions *session.Manager
	Media    *media.Store
	Logger   *slog.Logger

	AccessSecret  []byte
	RefreshSecret []byte
	Secure        bool

	// Now overrides the checkout clock.
	Now func() time.Time
}

// App is the assembled site: the echo instance plus the services that
// startup tasks (seeding, reindexing) need outside a request.
type App struct {
	Echo    *echo.Echo
	Catalog *service.CatalogService
	Colors  *service.ColorService
	Users   *service.UserService
	Staff   *service.StaffService
}

func New(o Options) (*App, error) {
	if o.Events == nil {
		o.Events = events.Nop{}
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}

	renderer, err := NewRenderer()
	if err != nil {
		return nil, err
	}

	r := o.Repo
	catalog := &service.CatalogService{Repo: r, Search: o.Search, Events: o.Events}
	colors := &service.ColorService{Repo: r}
	users := &service.UserService{Repo: r, Events: o.Events}
	staff := &service.StaffService{Repo: r, AccessSecret: o.AccessSecret, RefreshSecret: o.RefreshSecret}
	cart := &service.CartService{Repo: r, Events: o.Events}
	custom := &service.CustomizerService{Repo: r, Events: o.Events}
	checkout := &service.CheckoutService{Repo: r, Events: o.Events, Now: o.Now}
	orders := &service.OrderService{Repo: r, Events: o.Events}
	inspiration := &service.InspirationService{Repo: r, Media: o.Media}

	web := &Web{Sessions: o.Sessions, Secure: o.Secure}

	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer
	e.HTTPErrorHandler = ErrorHandler(web)

	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(o.Logger))
	e.Use(csrf.Middleware(csrf.Config{Secure: o.Secure}))
	if o.Media != nil {
		e.Static(media.URLPrefix, o.Media.Dir)
	}

	Register(e, &Deps{
		Public:   &PublicHTTP{Web: web, Catalog: catalog, Colors: colors, Inspiration: inspiration},
		Auth:     &AuthHTTP{Web: web, Users: users, Staff: staff},
		Cart:     &CartHTTP{Web: web, Cart: cart, Custom: custom, Orders: orders},
		Checkout: &CheckoutHTTP{Web: web, Checkout: checkout, Orders: orders},
		Admin: &AdminHTTP{
			Web:         web,
			Catalog:     catalog,
			Colors:      colors,
			Users:       users,
			Orders:      orders,
			Inspiration: inspiration,
			Media:       o.Media,
		},
		Shopper: &auth.Shopper{Sessions: o.Sessions, Users: r},
		Staff:   &auth.Staff{AccessSecret: o.AccessSecret, Refresher: staff, Secure: o.Secure},
		DB:      r,
	})

	return &App{Echo: e, Catalog: catalog, Colors: colors, Users: users, Staff: staff}, nil
}
