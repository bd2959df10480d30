package httpserver

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/colormania/internal/models"
	"github.com/Skotchmaster/colormania/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "templates/layout.html"

// View is the envelope every page is rendered with.
type View struct {
	Title     string
	Principal *session.Principal
	Staff     bool
	Flashes   session.Flashes
	CSRF      string
	Data      any
}

// Renderer keeps one template set per page, each parsed together with the
// shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return "$" + d.StringFixed(2) },
	"date": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("2006-01-02")
	},
	"datetime": func(t time.Time) string { return t.Format("2006-01-02 15:04") },
	"add":      func(a, b int) int { return a + b },
	"sub":      func(a, b int) int { return a - b },
	"kinds":    func() []models.CatalogKind { return models.CatalogKinds },
	"categories": func() []models.ColorCategory {
		return models.ColorCategories
	},
	"countries":      func() []models.Country { return models.Countries },
	"paymentMethods": func() []models.PaymentMethod { return models.PaymentMethods },
	"shippingStates": func() []models.ShippingState { return models.ShippingStates },
}

func NewRenderer() (*Renderer, error) {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, f := range files {
		if f == layoutFile {
			continue
		}
		t, err := template.New(path.Base(layoutFile)).Funcs(funcs).ParseFS(templateFS, layoutFile, f)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", f, err)
		}
		r.pages[path.Base(f)] = t
	}
	return r, nil
}

func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}
