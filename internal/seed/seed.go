package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/Skotchmaster/colormania/internal/logging"
	"github.com/Skotchmaster/colormania/internal/models"
	"github.com/Skotchmaster/colormania/internal/service"
)

type CatalogEntry struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Price       string `yaml:"price"`
	Stock       int    `yaml:"stock"`
	Image       string `yaml:"image"`
}

type ColorEntry struct {
	Code        string `yaml:"code"`
	Description string `yaml:"description"`
	Category    string `yaml:"category"`
	Popularity  int    `yaml:"popularity"`
}

type StaffEntry struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Document is the YAML seed file layout.
type Document struct {
	Staff    []StaffEntry   `yaml:"staff"`
	Paints   []CatalogEntry `yaml:"paints"`
	Sealants []CatalogEntry `yaml:"sealants"`
	Products []CatalogEntry `yaml:"products"`
	Colors   []ColorEntry   `yaml:"colors"`
}

func Parse(b []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	return &doc, nil
}

func Load(path string) (*Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	return Parse(b)
}

type Services struct {
	Catalog *service.CatalogService
	Colors  *service.ColorService
	Staff   *service.StaffService
}

type Result struct {
	Staff   int
	Catalog int
	Colors  int
}

// Apply inserts whatever the document holds that is not stored yet. Catalog
// rows match by name, colors by code and category, staff by username.
func Apply(ctx context.Context, svc Services, doc *Document) (Result, error) {
	var res Result
	l := logging.FromContext(ctx).With("svc", "seed")

	for _, st := range doc.Staff {
		if _, err := svc.Staff.Repo.GetStaffByUsername(ctx, st.Username); err == nil {
			continue
		}
		if _, err := svc.Staff.EnsureStaff(ctx, st.Username, st.Password); err != nil {
			return res, fmt.Errorf("staff %q: %w", st.Username, err)
		}
		res.Staff++
	}

	sections := []struct {
		kind    models.CatalogKind
		entries []CatalogEntry
	}{
		{models.KindPaint, doc.Paints},
		{models.KindSealant, doc.Sealants},
		{models.KindProduct, doc.Products},
	}
	for _, sec := range sections {
		for _, e := range sec.entries {
			_, err := svc.Catalog.Repo.CatalogItemByName(ctx, sec.kind, e.Name)
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return res, err
			}
			if _, err := svc.Catalog.Create(ctx, sec.kind, service.CatalogInput{
				Name:        e.Name,
				Description: e.Description,
				Price:       e.Price,
				Stock:       strconv.Itoa(e.Stock),
				ImagePath:   e.Image,
			}); err != nil {
				return res, fmt.Errorf("%s %q: %w", sec.kind, e.Name, err)
			}
			res.Catalog++
		}
	}

	for _, c := range doc.Colors {
		cat, ok := models.ParseColorCategory(c.Category)
		if !ok {
			return res, fmt.Errorf("color %q: unknown category %q", c.Code, c.Category)
		}
		exists, err := svc.Colors.Repo.ColorExists(ctx, c.Code, cat)
		if err != nil {
			return res, err
		}
		if exists {
			continue
		}
		if _, err := svc.Colors.Create(ctx, service.ColorInput{
			Code:        c.Code,
			Description: c.Description,
			Category:    string(cat),
			Popularity:  strconv.Itoa(c.Popularity),
		}); err != nil {
			return res, fmt.Errorf("color %q: %w", c.Code, err)
		}
		res.Colors++
	}

	l.Info("seed applied", "staff", res.Staff, "catalog", res.Catalog, "colors", res.Colors)
	return res, nil
}
