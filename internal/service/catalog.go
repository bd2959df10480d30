package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/colormania/internal/events"
	"github.com/Skotchmaster/colormania/internal/logging"
	"github.com/Skotchmaster/colormania/internal/models"
	"github.com/Skotchmaster/colormania/internal/repo"
	"github.com/Skotchmaster/colormania/internal/search"
	"github.com/Skotchmaster/colormania/internal/util"
)

const searchLimit = 30

type CatalogService struct {
	Repo   *repo.GormRepo
	Search search.Engine
	Events events.Publisher
}

// CatalogInput is the raw admin form. Price and stock arrive as text.
type CatalogInput struct {
	Name        string
	Description string
	Price       string
	Stock       string
	ImagePath   string
}

func (in CatalogInput) fields() (models.CatalogFields, error) {
	f := models.CatalogFields{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		ImagePath:   in.ImagePath,
	}
	if f.Name == "" {
		return f, invalid("El nombre es obligatorio.")
	}
	if err := maxLen("El nombre", f.Name, 100); err != nil {
		return f, err
	}

	price, err := decimal.NewFromString(strings.TrimSpace(strings.ReplaceAll(in.Price, ",", ".")))
	if err != nil || price.IsNegative() {
		return f, invalid("El precio debe ser un número mayor o igual a cero.")
	}
	f.Price = price.Round(2)

	stock, err := strconv.Atoi(strings.TrimSpace(in.Stock))
	if err != nil || stock < 0 {
		return f, invalid("El stock debe ser un entero mayor o igual a cero.")
	}
	f.Stock = stock
	return f, nil
}

func (s *CatalogService) Get(ctx context.Context, kind models.CatalogKind, id uint) (*models.CatalogItem, error) {
	item, err := s.Repo.GetCatalogItem(ctx, kind, id)
	if err != nil {
		return nil, notFound(err, kind.Label())
	}
	return item, nil
}

func (s *CatalogService) List(ctx context.Context, kind models.CatalogKind, page int) ([]models.CatalogItem, util.Page, error) {
	offset, limit := util.Calculate(page, util.DefaultPageSize)
	total, items, err := s.Repo.ListCatalog(ctx, kind, offset, limit)
	if err != nil {
		return nil, util.Page{}, err
	}
	return items, util.NewPage(page, limit, total), nil
}

func (s *CatalogService) ListAll(ctx context.Context, kind models.CatalogKind) ([]models.CatalogItem, error) {
	_, items, err := s.Repo.ListCatalog(ctx, kind, 0, 0)
	return items, err
}

func (s *CatalogService) Create(ctx context.Context, kind models.CatalogKind, in CatalogInput) (*models.CatalogItem, error) {
	f, err := in.fields()
	if err != nil {
		return nil, err
	}
	item := &models.CatalogItem{CatalogFields: f}
	if err := s.Repo.CreateCatalogItem(ctx, kind, item); err != nil {
		return nil, err
	}
	s.indexed(ctx, kind, item, "catalog_item_created")
	return item, nil
}

// Update keeps the current image when the form carries no new one. It
// returns the previous image path so the caller can discard a replaced file.
func (s *CatalogService) Update(ctx context.Context, kind models.CatalogKind, id uint, in CatalogInput) (*models.CatalogItem, string, error) {
	current, err := s.Get(ctx, kind, id)
	if err != nil {
		return nil, "", err
	}
	if in.ImagePath == "" {
		in.ImagePath = current.ImagePath
	}
	f, err := in.fields()
	if err != nil {
		return nil, "", err
	}
	previous := current.ImagePath
	current.CatalogFields = f
	if err := s.Repo.UpdateCatalogItem(ctx, kind, current); err != nil {
		return nil, "", notFound(err, kind.Label())
	}
	s.indexed(ctx, kind, current, "catalog_item_updated")
	if previous == current.ImagePath {
		previous = ""
	}
	return current, previous, nil
}

// Delete removes the item with its cart lines and returns the deleted row.
func (s *CatalogService) Delete(ctx context.Context, kind models.CatalogKind, id uint) (*models.CatalogItem, error) {
	item, err := s.Get(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.DeleteCatalogItem(ctx, kind, id); err != nil {
		return nil, notFound(err, kind.Label())
	}
	if s.Search != nil {
		if err := s.Search.Delete(ctx, kind, id); err != nil {
			logging.FromContext(ctx).Warn("search_delete_error", "kind", kind, "item_id", id, "error", err)
		}
	}
	publish(ctx, s.Events, events.TopicCatalog, search.DocID(kind, id), "catalog_item_deleted", map[string]any{
		"kind": kind, "item_id": id,
	})
	return item, nil
}

func (s *CatalogService) indexed(ctx context.Context, kind models.CatalogKind, item *models.CatalogItem, typ string) {
	if s.Search != nil {
		if err := s.Search.Index(ctx, search.FromItem(kind, *item)); err != nil {
			logging.FromContext(ctx).Warn("search_index_error", "kind", kind, "item_id", item.ID, "error", err)
		}
	}
	publish(ctx, s.Events, events.TopicCatalog, search.DocID(kind, item.ID), typ, map[string]any{
		"kind": kind, "item_id": item.ID, "name": item.Name, "price": item.Price.StringFixed(2), "stock": item.Stock,
	})
}

// SearchResults runs the query on the search engine when one is configured
// and falls back to SQL matching otherwise or on engine failure.
func (s *CatalogService) SearchResults(ctx context.Context, q string) ([]search.Document, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, nil
	}
	if s.Search != nil {
		_, docs, err := s.Search.Search(ctx, q, 0, searchLimit)
		if err == nil {
			return docs, nil
		}
		logging.FromContext(ctx).Warn("search_error", "reason", "engine failed, using sql fallback", "error", err)
	}

	hits, err := s.Repo.SearchCatalog(ctx, q, searchLimit)
	if err != nil {
		return nil, err
	}
	docs := make([]search.Document, 0, len(hits))
	for _, h := range hits {
		docs = append(docs, search.FromItem(h.Kind, h.Item))
	}
	return docs, nil
}

// Reindex pushes every catalog row to the search engine.
func (s *CatalogService) Reindex(ctx context.Context) (int, error) {
	if s.Search == nil {
		return 0, nil
	}
	n := 0
	for _, kind := range models.CatalogKinds {
		items, err := s.ListAll(ctx, kind)
		if err != nil {
			return n, err
		}
		for _, it := range items {
			if err := s.Search.Index(ctx, search.FromItem(kind, it)); err != nil {
				return n, err
			}
			n++
		}
	}
	return n, nil
}
