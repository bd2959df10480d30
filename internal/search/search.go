package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/colormania/internal/models"
)

// Document is what gets indexed for every paint, sealant and product.
type Document struct {
	Kind        models.CatalogKind `json:"kind"`
	ItemID      uint               `json:"item_id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Price       string             `json:"price"`
	ImagePath   string             `json:"image_path"`
}

func (d Document) DocID() string {
	return DocID(d.Kind, d.ItemID)
}

func DocID(kind models.CatalogKind, id uint) string {
	return fmt.Sprintf("%s-%d", kind, id)
}

func FromItem(kind models.CatalogKind, it models.CatalogItem) Document {
	return Document{
		Kind:        kind,
		ItemID:      it.ID,
		Name:        it.Name,
		Description: it.Description,
		Price:       it.Price.StringFixed(2),
		ImagePath:   it.ImagePath,
	}
}

type Engine interface {
	Index(ctx context.Context, doc Document) error
	Delete(ctx context.Context, kind models.CatalogKind, id uint) error
	Search(ctx context.Context, query string, from, size int) (int64, []Document, error)
}

type Config struct {
	URL      string
	User     string
	Password string
	Index    string
}

type Elastic struct {
	es    *elasticsearch.Client
	index string
}

// NewElastic connects and checks the cluster answers before returning.
func NewElastic(cfg Config) (*Elastic, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.User,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch error: %s: %s", res.Status(), body)
	}

	return &Elastic{es: client, index: cfg.Index}, nil
}

func (e *Elastic) Index(ctx context.Context, doc Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	res, err := e.es.Index(
		e.index,
		bytes.NewReader(body),
		e.es.Index.WithContext(ctx),
		e.es.Index.WithDocumentID(doc.DocID()),
	)
	if err != nil {
		return fmt.Errorf("index %s: %w", doc.DocID(), err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index %s: %s", doc.DocID(), res.Status())
	}
	return nil
}

func (e *Elastic) Delete(ctx context.Context, kind models.CatalogKind, id uint) error {
	docID := DocID(kind, id)
	res, err := e.es.Delete(e.index, docID, e.es.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("delete %s: %w", docID, err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete %s: %s", docID, res.Status())
	}
	return nil
}

func (e *Elastic) Search(ctx context.Context, query string, from, size int) (int64, []Document, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     strings.TrimSpace(query),
				"fields":    []string{"name^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, err
	}

	res, err := e.es.Search(
		e.es.Search.WithContext(ctx),
		e.es.Search.WithIndex(e.index),
		e.es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source Document `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	docs := make([]Document, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		docs[i] = hit.Source
	}
	return r.Hits.Total.Value, docs, nil
}
