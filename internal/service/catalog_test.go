package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/colormania/internal/events"
	"github.com/Skotchmaster/colormania/internal/models"
	"github.com/Skotchmaster/colormania/internal/search"
	"github.com/Skotchmaster/colormania/internal/testutil"
)

type fakeEngine struct {
	docs    map[string]search.Document
	failing bool
}

func (e *fakeEngine) Index(_ context.Context, d search.Document) error {
	if e.docs == nil {
		e.docs = map[string]search.Document{}
	}
	e.docs[search.DocID(d.Kind, d.ItemID)] = d
	return nil
}

func (e *fakeEngine) Delete(_ context.Context, kind models.CatalogKind, id uint) error {
	delete(e.docs, search.DocID(kind, id))
	return nil
}

func (e *fakeEngine) Search(_ context.Context, q string, _, _ int) (int64, []search.Document, error) {
	if e.failing {
		return 0, nil, errors.New("cluster unavailable")
	}
	var out []search.Document
	for _, d := range e.docs {
		out = append(out, d)
	}
	return int64(len(out)), out, nil
}

func TestCatalog_CreateUpdateDelete(t *testing.T) {
	engine := &fakeEngine{}
	rec := &events.Recorder{}
	svc := &CatalogService{Repo: testutil.NewRepo(t), Search: engine, Events: rec}
	ctx := context.Background()

	_, err := svc.Create(ctx, models.KindPaint, CatalogInput{Name: "", Price: "1", Stock: "1"})
	assert.True(t, errors.Is(err, ErrValidation))
	_, err = svc.Create(ctx, models.KindPaint, CatalogInput{Name: "Azul", Price: "-1", Stock: "1"})
	assert.True(t, errors.Is(err, ErrValidation))
	_, err = svc.Create(ctx, models.KindPaint, CatalogInput{Name: "Azul", Price: "1", Stock: "-3"})
	assert.True(t, errors.Is(err, ErrValidation))

	item, err := svc.Create(ctx, models.KindPaint, CatalogInput{Name: "Azul", Price: "49,90", Stock: "3", ImagePath: "/media/pinturas/a.png"})
	require.NoError(t, err)
	assert.Equal(t, "49.90", item.Price.StringFixed(2))
	assert.Contains(t, engine.docs, search.DocID(models.KindPaint, item.ID))

	updated, previous, err := svc.Update(ctx, models.KindPaint, item.ID, CatalogInput{Name: "Azul Rey", Price: "55", Stock: "3"})
	require.NoError(t, err)
	assert.Empty(t, previous, "image kept when none uploaded")
	assert.Equal(t, "/media/pinturas/a.png", updated.ImagePath)

	_, previous, err = svc.Update(ctx, models.KindPaint, item.ID, CatalogInput{Name: "Azul Rey", Price: "55", Stock: "3", ImagePath: "/media/pinturas/b.png"})
	require.NoError(t, err)
	assert.Equal(t, "/media/pinturas/a.png", previous)

	_, err = svc.Delete(ctx, models.KindPaint, item.ID)
	require.NoError(t, err)
	assert.Empty(t, engine.docs)
	_, err = svc.Get(ctx, models.KindPaint, item.ID)
	assert.True(t, errors.Is(err, ErrNotFound))

	assert.Equal(t, []string{"catalog_item_created", "catalog_item_updated", "catalog_item_updated", "catalog_item_deleted"}, rec.Types())
}

func TestCatalog_ListPages(t *testing.T) {
	r := testutil.NewRepo(t)
	svc := &CatalogService{Repo: r}
	for i := 0; i < 14; i++ {
		testutil.CatalogItem(t, r, models.KindProduct, fmt.Sprintf("P%02d", i), "1", 1)
	}
	items, page, err := svc.List(context.Background(), models.KindProduct, 2)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, int64(2), page.TotalPages)
	assert.True(t, page.HasPrev)
	assert.False(t, page.HasNext)
}

func TestCatalog_SearchFallsBackToSQL(t *testing.T) {
	r := testutil.NewRepo(t)
	engine := &fakeEngine{failing: true}
	svc := &CatalogService{Repo: r, Search: engine}
	ctx := context.Background()
	testutil.CatalogItem(t, r, models.KindPaint, "Verde Bosque", "50", 1)
	testutil.CatalogItem(t, r, models.KindSealant, "Sellador verde", "60", 1)
	testutil.CatalogItem(t, r, models.KindProduct, "Rodillo", "10", 1)

	docs, err := svc.SearchResults(ctx, "VERDE")
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	docs, err = svc.SearchResults(ctx, "  ")
	require.NoError(t, err)
	assert.Empty(t, docs)

	engine.failing = false
	n, err := svc.Reindex(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	docs, err = svc.SearchResults(ctx, "cualquiera")
	require.NoError(t, err)
	assert.Len(t, docs, 3)
}
