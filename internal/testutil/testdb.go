// Package testutil holds shared fixtures for package tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/colormania/internal/db"
	"github.com/Skotchmaster/colormania/internal/hash"
	"github.com/Skotchmaster/colormania/internal/models"
	"github.com/Skotchmaster/colormania/internal/repo"
)

// InitTestDB opens a migrated sqlite database in a per-test temp dir. The
// single connection serializes transactions the way row locks would.
func InitTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "sqlite:" + filepath.Join(t.TempDir(), "test.db")
	gdb, err := db.Open(context.Background(), dsn)
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(gdb) })
	return gdb
}

func NewRepo(t *testing.T) *repo.GormRepo {
	return &repo.GormRepo{DB: InitTestDB(t)}
}

func CatalogItem(t *testing.T, r *repo.GormRepo, kind models.CatalogKind, name, price string, stock int) *models.CatalogItem {
	t.Helper()
	item := &models.CatalogItem{CatalogFields: models.CatalogFields{
		Name:  name,
		Price: decimal.RequireFromString(price),
		Stock: stock,
	}}
	if err := r.CreateCatalogItem(context.Background(), kind, item); err != nil {
		t.Fatalf("create %s: %v", kind, err)
	}
	return item
}

// User stores a shopper whose password is "Secreto123".
func User(t *testing.T, r *repo.GormRepo, email string) *models.User {
	t.Helper()
	pw, err := hash.HashPassword("Secreto123")
	if err != nil {
		t.Fatal(err)
	}
	u := &models.User{FirstName: "Ana", LastName: "López", Email: email, PasswordHash: pw}
	if err := r.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func Shipping() models.Shipping {
	return models.Shipping{
		Phone:       "5512345678",
		Country:     "MEXICO",
		State:       "CDMX",
		City:        "Ciudad de México",
		PostalCode:  "01000",
		Street:      "Insurgentes",
		HouseNumber: "100",
	}
}
