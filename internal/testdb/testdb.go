// Package testdb opens migrated in-memory SQLite databases for tests.
package testdb

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/Skotchmaster/favorites_api/internal/repo"
	pkgdb "github.com/Skotchmaster/favorites_api/pkg/db"
)

func New(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := pkgdb.Open(context.Background(), pkgdb.DialectSQLite, ":memory:?_pragma=foreign_keys(1)")
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	t.Cleanup(func() { _ = pkgdb.Close(db) })

	r := repo.GormRepo{DB: db}
	if err := r.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	return db
}
