package catalog

import (
	"context"
	"testing"

	"github.com/dquinterov/mesacompras-backend/pkg/db/models"
	"github.com/dquinterov/mesacompras-backend/pkg/enums"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS catalogo_simple (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  categoria TEXT NOT NULL,
  valor TEXT NOT NULL
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func seedEntry(t *testing.T, db *gorm.DB, category enums.CatalogCategory, value string) *models.CatalogEntry {
	t.Helper()

	entry := &models.CatalogEntry{Category: category, Value: value}
	require.NoError(t, db.Create(entry).Error)
	return entry
}

func TestResolveValuePartialMatch(t *testing.T) {
	ctx := context.Background()
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	seedEntry(t, db, enums.CategoryProduct, "ROSES")
	freedom := seedEntry(t, db, enums.CategoryVariety, "Freedom")
	seedEntry(t, db, enums.CategoryVariety, "Freedom Select")

	cat := enums.CategoryVariety
	entry, err := repo.ResolveValue(ctx, "  FREEDOM ", &cat)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, freedom.ID, entry.ID)
}

func TestResolveValueFirstMatchByID(t *testing.T) {
	ctx := context.Background()
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	first := seedEntry(t, db, enums.CategoryVariety, "Mondial")
	seedEntry(t, db, enums.CategoryVariety, "Mondial Premium")

	// both rows contain the needle, the lowest id wins
	entry, err := repo.ResolveValue(ctx, "mondial", nil)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, first.ID, entry.ID)
}

func TestResolveValueScopedByCategory(t *testing.T) {
	ctx := context.Background()
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	seedEntry(t, db, enums.CategoryProduct, "50")
	longEntry := seedEntry(t, db, enums.CategoryLength, "50")

	cat := enums.CategoryLength
	entry, err := repo.ResolveValue(ctx, "50", &cat)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, longEntry.ID, entry.ID)
}

func TestResolveValueMissAndEmpty(t *testing.T) {
	ctx := context.Background()
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	seedEntry(t, db, enums.CategoryProduct, "ROSES")

	entry, err := repo.ResolveValue(ctx, "tulip", nil)
	require.NoError(t, err)
	assert.Nil(t, entry)

	entry, err = repo.ResolveValue(ctx, "   ", nil)
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestUpdateValueAndDelete(t *testing.T) {
	ctx := context.Background()
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	entry := seedEntry(t, db, enums.CategoryPacking, "QB")

	require.NoError(t, repo.UpdateValue(ctx, entry.ID, "HB"))
	updated, err := repo.FindByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "HB", updated.Value)

	require.NoError(t, repo.Delete(ctx, entry.ID))
	assert.ErrorIs(t, repo.Delete(ctx, entry.ID), gorm.ErrRecordNotFound)
	assert.ErrorIs(t, repo.UpdateValue(ctx, entry.ID, "QB"), gorm.ErrRecordNotFound)
}

func TestListByCategoryKeepsStorageOrder(t *testing.T) {
	ctx := context.Background()
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	seedEntry(t, db, enums.CategoryProduct, "Zinnia")
	seedEntry(t, db, enums.CategoryProduct, "Alstroemeria")
	seedEntry(t, db, enums.CategoryVariety, "Freedom")

	entries, err := repo.ListByCategory(ctx, enums.CategoryProduct)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Zinnia", entries[0].Value)
	assert.Equal(t, "Alstroemeria", entries[1].Value)
}
