package recordstore

import (
	"context"
	"testing"

	"github.com/quoteflow/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *GormStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	store := NewGormStore(db)
	require.NoError(t, store.AutoMigrate())
	return store
}

func TestGormStore_CreateAssignsSequentialIDs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.Create(ctx, "services", Record{"name": "Setup"})
	require.NoError(t, err)
	assert.Equal(t, "1", first["id"])

	second, err := store.Create(ctx, "services", Record{"name": "Audit"})
	require.NoError(t, err)
	assert.Equal(t, "2", second["id"])

	// ids are per logical table
	other, err := store.Create(ctx, "bundles", Record{"name": "Pack"})
	require.NoError(t, err)
	assert.Equal(t, "1", other["id"])
}

func TestGormStore_CreateSkipsNonNumericIDs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Create(ctx, "services", Record{"id": "legacy-a", "name": "Old"})
	require.NoError(t, err)
	_, err = store.Create(ctx, "services", Record{"id": "7", "name": "Seven"})
	require.NoError(t, err)

	rec, err := store.Create(ctx, "services", Record{"name": "Next"})
	require.NoError(t, err)
	assert.Equal(t, "8", rec["id"])
}

func TestGormStore_GetNotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Get(context.Background(), "services", "404")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormStore_UpdateShallowMerge(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Create(ctx, "services", Record{"name": "Setup", "rate": "100", "unit": "hour"})
	require.NoError(t, err)

	merged, err := store.Update(ctx, "services", "1", Record{"rate": "120", "id": "tampered"})
	require.NoError(t, err)
	assert.Equal(t, "120", merged["rate"])
	assert.Equal(t, "hour", merged["unit"], "untouched fields survive the merge")
	assert.Equal(t, "1", merged["id"], "id is immutable")

	stored, err := store.Get(ctx, "services", "1")
	require.NoError(t, err)
	assert.Equal(t, "120", stored["rate"])

	_, err = store.Update(ctx, "services", "404", Record{"rate": "1"})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormStore_Delete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Create(ctx, "services", Record{"name": "Setup"})
	require.NoError(t, err)

	assert.NoError(t, store.Delete(ctx, "services", "1"))
	assert.ErrorIs(t, store.Delete(ctx, "services", "1"), shared.ErrNotFound)
}

func TestGormStore_ListPaginationAndSearch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"Design Review", "Security Audit", "Design Sprint"} {
		_, err := store.Create(ctx, "services", Record{"name": name})
		require.NoError(t, err)
	}

	// limit 0 means all
	all, err := store.List(ctx, "services", ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Total)
	assert.Len(t, all.Data, 3)
	assert.Equal(t, "1", all.Data[0]["id"], "ordered by numeric id")

	// pagination
	page2, err := store.List(ctx, "services", ListOptions{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page2.Total)
	assert.Len(t, page2.Data, 1)
	assert.Equal(t, "3", page2.Data[0]["id"])

	// case-insensitive substring search
	found, err := store.List(ctx, "services", ListOptions{Search: "design"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), found.Total)

	// search matches serialized non-string fields too
	_, err = store.Create(ctx, "quotations", Record{"number": "QT-202608-000001", "version": float64(3)})
	require.NoError(t, err)
	hit, err := store.List(ctx, "quotations", ListOptions{Search: "202608"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), hit.Total)
}

func TestMatchesSearch(t *testing.T) {
	rec := Record{"name": "Straße", "qty": float64(42)}
	assert.True(t, matchesSearch(rec, "strasse"), "case folding, not just lowercasing")
	assert.True(t, matchesSearch(rec, "42"))
	assert.False(t, matchesSearch(rec, "missing"))
}
