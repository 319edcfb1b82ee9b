package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMigration_SequentialVersions(t *testing.T) {
	dir := t.TempDir()

	first, err := CreateMigration(dir, "create records")
	require.NoError(t, err)
	assert.Equal(t, "000001", first.Version)
	assert.FileExists(t, first.UpPath)
	assert.FileExists(t, first.DownPath)

	second, err := CreateMigration(dir, "add indexes")
	require.NoError(t, err)
	assert.Equal(t, "000002", second.Version)
	assert.Contains(t, filepath.Base(second.UpPath), "add_indexes")
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"create records", "create_records"},
		{"Add-Some  Indexes", "add_some_indexes"},
		{"trailing ", "trailing"},
		{"we!rd@chars", "werdchars"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, sanitizeName(tt.in), tt.in)
	}
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()

	migrations, err := ListMigrations(dir)
	require.NoError(t, err)
	assert.Empty(t, migrations)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "000001_create_records.up.sql"), []byte("--"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "000001_create_records.down.sql"), []byte("--"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "000002_add_indexes.up.sql"), []byte("--"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	migrations, err = ListMigrations(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"000001_create_records", "000002_add_indexes"}, migrations)
}

func TestListMigrations_MissingDir(t *testing.T) {
	migrations, err := ListMigrations(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, migrations)
}
