package database

import (
	"os"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationFilesSorted(t *testing.T) {
	fsys := fstest.MapFS{
		"002_galaxy_layouts.sql": {Data: []byte("SELECT 1;")},
		"001_explorers.sql":      {Data: []byte("SELECT 1;")},
		"README.md":              {Data: []byte("notes")},
		"archive/000_old.sql":    {Data: []byte("SELECT 1;")},
	}

	files, err := migrationFiles(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_explorers.sql", "002_galaxy_layouts.sql"}, files)
}

func TestMigrationFilesEmpty(t *testing.T) {
	files, err := migrationFiles(fstest.MapFS{})
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestRepositoryMigrationsAreOrdered(t *testing.T) {
	files, err := migrationFiles(os.DirFS("../../../migrations"))
	require.NoError(t, err)
	require.NotEmpty(t, files)
	assert.Equal(t, "001_explorers.sql", files[0])
	assert.Contains(t, files, "002_galaxy_layouts.sql")
}
