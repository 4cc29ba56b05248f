package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"galaxy-explorer/internal/starfield"
)

func writeParams(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "params.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadParamsKeepsDefaults(t *testing.T) {
	path := writeParams(t, `
name = "andromeda"
seed = 42

[galaxy]
stars_count = 1200
k = 0.25

[sky]
galaxies_count = 2
`)

	p, err := loadParams(path)
	require.NoError(t, err)

	assert.Equal(t, "andromeda", p.Name)
	assert.Equal(t, uint64(42), p.Seed)
	assert.Equal(t, 1200, p.Galaxy.StarsCount)
	assert.Equal(t, 0.25, p.Galaxy.K)
	assert.Equal(t, starfield.DefaultGalaxySettings().BlinkStarsCount, p.Galaxy.BlinkStarsCount)
	assert.Equal(t, 2, p.Sky.GalaxiesCount)
	assert.Equal(t, starfield.DefaultSkySettings().RadiusMax, p.Sky.RadiusMax)
}

func TestLoadParamsRejectsUnknownKeys(t *testing.T) {
	path := writeParams(t, "[galaxy]\nstar_count = 10\n")

	_, err := loadParams(path)
	assert.ErrorContains(t, err, "unknown keys")
}

func TestLoadParamsWithoutFile(t *testing.T) {
	p, err := loadParams("")
	require.NoError(t, err)
	assert.Equal(t, defaultParams(), p)
}
