package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"galaxy-explorer/internal/starfield"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := load()
	require.NoError(t, err)

	assert.Equal(t, starfield.DefaultGalaxySettings(), cfg.Galaxy)
	assert.Equal(t, starfield.DefaultSkySettings(), cfg.Sky)
	assert.Equal(t, 60, cfg.Scene.TickRate)
	assert.Equal(t, 400, cfg.Scene.MarkerPool)
	assert.Equal(t, 40.0, cfg.Scene.PickRadius)
}

func TestLoadGalaxyOverrides(t *testing.T) {
	t.Setenv("GALAXY_STARS_COUNT", "500")
	t.Setenv("GALAXY_K", "0.5")
	t.Setenv("SKY_GALAXIES_COUNT", "2")
	t.Setenv("SCENE_TICK_RATE", "30")

	cfg, err := load()
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.Galaxy.StarsCount)
	assert.Equal(t, 0.5, cfg.Galaxy.K)
	assert.Equal(t, 2, cfg.Sky.GalaxiesCount)
	assert.Equal(t, 30, cfg.Scene.TickRate)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		t.Setenv("JWT_SECRET", strings.Repeat("s", 32))
		cfg, err := load()
		require.NoError(t, err)
		return cfg
	}

	require.NoError(t, valid().validate())

	cfg := valid()
	cfg.Auth.JWTSecret = "short"
	assert.ErrorContains(t, cfg.validate(), "JWT_SECRET")

	cfg = valid()
	cfg.Scene.TickRate = 0
	assert.ErrorContains(t, cfg.validate(), "SCENE_TICK_RATE")

	cfg = valid()
	cfg.Scene.MaxSessions = 0
	assert.ErrorContains(t, cfg.validate(), "SCENE_MAX_SESSIONS")
}
