package main

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"galaxy-explorer/internal/starfield"
)

// params is the generator parameter file. Keys that are absent keep the
// default settings.
type params struct {
	Name   string                   `toml:"name"`
	Seed   uint64                   `toml:"seed"`
	Debug  bool                     `toml:"debug_levels"`
	Galaxy starfield.GalaxySettings `toml:"galaxy"`
	Sky    starfield.SkySettings    `toml:"sky"`
}

func defaultParams() params {
	return params{
		Galaxy: starfield.DefaultGalaxySettings(),
		Sky:    starfield.DefaultSkySettings(),
	}
}

func loadParams(path string) (params, error) {
	p := defaultParams()
	if path == "" {
		return p, nil
	}

	meta, err := toml.DecodeFile(path, &p)
	if err != nil {
		return p, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return p, fmt.Errorf("unknown keys in %s: %v", path, undecoded)
	}
	return p, nil
}
