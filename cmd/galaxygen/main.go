// Command galaxygen generates a galaxy layout and writes it to a layout
// directory, where the server can load it by name.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"

	"galaxy-explorer/internal/layout"
	"galaxy-explorer/internal/shared/config"
	"galaxy-explorer/internal/shared/logger"
	"galaxy-explorer/internal/starfield"
)

func main() {
	var (
		paramsPath = flag.String("config", "", "TOML parameter file")
		name       = flag.String("name", "", "layout name (overrides the parameter file)")
		seed       = flag.Uint64("seed", 0, "generator seed (overrides the parameter file)")
		dir        = flag.String("dir", "layouts", "layout directory")
		level      = flag.String("log-level", "info", "log level")
	)
	flag.Parse()

	log := logger.New(config.LoggingConfig{Level: *level}).With("component", "galaxygen")

	p, err := loadParams(*paramsPath)
	if err != nil {
		log.Error("Failed to load parameters", "error", err)
		os.Exit(1)
	}
	if *name != "" {
		p.Name = *name
	}
	if *seed != 0 {
		p.Seed = *seed
	}
	if !layout.ValidName(p.Name) {
		fmt.Fprintln(os.Stderr, "a valid -name is required (lowercase letters, digits, '-' and '_')")
		os.Exit(2)
	}

	gen := starfield.NewGenerator(rand.New(rand.NewPCG(p.Seed, p.Seed^0x9e3779b97f4a7c15)),
		starfield.WithDebugLevels(p.Debug))
	field := gen.Generate(p.Galaxy, p.Sky)

	store := layout.NewFileStore(*dir)
	if err := store.Save(context.Background(), p.Name, field); err != nil {
		log.Error("Failed to save layout", "name", p.Name, "error", err)
		os.Exit(1)
	}

	log.Info("Layout generated",
		"name", p.Name,
		"seed", p.Seed,
		"stars", len(field.Stars),
		"dir", *dir,
	)
}
