package main

import (
	"context"
	"flag"
	stdlog "log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tochemey/goakt/v3/log"

	"github.com/lao-tseu-is-alive/go-flock-arena/internal/app"
	"github.com/lao-tseu-is-alive/go-flock-arena/pkg/simulation"
)

func main() {
	configFile := flag.String("config", "", "JSON or TOML configuration file")
	useActors := flag.Bool("actors", false, "step the flock through the goakt world actor")
	workers := flag.Int("workers", 0, "goroutines for the force computation (0 keeps the config value)")
	neighborhood := flag.String("neighborhood", "", "neighbor search: brute, grid or rtree")
	debug := flag.Bool("debug", false, "log at debug level")
	flag.Parse()

	cfg := simulation.DefaultConfig()
	if *configFile != "" {
		var err error
		if cfg, err = simulation.LoadConfig(*configFile); err != nil {
			stdlog.Fatal(err)
		}
	}
	if *useActors {
		cfg.UseActors = true
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	if *neighborhood != "" {
		cfg.Neighborhood = *neighborhood
	}

	logger := log.DefaultLogger
	if *debug {
		logger = log.New(log.DebugLevel, os.Stderr)
	}

	ctx := context.Background()
	game, err := app.NewGame(ctx, cfg, logger)
	if err != nil {
		stdlog.Fatal(err)
	}
	defer game.Close(ctx)

	ebiten.SetWindowSize(cfg.WindowWidth, cfg.WindowHeight)
	ebiten.SetWindowTitle("Boids Arena")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(game); err != nil {
		stdlog.Fatal(err)
	}
}
