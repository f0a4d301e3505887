package main

import (
	"context"
	"flag"
	stdlog "log"
	"math"
	"os"

	"github.com/tochemey/goakt/v3/log"

	"github.com/lao-tseu-is-alive/go-flock-arena/pkg/flocking"
	"github.com/lao-tseu-is-alive/go-flock-arena/pkg/pb"
	"github.com/lao-tseu-is-alive/go-flock-arena/pkg/simulation"
)

func main() {
	configFile := flag.String("config", "", "JSON or TOML configuration file")
	seconds := flag.Float64("seconds", 10, "simulated duration")
	steps := flag.Int("steps", 0, "number of ticks, overrides -seconds when positive")
	dt := flag.Float64("dt", 1.0/60, "tick length in seconds")
	out := flag.String("out", "", "write the final snapshot to this file (.json for protojson, anything else for binary)")
	flag.Parse()

	cfg := simulation.DefaultConfig()
	if *configFile != "" {
		var err error
		if cfg, err = simulation.LoadConfig(*configFile); err != nil {
			stdlog.Fatal(err)
		}
	}
	if !(*dt > 0) {
		stdlog.Fatalf("dt must be positive, got %v", *dt)
	}
	n := *steps
	if n <= 0 {
		n = int(math.Ceil(*seconds / *dt))
	}

	logger := log.DefaultLogger
	ctx := context.Background()
	world, err := simulation.StartWorld(ctx, cfg, logger)
	if err != nil {
		stdlog.Fatal(err)
	}
	defer world.Stop(ctx)

	tick := pb.Tick{Dt: *dt, Pointer: flocking.PointerAway, Arena: cfg.Arena, Border: cfg.Border}
	var snap flocking.Snapshot
	worstOutside := 0.0
	for i := range n {
		if snap, err = world.Step(ctx, tick); err != nil {
			stdlog.Fatalf("tick %d: %v", i, err)
		}
		worstOutside = max(worstOutside, snap.OutsideFraction(cfg.Border))
	}
	logger.Infof("%d agents after %d ticks (%.1fs): %.1f%% outside the playable region (worst %.1f%%), top speed %.1f",
		len(snap.Agents), snap.Frame, float64(n)**dt,
		100*snap.OutsideFraction(cfg.Border), 100*worstOutside, snap.MaxSpeed())

	if *out == "" {
		return
	}
	format := pb.FormatFor(*out)
	data, err := pb.MarshalSnapshot(snap, format)
	if err != nil {
		stdlog.Fatal(err)
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		stdlog.Fatal(err)
	}
	logger.Infof("snapshot written to %s (%s, %d bytes)", *out, format, len(data))
}
