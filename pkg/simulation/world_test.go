package simulation

import (
	"context"
	"errors"
	"testing"

	"github.com/tochemey/goakt/v3/log"

	"github.com/lao-tseu-is-alive/go-flock-arena/pkg/flocking"
	"github.com/lao-tseu-is-alive/go-flock-arena/pkg/pb"
)

func startTestWorld(t *testing.T) (*World, *Config) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Agents = 30
	cfg.Seed = 1
	ctx := context.Background()
	w, err := StartWorld(ctx, cfg, log.DiscardLogger)
	if err != nil {
		t.Fatalf("StartWorld: %v", err)
	}
	t.Cleanup(func() { _ = w.Stop(ctx) })
	return w, cfg
}

func TestWorld_StepAdvancesTheFlock(t *testing.T) {
	w, cfg := startTestWorld(t)
	ctx := context.Background()
	tick := pb.Tick{Dt: 1.0 / 60, Pointer: flocking.PointerAway, Arena: cfg.Arena, Border: cfg.Border}

	first, err := w.Step(ctx, tick)
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if first.Frame != 1 || len(first.Agents) != cfg.Agents {
		t.Fatalf("first snapshot: frame %d with %d agents; want frame 1 with %d", first.Frame, len(first.Agents), cfg.Agents)
	}

	second, err := w.Step(ctx, tick)
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if second.Frame != 2 {
		t.Errorf("Frame = %d; want 2", second.Frame)
	}
	moved := false
	for i := range second.Agents {
		if second.Agents[i].Position != first.Agents[i].Position {
			moved = true
			break
		}
	}
	if !moved {
		t.Error("no agent moved between two ticks")
	}
}

func TestWorld_MatchesALocalFlock(t *testing.T) {
	w, cfg := startTestWorld(t)
	ctx := context.Background()

	opts, err := cfg.Options()
	if err != nil {
		t.Fatalf("Options: %v", err)
	}
	local, err := flocking.New(cfg.Agents, cfg.Arena, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tick := pb.Tick{Dt: 1.0 / 60, Pointer: flocking.PointerAway, Arena: cfg.Arena, Border: cfg.Border}
	var remote flocking.Snapshot
	for range 20 {
		local.Update(tick.Dt, tick.Arena, tick.Border, tick.Pointer)
		if remote, err = w.Step(ctx, tick); err != nil {
			t.Fatalf("Step: %v", err)
		}
	}
	want := local.Agents()
	for i := range want {
		if remote.Agents[i] != want[i] {
			t.Fatalf("agent %d diverged: actor %+v, local %+v", i, remote.Agents[i], want[i])
		}
	}
}

func TestWorld_Tune(t *testing.T) {
	w, cfg := startTestWorld(t)
	ctx := context.Background()

	slow := cfg.Tuning
	slow.MaxSpeed = 5
	if err := w.Tune(ctx, slow); err != nil {
		t.Fatalf("Tune: %v", err)
	}
	snap, err := w.Step(ctx, pb.Tick{Dt: 0.1, Pointer: flocking.PointerAway, Arena: cfg.Arena, Border: cfg.Border})
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if got := snap.MaxSpeed(); got > 5+1e-9 {
		t.Errorf("MaxSpeed after tuning = %v; want <= 5", got)
	}

	bad := cfg.Tuning
	bad.MaxForce = -1
	if err := w.Tune(ctx, bad); !errors.Is(err, flocking.ErrInvalidTuning) {
		t.Errorf("Tune(bad) = %v; want ErrInvalidTuning", err)
	}
}

func TestStartWorld_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Agents = 0
	if _, err := StartWorld(context.Background(), cfg, nil); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("StartWorld = %v; want ErrInvalidConfig", err)
	}
}
