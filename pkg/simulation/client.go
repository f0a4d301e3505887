package simulation

import (
	"context"
	"fmt"
	"time"

	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/log"

	"github.com/lao-tseu-is-alive/go-flock-arena/pkg/flocking"
	"github.com/lao-tseu-is-alive/go-flock-arena/pkg/pb"
)

// DefaultAskTimeout bounds a single Step or Tune round trip.
const DefaultAskTimeout = time.Second

// World is the caller side of the world actor: it owns the actor system and turns Ask round trips
// into plain method calls.
type World struct {
	system  actor.ActorSystem
	pid     *actor.PID
	timeout time.Duration
}

// StartWorld boots a local actor system and spawns the world actor in it.
func StartWorld(ctx context.Context, cfg *Config, logger log.Logger) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.DiscardLogger
	}
	system, err := actor.NewActorSystem("FlockWorld",
		actor.WithLogger(logger),
		actor.WithActorInitMaxRetries(3))
	if err != nil {
		return nil, fmt.Errorf("failed to create actor system: %w", err)
	}
	if err := system.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start actor system: %w", err)
	}
	pid, err := system.Spawn(ctx, "world", NewWorldActor(cfg))
	if err != nil {
		_ = system.Stop(ctx)
		return nil, fmt.Errorf("failed to spawn world: %w", err)
	}
	return &World{system: system, pid: pid, timeout: DefaultAskTimeout}, nil
}

// Step advances the flock by one tick and returns the resulting snapshot.
func (w *World) Step(ctx context.Context, tick pb.Tick) (flocking.Snapshot, error) {
	reply, err := actor.Ask(ctx, w.pid, tick.Message(), w.timeout)
	if err != nil {
		return flocking.Snapshot{}, fmt.Errorf("world tick failed: %w", err)
	}
	return pb.SnapshotFromMessage(reply)
}

// Tune sends new tuning to the flock. An invalid tuning is rejected locally, before it reaches
// the actor.
func (w *World) Tune(ctx context.Context, t flocking.Tuning) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if _, err := actor.Ask(ctx, w.pid, pb.TuningMessage(t), w.timeout); err != nil {
		return fmt.Errorf("world tuning failed: %w", err)
	}
	return nil
}

// Stop shuts the actor system down.
func (w *World) Stop(ctx context.Context) error {
	return w.system.Stop(ctx)
}
