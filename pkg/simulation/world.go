// Package simulation hosts a flock inside a goakt actor. The world actor is the single writer of
// the flock: Tick and Tuning messages are applied in mailbox order and answered with a snapshot.
package simulation

import (
	"fmt"
	"time"

	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/goaktpb"

	"github.com/lao-tseu-is-alive/go-flock-arena/pkg/flocking"
	"github.com/lao-tseu-is-alive/go-flock-arena/pkg/pb"
)

// WorldActor owns the authoritative flock.
type WorldActor struct {
	cfg   *Config
	flock *flocking.Flock

	// --- Benchmark Stats ---
	ticks       int
	stepTime    time.Duration
	lastLogTime time.Time
}

var _ actor.Actor = (*WorldActor)(nil)

// NewWorldActor creates the world logic unit. The flock is seeded in PreStart.
func NewWorldActor(cfg *Config) *WorldActor {
	return &WorldActor{cfg: cfg, lastLogTime: time.Now()}
}

func (w *WorldActor) PreStart(ctx *actor.Context) error {
	opts, err := w.cfg.Options()
	if err != nil {
		return err
	}
	opts = append(opts, flocking.WithLogger(ctx.ActorSystem().Logger()))
	w.flock, err = flocking.New(w.cfg.Agents, w.cfg.Arena, opts...)
	if err != nil {
		return fmt.Errorf("world cannot seed the flock: %w", err)
	}
	return nil
}

func (w *WorldActor) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *goaktpb.PostStart:
		ctx.Logger().Infof("World started with %d agents", w.flock.Len())
		return
	default:
		switch pb.Name(msg) {
		case pb.TickName:
			w.handleTick(ctx)
		case pb.TuningName:
			w.handleTuning(ctx)
		default:
			ctx.Unhandled()
		}
	}
}

func (w *WorldActor) handleTick(ctx *actor.ReceiveContext) {
	tick, err := pb.TickFromMessage(ctx.Message())
	if err != nil {
		ctx.Err(err)
		return
	}

	start := time.Now()
	w.flock.Update(tick.Dt, tick.Arena, tick.Border, tick.Pointer)
	w.stepTime += time.Since(start)
	w.ticks++
	w.logBenchmarks(ctx)

	ctx.Response(pb.SnapshotMessage(w.flock.Snapshot()))
}

// handleTuning applies new tuning. A rejected tuning is logged by the flock and the previous one
// stays active; the reply is the current snapshot either way.
func (w *WorldActor) handleTuning(ctx *actor.ReceiveContext) {
	t, err := pb.TuningFromMessage(ctx.Message())
	if err != nil {
		ctx.Err(err)
		return
	}
	_ = w.flock.SetTuning(t)
	ctx.Response(pb.SnapshotMessage(w.flock.Snapshot()))
}

func (w *WorldActor) logBenchmarks(ctx *actor.ReceiveContext) {
	if time.Since(w.lastLogTime) >= time.Second {
		avg := time.Duration(0)
		if w.ticks > 0 {
			avg = w.stepTime / time.Duration(w.ticks)
		}
		ctx.Logger().Infof("📊 TICK RATE: %d/sec | avg step %s | Agents: %d | frame %d",
			w.ticks, avg, w.flock.Len(), w.flock.Frame())
		w.ticks = 0
		w.stepTime = 0
		w.lastLogTime = time.Now()
	}
}

func (w *WorldActor) PostStop(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Info("World is shutdown...")
	return nil
}
