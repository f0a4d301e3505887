package flocking

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/tochemey/goakt/v3/log"
	"golang.org/x/sync/errgroup"

	"github.com/lao-tseu-is-alive/go-flock-arena/pkg/geometry"
)

// ErrConstruction is wrapped by every error returned from New and FromSnapshot.
var ErrConstruction = errors.New("flocking: cannot build flock")

// Flock owns a fixed set of agents and advances them one frame at a time.
//
// A Flock is not safe for concurrent use: Update and Draw must be called from the same goroutine,
// or serialized by the caller.
type Flock struct {
	agents []Agent
	forces []geometry.Vector2D
	arena  Extent
	frame  uint64

	tuning     Tuning
	index      Neighborhood
	rng        *rand.Rand
	workers    int
	style      Style
	spawnInset float64
	logger     log.Logger

	neighbors []int
	vertices  []Vertex
}

// Option configures a Flock at construction.
type Option func(*Flock)

// WithTuning replaces DefaultTuning.
func WithTuning(t Tuning) Option {
	return func(f *Flock) { f.tuning = t }
}

// WithRand sets the random source used to seed agents.
func WithRand(r *rand.Rand) Option {
	return func(f *Flock) { f.rng = r }
}

// WithSeed seeds a PCG source, for reproducible flocks.
func WithSeed(seed uint64) Option {
	return func(f *Flock) { f.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }
}

// WithNeighborhood replaces the default BruteForce strategy.
func WithNeighborhood(n Neighborhood) Option {
	return func(f *Flock) { f.index = n }
}

// WithWorkers splits the force computation across n goroutines. n <= 1 keeps it on the caller.
func WithWorkers(n int) Option {
	return func(f *Flock) { f.workers = n }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l log.Logger) Option {
	return func(f *Flock) { f.logger = l }
}

// WithSpawnInset keeps seeded agents at least inset away from the arena edges.
func WithSpawnInset(inset float64) Option {
	return func(f *Flock) { f.spawnInset = inset }
}

// WithStyle sets how Draw renders agents.
func WithStyle(s Style) Option {
	return func(f *Flock) { f.style = s }
}

func newFlock(arena Extent, opts []Option) (*Flock, error) {
	if !arena.Valid() {
		return nil, fmt.Errorf("%w: arena dimensions must be positive, got %vx%v", ErrConstruction, arena.Width, arena.Height)
	}
	f := &Flock{
		arena:   arena,
		tuning:  DefaultTuning(),
		index:   BruteForce{},
		workers: 1,
		style:   DefaultStyle(),
		logger:  log.DiscardLogger,
	}
	for _, opt := range opts {
		opt(f)
	}
	if err := f.tuning.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConstruction, err)
	}
	if f.rng == nil {
		seed := uint64(time.Now().UnixNano())
		f.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
	return f, nil
}

// New seeds count agents uniformly inside arena, each heading in a random direction at a speed
// between half and full MaxSpeed.
func New(count int, arena Extent, opts ...Option) (*Flock, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: agent count must be positive, got %d", ErrConstruction, count)
	}
	f, err := newFlock(arena, opts)
	if err != nil {
		return nil, err
	}

	insetX, insetY := f.spawnInset, f.spawnInset
	if insetX < 0 || 2*insetX >= arena.Width {
		insetX = 0
	}
	if insetY < 0 || 2*insetY >= arena.Height {
		insetY = 0
	}

	f.agents = make([]Agent, count)
	for i := range f.agents {
		pos := geometry.Vector2D{
			X: insetX + f.rng.Float64()*(arena.Width-2*insetX),
			Y: insetY + f.rng.Float64()*(arena.Height-2*insetY),
		}
		speed := f.tuning.MaxSpeed * (0.5 + 0.5*f.rng.Float64())
		theta := f.rng.Float64() * 2 * math.Pi
		f.agents[i] = Agent{Position: pos, Velocity: geometry.NewVectorPolar(speed, theta)}
	}
	f.forces = make([]geometry.Vector2D, count)

	f.logger.Infof("flock seeded: %d agents in %.0fx%.0f arena (neighborhood=%v workers=%d)",
		count, arena.Width, arena.Height, f.index, f.workers)
	return f, nil
}

// FromSnapshot rebuilds a flock from saved agent state. Velocities above MaxSpeed are clamped.
func FromSnapshot(s Snapshot, opts ...Option) (*Flock, error) {
	if len(s.Agents) == 0 {
		return nil, fmt.Errorf("%w: snapshot holds no agents", ErrConstruction)
	}
	f, err := newFlock(s.Arena, opts)
	if err != nil {
		return nil, err
	}
	f.agents = make([]Agent, len(s.Agents))
	for i, a := range s.Agents {
		if !a.Position.IsFinite() || !a.Velocity.IsFinite() {
			return nil, fmt.Errorf("%w: agent %d has non-finite state", ErrConstruction, i)
		}
		a.Velocity = a.Velocity.ClampLength(f.tuning.MaxSpeed)
		f.agents[i] = a
	}
	f.forces = make([]geometry.Vector2D, len(f.agents))
	f.frame = s.Frame
	f.logger.Infof("flock restored: %d agents at frame %d", len(f.agents), f.frame)
	return f, nil
}

// Len is the number of agents, fixed for the life of the flock.
func (f *Flock) Len() int { return len(f.agents) }

// Frame counts the updates applied so far.
func (f *Flock) Frame() uint64 { return f.frame }

// Arena is the extent passed to the last Update, or the construction extent.
func (f *Flock) Arena() Extent { return f.arena }

// Tuning returns the active tuning.
func (f *Flock) Tuning() Tuning { return f.tuning }

// SetTuning validates and applies t. It takes effect on the next Update.
func (f *Flock) SetTuning(t Tuning) error {
	if err := t.Validate(); err != nil {
		f.logger.Warnf("tuning rejected: %v", err)
		return err
	}
	f.tuning = t
	f.logger.Debugf("tuning applied: %+v", t)
	return nil
}

// Agents returns a copy of the agents.
func (f *Flock) Agents() []Agent {
	out := make([]Agent, len(f.agents))
	copy(out, f.agents)
	return out
}

// Update advances the flock by dt seconds. Every force is computed from the state left by the
// previous frame before any agent moves. A non-positive or non-finite dt does nothing.
func (f *Flock) Update(dt float64, arena Extent, border float64, pointer geometry.Vector2D) {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return
	}
	if arena.Valid() {
		f.arena = arena
	}
	fr := frame{arena: f.arena, border: border, pointer: pointer}
	t := f.tuning

	f.computeForces(fr, t)
	f.integrate(dt, t)
	f.frame++
}

// computeForces is the read-only phase. With several workers the agents are split in contiguous
// chunks, each worker with its own neighbor buffer, and the call returns once all chunks are done.
func (f *Flock) computeForces(fr frame, t Tuning) {
	f.index.Rebuild(f.agents, t.PerceptionRadius)

	n := len(f.agents)
	workers := min(f.workers, n)
	if workers <= 1 {
		for i := range f.agents {
			f.neighbors = f.index.Query(f.agents, i, t.PerceptionRadius, f.neighbors)
			f.forces[i] = steer(i, f.agents, f.neighbors, fr, t)
		}
		return
	}

	var g errgroup.Group
	chunk := (n + workers - 1) / workers
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		g.Go(func() error {
			var neighbors []int
			for i := start; i < end; i++ {
				neighbors = f.index.Query(f.agents, i, t.PerceptionRadius, neighbors)
				f.forces[i] = steer(i, f.agents, neighbors, fr, t)
			}
			return nil
		})
	}
	_ = g.Wait()
}

func (f *Flock) integrate(dt float64, t Tuning) {
	for i := range f.agents {
		a := &f.agents[i]
		v := a.Velocity.Add(f.forces[i].Mul(dt))
		if t.MinSpeed > 0 {
			if s := v.Len(); s > 0 && s < t.MinSpeed {
				v = v.Mul(t.MinSpeed / s)
			}
		}
		a.Velocity = v.ClampLength(t.MaxSpeed)
		a.Position = a.Position.Add(a.Velocity.Mul(dt))
		a.Force = f.forces[i]
	}
}

// Draw submits one triangle per agent, oriented along its velocity, as a single batch.
// It never touches the simulation state.
func (f *Flock) Draw(r Renderer) error {
	var err error
	f.vertices, err = drawAgents(r, f.agents, f.style, f.vertices)
	return err
}

// Style is the style used by Draw.
func (f *Flock) Style() Style { return f.style }
