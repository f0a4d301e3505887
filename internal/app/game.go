// Package app is the ebiten host of the flock: window, pointer, tuning panel and drawing.
package app

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/tochemey/goakt/v3/log"

	"github.com/lao-tseu-is-alive/go-flock-arena/pkg/flocking"
	"github.com/lao-tseu-is-alive/go-flock-arena/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-flock-arena/pkg/pb"
	"github.com/lao-tseu-is-alive/go-flock-arena/pkg/render"
	"github.com/lao-tseu-is-alive/go-flock-arena/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-flock-arena/pkg/ui"
	"github.com/lao-tseu-is-alive/go-flock-arena/pkg/viewport"
)

var (
	backgroundColor = color.RGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xff}
	borderColor     = color.RGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xff}
	outlineColor    = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	arenaColor      = color.RGBA{R: 0x10, G: 0x10, B: 0x1e, A: 0xff}
)

// alphaPeriod is the pulse period divisor of the flock opacity, in milliseconds
const alphaPeriod = 500.0

type Game struct {
	ctx    context.Context
	cfg    *simulation.Config
	logger log.Logger

	// exactly one of flock and world is set
	flock *flocking.Flock
	world *simulation.World
	last  flocking.Snapshot

	view          *viewport.RatioView
	batch         *render.Batch
	band, outline []flocking.Vertex
	style         flocking.Style

	panel       *ui.UIPanel
	tuning      flocking.Tuning
	tuningDirty bool
	paused      bool
	showBand    bool
	pointerOn   bool

	started  time.Time
	lastTick time.Time

	// Timing instrumentation
	updateAvg float64 // Rolling average in ms
	drawAvg   float64
}

// NewGame seeds the flock, locally or inside the world actor depending on cfg.UseActors.
func NewGame(ctx context.Context, cfg *simulation.Config, logger log.Logger) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	g := &Game{
		ctx:       ctx,
		cfg:       cfg,
		logger:    logger,
		view:      viewport.NewRatioView(cfg.Arena.Width, cfg.Arena.Height),
		tuning:    cfg.Tuning,
		showBand:  true,
		pointerOn: true,
		started:   time.Now(),
	}
	g.view.SetCanvasSize(float64(cfg.WindowWidth), float64(cfg.WindowHeight))
	g.batch = render.NewBatch(g.view)
	g.band, g.outline = flocking.ArenaGeometry(cfg.Arena, cfg.Border, borderColor, outlineColor)
	g.style = flocking.DefaultStyle()
	if cfg.AgentSize > 0 {
		g.style.Size = cfg.AgentSize
	}
	if err := g.reset(); err != nil {
		return nil, err
	}
	g.panel = g.buildPanel()
	return g, nil
}

// reset throws the current flock away and seeds a new one with the current tuning.
func (g *Game) reset() error {
	cfg := *g.cfg
	cfg.Tuning = g.tuning

	if g.world != nil {
		if err := g.world.Stop(g.ctx); err != nil {
			g.logger.Warnf("world did not stop cleanly: %v", err)
		}
		g.world = nil
	}
	if cfg.UseActors {
		world, err := simulation.StartWorld(g.ctx, &cfg, g.logger)
		if err != nil {
			return err
		}
		g.world = world
		g.flock = nil
		g.last = flocking.Snapshot{Arena: cfg.Arena}
	} else {
		opts, err := cfg.Options()
		if err != nil {
			return err
		}
		opts = append(opts, flocking.WithLogger(g.logger))
		if g.flock, err = flocking.New(cfg.Agents, cfg.Arena, opts...); err != nil {
			return err
		}
		g.last = g.flock.Snapshot()
	}
	g.tuningDirty = false
	g.lastTick = time.Now()
	return nil
}

func (g *Game) buildPanel() *ui.UIPanel {
	panel := ui.NewUIPanel("Tuning (H to hide)", 10, 10, 260, float64(g.cfg.WindowHeight)-20)
	slider := func(label string, min, max float64, field *float64) {
		s := panel.AddSlider(label, min, max, *field)
		s.OnChange = func(v float64) {
			*field = v
			g.tuningDirty = true
		}
	}

	panel.AddSection("Perception")
	slider("Perception Radius", 10, 200, &g.tuning.PerceptionRadius)
	slider("Separation Radius", 5, 100, &g.tuning.SeparationRadius)

	panel.AddSection("Weights")
	slider("Separation", 0, 10, &g.tuning.SeparationWeight)
	slider("Alignment", 0, 5, &g.tuning.AlignmentWeight)
	slider("Cohesion", 0, 5, &g.tuning.CohesionWeight)
	slider("Border", 0, 20, &g.tuning.BorderWeight)
	slider("Pointer", 0, 20, &g.tuning.PointerWeight)

	panel.AddSection("Motion")
	slider("Max Speed", 20, 500, &g.tuning.MaxSpeed)
	slider("Min Speed", 0, 200, &g.tuning.MinSpeed)
	slider("Max Force", 50, 2000, &g.tuning.MaxForce)
	slider("Border Margin", 10, 300, &g.tuning.BorderMargin)
	slider("Pointer Radius", 10, 400, &g.tuning.PointerRadius)

	panel.AddSection("Display")
	band := panel.AddCheckbox("Show Border Band", g.showBand)
	band.OnChange = func(v bool) { g.showBand = v }
	pointer := panel.AddCheckbox("Pointer Repels", g.pointerOn)
	pointer.OnChange = func(v bool) { g.pointerOn = v }
	panel.AddButton("Reset (R)", func() {
		if err := g.reset(); err != nil {
			g.logger.Errorf("reset failed: %v", err)
		}
	})
	return panel
}

// Close stops the world actor, if any.
func (g *Game) Close(ctx context.Context) error {
	if g.world == nil {
		return nil
	}
	return g.world.Stop(ctx)
}

// frameDt is the time since the previous tick, clipped so a stalled window does not make the
// flock jump.
func (g *Game) frameDt() float64 {
	now := time.Now()
	dt := now.Sub(g.lastTick).Seconds()
	g.lastTick = now
	return min(dt, g.cfg.MaxFrameDt)
}

func (g *Game) pointer() geometry.Vector2D {
	if !g.pointerOn {
		return flocking.PointerAway
	}
	cx, cy := ebiten.CursorPosition()
	if g.panel.Contains(cx, cy) {
		return flocking.PointerAway
	}
	p, ok := g.view.ToScene(float64(cx), float64(cy))
	if !ok {
		return flocking.PointerAway
	}
	return p
}

func (g *Game) applyTuning() {
	if !g.tuningDirty {
		return
	}
	g.tuningDirty = false
	var err error
	if g.world != nil {
		err = g.world.Tune(g.ctx, g.tuning)
	} else {
		err = g.flock.SetTuning(g.tuning)
	}
	if err != nil {
		g.logger.Debugf("tuning kept: %v", err)
	}
}

func (g *Game) Update() error {
	start := time.Now()
	defer func() {
		g.updateAvg = g.updateAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	g.panel.Update()
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.paused = !g.paused
	case inpututil.IsKeyJustPressed(ebiten.KeyH):
		g.panel.Hidden = !g.panel.Hidden
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		if err := g.reset(); err != nil {
			return err
		}
	}

	dt := g.frameDt()
	if g.paused {
		return nil
	}
	g.applyTuning()
	pointer := g.pointer()

	if g.world == nil {
		g.flock.Update(dt, g.cfg.Arena, g.cfg.Border, pointer)
		g.last = g.flock.Snapshot()
		return nil
	}
	snap, err := g.world.Step(g.ctx, pb.Tick{Dt: dt, Pointer: pointer, Arena: g.cfg.Arena, Border: g.cfg.Border})
	if err != nil {
		g.logger.Warnf("world step skipped: %v", err)
		return nil
	}
	g.last = snap
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	defer func() {
		g.drawAvg = g.drawAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	screen.Fill(backgroundColor)
	x, y, w, h := g.view.Bounds()
	screen.SubImage(rectangle(x, y, w, h)).(*ebiten.Image).Fill(arenaColor)

	g.batch.Begin(screen)

	// the flock pulses, the arena does not
	elapsed := float64(time.Since(g.started).Milliseconds())
	g.batch.Alpha = float32(math.Sin(elapsed/alphaPeriod)/2 + 0.5)
	var err error
	if g.flock != nil {
		err = g.flock.Draw(g.batch)
	} else {
		err = g.last.Draw(g.batch, g.style)
	}
	if err != nil {
		g.logger.Errorf("flock draw failed: %v", err)
	}

	g.batch.Alpha = 1
	if g.showBand {
		if err := g.batch.Submit(g.band, flocking.Triangles); err != nil {
			g.logger.Errorf("border draw failed: %v", err)
		}
	}
	if err := g.batch.Submit(g.outline, flocking.LineLoop); err != nil {
		g.logger.Errorf("outline draw failed: %v", err)
	}

	g.panel.Draw(screen)
	g.drawStats(screen)
}

func (g *Game) drawStats(screen *ebiten.Image) {
	mode := "local"
	if g.world != nil {
		mode = "actors"
	}
	if g.paused {
		mode += " (paused)"
	}
	msg := fmt.Sprintf("FPS: %.2f\nTPS: %.2f\n\nAgents: %d\nFrame:  %d\nOut:    %.1f%%\nVmax:   %.0f\nMode:   %s\n\nUpdate: %.2fms\nDraw:   %.2fms",
		ebiten.ActualFPS(),
		ebiten.ActualTPS(),
		len(g.last.Agents),
		g.last.Frame,
		100*g.last.OutsideFraction(g.cfg.Border),
		g.last.MaxSpeed(),
		mode,
		g.updateAvg,
		g.drawAvg)
	ebitenutil.DebugPrintAt(screen, msg, screen.Bounds().Dx()-160, 10)
}

func rectangle(x, y, w, h float64) image.Rectangle {
	return image.Rect(int(x), int(y), int(math.Ceil(x+w)), int(math.Ceil(y+h)))
}

func (g *Game) Layout(w, h int) (int, int) {
	g.view.SetCanvasSize(float64(w), float64(h))
	return w, h
}
