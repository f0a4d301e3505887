// Package flocking implements the boids simulation: agents steered by separation, alignment and
// cohesion, kept inside a bordered arena and pushed away by the pointer.
//
// The package knows nothing about windows or GPUs. A host drives it with Update once per frame and
// hands a Renderer to Draw.
package flocking

import (
	"math"

	"github.com/lao-tseu-is-alive/go-flock-arena/pkg/geometry"
)

// Agent is a single boid.
type Agent struct {
	Position geometry.Vector2D `json:"position"`
	Velocity geometry.Vector2D `json:"velocity"`
	// Force is the acceleration applied during the last update, after clamping.
	Force geometry.Vector2D `json:"force"`
}

// Direction is the unit heading. An agent at rest faces +X.
func (a Agent) Direction() geometry.Vector2D {
	u, err := a.Velocity.Unit()
	if err != nil {
		return geometry.Vector2D{X: 1}
	}
	return u
}

// Heading is the angle of Direction in radians.
func (a Agent) Heading() float64 {
	return a.Direction().Angle()
}

// Speed is the velocity magnitude.
func (a Agent) Speed() float64 {
	return a.Velocity.Len()
}

// Extent is the size of the arena in scene units. The arena spans [0, Width] x [0, Height].
type Extent struct {
	Width  float64 `json:"width" toml:"width"`
	Height float64 `json:"height" toml:"height"`
}

// Valid reports whether both dimensions are positive and finite.
func (e Extent) Valid() bool {
	return e.Width > 0 && e.Height > 0 && !math.IsInf(e.Width, 0) && !math.IsInf(e.Height, 0)
}

// Inside reports whether p lies in the playable region, the arena minus a border band.
func (e Extent) Inside(p geometry.Vector2D, border float64) bool {
	return p.X >= border && p.X <= e.Width-border &&
		p.Y >= border && p.Y <= e.Height-border
}

// Center is the middle of the arena.
func (e Extent) Center() geometry.Vector2D {
	return geometry.Vector2D{X: e.Width / 2, Y: e.Height / 2}
}
