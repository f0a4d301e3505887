package flocking

import (
	"math"

	"github.com/lao-tseu-is-alive/go-flock-arena/pkg/geometry"
)

// PointerAway is a pointer position that never interacts with the flock.
var PointerAway = geometry.Vector2D{X: math.Inf(1), Y: math.Inf(1)}

// The rules below are pure: they read the frozen frame and return an unweighted contribution.
// A degenerate direction (coincident agents, pointer exactly on an agent) contributes nothing.

// Separation pushes self away from neighbors closer than SeparationRadius, each push scaled by
// SeparationRadius/d so closer neighbors push harder.
func Separation(self Agent, agents []Agent, neighbors []int, t Tuning) geometry.Vector2D {
	var sum geometry.Vector2D
	considered := 0
	for _, j := range neighbors {
		away := self.Position.Sub(agents[j].Position)
		d := away.Len()
		if d >= t.SeparationRadius {
			continue
		}
		dir, err := away.Unit()
		if err != nil {
			continue
		}
		sum = sum.Add(dir.Mul(t.SeparationRadius / d))
		considered++
	}
	if considered == 0 {
		return geometry.Zero
	}
	return sum.Mul(t.MaxSpeed / float64(considered))
}

// Alignment steers toward the mean velocity of the neighbors.
func Alignment(self Agent, agents []Agent, neighbors []int, _ Tuning) geometry.Vector2D {
	if len(neighbors) == 0 {
		return geometry.Zero
	}
	var avg geometry.Vector2D
	for _, j := range neighbors {
		avg = avg.Add(agents[j].Velocity)
	}
	avg = avg.Mul(1 / float64(len(neighbors)))
	return avg.Sub(self.Velocity)
}

// Cohesion steers toward the centroid of the neighbors.
func Cohesion(self Agent, agents []Agent, neighbors []int, _ Tuning) geometry.Vector2D {
	if len(neighbors) == 0 {
		return geometry.Zero
	}
	var centroid geometry.Vector2D
	for _, j := range neighbors {
		centroid = centroid.Add(agents[j].Position)
	}
	centroid = centroid.Mul(1 / float64(len(neighbors)))
	return centroid.Sub(self.Position)
}

// BorderAvoidance pushes self back toward the playable region [border, size-border] once it gets
// closer than BorderMargin to an inner wall. The push grows linearly as the wall gets closer and
// keeps growing past it. Any velocity heading into the wall is added to the push.
func BorderAvoidance(self Agent, arena Extent, border float64, t Tuning) geometry.Vector2D {
	return geometry.Vector2D{
		X: axisPush(self.Position.X, self.Velocity.X, arena.Width, border, t),
		Y: axisPush(self.Position.Y, self.Velocity.Y, arena.Height, border, t),
	}
}

func axisPush(p, v, size, border float64, t Tuning) float64 {
	low := p - border
	high := size - border - p
	if low <= high {
		if low < t.BorderMargin {
			return wallPush(low, -v, t)
		}
		return 0
	}
	if high < t.BorderMargin {
		return -wallPush(high, v, t)
	}
	return 0
}

// wallPush is the inward magnitude for a wall at distance e, given the speed toward it.
func wallPush(e, towardWall float64, t Tuning) float64 {
	push := t.MaxSpeed * (1 - e/t.BorderMargin)
	if towardWall > 0 {
		push += towardWall
	}
	return push
}

// PointerRepulsion treats the pointer as a predator: inside PointerRadius self is pushed away,
// harder the closer it is. Beyond the radius it has no effect.
func PointerRepulsion(self Agent, pointer geometry.Vector2D, t Tuning) geometry.Vector2D {
	if !pointer.IsFinite() {
		return geometry.Zero
	}
	away := self.Position.Sub(pointer)
	d := away.Len()
	if d >= t.PointerRadius {
		return geometry.Zero
	}
	dir, err := away.Unit()
	if err != nil {
		return geometry.Zero
	}
	return dir.Mul(t.MaxSpeed * (1 - d/t.PointerRadius))
}

// frame is the per-update context shared by all agents.
type frame struct {
	arena   Extent
	border  float64
	pointer geometry.Vector2D
}

// steer sums the weighted rules and clamps the result to MaxForce.
func steer(i int, agents []Agent, neighbors []int, fr frame, t Tuning) geometry.Vector2D {
	self := agents[i]
	force := Separation(self, agents, neighbors, t).Mul(t.SeparationWeight).
		Add(Alignment(self, agents, neighbors, t).Mul(t.AlignmentWeight)).
		Add(Cohesion(self, agents, neighbors, t).Mul(t.CohesionWeight)).
		Add(BorderAvoidance(self, fr.arena, fr.border, t).Mul(t.BorderWeight)).
		Add(PointerRepulsion(self, fr.pointer, t).Mul(t.PointerWeight))
	return force.ClampLength(t.MaxForce)
}
