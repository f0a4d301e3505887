package flocking

import (
	"math"
	"testing"

	"github.com/lao-tseu-is-alive/go-flock-arena/pkg/geometry"
)

func agentAt(x, y float64) Agent {
	return Agent{Position: geometry.Vector2D{X: x, Y: y}}
}

func TestSeparation(t *testing.T) {
	tuning := DefaultTuning()

	t.Run("pushes away from a close neighbor", func(t *testing.T) {
		// Me at 0,0, friend at 1,0: the push must point to negative X.
		agents := []Agent{agentAt(0, 0), agentAt(1, 0)}
		got := Separation(agents[0], agents, []int{1}, tuning)
		if got.X >= 0 {
			t.Errorf("Expected negative X (separation), got %v", got)
		}
		if got.Y != 0 {
			t.Errorf("Expected 0 Y, got %v", got)
		}
	})

	t.Run("closer neighbors push harder", func(t *testing.T) {
		near := []Agent{agentAt(0, 0), agentAt(2, 0)}
		far := []Agent{agentAt(0, 0), agentAt(15, 0)}
		pNear := Separation(near[0], near, []int{1}, tuning).Len()
		pFar := Separation(far[0], far, []int{1}, tuning).Len()
		if pNear <= pFar {
			t.Errorf("Expected push at d=2 (%v) to exceed push at d=15 (%v)", pNear, pFar)
		}
	})

	t.Run("neighbor outside separation radius is ignored", func(t *testing.T) {
		// A visible neighbor beyond the too-close distance must not brake a moving agent.
		agents := []Agent{{Velocity: geometry.Vector2D{X: 1}}, agentAt(tuning.SeparationRadius+5, 0)}
		if got := Separation(agents[0], agents, []int{1}, tuning); got != geometry.Zero {
			t.Errorf("Expected no separation, got %v", got)
		}
	})

	t.Run("coincident neighbor is degenerate", func(t *testing.T) {
		agents := []Agent{agentAt(5, 5), agentAt(5, 5)}
		got := Separation(agents[0], agents, []int{1}, tuning)
		if got != geometry.Zero || !got.IsFinite() {
			t.Errorf("Expected zero contribution for coincident agents, got %v", got)
		}
	})

	t.Run("no neighbors", func(t *testing.T) {
		agents := []Agent{agentAt(0, 0)}
		if got := Separation(agents[0], agents, nil, tuning); got != geometry.Zero {
			t.Errorf("Expected zero, got %v", got)
		}
	})
}

func TestAlignment(t *testing.T) {
	tuning := DefaultTuning()
	// Me at rest, friend moving along +X: steer toward +X.
	agents := []Agent{agentAt(0, 0), {Position: geometry.Vector2D{X: 5}, Velocity: geometry.Vector2D{X: 10}}}

	got := Alignment(agents[0], agents, []int{1}, tuning)
	if !got.Eq(geometry.Vector2D{X: 10}) {
		t.Errorf("Alignment = %v; want (10, 0)", got)
	}
	if got := Alignment(agents[0], agents, nil, tuning); got != geometry.Zero {
		t.Errorf("Alignment without neighbors = %v; want zero", got)
	}
}

func TestCohesion(t *testing.T) {
	tuning := DefaultTuning()
	agents := []Agent{agentAt(0, 0), agentAt(10, 0), agentAt(10, 10)}

	got := Cohesion(agents[0], agents, []int{1, 2}, tuning)
	if !got.Eq(geometry.Vector2D{X: 10, Y: 5}) {
		t.Errorf("Cohesion = %v; want (10, 5)", got)
	}
	if got := Cohesion(agents[0], agents, nil, tuning); got != geometry.Zero {
		t.Errorf("Cohesion without neighbors = %v; want zero", got)
	}
}

func TestBorderAvoidance(t *testing.T) {
	tuning := DefaultTuning()
	arena := Extent{Width: 1000, Height: 1000}
	const border = 50.0

	tests := []struct {
		name  string
		agent Agent
		check func(geometry.Vector2D) bool
		want  string
	}{
		{"center is free", agentAt(500, 500), func(v geometry.Vector2D) bool { return v == geometry.Zero }, "zero"},
		{"just outside margin", agentAt(border+tuning.BorderMargin+1, 500), func(v geometry.Vector2D) bool { return v == geometry.Zero }, "zero"},
		{"near left wall", agentAt(border+10, 500), func(v geometry.Vector2D) bool { return v.X > 0 && v.Y == 0 }, "+X"},
		{"near right wall", agentAt(1000-border-10, 500), func(v geometry.Vector2D) bool { return v.X < 0 && v.Y == 0 }, "-X"},
		{"near top wall", agentAt(500, border+10), func(v geometry.Vector2D) bool { return v.Y > 0 && v.X == 0 }, "+Y"},
		{"near bottom wall", agentAt(500, 1000-border-10), func(v geometry.Vector2D) bool { return v.Y < 0 && v.X == 0 }, "-Y"},
		{"corner", agentAt(border+5, border+5), func(v geometry.Vector2D) bool { return v.X > 0 && v.Y > 0 }, "+X+Y"},
		{"inside the band", agentAt(10, 500), func(v geometry.Vector2D) bool { return v.X > tuning.MaxSpeed }, "beyond MaxSpeed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BorderAvoidance(tt.agent, arena, border, tuning)
			if !tt.check(got) {
				t.Errorf("BorderAvoidance(%v) = %v; want %s", tt.agent.Position, got, tt.want)
			}
		})
	}

	t.Run("push grows toward the wall", func(t *testing.T) {
		a := BorderAvoidance(agentAt(border+80, 500), arena, border, tuning).X
		b := BorderAvoidance(agentAt(border+20, 500), arena, border, tuning).X
		c := BorderAvoidance(agentAt(border-20, 500), arena, border, tuning).X
		if !(a < b && b < c) {
			t.Errorf("Expected increasing push, got %v, %v, %v", a, b, c)
		}
	})

	t.Run("outward velocity is countered", func(t *testing.T) {
		still := BorderAvoidance(agentAt(border+20, 500), arena, border, tuning).X
		fleeing := BorderAvoidance(Agent{Position: geometry.Vector2D{X: border + 20, Y: 500}, Velocity: geometry.Vector2D{X: -100}}, arena, border, tuning).X
		if fleeing <= still {
			t.Errorf("Expected outward velocity to add push, got %v <= %v", fleeing, still)
		}
	})
}

func TestPointerRepulsion(t *testing.T) {
	tuning := DefaultTuning()
	me := agentAt(500, 500)

	t.Run("repels inside radius", func(t *testing.T) {
		got := PointerRepulsion(me, geometry.Vector2D{X: 490, Y: 500}, tuning)
		if got.X <= 0 || got.Y != 0 {
			t.Errorf("Expected push along +X, got %v", got)
		}
	})

	t.Run("weaker further away", func(t *testing.T) {
		near := PointerRepulsion(me, geometry.Vector2D{X: 490, Y: 500}, tuning).Len()
		far := PointerRepulsion(me, geometry.Vector2D{X: 400, Y: 500}, tuning).Len()
		if near <= far {
			t.Errorf("Expected %v > %v", near, far)
		}
	})

	t.Run("nothing beyond radius", func(t *testing.T) {
		p := geometry.Vector2D{X: 500 - tuning.PointerRadius, Y: 500}
		if got := PointerRepulsion(me, p, tuning); got != geometry.Zero {
			t.Errorf("Expected zero at the threshold, got %v", got)
		}
	})

	t.Run("pointer on the agent", func(t *testing.T) {
		if got := PointerRepulsion(me, me.Position, tuning); got != geometry.Zero {
			t.Errorf("Expected zero for a degenerate direction, got %v", got)
		}
	})

	t.Run("pointer away", func(t *testing.T) {
		got := PointerRepulsion(me, PointerAway, tuning)
		if got != geometry.Zero {
			t.Errorf("Expected zero, got %v", got)
		}
	})
}

func TestSteer_ClampsToMaxForce(t *testing.T) {
	tuning := DefaultTuning()
	agents := []Agent{agentAt(500, 500), agentAt(500.5, 500)}
	fr := frame{arena: Extent{Width: 1000, Height: 1000}, border: 50, pointer: PointerAway}

	raw := Separation(agents[0], agents, []int{1}, tuning).Mul(tuning.SeparationWeight)
	if raw.Len() <= tuning.MaxForce {
		t.Fatalf("scenario should exceed MaxForce before clamping, got %v", raw.Len())
	}
	got := steer(0, agents, []int{1}, fr, tuning)
	if math.Abs(got.Len()-tuning.MaxForce) > 1e-9 {
		t.Errorf("Expected clamped force of %v, got %v", tuning.MaxForce, got.Len())
	}
	if got.X >= 0 {
		t.Errorf("Clamping must keep the direction, got %v", got)
	}
}
