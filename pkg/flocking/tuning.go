package flocking

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidTuning is wrapped by every Tuning validation failure.
var ErrInvalidTuning = errors.New("flocking: invalid tuning")

// Tuning holds the simulation-wide constants. Weights are gains applied to the raw rule outputs,
// the weighted sum is an acceleration in scene units per second squared.
type Tuning struct {
	PerceptionRadius float64 `json:"perceptionRadius" toml:"perceptionRadius"` // neighbor radius
	SeparationRadius float64 `json:"separationRadius" toml:"separationRadius"` // too-close distance

	SeparationWeight float64 `json:"separationWeight" toml:"separationWeight"`
	AlignmentWeight  float64 `json:"alignmentWeight" toml:"alignmentWeight"`
	CohesionWeight   float64 `json:"cohesionWeight" toml:"cohesionWeight"`
	BorderWeight     float64 `json:"borderWeight" toml:"borderWeight"`
	PointerWeight    float64 `json:"pointerWeight" toml:"pointerWeight"`

	BorderMargin  float64 `json:"borderMargin" toml:"borderMargin"`   // steering starts this far from the inner wall
	PointerRadius float64 `json:"pointerRadius" toml:"pointerRadius"` // repulsion threshold

	MaxSpeed float64 `json:"maxSpeed" toml:"maxSpeed"`
	MinSpeed float64 `json:"minSpeed" toml:"minSpeed"` // 0 disables
	MaxForce float64 `json:"maxForce" toml:"maxForce"`
}

// DefaultTuning is sized for a 1000x1000 arena with a 50 unit border.
func DefaultTuning() Tuning {
	return Tuning{
		PerceptionRadius: 60,
		SeparationRadius: 20,
		SeparationWeight: 3.0,
		AlignmentWeight:  1.0,
		CohesionWeight:   1.0,
		BorderWeight:     8.0,
		PointerWeight:    6.0,
		BorderMargin:     100,
		PointerRadius:    150,
		MaxSpeed:         200,
		MinSpeed:         0,
		MaxForce:         400,
	}
}

// Validate checks every field and reports the first problem found.
func (t Tuning) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"perceptionRadius", t.PerceptionRadius},
		{"separationRadius", t.SeparationRadius},
		{"borderMargin", t.BorderMargin},
		{"pointerRadius", t.PointerRadius},
		{"maxSpeed", t.MaxSpeed},
		{"maxForce", t.MaxForce},
	}
	for _, p := range positive {
		if !(p.value > 0) || math.IsInf(p.value, 0) {
			return fmt.Errorf("%w: %s must be positive and finite, got %v", ErrInvalidTuning, p.name, p.value)
		}
	}

	weights := []struct {
		name  string
		value float64
	}{
		{"separationWeight", t.SeparationWeight},
		{"alignmentWeight", t.AlignmentWeight},
		{"cohesionWeight", t.CohesionWeight},
		{"borderWeight", t.BorderWeight},
		{"pointerWeight", t.PointerWeight},
		{"minSpeed", t.MinSpeed},
	}
	for _, w := range weights {
		if !(w.value >= 0) || math.IsInf(w.value, 0) {
			return fmt.Errorf("%w: %s must be zero or positive, got %v", ErrInvalidTuning, w.name, w.value)
		}
	}

	if t.SeparationRadius > t.PerceptionRadius {
		return fmt.Errorf("%w: separationRadius %v exceeds perceptionRadius %v",
			ErrInvalidTuning, t.SeparationRadius, t.PerceptionRadius)
	}
	if t.MinSpeed > t.MaxSpeed {
		return fmt.Errorf("%w: minSpeed %v exceeds maxSpeed %v", ErrInvalidTuning, t.MinSpeed, t.MaxSpeed)
	}
	return nil
}
