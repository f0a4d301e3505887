// Package geometry holds the 2D vector vocabulary shared by the flock, its rules and the renderers.
package geometry

import (
	"errors"
	"fmt"
	"math"
)

// Epsilon is the tolerance used for float comparisons and degenerate lengths.
const Epsilon = 1e-9

var (
	// ErrZeroVector is returned when a direction is requested from a vector of (near) zero length.
	ErrZeroVector = errors.New("geometry: zero-length vector has no direction")
	// ErrDivideByZero is returned by Div for a zero divisor.
	ErrDivideByZero = errors.New("geometry: vector cannot be divided by zero")
)

// Vector2D is a point or a displacement in scene space.
type Vector2D struct {
	X float64 `json:"x" toml:"x"`
	Y float64 `json:"y" toml:"y"`
}

// Zero is the null vector.
var Zero = Vector2D{}

// NewVector creates a new Vector2D.
func NewVector(x, y float64) Vector2D {
	return Vector2D{X: x, Y: y}
}

// NewVectorPolar creates a vector of the given length pointing at theta radians.
func NewVectorPolar(radius, theta float64) Vector2D {
	x := radius * math.Cos(theta)
	y := radius * math.Sin(theta)
	if math.Abs(x) < Epsilon {
		x = 0
	}
	if math.Abs(y) < Epsilon {
		y = 0
	}
	return Vector2D{X: x, Y: y}
}

func (v Vector2D) String() string {
	return fmt.Sprintf("(%.2f, %.2f)", v.X, v.Y)
}

// Add returns v + other.
func (v Vector2D) Add(other Vector2D) Vector2D {
	return Vector2D{v.X + other.X, v.Y + other.Y}
}

// Sub returns v - other.
func (v Vector2D) Sub(other Vector2D) Vector2D {
	return Vector2D{v.X - other.X, v.Y - other.Y}
}

// Mul scales the vector by a scalar value.
func (v Vector2D) Mul(scalar float64) Vector2D {
	return Vector2D{v.X * scalar, v.Y * scalar}
}

// Div scales the vector by 1/scalar. A zero scalar leaves v untouched and reports ErrDivideByZero.
func (v Vector2D) Div(scalar float64) (Vector2D, error) {
	if scalar == 0 {
		return v, ErrDivideByZero
	}
	return Vector2D{v.X / scalar, v.Y / scalar}, nil
}

// Dot calculates the dot product of two vectors.
func (v Vector2D) Dot(other Vector2D) float64 {
	return v.X*other.X + v.Y*other.Y
}

// Cross is the z component of the 3D cross product.
func (v Vector2D) Cross(other Vector2D) float64 {
	return v.X*other.Y - v.Y*other.X
}

// LenSqr is the squared magnitude, use it for comparisons.
func (v Vector2D) LenSqr() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Len is the Euclidean norm.
func (v Vector2D) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Unit returns the unit vector along v, or ErrZeroVector when v has no direction.
func (v Vector2D) Unit() (Vector2D, error) {
	l := v.Len()
	if l < Epsilon || math.IsInf(l, 0) || math.IsNaN(l) {
		return Zero, ErrZeroVector
	}
	return Vector2D{v.X / l, v.Y / l}, nil
}

// Normalize is Unit without the error: a degenerate vector normalizes to Zero.
func (v Vector2D) Normalize() Vector2D {
	u, err := v.Unit()
	if err != nil {
		return Zero
	}
	return u
}

// ClampLength returns v scaled down so that its length does not exceed max. Direction is kept.
// A non-positive max yields Zero.
func (v Vector2D) ClampLength(max float64) Vector2D {
	if max <= 0 {
		return Zero
	}
	lsq := v.LenSqr()
	if lsq <= max*max {
		return v
	}
	u, err := v.Unit()
	if err != nil {
		return Zero
	}
	c := u.Mul(max)
	// rounding can leave the product one ulp above max
	for c.Len() > max {
		c = c.Mul(1 - 1e-15)
	}
	return c
}

// DistanceTo calculates the Euclidean distance to another vector.
func (v Vector2D) DistanceTo(other Vector2D) float64 {
	return v.Sub(other).Len()
}

// DistanceSquaredTo calculates the squared Euclidean distance to another vector.
func (v Vector2D) DistanceSquaredTo(other Vector2D) float64 {
	return v.Sub(other).LenSqr()
}

// Angle of the vector relative to the X axis, in [-Pi, Pi].
func (v Vector2D) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// AngleTo is the angle of the segment going from v to other.
func (v Vector2D) AngleTo(other Vector2D) float64 {
	return math.Atan2(other.Y-v.Y, other.X-v.X)
}

// Rotate rotates the vector by angle radians around the origin.
func (v Vector2D) Rotate(angle float64) Vector2D {
	cosTheta := math.Cos(angle)
	sinTheta := math.Sin(angle)
	return Vector2D{
		X: v.X*cosTheta - v.Y*sinTheta,
		Y: v.X*sinTheta + v.Y*cosTheta,
	}
}

// Lerp interpolates between v and target, t in [0, 1].
func (v Vector2D) Lerp(target Vector2D, t float64) Vector2D {
	return v.Add(target.Sub(v).Mul(t))
}

// Project projects v onto on. Projecting onto Zero gives Zero.
func (v Vector2D) Project(on Vector2D) Vector2D {
	lsq := on.LenSqr()
	if lsq == 0 {
		return Zero
	}
	return on.Mul(v.Dot(on) / lsq)
}

// IsFinite reports whether both components are neither NaN nor infinite.
func (v Vector2D) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// Eq checks approximate equality within Epsilon.
func (v Vector2D) Eq(other Vector2D) bool {
	return math.Abs(v.X-other.X) <= Epsilon && math.Abs(v.Y-other.Y) <= Epsilon
}
