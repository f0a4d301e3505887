package geometry

import (
	"errors"
	"math"
	"testing"
)

func floatEquals(a, b float64) bool {
	return math.Abs(a-b) <= Epsilon
}

func TestNewVectorPolar(t *testing.T) {
	tests := []struct {
		name   string
		radius float64
		theta  float64
		want   Vector2D
	}{
		{"Zero radius", 0, 0, Vector2D{0, 0}},
		{"X axis", 10, 0, Vector2D{10, 0}},
		{"Y axis", 10, math.Pi / 2, Vector2D{0, 10}},
		{"Negative X", 10, math.Pi, Vector2D{-10, 0}},
		{"45 degrees", math.Sqrt(2), math.Pi / 4, Vector2D{1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewVectorPolar(tt.radius, tt.theta)
			if !got.Eq(tt.want) {
				t.Errorf("NewVectorPolar(%v, %v) = %v; want %v", tt.radius, tt.theta, got, tt.want)
			}
		})
	}
}

func TestVector_String(t *testing.T) {
	v := Vector2D{1.234, 5.678}
	if got := v.String(); got != "(1.23, 5.68)" {
		t.Errorf("Vector2D.String() = %q; want %q", got, "(1.23, 5.68)")
	}
}

func TestVector_Arithmetic(t *testing.T) {
	v1 := Vector2D{1, 2}
	v2 := Vector2D{3, 4}

	t.Run("Add", func(t *testing.T) {
		if got := v1.Add(v2); !got.Eq(Vector2D{4, 6}) {
			t.Errorf("%v.Add(%v) = %v; want (4, 6)", v1, v2, got)
		}
	})

	t.Run("Sub", func(t *testing.T) {
		if got := v1.Sub(v2); !got.Eq(Vector2D{-2, -2}) {
			t.Errorf("%v.Sub(%v) = %v; want (-2, -2)", v1, v2, got)
		}
	})

	t.Run("Mul", func(t *testing.T) {
		if got := v1.Mul(2); !got.Eq(Vector2D{2, 4}) {
			t.Errorf("%v.Mul(2) = %v; want (2, 4)", v1, got)
		}
	})

	t.Run("Div", func(t *testing.T) {
		got, err := v1.Div(2)
		if err != nil {
			t.Fatalf("%v.Div(2) returned error %v", v1, err)
		}
		if !got.Eq(Vector2D{0.5, 1}) {
			t.Errorf("%v.Div(2) = %v; want (0.50, 1.00)", v1, got)
		}
	})

	t.Run("DivByZero", func(t *testing.T) {
		got, err := v1.Div(0)
		if !errors.Is(err, ErrDivideByZero) {
			t.Errorf("%v.Div(0) error = %v; want ErrDivideByZero", v1, err)
		}
		if !got.IsFinite() {
			t.Errorf("Div(0) should leave a finite vector, got %v", got)
		}
	})
}

func TestVector_Products(t *testing.T) {
	x := Vector2D{1, 0}
	y := Vector2D{0, 1}

	if got := x.Dot(y); got != 0 {
		t.Errorf("Dot orthogonal = %v; want 0", got)
	}
	if got := x.Dot(Vector2D{2, 0}); got != 2 {
		t.Errorf("Dot parallel = %v; want 2", got)
	}
	if got := x.Cross(y); got != 1 {
		t.Errorf("Cross X,Y = %v; want 1", got)
	}
}

func TestVector_Magnitude(t *testing.T) {
	v := Vector2D{3, 4}

	if got := v.Len(); got != 5 {
		t.Errorf("Len = %v; want 5", got)
	}
	if got := v.LenSqr(); got != 25 {
		t.Errorf("LenSqr = %v; want 25", got)
	}

	got := v.Normalize()
	if !got.Eq(Vector2D{0.6, 0.8}) {
		t.Errorf("Normalize = %v; want (0.60, 0.80)", got)
	}
	if !floatEquals(got.Len(), 1.0) {
		t.Errorf("Normalize length = %v; want 1", got.Len())
	}
}

func TestVector_UnitDegenerate(t *testing.T) {
	tests := []struct {
		name string
		v    Vector2D
	}{
		{"zero", Vector2D{0, 0}},
		{"below epsilon", Vector2D{Epsilon / 10, 0}},
		{"infinite", Vector2D{math.Inf(1), 0}},
		{"nan", Vector2D{math.NaN(), 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := tt.v.Unit()
			if !errors.Is(err, ErrZeroVector) {
				t.Errorf("%v.Unit() error = %v; want ErrZeroVector", tt.v, err)
			}
			if u != Zero {
				t.Errorf("%v.Unit() = %v; want zero vector", tt.v, u)
			}
			if n := tt.v.Normalize(); n != Zero {
				t.Errorf("%v.Normalize() = %v; want zero vector", tt.v, n)
			}
		})
	}
}

func TestVector_ClampLength(t *testing.T) {
	tests := []struct {
		name string
		v    Vector2D
		max  float64
		want Vector2D
	}{
		{"below max untouched", Vector2D{3, 4}, 10, Vector2D{3, 4}},
		{"exactly max untouched", Vector2D{3, 4}, 5, Vector2D{3, 4}},
		{"scaled down", Vector2D{30, 40}, 5, Vector2D{3, 4}},
		{"zero vector", Vector2D{0, 0}, 5, Vector2D{0, 0}},
		{"non positive max", Vector2D{1, 1}, 0, Vector2D{0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.v.ClampLength(tt.max)
			if !got.Eq(tt.want) {
				t.Errorf("%v.ClampLength(%v) = %v; want %v", tt.v, tt.max, got, tt.want)
			}
			if tt.max > 0 && got.Len() > tt.max {
				t.Errorf("%v.ClampLength(%v) has length %v above max", tt.v, tt.max, got.Len())
			}
		})
	}
}

func TestVector_ClampLengthNeverExceedsMax(t *testing.T) {
	for i := 1; i < 2000; i++ {
		v := NewVectorPolar(float64(i)*13.7, float64(i)*0.37)
		max := float64(i%97) + 0.1
		if got := v.ClampLength(max); got.Len() > max {
			t.Fatalf("%v.ClampLength(%v) length %v", v, max, got.Len())
		}
	}
}

func TestVector_Distance(t *testing.T) {
	v1 := Vector2D{1, 1}
	v2 := Vector2D{4, 5}

	if got := v1.DistanceTo(v2); got != 5 {
		t.Errorf("DistanceTo = %v; want 5", got)
	}
	if got := v1.DistanceSquaredTo(v2); got != 25 {
		t.Errorf("DistanceSquaredTo = %v; want 25", got)
	}
}

func TestVector_Angles(t *testing.T) {
	tests := []struct {
		v    Vector2D
		want float64
	}{
		{Vector2D{1, 0}, 0},
		{Vector2D{0, 1}, math.Pi / 2},
		{Vector2D{-1, 0}, math.Pi},
		{Vector2D{0, -1}, -math.Pi / 2},
	}
	for _, tt := range tests {
		if got := tt.v.Angle(); !floatEquals(got, tt.want) {
			t.Errorf("%v.Angle() = %v; want %v", tt.v, got, tt.want)
		}
	}

	if got := (Vector2D{1, 1}).AngleTo(Vector2D{1, 2}); !floatEquals(got, math.Pi/2) {
		t.Errorf("AngleTo = %v; want %v", got, math.Pi/2)
	}
}

func TestVector_Transformations(t *testing.T) {
	if got := (Vector2D{1, 0}).Rotate(math.Pi / 2); !got.Eq(Vector2D{0, 1}) {
		t.Errorf("Rotate(90) = %v; want (0, 1)", got)
	}
	if got := (Vector2D{0, 0}).Lerp(Vector2D{10, 10}, 0.5); !got.Eq(Vector2D{5, 5}) {
		t.Errorf("Lerp(0.5) = %v; want (5, 5)", got)
	}
	if got := (Vector2D{3, 3}).Project(Vector2D{5, 0}); !got.Eq(Vector2D{3, 0}) {
		t.Errorf("Project = %v; want (3, 0)", got)
	}
	if got := (Vector2D{3, 3}).Project(Zero); got != Zero {
		t.Errorf("Project onto zero = %v; want zero vector", got)
	}
}

func TestVector_Eq(t *testing.T) {
	v := Vector2D{1, 2}
	if !v.Eq(Vector2D{1 + Epsilon/2, 2 - Epsilon/2}) {
		t.Error("Eq epsilon match failed")
	}
	if v.Eq(Vector2D{1.1, 2}) {
		t.Error("Eq mismatch failed")
	}
}
