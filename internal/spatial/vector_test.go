package spatial

import (
	"math"
	"testing"
)

func TestVectorArithmetic(t *testing.T) {
	a := Vector{1, 2}
	b := Vector{3, -1}

	sum := a.Add(b)
	if sum[0] != 4 || sum[1] != 1 {
		t.Errorf("unexpected sum %v", sum)
	}

	diff := a.Sub(b)
	if diff[0] != -2 || diff[1] != 3 {
		t.Errorf("unexpected diff %v", diff)
	}

	scaled := a.Scale(2)
	if scaled[0] != 2 || scaled[1] != 4 {
		t.Errorf("unexpected scaled %v", scaled)
	}

	if a[0] != 1 || a[1] != 2 {
		t.Error("operands should not be mutated")
	}
}

func TestVectorInPlace(t *testing.T) {
	v := Vector{1, 1}
	v.AddInPlace(Vector{2, 3})
	if v[0] != 3 || v[1] != 4 {
		t.Errorf("unexpected AddInPlace result %v", v)
	}
	v.SubInPlace(Vector{1, 1})
	if v[0] != 2 || v[1] != 3 {
		t.Errorf("unexpected SubInPlace result %v", v)
	}
	v.ScaleInPlace(2)
	if v[0] != 4 || v[1] != 6 {
		t.Errorf("unexpected ScaleInPlace result %v", v)
	}
}

func TestVectorNorm(t *testing.T) {
	v := Vector{3, 4}
	if v.NormSquared() != 25 {
		t.Errorf("expected 25, got %f", v.NormSquared())
	}
	if v.Norm() != 5 {
		t.Errorf("expected 5, got %f", v.Norm())
	}
	if got := (Vector{1, -2, 2}).Norm(); got != 3 {
		t.Errorf("expected 3, got %f", got)
	}
}

func TestVectorDot(t *testing.T) {
	if got := (Vector{1, 2}).Dot(Vector{3, 4}); got != 11 {
		t.Errorf("expected 11, got %f", got)
	}
}

func TestVectorIsFinite(t *testing.T) {
	if !(Vector{1, 2}).IsFinite() {
		t.Error("finite vector reported non-finite")
	}
	if (Vector{1, math.NaN()}).IsFinite() {
		t.Error("NaN not detected")
	}
	if (Vector{math.Inf(1), 0}).IsFinite() {
		t.Error("Inf not detected")
	}
}

func TestBoxContains(t *testing.T) {
	box := NewBox(Point{0, 0}, Vector{1, 2})

	cases := []struct {
		pt   Point
		want bool
	}{
		{Point{0, 0}, true},
		{Point{1, 2}, true},   // corner: closed test
		{Point{-1, -2}, true}, // opposite corner
		{Point{1.01, 0}, false},
		{Point{0, -2.01}, false},
	}
	for _, c := range cases {
		if got := box.Contains(c.pt); got != c.want {
			t.Errorf("Contains(%v) = %v, want %v", c.pt, got, c.want)
		}
	}
}

func TestBoxIntersects(t *testing.T) {
	a := NewBox(Point{0, 0}, Vector{1, 1})
	b := NewBox(Point{1.5, 0}, Vector{1, 1})
	c := NewBox(Point{3, 0}, Vector{1, 1})

	if !a.Intersects(b) {
		t.Error("overlapping boxes reported disjoint")
	}
	if a.Intersects(c) {
		t.Error("disjoint boxes reported overlapping")
	}
	// Touching edges have disjoint interiors.
	d := NewBox(Point{2, 0}, Vector{1, 1})
	if a.Intersects(d) {
		t.Error("touching boxes reported overlapping")
	}
}

func TestBoxS(t *testing.T) {
	box := NewBox(Point{0, 0, 0}, Vector{1, 3, 2})
	if box.S() != 3 {
		t.Errorf("expected governing radius 3, got %f", box.S())
	}
}

func TestNewCube(t *testing.T) {
	box := NewCube(Point{1, 2, 3}, 0.5)
	for d := 0; d < 3; d++ {
		if box.Extent[d] != 0.5 {
			t.Errorf("axis %d: expected half-extent 0.5, got %f", d, box.Extent[d])
		}
	}
}

func approxEqual(a, b Vector, tol float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}

func TestRotationZ(t *testing.T) {
	got := RotationZ(math.Pi / 2).Apply(Vector{1, 0, 0})
	if !approxEqual(got, Vector{0, 1, 0}, 1e-12) {
		t.Errorf("Rz(90°)·x̂ = %v, want ŷ", got)
	}
}

func TestRotationX(t *testing.T) {
	got := RotationX(math.Pi / 2).Apply(Vector{0, 1, 0})
	if !approxEqual(got, Vector{0, 0, 1}, 1e-12) {
		t.Errorf("Rx(90°)·ŷ = %v, want ẑ", got)
	}
}

func TestRotationY(t *testing.T) {
	got := RotationY(math.Pi / 2).Apply(Vector{0, 0, 1})
	if !approxEqual(got, Vector{1, 0, 0}, 1e-12) {
		t.Errorf("Ry(90°)·ẑ = %v, want x̂", got)
	}
}

func TestEulerOrder(t *testing.T) {
	// Rz·Ry·Rx applied to x̂ with x-rotation only: unchanged.
	got := Euler(math.Pi/2, 0, 0).Apply(Vector{1, 0, 0})
	if !approxEqual(got, Vector{1, 0, 0}, 1e-12) {
		t.Errorf("Euler(x=90°)·x̂ = %v, want x̂", got)
	}

	// x then z: ŷ → ẑ under Rx, ẑ stays under Rz.
	got = Euler(math.Pi/2, 0, math.Pi/2).Apply(Vector{0, 1, 0})
	if !approxEqual(got, Vector{0, 0, 1}, 1e-12) {
		t.Errorf("Euler(x=90°, z=90°)·ŷ = %v, want ẑ", got)
	}
}

func TestRotationPreservesNorm(t *testing.T) {
	m := Euler(0.3, -1.2, 2.5)
	v := Vector{1, 2, 3}
	if math.Abs(m.Apply(v).Norm()-v.Norm()) > 1e-12 {
		t.Error("rotation changed vector length")
	}
}
