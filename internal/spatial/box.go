package spatial

import "math"

// Box is an axis-aligned box given by its center and per-axis half-extents.
// Half-extents are non-negative.
type Box struct {
	Center Point
	Extent Vector
}

// NewBox builds a box from a center and half-extent vector.
func NewBox(center Point, extent Vector) Box {
	return Box{Center: center, Extent: extent}
}

// NewCube builds a box with the same half-extent on every axis.
func NewCube(center Point, ext float64) Box {
	extent := make(Vector, len(center))
	for i := range extent {
		extent[i] = ext
	}
	return Box{Center: center, Extent: extent}
}

func (b Box) Dim() int {
	return len(b.Center)
}

// Contains reports whether pt lies inside the box. The test is closed on
// every axis, so boundary points are contained.
func (b Box) Contains(pt Point) bool {
	for d := range b.Center {
		if b.Center[d]-b.Extent[d] > pt[d] || b.Center[d]+b.Extent[d] < pt[d] {
			return false
		}
	}
	return true
}

// Intersects reports whether the interiors of b and other overlap.
func (b Box) Intersects(other Box) bool {
	for d := range b.Center {
		if math.Abs(b.Center[d]-other.Center[d]) >= b.Extent[d]+other.Extent[d] {
			return false
		}
	}
	return true
}

// S returns the largest half-extent, the governing radius for the
// opening-angle criterion.
func (b Box) S() float64 {
	s := b.Extent[0]
	for _, e := range b.Extent[1:] {
		if e > s {
			s = e
		}
	}
	return s
}
