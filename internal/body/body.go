// Package body defines the simulation particle and the per-node summary
// the force tree keeps for it.
package body

import "github.com/lesves/galaxy/internal/spatial"

// Body is a point mass. Mass is positive; position and velocity are finite
// for the life of the run. Bodies are created by the mass-distribution
// layer and mutated only by the integration step.
type Body struct {
	Pos  spatial.Point
	Vel  spatial.Vector
	Mass float64
}

func New(pos spatial.Point, vel spatial.Vector, mass float64) Body {
	return Body{Pos: pos, Vel: vel, Mass: mass}
}

// Summary accumulates count, position sum and total mass over a set of
// bodies. The zero value is the empty summary.
type Summary struct {
	Count     int
	PosSum    spatial.Vector
	TotalMass float64
}

// Fold returns acc extended by b.
func (acc Summary) Fold(b Body) Summary {
	if acc.PosSum == nil {
		acc.PosSum = spatial.Zero(len(b.Pos))
	} else {
		acc.PosSum = acc.PosSum.Clone()
	}
	acc.PosSum.AddInPlace(b.Pos)
	acc.Count++
	acc.TotalMass += b.Mass
	return acc
}

// CenterOfMass returns PosSum / Count. Call only on non-empty summaries.
func (acc Summary) CenterOfMass() spatial.Point {
	return acc.PosSum.Scale(1 / float64(acc.Count))
}
