package engine

import (
	"math"

	"github.com/lesves/galaxy/internal/body"
	"github.com/lesves/galaxy/internal/spatial"
)

// Eval walks the tree for one body and returns its acceleration and its
// contribution to the total potential energy.
//
// A node whose box satisfies s < θ·d (strictly; d measured to the node's
// center of mass) is treated as a single pseudo-particle. Otherwise leaves
// interact pairwise and internal nodes are recursed. The querying body
// meets itself in its own leaf: the softened self-term is exactly zero
// acceleration and a constant -G·m²/(2ε) potential offset.
func (e *Engine) Eval(b *body.Body, n *Node) (spatial.Vector, float64) {
	acc := spatial.Zero(e.Dim)
	pot := e.evalNode(b, n, acc)
	return acc, pot
}

func (e *Engine) evalNode(b *body.Body, n *Node, acc spatial.Vector) float64 {
	if n.Accum.Count == 0 {
		return 0
	}

	com := n.Accum.CenterOfMass()
	d := b.Pos.Sub(com).Norm()
	s := n.BBox().S()

	if s < e.Theta*d {
		if e.accept != nil {
			e.accept(s, d)
		}
		return e.interact(b, com, n.Accum.TotalMass, acc)
	}

	if n.IsLeaf() {
		pot := 0.0
		for _, other := range n.Items() {
			pot += e.interact(b, other.Pos, other.Mass, acc)
		}
		return pot
	}

	pot := 0.0
	for _, child := range n.Children() {
		pot += e.evalNode(b, child, acc)
	}
	return pot
}

// interact accumulates the softened pair force from a point mass at
// otherPos into acc and returns the pair's potential contribution. The ½
// factor compensates for double counting when contributions are summed
// over all bodies.
func (e *Engine) interact(b *body.Body, otherPos spatial.Point, otherMass float64, acc spatial.Vector) float64 {
	distSq := 0.0
	for i := range b.Pos {
		diff := b.Pos[i] - otherPos[i]
		distSq += diff * diff
	}
	smoothed := math.Sqrt(distSq + e.Eps*e.Eps)

	scale := -e.G * otherMass / (smoothed * smoothed * smoothed)
	for i := range acc {
		acc[i] += scale * (b.Pos[i] - otherPos[i])
	}

	return -e.G * b.Mass * otherMass / smoothed / 2
}
