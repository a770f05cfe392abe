// Package engine owns the body list and simulation time and advances them
// with Barnes–Hut force evaluation over a per-step orthtree.
package engine

import (
	"fmt"
	"math"

	"github.com/lesves/galaxy/internal/body"
	"github.com/lesves/galaxy/internal/config"
	"github.com/lesves/galaxy/internal/integration"
	"github.com/lesves/galaxy/internal/orthtree"
	"github.com/lesves/galaxy/internal/spatial"
	"github.com/lesves/galaxy/internal/units"
)

// Tree is the force tree: bodies summarized per node by count, position
// sum and total mass.
type Tree = orthtree.Tree[body.Body, body.Summary]

// Node is a force-tree node.
type Node = orthtree.Node[body.Body, body.Summary]

// Visualizer consumes one frame per step and reports whether the user
// asked to stop. Implementations are opaque to the engine.
type Visualizer interface {
	Show(time float64, e *Engine, tree *Tree)
	PollClose() bool
}

// EnergyLog receives the kinetic and potential energy of each step.
type EnergyLog interface {
	Log(kin, pot float64)
	Show()
}

// Engine holds the full simulation state. Bodies are appended by the
// mass-distribution layer during setup and mutated only by Step.
type Engine struct {
	Bodies []body.Body
	Time   float64

	BBox  spatial.Box
	Dim   int
	Dt    float64
	Theta float64
	Eps   float64
	G     float64

	capacity int
	integ    integration.Method
	vis      Visualizer
	energy   EnergyLog
	accept   func(s, d float64)
	workers  int
}

// New builds an engine from the validated configuration. Bodies are added
// afterwards through Append/InitVels (normally by the mass-distribution
// layer), followed by Recenter.
func New(cfg *config.Config, u units.Units, integ integration.Method) *Engine {
	sim := cfg.Simulation
	return &Engine{
		BBox:     cfg.BBox(),
		Dim:      sim.Dim,
		Dt:       sim.Integration.Dt,
		Theta:    sim.Engine.Theta,
		Eps:      sim.Engine.Eps,
		G:        u.G(),
		capacity: sim.Engine.Capacity,
		integ:    integ,
	}
}

// SetVisualizer installs the visualization sink.
func (e *Engine) SetVisualizer(v Visualizer) { e.vis = v }

// SetEnergyLog installs the energy sink.
func (e *Engine) SetEnergyLog(l EnergyLog) { e.energy = l }

// Append adds bodies and returns the index of the first one added.
func (e *Engine) Append(bodies ...body.Body) int {
	from := len(e.Bodies)
	e.Bodies = append(e.Bodies, bodies...)
	return from
}

// BuildTree indexes the current bodies into a fresh tree. The tree is a
// transient per-step structure; no node reference outlives the step.
// Bodies whose position lies outside the root box are left out of the tree
// for this step and therefore feel (and exert) no gravity until they drift
// back in. Non-finite positions are a corrupted-state fatal error.
func (e *Engine) BuildTree() *Tree {
	tree := orthtree.New(orthtree.Policy[body.Body, body.Summary]{
		GetPoint: func(b body.Body) spatial.Point { return b.Pos },
		Fold:     body.Summary.Fold,
		Capacity: e.capacity,
	}, e.BBox)

	for i := range e.Bodies {
		if !e.Bodies[i].Pos.IsFinite() {
			panic(fmt.Sprintf("engine: body %d has non-finite position", i))
		}
		tree.Insert(e.Bodies[i])
	}
	return tree
}

// InitVels assigns initial velocities to bodies[from:] from the
// acceleration field of the current body set. In 2D each body gets the
// tangential circular-orbit speed for the radial pull at its position; in
// 3D bodies start at rest.
func (e *Engine) InitVels(from int) {
	tree := e.BuildTree()
	for i := from; i < len(e.Bodies); i++ {
		acc, _ := e.Eval(&e.Bodies[i], tree.Root())
		e.initVel(&e.Bodies[i], acc)
	}
}

func (e *Engine) initVel(b *body.Body, acc spatial.Vector) {
	if e.Dim != 2 {
		b.Vel = spatial.Zero(e.Dim)
		return
	}

	a := acc.Norm()
	r := b.Pos.Norm()
	if a == 0 || r == 0 {
		b.Vel = spatial.Zero(e.Dim)
		return
	}
	theta := math.Atan2(b.Pos[1], b.Pos[0])

	// Radial pull toward the origin: the projection of -acc onto the unit
	// position vector, clamped at zero for outward-pointing fields.
	ar := -b.Pos.Dot(acc) / r
	if ar < 0 {
		ar = 0
	}

	vt := math.Sqrt(ar * r)
	b.Vel = spatial.Vector{
		vt * math.Cos(theta-math.Pi/2),
		vt * math.Sin(theta-math.Pi/2),
	}
}

// Recenter moves the system into centroidal coordinates: the mass-weighted
// mean position and mean velocity are subtracted from every body.
func (e *Engine) Recenter() {
	if len(e.Bodies) == 0 {
		return
	}

	posMean := spatial.Zero(e.Dim)
	velMean := spatial.Zero(e.Dim)
	totalMass := 0.0
	for i := range e.Bodies {
		b := &e.Bodies[i]
		posMean.AddInPlace(b.Pos.Scale(b.Mass))
		velMean.AddInPlace(b.Vel.Scale(b.Mass))
		totalMass += b.Mass
	}
	posMean.ScaleInPlace(1 / totalMass)
	velMean.ScaleInPlace(1 / totalMass)

	for i := range e.Bodies {
		e.Bodies[i].Pos.SubInPlace(posMean)
		e.Bodies[i].Vel.SubInPlace(velMean)
	}
}

// KineticEnergy returns Σ ½ mᵢ|vᵢ|².
func (e *Engine) KineticEnergy() float64 {
	kin := 0.0
	for i := range e.Bodies {
		kin += 0.5 * e.Bodies[i].Mass * e.Bodies[i].Vel.NormSquared()
	}
	return kin
}

// Step advances the simulation by one timestep: rebuild the tree, evaluate
// acceleration and potential per body against the start-of-step state,
// report to the sinks, then integrate every body and advance time. It
// returns false when the visualization sink asked to stop; the step's
// integration is then skipped.
func (e *Engine) Step() bool {
	tree := e.BuildTree()

	accs, pot := e.Forces(tree)

	if e.energy != nil {
		e.energy.Log(e.KineticEnergy(), pot)
		e.energy.Show()
	}

	if e.vis != nil {
		e.vis.Show(e.Time, e, tree)
		if e.vis.PollClose() {
			return false
		}
	}

	for i := range e.Bodies {
		e.integ.Step(&e.Bodies[i], e.Dt, accs[i])
	}
	e.Time += e.Dt

	return true
}
