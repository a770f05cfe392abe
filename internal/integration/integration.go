// Package integration advances body state by one timestep. Methods are
// looked up by the name configured under simulation.integration.type.
package integration

import (
	"fmt"

	"github.com/lesves/galaxy/internal/body"
	"github.com/lesves/galaxy/internal/config"
	"github.com/lesves/galaxy/internal/spatial"
)

// Method advances a body in place given its acceleration for this step.
type Method interface {
	Step(b *body.Body, dt float64, acc spatial.Vector)
}

// Euler is the semi-implicit Euler update: the velocity kick lands before
// the position drift.
type Euler struct{}

func (Euler) Step(b *body.Body, dt float64, acc spatial.Vector) {
	for i := range b.Vel {
		b.Vel[i] += acc[i] * dt
		b.Pos[i] += b.Vel[i] * dt
	}
}

// Leapfrog is the half-kick variant: kick the velocity by dt/2, drift the
// position by dt/2 with the kicked velocity, and keep the kicked velocity.
type Leapfrog struct{}

func (Leapfrog) Step(b *body.Body, dt float64, acc spatial.Vector) {
	for i := range b.Vel {
		next := b.Vel[i] + acc[i]*dt*0.5
		b.Pos[i] += next * dt * 0.5
		b.Vel[i] = next
	}
}

var methods = map[string]func() Method{
	"euler":    func() Method { return Euler{} },
	"leapfrog": func() Method { return Leapfrog{} },
}

// Get resolves a method by name.
func Get(name string) (Method, error) {
	fn, ok := methods[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown integration method %q", config.ErrConfig, name)
	}
	return fn(), nil
}
