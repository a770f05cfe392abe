// Package units maps the configured distance, time and mass units into SI
// and rescales the gravitational constant into simulation units.
package units

import (
	"fmt"
	"math"
	"strings"
)

// Quantity enumerates the base quantities of the simulation.
type Quantity int

const (
	Dist Quantity = iota
	Time
	Mass
)

var Quantities = [3]Quantity{Dist, Time, Mass}

func (q Quantity) String() string {
	switch q {
	case Dist:
		return "dist"
	case Time:
		return "time"
	case Mass:
		return "mass"
	}
	return "unknown"
}

// Unit is one simulation unit: a symbol (with optional SI prefix), a
// multiplier, and the resulting size of the unit in SI base units.
type Unit struct {
	Symbol  string
	Value   float64
	SIValue float64
}

func (u Unit) String() string {
	return fmt.Sprintf("%g %s", u.Value, u.Symbol)
}

var siPrefixes = []struct {
	prefix   string
	exponent float64
}{
	{"Q", 30}, {"R", 27}, {"Y", 24}, {"Z", 21}, {"E", 18}, {"P", 15},
	{"T", 12}, {"G", 9}, {"M", 6}, {"k", 3}, {"h", 2}, {"da", 1},
	{"d", -1}, {"c", -2}, {"m", -3}, {"μ", -6}, {"n", -9}, {"p", -12},
	{"f", -15}, {"a", -18}, {"z", -21}, {"y", -24}, {"r", -27}, {"q", -30},
}

var baseUnits = []struct {
	symbol string
	si     float64
}{
	{"m", 1},
	{"s", 1},
	{"g", 1e-3},
	{"pc", 30856775810000000},
	{"year", 60 * 60 * 24 * 365},
	{"mass_sun", 1.989e30},
}

func siPrefix(prefix string) (float64, bool) {
	for _, p := range siPrefixes {
		if prefix == p.prefix {
			return p.exponent, true
		}
	}
	return 0, false
}

// toBaseUnits resolves a unit symbol, possibly carrying an SI prefix, into
// its size in SI base units. The base symbol is matched as a suffix, so
// "kpc" is k + pc and "Gyear" is G + year.
func toBaseUnits(symbol string) (float64, bool) {
	for _, base := range baseUnits {
		if !strings.HasSuffix(symbol, base.symbol) {
			continue
		}
		prefix := symbol[:len(symbol)-len(base.symbol)]
		if prefix == "" {
			return base.si, true
		}
		exponent, ok := siPrefix(prefix)
		if !ok {
			return 0, false
		}
		return base.si * math.Pow(10, exponent), true
	}
	return 0, false
}

// Parse builds a Unit from a symbol and a multiplier. A multiplier of 0
// is treated as the default 1.
func Parse(symbol string, value float64) (Unit, error) {
	si, ok := toBaseUnits(symbol)
	if !ok {
		return Unit{}, fmt.Errorf("unrecognized unit %q", symbol)
	}
	if value == 0 {
		value = 1
	}
	return Unit{Symbol: symbol, Value: value, SIValue: si * value}, nil
}

// Units is the closed quantity → unit mapping plus the SI gravitational
// constant it rescales.
type Units struct {
	G0    float64
	units [3]Unit
}

func New(g0 float64, dist, time, mass Unit) Units {
	return Units{G0: g0, units: [3]Unit{dist, time, mass}}
}

func (u Units) Unit(q Quantity) Unit {
	return u.units[q]
}

// BaseUnit returns the size of the unit for q in SI base units.
func (u Units) BaseUnit(q Quantity) float64 {
	return u.units[q].SIValue
}

// G returns the gravitational constant expressed in simulation units:
// G0 · TIME² · MASS / DIST³.
func (u Units) G() float64 {
	dist := u.BaseUnit(Dist)
	time := u.BaseUnit(Time)
	mass := u.BaseUnit(Mass)
	return u.G0 * (time * time) / (dist * dist * dist) * mass
}
