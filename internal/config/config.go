// Package config loads and validates the simulation configuration file.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lesves/galaxy/internal/spatial"
	"github.com/lesves/galaxy/internal/units"
)

// ErrConfig marks configuration-tier failures: missing required keys,
// unknown backend names, unparseable units. They are raised before the
// run loop starts, never from inside it.
var ErrConfig = errors.New("invalid configuration")

const (
	DefaultSeed     = 42
	DefaultCapacity = 1
)

type Config struct {
	Physical   PhysicalConfig   `yaml:"physical"`
	Simulation SimulationConfig `yaml:"simulation"`
}

type PhysicalConfig struct {
	G0 float64 `yaml:"G0"`
}

type SimulationConfig struct {
	Dim           int                `yaml:"dim"`
	Seed          int64              `yaml:"seed"`
	Steps         int                `yaml:"steps"`
	Units         UnitsConfig        `yaml:"units"`
	Size          SizeConfig         `yaml:"size"`
	Integration   IntegrationConfig  `yaml:"integration"`
	Engine        EngineConfig       `yaml:"engine"`
	Distribution  DistributionConfig `yaml:"mass_distribution"`
	Plots         PlotsConfig        `yaml:"plots"`
	Visualization VizConfig          `yaml:"visualization"`
}

type UnitsConfig struct {
	Dist UnitConfig `yaml:"dist"`
	Time UnitConfig `yaml:"time"`
	Mass UnitConfig `yaml:"mass"`
}

type UnitConfig struct {
	Unit string  `yaml:"unit"`
	Val  float64 `yaml:"val"`
}

type SizeConfig struct {
	Extent CoordsConfig `yaml:"extent"`
}

type CoordsConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// Vector returns the coordinates as a dim-component vector.
func (c CoordsConfig) Vector(dim int) spatial.Vector {
	if dim >= 3 {
		return spatial.Vector{c.X, c.Y, c.Z}
	}
	return spatial.Vector{c.X, c.Y}
}

type IntegrationConfig struct {
	Type string  `yaml:"type"`
	Dt   float64 `yaml:"dt"`
}

type EngineConfig struct {
	Theta    float64 `yaml:"theta"`
	Eps      float64 `yaml:"eps"`
	Capacity int     `yaml:"node_capacity"`
}

// DistributionConfig describes one mass distribution. Composite
// distributions nest the same shape recursively.
type DistributionConfig struct {
	Type      string               `yaml:"type"`
	N         int                  `yaml:"N"`
	TotalMass float64              `yaml:"total_mass"`
	Lambda    float64              `yaml:"lambda"`
	Offset    CoordsConfig         `yaml:"offset"`
	Rotation  CoordsConfig         `yaml:"rotation"`
	Composite []DistributionConfig `yaml:"composite"`
}

type PlotsConfig struct {
	Energy EnergyPlotConfig `yaml:"energy"`
}

type EnergyPlotConfig struct {
	Enable bool   `yaml:"enable"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	CSV    string `yaml:"csv"`
}

type VizConfig struct {
	Enable   bool `yaml:"enable"`
	ShowTree bool `yaml:"show_tree"`
	Fps      int  `yaml:"fps"`
}

func DefaultConfig() *Config {
	return &Config{
		Simulation: SimulationConfig{
			Dim:  2,
			Seed: DefaultSeed,
			Engine: EngineConfig{
				Capacity: DefaultCapacity,
			},
			Plots: PlotsConfig{
				Energy: EnergyPlotConfig{Width: 80, Height: 10},
			},
			Visualization: VizConfig{Fps: 30},
		},
	}
}

// Load reads, parses and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func missing(key string) error {
	return fmt.Errorf("%w: required key %q not found", ErrConfig, key)
}

func (c *Config) Validate() error {
	if c.Physical.G0 == 0 {
		return missing("physical.G0")
	}
	sim := &c.Simulation
	if sim.Dim != 2 && sim.Dim != 3 {
		return fmt.Errorf("%w: simulation.dim must be 2 or 3, got %d", ErrConfig, sim.Dim)
	}
	for key, unit := range map[string]UnitConfig{
		"simulation.units.dist": sim.Units.Dist,
		"simulation.units.time": sim.Units.Time,
		"simulation.units.mass": sim.Units.Mass,
	} {
		if unit.Unit == "" {
			return missing(key + ".unit")
		}
	}
	if sim.Size.Extent.X <= 0 || sim.Size.Extent.Y <= 0 {
		return missing("simulation.size.extent")
	}
	if sim.Dim == 3 && sim.Size.Extent.Z <= 0 {
		return missing("simulation.size.extent.z")
	}
	if sim.Integration.Type == "" {
		return missing("simulation.integration.type")
	}
	if sim.Integration.Dt <= 0 {
		return fmt.Errorf("%w: simulation.integration.dt must be positive", ErrConfig)
	}
	if sim.Engine.Theta < 0 {
		return fmt.Errorf("%w: simulation.engine.theta must be non-negative", ErrConfig)
	}
	if sim.Engine.Eps <= 0 {
		return fmt.Errorf("%w: simulation.engine.eps must be positive", ErrConfig)
	}
	if sim.Distribution.Type == "" {
		return missing("simulation.mass_distribution.type")
	}
	return nil
}

// Units resolves the configured unit symbols into a units.Units table.
func (c *Config) Units() (units.Units, error) {
	parse := func(q units.Quantity, uc UnitConfig) (units.Unit, error) {
		u, err := units.Parse(uc.Unit, uc.Val)
		if err != nil {
			return units.Unit{}, fmt.Errorf("%w: %s unit: %w", ErrConfig, q, err)
		}
		return u, nil
	}

	dist, err := parse(units.Dist, c.Simulation.Units.Dist)
	if err != nil {
		return units.Units{}, err
	}
	time, err := parse(units.Time, c.Simulation.Units.Time)
	if err != nil {
		return units.Units{}, err
	}
	mass, err := parse(units.Mass, c.Simulation.Units.Mass)
	if err != nil {
		return units.Units{}, err
	}
	return units.New(c.Physical.G0, dist, time, mass), nil
}

// BBox returns the root bounding box centered at the origin with the
// configured half-extents.
func (c *Config) BBox() spatial.Box {
	dim := c.Simulation.Dim
	return spatial.NewBox(spatial.Zero(dim), c.Simulation.Size.Extent.Vector(dim))
}
