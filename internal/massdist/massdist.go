// Package massdist populates an engine with bodies drawn from the
// configured mass distribution. Every distribution appends its bodies,
// lets the engine assign initial velocities to the new range, and then
// applies the configured offset and rotation to that range.
package massdist

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/lesves/galaxy/internal/body"
	"github.com/lesves/galaxy/internal/config"
	"github.com/lesves/galaxy/internal/engine"
	"github.com/lesves/galaxy/internal/spatial"
)

// Distribution appends bodies to the engine per one configuration block.
type Distribution func(cfg config.DistributionConfig, e *engine.Engine, rng *rand.Rand) error

var distributions map[string]Distribution

func init() {
	distributions = map[string]Distribution{
		"test_case_1":               testCase1,
		"simple_exponential":        simpleExponential,
		"simple_exponential_sphere": simpleExponentialSphere,
		"composite":                 composite,
	}
}

// Get resolves a distribution by its configured type name. The sphere
// variant needs three dimensions.
func Get(name string, dim int) (Distribution, error) {
	if name == "simple_exponential_sphere" && dim < 3 {
		return nil, fmt.Errorf("%w: mass distribution %q needs dim 3", config.ErrConfig, name)
	}
	fn, ok := distributions[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown mass distribution %q", config.ErrConfig, name)
	}
	return fn, nil
}

// Populate runs the configured distribution against the engine.
func Populate(cfg config.DistributionConfig, e *engine.Engine, rng *rand.Rand) error {
	dist, err := Get(cfg.Type, e.Dim)
	if err != nil {
		return err
	}
	return dist(cfg, e, rng)
}

// testCase1 places two equal bodies at (±20, 0): the smallest system with
// a nontrivial orbit.
func testCase1(cfg config.DistributionConfig, e *engine.Engine, rng *rand.Rand) error {
	if cfg.TotalMass <= 0 {
		return fmt.Errorf("%w: test_case_1 needs total_mass", config.ErrConfig)
	}

	left := spatial.Zero(e.Dim)
	right := spatial.Zero(e.Dim)
	left[0] = -20
	right[0] = 20

	from := e.Append(
		body.New(left, spatial.Zero(e.Dim), cfg.TotalMass/2),
		body.New(right, spatial.Zero(e.Dim), cfg.TotalMass/2),
	)
	e.InitVels(from)
	transform(cfg, e, from)
	return nil
}

// simpleExponential draws a 2D disk: radius Exp(λ), angle uniform.
func simpleExponential(cfg config.DistributionConfig, e *engine.Engine, rng *rand.Rand) error {
	if err := checkDiskParams(cfg); err != nil {
		return err
	}

	from := len(e.Bodies)
	mass := cfg.TotalMass / float64(cfg.N)
	for i := 0; i < cfg.N; i++ {
		ang := uniformAngle(rng)
		r := rng.ExpFloat64() / cfg.Lambda

		pos := spatial.Zero(e.Dim)
		pos[0] = math.Cos(ang) * r
		pos[1] = math.Sin(ang) * r
		e.Append(body.New(pos, spatial.Zero(e.Dim), mass))
	}

	e.InitVels(from)
	transform(cfg, e, from)
	return nil
}

// simpleExponentialSphere draws a 3D ball: radius Exp(λ), both spherical
// angles uniform.
func simpleExponentialSphere(cfg config.DistributionConfig, e *engine.Engine, rng *rand.Rand) error {
	if err := checkDiskParams(cfg); err != nil {
		return err
	}

	from := len(e.Bodies)
	mass := cfg.TotalMass / float64(cfg.N)
	for i := 0; i < cfg.N; i++ {
		ang1 := uniformAngle(rng)
		ang2 := uniformAngle(rng)
		r := rng.ExpFloat64() / cfg.Lambda

		pos := spatial.Vector{
			math.Sin(ang1) * math.Cos(ang2) * r,
			math.Sin(ang1) * math.Sin(ang2) * r,
			math.Cos(ang1) * r,
		}
		e.Append(body.New(pos, spatial.Zero(e.Dim), mass))
	}

	e.InitVels(from)
	transform(cfg, e, from)
	return nil
}

// composite applies each sub-distribution in order.
func composite(cfg config.DistributionConfig, e *engine.Engine, rng *rand.Rand) error {
	for _, sub := range cfg.Composite {
		if err := Populate(sub, e, rng); err != nil {
			return err
		}
	}
	return nil
}

func checkDiskParams(cfg config.DistributionConfig) error {
	if cfg.N <= 0 {
		return fmt.Errorf("%w: mass distribution %q needs N", config.ErrConfig, cfg.Type)
	}
	if cfg.TotalMass <= 0 {
		return fmt.Errorf("%w: mass distribution %q needs total_mass", config.ErrConfig, cfg.Type)
	}
	if cfg.Lambda <= 0 {
		return fmt.Errorf("%w: mass distribution %q needs lambda", config.ErrConfig, cfg.Type)
	}
	return nil
}

func uniformAngle(rng *rand.Rand) float64 {
	return -math.Pi + 2*math.Pi*rng.Float64()
}
