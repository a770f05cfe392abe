package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lesves/galaxy/internal/config"
	"github.com/lesves/galaxy/internal/engine"
	"github.com/lesves/galaxy/internal/integration"
	"github.com/lesves/galaxy/internal/massdist"
	"github.com/lesves/galaxy/internal/plots"
	"github.com/lesves/galaxy/internal/units"
	"github.com/lesves/galaxy/internal/viz"
)

const defaultConfigFile = "galaxy.yml"

func main() {
	rootCmd := &cobra.Command{
		Use:           "galaxy [config]",
		Short:         "Barnes-Hut galaxy simulator",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runSimulation,
	}

	runCmd := &cobra.Command{
		Use:   "run [config]",
		Short: "run the simulation headless",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}

	liveCmd := &cobra.Command{
		Use:   "live [config]",
		Short: "run the simulation with live terminal visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}

	unitsCmd := &cobra.Command{
		Use:   "units [config]",
		Short: "print the configured simulation units and rescaled G",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showUnits,
	}

	rootCmd.AddCommand(runCmd, liveCmd, unitsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func configPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return defaultConfigFile
}

// setup builds a fully initialized engine: configuration, units,
// integrator, mass distribution, velocity initialization and centroidal
// recentering.
func setup(path string) (*config.Config, units.Units, *engine.Engine, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, units.Units{}, nil, err
	}

	u, err := cfg.Units()
	if err != nil {
		return nil, units.Units{}, nil, err
	}

	integ, err := integration.Get(cfg.Simulation.Integration.Type)
	if err != nil {
		return nil, units.Units{}, nil, err
	}

	eng := engine.New(cfg, u, integ)

	rng := rand.New(rand.NewSource(cfg.Simulation.Seed))
	if err := massdist.Populate(cfg.Simulation.Distribution, eng, rng); err != nil {
		return nil, units.Units{}, nil, err
	}
	eng.Recenter()

	return cfg, u, eng, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, _, eng, err := setup(configPath(args))
	if err != nil {
		return err
	}

	var energy *plots.Energy
	if cfg.Simulation.Plots.Energy.Enable {
		energy = plots.NewEnergy(cfg.Simulation.Plots.Energy.Width, cfg.Simulation.Plots.Energy.Height)
		eng.SetEnergyLog(energy)
	}
	eng.SetVisualizer(viz.Nop{})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	steps := 0
	maxSteps := cfg.Simulation.Steps
loop:
	for maxSteps == 0 || steps < maxSteps {
		select {
		case <-ctx.Done():
			break loop
		default:
		}
		if !eng.Step() {
			break
		}
		steps++
	}

	fmt.Printf("completed %d steps, t=%g, %d bodies\n", steps, eng.Time, len(eng.Bodies))

	if energy != nil && cfg.Simulation.Plots.Energy.CSV != "" {
		if err := energy.WriteCSV(cfg.Simulation.Plots.Energy.CSV); err != nil {
			return err
		}
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, u, eng, err := setup(configPath(args))
	if err != nil {
		return err
	}

	var energy *plots.Energy
	if cfg.Simulation.Plots.Energy.Enable {
		energy = plots.NewEnergy(cfg.Simulation.Plots.Energy.Width, cfg.Simulation.Plots.Energy.Height)
	}

	m := viz.NewModel(eng, energy,
		u.Unit(units.Time),
		cfg.Simulation.Visualization.ShowTree,
		cfg.Simulation.Visualization.Fps,
		cfg.Simulation.Steps,
	)
	if err := viz.Run(m); err != nil {
		return err
	}

	if energy != nil && cfg.Simulation.Plots.Energy.CSV != "" {
		return energy.WriteCSV(cfg.Simulation.Plots.Energy.CSV)
	}
	return nil
}

func showUnits(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath(args))
	if err != nil {
		return err
	}
	u, err := cfg.Units()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "QUANTITY\tUNIT\tSI VALUE")
	for _, q := range units.Quantities {
		unit := u.Unit(q)
		fmt.Fprintf(w, "%s\t%s\t%g\n", q, unit, unit.SIValue)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nG = %g (simulation units)\n", u.G())
	return nil
}
