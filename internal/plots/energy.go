// Package plots collects per-step energy diagnostics and renders them as
// terminal charts.
package plots

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/guptarohit/asciigraph"
)

// Energy logs kinetic and potential energy per step and plots the total.
type Energy struct {
	width  int
	height int

	kin []float64
	pot []float64
}

func NewEnergy(width, height int) *Energy {
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 10
	}
	return &Energy{width: width, height: height}
}

// Log records one step's kinetic and potential energy.
func (p *Energy) Log(kin, pot float64) {
	p.kin = append(p.kin, kin)
	p.pot = append(p.pot, pot)
}

func (p *Energy) Len() int {
	return len(p.kin)
}

// Total returns kin+pot at sample idx.
func (p *Energy) Total(idx int) float64 {
	return p.kin[idx] + p.pot[idx]
}

// Series returns the total-energy series.
func (p *Energy) Series() []float64 {
	series := make([]float64, len(p.kin))
	for i := range series {
		series[i] = p.Total(i)
	}
	return series
}

// Render draws the most recent window of the total-energy series.
func (p *Energy) Render() string {
	if p.Len() < 2 {
		return ""
	}
	series := p.Series()
	if len(series) > p.width {
		series = series[len(series)-p.width:]
	}
	return asciigraph.Plot(series,
		asciigraph.Height(p.height),
		asciigraph.Width(p.width),
		asciigraph.Caption("total energy"),
	)
}

// Show redraws the chart in place on stdout.
func (p *Energy) Show() {
	chart := p.Render()
	if chart == "" {
		return
	}
	fmt.Print("\033[H\033[2J")
	fmt.Println(chart)
}

// Quiet wraps an Energy sink so that logging still accumulates but Show
// draws nothing; the live view renders the chart itself.
type Quiet struct{ *Energy }

func (Quiet) Show() {}

// WriteCSV dumps the full (kinetic, potential, total) series.
func (p *Energy) WriteCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"step", "kinetic", "potential", "total"}); err != nil {
		return err
	}
	for i := range p.kin {
		row := []string{
			strconv.Itoa(i),
			strconv.FormatFloat(p.kin[i], 'g', -1, 64),
			strconv.FormatFloat(p.pot[i], 'g', -1, 64),
			strconv.FormatFloat(p.Total(i), 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	if err := w.Error(); err != nil {
		return err
	}
	return f.Sync()
}
