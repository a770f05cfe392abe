package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lesves/galaxy/internal/engine"
	"github.com/lesves/galaxy/internal/plots"
	"github.com/lesves/galaxy/internal/units"
)

const (
	canvasWidth  = 80
	canvasHeight = 22
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	canvasStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(10)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).MarginTop(1)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

// TickMsg drives one simulation step per frame.
type TickMsg time.Time

// sink receives frames from the engine and carries the cooperative quit
// flag back to it. It is shared between the engine and the tea model.
type sink struct {
	frame *Frame
	last  string
	quit  bool
}

func (s *sink) Show(t float64, e *engine.Engine, tree *engine.Tree) {
	s.last = s.frame.Draw(e, tree)
}

func (s *sink) PollClose() bool {
	return s.quit
}

// Model is the live terminal view: it steps the engine once per tick and
// renders the latest frame with an energy strip and run stats.
type Model struct {
	eng      *engine.Engine
	sink     *sink
	energy   *plots.Energy
	timeUnit units.Unit
	fps      int
	maxSteps int
	steps    int
	running  bool
	finished bool
}

// NewModel wires the engine to a live view. energy may be nil when the
// energy plot is disabled; maxSteps 0 runs until stopped.
func NewModel(eng *engine.Engine, energy *plots.Energy, timeUnit units.Unit, showTree bool, fps, maxSteps int) *Model {
	if fps <= 0 {
		fps = 30
	}
	s := &sink{frame: NewFrame(canvasWidth, canvasHeight, showTree)}
	eng.SetVisualizer(s)
	if energy != nil {
		eng.SetEnergyLog(plots.Quiet{Energy: energy})
	}
	return &Model{
		eng:      eng,
		sink:     s,
		energy:   energy,
		timeUnit: timeUnit,
		fps:      fps,
		maxSteps: maxSteps,
		running:  true,
	}
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m *Model) Init() tea.Cmd {
	return m.tick()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.sink.quit = true
			return m, tea.Quit
		case " ":
			m.running = !m.running
		}

	case TickMsg:
		if m.running && !m.finished {
			if !m.eng.Step() {
				m.finished = true
			}
			m.steps++
			if m.maxSteps > 0 && m.steps >= m.maxSteps {
				m.finished = true
			}
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) View() string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render("GALAXY") + "\n")

	status := "RUNNING"
	if m.finished {
		status = "FINISHED"
	} else if !m.running {
		status = "PAUSED"
	}
	sb.WriteString(status + "\n")

	sb.WriteString(canvasStyle.Render(m.sink.last) + "\n")

	if m.energy != nil && m.energy.Len() > 1 {
		sb.WriteString(graphStyle.Render(m.energy.Render()) + "\n")
	}

	sb.WriteString(labelStyle.Render("Time") +
		valueStyle.Render(fmt.Sprintf("%.1f %s", m.eng.Time, m.timeUnit.Symbol)) + "\n")
	sb.WriteString(labelStyle.Render("Bodies") +
		valueStyle.Render(fmt.Sprintf("%d", len(m.eng.Bodies))) + "\n")
	sb.WriteString(labelStyle.Render("Step") +
		valueStyle.Render(fmt.Sprintf("%d (dt=%g)", m.steps, m.eng.Dt)) + "\n")

	sb.WriteString(helpStyle.Render("SP:Pause  Q:Quit"))
	return sb.String()
}

// Run starts the live view and blocks until it exits.
func Run(m *Model) error {
	p := tea.NewProgram(m)
	_, err := p.Run()
	return err
}
