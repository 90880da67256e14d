// Package tui renders a live terminal view of a running simulation: the
// kinetic temperature trace, the thermostat configuration and the
// per-boundary forces.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/lbmd/internal/boundary"
	"github.com/san-kum/lbmd/internal/sim"
)

const historyCapacity = 240

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model drives the stepper from the update loop, a frame at a time.
type Model struct {
	stepper    *sim.Stepper
	boundaries *boundary.System
	steps      int
	temps      []float64
	running    bool
	done       bool
	lastTemp   float64
}

func NewModel(stepper *sim.Stepper, boundaries *boundary.System, steps int) Model {
	return Model{
		stepper:    stepper,
		boundaries: boundaries,
		steps:      steps,
		temps:      make([]float64, 0, historyCapacity),
		running:    true,
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		}
	case TickMsg:
		if m.running && !m.done {
			temp, _ := m.stepper.Step()
			m.lastTemp = temp
			m.temps = append(m.temps, temp)
			if len(m.temps) > historyCapacity {
				m.temps = m.temps[1:]
			}
			if m.stepper.StepCount() >= m.steps {
				m.done = true
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("lbmd live"))
	b.WriteString("\n")

	if len(m.temps) > 1 {
		b.WriteString(graphStyle.Render(asciigraph.Plot(m.temps, asciigraph.Height(10), asciigraph.Width(70))))
		b.WriteString("\n")
	}

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(valueStyle.Render(value))
		b.WriteString("\n")
	}
	row("step", fmt.Sprintf("%d / %d", m.stepper.StepCount(), m.steps))
	row("time", fmt.Sprintf("%.3f", m.stepper.Time()))
	row("temperature", fmt.Sprintf("%.4f", m.lastTemp))

	if m.boundaries != nil {
		for i, bd := range m.boundaries.Registry.All() {
			f, err := m.boundaries.Force(bd)
			if err != nil {
				continue
			}
			row(fmt.Sprintf("boundary %d", i+1), fmt.Sprintf("F = (%.3g, %.3g, %.3g)", f[0], f[1], f[2]))
		}
	}

	status := "running"
	if !m.running {
		status = "paused"
	}
	if m.done {
		status = "finished"
	}
	b.WriteString(helpStyle.Render(fmt.Sprintf("[%s]  space pause/resume  q quit", status)))
	return b.String()
}
