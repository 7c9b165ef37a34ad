// Package tui is the live terminal viewer. It owns the only mutable state
// in the program: the display clock and playback preferences. The model
// itself is queried fresh every frame.
package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pulselane/tunnelsim/internal/scene"
	"github.com/pulselane/tunnelsim/internal/timeline"
	"github.com/pulselane/tunnelsim/internal/tunnel"
	"github.com/pulselane/tunnelsim/internal/viz"
)

type model struct {
	sys       *scene.System
	absMin    float64
	speed     float64 // simulated minutes per wall second
	frameRate int
	paused    bool

	width  int
	height int
}

func newModel(sys *scene.System, speed float64, frameRate int) model {
	if frameRate < 1 {
		frameRate = 30
	}
	if speed <= 0 {
		speed = 1
	}
	return model{
		sys:       sys,
		speed:     speed,
		frameRate: frameRate,
		width:     100,
		height:    24,
	}
}

type tickMsg time.Time

func (m model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.frameRate), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Init() tea.Cmd { return m.tick() }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "left":
			m.absMin = timeline.Mod(m.absMin-0.5, tunnel.Period)
		case "right":
			m.absMin = timeline.Mod(m.absMin+0.5, tunnel.Period)
		case "up":
			if m.speed < 32 {
				m.speed *= 2
			}
		case "down":
			if m.speed > 0.125 {
				m.speed /= 2
			}
		case "e":
			m.absMin = m.sys.Config().East.OffsetMin
		case "w":
			m.absMin = m.sys.Config().West.OffsetMin
		case "r":
			m.absMin = 0
			m.paused = false
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if !m.paused {
			step := m.speed / float64(m.frameRate)
			m.absMin = timeline.Mod(m.absMin+step, tunnel.Period)
		}
		return m, m.tick()
	}
	return m, nil
}

func (m model) View() string {
	frame, err := m.sys.At(m.absMin)
	if err != nil {
		return fmt.Sprintf("query failed: %v\n", err)
	}

	cols := m.width - 10
	if cols > 160 {
		cols = 160
	}
	if cols < 20 {
		cols = 20
	}

	status := fmt.Sprintf("%.1fx", m.speed)
	if m.paused {
		status = viz.StatusPaused.Render("paused")
	}

	out := viz.Header.Render("tunnelsim") + "  " +
		viz.Clock.Render(fmt.Sprintf("t=%05.2f min", m.absMin)) + "  " +
		status + "\n\n"
	out += viz.Render(frame, m.sys.Config(), cols)
	out += "\n" + viz.KeyHint.Render("space pause · ←/→ scrub · ↑/↓ speed · e/w jump to pulse · r reset · q quit") + "\n"
	return out
}

// Run starts the player at minute 0 and blocks until the user quits.
func Run(sys *scene.System, speed float64, frameRate int) error {
	p := tea.NewProgram(newModel(sys, speed, frameRate), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
