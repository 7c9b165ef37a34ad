package viz

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/pulselane/tunnelsim/internal/tunnel"
)

var (
	Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("255"))

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("242"))

	KeyHint = lipgloss.NewStyle().
		Foreground(lipgloss.Color("238")).
		Italic(true)

	Clock = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("86"))

	StatusPaused = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("220"))

	roadStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	greenStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	redStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	carStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	bikeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	sweepStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213"))
	paceStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("45"))
)

// PhaseStyles colors each phase badge in headers and tables.
var PhaseStyles = map[tunnel.Phase]lipgloss.Style{
	tunnel.PhaseNormal:     lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	tunnel.PhaseBikesEnter: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("82")),
	tunnel.PhaseClearing:   lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
	tunnel.PhaseSweep:      lipgloss.NewStyle().Foreground(lipgloss.Color("213")),
	tunnel.PhasePaceCar:    lipgloss.NewStyle().Foreground(lipgloss.Color("45")),
}

// Phase renders a phase name in its badge style.
func Phase(p tunnel.Phase) string {
	if s, ok := PhaseStyles[p]; ok {
		return s.Render(string(p))
	}
	return string(p)
}
