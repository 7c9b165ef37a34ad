package tunnel

// Phase describes what the shared lane is doing at a relative minute. It is
// a pure function of time against the config thresholds; nothing stores or
// transitions it.
type Phase string

const (
	PhaseNormal     Phase = "normal"
	PhaseBikesEnter Phase = "bikes-enter"
	PhaseClearing   Phase = "clearing"
	PhaseSweep      Phase = "sweep"
	PhasePaceCar    Phase = "pace-car"
)

// PhaseAt maps a relative minute in [0, Period) to its phase.
func (c Config) PhaseAt(relMin float64) Phase {
	switch {
	case relMin < c.PenCloseMin:
		return PhaseBikesEnter
	case relMin < c.SweepStartMin:
		return PhaseClearing
	case relMin < c.PaceStartMin:
		return PhaseSweep
	case relMin < c.PaceEndMin():
		return PhasePaceCar
	default:
		return PhaseNormal
	}
}
