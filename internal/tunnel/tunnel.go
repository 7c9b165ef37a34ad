package tunnel

import (
	"fmt"

	"github.com/pulselane/tunnelsim/internal/timeline"
)

// Tunnel is one directional bore: its phase clock, lane geometry and the
// full car and bike schedules, all derived once at construction. Every
// query afterwards is a pure read.
type Tunnel struct {
	cfg   Config
	cars  []*Car
	bikes []*Bike
}

func New(cfg Config) (*Tunnel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cars, err := buildCars(cfg)
	if err != nil {
		return nil, fmt.Errorf("%s tunnel: %w", cfg.Direction, err)
	}
	bikes, err := buildBikes(cfg)
	if err != nil {
		return nil, fmt.Errorf("%s tunnel: %w", cfg.Direction, err)
	}
	return &Tunnel{cfg: cfg, cars: cars, bikes: bikes}, nil
}

func (t *Tunnel) Config() Config { return t.cfg }

// RelMins converts an absolute minute to this bore's cycle-relative minute
// in [0, Period).
func (t *Tunnel) RelMins(absMin float64) float64 {
	return timeline.Mod(absMin-t.cfg.OffsetMin, Period)
}

// PhaseAt returns the phase for an absolute minute.
func (t *Tunnel) PhaseAt(absMin float64) Phase {
	return t.cfg.PhaseAt(t.RelMins(absMin))
}

// Zones returns the shared lane's color overlay for an absolute minute, or
// nil when no overlay is active.
func (t *Tunnel) Zones(absMin float64) *ZoneSpan {
	return t.cfg.ZonesAt(t.RelMins(absMin))
}

// Vehicles returns every car and bike visible at the absolute minute.
// Vehicles that are fully faded out are omitted rather than reported with
// zero opacity; partially faded vehicles inside the fade windows are kept
// so consumers can animate appearance and disappearance continuously.
func (t *Tunnel) Vehicles(absMin float64) []Snapshot {
	rel := t.RelMins(absMin)
	out := make([]Snapshot, 0, len(t.cars)+len(t.bikes))
	for _, c := range t.cars {
		p := c.At(rel)
		if p.Opacity <= visibleFloor {
			continue
		}
		out = append(out, Snapshot{ID: c.ID, Type: TypeCar, Lane: c.Lane, Pos: p})
	}
	for _, b := range t.bikes {
		p := b.At(rel)
		if p.Opacity <= visibleFloor {
			continue
		}
		out = append(out, Snapshot{ID: b.ID, Type: TypeBike, Lane: LaneShared, Pos: p})
	}
	return out
}

// Cars exposes the derived car schedule for inspection and tests.
func (t *Tunnel) Cars() []*Car { return t.cars }

// Bikes exposes the derived bike schedule for inspection and tests.
func (t *Tunnel) Bikes() []*Bike { return t.bikes }
