// Package scene aggregates the two bores and the two escort vehicles
// behind the single query API the rendering layer consumes. Every query is
// a pure read over schedules fixed at construction; callers own the clock.
package scene

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/pulselane/tunnelsim/internal/escort"
	"github.com/pulselane/tunnelsim/internal/tunnel"
)

// Config wires both bores plus the escort vehicles.
type Config struct {
	East  tunnel.Config `yaml:"eastbound" validate:"required"`
	West  tunnel.Config `yaml:"westbound" validate:"required"`
	Sweep escort.Params `yaml:"sweep" validate:"required"`
	Pace  escort.Params `yaml:"pace" validate:"required"`
}

// System owns one Tunnel per direction and the sweep and pace singletons.
type System struct {
	cfg   Config
	east  *tunnel.Tunnel
	west  *tunnel.Tunnel
	sweep *escort.Escort
	pace  *escort.Escort
}

func New(cfg Config) (*System, error) {
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("scene config: %w", err)
	}
	east, err := tunnel.New(cfg.East)
	if err != nil {
		return nil, err
	}
	west, err := tunnel.New(cfg.West)
	if err != nil {
		return nil, err
	}
	sweep, err := escort.New(escort.Sweep, cfg.East, cfg.West, cfg.Sweep)
	if err != nil {
		return nil, err
	}
	pace, err := escort.New(escort.Pace, cfg.East, cfg.West, cfg.Pace)
	if err != nil {
		return nil, err
	}
	return &System{cfg: cfg, east: east, west: west, sweep: sweep, pace: pace}, nil
}

func (s *System) Config() Config           { return s.cfg }
func (s *System) East() *tunnel.Tunnel     { return s.east }
func (s *System) West() *tunnel.Tunnel     { return s.west }
func (s *System) SweepCar() *escort.Escort { return s.sweep }
func (s *System) PaceCar() *escort.Escort  { return s.pace }

// VehicleView is one renderable vehicle. X and Y are lane-local pixels for
// the tagged direction; an escort between bores carries no direction and
// reports shared scene pixels instead.
type VehicleView struct {
	ID   string             `json:"id"`
	Type tunnel.VehicleType `json:"type"`
	Dir  tunnel.Direction   `json:"dir,omitempty"`
	Lane int                `json:"lane"`
	Pos  tunnel.Position    `json:"pos"`
}

// Phases is the per-direction phase pair.
type Phases struct {
	East tunnel.Phase `json:"east"`
	West tunnel.Phase `json:"west"`
}

// Rectangle is one renderable color-zone overlay on a shared lane.
type Rectangle struct {
	Dir    tunnel.Direction `json:"dir"`
	Color  string           `json:"color"`
	X      float64          `json:"x"`
	Width  float64          `json:"width"`
	Y      float64          `json:"y"`
	Height float64          `json:"height"`
}

// Frame bundles everything a renderer needs for one instant.
type Frame struct {
	AbsMin     float64       `json:"absMin"`
	Phases     Phases        `json:"phases"`
	Vehicles   []VehicleView `json:"vehicles"`
	Rectangles []Rectangle   `json:"rectangles"`
}

func checkTime(absMin float64) error {
	if math.IsNaN(absMin) || math.IsInf(absMin, 0) {
		return fmt.Errorf("query time must be finite, got %v", absMin)
	}
	return nil
}

// Vehicles returns every visible vehicle in both bores plus the two
// escorts, at an absolute minute.
func (s *System) Vehicles(absMin float64) ([]VehicleView, error) {
	if err := checkTime(absMin); err != nil {
		return nil, err
	}
	views := make([]VehicleView, 0, 64)
	for _, snap := range s.east.Vehicles(absMin) {
		views = append(views, VehicleView{ID: snap.ID, Type: snap.Type, Dir: tunnel.East, Lane: snap.Lane, Pos: snap.Pos})
	}
	for _, snap := range s.west.Vehicles(absMin) {
		views = append(views, VehicleView{ID: snap.ID, Type: snap.Type, Dir: tunnel.West, Lane: snap.Lane, Pos: snap.Pos})
	}
	views = append(views, s.escortView("sweep", tunnel.TypeSweep, s.sweep, absMin))
	views = append(views, s.escortView("pace", tunnel.TypePace, s.pace, absMin))
	return views, nil
}

// escortView localizes an escort's scene position into the bore it is
// transiting: the westbound bore's local x runs opposite to scene x.
func (s *System) escortView(id string, typ tunnel.VehicleType, e *escort.Escort, absMin float64) VehicleView {
	pos := e.At(absMin)
	dir, in := e.CurrentTunnel(absMin)
	if in && dir == tunnel.West {
		pos.X = s.cfg.West.LaneWidthPx - pos.X
	}
	return VehicleView{ID: id, Type: typ, Dir: dir, Lane: tunnel.LaneShared, Pos: pos}
}

// GetPhases returns both bores' phases at an absolute minute.
func (s *System) GetPhases(absMin float64) (Phases, error) {
	if err := checkTime(absMin); err != nil {
		return Phases{}, err
	}
	return Phases{
		East: s.east.PhaseAt(absMin),
		West: s.west.PhaseAt(absMin),
	}, nil
}

// ColorRectangles converts each bore's zone spans into renderable
// rectangles over its shared lane band. Zero-width spans produce no
// rectangle at all.
func (s *System) ColorRectangles(absMin float64) ([]Rectangle, error) {
	if err := checkTime(absMin); err != nil {
		return nil, err
	}
	rects := make([]Rectangle, 0, 4)
	for _, t := range []*tunnel.Tunnel{s.east, s.west} {
		span := t.Zones(absMin)
		if span == nil {
			continue
		}
		cfg := t.Config()
		y := cfg.Y + float64(tunnel.LaneShared)*cfg.LaneHeightPx
		if w := span.GreenEnd - span.GreenStart; w > 1e-9 {
			rects = append(rects, Rectangle{
				Dir: cfg.Direction, Color: "green",
				X: span.GreenStart, Width: w, Y: y, Height: cfg.LaneHeightPx,
			})
		}
		if w := span.RedEnd - span.RedStart; w > 1e-9 {
			rects = append(rects, Rectangle{
				Dir: cfg.Direction, Color: "red",
				X: span.RedStart, Width: w, Y: y, Height: cfg.LaneHeightPx,
			})
		}
	}
	return rects, nil
}

// At assembles a complete frame for one absolute minute.
func (s *System) At(absMin float64) (*Frame, error) {
	phases, err := s.GetPhases(absMin)
	if err != nil {
		return nil, err
	}
	vehicles, err := s.Vehicles(absMin)
	if err != nil {
		return nil, err
	}
	rects, err := s.ColorRectangles(absMin)
	if err != nil {
		return nil, err
	}
	return &Frame{AbsMin: absMin, Phases: phases, Vehicles: vehicles, Rectangles: rects}, nil
}
