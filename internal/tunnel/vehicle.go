package tunnel

import (
	"sort"

	"github.com/pulselane/tunnelsim/internal/timeline"
)

// State is a vehicle's motion/lifecycle tag. It snaps to the most recent
// keyframe rather than interpolating.
type State string

const (
	StateQueued     State = "queued"
	StateDequeueing State = "dequeueing"
	StateTransiting State = "transiting"
	StateExiting    State = "exiting"
	StateOrigin     State = "origin"
)

type VehicleType string

const (
	TypeCar   VehicleType = "car"
	TypeBike  VehicleType = "bike"
	TypeSweep VehicleType = "sweep"
	TypePace  VehicleType = "pace"
)

// Position is a vehicle's interpolated pose at one query time.
type Position struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Opacity float64 `json:"opacity"`
	State   State   `json:"state"`
}

// Snapshot is one visible vehicle returned by a tunnel query.
type Snapshot struct {
	ID   string      `json:"id"`
	Type VehicleType `json:"type"`
	Lane int         `json:"lane"`
	Pos  Position    `json:"pos"`
}

// Fade and staging constants shared by the fleet builders. Opacity ramps
// are a full keyframe channel so fades interpolate like any other value.
const (
	fadeInMins   = 1.0
	fadeOutMins  = 0.5
	fadePx       = 40.0
	queueSlotPx  = 16.0
	dequeueMins  = 0.5
	penSnapMins  = 0.25
	visibleFloor = 1e-9
)

// keyedVehicle is the shared keyframe bundle behind cars, bikes and escorts:
// a pose track (x, y, opacity) plus a discrete state track on the same axis.
type keyedVehicle struct {
	track  *timeline.Track
	states *timeline.StepTrack
}

func (v *keyedVehicle) At(min float64) Position {
	val := v.track.At(min)
	return Position{
		X:       val[0],
		Y:       val[1],
		Opacity: val[2],
		State:   State(v.states.At(min)),
	}
}

// newKeyedVehicle reduces every keyframe minute modulo the period and sorts
// both channels. Builders describe a lifecycle as a contiguous window that
// may cross the wrap; as long as the window is shorter than one period the
// sorted points are a valid rotation of the cyclic sequence.
func newKeyedVehicle(period float64, pts []timeline.Point, states []timeline.StepPoint) (*keyedVehicle, error) {
	for i := range pts {
		pts[i].Min = timeline.Mod(pts[i].Min, period)
	}
	sort.Slice(pts, func(i, j int) bool { return pts[i].Min < pts[j].Min })
	track, err := timeline.NewTrack(period, pts)
	if err != nil {
		return nil, err
	}

	for i := range states {
		states[i].Min = timeline.Mod(states[i].Min, period)
	}
	sort.Slice(states, func(i, j int) bool { return states[i].Min < states[j].Min })
	st, err := timeline.NewStepTrack(period, states)
	if err != nil {
		return nil, err
	}
	return &keyedVehicle{track: track, states: st}, nil
}

func pose(x, y, opacity float64) timeline.Vec {
	return timeline.Vec{x, y, opacity}
}
