// Package escort models the two official vehicles that alternate between
// the bores once per cycle: the sweep, which trails the bike pulse to clear
// stragglers, and the pace car, which leads car traffic back into the
// shared lane.
package escort

import (
	"fmt"
	"math"
	"sort"

	"github.com/pulselane/tunnelsim/internal/timeline"
	"github.com/pulselane/tunnelsim/internal/tunnel"
)

type Kind string

const (
	Sweep Kind = "sweep"
	Pace  Kind = "pace"
)

// Params configures one escort vehicle.
type Params struct {
	Mph             float64 `yaml:"mph" validate:"gt=0"`
	StagingOffsetPx float64 `yaml:"staging_offset_px" validate:"gt=0"`
}

const (
	dequeueMins   = 1.0
	crossoverMins = 5.0
	exitHoldMins  = 1.0
)

// Escort is a global singleton whose keyframe path visits staging outside
// one bore, the bore itself, then the other bore, completing exactly one
// round trip per period. Positions are in shared scene pixels: the
// eastbound bore runs scene x 0..w left to right, the westbound bore enters
// at scene x = w and exits at 0.
type Escort struct {
	kind   Kind
	track  *timeline.Track
	states *timeline.StepTrack

	cross     float64
	eastEntry float64
	westEntry float64
	laneW     float64
}

// New derives the escort's full keyframe schedule from both bores' configs.
// The escort's road speed must agree with the phase windows the zone
// calculator paints, otherwise the colored front and the vehicle drift
// apart; inconsistent configs are rejected.
func New(kind Kind, east, west tunnel.Config, p Params) (*Escort, error) {
	if east.Direction != tunnel.East || west.Direction != tunnel.West {
		return nil, fmt.Errorf("escort %s: bores passed in wrong order", kind)
	}
	if east.LaneWidthPx != west.LaneWidthPx {
		return nil, fmt.Errorf("escort %s: bores disagree on lane width", kind)
	}

	cross := east.CrossMins(p.Mph)
	var windowMins, startEast, startWest float64
	switch kind {
	case Sweep:
		windowMins = east.PaceEndMin() - east.SweepStartMin
		startEast = east.SweepStartMin
		startWest = west.SweepStartMin
	case Pace:
		windowMins = east.OfficialResetMins
		startEast = east.PaceStartMin
		startWest = west.PaceStartMin
	default:
		return nil, fmt.Errorf("unknown escort kind %q", kind)
	}
	if math.Abs(cross-windowMins) > 1e-6 {
		return nil, fmt.Errorf("escort %s: %.1f mph crosses in %.2f min but the schedule window is %.2f min", kind, p.Mph, cross, windowMins)
	}

	eEntry := timeline.Mod(east.OffsetMin+startEast, tunnel.Period)
	wEntry := timeline.Mod(west.OffsetMin+startWest, tunnel.Period)

	w := east.LaneWidthPx
	yE := east.LaneCenterY(tunnel.LaneShared)
	yW := west.LaneCenterY(tunnel.LaneShared)
	stag := p.StagingOffsetPx

	// Unroll one round trip starting at the eastbound entry. The final
	// 1-minute staging-to-mouth segment is the wrap back to the first
	// keyframe, so the loop must close after exactly one period.
	u0 := eEntry
	u1 := u0 + cross
	u3 := u1 + crossoverMins
	u4 := u1 + timeline.Mod(wEntry-dequeueMins-u1, tunnel.Period)
	if u4 < u3 {
		return nil, fmt.Errorf("escort %s: only %.2f min between east exit and west entry, need %.2f", kind, u4-u1+dequeueMins, crossoverMins+dequeueMins)
	}
	u5 := u4 + dequeueMins
	u6 := u5 + cross
	u7 := u6 + crossoverMins
	u8 := u6 + timeline.Mod(eEntry-dequeueMins-u6, tunnel.Period)
	if u8 < u7 {
		return nil, fmt.Errorf("escort %s: only %.2f min between west exit and east entry, need %.2f", kind, u8-u6+dequeueMins, crossoverMins+dequeueMins)
	}
	if math.Abs((u8+dequeueMins)-(u0+tunnel.Period)) > 1e-6 {
		return nil, fmt.Errorf("escort %s: round trip spans %.2f min, must close in one %.0f-min period", kind, u8+dequeueMins-u0, tunnel.Period)
	}

	pts := []timeline.Point{
		{Min: u0, Val: timeline.Vec{0, yE, 1}},
		{Min: u1, Val: timeline.Vec{w, yE, 1}},
		{Min: u3, Val: timeline.Vec{w + stag, yW, 1}},
		{Min: u4, Val: timeline.Vec{w + stag, yW, 1}},
		{Min: u5, Val: timeline.Vec{w, yW, 1}},
		{Min: u6, Val: timeline.Vec{0, yW, 1}},
		{Min: u7, Val: timeline.Vec{-stag, yE, 1}},
		{Min: u8, Val: timeline.Vec{-stag, yE, 1}},
	}
	states := []timeline.StepPoint{
		{Min: u0, Val: string(tunnel.StateTransiting)},
		{Min: u1, Val: string(tunnel.StateExiting)},
		{Min: u1 + exitHoldMins, Val: string(tunnel.StateOrigin)},
		{Min: u4, Val: string(tunnel.StateDequeueing)},
		{Min: u5, Val: string(tunnel.StateTransiting)},
		{Min: u6, Val: string(tunnel.StateExiting)},
		{Min: u6 + exitHoldMins, Val: string(tunnel.StateOrigin)},
		{Min: u8, Val: string(tunnel.StateDequeueing)},
	}
	modSortPts(pts)
	modSortStates(states)

	track, err := timeline.NewTrack(tunnel.Period, pts)
	if err != nil {
		return nil, fmt.Errorf("escort %s: %w", kind, err)
	}
	st, err := timeline.NewStepTrack(tunnel.Period, states)
	if err != nil {
		return nil, fmt.Errorf("escort %s: %w", kind, err)
	}

	return &Escort{
		kind:      kind,
		track:     track,
		states:    st,
		cross:     cross,
		eastEntry: eEntry,
		westEntry: timeline.Mod(u5, tunnel.Period),
		laneW:     w,
	}, nil
}

func (e *Escort) Kind() Kind { return e.kind }

// At returns the escort's pose at an absolute minute, in scene pixels.
func (e *Escort) At(absMin float64) tunnel.Position {
	v := e.track.At(absMin)
	return tunnel.Position{
		X:       v[0],
		Y:       v[1],
		Opacity: v[2],
		State:   tunnel.State(e.states.At(absMin)),
	}
}

// CurrentTunnel derives which bore's transit window contains the query
// time; it returns false when the escort is staging or crossing over.
func (e *Escort) CurrentTunnel(absMin float64) (tunnel.Direction, bool) {
	if timeline.Mod(absMin-e.eastEntry, tunnel.Period) <= e.cross {
		return tunnel.East, true
	}
	if timeline.Mod(absMin-e.westEntry, tunnel.Period) <= e.cross {
		return tunnel.West, true
	}
	return "", false
}

func modSortPts(pts []timeline.Point) {
	for i := range pts {
		pts[i].Min = timeline.Mod(pts[i].Min, tunnel.Period)
	}
	sort.Slice(pts, func(i, j int) bool { return pts[i].Min < pts[j].Min })
}

func modSortStates(states []timeline.StepPoint) {
	for i := range states {
		states[i].Min = timeline.Mod(states[i].Min, tunnel.Period)
	}
	sort.Slice(states, func(i, j int) bool { return states[i].Min < states[j].Min })
}
