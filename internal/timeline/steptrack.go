package timeline

import (
	"fmt"
	"math"
)

// StepPoint is one keyframe of a discrete, non-interpolable label.
type StepPoint struct {
	Min float64
	Val string
}

// StepTrack holds the value of the most recent keyframe at or before the
// query time ("hold left" semantics), cyclic over the period. Used for
// discrete channels such as a vehicle's motion state.
type StepTrack struct {
	period float64
	points []StepPoint
}

func NewStepTrack(period float64, points []StepPoint) (*StepTrack, error) {
	if period <= 0 || math.IsNaN(period) || math.IsInf(period, 0) {
		return nil, fmt.Errorf("period must be positive and finite, got %v", period)
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("step track needs at least 1 keyframe")
	}
	for i, p := range points {
		if p.Min < 0 || p.Min >= period {
			return nil, fmt.Errorf("keyframe %d at min %v outside [0,%v)", i, p.Min, period)
		}
		if i > 0 && p.Min <= points[i-1].Min {
			return nil, fmt.Errorf("keyframe minutes must be strictly increasing: %v after %v", p.Min, points[i-1].Min)
		}
	}
	return &StepTrack{period: period, points: points}, nil
}

// At returns the label of the most recent keyframe at or before min mod
// period. A query before the first keyframe wraps to the last one.
func (t *StepTrack) At(min float64) string {
	m := Mod(min, t.period)
	if m < t.points[0].Min {
		return t.points[len(t.points)-1].Val
	}
	lo, hi := 0, len(t.points)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if t.points[mid].Min <= m {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return t.points[lo].Val
}
