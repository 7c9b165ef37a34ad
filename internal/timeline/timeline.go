package timeline

import (
	"fmt"
	"math"
)

// Vec is an interpolable compound value, e.g. {x, y, opacity}.
type Vec []float64

func (v Vec) Clone() Vec {
	c := make(Vec, len(v))
	copy(c, v)
	return c
}

func (v Vec) IsValid() bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// Lerp interpolates componentwise between v and other at fraction f in [0,1].
func (v Vec) Lerp(other Vec, f float64) Vec {
	result := make(Vec, len(v))
	for i := range v {
		o := 0.0
		if i < len(other) {
			o = other[i]
		}
		result[i] = v[i] + (o-v[i])*f
	}
	return result
}

// Mod reduces min into [0, period) with a proper floored modulo, correct for
// negative values and values arbitrarily larger than the period.
func Mod(min, period float64) float64 {
	m := math.Mod(min, period)
	if m < 0 {
		m += period
	}
	return m
}

// Point is one keyframe on a cyclic time axis.
type Point struct {
	Min float64
	Val Vec
}

// Track maps a cyclic time axis to piecewise-linearly interpolated values
// between explicit keyframes. The last keyframe connects to the first
// keyframe one period later, so interpolation is continuous across the wrap.
type Track struct {
	period float64
	points []Point
}

func NewTrack(period float64, points []Point) (*Track, error) {
	if period <= 0 || math.IsNaN(period) || math.IsInf(period, 0) {
		return nil, fmt.Errorf("period must be positive and finite, got %v", period)
	}
	if len(points) < 2 {
		return nil, fmt.Errorf("track needs at least 2 keyframes, got %d", len(points))
	}
	for i, p := range points {
		if p.Min < 0 || p.Min >= period {
			return nil, fmt.Errorf("keyframe %d at min %v outside [0,%v)", i, p.Min, period)
		}
		if !p.Val.IsValid() {
			return nil, fmt.Errorf("keyframe %d has non-finite value %v", i, p.Val)
		}
		if i > 0 && p.Min <= points[i-1].Min {
			return nil, fmt.Errorf("keyframe minutes must be strictly increasing: %v after %v", p.Min, points[i-1].Min)
		}
	}
	return &Track{period: period, points: points}, nil
}

func (t *Track) Period() float64 { return t.period }

// At returns the interpolated value at min, after reducing min mod period.
// A query exactly on a keyframe returns that keyframe's value with no
// interpolation drift.
func (t *Track) At(min float64) Vec {
	m := Mod(min, t.period)

	i := t.leftIndex(m)
	left := t.points[i]
	if m == left.Min {
		return left.Val.Clone()
	}

	right := t.points[(i+1)%len(t.points)]
	span := right.Min - left.Min
	elapsed := m - left.Min
	if i == len(t.points)-1 {
		// wrap segment: last keyframe to first keyframe + period
		span = right.Min + t.period - left.Min
		if m < left.Min {
			elapsed = m + t.period - left.Min
		}
	}
	return left.Val.Lerp(right.Val, elapsed/span)
}

// leftIndex finds i such that points[i] is the most recent keyframe at or
// before m, treating the sequence as cyclic (m before the first keyframe
// belongs to the wrap segment that starts at the last keyframe).
func (t *Track) leftIndex(m float64) int {
	if m < t.points[0].Min {
		return len(t.points) - 1
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
	return lo
}
