package timeline

import (
	"math"
	"testing"
)

func TestMod(t *testing.T) {
	tests := []struct {
		min      float64
		period   float64
		expected float64
	}{
		{0, 60, 0},
		{59.5, 60, 59.5},
		{60, 60, 0},
		{125, 60, 5},
		{-1, 60, 59},
		{-120.5, 60, 59.5},
		{600000.25, 60, 0.25},
	}

	for _, tt := range tests {
		if got := Mod(tt.min, tt.period); math.Abs(got-tt.expected) > 1e-9 {
			t.Errorf("Mod(%v, %v) = %v, want %v", tt.min, tt.period, got, tt.expected)
		}
	}
}

func TestTrackAt(t *testing.T) {
	track, err := NewTrack(60, []Point{
		{Min: 10, Val: Vec{0, 1}},
		{Min: 20, Val: Vec{100, 1}},
		{Min: 50, Val: Vec{400, 0}},
	})
	if err != nil {
		t.Fatalf("new track: %v", err)
	}

	tests := []struct {
		name string
		min  float64
		want Vec
	}{
		{"exact first keyframe", 10, Vec{0, 1}},
		{"exact middle keyframe", 20, Vec{100, 1}},
		{"exact last keyframe", 50, Vec{400, 0}},
		{"midpoint of first segment", 15, Vec{50, 1}},
		{"inside second segment", 35, Vec{250, 0.5}},
		{"wrap segment after last", 55, Vec{300, 0.25}},
		{"wrap segment before first", 5, Vec{100, 0.75}},
		{"query beyond period", 75, Vec{50, 1}},
		{"negative query", -45, Vec{50, 1}},
		{"far future query", 60015, Vec{50, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := track.At(tt.min)
			if len(got) != len(tt.want) {
				t.Fatalf("At(%v) dim = %d, want %d", tt.min, len(got), len(tt.want))
			}
			for i := range got {
				if math.Abs(got[i]-tt.want[i]) > 1e-9 {
					t.Errorf("At(%v) = %v, want %v", tt.min, got, tt.want)
					break
				}
			}
		})
	}
}

func TestTrackWrapContinuity(t *testing.T) {
	track, err := NewTrack(60, []Point{
		{Min: 5, Val: Vec{10}},
		{Min: 55, Val: Vec{90}},
	})
	if err != nil {
		t.Fatalf("new track: %v", err)
	}

	// the wrap segment runs 55 -> 65(=5), values 90 -> 10
	justBefore := track.At(59.999)[0]
	atZero := track.At(0)[0]
	justAfter := track.At(0.001)[0]

	if math.Abs(atZero-50) > 1e-9 {
		t.Errorf("At(0) = %v, want 50", atZero)
	}
	if math.Abs(justBefore-atZero) > 0.1 || math.Abs(justAfter-atZero) > 0.1 {
		t.Errorf("discontinuity across wrap: %v, %v, %v", justBefore, atZero, justAfter)
	}
}

func TestNewTrackErrors(t *testing.T) {
	tests := []struct {
		name   string
		period float64
		points []Point
	}{
		{"no keyframes", 60, nil},
		{"one keyframe", 60, []Point{{Min: 0, Val: Vec{1}}}},
		{"zero period", 0, []Point{{Min: 0, Val: Vec{1}}, {Min: 1, Val: Vec{2}}}},
		{"negative period", -60, []Point{{Min: 0, Val: Vec{1}}, {Min: 1, Val: Vec{2}}}},
		{"min out of range", 60, []Point{{Min: 0, Val: Vec{1}}, {Min: 60, Val: Vec{2}}}},
		{"negative min", 60, []Point{{Min: -1, Val: Vec{1}}, {Min: 1, Val: Vec{2}}}},
		{"non-monotone", 60, []Point{{Min: 10, Val: Vec{1}}, {Min: 5, Val: Vec{2}}}},
		{"duplicate min", 60, []Point{{Min: 10, Val: Vec{1}}, {Min: 10, Val: Vec{2}}}},
		{"NaN value", 60, []Point{{Min: 0, Val: Vec{math.NaN()}}, {Min: 1, Val: Vec{2}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewTrack(tt.period, tt.points); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestStepTrackHoldLeft(t *testing.T) {
	track, err := NewStepTrack(60, []StepPoint{
		{Min: 5, Val: "queued"},
		{Min: 10, Val: "transiting"},
		{Min: 20, Val: "exiting"},
	})
	if err != nil {
		t.Fatalf("new step track: %v", err)
	}

	tests := []struct {
		min  float64
		want string
	}{
		{5, "queued"},
		{7.5, "queued"},
		{10, "transiting"},
		{19.999, "transiting"},
		{20, "exiting"},
		{59, "exiting"},
		{0, "exiting"}, // before first keyframe wraps to the last
		{4.999, "exiting"},
		{65, "queued"},
		{-55, "queued"},
	}

	for _, tt := range tests {
		if got := track.At(tt.min); got != tt.want {
			t.Errorf("At(%v) = %q, want %q", tt.min, got, tt.want)
		}
	}
}
