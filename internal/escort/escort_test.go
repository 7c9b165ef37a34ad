package escort

import (
	"math"
	"testing"

	"github.com/pulselane/tunnelsim/internal/tunnel"
)

func testConfigs() (tunnel.Config, tunnel.Config) {
	east := tunnel.Config{
		Direction:           tunnel.East,
		OffsetMin:           45,
		Y:                   0,
		LaneWidthPx:         800,
		LaneHeightPx:        40,
		Pen:                 tunnel.Rect{X: -240, Y: 90, W: 200, H: 60},
		LengthMi:            2,
		CarMph:              24,
		BikeDownMph:         18,
		BikeUpMph:           9,
		PenCloseMin:         3,
		SweepStartMin:       5,
		PaceStartMin:        10,
		OfficialResetMins:   5,
		CarsPerMin:          1,
		BikesPerMin:         0.5,
		CarsReleasedPerMin:  4,
		BikesReleasedPerMin: 10,
	}
	west := east
	west.Direction = tunnel.West
	west.OffsetMin = 15
	west.Y = 200
	return east, west
}

func approx(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestSweepSchedule(t *testing.T) {
	east, west := testConfigs()
	sw, err := New(Sweep, east, west, Params{Mph: 12, StagingOffsetPx: 80})
	if err != nil {
		t.Fatalf("new sweep: %v", err)
	}

	tests := []struct {
		name   string
		absMin float64
		x      float64
		tol    float64
		state  tunnel.State
	}{
		{"entering east", 50, 0, 1e-9, tunnel.StateTransiting},
		{"east midpoint", 55, 400, 1e-9, tunnel.StateTransiting},
		{"near east exit", 59.9, 792, 0.1, tunnel.StateTransiting},
		{"east exit", 0, 800, 1e-9, tunnel.StateExiting},
		{"entering west", 20, 800, 1e-9, tunnel.StateTransiting},
		{"west midpoint", 25, 400, 1e-9, tunnel.StateTransiting},
		{"west exit", 30, 0, 1e-9, tunnel.StateExiting},
		{"staged outside east", 45, -80, 1e-9, tunnel.StateOrigin},
		{"snapping into east mouth", 49.5, -40, 1e-9, tunnel.StateDequeueing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := sw.At(tt.absMin)
			if !approx(p.X, tt.x, tt.tol) {
				t.Errorf("At(%v).X = %v, want %v", tt.absMin, p.X, tt.x)
			}
			if p.State != tt.state {
				t.Errorf("At(%v).State = %v, want %v", tt.absMin, p.State, tt.state)
			}
			if p.Opacity != 1 {
				t.Errorf("At(%v).Opacity = %v, want 1", tt.absMin, p.Opacity)
			}
		})
	}
}

func TestPaceSchedule(t *testing.T) {
	east, west := testConfigs()
	pc, err := New(Pace, east, west, Params{Mph: 24, StagingOffsetPx: 80})
	if err != nil {
		t.Fatalf("new pace: %v", err)
	}

	tests := []struct {
		absMin float64
		x      float64
		tol    float64
		state  tunnel.State
	}{
		{55, 0, 1e-9, tunnel.StateTransiting},
		{57.5, 400, 1e-9, tunnel.StateTransiting},
		{59.99, 798.4, 0.1, tunnel.StateTransiting},
		{25, 800, 1e-9, tunnel.StateTransiting},
		{30, 0, 1e-9, tunnel.StateExiting},
		{40, -80, 1e-9, tunnel.StateOrigin},
	}

	for _, tt := range tests {
		p := pc.At(tt.absMin)
		if !approx(p.X, tt.x, tt.tol) {
			t.Errorf("At(%v).X = %v, want %v", tt.absMin, p.X, tt.x)
		}
		if p.State != tt.state {
			t.Errorf("At(%v).State = %v, want %v", tt.absMin, p.State, tt.state)
		}
	}
}

func TestCurrentTunnel(t *testing.T) {
	east, west := testConfigs()
	sw, err := New(Sweep, east, west, Params{Mph: 12, StagingOffsetPx: 80})
	if err != nil {
		t.Fatalf("new sweep: %v", err)
	}

	tests := []struct {
		absMin float64
		dir    tunnel.Direction
		in     bool
	}{
		{50, tunnel.East, true},
		{55, tunnel.East, true},
		{59.9, tunnel.East, true},
		{20, tunnel.West, true},
		{29.9, tunnel.West, true},
		{10, "", false},
		{40, "", false},
		{110, tunnel.East, true}, // period-locked
	}

	for _, tt := range tests {
		dir, in := sw.CurrentTunnel(tt.absMin)
		if in != tt.in || dir != tt.dir {
			t.Errorf("CurrentTunnel(%v) = (%q, %v), want (%q, %v)", tt.absMin, dir, in, tt.dir, tt.in)
		}
	}
}

func TestSweepPaceStagger(t *testing.T) {
	east, west := testConfigs()
	sw, _ := New(Sweep, east, west, Params{Mph: 12, StagingOffsetPx: 80})
	pc, _ := New(Pace, east, west, Params{Mph: 24, StagingOffsetPx: 80})
	if sw == nil || pc == nil {
		t.Fatal("constructors failed")
	}

	// the sweep leads the pace car through each bore by the configured delay
	for _, abs := range []float64{51, 55, 58, 21, 26} {
		swp, pcp := sw.At(abs), pc.At(abs)
		swDir, swIn := sw.CurrentTunnel(abs)
		pcDir, pcIn := pc.CurrentTunnel(abs)
		if swIn && pcIn && swDir == pcDir {
			towardExit := swp.X - pcp.X
			if swDir == tunnel.West {
				towardExit = pcp.X - swp.X
			}
			if towardExit < 0 {
				t.Errorf("at %v the pace car is ahead of the sweep (%v vs %v)", abs, pcp.X, swp.X)
			}
		}
	}
}

func TestEscortSpeedConsistency(t *testing.T) {
	east, west := testConfigs()

	// 12 mph sweep crosses in 10 min, matching the sweep->reopen window
	if _, err := New(Sweep, east, west, Params{Mph: 15, StagingOffsetPx: 80}); err == nil {
		t.Error("expected error for sweep speed that breaks the schedule window")
	}
	if _, err := New(Pace, east, west, Params{Mph: 30, StagingOffsetPx: 80}); err == nil {
		t.Error("expected error for pace speed that breaks the reset window")
	}
	if _, err := New(Sweep, west, east, Params{Mph: 12, StagingOffsetPx: 80}); err == nil {
		t.Error("expected error for bores passed in the wrong order")
	}
}
