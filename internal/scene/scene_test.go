package scene

import (
	"math"
	"reflect"
	"testing"

	"github.com/pulselane/tunnelsim/internal/escort"
	"github.com/pulselane/tunnelsim/internal/tunnel"
)

func testConfig() Config {
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
	west.Pen = tunnel.Rect{X: -240, Y: 290, W: 200, H: 60}
	return Config{
		East:  east,
		West:  west,
		Sweep: escort.Params{Mph: 12, StagingOffsetPx: 80},
		Pace:  escort.Params{Mph: 24, StagingOffsetPx: 80},
	}
}

func TestDeterminism(t *testing.T) {
	sys, err := New(testConfig())
	if err != nil {
		t.Fatalf("new system: %v", err)
	}

	for _, abs := range []float64{0, 7.3, 21.25, 46.5, 59.999} {
		a, err := sys.At(abs)
		if err != nil {
			t.Fatalf("At(%v): %v", abs, err)
		}
		b, err := sys.At(abs)
		if err != nil {
			t.Fatalf("At(%v): %v", abs, err)
		}
		if !reflect.DeepEqual(a, b) {
			t.Errorf("At(%v) not deterministic", abs)
		}
	}
}

func TestPeriodicity(t *testing.T) {
	sys, err := New(testConfig())
	if err != nil {
		t.Fatalf("new system: %v", err)
	}

	for _, abs := range []float64{0, 12.5, 30, 47.75} {
		a, err := sys.At(abs)
		if err != nil {
			t.Fatalf("At(%v): %v", abs, err)
		}
		b, err := sys.At(abs + tunnel.Period)
		if err != nil {
			t.Fatalf("At(%v): %v", abs+tunnel.Period, err)
		}
		if a.Phases != b.Phases {
			t.Errorf("phases differ across periods at %v: %+v vs %+v", abs, a.Phases, b.Phases)
		}
		if len(a.Vehicles) != len(b.Vehicles) {
			t.Fatalf("vehicle count differs across periods at %v: %d vs %d", abs, len(a.Vehicles), len(b.Vehicles))
		}
		for i := range a.Vehicles {
			va, vb := a.Vehicles[i], b.Vehicles[i]
			if va.ID != vb.ID || math.Abs(va.Pos.X-vb.Pos.X) > 1e-6 || math.Abs(va.Pos.Y-vb.Pos.Y) > 1e-6 {
				t.Errorf("vehicle %d differs across periods at %v: %+v vs %+v", i, abs, va, vb)
			}
		}
		if !reflect.DeepEqual(a.Rectangles, b.Rectangles) {
			t.Errorf("rectangles differ across periods at %v", abs)
		}
	}
}

func TestGetPhasesPair(t *testing.T) {
	sys, err := New(testConfig())
	if err != nil {
		t.Fatalf("new system: %v", err)
	}

	tests := []struct {
		absMin float64
		east   tunnel.Phase
		west   tunnel.Phase
	}{
		{45, tunnel.PhaseBikesEnter, tunnel.PhaseNormal},
		{50, tunnel.PhaseSweep, tunnel.PhaseNormal},
		{15, tunnel.PhaseNormal, tunnel.PhaseBikesEnter},
		{20, tunnel.PhaseNormal, tunnel.PhaseSweep},
		{27, tunnel.PhaseNormal, tunnel.PhasePaceCar},
		{35, tunnel.PhaseNormal, tunnel.PhaseNormal},
	}
	for _, tt := range tests {
		got, err := sys.GetPhases(tt.absMin)
		if err != nil {
			t.Fatalf("GetPhases(%v): %v", tt.absMin, err)
		}
		if got.East != tt.east || got.West != tt.west {
			t.Errorf("GetPhases(%v) = %+v, want east=%v west=%v", tt.absMin, got, tt.east, tt.west)
		}
	}
}

func TestGetPhasesPulsesNeverOverlap(t *testing.T) {
	sys, err := New(testConfig())
	if err != nil {
		t.Fatalf("new system: %v", err)
	}

	for abs := 0.0; abs < tunnel.Period; abs += 0.25 {
		p, err := sys.GetPhases(abs)
		if err != nil {
			t.Fatalf("GetPhases(%v): %v", abs, err)
		}
		eastActive := p.East != tunnel.PhaseNormal
		westActive := p.West != tunnel.PhaseNormal
		if eastActive && westActive {
			// both bores share the officials, so both mid-pulse at once is
			// only legal while neither needs an escort: never with this config
			t.Errorf("both bores active at %v: %+v", abs, p)
		}
	}
}

func TestColorRectanglesOmitZeroWidth(t *testing.T) {
	sys, err := New(testConfig())
	if err != nil {
		t.Fatalf("new system: %v", err)
	}

	for abs := 0.0; abs < tunnel.Period; abs += 0.1 {
		rects, err := sys.ColorRectangles(abs)
		if err != nil {
			t.Fatalf("ColorRectangles(%v): %v", abs, err)
		}
		for _, r := range rects {
			if r.Width <= 0 {
				t.Errorf("degenerate rectangle at %v: %+v", abs, r)
			}
			if r.Height != 40 {
				t.Errorf("rectangle height at %v = %v, want lane height 40", abs, r.Height)
			}
		}
	}
}

func TestColorRectanglesPlacement(t *testing.T) {
	sys, err := New(testConfig())
	if err != nil {
		t.Fatalf("new system: %v", err)
	}

	// eastbound rel 6 (abs 51): green [80,800] and red [0,80] on the east
	// shared lane band (y 40); no westbound zones
	rects, err := sys.ColorRectangles(51)
	if err != nil {
		t.Fatalf("ColorRectangles(51): %v", err)
	}
	if len(rects) != 2 {
		t.Fatalf("expected 2 rectangles, got %d: %+v", len(rects), rects)
	}
	green, red := rects[0], rects[1]
	if green.Color != "green" || green.Dir != tunnel.East || green.X != 80 || green.Width != 720 || green.Y != 40 {
		t.Errorf("green rect = %+v", green)
	}
	if red.Color != "red" || red.Dir != tunnel.East || red.X != 0 || red.Width != 80 {
		t.Errorf("red rect = %+v", red)
	}
}

func TestEscortLocalizedWestbound(t *testing.T) {
	sys, err := New(testConfig())
	if err != nil {
		t.Fatalf("new system: %v", err)
	}

	// at abs 25 the sweep is halfway through the westbound bore: scene x
	// 400 equals local x 400 here, but at abs 21 scene x 720 must read as
	// local 80 from the westbound entrance
	views, err := sys.Vehicles(21)
	if err != nil {
		t.Fatalf("Vehicles(21): %v", err)
	}
	var sweep *VehicleView
	for i := range views {
		if views[i].ID == "sweep" {
			sweep = &views[i]
		}
	}
	if sweep == nil {
		t.Fatal("sweep missing from vehicle views")
	}
	if sweep.Dir != tunnel.West {
		t.Fatalf("sweep dir = %q, want west", sweep.Dir)
	}
	if math.Abs(sweep.Pos.X-80) > 1e-9 {
		t.Errorf("sweep local x = %v, want 80", sweep.Pos.X)
	}
}

func TestVehiclesIncludeBothEscorts(t *testing.T) {
	sys, err := New(testConfig())
	if err != nil {
		t.Fatalf("new system: %v", err)
	}

	views, err := sys.Vehicles(40)
	if err != nil {
		t.Fatalf("Vehicles(40): %v", err)
	}
	seen := map[string]bool{}
	for _, v := range views {
		seen[v.ID] = true
	}
	if !seen["sweep"] || !seen["pace"] {
		t.Errorf("escorts missing from views: %v", seen)
	}
}

func TestNonFiniteTimeRejected(t *testing.T) {
	sys, err := New(testConfig())
	if err != nil {
		t.Fatalf("new system: %v", err)
	}

	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, err := sys.Vehicles(bad); err == nil {
			t.Errorf("Vehicles(%v): expected error", bad)
		}
		if _, err := sys.GetPhases(bad); err == nil {
			t.Errorf("GetPhases(%v): expected error", bad)
		}
		if _, err := sys.ColorRectangles(bad); err == nil {
			t.Errorf("ColorRectangles(%v): expected error", bad)
		}
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := testConfig()
	cfg.East.PenCloseMin = 7 // after sweep start
	if _, err := New(cfg); err == nil {
		t.Error("expected error for bad east config")
	}

	cfg = testConfig()
	cfg.Sweep.Mph = 20
	if _, err := New(cfg); err == nil {
		t.Error("expected error for sweep speed mismatch")
	}
}
