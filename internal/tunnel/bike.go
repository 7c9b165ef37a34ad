package tunnel

import (
	"fmt"
	"sort"

	"github.com/pulselane/tunnelsim/internal/timeline"
)

// Bike is one scheduled bicycle. Bikes accumulate in the pen and are
// released FIFO at the configured throughput when the bore's cycle starts;
// a bike arriving at or after pen close waits for the next cycle's pulse.
type Bike struct {
	ID         string
	SpawnMin   float64
	ReleaseMin float64
	CarryOver  bool

	*keyedVehicle
}

func buildBikes(cfg Config) ([]*Bike, error) {
	n := int(Period*cfg.BikesPerMin + 0.5)
	if n == 0 {
		return nil, nil
	}
	spacing := 1 / cfg.BikesPerMin

	lastRelease := float64(n-1) / cfg.BikesReleasedPerMin
	if lastRelease >= cfg.PenCloseMin {
		return nil, fmt.Errorf("bike release window %.2f min exceeds pen close at %.2f; raise bikes_released_per_min", lastRelease, cfg.PenCloseMin)
	}

	// FIFO by time waited in the pen: rank bikes by pen-arrival relative to
	// the previous pen close, so carry-over bikes head the queue.
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	waitKey := func(i int) float64 {
		return timeline.Mod(float64(i)*spacing-cfg.PenCloseMin, Period)
	}
	sort.Slice(order, func(a, b int) bool { return waitKey(order[a]) < waitKey(order[b]) })

	down := crossMins(cfg.LengthMi/2, cfg.BikeDownMph)
	up := crossMins(cfg.LengthMi/2, cfg.BikeUpMph)
	w := cfg.LaneWidthPx
	y := laneY(cfg, LaneShared)

	bikes := make([]*Bike, n)
	for rank, i := range order {
		spawn := float64(i) * spacing
		release := float64(rank) / cfg.BikesReleasedPerMin
		if spawn < cfg.PenCloseMin && release < spawn {
			release = spawn
		}

		// Unroll the lifecycle around the release minute so keyframes come
		// out strictly increasing. A bike whose next pen arrival would land
		// inside its own transit reappears just after its exit fade instead.
		wait := timeline.Mod(release-spawn, Period)
		arrival := release - wait
		exit := release + down + up
		fadeEnd := exit + fadeOutMins
		if floor := fadeEnd - Period + fadeInMins + 0.1; arrival < floor {
			arrival = floor
		}
		dq := release - penSnapMins
		if arrival > dq-0.05 {
			arrival = dq - 0.05
		}

		px, py := penSlot(cfg, rank)
		pts := []timeline.Point{
			{Min: arrival - fadeInMins, Val: pose(px, py, 0)},
			{Min: arrival, Val: pose(px, py, 1)},
			{Min: dq, Val: pose(px, py, 1)},
			{Min: release, Val: pose(0, y, 1)},
			{Min: release + down, Val: pose(w/2, y, 1)},
			{Min: exit, Val: pose(w, y, 1)},
			{Min: fadeEnd, Val: pose(w+fadePx, y, 0)},
		}
		states := []timeline.StepPoint{
			{Min: arrival - fadeInMins, Val: string(StateQueued)},
			{Min: dq, Val: string(StateDequeueing)},
			{Min: release, Val: string(StateTransiting)},
			{Min: exit, Val: string(StateExiting)},
			{Min: fadeEnd, Val: string(StateOrigin)},
		}

		kv, err := newKeyedVehicle(Period, pts, states)
		if err != nil {
			return nil, fmt.Errorf("bike %d: %w", i, err)
		}
		bikes[i] = &Bike{
			ID:           fmt.Sprintf("%s-bike-%02d", dirPrefix(cfg.Direction), i),
			SpawnMin:     spawn,
			ReleaseMin:   release,
			CarryOver:    spawn >= cfg.PenCloseMin,
			keyedVehicle: kv,
		}
	}
	return bikes, nil
}

// penSlot lays queued bikes out in rows inside the pen rectangle.
func penSlot(cfg Config, rank int) (float64, float64) {
	cols := int(cfg.Pen.W / queueSlotPx)
	if cols < 1 {
		cols = 1
	}
	col := rank % cols
	row := rank / cols
	x := cfg.Pen.X + (float64(col)+0.5)*queueSlotPx
	y := cfg.Pen.Y + (float64(row)+0.5)*(queueSlotPx/2)
	return x, y
}
