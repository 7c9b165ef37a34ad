package tunnel

import (
	"fmt"

	"github.com/pulselane/tunnelsim/internal/timeline"
)

// Lane indexes within one bore.
const (
	LaneOpen   = 0
	LaneShared = 1
)

// Car is one scheduled car. Cars on the open lane enter at their nominal
// spawn minute; cars on the shared lane whose spawn falls inside the
// bike/clearing/sweep/pace window queue at the mouth and are released FIFO
// at the configured throughput once the pace car has cleared.
type Car struct {
	ID       string
	Lane     int
	SpawnMin float64
	EntryMin float64
	Blocked  bool

	*keyedVehicle
}

func buildCars(cfg Config) ([]*Car, error) {
	perLane := int(Period*cfg.CarsPerMin + 0.5)
	spacing := 1 / cfg.CarsPerMin
	cross := crossMins(cfg.LengthMi, cfg.CarMph)
	w := cfg.LaneWidthPx

	cars := make([]*Car, 0, 2*perLane)
	for lane := LaneOpen; lane <= LaneShared; lane++ {
		y := laneY(cfg, lane)
		queued := 0
		for i := 0; i < perLane; i++ {
			spawn := float64(i) * spacing
			blocked := lane == LaneShared && spawn < cfg.PaceEndMin()

			entry := spawn
			var pts []timeline.Point
			var states []timeline.StepPoint
			if blocked {
				slot := queued
				queued++
				release := func(s int) float64 {
					return cfg.PaceEndMin() + float64(s)/cfg.CarsReleasedPerMin
				}
				qx := func(s int) float64 {
					return -fadePx - queueSlotPx*float64(s)
				}
				entry = release(slot)

				pts = []timeline.Point{
					{Min: spawn - fadeInMins, Val: pose(qx(slot), y, 0)},
					{Min: spawn, Val: pose(qx(slot), y, 1)},
				}
				// creep one slot toward the mouth each time a car ahead is
				// released; the last slot-to-mouth move is the dequeue
				dq := entry - dequeueMins
				if slot == 0 {
					if dq <= spawn {
						dq = spawn + (entry-spawn)/2
					}
					pts = append(pts, timeline.Point{Min: dq, Val: pose(qx(0), y, 1)})
				} else {
					for j := 0; j < slot; j++ {
						pts = append(pts, timeline.Point{Min: release(j), Val: pose(qx(slot-j), y, 1)})
					}
					dq = release(slot - 1)
				}
				pts = append(pts,
					timeline.Point{Min: entry, Val: pose(0, y, 1)},
					timeline.Point{Min: entry + cross, Val: pose(w, y, 1)},
					timeline.Point{Min: entry + cross + fadeOutMins, Val: pose(w+fadePx, y, 0)},
				)
				states = []timeline.StepPoint{
					{Min: spawn - fadeInMins, Val: string(StateQueued)},
					{Min: dq, Val: string(StateDequeueing)},
					{Min: entry, Val: string(StateTransiting)},
					{Min: entry + cross, Val: string(StateExiting)},
					{Min: entry + cross + fadeOutMins, Val: string(StateOrigin)},
				}
			} else {
				pts = []timeline.Point{
					{Min: entry - fadeInMins, Val: pose(-fadePx, y, 0)},
					{Min: entry, Val: pose(0, y, 1)},
					{Min: entry + cross, Val: pose(w, y, 1)},
					{Min: entry + cross + fadeOutMins, Val: pose(w+fadePx, y, 0)},
				}
				states = []timeline.StepPoint{
					{Min: entry - fadeInMins, Val: string(StateDequeueing)},
					{Min: entry, Val: string(StateTransiting)},
					{Min: entry + cross, Val: string(StateExiting)},
					{Min: entry + cross + fadeOutMins, Val: string(StateOrigin)},
				}
			}

			kv, err := newKeyedVehicle(Period, pts, states)
			if err != nil {
				return nil, fmt.Errorf("car lane %d slot %d: %w", lane, i, err)
			}
			cars = append(cars, &Car{
				ID:           fmt.Sprintf("%s-car-l%d-%02d", dirPrefix(cfg.Direction), lane, i),
				Lane:         lane,
				SpawnMin:     spawn,
				EntryMin:     entry,
				Blocked:      blocked,
				keyedVehicle: kv,
			})
		}
	}
	return cars, nil
}

func laneY(cfg Config, lane int) float64 {
	return cfg.LaneCenterY(lane)
}

func dirPrefix(d Direction) string {
	if d == West {
		return "wb"
	}
	return "eb"
}
