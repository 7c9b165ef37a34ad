package viz

import (
	"fmt"
	"strings"

	"github.com/pulselane/tunnelsim/internal/scene"
	"github.com/pulselane/tunnelsim/internal/tunnel"
)

type cell byte

const (
	cellRoad cell = iota
	cellGreen
	cellRed
	cellCar
	cellBike
	cellSweep
	cellPace
)

var cellGlyphs = map[cell]string{
	cellRoad:  roadStyle.Render("·"),
	cellGreen: greenStyle.Render("░"),
	cellRed:   redStyle.Render("▒"),
	cellCar:   carStyle.Render("▪"),
	cellBike:  bikeStyle.Render("o"),
	cellSweep: sweepStyle.Render("S"),
	cellPace:  paceStyle.Render("P"),
}

// Canvas rasterizes one frame into terminal rows: two lane rows per bore,
// westbound mirrored so both directions read toward their own exits.
type Canvas struct {
	cols int
	rows map[rowKey][]cell
}

type rowKey struct {
	dir  tunnel.Direction
	lane int
}

func NewCanvas(cols int) *Canvas {
	if cols < 10 {
		cols = 10
	}
	c := &Canvas{cols: cols, rows: make(map[rowKey][]cell)}
	for _, dir := range []tunnel.Direction{tunnel.East, tunnel.West} {
		for lane := tunnel.LaneOpen; lane <= tunnel.LaneShared; lane++ {
			row := make([]cell, cols)
			c.rows[rowKey{dir, lane}] = row
		}
	}
	return c
}

// col maps a lane-local x to a canvas column, mirroring the westbound bore.
func (c *Canvas) col(dir tunnel.Direction, x, laneWidthPx float64) (int, bool) {
	i := int(x / laneWidthPx * float64(c.cols))
	if i < 0 || i >= c.cols {
		return 0, false
	}
	if dir == tunnel.West {
		i = c.cols - 1 - i
	}
	return i, true
}

// Render draws a frame. Vehicles paint over zones; queued vehicles sit
// outside the bore and are summarized in the header counts instead.
func Render(f *scene.Frame, cfg scene.Config, cols int) string {
	c := NewCanvas(cols)
	laneW := cfg.East.LaneWidthPx

	for _, r := range f.Rectangles {
		zc := cellGreen
		if r.Color == "red" {
			zc = cellRed
		}
		row := c.rows[rowKey{r.Dir, tunnel.LaneShared}]
		for x := r.X; x < r.X+r.Width; x += laneW / float64(cols) {
			if i, ok := c.col(r.Dir, x, laneW); ok {
				row[i] = zc
			}
		}
	}

	queued := map[tunnel.Direction]map[tunnel.VehicleType]int{
		tunnel.East: {}, tunnel.West: {},
	}
	for _, v := range f.Vehicles {
		if v.Dir == "" {
			continue // escort crossing between bores
		}
		if v.Pos.State == tunnel.StateQueued {
			queued[v.Dir][v.Type]++
			continue
		}
		if i, ok := c.col(v.Dir, v.Pos.X, laneW); ok {
			c.rows[rowKey{v.Dir, v.Lane}][i] = vehicleCell(v.Type)
		}
	}

	var sb strings.Builder
	writeBore := func(dir tunnel.Direction, phase tunnel.Phase, arrow string) {
		q := queued[dir]
		sb.WriteString(fmt.Sprintf("%s %s  %s   %s\n",
			Header.Render(strings.ToUpper(string(dir))+"BOUND"),
			Subtle.Render(arrow),
			Phase(phase),
			Subtle.Render(fmt.Sprintf("queued cars %d · penned bikes %d", q[tunnel.TypeCar], q[tunnel.TypeBike]))))
		for lane := tunnel.LaneOpen; lane <= tunnel.LaneShared; lane++ {
			label := "cars  "
			if lane == tunnel.LaneShared {
				label = "shared"
			}
			sb.WriteString(Subtle.Render(label) + " ")
			for _, cl := range c.rows[rowKey{dir, lane}] {
				sb.WriteString(cellGlyphs[cl])
			}
			sb.WriteString("\n")
		}
	}

	writeBore(tunnel.East, f.Phases.East, "▶")
	sb.WriteString("\n")
	writeBore(tunnel.West, f.Phases.West, "◀")
	return sb.String()
}

func vehicleCell(t tunnel.VehicleType) cell {
	switch t {
	case tunnel.TypeBike:
		return cellBike
	case tunnel.TypeSweep:
		return cellSweep
	case tunnel.TypePace:
		return cellPace
	default:
		return cellCar
	}
}
