package export

import (
	"fmt"
	"strings"

	"github.com/pulselane/tunnelsim/internal/scene"
	"github.com/pulselane/tunnelsim/internal/tunnel"
)

const svgMargin = 300.0

var zoneFill = map[string]string{
	"green": "#00cc66",
	"red":   "#cc3344",
}

var vehicleFill = map[tunnel.VehicleType]string{
	tunnel.TypeCar:   "#dddddd",
	tunnel.TypeBike:  "#ffaa00",
	tunnel.TypeSweep: "#ff66ff",
	tunnel.TypePace:  "#33bbff",
}

// SceneToSVG renders one instant as a standalone SVG document. The model's
// lane-local coordinates are translated into one shared canvas: the
// westbound bore is mirrored so its traffic flows right to left.
func SceneToSVG(sys *scene.System, absMin float64) (string, error) {
	frame, err := sys.At(absMin)
	if err != nil {
		return "", err
	}
	cfg := sys.Config()

	laneW := cfg.East.LaneWidthPx
	width := laneW + 2*svgMargin
	height := cfg.West.Pen.Y + cfg.West.Pen.H + 40

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for _, bore := range []tunnel.Config{cfg.East, cfg.West} {
		for lane := tunnel.LaneOpen; lane <= tunnel.LaneShared; lane++ {
			sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="#1c1c1c" stroke="#333333"/>
`, svgMargin, bore.Y+float64(lane)*bore.LaneHeightPx, laneW, bore.LaneHeightPx))
		}
		penX := bore.Pen.X
		if bore.Direction == tunnel.West {
			penX = laneW - bore.Pen.X - bore.Pen.W
		}
		sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="#555555" stroke-dasharray="4 3"/>
`, penX+svgMargin, bore.Pen.Y, bore.Pen.W, bore.Pen.H))
	}

	for _, r := range frame.Rectangles {
		x := r.X
		if r.Dir == tunnel.West {
			x = laneW - r.X - r.Width
		}
		sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" fill-opacity="0.35"/>
`, x+svgMargin, r.Y, r.Width, r.Height, zoneFill[r.Color]))
	}

	for _, v := range frame.Vehicles {
		x := v.Pos.X
		if v.Dir != "" {
			x = sceneX(v.Dir, v.Pos.X, laneW)
		}
		fill := vehicleFill[v.Type]
		switch v.Type {
		case tunnel.TypeBike:
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="4" fill="%s" fill-opacity="%.2f"/>
`, x+svgMargin, v.Pos.Y, fill, v.Pos.Opacity))
		default:
			sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="14" height="8" rx="2" fill="%s" fill-opacity="%.2f"/>
`, x+svgMargin-7, v.Pos.Y-4, fill, v.Pos.Opacity))
		}
	}

	sb.WriteString(fmt.Sprintf(`<text x="12" y="20" fill="#888888" font-family="monospace" font-size="13">t=%.2f min · east %s · west %s</text>
`, absMin, frame.Phases.East, frame.Phases.West))
	sb.WriteString("</svg>\n")
	return sb.String(), nil
}

// sceneX converts a lane-local x to the shared canvas: the westbound bore
// enters on the right.
func sceneX(dir tunnel.Direction, x, laneW float64) float64 {
	if dir == tunnel.West {
		return laneW - x
	}
	return x
}
