package tunnel

// ZoneSpan is the shared lane's color overlay at one relative minute, in
// lane-local pixels. Green is the bike-exclusive stretch; red is the buffer
// between the pace car and the sweep. A nil span means the lane is in plain
// car service.
type ZoneSpan struct {
	GreenStart float64 `json:"greenStart"`
	GreenEnd   float64 `json:"greenEnd"`
	RedStart   float64 `json:"redStart"`
	RedEnd     float64 `json:"redEnd"`
}

const zoneEps = 1e-9

// ZonesAt derives the overlay boundaries for a relative minute. The green
// leading edge advances from the entrance at car speed from cycle start; the
// green trailing edge follows the sweep and the red trailing edge follows
// the pace car, each crossing the tunnel over its own phase window. All
// three fronts are continuous in relMin, so the painted sweep is smooth at
// fractional minutes.
func (c Config) ZonesAt(relMin float64) *ZoneSpan {
	if relMin < 0 || relMin >= c.PaceEndMin() {
		return nil
	}
	w := c.LaneWidthPx

	carRate := pxPerMin(w, c.LengthMi, c.CarMph)
	sweepRate := w / (c.PaceEndMin() - c.SweepStartMin)
	paceRate := w / c.OfficialResetMins

	greenEnd := clampPx(carRate*relMin, w)
	greenStart := clampPx(sweepRate*(relMin-c.SweepStartMin), w)
	redStart := clampPx(paceRate*(relMin-c.PaceStartMin), w)

	span := &ZoneSpan{
		GreenStart: greenStart,
		GreenEnd:   greenEnd,
		RedStart:   redStart,
		RedEnd:     greenStart,
	}
	if span.GreenEnd-span.GreenStart <= zoneEps && span.RedEnd-span.RedStart <= zoneEps {
		return nil
	}
	return span
}

func clampPx(v, w float64) float64 {
	if v < 0 {
		return 0
	}
	if v > w {
		return w
	}
	return v
}
