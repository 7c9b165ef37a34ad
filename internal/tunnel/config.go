package tunnel

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Period is the schedule cycle length in minutes. Both bores run the same
// 60-minute schedule shifted by their offsets.
const Period = 60.0

type Direction string

const (
	East Direction = "east"
	West Direction = "west"
)

// Rect is an axis-aligned rectangle in lane-local pixel coordinates.
type Rect struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
	W float64 `yaml:"w" json:"w" validate:"gte=0"`
	H float64 `yaml:"h" json:"h" validate:"gte=0"`
}

// Config holds the immutable parameters for one directional bore.
type Config struct {
	Direction Direction `yaml:"direction" validate:"required,oneof=east west"`
	OffsetMin float64   `yaml:"offset_min" validate:"gte=0"`

	// Geometry, in pixels. Y is the top of the bore's lane bands; the
	// always-open car lane occupies the first band and the shared lane the
	// second. Pen is where bicycles stage before release; its X is
	// lane-local, so negative values sit before the entrance portal.
	Y            float64 `yaml:"y"`
	LaneWidthPx  float64 `yaml:"lane_width_px" validate:"gt=0"`
	LaneHeightPx float64 `yaml:"lane_height_px" validate:"gt=0"`
	Pen          Rect    `yaml:"pen"`

	// Shared schedule constants.
	LengthMi          float64 `yaml:"length_mi" validate:"gt=0"`
	CarMph            float64 `yaml:"car_mph" validate:"gt=0"`
	BikeDownMph       float64 `yaml:"bike_down_mph" validate:"gt=0"`
	BikeUpMph         float64 `yaml:"bike_up_mph" validate:"gt=0"`
	PenCloseMin       float64 `yaml:"pen_close_min" validate:"gt=0"`
	SweepStartMin     float64 `yaml:"sweep_start_min" validate:"gt=0"`
	PaceStartMin      float64 `yaml:"pace_start_min" validate:"gt=0"`
	OfficialResetMins float64 `yaml:"official_reset_mins" validate:"gt=0"`

	CarsPerMin          float64 `yaml:"cars_per_min" validate:"gt=0"`
	BikesPerMin         float64 `yaml:"bikes_per_min" validate:"gt=0"`
	CarsReleasedPerMin  float64 `yaml:"cars_released_per_min" validate:"gt=0"`
	BikesReleasedPerMin float64 `yaml:"bikes_released_per_min" validate:"gt=0"`
}

// Validate checks field constraints and the threshold ordering every derived
// schedule assumes. Construction must reject a bad config outright.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("tunnel config: %w", err)
	}
	if c.OffsetMin >= Period {
		return fmt.Errorf("tunnel config: offset_min %.2f must be below period %.0f", c.OffsetMin, Period)
	}
	if !(c.PenCloseMin < c.SweepStartMin) {
		return fmt.Errorf("tunnel config: pen_close_min %.2f must precede sweep_start_min %.2f", c.PenCloseMin, c.SweepStartMin)
	}
	if !(c.SweepStartMin < c.PaceStartMin) {
		return fmt.Errorf("tunnel config: sweep_start_min %.2f must precede pace_start_min %.2f", c.SweepStartMin, c.PaceStartMin)
	}
	if !(c.PaceStartMin+c.OfficialResetMins < Period) {
		return fmt.Errorf("tunnel config: pace window ends at %.2f, beyond period %.0f", c.PaceStartMin+c.OfficialResetMins, Period)
	}
	if crossMins(c.LengthMi, c.CarMph) > c.SweepStartMin {
		return fmt.Errorf("tunnel config: cars need %.2f min to cross but the sweep starts at %.2f", crossMins(c.LengthMi, c.CarMph), c.SweepStartMin)
	}
	return nil
}

// PaceEndMin is the relative minute at which the pace-car window closes and
// the shared lane fully reopens to cars.
func (c Config) PaceEndMin() float64 {
	return c.PaceStartMin + c.OfficialResetMins
}

// LaneCenterY is the vertical center of a lane band within this bore.
func (c Config) LaneCenterY(lane int) float64 {
	return c.Y + (float64(lane)+0.5)*c.LaneHeightPx
}

// CrossMins is the time a vehicle at mph needs to transit the bore.
func (c Config) CrossMins(mph float64) float64 {
	return crossMins(c.LengthMi, mph)
}

// crossMins converts a length and speed to minutes needed to cross.
func crossMins(lengthMi, mph float64) float64 {
	return lengthMi / mph * 60
}

// pxPerMin is the on-screen rate of a vehicle crossing widthPx of tunnel at
// the given road speed.
func pxPerMin(widthPx, lengthMi, mph float64) float64 {
	return widthPx / crossMins(lengthMi, mph)
}
