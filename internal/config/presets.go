package config

import (
	"sort"

	"github.com/pulselane/tunnelsim/internal/tunnel"
)

// Presets are named variations on the default layout. Escort speeds are
// tied to the phase windows, so presets vary geometry and traffic volume
// rather than the minute schedule.
var Presets = map[string]func() *Config{
	"default": DefaultConfig,
	"compact": func() *Config {
		cfg := DefaultConfig()
		scale := 600.0 / DefaultLaneWidthPx
		for _, t := range bores(cfg) {
			t.LaneWidthPx *= scale
			t.Pen.X *= scale
			t.Pen.W *= scale
		}
		cfg.Scene.Sweep.StagingOffsetPx *= scale
		cfg.Scene.Pace.StagingOffsetPx *= scale
		return cfg
	},
	"busy": func() *Config {
		cfg := DefaultConfig()
		for _, t := range bores(cfg) {
			t.CarsPerMin = 2
			t.CarsReleasedPerMin = 6
			t.BikesPerMin = 1
			t.BikesReleasedPerMin = 25
		}
		return cfg
	},
	"steep": func() *Config {
		cfg := DefaultConfig()
		for _, t := range bores(cfg) {
			t.BikeDownMph = 24
			t.BikeUpMph = 8
		}
		return cfg
	},
}

func bores(cfg *Config) []*tunnel.Config {
	return []*tunnel.Config{&cfg.Scene.East, &cfg.Scene.West}
}

func GetPreset(name string) *Config {
	f, ok := Presets[name]
	if !ok {
		return nil
	}
	return f()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
