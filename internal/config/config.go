package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pulselane/tunnelsim/internal/escort"
	"github.com/pulselane/tunnelsim/internal/scene"
	"github.com/pulselane/tunnelsim/internal/tunnel"
)

const (
	DefaultLaneWidthPx  = 800.0
	DefaultLaneHeightPx = 40.0
	DefaultEastOffset   = 45.0
	DefaultWestOffset   = 15.0
	DefaultFrameRate    = 30
	DefaultSpeed        = 1.0 // simulated minutes per wall second
)

// Config is the full application configuration: the scene the model is
// built from plus display preferences for the live viewer. The model core
// never reads the display fields.
type Config struct {
	Scene     scene.Config `yaml:"scene"`
	FrameRate int          `yaml:"frame_rate"`
	Speed     float64      `yaml:"speed_min_per_sec"`
}

func DefaultConfig() *Config {
	east := tunnel.Config{
		Direction:           tunnel.East,
		OffsetMin:           DefaultEastOffset,
		Y:                   40,
		LaneWidthPx:         DefaultLaneWidthPx,
		LaneHeightPx:        DefaultLaneHeightPx,
		Pen:                 tunnel.Rect{X: -260, Y: 130, W: 220, H: 60},
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
	west.OffsetMin = DefaultWestOffset
	west.Y = 220
	west.Pen = tunnel.Rect{X: -260, Y: 310, W: 220, H: 60}

	return &Config{
		Scene: scene.Config{
			East:  east,
			West:  west,
			Sweep: escort.Params{Mph: 12, StagingOffsetPx: 80},
			Pace:  escort.Params{Mph: 24, StagingOffsetPx: 80},
		},
		FrameRate: DefaultFrameRate,
		Speed:     DefaultSpeed,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
