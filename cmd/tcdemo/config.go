package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/timechart/series"
)

// config describes one demo run. Zero fields fall back to defaults.
type config struct {
	Width     int            `yaml:"width"`
	Height    int            `yaml:"height"`
	Output    string         `yaml:"output"`
	Backend   string         `yaml:"backend"`
	Frames    int            `yaml:"frames"`
	Batch     int            `yaml:"batch"`
	Window    float64        `yaml:"window"`
	LineWidth float64        `yaml:"lineWidth"`
	Series    []seriesConfig `yaml:"series"`
}

type seriesConfig struct {
	Name      string  `yaml:"name"`
	LineType  string  `yaml:"lineType"`
	Wave      string  `yaml:"wave"`
	Color     string  `yaml:"color"`
	Amplitude float64 `yaml:"amplitude"`
	Period    float64 `yaml:"period"`
	Phase     float64 `yaml:"phase"`
}

func defaultConfig() config {
	return config{
		Width:     800,
		Height:    400,
		Output:    "timechart.png",
		Backend:   "software",
		Frames:    60,
		Batch:     50,
		Window:    1000,
		LineWidth: 2,
		Series: []seriesConfig{
			{Name: "sine", LineType: "line", Wave: "sine", Color: "#1f77b4", Amplitude: 1, Period: 200},
			{Name: "square", LineType: "step", Wave: "square", Color: "#ff7f0e", Amplitude: 0.5, Period: 150},
		},
	}
}

// loadConfig reads path over the defaults. An empty path returns the defaults.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.validate()
}

func (c config) validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid size %dx%d", c.Width, c.Height)
	}
	if c.Window <= 0 {
		return fmt.Errorf("window must be positive, got %g", c.Window)
	}
	for _, s := range c.Series {
		if _, ok := series.ParseLineType(s.LineType); !ok {
			return fmt.Errorf("series %q: unknown line type %q", s.Name, s.LineType)
		}
		switch s.Wave {
		case "", "sine", "square", "saw":
		default:
			return fmt.Errorf("series %q: unknown wave %q", s.Name, s.Wave)
		}
		if _, err := parseColor(s.Color); err != nil {
			return fmt.Errorf("series %q: %w", s.Name, err)
		}
	}
	return nil
}
