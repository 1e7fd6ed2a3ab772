// Package config loads the rtplot YAML configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/norasector/rtplot/pkg/figure"
	"github.com/norasector/rtplot/pkg/normalize"
)

type Config struct {
	Figure    Figure `yaml:"figure"`
	VizServer struct {
		Addr           string        `yaml:"addr"`
		Port           int           `yaml:"port"`
		UpdateInterval time.Duration `yaml:"update_interval"`
	} `yaml:"viz_server"`
	InfluxDB struct {
		Host         string `yaml:"host"`
		Token        string `yaml:"token"`
		Organization string `yaml:"organization"`
		Bucket       string `yaml:"bucket"`
	} `yaml:"influxdb"`
	UDP struct {
		Listen string `yaml:"listen"`
	} `yaml:"udp"`
	Capture struct {
		Path       string        `yaml:"path"`
		SampleRate int           `yaml:"sample_rate"`
		CenterFreq int           `yaml:"center_freq"`
		ReadSize   int           `yaml:"read_size"`
		Interval   time.Duration `yaml:"interval"`
		Loop       bool          `yaml:"loop"`
		// Shift moves the capture in frequency before display, in Hz.
		Shift float64 `yaml:"shift"`
	} `yaml:"capture"`
	// OutputPath switches rendering from the web surface to a PNG file.
	OutputPath string        `yaml:"output_path"`
	FrameDelay time.Duration `yaml:"frame_delay"`
}

// Figure holds overrides for the demo's figure. Zero values keep the demo's
// own setting.
type Figure struct {
	Title    string           `yaml:"title"`
	Width    int              `yaml:"width"`
	Height   int              `yaml:"height"`
	XLim     []float32        `yaml:"xlim,flow"`
	YLim     []float32        `yaml:"ylim,flow"`
	XLabel   string           `yaml:"xlabel"`
	YLabel   string           `yaml:"ylabel"`
	Color    *figure.Color    `yaml:"color"`
	Style    *figure.PlotKind `yaml:"style"`
	Capacity *int             `yaml:"capacity"`
}

func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Figure.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func limits(name string, lim []float32) error {
	if len(lim) != 0 && len(lim) != 2 {
		return fmt.Errorf("%s needs [min, max], got %d values", name, len(lim))
	}
	return nil
}

func (f Figure) validate() error {
	if err := limits("xlim", f.XLim); err != nil {
		return err
	}
	if err := limits("ylim", f.YLim); err != nil {
		return err
	}
	if f.Capacity != nil && *f.Capacity < 0 {
		return fmt.Errorf("capacity must not be negative, got %d", *f.Capacity)
	}
	return nil
}

// Apply layers the overrides on top of b.
func (f Figure) Apply(b figure.Builder) figure.Builder {
	if f.Title != "" {
		b = b.Title(f.Title)
	}
	if f.Width > 0 && f.Height > 0 {
		b = b.Size(f.Width, f.Height)
	}
	if len(f.XLim) == 2 {
		b = b.XAxis(normalize.FixedAxis(f.XLim[0], f.XLim[1]))
	}
	if len(f.YLim) == 2 {
		b = b.YAxis(normalize.FixedAxis(f.YLim[0], f.YLim[1]))
	}
	if f.XLabel != "" {
		b = b.XLabel(f.XLabel)
	}
	if f.YLabel != "" {
		b = b.YLabel(f.YLabel)
	}
	if f.Color != nil {
		b = b.Color(f.Color[0], f.Color[1], f.Color[2])
	}
	if f.Style != nil {
		b = b.PlotStyle(*f.Style)
	}
	if f.Capacity != nil {
		b = b.WithCapacity(*f.Capacity)
	}
	return b
}

// WebAddr is the listen address for the web surface.
func (c *Config) WebAddr() string {
	if c.VizServer.Addr != "" {
		return c.VizServer.Addr
	}
	return fmt.Sprintf(":%d", c.VizServer.Port)
}
