package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/san-kum/bubblechart/internal/chart"
	"gopkg.in/yaml.v3"
)

const (
	DefaultContainerWidth = 960
	DefaultViewportHeight = 620
	DefaultInterval       = 800 * time.Millisecond
	DefaultTransition     = 400 * time.Millisecond
	DefaultFPS            = 30
	DefaultTheme          = "cyberpunk"
	DefaultOutputDir      = ".bubblechart"
	DefaultLogLevel       = "info"
)

var (
	ErrInvalidSize     = errors.New("config: layout sizes must be positive")
	ErrInvalidTiming   = errors.New("config: interval must be positive and transition non-negative")
	ErrInvalidFPS      = errors.New("config: fps must be positive")
	ErrInvalidDomain   = errors.New("config: scale domain is invalid")
	ErrInvalidRadius   = errors.New("config: radius range must be positive and increasing")
	ErrRadiusDomain    = errors.New("config: radius_domain must be \"frame\" or \"global\"")
	ErrUnknownLogLevel = errors.New("config: unknown log level")
	ErrUnknownPreset   = errors.New("config: unknown preset")
)

type Config struct {
	Dataset   string          `yaml:"dataset"`
	Layout    LayoutConfig    `yaml:"layout"`
	Animation AnimationConfig `yaml:"animation"`
	Scale     ScaleConfig     `yaml:"scale"`
	Theme     string          `yaml:"theme"`
	OutputDir string          `yaml:"output_dir"`
	LogLevel  string          `yaml:"log_level"`
}

type LayoutConfig struct {
	ContainerWidth float64       `yaml:"container_width"`
	ViewportHeight float64       `yaml:"viewport_height"`
	Chrome         float64       `yaml:"chrome"`
	Margins        chart.Margins `yaml:"margins"`
}

type AnimationConfig struct {
	Interval   time.Duration `yaml:"interval"`
	Transition time.Duration `yaml:"transition"`
	FPS        int           `yaml:"fps"`
}

type ScaleConfig struct {
	XDomain      [2]float64 `yaml:"x_domain"`
	YDomain      [2]float64 `yaml:"y_domain"`
	RadiusRange  [2]float64 `yaml:"radius_range"`
	RadiusDomain string     `yaml:"radius_domain"`
	XTicks       []float64  `yaml:"x_ticks"`
}

func DefaultConfig() *Config {
	opts := chart.DefaultOptions()
	return &Config{
		Layout: LayoutConfig{
			ContainerWidth: DefaultContainerWidth,
			ViewportHeight: DefaultViewportHeight,
			Chrome:         chart.DefaultChrome,
			Margins:        chart.DefaultMargins,
		},
		Animation: AnimationConfig{
			Interval:   DefaultInterval,
			Transition: DefaultTransition,
			FPS:        DefaultFPS,
		},
		Scale: ScaleConfig{
			XDomain:      opts.XDomain,
			YDomain:      opts.YDomain,
			RadiusRange:  opts.RadiusRange,
			RadiusDomain: string(opts.RadiusDomain),
			XTicks:       opts.XTicks,
		},
		Theme:     DefaultTheme,
		OutputDir: DefaultOutputDir,
		LogLevel:  DefaultLogLevel,
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
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
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

func (c *Config) Validate() error {
	l := c.Layout
	if l.ContainerWidth <= 0 || l.ViewportHeight <= 0 || l.Chrome < 0 {
		return ErrInvalidSize
	}
	if c.Animation.Interval <= 0 || c.Animation.Transition < 0 {
		return ErrInvalidTiming
	}
	if c.Animation.FPS <= 0 {
		return ErrInvalidFPS
	}
	s := c.Scale
	if s.XDomain[0] <= 0 || s.XDomain[1] <= s.XDomain[0] || s.YDomain[1] == s.YDomain[0] {
		return ErrInvalidDomain
	}
	if s.RadiusRange[0] <= 0 || s.RadiusRange[1] < s.RadiusRange[0] {
		return ErrInvalidRadius
	}
	switch chart.RadiusDomain(s.RadiusDomain) {
	case chart.DomainFrame, chart.DomainGlobal:
	default:
		return ErrRadiusDomain
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownLogLevel, c.LogLevel)
	}
	return nil
}

// ChartLayout returns the plot area geometry.
func (c *Config) ChartLayout() chart.Layout {
	l := c.Layout
	return chart.NewLayout(l.ContainerWidth, l.ViewportHeight, l.Chrome, l.Margins)
}

// ChartOptions returns the scale settings for the chart package.
func (c *Config) ChartOptions() chart.Options {
	opts := chart.DefaultOptions()
	opts.XDomain = c.Scale.XDomain
	opts.YDomain = c.Scale.YDomain
	opts.RadiusRange = c.Scale.RadiusRange
	opts.RadiusDomain = chart.RadiusDomain(c.Scale.RadiusDomain)
	if len(c.Scale.XTicks) > 0 {
		opts.XTicks = c.Scale.XTicks
	}
	return opts
}
