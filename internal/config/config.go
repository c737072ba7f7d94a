package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/penwyp/go-deckview/internal/core/constants"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the on-disk configuration of the viewer
type Config struct {
	Database  string        `yaml:"database"`
	CacheDir  string        `yaml:"cacheDir"`
	Timezone  string        `yaml:"timezone"`
	Period    time.Duration `yaml:"period"`
	RangeDays int           `yaml:"rangeDays"`
	Chart     ChartConfig   `yaml:"chart"`
	Watch     WatchConfig   `yaml:"watch"`
}

// ChartConfig holds rendering settings for the line chart
type ChartConfig struct {
	Width            int     `yaml:"width"`
	Height           int     `yaml:"height"`
	Foreground       string  `yaml:"foreground"`
	Background       string  `yaml:"background"`
	ForegroundStroke float64 `yaml:"foregroundStroke"`
	BackgroundStroke float64 `yaml:"backgroundStroke"`
}

// WatchConfig holds settings for the live chart
type WatchConfig struct {
	// Refresh is a cron spec; descriptors such as "@every 30s" are accepted.
	Refresh string `yaml:"refresh"`
}

// Default returns the built-in configuration
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads path and validates it. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// defaults only
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Database == "" {
		c.Database = "./deck.db"
	}
	if c.CacheDir == "" {
		c.CacheDir = "~/.go-deckview/cache"
	}
	if c.Timezone == "" {
		c.Timezone = "Local"
	}
	if c.Period == 0 {
		c.Period = constants.DayPeriod
	}
	if c.RangeDays == 0 {
		c.RangeDays = constants.DefaultRangeDays
	}
	if c.Chart.Width == 0 {
		c.Chart.Width = 1280
	}
	if c.Chart.Height == 0 {
		c.Chart.Height = 800
	}
	if c.Chart.Foreground == "" {
		c.Chart.Foreground = "#ff0000"
	}
	if c.Chart.Background == "" {
		c.Chart.Background = "#a0a0a0"
	}
	if c.Chart.ForegroundStroke == 0 {
		c.Chart.ForegroundStroke = 5
	}
	if c.Chart.BackgroundStroke == 0 {
		c.Chart.BackgroundStroke = 0.1
	}
	if c.Watch.Refresh == "" {
		c.Watch.Refresh = constants.DefaultWatchRefresh
	}
}

// Validate fills defaults and checks the configuration
func (c *Config) Validate() error {
	c.applyDefaults()

	if c.Period < time.Second {
		return fmt.Errorf("%w: period must be at least 1s, got %s", ErrInvalidConfig, c.Period)
	}
	if c.Period%time.Second != 0 {
		return fmt.Errorf("%w: period must be a whole number of seconds, got %s", ErrInvalidConfig, c.Period)
	}
	if c.RangeDays < 1 {
		return fmt.Errorf("%w: rangeDays must be at least 1, got %d", ErrInvalidConfig, c.RangeDays)
	}
	if c.Chart.Width < 100 || c.Chart.Height < 100 {
		return fmt.Errorf("%w: chart must be at least 100x100, got %dx%d", ErrInvalidConfig, c.Chart.Width, c.Chart.Height)
	}
	if c.Chart.ForegroundStroke < 0 || c.Chart.BackgroundStroke < 0 {
		return fmt.Errorf("%w: stroke widths must not be negative", ErrInvalidConfig)
	}
	if _, err := ParseSchedule(c.Watch.Refresh); err != nil {
		return fmt.Errorf("%w: watch.refresh: %v", ErrInvalidConfig, err)
	}
	return nil
}

// ParseSchedule parses a standard cron spec or descriptor.
func ParseSchedule(spec string) (cron.Schedule, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	return parser.Parse(spec)
}
