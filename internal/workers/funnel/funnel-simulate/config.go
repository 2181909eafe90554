package funnelsimulate

import (
	"fmt"
	"time"

	"productlab-workers/internal/common/config"
)

type Config struct {
	Enabled       bool          `mapstructure:"enabled"`
	MaxJobsActive int           `mapstructure:"max_jobs_active"`
	Timeout       time.Duration `mapstructure:"timeout"`
	Defaults      FunnelInputs  `mapstructure:"defaults"`
	Surface       string        `mapstructure:"surface"`
	Renderer      string        `mapstructure:"renderer"`
	ChartDir      string        `mapstructure:"chart_dir"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       10 * time.Second,
		Defaults: FunnelInputs{
			Leads:           200,
			WinRate:         15,
			ImprovedWinRate: 25,
			DealValue:       40000,
		},
		Surface:  "revenueChart",
		Renderer: config.RendererMemory,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	if !surfacePattern.MatchString(c.Surface) {
		return fmt.Errorf("surface %q must match %s", c.Surface, surfacePattern)
	}
	switch c.Renderer {
	case config.RendererMemory:
	case config.RendererPDF:
		if c.ChartDir == "" {
			return fmt.Errorf("chart_dir is required for the pdf renderer")
		}
	default:
		return fmt.Errorf("unknown renderer %q", c.Renderer)
	}
	return nil
}
