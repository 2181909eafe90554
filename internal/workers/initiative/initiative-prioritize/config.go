package initiativeprioritize

import (
	"fmt"
	"time"
)

type Config struct {
	Enabled       bool          `mapstructure:"enabled"`
	MaxJobsActive int           `mapstructure:"max_jobs_active"`
	Timeout       time.Duration `mapstructure:"timeout"`
	DefaultBoard  string        `mapstructure:"default_board"`
	MaxItems      int           `mapstructure:"max_items"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       10 * time.Second,
		DefaultBoard:  "default",
		MaxItems:      100,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	if !boardIDPattern.MatchString(c.DefaultBoard) {
		return fmt.Errorf("default_board %q must match %s", c.DefaultBoard, boardIDExpr)
	}
	if c.MaxItems <= 0 {
		return fmt.Errorf("max_items must be positive")
	}
	return nil
}
