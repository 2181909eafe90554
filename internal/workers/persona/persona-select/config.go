package personaselect

import (
	"fmt"
	"time"

	"productlab-workers/internal/models"
)

type Config struct {
	Enabled        bool              `mapstructure:"enabled"`
	MaxJobsActive  int               `mapstructure:"max_jobs_active"`
	Timeout        time.Duration     `mapstructure:"timeout"`
	DefaultPersona models.PersonaKey `mapstructure:"default_persona"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:        true,
		MaxJobsActive:  5,
		Timeout:        10 * time.Second,
		DefaultPersona: models.PersonaSalesLead,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	if _, err := models.ParsePersonaKey(string(c.DefaultPersona)); err != nil {
		return fmt.Errorf("default_persona: %w", err)
	}
	return nil
}
