package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// keyDelimiter replaces viper's "." so task types such as
// "funnel.revenue.simulate" can be used as keys under workers.
const keyDelimiter = "::"

const (
	RendererPDF    = "pdf"
	RendererMemory = "memory"

	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Load reads configs/config.yaml, merges config.<APP_ENVIRONMENT>.yaml on top and
// applies environment overrides (CAMUNDA_BROKER_ADDRESS, FUNNEL_CHART_DIR, ...).
func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")
	if root := findProjectRoot(); root != "" {
		v.AddConfigPath(filepath.Join(root, "configs"))
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig()

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func newViper() *viper.Viper {
	v := viper.NewWithOptions(viper.KeyDelimiter(keyDelimiter))
	v.SetEnvKeyReplacer(strings.NewReplacer(keyDelimiter, "_", ".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// setDefaults registers defaults for keys where an explicit zero is meaningful.
func setDefaults(v *viper.Viper) {
	key := func(parts ...string) string { return strings.Join(parts, keyDelimiter) }

	v.SetDefault(key("funnel", "defaults", "leads"), 200)
	v.SetDefault(key("funnel", "defaults", "win_rate"), 15)
	v.SetDefault(key("funnel", "defaults", "improved_win_rate"), 25)
	v.SetDefault(key("funnel", "defaults", "deal_value"), 40000)
	v.SetDefault(key("camunda", "plaintext"), true)
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up from the working directory looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// expandEnvVars resolves ${VAR} placeholders in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			if expanded := os.ExpandEnv(strVal); expanded != strVal {
				v.Set(key, expanded)
			}
		}
	}
}

// applyDefaults sets default values for optional configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "productlab-workers"
	}

	if cfg.Camunda.BrokerAddress == "" {
		cfg.Camunda.BrokerAddress = "localhost:26500"
	}
	if cfg.Camunda.MaxJobsActive == 0 {
		cfg.Camunda.MaxJobsActive = 10
	}
	if cfg.Camunda.Timeout == 0 {
		cfg.Camunda.Timeout = 30000
	}
	if cfg.Camunda.RequestTimeout == 0 {
		cfg.Camunda.RequestTimeout = 30000
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}

	if cfg.Persona.Default == "" {
		cfg.Persona.Default = "salesLead"
	}

	if cfg.Funnel.Surface == "" {
		cfg.Funnel.Surface = "revenueChart"
	}
	if cfg.Funnel.Renderer == "" {
		cfg.Funnel.Renderer = RendererPDF
	}
	if cfg.Funnel.ChartDir == "" {
		cfg.Funnel.ChartDir = filepath.Join(os.TempDir(), "productlab-charts")
	}

	if cfg.Initiatives.Store == "" {
		cfg.Initiatives.Store = StoreMemory
	}
	if cfg.Initiatives.BoardTTL == 0 {
		cfg.Initiatives.BoardTTL = 86400
	}
	if cfg.Initiatives.DefaultBoard == "" {
		cfg.Initiatives.DefaultBoard = "default"
	}

	if cfg.Registry.Path == "" {
		cfg.Registry.Path = "configs/activity-registry.json"
	}

	for key, worker := range cfg.Workers {
		if worker.MaxJobsActive == 0 {
			worker.MaxJobsActive = 5
		}
		if worker.Timeout == 0 {
			worker.Timeout = 10000
		}
		if worker.MaxRetries == 0 {
			worker.MaxRetries = 3
		}
		cfg.Workers[key] = worker
	}
}

// validateConfig validates critical configuration fields.
func validateConfig(cfg *Config) error {
	switch cfg.Funnel.Renderer {
	case RendererPDF, RendererMemory:
	default:
		return fmt.Errorf("funnel.renderer must be %q or %q, got %q", RendererPDF, RendererMemory, cfg.Funnel.Renderer)
	}

	switch cfg.Initiatives.Store {
	case StoreMemory:
	case StoreRedis:
		if cfg.Database.Redis.Address == "" {
			return fmt.Errorf("database.redis.address is required when initiatives.store is %q", StoreRedis)
		}
	default:
		return fmt.Errorf("initiatives.store must be %q or %q, got %q", StoreMemory, StoreRedis, cfg.Initiatives.Store)
	}

	if cfg.Initiatives.BoardTTL < 0 {
		return fmt.Errorf("initiatives.board_ttl must not be negative")
	}

	for name, w := range cfg.Workers {
		if w.MaxJobsActive < 0 || w.Timeout < 0 {
			return fmt.Errorf("workers.%s: max_jobs_active and timeout must not be negative", name)
		}
	}
	return nil
}

// GetDuration converts milliseconds from config to time.Duration.
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// GetWorkerConfig retrieves worker-specific configuration with fallback to defaults.
func GetWorkerConfig(cfg *Config, taskType string) WorkerConfig {
	if worker, exists := cfg.Workers[taskType]; exists {
		return worker
	}
	return WorkerConfig{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       10000,
		MaxRetries:    3,
	}
}

// IsWorkerEnabled checks if a specific worker is enabled.
func IsWorkerEnabled(cfg *Config, taskType string) bool {
	if worker, exists := cfg.Workers[taskType]; exists {
		return worker.Enabled
	}
	return true
}
