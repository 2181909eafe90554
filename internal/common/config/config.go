package config

// Config is the main application configuration struct.
type Config struct {
	App         AppConfig               `mapstructure:"app"`
	Camunda     CamundaConfig           `mapstructure:"camunda"`
	Database    DatabaseConfig          `mapstructure:"database"`
	Workers     map[string]WorkerConfig `mapstructure:"workers"`
	Logging     LoggingConfig           `mapstructure:"logging"`
	Server      ServerConfig            `mapstructure:"server"`
	Persona     PersonaConfig           `mapstructure:"persona"`
	Funnel      FunnelConfig            `mapstructure:"funnel"`
	Initiatives InitiativesConfig       `mapstructure:"initiatives"`
	Registry    RegistryConfig          `mapstructure:"registry"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	Plaintext      bool   `mapstructure:"plaintext"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// ServerConfig configures the health and metrics listener.
type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// --- Domain Configuration Sections ---

// PersonaConfig holds the persona shown before any selection is made.
type PersonaConfig struct {
	Default string `mapstructure:"default"`
}

// FunnelConfig holds the funnel simulator inputs and chart output settings.
type FunnelConfig struct {
	Defaults FunnelDefaults `mapstructure:"defaults"`
	Surface  string         `mapstructure:"surface"`
	Renderer string         `mapstructure:"renderer"` // pdf | memory
	ChartDir string         `mapstructure:"chart_dir"`
}

// FunnelDefaults are the pre-filled simulator inputs.
type FunnelDefaults struct {
	Leads           float64 `mapstructure:"leads"`
	WinRate         float64 `mapstructure:"win_rate"`
	ImprovedWinRate float64 `mapstructure:"improved_win_rate"`
	DealValue       float64 `mapstructure:"deal_value"`
}

// InitiativesConfig selects where prioritisation boards are kept.
type InitiativesConfig struct {
	Store        string `mapstructure:"store"`     // memory | redis
	BoardTTL     int    `mapstructure:"board_ttl"` // seconds
	DefaultBoard string `mapstructure:"default_board"`
}

// RegistryConfig points at the activity registry file.
type RegistryConfig struct {
	Path string `mapstructure:"path"`
}
