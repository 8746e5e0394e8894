package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the recordbook configuration.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	Database    DatabaseConfig    `yaml:"database"`
	Storage     StorageConfig     `yaml:"storage"`
	Interpreter InterpreterConfig `yaml:"interpreter"`
	Dispatch    DispatchConfig    `yaml:"dispatch"`
	Auth        AuthConfig        `yaml:"auth"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// Database drivers.
const (
	DriverValkey = "valkey"
	DriverRedis  = "redis"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// DatabaseConfig holds record store settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // valkey, redis, sqlite, memory (default: valkey)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	Path             string   `yaml:"path"` // sqlite file, ":memory:" allowed
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
}

// Interpreter modes.
const (
	InterpreterRemote  = "remote"
	InterpreterBuiltin = "builtin"
)

// Built-in interpreter providers.
const (
	ProviderOpenAI  = "openai"
	ProviderKeyword = "keyword"
)

// InterpreterConfig selects the command interpreter.
// In remote mode commands go to URL; in builtin mode the server classifies
// them itself with Provider and also serves POST /api/command.
type InterpreterConfig struct {
	Mode       string `yaml:"mode"` // remote, builtin (default: builtin)
	URL        string `yaml:"url"`
	TimeoutSec int    `yaml:"timeout_sec"`
	Provider   string `yaml:"provider"` // openai, keyword (default: keyword)
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	// Cache stores model classifications in the record store (valkey, redis, memory).
	Cache bool `yaml:"cache"`
}

// DispatchConfig tunes the command dispatcher.
type DispatchConfig struct {
	FallbackPolicy      string `yaml:"fallback_policy"` // recompute, preserve
	ReportUnknownModule bool   `yaml:"report_unknown_module"`
	TimeoutSec          int    `yaml:"timeout_sec"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverValkey
	}
	if c.Database.Driver == DriverSQLite && c.Database.Path == "" {
		c.Database.Path = "recordbook.db"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "recordbook:"
	}
	if c.Interpreter.Mode == "" {
		c.Interpreter.Mode = InterpreterBuiltin
	}
	if c.Interpreter.Provider == "" {
		c.Interpreter.Provider = ProviderKeyword
	}
	if c.Interpreter.TimeoutSec <= 0 {
		c.Interpreter.TimeoutSec = 10
	}
	if c.Dispatch.FallbackPolicy == "" {
		c.Dispatch.FallbackPolicy = "recompute"
	}
	if c.Dispatch.TimeoutSec <= 0 {
		c.Dispatch.TimeoutSec = c.Interpreter.TimeoutSec
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}

	switch c.Database.Driver {
	case DriverValkey, DriverRedis:
		if len(c.Database.Addrs) == 0 {
			return fmt.Errorf("database.addrs is required for driver %q", c.Database.Driver)
		}
	case DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("database.driver must be one of valkey, redis, sqlite, memory, got %q",
			c.Database.Driver)
	}

	switch c.Interpreter.Mode {
	case InterpreterRemote:
		if c.Interpreter.URL == "" {
			return fmt.Errorf("interpreter.url is required in remote mode")
		}
	case InterpreterBuiltin:
		switch c.Interpreter.Provider {
		case ProviderKeyword:
		case ProviderOpenAI:
			if c.Interpreter.APIKey == "" {
				return fmt.Errorf("interpreter.api_key is required for provider %q", ProviderOpenAI)
			}
		default:
			return fmt.Errorf("interpreter.provider must be \"openai\" or \"keyword\", got %q",
				c.Interpreter.Provider)
		}
	default:
		return fmt.Errorf("interpreter.mode must be \"remote\" or \"builtin\", got %q", c.Interpreter.Mode)
	}

	switch c.Dispatch.FallbackPolicy {
	case "recompute", "preserve":
	default:
		return fmt.Errorf("dispatch.fallback_policy must be \"recompute\" or \"preserve\", got %q",
			c.Dispatch.FallbackPolicy)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
