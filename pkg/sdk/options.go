package recordbook

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

// Store drivers.
const (
	driverValkey = "valkey"
	driverRedis  = "redis"
	driverSQLite = "sqlite"
	driverMemory = "memory"
)

type clientConfig struct {
	driver    string
	addrs     []string
	password  string
	path      string
	keyPrefix string

	interpreter    Interpreter
	interpreterURL string
	openAI         *openAIConfig

	policy        string
	reportUnknown bool
	timeout       time.Duration

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

type openAIConfig struct {
	apiKey  string
	baseURL string
	model   string
}

// WithValkey configures the client to connect to a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverValkey
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverRedis
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithSQLite stores records in a SQLite file. ":memory:" keeps them in RAM.
func WithSQLite(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverSQLite
		c.path = path
	})
}

// WithMemory keeps records in process memory. Data is lost on Close.
func WithMemory() Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverMemory
	})
}

// WithKeyPrefix sets the key namespace for Valkey, Redis and memory stores.
// Default: "recordbook:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithInterpreter sets a custom command interpreter.
func WithInterpreter(i Interpreter) Option {
	return optionFunc(func(c *clientConfig) {
		c.interpreter = i
	})
}

// WithInterpreterURL sends commands to a remote interpreter service that
// serves POST /api/command.
func WithInterpreterURL(url string) Option {
	return optionFunc(func(c *clientConfig) {
		c.interpreterURL = url
	})
}

// WithOpenAI classifies commands with an OpenAI-compatible chat model,
// falling back to the keyword interpreter when the model is unreachable.
// Empty baseURL and model use the provider defaults.
func WithOpenAI(apiKey, baseURL, model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.openAI = &openAIConfig{apiKey: apiKey, baseURL: baseURL, model: model}
	})
}

// WithFallbackPolicy chooses how the free-text query is built from command
// entities: "recompute" (default) or "preserve".
func WithFallbackPolicy(policy string) Option {
	return optionFunc(func(c *clientConfig) {
		c.policy = policy
	})
}

// WithUnknownModuleStatus makes commands for unknown modules report a status
// instead of being ignored silently.
func WithUnknownModuleStatus() Option {
	return optionFunc(func(c *clientConfig) {
		c.reportUnknown = true
	})
}

// WithCommandTimeout bounds each interpreter call. Default: 10s.
func WithCommandTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeout = d
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
