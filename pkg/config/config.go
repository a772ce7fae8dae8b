// Package config provides configuration loading and validation for ordstat.
package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrInvalidPort       = errors.New("invalid server port")
	ErrInvalidNMax       = errors.New("solver nmax must be positive")
	ErrInvalidPTol       = errors.New("solver ptol must be in (0, 1)")
	ErrInvalidConfidence = errors.New("solver confidence must be in (0, 1)")
	ErrInvalidWorkers    = errors.New("batch workers must be positive")
	ErrInvalidFormat     = errors.New("unknown output format")
	ErrInvalidLevel      = errors.New("unknown logging level")
	ErrInvalidBodySize   = errors.New("invalid server max body size")
	ErrInvalidRateLimit  = errors.New("server rate limit must not be negative")
)

const maxPort = 65535

// EnvPrefix is the prefix for environment overrides, e.g. ORDSTAT_SOLVER_NMAX.
const EnvPrefix = "ORDSTAT"

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Config holds all configuration for ordstat.
type Config struct {
	Solver    SolverConfig    `mapstructure:"solver"`
	Batch     BatchConfig     `mapstructure:"batch"`
	Output    OutputConfig    `mapstructure:"output"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Server    ServerConfig    `mapstructure:"server"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// SolverConfig holds the search limits shared by every solver.
type SolverConfig struct {
	NMax       int     `mapstructure:"nmax"`
	PTol       float64 `mapstructure:"ptol"`
	Confidence float64 `mapstructure:"confidence"`
}

// BatchConfig holds batch evaluation settings.
type BatchConfig struct {
	Workers int `mapstructure:"workers"`
}

// OutputConfig holds rendering settings.
type OutputConfig struct {
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// ServerConfig holds HTTP API configuration.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Port         int           `mapstructure:"port"`
	// MaxBodySize is a human-readable size such as "1MiB" or "512KB".
	MaxBodySize string `mapstructure:"max_body_size"`
	// RateLimit is the sustained solve rate in requests per second; 0 disables limiting.
	RateLimit float64 `mapstructure:"rate_limit"`
	RateBurst int     `mapstructure:"rate_burst"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// MaxBodyBytes parses MaxBodySize.
func (s ServerConfig) MaxBodyBytes() (int64, error) {
	size, err := humanize.ParseBytes(s.MaxBodySize)
	if err != nil || size == 0 || size > math.MaxInt64 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidBodySize, s.MaxBodySize)
	}

	return int64(size), nil
}

// TelemetryConfig holds OpenTelemetry export settings.
type TelemetryConfig struct {
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	OTLPInsecure bool   `mapstructure:"otlp_insecure"`
}

// LoadConfig loads configuration from file and environment variables.
// With an empty configPath it searches for .ordstat.yaml in the working
// directory and the user's home; a missing file is not an error.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(".ordstat")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("$HOME")
	}

	viperCfg.SetEnvPrefix(EnvPrefix)
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := validateConfig(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

// Default returns the configuration produced by the defaults alone.
func Default() *Config {
	return &Config{
		Solver: SolverConfig{
			NMax:       DefaultSolverNMax,
			PTol:       DefaultSolverPTol,
			Confidence: DefaultSolverConfidence,
		},
		Batch:  BatchConfig{Workers: DefaultBatchWorkers},
		Output: OutputConfig{Format: DefaultOutputFormat, Color: DefaultOutputColor},
		Logging: LoggingConfig{
			Level: DefaultLoggingLevel,
			JSON:  DefaultLoggingJSON,
		},
		Server: ServerConfig{
			Host:         DefaultServerHost,
			Port:         DefaultServerPort,
			ReadTimeout:  DefaultServerReadTimeout,
			WriteTimeout: DefaultServerWriteTimeout,
			MaxBodySize:  DefaultServerMaxBodySize,
		},
	}
}

func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("solver.nmax", DefaultSolverNMax)
	viperCfg.SetDefault("solver.ptol", DefaultSolverPTol)
	viperCfg.SetDefault("solver.confidence", DefaultSolverConfidence)

	viperCfg.SetDefault("batch.workers", DefaultBatchWorkers)

	viperCfg.SetDefault("output.format", DefaultOutputFormat)
	viperCfg.SetDefault("output.color", DefaultOutputColor)

	viperCfg.SetDefault("logging.level", DefaultLoggingLevel)
	viperCfg.SetDefault("logging.json", DefaultLoggingJSON)

	viperCfg.SetDefault("server.host", DefaultServerHost)
	viperCfg.SetDefault("server.port", DefaultServerPort)
	viperCfg.SetDefault("server.read_timeout", DefaultServerReadTimeout.String())
	viperCfg.SetDefault("server.write_timeout", DefaultServerWriteTimeout.String())
	viperCfg.SetDefault("server.max_body_size", DefaultServerMaxBodySize)
	viperCfg.SetDefault("server.rate_limit", 0)
	viperCfg.SetDefault("server.rate_burst", 0)

	viperCfg.SetDefault("telemetry.otlp_endpoint", "")
	viperCfg.SetDefault("telemetry.otlp_insecure", false)
}

func validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > maxPort {
		return fmt.Errorf("%w: %d", ErrInvalidPort, config.Server.Port)
	}

	_, sizeErr := config.Server.MaxBodyBytes()
	if sizeErr != nil {
		return sizeErr
	}

	if config.Server.RateLimit < 0 || config.Server.RateBurst < 0 {
		return fmt.Errorf("%w: rate_limit=%g rate_burst=%d",
			ErrInvalidRateLimit, config.Server.RateLimit, config.Server.RateBurst)
	}

	if config.Solver.NMax <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidNMax, config.Solver.NMax)
	}

	if !(config.Solver.PTol > 0 && config.Solver.PTol < 1) {
		return fmt.Errorf("%w: %g", ErrInvalidPTol, config.Solver.PTol)
	}

	if !(config.Solver.Confidence > 0 && config.Solver.Confidence < 1) {
		return fmt.Errorf("%w: %g", ErrInvalidConfidence, config.Solver.Confidence)
	}

	if config.Batch.Workers <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, config.Batch.Workers)
	}

	switch config.Output.Format {
	case FormatTable, FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFormat, config.Output.Format)
	}

	switch strings.ToLower(config.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLevel, config.Logging.Level)
	}

	return nil
}
