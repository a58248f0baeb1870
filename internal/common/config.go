package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string           `toml:"environment"` // "development" or "production"
	Storage     StorageConfig    `toml:"storage"`
	Logging     LoggingConfig    `toml:"logging"`
	Metrics     MetricsConfig    `toml:"metrics"`
	Tracing     TracingConfig    `toml:"tracing"`
	Evaluation  EvaluationConfig `toml:"evaluation"`
	Advisors    []AdvisorConfig  `toml:"advisors" validate:"dive"` // Overrides or additions to the built-in personas
}

// StorageConfig contains storage configuration
type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig contains BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path" validate:"required"` // Directory for the run store
	ResetOnStartup bool   `toml:"reset_on_startup"`         // Delete the database on startup
}

type LoggingConfig struct {
	Level      string   `toml:"level" validate:"oneof=trace debug info warn error"`
	Output     []string `toml:"output" validate:"dive,oneof=stdout console file"`
	TimeFormat string   `toml:"time_format"` // default: "15:04:05"
}

// MetricsConfig controls Prometheus instrumentation. The CLI is short-lived,
// so metrics are flushed to a node-exporter textfile rather than served.
type MetricsConfig struct {
	Enabled      bool   `toml:"enabled"`
	TextfilePath string `toml:"textfile_path"` // e.g. /var/lib/node_exporter/verity.prom
}

// TracingConfig controls OpenTelemetry spans written to stdout
type TracingConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	PrettyPrint bool   `toml:"pretty_print"`
}

// EvaluationConfig controls the evaluation pipeline
type EvaluationConfig struct {
	Persist      bool `toml:"persist"`                             // Save every run to the run store
	HistoryLimit int  `toml:"history_limit" validate:"gte=1,lte=1000"` // Default page size for run listings
}

// AdvisorConfig overrides fields of a persona. Unset fields keep the
// built-in values; pointer fields distinguish "unset" from zero.
type AdvisorConfig struct {
	Key                 string   `toml:"key" validate:"required"`
	Title               string   `toml:"title"`
	BaseWeight          *float64 `toml:"base_weight"`
	AllowedEvidenceKeys []string `toml:"allowed_evidence_keys"`
	MinClaims           *int     `toml:"min_claims"`
	MaxClaims           *int     `toml:"max_claims"`
	FocusHint           string   `toml:"focus_hint"`
	RequiresAny         []string `toml:"requires_any"`
	InsufficientMessage string   `toml:"insufficient_message"`
	MissingDataNote     string   `toml:"missing_data_note"`
}

// NewDefaultConfig creates a configuration with default values
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data/runs",
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"stdout"},
			TimeFormat: "15:04:05",
		},
		Metrics: MetricsConfig{
			Enabled: false,
		},
		Tracing: TracingConfig{
			Enabled:     false,
			ServiceName: "verity",
		},
		Evaluation: EvaluationConfig{
			Persist:      false,
			HistoryLimit: 20,
		},
	}
}

// LoadFromFiles loads configuration with priority: defaults -> file1 -> file2 -> ... -> env
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Later files override earlier files
	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration against its struct constraints
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("VERITY_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Storage configuration
	if path := os.Getenv("VERITY_BADGER_PATH"); path != "" {
		config.Storage.Badger.Path = path
	}
	if reset := os.Getenv("VERITY_BADGER_RESET_ON_STARTUP"); reset != "" {
		if b, err := strconv.ParseBool(reset); err == nil {
			config.Storage.Badger.ResetOnStartup = b
		}
	}

	// Logging configuration
	if level := os.Getenv("VERITY_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("VERITY_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Metrics configuration
	if enabled := os.Getenv("VERITY_METRICS_ENABLED"); enabled != "" {
		if b, err := strconv.ParseBool(enabled); err == nil {
			config.Metrics.Enabled = b
		}
	}
	if path := os.Getenv("VERITY_METRICS_TEXTFILE"); path != "" {
		config.Metrics.TextfilePath = path
	}

	// Tracing configuration
	if enabled := os.Getenv("VERITY_TRACING_ENABLED"); enabled != "" {
		if b, err := strconv.ParseBool(enabled); err == nil {
			config.Tracing.Enabled = b
		}
	}

	// Evaluation configuration
	if persist := os.Getenv("VERITY_PERSIST_RUNS"); persist != "" {
		if b, err := strconv.ParseBool(persist); err == nil {
			config.Evaluation.Persist = b
		}
	}
	if limit := os.Getenv("VERITY_HISTORY_LIMIT"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil {
			config.Evaluation.HistoryLimit = l
		}
	}
}

// DeepCloneConfig creates a deep copy of the config
func DeepCloneConfig(c *Config) *Config {
	if c == nil {
		return nil
	}

	clone := *c

	if len(c.Logging.Output) > 0 {
		clone.Logging.Output = make([]string, len(c.Logging.Output))
		copy(clone.Logging.Output, c.Logging.Output)
	}

	if len(c.Advisors) > 0 {
		clone.Advisors = make([]AdvisorConfig, len(c.Advisors))
		for i, a := range c.Advisors {
			a.AllowedEvidenceKeys = append([]string(nil), a.AllowedEvidenceKeys...)
			a.RequiresAny = append([]string(nil), a.RequiresAny...)
			if a.BaseWeight != nil {
				w := *a.BaseWeight
				a.BaseWeight = &w
			}
			if a.MinClaims != nil {
				n := *a.MinClaims
				a.MinClaims = &n
			}
			if a.MaxClaims != nil {
				n := *a.MaxClaims
				a.MaxClaims = &n
			}
			clone.Advisors[i] = a
		}
	}

	return &clone
}
