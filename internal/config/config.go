// Package config defines the wlcheck configuration model and loads it from an
// optional YAML file with WLCHECK_* environment overrides.
//
// Example (config.yaml):
//
//	validation:
//	  delimiters: [comma, semicolon, tab]
//	  key_columns: [EmployeeId]
//	  search_key: UserPrincipalName
//	snapshot:
//	  kind: postgres
//	  dsn: postgres://wlcheck@localhost/wlcheck
//	metrics:
//	  backend: pushgateway
//	  pushgateway_url: http://pushgateway:9091
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the whole application configuration.
type Config struct {
	Validation Validation `yaml:"validation"`
	Snapshot   Snapshot   `yaml:"snapshot"`
	Source     Source     `yaml:"source"`
	Metrics    Metrics    `yaml:"metrics"`
	Logging    Logging    `yaml:"logging"`
	Server     Server     `yaml:"server"`
	Batch      Batch      `yaml:"batch"`
}

// Validation tunes the validation engine.
type Validation struct {
	// Delimiters are candidate names (comma, semicolon, tab, pipe) or single
	// characters, in preference order.
	Delimiters      []string `yaml:"delimiters" env:"WLCHECK_DELIMITERS" env-default:"comma,semicolon,tab"`
	SampleLines     int      `yaml:"sample_lines" env:"WLCHECK_SAMPLE_LINES" env-default:"5" validate:"gte=0"`
	MaxValueLength  int      `yaml:"max_value_length" env:"WLCHECK_MAX_VALUE_LENGTH" env-default:"8000" validate:"gte=0"`
	MaxHeaderLength int      `yaml:"max_header_length" env:"WLCHECK_MAX_HEADER_LENGTH" env-default:"64" validate:"gte=0"`
	// KeyColumns are always checked for duplicate values.
	KeyColumns []string `yaml:"key_columns" env:"WLCHECK_KEY_COLUMNS"`
	// SearchKey is the watchlist alias column; it must be present.
	SearchKey         string   `yaml:"search_key" env:"WLCHECK_SEARCH_KEY"`
	DeepInjectionScan bool     `yaml:"deep_injection_scan" env:"WLCHECK_DEEP_INJECTION_SCAN" env-default:"false"`
	DateFormats       []string `yaml:"date_formats" env:"WLCHECK_DATE_FORMATS" env-separator:"|"`
	MaxInputBytes     int64    `yaml:"max_input_bytes" env:"WLCHECK_MAX_INPUT_BYTES" env-default:"104857600" validate:"gte=0"`
}

// Snapshot selects where deployed watchlist schemas are looked up.
type Snapshot struct {
	Kind string `yaml:"kind" env:"WLCHECK_SNAPSHOT_KIND" env-default:"file" validate:"required"`
	// DSN is used by the database kinds.
	DSN string `yaml:"dsn" env:"WLCHECK_SNAPSHOT_DSN"`
	// Table is the database table holding one row per watchlist.
	Table string `yaml:"table" env:"WLCHECK_SNAPSHOT_TABLE" env-default:"watchlist_schemas"`
	// Dir is the directory used by the file kind.
	Dir string `yaml:"dir" env:"WLCHECK_SNAPSHOT_DIR" env-default:".wlcheck/snapshots"`
}

// Source configures remote input retrieval.
type Source struct {
	Timeout            time.Duration `yaml:"timeout" env:"WLCHECK_SOURCE_TIMEOUT" env-default:"60s"`
	MaxRetries         int           `yaml:"max_retries" env:"WLCHECK_SOURCE_MAX_RETRIES" env-default:"3" validate:"gte=0"`
	InsecureSkipVerify bool          `yaml:"insecure_skip_verify" env:"WLCHECK_SOURCE_INSECURE_SKIP_VERIFY" env-default:"false"`
}

// Metrics selects the metrics backend.
type Metrics struct {
	Backend        string `yaml:"backend" env:"WLCHECK_METRICS_BACKEND" env-default:"none" validate:"oneof=none pushgateway datadog"`
	PushgatewayURL string `yaml:"pushgateway_url" env:"WLCHECK_PUSHGATEWAY_URL"`
	StatsdAddr     string `yaml:"statsd_addr" env:"WLCHECK_STATSD_ADDR" env-default:"127.0.0.1:8125"`
	// Job labels every metric.
	Job string `yaml:"job" env:"WLCHECK_METRICS_JOB" env-default:"wlcheck"`
}

// Logging configures the zap logger.
type Logging struct {
	Level  string `yaml:"level" env:"WLCHECK_LOG_LEVEL" env-default:"info" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" env:"WLCHECK_LOG_FORMAT" env-default:"json" validate:"oneof=json console"`
}

// Server configures the HTTP API.
type Server struct {
	Addr         string `yaml:"addr" env:"WLCHECK_ADDR" env-default:":8080"`
	MaxBodyBytes int64  `yaml:"max_body_bytes" env:"WLCHECK_MAX_BODY_BYTES" env-default:"104857600" validate:"gte=0"`
}

// Batch configures multi-file runs.
type Batch struct {
	// Workers bounds concurrent validations; 0 means one per CPU.
	Workers int `yaml:"workers" env:"WLCHECK_BATCH_WORKERS" env-default:"0" validate:"gte=0"`
}

// Load reads path (YAML) when given, applies environment overrides and
// defaults, and validates field constraints. With an empty path only the
// environment and defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read config from environment: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
