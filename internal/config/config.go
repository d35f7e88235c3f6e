// Package config defines the struct-tag-validated configuration types
// shared by the CLI and server hosts, loaded from YAML.
package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/vtreekit/vtree/internal/predict"
	"github.com/vtreekit/vtree/internal/vlog"
	"github.com/vtreekit/vtree/internal/vnode"
)

var validate = validator.New()

// PredictorConfig mirrors predict.Config with validator tags for
// config-file loading; DefaultPredictorConfig matches spec §6's
// default table.
type PredictorConfig struct {
	MinConfidence     float64 `yaml:"min_confidence" validate:"gte=0,lte=1"`
	MaxPatternsPerKey int     `yaml:"max_patterns_per_key" validate:"gt=0"`
	MaxStateKeys      int     `yaml:"max_state_keys" validate:"gt=0"`
	MaxMemoryBytes    int64   `yaml:"max_memory_bytes" validate:"gt=0"`
	EvictionPolicy    string  `yaml:"eviction_policy" validate:"oneof=lfu lru oldest"`
}

// DefaultPredictorConfig returns spec §6's predictor defaults.
func DefaultPredictorConfig() PredictorConfig {
	return PredictorConfig{
		MinConfidence:     0.7,
		MaxPatternsPerKey: 100,
		MaxStateKeys:      1_000,
		MaxMemoryBytes:    100 << 20,
		EvictionPolicy:    "lfu",
	}
}

// ToPredictConfig converts the validated config into the predict
// package's runtime Config.
func (c PredictorConfig) ToPredictConfig() predict.Config {
	policy := predict.EvictionLFU
	switch c.EvictionPolicy {
	case "lru":
		policy = predict.EvictionLRU
	case "oldest":
		policy = predict.EvictionOldestFirst
	}
	return predict.Config{
		MinConfidence:     c.MinConfidence,
		MaxPatternsPerKey: c.MaxPatternsPerKey,
		MaxStateKeys:      c.MaxStateKeys,
		MaxMemoryBytes:    c.MaxMemoryBytes,
		Eviction:          policy,
		Validation:        vnode.DefaultValidationConfig(),
	}
}

// ServerConfig configures the HTTP/WebSocket host.
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr" validate:"required"`
	LogLevel   string `yaml:"log_level" validate:"oneof=trace debug info warn error"`
}

// DefaultServerConfig returns sane defaults for local development.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{ListenAddr: ":8089", LogLevel: "info"}
}

// ParseLevel converts the config's log-level string into a vlog.Level.
func (c ServerConfig) ParseLevel() vlog.Level {
	switch c.LogLevel {
	case "trace":
		return vlog.LevelTrace
	case "debug":
		return vlog.LevelDebug
	case "warn":
		return vlog.LevelWarn
	case "error":
		return vlog.LevelError
	default:
		return vlog.LevelInfo
	}
}

// CLIConfig is the top-level shape of the CLI's --config YAML file.
type CLIConfig struct {
	Predictor PredictorConfig `yaml:"predictor"`
	Server    ServerConfig    `yaml:"server"`
}

// DefaultCLIConfig returns a complete, valid default configuration.
func DefaultCLIConfig() CLIConfig {
	return CLIConfig{Predictor: DefaultPredictorConfig(), Server: DefaultServerConfig()}
}

// Load reads and validates a CLIConfig from a YAML file at path.
func Load(path string) (CLIConfig, error) {
	cfg := DefaultCLIConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if err := validate.Struct(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
