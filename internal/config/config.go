// Package config loads the YAML configuration shared by the CLI and the
// HTTP server.
//
// Example file:
//
//	model: models/ru.morph
//	decoder: viterbi
//	max_length: 256
//	overflow: reject
//	batch_size: 32
//	workers: 4
//	backend: cpu
//	server:
//	  addr: ":8080"
//	  max_inflight: 8
//	  cors_origins: ["*"]
//	log_level: info
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/born-ml/morpho/internal/decode"
)

// Overflow policies for sentences longer than MaxLength.
const (
	OverflowReject = "reject"
	OverflowSplit  = "split"
)

// Backend names.
const (
	BackendCPU   = "cpu"
	BackendGonum = "gonum"
)

// Defaults.
const (
	DefaultMaxLength   = 256
	DefaultBatchSize   = 32
	DefaultAddr        = ":8080"
	DefaultMaxInflight = 8
)

// Config is the top-level configuration.
type Config struct {
	Model     string `yaml:"model"`
	Decoder   string `yaml:"decoder"`
	MaxLength int    `yaml:"max_length"`
	Overflow  string `yaml:"overflow"`
	BatchSize int    `yaml:"batch_size"`
	Workers   int    `yaml:"workers"` // 0 means one per CPU
	Backend   string `yaml:"backend"`
	Server    Server `yaml:"server"`
	LogLevel  string `yaml:"log_level"`
}

// Server configures the HTTP API.
type Server struct {
	Addr        string   `yaml:"addr"`
	MaxInflight int64    `yaml:"max_inflight"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Decoder:   string(decode.PolicyViterbi),
		MaxLength: DefaultMaxLength,
		Overflow:  OverflowReject,
		BatchSize: DefaultBatchSize,
		Backend:   BackendCPU,
		Server: Server{
			Addr:        DefaultAddr,
			MaxInflight: DefaultMaxInflight,
			CORSOrigins: []string{"*"},
		},
		LogLevel: "info",
	}
}

// Load reads a YAML file on top of Default and validates the result.
func Load(path string) (Config, error) {
	f, err := os.Open(path) //nolint:gosec // path is chosen by the operator
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads YAML from r on top of Default and validates the result.
// Unknown keys are rejected.
func Parse(r io.Reader) (Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	if _, err := decode.ParsePolicy(c.Decoder); err != nil {
		return fmt.Errorf("decoder: %w", err)
	}
	if c.MaxLength <= 0 {
		return fmt.Errorf("max_length must be positive, got %d", c.MaxLength)
	}
	switch c.Overflow {
	case OverflowReject, OverflowSplit:
	default:
		return fmt.Errorf("overflow must be %q or %q, got %q", OverflowReject, OverflowSplit, c.Overflow)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be positive, got %d", c.BatchSize)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	switch c.Backend {
	case BackendCPU, BackendGonum:
	default:
		return fmt.Errorf("backend must be %q or %q, got %q", BackendCPU, BackendGonum, c.Backend)
	}
	if c.Server.MaxInflight <= 0 {
		return fmt.Errorf("server.max_inflight must be positive, got %d", c.Server.MaxInflight)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps a log level name to a zap level. Names are case-insensitive.
func ParseLevel(s string) (zapcore.Level, error) {
	level, err := zapcore.ParseLevel(strings.TrimSpace(s))
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}
