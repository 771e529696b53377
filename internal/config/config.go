// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package config loads mmsession configuration from defaults, an optional
// YAML file and MMSESSION_* environment variables, in that order.
package config

import (
	"os"
	"time"
)

// Config is the complete runtime configuration.
type Config struct {
	Log         LogConfig         `yaml:"log"`
	Registry    RegistryConfig    `yaml:"registry"`
	Diagnostics DiagnosticsConfig `yaml:"diagnostics"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`

	// Version is stamped from the binary, never read from file.
	Version string `yaml:"-"`
}

type LogConfig struct {
	Level   string `yaml:"level"`
	Service string `yaml:"service"`
}

// RegistryConfig selects the session registry backend.
type RegistryConfig struct {
	Backend       string `yaml:"backend"`
	Dir           string `yaml:"dir"`
	Path          string `yaml:"path"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	Epoch         string `yaml:"epoch"`
	Instrument    bool   `yaml:"instrument"`
}

// DiagnosticsConfig configures the read-only HTTP endpoint started by serve.
type DiagnosticsConfig struct {
	Listen     string        `yaml:"listen"`
	RateLimit  int           `yaml:"rate_limit"`
	RateWindow time.Duration `yaml:"rate_window"`
}

type TelemetryConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Exporter     string  `yaml:"exporter"`
	Endpoint     string  `yaml:"endpoint"`
	SamplingRate float64 `yaml:"sampling_rate"`
	Environment  string  `yaml:"environment"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		Log: LogConfig{
			Level:   "info",
			Service: "mmsession",
		},
		Registry: RegistryConfig{
			Backend:    "file",
			Dir:        os.TempDir(),
			Epoch:      "packed",
			Instrument: true,
		},
		Diagnostics: DiagnosticsConfig{
			Listen:     "127.0.0.1:9464",
			RateLimit:  60,
			RateWindow: time.Minute,
		},
		Telemetry: TelemetryConfig{
			Exporter:     "grpc",
			Endpoint:     "localhost:4317",
			SamplingRate: 1.0,
			Environment:  "production",
		},
	}
}
