// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment keys consumed by Load.
const (
	EnvLogLevel           = "MMSESSION_LOG_LEVEL"
	EnvLogService         = "MMSESSION_LOG_SERVICE"
	EnvRegistryBackend    = "MMSESSION_REGISTRY_BACKEND"
	EnvRegistryDir        = "MMSESSION_REGISTRY_DIR"
	EnvRegistryPath       = "MMSESSION_REGISTRY_PATH"
	EnvRegistryEpoch      = "MMSESSION_REGISTRY_EPOCH"
	EnvRegistryInstrument = "MMSESSION_REGISTRY_INSTRUMENT"
	EnvRedisAddr          = "MMSESSION_REDIS_ADDR"
	EnvRedisPassword      = "MMSESSION_REDIS_PASSWORD"
	EnvRedisDB            = "MMSESSION_REDIS_DB"
	EnvDiagListen         = "MMSESSION_DIAG_LISTEN"
	EnvDiagRateLimit      = "MMSESSION_DIAG_RATE_LIMIT"
	EnvDiagRateWindow     = "MMSESSION_DIAG_RATE_WINDOW"
	EnvTelemetryEnabled   = "MMSESSION_TELEMETRY_ENABLED"
	EnvTelemetryExporter  = "MMSESSION_TELEMETRY_EXPORTER"
	EnvTelemetryEndpoint  = "MMSESSION_TELEMETRY_ENDPOINT"
	EnvTelemetrySampling  = "MMSESSION_TELEMETRY_SAMPLING_RATE"
)

// ErrTrailingDocument is returned for config files holding more than one YAML document.
var ErrTrailingDocument = errors.New("config file contains multiple documents or trailing content")

// Loader handles configuration loading with precedence
type Loader struct {
	configPath      string
	version         string
	ConsumedEnvKeys map[string]struct{}
}

// NewLoader creates a new configuration loader. An empty configPath skips the file stage.
func NewLoader(configPath, version string) *Loader {
	return &Loader{
		configPath:      configPath,
		version:         version,
		ConsumedEnvKeys: make(map[string]struct{}),
	}
}

func (l *Loader) envString(key, defaultVal string) string {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseString(key, defaultVal)
}

func (l *Loader) envBool(key string, defaultVal bool) bool {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseBool(key, defaultVal)
}

func (l *Loader) envInt(key string, defaultVal int) int {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseInt(key, defaultVal)
}

func (l *Loader) envDuration(key string, defaultVal time.Duration) time.Duration {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseDuration(key, defaultVal)
}

func (l *Loader) envFloat(key string, defaultVal float64) float64 {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseFloat(key, defaultVal)
}

// Load loads configuration with precedence: ENV > File > Defaults, then validates.
func (l *Loader) Load() (Config, error) {
	cfg := Defaults()

	if l.configPath != "" {
		if err := l.loadFile(l.configPath, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}

	l.mergeEnv(&cfg)

	if cfg.Registry.Dir != "" {
		if abs, err := filepath.Abs(cfg.Registry.Dir); err == nil {
			cfg.Registry.Dir = abs
		}
	}
	cfg.Version = l.version

	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// loadFile decodes path over cfg. Unknown fields are fatal.
func (l *Loader) loadFile(path string, cfg *Config) error {
	path = filepath.Clean(path)

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("unsupported config format: %s (only YAML supported)", ext)
	}

	// #nosec G304 -- configuration file paths are provided by the operator via CLI/ENV
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("strict config parse error: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return ErrTrailingDocument
	}
	return nil
}

func (l *Loader) mergeEnv(cfg *Config) {
	cfg.Log.Level = l.envString(EnvLogLevel, cfg.Log.Level)
	cfg.Log.Service = l.envString(EnvLogService, cfg.Log.Service)

	r := &cfg.Registry
	r.Backend = l.envString(EnvRegistryBackend, r.Backend)
	r.Dir = l.envString(EnvRegistryDir, r.Dir)
	r.Path = l.envString(EnvRegistryPath, r.Path)
	r.Epoch = l.envString(EnvRegistryEpoch, r.Epoch)
	r.Instrument = l.envBool(EnvRegistryInstrument, r.Instrument)
	r.RedisAddr = l.envString(EnvRedisAddr, r.RedisAddr)
	r.RedisPassword = l.envString(EnvRedisPassword, r.RedisPassword)
	r.RedisDB = l.envInt(EnvRedisDB, r.RedisDB)

	d := &cfg.Diagnostics
	d.Listen = l.envString(EnvDiagListen, d.Listen)
	d.RateLimit = l.envInt(EnvDiagRateLimit, d.RateLimit)
	d.RateWindow = l.envDuration(EnvDiagRateWindow, d.RateWindow)

	t := &cfg.Telemetry
	t.Enabled = l.envBool(EnvTelemetryEnabled, t.Enabled)
	t.Exporter = l.envString(EnvTelemetryExporter, t.Exporter)
	t.Endpoint = l.envString(EnvTelemetryEndpoint, t.Endpoint)
	t.SamplingRate = l.envFloat(EnvTelemetrySampling, t.SamplingRate)
}
