// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"github.com/ManuGH/mmsession/internal/validate"
)

var (
	registryBackends = []string{"file", "memory", "sqlite", "redis", "badger"}
	registryEpochs   = []string{"packed", "legacy"}
	exporters        = []string{"grpc", "http"}
)

// Validate validates a Config using the centralized validation package
func Validate(cfg Config) error {
	v := validate.New()

	v.OneOf("log.level", cfg.Log.Level, validate.LogLevels())

	r := cfg.Registry
	v.OneOf("registry.backend", r.Backend, registryBackends)
	v.OneOf("registry.epoch", r.Epoch, registryEpochs)
	switch r.Backend {
	case "file":
		v.Directory("registry.dir", r.Dir)
	case "sqlite", "badger":
		v.NotEmpty("registry.path", r.Path)
	case "redis":
		v.NotEmpty("registry.redis_addr", r.RedisAddr)
		if r.RedisDB < 0 {
			v.AddError("registry.redis_db", "database index cannot be negative", r.RedisDB)
		}
	}

	d := cfg.Diagnostics
	v.ListenAddr("diagnostics.listen", d.Listen)
	v.Positive("diagnostics.rate_limit", d.RateLimit)
	v.PositiveDuration("diagnostics.rate_window", d.RateWindow)

	t := cfg.Telemetry
	if t.Enabled {
		v.OneOf("telemetry.exporter", t.Exporter, exporters)
		v.NotEmpty("telemetry.endpoint", t.Endpoint)
	}
	v.FloatRange("telemetry.sampling_rate", t.SamplingRate, 0, 1)

	return v.Err()
}
