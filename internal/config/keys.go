package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type keyType int

const (
	kString keyType = iota
	kInt
	kBool
	kFloat
	kDuration
)

type keySpec struct {
	key     string
	typ     keyType
	env     string
	apply   func(cfg *Config, v any)
	extract func(cfg Config) any
}

var specs = []keySpec{
	{
		key: "server.port", typ: kInt, env: "TALENTFLOW_SERVER_PORT",
		apply:   func(cfg *Config, v any) { cfg.Server.Port = v.(int) },
		extract: func(cfg Config) any { return cfg.Server.Port },
	},
	{
		key: "server.base_url", typ: kString, env: "TALENTFLOW_SERVER_BASE_URL",
		apply:   func(cfg *Config, v any) { cfg.Server.BaseURL = v.(string) },
		extract: func(cfg Config) any { return cfg.Server.BaseURL },
	},
	{
		key: "storage.data_dir", typ: kString, env: "TALENTFLOW_STORAGE_DATA_DIR",
		apply:   func(cfg *Config, v any) { cfg.Storage.DataDir = v.(string) },
		extract: func(cfg Config) any { return cfg.Storage.DataDir },
	},
	{
		key: "log.level", typ: kString, env: "TALENTFLOW_LOG_LEVEL",
		apply:   func(cfg *Config, v any) { cfg.Log.Level = v.(string) },
		extract: func(cfg Config) any { return cfg.Log.Level },
	},
	{
		key: "remote.latency_min", typ: kDuration, env: "TALENTFLOW_REMOTE_LATENCY_MIN",
		apply:   func(cfg *Config, v any) { cfg.Remote.LatencyMin = v.(time.Duration) },
		extract: func(cfg Config) any { return cfg.Remote.LatencyMin },
	},
	{
		key: "remote.latency_max", typ: kDuration, env: "TALENTFLOW_REMOTE_LATENCY_MAX",
		apply:   func(cfg *Config, v any) { cfg.Remote.LatencyMax = v.(time.Duration) },
		extract: func(cfg Config) any { return cfg.Remote.LatencyMax },
	},
	{
		key: "remote.write_failure_rate", typ: kFloat, env: "TALENTFLOW_REMOTE_WRITE_FAILURE_RATE",
		apply:   func(cfg *Config, v any) { cfg.Remote.WriteFailureRate = v.(float64) },
		extract: func(cfg Config) any { return cfg.Remote.WriteFailureRate },
	},
	{
		key: "seed.on_start", typ: kBool, env: "TALENTFLOW_SEED_ON_START",
		apply:   func(cfg *Config, v any) { cfg.Seed.OnStart = v.(bool) },
		extract: func(cfg Config) any { return cfg.Seed.OnStart },
	},
	{
		key: "seed.file", typ: kString, env: "TALENTFLOW_SEED_FILE",
		apply:   func(cfg *Config, v any) { cfg.Seed.File = v.(string) },
		extract: func(cfg Config) any { return cfg.Seed.File },
	},
}

// parseValue converts a raw string for a typed key.
func parseValue(typ keyType, raw string) (any, error) {
	switch typ {
	case kInt:
		return strconv.Atoi(raw)
	case kBool:
		return strconv.ParseBool(raw)
	case kFloat:
		return strconv.ParseFloat(raw, 64)
	case kDuration:
		return time.ParseDuration(raw)
	}
	return raw, nil
}

func boxed[T any](v T, ok bool, err error) (any, bool, error) {
	return v, ok, err
}

// readBackend fetches a key in its native type. Durations are stored as
// strings like "750ms".
func readBackend(b ConfigBackend, s keySpec) (any, bool, error) {
	switch s.typ {
	case kInt:
		return boxed(b.GetInt(s.key))
	case kBool:
		return boxed(b.GetBool(s.key))
	case kFloat:
		return boxed(b.GetFloat(s.key))
	case kDuration:
		raw, ok, err := b.GetString(s.key)
		if !ok || err != nil || raw == "" {
			return nil, false, err
		}
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, true, fmt.Errorf("%s: %w", s.key, err)
		}
		return d, true, nil
	}
	return boxed(b.GetString(s.key))
}

func applyBackend(cfg *Config, b ConfigBackend) error {
	for _, s := range specs {
		v, ok, err := readBackend(b, s)
		if err != nil {
			fmt.Fprintf(os.Stderr, "[WARN] could not read config key %s: %v. Using default value.\n", s.key, err)
			continue
		}
		if ok {
			s.apply(cfg, v)
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	for _, s := range specs {
		if s.env == "" {
			continue
		}
		raw := os.Getenv(s.env)
		if raw == "" {
			continue
		}
		v, err := parseValue(s.typ, raw)
		if err != nil {
			fmt.Fprintf(os.Stderr, "[WARN] could not parse env var %s=%q: %v. Using default value.\n", s.env, raw, err)
			continue
		}
		s.apply(cfg, v)
	}
}
