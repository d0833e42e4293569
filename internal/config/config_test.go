package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// mapBackend is an in-memory ConfigBackend with one map per value type.
type mapBackend struct {
	strings map[string]string
	ints    map[string]int
	bools   map[string]bool
	floats  map[string]float64
}

func newMapBackend() *mapBackend {
	return &mapBackend{
		strings: map[string]string{},
		ints:    map[string]int{},
		bools:   map[string]bool{},
		floats:  map[string]float64{},
	}
}

func (m *mapBackend) GetString(key string) (string, bool, error) {
	v, ok := m.strings[key]
	return v, ok, nil
}

func (m *mapBackend) GetInt(key string) (int, bool, error) {
	v, ok := m.ints[key]
	return v, ok, nil
}

func (m *mapBackend) GetBool(key string) (bool, bool, error) {
	v, ok := m.bools[key]
	return v, ok, nil
}

func (m *mapBackend) GetFloat(key string) (float64, bool, error) {
	v, ok := m.floats[key]
	return v, ok, nil
}

func (m *mapBackend) SetString(key, val string) error {
	m.strings[key] = val
	return nil
}

func (m *mapBackend) SetInt(key string, val int) error {
	m.ints[key] = val
	return nil
}

func (m *mapBackend) SetBool(key string, val bool) error {
	m.bools[key] = val
	return nil
}

func (m *mapBackend) SetFloat(key string, val float64) error {
	m.floats[key] = val
	return nil
}

func (m *mapBackend) Delete(key string) error {
	delete(m.strings, key)
	delete(m.ints, key)
	delete(m.bools, key)
	delete(m.floats, key)
	return nil
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, s := range specs {
		t.Setenv(s.env, "")
	}
}

// TestDefaults verifies all default values when nothing is configured.
func TestDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := loadWith(newMapBackend(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 4100 {
		t.Errorf("Server.Port = %d, want 4100", cfg.Server.Port)
	}
	if cfg.ServerURL() != "http://localhost:4100" {
		t.Errorf("ServerURL() = %q", cfg.ServerURL())
	}
	if cfg.Remote.LatencyMin != 200*time.Millisecond || cfg.Remote.LatencyMax != 1200*time.Millisecond {
		t.Errorf("latency = %v..%v, want 200ms..1.2s", cfg.Remote.LatencyMin, cfg.Remote.LatencyMax)
	}
	if cfg.Remote.WriteFailureRate != 0.075 {
		t.Errorf("WriteFailureRate = %v, want 0.075", cfg.Remote.WriteFailureRate)
	}
	if !cfg.Seed.OnStart || cfg.Seed.File != "" {
		t.Errorf("Seed = %+v", cfg.Seed)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
	if cfg.Storage.DataDir == "" {
		t.Error("Storage.DataDir is empty")
	}
}

// TestBackendValues verifies that every key type is read from the backend.
func TestBackendValues(t *testing.T) {
	clearEnv(t)
	b := newMapBackend()
	b.ints["server.port"] = 5000
	b.strings["server.base_url"] = "http://api.internal:5000/"
	b.strings["storage.data_dir"] = "/tmp/talentflow-test"
	b.strings["remote.latency_min"] = "0s"
	b.strings["remote.latency_max"] = "50ms"
	b.floats["remote.write_failure_rate"] = 0.5
	b.bools["seed.on_start"] = false
	b.strings["seed.file"] = "fixtures/demo.yaml"

	cfg, err := loadWith(b, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 5000 {
		t.Errorf("Server.Port = %d", cfg.Server.Port)
	}
	if cfg.ServerURL() != "http://api.internal:5000" {
		t.Errorf("ServerURL() = %q", cfg.ServerURL())
	}
	if cfg.Storage.DataDir != "/tmp/talentflow-test" {
		t.Errorf("Storage.DataDir = %q", cfg.Storage.DataDir)
	}
	if cfg.Remote.LatencyMin != 0 || cfg.Remote.LatencyMax != 50*time.Millisecond {
		t.Errorf("latency = %v..%v", cfg.Remote.LatencyMin, cfg.Remote.LatencyMax)
	}
	if cfg.Remote.WriteFailureRate != 0.5 {
		t.Errorf("WriteFailureRate = %v", cfg.Remote.WriteFailureRate)
	}
	if cfg.Seed.OnStart || cfg.Seed.File != "fixtures/demo.yaml" {
		t.Errorf("Seed = %+v", cfg.Seed)
	}
}

// TestEnvOverride verifies that environment variables override backend values.
func TestEnvOverride(t *testing.T) {
	clearEnv(t)
	b := newMapBackend()
	b.ints["server.port"] = 5000
	t.Setenv("TALENTFLOW_SERVER_PORT", "6000")
	t.Setenv("TALENTFLOW_REMOTE_WRITE_FAILURE_RATE", "0")

	cfg, err := loadWith(b, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 6000 {
		t.Errorf("Server.Port = %d, want 6000", cfg.Server.Port)
	}
	if cfg.Remote.WriteFailureRate != 0 {
		t.Errorf("WriteFailureRate = %v, want 0", cfg.Remote.WriteFailureRate)
	}
}

// TestUnparsableValueKeepsDefault verifies a bad value is ignored with a warning.
func TestUnparsableValueKeepsDefault(t *testing.T) {
	clearEnv(t)
	t.Setenv("TALENTFLOW_REMOTE_LATENCY_MAX", "soon")

	cfg, err := loadWith(newMapBackend(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Remote.LatencyMax != 1200*time.Millisecond {
		t.Errorf("LatencyMax = %v, want default", cfg.Remote.LatencyMax)
	}
}

// TestDotEnv verifies .env values apply without replacing the real environment.
func TestDotEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("TALENTFLOW_SERVER_PORT", "7000")
	os.Unsetenv("TALENTFLOW_LOG_LEVEL")
	t.Cleanup(func() { os.Unsetenv("TALENTFLOW_LOG_LEVEL") })

	path := filepath.Join(t.TempDir(), ".env")
	content := "TALENTFLOW_LOG_LEVEL=debug\nTALENTFLOW_SERVER_PORT=9999\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadWith(newMapBackend(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("Server.Port = %d, want 7000 from the environment", cfg.Server.Port)
	}
}

// TestMissingDotEnvIsFine verifies that an absent .env file is not an error.
func TestMissingDotEnvIsFine(t *testing.T) {
	clearEnv(t)
	if _, err := loadWith(newMapBackend(), filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"port", map[string]string{"TALENTFLOW_SERVER_PORT": "70000"}, "server.port"},
		{"rate", map[string]string{"TALENTFLOW_REMOTE_WRITE_FAILURE_RATE": "1.5"}, "write_failure_rate"},
		{"latency order", map[string]string{"TALENTFLOW_REMOTE_LATENCY_MIN": "2s", "TALENTFLOW_REMOTE_LATENCY_MAX": "1s"}, "latency_max"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := loadWith(newMapBackend(), "")
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestSetKey(t *testing.T) {
	b := newMapBackend()

	if err := setKey(b, "server.port", "4200"); err != nil {
		t.Fatalf("setKey(server.port): %v", err)
	}
	if b.ints["server.port"] != 4200 {
		t.Errorf("server.port = %d", b.ints["server.port"])
	}
	if err := setKey(b, "remote.latency_max", "2s"); err != nil {
		t.Fatalf("setKey(remote.latency_max): %v", err)
	}
	if b.strings["remote.latency_max"] != "2s" {
		t.Errorf("remote.latency_max = %q", b.strings["remote.latency_max"])
	}

	if err := setKey(b, "remote.write_failure_rate", "0.2"); err != nil {
		t.Fatalf("setKey(remote.write_failure_rate): %v", err)
	}
	if b.floats["remote.write_failure_rate"] != 0.2 {
		t.Errorf("remote.write_failure_rate = %v", b.floats["remote.write_failure_rate"])
	}
	if err := setKey(b, "seed.on_start", "false"); err != nil {
		t.Fatalf("setKey(seed.on_start): %v", err)
	}
	if on, ok := b.bools["seed.on_start"]; !ok || on {
		t.Errorf("seed.on_start = %v (set %v), want false", on, ok)
	}

	if err := setKey(b, "server.port", "many"); err == nil {
		t.Error("expected error for non-integer port")
	}
	if err := setKey(b, "seed.on_start", "maybe"); err == nil {
		t.Error("expected error for non-bool value")
	}
	if err := setKey(b, "ollama.base_url", "x"); err == nil || !strings.Contains(err.Error(), "unknown config key") {
		t.Errorf("err = %v, want unknown key", err)
	}
}

func TestUnsetKey(t *testing.T) {
	clearEnv(t)
	b := newMapBackend()
	if err := setKey(b, "server.port", "4200"); err != nil {
		t.Fatalf("setKey: %v", err)
	}
	if err := unsetKey(b, "server.port"); err != nil {
		t.Fatalf("unsetKey: %v", err)
	}
	cfg, err := loadWith(b, "")
	if err != nil {
		t.Fatalf("loadWith: %v", err)
	}
	if cfg.Server.Port != 4100 {
		t.Errorf("Server.Port = %d, want the default after unset", cfg.Server.Port)
	}
	if err := unsetKey(b, "no.such.key"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestShowAllListsEveryKey(t *testing.T) {
	infos := ShowAll(defaults())
	if len(infos) != len(ValidKeys()) {
		t.Fatalf("ShowAll returned %d keys, ValidKeys %d", len(infos), len(ValidKeys()))
	}
	for _, info := range infos {
		if !strings.HasPrefix(info.EnvVar, "TALENTFLOW_") {
			t.Errorf("%s: env var %q", info.Key, info.EnvVar)
		}
		if info.Key == "remote.latency_min" && info.Value != "200ms" {
			t.Errorf("remote.latency_min shown as %q", info.Value)
		}
	}
}
