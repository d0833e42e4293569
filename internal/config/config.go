package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Log     LogConfig
	Remote  RemoteConfig
	Seed    SeedConfig
}

type ServerConfig struct {
	Port int
	// BaseURL is where the CLI reaches the API. Empty means localhost on Port.
	BaseURL string
}

type StorageConfig struct {
	DataDir string
}

type LogConfig struct {
	Level string
}

// RemoteConfig shapes the simulated network of the Remote Store.
type RemoteConfig struct {
	LatencyMin       time.Duration
	LatencyMax       time.Duration
	WriteFailureRate float64
}

type SeedConfig struct {
	OnStart bool
	File    string
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port: 4100,
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		Log: LogConfig{
			Level: "info",
		},
		Remote: RemoteConfig{
			LatencyMin:       200 * time.Millisecond,
			LatencyMax:       1200 * time.Millisecond,
			WriteFailureRate: 0.075,
		},
		Seed: SeedConfig{
			OnStart: true,
		},
	}
}

// ServerURL is the base URL clients use to reach the API.
func (c Config) ServerURL() string {
	if c.Server.BaseURL != "" {
		return strings.TrimRight(c.Server.BaseURL, "/")
	}
	return fmt.Sprintf("http://localhost:%d", c.Server.Port)
}

// Load reads configuration from the platform-native backend, a .env file in
// the working directory, and environment variables.
//
// On macOS the backend is UserDefaults (domain: com.talentflow.app).
// On Linux the backend is a JSON file at $XDG_CONFIG_HOME/talentflow/config.json.
//
// Variables from .env never replace ones already set in the environment.
// Environment variables (TALENTFLOW_*) override backend values on all platforms.
func Load() (Config, error) {
	return loadWith(newPlatformBackend(), ".env")
}

func loadWith(b ConfigBackend, envFile string) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}
	applyEnvOverrides(&cfg)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid config: server.port %d is out of range", c.Server.Port)
	}
	if c.Remote.LatencyMin < 0 || c.Remote.LatencyMax < 0 {
		return fmt.Errorf("invalid config: remote latency must not be negative")
	}
	if c.Remote.LatencyMax < c.Remote.LatencyMin {
		return fmt.Errorf("invalid config: remote.latency_max %v is below remote.latency_min %v", c.Remote.LatencyMax, c.Remote.LatencyMin)
	}
	if c.Remote.WriteFailureRate < 0 || c.Remote.WriteFailureRate > 1 {
		return fmt.Errorf("invalid config: remote.write_failure_rate %v is not within [0, 1]", c.Remote.WriteFailureRate)
	}
	return nil
}
