//go:build !darwin

package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
)

func defaultDataDir() string {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "talentflow-data"
		}
		dir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dir, "talentflow")
}

func configFilePath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join("talentflow", "config.json")
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "talentflow", "config.json")
}

// fileBackend keeps keys in one flat JSON object. Numbers and booleans are
// stored as JSON numbers and booleans; a quoted value is accepted too, so a
// hand-edited file may use strings throughout.
type fileBackend struct {
	path string
	data map[string]any
}

func newPlatformBackend() ConfigBackend {
	return openFileBackend(configFilePath())
}

func openFileBackend(path string) *fileBackend {
	b := &fileBackend{path: path, data: make(map[string]any)}
	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "[WARN] could not read config file %s: %v. Using default values.\n", path, err)
		}
		return b
	}
	if err := json.Unmarshal(raw, &b.data); err != nil {
		fmt.Fprintf(os.Stderr, "[WARN] could not parse config file %s: %v. Using default values.\n", path, err)
		b.data = make(map[string]any)
	}
	return b
}

func (b *fileBackend) put(key string, v any) error {
	if v == nil {
		delete(b.data, key)
	} else {
		b.data[key] = v
	}
	if err := os.MkdirAll(filepath.Dir(b.path), 0o700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	out, err := json.MarshalIndent(b.data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(b.path, out, 0o600)
}

func (b *fileBackend) GetString(key string) (string, bool, error) {
	v, ok := b.data[key]
	if !ok {
		return "", false, nil
	}
	if s, isString := v.(string); isString {
		return s, true, nil
	}
	return fmt.Sprint(v), true, nil
}

func (b *fileBackend) GetInt(key string) (int, bool, error) {
	f, ok, err := b.GetFloat(key)
	if !ok || err != nil {
		return 0, ok, err
	}
	if f != math.Trunc(f) || f < math.MinInt || f > math.MaxInt {
		return 0, true, fmt.Errorf("%s: %v is not an integer", key, f)
	}
	return int(f), true, nil
}

func (b *fileBackend) GetFloat(key string) (float64, bool, error) {
	switch v := b.data[key].(type) {
	case nil:
		return 0, false, nil
	case float64:
		return v, true, nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, true, fmt.Errorf("%s: %w", key, err)
		}
		return f, true, nil
	default:
		return 0, true, fmt.Errorf("%s: expected a number, got %T", key, v)
	}
}

func (b *fileBackend) GetBool(key string) (bool, bool, error) {
	switch v := b.data[key].(type) {
	case nil:
		return false, false, nil
	case bool:
		return v, true, nil
	case string:
		on, err := strconv.ParseBool(v)
		if err != nil {
			return false, true, fmt.Errorf("%s: %w", key, err)
		}
		return on, true, nil
	default:
		return false, true, fmt.Errorf("%s: expected a boolean, got %T", key, v)
	}
}

func (b *fileBackend) SetString(key, val string) error { return b.put(key, val) }
func (b *fileBackend) SetInt(key string, val int) error { return b.put(key, val) }
func (b *fileBackend) SetBool(key string, val bool) error { return b.put(key, val) }
func (b *fileBackend) SetFloat(key string, val float64) error { return b.put(key, val) }
func (b *fileBackend) Delete(key string) error { return b.put(key, nil) }
