//go:build darwin

package config

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

const defaultsDomain = "com.talentflow.app"

func defaultDataDir() string {
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, "Library", "Application Support", "TalentFlow")
	}
	return "talentflow-data"
}

// darwinBackend shells out to `defaults`, so values set from the CLI show
// up in any tool that reads the com.talentflow.app domain.
type darwinBackend struct {
	domain string
}

func newPlatformBackend() ConfigBackend {
	return &darwinBackend{domain: defaultsDomain}
}

func (b *darwinBackend) read(key string) (string, bool, error) {
	out, err := exec.Command("defaults", "read", b.domain, key).CombinedOutput()
	s := strings.TrimSpace(string(out))
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return "", false, nil
		}
		return "", false, fmt.Errorf("reading default for key '%s': %w, output: %s", key, err, s)
	}
	return s, true, nil
}

// readAs reads key and converts it with parse.
func readAs[T any](b *darwinBackend, key string, parse func(string) (T, error)) (T, bool, error) {
	var zero T
	s, ok, err := b.read(key)
	if !ok || err != nil {
		return zero, ok, err
	}
	v, err := parse(s)
	if err != nil {
		return zero, true, fmt.Errorf("%s: %w", key, err)
	}
	return v, true, nil
}

func (b *darwinBackend) write(key, typ, val string) error {
	return exec.Command("defaults", "write", b.domain, key, typ, val).Run()
}

func (b *darwinBackend) GetString(key string) (string, bool, error) {
	return b.read(key)
}

func (b *darwinBackend) GetInt(key string) (int, bool, error) {
	return readAs(b, key, strconv.Atoi)
}

// GetBool accepts the 1/0 that `defaults read` prints for -bool values.
func (b *darwinBackend) GetBool(key string) (bool, bool, error) {
	return readAs(b, key, strconv.ParseBool)
}

func (b *darwinBackend) GetFloat(key string) (float64, bool, error) {
	return readAs(b, key, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
}

func (b *darwinBackend) SetString(key, val string) error {
	return b.write(key, "-string", val)
}

func (b *darwinBackend) SetInt(key string, val int) error {
	return b.write(key, "-int", strconv.Itoa(val))
}

func (b *darwinBackend) SetBool(key string, val bool) error {
	return b.write(key, "-bool", strconv.FormatBool(val))
}

func (b *darwinBackend) SetFloat(key string, val float64) error {
	return b.write(key, "-float", strconv.FormatFloat(val, 'f', -1, 64))
}

func (b *darwinBackend) Delete(key string) error {
	return exec.Command("defaults", "delete", b.domain, key).Run()
}
