package config

import (
	"errors"
	"os"
)

// Starter is the config written by EnsureUserConfig: the criteria of the
// original mailer plus every default spelled out.
func Starter() Config {
	cfg := Default()
	cfg.Locations = []string{"서울", "경기"}
	cfg.Jobs = []string{"백엔드", "서버"}
	cfg.Years = 2
	cfg.Email = "you@example.com"
	return cfg
}

// EnsureUserConfig writes Starter to path unless a file already exists there.
// It reports whether a file was created.
func EnsureUserConfig(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return false, err
	}

	if err := SaveAtomic(path, Starter()); err != nil {
		return false, err
	}
	return true, nil
}
