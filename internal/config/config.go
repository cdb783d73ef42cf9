package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	yaml "go.yaml.in/yaml/v3"
)

// Config is the top-level configuration loaded from file/env.
type Config struct {
	Home     string   `yaml:"home"`
	Log      Log      `yaml:"log"`
	Queue    Queue    `yaml:"queue"`
	Keystore Keystore `yaml:"keystore"`
}

// Log controls logger construction.
type Log struct {
	Level  string `yaml:"level"`  // trace, debug, info, warn, error
	Format string `yaml:"format"` // console or json
}

// Queue tunes the per-device job scheduler.
type Queue struct {
	CompactionLimit int `yaml:"compaction_limit"`
}

// Keystore selects how new key files are sealed.
type Keystore struct {
	KDF string `yaml:"kdf"` // argon2id or scrypt
}

// Default returns built-in defaults. Home is left empty; callers resolve it
// with ResolveHome.
func Default() Config {
	return Config{
		Log:      Log{Level: "info", Format: "console"},
		Queue:    Queue{CompactionLimit: 1000},
		Keystore: Keystore{KDF: "argon2id"},
	}
}

// Load reads configuration from a YAML file (JSON is valid YAML) and
// overlays the environment. If path is empty, only defaults and environment
// apply.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, err
		}
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := FromEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field values.
func (c Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "trace", "debug", "info", "warn", "error", "disabled":
	default:
		return fmt.Errorf("log.level: unknown level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format: want console or json, got %q", c.Log.Format)
	}
	if c.Queue.CompactionLimit < 1 {
		return fmt.Errorf("queue.compaction_limit: must be positive, got %d", c.Queue.CompactionLimit)
	}
	switch c.Keystore.KDF {
	case "argon2id", "scrypt":
	default:
		return fmt.Errorf("keystore.kdf: want argon2id or scrypt, got %q", c.Keystore.KDF)
	}
	return nil
}

// ResolveHome fills Home with ~/.sessionkit when unset.
func (c *Config) ResolveHome() error {
	if c.Home != "" {
		return nil
	}
	dir, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	c.Home = filepath.Join(dir, ".sessionkit")
	return nil
}
