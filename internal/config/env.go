package config

import (
	"fmt"
	"os"
	"strconv"
)

// FromEnv overlays SESSIONKIT_* environment variables onto cfg. A value
// that does not parse is an error, as it would be in the YAML file.
func FromEnv(cfg *Config) error {
	if v := os.Getenv("SESSIONKIT_HOME"); v != "" {
		cfg.Home = v
	}
	if v := os.Getenv("SESSIONKIT_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("SESSIONKIT_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("SESSIONKIT_QUEUE_COMPACTION_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SESSIONKIT_QUEUE_COMPACTION_LIMIT: %q is not an integer", v)
		}
		cfg.Queue.CompactionLimit = n
	}
	if v := os.Getenv("SESSIONKIT_KEYSTORE_KDF"); v != "" {
		cfg.Keystore.KDF = v
	}
	return nil
}
