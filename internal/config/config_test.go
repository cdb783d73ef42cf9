package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sessionkit/internal/config"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Queue.CompactionLimit != 1000 || cfg.Keystore.KDF != "argon2id" || cfg.Log.Level != "info" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoad_YAMLAndEnv(t *testing.T) {
	path := writeFile(t, "sessionkit.yaml", `
home: /tmp/sk
log:
  level: debug
queue:
  compaction_limit: 50
keystore:
  kdf: scrypt
`)
	t.Setenv("SESSIONKIT_QUEUE_COMPACTION_LIMIT", "64")
	t.Setenv("SESSIONKIT_LOG_FORMAT", "json")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Home != "/tmp/sk" || cfg.Log.Level != "debug" || cfg.Keystore.KDF != "scrypt" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Queue.CompactionLimit != 64 || cfg.Log.Format != "json" {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	if _, err := config.Load(writeFile(t, "empty.yaml", "")); err != nil {
		t.Fatalf("Load(empty): %v", err)
	}
}

func TestLoad_Rejects(t *testing.T) {
	cases := map[string]string{
		"unknown field": "queue:\n  size: 3\n",
		"bad limit":     "queue:\n  compaction_limit: 0\n",
		"bad kdf":       "keystore:\n  kdf: md5\n",
		"bad level":     "log:\n  level: loud\n",
		"bad format":    "log:\n  format: xml\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := config.Load(writeFile(t, "c.yaml", body)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoad_RejectsMalformedEnv(t *testing.T) {
	t.Setenv("SESSIONKIT_QUEUE_COMPACTION_LIMIT", "lots")
	if _, err := config.Load(""); err == nil || !strings.Contains(err.Error(), "SESSIONKIT_QUEUE_COMPACTION_LIMIT") {
		t.Fatalf("err = %v, want compaction limit parse error", err)
	}
}

func TestResolveHome(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg := config.Default()
	if err := cfg.ResolveHome(); err != nil {
		t.Fatalf("ResolveHome: %v", err)
	}
	if !strings.HasSuffix(cfg.Home, ".sessionkit") {
		t.Fatalf("Home = %q", cfg.Home)
	}
}
