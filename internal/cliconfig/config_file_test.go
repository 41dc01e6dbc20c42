package cliconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFileConfig(t *testing.T) {
	path := writeConfigFile(t, `
stream = "file-stream"
region = "eu-west-1"
role_arn = "arn:aws:iam::123456789012:role/writer"
flush_delay = "1s"
log_batches = true
`)

	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	cfg := DefaultConfig()
	if err := ApplyFileConfig(&cfg, fc, map[string]bool{}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if cfg.Stream != "file-stream" || cfg.Region != "eu-west-1" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.RoleARN != "arn:aws:iam::123456789012:role/writer" {
		t.Fatalf("role arn %q", cfg.RoleARN)
	}
	if cfg.FlushDelay != time.Second {
		t.Fatalf("flush delay %v", cfg.FlushDelay)
	}
	if !cfg.LogBatches {
		t.Fatalf("log_batches not applied")
	}
}

func TestFileRespectsChangedFlags(t *testing.T) {
	path := writeConfigFile(t, `stream = "file-stream"`)

	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	cfg := DefaultConfig()
	cfg.Stream = "flag-stream"
	if err := ApplyFileConfig(&cfg, fc, map[string]bool{"stream": true}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if cfg.Stream != "flag-stream" {
		t.Fatalf("explicit flag overridden by file: %q", cfg.Stream)
	}
}

func TestFileInvalidDuration(t *testing.T) {
	path := writeConfigFile(t, `flush_delay = "soon"`)

	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := DefaultConfig()
	if err := ApplyFileConfig(&cfg, fc, map[string]bool{}); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}

func TestLoadFileConfigMissingFile(t *testing.T) {
	if _, err := LoadFileConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestFileExists(t *testing.T) {
	path := writeConfigFile(t, "")
	if !FileExists(path) {
		t.Fatalf("existing file not detected")
	}
	if FileExists(path + ".absent") {
		t.Fatalf("missing file detected")
	}
}
