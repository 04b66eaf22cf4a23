package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tunepress/internal/config"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, path, exists, err := config.Load(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if exists {
		t.Fatalf("expected exists=false for missing file at %s", path)
	}
	if cfg.Transcoder != "ffmpeg" {
		t.Fatalf("unexpected default transcoder %q", cfg.Transcoder)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
	if !filepath.IsAbs(cfg.Paths.StateDir) {
		t.Fatalf("state dir not absolute: %s", cfg.Paths.StateDir)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
transcoder = "  /opt/ffmpeg/bin/ffmpeg  "

[paths]
state_dir = "` + filepath.Join(dir, "state") + `"

[logging]
format = "JSON"
level = "Debug"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected load from %s, got %s exists=%v", path, resolved, exists)
	}
	if cfg.Transcoder != "/opt/ffmpeg/bin/ffmpeg" {
		t.Fatalf("transcoder not trimmed: %q", cfg.Transcoder)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("logging not lowercased: %+v", cfg.Logging)
	}
	if cfg.CheckpointPath() != filepath.Join(dir, "state", "checkpoint.toml") {
		t.Fatalf("unexpected checkpoint path %s", cfg.CheckpointPath())
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"empty transcoder": `transcoder = " "`,
		"bad format":       "[logging]\nformat = \"yaml\"",
		"bad level":        "[logging]\nlevel = \"loud\"",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			if _, _, _, err := config.Load(path); err == nil {
				t.Fatalf("expected validation error for %s", name)
			}
		})
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("create sample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "transcoder") {
		t.Fatalf("sample missing transcoder key")
	}
	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config should load cleanly: %v", err)
	}
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StateDir = filepath.Join(dir, "state")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	for _, p := range []string{cfg.Paths.StateDir, cfg.Paths.LogDir} {
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory at %s: %v", p, err)
		}
	}
}
