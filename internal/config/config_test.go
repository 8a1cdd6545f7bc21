package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestGenerateDefaultIsValid(t *testing.T) {
	cfg, err := FromYAML([]byte(GenerateDefault()))
	if err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Server.URL != "http://127.0.0.1:8080" {
		t.Fatalf("unexpected server url: %s", cfg.Server.URL)
	}
	if cfg.Cache.StaleTime != 30*time.Second {
		t.Fatalf("unexpected stale time: %s", cfg.Cache.StaleTime)
	}
}

func TestValidateRejectsRelativeURL(t *testing.T) {
	if _, err := FromYAML([]byte("server:\n  url: not-a-url\n")); err == nil {
		t.Fatalf("expected error for relative url")
	}
	if _, err := FromYAML([]byte("cache:\n  stale_time: 10s\n")); err == nil {
		t.Fatalf("expected error for missing url")
	}
}

func TestValidateRejectsNegativeStaleTime(t *testing.T) {
	yaml := "server:\n  url: http://localhost:8080\ncache:\n  stale_time: -5s\n"
	if _, err := FromYAML([]byte(yaml)); err == nil {
		t.Fatalf("expected error for negative stale time")
	}
}

func TestLoadOptional(t *testing.T) {
	workspace := t.TempDir()
	cfg, err := LoadOptional(workspace)
	if err != nil || cfg != nil {
		t.Fatalf("expected nil,nil for missing config, got %v, %v", cfg, err)
	}
	if err := os.WriteFile(filepath.Join(workspace, "larplaner.yml"), []byte(GenerateDefault()), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err = LoadOptional(workspace)
	if err != nil || cfg == nil {
		t.Fatalf("expected config, got %v, %v", cfg, err)
	}
}

func TestLoadMissingMentionsInit(t *testing.T) {
	_, err := Load(t.TempDir())
	if err == nil || !strings.Contains(err.Error(), "config init") {
		t.Fatalf("expected pointer to config init, got %v", err)
	}
}
