package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jinftw64/dicomweb-pacs/internal/config"
)

func TestLoadDefaultsAndExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantRoot := filepath.Join(tempHome, ".local", "share", "dicomweb-pacs", "data")
	if cfg.Paths.StorageRoot != wantRoot {
		t.Fatalf("unexpected storage root: got %q want %q", cfg.Paths.StorageRoot, wantRoot)
	}
	if cfg.Paths.Bind != "127.0.0.1:5001" {
		t.Fatalf("unexpected bind: %q", cfg.Paths.Bind)
	}
	if cfg.DIMSE.EngineURL != "http://127.0.0.1:8042" {
		t.Fatalf("unexpected engine url: %q", cfg.DIMSE.EngineURL)
	}
	if cfg.DIMSE.TimeoutSeconds != 30 {
		t.Fatalf("unexpected timeout: %d", cfg.DIMSE.TimeoutSeconds)
	}
	if cfg.Cache.TransferSyntax != "1.2.840.10008.1.2.1" {
		t.Fatalf("unexpected transfer syntax: %q", cfg.Cache.TransferSyntax)
	}
	if !cfg.Audit.Enabled {
		t.Fatal("expected audit enabled by default")
	}
}

func TestLoadParsesFileAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := strings.Join([]string{
		"[paths]",
		`storage_root = "` + filepath.Join(dir, "archive") + `"`,
		`bind = "  0.0.0.0:8080  "`,
		"[dimse]",
		`engine_url = "http://engine.local:9000/"`,
		"timeout_seconds = -5",
		"[logging]",
		`format = "JSON"`,
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("unexpected resolution: exists=%v path=%q", exists, resolved)
	}
	if cfg.Paths.Bind != "0.0.0.0:8080" {
		t.Fatalf("bind not trimmed: %q", cfg.Paths.Bind)
	}
	if cfg.DIMSE.EngineURL != "http://engine.local:9000" {
		t.Fatalf("engine url not normalized: %q", cfg.DIMSE.EngineURL)
	}
	if cfg.DIMSE.TimeoutSeconds != 30 {
		t.Fatalf("non-positive timeout should fall back to default, got %d", cfg.DIMSE.TimeoutSeconds)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("format not lowercased: %q", cfg.Logging.Format)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"bad log format", "[logging]\nformat = \"xml\"\n"},
		{"bad transfer syntax", "[cache]\ntransfer_syntax = \"not-a-uid\"\n"},
		{"long aet", "[dimse]\naet = \"THIS_AET_IS_FAR_TOO_LONG\"\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			if _, _, _, err := config.Load(path); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestCreateSampleWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[dimse]") {
		t.Fatal("sample config missing dimse section")
	}
}
