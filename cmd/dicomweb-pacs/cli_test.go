package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args []string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeTestConfig(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `[paths]
storage_root = "` + filepath.Join(dir, "archive") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"
bind = "127.0.0.1:5001"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestConfigInitAndValidate(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	out, err := runCLI(t, []string{"config", "init", "--path", target})
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, "Wrote sample configuration") {
		t.Errorf("output missing confirmation: %q", out)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	// A second init without --overwrite refuses to clobber.
	if _, err := runCLI(t, []string{"config", "init", "--path", target}); err == nil {
		t.Error("expected error for existing config file")
	}

	cfgPath := writeTestConfig(t)
	out, err = runCLI(t, []string{"config", "validate", "--config", cfgPath})
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	if !strings.Contains(out, "Configuration valid") {
		t.Errorf("output missing validation result: %q", out)
	}
}

func TestConfigShow(t *testing.T) {
	cfgPath := writeTestConfig(t)
	out, err := runCLI(t, []string{"config", "show", "--config", cfgPath})
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "127.0.0.1:5001") {
		t.Errorf("output missing bind address: %q", out)
	}
}

func TestTagsCommand(t *testing.T) {
	out, err := runCLI(t, []string{"tags"})
	if err != nil {
		t.Fatalf("tags: %v", err)
	}
	if !strings.Contains(out, "StudyInstanceUID") {
		t.Errorf("output missing StudyInstanceUID: %q", out)
	}

	out, err = runCLI(t, []string{"tags", "--filter", "modality"})
	if err != nil {
		t.Fatalf("tags --filter: %v", err)
	}
	if !strings.Contains(out, "Modality") || strings.Contains(out, "StudyDate") {
		t.Errorf("filter not applied: %q", out)
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable([]string{"A", "B"}, [][]string{{"only"}}, nil)
	if !strings.Contains(out, "only") {
		t.Errorf("row value missing from table: %q", out)
	}
}
