package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	path := filepath.Join(root, "qs.toml")
	data := `[domain]
modules = ["native"]
namespace = "System"

[cache]
manifest = "cache/instances.mp"
warm_limit = 2
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// run executes the root command with args and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resolveRecord, resolveFunc = false, false
	versionFormat, versionFull = "pretty", false

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append([]string{"--color", "off", "--ui", "off"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestReadUIMode(t *testing.T) {
	tests := []struct {
		in   string
		want uiMode
		ok   bool
	}{
		{"", uiModeAuto, true},
		{" ON ", uiModeOn, true},
		{"off", uiModeOff, true},
		{"sometimes", "", false},
	}
	for _, tt := range tests {
		got, err := readUIMode(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Fatalf("readUIMode(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestApplyColorModeRejectsUnknown(t *testing.T) {
	if err := applyColorMode("rainbow"); err == nil {
		t.Fatalf("expected error for unknown color mode")
	}
}

func TestResolveRecordThenWarm(t *testing.T) {
	cfg := writeConfig(t)

	out, err := run(t, "--config", cfg, "resolve", "--record", "List<List<int>>")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !strings.Contains(out, "List<List<int>> => System.List<System.List<System.int>>") {
		t.Fatalf("unexpected resolve output:\n%s", out)
	}
	if !strings.Contains(out, "recorded 6 types, 0 functions") {
		t.Fatalf("expected 6 recorded types:\n%s", out)
	}
	manifest := filepath.Join(filepath.Dir(cfg), "cache", "instances.mp")
	if _, err := os.Stat(manifest); err != nil {
		t.Fatalf("manifest not written: %v", err)
	}

	out, err = run(t, "--config", cfg, "warm")
	if err != nil {
		t.Fatalf("warm: %v", err)
	}
	if !strings.Contains(out, "warmed 6 types, 0 functions") {
		t.Fatalf("unexpected warm output:\n%s", out)
	}
}

func TestResolveFunc(t *testing.T) {
	cfg := writeConfig(t)
	out, err := run(t, "--config", cfg, "resolve", "--func", "List<string>.Add")
	if err != nil {
		t.Fatalf("resolve --func: %v", err)
	}
	if !strings.Contains(out, "Add") || !strings.Contains(out, "System.string") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestResolveErrors(t *testing.T) {
	cfg := writeConfig(t)
	for _, expr := range []string{"Map<int>", "List", "List<int", "int.Foo"} {
		if _, err := run(t, "--config", cfg, "resolve", expr); err == nil {
			t.Fatalf("resolve %q: expected error", expr)
		}
	}
}

func TestWarmWithoutManifest(t *testing.T) {
	cfg := writeConfig(t)
	out, err := run(t, "--config", cfg, "warm")
	if err != nil {
		t.Fatalf("warm: %v", err)
	}
	if !strings.Contains(out, "no manifest") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestModulesTable(t *testing.T) {
	cfg := writeConfig(t)
	out, err := run(t, "--config", cfg, "modules")
	if err != nil {
		t.Fatalf("modules: %v", err)
	}
	if !strings.Contains(out, "System     native  5      4") {
		t.Fatalf("unexpected table:\n%s", out)
	}
	if !strings.Contains(out, "4 type instances") {
		t.Fatalf("expected primitive instances in stats:\n%s", out)
	}
}

func TestVersionJSON(t *testing.T) {
	out, err := run(t, "version", "--format", "json")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, `"tool": "qs"`) {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestWarmRejectsBadUIMode(t *testing.T) {
	cfg := writeConfig(t)
	if _, err := run(t, "--config", cfg, "resolve", "--record", "int"); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if _, err := run(t, "--config", cfg, "--ui", "sometimes", "warm"); err == nil {
		t.Fatalf("expected error for --ui sometimes")
	}
}
