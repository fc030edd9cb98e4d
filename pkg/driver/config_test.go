package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jeronimonunes/simple-compiler/pkg/interpreter"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(strings.TrimSpace(contents)+"\n"), 0o644); err != nil {
		t.Fatalf("write file %s: %v", path, err)
	}
}

func TestLoadConfigResolvesRelativeDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	writeFile(t, path, `
max_call_depth: 250
compiler:
  output_dir: build/c
  file_name: out.c
fixtures:
  repo: https://example.com/fixtures.git
  rev: main
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.MaxCallDepth != 250 {
		t.Fatalf("expected max depth 250, got %d", cfg.MaxCallDepth)
	}
	if cfg.Compiler.OutputDir != filepath.Join(dir, "build", "c") {
		t.Fatalf("unexpected output dir %q", cfg.Compiler.OutputDir)
	}
	if cfg.Compiler.FileName != "out.c" {
		t.Fatalf("unexpected file name %q", cfg.Compiler.FileName)
	}
	if cfg.Fixtures.Repo != "https://example.com/fixtures.git" || cfg.Fixtures.Rev != "main" {
		t.Fatalf("unexpected fixtures config %+v", cfg.Fixtures)
	}
	if cfg.Fixtures.CacheDir != filepath.Join(dir, ".simple", "cache") {
		t.Fatalf("unexpected cache dir %q", cfg.Fixtures.CacheDir)
	}
}

func TestLoadConfigEmptyFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.MaxCallDepth != 0 || cfg.Compiler.FileName != defaultFileName || cfg.Fixtures.Rev != defaultRev {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoadConfigRejectsUnknownFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	writeFile(t, path, `
max_depth: 5
`)
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected unknown field to be rejected")
	}
}

func TestLoadConfigRejectsNegativeDepth(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	writeFile(t, path, `
max_call_depth: -1
`)
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "max_call_depth") {
		t.Fatalf("expected negative depth error, got %v", err)
	}
}

func TestLoadConfigRejectsExcessiveDepth(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	writeFile(t, path, fmt.Sprintf("max_call_depth: %d\n", interpreter.MaxCallDepthLimit+1))
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "must not exceed") {
		t.Fatalf("expected depth limit error, got %v", err)
	}

	writeFile(t, path, fmt.Sprintf("max_call_depth: %d\n", interpreter.MaxCallDepthLimit))
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config at the limit: %v", err)
	}
	if cfg.MaxCallDepth != interpreter.MaxCallDepthLimit {
		t.Fatalf("expected depth %d, got %d", interpreter.MaxCallDepthLimit, cfg.MaxCallDepth)
	}
}

func TestFindConfigWalksUp(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, ConfigFileName)
	writeFile(t, path, `
max_call_depth: 7
`)
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	found, err := FindConfig(nested)
	if err != nil {
		t.Fatalf("FindConfig: %v", err)
	}
	if found != path {
		t.Fatalf("expected %s, got %s", path, found)
	}

	cfg, err := ResolveConfig(nested)
	if err != nil {
		t.Fatalf("ResolveConfig: %v", err)
	}
	if cfg.MaxCallDepth != 7 || cfg.Path != path {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Path != "" {
		t.Fatalf("expected no path, got %q", cfg.Path)
	}
	if cfg.Compiler.OutputDir != defaultOutputDir || cfg.Compiler.FileName != defaultFileName {
		t.Fatalf("unexpected compiler defaults %+v", cfg.Compiler)
	}
	if cfg.Fixtures.CacheDir != defaultCacheDir || cfg.Fixtures.Rev != defaultRev {
		t.Fatalf("unexpected fixture defaults %+v", cfg.Fixtures)
	}
}
