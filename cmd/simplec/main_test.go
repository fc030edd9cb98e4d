package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jeronimonunes/simple-compiler/pkg/driver"
	"github.com/jeronimonunes/simple-compiler/pkg/examples"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(oldWD); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}

func writeExample(t *testing.T, dir, name string) string {
	t.Helper()
	ex, ok := examples.Lookup(name)
	if !ok {
		t.Fatalf("unknown example %s", name)
	}
	doc, err := driver.EncodeProgram(ex.Program)
	if err != nil {
		t.Fatalf("EncodeProgram: %v", err)
	}
	path := filepath.Join(dir, name+".yml")
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		t.Fatalf("write program: %v", err)
	}
	return path
}

func TestWritesToFlagDirectory(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	entry := writeExample(t, dir, "factorial")
	out := filepath.Join(dir, "gen")

	if code := run([]string{"-o", out, "-file", "fact.c", entry}); code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	data, err := os.ReadFile(filepath.Join(out, "fact.c"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), "integer fn_factorial(integer n) {") {
		t.Fatalf("unexpected output:\n%s", data)
	}
}

func TestUsesConfiguredDefaults(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	config := "compiler:\n  output_dir: build\n  file_name: main.c\n"
	if err := os.WriteFile(filepath.Join(dir, driver.ConfigFileName), []byte(config), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	entry := writeExample(t, dir, "helloWorld")

	if code := run([]string{entry}); code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if _, err := os.Stat(filepath.Join(dir, "build", "main.c")); err != nil {
		t.Fatalf("expected configured output file: %v", err)
	}
}

func TestRejectsBadArguments(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	if code := run(nil); code != 2 {
		t.Fatalf("expected usage exit 2, got %d", code)
	}
	entry := writeExample(t, dir, "helloWorld")
	if code := run([]string{"-file", "out.go", entry}); code != 2 {
		t.Fatalf("expected exit 2 for non-C file name, got %d", code)
	}
	if code := run([]string{filepath.Join(dir, "missing.yml")}); code != 1 {
		t.Fatalf("expected exit 1 for missing program, got %d", code)
	}
}
