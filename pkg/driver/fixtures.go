package driver

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jeronimonunes/simple-compiler/pkg/ast"
	"github.com/jeronimonunes/simple-compiler/pkg/compiler"
	"github.com/jeronimonunes/simple-compiler/pkg/interpreter"
	"github.com/jeronimonunes/simple-compiler/pkg/runtime"
)

const (
	FixtureProgramFile  = "program.yml"
	FixtureManifestFile = "manifest.yml"
)

// FixtureManifest describes the expected behaviour of one fixture program.
type FixtureManifest struct {
	Description string        `yaml:"description,omitempty"`
	Input       string        `yaml:"input,omitempty"`
	Expect      FixtureExpect `yaml:"expect"`
}

// FixtureExpect holds the expectations checked by RunFixture. Error names an
// engine error kind; Compiles is left unchecked when nil.
type FixtureExpect struct {
	Stdout   string            `yaml:"stdout,omitempty"`
	Error    runtime.ErrorKind `yaml:"error,omitempty"`
	Compiles *bool             `yaml:"compiles,omitempty"`
}

type FixtureOptions struct {
	MaxCallDepth int
}

// FixtureResult is the outcome of running one fixture. Failures is empty when
// every expectation held.
type FixtureResult struct {
	Dir         string
	Description string
	Stdout      string
	Failures    []string
}

func (r *FixtureResult) Passed() bool {
	return r != nil && len(r.Failures) == 0
}

func (r *FixtureResult) failf(format string, args ...any) {
	r.Failures = append(r.Failures, fmt.Sprintf(format, args...))
}

// LoadFixtureManifest parses manifest.yml from dir.
func LoadFixtureManifest(dir string) (*FixtureManifest, error) {
	path := filepath.Join(dir, FixtureManifestFile)
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var manifest FixtureManifest
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&manifest); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("fixture: parse %s: %w", path, err)
	}
	return &manifest, nil
}

// CollectFixtures returns every directory under root holding a fixture
// manifest, in lexical order.
func CollectFixtures(root string) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(root, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() && entry.Name() == ".git" {
			return filepath.SkipDir
		}
		if entry.Type().IsRegular() && entry.Name() == FixtureManifestFile {
			dirs = append(dirs, filepath.Dir(path))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fixture: walk %s: %w", root, err)
	}
	sort.Strings(dirs)
	return dirs, nil
}

// RunFixture loads the fixture in dir, runs it through the interpreter and
// the C emitter, and compares both against the manifest. The returned error
// covers only fixtures that cannot be loaded.
func RunFixture(dir string, opts FixtureOptions) (*FixtureResult, error) {
	manifest, err := LoadFixtureManifest(dir)
	if err != nil {
		return nil, err
	}
	program, err := LoadProgram(filepath.Join(dir, FixtureProgramFile))
	if err != nil {
		return nil, err
	}
	result := &FixtureResult{Dir: dir, Description: manifest.Description}

	interp := interpreter.New(interpreter.Options{MaxCallDepth: opts.MaxCallDepth})
	stdout, runErr := interp.Run(program, manifest.Input)
	result.Stdout = stdout
	switch {
	case manifest.Expect.Error != "":
		if got := runtime.KindOf(runErr); got != manifest.Expect.Error {
			result.failf("expected error %s, got %v", manifest.Expect.Error, runErr)
		}
	case runErr != nil:
		result.failf("unexpected error: %v", runErr)
	case stdout != manifest.Expect.Stdout:
		result.failf("stdout mismatch: expected %q, got %q", manifest.Expect.Stdout, stdout)
	}

	if manifest.Expect.Compiles != nil {
		_, genErr := compiler.Generate(program)
		if *manifest.Expect.Compiles && genErr != nil {
			result.failf("expected program to compile: %v", genErr)
		}
		if !*manifest.Expect.Compiles && genErr == nil {
			result.failf("expected compilation to fail")
		}
	}
	return result, nil
}

// RunFixtures runs every fixture under root.
func RunFixtures(root string, opts FixtureOptions) ([]*FixtureResult, error) {
	dirs, err := CollectFixtures(root)
	if err != nil {
		return nil, err
	}
	results := make([]*FixtureResult, 0, len(dirs))
	for _, dir := range dirs {
		res, err := RunFixture(dir, opts)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// WriteFixture stores program and manifest as a fixture directory.
func WriteFixture(dir string, program *ast.Program, manifest *FixtureManifest) error {
	if manifest == nil {
		return fmt.Errorf("fixture: nil manifest")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("fixture: create %s: %w", dir, err)
	}
	doc, err := EncodeProgram(program)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, FixtureProgramFile), doc, 0o644); err != nil {
		return fmt.Errorf("fixture: write program: %w", err)
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(manifest); err != nil {
		return fmt.Errorf("fixture: marshal manifest: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("fixture: encoder close: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, FixtureManifestFile), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("fixture: write manifest: %w", err)
	}
	return nil
}

// FixtureName turns a fixture directory into a name relative to root.
func FixtureName(root, dir string) string {
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return dir
	}
	return strings.TrimPrefix(filepath.ToSlash(rel), "./")
}
