package driver

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jeronimonunes/simple-compiler/pkg/interpreter"
)

// ConfigFileName is the project configuration file looked up by the CLIs.
const ConfigFileName = "simple.yml"

const (
	defaultOutputDir = "target/c"
	defaultFileName  = "program.c"
	defaultCacheDir  = ".simple/cache"
	defaultRev       = "HEAD"
)

// Config models simple.yml.
type Config struct {
	Path         string
	MaxCallDepth int
	Compiler     CompilerConfig
	Fixtures     FixturesConfig
}

type CompilerConfig struct {
	OutputDir string
	FileName  string
}

// FixturesConfig points at a git repository holding a fixture corpus.
type FixturesConfig struct {
	Repo     string
	Rev      string
	CacheDir string
}

// DefaultConfig returns the configuration used when no simple.yml exists.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.normalize("")
	return cfg
}

// LoadConfig parses simple.yml from disk. Relative directories are resolved
// against the directory holding the file.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var raw configDisk
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %s: %w", abs, err)
	}
	if raw.MaxCallDepth < 0 {
		return nil, fmt.Errorf("config: %s: max_call_depth must not be negative", abs)
	}
	if raw.MaxCallDepth > interpreter.MaxCallDepthLimit {
		return nil, fmt.Errorf("config: %s: max_call_depth must not exceed %d", abs, interpreter.MaxCallDepthLimit)
	}

	cfg := raw.toConfig()
	cfg.Path = abs
	cfg.normalize(filepath.Dir(abs))
	return cfg, nil
}

// FindConfig walks up from start looking for simple.yml. It returns "" when
// no file is found.
func FindConfig(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("config: resolve %s: %w", start, err)
	}
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("config: stat %s: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// ResolveConfig loads the nearest simple.yml above start, or the defaults
// when there is none.
func ResolveConfig(start string) (*Config, error) {
	path, err := FindConfig(start)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadConfig(path)
}

func (c *Config) normalize(base string) {
	c.Compiler.OutputDir = strings.TrimSpace(c.Compiler.OutputDir)
	if c.Compiler.OutputDir == "" {
		c.Compiler.OutputDir = defaultOutputDir
	}
	c.Compiler.FileName = strings.TrimSpace(c.Compiler.FileName)
	if c.Compiler.FileName == "" {
		c.Compiler.FileName = defaultFileName
	}
	c.Fixtures.Repo = strings.TrimSpace(c.Fixtures.Repo)
	c.Fixtures.Rev = strings.TrimSpace(c.Fixtures.Rev)
	if c.Fixtures.Rev == "" {
		c.Fixtures.Rev = defaultRev
	}
	c.Fixtures.CacheDir = strings.TrimSpace(c.Fixtures.CacheDir)
	if c.Fixtures.CacheDir == "" {
		c.Fixtures.CacheDir = defaultCacheDir
	}
	if base != "" {
		if !filepath.IsAbs(c.Compiler.OutputDir) {
			c.Compiler.OutputDir = filepath.Join(base, c.Compiler.OutputDir)
		}
		if !filepath.IsAbs(c.Fixtures.CacheDir) {
			c.Fixtures.CacheDir = filepath.Join(base, c.Fixtures.CacheDir)
		}
	}
}

type configDisk struct {
	MaxCallDepth int                `yaml:"max_call_depth"`
	Compiler     compilerConfigDisk `yaml:"compiler"`
	Fixtures     fixturesConfigDisk `yaml:"fixtures"`
}

type compilerConfigDisk struct {
	OutputDir string `yaml:"output_dir"`
	FileName  string `yaml:"file_name"`
}

type fixturesConfigDisk struct {
	Repo     string `yaml:"repo"`
	Rev      string `yaml:"rev"`
	CacheDir string `yaml:"cache_dir"`
}

func (d configDisk) toConfig() *Config {
	return &Config{
		MaxCallDepth: d.MaxCallDepth,
		Compiler: CompilerConfig{
			OutputDir: d.Compiler.OutputDir,
			FileName:  d.Compiler.FileName,
		},
		Fixtures: FixturesConfig{
			Repo:     d.Fixtures.Repo,
			Rev:      d.Fixtures.Rev,
			CacheDir: d.Fixtures.CacheDir,
		},
	}
}
