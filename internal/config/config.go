// Package config reads qs.toml, the host configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"qs/internal/ids"
	"qs/internal/trace"
)

// FileName is the name Find looks for.
const FileName = "qs.toml"

// KnownModules are the module kinds the host can construct.
var KnownModules = []string{"native"}

type Config struct {
	// Path is the file the configuration came from; empty for defaults.
	Path string `toml:"-"`
	// Root is the directory relative paths are taken from.
	Root string `toml:"-"`

	Domain DomainConfig `toml:"domain"`
	Trace  TraceConfig  `toml:"trace"`
	Cache  CacheConfig  `toml:"cache"`
}

type DomainConfig struct {
	Modules   []string `toml:"modules"`
	Namespace string   `toml:"namespace"`
}

type TraceConfig struct {
	Level    string `toml:"level"`
	Mode     string `toml:"mode"`
	Output   string `toml:"output"`
	RingSize int    `toml:"ring_size"`
}

type CacheConfig struct {
	Manifest  string `toml:"manifest"`
	WarmLimit int    `toml:"warm_limit"`
}

// Default is the configuration used when no file is found.
func Default() Config {
	return Config{
		Root: ".",
		Domain: DomainConfig{
			Modules:   []string{"native"},
			Namespace: "System",
		},
		Trace: TraceConfig{
			Level:    "off",
			Mode:     "stream",
			Output:   "-",
			RingSize: 4096,
		},
		Cache: CacheConfig{
			Manifest: filepath.Join(".qs", "instances.mp"),
		},
	}
}

// Find walks up from startDir looking for qs.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover finds and loads qs.toml above startDir, falling back to the
// defaults when there is none.
func Discover(startDir string) (Config, bool, error) {
	path, ok, err := Find(startDir)
	if err != nil || !ok {
		return Default(), false, err
	}
	cfg, err := Load(path)
	if err != nil {
		return Config{}, true, err
	}
	return cfg, true, nil
}

// Load reads path over the defaults. Unknown keys are errors.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.Path = path
	cfg.Root = filepath.Dir(path)
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that decoding alone cannot.
func (c Config) Validate() error {
	if len(c.Domain.Modules) == 0 {
		return errors.New("[domain].modules is empty")
	}
	for _, m := range c.Domain.Modules {
		if !slices.Contains(KnownModules, m) {
			return fmt.Errorf("[domain].modules: unknown module %q (known: %s)", m, strings.Join(KnownModules, ", "))
		}
	}
	if _, err := ids.Make(c.Domain.Namespace); err != nil {
		return fmt.Errorf("[domain].namespace: %w", err)
	}
	if _, err := trace.ParseLevel(c.Trace.Level); err != nil {
		return fmt.Errorf("[trace].level: %w", err)
	}
	if _, err := trace.ParseMode(c.Trace.Mode); err != nil {
		return fmt.Errorf("[trace].mode: %w", err)
	}
	if c.Trace.RingSize < 0 {
		return fmt.Errorf("[trace].ring_size must not be negative, got %d", c.Trace.RingSize)
	}
	if strings.TrimSpace(c.Cache.Manifest) == "" {
		return errors.New("[cache].manifest is empty")
	}
	if c.Cache.WarmLimit < 0 {
		return fmt.Errorf("[cache].warm_limit must not be negative, got %d", c.Cache.WarmLimit)
	}
	return nil
}

// ManifestPath is the manifest location resolved against Root.
func (c Config) ManifestPath() string {
	p := filepath.FromSlash(c.Cache.Manifest)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, p)
}

// TraceOutputPath is the trace output resolved against Root; "-" stays
// stderr.
func (c Config) TraceOutputPath() string {
	out := c.Trace.Output
	if out == "" || out == "-" || filepath.IsAbs(out) {
		return out
	}
	return filepath.Join(c.Root, filepath.FromSlash(out))
}
