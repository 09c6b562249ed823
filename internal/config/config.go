// Package config loads review configuration from flat key = value files
// and layers environment and flag overrides on top, koanf-style.
//
// The file format: one `key = value` pair per line, `#` starts a
// trailing comment, blank lines are skipped. Lines with text but no `=`,
// or with an empty key or value, are reported back to the caller as
// warnings and otherwise ignored.
package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix is the prefix for environment variable overrides, e.g.
// SCHEMALINT_MAX_CHAIN_LENGTH=5.
const EnvPrefix = "SCHEMALINT_"

// Recognized configuration keys.
const (
	KeyMaxChainLength  = "max_chain_length"
	KeyMaxRowsPerShard = "max_rows_per_shard"
	KeyMinRowsPerShard = "min_rows_per_shard"
	KeyMaxSkewRatio    = "max_skew_ratio"
)

// Defaults applied when a key is unset.
const (
	DefaultMaxChainLength  = 3
	DefaultMaxRowsPerShard = 50_000_000
	DefaultMinRowsPerShard = 5_000_000
	DefaultMaxSkewRatio    = 0.01
)

// Config is a flat string-to-string configuration with get-or-default
// access. The zero value is not usable; create instances with New or
// Load.
type Config struct {
	k *koanf.Koanf
}

// New creates an empty configuration.
func New() *Config {
	return &Config{k: koanf.New(".")}
}

// Load reads a key = value file and layers SCHEMALINT_-prefixed
// environment variables over it. The returned warnings describe
// malformed lines that were skipped; they do not make the load fail.
func Load(path string) (*Config, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to open config file %s: %w", path, err)
	}
	defer f.Close()

	pairs, warnings, err := Parse(f)
	if err != nil {
		return nil, warnings, fmt.Errorf("reading config file %s: %w", path, err)
	}
	for i, w := range warnings {
		warnings[i] = fmt.Sprintf("%s: %s", path, w)
	}

	cfg, err := fromPairs(pairs)
	if err != nil {
		return nil, warnings, err
	}
	return cfg, warnings, nil
}

// FromMap creates a configuration from already parsed pairs, with
// environment overrides applied.
func FromMap(pairs map[string]string) (*Config, error) {
	return fromPairs(pairs)
}

func fromPairs(pairs map[string]string) (*Config, error) {
	cfg := New()

	values := make(map[string]interface{}, len(pairs))
	for k, v := range pairs {
		values[k] = v
	}
	if err := cfg.k.Load(confmap.Provider(values, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load config values: %w", err)
	}

	// SCHEMALINT_MAX_CHAIN_LENGTH -> max_chain_length
	if err := cfg.k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env overrides: %w", err)
	}

	return cfg, nil
}

// Parse reads key = value lines from r. Malformed lines are collected
// as warnings and skipped.
func Parse(r io.Reader) (map[string]string, []string, error) {
	pairs := make(map[string]string)
	var warnings []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			warnings = append(warnings, fmt.Sprintf("ignoring line %q", line))
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" || value == "" {
			warnings = append(warnings, fmt.Sprintf("badly formed line %q", line))
			continue
		}
		pairs[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, warnings, err
	}
	return pairs, warnings, nil
}

// LoadFlags overlays explicitly set pflag values, kebab-case flag names
// mapping to snake_case keys. Flags take priority over file and env.
func (c *Config) LoadFlags(flags *pflag.FlagSet) error {
	if flags == nil {
		return nil
	}
	return c.k.Load(posflag.ProviderWithFlag(flags, ".", c.k, func(f *pflag.Flag) (string, interface{}) {
		if !f.Changed {
			return "", nil
		}
		return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
	}), nil)
}

// Set stores a value, replacing any previous one.
func (c *Config) Set(key, value string) {
	_ = c.k.Set(key, value)
}

// Get returns the value for key, or def when unset.
func (c *Config) Get(key, def string) string {
	if !c.k.Exists(key) {
		return def
	}
	return c.k.String(key)
}

// Int64 returns the value for key as an int64, or def when unset or
// unparseable.
func (c *Config) Int64(key string, def int64) int64 {
	if !c.k.Exists(key) {
		return def
	}
	v, err := strconv.ParseInt(c.k.String(key), 10, 64)
	if err != nil {
		return def
	}
	return v
}

// Float64 returns the value for key as a float64, or def when unset or
// unparseable.
func (c *Config) Float64(key string, def float64) float64 {
	if !c.k.Exists(key) {
		return def
	}
	v, err := strconv.ParseFloat(c.k.String(key), 64)
	if err != nil {
		return def
	}
	return v
}

// Keys returns all set keys, sorted.
func (c *Config) Keys() []string {
	keys := c.k.Keys()
	sort.Strings(keys)
	return keys
}

// Len returns the number of set keys.
func (c *Config) Len() int {
	return len(c.k.Keys())
}

// Write persists the configuration as key = value lines, sorted by key
// for stable output. Reading the result back yields an equal
// configuration.
func (c *Config) Write(w io.Writer) error {
	for _, key := range c.Keys() {
		if _, err := fmt.Fprintf(w, "%s = %s\n", key, c.k.String(key)); err != nil {
			return err
		}
	}
	return nil
}

// Equal reports whether two configurations hold the same key to value
// pairs.
func (c *Config) Equal(other *Config) bool {
	if other == nil || c.Len() != other.Len() {
		return false
	}
	for _, key := range c.Keys() {
		if !other.k.Exists(key) || c.k.String(key) != other.k.String(key) {
			return false
		}
	}
	return true
}
