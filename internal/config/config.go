package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/raphi011/branch-cleanup/internal/storage"
)

// EnvConfigPath overrides the config file location.
const EnvConfigPath = "BRANCH_CLEANUP_CONFIG"

// EnvRoots overrides the configured roots. Entries are separated by the
// OS path list separator (":" on Unix).
const EnvRoots = "BRANCH_CLEANUP_ROOTS"

// DefaultConcurrency is the default number of concurrent git processes.
const DefaultConcurrency = 8

// ScanConfig holds discovery settings
type ScanConfig struct {
	Concurrency int `toml:"concurrency"` // max concurrent git processes
}

// DeleteConfig holds deletion settings
type DeleteConfig struct {
	Parallel bool `toml:"parallel"` // delete across repositories concurrently
}

// ThemeConfig holds UI theme settings
type ThemeConfig struct {
	Name string `toml:"name"` // preset name: "default", "none", "nord"
	Mode string `toml:"mode"` // "auto", "light", "dark"
}

// Config holds the branch-cleanup configuration
type Config struct {
	Roots             []string     `toml:"roots"`
	DefaultBranches   []string     `toml:"default_branches"`
	ProtectedPatterns []string     `toml:"protected_patterns"`
	Scan              ScanConfig   `toml:"scan"`
	Delete            DeleteConfig `toml:"delete"`
	Theme             ThemeConfig  `toml:"theme"`
}

// Default returns the default configuration
func Default() Config {
	return Config{
		DefaultBranches: []string{"master", "main"},
		Scan:            ScanConfig{Concurrency: DefaultConcurrency},
	}
}

// Path returns the config file location, honouring BRANCH_CLEANUP_CONFIG.
func Path() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return expandPath(p)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "branch-cleanup", "config.toml"), nil
}

// Load reads the config file and applies environment overrides.
// Returns Default() if the file doesn't exist (no error).
// Returns error only if the file exists but is invalid.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return applyEnv(Default())
	}
	return LoadFile(path)
}

// LoadFile reads the config at path and applies environment overrides.
// On error the returned Config holds only the defaults.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return applyEnv(Default())
		}
		return Default(), fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return Default(), fmt.Errorf("%s: %w", path, err)
	}
	return applyEnv(cfg)
}

// Parse decodes and validates TOML config content.
// Keys missing from the content keep their default values.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Default(), fmt.Errorf("failed to parse config file: %w", err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Default(), fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}

	if err := cfg.normalize(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// normalize validates the config and expands ~ in roots.
func (c *Config) normalize() error {
	roots := make([]string, 0, len(c.Roots))
	for i, root := range c.Roots {
		if err := ValidatePath(root, fmt.Sprintf("roots[%d]", i)); err != nil {
			return err
		}
		expanded, err := expandPath(root)
		if err != nil {
			return fmt.Errorf("expand roots[%d]: %w", i, err)
		}
		if expanded != "" {
			roots = append(roots, expanded)
		}
	}
	c.Roots = roots

	for i, name := range c.DefaultBranches {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("invalid default_branches[%d]: branch name must not be empty", i)
		}
	}
	if err := validatePatterns(c.ProtectedPatterns); err != nil {
		return err
	}

	if c.Scan.Concurrency < 0 {
		return fmt.Errorf("invalid scan.concurrency %d: must not be negative", c.Scan.Concurrency)
	}
	if c.Scan.Concurrency == 0 {
		c.Scan.Concurrency = DefaultConcurrency
	}

	if err := validateEnum(c.Theme.Name, "theme.name", ValidThemeNames); err != nil {
		return err
	}
	return validateEnum(c.Theme.Mode, "theme.mode", ValidThemeModes)
}

// applyEnv replaces Roots with BRANCH_CLEANUP_ROOTS when set.
func applyEnv(cfg Config) (Config, error) {
	env := os.Getenv(EnvRoots)
	if env == "" {
		return cfg, nil
	}

	var roots []string
	for _, root := range filepath.SplitList(env) {
		if root == "" {
			continue
		}
		expanded, err := expandPath(root)
		if err != nil {
			return cfg, fmt.Errorf("expand %s: %w", EnvRoots, err)
		}
		roots = append(roots, expanded)
	}
	cfg.Roots = roots
	return cfg, nil
}

// ValidatePath checks that the path is absolute or starts with ~
// Returns error if path is relative (like "." or "..")
func ValidatePath(path, fieldName string) error {
	if path == "" {
		return nil // Empty is allowed (means not configured)
	}
	if path[0] == '~' {
		return nil
	}
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%s must be absolute or start with ~, got: %q", fieldName, path)
	}
	return nil
}

// expandPath expands ~ to the user's home directory
func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	if path == "~" {
		return os.UserHomeDir()
	}
	return path, nil
}

// Encode renders the config as TOML.
func Encode(cfg Config) (string, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WithOverrides returns a copy of c with non-empty flag values applied.
func (c Config) WithOverrides(defaultBranches, protectedPatterns []string) (Config, error) {
	out := c
	if len(defaultBranches) > 0 {
		out.DefaultBranches = slices.Clone(defaultBranches)
	}
	if len(protectedPatterns) > 0 {
		if err := validatePatterns(protectedPatterns); err != nil {
			return c, err
		}
		out.ProtectedPatterns = slices.Clone(protectedPatterns)
	}
	return out, nil
}

const defaultConfig = `# branch-cleanup configuration

# Directories scanned when no directory is given on the command line.
# Must be absolute paths or start with ~
# Overridden by BRANCH_CLEANUP_ROOTS (colon separated).
# roots = ["~/code", "~/work"]

# Branch names that are never offered for deletion (exact match).
default_branches = ["master", "main"]

# Regular expressions for branches that are never offered for deletion.
# Patterns match anywhere in the name unless anchored with ^ and $.
# protected_patterns = ["^release/", "^develop$"]

[scan]
# Maximum number of git processes running at the same time.
concurrency = 8

[delete]
# Delete branches of different repositories concurrently.
# Branches of the same repository are always deleted one at a time.
parallel = false

[theme]
# Color preset: "default", "none" or "nord"
# name = "default"
# "auto" detects the terminal background, or force "light" / "dark"
# mode = "auto"
`

// DefaultConfig returns the commented default config file content.
func DefaultConfig() string {
	return defaultConfig
}

// Init creates a default config file at Path().
// If force is true, overwrites existing file.
// Returns the path to the created file.
func Init(force bool) (string, error) {
	path, err := Path()
	if err != nil {
		return "", err
	}

	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", errors.New("config file already exists: " + path)
		}
	}

	if err := storage.WriteFile(path, []byte(defaultConfig), 0o644); err != nil {
		return "", err
	}

	return path, nil
}
