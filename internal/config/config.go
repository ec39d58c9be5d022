// Package config holds runtime configuration: defaults, an optional YAML
// overlay, and validation. Flag handling lives in the CLI entrypoint; this
// package only defines the settings and their invariants.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// --- Enum types for validated string fields ---

// Backend selects the compositing backend.
type Backend string

const (
	BackendNative Backend = "native" // In-process compositing via x/image/tiff (default).
	BackendMagick Backend = "magick" // Shell out to ImageMagick (magick/convert -combine).
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all runtime settings. It is populated by [DefaultConfig],
// optionally overlaid from a YAML file by [LoadFile], and then mutated by the
// CLI layer before being passed (by pointer) to packages that need it.
type Config struct {
	// Paths (set from positional args, never from the config file).
	InputDir  string `yaml:"-"`
	OutputDir string `yaml:"-"`

	// Merge settings.
	Backend       Backend  `yaml:"backend"`        // Default: "native".
	ConvertBinary string   `yaml:"convert_binary"` // Explicit ImageMagick binary; empty = auto-detect.
	Extensions    []string `yaml:"extensions"`     // Recognized scan extensions. Default: .tif, .tiff.
	Jobs          int      `yaml:"jobs"`           // Parallel merge jobs. Default: 4.

	// Behavior flags.
	DryRun       bool `yaml:"-"`
	SkipExisting bool `yaml:"skip_existing"` // Default: true. Cleared by --force.
	Watch        bool `yaml:"-"`             // Keep running and re-merge on directory changes.

	// Watch tuning (flag-only; yaml.v3 has no native duration decoding).
	SettleDelay time.Duration `yaml:"-"` // Quiet period before a watch re-run. Default: 2s.

	// Display and logging.
	Verbose   bool      `yaml:"-"`
	ColorMode ColorMode `yaml:"color"`    // Default: "auto".
	LogFile   string    `yaml:"log_file"` // Optional log file path (rotated).
	CheckOnly bool      `yaml:"-"`        // Run --check diagnostics and exit.
}

// DefaultConfig returns a Config with all defaults. Used as the base before
// YAML and CLI overrides are applied.
func DefaultConfig() Config {
	return Config{
		Backend:      BackendNative,
		Extensions:   []string{".tif", ".tiff"},
		Jobs:         4,
		SkipExisting: true,
		SettleDelay:  2 * time.Second,
		ColorMode:    ColorAuto,
	}
}

// LoadFile overlays cfg with values from a YAML config file. A missing file
// is not an error when optional is true (the default search path may not
// exist); any other read or parse failure is.
func LoadFile(cfg *Config, path string, optional bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}
	return nil
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks enum fields and numeric ranges. When not in CheckOnly mode,
// it also requires that both input and output directory paths are non-empty.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendNative, BackendMagick:
		// valid
	default:
		return errors.New("invalid backend (use 'native' or 'magick')")
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if c.Jobs < 1 {
		return fmt.Errorf("jobs must be at least 1 (got %d)", c.Jobs)
	}
	if c.SettleDelay <= 0 {
		return fmt.Errorf("settle delay must be positive (got %s)", c.SettleDelay)
	}

	if len(c.Extensions) == 0 {
		return errors.New("at least one scan extension is required")
	}
	for i, ext := range c.Extensions {
		e := strings.ToLower(strings.TrimSpace(ext))
		if !strings.HasPrefix(e, ".") || len(e) < 2 {
			return fmt.Errorf("invalid extension %q (use a leading dot, e.g. .tif)", ext)
		}
		c.Extensions[i] = e
	}

	if c.CheckOnly {
		return nil
	}
	if c.InputDir == "" || c.OutputDir == "" {
		return errors.New("need exactly input_dir and output_dir")
	}
	return nil
}

// ValidatePaths ensures the resolved output directory is not inside (or equal
// to) the resolved input directory. This prevents a later run from discovering
// its own merged output as fresh channel scans. Both arguments must be
// absolute, symlink-resolved paths.
func (c *Config) ValidatePaths(inputAbs, outputAbs string) error {
	sep := string(filepath.Separator)
	if outputAbs == inputAbs || strings.HasPrefix(outputAbs+sep, inputAbs+sep) {
		return errors.New("output directory must not be inside input directory")
	}
	return nil
}
