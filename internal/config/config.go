// Package config loads sett's settings from a YAML file, an optional .env
// file beside it and SETT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/sett/internal/detect"
	"github.com/jmylchreest/sett/internal/export"
	"github.com/jmylchreest/sett/internal/palette"
	"github.com/jmylchreest/sett/internal/weave"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "SETT_"

type RenderConfig struct {
	Size             int     `yaml:"size"`
	ThreadWidth      float64 `yaml:"thread_width"`
	MaxRunWidth      int     `yaml:"max_run_width"`
	Twill            bool    `yaml:"twill"`
	TwillStrength    float64 `yaml:"twill_strength"`
	EdgeEmphasis     float64 `yaml:"edge_emphasis"`
	Texture          bool    `yaml:"texture"`
	TextureAmplitude int     `yaml:"texture_amplitude"`
	SeedMode         string  `yaml:"seed_mode"`
	Format           string  `yaml:"format"`
}

type DetectConfig struct {
	ThreadWidth float64 `yaml:"thread_width"`
	Tolerance   float64 `yaml:"tolerance"`
	MaxWidth    int     `yaml:"max_width"`
	MinRunWidth int     `yaml:"min_run_width"`
	Woven       bool    `yaml:"woven"`
	Fold        bool    `yaml:"fold"`
}

type Config struct {
	Render RenderConfig `yaml:"render"`

	// Palette maps colour codes to hex values or CSS colour names.
	Palette map[string]string `yaml:"palette"`

	// Catalogs are extra catalog files merged over the built-in one.
	Catalogs []string `yaml:"catalogs"`

	Detect DetectConfig `yaml:"detect"`

	// Path is the file the configuration was read from, empty if none.
	Path string `yaml:"-"`
}

// Default returns the built-in configuration.
func Default() *Config {
	w := weave.DefaultOptions()
	d := detect.DefaultOptions()
	return &Config{
		Render: RenderConfig{
			Size:             w.Size,
			ThreadWidth:      w.ThreadWidth,
			MaxRunWidth:      w.MaxRunWidth,
			Twill:            w.Twill,
			TwillStrength:    w.TwillStrength,
			EdgeEmphasis:     w.EdgeEmphasis,
			Texture:          w.Texture,
			TextureAmplitude: w.TextureAmplitude,
			SeedMode:         string(weave.SeedModeContent),
			Format:           string(export.FormatPNG),
		},
		Detect: DetectConfig{
			ThreadWidth: d.ThreadWidth,
			Tolerance:   d.Tolerance,
			MaxWidth:    d.MaxWidth,
			MinRunWidth: d.MinRunWidth,
			Woven:       d.Woven,
			Fold:        d.Fold,
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/sett/config.yaml, or the platform
// equivalent.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "sett", "config.yaml")
}

// Load loads the .env file beside configPath, the YAML file itself and then
// SETT_* environment overrides. A missing file leaves the defaults in place.
// An empty configPath uses DefaultPath.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultPath()
	}
	cfg := Default()

	if configPath != "" {
		envPath := filepath.Join(filepath.Dir(configPath), ".env")
		if err := godotenv.Load(envPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}

		data, err := os.ReadFile(configPath) // #nosec G304 - User configuration file
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("error parsing config file %s: %w", configPath, err)
			}
			cfg.Path = configPath
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

type lookupFunc func(string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	var errs []error
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	integer := func(name string, dst *int) {
		if v, ok := lookup(EnvPrefix + name); ok {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = n
		}
	}
	float := func(name string, dst *float64) {
		if v, ok := lookup(EnvPrefix + name); ok {
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = f
		}
	}
	boolean := func(name string, dst *bool) {
		if v, ok := lookup(EnvPrefix + name); ok {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = b
		}
	}

	integer("SIZE", &c.Render.Size)
	float("THREAD_WIDTH", &c.Render.ThreadWidth)
	integer("MAX_RUN_WIDTH", &c.Render.MaxRunWidth)
	boolean("TWILL", &c.Render.Twill)
	float("TWILL_STRENGTH", &c.Render.TwillStrength)
	float("EDGE_EMPHASIS", &c.Render.EdgeEmphasis)
	boolean("TEXTURE", &c.Render.Texture)
	integer("TEXTURE_AMPLITUDE", &c.Render.TextureAmplitude)
	str("SEED_MODE", &c.Render.SeedMode)
	str("FORMAT", &c.Render.Format)
	float("DETECT_THREAD_WIDTH", &c.Detect.ThreadWidth)
	float("DETECT_TOLERANCE", &c.Detect.Tolerance)

	if v, ok := lookup(EnvPrefix + "CATALOGS"); ok {
		c.Catalogs = splitList(v, string(os.PathListSeparator))
	}
	if v, ok := lookup(EnvPrefix + "PALETTE"); ok {
		overrides, err := parsePaletteEnv(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sPALETTE: %w", EnvPrefix, err))
		}
		if c.Palette == nil {
			c.Palette = map[string]string{}
		}
		for code, value := range overrides {
			c.Palette[code] = value
		}
	}

	return errors.Join(errs...)
}

func splitList(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parsePaletteEnv parses "R=#c80000,K=black".
func parsePaletteEnv(s string) (map[string]string, error) {
	out := map[string]string{}
	for _, pair := range splitList(s, ",") {
		code, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid entry %q: expected CODE=colour", pair)
		}
		out[strings.ToUpper(strings.TrimSpace(code))] = strings.TrimSpace(value)
	}
	return out, nil
}

// Validate checks that every value is usable.
func (c *Config) Validate() error {
	var errs []error
	if err := c.WeaveOptions().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("render: %w", err))
	}
	if _, err := weave.ParseSeedMode(c.Render.SeedMode); err != nil {
		errs = append(errs, fmt.Errorf("render: %w", err))
	}
	if _, err := export.ParseFormat(c.Render.Format); err != nil {
		errs = append(errs, fmt.Errorf("render: %w", err))
	}
	if c.Detect.ThreadWidth <= 0 {
		errs = append(errs, fmt.Errorf("detect: thread_width must be positive"))
	}
	if c.Detect.Tolerance < 0 {
		errs = append(errs, fmt.Errorf("detect: tolerance must not be negative"))
	}
	if _, err := c.BuildPalette(); err != nil {
		errs = append(errs, fmt.Errorf("palette: %w", err))
	}
	return errors.Join(errs...)
}

// WeaveOptions converts the render section into renderer options.
func (c *Config) WeaveOptions() weave.Options {
	return weave.Options{
		Size:             c.Render.Size,
		ThreadWidth:      c.Render.ThreadWidth,
		MaxRunWidth:      c.Render.MaxRunWidth,
		Twill:            c.Render.Twill,
		TwillStrength:    c.Render.TwillStrength,
		EdgeEmphasis:     c.Render.EdgeEmphasis,
		Texture:          c.Render.Texture,
		TextureAmplitude: c.Render.TextureAmplitude,
	}
}

// DetectOptions converts the detect section into detector options.
func (c *Config) DetectOptions() detect.Options {
	opts := detect.DefaultOptions()
	opts.ThreadWidth = c.Detect.ThreadWidth
	opts.Tolerance = c.Detect.Tolerance
	opts.MaxWidth = c.Detect.MaxWidth
	opts.MinRunWidth = c.Detect.MinRunWidth
	opts.Woven = c.Detect.Woven
	opts.Fold = c.Detect.Fold
	return opts
}

// BuildPalette returns the default palette with the configured overrides.
func (c *Config) BuildPalette() (*palette.Palette, error) {
	if len(c.Palette) == 0 {
		return palette.Default(), nil
	}
	return palette.Default().WithOverrides(c.Palette)
}
