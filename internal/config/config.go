package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/example/tilesmith/internal/theme"
)

const (
	MinTileDim = 8
	MaxTileDim = 128

	DefaultTileDim     = 32
	DefaultPixelSize   = 16
	DefaultMaxLayers   = 10
	DefaultPaletteSize = 20
)

// ErrTileDimension is returned for a tile size outside [MinTileDim, MaxTileDim].
var ErrTileDimension = errors.New("tile dimension out of range")

// Notify holds notification settings.
type Notify struct {
	Warning bool
	Save    bool
	Export  bool
	Copy    bool
}

// Config holds the application configuration.
type Config struct {
	TileDim      int
	PixelSize    int
	MaxLayers    int
	PaletteSize  int
	HistoryLimit int
	ThrottleMS   int
	Theme        string
	SaveDir      string
	Notify       Notify
	Themes       map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		TileDim:     DefaultTileDim,
		PixelSize:   DefaultPixelSize,
		MaxLayers:   DefaultMaxLayers,
		PaletteSize: DefaultPaletteSize,
		Theme:       "", // Default to empty to allow fallback to Env/Default
		Notify: Notify{
			Warning: true,
		},
		Themes: make(map[string]*theme.Theme),
	}
}

// ValidateTileDimension reports ErrTileDimension for n outside the range.
func ValidateTileDimension(n int) error {
	if n < MinTileDim || n > MaxTileDim {
		return fmt.Errorf("tile dimension %d not in %d..%d: %w", n, MinTileDim, MaxTileDim, ErrTileDimension)
	}
	return nil
}

// SetTileDimension changes TileDim. c is untouched when n is rejected.
func (c *Config) SetTileDimension(n int) error {
	if err := ValidateTileDimension(n); err != nil {
		return err
	}
	c.TileDim = n
	return nil
}

// Validate checks every numeric setting.
func (c *Config) Validate() error {
	if err := ValidateTileDimension(c.TileDim); err != nil {
		return err
	}
	if c.PixelSize < 1 {
		return fmt.Errorf("pixel_size must be positive, got %d", c.PixelSize)
	}
	if c.MaxLayers < 1 {
		return fmt.Errorf("max_layers must be positive, got %d", c.MaxLayers)
	}
	if c.PaletteSize < 1 {
		return fmt.Errorf("palette_size must be positive, got %d", c.PaletteSize)
	}
	if c.HistoryLimit < 0 || c.ThrottleMS < 0 {
		return fmt.Errorf("history_limit and throttle_ms must not be negative")
	}
	return nil
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	// Root section
	fmt.Fprintf(&sb, "tile_dim = %d\n", c.TileDim)
	fmt.Fprintf(&sb, "pixel_size = %d\n", c.PixelSize)
	fmt.Fprintf(&sb, "max_layers = %d\n", c.MaxLayers)
	fmt.Fprintf(&sb, "palette_size = %d\n", c.PaletteSize)
	fmt.Fprintf(&sb, "history_limit = %d\n", c.HistoryLimit)
	fmt.Fprintf(&sb, "throttle_ms = %d\n", c.ThrottleMS)
	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "warning = %v\n", c.Notify.Warning)
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "export = %v\n", c.Notify.Export)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	// Sort keys for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		for _, f := range t.Fields() {
			fmt.Fprintf(&sb, "%s: %s\n", f.Name, theme.Hex(f.Color))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
