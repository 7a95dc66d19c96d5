package theme

import (
	"image/color"
	"strings"
)

// Theme defines the colours of the editor window.
type Theme struct {
	Name string

	// General
	Background color.RGBA // Window background around the grid
	Foreground color.RGBA // Main text color

	// Status bar
	StatusBackground color.RGBA
	StatusText       color.RGBA
	StatusWarning    color.RGBA

	// Grid
	GridLine      color.RGBA // Separator between the nine surfaces
	CentreBorder  color.RGBA // Outline of the editable surface
	MirrorTint    color.RGBA // Wash over mirrors switched off
	CursorOutline color.RGBA

	// Canvas
	CheckerLight color.RGBA
	CheckerDark  color.RGBA
}

// Default returns the hardcoded default light theme (fallback).
func Default() *Theme {
	return &Theme{
		Name:             "Default",
		Background:       color.RGBA{220, 220, 220, 255},
		Foreground:       color.RGBA{0, 0, 0, 255},
		StatusBackground: color.RGBA{200, 200, 200, 255},
		StatusText:       color.RGBA{0, 0, 0, 255},
		StatusWarning:    color.RGBA{170, 30, 30, 255},
		GridLine:         color.RGBA{160, 160, 160, 255},
		CentreBorder:     color.RGBA{40, 120, 220, 255},
		MirrorTint:       color.RGBA{0, 0, 0, 110},
		CursorOutline:    color.RGBA{255, 255, 255, 255},
		CheckerLight:     color.RGBA{220, 220, 220, 255},
		CheckerDark:      color.RGBA{192, 192, 192, 255},
	}
}

// Dark mirrors the editor's dark stylesheet.
func Dark() *Theme {
	return &Theme{
		Name:             "Dark",
		Background:       color.RGBA{0x1e, 0x1e, 0x1e, 255},
		Foreground:       color.RGBA{0xe0, 0xe0, 0xe0, 255},
		StatusBackground: color.RGBA{0x2d, 0x2d, 0x2d, 255},
		StatusText:       color.RGBA{0xe0, 0xe0, 0xe0, 255},
		StatusWarning:    color.RGBA{0xff, 0x6b, 0x6b, 255},
		GridLine:         color.RGBA{0x44, 0x44, 0x44, 255},
		CentreBorder:     color.RGBA{0x4a, 0x9e, 0xff, 255},
		MirrorTint:       color.RGBA{0, 0, 0, 150},
		CursorOutline:    color.RGBA{255, 255, 255, 255},
		CheckerLight:     color.RGBA{0x55, 0x55, 0x55, 255},
		CheckerDark:      color.RGBA{0x40, 0x40, 0x40, 255},
	}
}

// Builtin returns the named built-in theme, case-insensitively.
func Builtin(name string) (*Theme, bool) {
	switch strings.ToLower(name) {
	case "", "default", "light":
		return Default(), true
	case "dark":
		return Dark(), true
	}
	return nil, false
}
