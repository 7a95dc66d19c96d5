// Package brush contains the tool state and the stamp algorithm that writes a
// brush footprint into a tile with toroidal wrapping.
package brush

import (
	"errors"
	"fmt"
	"image/color"
	"strings"
)

// ErrNegativeRadius is returned when a brush radius below zero is requested.
var ErrNegativeRadius = errors.New("brush radius must be >= 0")

// Tool identifies the active drawing tool.
type Tool int

const (
	Pencil Tool = iota
	Brush
	Eraser
	Eyedropper
)

var toolNames = []string{"pencil", "brush", "eraser", "eyedropper"}

func (t Tool) String() string {
	if t < 0 || int(t) >= len(toolNames) {
		return fmt.Sprintf("tool(%d)", int(t))
	}
	return toolNames[t]
}

// ParseTool maps a tool name, case-insensitively, to a Tool.
func ParseTool(s string) (Tool, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range toolNames {
		if n == s {
			return Tool(i), nil
		}
	}
	return 0, fmt.Errorf("unknown tool %q", s)
}

// DefaultColor is the starting paint colour (#282828).
var DefaultColor = color.NRGBA{R: 0x28, G: 0x28, B: 0x28, A: 0xff}

// ToolState is the current tool, colour, radius and opacity.
type ToolState struct {
	Tool    Tool
	Color   color.NRGBA
	Radius  int
	Opacity float64
}

// DefaultToolState returns a 1px pencil in the default colour.
func DefaultToolState() ToolState {
	return ToolState{Tool: Pencil, Color: DefaultColor, Radius: 0, Opacity: 1}
}

func (t *ToolState) SetTool(tool Tool) { t.Tool = tool }

func (t *ToolState) SetColor(c color.NRGBA) { t.Color = c }

// SetRadius rejects negative values and leaves the radius unchanged.
func (t *ToolState) SetRadius(r int) error {
	if r < 0 {
		return fmt.Errorf("set radius %d: %w", r, ErrNegativeRadius)
	}
	t.Radius = r
	return nil
}

// SetOpacity clamps o to [0,1].
func (t *ToolState) SetOpacity(o float64) {
	switch {
	case o != o || o < 0:
		o = 0
	case o > 1:
		o = 1
	}
	t.Opacity = o
}
