// Package palette manages the bounded list of saved swatches and colour
// parsing for the editor.
package palette

import (
	"errors"
	"fmt"
	"image/color"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// DefaultSize is the stock swatch capacity.
const DefaultSize = 20

// ErrInvalidColor is returned for an unparseable colour string.
var ErrInvalidColor = errors.New("invalid color")

var defaults = []string{
	"#282828", "#ffffff", "#ff0000", "#00ff00",
	"#0000ff", "#ffff00", "#ff00ff", "#00ffff",
	"#ffa500", "#800080", "#ffc0cb", "#a52a2a",
	"#808080", "#c0c0c0", "#90ee90", "#ff6347",
}

// Palette is an ordered, duplicate-free list of colours, oldest first.
type Palette struct {
	max    int
	colors []color.NRGBA
}

// New returns an empty palette holding at most max colours.
func New(max int) *Palette {
	if max < 1 {
		max = DefaultSize
	}
	return &Palette{max: max}
}

// Default returns the stock sixteen swatches.
func Default(max int) *Palette {
	p := New(max)
	p.Import(defaults)
	return p
}

func (p *Palette) Max() int { return p.max }

func (p *Palette) Len() int { return len(p.colors) }

// Colors returns a copy of the swatches.
func (p *Palette) Colors() []color.NRGBA {
	return append([]color.NRGBA(nil), p.colors...)
}

// Strings returns the swatches as hex strings.
func (p *Palette) Strings() []string {
	out := make([]string, len(p.colors))
	for i, c := range p.colors {
		out[i] = Hex(c)
	}
	return out
}

// Contains reports whether c is already saved.
func (p *Palette) Contains(c color.NRGBA) bool {
	for _, have := range p.colors {
		if have == c {
			return true
		}
	}
	return false
}

// Add appends c unless present, evicting the oldest swatch past the limit.
// It reports whether c was added.
func (p *Palette) Add(c color.NRGBA) bool {
	if p.Contains(c) {
		return false
	}
	p.colors = append(p.colors, c)
	if len(p.colors) > p.max {
		p.colors = p.colors[len(p.colors)-p.max:]
	}
	return true
}

// AddAll adds every valid colour in order, keeping the newest max swatches.
func (p *Palette) AddAll(specs []string) int {
	n := 0
	for _, s := range specs {
		c, err := ParseHex(s)
		if err != nil {
			continue
		}
		if p.Add(c) {
			n++
		}
	}
	return n
}

// Import replaces the palette with the valid hex colours in specs, truncated
// to the limit. It returns the resulting length.
func (p *Palette) Import(specs []string) int {
	p.colors = p.colors[:0]
	for _, s := range specs {
		if len(p.colors) == p.max {
			break
		}
		c, err := ParseHex(s)
		if err != nil || p.Contains(c) {
			continue
		}
		p.colors = append(p.colors, c)
	}
	return len(p.colors)
}

// Remove deletes the swatch at i.
func (p *Palette) Remove(i int) error {
	if i < 0 || i >= len(p.colors) {
		return fmt.Errorf("swatch %d of %d out of range", i, len(p.colors))
	}
	p.colors = append(p.colors[:i], p.colors[i+1:]...)
	return nil
}

func (p *Palette) Clear() { p.colors = nil }

// ParseHex accepts #rgb, #rrggbb and #rrggbbaa, with or without the '#'.
func ParseHex(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]}) + "ff"
	case 6:
		hex += "ff"
	case 8:
	default:
		return color.NRGBA{}, fmt.Errorf("%w %q", ErrInvalidColor, s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w %q", ErrInvalidColor, s)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// ParseColor accepts an SVG colour name or any form ParseHex accepts.
func ParseColor(s string) (color.NRGBA, error) {
	spec := strings.ToLower(strings.TrimSpace(s))
	if spec == "" {
		return color.NRGBA{}, fmt.Errorf("%w: empty", ErrInvalidColor)
	}
	if c, ok := colornames.Map[spec]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
	}
	return ParseHex(spec)
}

// Hex formats c as #rrggbb, or #rrggbbaa when not opaque.
func Hex(c color.NRGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

var coolorsURL = regexp.MustCompile(`^https://coolors\.co/([a-fA-F0-9-]{5,})$`)

// FromCoolorsURL extracts the colours from a coolors.co palette link.
func FromCoolorsURL(url string) ([]string, error) {
	m := coolorsURL.FindStringSubmatch(strings.TrimSpace(url))
	if m == nil {
		return nil, fmt.Errorf("invalid Coolors URL %q", url)
	}
	var out []string
	for _, code := range strings.Split(m[1], "-") {
		if len(code) != 3 && len(code) != 6 {
			continue
		}
		if _, err := ParseHex(code); err != nil {
			continue
		}
		out = append(out, "#"+strings.ToLower(code))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no valid colors in %q", url)
	}
	return out, nil
}
