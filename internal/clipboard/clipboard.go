// Package clipboard moves tiles and colours through the system clipboard.
package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"strings"
)

var (
	errNoDisplay = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")
	// ErrEmpty is returned when the clipboard holds nothing of the requested kind.
	ErrEmpty = errors.New("clipboard is empty")
)

// WriteImage publishes img to the clipboard as PNG.
func WriteImage(img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}
	return writePNG(buf.Bytes())
}

// ReadImage decodes the PNG image held by the clipboard.
func ReadImage() (image.Image, error) {
	data, err := readPNG()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("image: %w", ErrEmpty)
	}
	return png.Decode(bytes.NewReader(data))
}

func WriteText(text string) error {
	return writeText([]byte(text))
}

func ReadText() (string, error) {
	data, err := readText()
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", fmt.Errorf("text: %w", ErrEmpty)
	}
	return string(data), nil
}

// ReadColors returns the colour specs found in clipboard text: one per
// whitespace or comma separated field.
func ReadColors() ([]string, error) {
	text, err := ReadText()
	if err != nil {
		return nil, err
	}
	return SplitColors(text), nil
}

// SplitColors breaks text into candidate colour specs.
func SplitColors(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\n' || r == '\t' || r == '\r'
	})
}
