package palette

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// File is the on-disk palette format.
type File struct {
	Name   string   `yaml:"name"`
	Colors []string `yaml:"colors"`
}

// Load reads a YAML palette file.
func Load(r io.Reader) (*File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse palette: %w", err)
	}
	return &f, nil
}

// Save writes p as a YAML palette file.
func Save(w io.Writer, name string, p *Palette) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(File{Name: name, Colors: p.Strings()}); err != nil {
		return fmt.Errorf("write palette: %w", err)
	}
	return enc.Close()
}
