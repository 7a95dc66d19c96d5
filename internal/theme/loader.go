package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Loader handles loading themes from various sources.
type Loader struct {
	ConfigDir string
	SystemDir string
	// Extra holds themes defined inline in the config file.
	Extra map[string]*Theme
}

// NewLoader creates a new Loader with standard paths.
func NewLoader() *Loader {
	home, _ := os.UserHomeDir()
	return &Loader{
		ConfigDir: filepath.Join(home, ".config", "tilesmith", "themes"),
		SystemDir: "/usr/share/tilesmith/themes",
	}
}

// Load resolves a theme by name or path.
// Order:
// 1. Themes from the config file.
// 2. An existing file path.
// 3. Built-in themes.
// 4. ConfigDir, then SystemDir.
func (l *Loader) Load(name string) (*Theme, error) {
	if t, ok := l.Extra[name]; ok {
		return t, nil
	}
	if name != "" {
		if _, err := os.Stat(name); err == nil {
			return parseFile(name)
		}
	}
	if t, ok := Builtin(name); ok {
		return t, nil
	}

	filename := name
	if !strings.HasSuffix(filename, ".theme") {
		filename += ".theme"
	}
	for _, dir := range []string{l.ConfigDir, l.SystemDir} {
		if dir == "" {
			continue
		}
		p := filepath.Join(dir, filename)
		if _, err := os.Stat(p); err == nil {
			return parseFile(p)
		}
	}

	return nil, fmt.Errorf("theme '%s' not found", name)
}

func parseFile(path string) (*Theme, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}
