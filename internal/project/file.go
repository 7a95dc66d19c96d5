package project

import (
	"fmt"
	"os"
	"path/filepath"
)

// Extension is the file extension used for project documents.
const Extension = ".tile.json"

// SaveFile writes doc to path. The document goes to a temporary file in the
// same directory first and is renamed into place, so a failed write leaves
// any previous file intact.
func SaveFile(path string, doc *Document) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tilesmith-*.tmp")
	if err != nil {
		return fmt.Errorf("save project: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()
	if err = tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("save project: %w", err)
	}
	if err = Encode(tmp, doc); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("save project: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("save project: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("save project: %w", err)
	}
	return nil
}

// LoadFile reads and decodes the document at path.
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}
	defer f.Close()
	doc, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("load project %s: %w", path, err)
	}
	return doc, nil
}
