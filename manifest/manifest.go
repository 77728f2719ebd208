// Package manifest handles bst.toml project configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/quillmark/bst/vm"
)

// Manifest represents a bst.toml project configuration.
type Manifest struct {
	Style  Style     `toml:"style"`
	Engine vm.Config `toml:"engine"`
	Output Output    `toml:"output"`
	Image  Image     `toml:"image"`

	// Dir is the directory containing the bst.toml file (set at load time).
	Dir string `toml:"-"`
}

// Style contains style-program metadata.
type Style struct {
	Name    string `toml:"name"`
	Path    string `toml:"path"`
	Version string `toml:"version"`
}

// Output configures where formatted bibliography text goes.
type Output struct {
	Path string `toml:"path"`
}

// Image configures snapshot output.
type Image struct {
	Output string `toml:"output"`
}

// Load parses a bst.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, "bst.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	// Defaults
	if m.Style.Path == "" && m.Style.Name != "" {
		m.Style.Path = m.Style.Name + ".bst"
	}
	if m.Output.Path == "" && m.Style.Name != "" {
		m.Output.Path = m.Style.Name + ".bbl"
	}

	return &m, nil
}

// FindAndLoad walks up from startDir to find a bst.toml file, then loads
// and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, "bst.toml")
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

// StylePath returns the absolute path of the style program.
func (m *Manifest) StylePath() string {
	return filepath.Join(m.Dir, m.Style.Path)
}

// OutputPath returns the absolute path of the formatted output file.
func (m *Manifest) OutputPath() string {
	return filepath.Join(m.Dir, m.Output.Path)
}
