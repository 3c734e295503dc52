// Package project loads the basalt.toml manifest and lowers it into program
// options.
package project

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"basalt/internal/sema"
)

// DefaultMaxDiagnostics bounds the diagnostic bag when the manifest does not
// say otherwise.
const DefaultMaxDiagnostics = 100

// Target selects the compilation target's memory model.
type Target struct {
	// PointerWidth is 32 or 64; isize/usize follow it.
	PointerWidth int `toml:"pointer_width"`
	// SourceMap switches source-map emission on (emitter-facing hook).
	SourceMap bool `toml:"source_map"`
}

// Manifest is the on-disk configuration of a basalt project.
type Manifest struct {
	Target         Target            `toml:"target"`
	MaxDiagnostics int               `toml:"max_diagnostics"`
	Aliases        map[string]string `toml:"aliases"`
}

// Default returns the manifest used when no basalt.toml is present.
func Default() Manifest {
	return Manifest{
		Target:         Target{PointerWidth: 32},
		MaxDiagnostics: DefaultMaxDiagnostics,
	}
}

// Load reads and validates a manifest file.
func Load(path string) (Manifest, error) {
	m := Default()
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return Manifest{}, fmt.Errorf("project: %w", err)
	}
	if err := m.validate(); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

func (m Manifest) validate() error {
	switch m.Target.PointerWidth {
	case 32, 64:
	default:
		return fmt.Errorf("project: pointer_width must be 32 or 64, got %d", m.Target.PointerWidth)
	}
	if m.MaxDiagnostics <= 0 {
		return fmt.Errorf("project: max_diagnostics must be positive, got %d", m.MaxDiagnostics)
	}
	return nil
}

// Options lowers the manifest into program options.
func (m Manifest) Options() sema.Options {
	return sema.Options{
		Is64:          m.Target.PointerWidth == 64,
		SourceMap:     m.Target.SourceMap,
		GlobalAliases: m.Aliases,
	}
}
