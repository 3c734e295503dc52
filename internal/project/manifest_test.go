package project

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "basalt.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestLoadManifest(t *testing.T) {
	path := writeManifest(t, `
max_diagnostics = 20

[target]
pointer_width = 64
source_map = true

[aliases]
abort = "~lib/env/abort"
`)
	m, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	opts := m.Options()
	if !opts.Is64 || !opts.SourceMap {
		t.Fatalf("options not lowered: %+v", opts)
	}
	if opts.GlobalAliases["abort"] != "~lib/env/abort" {
		t.Fatalf("aliases not lowered")
	}
	if m.MaxDiagnostics != 20 {
		t.Fatalf("max_diagnostics = %d", m.MaxDiagnostics)
	}
}

func TestLoadManifestDefaults(t *testing.T) {
	path := writeManifest(t, "")
	m, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if m.Target.PointerWidth != 32 || m.MaxDiagnostics != DefaultMaxDiagnostics {
		t.Fatalf("defaults not applied: %+v", m)
	}
}

func TestLoadManifestRejectsBadWidth(t *testing.T) {
	path := writeManifest(t, "[target]\npointer_width = 16\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("pointer_width 16 must be rejected")
	}
}
