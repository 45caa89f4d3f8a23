// Package cmdtest builds vaults and loaded state for command tests.
package cmdtest

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/Paintersrp/hoverlink/internal/state"
)

// DefaultNotes is a small vault exercising every entity category.
var DefaultNotes = map[string]string{
	"Deep Work.md":    "---\ntags: [focus]\nstatus: active\n---\n# Rituals\n\nBlock time.\n",
	"Journal.md":      "Read Deep Work today. Keep #focus and note the Rituals.\n",
	"ml/Gradients.md": "# Backprop\n",
}

// NewState writes notes into a fresh vault, points a config file at it and
// loads the state through the regular entry point.
func NewState(t *testing.T, notes map[string]string) *state.State {
	t.Helper()

	vault := t.TempDir()
	for name, content := range notes {
		path := filepath.Join(vault, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	cfgPath := WriteConfig(t, "vaultdir: "+vault+"\n")
	s, err := state.NewState(cfgPath, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewState returned error: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// WriteConfig stores content as a config file and returns its path.
func WriteConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
