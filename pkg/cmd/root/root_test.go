package root

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Paintersrp/hoverlink/internal/config"
	"github.com/Paintersrp/hoverlink/internal/state"
	"github.com/Paintersrp/hoverlink/pkg/cmd/cmdtest"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	s := &state.State{}
	cmd, err := NewCmdRoot(s)
	if err != nil {
		t.Fatalf("NewCmdRoot returned error: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), err
}

func TestRootRegistersCommands(t *testing.T) {
	cmd, err := NewCmdRoot(&state.State{})
	if err != nil {
		t.Fatalf("NewCmdRoot returned error: %v", err)
	}

	got := map[string]bool{}
	for _, sub := range cmd.Commands() {
		got[sub.Name()] = true
	}
	for _, name := range []string{"init", "index", "resolve", "highlight", "lookup", "hover", "watch", "mcp", "settings"} {
		if !got[name] {
			t.Fatalf("expected %s command to be registered", name)
		}
	}
}

func TestRootLoadsStateBeforeCommand(t *testing.T) {
	vault := t.TempDir()
	if err := os.WriteFile(filepath.Join(vault, "Deep Work.md"), []byte("# Rituals\n"), 0o644); err != nil {
		t.Fatalf("write note: %v", err)
	}
	path := cmdtest.WriteConfig(t, "vaultdir: "+vault+"\n")

	out, err := execute(t, "index", "--config", path)
	if err != nil {
		t.Fatalf("index returned error: %v", err)
	}
	if !strings.HasPrefix(out, "Indexed 1 notes") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestRootReportsMissingVault(t *testing.T) {
	path := cmdtest.WriteConfig(t, "")

	_, err := execute(t, "index", "--config", path)
	var initErr *config.ConfigInitError
	if !errors.As(err, &initErr) {
		t.Fatalf("expected ConfigInitError, got %v", err)
	}
}

func TestRootSettingsRunWithoutVault(t *testing.T) {
	path := cmdtest.WriteConfig(t, "")

	out, err := execute(t, "settings", "--config", path)
	if err != nil {
		t.Fatalf("settings returned error: %v", err)
	}
	if !strings.HasPrefix(out, "# "+path) {
		t.Fatalf("unexpected output:\n%s", out)
	}
}
