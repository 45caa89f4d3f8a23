package initialize

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Paintersrp/hoverlink/internal/config"
	"github.com/Paintersrp/hoverlink/internal/state"
	"github.com/Paintersrp/hoverlink/pkg/cmd/cmdtest"
)

func stubPrompt(t *testing.T, answer string) *string {
	t.Helper()
	var offered string
	orig := promptVault
	promptVault = func(initial string) (string, error) {
		offered = initial
		return answer, nil
	}
	t.Cleanup(func() { promptVault = orig })
	return &offered
}

func TestInitSavesPromptedVault(t *testing.T) {
	vault := t.TempDir()
	offered := stubPrompt(t, vault)
	path := cmdtest.WriteConfig(t, "vaultdir: /old\nmax_results: 4\n")

	var out bytes.Buffer
	cmd := NewCmdInit(&state.State{ConfigPath: path})
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("init returned error: %v", err)
	}

	if *offered != "/old" {
		t.Fatalf("expected current vault to be offered, got %q", *offered)
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile returned error: %v", err)
	}
	if cfg.VaultDir != vault || cfg.MaxResults != 4 {
		t.Fatalf("unexpected saved config %+v", cfg)
	}
	if !strings.Contains(out.String(), "Vault set to "+vault) {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestInitRejectsMissingVault(t *testing.T) {
	stubPrompt(t, filepath.Join(t.TempDir(), "missing"))
	path := cmdtest.WriteConfig(t, "")

	cmd := NewCmdInit(&state.State{ConfigPath: path})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected error for a vault that does not exist")
	}

	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile returned error: %v", err)
	}
	if cfg.VaultDir != "" {
		t.Fatalf("expected config to stay untouched, got %q", cfg.VaultDir)
	}
}
