package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Paintersrp/hoverlink/internal/pathutil"
	"github.com/Paintersrp/hoverlink/internal/state"
)

// ResolveNotePath turns a FILE argument into an absolute note path inside the
// vault. Relative arguments are tried against the vault first and then the
// working directory.
func ResolveNotePath(s *state.State, arg string) (string, error) {
	if s == nil || s.Config == nil {
		return "", fmt.Errorf("state configuration is not initialized")
	}
	vaultDir := filepath.Clean(s.Vault)
	if s.Vault == "" {
		return "", fmt.Errorf("vault directory is not configured")
	}
	if arg == "" {
		return "", fmt.Errorf("a path argument is required")
	}

	resolved, err := resolveRelative(vaultDir, arg)
	if err != nil {
		return "", err
	}

	if err := ensureWithinVault(vaultDir, resolved); err != nil {
		return "", err
	}
	if !pathutil.IsNote(resolved) {
		return "", fmt.Errorf("%q is not a markdown note", resolved)
	}

	return resolved, nil
}

func resolveRelative(vaultDir, arg string) (string, error) {
	if filepath.IsAbs(arg) {
		return filepath.Clean(arg), nil
	}

	inVault := filepath.Join(vaultDir, filepath.Clean(arg))
	if _, err := os.Stat(inVault); err == nil {
		return inVault, nil
	}

	abs, err := filepath.Abs(arg)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %q: %w", arg, err)
	}
	if _, err := os.Stat(abs); err == nil {
		return abs, nil
	}

	return inVault, nil
}

func ensureWithinVault(vaultDir, resolved string) error {
	rel, err := filepath.Rel(vaultDir, resolved)
	if err != nil {
		return fmt.Errorf("failed to resolve path %q relative to vault %q: %w", resolved, vaultDir, err)
	}

	if rel == "." {
		return nil
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("path %q is outside the vault %q", resolved, vaultDir)
	}

	return nil
}
