package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/Paintersrp/hoverlink/internal/config"
	"github.com/Paintersrp/hoverlink/internal/match"
)

func writeConfig(t *testing.T, content string) (string, string) {
	t.Helper()
	home := t.TempDir()
	path := config.GetConfigPath(home)
	if err := config.EnsureConfigExists(path); err != nil {
		t.Fatalf("EnsureConfigExists returned error: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return home, path
}

func TestLoadEmptyFileUsesDefaults(t *testing.T) {
	home, _ := writeConfig(t, "")

	cfg, err := config.Load(home)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.MaxPhraseWords != match.DefaultMaxPhraseWords || cfg.MinMatchLength != match.DefaultMinMatchLength {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if !cfg.Detect.Notes || !cfg.Detect.Headings || !cfg.Detect.Tags || !cfg.Detect.Properties {
		t.Fatalf("expected every category enabled by default, got %+v", cfg.Detect)
	}
	if cfg.HoverDelay() != config.DefaultHoverDelayMS*time.Millisecond {
		t.Fatalf("unexpected hover delay %s", cfg.HoverDelay())
	}
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	_, path := writeConfig(t, "detect:\n  tags: false\nmax_results: 4\n")

	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile returned error: %v", err)
	}

	want := config.DetectConfig{Notes: true, Headings: true, Tags: false, Properties: true}
	if cfg.Detect != want {
		t.Fatalf("Detect = %+v, want %+v", cfg.Detect, want)
	}
	if cfg.MaxResults != 4 {
		t.Fatalf("expected max_results 4, got %d", cfg.MaxResults)
	}
}

func TestLoadClampsOutOfRangeValues(t *testing.T) {
	_, path := writeConfig(t, "max_phrase_words: 25\nmin_match_length: -2\nmax_results: 0\nhover_delay_ms: -5\n")

	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile returned error: %v", err)
	}

	if cfg.MaxPhraseWords != match.MaxPhraseWordsLimit {
		t.Fatalf("expected max_phrase_words clamped to %d, got %d", match.MaxPhraseWordsLimit, cfg.MaxPhraseWords)
	}
	if cfg.MinMatchLength != 1 || cfg.MaxResults != 1 || cfg.HoverDelayMS != 0 {
		t.Fatalf("expected clamped values, got %+v", cfg)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	_, path := writeConfig(t, "detect: [oops\n")

	if _, err := config.LoadFile(path); err == nil {
		t.Fatalf("expected malformed config to fail")
	}
}

func TestExcludedWordsAreTrimmedAndLowercased(t *testing.T) {
	_, path := writeConfig(t, "excluded_words: \" The ,AND,, of \"\n")

	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile returned error: %v", err)
	}

	if got, want := cfg.Excluded(), []string{"and", "of", "the"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Excluded() = %v, want %v", got, want)
	}

	mc := cfg.MatchConfig()
	if !mc.Excludes("the") || mc.Excludes("matrix") {
		t.Fatalf("unexpected exclusion set %v", mc.ExcludedWords)
	}
}

func TestIndexOptionsFollowDetection(t *testing.T) {
	cfg := config.Default()
	cfg.Detect.Headings = false
	cfg.MinMatchLength = 4

	opts := cfg.IndexOptions()
	if opts.Headings || !opts.Tags || !opts.Properties || opts.MinMatchLength != 4 {
		t.Fatalf("unexpected index options %+v", opts)
	}
}

func TestValidateRequiresVault(t *testing.T) {
	cfg := config.Default()

	var initErr *config.ConfigInitError
	if err := cfg.Validate(); !errors.As(err, &initErr) {
		t.Fatalf("expected ConfigInitError, got %v", err)
	}

	cfg.VaultDir = filepath.Join(t.TempDir(), "missing")
	if err := cfg.Validate(); !errors.As(err, &initErr) {
		t.Fatalf("expected ConfigInitError for missing directory, got %v", err)
	}

	cfg.VaultDir = t.TempDir()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	_, path := writeConfig(t, "")

	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile returned error: %v", err)
	}
	cfg.VaultDir = "/tmp/vault"
	cfg.IgnorePatterns = []string{"templates/**"}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	reloaded, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile after save returned error: %v", err)
	}
	if reloaded.VaultDir != "/tmp/vault" || !reflect.DeepEqual(reloaded.IgnorePatterns, []string{"templates/**"}) {
		t.Fatalf("unexpected reloaded config %+v", reloaded)
	}
}
