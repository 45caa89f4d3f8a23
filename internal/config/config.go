package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Paintersrp/hoverlink/internal/entity"
	"github.com/Paintersrp/hoverlink/internal/match"
)

const (
	DefaultMaxResults   = 10
	DefaultHoverDelayMS = 300
)

// DetectConfig toggles phrase detection per category.
type DetectConfig struct {
	Notes      bool `yaml:"notes"      json:"notes"      toml:"notes"`
	Headings   bool `yaml:"headings"   json:"headings"   toml:"headings"`
	Tags       bool `yaml:"tags"       json:"tags"       toml:"tags"`
	Properties bool `yaml:"properties" json:"properties" toml:"properties"`
}

type Config struct {
	VaultDir       string       `yaml:"vaultdir"         json:"vault_dir"        toml:"vaultdir"`
	Detect         DetectConfig `yaml:"detect"           json:"detect"           toml:"detect"`
	MaxPhraseWords int          `yaml:"max_phrase_words" json:"max_phrase_words" toml:"max_phrase_words"`
	MinMatchLength int          `yaml:"min_match_length" json:"min_match_length" toml:"min_match_length"`
	MaxResults     int          `yaml:"max_results"      json:"max_results"      toml:"max_results"`
	// ExcludedWords is a comma-separated list of words that never match on
	// their own.
	ExcludedWords  string   `yaml:"excluded_words"  json:"excluded_words"  toml:"excluded_words"`
	IgnoredFolders []string `yaml:"ignored_folders" json:"ignored_folders" toml:"ignored_folders"`
	IgnorePatterns []string `yaml:"ignore_patterns" json:"ignore_patterns" toml:"ignore_patterns"`
	HoverDelayMS   int      `yaml:"hover_delay_ms"  json:"hover_delay_ms"  toml:"hover_delay_ms"`

	path string
}

// Default returns the configuration used for keys missing from the file.
func Default() *Config {
	return &Config{
		Detect:         DetectConfig{Notes: true, Headings: true, Tags: true, Properties: true},
		MaxPhraseWords: match.DefaultMaxPhraseWords,
		MinMatchLength: match.DefaultMinMatchLength,
		MaxResults:     DefaultMaxResults,
		ExcludedWords:  "the, a, an, and, or, of, to, in, is, it",
		HoverDelayMS:   DefaultHoverDelayMS,
	}
}

// Load reads the config stored under the home directory.
func Load(home string) (*Config, error) {
	return LoadFile(GetConfigPath(home))
}

// LoadFile reads the config at path. An empty file yields the defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	cfg.path = path
	cfg.applyViper()
	cfg.normalize()
	return cfg, nil
}

// Path is the file the config was loaded from, if any.
func (cfg *Config) Path() string {
	return cfg.path
}

// Save writes the config back to the file it was loaded from.
func (cfg *Config) Save() error {
	if cfg.path == "" {
		return fmt.Errorf("config has no backing file")
	}
	return cfg.SaveFile(cfg.path)
}

func (cfg *Config) SaveFile(path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// SetVaultDir points the config at dir, expanding a leading ~.
func (cfg *Config) SetVaultDir(dir string) {
	cfg.VaultDir = expandHome(strings.TrimSpace(dir))
}

// Validate reports settings the engine cannot run without.
func (cfg *Config) Validate() error {
	if strings.TrimSpace(cfg.VaultDir) == "" {
		return &ConfigInitError{msg: `required config variable "vaultdir" is not set`}
	}
	info, err := os.Stat(cfg.VaultDir)
	if err != nil {
		return &ConfigInitError{msg: fmt.Sprintf("vault directory %q is not accessible: %v", cfg.VaultDir, err)}
	}
	if !info.IsDir() {
		return &ConfigInitError{msg: fmt.Sprintf("vault path %q is not a directory", cfg.VaultDir)}
	}
	return nil
}

// applyViper overlays values set through flags or HOVERLINK_* environment
// variables bound on the global viper instance.
func (cfg *Config) applyViper() {
	if viper.IsSet("vaultdir") {
		cfg.VaultDir = viper.GetString("vaultdir")
	}
	if viper.IsSet("max_phrase_words") {
		cfg.MaxPhraseWords = viper.GetInt("max_phrase_words")
	}
	if viper.IsSet("min_match_length") {
		cfg.MinMatchLength = viper.GetInt("min_match_length")
	}
	if viper.IsSet("max_results") {
		cfg.MaxResults = viper.GetInt("max_results")
	}
	if viper.IsSet("excluded_words") {
		cfg.ExcludedWords = viper.GetString("excluded_words")
	}
}

// normalize clamps out-of-range values rather than rejecting them so hover
// matching always stays available.
func (cfg *Config) normalize() {
	cfg.VaultDir = expandHome(strings.TrimSpace(cfg.VaultDir))

	normalized := match.Config{
		MaxPhraseWords: cfg.MaxPhraseWords,
		MinMatchLength: cfg.MinMatchLength,
	}.Normalize()
	cfg.MaxPhraseWords = normalized.MaxPhraseWords
	cfg.MinMatchLength = normalized.MinMatchLength

	if cfg.MaxResults < 1 {
		cfg.MaxResults = 1
	}
	if cfg.HoverDelayMS < 0 {
		cfg.HoverDelayMS = 0
	}
}

// Excluded returns the excluded words trimmed, lowercased and sorted.
func (cfg *Config) Excluded() []string {
	set := match.ParseExcludedWords(cfg.ExcludedWords)
	out := make([]string, 0, len(set))
	for w := range set {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// MatchConfig converts the persisted settings into a matcher configuration.
func (cfg *Config) MatchConfig() match.Config {
	return match.Config{
		MaxPhraseWords: cfg.MaxPhraseWords,
		MinMatchLength: cfg.MinMatchLength,
		ExcludedWords:  match.ParseExcludedWords(cfg.ExcludedWords),
		Detect: match.Detection{
			Notes:      cfg.Detect.Notes,
			Headings:   cfg.Detect.Headings,
			Tags:       cfg.Detect.Tags,
			Properties: cfg.Detect.Properties,
		},
	}.Normalize()
}

// IndexOptions returns which categories documents contribute when indexed.
func (cfg *Config) IndexOptions() entity.IndexOptions {
	return entity.IndexOptions{
		Headings:       cfg.Detect.Headings,
		Tags:           cfg.Detect.Tags,
		Properties:     cfg.Detect.Properties,
		MinMatchLength: cfg.MinMatchLength,
	}
}

func (cfg *Config) HoverDelay() time.Duration {
	return time.Duration(cfg.HoverDelayMS) * time.Millisecond
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
