package state

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/Paintersrp/hoverlink/internal/config"
	indexsvc "github.com/Paintersrp/hoverlink/internal/services/index"
)

type State struct {
	Config     *config.Config
	ConfigPath string
	Vault      string
	Index      *indexsvc.Service
	Watcher    *VaultWatcher
	Logger     *slog.Logger
	RootStatus *RootStatus
}

// NewState loads the config at configPath, or the default location when it
// is empty, and prepares an unbuilt index service for the vault.
func NewState(configPath string, logger *slog.Logger) (*State, error) {
	if logger == nil {
		logger = slog.Default()
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := indexsvc.OptionsFromConfig(cfg)
	opts.Logger = logger

	return &State{
		Config:     cfg,
		ConfigPath: cfg.Path(),
		Vault:      cfg.VaultDir,
		Index:      indexsvc.NewService(cfg.VaultDir, opts),
		Logger:     logger,
		RootStatus: &RootStatus{},
	}, nil
}

func GetHomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory. err: %s", err)
	}

	return home, nil
}

// LoadConfig reads the config file, creating an empty one first if needed.
func LoadConfig(configPath string) (*config.Config, error) {
	if configPath == "" {
		home, err := GetHomeDir()
		if err != nil {
			return nil, err
		}
		configPath = config.GetConfigPath(home)
	}

	if err := config.EnsureConfigExists(configPath); err != nil {
		return nil, err
	}

	return config.LoadFile(configPath)
}

// StartWatcher creates the vault watcher, wired to apply note events to the
// index service. Calling it again returns the same watcher.
func (s *State) StartWatcher() (*VaultWatcher, error) {
	if s.Watcher != nil {
		return s.Watcher, nil
	}

	watcher, err := NewVaultWatcher(
		s.Vault,
		s.Index,
		s.Config.IgnoredFolders,
		s.Config.IgnorePatterns,
		s.Logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault watcher: %w", err)
	}

	s.Watcher = watcher
	return watcher, nil
}

// Close releases resources associated with the state, including the vault
// watcher and the index service.
func (s *State) Close() error {
	if s == nil {
		return nil
	}

	var errs []error
	if s.Watcher != nil {
		if err := s.Watcher.Close(); err != nil {
			errs = append(errs, err)
		}
		s.Watcher = nil
	}
	if s.Index != nil {
		if err := s.Index.Close(); err != nil && !errors.Is(err, indexsvc.ErrClosed) {
			errs = append(errs, err)
		}
		s.Index = nil
	}

	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}
