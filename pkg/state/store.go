// Package state persists provisioning run history under the user's
// config directory.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

const (
	// ConfigDirName is the name of the config directory.
	ConfigDirName = "pcli"
	// RunsFileName is the name of the run history file.
	RunsFileName = "runs.json"
	// MaxRuns is the maximum number of runs kept in history.
	MaxRuns = 50
)

// Store manages persistent run history.
type Store struct {
	configDir string
	mu        sync.Mutex
}

// NewStore creates a new store under the XDG config directory.
func NewStore() (*Store, error) {
	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}

	return &Store{
		configDir: configDir,
	}, nil
}

// NewStoreWithDir creates a new store with a custom directory.
func NewStoreWithDir(dir string) *Store {
	return &Store{
		configDir: dir,
	}
}

// getConfigDir returns the config directory path.
func getConfigDir() (string, error) {
	// Use XDG_CONFIG_HOME if set, otherwise ~/.config
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, ConfigDirName), nil
}

// ConfigDir returns the config directory path.
func (s *Store) ConfigDir() string {
	return s.configDir
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// Append records a run, trimming history to MaxRuns. A missing run ID
// is filled in.
func (s *Store) Append(run Run) (Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run.ID == "" {
		run.ID = NewRunID()
	}

	runs, err := s.load()
	if err != nil {
		return Run{}, err
	}

	runs = append(runs, run)
	if len(runs) > MaxRuns {
		runs = runs[len(runs)-MaxRuns:]
	}

	if err := s.save(runs); err != nil {
		return Run{}, err
	}
	return run, nil
}

// List returns all recorded runs, oldest first.
func (s *Store) List() ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Last returns the most recent run, or nil when history is empty.
func (s *Store) Last() (*Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	runs, err := s.load()
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[len(runs)-1], nil
}

// load reads the runs file; a missing file is empty history.
func (s *Store) load() ([]Run, error) {
	path := filepath.Join(s.configDir, RunsFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read run history: %w", err)
	}

	var runs []Run
	if err := json.Unmarshal(data, &runs); err != nil {
		return nil, fmt.Errorf("failed to parse run history: %w", err)
	}
	return runs, nil
}

// save writes the runs file, creating the config directory if needed.
func (s *Store) save(runs []Run) error {
	if err := os.MkdirAll(s.configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(runs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode run history: %w", err)
	}

	path := filepath.Join(s.configDir, RunsFileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write run history: %w", err)
	}
	return nil
}
