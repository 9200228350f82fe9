// Package prefs persists the user preferences document as a JSON file
// beside the database.
package prefs

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
	"github.com/natefinch/atomic"
	log "github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/modulo/pkg/types"
)

// FileName is the preferences document inside the data directory.
const FileName = "preferences.json"

// Store reads and writes the preferences document at a fixed path.
type Store struct {
	path   string
	logger *log.Logger
}

// NewStore returns a Store for dir/preferences.json.
func NewStore(dir string, logger *log.Logger) *Store {
	return &Store{path: filepath.Join(dir, FileName), logger: logger}
}

// Path returns the preferences file location.
func (s *Store) Path() string { return s.path }

// Load returns the stored preferences. When no file exists yet it returns
// the defaults, and fields absent from the file keep their default values.
func (s *Store) Load() (types.Preferences, error) {
	prefs := types.DefaultPreferences()

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Debug("preferences file not found, using defaults")
		return prefs, nil
	}
	if err != nil {
		return prefs, fmt.Errorf("reading preferences: %w", err)
	}

	if err := sonic.ConfigStd.Unmarshal(raw, &prefs); err != nil {
		return types.DefaultPreferences(), fmt.Errorf("parsing preferences: %w", err)
	}
	return prefs, nil
}

// Save validates the document and atomically rewrites the file.
func (s *Store) Save(prefs types.Preferences) error {
	if err := prefs.Validate(); err != nil {
		return fmt.Errorf("validating preferences: %w", err)
	}

	raw, err := sonic.ConfigStd.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding preferences: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating preferences directory: %w", err)
	}
	if err := atomic.WriteFile(s.path, bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("writing preferences: %w", err)
	}

	s.logger.WithField("path", s.path).Debug("preferences saved")
	return nil
}
