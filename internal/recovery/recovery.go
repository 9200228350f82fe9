// Package recovery stores emergency JSON snapshots the client writes
// before risky operations. Snapshots live in their own directory beside
// the database and are swept after a retention window.
package recovery

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/bytedance/sonic"
	"github.com/natefinch/atomic"
	log "github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/modulo/pkg/types"
)

const (
	// DirName is the snapshot directory inside the data directory.
	DirName = "recovery"

	// MaxPayloadBytes caps a single snapshot's serialized size.
	MaxPayloadBytes = 10 << 20

	// DefaultRetention is how long the sweep keeps snapshots.
	DefaultRetention = 7 * 24 * time.Hour

	maxFilenameLen = 100
)

var filenamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+(\.[a-zA-Z0-9]+)?$`)

// Store reads and writes snapshots under a fixed directory.
type Store struct {
	dir    string
	logger *log.Logger
}

// NewStore returns a Store rooted at dataDir/recovery.
func NewStore(dataDir string, logger *log.Logger) *Store {
	return &Store{dir: filepath.Join(dataDir, DirName), logger: logger}
}

// Dir returns the snapshot directory.
func (s *Store) Dir() string { return s.dir }

// Save validates and atomically writes a snapshot named <filename>.json.
// The payload is any JSON-encodable value.
func (s *Store) Save(filename string, data any) error {
	if err := validateFilename(filename); err != nil {
		return err
	}

	compact, err := sonic.ConfigStd.Marshal(data)
	if err != nil {
		return fmt.Errorf("encoding recovery payload: %w", err)
	}
	if len(compact) > MaxPayloadBytes {
		return fmt.Errorf("%d bytes: %w", len(compact), types.ErrPayloadTooLarge)
	}

	pretty, err := sonic.ConfigStd.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding recovery payload: %w", err)
	}

	path, err := s.resolve(filename)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating recovery directory: %w", err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(pretty)); err != nil {
		return fmt.Errorf("writing recovery file: %w", err)
	}

	s.logger.WithField("path", path).Info("recovery snapshot saved")
	return nil
}

// Load returns the snapshot's JSON payload.
func (s *Store) Load(filename string) ([]byte, error) {
	if err := validateFilename(filename); err != nil {
		return nil, err
	}

	path, err := s.resolve(filename)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("recovery file %s: %w", filename, types.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading recovery file: %w", err)
	}

	if !sonic.ConfigStd.Valid(raw) {
		return nil, fmt.Errorf("recovery file %s holds malformed JSON", filename)
	}
	return raw, nil
}

// Cleanup removes .json snapshots whose modification time is older than
// the retention window and reports how many were removed. A retention of
// zero or less means DefaultRetention. Per-file failures are logged and
// skipped.
func (s *Store) Cleanup(retention time.Duration) (int, error) {
	if retention <= 0 {
		retention = DefaultRetention
	}
	cutoff := time.Now().Add(-retention)

	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading recovery directory: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			s.logger.WithError(err).Warnf("skipping recovery file %s", entry.Name())
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}

		path := filepath.Join(s.dir, entry.Name())
		if err := os.Remove(path); err != nil {
			s.logger.WithError(err).Warnf("failed to remove recovery file %s", entry.Name())
			continue
		}
		s.logger.WithField("path", path).Info("removed old recovery file")
		removed++
	}
	return removed, nil
}

// Size returns the combined byte size of all snapshots, zero when the
// directory does not exist yet.
func (s *Store) Size() (int64, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading recovery directory: %w", err)
	}

	var total int64
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		total += info.Size()
	}
	return total, nil
}

// resolve maps a validated filename to its path inside the snapshot
// directory. Resolved paths never escape the directory.
func (s *Store) resolve(filename string) (string, error) {
	path := filepath.Join(s.dir, filename+".json")
	if filepath.Dir(path) != s.dir {
		return "", fmt.Errorf("filename %q: %w", filename, types.ErrInvalidFilename)
	}
	return path, nil
}

func validateFilename(filename string) error {
	if filename == "" {
		return fmt.Errorf("empty filename: %w", types.ErrInvalidFilename)
	}
	if len(filename) > maxFilenameLen {
		return fmt.Errorf("filename longer than %d characters: %w", maxFilenameLen, types.ErrInvalidFilename)
	}
	if !filenamePattern.MatchString(filename) {
		return fmt.Errorf("filename %q: %w", filename, types.ErrInvalidFilename)
	}
	return nil
}
