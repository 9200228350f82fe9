// Package stats sizes the service's on-disk footprint for the operator
// surface.
package stats

import (
	"os"

	"github.com/mesh-intelligence/modulo/internal/recovery"
	"github.com/mesh-intelligence/modulo/pkg/types"
)

// Collect sizes the database file, the recovery directory, and the
// preferences file. Paths that do not exist yet count as zero bytes.
func Collect(dbPath, prefsPath string, recov *recovery.Store) (types.StorageStats, error) {
	st := types.StorageStats{
		DatabasePath:    dbPath,
		PreferencesPath: prefsPath,
		RecoveryPath:    recov.Dir(),
	}

	st.DatabaseBytes = fileSize(dbPath)
	st.PreferencesBytes = fileSize(prefsPath)

	recoveryBytes, err := recov.Size()
	if err != nil {
		return st, err
	}
	st.RecoveryBytes = recoveryBytes

	st.TotalBytes = st.DatabaseBytes + st.RecoveryBytes + st.PreferencesBytes
	return st, nil
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
