package stats

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/modulo/internal/recovery"
)

func TestCollect(t *testing.T) {
	dir := t.TempDir()
	logger := log.New()
	logger.SetOutput(io.Discard)

	dbPath := filepath.Join(dir, "modulo.db")
	prefsPath := filepath.Join(dir, "preferences.json")
	recov := recovery.NewStore(dir, logger)

	t.Run("missing files count as zero", func(t *testing.T) {
		st, err := Collect(dbPath, prefsPath, recov)
		require.NoError(t, err)
		assert.Zero(t, st.TotalBytes)
		assert.Equal(t, dbPath, st.DatabasePath)
		assert.Equal(t, prefsPath, st.PreferencesPath)
		assert.Equal(t, recov.Dir(), st.RecoveryPath)
	})

	t.Run("sums every part", func(t *testing.T) {
		require.NoError(t, os.WriteFile(dbPath, make([]byte, 100), 0o644))
		require.NoError(t, os.WriteFile(prefsPath, make([]byte, 30), 0o644))
		require.NoError(t, recov.Save("snap", map[string]any{"value": 1}))

		st, err := Collect(dbPath, prefsPath, recov)
		require.NoError(t, err)
		assert.Equal(t, int64(100), st.DatabaseBytes)
		assert.Equal(t, int64(30), st.PreferencesBytes)
		assert.Positive(t, st.RecoveryBytes)
		assert.Equal(t, st.DatabaseBytes+st.RecoveryBytes+st.PreferencesBytes, st.TotalBytes)
	})
}
