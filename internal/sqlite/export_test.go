package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/modulo/pkg/types"
)

func TestExportBoard(t *testing.T) {
	ctx := context.Background()
	backend := setupBackend(t)
	board, err := backend.CreateBoard(ctx, types.CreateBoardParams{
		Title:        "Snapshot",
		WithDefaults: true,
	})
	require.NoError(t, err)

	cols, err := backend.ListColumns(ctx, board.ID)
	require.NoError(t, err)
	card := makeCard(t, backend, board.ID, cols[0].ID, "exported card")
	_, err = backend.CreateSubtask(ctx, types.CreateSubtaskParams{
		BoardID: board.ID,
		CardID:  card.ID,
		Title:   "exported subtask",
	})
	require.NoError(t, err)
	_, err = backend.CreateTag(ctx, types.CreateTagParams{
		BoardID: board.ID,
		Label:   "exported",
		Color:   "#102030",
	})
	require.NoError(t, err)
	_, err = backend.CreateNote(ctx, types.CreateNoteParams{
		BoardID: board.ID,
		Title:   "exported note",
	})
	require.NoError(t, err)
	// Archived rows are part of the snapshot.
	archived := makeCard(t, backend, board.ID, cols[1].ID, "archived card")
	_, err = backend.UpdateCard(ctx, archived.ID, board.ID, types.CardPatch{Archived: boolPtr(true)})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "board.jsonl")
	require.NoError(t, backend.ExportBoard(ctx, board.ID, path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")

	counts := map[string]int{}
	for i, line := range lines {
		var rec struct {
			Type string         `json:"type"`
			Data map[string]any `json:"data"`
		}
		require.NoError(t, sonic.ConfigStd.Unmarshal([]byte(line), &rec), "line %d", i)
		require.NotEmpty(t, rec.Data)
		counts[rec.Type]++
	}

	assert.Equal(t, 1, counts["board"])
	assert.Equal(t, 3, counts["column"])
	assert.Equal(t, 2, counts["card"])
	assert.Equal(t, 1, counts["subtask"])
	assert.Equal(t, 1, counts["tag"])
	assert.Equal(t, 1, counts["note"])

	// The board record leads the file.
	var first struct {
		Type string      `json:"type"`
		Data types.Board `json:"data"`
	}
	require.NoError(t, sonic.ConfigStd.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "board", first.Type)
	assert.Equal(t, board.ID, first.Data.ID)

	t.Run("unknown board fails", func(t *testing.T) {
		err := backend.ExportBoard(ctx, "missing", filepath.Join(t.TempDir(), "x.jsonl"))
		require.ErrorIs(t, err, types.ErrNotFound)
	})
}

func TestUpdateBuilder(t *testing.T) {
	ctx := context.Background()
	backend := setupBackend(t)
	ws, err := backend.CreateWorkspace(ctx, types.CreateWorkspaceParams{Name: "builder"})
	require.NoError(t, err)
	db, err := backend.conn()
	require.NoError(t, err)

	t.Run("empty until a field is set", func(t *testing.T) {
		u := newUpdate("workspaces")
		assert.True(t, u.Empty())
		u.Set("name", "renamed")
		assert.False(t, u.Empty())
	})

	t.Run("touches only matched rows", func(t *testing.T) {
		n, err := newUpdate("workspaces").
			Set("name", "builder renamed").
			Exec(ctx, db, "id = ?", ws.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)

		n, err = newUpdate("workspaces").
			Set("name", "nobody").
			Exec(ctx, db, "id = ?", "missing")
		require.NoError(t, err)
		assert.Zero(t, n)

		got, err := getWorkspace(ctx, db, ws.ID)
		require.NoError(t, err)
		assert.Equal(t, "builder renamed", got.Name)
	})
}
