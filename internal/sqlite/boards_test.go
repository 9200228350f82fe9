package sqlite

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/modulo/pkg/types"
)

func str(s string) *string { return &s }

func boolPtr(v bool) *bool { return &v }

func TestWorkspaceCRUD(t *testing.T) {
	ctx := context.Background()
	backend := setupBackend(t)

	t.Run("create and list sorted by name", func(t *testing.T) {
		_, err := backend.CreateWorkspace(ctx, types.CreateWorkspaceParams{Name: "zeta"})
		require.NoError(t, err)
		_, err = backend.CreateWorkspace(ctx, types.CreateWorkspaceParams{Name: "Alpha"})
		require.NoError(t, err)

		workspaces, err := backend.ListWorkspaces(ctx)
		require.NoError(t, err)
		require.Len(t, workspaces, 3)
		assert.Equal(t, "Alpha", workspaces[0].Name)
		assert.Equal(t, types.DefaultWorkspaceName, workspaces[1].Name)
		assert.Equal(t, "zeta", workspaces[2].Name)
	})

	t.Run("create validates name and color", func(t *testing.T) {
		_, err := backend.CreateWorkspace(ctx, types.CreateWorkspaceParams{Name: "   "})
		require.ErrorIs(t, err, types.ErrEmptyTitle)

		_, err = backend.CreateWorkspace(ctx, types.CreateWorkspaceParams{
			Name:  "Tinted",
			Color: str("bright red"),
		})
		require.ErrorIs(t, err, types.ErrInvalidColor)
	})

	t.Run("update patches only supplied fields", func(t *testing.T) {
		ws, err := backend.CreateWorkspace(ctx, types.CreateWorkspaceParams{
			Name:  "Patchable",
			Color: str("#112233"),
		})
		require.NoError(t, err)

		updated, err := backend.UpdateWorkspace(ctx, ws.ID, types.WorkspacePatch{Name: str("Renamed")})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Name)
		require.NotNil(t, updated.Color)
		assert.Equal(t, "#112233", *updated.Color)

		// Empty patch is an existence check.
		same, err := backend.UpdateWorkspace(ctx, ws.ID, types.WorkspacePatch{})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", same.Name)

		_, err = backend.UpdateWorkspace(ctx, "missing", types.WorkspacePatch{Name: str("x")})
		require.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("delete refuses while boards remain", func(t *testing.T) {
		ws, err := backend.CreateWorkspace(ctx, types.CreateWorkspaceParams{Name: "Occupied"})
		require.NoError(t, err)
		board, err := backend.CreateBoard(ctx, types.CreateBoardParams{
			WorkspaceID: ws.ID,
			Title:       "Blocker",
		})
		require.NoError(t, err)

		require.ErrorIs(t, backend.DeleteWorkspace(ctx, ws.ID), types.ErrWorkspaceNotEmpty)

		require.NoError(t, backend.DeleteBoard(ctx, board.ID))
		require.NoError(t, backend.DeleteWorkspace(ctx, ws.ID))
		require.ErrorIs(t, backend.DeleteWorkspace(ctx, ws.ID), types.ErrNotFound)
	})
}

func TestBoardCRUD(t *testing.T) {
	ctx := context.Background()
	backend := setupBackend(t)

	t.Run("create with default columns", func(t *testing.T) {
		board, err := backend.CreateBoard(ctx, types.CreateBoardParams{
			Title:        "Standard",
			WithDefaults: true,
		})
		require.NoError(t, err)
		assert.Equal(t, types.DefaultBoardIcon, board.Icon)
		assert.Equal(t, types.DefaultWorkspaceID, board.WorkspaceID)

		cols, err := backend.ListColumns(ctx, board.ID)
		require.NoError(t, err)
		require.Len(t, cols, 3)
		assert.Equal(t, "To do", cols[0].Title)
		assert.Equal(t, "In progress", cols[1].Title)
		assert.Equal(t, "Done", cols[2].Title)
		for i, c := range cols {
			assert.Equal(t, i, c.Position)
			assert.True(t, c.IsEnabled)
			assert.Equal(t, types.DefaultColumnIcon, c.Icon)
		}
	})

	t.Run("create validates inputs", func(t *testing.T) {
		_, err := backend.CreateBoard(ctx, types.CreateBoardParams{Title: ""})
		require.ErrorIs(t, err, types.ErrEmptyTitle)

		_, err = backend.CreateBoard(ctx, types.CreateBoardParams{
			Title: strings.Repeat("x", types.MaxTitleLen+1),
		})
		require.ErrorIs(t, err, types.ErrTitleTooLong)

		_, err = backend.CreateBoard(ctx, types.CreateBoardParams{
			Title: "Iconic",
			Icon:  str("NotAnIcon"),
		})
		require.ErrorIs(t, err, types.ErrInvalidIcon)

		_, err = backend.CreateBoard(ctx, types.CreateBoardParams{
			Title:       "Orphan",
			WorkspaceID: "missing",
		})
		require.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("rename", func(t *testing.T) {
		board := makeBoard(t, backend, "Old name")
		renamed, err := backend.RenameBoard(ctx, board.ID, "New name")
		require.NoError(t, err)
		assert.Equal(t, "New name", renamed.Title)

		_, err = backend.RenameBoard(ctx, "missing", "x")
		require.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("patch fields", func(t *testing.T) {
		board := makeBoard(t, backend, "Patchable")

		updated, err := backend.UpdateBoard(ctx, board.ID, types.BoardPatch{
			Description: str("now with text"),
			Emoji:       str("🚀"),
			Color:       str("#AABBCC"),
			Icon:        str("Rocket"),
			IsFavorite:  boolPtr(true),
		})
		require.NoError(t, err)
		require.NotNil(t, updated.Description)
		assert.Equal(t, "now with text", *updated.Description)
		require.NotNil(t, updated.Emoji)
		assert.Equal(t, "🚀", *updated.Emoji)
		assert.Equal(t, "Rocket", updated.Icon)
		assert.True(t, updated.IsFavorite)

		// Clearing optional text with an empty string.
		cleared, err := backend.UpdateBoard(ctx, board.ID, types.BoardPatch{
			Description: str(""),
			Emoji:       str(""),
		})
		require.NoError(t, err)
		assert.Nil(t, cleared.Description)
		assert.Nil(t, cleared.Emoji)
	})

	t.Run("archive hides the board from listings", func(t *testing.T) {
		board := makeBoard(t, backend, "Archivable")

		archived, err := backend.UpdateBoard(ctx, board.ID, types.BoardPatch{Archived: boolPtr(true)})
		require.NoError(t, err)
		require.NotNil(t, archived.ArchivedAt)

		boards, err := backend.ListBoards(ctx, types.DefaultWorkspaceID)
		require.NoError(t, err)
		for _, bd := range boards {
			assert.NotEqual(t, board.ID, bd.ID)
		}

		restored, err := backend.UpdateBoard(ctx, board.ID, types.BoardPatch{Archived: boolPtr(false)})
		require.NoError(t, err)
		assert.Nil(t, restored.ArchivedAt)
	})

	t.Run("move between workspaces", func(t *testing.T) {
		ws, err := backend.CreateWorkspace(ctx, types.CreateWorkspaceParams{Name: "Target"})
		require.NoError(t, err)
		board := makeBoard(t, backend, "Mover")

		moved, err := backend.UpdateBoard(ctx, board.ID, types.BoardPatch{WorkspaceID: &ws.ID})
		require.NoError(t, err)
		assert.Equal(t, ws.ID, moved.WorkspaceID)

		_, err = backend.UpdateBoard(ctx, board.ID, types.BoardPatch{WorkspaceID: str("missing")})
		require.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("delete cascades the whole board", func(t *testing.T) {
		board := makeBoard(t, backend, "Doomed")
		col := makeColumn(t, backend, board.ID, "Lane")
		card := makeCard(t, backend, board.ID, col.ID, "Card")
		_, err := backend.CreateSubtask(ctx, types.CreateSubtaskParams{
			BoardID: board.ID,
			CardID:  card.ID,
			Title:   "Step",
		})
		require.NoError(t, err)
		tag, err := backend.CreateTag(ctx, types.CreateTagParams{
			BoardID: board.ID,
			Label:   "urgentish",
			Color:   "#FF0000",
		})
		require.NoError(t, err)
		_, err = backend.SetCardTags(ctx, card.ID, board.ID, []string{tag.ID})
		require.NoError(t, err)
		_, err = backend.CreateNote(ctx, types.CreateNoteParams{
			BoardID: board.ID,
			Title:   "Note",
		})
		require.NoError(t, err)

		require.NoError(t, backend.DeleteBoard(ctx, board.ID))

		_, err = backend.GetCard(ctx, card.ID)
		require.ErrorIs(t, err, types.ErrNotFound)
		cols, err := backend.ListColumns(ctx, board.ID)
		require.NoError(t, err)
		assert.Empty(t, cols)
		tags, err := backend.ListTags(ctx, board.ID)
		require.NoError(t, err)
		assert.Empty(t, tags)
		notes, err := backend.ListNotes(ctx, board.ID)
		require.NoError(t, err)
		assert.Empty(t, notes)

		require.ErrorIs(t, backend.DeleteBoard(ctx, board.ID), types.ErrNotFound)
	})
}
