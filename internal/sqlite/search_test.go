package sqlite

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/modulo/pkg/types"
)

func TestSearch(t *testing.T) {
	ctx := context.Background()
	backend := setupBackend(t)
	board, err := backend.CreateBoard(ctx, types.CreateBoardParams{Title: "Roadmap 2027"})
	require.NoError(t, err)
	col := makeColumn(t, backend, board.ID, "Lane")

	makeCard(t, backend, board.ID, col.ID, "Draft roadmap outline")
	_, err = backend.CreateCard(ctx, types.CreateCardParams{
		BoardID:     board.ID,
		ColumnID:    col.ID,
		Title:       "Unrelated chore",
		Description: str("mentioned in the roadmap review"),
	})
	require.NoError(t, err)
	_, err = backend.CreateNote(ctx, types.CreateNoteParams{
		BoardID: board.ID,
		Title:   "Roadmap follow-ups",
		Content: "items that did not fit",
	})
	require.NoError(t, err)
	makeCard(t, backend, board.ID, col.ID, "Completely different")

	t.Run("matches across entity types", func(t *testing.T) {
		results, err := backend.Search(ctx, "roadmap")
		require.NoError(t, err)
		require.Len(t, results, 4)

		byType := map[string]int{}
		for _, r := range results {
			byType[r.Type]++
			assert.Equal(t, board.ID, r.BoardID)
			assert.Equal(t, board.Title, r.BoardName)
		}
		assert.Equal(t, 1, byType[types.SearchTypeBoard])
		assert.Equal(t, 2, byType[types.SearchTypeCard])
		assert.Equal(t, 1, byType[types.SearchTypeNote])

		// The description-only hit has no title match and ranks last.
		assert.Equal(t, "Unrelated chore", results[len(results)-1].Title)
	})

	t.Run("note hits carry a content snippet", func(t *testing.T) {
		results, err := backend.Search(ctx, "did not fit")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, types.SearchTypeNote, results[0].Type)
		require.NotNil(t, results[0].Description)
		assert.Equal(t, "items that did not fit", *results[0].Description)
	})

	t.Run("long note content is truncated", func(t *testing.T) {
		long := strings.Repeat("needle ", 100)
		_, err := backend.CreateNote(ctx, types.CreateNoteParams{
			BoardID: board.ID,
			Title:   "Long",
			Content: long,
		})
		require.NoError(t, err)

		results, err := backend.Search(ctx, "needle")
		require.NoError(t, err)
		require.Len(t, results, 1)
		require.NotNil(t, results[0].Description)
		assert.Len(t, []rune(*results[0].Description), noteSnippetLen)
	})

	t.Run("blank query returns nothing", func(t *testing.T) {
		results, err := backend.Search(ctx, "   ")
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("archived rows are excluded", func(t *testing.T) {
		_, err := backend.UpdateBoard(ctx, board.ID, types.BoardPatch{Archived: boolPtr(true)})
		require.NoError(t, err)
		results, err := backend.Search(ctx, "Roadmap 2027")
		require.NoError(t, err)
		for _, r := range results {
			assert.NotEqual(t, types.SearchTypeBoard, r.Type)
		}
	})
}
