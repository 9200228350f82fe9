package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/modulo/pkg/types"
)

func TestTagCRUD(t *testing.T) {
	ctx := context.Background()
	backend := setupBackend(t)
	board := makeBoard(t, backend, "Tagged")

	t.Run("create and list case-insensitively sorted", func(t *testing.T) {
		for _, label := range []string{"zulu", "Alpha", "mike"} {
			_, err := backend.CreateTag(ctx, types.CreateTagParams{
				BoardID: board.ID,
				Label:   label,
				Color:   "#123456",
			})
			require.NoError(t, err)
		}
		tags, err := backend.ListTags(ctx, board.ID)
		require.NoError(t, err)
		require.Len(t, tags, 3)
		assert.Equal(t, "Alpha", tags[0].Label)
		assert.Equal(t, "mike", tags[1].Label)
		assert.Equal(t, "zulu", tags[2].Label)
	})

	t.Run("create validates", func(t *testing.T) {
		_, err := backend.CreateTag(ctx, types.CreateTagParams{
			BoardID: board.ID,
			Label:   "nocolor",
		})
		require.ErrorIs(t, err, types.ErrInvalidColor)

		_, err = backend.CreateTag(ctx, types.CreateTagParams{
			BoardID: board.ID,
			Label:   "zulu",
			Color:   "#000000",
		})
		require.ErrorIs(t, err, types.ErrDuplicateLabel)

		_, err = backend.CreateTag(ctx, types.CreateTagParams{
			BoardID: "missing",
			Label:   "stray",
			Color:   "#000000",
		})
		require.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("update is board-scoped", func(t *testing.T) {
		tag, err := backend.CreateTag(ctx, types.CreateTagParams{
			BoardID: board.ID,
			Label:   "renameme",
			Color:   "#0000FF",
		})
		require.NoError(t, err)

		updated, err := backend.UpdateTag(ctx, tag.ID, board.ID, types.TagPatch{
			Label: str("renamed"),
			Color: str("#00FFFF"),
		})
		require.NoError(t, err)
		assert.Equal(t, "renamed", updated.Label)
		assert.Equal(t, "#00FFFF", updated.Color)

		// Renaming onto an existing label is refused.
		_, err = backend.UpdateTag(ctx, tag.ID, board.ID, types.TagPatch{Label: str("zulu")})
		require.ErrorIs(t, err, types.ErrDuplicateLabel)

		// Wrong board finds no row.
		other := makeBoard(t, backend, "Other")
		_, err = backend.UpdateTag(ctx, tag.ID, other.ID, types.TagPatch{Label: str("hijack")})
		require.ErrorIs(t, err, types.ErrNotFound)

		// Empty patch checks existence and ownership.
		same, err := backend.UpdateTag(ctx, tag.ID, board.ID, types.TagPatch{})
		require.NoError(t, err)
		assert.Equal(t, "renamed", same.Label)
		_, err = backend.UpdateTag(ctx, tag.ID, other.ID, types.TagPatch{})
		require.ErrorIs(t, err, types.ErrOwnership)
	})

	t.Run("delete removes links", func(t *testing.T) {
		col := makeColumn(t, backend, board.ID, "Lane")
		card := makeCard(t, backend, board.ID, col.ID, "Holder")
		tag, err := backend.CreateTag(ctx, types.CreateTagParams{
			BoardID: board.ID,
			Label:   "ephemeral",
			Color:   "#ABCDEF",
		})
		require.NoError(t, err)
		_, err = backend.SetCardTags(ctx, card.ID, board.ID, []string{tag.ID})
		require.NoError(t, err)

		require.NoError(t, backend.DeleteTag(ctx, tag.ID, board.ID))

		got, err := backend.GetCard(ctx, card.ID)
		require.NoError(t, err)
		assert.Empty(t, got.Tags)

		require.ErrorIs(t, backend.DeleteTag(ctx, tag.ID, board.ID), types.ErrNotFound)
	})
}

func TestSetCardTags(t *testing.T) {
	ctx := context.Background()
	backend := setupBackend(t)
	board := makeBoard(t, backend, "Linked")
	col := makeColumn(t, backend, board.ID, "Lane")
	card := makeCard(t, backend, board.ID, col.ID, "Holder")

	mkTag := func(label string) *types.Tag {
		tag, err := backend.CreateTag(ctx, types.CreateTagParams{
			BoardID: board.ID,
			Label:   label,
			Color:   "#336699",
		})
		require.NoError(t, err)
		return tag
	}
	one := mkTag("one")
	two := mkTag("two")
	three := mkTag("three")

	t.Run("replaces the whole set", func(t *testing.T) {
		tags, err := backend.SetCardTags(ctx, card.ID, board.ID, []string{one.ID, two.ID})
		require.NoError(t, err)
		require.Len(t, tags, 2)

		tags, err = backend.SetCardTags(ctx, card.ID, board.ID, []string{three.ID})
		require.NoError(t, err)
		require.Len(t, tags, 1)
		assert.Equal(t, "three", tags[0].Label)

		tags, err = backend.SetCardTags(ctx, card.ID, board.ID, nil)
		require.NoError(t, err)
		assert.Empty(t, tags)
	})

	t.Run("duplicate ids collapse", func(t *testing.T) {
		tags, err := backend.SetCardTags(ctx, card.ID, board.ID, []string{one.ID, one.ID})
		require.NoError(t, err)
		require.Len(t, tags, 1)
	})

	t.Run("rejects foreign and unknown tags atomically", func(t *testing.T) {
		other := makeBoard(t, backend, "Other")
		foreign, err := backend.CreateTag(ctx, types.CreateTagParams{
			BoardID: other.ID,
			Label:   "foreign",
			Color:   "#663399",
		})
		require.NoError(t, err)

		before, err := backend.GetCard(ctx, card.ID)
		require.NoError(t, err)

		_, err = backend.SetCardTags(ctx, card.ID, board.ID, []string{two.ID, foreign.ID})
		require.ErrorIs(t, err, types.ErrOwnership)
		_, err = backend.SetCardTags(ctx, card.ID, board.ID, []string{"missing"})
		require.ErrorIs(t, err, types.ErrNotFound)

		after, err := backend.GetCard(ctx, card.ID)
		require.NoError(t, err)
		assert.Equal(t, len(before.Tags), len(after.Tags))
	})

	t.Run("card ownership is checked first", func(t *testing.T) {
		_, err := backend.SetCardTags(ctx, card.ID, "wrong-board", []string{one.ID})
		require.ErrorIs(t, err, types.ErrOwnership)
		_, err = backend.SetCardTags(ctx, "missing", board.ID, []string{one.ID})
		require.ErrorIs(t, err, types.ErrNotFound)
	})
}
