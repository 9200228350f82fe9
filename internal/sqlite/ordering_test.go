package sqlite

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/modulo/pkg/types"
)

// cardsInColumn returns the column's cards in listing order.
func cardsInColumn(t *testing.T, b *Backend, boardID, columnID string) []types.Card {
	t.Helper()
	all, err := b.ListCards(context.Background(), boardID)
	require.NoError(t, err)
	var out []types.Card
	for _, c := range all {
		if c.ColumnID == columnID {
			out = append(out, c)
		}
	}
	return out
}

func cardTitles(cards []types.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.Title
	}
	return out
}

func cardPositions(cards []types.Card) []int {
	out := make([]int, len(cards))
	for i, c := range cards {
		out[i] = c.Position
	}
	return out
}

// requireDense fails unless positions are exactly 0..n-1 in order.
func requireDense(t *testing.T, positions []int) {
	t.Helper()
	want := make([]int, len(positions))
	for i := range want {
		want[i] = i
	}
	if diff := cmp.Diff(want, positions); diff != "" {
		t.Fatalf("positions not dense (-want +got):\n%s", diff)
	}
}

func TestCardOrderWithinColumn(t *testing.T) {
	ctx := context.Background()
	backend := setupBackend(t)
	board := makeBoard(t, backend, "Ordering")
	col := makeColumn(t, backend, board.ID, "Backlog")

	makeCard(t, backend, board.ID, col.ID, "a")
	makeCard(t, backend, board.ID, col.ID, "b")
	makeCard(t, backend, board.ID, col.ID, "c")

	t.Run("creation appends", func(t *testing.T) {
		cards := cardsInColumn(t, backend, board.ID, col.ID)
		assert.Equal(t, []string{"a", "b", "c"}, cardTitles(cards))
		requireDense(t, cardPositions(cards))
	})

	t.Run("create in scope of three without index lands at three", func(t *testing.T) {
		card := makeCard(t, backend, board.ID, col.ID, "d")
		assert.Equal(t, 3, card.Position)
		require.NoError(t, backend.DeleteCard(ctx, card.ID, board.ID))
	})

	t.Run("move to front", func(t *testing.T) {
		cards := cardsInColumn(t, backend, board.ID, col.ID)
		b := cards[1]
		require.NoError(t, backend.MoveCard(ctx, b.ID, board.ID, col.ID, col.ID, 0))

		after := cardsInColumn(t, backend, board.ID, col.ID)
		assert.Equal(t, []string{"b", "a", "c"}, cardTitles(after))
		requireDense(t, cardPositions(after))

		// Restore the original order.
		require.NoError(t, backend.MoveCard(ctx, b.ID, board.ID, col.ID, col.ID, 1))
	})

	t.Run("negative index clamps to zero", func(t *testing.T) {
		cards := cardsInColumn(t, backend, board.ID, col.ID)
		last := cards[len(cards)-1]
		require.NoError(t, backend.MoveCard(ctx, last.ID, board.ID, col.ID, col.ID, -5))

		after := cardsInColumn(t, backend, board.ID, col.ID)
		assert.Equal(t, []string{"c", "a", "b"}, cardTitles(after))
		requireDense(t, cardPositions(after))

		require.NoError(t, backend.MoveCard(ctx, last.ID, board.ID, col.ID, col.ID, 999))
	})

	t.Run("oversized index clamps to append", func(t *testing.T) {
		cards := cardsInColumn(t, backend, board.ID, col.ID)
		assert.Equal(t, []string{"a", "b", "c"}, cardTitles(cards))

		first := cards[0]
		require.NoError(t, backend.MoveCard(ctx, first.ID, board.ID, col.ID, col.ID, 999))
		after := cardsInColumn(t, backend, board.ID, col.ID)
		assert.Equal(t, []string{"b", "c", "a"}, cardTitles(after))
		requireDense(t, cardPositions(after))

		require.NoError(t, backend.MoveCard(ctx, first.ID, board.ID, col.ID, col.ID, 0))
	})

	t.Run("moving to the current index is a no-op", func(t *testing.T) {
		before := cardsInColumn(t, backend, board.ID, col.ID)
		target := before[1]
		require.NoError(t, backend.MoveCard(ctx, target.ID, board.ID, col.ID, col.ID, 1))

		after := cardsInColumn(t, backend, board.ID, col.ID)
		if diff := cmp.Diff(cardTitles(before), cardTitles(after)); diff != "" {
			t.Fatalf("order changed (-before +after):\n%s", diff)
		}
		if diff := cmp.Diff(cardPositions(before), cardPositions(after)); diff != "" {
			t.Fatalf("positions changed (-before +after):\n%s", diff)
		}
	})

	t.Run("delete closes the gap", func(t *testing.T) {
		cards := cardsInColumn(t, backend, board.ID, col.ID)
		require.NoError(t, backend.DeleteCard(ctx, cards[0].ID, board.ID))

		after := cardsInColumn(t, backend, board.ID, col.ID)
		assert.Equal(t, []string{"b", "c"}, cardTitles(after))
		requireDense(t, cardPositions(after))
	})
}

func TestMoveCardAcrossColumns(t *testing.T) {
	ctx := context.Background()
	backend := setupBackend(t)
	board := makeBoard(t, backend, "Cross")
	colA := makeColumn(t, backend, board.ID, "A")
	colB := makeColumn(t, backend, board.ID, "B")

	makeCard(t, backend, board.ID, colA.ID, "a")
	cardB := makeCard(t, backend, board.ID, colA.ID, "b")
	makeCard(t, backend, board.ID, colA.ID, "c")
	makeCard(t, backend, board.ID, colB.ID, "d")
	makeCard(t, backend, board.ID, colB.ID, "e")

	require.NoError(t, backend.MoveCard(ctx, cardB.ID, board.ID, colA.ID, colB.ID, 1))

	inA := cardsInColumn(t, backend, board.ID, colA.ID)
	assert.Equal(t, []string{"a", "c"}, cardTitles(inA))
	requireDense(t, cardPositions(inA))

	inB := cardsInColumn(t, backend, board.ID, colB.ID)
	assert.Equal(t, []string{"d", "b", "e"}, cardTitles(inB))
	requireDense(t, cardPositions(inB))

	moved, err := backend.GetCard(ctx, cardB.ID)
	require.NoError(t, err)
	assert.Equal(t, colB.ID, moved.ColumnID)
	assert.Equal(t, 1, moved.Position)
}

func TestMoveCardValidation(t *testing.T) {
	ctx := context.Background()
	backend := setupBackend(t)
	board := makeBoard(t, backend, "Main")
	other := makeBoard(t, backend, "Other")
	colA := makeColumn(t, backend, board.ID, "A")
	colB := makeColumn(t, backend, board.ID, "B")
	foreign := makeColumn(t, backend, other.ID, "Foreign")
	card := makeCard(t, backend, board.ID, colA.ID, "card")

	t.Run("unknown card", func(t *testing.T) {
		err := backend.MoveCard(ctx, "missing", board.ID, colA.ID, colB.ID, 0)
		require.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("wrong board", func(t *testing.T) {
		err := backend.MoveCard(ctx, card.ID, other.ID, colA.ID, colB.ID, 0)
		require.ErrorIs(t, err, types.ErrOwnership)
	})

	t.Run("stale source column", func(t *testing.T) {
		err := backend.MoveCard(ctx, card.ID, board.ID, colB.ID, colA.ID, 0)
		require.ErrorIs(t, err, types.ErrOwnership)
	})

	t.Run("unknown destination column", func(t *testing.T) {
		err := backend.MoveCard(ctx, card.ID, board.ID, colA.ID, "missing", 0)
		require.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("destination on another board", func(t *testing.T) {
		err := backend.MoveCard(ctx, card.ID, board.ID, colA.ID, foreign.ID, 0)
		require.ErrorIs(t, err, types.ErrScopeMismatch)
	})

	t.Run("failed move leaves order untouched", func(t *testing.T) {
		before := cardsInColumn(t, backend, board.ID, colA.ID)
		err := backend.MoveCard(ctx, card.ID, board.ID, colA.ID, foreign.ID, 0)
		require.Error(t, err)
		after := cardsInColumn(t, backend, board.ID, colA.ID)
		if diff := cmp.Diff(cardTitles(before), cardTitles(after)); diff != "" {
			t.Fatalf("order changed (-before +after):\n%s", diff)
		}
	})
}

func TestRenumberIdempotent(t *testing.T) {
	ctx := context.Background()
	backend := setupBackend(t)
	board := makeBoard(t, backend, "Renumber")
	col := makeColumn(t, backend, board.ID, "Only")
	makeCard(t, backend, board.ID, col.ID, "a")
	makeCard(t, backend, board.ID, col.ID, "b")
	makeCard(t, backend, board.ID, col.ID, "c")

	snapshot := func() []types.Card { return cardsInColumn(t, backend, board.ID, col.ID) }

	require.NoError(t, backend.withTx(ctx, func(tx *sql.Tx) error {
		return cardOrdering.renumber(ctx, tx, col.ID)
	}))
	first := snapshot()

	require.NoError(t, backend.withTx(ctx, func(tx *sql.Tx) error {
		return cardOrdering.renumber(ctx, tx, col.ID)
	}))
	second := snapshot()

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("renumber not idempotent (-first +second):\n%s", diff)
	}
	requireDense(t, cardPositions(second))
}

func TestColumnOrderWithinBoard(t *testing.T) {
	ctx := context.Background()
	backend := setupBackend(t)
	board := makeBoard(t, backend, "Columns")

	first := makeColumn(t, backend, board.ID, "first")
	makeColumn(t, backend, board.ID, "second")
	third := makeColumn(t, backend, board.ID, "third")

	titles := func() []string {
		cols, err := backend.ListColumns(ctx, board.ID)
		require.NoError(t, err)
		out := make([]string, len(cols))
		for i, c := range cols {
			out[i] = c.Title
		}
		return out
	}

	require.NoError(t, backend.MoveColumn(ctx, third.ID, board.ID, 0))
	assert.Equal(t, []string{"third", "first", "second"}, titles())

	require.NoError(t, backend.MoveColumn(ctx, first.ID, board.ID, 99))
	assert.Equal(t, []string{"third", "second", "first"}, titles())

	cols, err := backend.ListColumns(ctx, board.ID)
	require.NoError(t, err)
	positions := make([]int, len(cols))
	for i, c := range cols {
		positions[i] = c.Position
	}
	requireDense(t, positions)
}

func TestCreateAtOccupiedPosition(t *testing.T) {
	ctx := context.Background()
	backend := setupBackend(t)
	board := makeBoard(t, backend, "Strict")
	col := makeColumn(t, backend, board.ID, "Lane")
	makeCard(t, backend, board.ID, col.ID, "holder")

	zero := 0
	_, err := backend.CreateCard(ctx, types.CreateCardParams{
		BoardID:  board.ID,
		ColumnID: col.ID,
		Title:    "intruder",
		Position: &zero,
	})
	require.ErrorIs(t, err, types.ErrPositionTaken)

	// The append slot is always free.
	one := 1
	card, err := backend.CreateCard(ctx, types.CreateCardParams{
		BoardID:  board.ID,
		ColumnID: col.ID,
		Title:    "appended",
		Position: &one,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, card.Position)

	colTwo := 0
	_, err = backend.CreateColumn(ctx, types.CreateColumnParams{
		BoardID:  board.ID,
		Title:    "clash",
		Position: &colTwo,
	})
	require.ErrorIs(t, err, types.ErrPositionTaken)
}

func TestSubtaskShiftInsertAndReorder(t *testing.T) {
	ctx := context.Background()
	backend := setupBackend(t)
	board := makeBoard(t, backend, "Subtasks")
	col := makeColumn(t, backend, board.ID, "Lane")
	card := makeCard(t, backend, board.ID, col.ID, "host")

	mk := func(title string, pos *int) *types.Subtask {
		st, err := backend.CreateSubtask(ctx, types.CreateSubtaskParams{
			BoardID:  board.ID,
			CardID:   card.ID,
			Title:    title,
			Position: pos,
		})
		require.NoError(t, err)
		return st
	}
	titles := func() []string {
		got, err := backend.GetCard(ctx, card.ID)
		require.NoError(t, err)
		out := make([]string, len(got.Subtasks))
		for i, st := range got.Subtasks {
			out[i] = st.Title
		}
		return out
	}

	mk("one", nil)
	mk("two", nil)
	zero := 0
	mk("zeroth", &zero)
	assert.Equal(t, []string{"zeroth", "one", "two"}, titles())

	// Reorder through a patch.
	got, err := backend.GetCard(ctx, card.ID)
	require.NoError(t, err)
	last := got.Subtasks[2]
	front := 0
	_, err = backend.UpdateSubtask(ctx, last.ID, card.ID, types.SubtaskPatch{Position: &front})
	require.NoError(t, err)
	assert.Equal(t, []string{"two", "zeroth", "one"}, titles())

	// Delete renumbers the remainder.
	require.NoError(t, backend.DeleteSubtask(ctx, last.ID, card.ID))
	assert.Equal(t, []string{"zeroth", "one"}, titles())

	final, err := backend.GetCard(ctx, card.ID)
	require.NoError(t, err)
	positions := make([]int, len(final.Subtasks))
	for i, st := range final.Subtasks {
		positions[i] = st.Position
	}
	requireDense(t, positions)
}
