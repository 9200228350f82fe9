package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/modulo/pkg/types"
)

func stamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

func TestTaskStats(t *testing.T) {
	ctx := context.Background()
	backend := setupBackend(t)
	board := makeBoard(t, backend, "Stats")
	todo := makeColumn(t, backend, board.ID, "To do")
	done := makeColumn(t, backend, board.ID, "Done")

	makeCard(t, backend, board.ID, todo.ID, "open one")
	overdue := time.Now().Add(-48 * time.Hour)
	_, err := backend.CreateCard(ctx, types.CreateCardParams{
		BoardID:  board.ID,
		ColumnID: todo.ID,
		Title:    "late",
		DueDate:  str(stamp(overdue)),
	})
	require.NoError(t, err)
	// A past due date in a done column does not count as overdue.
	_, err = backend.CreateCard(ctx, types.CreateCardParams{
		BoardID:  board.ID,
		ColumnID: done.ID,
		Title:    "finished late",
		DueDate:  str(stamp(overdue)),
	})
	require.NoError(t, err)

	stats, err := backend.TaskStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 2, stats.Pending)
	assert.Equal(t, 1, stats.Overdue)
}

func TestRecentActivity(t *testing.T) {
	ctx := context.Background()
	backend := setupBackend(t)
	board := makeBoard(t, backend, "Feed")
	col := makeColumn(t, backend, board.ID, "Lane")
	time.Sleep(5 * time.Millisecond)
	card := makeCard(t, backend, board.ID, col.ID, "tracked")
	time.Sleep(5 * time.Millisecond)
	_, err := backend.UpdateCard(ctx, card.ID, board.ID, types.CardPatch{
		Title: str("tracked, renamed"),
	})
	require.NoError(t, err)

	feed, err := backend.RecentActivity(ctx, 0)
	require.NoError(t, err)
	require.NotEmpty(t, feed)

	seen := map[string]bool{}
	for _, a := range feed {
		seen[a.Type] = true
		assert.Equal(t, a.Type+"-"+a.EntityID, a.ID)
		assert.Equal(t, board.Title, a.BoardName)
	}
	assert.True(t, seen[types.ActivityBoardCreated])
	assert.True(t, seen[types.ActivityCardCreated])
	assert.True(t, seen[types.ActivityCardUpdated])

	for i := 1; i < len(feed); i++ {
		assert.GreaterOrEqual(t, feed[i-1].Timestamp, feed[i].Timestamp)
	}
	assert.Equal(t, types.ActivityCardUpdated, feed[0].Type)

	limited, err := backend.RecentActivity(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestFavoriteBoards(t *testing.T) {
	ctx := context.Background()
	backend := setupBackend(t)
	board := makeBoard(t, backend, "Starred")
	makeBoard(t, backend, "Plain")
	col := makeColumn(t, backend, board.ID, "Lane")
	makeCard(t, backend, board.ID, col.ID, "active")
	archived := makeCard(t, backend, board.ID, col.ID, "archived")
	_, err := backend.UpdateCard(ctx, archived.ID, board.ID, types.CardPatch{Archived: boolPtr(true)})
	require.NoError(t, err)

	favorites, err := backend.FavoriteBoards(ctx)
	require.NoError(t, err)
	assert.Empty(t, favorites)

	_, err = backend.UpdateBoard(ctx, board.ID, types.BoardPatch{IsFavorite: boolPtr(true)})
	require.NoError(t, err)

	favorites, err = backend.FavoriteBoards(ctx)
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, board.ID, favorites[0].ID)
	assert.Equal(t, 2, favorites[0].TotalCards)
	assert.Equal(t, 1, favorites[0].ActiveCards)
}

func TestUpcomingDeadlines(t *testing.T) {
	ctx := context.Background()
	backend := setupBackend(t)
	board := makeBoard(t, backend, "Due")
	col := makeColumn(t, backend, board.ID, "Lane")

	mkDue := func(title string, due time.Time) *types.Card {
		card, err := backend.CreateCard(ctx, types.CreateCardParams{
			BoardID:  board.ID,
			ColumnID: col.ID,
			Title:    title,
			DueDate:  str(stamp(due)),
		})
		require.NoError(t, err)
		return card
	}
	now := time.Now()
	soon := mkDue("soon", now.Add(36*time.Hour))
	late := mkDue("late", now.Add(-48*time.Hour))
	mkDue("distant", now.Add(30*24*time.Hour))
	makeCard(t, backend, board.ID, col.ID, "undated")

	deadlines, err := backend.UpcomingDeadlines(ctx, 0)
	require.NoError(t, err)
	require.Len(t, deadlines, 2)

	// Soonest first: the overdue card precedes the upcoming one.
	assert.Equal(t, late.ID, deadlines[0].ID)
	assert.True(t, deadlines[0].IsOverdue)
	assert.LessOrEqual(t, deadlines[0].DaysUntil, 0)
	assert.Equal(t, board.Title, deadlines[0].BoardName)

	assert.Equal(t, soon.ID, deadlines[1].ID)
	assert.False(t, deadlines[1].IsOverdue)
	assert.Equal(t, 1, deadlines[1].DaysUntil)

	wide, err := backend.UpcomingDeadlines(ctx, 60)
	require.NoError(t, err)
	assert.Len(t, wide, 3)
}
