package sqlite

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/sync/errgroup"

	"github.com/mesh-intelligence/modulo/pkg/types"
)

// Per-type result caps, matching what the shell's palette can display.
const (
	searchBoardLimit = 20
	searchCardLimit  = 50
	searchNoteLimit  = 30
)

// noteSnippetLen caps the content excerpt attached to note hits.
const noteSnippetLen = 160

// Search runs a substring search across boards, cards, and notes. The
// three queries fan out concurrently; hits are re-ranked by fuzzy distance
// to the query, with title matches ahead of description-only matches.
func (b *Backend) Search(ctx context.Context, query string) ([]types.SearchResult, error) {
	db, err := b.conn()
	if err != nil {
		return nil, err
	}
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return []types.SearchResult{}, nil
	}
	pattern := "%" + trimmed + "%"

	var boards, cards, notes []types.SearchResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		boards, err = searchBoards(gctx, db, pattern)
		return err
	})
	g.Go(func() error {
		var err error
		cards, err = searchCards(gctx, db, pattern)
		return err
	})
	g.Go(func() error {
		var err error
		notes, err = searchNotes(gctx, db, pattern)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]types.SearchResult, 0, len(boards)+len(cards)+len(notes))
	out = append(out, boards...)
	out = append(out, cards...)
	out = append(out, notes...)
	rankResults(trimmed, out)
	return out, nil
}

// rankResults sorts hits by fuzzy distance between the query and the
// title. Non-matching titles sink to the end in their query order.
func rankResults(query string, results []types.SearchResult) {
	type ranked struct {
		result   types.SearchResult
		distance int
	}
	rs := make([]ranked, len(results))
	for i, r := range results {
		rs[i] = ranked{result: r, distance: fuzzy.RankMatchNormalizedFold(query, r.Title)}
	}
	sort.SliceStable(rs, func(i, j int) bool {
		di, dj := rs[i].distance, rs[j].distance
		if (di == -1) != (dj == -1) {
			return di != -1
		}
		if di == -1 {
			return false
		}
		return di < dj
	})
	for i := range rs {
		results[i] = rs[i].result
	}
}

func searchBoards(ctx context.Context, q querier, pattern string) ([]types.SearchResult, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, title, description FROM kanban_boards
		 WHERE archived_at IS NULL AND (title LIKE ? OR description LIKE ?)
		 ORDER BY title COLLATE NOCASE ASC
		 LIMIT ?`, pattern, pattern, searchBoardLimit)
	if err != nil {
		return nil, fmt.Errorf("searching boards: %w", err)
	}
	defer rows.Close()

	var out []types.SearchResult
	for rows.Next() {
		r := types.SearchResult{Type: types.SearchTypeBoard}
		if err := rows.Scan(&r.ID, &r.Title, &r.Description); err != nil {
			return nil, fmt.Errorf("scanning board hit: %w", err)
		}
		r.BoardID = r.ID
		r.BoardName = r.Title
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("searching boards: %w", err)
	}
	return out, nil
}

func searchCards(ctx context.Context, q querier, pattern string) ([]types.SearchResult, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT ca.id, ca.title, ca.description, ca.board_id, bo.title
		 FROM kanban_cards ca
		 JOIN kanban_boards bo ON bo.id = ca.board_id
		 WHERE ca.archived_at IS NULL AND (ca.title LIKE ? OR ca.description LIKE ?)
		 ORDER BY ca.updated_at DESC
		 LIMIT ?`, pattern, pattern, searchCardLimit)
	if err != nil {
		return nil, fmt.Errorf("searching cards: %w", err)
	}
	defer rows.Close()

	var out []types.SearchResult
	for rows.Next() {
		r := types.SearchResult{Type: types.SearchTypeCard}
		if err := rows.Scan(&r.ID, &r.Title, &r.Description, &r.BoardID, &r.BoardName); err != nil {
			return nil, fmt.Errorf("scanning card hit: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("searching cards: %w", err)
	}
	return out, nil
}

func searchNotes(ctx context.Context, q querier, pattern string) ([]types.SearchResult, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT n.id, n.title, n.content, n.board_id, bo.title
		 FROM notes n
		 JOIN kanban_boards bo ON bo.id = n.board_id
		 WHERE n.archived_at IS NULL AND (n.title LIKE ? OR n.content LIKE ?)
		 ORDER BY n.updated_at DESC
		 LIMIT ?`, pattern, pattern, searchNoteLimit)
	if err != nil {
		return nil, fmt.Errorf("searching notes: %w", err)
	}
	defer rows.Close()

	var out []types.SearchResult
	for rows.Next() {
		r := types.SearchResult{Type: types.SearchTypeNote}
		var content string
		if err := rows.Scan(&r.ID, &r.Title, &content, &r.BoardID, &r.BoardName); err != nil {
			return nil, fmt.Errorf("scanning note hit: %w", err)
		}
		if snippet := noteSnippet(content); snippet != "" {
			r.Description = &snippet
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("searching notes: %w", err)
	}
	return out, nil
}

// noteSnippet trims note content to a short excerpt on a rune boundary.
func noteSnippet(content string) string {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return ""
	}
	runes := []rune(trimmed)
	if len(runes) <= noteSnippetLen {
		return trimmed
	}
	return string(runes[:noteSnippetLen])
}
