package sqlite

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/modulo/pkg/types"
)

// orderedSet describes one position-ordered table: which table holds the
// members and which column names the owning scope. Columns are ordered
// within a board, cards within a column, subtasks within a card.
type orderedSet struct {
	table       string
	scopeColumn string
}

var (
	columnOrdering  = orderedSet{table: "kanban_columns", scopeColumn: "board_id"}
	cardOrdering    = orderedSet{table: "kanban_cards", scopeColumn: "column_id"}
	subtaskOrdering = orderedSet{table: "kanban_subtasks", scopeColumn: "card_id"}
)

// orderedRow is one member of a scope with its stored position.
type orderedRow struct {
	id       string
	position int
}

// clampIndex constrains a requested index to [0, n]. n itself is legal:
// it is the append slot.
func clampIndex(idx, n int) int {
	if idx < 0 {
		return 0
	}
	if idx > n {
		return n
	}
	return idx
}

// insertAt returns ids with id spliced in at idx. idx must already be
// clamped to [0, len(ids)].
func insertAt(ids []string, id string, idx int) []string {
	out := make([]string, 0, len(ids)+1)
	out = append(out, ids[:idx]...)
	out = append(out, id)
	out = append(out, ids[idx:]...)
	return out
}

// members returns the scope's rows ordered by (position ASC, created_at
// ASC). Creation time breaks ties deterministically if positions are ever
// duplicated.
func (s orderedSet) members(ctx context.Context, q querier, scopeID string) ([]orderedRow, error) {
	query := fmt.Sprintf(
		`SELECT id, position FROM %s WHERE %s = ? ORDER BY position ASC, created_at ASC`,
		s.table, s.scopeColumn,
	)
	rows, err := q.QueryContext(ctx, query, scopeID)
	if err != nil {
		return nil, fmt.Errorf("listing %s order: %w", s.table, err)
	}
	defer rows.Close()

	var out []orderedRow
	for rows.Next() {
		var r orderedRow
		if err := rows.Scan(&r.id, &r.position); err != nil {
			return nil, fmt.Errorf("scanning %s order: %w", s.table, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading %s order: %w", s.table, err)
	}
	return out, nil
}

// count reports how many members the scope currently has.
func (s orderedSet) count(ctx context.Context, q querier, scopeID string) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = ?`, s.table, s.scopeColumn)
	var n int
	if err := q.QueryRowContext(ctx, query, scopeID).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting %s members: %w", s.table, err)
	}
	return n, nil
}

// positionTaken reports whether a live member of the scope already sits at
// the given position.
func (s orderedSet) positionTaken(ctx context.Context, q querier, scopeID string, position int) (bool, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = ? AND position = ?`, s.table, s.scopeColumn)
	var n int
	if err := q.QueryRowContext(ctx, query, scopeID, position).Scan(&n); err != nil {
		return false, fmt.Errorf("checking %s position: %w", s.table, err)
	}
	return n > 0, nil
}

// persistOrder writes position=index for every id whose stored position
// differs from its index in seq. Rows already in place are not touched, so
// their modification timestamps survive a renumbering pass.
func (s orderedSet) persistOrder(ctx context.Context, q querier, seq []string, current map[string]int) error {
	query := fmt.Sprintf(`UPDATE %s SET position = ?, updated_at = ? WHERE id = ?`, s.table)
	stamp := nowStamp()
	for idx, id := range seq {
		if pos, ok := current[id]; ok && pos == idx {
			continue
		}
		if _, err := q.ExecContext(ctx, query, idx, stamp, id); err != nil {
			return fmt.Errorf("setting %s position: %w", s.table, err)
		}
	}
	return nil
}

// renumber restores the dense 0..n-1 position sequence for one scope.
// Idempotent: a second call in a row writes nothing.
func (s orderedSet) renumber(ctx context.Context, q querier, scopeID string) error {
	rows, err := s.members(ctx, q, scopeID)
	if err != nil {
		return err
	}
	seq := make([]string, len(rows))
	current := make(map[string]int, len(rows))
	for i, r := range rows {
		seq[i] = r.id
		current[r.id] = r.position
	}
	return s.persistOrder(ctx, q, seq, current)
}

// move relocates itemID to targetIndex, either within sourceScopeID or
// into destScopeID. The caller has already validated ownership and runs
// this inside one transaction; any error aborts the whole move.
func (s orderedSet) move(ctx context.Context, q querier, itemID, sourceScopeID, destScopeID string, targetIndex int) error {
	src, err := s.members(ctx, q, sourceScopeID)
	if err != nil {
		return err
	}
	current := make(map[string]int, len(src))
	reduced := make([]string, 0, len(src))
	found := false
	for _, r := range src {
		current[r.id] = r.position
		if r.id == itemID {
			found = true
			continue
		}
		reduced = append(reduced, r.id)
	}
	if !found {
		return types.ErrNotFound
	}

	if sourceScopeID == destScopeID {
		idx := clampIndex(targetIndex, len(reduced))
		return s.persistOrder(ctx, q, insertAt(reduced, itemID, idx), current)
	}

	dest, err := s.members(ctx, q, destScopeID)
	if err != nil {
		return err
	}
	destIDs := make([]string, len(dest))
	destCurrent := make(map[string]int, len(dest))
	for i, r := range dest {
		destIDs[i] = r.id
		destCurrent[r.id] = r.position
	}
	idx := clampIndex(targetIndex, len(dest))

	// Close the gap on the source side before the item switches parents.
	if err := s.persistOrder(ctx, q, reduced, current); err != nil {
		return err
	}
	reparent := fmt.Sprintf(`UPDATE %s SET %s = ?, updated_at = ? WHERE id = ?`, s.table, s.scopeColumn)
	if _, err := q.ExecContext(ctx, reparent, destScopeID, nowStamp(), itemID); err != nil {
		return fmt.Errorf("reparenting %s row: %w", s.table, err)
	}
	return s.persistOrder(ctx, q, insertAt(destIDs, itemID, idx), destCurrent)
}

// insertIndexStrict resolves the position for a new member when occupied
// slots are rejected rather than shifted. A nil request appends. An
// explicit request is clamped to [0, n] and fails with ErrPositionTaken
// if a live member already holds that slot.
func (s orderedSet) insertIndexStrict(ctx context.Context, q querier, scopeID string, requested *int) (int, error) {
	n, err := s.count(ctx, q, scopeID)
	if err != nil {
		return 0, err
	}
	if requested == nil {
		return n, nil
	}
	idx := clampIndex(*requested, n)
	taken, err := s.positionTaken(ctx, q, scopeID, idx)
	if err != nil {
		return 0, err
	}
	if taken {
		return 0, fmt.Errorf("position %d in %s: %w", idx, s.scopeColumn, types.ErrPositionTaken)
	}
	return idx, nil
}

// insertIndexShift resolves the position for a new member by shifting the
// clamped slot and everything after it up one place. The caller inserts
// at the returned index and renumbers afterwards.
func (s orderedSet) insertIndexShift(ctx context.Context, q querier, scopeID string, requested *int) (int, error) {
	n, err := s.count(ctx, q, scopeID)
	if err != nil {
		return 0, err
	}
	if requested == nil {
		return n, nil
	}
	idx := clampIndex(*requested, n)
	if idx < n {
		shift := fmt.Sprintf(
			`UPDATE %s SET position = position + 1, updated_at = ? WHERE %s = ? AND position >= ?`,
			s.table, s.scopeColumn,
		)
		if _, err := q.ExecContext(ctx, shift, nowStamp(), scopeID, idx); err != nil {
			return 0, fmt.Errorf("shifting %s members: %w", s.table, err)
		}
	}
	return idx, nil
}
