package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/modulo/pkg/types"
)

const subtaskFields = `id, board_id, card_id, title, is_completed, position, created_at, updated_at`

func hydrateSubtask(s scanner) (*types.Subtask, error) {
	var st types.Subtask
	err := s.Scan(&st.ID, &st.BoardID, &st.CardID, &st.Title,
		&st.IsCompleted, &st.Position, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// listSubtasks returns a card's subtasks in position order. Always a
// non-nil slice so card payloads serialize with an array.
func listSubtasks(ctx context.Context, q querier, cardID string) ([]types.Subtask, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+subtaskFields+` FROM kanban_subtasks
		 WHERE card_id = ?
		 ORDER BY position ASC, created_at ASC`, cardID)
	if err != nil {
		return nil, fmt.Errorf("listing subtasks: %w", err)
	}
	defer rows.Close()

	out := []types.Subtask{}
	for rows.Next() {
		st, err := hydrateSubtask(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning subtask: %w", err)
		}
		out = append(out, *st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing subtasks: %w", err)
	}
	return out, nil
}

func getSubtask(ctx context.Context, q querier, id string) (*types.Subtask, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+subtaskFields+` FROM kanban_subtasks WHERE id = ?`, id)
	st, err := hydrateSubtask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("subtask %s: %w", id, types.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting subtask %s: %w", id, err)
	}
	return st, nil
}

// assertSubtaskBelongs verifies the subtask's stored card. ErrNotFound when
// the subtask does not exist, ErrOwnership when the card differs.
func assertSubtaskBelongs(ctx context.Context, q querier, id, cardID string) error {
	var stored string
	err := q.QueryRowContext(ctx,
		`SELECT card_id FROM kanban_subtasks WHERE id = ?`, id).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("subtask %s: %w", id, types.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("checking subtask %s: %w", id, err)
	}
	if stored != cardID {
		return fmt.Errorf("subtask %s not on card %s: %w", id, cardID, types.ErrOwnership)
	}
	return nil
}

// CreateSubtask inserts a checklist entry. A requested position shifts the
// entries at and after it up one place; no position appends.
func (b *Backend) CreateSubtask(ctx context.Context, params types.CreateSubtaskParams) (*types.Subtask, error) {
	title, err := types.NormalizeTitle(params.Title, types.MaxTitleLen)
	if err != nil {
		return nil, err
	}
	id := params.ID
	if id == "" {
		id = newID()
	}

	err = b.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := assertCardBelongs(ctx, tx, params.CardID, params.BoardID); err != nil {
			return err
		}
		idx, err := subtaskOrdering.insertIndexShift(ctx, tx, params.CardID, params.Position)
		if err != nil {
			return err
		}
		stamp := nowStamp()
		_, err = tx.ExecContext(ctx,
			`INSERT INTO kanban_subtasks (id, board_id, card_id, title, is_completed, position, created_at, updated_at)
			 VALUES (?, ?, ?, ?, 0, ?, ?, ?)`,
			id, params.BoardID, params.CardID, title, idx, stamp, stamp)
		if err != nil {
			return fmt.Errorf("creating subtask: %w", err)
		}
		return subtaskOrdering.renumber(ctx, tx, params.CardID)
	})
	if err != nil {
		return nil, err
	}

	db, err := b.conn()
	if err != nil {
		return nil, err
	}
	return getSubtask(ctx, db, id)
}

// UpdateSubtask applies the non-nil patch fields. A Position moves the
// subtask within its card through the ordering protocol, in the same
// transaction as the field updates.
func (b *Backend) UpdateSubtask(ctx context.Context, id, cardID string, patch types.SubtaskPatch) (*types.Subtask, error) {
	var title string
	if patch.Title != nil {
		normalized, err := types.NormalizeTitle(*patch.Title, types.MaxTitleLen)
		if err != nil {
			return nil, err
		}
		title = normalized
	}

	err := b.withTx(ctx, func(tx *sql.Tx) error {
		if err := assertSubtaskBelongs(ctx, tx, id, cardID); err != nil {
			return err
		}
		u := newUpdate("kanban_subtasks")
		if patch.Title != nil {
			u.Set("title", title)
		}
		if patch.IsCompleted != nil {
			u.Set("is_completed", boolToInt(*patch.IsCompleted))
		}
		if !u.Empty() {
			u.Set("updated_at", nowStamp())
			if _, err := u.Exec(ctx, tx, "id = ? AND card_id = ?", id, cardID); err != nil {
				return err
			}
		}
		if patch.Position != nil {
			return subtaskOrdering.move(ctx, tx, id, cardID, cardID, *patch.Position)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	db, err := b.conn()
	if err != nil {
		return nil, err
	}
	return getSubtask(ctx, db, id)
}

// DeleteSubtask removes the entry and renumbers the card's checklist.
func (b *Backend) DeleteSubtask(ctx context.Context, id, cardID string) error {
	return b.withTx(ctx, func(tx *sql.Tx) error {
		if err := assertSubtaskBelongs(ctx, tx, id, cardID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM kanban_subtasks WHERE id = ?`, id); err != nil {
			return fmt.Errorf("deleting subtask %s: %w", id, err)
		}
		return subtaskOrdering.renumber(ctx, tx, cardID)
	})
}
