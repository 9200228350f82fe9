package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/modulo/pkg/types"
)

const tagFields = `id, board_id, label, color, created_at, updated_at`

func hydrateTag(s scanner) (*types.Tag, error) {
	var t types.Tag
	err := s.Scan(&t.ID, &t.BoardID, &t.Label, &t.Color, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTags returns the board's tags sorted by label, case-insensitive.
func (b *Backend) ListTags(ctx context.Context, boardID string) ([]types.Tag, error) {
	db, err := b.conn()
	if err != nil {
		return nil, err
	}
	return listTags(ctx, db, boardID)
}

func listTags(ctx context.Context, q querier, boardID string) ([]types.Tag, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+tagFields+` FROM kanban_tags
		 WHERE board_id = ?
		 ORDER BY label COLLATE NOCASE ASC`, boardID)
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer rows.Close()

	out := []types.Tag{}
	for rows.Next() {
		t, err := hydrateTag(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning tag: %w", err)
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	return out, nil
}

// listCardTags returns a card's tags sorted by label. Always a non-nil
// slice so card payloads serialize with an array.
func listCardTags(ctx context.Context, q querier, cardID string) ([]types.Tag, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT t.id, t.board_id, t.label, t.color, t.created_at, t.updated_at
		 FROM kanban_card_tags ct
		 JOIN kanban_tags t ON t.id = ct.tag_id
		 WHERE ct.card_id = ?
		 ORDER BY t.label COLLATE NOCASE ASC`, cardID)
	if err != nil {
		return nil, fmt.Errorf("listing card tags: %w", err)
	}
	defer rows.Close()

	out := []types.Tag{}
	for rows.Next() {
		t, err := hydrateTag(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning card tag: %w", err)
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing card tags: %w", err)
	}
	return out, nil
}

func getTag(ctx context.Context, q querier, id string) (*types.Tag, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+tagFields+` FROM kanban_tags WHERE id = ?`, id)
	t, err := hydrateTag(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("tag %s: %w", id, types.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting tag %s: %w", id, err)
	}
	return t, nil
}

// labelTaken reports whether another tag on the board already uses the
// label. excludeID skips the tag being updated.
func labelTaken(ctx context.Context, q querier, boardID, label, excludeID string) (bool, error) {
	var n int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM kanban_tags WHERE board_id = ? AND label = ? AND id != ?`,
		boardID, label, excludeID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking tag label: %w", err)
	}
	return n > 0, nil
}

// CreateTag inserts a board-scoped label. Duplicate labels on the same
// board are rejected.
func (b *Backend) CreateTag(ctx context.Context, params types.CreateTagParams) (*types.Tag, error) {
	db, err := b.conn()
	if err != nil {
		return nil, err
	}
	label, err := types.NormalizeTitle(params.Label, types.MaxTagLabel)
	if err != nil {
		return nil, err
	}
	color, err := types.NormalizeRequiredColor(params.Color)
	if err != nil {
		return nil, err
	}
	if err := boardExists(ctx, db, params.BoardID); err != nil {
		return nil, err
	}
	taken, err := labelTaken(ctx, db, params.BoardID, label, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("tag %q on board %s: %w", label, params.BoardID, types.ErrDuplicateLabel)
	}
	id := params.ID
	if id == "" {
		id = newID()
	}
	stamp := nowStamp()
	_, err = db.ExecContext(ctx,
		`INSERT INTO kanban_tags (id, board_id, label, color, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, params.BoardID, label, color, stamp, stamp)
	if err != nil {
		return nil, fmt.Errorf("creating tag: %w", err)
	}
	return getTag(ctx, db, id)
}

// UpdateTag applies the non-nil patch fields, scoped to the board. An
// empty patch is an existence check.
func (b *Backend) UpdateTag(ctx context.Context, id, boardID string, patch types.TagPatch) (*types.Tag, error) {
	db, err := b.conn()
	if err != nil {
		return nil, err
	}
	u := newUpdate("kanban_tags")
	if patch.Label != nil {
		label, err := types.NormalizeTitle(*patch.Label, types.MaxTagLabel)
		if err != nil {
			return nil, err
		}
		taken, err := labelTaken(ctx, db, boardID, label, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("tag %q on board %s: %w", label, boardID, types.ErrDuplicateLabel)
		}
		u.Set("label", label)
	}
	if patch.Color != nil {
		color, err := types.NormalizeRequiredColor(*patch.Color)
		if err != nil {
			return nil, err
		}
		u.Set("color", color)
	}
	if u.Empty() {
		t, err := getTag(ctx, db, id)
		if err != nil {
			return nil, err
		}
		if t.BoardID != boardID {
			return nil, fmt.Errorf("tag %s not on board %s: %w", id, boardID, types.ErrOwnership)
		}
		return t, nil
	}
	u.Set("updated_at", nowStamp())
	n, err := u.Exec(ctx, db, "id = ? AND board_id = ?", id, boardID)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("tag %s on board %s: %w", id, boardID, types.ErrNotFound)
	}
	return getTag(ctx, db, id)
}

// DeleteTag removes the tag and its card links in one transaction.
func (b *Backend) DeleteTag(ctx context.Context, id, boardID string) error {
	return b.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM kanban_card_tags WHERE tag_id = ?`, id); err != nil {
			return fmt.Errorf("deleting tag links: %w", err)
		}
		res, err := tx.ExecContext(ctx,
			`DELETE FROM kanban_tags WHERE id = ? AND board_id = ?`, id, boardID)
		if err != nil {
			return fmt.Errorf("deleting tag %s: %w", id, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("deleting tag %s: %w", id, err)
		}
		if n == 0 {
			return fmt.Errorf("tag %s on board %s: %w", id, boardID, types.ErrNotFound)
		}
		return nil
	})
}

// SetCardTags replaces the card's tag set in one transaction. Every tag
// must belong to the card's board. Returns the new set and bumps the
// card's modification stamp.
func (b *Backend) SetCardTags(ctx context.Context, cardID, boardID string, tagIDs []string) ([]types.Tag, error) {
	var out []types.Tag
	err := b.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := assertCardBelongs(ctx, tx, cardID, boardID); err != nil {
			return err
		}
		for _, tagID := range tagIDs {
			var stored string
			err := tx.QueryRowContext(ctx,
				`SELECT board_id FROM kanban_tags WHERE id = ?`, tagID).Scan(&stored)
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("tag %s: %w", tagID, types.ErrNotFound)
			}
			if err != nil {
				return fmt.Errorf("checking tag %s: %w", tagID, err)
			}
			if stored != boardID {
				return fmt.Errorf("tag %s not on board %s: %w", tagID, boardID, types.ErrOwnership)
			}
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM kanban_card_tags WHERE card_id = ?`, cardID); err != nil {
			return fmt.Errorf("clearing card tags: %w", err)
		}
		for _, tagID := range tagIDs {
			_, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO kanban_card_tags (card_id, tag_id) VALUES (?, ?)`,
				cardID, tagID)
			if err != nil {
				return fmt.Errorf("linking tag %s: %w", tagID, err)
			}
		}
		_, err := tx.ExecContext(ctx,
			`UPDATE kanban_cards SET updated_at = ? WHERE id = ?`, nowStamp(), cardID)
		if err != nil {
			return fmt.Errorf("stamping card %s: %w", cardID, err)
		}
		tags, err := listCardTags(ctx, tx, cardID)
		if err != nil {
			return err
		}
		out = tags
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
