package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/modulo/pkg/types"
)

// columnFields coalesces a NULL icon to the default so cleared icons
// hydrate the same way board icons do.
const columnFields = `id, board_id, title, position, color, COALESCE(icon, 'Circle') AS icon, is_enabled, wip_limit, created_at, updated_at`

func hydrateColumn(s scanner) (*types.Column, error) {
	var c types.Column
	err := s.Scan(&c.ID, &c.BoardID, &c.Title, &c.Position, &c.Color, &c.Icon,
		&c.IsEnabled, &c.WIPLimit, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListColumns returns the board's columns in position order.
func (b *Backend) ListColumns(ctx context.Context, boardID string) ([]types.Column, error) {
	db, err := b.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx,
		`SELECT `+columnFields+` FROM kanban_columns
		 WHERE board_id = ?
		 ORDER BY position ASC, created_at ASC`, boardID)
	if err != nil {
		return nil, fmt.Errorf("listing columns: %w", err)
	}
	defer rows.Close()

	out := []types.Column{}
	for rows.Next() {
		c, err := hydrateColumn(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning column: %w", err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing columns: %w", err)
	}
	return out, nil
}

func getColumn(ctx context.Context, q querier, id string) (*types.Column, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+columnFields+` FROM kanban_columns WHERE id = ?`, id)
	c, err := hydrateColumn(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("column %s: %w", id, types.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting column %s: %w", id, err)
	}
	return c, nil
}

// assertColumnBelongs verifies the column's stored board. ErrNotFound when
// the column does not exist, ErrOwnership when the board differs.
func assertColumnBelongs(ctx context.Context, q querier, id, boardID string) error {
	var stored string
	err := q.QueryRowContext(ctx,
		`SELECT board_id FROM kanban_columns WHERE id = ?`, id).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("column %s: %w", id, types.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("checking column %s: %w", id, err)
	}
	if stored != boardID {
		return fmt.Errorf("column %s not on board %s: %w", id, boardID, types.ErrOwnership)
	}
	return nil
}

// CreateColumn inserts a column at the requested position, or appends when
// none is given. The board scope is renumbered before commit.
func (b *Backend) CreateColumn(ctx context.Context, params types.CreateColumnParams) (*types.Column, error) {
	title, err := types.NormalizeTitle(params.Title, types.MaxTitleLen)
	if err != nil {
		return nil, err
	}
	color, err := types.NormalizeColor(params.Color)
	if err != nil {
		return nil, err
	}
	icon, err := types.NormalizeColumnIcon(params.Icon)
	if err != nil {
		return nil, err
	}
	var wipLimit *int
	if params.WIPLimit != nil && *params.WIPLimit > 0 {
		wipLimit = params.WIPLimit
	}
	id := params.ID
	if id == "" {
		id = newID()
	}

	err = b.withTx(ctx, func(tx *sql.Tx) error {
		if err := boardExists(ctx, tx, params.BoardID); err != nil {
			return err
		}
		idx, err := columnOrdering.insertIndexStrict(ctx, tx, params.BoardID, params.Position)
		if err != nil {
			return err
		}
		stamp := nowStamp()
		_, err = tx.ExecContext(ctx,
			`INSERT INTO kanban_columns (id, board_id, title, position, color, icon, is_enabled, wip_limit, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, 1, ?, ?, ?)`,
			id, params.BoardID, title, idx, color, icon, wipLimit, stamp, stamp)
		if err != nil {
			return fmt.Errorf("creating column: %w", err)
		}
		return columnOrdering.renumber(ctx, tx, params.BoardID)
	})
	if err != nil {
		return nil, err
	}

	db, err := b.conn()
	if err != nil {
		return nil, err
	}
	return getColumn(ctx, db, id)
}

// UpdateColumn applies the non-nil patch fields after an ownership check.
func (b *Backend) UpdateColumn(ctx context.Context, id, boardID string, patch types.ColumnPatch) (*types.Column, error) {
	db, err := b.conn()
	if err != nil {
		return nil, err
	}
	if err := assertColumnBelongs(ctx, db, id, boardID); err != nil {
		return nil, err
	}
	u := newUpdate("kanban_columns")
	if patch.Title != nil {
		title, err := types.NormalizeTitle(*patch.Title, types.MaxTitleLen)
		if err != nil {
			return nil, err
		}
		u.Set("title", title)
	}
	if patch.Color != nil {
		color, err := types.NormalizeColor(patch.Color)
		if err != nil {
			return nil, err
		}
		u.Set("color", color)
	}
	if patch.Icon != nil {
		icon, err := types.NormalizeColumnIcon(patch.Icon)
		if err != nil {
			return nil, err
		}
		u.Set("icon", icon)
	}
	if patch.IsEnabled != nil {
		u.Set("is_enabled", boolToInt(*patch.IsEnabled))
	}
	if patch.WIPLimit != nil {
		if *patch.WIPLimit > 0 {
			u.Set("wip_limit", *patch.WIPLimit)
		} else {
			u.Set("wip_limit", nil)
		}
	}
	if u.Empty() {
		return getColumn(ctx, db, id)
	}
	u.Set("updated_at", nowStamp())
	if _, err := u.Exec(ctx, db, "id = ? AND board_id = ?", id, boardID); err != nil {
		return nil, err
	}
	return getColumn(ctx, db, id)
}

// DeleteColumn removes an empty column and renumbers the board. It refuses
// with ErrColumnNotEmpty while cards remain in the column.
func (b *Backend) DeleteColumn(ctx context.Context, id, boardID string) error {
	return b.withTx(ctx, func(tx *sql.Tx) error {
		if err := assertColumnBelongs(ctx, tx, id, boardID); err != nil {
			return err
		}
		cards, err := cardOrdering.count(ctx, tx, id)
		if err != nil {
			return err
		}
		if cards > 0 {
			return fmt.Errorf("column %s: %w", id, types.ErrColumnNotEmpty)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM kanban_columns WHERE id = ?`, id); err != nil {
			return fmt.Errorf("deleting column %s: %w", id, err)
		}
		return columnOrdering.renumber(ctx, tx, boardID)
	})
}

// MoveColumn reorders the column within its board. targetIndex is clamped
// to the legal range.
func (b *Backend) MoveColumn(ctx context.Context, id, boardID string, targetIndex int) error {
	return b.withTx(ctx, func(tx *sql.Tx) error {
		if err := assertColumnBelongs(ctx, tx, id, boardID); err != nil {
			return err
		}
		return columnOrdering.move(ctx, tx, id, boardID, boardID, targetIndex)
	})
}
