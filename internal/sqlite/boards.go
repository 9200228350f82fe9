package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/modulo/pkg/types"
)

// boardFields coalesces a NULL icon to the default so rows migrated from
// builds that predate icons hydrate cleanly.
const boardFields = `id, workspace_id, title, description, COALESCE(icon, 'Folder') AS icon, emoji, color, is_favorite, created_at, updated_at, archived_at`

// defaultColumnTitles are created alongside a board when the caller asks
// for the standard layout.
var defaultColumnTitles = []string{"To do", "In progress", "Done"}

func hydrateBoard(s scanner) (*types.Board, error) {
	var bd types.Board
	err := s.Scan(&bd.ID, &bd.WorkspaceID, &bd.Title, &bd.Description, &bd.Icon,
		&bd.Emoji, &bd.Color, &bd.IsFavorite, &bd.CreatedAt, &bd.UpdatedAt, &bd.ArchivedAt)
	if err != nil {
		return nil, err
	}
	return &bd, nil
}

// ListBoards returns a workspace's active boards, oldest first. An empty
// workspaceID lists active boards across all workspaces.
func (b *Backend) ListBoards(ctx context.Context, workspaceID string) ([]types.Board, error) {
	db, err := b.conn()
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + boardFields + ` FROM kanban_boards WHERE archived_at IS NULL`
	args := []any{}
	if workspaceID != "" {
		query += ` AND workspace_id = ?`
		args = append(args, workspaceID)
	}
	query += ` ORDER BY created_at ASC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing boards: %w", err)
	}
	defer rows.Close()

	out := []types.Board{}
	for rows.Next() {
		bd, err := hydrateBoard(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning board: %w", err)
		}
		out = append(out, *bd)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing boards: %w", err)
	}
	return out, nil
}

func getBoard(ctx context.Context, q querier, id string) (*types.Board, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+boardFields+` FROM kanban_boards WHERE id = ?`, id)
	bd, err := hydrateBoard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("board %s: %w", id, types.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting board %s: %w", id, err)
	}
	return bd, nil
}

// boardExists fails with ErrNotFound when no board has the given id.
func boardExists(ctx context.Context, q querier, id string) error {
	var n int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM kanban_boards WHERE id = ?`, id).Scan(&n)
	if err != nil {
		return fmt.Errorf("checking board %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("board %s: %w", id, types.ErrNotFound)
	}
	return nil
}

// CreateBoard inserts a board into its workspace, optionally with the
// standard three columns.
func (b *Backend) CreateBoard(ctx context.Context, params types.CreateBoardParams) (*types.Board, error) {
	title, err := types.NormalizeTitle(params.Title, types.MaxTitleLen)
	if err != nil {
		return nil, err
	}
	icon, err := types.NormalizeBoardIcon(params.Icon)
	if err != nil {
		return nil, err
	}
	color, err := types.NormalizeColor(params.Color)
	if err != nil {
		return nil, err
	}
	workspaceID := params.WorkspaceID
	if workspaceID == "" {
		workspaceID = types.DefaultWorkspaceID
	}
	id := params.ID
	if id == "" {
		id = newID()
	}

	err = b.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := getWorkspace(ctx, tx, workspaceID); err != nil {
			return err
		}
		stamp := nowStamp()
		_, err := tx.ExecContext(ctx,
			`INSERT INTO kanban_boards (id, workspace_id, title, description, icon, emoji, color, is_favorite, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?, ?)`,
			id, workspaceID, title, params.Description, icon, params.Emoji, color, stamp, stamp)
		if err != nil {
			return fmt.Errorf("creating board: %w", err)
		}
		if !params.WithDefaults {
			return nil
		}
		for pos, colTitle := range defaultColumnTitles {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO kanban_columns (id, board_id, title, position, is_enabled, created_at, updated_at)
				 VALUES (?, ?, ?, ?, 1, ?, ?)`,
				newID(), id, colTitle, pos, stamp, stamp)
			if err != nil {
				return fmt.Errorf("creating default column %q: %w", colTitle, err)
			}
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
	return getBoard(ctx, db, id)
}

// RenameBoard sets a new title.
func (b *Backend) RenameBoard(ctx context.Context, id, title string) (*types.Board, error) {
	db, err := b.conn()
	if err != nil {
		return nil, err
	}
	normalized, err := types.NormalizeTitle(title, types.MaxTitleLen)
	if err != nil {
		return nil, err
	}
	res, err := db.ExecContext(ctx,
		`UPDATE kanban_boards SET title = ?, updated_at = ? WHERE id = ?`,
		normalized, nowStamp(), id)
	if err != nil {
		return nil, fmt.Errorf("renaming board %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("renaming board %s: %w", id, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("board %s: %w", id, types.ErrNotFound)
	}
	return getBoard(ctx, db, id)
}

// UpdateBoard applies the non-nil patch fields. Workspace reassignment
// verifies the target workspace first; Archived toggles the archive stamp.
func (b *Backend) UpdateBoard(ctx context.Context, id string, patch types.BoardPatch) (*types.Board, error) {
	db, err := b.conn()
	if err != nil {
		return nil, err
	}
	u := newUpdate("kanban_boards")
	if patch.Title != nil {
		title, err := types.NormalizeTitle(*patch.Title, types.MaxTitleLen)
		if err != nil {
			return nil, err
		}
		u.Set("title", title)
	}
	if patch.Description != nil {
		u.Set("description", nullableText(*patch.Description))
	}
	if patch.Icon != nil {
		icon, err := types.NormalizeBoardIcon(patch.Icon)
		if err != nil {
			return nil, err
		}
		u.Set("icon", icon)
	}
	if patch.Emoji != nil {
		u.Set("emoji", nullableText(*patch.Emoji))
	}
	if patch.Color != nil {
		color, err := types.NormalizeColor(patch.Color)
		if err != nil {
			return nil, err
		}
		u.Set("color", color)
	}
	if patch.IsFavorite != nil {
		u.Set("is_favorite", boolToInt(*patch.IsFavorite))
	}
	if patch.WorkspaceID != nil {
		if _, err := getWorkspace(ctx, db, *patch.WorkspaceID); err != nil {
			return nil, err
		}
		u.Set("workspace_id", *patch.WorkspaceID)
	}
	if patch.Archived != nil {
		if *patch.Archived {
			u.Set("archived_at", nowStamp())
		} else {
			u.Set("archived_at", nil)
		}
	}
	if u.Empty() {
		return getBoard(ctx, db, id)
	}
	u.Set("updated_at", nowStamp())
	n, err := u.Exec(ctx, db, "id = ?", id)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("board %s: %w", id, types.ErrNotFound)
	}
	return getBoard(ctx, db, id)
}

// DeleteBoard removes the board and everything scoped under it in one
// transaction: subtasks, tag links, cards, tags, notes, columns, board.
func (b *Backend) DeleteBoard(ctx context.Context, id string) error {
	return b.withTx(ctx, func(tx *sql.Tx) error {
		if err := boardExists(ctx, tx, id); err != nil {
			return err
		}
		steps := []struct {
			desc  string
			query string
		}{
			{"subtasks", `DELETE FROM kanban_subtasks WHERE board_id = ?`},
			{"card tag links", `DELETE FROM kanban_card_tags WHERE card_id IN (SELECT id FROM kanban_cards WHERE board_id = ?)`},
			{"cards", `DELETE FROM kanban_cards WHERE board_id = ?`},
			{"tags", `DELETE FROM kanban_tags WHERE board_id = ?`},
			{"notes", `DELETE FROM notes WHERE board_id = ?`},
			{"columns", `DELETE FROM kanban_columns WHERE board_id = ?`},
			{"board", `DELETE FROM kanban_boards WHERE id = ?`},
		}
		for _, step := range steps {
			if _, err := tx.ExecContext(ctx, step.query, id); err != nil {
				return fmt.Errorf("deleting board %s: %w", step.desc, err)
			}
		}
		return nil
	})
}

// nullableText maps an empty string to NULL so patches can clear optional
// text fields.
func nullableText(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
