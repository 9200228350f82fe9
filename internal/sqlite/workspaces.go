package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/modulo/pkg/types"
)

const workspaceFields = `id, name, color, icon_path, created_at, updated_at, archived_at`

func hydrateWorkspace(s scanner) (*types.Workspace, error) {
	var w types.Workspace
	err := s.Scan(&w.ID, &w.Name, &w.Color, &w.IconPath, &w.CreatedAt, &w.UpdatedAt, &w.ArchivedAt)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// ListWorkspaces returns active workspaces sorted by name, case-insensitive.
func (b *Backend) ListWorkspaces(ctx context.Context) ([]types.Workspace, error) {
	db, err := b.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx,
		`SELECT `+workspaceFields+` FROM workspaces
		 WHERE archived_at IS NULL
		 ORDER BY name COLLATE NOCASE ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing workspaces: %w", err)
	}
	defer rows.Close()

	out := []types.Workspace{}
	for rows.Next() {
		w, err := hydrateWorkspace(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning workspace: %w", err)
		}
		out = append(out, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing workspaces: %w", err)
	}
	return out, nil
}

func getWorkspace(ctx context.Context, q querier, id string) (*types.Workspace, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+workspaceFields+` FROM workspaces WHERE id = ?`, id)
	w, err := hydrateWorkspace(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("workspace %s: %w", id, types.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting workspace %s: %w", id, err)
	}
	return w, nil
}

// CreateWorkspace inserts a workspace. An empty ID gets a generated one.
func (b *Backend) CreateWorkspace(ctx context.Context, params types.CreateWorkspaceParams) (*types.Workspace, error) {
	db, err := b.conn()
	if err != nil {
		return nil, err
	}
	name, err := types.NormalizeTitle(params.Name, types.MaxTitleLen)
	if err != nil {
		return nil, err
	}
	color, err := types.NormalizeColor(params.Color)
	if err != nil {
		return nil, err
	}
	id := params.ID
	if id == "" {
		id = newID()
	}
	stamp := nowStamp()
	_, err = db.ExecContext(ctx,
		`INSERT INTO workspaces (id, name, color, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		id, name, color, stamp, stamp)
	if err != nil {
		return nil, fmt.Errorf("creating workspace: %w", err)
	}
	return getWorkspace(ctx, db, id)
}

// UpdateWorkspace applies the non-nil patch fields. An empty patch is an
// existence check.
func (b *Backend) UpdateWorkspace(ctx context.Context, id string, patch types.WorkspacePatch) (*types.Workspace, error) {
	db, err := b.conn()
	if err != nil {
		return nil, err
	}
	u := newUpdate("workspaces")
	if patch.Name != nil {
		name, err := types.NormalizeTitle(*patch.Name, types.MaxTitleLen)
		if err != nil {
			return nil, err
		}
		u.Set("name", name)
	}
	if patch.Color != nil {
		color, err := types.NormalizeColor(patch.Color)
		if err != nil {
			return nil, err
		}
		u.Set("color", color)
	}
	if u.Empty() {
		return getWorkspace(ctx, db, id)
	}
	u.Set("updated_at", nowStamp())
	n, err := u.Exec(ctx, db, "id = ?", id)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("workspace %s: %w", id, types.ErrNotFound)
	}
	return getWorkspace(ctx, db, id)
}

// DeleteWorkspace removes an empty workspace. It refuses while boards still
// reference it.
func (b *Backend) DeleteWorkspace(ctx context.Context, id string) error {
	return b.withTx(ctx, func(tx *sql.Tx) error {
		var boards int
		err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM kanban_boards WHERE workspace_id = ?`, id).Scan(&boards)
		if err != nil {
			return fmt.Errorf("counting workspace boards: %w", err)
		}
		if boards > 0 {
			return fmt.Errorf("workspace %s: %w", id, types.ErrWorkspaceNotEmpty)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM workspaces WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("deleting workspace %s: %w", id, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("deleting workspace %s: %w", id, err)
		}
		if n == 0 {
			return fmt.Errorf("workspace %s: %w", id, types.ErrNotFound)
		}
		return nil
	})
}
