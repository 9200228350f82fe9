package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/modulo/pkg/types"
)

const noteFields = `id, board_id, title, content, pinned, created_at, updated_at, archived_at`

func hydrateNote(s scanner) (*types.Note, error) {
	var n types.Note
	err := s.Scan(&n.ID, &n.BoardID, &n.Title, &n.Content, &n.Pinned,
		&n.CreatedAt, &n.UpdatedAt, &n.ArchivedAt)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// ListNotes returns the board's active notes, pinned first, then most
// recently updated.
func (b *Backend) ListNotes(ctx context.Context, boardID string) ([]types.Note, error) {
	db, err := b.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx,
		`SELECT `+noteFields+` FROM notes
		 WHERE board_id = ? AND archived_at IS NULL
		 ORDER BY pinned DESC, updated_at DESC`, boardID)
	if err != nil {
		return nil, fmt.Errorf("listing notes: %w", err)
	}
	defer rows.Close()

	out := []types.Note{}
	for rows.Next() {
		n, err := hydrateNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning note: %w", err)
		}
		out = append(out, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing notes: %w", err)
	}
	return out, nil
}

func getNote(ctx context.Context, q querier, id string) (*types.Note, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+noteFields+` FROM notes WHERE id = ?`, id)
	n, err := hydrateNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("note %s: %w", id, types.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting note %s: %w", id, err)
	}
	return n, nil
}

// CreateNote inserts a board-scoped note.
func (b *Backend) CreateNote(ctx context.Context, params types.CreateNoteParams) (*types.Note, error) {
	db, err := b.conn()
	if err != nil {
		return nil, err
	}
	title, err := types.NormalizeTitle(params.Title, types.MaxTitleLen)
	if err != nil {
		return nil, err
	}
	if len(params.Content) > types.MaxNoteLength {
		return nil, types.ErrContentTooLong
	}
	if err := boardExists(ctx, db, params.BoardID); err != nil {
		return nil, err
	}
	id := params.ID
	if id == "" {
		id = newID()
	}
	stamp := nowStamp()
	_, err = db.ExecContext(ctx,
		`INSERT INTO notes (id, board_id, title, content, pinned, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, params.BoardID, title, params.Content, boolToInt(params.Pinned), stamp, stamp)
	if err != nil {
		return nil, fmt.Errorf("creating note: %w", err)
	}
	return getNote(ctx, db, id)
}

// UpdateNote applies the non-nil patch fields, scoped to the board.
func (b *Backend) UpdateNote(ctx context.Context, id, boardID string, patch types.NotePatch) (*types.Note, error) {
	db, err := b.conn()
	if err != nil {
		return nil, err
	}
	u := newUpdate("notes")
	if patch.Title != nil {
		title, err := types.NormalizeTitle(*patch.Title, types.MaxTitleLen)
		if err != nil {
			return nil, err
		}
		u.Set("title", title)
	}
	if patch.Content != nil {
		if len(*patch.Content) > types.MaxNoteLength {
			return nil, types.ErrContentTooLong
		}
		u.Set("content", *patch.Content)
	}
	if patch.Pinned != nil {
		u.Set("pinned", boolToInt(*patch.Pinned))
	}
	if u.Empty() {
		n, err := getNote(ctx, db, id)
		if err != nil {
			return nil, err
		}
		if n.BoardID != boardID {
			return nil, fmt.Errorf("note %s not on board %s: %w", id, boardID, types.ErrOwnership)
		}
		return n, nil
	}
	u.Set("updated_at", nowStamp())
	n, err := u.Exec(ctx, db, "id = ? AND board_id = ?", id, boardID)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("note %s on board %s: %w", id, boardID, types.ErrNotFound)
	}
	return getNote(ctx, db, id)
}

// ArchiveNote sets or clears the archive stamp.
func (b *Backend) ArchiveNote(ctx context.Context, id, boardID string, archived bool) (*types.Note, error) {
	db, err := b.conn()
	if err != nil {
		return nil, err
	}
	var stamp any
	if archived {
		stamp = nowStamp()
	}
	res, err := db.ExecContext(ctx,
		`UPDATE notes SET archived_at = ?, updated_at = ? WHERE id = ? AND board_id = ?`,
		stamp, nowStamp(), id, boardID)
	if err != nil {
		return nil, fmt.Errorf("archiving note %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("archiving note %s: %w", id, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("note %s on board %s: %w", id, boardID, types.ErrNotFound)
	}
	return getNote(ctx, db, id)
}

// DeleteNote removes the note, scoped to the board.
func (b *Backend) DeleteNote(ctx context.Context, id, boardID string) error {
	db, err := b.conn()
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx,
		`DELETE FROM notes WHERE id = ? AND board_id = ?`, id, boardID)
	if err != nil {
		return fmt.Errorf("deleting note %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting note %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("note %s on board %s: %w", id, boardID, types.ErrNotFound)
	}
	return nil
}
