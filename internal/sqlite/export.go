package sqlite

import (
	"bytes"
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/natefinch/atomic"
)

// exportRecord is one line of a board snapshot: a type tag and the entity
// payload.
type exportRecord struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// ExportBoard writes a line-oriented JSON snapshot of one board to path:
// the board, then its columns, cards, subtasks, tags, and notes, one
// record per line, archived rows included. The file appears atomically.
func (b *Backend) ExportBoard(ctx context.Context, boardID, path string) error {
	db, err := b.conn()
	if err != nil {
		return err
	}
	board, err := getBoard(ctx, db, boardID)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	write := func(recordType string, data any) error {
		line, err := sonic.ConfigStd.Marshal(exportRecord{Type: recordType, Data: data})
		if err != nil {
			return fmt.Errorf("encoding %s record: %w", recordType, err)
		}
		buf.Write(line)
		buf.WriteByte('\n')
		return nil
	}

	if err := write("board", board); err != nil {
		return err
	}

	columns, err := b.ListColumns(ctx, boardID)
	if err != nil {
		return err
	}
	for i := range columns {
		if err := write("column", &columns[i]); err != nil {
			return err
		}
	}

	cardRows, err := db.QueryContext(ctx,
		`SELECT `+cardFields+` FROM kanban_cards
		 WHERE board_id = ?
		 ORDER BY column_id, position ASC, created_at ASC`, boardID)
	if err != nil {
		return fmt.Errorf("exporting cards: %w", err)
	}
	defer cardRows.Close()
	for cardRows.Next() {
		c, err := hydrateCard(cardRows)
		if err != nil {
			return fmt.Errorf("scanning card: %w", err)
		}
		if err := write("card", c); err != nil {
			return err
		}
	}
	if err := cardRows.Err(); err != nil {
		return fmt.Errorf("exporting cards: %w", err)
	}

	subRows, err := db.QueryContext(ctx,
		`SELECT `+subtaskFields+` FROM kanban_subtasks
		 WHERE board_id = ?
		 ORDER BY card_id, position ASC, created_at ASC`, boardID)
	if err != nil {
		return fmt.Errorf("exporting subtasks: %w", err)
	}
	defer subRows.Close()
	for subRows.Next() {
		st, err := hydrateSubtask(subRows)
		if err != nil {
			return fmt.Errorf("scanning subtask: %w", err)
		}
		if err := write("subtask", st); err != nil {
			return err
		}
	}
	if err := subRows.Err(); err != nil {
		return fmt.Errorf("exporting subtasks: %w", err)
	}

	tags, err := listTags(ctx, db, boardID)
	if err != nil {
		return err
	}
	for i := range tags {
		if err := write("tag", &tags[i]); err != nil {
			return err
		}
	}

	noteRows, err := db.QueryContext(ctx,
		`SELECT `+noteFields+` FROM notes
		 WHERE board_id = ?
		 ORDER BY created_at ASC`, boardID)
	if err != nil {
		return fmt.Errorf("exporting notes: %w", err)
	}
	defer noteRows.Close()
	for noteRows.Next() {
		n, err := hydrateNote(noteRows)
		if err != nil {
			return fmt.Errorf("scanning note: %w", err)
		}
		if err := write("note", n); err != nil {
			return err
		}
	}
	if err := noteRows.Err(); err != nil {
		return fmt.Errorf("exporting notes: %w", err)
	}

	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("writing snapshot %s: %w", path, err)
	}
	return nil
}
