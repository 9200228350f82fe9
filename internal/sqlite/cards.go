package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/modulo/pkg/types"
)

const cardFields = `id, board_id, column_id, title, description, position, priority, due_date, remind_at, created_at, updated_at, archived_at`

func hydrateCard(s scanner) (*types.Card, error) {
	var c types.Card
	err := s.Scan(&c.ID, &c.BoardID, &c.ColumnID, &c.Title, &c.Description,
		&c.Position, &c.Priority, &c.DueDate, &c.RemindAt,
		&c.CreatedAt, &c.UpdatedAt, &c.ArchivedAt)
	if err != nil {
		return nil, err
	}
	c.Subtasks = []types.Subtask{}
	c.Tags = []types.Tag{}
	return &c, nil
}

// ListCards returns the board's live cards ordered per column, each with
// its subtasks and tags attached.
func (b *Backend) ListCards(ctx context.Context, boardID string) ([]types.Card, error) {
	db, err := b.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx,
		`SELECT `+cardFields+` FROM kanban_cards
		 WHERE board_id = ? AND archived_at IS NULL
		 ORDER BY column_id, position ASC, created_at ASC`, boardID)
	if err != nil {
		return nil, fmt.Errorf("listing cards: %w", err)
	}
	defer rows.Close()

	cards := []types.Card{}
	for rows.Next() {
		c, err := hydrateCard(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning card: %w", err)
		}
		cards = append(cards, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing cards: %w", err)
	}
	if len(cards) == 0 {
		return cards, nil
	}
	if err := attachBoardCollections(ctx, db, boardID, cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// attachBoardCollections fills in Subtasks and Tags for every card of one
// board with two batch queries instead of per-card lookups.
func attachBoardCollections(ctx context.Context, q querier, boardID string, cards []types.Card) error {
	byID := make(map[string]*types.Card, len(cards))
	for i := range cards {
		byID[cards[i].ID] = &cards[i]
	}

	subRows, err := q.QueryContext(ctx,
		`SELECT `+subtaskFields+` FROM kanban_subtasks
		 WHERE board_id = ?
		 ORDER BY card_id, position ASC, created_at ASC`, boardID)
	if err != nil {
		return fmt.Errorf("listing board subtasks: %w", err)
	}
	defer subRows.Close()
	for subRows.Next() {
		st, err := hydrateSubtask(subRows)
		if err != nil {
			return fmt.Errorf("scanning subtask: %w", err)
		}
		if card, ok := byID[st.CardID]; ok {
			card.Subtasks = append(card.Subtasks, *st)
		}
	}
	if err := subRows.Err(); err != nil {
		return fmt.Errorf("listing board subtasks: %w", err)
	}

	tagRows, err := q.QueryContext(ctx,
		`SELECT ct.card_id, t.id, t.board_id, t.label, t.color, t.created_at, t.updated_at
		 FROM kanban_card_tags ct
		 JOIN kanban_tags t ON t.id = ct.tag_id
		 WHERE t.board_id = ?
		 ORDER BY t.label COLLATE NOCASE ASC`, boardID)
	if err != nil {
		return fmt.Errorf("listing board card tags: %w", err)
	}
	defer tagRows.Close()
	for tagRows.Next() {
		var cardID string
		var tag types.Tag
		err := tagRows.Scan(&cardID, &tag.ID, &tag.BoardID, &tag.Label,
			&tag.Color, &tag.CreatedAt, &tag.UpdatedAt)
		if err != nil {
			return fmt.Errorf("scanning card tag: %w", err)
		}
		if card, ok := byID[cardID]; ok {
			card.Tags = append(card.Tags, tag)
		}
	}
	if err := tagRows.Err(); err != nil {
		return fmt.Errorf("listing board card tags: %w", err)
	}
	return nil
}

// GetCard returns one card with its subtasks and tags, archived or not.
func (b *Backend) GetCard(ctx context.Context, id string) (*types.Card, error) {
	db, err := b.conn()
	if err != nil {
		return nil, err
	}
	return getCard(ctx, db, id)
}

func getCard(ctx context.Context, q querier, id string) (*types.Card, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+cardFields+` FROM kanban_cards WHERE id = ?`, id)
	c, err := hydrateCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("card %s: %w", id, types.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting card %s: %w", id, err)
	}

	subs, err := listSubtasks(ctx, q, id)
	if err != nil {
		return nil, err
	}
	c.Subtasks = subs

	tags, err := listCardTags(ctx, q, id)
	if err != nil {
		return nil, err
	}
	c.Tags = tags
	return c, nil
}

// assertCardBelongs verifies the card's stored board and returns the
// card's current column. ErrNotFound when the card does not exist,
// ErrOwnership when the board differs.
func assertCardBelongs(ctx context.Context, q querier, id, boardID string) (string, error) {
	var storedBoard, storedColumn string
	err := q.QueryRowContext(ctx,
		`SELECT board_id, column_id FROM kanban_cards WHERE id = ?`, id).
		Scan(&storedBoard, &storedColumn)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("card %s: %w", id, types.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("checking card %s: %w", id, err)
	}
	if storedBoard != boardID {
		return "", fmt.Errorf("card %s not on board %s: %w", id, boardID, types.ErrOwnership)
	}
	return storedColumn, nil
}

// CreateCard inserts a card into a column of its board at the requested
// position, or appends when none is given.
func (b *Backend) CreateCard(ctx context.Context, params types.CreateCardParams) (*types.Card, error) {
	title, err := types.NormalizeTitle(params.Title, types.MaxTitleLen)
	if err != nil {
		return nil, err
	}
	priority, err := types.NormalizePriority(params.Priority)
	if err != nil {
		return nil, err
	}
	id := params.ID
	if id == "" {
		id = newID()
	}

	err = b.withTx(ctx, func(tx *sql.Tx) error {
		if err := assertColumnBelongs(ctx, tx, params.ColumnID, params.BoardID); err != nil {
			return err
		}
		idx, err := cardOrdering.insertIndexStrict(ctx, tx, params.ColumnID, params.Position)
		if err != nil {
			return err
		}
		stamp := nowStamp()
		_, err = tx.ExecContext(ctx,
			`INSERT INTO kanban_cards (id, board_id, column_id, title, description, position, priority, due_date, remind_at, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, params.BoardID, params.ColumnID, title, params.Description,
			idx, priority, params.DueDate, params.RemindAt, stamp, stamp)
		if err != nil {
			return fmt.Errorf("creating card: %w", err)
		}
		return cardOrdering.renumber(ctx, tx, params.ColumnID)
	})
	if err != nil {
		return nil, err
	}

	db, err := b.conn()
	if err != nil {
		return nil, err
	}
	return getCard(ctx, db, id)
}

// UpdateCard applies the non-nil patch fields after an ownership check.
// Column and position are out of reach here; relocation goes through
// MoveCard.
func (b *Backend) UpdateCard(ctx context.Context, id, boardID string, patch types.CardPatch) (*types.Card, error) {
	db, err := b.conn()
	if err != nil {
		return nil, err
	}
	if _, err := assertCardBelongs(ctx, db, id, boardID); err != nil {
		return nil, err
	}
	u := newUpdate("kanban_cards")
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
	if patch.Priority != nil {
		priority, err := types.NormalizePriority(patch.Priority)
		if err != nil {
			return nil, err
		}
		u.Set("priority", priority)
	}
	if patch.DueDate != nil {
		u.Set("due_date", nullableText(*patch.DueDate))
	}
	if patch.RemindAt != nil {
		u.Set("remind_at", nullableText(*patch.RemindAt))
	}
	if patch.Archived != nil {
		if *patch.Archived {
			u.Set("archived_at", nowStamp())
		} else {
			u.Set("archived_at", nil)
		}
	}
	if u.Empty() {
		return getCard(ctx, db, id)
	}
	u.Set("updated_at", nowStamp())
	if _, err := u.Exec(ctx, db, "id = ? AND board_id = ?", id, boardID); err != nil {
		return nil, err
	}
	return getCard(ctx, db, id)
}

// DeleteCard removes the card, its subtasks, and its tag links, then
// renumbers the column it occupied.
func (b *Backend) DeleteCard(ctx context.Context, id, boardID string) error {
	return b.withTx(ctx, func(tx *sql.Tx) error {
		columnID, err := assertCardBelongs(ctx, tx, id, boardID)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM kanban_subtasks WHERE card_id = ?`, id); err != nil {
			return fmt.Errorf("deleting card subtasks: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM kanban_card_tags WHERE card_id = ?`, id); err != nil {
			return fmt.Errorf("deleting card tag links: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM kanban_cards WHERE id = ?`, id); err != nil {
			return fmt.Errorf("deleting card %s: %w", id, err)
		}
		return cardOrdering.renumber(ctx, tx, columnID)
	})
}

// MoveCard relocates a card to targetIndex, within its column or into
// another column of the same board. Both columns are renumbered in the
// same transaction; targetIndex is clamped to the legal range.
func (b *Backend) MoveCard(ctx context.Context, id, boardID, fromColumnID, toColumnID string, targetIndex int) error {
	return b.withTx(ctx, func(tx *sql.Tx) error {
		storedColumn, err := assertCardBelongs(ctx, tx, id, boardID)
		if err != nil {
			return err
		}
		if storedColumn != fromColumnID {
			return fmt.Errorf("card %s not in column %s: %w", id, fromColumnID, types.ErrOwnership)
		}
		if toColumnID != fromColumnID {
			var destBoard string
			err := tx.QueryRowContext(ctx,
				`SELECT board_id FROM kanban_columns WHERE id = ?`, toColumnID).Scan(&destBoard)
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("column %s: %w", toColumnID, types.ErrNotFound)
			}
			if err != nil {
				return fmt.Errorf("checking column %s: %w", toColumnID, err)
			}
			if destBoard != boardID {
				return fmt.Errorf("column %s on board %s: %w", toColumnID, destBoard, types.ErrScopeMismatch)
			}
		}
		return cardOrdering.move(ctx, tx, id, fromColumnID, toColumnID, targetIndex)
	})
}

// PendingReminders returns the id and reminder time of every live card
// with remind_at set, oldest reminder first.
func (b *Backend) PendingReminders(ctx context.Context) ([]types.CardReminder, error) {
	db, err := b.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, remind_at FROM kanban_cards
		WHERE remind_at IS NOT NULL AND archived_at IS NULL
		ORDER BY remind_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing pending reminders: %w", err)
	}
	defer rows.Close()

	reminders := []types.CardReminder{}
	for rows.Next() {
		var r types.CardReminder
		if err := rows.Scan(&r.CardID, &r.RemindAt); err != nil {
			return nil, fmt.Errorf("scanning reminder row: %w", err)
		}
		reminders = append(reminders, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing pending reminders: %w", err)
	}
	return reminders, nil
}
