package sqlite

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/modulo/pkg/types"
)

// doneColumnFilter matches columns whose title marks cards as finished.
const doneColumnFilter = `(LOWER(co.title) LIKE '%done%' OR LOWER(co.title) LIKE '%complete%' OR LOWER(co.title) LIKE '%finished%')`

// TaskStats aggregates live cards across all boards. A card counts as
// completed when it sits in a column whose title contains done, complete,
// or finished.
func (b *Backend) TaskStats(ctx context.Context) (*types.TaskStats, error) {
	db, err := b.conn()
	if err != nil {
		return nil, err
	}
	var stats types.TaskStats
	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM kanban_cards WHERE archived_at IS NULL`).Scan(&stats.Total)
	if err != nil {
		return nil, fmt.Errorf("counting cards: %w", err)
	}
	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM kanban_cards ca
		 JOIN kanban_columns co ON co.id = ca.column_id
		 WHERE ca.archived_at IS NULL AND `+doneColumnFilter).Scan(&stats.Completed)
	if err != nil {
		return nil, fmt.Errorf("counting completed cards: %w", err)
	}
	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM kanban_cards ca
		 JOIN kanban_columns co ON co.id = ca.column_id
		 WHERE ca.archived_at IS NULL
		   AND ca.due_date IS NOT NULL AND ca.due_date < ?
		   AND NOT `+doneColumnFilter, nowStamp()).Scan(&stats.Overdue)
	if err != nil {
		return nil, fmt.Errorf("counting overdue cards: %w", err)
	}
	stats.Pending = stats.Total - stats.Completed
	return &stats, nil
}

// RecentActivity returns the newest card and board events across all
// boards: card created, card updated, board created. limit <= 0 falls back
// to 10.
func (b *Backend) RecentActivity(ctx context.Context, limit int) ([]types.Activity, error) {
	db, err := b.conn()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}
	rows, err := db.QueryContext(ctx,
		`SELECT 'card_created' AS activity_type, ca.id, ca.title, bo.title, bo.icon, ca.created_at AS ts
		   FROM kanban_cards ca JOIN kanban_boards bo ON bo.id = ca.board_id
		  WHERE ca.archived_at IS NULL
		 UNION ALL
		 SELECT 'card_updated', ca.id, ca.title, bo.title, bo.icon, ca.updated_at
		   FROM kanban_cards ca JOIN kanban_boards bo ON bo.id = ca.board_id
		  WHERE ca.archived_at IS NULL AND ca.updated_at != ca.created_at
		 UNION ALL
		 SELECT 'board_created', bo.id, bo.title, bo.title, bo.icon, bo.created_at
		   FROM kanban_boards bo
		  WHERE bo.archived_at IS NULL
		 ORDER BY ts DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing activity: %w", err)
	}
	defer rows.Close()

	out := []types.Activity{}
	for rows.Next() {
		var a types.Activity
		err := rows.Scan(&a.Type, &a.EntityID, &a.Title, &a.BoardName, &a.BoardIcon, &a.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("scanning activity: %w", err)
		}
		a.ID = a.Type + "-" + a.EntityID
		switch a.Type {
		case types.ActivityBoardCreated:
			a.EntityType = "board"
		default:
			a.EntityType = "card"
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing activity: %w", err)
	}
	return out, nil
}

// FavoriteBoards returns active favorite boards with card counts, most
// recently updated first.
func (b *Backend) FavoriteBoards(ctx context.Context) ([]types.BoardSummary, error) {
	db, err := b.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx,
		`SELECT bo.id, bo.workspace_id, bo.title, bo.description,
		        COALESCE(bo.icon, 'Folder'), bo.emoji, bo.color, bo.is_favorite,
		        bo.created_at, bo.updated_at, bo.archived_at,
		        COUNT(DISTINCT ca.id) AS total_cards,
		        COUNT(DISTINCT CASE WHEN ca.archived_at IS NULL THEN ca.id END) AS active_cards
		   FROM kanban_boards bo
		   LEFT JOIN kanban_cards ca ON ca.board_id = bo.id
		  WHERE bo.is_favorite = 1 AND bo.archived_at IS NULL
		  GROUP BY bo.id
		  ORDER BY bo.updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing favorite boards: %w", err)
	}
	defer rows.Close()

	out := []types.BoardSummary{}
	for rows.Next() {
		var s types.BoardSummary
		err := rows.Scan(&s.ID, &s.WorkspaceID, &s.Title, &s.Description, &s.Icon,
			&s.Emoji, &s.Color, &s.IsFavorite, &s.CreatedAt, &s.UpdatedAt, &s.ArchivedAt,
			&s.TotalCards, &s.ActiveCards)
		if err != nil {
			return nil, fmt.Errorf("scanning favorite board: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing favorite boards: %w", err)
	}
	return out, nil
}

// UpcomingDeadlines returns live cards due within daysAhead days, overdue
// ones included, soonest first. daysAhead <= 0 falls back to 7.
func (b *Backend) UpcomingDeadlines(ctx context.Context, daysAhead int) ([]types.Deadline, error) {
	db, err := b.conn()
	if err != nil {
		return nil, err
	}
	if daysAhead <= 0 {
		daysAhead = 7
	}
	rows, err := db.QueryContext(ctx,
		`SELECT ca.id, ca.title, ca.due_date, bo.title, bo.id,
		        CASE WHEN ca.due_date < strftime('%Y-%m-%dT%H:%M:%fZ','now') THEN 1 ELSE 0 END AS is_overdue,
		        CAST(julianday(ca.due_date) - julianday('now') AS INTEGER) AS days_until
		   FROM kanban_cards ca
		   JOIN kanban_boards bo ON bo.id = ca.board_id
		  WHERE ca.archived_at IS NULL
		    AND ca.due_date IS NOT NULL
		    AND julianday(ca.due_date) <= julianday('now') + ?
		  ORDER BY ca.due_date ASC`, daysAhead)
	if err != nil {
		return nil, fmt.Errorf("listing deadlines: %w", err)
	}
	defer rows.Close()

	out := []types.Deadline{}
	for rows.Next() {
		var d types.Deadline
		err := rows.Scan(&d.ID, &d.Title, &d.Deadline, &d.BoardName, &d.BoardID,
			&d.IsOverdue, &d.DaysUntil)
		if err != nil {
			return nil, fmt.Errorf("scanning deadline: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing deadlines: %w", err)
	}
	return out, nil
}
