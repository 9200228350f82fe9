package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/modulo/pkg/types"
)

const createWorkspacesTable = `CREATE TABLE IF NOT EXISTS workspaces (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	color TEXT,
	icon_path TEXT,
	created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now')),
	updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now')),
	archived_at TEXT
)`

const createBoardsTable = `CREATE TABLE IF NOT EXISTS kanban_boards (
	id TEXT PRIMARY KEY,
	workspace_id TEXT NOT NULL DEFAULT '',
	title TEXT NOT NULL,
	description TEXT,
	icon TEXT,
	emoji TEXT,
	color TEXT,
	is_favorite INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	archived_at TEXT
)`

const createColumnsTable = `CREATE TABLE IF NOT EXISTS kanban_columns (
	id TEXT PRIMARY KEY,
	board_id TEXT NOT NULL REFERENCES kanban_boards(id),
	title TEXT NOT NULL,
	position INTEGER NOT NULL,
	color TEXT,
	icon TEXT,
	is_enabled INTEGER NOT NULL DEFAULT 1,
	wip_limit INTEGER,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`

const createCardsTable = `CREATE TABLE IF NOT EXISTS kanban_cards (
	id TEXT PRIMARY KEY,
	board_id TEXT NOT NULL REFERENCES kanban_boards(id),
	column_id TEXT NOT NULL REFERENCES kanban_columns(id),
	title TEXT NOT NULL,
	description TEXT,
	position INTEGER NOT NULL,
	priority TEXT NOT NULL DEFAULT 'none',
	due_date TEXT,
	remind_at TEXT,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	archived_at TEXT
)`

const createSubtasksTable = `CREATE TABLE IF NOT EXISTS kanban_subtasks (
	id TEXT PRIMARY KEY,
	board_id TEXT NOT NULL REFERENCES kanban_boards(id),
	card_id TEXT NOT NULL REFERENCES kanban_cards(id) ON DELETE CASCADE,
	title TEXT NOT NULL,
	is_completed INTEGER NOT NULL DEFAULT 0,
	position INTEGER NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`

const createTagsTable = `CREATE TABLE IF NOT EXISTS kanban_tags (
	id TEXT PRIMARY KEY,
	board_id TEXT NOT NULL REFERENCES kanban_boards(id),
	label TEXT NOT NULL,
	color TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`

const createCardTagsTable = `CREATE TABLE IF NOT EXISTS kanban_card_tags (
	card_id TEXT NOT NULL REFERENCES kanban_cards(id) ON DELETE CASCADE,
	tag_id TEXT NOT NULL REFERENCES kanban_tags(id) ON DELETE CASCADE,
	PRIMARY KEY (card_id, tag_id)
)`

const createNotesTable = `CREATE TABLE IF NOT EXISTS notes (
	id TEXT PRIMARY KEY,
	board_id TEXT NOT NULL REFERENCES kanban_boards(id),
	title TEXT NOT NULL,
	content TEXT NOT NULL DEFAULT '',
	pinned INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	archived_at TEXT
)`

// schemaDDL lists table definitions in dependency order.
var schemaDDL = []string{
	createWorkspacesTable,
	createBoardsTable,
	createColumnsTable,
	createCardsTable,
	createSubtasksTable,
	createTagsTable,
	createCardTagsTable,
	createNotesTable,
}

var indexDDL = []string{
	`CREATE INDEX IF NOT EXISTS idx_boards_workspace ON kanban_boards(workspace_id)`,
	`CREATE INDEX IF NOT EXISTS idx_columns_board_position ON kanban_columns(board_id, position)`,
	`CREATE INDEX IF NOT EXISTS idx_cards_column_position ON kanban_cards(column_id, position)`,
	`CREATE INDEX IF NOT EXISTS idx_cards_board ON kanban_cards(board_id)`,
	`CREATE INDEX IF NOT EXISTS idx_cards_due_date ON kanban_cards(due_date)`,
	`CREATE INDEX IF NOT EXISTS idx_boards_favorite ON kanban_boards(is_favorite)`,
	`CREATE INDEX IF NOT EXISTS idx_subtasks_card_position ON kanban_subtasks(card_id, position)`,
	`CREATE INDEX IF NOT EXISTS idx_tags_board ON kanban_tags(board_id)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_tags_board_label ON kanban_tags(board_id, label)`,
	`CREATE INDEX IF NOT EXISTS idx_card_tags_tag ON kanban_card_tags(tag_id)`,
	`CREATE INDEX IF NOT EXISTS idx_notes_board_updated ON notes(board_id, updated_at)`,
	`CREATE INDEX IF NOT EXISTS idx_notes_board_pinned ON notes(board_id, pinned)`,
}

// initSchema creates missing tables and indexes, then upgrades databases
// created by older releases.
func initSchema(ctx context.Context, db *sql.DB) error {
	for _, ddl := range schemaDDL {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("creating table: %w", err)
		}
	}
	for _, ddl := range indexDDL {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("creating index: %w", err)
		}
	}
	return migrateSchema(ctx, db)
}

// migrateSchema adds columns that were introduced after the first release.
// Each step is a no-op on databases that already have the column.
func migrateSchema(ctx context.Context, db *sql.DB) error {
	steps := []struct {
		table    string
		column   string
		ddl      string
		backfill string
	}{
		{
			table:    "kanban_boards",
			column:   "workspace_id",
			ddl:      `ALTER TABLE kanban_boards ADD COLUMN workspace_id TEXT NOT NULL DEFAULT ''`,
			backfill: `UPDATE kanban_boards SET workspace_id = ? WHERE workspace_id = ''`,
		},
		{
			table:  "kanban_boards",
			column: "is_favorite",
			ddl:    `ALTER TABLE kanban_boards ADD COLUMN is_favorite INTEGER NOT NULL DEFAULT 0`,
		},
		{
			table:  "kanban_boards",
			column: "emoji",
			ddl:    `ALTER TABLE kanban_boards ADD COLUMN emoji TEXT`,
		},
		{
			table:  "kanban_cards",
			column: "remind_at",
			ddl:    `ALTER TABLE kanban_cards ADD COLUMN remind_at TEXT`,
		},
		{
			table:    "kanban_columns",
			column:   "is_enabled",
			ddl:      `ALTER TABLE kanban_columns ADD COLUMN is_enabled INTEGER NOT NULL DEFAULT 1`,
			backfill: `UPDATE kanban_columns SET is_enabled = 1 WHERE is_enabled IS NULL`,
		},
		{
			table:  "kanban_columns",
			column: "wip_limit",
			ddl:    `ALTER TABLE kanban_columns ADD COLUMN wip_limit INTEGER`,
		},
		{
			table:    "notes",
			column:   "board_id",
			ddl:      `ALTER TABLE notes ADD COLUMN board_id TEXT`,
			backfill: `UPDATE notes SET board_id = (SELECT id FROM kanban_boards ORDER BY created_at ASC LIMIT 1) WHERE board_id IS NULL`,
		},
	}

	for _, step := range steps {
		exists, err := columnExists(ctx, db, step.table, step.column)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if _, err := db.ExecContext(ctx, step.ddl); err != nil {
			return fmt.Errorf("adding %s.%s: %w", step.table, step.column, err)
		}
		if step.backfill == "" {
			continue
		}
		if step.column == "workspace_id" {
			_, err = db.ExecContext(ctx, step.backfill, types.DefaultWorkspaceID)
		} else {
			_, err = db.ExecContext(ctx, step.backfill)
		}
		if err != nil {
			return fmt.Errorf("backfilling %s.%s: %w", step.table, step.column, err)
		}
	}
	return nil
}

// columnExists reports whether table already has the named column.
func columnExists(ctx context.Context, q querier, table, column string) (bool, error) {
	var count int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`,
		table, column,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("inspecting %s.%s: %w", table, column, err)
	}
	return count > 0, nil
}

// seedDefaultWorkspace guarantees the default workspace exists and adopts
// any boards that predate workspace support.
func seedDefaultWorkspace(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO workspaces (id, name, color) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		types.DefaultWorkspaceID, types.DefaultWorkspaceName, types.DefaultWorkspaceColor,
	)
	if err != nil {
		return fmt.Errorf("inserting default workspace: %w", err)
	}
	_, err = db.ExecContext(ctx,
		`UPDATE kanban_boards SET workspace_id = ? WHERE workspace_id = '' OR workspace_id IS NULL`,
		types.DefaultWorkspaceID,
	)
	if err != nil {
		return fmt.Errorf("adopting orphan boards: %w", err)
	}
	return nil
}
