// Package sqlite persists workspaces, boards, columns, cards, subtasks,
// tags, notes, and preferences in a single SQLite database file.
//
// The backend keeps dense, zero-based position sequences for columns,
// cards, and subtasks. Every mutation that changes a sequence renumbers
// the affected scope inside the same transaction, so readers always see
// contiguous positions.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/modulo/pkg/types"
)

// DatabaseFile is the name of the SQLite database inside the data directory.
const DatabaseFile = "modulo.db"

// maxOpenConns bounds the connection pool. WAL mode allows concurrent
// readers alongside a single writer, so a small pool is enough.
const maxOpenConns = 5

// busyTimeoutMillis is how long a connection waits on a locked database
// before giving up.
const busyTimeoutMillis = 5000

// querier is the subset of database/sql shared by *sql.DB and *sql.Tx.
// Table helpers take a querier so the same code runs inside and outside
// transactions.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// scanner lets one hydrate function serve both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// Backend implements types.Store on top of a SQLite database.
type Backend struct {
	mu       sync.RWMutex
	db       *sql.DB
	dbPath   string
	attached bool
}

var _ types.Store = (*Backend)(nil)

// NewBackend returns a detached backend. Call Attach before use.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach opens (or creates) the database under cfg.DataDir, applies the
// schema and pending migrations, and seeds the default workspace.
func (b *Backend) Attach(cfg types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if cfg.DataDir == "" {
		return types.ErrDataDirEmpty
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("creating data directory %s: %w", cfg.DataDir, err)
	}

	dbPath := filepath.Join(cfg.DataDir, DatabaseFile)
	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return fmt.Errorf("opening database %s: %w", dbPath, err)
	}
	db.SetMaxOpenConns(maxOpenConns)

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("pinging database %s: %w", dbPath, err)
	}
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return fmt.Errorf("initializing schema: %w", err)
	}
	if err := seedDefaultWorkspace(ctx, db); err != nil {
		db.Close()
		return fmt.Errorf("seeding default workspace: %w", err)
	}

	b.db = db
	b.dbPath = dbPath
	b.attached = true
	return nil
}

// Detach closes the database. The database file is left in place.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}
	if err := b.db.Close(); err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	b.db = nil
	b.dbPath = ""
	b.attached = false
	return nil
}

// conn returns the live database handle, or ErrStoreDetached.
func (b *Backend) conn() (*sql.DB, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	return b.db, nil
}

// withTx runs fn inside a transaction and commits when fn returns nil.
func (b *Backend) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	db, err := b.conn()
	if err != nil {
		return err
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// DatabasePath reports the path of the attached database file.
func (b *Backend) DatabasePath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.dbPath
}

// Vacuum rebuilds the database file, reclaiming free pages.
func (b *Backend) Vacuum(ctx context.Context) error {
	db, err := b.conn()
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, "VACUUM"); err != nil {
		return fmt.Errorf("vacuuming database: %w", err)
	}
	return nil
}

// dsn builds a modernc.org/sqlite DSN with per-connection pragmas. Every
// pooled connection gets WAL journaling, a busy timeout, and foreign key
// enforcement.
func dsn(dbPath string) string {
	q := url.Values{}
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busyTimeoutMillis))
	q.Add("_pragma", "foreign_keys(1)")
	return "file:" + dbPath + "?" + q.Encode()
}

// nowStamp returns the current UTC time in the timestamp format stored
// throughout the database. Millisecond precision keeps creation-order
// tiebreaks stable.
func nowStamp() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
}

// newID returns a UUIDv7 string, falling back to UUIDv4 if the monotonic
// source fails.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
