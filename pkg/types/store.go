package types

import "context"

// WorkspaceStore manages the top-level board groupings.
type WorkspaceStore interface {
	// ListWorkspaces returns active workspaces, name ascending.
	ListWorkspaces(ctx context.Context) ([]Workspace, error)
	CreateWorkspace(ctx context.Context, params CreateWorkspaceParams) (*Workspace, error)
	UpdateWorkspace(ctx context.Context, id string, patch WorkspacePatch) (*Workspace, error)
	// DeleteWorkspace refuses with ErrWorkspaceNotEmpty while boards still
	// reference the workspace.
	DeleteWorkspace(ctx context.Context, id string) error
}

// BoardStore manages boards and their cascading delete.
type BoardStore interface {
	// ListBoards returns the workspace's active boards, oldest first.
	ListBoards(ctx context.Context, workspaceID string) ([]Board, error)
	CreateBoard(ctx context.Context, params CreateBoardParams) (*Board, error)
	RenameBoard(ctx context.Context, id, title string) (*Board, error)
	UpdateBoard(ctx context.Context, id string, patch BoardPatch) (*Board, error)
	// DeleteBoard removes the board and everything scoped under it in one
	// transaction.
	DeleteBoard(ctx context.Context, id string) error
}

// ColumnStore manages the ordered lanes of a board. Create, delete, and
// move maintain the dense position invariant within the board scope.
type ColumnStore interface {
	ListColumns(ctx context.Context, boardID string) ([]Column, error)
	CreateColumn(ctx context.Context, params CreateColumnParams) (*Column, error)
	UpdateColumn(ctx context.Context, id, boardID string, patch ColumnPatch) (*Column, error)
	// DeleteColumn refuses with ErrColumnNotEmpty while cards remain.
	DeleteColumn(ctx context.Context, id, boardID string) error
	// MoveColumn reorders the column within its board. The target index is
	// clamped to the legal range.
	MoveColumn(ctx context.Context, id, boardID string, targetIndex int) error
}

// CardStore manages the ordered cards of each column. MoveCard is the
// cross-scope relocation: one transaction, both columns renumbered.
type CardStore interface {
	// ListCards returns every card on the board with subtasks and tags
	// attached, ordered by column position.
	ListCards(ctx context.Context, boardID string) ([]Card, error)
	GetCard(ctx context.Context, id string) (*Card, error)
	CreateCard(ctx context.Context, params CreateCardParams) (*Card, error)
	UpdateCard(ctx context.Context, id, boardID string, patch CardPatch) (*Card, error)
	DeleteCard(ctx context.Context, id, boardID string) error
	MoveCard(ctx context.Context, id, boardID, fromColumnID, toColumnID string, targetIndex int) error
	// PendingReminders returns every active card that has a reminder set,
	// for rescheduling after a restart.
	PendingReminders(ctx context.Context) ([]CardReminder, error)
}

// SubtaskStore manages per-card checklists. Ordering stays inside the card.
type SubtaskStore interface {
	CreateSubtask(ctx context.Context, params CreateSubtaskParams) (*Subtask, error)
	UpdateSubtask(ctx context.Context, id, cardID string, patch SubtaskPatch) (*Subtask, error)
	DeleteSubtask(ctx context.Context, id, cardID string) error
}

// TagStore manages board-scoped labels and their card assignments.
type TagStore interface {
	// ListTags returns the board's tags, label ascending, case-insensitive.
	ListTags(ctx context.Context, boardID string) ([]Tag, error)
	CreateTag(ctx context.Context, params CreateTagParams) (*Tag, error)
	UpdateTag(ctx context.Context, id, boardID string, patch TagPatch) (*Tag, error)
	DeleteTag(ctx context.Context, id, boardID string) error
	// SetCardTags replaces the card's tag set in one transaction. Every tag
	// must belong to the card's board.
	SetCardTags(ctx context.Context, cardID, boardID string, tagIDs []string) ([]Tag, error)
}

// NoteStore manages board-scoped notes.
type NoteStore interface {
	// ListNotes returns active notes, pinned first, then most recently
	// updated.
	ListNotes(ctx context.Context, boardID string) ([]Note, error)
	CreateNote(ctx context.Context, params CreateNoteParams) (*Note, error)
	UpdateNote(ctx context.Context, id, boardID string, patch NotePatch) (*Note, error)
	ArchiveNote(ctx context.Context, id, boardID string, archived bool) (*Note, error)
	DeleteNote(ctx context.Context, id, boardID string) error
}

// DashboardStore serves the home screen's aggregate views.
type DashboardStore interface {
	TaskStats(ctx context.Context) (*TaskStats, error)
	RecentActivity(ctx context.Context, limit int) ([]Activity, error)
	FavoriteBoards(ctx context.Context) ([]BoardSummary, error)
	UpcomingDeadlines(ctx context.Context, daysAhead int) ([]Deadline, error)
}

// SearchStore is the global substring search across boards, cards, and
// notes.
type SearchStore interface {
	Search(ctx context.Context, query string) ([]SearchResult, error)
}

// Maintenance covers the operator surface.
type Maintenance interface {
	// Vacuum compacts the database file.
	Vacuum(ctx context.Context) error
	// ExportBoard writes a line-oriented JSON snapshot of the board and
	// everything scoped under it to path.
	ExportBoard(ctx context.Context, boardID, path string) error
	// DatabasePath returns the absolute path of the backing file.
	DatabasePath() string
}

// Store is the full storage surface the HTTP API and CLI consume.
type Store interface {
	WorkspaceStore
	BoardStore
	ColumnStore
	CardStore
	SubtaskStore
	TagStore
	NoteStore
	DashboardStore
	SearchStore
	Maintenance
}
