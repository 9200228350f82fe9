package types

import "errors"

// Failure kinds surfaced by every store operation. Callers match with
// errors.Is; anything not wrapping one of these is a storage failure.
var (
	// ErrNotFound reports that a referenced entity or scope does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrOwnership reports that the supplied parent id does not match the
	// entity's stored parent (stale client state).
	ErrOwnership = errors.New("entity does not belong to the given parent")

	// ErrScopeMismatch reports a cross-container move whose destination
	// belongs to a different top-level owner than the source.
	ErrScopeMismatch = errors.New("destination belongs to a different owner")
)

// Validation errors.
var (
	ErrInvalidID       = errors.New("invalid entity ID")
	ErrEmptyTitle      = errors.New("title must not be empty")
	ErrTitleTooLong    = errors.New("title too long")
	ErrContentTooLong  = errors.New("content too long")
	ErrInvalidPriority = errors.New("invalid priority")
	ErrInvalidColor    = errors.New("invalid color, use hexadecimal #RRGGBB")
	ErrInvalidIcon     = errors.New("icon is not in the allowed set")
	ErrInvalidTheme    = errors.New("invalid theme")
	ErrPositionTaken   = errors.New("requested position is already occupied")
	ErrDuplicateLabel  = errors.New("tag label already exists on this board")
	ErrInvalidFilename = errors.New("invalid filename")
	ErrPayloadTooLarge = errors.New("payload too large")
)

// Referential refusals.
var (
	ErrColumnNotEmpty    = errors.New("column still contains cards")
	ErrWorkspaceNotEmpty = errors.New("workspace still contains boards")
)

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)
