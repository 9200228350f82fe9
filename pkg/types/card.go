package types

import "strings"

// Card priorities.
const (
	PriorityNone   = "none"
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

var validPriorities = map[string]bool{
	PriorityNone:   true,
	PriorityLow:    true,
	PriorityMedium: true,
	PriorityHigh:   true,
}

// Card is an ordered item inside a column. Position is dense and zero-based
// within the column; BoardID is carried denormalized so ownership checks do
// not need a join.
type Card struct {
	ID          string    `json:"id"`
	BoardID     string    `json:"boardId"`
	ColumnID    string    `json:"columnId"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Position    int       `json:"position"`
	Priority    string    `json:"priority"`
	DueDate     *string   `json:"dueDate"`
	RemindAt    *string   `json:"remindAt"`
	CreatedAt   string    `json:"createdAt"`
	UpdatedAt   string    `json:"updatedAt"`
	ArchivedAt  *string   `json:"archivedAt"`
	Subtasks    []Subtask `json:"subtasks"`
	Tags        []Tag     `json:"tags"`
}

// CardReminder pairs a card with its scheduled reminder time.
type CardReminder struct {
	CardID   string `json:"cardId"`
	RemindAt string `json:"remindAt"`
}

// CreateCardParams carries the caller-supplied fields for a new card.
// A nil Position appends; a supplied one is clamped to [0, memberCount].
type CreateCardParams struct {
	ID          string  `json:"id"`
	BoardID     string  `json:"boardId"`
	ColumnID    string  `json:"columnId"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Position    *int    `json:"position"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"dueDate"`
	RemindAt    *string `json:"remindAt"`
}

// CardPatch updates only the fields that are non-nil. An empty string
// clears an optional field. Structural relocation goes through MoveCard,
// never through a patch.
type CardPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"dueDate"`
	RemindAt    *string `json:"remindAt"`
	Archived    *bool   `json:"archived"`
}

// NormalizePriority validates an optional card priority. Nil or empty input
// falls back to PriorityNone.
func NormalizePriority(priority *string) (string, error) {
	if priority == nil {
		return PriorityNone, nil
	}
	trimmed := strings.TrimSpace(*priority)
	if trimmed == "" {
		return PriorityNone, nil
	}
	if !validPriorities[trimmed] {
		return "", ErrInvalidPriority
	}
	return trimmed, nil
}
