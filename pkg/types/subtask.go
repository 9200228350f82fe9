package types

// Subtask is an ordered checklist entry inside a card. Position is dense
// and zero-based within the card; subtasks never move between cards.
type Subtask struct {
	ID          string `json:"id"`
	BoardID     string `json:"boardId"`
	CardID      string `json:"cardId"`
	Title       string `json:"title"`
	IsCompleted bool   `json:"isCompleted"`
	Position    int    `json:"position"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// CreateSubtaskParams carries the caller-supplied fields for a new subtask.
// A nil Position appends; a supplied one is clamped to [0, memberCount].
type CreateSubtaskParams struct {
	ID       string `json:"id"`
	BoardID  string `json:"boardId"`
	CardID   string `json:"cardId"`
	Title    string `json:"title"`
	Position *int   `json:"position"`
}

// SubtaskPatch updates only the fields that are non-nil. A Position moves
// the subtask within its card through the ordering protocol.
type SubtaskPatch struct {
	Title       *string `json:"title"`
	IsCompleted *bool   `json:"isCompleted"`
	Position    *int    `json:"position"`
}
