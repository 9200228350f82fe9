package types

// Tag is a board-scoped label attachable to any card on the same board.
// Labels are unique per board; colors are mandatory.
type Tag struct {
	ID        string `json:"id"`
	BoardID   string `json:"boardId"`
	Label     string `json:"label"`
	Color     string `json:"color"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// CreateTagParams carries the caller-supplied fields for a new tag. Color
// is required, #RRGGBB.
type CreateTagParams struct {
	ID      string `json:"id"`
	BoardID string `json:"boardId"`
	Label   string `json:"label"`
	Color   string `json:"color"`
}

// TagPatch updates only the fields that are non-nil. The color can be
// replaced but never cleared.
type TagPatch struct {
	Label *string `json:"label"`
	Color *string `json:"color"`
}
