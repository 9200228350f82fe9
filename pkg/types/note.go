package types

// Note is a board-scoped free-form text entry. Notes are not position
// ordered; listings sort pinned first, then most recently updated.
type Note struct {
	ID         string  `json:"id"`
	BoardID    string  `json:"boardId"`
	Title      string  `json:"title"`
	Content    string  `json:"content"`
	Pinned     bool    `json:"pinned"`
	CreatedAt  string  `json:"createdAt"`
	UpdatedAt  string  `json:"updatedAt"`
	ArchivedAt *string `json:"archivedAt"`
}

// CreateNoteParams carries the caller-supplied fields for a new note.
type CreateNoteParams struct {
	ID      string `json:"id"`
	BoardID string `json:"boardId"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Pinned  bool   `json:"pinned"`
}

// NotePatch updates only the fields that are non-nil.
type NotePatch struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Pinned  *bool   `json:"pinned"`
}
