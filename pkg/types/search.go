package types

// SearchResult is one hit from the global search, discriminated by Type.
type SearchResult struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Type        string  `json:"itemType"`
	BoardID     string  `json:"boardId"`
	BoardName   string  `json:"boardName"`
	Description *string `json:"description"`
}

// Search result types.
const (
	SearchTypeBoard = "board"
	SearchTypeCard  = "card"
	SearchTypeNote  = "note"
)
