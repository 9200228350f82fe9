package types

import "strings"

// DefaultBoardIcon is assigned when a board is created without an icon.
const DefaultBoardIcon = "Folder"

// allowedBoardIcons is the icon set the shell can render for boards.
var allowedBoardIcons = map[string]bool{
	"Folder":          true,
	"LayoutDashboard": true,
	"Layers":          true,
	"Briefcase":       true,
	"ClipboardList":   true,
	"CalendarDays":    true,
	"BarChart3":       true,
	"Target":          true,
	"Users":           true,
	"MessagesSquare":  true,
	"LifeBuoy":        true,
	"Lightbulb":       true,
	"Rocket":          true,
	"Package":         true,
	"Palette":         true,
	"PenTool":         true,
}

// Board is a kanban board inside a workspace. Columns hang off it and keep
// their own position ordering.
type Board struct {
	ID          string  `json:"id"`
	WorkspaceID string  `json:"workspaceId"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Icon        string  `json:"icon"`
	Emoji       *string `json:"emoji"`
	Color       *string `json:"color"`
	IsFavorite  bool    `json:"isFavorite"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
	ArchivedAt  *string `json:"archivedAt"`
}

// BoardSummary is a board plus card counts, used by the dashboard's
// favorites view.
type BoardSummary struct {
	Board
	TotalCards  int `json:"totalCards"`
	ActiveCards int `json:"activeCards"`
}

// CreateBoardParams carries the caller-supplied fields for a new board.
// When WithDefaults is set, the store also creates the standard
// "To do / In progress / Done" columns.
type CreateBoardParams struct {
	ID           string  `json:"id"`
	WorkspaceID  string  `json:"workspaceId"`
	Title        string  `json:"title"`
	Description  *string `json:"description"`
	Icon         *string `json:"icon"`
	Emoji        *string `json:"emoji"`
	Color        *string `json:"color"`
	WithDefaults bool    `json:"withDefaults"`
}

// BoardPatch updates only the fields that are non-nil. An empty string
// clears an optional field. Setting Archived toggles the archive timestamp.
type BoardPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
	Emoji       *string `json:"emoji"`
	Color       *string `json:"color"`
	IsFavorite  *bool   `json:"isFavorite"`
	WorkspaceID *string `json:"workspaceId"`
	Archived    *bool   `json:"archived"`
}

// NormalizeBoardIcon validates an optional board icon against the allowed
// set. Empty input yields the default icon.
func NormalizeBoardIcon(icon *string) (string, error) {
	if icon == nil {
		return DefaultBoardIcon, nil
	}
	trimmed := strings.TrimSpace(*icon)
	if trimmed == "" {
		return DefaultBoardIcon, nil
	}
	if !allowedBoardIcons[trimmed] {
		return "", ErrInvalidIcon
	}
	return trimmed, nil
}
