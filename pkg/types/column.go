package types

import "strings"

// DefaultColumnIcon is what columns with no stored icon hydrate to.
const DefaultColumnIcon = "Circle"

// allowedColumnIcons is the icon set the shell can render for columns.
var allowedColumnIcons = map[string]bool{
	"Circle":        true,
	"Play":          true,
	"CheckCircle":   true,
	"Loader":        true,
	"AlarmClock":    true,
	"Bolt":          true,
	"Sparkles":      true,
	"Target":        true,
	"CalendarCheck": true,
	"ClipboardList": true,
	"Lightbulb":     true,
	"Flag":          true,
	"Timer":         true,
	"Ship":          true,
	"Kanban":        true,
	"TrendingUp":    true,
	"Zap":           true,
	"Rocket":        true,
	"BadgeCheck":    true,
}

// Column is an ordered lane on a board. Position is dense and zero-based
// within the board.
type Column struct {
	ID        string  `json:"id"`
	BoardID   string  `json:"boardId"`
	Title     string  `json:"title"`
	Position  int     `json:"position"`
	Color     *string `json:"color"`
	Icon      string  `json:"icon"`
	IsEnabled bool    `json:"isEnabled"`
	WIPLimit  *int    `json:"wipLimit"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

// CreateColumnParams carries the caller-supplied fields for a new column.
// A nil Position appends; a supplied one is clamped to [0, memberCount].
type CreateColumnParams struct {
	ID       string  `json:"id"`
	BoardID  string  `json:"boardId"`
	Title    string  `json:"title"`
	Position *int    `json:"position"`
	Color    *string `json:"color"`
	Icon     *string `json:"icon"`
	WIPLimit *int    `json:"wipLimit"`
}

// ColumnPatch updates only the fields that are non-nil. An empty string
// clears an optional text field; a WIPLimit <= 0 clears the limit.
type ColumnPatch struct {
	Title     *string `json:"title"`
	Color     *string `json:"color"`
	Icon      *string `json:"icon"`
	IsEnabled *bool   `json:"isEnabled"`
	WIPLimit  *int    `json:"wipLimit"`
}

// NormalizeColumnIcon validates an optional column icon against the allowed
// set. Empty input clears the icon.
func NormalizeColumnIcon(icon *string) (*string, error) {
	if icon == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*icon)
	if trimmed == "" {
		return nil, nil
	}
	if !allowedColumnIcons[trimmed] {
		return nil, ErrInvalidIcon
	}
	return &trimmed, nil
}
