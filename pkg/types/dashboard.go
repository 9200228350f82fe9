package types

// TaskStats aggregates card counts for the home dashboard. A card counts as
// completed when its column title contains "done", "complete", or
// "finished", case-insensitively; columns carry no explicit done flag.
type TaskStats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
	Overdue   int `json:"overdue"`
}

// Activity is one entry in the recent-activity feed: a pseudo-event derived
// from entity timestamps rather than a persisted log.
type Activity struct {
	ID         string  `json:"id"`
	Type       string  `json:"activityType"`
	Title      string  `json:"title"`
	BoardName  string  `json:"boardName"`
	BoardIcon  *string `json:"boardIcon"`
	Timestamp  string  `json:"timestamp"`
	EntityID   string  `json:"entityId"`
	EntityType string  `json:"entityType"`
}

// Activity types.
const (
	ActivityCardCreated  = "card_created"
	ActivityCardUpdated  = "card_updated"
	ActivityBoardCreated = "board_created"
)

// Deadline is a card with a due date inside the dashboard's look-ahead
// window, including cards already overdue.
type Deadline struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Deadline  string `json:"deadline"`
	BoardName string `json:"boardName"`
	BoardID   string `json:"boardId"`
	IsOverdue bool   `json:"isOverdue"`
	DaysUntil int    `json:"daysUntil"`
}
