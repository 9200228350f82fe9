package types

// Defaults for the workspace created on first run, so boards always have a
// parent to attach to.
const (
	DefaultWorkspaceID    = "workspace-default"
	DefaultWorkspaceName  = "Default Workspace"
	DefaultWorkspaceColor = "#6366F1"
)

// Workspace is the top-level grouping for boards.
type Workspace struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Color      *string `json:"color"`
	IconPath   *string `json:"iconPath"`
	CreatedAt  string  `json:"createdAt"`
	UpdatedAt  string  `json:"updatedAt"`
	ArchivedAt *string `json:"archivedAt"`
}

// CreateWorkspaceParams carries the caller-supplied fields for a new
// workspace. ID may be empty; the store then assigns one.
type CreateWorkspaceParams struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Color *string `json:"color"`
}

// WorkspacePatch updates only the fields that are non-nil. An empty string
// clears an optional field.
type WorkspacePatch struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}
