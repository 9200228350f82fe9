package types

// Themes the shell can render.
const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"
)

var validThemes = map[string]bool{
	ThemeLight:  true,
	ThemeDark:   true,
	ThemeSystem: true,
}

// Preferences is the small settings document persisted beside the database.
type Preferences struct {
	Theme               string  `json:"theme"`
	TransparencyEnabled bool    `json:"transparencyEnabled"`
	LastWorkspaceID     *string `json:"lastWorkspaceId"`
}

// DefaultPreferences returns the settings used when no preferences file
// exists yet.
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:               ThemeSystem,
		TransparencyEnabled: true,
	}
}

// Validate checks the preferences document before it is persisted.
func (p Preferences) Validate() error {
	if !validThemes[p.Theme] {
		return ErrInvalidTheme
	}
	return nil
}
