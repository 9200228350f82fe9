package types

import "strings"

// Length limits for user-supplied text, in bytes.
const (
	MaxTitleLen   = 200
	MaxTagLabel   = 100
	MaxNoteLength = 50000
)

// NormalizeTitle trims the value and enforces non-emptiness and the given
// maximum byte length. Returns the trimmed value.
func NormalizeTitle(value string, maxLen int) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", ErrEmptyTitle
	}
	if len(trimmed) > maxLen {
		return "", ErrTitleTooLong
	}
	return trimmed, nil
}

// NormalizeColor validates an optional #RRGGBB color. Empty or whitespace
// input clears the color (returns nil).
func NormalizeColor(color *string) (*string, error) {
	if color == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*color)
	if trimmed == "" {
		return nil, nil
	}
	if !isHexColor(trimmed) {
		return nil, ErrInvalidColor
	}
	return &trimmed, nil
}

// NormalizeRequiredColor validates a mandatory #RRGGBB color.
func NormalizeRequiredColor(color string) (string, error) {
	trimmed := strings.TrimSpace(color)
	if !isHexColor(trimmed) {
		return "", ErrInvalidColor
	}
	return trimmed, nil
}

func isHexColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, c := range s[1:] {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
