package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		max     int
		want    string
		wantErr error
	}{
		{name: "plain title passes", in: "Sprint board", max: MaxTitleLen, want: "Sprint board"},
		{name: "surrounding whitespace is trimmed", in: "  Backlog  ", max: MaxTitleLen, want: "Backlog"},
		{name: "empty input is rejected", in: "", max: MaxTitleLen, wantErr: ErrEmptyTitle},
		{name: "whitespace-only input is rejected", in: "   \t", max: MaxTitleLen, wantErr: ErrEmptyTitle},
		{name: "input at the limit passes", in: strings.Repeat("a", 200), max: MaxTitleLen, want: strings.Repeat("a", 200)},
		{name: "input past the limit is rejected", in: strings.Repeat("a", 201), max: MaxTitleLen, wantErr: ErrTitleTooLong},
		{name: "tag labels use the shorter limit", in: strings.Repeat("b", 101), max: MaxTagLabel, wantErr: ErrTitleTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeTitle(tt.in, tt.max)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeColor(t *testing.T) {
	str := func(s string) *string { return &s }

	tests := []struct {
		name    string
		in      *string
		want    *string
		wantErr bool
	}{
		{name: "nil stays nil", in: nil, want: nil},
		{name: "empty clears", in: str(""), want: nil},
		{name: "whitespace clears", in: str("  "), want: nil},
		{name: "lowercase hex passes", in: str("#ff5733"), want: str("#ff5733")},
		{name: "uppercase hex passes", in: str("#FF5733"), want: str("#FF5733")},
		{name: "hex is trimmed", in: str(" #ff5733 "), want: str("#ff5733")},
		{name: "missing hash is rejected", in: str("ff5733"), wantErr: true},
		{name: "short form is rejected", in: str("#f53"), wantErr: true},
		{name: "non-hex digits are rejected", in: str("#ff573g"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeColor(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidColor)
				return
			}
			require.NoError(t, err)
			if tt.want == nil {
				assert.Nil(t, got)
			} else {
				require.NotNil(t, got)
				assert.Equal(t, *tt.want, *got)
			}
		})
	}
}

func TestNormalizeIcons(t *testing.T) {
	str := func(s string) *string { return &s }

	t.Run("board icon defaults when empty", func(t *testing.T) {
		icon, err := NormalizeBoardIcon(nil)
		require.NoError(t, err)
		assert.Equal(t, DefaultBoardIcon, icon)

		icon, err = NormalizeBoardIcon(str("  "))
		require.NoError(t, err)
		assert.Equal(t, DefaultBoardIcon, icon)
	})

	t.Run("board icon outside the set is rejected", func(t *testing.T) {
		_, err := NormalizeBoardIcon(str("Skull"))
		require.ErrorIs(t, err, ErrInvalidIcon)
	})

	t.Run("column icon clears when empty", func(t *testing.T) {
		icon, err := NormalizeColumnIcon(str(""))
		require.NoError(t, err)
		assert.Nil(t, icon)
	})

	t.Run("column icon from the set passes", func(t *testing.T) {
		icon, err := NormalizeColumnIcon(str("Kanban"))
		require.NoError(t, err)
		require.NotNil(t, icon)
		assert.Equal(t, "Kanban", *icon)
	})

	t.Run("column icon outside the set is rejected", func(t *testing.T) {
		_, err := NormalizeColumnIcon(str("Folder"))
		require.ErrorIs(t, err, ErrInvalidIcon)
	})
}

func TestNormalizePriority(t *testing.T) {
	str := func(s string) *string { return &s }

	for _, valid := range []string{PriorityNone, PriorityLow, PriorityMedium, PriorityHigh} {
		got, err := NormalizePriority(str(valid))
		require.NoError(t, err)
		assert.Equal(t, valid, got)
	}

	got, err := NormalizePriority(nil)
	require.NoError(t, err)
	assert.Equal(t, PriorityNone, got)

	got, err = NormalizePriority(str(""))
	require.NoError(t, err)
	assert.Equal(t, PriorityNone, got)

	_, err = NormalizePriority(str("urgent"))
	require.ErrorIs(t, err, ErrInvalidPriority)
}
