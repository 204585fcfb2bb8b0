package drive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchesRestoredName(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		want      string
		expected  bool
	}{
		{"exact_match", "report.xlsx", "report.xlsx", true},
		{"restore_rename_suffix", "report (1).xlsx", "report.xlsx", true},
		{"different_stem", "budget.xlsx", "report.xlsx", false},
		{"no_extension_exact", "README", "README", true},
		{"no_extension_prefix", "README (1)", "README", true},
		{"empty_candidate", "", "report.xlsx", false},
		{"empty_want", "report.xlsx", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MatchesRestoredName(tt.candidate, tt.want))
		})
	}
}

func TestRank_EmptyInput(t *testing.T) {
	assert.Nil(t, Rank(nil, "Shared Documents/Finance"))
	assert.Nil(t, Rank([]*Item{}, ""))
}

func TestRank_PrefersMostRecent(t *testing.T) {
	older := &Item{ID: "a", Name: "report (1).xlsx", LastModified: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	newer := &Item{ID: "b", Name: "report.xlsx", LastModified: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)}

	got := Rank([]*Item{older, newer}, "")
	require.NotNil(t, got)
	assert.Equal(t, "b", got.ID)
}

func TestRank_FolderProximityBeatsRecency(t *testing.T) {
	// The folder-matching candidate must win even when a candidate elsewhere
	// is more recent.
	elsewhere := &Item{
		ID:           "far",
		Name:         "report.xlsx",
		LastModified: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		ParentPath:   "/drive/root:/Archive",
	}
	inFolder := &Item{
		ID:           "near",
		Name:         "report.xlsx",
		LastModified: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ParentPath:   "/drive/root:/Shared%20Documents/Finance",
	}

	got := Rank([]*Item{elsewhere, inFolder}, "Shared Documents/Finance")
	require.NotNil(t, got)
	assert.Equal(t, "near", got.ID)
}

func TestRank_FallsBackToFullSetWhenNoFolderMatch(t *testing.T) {
	only := &Item{
		ID:         "x",
		Name:       "report.xlsx",
		ParentPath: "/drive/root:/Archive",
	}
	got := Rank([]*Item{only}, "Shared Documents/Finance")
	require.NotNil(t, got)
	assert.Equal(t, "x", got.ID)
}

func TestRank_Idempotent(t *testing.T) {
	items := []*Item{
		{ID: "a", LastModified: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), ParentPath: "/drive/root:/Shared Documents"},
		{ID: "b", LastModified: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), ParentPath: "/drive/root:/Shared Documents"},
	}
	first := Rank(items, "Shared Documents")
	require.NotNil(t, first)
	again := Rank([]*Item{first}, "Shared Documents")
	assert.Same(t, first, again)
}

func TestRank_DeterministicTieBreak(t *testing.T) {
	ts := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	a := &Item{ID: "aaa", LastModified: ts}
	b := &Item{ID: "bbb", LastModified: ts}

	got1 := Rank([]*Item{a, b}, "")
	got2 := Rank([]*Item{b, a}, "")
	require.NotNil(t, got1)
	assert.Equal(t, got1.ID, got2.ID)
	assert.Equal(t, "aaa", got1.ID)
}
