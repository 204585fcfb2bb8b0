package drive

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveFolderPath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "standard_site_prefix",
			input:    "sites/DefaultDirectory/Shared Documents/Platform architecture/Processes",
			expected: "Shared Documents/Platform architecture/Processes",
		},
		{
			name:     "library_root_repeated_uses_last_occurrence",
			input:    "sites/Foo/Shared Documents/Foo/Shared Documents/Bar",
			expected: "Shared Documents/Bar",
		},
		{
			name:     "no_library_root_strips_site_segment",
			input:    "sites/Contoso/Custom Library/Reports",
			expected: "Custom Library/Reports",
		},
		{
			name:     "no_recognizable_structure_returned_trimmed",
			input:    "/Some Library/Deep/Path/",
			expected: "Some Library/Deep/Path",
		},
		{
			name:     "bare_sites_prefix_without_remainder",
			input:    "sites/Contoso",
			expected: "sites/Contoso",
		},
		{
			name:     "empty_input",
			input:    "",
			expected: "",
		},
		{
			name:     "whitespace_only",
			input:    "   ",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DeriveFolderPath(tt.input))
		})
	}
}

func TestParentFolderPath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "encoded_root_path",
			input:    "/drive/root:/Shared%20Documents/Platform%20architecture",
			expected: "Shared Documents/Platform architecture",
		},
		{
			name:     "plain_root_path",
			input:    "/drive/root:/Shared Documents/Finance",
			expected: "Shared Documents/Finance",
		},
		{
			name:     "non_root_reference",
			input:    "/drives/b!abc/items/123",
			expected: "",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParentFolderPath(tt.input))
		})
	}
}

func TestItemRestoredPath(t *testing.T) {
	item := &Item{
		Name:       "report.xlsx",
		ParentPath: "/drive/root:/Shared%20Documents/Finance",
	}
	assert.Equal(t, "Shared Documents/Finance/report.xlsx", item.RestoredPath())

	orphan := &Item{Name: "report.xlsx"}
	assert.Equal(t, "report.xlsx", orphan.RestoredPath())
}
