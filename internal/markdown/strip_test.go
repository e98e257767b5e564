package markdown

import (
	"testing"
)

func TestStrip(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Inline markup",
			input:    "**bold** and *italic* and _under_ and `code` and [a](http://x)",
			expected: "bold and italic and under and code and a",
		},
		{
			name:     "Bullets",
			input:    "* first\n- second\n  • third",
			expected: "first\nsecond\nthird",
		},
		{
			name:     "Round bullet without space",
			input:    "•Roots\n  •Stem",
			expected: "Roots\nStem",
		},
		{
			name:     "Ordinal list",
			input:    "1. Sunlight\n2. Water\n10. Air",
			expected: "Sunlight\nWater\nAir",
		},
		{
			name:     "Bold bullet item",
			input:    "- **Leaves** catch light",
			expected: "Leaves catch light",
		},
		{
			name:     "Bold at line start is not a bullet",
			input:    "**Plants** eat light",
			expected: "Plants eat light",
		},
		{
			name:     "Decimal number at line start is kept",
			input:    "3.14 is pi",
			expected: "3.14 is pi",
		},
		{
			name:     "Hyphenated word is not a bullet",
			input:    "-ish words stay",
			expected: "-ish words stay",
		},
		{
			name:     "Link with emphasis label",
			input:    "See [*the docs*](https://example.com/docs).",
			expected: "See the docs.",
		},
		{
			name:     "Plain text untouched",
			input:    "Plants make food from sunlight.",
			expected: "Plants make food from sunlight.",
		},
		{
			name:     "Empty",
			input:    "",
			expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Strip(tc.input)
			if got != tc.expected {
				t.Errorf("Strip(%q) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestStripIdempotent(t *testing.T) {
	inputs := []string{
		"**bold** and *italic* and _under_ and `code` and [a](http://x)",
		"* * nested bullet",
		"1. 2. double ordinal",
		"***triple*** emphasis",
		"- [**link**](http://x) in a list\n\n3. `code` item",
		"__dunder__ and snake_case_name",
		"no markup at all",
	}

	for _, input := range inputs {
		once := Strip(input)
		twice := Strip(once)
		if once != twice {
			t.Errorf("Strip is not idempotent for %q: once=%q twice=%q", input, once, twice)
		}
	}
}

func TestStripNestedBullet(t *testing.T) {
	if got := Strip("* * nested bullet"); got != "nested bullet" {
		t.Errorf("Expected nested markers to be removed, got %q", got)
	}
}
