package format

import (
	"strings"
	"testing"
)

func TestStripAnsi(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"no ansi", "hello", "hello"},
		{"single color", "\x1b[31mred\x1b[0m", "red"},
		{"multiple colors", "\x1b[31mred\x1b[0m \x1b[32mgreen\x1b[0m", "red green"},
		{"hyperlink", Hyperlink("tidb#1", "https://github.com/pingcap/tidb/issues/1"), "tidb#1"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripAnsi(tt.input); got != tt.expected {
				t.Errorf("StripAnsi(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDisplayWidth(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{"empty", "", 0},
		{"ascii", "hello", 5},
		{"with ansi", "\x1b[31mred\x1b[0m", 3},
		{"emoji", HotTopicIcon, 2},
		{"emoji with selector", OpaqueIcon, 2},
		{"cjk", "中文", 4},
		{"hyperlink", Hyperlink("abc", "https://example.com"), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DisplayWidth(tt.input); got != tt.expected {
				t.Errorf("DisplayWidth(%q) = %d, want %d", tt.input, got, tt.expected)
			}
		})
	}
}

func TestTruncateToWidth(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		maxWidth  int
		wantPlain string
		wantWidth int
	}{
		{"fits", "hello", 10, "hello", 5},
		{"exact", "hello", 5, "hello", 5},
		{"truncated", "hello world", 8, "hello...", 8},
		{"wide runes", "中文中文中文", 7, "中文...", 7},
		{"colored", "\x1b[31mhello world\x1b[0m", 8, "hello...", 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, width := TruncateToWidth(tt.input, tt.maxWidth)
			if plain := StripAnsi(got); plain != tt.wantPlain {
				t.Errorf("TruncateToWidth(%q, %d) = %q, want %q", tt.input, tt.maxWidth, plain, tt.wantPlain)
			}
			if width != tt.wantWidth {
				t.Errorf("width = %d, want %d", width, tt.wantWidth)
			}
			if width > tt.maxWidth {
				t.Errorf("width %d exceeds max %d", width, tt.maxWidth)
			}
		})
	}
}

func TestPadRight(t *testing.T) {
	if got := PadRight("ab", 2, 5); got != "ab   " {
		t.Errorf("PadRight = %q", got)
	}
	if got := PadRight("abcdef", 6, 3); got != "abcdef" {
		t.Errorf("PadRight should not cut, got %q", got)
	}
}

func TestHyperlink(t *testing.T) {
	got := Hyperlink("text", "https://github.com")
	if !strings.HasPrefix(got, "\033]8;;https://github.com\033\\") || !strings.HasSuffix(got, "\033]8;;\033\\") {
		t.Errorf("Hyperlink = %q", got)
	}
}

func TestTruncateUsername(t *testing.T) {
	tests := []struct {
		input    string
		maxWidth int
		want     string
	}{
		{"octocat", 10, "octocat"},
		{"octocat", 4, "oct…"},
		{"octocat", 1, "o"},
	}
	for _, tt := range tests {
		if got := TruncateUsername(tt.input, tt.maxWidth); got != tt.want {
			t.Errorf("TruncateUsername(%q, %d) = %q, want %q", tt.input, tt.maxWidth, got, tt.want)
		}
	}
}
