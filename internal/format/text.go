// Package format provides shared text helpers for terminal output.
package format

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// ansiPattern matches SGR color sequences and OSC 8 hyperlink markers.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m|\x1b\]8;;[^\x1b]*\x1b\\`)

// StripAnsi removes escape sequences from s.
func StripAnsi(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// DisplayWidth returns how many terminal columns s occupies once escape
// sequences are removed. An emoji followed by U+FE0F counts as two columns.
func DisplayWidth(s string) int {
	runes := []rune(StripAnsi(s))
	width := 0
	for i := 0; i < len(runes); i++ {
		if i+1 < len(runes) && runes[i+1] == '\uFE0F' {
			width += 2
			i++
			continue
		}
		if runes[i] == '\uFE0F' {
			continue
		}
		width += runewidth.RuneWidth(runes[i])
	}
	return width
}

// TruncateToWidth shortens s to at most maxWidth columns, ending it with
// "..." when anything was cut. Escape sequences are carried over untouched.
// It returns the result and its visible width.
func TruncateToWidth(s string, maxWidth int) (string, int) {
	if w := DisplayWidth(s); w <= maxWidth {
		return s, w
	}
	target := max(maxWidth-3, 0)

	escapes := ansiPattern.FindAllStringIndex(s, -1)
	var b strings.Builder
	width, pos, next := 0, 0, 0
	for pos < len(s) && width < target {
		if next < len(escapes) && pos == escapes[next][0] {
			b.WriteString(s[escapes[next][0]:escapes[next][1]])
			pos = escapes[next][1]
			next++
			continue
		}

		r, size := utf8.DecodeRuneInString(s[pos:])
		rw := runewidth.RuneWidth(r)
		end := pos + size
		if end < len(s) {
			if vs, vsSize := utf8.DecodeRuneInString(s[end:]); vs == '\uFE0F' {
				rw = 2
				end += vsSize
			}
		}
		if width+rw > target {
			break
		}
		b.WriteString(s[pos:end])
		width += rw
		pos = end
	}
	b.WriteString("...\033[0m")
	return b.String(), width + 3
}

// PadRight pads s with spaces from visibleWidth up to targetWidth.
func PadRight(s string, visibleWidth, targetWidth int) string {
	if visibleWidth >= targetWidth {
		return s
	}
	return s + strings.Repeat(" ", targetWidth-visibleWidth)
}

// Hyperlink wraps text in an OSC 8 terminal hyperlink to url.
func Hyperlink(text, url string) string {
	return fmt.Sprintf("\033]8;;%s\033\\%s\033]8;;\033\\", url, text)
}

// TruncateUsername shortens a login to maxWidth, ending it with an ellipsis.
func TruncateUsername(username string, maxWidth int) string {
	if len(username) <= maxWidth {
		return username
	}
	if maxWidth <= 1 {
		return username[:maxWidth]
	}
	return username[:maxWidth-1] + "…"
}
