// Package output renders snapshots for the terminal, for scripts and for
// chat relays.
package output

import (
	"io"
	"os"

	"github.com/spiffcs/issues-watcher/internal/model"
	"golang.org/x/term"
)

// Format represents the output format
type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// Formats lists every supported format.
var Formats = []Format{FormatTable, FormatJSON, FormatMarkdown}

// Valid reports whether f names a supported format.
func (f Format) Valid() bool {
	for _, known := range Formats {
		if f == known {
			return true
		}
	}
	return false
}

// Formatter defines the interface for output formatters
type Formatter interface {
	Format(snap *model.Snapshot, w io.Writer) error
}

// NewFormatter creates a formatter for the specified format. Terminal
// niceties such as hyperlinks and rendered markdown are enabled only when
// stdout is a terminal.
func NewFormatter(format Format) Formatter {
	tty := isTerminal()
	switch format {
	case FormatJSON:
		return &JSONFormatter{Pretty: tty}
	case FormatMarkdown:
		return &MarkdownFormatter{Render: tty, Width: terminalWidth()}
	default:
		return &TableFormatter{Hyperlinks: tty}
	}
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 100
	}
	return width
}
