package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spiffcs/issues-watcher/internal/format"
	"github.com/spiffcs/issues-watcher/internal/model"
)

// MarkdownFormatter formats output as Markdown
type MarkdownFormatter struct {
	// Render styles the markdown for a terminal instead of writing it raw.
	Render bool
	Width  int
}

// Format outputs the snapshot as Markdown
func (f *MarkdownFormatter) Format(snap *model.Snapshot, w io.Writer) error {
	md := Markdown(snap)
	if !f.Render {
		_, err := io.WriteString(w, md)
		return err
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(f.Width),
	)
	if err != nil {
		return fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

// Markdown renders the snapshot as a Markdown document.
func Markdown(snap *model.Snapshot) string {
	var b strings.Builder

	b.WriteString("# Issues Snapshot\n\n")
	fmt.Fprintf(&b, "*Taken: %s*\n\n", snap.Time.Format("2006-01-02 15:04 MST"))

	if len(snap.RepoIssues) == 0 && len(snap.ProjectIssues) == 0 {
		b.WriteString("Nothing to watch.\n")
		return b.String()
	}

	for _, ri := range snap.RepoIssues {
		fmt.Fprintf(&b, "## [%s](%s) (%d)\n\n", ri.Repo, ri.Repo.HTMLURL(), len(ri.Issues))
		if len(ri.Issues) == 0 {
			b.WriteString("No open issues.\n\n")
			continue
		}
		b.WriteString("| # | Title | Assignee | Labels | Age |\n")
		b.WriteString("|---|-------|----------|--------|-----|\n")
		for _, issue := range ri.Issues {
			assignee := "-"
			if issue.Assignee != nil {
				assignee = "@" + issue.Assignee.Login
			}
			fmt.Fprintf(&b, "| [%d](%s) | %s | %s | %s | %s |\n",
				issue.Number, issue.URL(),
				escapeCell(issue.Title),
				assignee,
				escapeCell(strings.Join(issue.LabelNames(), ", ")),
				format.Age(issue.CreatedAt, snap.Time))
		}
		b.WriteString("\n")
	}

	for _, pi := range snap.ProjectIssues {
		fmt.Fprintf(&b, "## [%s](%s)\n\n", pi.Project, pi.Project.HTMLURL())
		for _, col := range pi.Columns {
			active := col.ActiveCards()
			fmt.Fprintf(&b, "### %s (%d)\n\n", col.Name, len(active))
			for _, card := range active {
				text := cardText(card)
				if card.Content != nil {
					text = fmt.Sprintf("[%s](%s)", text, contentURL(card))
				}
				fmt.Fprintf(&b, "- %s %s\n", card.Kind, text)
			}
			if len(active) > 0 {
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
