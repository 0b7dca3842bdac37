package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/spiffcs/issues-watcher/internal/duration"
	"github.com/spiffcs/issues-watcher/internal/model"
)

// Summary renders the plain-text relay message for a snapshot: the issue
// count, one issue URL per line, then a line per board with its card count.
// When filtered is set the issues are described as no-reply issues older
// than window; otherwise they are only open issues.
func Summary(snap *model.Snapshot, window time.Duration, filtered bool) string {
	var b strings.Builder

	issues := snap.Issues()
	if filtered {
		fmt.Fprintf(&b, "%d no-reply issues in %s\n", len(issues), describeWindow(window))
	} else {
		fmt.Fprintf(&b, "%d open issues\n", len(issues))
	}
	for _, issue := range issues {
		b.WriteString(issue.URL())
		b.WriteString("\n")
	}

	for _, pi := range snap.ProjectIssues {
		cards := 0
		for _, col := range pi.Columns {
			cards += len(col.ActiveCards())
		}
		fmt.Fprintf(&b, "%s: %d cards in %d columns\n", pi.Project.HTMLURL(), cards, len(pi.Columns))
	}

	return b.String()
}

// describeWindow renders a window like "3 days".
func describeWindow(window time.Duration) string {
	if window <= 0 {
		return "any age"
	}
	days := int(window.Hours() / 24)
	switch {
	case days == 1 && window == 24*time.Hour:
		return "1 day"
	case days > 1 && window == time.Duration(days)*24*time.Hour:
		return fmt.Sprintf("%d days", days)
	default:
		return duration.Format(window)
	}
}
