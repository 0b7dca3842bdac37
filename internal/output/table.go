package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spiffcs/issues-watcher/internal/format"
	"github.com/spiffcs/issues-watcher/internal/model"
)

// TableFormatter formats output as a terminal table
type TableFormatter struct {
	// Hyperlinks wraps issue numbers in OSC 8 links.
	Hyperlinks bool
}

const (
	colNumber   = 7
	colTitle    = 50
	colAssignee = 14
	colLabels   = 24
	colAge      = 4
	colCard     = 60
)

func (f *TableFormatter) link(text, url string) string {
	if !f.Hyperlinks || url == "" {
		return text
	}
	return format.Hyperlink(text, url)
}

// Format outputs the snapshot as one table per repository and board
func (f *TableFormatter) Format(snap *model.Snapshot, w io.Writer) error {
	if len(snap.RepoIssues) == 0 && len(snap.ProjectIssues) == 0 {
		fmt.Fprintln(w, "Nothing to watch. Add repos or projects to the config file.")
		return nil
	}

	for i, ri := range snap.RepoIssues {
		if i > 0 {
			fmt.Fprintln(w)
		}
		f.formatRepo(ri, snap, w)
	}

	for i, pi := range snap.ProjectIssues {
		if i > 0 || len(snap.RepoIssues) > 0 {
			fmt.Fprintln(w)
		}
		f.formatProject(pi, snap, w)
	}

	printFooter(snap, w)
	return nil
}

func (f *TableFormatter) formatRepo(ri model.RepoIssues, snap *model.Snapshot, w io.Writer) {
	fmt.Fprintf(w, "%s %s\n",
		color.New(color.Bold).Sprint(f.link(ri.Repo.String(), ri.Repo.HTMLURL())),
		color.HiBlackString("(%d issues)", len(ri.Issues)))

	if len(ri.Issues) == 0 {
		fmt.Fprintln(w, color.HiBlackString("  no open issues"))
		return
	}

	fmt.Fprintf(w, "  %-*s %-*s  %-*s  %-*s  %-*s  %s\n",
		format.IconWidth-1, "",
		colNumber, "#",
		colTitle, "Title",
		colAssignee, "Assignee",
		colLabels, "Labels",
		"Age")
	fmt.Fprintln(w, "  "+strings.Repeat("-", format.IconWidth+colNumber+colTitle+colAssignee+colLabels+colAge+9))

	for _, issue := range ri.Issues {
		icon := format.IssueMarker(issue)
		iconCol := format.PadRight(icon, format.DisplayWidth(icon), format.IconWidth-1)

		number := fmt.Sprintf("#%d", issue.Number)
		if issue.IsPullRequest() {
			number = fmt.Sprintf("!%d", issue.Number)
		}
		numberCol := format.PadRight(f.link(number, issue.URL()), len(number), colNumber)

		title, titleWidth := format.TruncateToWidth(issue.Title, colTitle)
		titleCol := format.PadRight(title, titleWidth, colTitle)

		assignee := color.HiBlackString("-")
		assigneeWidth := 1
		if issue.Assignee != nil {
			assignee = format.TruncateUsername(issue.Assignee.Login, colAssignee)
			assigneeWidth = format.DisplayWidth(assignee)
		}
		assigneeCol := format.PadRight(assignee, assigneeWidth, colAssignee)

		labels, labelsWidth := format.TruncateToWidth(strings.Join(issue.LabelNames(), ","), colLabels)
		labelsCol := format.PadRight(color.CyanString(labels), labelsWidth, colLabels)

		fmt.Fprintf(w, "  %s %s  %s  %s  %s  %s\n",
			iconCol, numberCol, titleCol, assigneeCol, labelsCol,
			colorAge(issue, snap))
	}
}

func (f *TableFormatter) formatProject(pi model.ProjectIssues, snap *model.Snapshot, w io.Writer) {
	fmt.Fprintf(w, "%s %s\n",
		color.New(color.Bold).Sprint(f.link(pi.Project.String(), pi.Project.HTMLURL())),
		color.HiBlackString("(%d columns)", len(pi.Columns)))

	for _, col := range pi.Columns {
		active := col.ActiveCards()
		fmt.Fprintf(w, "  %s %s\n", color.YellowString(col.Name), color.HiBlackString("(%d)", len(active)))
		for _, card := range active {
			icon := format.CardIcon(card.Kind)
			text, _ := format.TruncateToWidth(cardText(card), colCard)
			if card.Content != nil {
				text = f.link(text, contentURL(card))
			}
			fmt.Fprintf(w, "    %s %s %s\n", icon, text,
				color.HiBlackString(format.Age(card.CreatedAt, snap.Time)))
		}
	}
}

// cardText is the one-line description of a card.
func cardText(card model.Card) string {
	switch {
	case card.Content != nil:
		return fmt.Sprintf("%s/%s#%d", card.Content.Owner, card.Content.Repo, card.Content.Number)
	case card.Note != nil:
		note, _, _ := strings.Cut(strings.TrimSpace(*card.Note), "\n")
		return note
	default:
		return ""
	}
}

func contentURL(card model.Card) string {
	kind := "issues"
	if card.Kind == model.CardPullRequest {
		kind = "pull"
	}
	return fmt.Sprintf("https://github.com/%s/%s/%s/%d", card.Content.Owner, card.Content.Repo, kind, card.Content.Number)
}

// colorAge renders an issue's age, red once it is older than a week.
func colorAge(issue model.Issue, snap *model.Snapshot) string {
	age := format.Age(issue.CreatedAt, snap.Time)
	if issue.Age(snap.Time).Hours() > 24*7 {
		return color.RedString(age)
	}
	return age
}

func printFooter(snap *model.Snapshot, w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("━", 60))
	fmt.Fprintf(w, "  %d issues across %d repos, %d cards across %d boards\n",
		snap.IssueCount(), len(snap.RepoIssues), snap.CardCount(), len(snap.ProjectIssues))
	fmt.Fprintf(w, "  %s\n", color.HiBlackString("snapshot taken %s", snap.Time.Format("2006-01-02 15:04 MST")))
}
