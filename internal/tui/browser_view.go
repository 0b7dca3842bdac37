package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spiffcs/issues-watcher/internal/format"
)

const (
	colIcon     = 2
	colLocation = 32
	colTitle    = 56
	colAssignee = 14
	colAge      = 4

	// chromeLines is the number of lines used by the tab bar, header and help.
	chromeLines = 7
)

// renderBrowser renders the complete browser view
func renderBrowser(m BrowserModel) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(renderTabBar(m.activePane, len(m.issues), len(m.cards)))
	b.WriteString("\n\n")

	rows := m.activeRows()
	if len(rows) == 0 {
		b.WriteString(listEmptyStyle.Render("Nothing here. Every watched item is quiet."))
		b.WriteString("\n\n")
		b.WriteString(renderHelp())
		return b.String()
	}

	b.WriteString(renderHeader())
	b.WriteString("\n")
	b.WriteString(listSeparatorStyle.Render(strings.Repeat("─", tableWidth())))
	b.WriteString("\n")

	cursor := m.activeCursor()
	start, end := calculateScrollWindow(cursor, len(rows), max(m.windowHeight-chromeLines, 1))
	for i := start; i < end; i++ {
		b.WriteString(renderRow(m, rows[i], i == cursor))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(renderHelp())
	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(listStatusStyle.Render(m.statusMsg))
	}
	return b.String()
}

// renderTabBar renders the pane tabs with their item counts
func renderTabBar(active Pane, issueCount, cardCount int) string {
	tabs := []struct {
		pane  Pane
		label string
	}{
		{PaneIssues, fmt.Sprintf("1 Issues (%d)", issueCount)},
		{PaneCards, fmt.Sprintf("2 Cards (%d)", cardCount)},
	}

	parts := make([]string, 0, len(tabs))
	for _, t := range tabs {
		if t.pane == active {
			parts = append(parts, tabActiveStyle.Render(t.label))
		} else {
			parts = append(parts, tabInactiveStyle.Render(t.label))
		}
	}
	return "  " + strings.Join(parts, "  ")
}

// calculateScrollWindow determines which rows to show based on cursor position
func calculateScrollWindow(cursor, total, viewHeight int) (start, end int) {
	if total <= viewHeight {
		return 0, total
	}

	start = max(cursor-viewHeight/2, 0)
	end = start + viewHeight
	if end > total {
		end = total
		start = max(end-viewHeight, 0)
	}
	return start, end
}

func tableWidth() int {
	return colIcon + colLocation + colTitle + colAssignee + colAge + 10
}

func renderHeader() string {
	return listHeaderStyle.Render(fmt.Sprintf("  %-*s %-*s  %-*s  %-*s  %s",
		colIcon, "",
		colLocation, "Where",
		colTitle, "Title",
		colAssignee, "Assignee",
		"Age"))
}

func renderRow(m BrowserModel, r row, selected bool) string {
	location, locWidth := format.TruncateToWidth(r.location, colLocation)
	title, titleWidth := format.TruncateToWidth(r.title, colTitle)

	assignee := "-"
	if r.assignee != "" {
		assignee = format.TruncateUsername(r.assignee, colAssignee)
	}

	age := ""
	if !r.created.IsZero() {
		age = format.Age(r.created, m.now)
	}

	line := fmt.Sprintf("%s %s  %s  %s  %s",
		format.PadRight(r.icon, format.DisplayWidth(r.icon), colIcon),
		format.PadRight(applyStyle(listLocationStyle, location, selected), locWidth, colLocation),
		format.PadRight(title, titleWidth, colTitle),
		format.PadRight(applyStyle(listAssigneeStyle, assignee, selected), format.DisplayWidth(assignee), colAssignee),
		applyStyle(listAgeStyle, age, selected))

	if selected {
		return listCursorStyle.Render("▸ ") + listSelectedStyle.Render(line)
	}
	return "  " + line
}

// renderHelp renders the help text
func renderHelp() string {
	return listHelpStyle.Render("Tab/1-2: panes   j/k: nav   g/G: top/bottom   enter: open   q: quit")
}

// applyStyle renders text with the given style when not selected.
// When selected, returns plain text so the row highlight is not interrupted.
func applyStyle(s lipgloss.Style, text string, selected bool) string {
	if selected {
		return text
	}
	return s.Render(text)
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}
