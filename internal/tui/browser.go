package tui

import (
	"fmt"
	"os/exec"
	"runtime"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spiffcs/issues-watcher/internal/model"
)

// Pane represents which list is shown in the browser.
type Pane int

const (
	PaneIssues Pane = iota // Repository issues
	PaneCards              // Board cards
)

// row is one selectable line of the browser.
type row struct {
	icon     string
	location string // "owner/repo" or "owner/repo#n / Column"
	title    string
	assignee string
	url      string
	created  time.Time
}

// BrowserModel is the Bubble Tea model for browsing a snapshot.
type BrowserModel struct {
	issues       []row
	cards        []row
	activePane   Pane
	issueCursor  int
	cardCursor   int
	now          time.Time
	windowWidth  int
	windowHeight int
	statusMsg    string
	quitting     bool
}

// NewBrowserModel flattens a snapshot into browsable rows.
func NewBrowserModel(snap *model.Snapshot) BrowserModel {
	m := BrowserModel{
		now:          snap.Time,
		windowWidth:  80,
		windowHeight: 24,
	}

	for _, ri := range snap.RepoIssues {
		for _, issue := range ri.Issues {
			r := row{
				icon:     issueIcon(issue),
				location: ri.Repo.String(),
				title:    fmt.Sprintf("#%d %s", issue.Number, issue.Title),
				url:      issue.URL(),
				created:  issue.CreatedAt,
			}
			if issue.Assignee != nil {
				r.assignee = issue.Assignee.Login
			}
			m.issues = append(m.issues, r)
		}
	}

	for _, pi := range snap.ProjectIssues {
		for _, col := range pi.Columns {
			for _, card := range col.ActiveCards() {
				m.cards = append(m.cards, cardRow(pi.Project, col, card))
			}
		}
	}

	return m
}

func cardRow(project model.ProjectRef, col model.Column, card model.Card) row {
	r := row{
		location: fmt.Sprintf("%s / %s", project, col.Name),
		url:      project.HTMLURL(),
		created:  card.CreatedAt,
	}
	switch {
	case card.Content != nil:
		kind := "issues"
		r.icon = "◉"
		if card.Kind == model.CardPullRequest {
			kind = "pull"
			r.icon = "⇄"
		}
		r.title = fmt.Sprintf("%s/%s#%d", card.Content.Owner, card.Content.Repo, card.Content.Number)
		r.url = fmt.Sprintf("https://github.com/%s/%s/%s/%d", card.Content.Owner, card.Content.Repo, kind, card.Content.Number)
	case card.Note != nil:
		r.icon = "✎"
		r.title = firstLine(*card.Note)
	}
	return r
}

func issueIcon(issue model.Issue) string {
	if issue.IsPullRequest() {
		return "⇄"
	}
	return "◉"
}

// activeRows returns the rows of the active pane
func (m *BrowserModel) activeRows() []row {
	if m.activePane == PaneCards {
		return m.cards
	}
	return m.issues
}

// activeCursor returns the cursor position for the active pane
func (m *BrowserModel) activeCursor() int {
	if m.activePane == PaneCards {
		return m.cardCursor
	}
	return m.issueCursor
}

// setActiveCursor sets the cursor position for the active pane
func (m *BrowserModel) setActiveCursor(pos int) {
	if m.activePane == PaneCards {
		m.cardCursor = pos
	} else {
		m.issueCursor = pos
	}
}

// Init implements tea.Model
func (m BrowserModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		return m, nil

	case clearStatusMsg:
		m.statusMsg = ""
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input
func (m BrowserModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "tab":
		if m.activePane == PaneIssues {
			m.activePane = PaneCards
		} else {
			m.activePane = PaneIssues
		}

	case "1":
		m.activePane = PaneIssues

	case "2":
		m.activePane = PaneCards

	case "j", "down":
		if cursor := m.activeCursor(); cursor < len(m.activeRows())-1 {
			m.setActiveCursor(cursor + 1)
		}

	case "k", "up":
		if cursor := m.activeCursor(); cursor > 0 {
			m.setActiveCursor(cursor - 1)
		}

	case "g", "home":
		m.setActiveCursor(0)

	case "G", "end":
		if rows := m.activeRows(); len(rows) > 0 {
			m.setActiveCursor(len(rows) - 1)
		}

	case "enter", "o":
		return m.openInBrowser()
	}

	return m, nil
}

// openInBrowser opens the selected row in the default browser
func (m BrowserModel) openInBrowser() (tea.Model, tea.Cmd) {
	rows := m.activeRows()
	if len(rows) == 0 {
		return m, nil
	}

	url := rows[m.activeCursor()].url
	if url == "" {
		m.statusMsg = "No URL available"
		return m, clearStatusAfter(2 * time.Second)
	}
	m.statusMsg = "Opening " + url
	return m, tea.Batch(openURL(url), clearStatusAfter(2*time.Second))
}

// View implements tea.Model
func (m BrowserModel) View() string {
	if m.quitting {
		return ""
	}
	return renderBrowser(m)
}

// clearStatusMsg is a message to clear the status
type clearStatusMsg struct{}

// clearStatusAfter returns a command that clears the status after a delay
func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// openURL opens a URL in the default browser
func openURL(url string) tea.Cmd {
	return func() tea.Msg {
		var cmd *exec.Cmd

		switch runtime.GOOS {
		case "darwin":
			cmd = exec.Command("open", url)
		case "linux":
			cmd = exec.Command("xdg-open", url)
		case "windows":
			cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
		default:
			return nil
		}

		_ = cmd.Start()
		return nil
	}
}
