package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spiffcs/issues-watcher/internal/model"
)

func browserSnapshot() *model.Snapshot {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	note := "triage weekly\nsecond line"
	return &model.Snapshot{
		Time: now,
		RepoIssues: []model.RepoIssues{{
			Repo: model.RepoRef{Owner: "pingcap", Name: "tidb"},
			Issues: []model.Issue{
				{Number: 1, Title: "first", Owner: "pingcap", Repo: "tidb", CreatedAt: now.Add(-48 * time.Hour)},
				{Number: 2, Title: "second", Owner: "pingcap", Repo: "tidb", Assignee: &model.Assignee{Login: "octocat"}},
				{Number: 3, Title: "third", Owner: "pingcap", Repo: "tidb"},
			},
		}},
		ProjectIssues: []model.ProjectIssues{{
			Project: model.ProjectRef{Owner: "pingcap", Name: "docs", Number: 3},
			Columns: []model.Column{{
				ID:   1,
				Name: "To do",
				Cards: []model.Card{
					{ID: 1, Kind: model.CardNote, Note: &note},
					{ID: 2, Kind: model.CardPullRequest, Content: &model.CardContent{Owner: "pingcap", Repo: "docs", Number: 9}},
					{ID: 3, Kind: model.CardOpaque},
				},
			}},
		}},
	}
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m BrowserModel, keys ...tea.KeyMsg) BrowserModel {
	for _, k := range keys {
		updated, _ := m.Update(k)
		m = updated.(BrowserModel)
	}
	return m
}

func TestNewBrowserModel(t *testing.T) {
	m := NewBrowserModel(browserSnapshot())

	if len(m.issues) != 3 {
		t.Errorf("issues = %d, want 3", len(m.issues))
	}
	if len(m.cards) != 2 {
		t.Fatalf("cards = %d, want 2 (opaque card skipped)", len(m.cards))
	}
	if m.cards[0].title != "triage weekly" {
		t.Errorf("note title = %q", m.cards[0].title)
	}
	if m.cards[1].url != "https://github.com/pingcap/docs/pull/9" {
		t.Errorf("card url = %q", m.cards[1].url)
	}
	if m.issues[1].assignee != "octocat" {
		t.Errorf("assignee = %q", m.issues[1].assignee)
	}
}

func TestBrowserNavigation(t *testing.T) {
	m := NewBrowserModel(browserSnapshot())

	m = press(m, key("j"), key("j"), key("j"))
	if m.issueCursor != 2 {
		t.Errorf("cursor = %d, want 2 (clamped)", m.issueCursor)
	}
	m = press(m, key("k"))
	if m.issueCursor != 1 {
		t.Errorf("cursor = %d, want 1", m.issueCursor)
	}
	m = press(m, key("g"))
	if m.issueCursor != 0 {
		t.Errorf("cursor = %d, want 0", m.issueCursor)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.activePane != PaneCards {
		t.Fatal("tab should switch to cards")
	}
	m = press(m, key("G"))
	if m.cardCursor != 1 {
		t.Errorf("card cursor = %d, want 1", m.cardCursor)
	}
	if m.issueCursor != 0 {
		t.Error("issue cursor moved while cards were active")
	}

	m = press(m, key("1"))
	if m.activePane != PaneIssues {
		t.Error("1 should select issues")
	}
}

func TestBrowserQuit(t *testing.T) {
	m := NewBrowserModel(browserSnapshot())
	updated, cmd := m.Update(key("q"))
	if !updated.(BrowserModel).quitting || cmd == nil {
		t.Error("q should quit")
	}
	if updated.(BrowserModel).View() != "" {
		t.Error("view should be empty after quitting")
	}
}

func TestBrowserView(t *testing.T) {
	m := NewBrowserModel(browserSnapshot())
	view := m.View()
	for _, want := range []string{"Issues (3)", "Cards (2)", "#1 first", "pingcap/tidb", "2d"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	empty := NewBrowserModel(&model.Snapshot{})
	if !strings.Contains(empty.View(), "Nothing here") {
		t.Error("expected empty state")
	}
}

func TestCalculateScrollWindow(t *testing.T) {
	tests := []struct {
		cursor, total, height int
		start, end            int
	}{
		{0, 5, 10, 0, 5},
		{0, 20, 10, 0, 10},
		{10, 20, 10, 5, 15},
		{19, 20, 10, 10, 20},
	}
	for _, tt := range tests {
		start, end := calculateScrollWindow(tt.cursor, tt.total, tt.height)
		if start != tt.start || end != tt.end {
			t.Errorf("calculateScrollWindow(%d, %d, %d) = %d, %d, want %d, %d",
				tt.cursor, tt.total, tt.height, start, end, tt.start, tt.end)
		}
	}
}
