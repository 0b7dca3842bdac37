package model

import "testing"

func TestCardClassify(t *testing.T) {
	note := "write the release notes"

	tests := []struct {
		name        string
		card        Card
		wantKind    CardKind
		wantContent *CardContent
	}{
		{
			name:     "note",
			card:     Card{ID: 1, Note: &note},
			wantKind: CardNote,
		},
		{
			name:        "issue",
			card:        Card{ID: 2, ContentURL: "https://api.github.com/repos/pingcap/tidb/issues/12"},
			wantKind:    CardIssue,
			wantContent: &CardContent{Owner: "pingcap", Repo: "tidb", Number: 12},
		},
		{
			name:        "pull request",
			card:        Card{ID: 3, ContentURL: "https://api.github.com/repos/pingcap/tidb/pulls/13"},
			wantKind:    CardPullRequest,
			wantContent: &CardContent{Owner: "pingcap", Repo: "tidb", Number: 13},
		},
		{
			name:        "pull request linked through its issue URL",
			card:        Card{ID: 6, ContentURL: "https://api.github.com/repos/pingcap/tidb/issues/5"},
			wantKind:    CardIssue,
			wantContent: &CardContent{Owner: "pingcap", Repo: "tidb", Number: 5},
		},
		{
			name:     "unknown content",
			card:     Card{ID: 4, ContentURL: "https://api.github.com/repos/pingcap/tidb/discussions/1"},
			wantKind: CardOpaque,
		},
		{
			name:     "empty",
			card:     Card{ID: 5},
			wantKind: CardOpaque,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.card.Classify()
			if got.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", got.Kind, tt.wantKind)
			}
			switch {
			case tt.wantContent == nil && got.Content != nil:
				t.Errorf("Content = %+v, want nil", got.Content)
			case tt.wantContent != nil && (got.Content == nil || *got.Content != *tt.wantContent):
				t.Errorf("Content = %+v, want %+v", got.Content, tt.wantContent)
			}
		})
	}
}

func TestColumnActiveCards(t *testing.T) {
	note := "n"
	col := Column{
		ID:   1,
		Name: "To Do",
		Cards: []Card{
			Card{ID: 1, Note: &note}.Classify(),
			Card{ID: 2, Note: &note, Archived: true}.Classify(),
			Card{ID: 3}.Classify(),
			Card{ID: 4, ContentURL: "https://api.github.com/repos/o/r/issues/1"}.Classify(),
		},
	}

	active := col.ActiveCards()
	if len(active) != 2 {
		t.Fatalf("expected 2 active cards, got %d", len(active))
	}
	if active[0].ID != 1 || active[1].ID != 4 {
		t.Errorf("unexpected active cards: %+v", active)
	}
}
