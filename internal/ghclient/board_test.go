package ghclient

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/spiffcs/issues-watcher/internal/constants"
	"github.com/spiffcs/issues-watcher/internal/model"
)

func boardList(t *testing.T, calls *atomic.Int32, boards []map[string]any, perPage int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if got := r.Header.Get("Accept"); got != constants.AcceptProjects {
			t.Errorf("Accept = %q, want %q", got, constants.AcceptProjects)
		}
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		writeJSON(t, w, pageOf(boards, page, perPage))
	}
}

func TestResolveProjectIDs(t *testing.T) {
	const perPage = 2
	boards := []map[string]any{
		{"id": 1001, "number": 1, "name": "Roadmap"},
		{"id": 1002, "number": 2, "name": "Bugs"},
		{"id": 1040, "number": 40, "name": "SIG"},
		{"id": 1041, "number": 41, "name": "Release"},
		{"id": 1050, "number": 50, "name": "Archive"},
	}

	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/pingcap/tidb/projects", boardList(t, &calls, boards, perPage))
	c := newTestClient(t, mux, WithPerPage(perPage))

	refs := []model.ProjectRef{
		{Owner: "pingcap", Name: "tidb", Number: 40},
		{Owner: "pingcap", Name: "tidb", Number: 2},
		{Owner: "pingcap", Name: "tidb", Number: 40},
	}
	if err := c.ResolveProjectIDs(context.Background(), refs); err != nil {
		t.Fatalf("ResolveProjectIDs() error = %v", err)
	}

	want := []int64{1040, 1002, 1040}
	for i, ref := range refs {
		if !ref.Resolved() {
			t.Fatalf("refs[%d] not resolved", i)
		}
		if *ref.ID != want[i] {
			t.Errorf("refs[%d].ID = %d, want %d", i, *ref.ID, want[i])
		}
	}

	// Board 40 sits on page 2, board 2 on page 1; the duplicate is cached.
	if calls.Load() != 3 {
		t.Errorf("requests = %d, want 3", calls.Load())
	}

	again := []model.ProjectRef{{Owner: "pingcap", Name: "tidb", Number: 2}}
	if err := c.ResolveProjectIDs(context.Background(), again); err != nil {
		t.Fatalf("ResolveProjectIDs() error = %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("cached lookup issued requests: %d", calls.Load())
	}
	if *again[0].ID != 1002 {
		t.Errorf("ID = %d, want 1002", *again[0].ID)
	}
}

func TestResolveProjectIDsNotFound(t *testing.T) {
	boards := []map[string]any{
		{"id": 1001, "number": 1, "name": "Roadmap"},
	}
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/o/r/projects", boardList(t, &calls, boards, constants.PerPage))
	c := newTestClient(t, mux)

	refs := []model.ProjectRef{
		{Owner: "o", Name: "r", Number: 1},
		{Owner: "o", Name: "r", Number: 7},
	}
	err := c.ResolveProjectIDs(context.Background(), refs)
	if !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("error = %v, want ErrProjectNotFound", err)
	}
	for i, ref := range refs {
		if ref.Resolved() {
			t.Errorf("refs[%d] resolved despite failure", i)
		}
	}
}

func TestResolveProjectIDsNotFoundAfterFullScan(t *testing.T) {
	boards := []map[string]any{
		{"id": 1001, "number": 1, "name": "Roadmap"},
		{"id": 1002, "number": 2, "name": "Bugs"},
		{"id": 1003, "number": 3, "name": "Docs"},
	}

	tests := []struct {
		name      string
		perPage   int
		wantCalls int32
	}{
		// Three full pages, then an empty page ends the scan.
		{name: "exact multiple", perPage: 1, wantCalls: 4},
		// A full page, then a short one.
		{name: "short last page", perPage: 2, wantCalls: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			mux := http.NewServeMux()
			mux.HandleFunc("GET /repos/o/r/projects", boardList(t, &calls, boards, tt.perPage))
			c := newTestClient(t, mux, WithPerPage(tt.perPage))

			refs := []model.ProjectRef{{Owner: "o", Name: "r", Number: 7}}
			err := c.ResolveProjectIDs(context.Background(), refs)
			if !errors.Is(err, ErrProjectNotFound) {
				t.Fatalf("error = %v, want ErrProjectNotFound", err)
			}
			if calls.Load() != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls.Load(), tt.wantCalls)
			}
			if refs[0].Resolved() {
				t.Error("ref resolved despite failure")
			}
		})
	}
}

func TestResolveProjectIDsSkipsResolved(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s", r.URL.Path)
	})
	c := newTestClient(t, mux)

	id := int64(5)
	refs := []model.ProjectRef{{Owner: "o", Name: "r", Number: 1, ID: &id}}
	if err := c.ResolveProjectIDs(context.Background(), refs); err != nil {
		t.Fatalf("ResolveProjectIDs() error = %v", err)
	}
}

func TestListColumnsMissingID(t *testing.T) {
	c := newTestClient(t, http.NewServeMux())
	_, err := c.ListColumns(context.Background(), model.ProjectRef{Owner: "o", Name: "r", Number: 1})
	if !errors.Is(err, ErrMissingProjectID) {
		t.Errorf("error = %v, want ErrMissingProjectID", err)
	}
}

func TestListColumns(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /projects/77/columns", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept"); got != constants.AcceptProjects {
			t.Errorf("Accept = %q, want %q", got, constants.AcceptProjects)
		}
		writeJSON(t, w, []map[string]any{
			{"id": 1, "name": "To do"},
			{"id": 2, "name": "Done"},
		})
	})
	mux.HandleFunc("GET /projects/columns/1/cards", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []map[string]any{
			{"id": 10, "note": "remember the milk"},
			{"id": 11, "content_url": "https://api.github.com/repos/pingcap/tidb/issues/12"},
			{"id": 12, "content_url": "https://api.github.com/repos/pingcap/tidb/pulls/13"},
		})
	})
	mux.HandleFunc("GET /projects/columns/2/cards", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []map[string]any{
			{"id": 20, "content_url": "https://api.github.com/somewhere/else"},
		})
	})
	c := newTestClient(t, mux)

	id := int64(77)
	cols, err := c.ListColumns(context.Background(), model.ProjectRef{Owner: "pingcap", Name: "tidb", Number: 40, ID: &id})
	if err != nil {
		t.Fatalf("ListColumns() error = %v", err)
	}
	if len(cols) != 2 || cols[0].Name != "To do" || cols[1].Name != "Done" {
		t.Fatalf("columns = %+v", cols)
	}

	wantKinds := []model.CardKind{model.CardNote, model.CardIssue, model.CardPullRequest}
	if len(cols[0].Cards) != len(wantKinds) {
		t.Fatalf("cards = %d, want %d", len(cols[0].Cards), len(wantKinds))
	}
	for i, card := range cols[0].Cards {
		if card.Kind != wantKinds[i] {
			t.Errorf("card[%d].Kind = %q, want %q", i, card.Kind, wantKinds[i])
		}
	}
	if c := cols[0].Cards[1].Content; c == nil || c.Number != 12 || c.Repo != "tidb" {
		t.Errorf("card content = %+v", c)
	}
	if !cols[1].Cards[0].IsOpaque() {
		t.Errorf("expected opaque card, got %q", cols[1].Cards[0].Kind)
	}
}

func TestListColumnsCardFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /projects/77/columns", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []map[string]any{{"id": 1, "name": "To do"}})
	})
	mux.HandleFunc("GET /projects/columns/1/cards", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"boom"}`, http.StatusBadGateway)
	})
	c := newTestClient(t, mux)

	id := int64(77)
	_, err := c.ListColumns(context.Background(), model.ProjectRef{Owner: "o", Name: "r", Number: 1, ID: &id})
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("error = %v, want ErrNetwork", err)
	}
}
