package ghclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/spiffcs/issues-watcher/internal/constants"
	"github.com/spiffcs/issues-watcher/internal/model"
)

func newTestClient(t *testing.T, mux *http.ServeMux, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	opts = append([]Option{WithBaseURL(srv.URL), WithHTTPClient(srv.Client())}, opts...)
	c, err := NewClient(context.Background(), "test-token", opts...)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return c
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("encode response: %v", err)
	}
}

// pageOf returns the entries of page (1-based) when items are split into
// pages of perPage.
func pageOf[T any](items []T, page, perPage int) []T {
	start := (page - 1) * perPage
	if start >= len(items) {
		return []T{}
	}
	end := min(start+perPage, len(items))
	return items[start:end]
}

func TestNewClientRequiresToken(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")
	if _, err := NewClient(context.Background(), ""); err == nil {
		t.Error("expected error for missing token")
	}
}

func TestNewClientRejectsBadPageSize(t *testing.T) {
	if _, err := NewClient(context.Background(), "tok", WithPerPage(0)); err == nil {
		t.Error("expected error for zero page size")
	}
}

func TestListRepoIssuesPaginates(t *testing.T) {
	const perPage = 3
	var all []map[string]any
	for i := 1; i <= 7; i++ {
		all = append(all, map[string]any{"number": i, "title": fmt.Sprintf("issue %d", i)})
	}

	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/pingcap/tidb/issues", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if got := r.Header.Get("Authorization"); got != "token test-token" {
			t.Errorf("Authorization = %q, want %q", got, "token test-token")
		}
		if got := r.Header.Get("User-Agent"); got != constants.UserAgent {
			t.Errorf("User-Agent = %q, want %q", got, constants.UserAgent)
		}
		if got := r.Header.Get("Accept"); got != constants.AcceptIssues {
			t.Errorf("Accept = %q, want %q", got, constants.AcceptIssues)
		}
		if got := r.URL.Query().Get("per_page"); got != strconv.Itoa(perPage) {
			t.Errorf("per_page = %q, want %d", got, perPage)
		}
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		writeJSON(t, w, pageOf(all, page, perPage))
	})

	c := newTestClient(t, mux, WithPerPage(perPage))
	got, err := c.ListRepoIssues(context.Background(), model.RepoRef{Owner: "pingcap", Name: "tidb"})
	if err != nil {
		t.Fatalf("ListRepoIssues() error = %v", err)
	}

	if calls.Load() != 3 {
		t.Errorf("requests = %d, want 3", calls.Load())
	}
	if len(got.Issues) != 7 {
		t.Fatalf("issues = %d, want 7", len(got.Issues))
	}
	for i, issue := range got.Issues {
		if issue.Number != int32(i+1) {
			t.Errorf("issue[%d].Number = %d, want %d", i, issue.Number, i+1)
		}
		if issue.Owner != "pingcap" || issue.Repo != "tidb" {
			t.Errorf("issue[%d] owner/repo = %s/%s", i, issue.Owner, issue.Repo)
		}
	}
}

func TestListRepoIssuesShortFirstPage(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/o/r/issues", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(t, w, []any{})
	})

	c := newTestClient(t, mux)
	got, err := c.ListRepoIssues(context.Background(), model.RepoRef{Owner: "o", Name: "r"})
	if err != nil {
		t.Fatalf("ListRepoIssues() error = %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("requests = %d, want 1", calls.Load())
	}
	if got.Issues == nil || len(got.Issues) != 0 {
		t.Errorf("Issues = %v, want empty non-nil slice", got.Issues)
	}
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    error
	}{
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("<html>not json</html>"))
			},
			want: ErrDecode,
		},
		{
			name: "wrong shape",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"message":"object instead of list"}`))
			},
			want: ErrDecode,
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"message":"boom"}`, http.StatusInternalServerError)
			},
			want: ErrNetwork,
		},
		{
			name: "not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
			},
			want: ErrNetwork,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("GET /repos/o/r/issues", tt.handler)
			c := newTestClient(t, mux)

			_, err := c.ListRepoIssues(context.Background(), model.RepoRef{Owner: "o", Name: "r"})
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRateLimitedResponse(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/o/r/issues", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.Header().Set("X-RateLimit-Limit", "5000")
		w.Header().Set("X-RateLimit-Reset", "9999999999")
		http.Error(w, `{"message":"API rate limit exceeded"}`, http.StatusForbidden)
	})
	c := newTestClient(t, mux)

	_, err := c.ListRepoIssues(context.Background(), model.RepoRef{Owner: "o", Name: "r"})
	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("error = %v, want ErrRateLimited", err)
	}
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("error = %v, want ErrNetwork", err)
	}
	if _, _, limited := c.RateLimitStatus(); !limited {
		t.Error("expected client to report rate limited")
	}
}

func TestCountMemberComments(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/o/r/issues/9/comments", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(t, w, []map[string]any{
			{"id": 1, "author_association": "OWNER"},
			{"id": 2, "author_association": "NONE"},
			{"id": 3, "author_association": "CONTRIBUTOR"},
			{"id": 4, "author_association": "FIRST_TIME_CONTRIBUTOR"},
		})
	})
	c := newTestClient(t, mux)

	n, err := c.CountMemberComments(context.Background(), model.Issue{Owner: "o", Repo: "r", Number: 9, Comments: 4})
	if err != nil {
		t.Fatalf("CountMemberComments() error = %v", err)
	}
	if n != 2 {
		t.Errorf("CountMemberComments() = %d, want 2", n)
	}

	n, err = c.CountMemberComments(context.Background(), model.Issue{Owner: "o", Repo: "r", Number: 10})
	if err != nil || n != 0 {
		t.Errorf("CountMemberComments() on uncommented issue = %d, %v", n, err)
	}
	if calls.Load() != 1 {
		t.Errorf("requests = %d, want 1", calls.Load())
	}
}
