package model

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseRepoRef(t *testing.T) {
	tests := []struct {
		input   string
		want    RepoRef
		wantErr bool
	}{
		{"pingcap/parser", RepoRef{Owner: "pingcap", Name: "parser"}, false},
		{"  you06/issues-watcher ", RepoRef{Owner: "you06", Name: "issues-watcher"}, false},
		{"pingcap", RepoRef{}, true},
		{"pingcap/", RepoRef{}, true},
		{"/parser", RepoRef{}, true},
		{"a/b/c", RepoRef{}, true},
		{"", RepoRef{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRepoRef(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedReference) {
					t.Fatalf("ParseRepoRef(%q): expected ErrMalformedReference, got %v", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRepoRef(%q): unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseRepoRef(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseRepoRefsDeduplicates(t *testing.T) {
	refs, err := ParseRepoRefs([]string{"pingcap/parser", "pingcap/tidb", "pingcap/parser"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []RepoRef{{"pingcap", "parser"}, {"pingcap", "tidb"}}
	if !reflect.DeepEqual(refs, want) {
		t.Errorf("ParseRepoRefs = %+v, want %+v", refs, want)
	}

	if _, err := ParseRepoRefs([]string{"pingcap/parser", "broken"}); !errors.Is(err, ErrMalformedReference) {
		t.Errorf("expected ErrMalformedReference, got %v", err)
	}
}

func TestParseProjectRef(t *testing.T) {
	got := ParseProjectRef("https://github.com/pingcap/tidb/projects/40")
	want := ProjectRef{Owner: "pingcap", Name: "tidb", Number: 40}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseProjectRef = %+v, want %+v", got, want)
	}
	if got.Resolved() {
		t.Error("freshly parsed project should not be resolved")
	}
}

func TestParseProjectRefUnparsable(t *testing.T) {
	for _, raw := range []string{
		"",
		"pingcap/tidb",
		"https://github.com/pingcap/tidb/issues/40",
		"https://github.com/pingcap/tidb/projects/",
		"http://github.com/pingcap/tidb/projects/40",
	} {
		if got := ParseProjectRef(raw); !got.IsZero() {
			t.Errorf("ParseProjectRef(%q) = %+v, want zero sentinel", raw, got)
		}
		if _, err := ParseProjectRefStrict(raw); !errors.Is(err, ErrMalformedReference) {
			t.Errorf("ParseProjectRefStrict(%q): expected ErrMalformedReference, got %v", raw, err)
		}
	}
}

func TestParseProjectRefStrictVariants(t *testing.T) {
	tests := []struct {
		input string
		want  ProjectRef
	}{
		{"https://github.com/pingcap/tidb/projects/40", ProjectRef{Owner: "pingcap", Name: "tidb", Number: 40}},
		{"https://github.com/pingcap/tidb/projects/40/", ProjectRef{Owner: "pingcap", Name: "tidb", Number: 40}},
		{"https://github.com/pingcap/tidb/projects/40?fullscreen=true", ProjectRef{Owner: "pingcap", Name: "tidb", Number: 40}},
		{"https://ghe.example.com/org/my.repo/projects/3", ProjectRef{Owner: "org", Name: "my.repo", Number: 3}},
	}
	for _, tt := range tests {
		got, err := ParseProjectRefStrict(tt.input)
		if err != nil {
			t.Fatalf("ParseProjectRefStrict(%q): unexpected error: %v", tt.input, err)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseProjectRefStrict(%q) = %+v, want %+v", tt.input, got, tt.want)
		}
	}

	if _, err := ParseProjectRefStrict("https://github.com/o/r/projects/99999999999"); !errors.Is(err, ErrMalformedReference) {
		t.Errorf("expected overflow to be malformed, got %v", err)
	}
}

func TestFilterProjects(t *testing.T) {
	repos := []RepoRef{{Owner: "pingcap", Name: "parser"}}
	projects := []ProjectRef{
		ParseProjectRef("https://github.com/pingcap/parser/projects/1"),
		ParseProjectRef("https://github.com/pingcap/tidb/projects/40"),
	}

	got := FilterProjects(repos, projects)
	want := []ProjectRef{{Owner: "pingcap", Name: "tidb", Number: 40}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FilterProjects = %+v, want %+v", got, want)
	}
}

func TestFilterProjectsDropsDuplicates(t *testing.T) {
	projects := []ProjectRef{
		{Owner: "pingcap", Name: "tidb", Number: 40},
		{Owner: "pingcap", Name: "tidb", Number: 41},
		{Owner: "pingcap", Name: "tidb", Number: 40},
	}
	got := FilterProjects(nil, projects)
	if len(got) != 2 || got[0].Number != 40 || got[1].Number != 41 {
		t.Errorf("FilterProjects = %+v, want boards 40 and 41 in order", got)
	}
}

func TestRefStrings(t *testing.T) {
	r := RepoRef{Owner: "pingcap", Name: "parser"}
	if r.String() != "pingcap/parser" {
		t.Errorf("RepoRef.String() = %q", r.String())
	}
	p := ProjectRef{Owner: "pingcap", Name: "tidb", Number: 40}
	if p.HTMLURL() != "https://github.com/pingcap/tidb/projects/40" {
		t.Errorf("ProjectRef.HTMLURL() = %q", p.HTMLURL())
	}
	if p.Repo() != (RepoRef{Owner: "pingcap", Name: "tidb"}) {
		t.Errorf("ProjectRef.Repo() = %+v", p.Repo())
	}
}
