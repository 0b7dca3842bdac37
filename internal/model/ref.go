// Package model contains domain types for the issues-watcher application.
// These types are independent of any external GitHub library.
package model

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrMalformedReference is returned when a repository or project reference
// cannot be parsed.
var ErrMalformedReference = errors.New("malformed reference")

// projectURLPattern matches project board URLs such as
// https://github.com/pingcap/tidb/projects/40
var projectURLPattern = regexp.MustCompile(`^https://[\w.-]+/([\w.-]+)/([\w.-]+)/projects/(\d+)(?:[/?#].*)?$`)

// RepoRef identifies a repository by owner and name.
// It is comparable and safe to use as a map key.
type RepoRef struct {
	Owner string `json:"owner" yaml:"owner"`
	Name  string `json:"name" yaml:"name"`
}

// String returns the "owner/name" form of the reference.
func (r RepoRef) String() string {
	return r.Owner + "/" + r.Name
}

// HTMLURL returns the repository's web URL.
func (r RepoRef) HTMLURL() string {
	return "https://github.com/" + r.String()
}

// ParseRepoRef parses an "owner/name" string.
func ParseRepoRef(raw string) (RepoRef, error) {
	parts := strings.Split(strings.TrimSpace(raw), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return RepoRef{}, fmt.Errorf("%w: repository %q (want owner/name)", ErrMalformedReference, raw)
	}
	return RepoRef{Owner: parts[0], Name: parts[1]}, nil
}

// ParseRepoRefs parses a list of "owner/name" strings. Duplicates are
// dropped, keeping the first occurrence.
func ParseRepoRefs(raw []string) ([]RepoRef, error) {
	seen := make(map[RepoRef]bool, len(raw))
	refs := make([]RepoRef, 0, len(raw))
	for _, r := range raw {
		ref, err := ParseRepoRef(r)
		if err != nil {
			return nil, err
		}
		if seen[ref] {
			continue
		}
		seen[ref] = true
		refs = append(refs, ref)
	}
	return refs, nil
}

// ProjectRef identifies a classic project board attached to a repository.
// Number is the board number visible in its URL; ID is the platform-internal
// identifier, filled in once the board has been resolved.
type ProjectRef struct {
	Owner  string `json:"owner"`
	Name   string `json:"name"`
	Number int32  `json:"number"`
	ID     *int64 `json:"id,omitempty"`
}

// Repo returns the repository that owns the board.
func (p ProjectRef) Repo() RepoRef {
	return RepoRef{Owner: p.Owner, Name: p.Name}
}

// Resolved reports whether the board's internal ID is known.
func (p ProjectRef) Resolved() bool {
	return p.ID != nil
}

// IsZero reports whether p is the empty sentinel produced for an
// unparsable URL.
func (p ProjectRef) IsZero() bool {
	return p.Owner == "" && p.Name == "" && p.Number == 0 && p.ID == nil
}

// SameBoard reports whether p and o refer to the same board, ignoring ID.
func (p ProjectRef) SameBoard(o ProjectRef) bool {
	return p.Owner == o.Owner && p.Name == o.Name && p.Number == o.Number
}

func (p ProjectRef) String() string {
	return fmt.Sprintf("%s/%s#%d", p.Owner, p.Name, p.Number)
}

// HTMLURL returns the board's web URL.
func (p ProjectRef) HTMLURL() string {
	return fmt.Sprintf("https://github.com/%s/%s/projects/%d", p.Owner, p.Name, p.Number)
}

// ParseProjectRef parses a project board URL. An unparsable URL yields the
// zero ProjectRef rather than an error; use ParseProjectRefStrict to fail
// instead.
func ParseProjectRef(raw string) ProjectRef {
	ref, err := ParseProjectRefStrict(raw)
	if err != nil {
		return ProjectRef{}
	}
	return ref
}

// ParseProjectRefStrict parses a project board URL of the form
// https://<host>/<owner>/<repo>/projects/<number>.
func ParseProjectRefStrict(raw string) (ProjectRef, error) {
	m := projectURLPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return ProjectRef{}, fmt.Errorf("%w: project %q (want https://github.com/owner/repo/projects/N)", ErrMalformedReference, raw)
	}
	n, err := strconv.ParseInt(m[3], 10, 32)
	if err != nil {
		return ProjectRef{}, fmt.Errorf("%w: project number in %q: %w", ErrMalformedReference, raw, err)
	}
	return ProjectRef{Owner: m[1], Name: m[2], Number: int32(n)}, nil
}

// FilterProjects drops projects that belong to one of repos, along with
// duplicate boards. Order is preserved.
func FilterProjects(repos []RepoRef, projects []ProjectRef) []ProjectRef {
	owned := make(map[RepoRef]bool, len(repos))
	for _, r := range repos {
		owned[r] = true
	}

	out := make([]ProjectRef, 0, len(projects))
	for _, p := range projects {
		if owned[p.Repo()] {
			continue
		}
		dup := false
		for _, kept := range out {
			if kept.SameBoard(p) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, p)
		}
	}
	return out
}
