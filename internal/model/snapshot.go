package model

import (
	"reflect"
	"time"
)

// RepoIssues holds the issues fetched for one repository.
type RepoIssues struct {
	Repo   RepoRef `json:"repo"`
	Issues []Issue `json:"issues"`
}

// ProjectIssues holds the board state fetched for one project.
type ProjectIssues struct {
	Project ProjectRef `json:"project"`
	Columns []Column   `json:"columns"`
}

// Snapshot is one timestamped observation of all watched repositories and
// boards. Entries appear in configuration order.
type Snapshot struct {
	Time          time.Time       `json:"time"`
	RepoIssues    []RepoIssues    `json:"repo_issues"`
	ProjectIssues []ProjectIssues `json:"project_issues"`
}

// IssueCount returns the number of issues across all repositories.
func (s *Snapshot) IssueCount() int {
	n := 0
	for _, r := range s.RepoIssues {
		n += len(r.Issues)
	}
	return n
}

// CardCount returns the number of cards across all boards.
func (s *Snapshot) CardCount() int {
	n := 0
	for _, p := range s.ProjectIssues {
		for _, c := range p.Columns {
			n += len(c.Cards)
		}
	}
	return n
}

// Issues returns every issue in the snapshot in order.
func (s *Snapshot) Issues() []Issue {
	var all []Issue
	for _, r := range s.RepoIssues {
		all = append(all, r.Issues...)
	}
	return all
}

// Equal reports whether two snapshots hold the same data. Time is ignored.
func (s *Snapshot) Equal(o *Snapshot) bool {
	if s == nil || o == nil {
		return s == o
	}
	a, b := *s, *o
	a.Time, b.Time = time.Time{}, time.Time{}
	return reflect.DeepEqual(a, b)
}
