package model

import (
	"fmt"
	"time"
)

// Assignee is the user an issue is assigned to.
type Assignee struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
}

// Label is a label attached to an issue.
type Label struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// PullRequestLinks is present on issues that are pull requests.
type PullRequestLinks struct {
	HTMLURL string `json:"html_url"`
}

// Issue is an open issue or pull request of a watched repository.
//
// Owner and Repo are not part of the API payload; they are filled in after
// the issue list is fetched so an issue can be rendered on its own.
type Issue struct {
	Number            int32             `json:"number"`
	Title             string            `json:"title"`
	Assignee          *Assignee         `json:"assignee"`
	Owner             string            `json:"owner"`
	Repo              string            `json:"repo"`
	PullRequest       *PullRequestLinks `json:"pull_request,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	AuthorAssociation Association       `json:"author_association"`
	Labels            []Label           `json:"labels"`
	Comments          int               `json:"comments"`
	HTMLURL           string            `json:"html_url,omitempty"`
}

// IsPullRequest reports whether the issue is a pull request.
func (i Issue) IsPullRequest() bool {
	return i.PullRequest != nil
}

// URL returns the issue's web URL.
func (i Issue) URL() string {
	return fmt.Sprintf("https://github.com/%s/%s/issues/%d", i.Owner, i.Repo, i.Number)
}

// Age returns how long the issue has been open as of now.
func (i Issue) Age(now time.Time) time.Duration {
	return now.Sub(i.CreatedAt)
}

// LabelNames returns the names of the issue's labels in order.
func (i Issue) LabelNames() []string {
	names := make([]string, 0, len(i.Labels))
	for _, l := range i.Labels {
		names = append(names, l.Name)
	}
	return names
}

// Comment is a comment on an issue.
type Comment struct {
	ID                int64       `json:"id"`
	HTMLURL           string      `json:"html_url"`
	AuthorAssociation Association `json:"author_association"`
	CreatedAt         time.Time   `json:"created_at"`
}
