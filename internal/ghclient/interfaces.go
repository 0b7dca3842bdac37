// Package ghclient provides GitHub API client functionality.
package ghclient

import (
	"context"

	"github.com/spiffcs/issues-watcher/internal/model"
)

// Fetcher defines the GitHub operations the snapshot builder relies on.
// This interface enables faking the GitHub client in unit tests.
type Fetcher interface {
	// Authentication
	AuthenticatedUser(ctx context.Context) (string, error)

	// Boards
	ResolveProjectIDs(ctx context.Context, refs []model.ProjectRef) error
	ListColumns(ctx context.Context, project model.ProjectRef) ([]model.Column, error)

	// Issues
	ListRepoIssues(ctx context.Context, repo model.RepoRef) (model.RepoIssues, error)
	CountMemberComments(ctx context.Context, issue model.Issue) (int, error)
}

// Ensure Client implements Fetcher interface.
var _ Fetcher = (*Client)(nil)
