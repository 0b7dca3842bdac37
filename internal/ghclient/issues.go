package ghclient

import (
	"context"
	"fmt"
	"net/url"

	"github.com/spiffcs/issues-watcher/internal/model"
)

// ListRepoIssues fetches every open issue and pull request of repo. Owner and
// Repo are filled in on each issue.
func (c *Client) ListRepoIssues(ctx context.Context, repo model.RepoRef) (model.RepoIssues, error) {
	template := fmt.Sprintf("repos/%s/%s/issues", url.PathEscape(repo.Owner), url.PathEscape(repo.Name))
	issues, err := fetchPages[model.Issue](ctx, c, template, c.acceptIssues)
	if err != nil {
		return model.RepoIssues{}, fmt.Errorf("failed to list issues of %s: %w", repo, err)
	}

	if issues == nil {
		issues = []model.Issue{}
	}
	for i := range issues {
		issues[i].Owner = repo.Owner
		issues[i].Repo = repo.Name
	}
	return model.RepoIssues{Repo: repo, Issues: issues}, nil
}

// ListComments fetches every comment on an issue.
func (c *Client) ListComments(ctx context.Context, issue model.Issue) ([]model.Comment, error) {
	template := fmt.Sprintf("repos/%s/%s/issues/%d/comments",
		url.PathEscape(issue.Owner), url.PathEscape(issue.Repo), issue.Number)
	comments, err := fetchPages[model.Comment](ctx, c, template, c.acceptIssues)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments of %s/%s#%d: %w", issue.Owner, issue.Repo, issue.Number, err)
	}
	return comments, nil
}

// CountMemberComments returns how many of an issue's comments were written
// by project members. Issues without comments cost no request.
func (c *Client) CountMemberComments(ctx context.Context, issue model.Issue) (int, error) {
	if issue.Comments == 0 {
		return 0, nil
	}
	comments, err := c.ListComments(ctx, issue)
	if err != nil {
		return 0, err
	}
	return model.CountMemberComments(comments), nil
}
