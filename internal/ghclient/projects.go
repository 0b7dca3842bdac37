package ghclient

import (
	"context"
	"fmt"
	"net/url"

	"github.com/spiffcs/issues-watcher/internal/log"
	"github.com/spiffcs/issues-watcher/internal/model"
)

// boardKey identifies a board independently of its resolved ID.
type boardKey struct {
	owner  string
	repo   string
	number int32
}

func keyOf(p model.ProjectRef) boardKey {
	return boardKey{owner: p.Owner, repo: p.Name, number: p.Number}
}

// repoBoard is an entry of a repository's board list.
type repoBoard struct {
	ID     int64  `json:"id"`
	Number int32  `json:"number"`
	Name   string `json:"name"`
	State  string `json:"state"`
}

func (c *Client) cachedBoardID(k boardKey) (int64, bool) {
	c.boardMu.Lock()
	defer c.boardMu.Unlock()
	id, ok := c.boardIDs[k]
	return id, ok
}

func (c *Client) cacheBoardID(k boardKey, id int64) {
	c.boardMu.Lock()
	defer c.boardMu.Unlock()
	c.boardIDs[k] = id
}

// ResolveProjectIDs fills in the ID of every unresolved ref. Each board is
// looked up at most once for the lifetime of the client. If any board cannot
// be found the whole call fails and no partial result is reported.
func (c *Client) ResolveProjectIDs(ctx context.Context, refs []model.ProjectRef) error {
	for _, ref := range refs {
		if ref.Resolved() {
			continue
		}
		k := keyOf(ref)
		if _, ok := c.cachedBoardID(k); ok {
			continue
		}

		id, err := c.findBoardID(ctx, ref)
		if err != nil {
			return err
		}
		c.cacheBoardID(k, id)
		log.Debug("resolved project", "project", ref.String(), "id", id)
	}

	for i := range refs {
		if refs[i].Resolved() {
			continue
		}
		id, ok := c.cachedBoardID(keyOf(refs[i]))
		if !ok {
			return fmt.Errorf("%w: %s", ErrProjectNotFound, refs[i])
		}
		refs[i].ID = &id
	}
	return nil
}

// findBoardID scans the owning repository's board list until the board with
// ref's number turns up.
func (c *Client) findBoardID(ctx context.Context, ref model.ProjectRef) (int64, error) {
	template := fmt.Sprintf("repos/%s/%s/projects", url.PathEscape(ref.Owner), url.PathEscape(ref.Name))

	var (
		id    int64
		found bool
	)
	err := ScanPages(ctx, c.perPage, pageFetcher[repoBoard](c, template, c.acceptProjects), func(batch []repoBoard) bool {
		for _, b := range batch {
			if b.Number == ref.Number {
				id, found = b.ID, true
				return true
			}
		}
		return false
	})
	if err != nil {
		return 0, fmt.Errorf("failed to list projects of %s: %w", ref.Repo(), err)
	}
	if !found {
		return 0, fmt.Errorf("%w: %s", ErrProjectNotFound, ref)
	}
	return id, nil
}
