package ghclient

import (
	"context"
	"fmt"

	"github.com/spiffcs/issues-watcher/internal/log"
	"github.com/spiffcs/issues-watcher/internal/model"
	"golang.org/x/sync/errgroup"
)

// ListColumns fetches the columns of a resolved board and attaches each
// column's cards. The column list is a single page; cards are paginated per
// column and fetched concurrently.
func (c *Client) ListColumns(ctx context.Context, project model.ProjectRef) ([]model.Column, error) {
	if !project.Resolved() {
		return nil, fmt.Errorf("%w: %s", ErrMissingProjectID, project)
	}

	path := PageURL(fmt.Sprintf("projects/%d/columns", *project.ID), 1, c.perPage)
	var columns []model.Column
	if err := c.getJSON(ctx, path, c.acceptProjects, &columns); err != nil {
		return nil, fmt.Errorf("failed to list columns of %s: %w", project, err)
	}
	if len(columns) >= c.perPage {
		log.Warn("column list may be truncated", "project", project.String(), "columns", len(columns))
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i := range columns {
		g.Go(func() error {
			cards, err := c.ListCards(ctx, columns[i].ID)
			if err != nil {
				return fmt.Errorf("failed to list cards of %s column %q: %w", project, columns[i].Name, err)
			}
			columns[i].Cards = cards
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if columns == nil {
		columns = []model.Column{}
	}
	return columns, nil
}

// ListCards fetches every card of a column.
func (c *Client) ListCards(ctx context.Context, columnID int64) ([]model.Card, error) {
	cards, err := fetchPages[model.Card](ctx, c, fmt.Sprintf("projects/columns/%d/cards", columnID), c.acceptProjects)
	if err != nil {
		return nil, err
	}

	out := make([]model.Card, 0, len(cards))
	for _, card := range cards {
		card = card.Classify()
		if card.IsOpaque() {
			log.Debug("card content not recognized", "column", columnID, "card", card.ID)
		}
		out = append(out, card)
	}
	return out, nil
}
