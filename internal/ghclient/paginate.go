package ghclient

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/spiffcs/issues-watcher/internal/log"
)

// PageFunc fetches one page (1-based) of a collection.
type PageFunc[T any] func(ctx context.Context, page int) ([]T, error)

// ScanPages requests pages 1, 2, ... and hands each decoded page to visit.
// It stops after a page holding fewer than perPage entries, or as soon as
// visit returns true. Page N+1 is only requested once page N is decoded.
func ScanPages[T any](ctx context.Context, perPage int, fetch PageFunc[T], visit func(batch []T) (stop bool)) error {
	if perPage <= 0 {
		return fmt.Errorf("page size must be positive, got %d", perPage)
	}

	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		batch, err := fetch(ctx, page)
		if err != nil {
			return fmt.Errorf("page %d: %w", page, err)
		}
		if visit(batch) {
			return nil
		}
		if len(batch) < perPage {
			return nil
		}
	}
}

// FetchAllPages collects every page of a collection into one ordered slice.
func FetchAllPages[T any](ctx context.Context, perPage int, fetch PageFunc[T]) ([]T, error) {
	var all []T
	err := ScanPages(ctx, perPage, fetch, func(batch []T) bool {
		all = append(all, batch...)
		return false
	})
	if err != nil {
		return nil, err
	}
	return all, nil
}

// PageURL appends page and per_page query parameters to a path template.
func PageURL(template string, page, perPage int) string {
	u, err := url.Parse(template)
	if err != nil {
		return template
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))
	u.RawQuery = q.Encode()
	return u.String()
}

// pageFetcher binds a path template and media type to the HTTP client.
func pageFetcher[T any](c *Client, template, accept string) PageFunc[T] {
	return func(ctx context.Context, page int) ([]T, error) {
		var batch []T
		path := PageURL(template, page, c.perPage)
		if err := c.getJSON(ctx, path, accept, &batch); err != nil {
			return nil, err
		}
		log.Debug("fetched page", "path", template, "page", page, "count", len(batch))
		return batch, nil
	}
}

// fetchPages retrieves every page of the collection at template.
func fetchPages[T any](ctx context.Context, c *Client, template, accept string) ([]T, error) {
	return FetchAllPages(ctx, c.perPage, pageFetcher[T](c, template, accept))
}
