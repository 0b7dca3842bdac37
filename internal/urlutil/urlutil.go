// Package urlutil provides URL parsing utilities.
package urlutil

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ContentRef is the repository item an API content URL points at.
type ContentRef struct {
	Owner  string
	Repo   string
	Kind   string // "issues" or "pulls"
	Number int
}

// ParseContentURL extracts the item a REST API URL refers to.
// URL format: https://api.github.com/repos/owner/repo/issues/123
// or: https://api.github.com/repos/owner/repo/pulls/123
// Enterprise hosts prefix the path with /api/v3, which is skipped.
func ParseContentURL(apiURL string) (ContentRef, error) {
	u, err := url.Parse(apiURL)
	if err != nil || u.Host == "" {
		return ContentRef{}, fmt.Errorf("invalid API URL format: %s", apiURL)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for len(parts) > 0 && parts[0] != "repos" {
		parts = parts[1:]
	}
	if len(parts) != 5 {
		return ContentRef{}, fmt.Errorf("invalid API URL format: %s", apiURL)
	}
	if parts[3] != "issues" && parts[3] != "pulls" {
		return ContentRef{}, fmt.Errorf("unsupported content type %q in URL %s", parts[3], apiURL)
	}

	num, err := strconv.Atoi(parts[4])
	if err != nil {
		return ContentRef{}, fmt.Errorf("failed to parse issue number from URL %s: %w", apiURL, err)
	}

	return ContentRef{
		Owner:  parts[1],
		Repo:   parts[2],
		Kind:   parts[3],
		Number: num,
	}, nil
}
