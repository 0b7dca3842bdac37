package ghclient

import (
	"context"
	"errors"
	"fmt"

	gh "github.com/google/go-github/v57/github"
)

var (
	// ErrNetwork wraps transport failures and non-2xx API responses.
	ErrNetwork = errors.New("network failure")

	// ErrDecode is returned when a response body is not the expected JSON.
	ErrDecode = errors.New("decode failure")

	// ErrProjectNotFound is returned when a board number is absent from its
	// repository's board list.
	ErrProjectNotFound = errors.New("project not found")

	// ErrMissingProjectID is returned when a board is drilled into before its
	// ID has been resolved.
	ErrMissingProjectID = errors.New("project id is not resolved")
)

// networkError wraps err as a network failure for the given path. Rate limit
// responses additionally match ErrRateLimited.
func networkError(path string, err error) error {
	var rle *gh.RateLimitError
	var abuse *gh.AbuseRateLimitError
	if (errors.As(err, &rle) || errors.As(err, &abuse)) && !errors.Is(err, ErrRateLimited) {
		return fmt.Errorf("%w: GET %s: %w: %w", ErrNetwork, path, ErrRateLimited, err)
	}
	return fmt.Errorf("%w: GET %s: %w", ErrNetwork, path, err)
}

func decodeError(path string, err error) error {
	return fmt.Errorf("%w: GET %s: %w", ErrDecode, path, err)
}

// isCanceled reports whether err was caused by context cancellation.
func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
