// Package constants provides a centralized location for all configuration
// values and magic numbers used throughout the issues-watcher application.
package constants

import "time"

// GitHub API constants
const (
	// DefaultAPIBaseURL is the root of the GitHub REST API.
	DefaultAPIBaseURL = "https://api.github.com/"

	// UserAgent is sent with every API request.
	UserAgent = "issues-watcher"

	// PerPage is the page size used for every paginated collection.
	PerPage = 100

	// AcceptIssues is the media type requested for issue and comment lists.
	AcceptIssues = "application/vnd.github.machine-man-preview"

	// AcceptProjects is the media type requested for board, column and card
	// endpoints.
	AcceptProjects = "application/vnd.github.inertia-preview+json"
)

// Rate limiting constants
const (
	// RateLimitLowWatermark is the threshold below which rate limit
	// warnings are logged.
	RateLimitLowWatermark = 100
)

// Snapshot constants
const (
	// DefaultWorkers bounds concurrent fetches across repositories,
	// projects and columns.
	DefaultWorkers = 8

	// DefaultTimeout is the deadline for building a whole snapshot.
	DefaultTimeout = 2 * time.Minute

	// DefaultStaleWindow is how long an issue must have been open without a
	// member reply to be reported.
	DefaultStaleWindow = 3 * 24 * time.Hour
)

// Slack constants
const (
	// SlackAPIBaseURL is the root of the Slack Web API.
	SlackAPIBaseURL = "https://slack.com/api/"
)
