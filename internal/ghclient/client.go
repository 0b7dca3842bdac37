package ghclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	gh "github.com/google/go-github/v57/github"
	"github.com/spiffcs/issues-watcher/internal/constants"
	"github.com/spiffcs/issues-watcher/internal/log"
	"golang.org/x/oauth2"
)

// Client talks to the GitHub REST API on behalf of the watcher. It exposes
// both pipelines: issue aggregation for repositories and board drill-down for
// projects.
type Client struct {
	client *gh.Client
	// token is intentionally unexported. NEVER add String(), MarshalJSON(),
	// or any method that could expose this value in logs or serialized output.
	token string

	perPage        int
	workers        int
	acceptIssues   string
	acceptProjects string
	rateLimit      *RateLimitState

	boardMu  sync.Mutex
	boardIDs map[boardKey]int64
}

type clientOptions struct {
	baseURL        string
	userAgent      string
	perPage        int
	workers        int
	acceptIssues   string
	acceptProjects string
	httpClient     *http.Client
}

// Option configures a Client.
type Option func(*clientOptions)

// WithBaseURL points the client at a different API root, such as a GitHub
// Enterprise host or a test server.
func WithBaseURL(u string) Option {
	return func(o *clientOptions) {
		o.baseURL = u
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *clientOptions) {
		o.userAgent = ua
	}
}

// WithPerPage overrides the page size used for every collection.
func WithPerPage(n int) Option {
	return func(o *clientOptions) {
		o.perPage = n
	}
}

// WithWorkers bounds concurrent card fetches within one board.
func WithWorkers(n int) Option {
	return func(o *clientOptions) {
		o.workers = n
	}
}

// WithAcceptHeaders overrides the media types sent for issue endpoints and
// for board, column and card endpoints. Empty values keep the defaults.
func WithAcceptHeaders(issues, projects string) Option {
	return func(o *clientOptions) {
		if issues != "" {
			o.acceptIssues = issues
		}
		if projects != "" {
			o.acceptProjects = projects
		}
	}
}

// WithHTTPClient sets the base HTTP client the token transport wraps.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = hc
	}
}

// NewClient creates a new GitHub client using a personal access token. The
// token is presented as "Authorization: token <value>".
func NewClient(ctx context.Context, token string, opts ...Option) (*Client, error) {
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	if token == "" {
		return nil, fmt.Errorf("GitHub token not provided. Set github_token in the config file or the GITHUB_TOKEN environment variable")
	}

	o := clientOptions{
		baseURL:        constants.DefaultAPIBaseURL,
		userAgent:      constants.UserAgent,
		perPage:        constants.PerPage,
		workers:        constants.DefaultWorkers,
		acceptIssues:   constants.AcceptIssues,
		acceptProjects: constants.AcceptProjects,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.perPage <= 0 {
		return nil, fmt.Errorf("page size must be positive, got %d", o.perPage)
	}
	if o.workers <= 0 {
		o.workers = 1
	}

	if o.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, o.httpClient)
	}
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token, TokenType: "token"},
	)
	tc := oauth2.NewClient(ctx, ts)

	state := &RateLimitState{}
	tc.Transport = &rateLimitTransport{
		base:  tc.Transport,
		state: state,
	}

	client := gh.NewClient(tc)
	base, err := url.Parse(o.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API base URL %q: %w", o.baseURL, err)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	client.BaseURL = base
	client.UserAgent = o.userAgent

	return &Client{
		client:         client,
		token:          token,
		perPage:        o.perPage,
		workers:        o.workers,
		acceptIssues:   o.acceptIssues,
		acceptProjects: o.acceptProjects,
		rateLimit:      state,
		boardIDs:       make(map[boardKey]int64),
	}, nil
}

// AuthenticatedUser returns the authenticated user's login
func (c *Client) AuthenticatedUser(ctx context.Context) (string, error) {
	user, _, err := c.client.Users.Get(ctx, "")
	if err != nil {
		return "", fmt.Errorf("failed to get authenticated user: %w", networkError("user", err))
	}
	return user.GetLogin(), nil
}

// RateLimits fetches the current GitHub API rate limit status.
func (c *Client) RateLimits(ctx context.Context) (*gh.RateLimits, error) {
	limits, _, err := c.client.RateLimit.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get rate limits: %w", networkError("rate_limit", err))
	}
	return limits, nil
}

// RateLimitStatus returns the rate limit observed on the latest response.
func (c *Client) RateLimitStatus() (remaining, limit int, limited bool) {
	remaining, limit, _, limited = c.rateLimit.Status()
	return remaining, limit, limited
}

// RateLimitResetAt returns when the quota observed on the latest response
// is replenished.
func (c *Client) RateLimitResetAt() time.Time {
	_, _, resetAt, _ := c.rateLimit.Status()
	return resetAt
}

// getJSON issues a GET for path (relative to the API root) and decodes the
// JSON body into v.
func (c *Client) getJSON(ctx context.Context, path, accept string, v any) error {
	req, err := c.client.NewRequest(http.MethodGet, path, nil)
	if err != nil {
		return networkError(path, err)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	log.Trace("GET", "path", path)
	resp, err := c.client.BareDo(ctx, req)
	if err != nil {
		if isCanceled(err) {
			return fmt.Errorf("GET %s: %w", path, err)
		}
		return networkError(path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return networkError(path, err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return decodeError(path, err)
	}
	return nil
}
