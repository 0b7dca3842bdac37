// Package slack relays messages to a Slack channel through the Web API.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spiffcs/issues-watcher/internal/constants"
	"github.com/spiffcs/issues-watcher/internal/log"
	"golang.org/x/oauth2"
)

var (
	// ErrRelay is returned when Slack rejects a message or cannot be reached.
	ErrRelay = errors.New("slack relay failed")

	// ErrNotConfigured is returned when no token or channel is set.
	ErrNotConfigured = errors.New("slack relay is not configured")
)

// Client posts messages with a bot token.
type Client struct {
	http    *http.Client
	baseURL string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API root.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if !strings.HasSuffix(u, "/") {
			u += "/"
		}
		c.baseURL = u
	}
}

// NewClient creates a Slack client. An empty token falls back to the
// SLACK_TOKEN environment variable.
func NewClient(ctx context.Context, token string, opts ...Option) (*Client, error) {
	if token == "" {
		token = os.Getenv("SLACK_TOKEN")
	}
	if token == "" {
		return nil, fmt.Errorf("%w: set slack_token in the config file or the SLACK_TOKEN environment variable", ErrNotConfigured)
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	c := &Client{
		http:    oauth2.NewClient(ctx, ts),
		baseURL: constants.SlackAPIBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type postMessageRequest struct {
	Channel string `json:"channel"`
	Text    string `json:"text"`
}

type postMessageResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
	TS    string `json:"ts,omitempty"`
}

// PostMessage sends text to channel. It makes a single attempt.
func (c *Client) PostMessage(ctx context.Context, channel, text string) error {
	if channel == "" {
		return fmt.Errorf("%w: no channel", ErrNotConfigured)
	}

	body, err := json.Marshal(postMessageRequest{Channel: channel, Text: text})
	if err != nil {
		return fmt.Errorf("%w: encode message: %w", ErrRelay, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"chat.postMessage", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRelay, err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("User-Agent", constants.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRelay, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %w", ErrRelay, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: HTTP %d", ErrRelay, resp.StatusCode)
	}

	var out postMessageResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("%w: decode response: %w", ErrRelay, err)
	}
	if !out.OK {
		return fmt.Errorf("%w: %s", ErrRelay, out.Error)
	}

	log.Debug("relayed message", "channel", channel, "ts", out.TS)
	return nil
}
