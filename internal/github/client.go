// Package github wraps the GitHub API for the compliance pipeline. All calls
// go through a single client whose transport enforces the remote rate limit
// and retries transient network failures; callers never bypass it.
package github

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"

	"github.com/scytale/pr-compliance/cmd"
)

// Client wraps the GitHub API client for one extraction run
type Client struct {
	client  *github.Client
	owner   string
	perPage int
}

// NewClient creates a new GitHub client for the given account. An empty token
// is allowed for public data, at the cost of a much smaller rate limit quota.
func NewClient(ctx context.Context, token, owner string, transportCfg *TransportConfig) *Client {
	base := newRetryTransport(newRateLimitTransport(http.DefaultTransport, transportCfg), transportCfg)

	var rt http.RoundTripper = base
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		rt = &oauth2.Transport{Source: ts, Base: base}
	}

	return &Client{
		client:  github.NewClient(&http.Client{Transport: rt}),
		owner:   owner,
		perPage: 100,
	}
}

// NewFromConfig builds a client from the pipeline configuration
func NewFromConfig(ctx context.Context, token string, config *cmd.Config) *Client {
	client := NewClient(ctx, token, config.Owner, TransportConfigFrom(config))
	if config.PerPage > 0 {
		client.perPage = config.PerPage
	}
	return client
}

// WithBaseURL points the client at a different API endpoint. Used in tests.
func (c *Client) WithBaseURL(rawURL string) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(rawURL, "/") + "/")
	if err != nil {
		return nil, err
	}
	c.client.BaseURL = u
	return c, nil
}
