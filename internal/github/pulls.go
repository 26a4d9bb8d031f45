package github

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/go-github/v57/github"
)

// ListRepositories returns the names of all repositories owned by the
// configured account, paging until a short page signals the end.
func (c *Client) ListRepositories(ctx context.Context) ([]string, error) {
	var names []string

	for page := 1; ; page++ {
		opts := &github.RepositoryListOptions{
			ListOptions: github.ListOptions{
				PerPage: c.perPage,
				Page:    page,
			},
		}
		slog.Debug("GitHub API: Listing repositories", "owner", c.owner, "page", page)
		repos, _, err := c.client.Repositories.List(ctx, c.owner, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list repositories for %s: %w", c.owner, wrapAPIError(err))
		}

		for _, repo := range repos {
			names = append(names, repo.GetName())
		}

		if len(repos) < c.perPage {
			break
		}
	}

	return names, nil
}

// ListMergedPulls pages through a repository's closed pull requests and keeps
// the merged ones. A fresh call always re-pages from page 1.
func (c *Client) ListMergedPulls(ctx context.Context, repo string) ([]PullStub, error) {
	var merged []PullStub

	for page := 1; ; page++ {
		opts := &github.PullRequestListOptions{
			State: "closed",
			ListOptions: github.ListOptions{
				PerPage: c.perPage,
				Page:    page,
			},
		}
		slog.Debug("GitHub API: Listing closed pull requests", "owner", c.owner, "repo", repo, "page", page)
		pulls, _, err := c.client.PullRequests.List(ctx, c.owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list pull requests for %s/%s: %w", c.owner, repo, wrapAPIError(err))
		}

		for _, pr := range pulls {
			if pr.MergedAt == nil {
				continue
			}
			merged = append(merged, PullStub{
				Number:   pr.GetNumber(),
				Title:    pr.GetTitle(),
				MergedAt: pr.GetMergedAt().Time,
			})
		}

		if len(pulls) < c.perPage {
			break
		}
	}

	return merged, nil
}
