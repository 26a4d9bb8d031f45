package github

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/go-github/v57/github"

	"github.com/scytale/pr-compliance/cmd"
)

// FetchDetails assembles the full raw record for one pull request: metadata,
// reviews, status checks on the head commit, and commits. It returns
// (nil, nil) when the pull request no longer exists or turns out not to be a
// merged, closed pull request on re-check.
func (c *Client) FetchDetails(ctx context.Context, repo string, number int) (*RawPullRequest, error) {
	slog.Debug("GitHub API: Getting PR", "owner", c.owner, "repo", repo, "pr", number)
	pr, _, err := c.client.PullRequests.Get(ctx, c.owner, repo, number)
	if err != nil {
		if IsNotFound(err) {
			slog.Warn("Pull request no longer exists", "repo", repo, "pr", number)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch PR #%d: %w", number, wrapAPIError(err))
	}

	// Listing may race with the PR being reopened; only merged, closed PRs
	// belong in the compliance dataset
	if pr.GetState() != "closed" || pr.MergedAt == nil {
		return nil, nil
	}

	reviews, err := c.listReviews(ctx, repo, number)
	if err != nil {
		return nil, err
	}

	checks, err := c.getStatusChecks(ctx, repo, pr.GetHead().GetSHA())
	if err != nil {
		return nil, err
	}

	commits, err := c.listCommits(ctx, repo, number)
	if err != nil {
		return nil, err
	}

	mergedAt := pr.GetMergedAt().Time
	return &RawPullRequest{
		Metadata: &PRMetadata{
			Number:     pr.GetNumber(),
			Title:      pr.GetTitle(),
			State:      pr.GetState(),
			MergedAt:   &mergedAt,
			Author:     Author{Login: pr.GetUser().GetLogin(), ID: pr.GetUser().GetID()},
			BaseBranch: pr.GetBase().GetRef(),
			HeadBranch: pr.GetHead().GetRef(),
			Repository: repo,
		},
		Reviews:      reviews,
		StatusChecks: checks,
		Commits:      commits,
	}, nil
}

// listReviews fetches the reviews for a pull request. A vanished PR yields an
// empty review list, not an error.
func (c *Client) listReviews(ctx context.Context, repo string, number int) ([]Review, error) {
	slog.Debug("GitHub API: Listing reviews", "owner", c.owner, "repo", repo, "pr", number)
	ghReviews, _, err := c.client.PullRequests.ListReviews(ctx, c.owner, repo, number, &github.ListOptions{PerPage: c.perPage})
	if err != nil {
		if IsNotFound(err) {
			return []Review{}, nil
		}
		return nil, fmt.Errorf("failed to fetch reviews for PR #%d: %w", number, wrapAPIError(err))
	}

	reviews := make([]Review, 0, len(ghReviews))
	for _, review := range ghReviews {
		var submitted *time.Time
		if review.SubmittedAt != nil {
			ts := review.GetSubmittedAt().Time
			submitted = &ts
		}
		reviews = append(reviews, Review{
			State:       cmd.ReviewState(review.GetState()),
			Author:      review.GetUser().GetLogin(),
			SubmittedAt: submitted,
		})
	}
	return reviews, nil
}

// getStatusChecks fetches the combined status for a commit. An empty set
// means no checks are configured, which is a valid state.
func (c *Client) getStatusChecks(ctx context.Context, repo, sha string) (*StatusCheckSet, error) {
	if sha == "" {
		return &StatusCheckSet{Statuses: []StatusCheck{}}, nil
	}

	slog.Debug("GitHub API: Getting combined status", "owner", c.owner, "repo", repo, "sha", sha)
	status, _, err := c.client.Repositories.GetCombinedStatus(ctx, c.owner, repo, sha, &github.ListOptions{PerPage: c.perPage})
	if err != nil {
		if IsNotFound(err) {
			return &StatusCheckSet{Statuses: []StatusCheck{}}, nil
		}
		return nil, fmt.Errorf("failed to fetch status checks for commit %s: %w", sha, wrapAPIError(err))
	}

	set := &StatusCheckSet{Statuses: make([]StatusCheck, 0, len(status.Statuses))}
	for _, s := range status.Statuses {
		set.Statuses = append(set.Statuses, StatusCheck{
			Context:    s.GetContext(),
			Conclusion: cmd.ConclusionFromStatusState(s.GetState()),
		})
	}
	return set, nil
}

// listCommits fetches the commits belonging to a pull request
func (c *Client) listCommits(ctx context.Context, repo string, number int) ([]Commit, error) {
	slog.Debug("GitHub API: Listing commits", "owner", c.owner, "repo", repo, "pr", number)
	ghCommits, _, err := c.client.PullRequests.ListCommits(ctx, c.owner, repo, number, &github.ListOptions{PerPage: c.perPage})
	if err != nil {
		if IsNotFound(err) {
			return []Commit{}, nil
		}
		return nil, fmt.Errorf("failed to fetch commits for PR #%d: %w", number, wrapAPIError(err))
	}

	commits := make([]Commit, 0, len(ghCommits))
	for _, commit := range ghCommits {
		commits = append(commits, Commit{
			SHA:     commit.GetSHA(),
			Message: strings.Split(commit.GetCommit().GetMessage(), "\n")[0], // First line only
			Author:  commit.GetCommit().GetAuthor().GetName(),
		})
	}
	return commits, nil
}
