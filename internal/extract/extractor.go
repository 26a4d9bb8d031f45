// Package extract drives the extraction stage: it enumerates every repository
// of the configured owner, fetches the full detail of each merged pull
// request, and persists the batch as a raw snapshot.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/scytale/pr-compliance/cmd"
	"github.com/scytale/pr-compliance/internal/artifact"
	"github.com/scytale/pr-compliance/internal/github"
)

// Extractor fetches merged pull request data across all repositories of one
// owner. Repositories are processed sequentially; the pull requests within a
// repository are fetched concurrently up to maxConcurrent in flight.
type Extractor struct {
	client        *github.Client
	rawDir        string
	maxConcurrent int
}

// New builds an extractor from the run configuration.
func New(client *github.Client, config *cmd.Config) *Extractor {
	maxConcurrent := config.MaxConcurrent
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Extractor{
		client:        client,
		rawDir:        config.RawDir,
		maxConcurrent: maxConcurrent,
	}
}

// ExtractAll fetches every merged pull request of every repository and writes
// the raw snapshot. A repository that fails to list or fetch is logged and
// skipped; the batch carries on with the remaining repositories. Only
// repository enumeration itself is fatal.
func (e *Extractor) ExtractAll(ctx context.Context) (string, error) {
	repos, err := e.client.ListRepositories(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to enumerate repositories: %w", err)
	}
	slog.Info("Enumerated repositories", "count", len(repos))

	var all []github.RawPullRequest
	for _, repo := range repos {
		raw, err := e.extractRepository(ctx, repo)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			slog.Warn("Skipping repository", "repo", repo, "error", err)
			continue
		}
		all = append(all, raw...)
	}

	slog.Info("Extraction complete", "repos", len(repos), "prs", len(all))
	return artifact.WriteRaw(e.rawDir, all)
}

// extractRepository lists a repository's merged pull requests and fetches
// their details with bounded concurrency. A pull request whose detail fetch
// fails is logged and excluded from the batch.
func (e *Extractor) extractRepository(ctx context.Context, repo string) ([]github.RawPullRequest, error) {
	stubs, err := e.client.ListMergedPulls(ctx, repo)
	if err != nil {
		return nil, err
	}
	slog.Info("Fetching pull request details", "repo", repo, "merged_prs", len(stubs))

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results []github.RawPullRequest
	)
	sem := make(chan struct{}, e.maxConcurrent)

	for _, stub := range stubs {
		wg.Add(1)
		go func(number int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			raw, err := e.client.FetchDetails(ctx, repo, number)
			if err != nil {
				slog.Warn("Skipping pull request", "repo", repo, "pr", number, "error", err)
				return
			}
			if raw == nil {
				return
			}

			mu.Lock()
			results = append(results, *raw)
			mu.Unlock()
		}(stub.Number)
	}
	wg.Wait()

	return results, nil
}
