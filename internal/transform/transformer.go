// Package transform converts raw extraction records into compliance records
// and computes the run's summary statistics.
package transform

import (
	"fmt"
	"log/slog"

	"github.com/scytale/pr-compliance/internal/compliance"
	"github.com/scytale/pr-compliance/internal/github"
)

// Transform applies the compliance rules to every raw record. Structurally
// invalid records are skipped with a warning; they never abort the batch.
func Transform(raw []github.RawPullRequest) []compliance.Record {
	records := make([]compliance.Record, 0, len(raw))

	for i := range raw {
		if err := validateRaw(&raw[i]); err != nil {
			slog.Warn("Skipping invalid PR record", "error", err)
			continue
		}

		record := compliance.NewRecord(&raw[i])
		if compliance.EnforceInvariant(&record) {
			slog.Warn("is_compliant mismatch, corrected", "pr", record.PRNumber, "repo", record.Repository)
		}
		records = append(records, record)
	}

	return records
}

// validateRaw checks that a raw record carries every section and metadata
// field the compliance rules depend on
func validateRaw(pr *github.RawPullRequest) error {
	if pr.Metadata == nil {
		return fmt.Errorf("missing pr_metadata")
	}
	if pr.Reviews == nil {
		return fmt.Errorf("PR #%d: missing reviews", pr.Metadata.Number)
	}
	if pr.StatusChecks == nil {
		return fmt.Errorf("PR #%d: missing status_checks", pr.Metadata.Number)
	}
	if pr.Commits == nil {
		return fmt.Errorf("PR #%d: missing commits", pr.Metadata.Number)
	}

	meta := pr.Metadata
	if meta.Number == 0 {
		return fmt.Errorf("missing pull request number")
	}
	if meta.Title == "" {
		return fmt.Errorf("PR #%d: missing title", meta.Number)
	}
	if meta.Author.Login == "" {
		return fmt.Errorf("PR #%d: missing author", meta.Number)
	}
	if meta.MergedAt == nil {
		return fmt.Errorf("PR #%d: missing merged_at", meta.Number)
	}
	if meta.Repository == "" {
		return fmt.Errorf("PR #%d: missing repository", meta.Number)
	}

	return nil
}
