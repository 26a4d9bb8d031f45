package compliance

import (
	"time"

	"github.com/scytale/pr-compliance/internal/github"
)

// Record is the compliance verdict for one merged pull request. Records are
// immutable once built and are written to durable storage exactly once per run.
type Record struct {
	PRNumber            int       `json:"pr_number" parquet:"pr_number"`
	PRTitle             string    `json:"pr_title" parquet:"pr_title"`
	Author              string    `json:"author" parquet:"author"`
	Repository          string    `json:"repository" parquet:"repository"`
	MergedAt            time.Time `json:"merged_at" parquet:"merged_at"`
	CodeReviewPassed    bool      `json:"code_review_passed" parquet:"code_review_passed"`
	StatusChecksPassed  bool      `json:"status_checks_passed" parquet:"status_checks_passed"`
	IsCompliant         bool      `json:"is_compliant" parquet:"is_compliant"`
	ReviewCount         int       `json:"review_count" parquet:"review_count"`
	ApprovedReviewCount int       `json:"approved_review_count" parquet:"approved_review_count"`
	StatusCheckCount    int       `json:"status_check_count" parquet:"status_check_count"`
	CommitCount         int       `json:"commit_count" parquet:"commit_count"`
}

// NewRecord evaluates the compliance rules for a raw pull request and builds
// its record. IsCompliant is always derived from the two rule outcomes here;
// it is never accepted as input, so an inconsistent record cannot be built.
func NewRecord(raw *github.RawPullRequest) Record {
	reviewPassed := CodeReviewPassed(raw.Reviews)
	checksPassed := StatusChecksPassed(raw.StatusChecks)

	var mergedAt time.Time
	if raw.Metadata.MergedAt != nil {
		mergedAt = *raw.Metadata.MergedAt
	}

	checkCount := 0
	if raw.StatusChecks != nil {
		checkCount = len(raw.StatusChecks.Statuses)
	}

	return Record{
		PRNumber:            raw.Metadata.Number,
		PRTitle:             raw.Metadata.Title,
		Author:              raw.Metadata.Author.Login,
		Repository:          raw.Metadata.Repository,
		MergedAt:            mergedAt,
		CodeReviewPassed:    reviewPassed,
		StatusChecksPassed:  checksPassed,
		IsCompliant:         reviewPassed && checksPassed,
		ReviewCount:         len(raw.Reviews),
		ApprovedReviewCount: approvedReviewCount(raw.Reviews),
		StatusCheckCount:    checkCount,
		CommitCount:         len(raw.Commits),
	}
}

// EnforceInvariant re-derives IsCompliant from the rule outcomes on an
// already-built record, correcting it in place. It returns true when the
// record had to be corrected, so the caller can log a warning. Violating
// input is corrected, never rejected.
func EnforceInvariant(record *Record) bool {
	expected := record.CodeReviewPassed && record.StatusChecksPassed
	if record.IsCompliant == expected {
		return false
	}
	record.IsCompliant = expected
	return true
}
