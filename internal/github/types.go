package github

import (
	"time"

	"github.com/scytale/pr-compliance/cmd"
)

// RawPullRequest is the full extraction record for one merged pull request.
// It exists only for closed, merged pull requests; anything else is dropped
// during extraction rather than represented as a zero value.
type RawPullRequest struct {
	Metadata     *PRMetadata     `json:"pr_metadata"`
	Reviews      []Review        `json:"reviews"`
	StatusChecks *StatusCheckSet `json:"status_checks"`
	Commits      []Commit        `json:"commits"`
}

// PRMetadata holds the pull request fields the compliance rules depend on
type PRMetadata struct {
	Number     int        `json:"number"`
	Title      string     `json:"title"`
	State      string     `json:"state"`
	MergedAt   *time.Time `json:"merged_at"`
	Author     Author     `json:"author"`
	BaseBranch string     `json:"base_branch"`
	HeadBranch string     `json:"head_branch"`
	Repository string     `json:"repository"`
}

// Author identifies the pull request author
type Author struct {
	Login string `json:"login"`
	ID    int64  `json:"id"`
}

// Review represents a single pull request review. Original submission order
// is preserved for audit counts; compliance only cares whether any review
// approved.
type Review struct {
	State       cmd.ReviewState `json:"state"`
	Author      string          `json:"author"`
	SubmittedAt *time.Time      `json:"submitted_at"`
}

// StatusCheckSet is the set of status checks attached to the head commit.
// An empty set is a valid state meaning no checks are configured.
type StatusCheckSet struct {
	Statuses []StatusCheck `json:"statuses"`
}

// StatusCheck is one CI/validation result on a commit
type StatusCheck struct {
	Context    string              `json:"context"`
	Conclusion cmd.CheckConclusion `json:"conclusion"`
}

// Commit represents a commit belonging to a pull request
type Commit struct {
	SHA     string `json:"sha"`
	Message string `json:"message"`
	Author  string `json:"author"`
}

// PullStub identifies a merged pull request discovered during enumeration
type PullStub struct {
	Number   int
	Title    string
	MergedAt time.Time
}
