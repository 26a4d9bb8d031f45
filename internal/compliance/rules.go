// Package compliance implements the pull request compliance policy: a merged
// PR is compliant when it carries at least one approved review and every
// status check on its head commit succeeded. The package is pure — no
// network, no I/O, no mutable state — so the policy is testable in isolation.
package compliance

import (
	"github.com/scytale/pr-compliance/cmd"
	"github.com/scytale/pr-compliance/internal/github"
)

// CodeReviewPassed reports whether at least one review approved the pull
// request. An empty review list fails the rule.
func CodeReviewPassed(reviews []github.Review) bool {
	for _, review := range reviews {
		if review.State == cmd.ReviewStateApproved {
			return true
		}
	}
	return false
}

// StatusChecksPassed reports whether every status check on the head commit
// succeeded. No checks configured fails the rule: an unchecked merge is not
// a compliant merge. Any failed or cancelled check fails immediately, and
// neutral, skipped or unconcluded checks do not count as successes.
func StatusChecksPassed(set *github.StatusCheckSet) bool {
	if set == nil || len(set.Statuses) == 0 {
		return false
	}

	successful := 0
	for _, check := range set.Statuses {
		switch check.Conclusion {
		case cmd.CheckConclusionFailure, cmd.CheckConclusionCancelled:
			return false
		case cmd.CheckConclusionSuccess:
			successful++
		}
	}

	return successful == len(set.Statuses)
}

// approvedReviewCount counts reviews in the approved state
func approvedReviewCount(reviews []github.Review) int {
	count := 0
	for _, review := range reviews {
		if review.State == cmd.ReviewStateApproved {
			count++
		}
	}
	return count
}
