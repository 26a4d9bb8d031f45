package transform

import (
	"log/slog"
	"math"
	"time"

	"github.com/scytale/pr-compliance/internal/compliance"
)

// Summary holds the aggregate statistics for one transformed batch
type Summary struct {
	TotalPRs               int            `json:"total_prs"`
	CompliantPRs           int            `json:"compliant_prs"`
	ComplianceRate         float64        `json:"compliance_rate"`
	ViolationsByRepository map[string]int `json:"violations_by_repository"`
	ReviewViolations       int            `json:"review_violations"`
	CheckViolations        int            `json:"check_violations"`
	GeneratedAt            time.Time      `json:"generated_at"`
}

// Summarize computes the aggregate statistics for a batch of compliance
// records. The compliance rate is a percentage rounded to two decimals, zero
// when the batch is empty.
func Summarize(records []compliance.Record) Summary {
	summary := Summary{
		ViolationsByRepository: make(map[string]int),
		GeneratedAt:            time.Now(),
	}

	for _, record := range records {
		summary.TotalPRs++
		if record.IsCompliant {
			summary.CompliantPRs++
		} else {
			summary.ViolationsByRepository[record.Repository]++
		}
		if !record.CodeReviewPassed {
			summary.ReviewViolations++
		}
		if !record.StatusChecksPassed {
			summary.CheckViolations++
		}
	}

	if summary.TotalPRs > 0 {
		rate := float64(summary.CompliantPRs) / float64(summary.TotalPRs) * 100
		summary.ComplianceRate = math.Round(rate*100) / 100
	}

	return summary
}

// Log emits the compliance summary block
func (s Summary) Log() {
	slog.Info("Compliance summary",
		"total_prs", s.TotalPRs,
		"compliant_prs", s.CompliantPRs,
		"compliance_rate", s.ComplianceRate,
		"review_violations", s.ReviewViolations,
		"check_violations", s.CheckViolations,
	)
	for repo, count := range s.ViolationsByRepository {
		slog.Info("Repository violations", "repo", repo, "count", count)
	}
}
