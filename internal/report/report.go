// Package report renders the compliance results of a run as an HTML page or a
// JSON document.
package report

import (
	"encoding/json"
	"fmt"
	"html/template"
	"math"
	"os"
	"sort"
	"time"

	"github.com/scytale/pr-compliance/internal/compliance"
	"github.com/scytale/pr-compliance/internal/transform"
)

// RepositoryStats aggregates the compliance outcome of one repository
type RepositoryStats struct {
	Repository     string  `json:"repository"`
	TotalPRs       int     `json:"total_prs"`
	CompliantPRs   int     `json:"compliant_prs"`
	ComplianceRate float64 `json:"compliance_rate"`
}

// Violation identifies one non-compliant pull request and which rules failed
type Violation struct {
	Repository         string    `json:"repository"`
	PRNumber           int       `json:"pr_number"`
	PRTitle            string    `json:"pr_title"`
	Author             string    `json:"author"`
	MergedAt           time.Time `json:"merged_at"`
	CodeReviewPassed   bool      `json:"code_review_passed"`
	StatusChecksPassed bool      `json:"status_checks_passed"`
}

// Report is the full rendered view of one run's compliance results
type Report struct {
	Summary         transform.Summary `json:"summary"`
	RepositoryStats []RepositoryStats `json:"repository_stats"`
	Violations      []Violation       `json:"violations"`
}

// Build computes the report structure from a batch of compliance records.
// Repositories are ordered best compliance rate first, ties broken by name.
func Build(records []compliance.Record) Report {
	byRepo := make(map[string]*RepositoryStats)
	var violations []Violation

	for _, record := range records {
		stats, ok := byRepo[record.Repository]
		if !ok {
			stats = &RepositoryStats{Repository: record.Repository}
			byRepo[record.Repository] = stats
		}
		stats.TotalPRs++
		if record.IsCompliant {
			stats.CompliantPRs++
		} else {
			violations = append(violations, Violation{
				Repository:         record.Repository,
				PRNumber:           record.PRNumber,
				PRTitle:            record.PRTitle,
				Author:             record.Author,
				MergedAt:           record.MergedAt,
				CodeReviewPassed:   record.CodeReviewPassed,
				StatusChecksPassed: record.StatusChecksPassed,
			})
		}
	}

	repoStats := make([]RepositoryStats, 0, len(byRepo))
	for _, stats := range byRepo {
		rate := float64(stats.CompliantPRs) / float64(stats.TotalPRs) * 100
		stats.ComplianceRate = math.Round(rate*100) / 100
		repoStats = append(repoStats, *stats)
	}
	sort.Slice(repoStats, func(i, j int) bool {
		if repoStats[i].ComplianceRate != repoStats[j].ComplianceRate {
			return repoStats[i].ComplianceRate > repoStats[j].ComplianceRate
		}
		return repoStats[i].Repository < repoStats[j].Repository
	})

	sort.Slice(violations, func(i, j int) bool {
		if violations[i].Repository != violations[j].Repository {
			return violations[i].Repository < violations[j].Repository
		}
		return violations[i].PRNumber < violations[j].PRNumber
	})

	return Report{
		Summary:         transform.Summarize(records),
		RepositoryStats: repoStats,
		Violations:      violations,
	}
}

// WriteJSON renders the report as an indented JSON document
func WriteJSON(path string, report Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// WriteHTML renders the report as a standalone HTML page
func WriteHTML(path string, report Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	defer f.Close()

	if err := htmlTemplate.Execute(f, report); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

var htmlTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>PR Compliance Report</title>
<style>
body { font-family: sans-serif; margin: 2rem; color: #222; }
table { border-collapse: collapse; margin-bottom: 2rem; }
th, td { border: 1px solid #ccc; padding: 0.4rem 0.8rem; text-align: left; }
th { background: #f0f0f0; }
.pass { color: #2a7d2a; }
.fail { color: #b03030; }
</style>
</head>
<body>
<h1>PR Compliance Report</h1>
<p>Generated at {{.Summary.GeneratedAt.Format "2006-01-02 15:04:05 MST"}}</p>

<h2>Summary</h2>
<table>
<tr><th>Total PRs</th><td>{{.Summary.TotalPRs}}</td></tr>
<tr><th>Compliant PRs</th><td>{{.Summary.CompliantPRs}}</td></tr>
<tr><th>Compliance rate</th><td>{{printf "%.2f" .Summary.ComplianceRate}}%</td></tr>
<tr><th>Review violations</th><td>{{.Summary.ReviewViolations}}</td></tr>
<tr><th>Check violations</th><td>{{.Summary.CheckViolations}}</td></tr>
</table>

<h2>Repositories</h2>
<table>
<tr><th>Repository</th><th>Total PRs</th><th>Compliant</th><th>Rate</th></tr>
{{range .RepositoryStats}}<tr>
<td>{{.Repository}}</td><td>{{.TotalPRs}}</td><td>{{.CompliantPRs}}</td><td>{{printf "%.2f" .ComplianceRate}}%</td>
</tr>
{{end}}</table>

<h2>Violations</h2>
{{if .Violations}}<table>
<tr><th>Repository</th><th>PR</th><th>Title</th><th>Author</th><th>Merged</th><th>Code review</th><th>Status checks</th></tr>
{{range .Violations}}<tr>
<td>{{.Repository}}</td>
<td>#{{.PRNumber}}</td>
<td>{{.PRTitle}}</td>
<td>{{.Author}}</td>
<td>{{.MergedAt.Format "2006-01-02"}}</td>
<td class="{{if .CodeReviewPassed}}pass{{else}}fail{{end}}">{{if .CodeReviewPassed}}passed{{else}}failed{{end}}</td>
<td class="{{if .StatusChecksPassed}}pass{{else}}fail{{end}}">{{if .StatusChecksPassed}}passed{{else}}failed{{end}}</td>
</tr>
{{end}}</table>
{{else}}<p>No violations. Every merged PR is compliant.</p>
{{end}}</body>
</html>
`))
