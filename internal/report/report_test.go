package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scytale/pr-compliance/internal/compliance"
)

func sampleRecords() []compliance.Record {
	mergedAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	return []compliance.Record{
		{PRNumber: 1, PRTitle: "One", Author: "alice", Repository: "core", MergedAt: mergedAt,
			CodeReviewPassed: true, StatusChecksPassed: true, IsCompliant: true},
		{PRNumber: 2, PRTitle: "Two", Author: "bob", Repository: "core", MergedAt: mergedAt,
			CodeReviewPassed: false, StatusChecksPassed: true, IsCompliant: false},
		{PRNumber: 3, PRTitle: "Three", Author: "carol", Repository: "frontend", MergedAt: mergedAt,
			CodeReviewPassed: true, StatusChecksPassed: true, IsCompliant: true},
	}
}

func TestBuild(t *testing.T) {
	report := Build(sampleRecords())

	assert.Equal(t, 3, report.Summary.TotalPRs)
	assert.Equal(t, 2, report.Summary.CompliantPRs)

	require.Len(t, report.RepositoryStats, 2)
	// frontend (100%) sorts before core (50%)
	assert.Equal(t, "frontend", report.RepositoryStats[0].Repository)
	assert.Equal(t, 100.0, report.RepositoryStats[0].ComplianceRate)
	assert.Equal(t, "core", report.RepositoryStats[1].Repository)
	assert.Equal(t, 50.0, report.RepositoryStats[1].ComplianceRate)

	require.Len(t, report.Violations, 1)
	assert.Equal(t, 2, report.Violations[0].PRNumber)
	assert.False(t, report.Violations[0].CodeReviewPassed)
	assert.True(t, report.Violations[0].StatusChecksPassed)
}

func TestBuildEmptyBatch(t *testing.T) {
	report := Build(nil)

	assert.Equal(t, 0, report.Summary.TotalPRs)
	assert.Empty(t, report.RepositoryStats)
	assert.Empty(t, report.Violations)
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, WriteJSON(path, Build(sampleRecords())))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 3, decoded.Summary.TotalPRs)
	assert.Len(t, decoded.RepositoryStats, 2)
	assert.Len(t, decoded.Violations, 1)
}

func TestWriteHTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.html")
	require.NoError(t, WriteHTML(path, Build(sampleRecords())))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	html := string(data)

	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, "PR Compliance Report")
	assert.Contains(t, html, "frontend")
	assert.Contains(t, html, "#2")
	assert.Contains(t, html, "bob")
}

func TestWriteHTMLEscapesTitles(t *testing.T) {
	mergedAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	records := []compliance.Record{
		{PRNumber: 1, PRTitle: "<script>alert(1)</script>", Author: "mallory",
			Repository: "core", MergedAt: mergedAt},
	}

	path := filepath.Join(t.TempDir(), "report.html")
	require.NoError(t, WriteHTML(path, Build(records)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "<script>alert(1)</script>")
	assert.Contains(t, string(data), "&lt;script&gt;")
}
