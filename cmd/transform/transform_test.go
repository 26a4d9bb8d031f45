package transform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scytale/pr-compliance/cmd"
	"github.com/scytale/pr-compliance/internal/artifact"
	"github.com/scytale/pr-compliance/internal/github"
)

func TestRunTransformsLatestSnapshot(t *testing.T) {
	config := cmd.DefaultConfig()
	config.RawDir = t.TempDir()
	config.ProcessedDir = t.TempDir()

	mergedAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	raw := []github.RawPullRequest{
		{
			Metadata: &github.PRMetadata{
				Number: 3, Title: "Add test", MergedAt: &mergedAt,
				Author: github.Author{Login: "alice"}, Repository: "core",
			},
			Reviews:      []github.Review{{State: cmd.ReviewStateApproved}},
			StatusChecks: &github.StatusCheckSet{Statuses: []github.StatusCheck{{Conclusion: cmd.CheckConclusionSuccess}}},
			Commits:      []github.Commit{{SHA: "abc"}},
		},
	}
	_, err := artifact.WriteRaw(config.RawDir, raw)
	require.NoError(t, err)

	tc := &TransformCommand{}
	tc.Config = config
	require.NoError(t, tc.Run())

	path, err := artifact.LatestCompliance(config.ProcessedDir)
	require.NoError(t, err)

	records, err := artifact.ReadCompliance(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 3, records[0].PRNumber)
	assert.True(t, records[0].IsCompliant)
}

func TestRunFailsWithoutSnapshots(t *testing.T) {
	config := cmd.DefaultConfig()
	config.RawDir = t.TempDir()

	tc := &TransformCommand{}
	tc.Config = config
	assert.Error(t, tc.Run())
}
