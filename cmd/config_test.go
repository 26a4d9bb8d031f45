package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConclusionFromStatusState(t *testing.T) {
	tests := []struct {
		name     string
		state    string
		expected CheckConclusion
	}{
		{"success maps to success", "success", CheckConclusionSuccess},
		{"failure maps to failure", "failure", CheckConclusionFailure},
		{"error maps to failure", "error", CheckConclusionFailure},
		{"pending maps to unconcluded", "pending", CheckConclusionNone},
		{"unknown state maps to neutral", "expected_waiting", CheckConclusionNeutral},
		{"empty state maps to neutral", "", CheckConclusionNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ConclusionFromStatusState(tt.state))
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "home-assistant", config.Owner)
	assert.Equal(t, "data/raw", config.RawDir)
	assert.Equal(t, "data/processed", config.ProcessedDir)
	assert.Equal(t, 100, config.PerPage)
	assert.Equal(t, 10, config.MaxConcurrent)
	assert.Equal(t, 2, config.RateLimitMaxWaits)
	assert.Equal(t, 5, config.MaxRetries)
	assert.Equal(t, 30, config.Stages.ExtractTimeoutMinutes)
	assert.Equal(t, 15, config.Stages.TransformTimeoutMinutes)
	assert.Equal(t, 10, config.Stages.LoadTimeoutMinutes)
	assert.Equal(t, 3, config.Stages.Retries)
	assert.Equal(t, 5, config.Stages.RetryDelayMinutes)
	assert.False(t, config.Snowflake.Enabled)
	assert.Equal(t, "PR_COMPLIANCE_METRICS", config.Snowflake.Table)
}
