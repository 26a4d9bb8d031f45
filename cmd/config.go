// Package cmd defines core data structures for pr-compliance configuration and
// the review/status-check vocabulary shared across the pipeline stages.
package cmd

// ReviewState represents the state of a pull request review
type ReviewState string

const (
	// ReviewStateApproved indicates the reviewer approved the changes
	ReviewStateApproved ReviewState = "APPROVED"
	// ReviewStateChangesRequested indicates the reviewer requested changes
	ReviewStateChangesRequested ReviewState = "CHANGES_REQUESTED"
	// ReviewStateCommented indicates the reviewer left comments without a verdict
	ReviewStateCommented ReviewState = "COMMENTED"
)

// CheckConclusion represents the outcome of a status check attached to a commit
type CheckConclusion string

const (
	// CheckConclusionSuccess indicates the check passed
	CheckConclusionSuccess CheckConclusion = "success"
	// CheckConclusionFailure indicates the check failed
	CheckConclusionFailure CheckConclusion = "failure"
	// CheckConclusionCancelled indicates the check was cancelled before completing
	CheckConclusionCancelled CheckConclusion = "cancelled"
	// CheckConclusionSkipped indicates the check was skipped
	CheckConclusionSkipped CheckConclusion = "skipped"
	// CheckConclusionNeutral indicates the check completed without a pass/fail verdict
	CheckConclusionNeutral CheckConclusion = "neutral"
	// CheckConclusionNone indicates the check has not concluded
	CheckConclusionNone CheckConclusion = ""
)

// ConclusionFromStatusState converts a commit status state from the combined
// status API into a CheckConclusion
func ConclusionFromStatusState(s string) CheckConclusion {
	switch s {
	case "success":
		return CheckConclusionSuccess
	case "failure", "error":
		return CheckConclusionFailure
	case "pending":
		return CheckConclusionNone
	default:
		return CheckConclusionNeutral
	}
}

// Config represents the structure of pr-compliance.yaml
type Config struct {
	Owner             string          `yaml:"owner"`
	RawDir            string          `yaml:"raw_dir"`
	ProcessedDir      string          `yaml:"processed_dir"`
	PerPage           int             `yaml:"per_page"`
	MaxConcurrent     int             `yaml:"max_concurrent"`
	RateLimitMaxWaits int             `yaml:"rate_limit_max_waits"`
	MaxRetries        int             `yaml:"max_retries"`
	RetryBaseSeconds  int             `yaml:"retry_base_seconds"`
	RetryMaxSeconds   int             `yaml:"retry_max_seconds"`
	Stages            StageConfig     `yaml:"stages"`
	Snowflake         SnowflakeConfig `yaml:"snowflake"`
}

// StageConfig carries the scheduler-level timeout and retry settings for the
// extract, transform and load stages
type StageConfig struct {
	ExtractTimeoutMinutes   int `yaml:"extract_timeout_minutes"`
	TransformTimeoutMinutes int `yaml:"transform_timeout_minutes"`
	LoadTimeoutMinutes      int `yaml:"load_timeout_minutes"`
	Retries                 int `yaml:"retries"`
	RetryDelayMinutes       int `yaml:"retry_delay_minutes"`
}

// SnowflakeConfig holds the optional warehouse sink connection settings.
// The password is normally supplied via SNOWFLAKE_PASSWORD rather than YAML.
type SnowflakeConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Account   string `yaml:"account"`
	User      string `yaml:"user"`
	Password  string `yaml:"password,omitempty"`
	Warehouse string `yaml:"warehouse"`
	Database  string `yaml:"database"`
	Schema    string `yaml:"schema"`
	Role      string `yaml:"role"`
	Table     string `yaml:"table"`
}

// DefaultConfig returns the configuration used when no file or override is present
func DefaultConfig() *Config {
	return &Config{
		Owner:             "home-assistant",
		RawDir:            "data/raw",
		ProcessedDir:      "data/processed",
		PerPage:           100,
		MaxConcurrent:     10,
		RateLimitMaxWaits: 2,
		MaxRetries:        5,
		RetryBaseSeconds:  4,
		RetryMaxSeconds:   10,
		Stages: StageConfig{
			ExtractTimeoutMinutes:   30,
			TransformTimeoutMinutes: 15,
			LoadTimeoutMinutes:      10,
			Retries:                 3,
			RetryDelayMinutes:       5,
		},
		Snowflake: SnowflakeConfig{
			Schema: "PUBLIC",
			Role:   "PUBLIC",
			Table:  "PR_COMPLIANCE_METRICS",
		},
	}
}
