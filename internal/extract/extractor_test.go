package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scytale/pr-compliance/cmd"
	"github.com/scytale/pr-compliance/internal/artifact"
	"github.com/scytale/pr-compliance/internal/github"
)

func newTestClient(t *testing.T, handler http.Handler, config *cmd.Config) *github.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := github.NewFromConfig(context.Background(), "", config).WithBaseURL(server.URL)
	require.NoError(t, err)
	return client
}

func testConfig(t *testing.T) *cmd.Config {
	config := cmd.DefaultConfig()
	config.Owner = "home-assistant"
	config.RawDir = t.TempDir()
	config.MaxConcurrent = 3
	return config
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func prDetailHandlers(mux *http.ServeMux, repo string, number int) {
	mergedAt := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	base := fmt.Sprintf("/repos/home-assistant/%s/pulls/%d", repo, number)
	mux.HandleFunc(base, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"number":    number,
			"title":     fmt.Sprintf("PR %d", number),
			"state":     "closed",
			"merged_at": mergedAt.Format(time.RFC3339),
			"user":      map[string]any{"login": "alice", "id": 1},
			"base":      map[string]any{"ref": "main"},
			"head":      map[string]any{"ref": "feature", "sha": "abc123"},
		})
	})
	mux.HandleFunc(base+"/reviews", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []map[string]any{{"state": "APPROVED", "user": map[string]any{"login": "bob"}}})
	})
	mux.HandleFunc(base+"/commits", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []map[string]any{{"sha": "abc123", "commit": map[string]any{"message": "change"}}})
	})
	mux.HandleFunc("/repos/home-assistant/"+repo+"/commits/abc123/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"state":    "success",
			"statuses": []map[string]any{{"context": "ci/build", "state": "success"}},
		})
	})
}

func TestExtractAllWritesSnapshot(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/home-assistant/repos", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []map[string]any{{"name": "core"}})
	})
	mux.HandleFunc("/repos/home-assistant/core/pulls", func(w http.ResponseWriter, r *http.Request) {
		mergedAt := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
		writeJSON(w, []map[string]any{
			{"number": 1, "title": "PR 1", "merged_at": mergedAt.Format(time.RFC3339)},
			{"number": 2, "title": "PR 2"}, // closed but never merged
		})
	})
	prDetailHandlers(mux, "core", 1)

	config := testConfig(t)
	client := newTestClient(t, mux, config)

	path, err := New(client, config).ExtractAll(context.Background())
	require.NoError(t, err)

	raw, err := artifact.ReadRaw(path)
	require.NoError(t, err)
	require.Len(t, raw, 1)
	assert.Equal(t, 1, raw[0].Metadata.Number)
	assert.Equal(t, "core", raw[0].Metadata.Repository)
	assert.Len(t, raw[0].Reviews, 1)
	assert.Len(t, raw[0].StatusChecks.Statuses, 1)
}

func TestExtractAllSkipsFailingRepository(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/home-assistant/repos", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []map[string]any{{"name": "broken"}, {"name": "core"}})
	})
	mux.HandleFunc("/repos/home-assistant/broken/pulls", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("/repos/home-assistant/core/pulls", func(w http.ResponseWriter, r *http.Request) {
		mergedAt := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
		writeJSON(w, []map[string]any{
			{"number": 5, "title": "PR 5", "merged_at": mergedAt.Format(time.RFC3339)},
		})
	})
	prDetailHandlers(mux, "core", 5)

	config := testConfig(t)
	config.MaxRetries = 1
	client := newTestClient(t, mux, config)

	path, err := New(client, config).ExtractAll(context.Background())
	require.NoError(t, err)

	raw, err := artifact.ReadRaw(path)
	require.NoError(t, err)
	require.Len(t, raw, 1)
	assert.Equal(t, 5, raw[0].Metadata.Number)
}

func TestExtractAllFailsWhenEnumerationFails(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/home-assistant/repos", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	config := testConfig(t)
	config.MaxRetries = 1
	client := newTestClient(t, mux, config)

	_, err := New(client, config).ExtractAll(context.Background())
	assert.Error(t, err)
}

func TestExtractRepositoryExcludesFailedPulls(t *testing.T) {
	mux := http.NewServeMux()
	mergedAt := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	mux.HandleFunc("/repos/home-assistant/core/pulls", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []map[string]any{
			{"number": 1, "title": "PR 1", "merged_at": mergedAt.Format(time.RFC3339)},
			{"number": 2, "title": "PR 2", "merged_at": mergedAt.Format(time.RFC3339)},
		})
	})
	prDetailHandlers(mux, "core", 1)
	mux.HandleFunc("/repos/home-assistant/core/pulls/2", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	config := testConfig(t)
	config.MaxRetries = 1
	client := newTestClient(t, mux, config)

	raw, err := New(client, config).extractRepository(context.Background(), "core")
	require.NoError(t, err)
	require.Len(t, raw, 1)
	assert.Equal(t, 1, raw[0].Metadata.Number)
}

func TestExtractRepositoryBoundsConcurrency(t *testing.T) {
	const (
		prCount       = 20
		maxConcurrent = 3
	)

	var (
		inFlight int64
		peak     int64
		mu       sync.Mutex
	)
	track := func() func() {
		current := atomic.AddInt64(&inFlight, 1)
		mu.Lock()
		if current > peak {
			peak = current
		}
		mu.Unlock()
		time.Sleep(5 * time.Millisecond)
		return func() { atomic.AddInt64(&inFlight, -1) }
	}

	mux := http.NewServeMux()
	mergedAt := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	mux.HandleFunc("/repos/home-assistant/core/pulls", func(w http.ResponseWriter, r *http.Request) {
		pulls := make([]map[string]any, prCount)
		for i := range pulls {
			pulls[i] = map[string]any{
				"number":    i + 1,
				"title":     fmt.Sprintf("PR %d", i+1),
				"merged_at": mergedAt.Format(time.RFC3339),
			}
		}
		writeJSON(w, pulls)
	})
	mux.HandleFunc("/repos/home-assistant/core/pulls/", func(w http.ResponseWriter, r *http.Request) {
		done := track()
		defer done()
		// Every detail endpoint returns a vanished PR; only the in-flight
		// gauge matters here
		w.WriteHeader(http.StatusNotFound)
	})

	config := testConfig(t)
	config.MaxConcurrent = maxConcurrent
	client := newTestClient(t, mux, config)

	raw, err := New(client, config).extractRepository(context.Background(), "core")
	require.NoError(t, err)
	assert.Empty(t, raw)

	mu.Lock()
	defer mu.Unlock()
	assert.LessOrEqual(t, peak, int64(maxConcurrent))
}
