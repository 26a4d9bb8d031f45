// Package artifact manages the durable files a pipeline run produces: the raw
// extraction snapshot, the per-run compliance parquet, and the final curated
// parquet that downstream loads consume.
package artifact

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/scytale/pr-compliance/internal/compliance"
	"github.com/scytale/pr-compliance/internal/github"
)

// timestampLayout names every artifact with the wall-clock time of its run so
// files sort lexically in creation order.
const timestampLayout = "20060102_150405"

// LoadedRecord is a compliance record annotated with load provenance for the
// final curated dataset.
type LoadedRecord struct {
	compliance.Record
	LoadedAt   time.Time `json:"_loaded_at" parquet:"_loaded_at"`
	FileSource string    `json:"_file_source" parquet:"_file_source"`
}

// WriteRaw persists one extraction run's raw pull request data as a
// timestamped JSON snapshot and returns the file path.
func WriteRaw(dir string, raw []github.RawPullRequest) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create raw data directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("raw_pr_data_%s.json", time.Now().Format(timestampLayout)))

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal raw PR data: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write raw PR data: %w", err)
	}

	slog.Info("Wrote raw PR data", "path", path, "prs", len(raw))
	return path, nil
}

// ReadRaw loads a raw extraction snapshot.
func ReadRaw(path string) ([]github.RawPullRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read raw PR data: %w", err)
	}

	var raw []github.RawPullRequest
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse raw PR data %s: %w", path, err)
	}
	return raw, nil
}

// WriteCompliance persists the transformed records as a timestamped parquet
// file and returns the file path.
func WriteCompliance(dir string, records []compliance.Record) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create processed data directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("pr_compliance_%s.parquet", time.Now().Format(timestampLayout)))
	if err := writeParquet(path, records); err != nil {
		return "", err
	}

	slog.Info("Wrote compliance records", "path", path, "records", len(records))
	return path, nil
}

// ReadCompliance loads a compliance parquet file.
func ReadCompliance(path string) ([]compliance.Record, error) {
	records, err := parquet.ReadFile[compliance.Record](path)
	if err != nil {
		return nil, fmt.Errorf("failed to read compliance records from %s: %w", path, err)
	}
	return records, nil
}

// WriteFinal annotates the records with load provenance and persists them as
// the final curated parquet. source names the compliance file the records came
// from.
func WriteFinal(dir string, records []compliance.Record, source string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create processed data directory: %w", err)
	}

	loadedAt := time.Now().UTC()
	loaded := make([]LoadedRecord, len(records))
	for i, record := range records {
		loaded[i] = LoadedRecord{
			Record:     record,
			LoadedAt:   loadedAt,
			FileSource: filepath.Base(source),
		}
	}

	path := filepath.Join(dir, fmt.Sprintf("final_pr_compliance_%s.parquet", loadedAt.Format(timestampLayout)))
	if err := writeParquet(path, loaded); err != nil {
		return "", err
	}

	slog.Info("Wrote final compliance dataset", "path", path, "records", len(loaded))
	return path, nil
}

// ReadFinal loads a final curated parquet file.
func ReadFinal(path string) ([]LoadedRecord, error) {
	records, err := parquet.ReadFile[LoadedRecord](path)
	if err != nil {
		return nil, fmt.Errorf("failed to read final compliance dataset from %s: %w", path, err)
	}
	return records, nil
}

// LatestRaw returns the most recent raw snapshot in dir.
func LatestRaw(dir string) (string, error) {
	return latest(dir, "raw_pr_data_*.json")
}

// LatestCompliance returns the most recent compliance parquet in dir.
func LatestCompliance(dir string) (string, error) {
	return latest(dir, "pr_compliance_*.parquet")
}

func writeParquet[T any](path string, rows []T) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	writer := parquet.NewGenericWriter[T](f)
	if _, err := writer.Write(rows); err != nil {
		f.Close()
		return fmt.Errorf("failed to write parquet rows to %s: %w", path, err)
	}
	if err := writer.Close(); err != nil {
		f.Close()
		return fmt.Errorf("failed to finalize parquet file %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

// latest picks the newest artifact matching pattern. Timestamped names sort
// lexically, so the greatest match is the most recent.
func latest(dir, pattern string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return "", fmt.Errorf("failed to list artifacts in %s: %w", dir, err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no %s artifacts found in %s", pattern, dir)
	}
	sort.Strings(matches)
	return matches[len(matches)-1], nil
}
