// Package warehouse loads the final compliance dataset into Snowflake.
package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/snowflakedb/gosnowflake"

	"github.com/scytale/pr-compliance/cmd"
	"github.com/scytale/pr-compliance/internal/artifact"
)

// insertBatchSize bounds the number of rows per INSERT statement
const insertBatchSize = 500

// Loader writes loaded compliance records into a Snowflake table. When the
// sink is disabled or not fully configured, Load is a no-op.
type Loader struct {
	cfg    cmd.SnowflakeConfig
	openDB func(dsn string) (*sql.DB, error)
}

// NewLoader builds a loader for the configured Snowflake sink
func NewLoader(cfg cmd.SnowflakeConfig) *Loader {
	return &Loader{
		cfg: cfg,
		openDB: func(dsn string) (*sql.DB, error) {
			return sql.Open("snowflake", dsn)
		},
	}
}

// Load writes the records into the configured table, creating it if needed.
// The whole batch is inserted in one transaction so a failed run leaves the
// table untouched.
func (l *Loader) Load(ctx context.Context, records []artifact.LoadedRecord) error {
	if !l.cfg.Enabled {
		slog.Debug("Snowflake sink disabled, skipping load")
		return nil
	}
	if l.cfg.Account == "" || l.cfg.User == "" || l.cfg.Password == "" {
		slog.Warn("Snowflake sink enabled but credentials are incomplete, skipping load")
		return nil
	}

	dsn, err := gosnowflake.DSN(&gosnowflake.Config{
		Account:   l.cfg.Account,
		User:      l.cfg.User,
		Password:  l.cfg.Password,
		Warehouse: l.cfg.Warehouse,
		Database:  l.cfg.Database,
		Schema:    l.cfg.Schema,
		Role:      l.cfg.Role,
	})
	if err != nil {
		return fmt.Errorf("failed to build Snowflake DSN: %w", err)
	}

	db, err := l.openDB(dsn)
	if err != nil {
		return fmt.Errorf("failed to open Snowflake connection: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, createTableStmt(l.cfg.Table)); err != nil {
		return fmt.Errorf("failed to create table %s: %w", l.cfg.Table, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for start := 0; start < len(records); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(records) {
			end = len(records)
		}
		batch := records[start:end]

		stmt, args := insertStmt(l.cfg.Table, batch)
		if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert batch into %s: %w", l.cfg.Table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit load: %w", err)
	}

	slog.Info("Loaded records into Snowflake", "table", l.cfg.Table, "records", len(records))
	return nil
}

func createTableStmt(table string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	pr_number NUMBER,
	pr_title VARCHAR,
	author VARCHAR,
	repository VARCHAR,
	merged_at TIMESTAMP_NTZ,
	code_review_passed BOOLEAN,
	status_checks_passed BOOLEAN,
	is_compliant BOOLEAN,
	review_count NUMBER,
	approved_review_count NUMBER,
	status_check_count NUMBER,
	commit_count NUMBER,
	_loaded_at TIMESTAMP_NTZ,
	_file_source VARCHAR
)`, table)
}

// insertStmt builds a multi-row INSERT with bind parameters for one batch
func insertStmt(table string, batch []artifact.LoadedRecord) (string, []any) {
	var sb strings.Builder
	fmt.Fprintf(&sb, `INSERT INTO %s (pr_number, pr_title, author, repository, merged_at, code_review_passed, status_checks_passed, is_compliant, review_count, approved_review_count, status_check_count, commit_count, _loaded_at, _file_source) VALUES `, table)

	args := make([]any, 0, len(batch)*14)
	for i, record := range batch {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
		args = append(args,
			record.PRNumber,
			record.PRTitle,
			record.Author,
			record.Repository,
			record.MergedAt,
			record.CodeReviewPassed,
			record.StatusChecksPassed,
			record.IsCompliant,
			record.ReviewCount,
			record.ApprovedReviewCount,
			record.StatusCheckCount,
			record.CommitCount,
			record.LoadedAt,
			record.FileSource,
		)
	}

	return sb.String(), args
}
