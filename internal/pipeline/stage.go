// Package pipeline runs the extract, transform, and load stages in order with
// per-stage timeouts and retries.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Stage is one step of the pipeline. Run receives a context that expires at
// the stage timeout and returns the artifact path it produced, which is handed
// to the next stage.
type Stage struct {
	Name       string
	Timeout    time.Duration
	Retries    int
	RetryDelay time.Duration
	Run        func(ctx context.Context, input string) (string, error)
}

// Execute runs the stage, retrying on failure up to Retries extra attempts.
// Each attempt gets a fresh timeout. A cancelled parent context stops the
// retry loop immediately.
func (s Stage) Execute(ctx context.Context, input string) (string, error) {
	attempts := s.Retries + 1

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			slog.Warn("Retrying stage", "stage", s.Name, "attempt", attempt, "delay", s.RetryDelay)
			select {
			case <-time.After(s.RetryDelay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		output, err := s.runOnce(ctx, input)
		if err == nil {
			return output, nil
		}
		lastErr = err
		slog.Error("Stage attempt failed", "stage", s.Name, "attempt", attempt, "error", err)

		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}

	return "", fmt.Errorf("stage %s failed after %d attempts: %w", s.Name, attempts, lastErr)
}

func (s Stage) runOnce(ctx context.Context, input string) (string, error) {
	stageCtx := ctx
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		stageCtx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	started := time.Now()
	slog.Info("Starting stage", "stage", s.Name, "timeout", s.Timeout)
	output, err := s.Run(stageCtx, input)
	if err != nil {
		return "", err
	}
	slog.Info("Stage complete", "stage", s.Name, "duration", time.Since(started), "output", output)
	return output, nil
}

// Execute runs the stages in order, threading each stage's output into the
// next stage's input. The first stage failure aborts the pipeline.
func Execute(ctx context.Context, stages []Stage) error {
	var carry string
	for _, stage := range stages {
		output, err := stage.Execute(ctx, carry)
		if err != nil {
			return err
		}
		carry = output
	}
	return nil
}
