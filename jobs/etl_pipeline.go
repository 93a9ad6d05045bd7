package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	"github.com/hibiken/asynq"

	"github.com/campus-insights/campus-insights/internal/etl"
	jobmetrics "github.com/campus-insights/campus-insights/internal/jobs"
)

// Runner executes one pipeline run to completion.
type Runner interface {
	Run(ctx context.Context, logRef string) error
}

// CommandRunner shells out to the external ingestion pipeline.
type CommandRunner struct {
	Command string
	Timeout time.Duration
	Logger  *slog.Logger
}

// Run invokes the configured command and waits for it to finish.
func (r CommandRunner) Run(ctx context.Context, logRef string) error {
	if r.Command == "" {
		return fmt.Errorf("pipeline command not configured")
	}
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	cmd := exec.CommandContext(ctx, "/bin/sh", "-c", r.Command)
	cmd.Env = append(cmd.Environ(), "ETL_LOG_REF="+logRef)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if r.Logger != nil {
			r.Logger.Error("pipeline command failed",
				slog.String("log_ref", logRef),
				slog.String("output", string(output)),
				slog.Any("error", err))
		}
		return fmt.Errorf("pipeline run %s: %w", logRef, err)
	}
	return nil
}

// RunRecorder appends completed runs to the tracker history.
type RunRecorder interface {
	InsertRun(ctx context.Context, run etl.Run) error
}

// PipelineJob consumes pipeline tasks: it executes the runner and records
// the outcome. A failed run is recorded, not retried; the history row is
// the failure signal.
type PipelineJob struct {
	Logger  *slog.Logger
	Runner  Runner
	Runs    RunRecorder
	Metrics *jobmetrics.Metrics
}

// Handle processes one pipeline task.
func (j *PipelineJob) Handle(ctx context.Context, task *asynq.Task) error {
	var payload etl.PipelinePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode pipeline payload: %v: %w", err, asynq.SkipRetry)
	}
	logger := j.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("pipeline run starting",
		slog.String("log_ref", payload.LogRef),
		slog.String("requested_by", payload.RequestedBy))

	tracker := j.Metrics.Track("etl_pipeline")
	started := time.Now()
	runErr := j.Runner.Run(ctx, payload.LogRef)
	run := etl.Run{
		LogRef:    payload.LogRef,
		StartedAt: started,
		Duration:  time.Since(started),
		Success:   runErr == nil,
	}
	_ = tracker.End(runErr)

	if err := j.Runs.InsertRun(ctx, run); err != nil {
		logger.Error("record pipeline run",
			slog.String("log_ref", payload.LogRef),
			slog.Any("error", err))
		return err
	}
	if runErr != nil {
		logger.Warn("pipeline run failed",
			slog.String("log_ref", payload.LogRef),
			slog.Duration("duration", run.Duration),
			slog.Any("error", runErr))
		// The failure is captured in the run history; retrying would
		// duplicate the run record.
		return nil
	}
	logger.Info("pipeline run finished",
		slog.String("log_ref", payload.LogRef),
		slog.Duration("duration", run.Duration))
	return nil
}
