package etl

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Enqueuer submits pipeline tasks. *asynq.Client satisfies it.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Store abstracts persistence for the tracker.
type Store interface {
	RecentRuns(ctx context.Context, limit int) ([]Run, error)
	TableCounts(ctx context.Context, tables []string) ([]TableCount, error)
}

// Service is the job tracker: triggers runs and reports their history.
type Service struct {
	store    Store
	enqueuer Enqueuer
}

// NewService constructs a Service.
func NewService(store Store, enqueuer Enqueuer) *Service {
	return &Service{store: store, enqueuer: enqueuer}
}

// Trigger enqueues a pipeline execution and returns immediately. Runs are
// deliberately not serialized: a trigger while another run is in flight
// creates an independent run record.
func (s *Service) Trigger(ctx context.Context, requestedBy string) (Handle, error) {
	if s.enqueuer == nil {
		return Handle{}, fmt.Errorf("etl: enqueuer not configured")
	}
	logRef := uuid.NewString()
	task, err := NewPipelineTask(PipelinePayload{LogRef: logRef, RequestedBy: requestedBy})
	if err != nil {
		return Handle{}, fmt.Errorf("etl: build task: %w", err)
	}
	if _, err := s.enqueuer.EnqueueContext(ctx, task, asynq.MaxRetry(0)); err != nil {
		return Handle{}, fmt.Errorf("etl: enqueue: %w", err)
	}
	return Handle{LogRef: logRef, EnqueuedAt: time.Now()}, nil
}

// RecentRuns returns up to min(limit, 50) runs, newest first. An in-flight
// run has no row yet; callers poll until it appears.
func (s *Service) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = DefaultRecentRuns
	}
	if limit > MaxRecentRuns {
		limit = MaxRecentRuns
	}
	return s.store.RecentRuns(ctx, limit)
}

// Snapshot recomputes warehouse table counts on every call. Never cached:
// the numbers exist to show the effect of the most recent run.
func (s *Service) Snapshot(ctx context.Context) ([]TableCount, error) {
	return s.store.TableCounts(ctx, warehouseTables)
}
