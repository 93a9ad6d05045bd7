package etl

import (
	"context"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	runs      []Run
	lastLimit int
	lastTabs  []string
}

func (s *stubStore) RecentRuns(_ context.Context, limit int) ([]Run, error) {
	s.lastLimit = limit
	if limit > len(s.runs) {
		limit = len(s.runs)
	}
	return s.runs[:limit], nil
}

func (s *stubStore) TableCounts(_ context.Context, tables []string) ([]TableCount, error) {
	s.lastTabs = tables
	counts := make([]TableCount, len(tables))
	for i, table := range tables {
		counts[i] = TableCount{Table: table, Rows: int64(i), Known: true}
	}
	return counts, nil
}

type stubEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (s *stubEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.tasks = append(s.tasks, task)
	return &asynq.TaskInfo{}, nil
}

func TestRecentRunsClampsLimit(t *testing.T) {
	store := &stubStore{}
	svc := NewService(store, nil)

	for requested, expected := range map[int]int{1: 1, 10: 10, 1000: MaxRecentRuns, 0: DefaultRecentRuns} {
		_, err := svc.RecentRuns(context.Background(), requested)
		require.NoError(t, err)
		require.Equal(t, expected, store.lastLimit, "requested %d", requested)
	}
}

func TestTriggerTwiceProducesIndependentRuns(t *testing.T) {
	enq := &stubEnqueuer{}
	svc := NewService(&stubStore{}, enq)

	first, err := svc.Trigger(context.Background(), "admin")
	require.NoError(t, err)
	second, err := svc.Trigger(context.Background(), "admin")
	require.NoError(t, err)

	require.Len(t, enq.tasks, 2)
	require.NotEqual(t, first.LogRef, second.LogRef)
	for _, task := range enq.tasks {
		require.Equal(t, TaskTypePipeline, task.Type())
	}
}

func TestTriggerRequiresEnqueuer(t *testing.T) {
	svc := NewService(&stubStore{}, nil)
	_, err := svc.Trigger(context.Background(), "admin")
	require.Error(t, err)
}

func TestSnapshotCoversStarSchema(t *testing.T) {
	store := &stubStore{}
	svc := NewService(store, nil)

	counts, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, counts, len(warehouseTables))
	require.Equal(t, warehouseTables, store.lastTabs)
}
