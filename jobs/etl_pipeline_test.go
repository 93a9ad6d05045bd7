package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/campus-insights/campus-insights/internal/etl"
)

type stubRunner struct {
	err     error
	lastRef string
}

func (s *stubRunner) Run(_ context.Context, logRef string) error {
	s.lastRef = logRef
	return s.err
}

type stubRecorder struct {
	runs []etl.Run
	err  error
}

func (s *stubRecorder) InsertRun(_ context.Context, run etl.Run) error {
	if s.err != nil {
		return s.err
	}
	s.runs = append(s.runs, run)
	return nil
}

func pipelineTask(t *testing.T, logRef string) *asynq.Task {
	t.Helper()
	task, err := etl.NewPipelineTask(etl.PipelinePayload{LogRef: logRef, RequestedBy: "admin"})
	require.NoError(t, err)
	return task
}

func TestHandleRecordsSuccessfulRun(t *testing.T) {
	runner := &stubRunner{}
	recorder := &stubRecorder{}
	job := &PipelineJob{Runner: runner, Runs: recorder}

	err := job.Handle(context.Background(), pipelineTask(t, "ref-1"))
	require.NoError(t, err)
	require.Equal(t, "ref-1", runner.lastRef)
	require.Len(t, recorder.runs, 1)
	require.True(t, recorder.runs[0].Success)
	require.Equal(t, "ref-1", recorder.runs[0].LogRef)
}

func TestHandleRecordsFailedRunWithoutRetry(t *testing.T) {
	runner := &stubRunner{err: errors.New("load aborted")}
	recorder := &stubRecorder{}
	job := &PipelineJob{Runner: runner, Runs: recorder}

	err := job.Handle(context.Background(), pipelineTask(t, "ref-2"))
	require.NoError(t, err, "a failed run must not be retried")
	require.Len(t, recorder.runs, 1)
	require.False(t, recorder.runs[0].Success)
}

func TestHandleSkipsRetryOnBadPayload(t *testing.T) {
	job := &PipelineJob{Runner: &stubRunner{}, Runs: &stubRecorder{}}
	err := job.Handle(context.Background(), asynq.NewTask(etl.TaskTypePipeline, []byte("not json")))
	require.ErrorIs(t, err, asynq.SkipRetry)
}

func TestHandleSurfacesRecordFailure(t *testing.T) {
	job := &PipelineJob{Runner: &stubRunner{}, Runs: &stubRecorder{err: errors.New("insert failed")}}
	err := job.Handle(context.Background(), pipelineTask(t, "ref-3"))
	require.Error(t, err)
}
