package etl

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// TaskTypePipeline is the asynq task type for one pipeline execution.
const TaskTypePipeline = "etl:pipeline"

// PipelinePayload carries the run metadata from trigger to worker.
type PipelinePayload struct {
	LogRef      string `json:"log_ref"`
	RequestedBy string `json:"requested_by"`
}

// NewPipelineTask constructs the asynq task for a pipeline run.
func NewPipelineTask(payload PipelinePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypePipeline, data), nil
}
