package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeContentGenerate is the task type for content generation jobs.
	TaskTypeContentGenerate = "content:generate"
)

// ContentGeneratePayload identifies the queued content job to process.
type ContentGeneratePayload struct {
	JobID string `json:"jobId"`
}

// NewContentGenerateTask constructs an Asynq task.
func NewContentGenerateTask(payload ContentGeneratePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeContentGenerate, data), nil
}
