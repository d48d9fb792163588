package content

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/royalcarriage/platform/jobs"
)

// JobObserver counts job outcomes; *observability.Metrics satisfies it.
type JobObserver interface {
	ObserveJob(outcome string)
}

// GenerateJob processes content generation tasks.
type GenerateJob struct {
	service  *Service
	logger   *slog.Logger
	observer JobObserver
}

// NewGenerateJob constructs a job handler. observer may be nil.
func NewGenerateJob(service *Service, logger *slog.Logger, observer JobObserver) *GenerateJob {
	return &GenerateJob{service: service, logger: logger, observer: observer}
}

func (j *GenerateJob) observe(outcome string) {
	if j.observer != nil {
		j.observer.ObserveJob(outcome)
	}
}

// Handle fulfils the asynq.HandlerFunc contract. Errors are retried by
// asynq with backoff; the final failed attempt is dead-lettered through
// RecordFailure before the task is archived.
func (j *GenerateJob) Handle(ctx context.Context, task *asynq.Task) error {
	var payload jobs.ContentGeneratePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.JobID == "" {
		return asynq.SkipRetry
	}

	err := j.service.Process(ctx, payload.JobID)
	if err == nil {
		j.observe("completed")
		return nil
	}

	j.logger.Error("content generation", slog.String("job_id", payload.JobID), slog.Any("error", err))
	j.observe("failed")

	retried, _ := asynq.GetRetryCount(ctx)
	maxRetry, _ := asynq.GetMaxRetry(ctx)
	if retried >= maxRetry {
		j.observe("dead_letter")
		if recordErr := j.service.RecordFailure(ctx, payload.JobID, err.Error()); recordErr != nil {
			j.logger.Error("dead-letter record", slog.String("job_id", payload.JobID), slog.Any("error", recordErr))
		}
	}
	return err
}
