package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/royalcarriage/platform/internal/genai"
	"github.com/royalcarriage/platform/jobs"
)

// ErrQueueFull is returned by Enqueue when the queue is over its depth
// limit; the HTTP layer maps it to 503.
var ErrQueueFull = errors.New("content: generation queue is full")

// ErrInvalidAction is returned for review actions outside
// approve/reject/publish; the HTTP layer maps it to 400.
var ErrInvalidAction = errors.New("content: invalid review action")

// Enqueuer submits generation tasks to the background queue.
type Enqueuer interface {
	EnqueueContentGenerate(ctx context.Context, payload jobs.ContentGeneratePayload) (*asynq.TaskInfo, error)
}

// DepthReader reports the current queue depth for backpressure.
type DepthReader interface {
	Depth(ctx context.Context) (int, error)
}

// Generator produces page copy for a request.
type Generator interface {
	GenerateContent(ctx context.Context, req genai.Request) (genai.GeneratedContent, error)
}

// Service owns the queue and review workflow.
type Service struct {
	repo      Repository
	enqueuer  Enqueuer
	depth     DepthReader
	generator Generator
	logger    *slog.Logger
	maxDepth  int
}

// NewService constructs a Service. maxDepth bounds the number of
// outstanding generation tasks; zero or negative disables backpressure.
func NewService(repo Repository, enqueuer Enqueuer, depth DepthReader, generator Generator, logger *slog.Logger, maxDepth int) *Service {
	return &Service{
		repo:      repo,
		enqueuer:  enqueuer,
		depth:     depth,
		generator: generator,
		logger:    logger,
		maxDepth:  maxDepth,
	}
}

// Enqueue accepts a generation request and returns the new job id without
// waiting for generation. Requests are rejected with ErrQueueFull when the
// queue is over its depth limit.
func (s *Service) Enqueue(ctx context.Context, req genai.Request) (*Job, error) {
	if s.maxDepth > 0 && s.depth != nil {
		depth, err := s.depth.Depth(ctx)
		if err != nil {
			s.logger.Warn("queue depth check failed", slog.Any("error", err))
		} else if depth >= s.maxDepth {
			return nil, ErrQueueFull
		}
	}

	if req.Tone == "" {
		req.Tone = "professional"
	}

	job := &Job{
		ID:      uuid.NewString(),
		Status:  StatusQueued,
		Request: req,
	}
	if err := s.repo.CreateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	if _, err := s.enqueuer.EnqueueContentGenerate(ctx, jobs.ContentGeneratePayload{JobID: job.ID}); err != nil {
		// The job row would otherwise sit in "queued" forever with no task
		// behind it.
		if cleanupErr := s.repo.RecordFailure(ctx, job.ID, "enqueue failed: "+err.Error()); cleanupErr != nil {
			s.logger.Error("cleanup unqueued job", slog.String("job_id", job.ID), slog.Any("error", cleanupErr))
		}
		return nil, fmt.Errorf("enqueue job %s: %w", job.ID, err)
	}

	s.logger.Info("content job queued",
		slog.String("job_id", job.ID),
		slog.String("page_type", req.PageType))
	return job, nil
}

// Process generates copy for a queued job and stores the resulting draft.
// Called by the worker; returned errors trigger an asynq retry.
func (s *Service) Process(ctx context.Context, jobID string) error {
	job, err := s.repo.GetJob(ctx, jobID)
	if err != nil {
		return err
	}

	result, err := s.generator.GenerateContent(ctx, job.Request)
	if err != nil {
		return fmt.Errorf("generate content for job %s: %w", jobID, err)
	}

	if _, err := s.repo.CompleteJob(ctx, jobID, result); err != nil {
		return fmt.Errorf("complete job %s: %w", jobID, err)
	}

	s.logger.Info("content draft ready", slog.String("job_id", jobID))
	return nil
}

// RecordFailure dead-letters a job whose retries are exhausted.
func (s *Service) RecordFailure(ctx context.Context, jobID, reason string) error {
	return s.repo.RecordFailure(ctx, jobID, reason)
}

// GenerateSync produces copy immediately, bypassing the queue.
func (s *Service) GenerateSync(ctx context.Context, req genai.Request) (genai.GeneratedContent, error) {
	if req.Tone == "" {
		req.Tone = "professional"
	}
	return s.generator.GenerateContent(ctx, req)
}

// ListDrafts returns all drafts, newest first.
func (s *Service) ListDrafts(ctx context.Context) ([]*Draft, error) {
	return s.repo.ListDrafts(ctx)
}

// GetDraft loads one draft.
func (s *Service) GetDraft(ctx context.Context, id string) (*Draft, error) {
	return s.repo.GetDraft(ctx, id)
}

// Review applies approve, reject, or publish to a draft. Publish is valid
// from any state, including straight from pending_review.
func (s *Service) Review(ctx context.Context, id, action, reviewer, notes string) (*Draft, error) {
	status, ok := reviewStatusForAction[action]
	if !ok {
		return nil, ErrInvalidAction
	}
	if reviewer == "" {
		reviewer = "system"
	}

	draft, err := s.repo.UpdateDraftStatus(ctx, id, status, reviewer, notes)
	if err != nil {
		return nil, err
	}

	s.logger.Info("draft reviewed",
		slog.String("draft_id", id),
		slog.String("status", status),
		slog.String("reviewer", reviewer))
	return draft, nil
}
