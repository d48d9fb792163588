package content

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/royalcarriage/platform/internal/genai"
	"github.com/royalcarriage/platform/internal/shared"
	"github.com/royalcarriage/platform/jobs"
)

type memoryRepo struct {
	mu        sync.Mutex
	jobs      map[string]*Job
	drafts    map[string]*Draft
	failures  map[string]*JobFailure
	published map[string]string
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		jobs:      make(map[string]*Job),
		drafts:    make(map[string]*Draft),
		failures:  make(map[string]*JobFailure),
		published: make(map[string]string),
	}
}

func (r *memoryRepo) CreateJob(ctx context.Context, job *Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job.CreatedAt = time.Now()
	copied := *job
	r.jobs[job.ID] = &copied
	return nil
}

func (r *memoryRepo) GetJob(ctx context.Context, id string) (*Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *job
	return &copied, nil
}

func (r *memoryRepo) CompleteJob(ctx context.Context, id string, result genai.GeneratedContent) (*Draft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	draft := &Draft{
		ID:        id,
		Status:    StatusPendingReview,
		Request:   job.Request,
		Result:    result,
		CreatedAt: time.Now(),
	}
	r.drafts[id] = draft
	delete(r.jobs, id)
	copied := *draft
	return &copied, nil
}

func (r *memoryRepo) RecordFailure(ctx context.Context, id string, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil
	}
	r.failures[id] = &JobFailure{ID: id, Request: job.Request, Reason: reason, FailedAt: time.Now()}
	delete(r.jobs, id)
	return nil
}

func (r *memoryRepo) ListDrafts(ctx context.Context) ([]*Draft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Draft, 0, len(r.drafts))
	for _, d := range r.drafts {
		copied := *d
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memoryRepo) GetDraft(ctx context.Context, id string) (*Draft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.drafts[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *d
	return &copied, nil
}

func (r *memoryRepo) UpdateDraftStatus(ctx context.Context, id, status, reviewer, notes string) (*Draft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.drafts[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	now := time.Now()
	d.Status = status
	d.ReviewedBy = reviewer
	d.ReviewNotes = notes
	d.ReviewedAt = &now
	if status == StatusPublished {
		r.published[id] = reviewer
	}
	copied := *d
	return &copied, nil
}

type stubEnqueuer struct {
	mu       sync.Mutex
	payloads []jobs.ContentGeneratePayload
	err      error
}

func (s *stubEnqueuer) EnqueueContentGenerate(ctx context.Context, payload jobs.ContentGeneratePayload) (*asynq.TaskInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	s.payloads = append(s.payloads, payload)
	return &asynq.TaskInfo{ID: payload.JobID}, nil
}

type stubDepth struct {
	depth int
}

func (s *stubDepth) Depth(ctx context.Context) (int, error) { return s.depth, nil }

type blockingGenerator struct {
	calls   int
	release chan struct{}
}

func (g *blockingGenerator) GenerateContent(ctx context.Context, req genai.Request) (genai.GeneratedContent, error) {
	g.calls++
	if g.release != nil {
		<-g.release
	}
	return genai.GeneratedContent{
		Title:   "Generated " + req.PageType,
		Heading: "Heading",
		Body:    "Body copy.",
		CTAText: "Book Now",
	}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(repo *memoryRepo, enq *stubEnqueuer, depth *stubDepth, gen Generator) *Service {
	return NewService(repo, enq, depth, gen, testLogger(), 100)
}

func generationRequest() genai.Request {
	return genai.Request{
		PageType:       "airport",
		Location:       "Midway",
		TargetKeywords: []string{"midway limo"},
	}
}

func TestEnqueueReturnsImmediately(t *testing.T) {
	repo := newMemoryRepo()
	enq := &stubEnqueuer{}
	// A generator that would block forever if the enqueue path called it.
	gen := &blockingGenerator{release: make(chan struct{})}
	svc := newTestService(repo, enq, &stubDepth{}, gen)

	done := make(chan *Job, 1)
	go func() {
		job, err := svc.Enqueue(context.Background(), generationRequest())
		require.NoError(t, err)
		done <- job
	}()

	select {
	case job := <-done:
		require.NotEmpty(t, job.ID)
		require.Equal(t, StatusQueued, job.Status)
	case <-time.After(2 * time.Second):
		t.Fatal("enqueue did not return before generation completed")
	}

	require.Zero(t, gen.calls)
	require.Len(t, enq.payloads, 1)
	close(gen.release)
}

func TestEnqueueBackpressure(t *testing.T) {
	repo := newMemoryRepo()
	enq := &stubEnqueuer{}
	svc := newTestService(repo, enq, &stubDepth{depth: 100}, &blockingGenerator{})

	_, err := svc.Enqueue(context.Background(), generationRequest())
	require.ErrorIs(t, err, ErrQueueFull)
	require.Empty(t, enq.payloads)
	require.Empty(t, repo.jobs)
}

func TestEnqueueFailureRemovesJob(t *testing.T) {
	repo := newMemoryRepo()
	enq := &stubEnqueuer{err: errors.New("redis down")}
	svc := newTestService(repo, enq, &stubDepth{}, &blockingGenerator{})

	_, err := svc.Enqueue(context.Background(), generationRequest())
	require.ErrorContains(t, err, "redis down")

	// No queued row survives a failed push; the failure is dead-lettered.
	require.Empty(t, repo.jobs)
	require.Len(t, repo.failures, 1)
	for _, failure := range repo.failures {
		require.Contains(t, failure.Reason, "enqueue failed")
	}
}

func TestEnqueueDefaultsTone(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, &stubEnqueuer{}, &stubDepth{}, &blockingGenerator{})

	job, err := svc.Enqueue(context.Background(), generationRequest())
	require.NoError(t, err)

	stored, err := repo.GetJob(context.Background(), job.ID)
	require.NoError(t, err)
	require.Equal(t, "professional", stored.Request.Tone)
}

func TestProcessProducesPendingReviewDraft(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, &stubEnqueuer{}, &stubDepth{}, &blockingGenerator{})

	job, err := svc.Enqueue(context.Background(), generationRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Process(context.Background(), job.ID))

	// The job row is gone and a pending_review draft exists in its place.
	_, err = repo.GetJob(context.Background(), job.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)

	draft, err := svc.GetDraft(context.Background(), job.ID)
	require.NoError(t, err)
	require.Equal(t, StatusPendingReview, draft.Status)
	require.Equal(t, "Generated airport", draft.Result.Title)
}

func TestProcessUnknownJob(t *testing.T) {
	svc := newTestService(newMemoryRepo(), &stubEnqueuer{}, &stubDepth{}, &blockingGenerator{})
	err := svc.Process(context.Background(), "missing")
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestReviewActions(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, &stubEnqueuer{}, &stubDepth{}, &blockingGenerator{})

	job, err := svc.Enqueue(context.Background(), generationRequest())
	require.NoError(t, err)
	require.NoError(t, svc.Process(context.Background(), job.ID))

	draft, err := svc.Review(context.Background(), job.ID, "approve", "admin-1", "looks good")
	require.NoError(t, err)
	require.Equal(t, StatusApproved, draft.Status)
	require.Equal(t, "admin-1", draft.ReviewedBy)
	require.Equal(t, "looks good", draft.ReviewNotes)
	require.NotNil(t, draft.ReviewedAt)

	_, err = svc.Review(context.Background(), job.ID, "archive", "admin-1", "")
	require.ErrorIs(t, err, ErrInvalidAction)

	_, err = svc.Review(context.Background(), "missing", "approve", "admin-1", "")
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestPublishSkipsApproval(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, &stubEnqueuer{}, &stubDepth{}, &blockingGenerator{})

	job, err := svc.Enqueue(context.Background(), generationRequest())
	require.NoError(t, err)
	require.NoError(t, svc.Process(context.Background(), job.ID))

	// Publishing straight from pending_review, with no approve step, is a
	// supported shortcut.
	draft, err := svc.Review(context.Background(), job.ID, "publish", "admin-1", "")
	require.NoError(t, err)
	require.Equal(t, StatusPublished, draft.Status)
	require.Equal(t, "admin-1", repo.published[job.ID])
}

func TestConcurrentReviewsLastWriteWins(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, &stubEnqueuer{}, &stubDepth{}, &blockingGenerator{})

	job, err := svc.Enqueue(context.Background(), generationRequest())
	require.NoError(t, err)
	require.NoError(t, svc.Process(context.Background(), job.ID))

	var wg sync.WaitGroup
	for _, action := range []string{"approve", "reject"} {
		wg.Add(1)
		go func(action string) {
			defer wg.Done()
			_, err := svc.Review(context.Background(), job.ID, action, "reviewer-"+action, "")
			require.NoError(t, err)
		}(action)
	}
	wg.Wait()

	final, err := svc.GetDraft(context.Background(), job.ID)
	require.NoError(t, err)
	require.Contains(t, []string{StatusApproved, StatusRejected}, final.Status)
	require.Equal(t, "reviewer-"+map[string]string{StatusApproved: "approve", StatusRejected: "reject"}[final.Status], final.ReviewedBy)
}

func TestRecordFailureDeadLetters(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, &stubEnqueuer{}, &stubDepth{}, &blockingGenerator{})

	job, err := svc.Enqueue(context.Background(), generationRequest())
	require.NoError(t, err)

	require.NoError(t, svc.RecordFailure(context.Background(), job.ID, "model unavailable"))
	_, err = repo.GetJob(context.Background(), job.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)
	require.Equal(t, "model unavailable", repo.failures[job.ID].Reason)

	// Recording a failure for an unknown job is a no-op.
	require.NoError(t, svc.RecordFailure(context.Background(), "missing", "whatever"))
}
