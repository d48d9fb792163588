package jobs

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
)

// Worker wraps the Asynq server.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	logger *slog.Logger
}

// TaskHandler allows injecting custom Asynq handlers during worker setup.
type TaskHandler struct {
	Type    string
	Handler asynq.HandlerFunc
}

// WorkerConfig collects dependencies required to bootstrap the worker.
type WorkerConfig struct {
	RedisOpts   asynq.RedisClientOpt
	Logger      *slog.Logger
	Concurrency int
	Handlers    []TaskHandler
}

// NewWorker constructs a Worker instance.
func NewWorker(cfg WorkerConfig) (*Worker, error) {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 5
	}
	srv := asynq.NewServer(cfg.RedisOpts, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			QueueDefault: 1,
		},
	})
	mux := asynq.NewServeMux()
	for _, h := range cfg.Handlers {
		if h.Type == "" || h.Handler == nil {
			continue
		}
		mux.HandleFunc(h.Type, h.Handler)
	}

	return &Worker{server: srv, mux: mux, logger: cfg.Logger}, nil
}

// Run starts processing jobs until context cancellation.
func (w *Worker) Run(ctx context.Context) error {
	if w == nil {
		return errors.New("worker: not configured")
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- w.server.Run(w.mux)
	}()
	select {
	case <-ctx.Done():
		w.server.Shutdown()
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// Client submits jobs to the queue.
type Client struct {
	client *asynq.Client
}

// NewClient constructs an Asynq client.
func NewClient(redisOpts asynq.RedisClientOpt) (*Client, error) {
	client := asynq.NewClient(redisOpts)
	return &Client{client: client}, nil
}

// EnqueueContentGenerate enqueues a content generation task. Retries use
// asynq's exponential backoff; exhausted tasks land in the archived set.
func (c *Client) EnqueueContentGenerate(ctx context.Context, payload ContentGeneratePayload) (*asynq.TaskInfo, error) {
	task, err := NewContentGenerateTask(payload)
	if err != nil {
		return nil, err
	}
	return c.client.EnqueueContext(ctx, task,
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(5),
		asynq.Timeout(2*time.Minute),
	)
}

// Close releases client resources.
func (c *Client) Close() error {
	return c.client.Close()
}

// QueueStats reports the depth of the default queue.
type QueueStats struct {
	Pending   int `json:"pending"`
	Active    int `json:"active"`
	Retry     int `json:"retry"`
	Archived  int `json:"archived"`
	Completed int `json:"completed"`
}

// Monitor reads queue state through an asynq Inspector.
type Monitor struct {
	inspector *asynq.Inspector
}

// NewMonitor constructs a Monitor instance.
func NewMonitor(inspector *asynq.Inspector) *Monitor {
	return &Monitor{inspector: inspector}
}

// Depth returns the number of tasks waiting or being retried, the figure
// enqueue backpressure is measured against.
func (m *Monitor) Depth(ctx context.Context) (int, error) {
	if m == nil || m.inspector == nil {
		return 0, nil
	}
	info, err := m.inspector.GetQueueInfo(QueueDefault)
	if err != nil {
		return 0, err
	}
	return info.Pending + info.Active + info.Retry, nil
}

// Stats returns the full queue breakdown.
func (m *Monitor) Stats(ctx context.Context) (QueueStats, error) {
	if m == nil || m.inspector == nil {
		return QueueStats{}, nil
	}
	info, err := m.inspector.GetQueueInfo(QueueDefault)
	if err != nil {
		return QueueStats{}, err
	}
	return QueueStats{
		Pending:   info.Pending,
		Active:    info.Active,
		Retry:     info.Retry,
		Archived:  info.Archived,
		Completed: info.Completed,
	}, nil
}

// Handler exposes HTTP endpoints for job observability.
type Handler struct {
	monitor *Monitor
	logger  *slog.Logger
}

// NewHandler constructs an HTTP handler for jobs endpoints.
func NewHandler(monitor *Monitor, logger *slog.Logger) *Handler {
	return &Handler{monitor: monitor, logger: logger}
}

// MountRoutes attaches job routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/health", h.health)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	stats, err := h.monitor.Stats(r.Context())
	if err != nil {
		h.logger.Warn("jobs health", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"queue":"` + QueueDefault +
		`","pending":` + itoa(stats.Pending) +
		`,"active":` + itoa(stats.Active) +
		`,"retry":` + itoa(stats.Retry) +
		`,"archived":` + itoa(stats.Archived) + `}`))
}

func itoa(i int) string {
	return strconv.FormatInt(int64(i), 10)
}
