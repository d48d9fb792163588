package content

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/royalcarriage/platform/internal/shared"
)

type recordingAuditor struct {
	logs []shared.AuditLog
}

func (a *recordingAuditor) Record(ctx context.Context, log shared.AuditLog) error {
	a.logs = append(a.logs, log)
	return nil
}

func newTestHandler(t *testing.T) (*Handler, *memoryRepo, *recordingAuditor) {
	t.Helper()
	repo := newMemoryRepo()
	svc := newTestService(repo, &stubEnqueuer{}, &stubDepth{}, &blockingGenerator{})
	auditor := &recordingAuditor{}
	return NewHandler(testLogger(), svc, auditor), repo, auditor
}

func mountTestRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Route("/ai", func(r chi.Router) {
		h.MountRoutes(r)
	})
	return r
}

func seedDraft(t *testing.T, h *Handler) string {
	t.Helper()
	job, err := h.service.Enqueue(context.Background(), generationRequest())
	require.NoError(t, err)
	require.NoError(t, h.service.Process(context.Background(), job.ID))
	return job.ID
}

func TestHandleEnqueueReturnsJobID(t *testing.T) {
	h, _, _ := newTestHandler(t)
	router := mountTestRouter(h)

	body := `{"pageType":"airport","targetKeywords":["ohare limo"]}`
	req := httptest.NewRequest(http.MethodPost, "/ai/enqueue-content", strings.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Success bool `json:"success"`
		Job     struct {
			ID string `json:"id"`
		} `json:"job"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.NotEmpty(t, resp.Job.ID)
}

func TestHandleEnqueueValidation(t *testing.T) {
	h, _, _ := newTestHandler(t)
	router := mountTestRouter(h)

	cases := []string{
		`{"pageType":"airport"}`,
		`{"targetKeywords":["x"]}`,
		`{"pageType":"airport","targetKeywords":[]}`,
		`{broken`,
	}
	for _, body := range cases {
		req := httptest.NewRequest(http.MethodPost, "/ai/generate-content", strings.NewReader(body))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		require.Equal(t, http.StatusBadRequest, rr.Code, "body=%s", body)
	}
}

func TestHandleEnqueueQueueFull(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, &stubEnqueuer{}, &stubDepth{depth: 500}, &blockingGenerator{})
	h := NewHandler(testLogger(), svc, nil)
	router := mountTestRouter(h)

	body := `{"pageType":"airport","targetKeywords":["ohare limo"]}`
	req := httptest.NewRequest(http.MethodPost, "/ai/enqueue-content", strings.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestHandleGenerateSync(t *testing.T) {
	h, _, _ := newTestHandler(t)
	router := mountTestRouter(h)

	body := `{"pageType":"vehicle","vehicle":"SUV","targetKeywords":["suv limo"]}`
	req := httptest.NewRequest(http.MethodPost, "/ai/generate-content-sync", strings.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), `"content"`)
	require.Contains(t, rr.Body.String(), "Generated vehicle")
}

func TestHandleListDrafts(t *testing.T) {
	h, _, _ := newTestHandler(t)
	router := mountTestRouter(h)

	// Empty store yields an empty array, not null.
	req := httptest.NewRequest(http.MethodGet, "/ai/drafts", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), `"drafts":[]`)

	seedDraft(t, h)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ai/drafts", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), StatusPendingReview)
}

func TestHandleGetDraftNotFound(t *testing.T) {
	h, _, _ := newTestHandler(t)
	router := mountTestRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/ai/drafts/nope", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandleDraftActionApprove(t *testing.T) {
	h, _, auditor := newTestHandler(t)
	router := mountTestRouter(h)
	id := seedDraft(t, h)

	body := `{"reviewer":"admin-7","notes":"ship it"}`
	req := httptest.NewRequest(http.MethodPost, "/ai/drafts/"+id+"/approve", strings.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), StatusApproved)

	require.Len(t, auditor.logs, 1)
	require.Equal(t, "content.draft.approve", auditor.logs[0].Action)
	require.Equal(t, id, auditor.logs[0].EntityID)
	require.Equal(t, "admin-7", auditor.logs[0].ActorID)
}

func TestHandleDraftActionUnknown(t *testing.T) {
	h, _, _ := newTestHandler(t)
	router := mountTestRouter(h)
	id := seedDraft(t, h)

	req := httptest.NewRequest(http.MethodPost, "/ai/drafts/"+id+"/archive", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleDraftActionMissingDraft(t *testing.T) {
	h, _, _ := newTestHandler(t)
	router := mountTestRouter(h)

	req := httptest.NewRequest(http.MethodPost, "/ai/drafts/nope/approve", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandleDraftActionReviewerFromIdentity(t *testing.T) {
	h, repo, _ := newTestHandler(t)
	router := mountTestRouter(h)
	id := seedDraft(t, h)

	req := httptest.NewRequest(http.MethodPost, "/ai/drafts/"+id+"/publish", strings.NewReader(`{}`))
	req = req.WithContext(shared.ContextWithIdentity(req.Context(), &shared.Identity{ID: "u-admin", Role: "admin"}))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	draft, err := repo.GetDraft(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, StatusPublished, draft.Status)
	require.Equal(t, "u-admin", draft.ReviewedBy)
}
