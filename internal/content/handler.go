package content

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/royalcarriage/platform/internal/genai"
	"github.com/royalcarriage/platform/internal/shared"
)

// Auditor records review actions; *shared.AuditLogger satisfies it.
type Auditor interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Handler wires HTTP endpoints for the content queue and drafts.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	auditor   Auditor
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, auditor Auditor) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		auditor:   auditor,
		validator: validator.New(),
	}
}

// MountRoutes registers content routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/enqueue-content", h.handleEnqueue)
	r.Post("/generate-content", h.handleGenerateContent)
	r.Post("/generate-content-sync", h.handleGenerateSync)
	r.Get("/drafts", h.handleListDrafts)
	r.Get("/drafts/{id}", h.handleGetDraft)
	r.Post("/drafts/{id}/{action}", h.handleDraftAction)
}

func (h *Handler) decodeRequest(w http.ResponseWriter, r *http.Request) (genai.Request, bool) {
	var req genai.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid request body")
		return req, false
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "Missing required fields: pageType, targetKeywords")
		return req, false
	}
	return req, true
}

func (h *Handler) enqueue(w http.ResponseWriter, r *http.Request, withMessage bool) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	job, err := h.service.Enqueue(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrQueueFull) {
			shared.RespondError(w, http.StatusServiceUnavailable, "generation queue is full, try again later")
			return
		}
		h.logger.Error("enqueue content", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "Failed to enqueue generation job")
		return
	}

	resp := map[string]any{
		"success": true,
		"job":     map[string]string{"id": job.ID},
	}
	if withMessage {
		resp["message"] = "Generation job queued. Draft will be available for review when ready."
		resp["queuedAt"] = time.Now().UTC().Format(time.RFC3339)
	}
	shared.RespondJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleEnqueue(w http.ResponseWriter, r *http.Request) {
	h.enqueue(w, r, false)
}

func (h *Handler) handleGenerateContent(w http.ResponseWriter, r *http.Request) {
	h.enqueue(w, r, true)
}

func (h *Handler) handleGenerateSync(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	content, err := h.service.GenerateSync(r.Context(), req)
	if err != nil {
		h.logger.Error("generate content", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "Failed to generate content")
		return
	}

	shared.RespondJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"content":     content,
		"generatedAt": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) handleListDrafts(w http.ResponseWriter, r *http.Request) {
	drafts, err := h.service.ListDrafts(r.Context())
	if err != nil {
		h.logger.Error("list drafts", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "Failed to list drafts")
		return
	}
	if drafts == nil {
		drafts = []*Draft{}
	}
	shared.RespondJSON(w, http.StatusOK, map[string]any{"success": true, "drafts": drafts})
}

func (h *Handler) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	draft, err := h.service.GetDraft(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			shared.RespondError(w, http.StatusNotFound, "Draft not found")
			return
		}
		h.logger.Error("get draft", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "Failed to get draft")
		return
	}
	shared.RespondJSON(w, http.StatusOK, map[string]any{"success": true, "draft": draft})
}

type reviewRequest struct {
	Reviewer string `json:"reviewer"`
	Notes    string `json:"notes"`
}

func (h *Handler) handleDraftAction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	action := chi.URLParam(r, "action")

	var req reviewRequest
	if r.Body != nil {
		// Body is optional; reviewer defaults to the authenticated user.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	if req.Reviewer == "" {
		if identity := shared.IdentityFromContext(r.Context()); identity != nil {
			req.Reviewer = identity.ID
		}
	}

	draft, err := h.service.Review(r.Context(), id, action, req.Reviewer, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidAction):
			shared.RespondError(w, http.StatusBadRequest, "Invalid action")
		case errors.Is(err, shared.ErrNotFound):
			shared.RespondError(w, http.StatusNotFound, "Draft not found")
		default:
			h.logger.Error("draft action", slog.String("action", action), slog.Any("error", err))
			shared.RespondError(w, http.StatusInternalServerError, "Failed to update draft status")
		}
		return
	}

	if h.auditor != nil {
		audit := shared.AuditLog{
			ActorID:  req.Reviewer,
			Action:   "content.draft." + action,
			Entity:   "content_draft",
			EntityID: id,
			Meta:     map[string]any{"status": draft.Status, "notes": req.Notes},
		}
		if err := h.auditor.Record(r.Context(), audit); err != nil {
			h.logger.Warn("audit draft action", slog.Any("error", err))
		}
	}

	shared.RespondJSON(w, http.StatusOK, map[string]any{"success": true, "draft": draft})
}
