package genai

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/royalcarriage/platform/internal/shared"
)

const (
	defaultImageVariations = 3
	// maxImageVariations bounds the per-request generation fan-out.
	maxImageVariations = 5
)

// Handler wires HTTP endpoints for image generation and content rewrites.
type Handler struct {
	logger    *slog.Logger
	client    *Client
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, client *Client) *Handler {
	return &Handler{
		logger:    logger,
		client:    client,
		validator: validator.New(),
	}
}

// MountRoutes registers generation routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/generate-image", h.handleGenerateImage)
	r.Post("/generate-image-variations", h.handleImageVariations)
	r.Post("/improve-content", h.handleImproveContent)
}

func (h *Handler) decodeImageRequest(w http.ResponseWriter, r *http.Request) (ImageRequest, bool) {
	var req ImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid request body")
		return req, false
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "Missing required field: purpose")
		return req, false
	}
	return req, true
}

func (h *Handler) handleGenerateImage(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeImageRequest(w, r)
	if !ok {
		return
	}

	image, err := h.client.GenerateImage(r.Context(), req)
	if err != nil {
		h.logger.Error("generate image", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "Failed to generate image")
		return
	}

	shared.RespondJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"image":       image,
		"generatedAt": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) handleImageVariations(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ImageRequest
		Count int `json:"count"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(req.ImageRequest); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "Missing required field: purpose")
		return
	}
	count := req.Count
	if count <= 0 {
		count = defaultImageVariations
	}
	if count > maxImageVariations {
		count = maxImageVariations
	}

	images := make([]ImageResult, 0, count)
	for i := 0; i < count; i++ {
		image, err := h.client.GenerateImage(r.Context(), req.ImageRequest)
		if err != nil {
			h.logger.Warn("image variation", slog.Int("variation", i+1), slog.Any("error", err))
			continue
		}
		images = append(images, image)
	}

	shared.RespondJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"images":      images,
		"count":       len(images),
		"generatedAt": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) handleImproveContent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CurrentContent  string   `json:"currentContent"`
		Recommendations []string `json:"recommendations"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CurrentContent == "" || len(req.Recommendations) == 0 {
		shared.RespondError(w, http.StatusBadRequest, "Missing required fields: currentContent, recommendations")
		return
	}

	improved, err := h.client.ImproveContent(r.Context(), req.CurrentContent, req.Recommendations)
	if err != nil {
		h.logger.Error("improve content", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "Failed to improve content")
		return
	}

	shared.RespondJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"improvedContent": improved,
		"generatedAt":     time.Now().UTC().Format(time.RFC3339),
	})
}
