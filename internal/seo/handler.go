package seo

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/royalcarriage/platform/internal/shared"
)

// batchConcurrency caps parallel page analyses in one batch request.
const batchConcurrency = 8

// Handler wires HTTP endpoints for page analysis.
type Handler struct {
	logger *slog.Logger
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{logger: logger}
}

// MountRoutes registers analyzer routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/analyze-page", h.handleAnalyzePage)
	r.Post("/batch-analyze", h.handleBatchAnalyze)
	r.Post("/location-content", h.handleLocationContent)
	r.Post("/vehicle-content", h.handleVehicleContent)
}

type analyzeRequest struct {
	PageURL     string `json:"pageUrl"`
	PageContent string `json:"pageContent"`
	PageName    string `json:"pageName"`
}

func (h *Handler) handleAnalyzePage(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PageURL == "" || req.PageContent == "" || req.PageName == "" {
		shared.RespondError(w, http.StatusBadRequest, "Missing required fields: pageUrl, pageContent, pageName")
		return
	}

	analysis := AnalyzePage(req.PageContent)
	shared.RespondJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"analysis":   analysis,
		"analyzedAt": time.Now().UTC().Format(time.RFC3339),
	})
}

type batchPage struct {
	URL     string `json:"url"`
	Name    string `json:"name"`
	Content string `json:"content"`
}

type batchResult struct {
	URL      string    `json:"url"`
	Name     string    `json:"name"`
	Success  bool      `json:"success"`
	Analysis *Analysis `json:"analysis,omitempty"`
	Error    string    `json:"error,omitempty"`
}

func (h *Handler) handleBatchAnalyze(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Pages []batchPage `json:"pages"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Pages == nil {
		shared.RespondError(w, http.StatusBadRequest, "Missing required field: pages (array)")
		return
	}

	results := make([]batchResult, len(req.Pages))
	g, _ := errgroup.WithContext(r.Context())
	g.SetLimit(batchConcurrency)
	for i, page := range req.Pages {
		g.Go(func() error {
			result := batchResult{URL: page.URL, Name: page.Name}
			if page.Content == "" {
				result.Error = "Analysis failed"
			} else {
				analysis := AnalyzePage(page.Content)
				result.Analysis = &analysis
				result.Success = true
			}
			results[i] = result
			return nil
		})
	}
	_ = g.Wait()

	successCount := 0
	for _, res := range results {
		if res.Success {
			successCount++
		}
	}
	shared.RespondJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"results":      results,
		"totalPages":   len(req.Pages),
		"successCount": successCount,
		"analyzedAt":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) handleLocationContent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Location string `json:"location"`
		PageType string `json:"pageType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Location == "" || req.PageType == "" {
		shared.RespondError(w, http.StatusBadRequest, "Missing required fields: location, pageType")
		return
	}
	shared.RespondJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"content":  LocationContent(req.Location, req.PageType),
		"location": req.Location,
		"pageType": req.PageType,
	})
}

func (h *Handler) handleVehicleContent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Vehicle string `json:"vehicle"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Vehicle == "" {
		shared.RespondError(w, http.StatusBadRequest, "Missing required field: vehicle")
		return
	}
	shared.RespondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"content": VehicleContent(req.Vehicle),
		"vehicle": req.Vehicle,
	})
}
