package aichat

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/royalcarriage/platform/internal/rbac"
	"github.com/royalcarriage/platform/internal/shared"
)

// Handler exposes the role-scoped chat query surface.
type Handler struct {
	logger    *slog.Logger
	executor  Executor
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, executor Executor) *Handler {
	return &Handler{
		logger:    logger,
		executor:  executor,
		validator: validator.New(),
	}
}

// MountRoutes registers chat routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/query", h.handleQuery)
	r.Get("/access", h.handleAccess)
}

func (h *Handler) handleQuery(w http.ResponseWriter, r *http.Request) {
	id := shared.IdentityFromContext(r.Context())
	if id == nil {
		shared.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "category and queryType are required")
		return
	}

	validation := ValidateQueryRequest(id, req)
	if !validation.Valid {
		shared.RespondJSON(w, http.StatusForbidden, map[string]any{
			"error":  "query not permitted",
			"errors": validation.Errors,
		})
		return
	}

	cfg := ConfigForRole(rbac.Role(id.Role))
	records, total, err := h.executor.Execute(r.Context(), *validation.ModifiedRequest, cfg.MaxResultsPerQuery)
	if err != nil {
		h.logger.Error("chat query",
			slog.String("category", string(req.Category)),
			slog.String("user_id", id.ID),
			slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}

	result := FilterQueryResults(id, records, total)
	shared.RespondJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"result":   result,
		"warnings": validation.Warnings,
	})
}

// handleAccess returns the caller's chat access profile so the UI can
// grey out categories and verbs before a query is ever sent.
func (h *Handler) handleAccess(w http.ResponseWriter, r *http.Request) {
	id := shared.IdentityFromContext(r.Context())
	if id == nil {
		shared.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	cfg := ConfigForRole(rbac.Role(id.Role))
	shared.RespondJSON(w, http.StatusOK, map[string]any{
		"role":                 id.Role,
		"hasAccess":            CanAccessChat(id),
		"allowedCategories":    cfg.AllowedDataCategories,
		"allowedQueryTypes":    cfg.AllowedQueryTypes,
		"maxResultsPerQuery":   cfg.MaxResultsPerQuery,
		"canQueryCrossOrg":     cfg.CanQueryCrossOrg,
		"redactedFields":       FieldsToRedact(id),
		"canViewSensitiveData": cfg.CanViewSensitiveData,
	})
}
