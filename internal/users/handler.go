package users

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/royalcarriage/platform/internal/shared"
)

// Handler wires HTTP endpoints for account management.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		validator: validator.New(),
	}
}

// MountRoutes registers user routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Get("/{id}", h.handleGet)
	r.Put("/{id}/role", h.handleUpdateRole)
	r.Put("/{id}/active", h.handleSetActive)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, shared.ErrNotAuthenticated):
		shared.RespondError(w, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, shared.ErrForbidden):
		shared.RespondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, shared.ErrNotFound):
		shared.RespondError(w, http.StatusNotFound, "user not found")
	default:
		h.logger.Error(action, slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context(), shared.IdentityFromContext(r.Context()))
	if err != nil {
		h.respondServiceError(w, err, "list users")
		return
	}
	if users == nil {
		users = []User{}
	}
	shared.RespondJSON(w, http.StatusOK, map[string]any{"success": true, "users": users})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.Get(r.Context(), shared.IdentityFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.respondServiceError(w, err, "get user")
		return
	}
	shared.RespondJSON(w, http.StatusOK, map[string]any{"success": true, "user": user})
}

type updateRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

func (h *Handler) handleUpdateRole(w http.ResponseWriter, r *http.Request) {
	var req updateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "role is required")
		return
	}

	user, err := h.service.UpdateRole(r.Context(), shared.IdentityFromContext(r.Context()), chi.URLParam(r, "id"), req.Role)
	if err != nil {
		h.respondServiceError(w, err, "update role")
		return
	}
	shared.RespondJSON(w, http.StatusOK, map[string]any{"success": true, "user": user})
}

type setActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

func (h *Handler) handleSetActive(w http.ResponseWriter, r *http.Request) {
	var req setActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Active == nil {
		shared.RespondError(w, http.StatusBadRequest, "active is required")
		return
	}

	user, err := h.service.SetActive(r.Context(), shared.IdentityFromContext(r.Context()), chi.URLParam(r, "id"), *req.Active)
	if err != nil {
		h.respondServiceError(w, err, "set active")
		return
	}
	shared.RespondJSON(w, http.StatusOK, map[string]any{"success": true, "user": user})
}
