package imports

import (
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/royalcarriage/platform/internal/shared"
)

// maxUploadBytes caps a single CSV upload at 10 MiB.
const maxUploadBytes = 10 << 20

// Handler exposes the trip import endpoint.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers import routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/trips", h.handleImportTrips)
}

// handleImportTrips accepts either a multipart upload with a "file" part
// or a raw CSV body.
func (h *Handler) handleImportTrips(w http.ResponseWriter, r *http.Request) {
	identity := shared.IdentityFromContext(r.Context())
	if identity == nil {
		shared.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	var file multipart.File
	if err := r.ParseMultipartForm(maxUploadBytes); err == nil {
		f, _, err := r.FormFile("file")
		if err != nil {
			shared.RespondError(w, http.StatusBadRequest, "multipart upload is missing a file part")
			return
		}
		defer f.Close()
		file = f
	}

	var summary *Summary
	var err error
	if file != nil {
		summary, err = h.service.ImportTrips(r.Context(), identity.OrganizationID, file)
	} else {
		summary, err = h.service.ImportTrips(r.Context(), identity.OrganizationID, r.Body)
	}
	if err != nil {
		h.logger.Error("import trips", slog.Any("error", err))
		shared.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if summary.Errors == nil {
		summary.Errors = []RowError{}
	}
	shared.RespondJSON(w, http.StatusOK, map[string]any{"success": true, "summary": summary})
}
