package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/royalcarriage/platform/internal/aichat"
	"github.com/royalcarriage/platform/internal/auth"
	"github.com/royalcarriage/platform/internal/content"
	"github.com/royalcarriage/platform/internal/genai"
	"github.com/royalcarriage/platform/internal/imports"
	"github.com/royalcarriage/platform/internal/observability"
	"github.com/royalcarriage/platform/internal/rbac"
	"github.com/royalcarriage/platform/internal/seo"
	"github.com/royalcarriage/platform/internal/users"
	"github.com/royalcarriage/platform/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	AuthMiddleware *auth.Middleware
	RBACMiddleware rbac.Middleware

	AuthHandler    *auth.Handler
	AIChatHandler  *aichat.Handler
	ContentHandler *content.Handler
	GenAIHandler   *genai.Handler
	SEOHandler     *seo.Handler
	UsersHandler   *users.Handler
	ImportsHandler *imports.Handler
	JobsHandler    *jobs.Handler

	Metrics *observability.Metrics
}

// NewRouter constructs the chi.Router for the API server.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Auth:    params.AuthMiddleware,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)

	// The AI surface: content queue, generation, SEO analysis, and the
	// redaction-filtered chat query endpoint.
	r.Route("/ai", func(r chi.Router) {
		r.Use(auth.RequireUser)
		r.Use(params.RBACMiddleware.Require(rbac.PermAIChatAccess))
		params.ContentHandler.MountRoutes(r)
		params.GenAIHandler.MountRoutes(r)
		params.SEOHandler.MountRoutes(r)
		r.Route("/chat", params.AIChatHandler.MountRoutes)
	})

	r.Route("/users", func(r chi.Router) {
		r.Use(auth.RequireUser)
		r.Use(params.RBACMiddleware.Require(rbac.PermUsersView))
		params.UsersHandler.MountRoutes(r)
	})

	r.Route("/imports", func(r chi.Router) {
		r.Use(auth.RequireUser)
		r.Use(params.RBACMiddleware.Require(rbac.PermAccountingImportCSV))
		params.ImportsHandler.MountRoutes(r)
	})

	if params.JobsHandler != nil {
		r.Route("/jobs", func(r chi.Router) {
			r.Use(auth.RequireUser)
			params.JobsHandler.MountRoutes(r)
		})
	}

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
