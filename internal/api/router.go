package api

import (
	_ "embed"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/arsw/blueprints/internal/api/handler"
	"github.com/arsw/blueprints/internal/api/middleware"
	"github.com/arsw/blueprints/internal/api/response"
	"github.com/arsw/blueprints/internal/blueprint"
	"github.com/arsw/blueprints/internal/metrics"
)

//go:embed openapi.yaml
var openAPISpec []byte

// BasePath is the prefix of the blueprint resource.
const BasePath = "/api/v1/blueprints"

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Service      handler.BlueprintService
	StorePinger  blueprint.Pinger
	StoreBackend string
	FilterName   string
	Version      string
	Metrics      *metrics.Metrics
	RateLimit    *middleware.RateLimitConfig
	// AccessLog enables chi's request logger.
	AccessLog bool
}

// NewRouter creates and configures a Chi router with all middleware and routes.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	if deps.AccessLog {
		r.Use(chimiddleware.Logger)
	}
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.Err(w, http.StatusNotFound, "resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Err(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	healthHandler := handler.NewHealthHandler(deps.StorePinger, deps.Version, deps.StoreBackend, deps.FilterName)
	r.Get("/health", healthHandler.ServeHTTP)

	openapiHandler := handler.NewOpenAPIHandler(openAPISpec, deps.Version)
	r.Get("/openapi.json", openapiHandler.ServeHTTP)

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	bpHandler := handler.NewBlueprintHandler(deps.Service)
	r.Route(BasePath, func(r chi.Router) {
		if deps.RateLimit != nil {
			r.Use(middleware.RateLimit(*deps.RateLimit))
		}
		r.Get("/", bpHandler.List)
		r.Post("/", bpHandler.Create)
		r.Get("/{author}", bpHandler.ListByAuthor)
		r.Get("/{author}/{name}", bpHandler.Get)
		r.Put("/{author}/{name}/points", bpHandler.AppendPoint)
	})

	return r
}
