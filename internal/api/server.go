// internal/api/server.go
package api

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pitchcraft/internal/common/logger"
	"pitchcraft/internal/models"
	"pitchcraft/internal/search"
	"pitchcraft/internal/store"
)

// DeckGenerator is satisfied by *pipeline.Generator.
type DeckGenerator interface {
	Generate(ctx context.Context, text string) (*models.Deck, error)
	Extract(ctx context.Context, text string) *models.BusinessProfile
}

// ImageRenderer is satisfied by *imagegen.Batch.
type ImageRenderer interface {
	GenerateForPrompts(ctx context.Context, prompts []string) ([]string, string)
}

type Searcher interface {
	Search(ctx context.Context, query string, size int) ([]search.Hit, error)
}

// ProcessStarter is satisfied by *camunda.Client.
type ProcessStarter interface {
	StartProcess(ctx context.Context, bpmnProcessID string, variables interface{}) (int64, error)
}

// HealthCheck pings one backend for /ready.
type HealthCheck func(ctx context.Context) error

type Options struct {
	AllowedOrigins  []string
	MaxRequestBytes int64
	MaxTextLength   int
	ProcessID       string
}

// Deps are the collaborators behind the routes. Generator and Images are
// required; the rest switch their routes to 503 when nil.
type Deps struct {
	Generator DeckGenerator
	Images    ImageRenderer
	Store     store.DeckStore
	Search    Searcher
	Workflows ProcessStarter
	Checks    map[string]HealthCheck
}

type Server struct {
	deps    Deps
	options Options
	logger  logger.Logger
}

func NewServer(deps Deps, options Options, log logger.Logger) *Server {
	if options.MaxRequestBytes <= 0 {
		options.MaxRequestBytes = 1 << 20
	}
	if options.MaxTextLength <= 0 {
		options.MaxTextLength = 50000
	}
	if options.ProcessID == "" {
		options.ProcessID = "pitch-deck-generation"
	}
	return &Server{
		deps:    deps,
		options: options,
		logger:  log.With(map[string]interface{}{"component": "api"}),
	}
}

// Router wires every route and middleware.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.corsMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.metricsMiddleware)

	r.HandleFunc("/health", s.healthHandler).Methods(http.MethodGet)
	r.HandleFunc("/ready", s.readyHandler).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/generate-presentation", s.generatePresentationHandler).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/generate-images", s.generateImagesHandler).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/extract", s.extractHandler).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/charts", s.chartsHandler).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/presentations", s.searchHandler).Methods(http.MethodGet)
	api.HandleFunc("/presentations/{id}", s.getPresentationHandler).Methods(http.MethodGet)
	api.HandleFunc("/workflows/presentation", s.startWorkflowHandler).Methods(http.MethodPost, http.MethodOptions)

	return r
}
