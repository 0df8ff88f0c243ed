// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	json "github.com/goccy/go-json"

	"github.com/okian/upskill/internal/domain/types"
	"github.com/okian/upskill/pkg/logger"
)

const (
	corsMaxAgeSeconds = 300
	defaultRateWindow = time.Minute
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	CatalogDependencies
	CareerPathDependencies
	DiscoveryDependencies
	RecommendDependencies
}

// Server wires HTTP routes for the recommender API.
type Server struct {
	healthHandler     *HealthHandler
	catalogHandler    *CatalogHandler
	careerPathHandler *CareerPathHandler
	discoveryHandler  *DiscoveryHandler
	recommendHandler  *RecommendHandler

	corsOrigins       []string
	rateLimitRequests int
	rateLimitWindow   time.Duration
	logger            logger.Logger
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithCORSOrigins sets the origins allowed to call the API from a browser.
func WithCORSOrigins(origins ...string) Option {
	return func(s *Server) {
		s.corsOrigins = append([]string(nil), origins...)
	}
}

// WithRateLimit limits each client IP to requests per window. Zero disables limiting.
func WithRateLimit(requests int, window time.Duration) Option {
	return func(s *Server) {
		if requests >= 0 {
			s.rateLimitRequests = requests
		}
		if window > 0 {
			s.rateLimitWindow = window
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		healthHandler:     NewHealthHandler(),
		catalogHandler:    NewCatalogHandler(deps),
		careerPathHandler: NewCareerPathHandler(deps),
		discoveryHandler:  NewDiscoveryHandler(deps),
		recommendHandler:  NewRecommendHandler(deps),
		rateLimitWindow:   defaultRateWindow,
		logger:            logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds a chi router with the middleware stack and every API route.
func (s *Server) Router(ctx context.Context) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(RequestLogger(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.corsOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           corsMaxAgeSeconds,
	}))
	if s.rateLimitRequests > 0 {
		r.Use(httprate.LimitByIP(s.rateLimitRequests, s.rateLimitWindow))
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	})

	s.Register(ctx, r)
	return r
}

// Register attaches all API routes to r.
func (s *Server) Register(_ context.Context, r chi.Router) {
	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.Get("/", MetricsMiddleware(s.catalogHandler.HandleRoot, "root"))
	r.Get("/job_roles", MetricsMiddleware(s.catalogHandler.HandleJobRoles, "job_roles"))
	r.Get("/platforms", MetricsMiddleware(s.catalogHandler.HandlePlatforms, "platforms"))
	r.Get("/skills", MetricsMiddleware(s.catalogHandler.HandleSkills, "skills"))
	r.Get("/career_path/{job_role}", MetricsMiddleware(s.careerPathHandler.HandleCareerPath, "career_path"))
	r.Get("/ai_courses", MetricsMiddleware(s.discoveryHandler.HandleAICourses, "ai_courses"))
	r.Get("/recommendations", MetricsMiddleware(s.recommendHandler.HandleRecommendations, "recommendations"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, types.ErrorResponse{Code: code, Message: msg})
}
