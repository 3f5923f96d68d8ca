// Package api exposes feed generation over HTTP.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"dealerfeeds/internal/config"
	"dealerfeeds/internal/logger"
	"dealerfeeds/internal/pipeline"
)

// Routes.
const (
	PathGenerateFeeds = "/api/generate-feeds"
	PathFeedURLs      = "/api/feed-urls"
	PathHealth        = "/api/test"
)

// Generator runs one feed generation.
type Generator interface {
	Run(ctx context.Context) (*pipeline.Report, error)
}

// GenerateResponse is the body of a successful generation.
type GenerateResponse struct {
	Success bool `json:"success"`
	*pipeline.Report
}

// ErrorResponse is the body of a failed request.
type ErrorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
}

// FeedURLsResponse lists the public feed URLs of every dealership.
type FeedURLsResponse struct {
	Status           string                        `json:"status"`
	TotalDealerships int                           `json:"total_dealerships"`
	Feeds            map[string]pipeline.FeedLinks `json:"feeds"`
}

// HealthResponse answers the health check.
type HealthResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Option configures a Server.
type Option func(*Server)

// WithClock sets the time source for response timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(log *logger.Logger) Option {
	return func(s *Server) {
		s.logger = log
	}
}

// WithStaticFeeds serves dir under /feeds/.
func WithStaticFeeds(dir string) Option {
	return func(s *Server) {
		s.staticDir = dir
	}
}

// Server holds the HTTP handlers.
type Server struct {
	cfg       *config.Config
	generator Generator
	staticDir string
	now       func() time.Time
	logger    *logger.Logger
}

// NewServer creates the handlers for cfg backed by generator.
func NewServer(cfg *config.Config, generator Generator, opts ...Option) *Server {
	s := &Server{
		cfg:       cfg,
		generator: generator,
		now:       time.Now,
		logger:    logger.NewNop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc(PathGenerateFeeds, s.GenerateFeeds).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc(PathFeedURLs, s.FeedURLs).Methods(http.MethodGet)
	r.HandleFunc(PathHealth, s.Health).Methods(http.MethodGet)

	if s.staticDir != "" {
		r.PathPrefix(pipeline.LocalFeedsPath).Handler(
			http.StripPrefix(pipeline.LocalFeedsPath, http.FileServer(http.Dir(s.staticDir))),
		).Methods(http.MethodGet, http.MethodHead)
	}

	return r
}

// NewHTTPServer returns an HTTP server listening on addr.
func NewHTTPServer(addr string, s *Server) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// GenerateFeeds runs a generation and reports the outcome.
func (s *Server) GenerateFeeds(w http.ResponseWriter, r *http.Request) {
	report, err := s.generator.Run(r.Context())
	if err != nil {
		s.logger.Error("❌ Feed generation failed", "error", err)
		s.writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Success:   false,
			Error:     err.Error(),
			Timestamp: s.timestamp(),
		})

		return
	}

	s.writeJSON(w, http.StatusOK, GenerateResponse{Success: true, Report: report})
}

// FeedURLs lists where each dealership's feeds are served.
func (s *Server) FeedURLs(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, FeedURLsResponse{
		Status:           "success",
		TotalDealerships: len(s.cfg.Dealerships),
		Feeds:            pipeline.FeedURLs(s.cfg),
	})
}

// Health reports that the service is up.
func (s *Server) Health(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "success",
		Message:   "Feed generator is running",
		Timestamp: s.timestamp(),
	})
}

func (s *Server) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	data, err := json.MarshalIndent(body, "", "  ")
	if err != nil {
		s.logger.Error("Failed to encode response", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if _, err := w.Write(data); err != nil {
		s.logger.Warn("Failed to write response", "error", err)
	}
}
