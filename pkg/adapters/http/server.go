// Package http exposes the action catalog and the executor over a small JSON API.
//
// The API runs actions with the privileges of the serving user, exactly like the
// chat loop does, but without a confirmation step. Routes that run actions or read the
// journal therefore refuse cross-site browser requests, accept only JSON bodies and,
// when a token is configured, require it as a bearer credential.
package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/aretw0/deckhand/pkg/domain"
	"github.com/aretw0/deckhand/pkg/ports"
	"github.com/aretw0/deckhand/pkg/registry"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MaxBodyBytes bounds the arguments accepted by POST /actions/{name}.
const MaxBodyBytes = 1 << 20

// Executor runs one action request.
type Executor interface {
	Execute(ctx context.Context, req domain.ActionRequest) domain.ActionResult
}

// Server serves the catalog and dispatches actions.
type Server struct {
	executor Executor
	catalog  *registry.Catalog
	journal  ports.Journal
	gatherer prometheus.Gatherer
	logger   *slog.Logger
	now      func() time.Time

	token          string
	allowedOrigins []string
}

// Option configures the Server.
type Option func(*Server)

// WithJournal records every action executed through the API.
func WithJournal(j ports.Journal) Option {
	return func(s *Server) {
		s.journal = j
	}
}

// WithMetrics mounts GET /metrics for the given gatherer.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithToken requires "Authorization: Bearer <token>" on the action and history routes.
func WithToken(token string) Option {
	return func(s *Server) {
		s.token = token
	}
}

// WithAllowedOrigins lists browser origins (e.g. "http://localhost:3000") allowed to call
// the protected routes. Any other non-empty Origin is rejected.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		s.allowedOrigins = append(s.allowedOrigins, origins...)
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler creates the HTTP handler.
func NewHandler(exec Executor, catalog *registry.Catalog, opts ...Option) http.Handler {
	if catalog == nil {
		catalog = registry.Default()
	}
	s := &Server{
		executor: exec,
		catalog:  catalog,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.Health)
	r.Get("/actions", s.ListActions)

	r.Group(func(r chi.Router) {
		r.Use(s.rejectForeignOrigin)
		r.Use(s.requireToken)

		// A non-simple content type forces browsers into a CORS preflight we never answer.
		r.With(middleware.AllowContentType("application/json")).Post("/actions/{name}", s.ExecuteAction)
		if s.journal != nil {
			r.Get("/history", s.History)
		}
	})
	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// Health handles GET /healthz.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListActions handles GET /actions. The body is the tool list sent to the provider.
func (s *Server) ListActions(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, registry.ToolDefinitions(s.catalog.List()))
}

// ExecuteAction handles POST /actions/{name}. The request body is the raw JSON
// arguments object. Action failures are reported inside the result with status 200;
// only an unregistered name yields 404.
func (s *Server) ExecuteAction(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusRequestEntityTooLarge)
		s.logger.Warn("ExecuteAction: Invalid request body", "error", err)
		return
	}

	req := domain.ActionRequest{
		ID:        uuid.NewString(),
		Name:      name,
		Arguments: string(body),
	}
	res := s.executor.Execute(r.Context(), req)

	if s.journal != nil {
		if err := s.journal.Append(r.Context(), domain.NewJournalEntry(req, res, s.now())); err != nil {
			s.logger.Warn("ExecuteAction: Journal append failed", "action", name, "error", err)
		}
	}

	status := http.StatusOK
	if _, ok := s.catalog.Lookup(name); !ok {
		status = http.StatusNotFound
	}
	s.logger.Info("Action Executed", "action", name, "failed", res.IsError(), "request_id", middleware.GetReqID(r.Context()))
	s.writeJSON(w, status, res)
}

// History handles GET /history?limit=N.
func (s *Server) History(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	entries, err := s.journal.List(r.Context(), limit)
	if err != nil {
		http.Error(w, "Failed to read journal", http.StatusInternalServerError)
		s.logger.Error("History: Journal list failed", "error", err)
		return
	}
	s.writeJSON(w, http.StatusOK, entries)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Response encode failed", "error", err)
	}
}
