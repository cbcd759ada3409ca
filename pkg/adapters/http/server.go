package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/caesartm"
	"github.com/aretw0/caesartm/internal/presentation/graph"
	"github.com/aretw0/caesartm/pkg/domain"
	"github.com/aretw0/caesartm/pkg/export"
	"github.com/aretw0/caesartm/pkg/runner"
	"github.com/go-chi/chi/v5"
)

// Server exposes the runner over HTTP.
type Server struct {
	Runner  *runner.Runner
	Streams *StreamManager
	Metrics http.Handler
	Logger  *slog.Logger
}

// Option configures the handler.
type Option func(*Server)

// WithMetrics mounts h at GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.Metrics = h
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.Logger = logger
		}
	}
}

// RunRequest is the body of the encode, decode and audit endpoints.
type RunRequest struct {
	Key  *int   `json:"key"`
	Text string `json:"text"`
}

// RunResponse is the body of a successful run. Warning is set when the run
// completed but could not be stored.
type RunResponse struct {
	runner.Result
	Warning string `json:"warning,omitempty"`
}

// RunEvent is broadcast on /events after every completed request.
// Subscribers may filter by op with /events?op=encode.
type RunEvent struct {
	Op     string `json:"op"`
	ID     string `json:"id"`
	Key    int    `json:"key"`
	Output string `json:"output"`
}

// NewHandler creates the HTTP handler for r.
func NewHandler(r *runner.Runner, opts ...Option) http.Handler {
	s := &Server{
		Runner:  r,
		Streams: NewStreamManager(),
		Logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return enableCORS(s.Routes())
}

// Routes builds the chi router without middleware.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/encode", s.runHandler("encode", s.Runner.Encode))
	r.Post("/decode", s.runHandler("decode", s.Runner.Decode))
	r.Post("/audit", s.runHandler("audit", s.Runner.Audit))

	r.Route("/runs", func(r chi.Router) {
		r.Get("/", s.ListRuns)
		r.Get("/{id}", s.GetRun)
		r.Get("/{id}/trace.{format}", s.GetTrace)
	})

	r.Get("/graph", s.GetGraph)
	r.Get("/events", s.SubscribeEvents)
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)

	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics)
	}
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type runFunc func(ctx context.Context, key int, text string) (*runner.Result, error)

func (s *Server) runHandler(op string, run runFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body RunRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			s.Logger.Warn("Invalid request body", "op", op, "error", err)
			return
		}
		if body.Key == nil {
			http.Error(w, "Invalid request: key is required", http.StatusBadRequest)
			return
		}

		res, err := run(r.Context(), *body.Key, body.Text)
		var warning string
		if err != nil {
			switch {
			case runner.IsValidationError(err):
				http.Error(w, fmt.Sprintf("Invalid input: %v", err), http.StatusBadRequest)
				s.Logger.Warn("Input rejected", "op", op, "error", err, "size", len(body.Text))
				return
			case errors.Is(err, runner.ErrPersist) && res != nil:
				s.Logger.Warn("Run not persisted", "op", op, "error", err)
				warning = err.Error()
			case errors.Is(err, domain.ErrTransitionUndefined):
				http.Error(w, fmt.Sprintf("Machine error: %v", err), http.StatusInternalServerError)
				s.Logger.Error("Transition undefined", "op", op, "error", err)
				return
			default:
				http.Error(w, fmt.Sprintf("Run error: %v", err), http.StatusInternalServerError)
				s.Logger.Error("Run failed", "op", op, "error", err)
				return
			}
		}

		if s.Streams != nil {
			if msg, err := json.Marshal(RunEvent{Op: op, ID: res.Run.ID, Key: res.Run.Key, Output: res.Run.Output}); err == nil {
				s.Streams.Broadcast(op, string(msg))
			}
		}
		writeJSON(w, http.StatusOK, RunResponse{Result: *res, Warning: warning}, s.Logger)
	}
}

// ListRuns handles GET /runs.
func (s *Server) ListRuns(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	ids, err := s.Runner.Store.List(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("List error: %v", err), http.StatusInternalServerError)
		s.Logger.Error("List runs failed", "error", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"runs": ids}, s.Logger)
}

// GetRun handles GET /runs/{id}.
func (s *Server) GetRun(w http.ResponseWriter, r *http.Request) {
	run, ok := s.loadRun(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, run, s.Logger)
}

// GetTrace handles GET /runs/{id}/trace.{format}.
func (s *Server) GetTrace(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	run, ok := s.loadRun(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	if err := export.Write(w, format, run.History); err != nil {
		s.Logger.Error("Trace export failed", "run_id", run.ID, "error", err)
	}
}

var contentTypes = map[export.Format]string{
	export.FormatCSV:  "text/csv",
	export.FormatJSON: "application/json",
	export.FormatYAML: "text/yaml",
}

// GetGraph handles GET /graph?key=K and returns the Mermaid diagram.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	key, err := runner.ParseKey(r.URL.Query().Get("key"))
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid input: %v", err), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, graph.GenerateMermaid(domain.BuildTable(key), nil))
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, s.Logger)
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{
		"app":     "caesartm-http",
		"version": strings.TrimSpace(caesartm.Version),
	}
	writeJSON(w, http.StatusOK, resp, s.Logger)
}

func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.Runner.Store == nil {
		http.Error(w, "Run store disabled", http.StatusNotImplemented)
		return false
	}
	return true
}

func (s *Server) loadRun(w http.ResponseWriter, r *http.Request) (*domain.Run, bool) {
	if !s.requireStore(w) {
		return nil, false
	}
	id := chi.URLParam(r, "id")
	run, err := s.Runner.Store.Load(r.Context(), id)
	if errors.Is(err, domain.ErrRunNotFound) {
		http.Error(w, fmt.Sprintf("Run %q not found", id), http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		http.Error(w, fmt.Sprintf("Load error: %v", err), http.StatusInternalServerError)
		s.Logger.Error("Load run failed", "run_id", id, "error", err)
		return nil, false
	}
	return run, true
}

func writeJSON(w http.ResponseWriter, status int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Response encode failed", "error", err)
	}
}
