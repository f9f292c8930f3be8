// Package httpapi exposes the assistant and the suggestion engine over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/alexanderramin/cityguide/internal/domain"
	"github.com/alexanderramin/cityguide/internal/service"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	maxBodyBytes    = 64 << 10
	maxQueryRunes   = 1000
	maxHistoryTurns = 20
)

// Health reports whether the model backend is reachable.
type Health interface {
	Available(ctx context.Context) bool
}

type Options struct {
	RatePerSec float64
	RateBurst  int
	JWTSecret  string
	Now        func() time.Time
}

// Server routes HTTP requests to the services.
type Server struct {
	assistant service.AssistantService
	triggers  *service.TriggerService
	health    Health
	verifier  *TokenVerifier
	limiter   *RateLimiter
	now       func() time.Time
	logger    *slog.Logger
}

func NewServer(assistant service.AssistantService, triggers *service.TriggerService, health Health, opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.RatePerSec <= 0 {
		opts.RatePerSec = 2
	}
	if opts.RateBurst <= 0 {
		opts.RateBurst = 5
	}
	return &Server{
		assistant: assistant,
		triggers:  triggers,
		health:    health,
		verifier:  NewTokenVerifier(opts.JWTSecret),
		limiter:   NewRateLimiter(opts.RatePerSec, opts.RateBurst),
		now:       opts.Now,
		logger:    logger.With("component", "httpapi"),
	}
}

// Close releases the rate limiter.
func (s *Server) Close() { s.limiter.Close() }

// Handler returns the full middleware chain. Health checks bypass auth and
// rate limiting.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("POST /api/assistant", s.handleAssistant)
	api.HandleFunc("POST /api/suggestions/evaluate", s.handleEvaluate)
	api.HandleFunc("POST /api/suggestions/{id}/accept", s.handleFeedback(true))
	api.HandleFunc("POST /api/suggestions/{id}/dismiss", s.handleFeedback(false))

	root := http.NewServeMux()
	root.HandleFunc("GET /healthz", s.handleHealth)
	root.Handle("/api/", s.verifier.Middleware(s.limiter.Middleware(api)))
	return s.withRequestID(s.withLogging(root))
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

type locationBody struct {
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Accuracy float64 `json:"accuracy,omitempty"`
}

// ambientBody is the client-reported situation. app_mode is accepted for
// compatibility and ignored; the server derives it from the location.
type ambientBody struct {
	Location *locationBody   `json:"location,omitempty"`
	Speed    float64         `json:"speed"`
	Weather  *domain.Weather `json:"weather,omitempty"`
	AppMode  string          `json:"app_mode,omitempty"`
}

type assistantBody struct {
	Query   string        `json:"query"`
	History []domain.Turn `json:"history,omitempty"`
	ambientBody
}

type evaluateBody struct {
	SessionID string `json:"session_id"`
	ambientBody
}

type feedbackBody struct {
	SessionID string `json:"session_id"`
}

func (s *Server) ambient(r *http.Request, b ambientBody) domain.AmbientContext {
	amb := domain.AmbientContext{
		Speed:   b.Speed,
		Weather: b.Weather,
		Now:     s.now(),
		UserID:  UserID(r.Context()),
	}
	if b.Location != nil {
		amb.Location = &domain.Location{Lat: b.Location.Lat, Lng: b.Location.Lng, Accuracy: b.Location.Accuracy}
	}
	return amb
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeProblem(w, r, http.StatusBadRequest, "malformed JSON body")
		return false
	}
	return true
}

func (s *Server) handleAssistant(w http.ResponseWriter, r *http.Request) {
	var body assistantBody
	if !decodeBody(w, r, &body) {
		return
	}
	query := strings.TrimSpace(body.Query)
	if query == "" {
		writeProblem(w, r, http.StatusBadRequest, "query is required")
		return
	}
	if len([]rune(query)) > maxQueryRunes {
		writeProblem(w, r, http.StatusBadRequest, "query is too long")
		return
	}
	history := body.History
	if len(history) > maxHistoryTurns {
		history = history[len(history)-maxHistoryTurns:]
	}

	res := s.assistant.Run(r.Context(), service.AssistantRequest{
		Query:    query,
		History:  history,
		Frontend: s.ambient(r, body.ambientBody),
	})
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	if s.triggers == nil {
		writeProblem(w, r, http.StatusNotFound, "suggestions are disabled")
		return
	}
	var body evaluateBody
	if !decodeBody(w, r, &body) {
		return
	}
	if body.SessionID == "" {
		writeProblem(w, r, http.StatusBadRequest, "session_id is required")
		return
	}
	c := s.triggers.Evaluate(r.Context(), body.SessionID, s.ambient(r, body.ambientBody))
	writeJSON(w, http.StatusOK, map[string]any{"suggestion": c})
}

// handleFeedback records acceptance or dismissal of a suggestion. The
// category is the prefix of the suggestion id.
func (s *Server) handleFeedback(accepted bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.triggers == nil {
			writeProblem(w, r, http.StatusNotFound, "suggestions are disabled")
			return
		}
		var body feedbackBody
		if !decodeBody(w, r, &body) {
			return
		}
		if body.SessionID == "" {
			writeProblem(w, r, http.StatusBadRequest, "session_id is required")
			return
		}
		cat, ok := domain.CategoryOfCandidate(r.PathValue("id"))
		if !ok {
			writeProblem(w, r, http.StatusBadRequest, "unknown suggestion id")
			return
		}

		record := s.triggers.Dismiss
		if accepted {
			record = s.triggers.Accept
		}
		if err := record(r.Context(), body.SessionID, cat, s.now()); err != nil {
			// The in-memory profile is already updated; persistence lags.
			s.logger.WarnContext(r.Context(), "suggestion feedback not persisted", "error", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	llmUp := s.health != nil && s.health.Available(ctx)
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "llm": llmUp})
}

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.InfoContext(r.Context(), "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", w.Header().Get(requestIDHeader),
		)
	})
}
