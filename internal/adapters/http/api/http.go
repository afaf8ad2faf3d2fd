// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/okian/elevatos/internal/domain/types"
	"github.com/okian/elevatos/pkg/logger"
)

const (
	defaultMaxFeedbackLimit = 100
	maxBodyBytes            = 1 << 20
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	SessionDependencies
	ProjectDependencies
	FeedbackDependencies
	UserDependencies
	ReferenceDependencies
}

// Server wires HTTP routes for the dashboard API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	sessionHandler   *SessionHandler
	projectsHandler  *ProjectsHandler
	feedbackHandler  *FeedbackHandler
	userHandler      *UserHandler
	referenceHandler *ReferenceHandler

	maxFeedbackLimit int
	logger           logger.Logger
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithMaxFeedbackLimit caps GET /feedback?limit.
func WithMaxFeedbackLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxFeedbackLimit = n
		}
	}
}

// WithLogger sets a custom logger for request logging.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{maxFeedbackLimit: defaultMaxFeedbackLimit}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("api")
	}

	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.sessionHandler = NewSessionHandler(deps)
	s.projectsHandler = NewProjectsHandler(deps)
	s.feedbackHandler = NewFeedbackHandler(deps, s.maxFeedbackLimit)
	s.userHandler = NewUserHandler(deps)
	s.referenceHandler = NewReferenceHandler(deps)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	routes := []struct {
		pattern  string
		endpoint string
		handler  http.HandlerFunc
	}{
		{"GET /healthz", "healthz", s.healthHandler.HandleHealth},
		{"GET /metrics", "metrics", s.healthHandler.HandleMetrics},
		{"GET /stats", "stats", s.statsHandler.HandleStats},

		{"GET /session", "session", s.sessionHandler.HandleGet},
		{"POST /session/login", "session_login", s.sessionHandler.HandleLogin},
		{"POST /session/logout", "session_logout", s.sessionHandler.HandleLogout},
		{"POST /preferences/theme/toggle", "theme_toggle", s.sessionHandler.HandleToggleTheme},
		{"PUT /preferences/language", "language", s.sessionHandler.HandleChangeLanguage},

		{"GET /projects", "projects", s.projectsHandler.HandleList},
		{"GET /projects/{id}", "project", s.projectsHandler.HandleGet},
		{"PATCH /projects/{id}", "project_update", s.projectsHandler.HandlePatch},
		{"PUT /projects/{id}/stages/{stage}", "project_stage", s.projectsHandler.HandleUpdateStage},

		{"GET /feedback", "feedback", s.feedbackHandler.HandleList},
		{"POST /feedback", "feedback_submit", s.feedbackHandler.HandlePost},
		{"GET /feedback/stats", "feedback_stats", s.feedbackHandler.HandleStats},

		{"GET /user", "user", s.userHandler.HandleGet},
		{"PATCH /user", "user_update", s.userHandler.HandlePatch},

		{"GET /reports", "reports", s.referenceHandler.HandleReport},
		{"GET /countries", "countries", s.referenceHandler.HandleCountries},
		{"GET /statuses", "statuses", s.referenceHandler.HandleStatuses},
		{"GET /activities", "activities", s.referenceHandler.HandleActivities},
	}

	for _, rt := range routes {
		mux.Handle(rt.pattern, RequestIDMiddleware(MetricsMiddleware(rt.handler, rt.endpoint), s.logger))
	}
	s.logger.Debug(ctx, "routes registered", logger.Int("count", len(routes)))
}

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

// Session is the payload of the session endpoints.
type Session = types.Session

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg, RequestID: RequestIDFromContext(r.Context())})
}

// fail writes err with the status its kind maps to.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	writeError(w, r, status, code, err)
}

// decodeJSON reads a single JSON document from the request body, rejecting
// unknown fields and trailing data.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty body")
		}
		return fmt.Errorf("invalid body: %w", err)
	}
	if dec.More() {
		return errors.New("invalid body: trailing data")
	}
	return nil
}
