package api

import (
	"context"
	"net/http"
	"strings"
)

// SessionDependencies defines the interface for session and preference operations.
type SessionDependencies interface {
	Session(ctx context.Context) (Session, error)
	Login(ctx context.Context) (Session, error)
	Logout(ctx context.Context) (Session, error)
	ToggleTheme(ctx context.Context) (Session, error)
	ChangeLanguage(ctx context.Context, lang string) (Session, error)
}

// SessionHandler handles session requests.
type SessionHandler struct {
	deps SessionDependencies
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(deps SessionDependencies) *SessionHandler {
	return &SessionHandler{deps: deps}
}

type languageRequest struct {
	Language string `json:"language"`
}

// HandleGet handles GET /session requests.
func (h *SessionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, "api.get_session", h.deps.Session)
}

// HandleLogin handles POST /session/login requests.
func (h *SessionHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, "api.login", h.deps.Login)
}

// HandleLogout handles POST /session/logout requests.
func (h *SessionHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, "api.logout", h.deps.Logout)
}

// HandleToggleTheme handles POST /preferences/theme/toggle requests.
func (h *SessionHandler) HandleToggleTheme(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, "api.toggle_theme", h.deps.ToggleTheme)
}

// HandleChangeLanguage handles PUT /preferences/language requests.
func (h *SessionHandler) HandleChangeLanguage(w http.ResponseWriter, r *http.Request) {
	const op = "api.change_language"
	var req languageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.Language) == "" {
		fail(w, r, NewKind(op, ErrBadRequest))
		return
	}
	h.respond(w, r, op, func(ctx context.Context) (Session, error) {
		return h.deps.ChangeLanguage(ctx, req.Language)
	})
}

func (h *SessionHandler) respond(w http.ResponseWriter, r *http.Request, op string, call func(context.Context) (Session, error)) {
	sess, err := call(r.Context())
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, sess)
}
