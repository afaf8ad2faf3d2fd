package api

import (
	"context"
	"net/http"

	"github.com/okian/elevatos/internal/domain/model"
)

// UserDependencies defines the interface for profile operations.
type UserDependencies interface {
	User(ctx context.Context) (model.UserProfile, error)
	UpdateUser(ctx context.Context, patch model.UserPatch) (model.UserProfile, error)
}

// UserHandler handles profile requests.
type UserHandler struct {
	deps UserDependencies
}

// NewUserHandler creates a new user handler.
func NewUserHandler(deps UserDependencies) *UserHandler {
	return &UserHandler{deps: deps}
}

// HandleGet handles GET /user requests.
func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	u, err := h.deps.User(r.Context())
	if err != nil {
		fail(w, r, Wrap("api.get_user", err))
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// HandlePatch handles PATCH /user requests.
func (h *UserHandler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_user"
	var patch model.UserPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		fail(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	u, err := h.deps.UpdateUser(r.Context(), patch)
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, u)
}
