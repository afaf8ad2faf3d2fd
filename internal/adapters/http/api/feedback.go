package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/okian/elevatos/internal/domain/model"
)

// FeedbackDependencies defines the interface for feedback operations.
type FeedbackDependencies interface {
	Feedback(ctx context.Context, limit int) ([]model.FeedbackEntry, error)
	AddFeedback(ctx context.Context, in model.FeedbackInput) (model.FeedbackEntry, error)
	FeedbackStats(ctx context.Context) (model.FeedbackStats, error)
}

// FeedbackHandler handles feedback requests.
type FeedbackHandler struct {
	deps     FeedbackDependencies
	maxLimit int
}

// NewFeedbackHandler creates a new feedback handler.
func NewFeedbackHandler(deps FeedbackDependencies, maxLimit int) *FeedbackHandler {
	return &FeedbackHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleList handles GET /feedback?limit=N requests. Without a limit every
// entry is returned, newest first.
func (h *FeedbackHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_feedback"
	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			writeError(w, r, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		if n > h.maxLimit {
			writeError(w, r, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
			return
		}
		limit = n
	}

	entries, err := h.deps.Feedback(r.Context(), limit)
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// HandlePost handles POST /feedback requests.
func (h *FeedbackHandler) HandlePost(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_feedback"
	var in model.FeedbackInput
	if err := decodeJSON(w, r, &in); err != nil {
		fail(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	entry, err := h.deps.AddFeedback(r.Context(), in)
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// HandleStats handles GET /feedback/stats requests.
func (h *FeedbackHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.deps.FeedbackStats(r.Context())
	if err != nil {
		fail(w, r, Wrap("api.feedback_stats", err))
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
