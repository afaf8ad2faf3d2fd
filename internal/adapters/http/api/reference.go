package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/elevatos/internal/domain/model"
	"github.com/okian/elevatos/internal/domain/types"
	"github.com/okian/elevatos/internal/i18n"
)

// ReferenceDependencies defines the interface for derived views and
// reference data.
type ReferenceDependencies interface {
	Report(ctx context.Context, lang string) (types.Report, error)
	Statuses(ctx context.Context, lang string) ([]types.StatusCount, error)
	Countries(ctx context.Context) []model.Country
	Activities(ctx context.Context) []model.Activity
}

// ReferenceHandler serves the analytics report and lookup lists.
type ReferenceHandler struct {
	deps ReferenceDependencies
}

// NewReferenceHandler creates a new reference handler.
func NewReferenceHandler(deps ReferenceDependencies) *ReferenceHandler {
	return &ReferenceHandler{deps: deps}
}

// queryLanguage normalizes ?lang. Empty means the session language.
func queryLanguage(r *http.Request) (string, error) {
	raw := r.URL.Query().Get("lang")
	if raw == "" {
		return "", nil
	}
	lang, ok := i18n.Normalize(raw)
	if !ok {
		return "", errors.New("unsupported language " + raw)
	}
	return lang, nil
}

// HandleReport handles GET /reports?lang= requests.
func (h *ReferenceHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	const op = "api.report"
	lang, err := queryLanguage(r)
	if err != nil {
		fail(w, r, WrapKind(op, ErrUnsupported, err))
		return
	}
	report, err := h.deps.Report(r.Context(), lang)
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// HandleStatuses handles GET /statuses?lang= requests.
func (h *ReferenceHandler) HandleStatuses(w http.ResponseWriter, r *http.Request) {
	const op = "api.statuses"
	lang, err := queryLanguage(r)
	if err != nil {
		fail(w, r, WrapKind(op, ErrUnsupported, err))
		return
	}
	statuses, err := h.deps.Statuses(r.Context(), lang)
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, statuses)
}

// HandleCountries handles GET /countries requests.
func (h *ReferenceHandler) HandleCountries(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Countries(r.Context()))
}

// HandleActivities handles GET /activities requests.
func (h *ReferenceHandler) HandleActivities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Activities(r.Context()))
}
