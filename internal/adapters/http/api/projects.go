package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/elevatos/internal/domain/analytics"
	"github.com/okian/elevatos/internal/domain/model"
)

// ProjectDependencies defines the interface for project operations.
type ProjectDependencies interface {
	Projects(ctx context.Context, f analytics.Filter) ([]model.Project, error)
	Project(ctx context.Context, id string) (model.Project, error)
	UpdateProject(ctx context.Context, id string, patch model.ProjectPatch) (model.Project, error)
	UpdateProjectStage(ctx context.Context, id string, stage model.Status, complete int) (model.Project, error)
	Countries(ctx context.Context) []model.Country
}

// ProjectsHandler handles project requests.
type ProjectsHandler struct {
	deps ProjectDependencies
}

// NewProjectsHandler creates a new projects handler.
func NewProjectsHandler(deps ProjectDependencies) *ProjectsHandler {
	return &ProjectsHandler{deps: deps}
}

type stageRequest struct {
	Complete *int `json:"complete"`
}

// HandleList handles GET /projects?status=&country= requests.
func (h *ProjectsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_projects"
	q := r.URL.Query()
	f := analytics.Filter{Status: q.Get("status"), Country: q.Get("country")}

	if f.Status != "" && f.Status != analytics.AllFilter && !model.Status(f.Status).Valid() {
		fail(w, r, WrapKind(op, ErrUnsupported, errors.New("unknown status "+f.Status)))
		return
	}
	if f.Country != "" && f.Country != analytics.AllFilter && !h.knownCountry(r.Context(), f.Country) {
		fail(w, r, WrapKind(op, ErrUnsupported, errors.New("unknown country "+f.Country)))
		return
	}

	projects, err := h.deps.Projects(r.Context(), f)
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (h *ProjectsHandler) knownCountry(ctx context.Context, code string) bool {
	for _, c := range h.deps.Countries(ctx) {
		if c.Code == code {
			return true
		}
	}
	return false
}

// HandleGet handles GET /projects/{id} requests.
func (h *ProjectsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	p, err := h.deps.Project(r.Context(), r.PathValue("id"))
	if err != nil {
		fail(w, r, Wrap("api.get_project", err))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandlePatch handles PATCH /projects/{id} requests.
func (h *ProjectsHandler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_project"
	var patch model.ProjectPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		fail(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	p, err := h.deps.UpdateProject(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandleUpdateStage handles PUT /projects/{id}/stages/{stage} requests. An
// unknown stage leaves the project unchanged.
func (h *ProjectsHandler) HandleUpdateStage(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_stage"
	var req stageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	if req.Complete == nil {
		fail(w, r, WrapKind(op, ErrBadRequest, errors.New("missing complete")))
		return
	}
	p, err := h.deps.UpdateProjectStage(r.Context(), r.PathValue("id"), model.Status(r.PathValue("stage")), *req.Complete)
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, p)
}
