// Package store holds the authoritative dashboard state and the only legal
// ways to change it.
//
// Every operation runs to completion under one mutex, so concurrent callers
// observe the single-actor semantics the dashboard was built around. The
// store does no I/O; persistence is an Observer concern.
package store

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/okian/elevatos/internal/domain/analytics"
	"github.com/okian/elevatos/internal/domain/model"
	"github.com/okian/elevatos/internal/i18n"
	"github.com/okian/elevatos/pkg/logger"
	"github.com/okian/elevatos/pkg/metrics"
)

// Store owns projects, feedback, feedback stats, the user profile and the
// session preferences.
type Store struct {
	mu sync.RWMutex

	projects []model.Project
	index    map[string]int
	feedback []model.FeedbackEntry
	stats    model.FeedbackStats
	user     model.UserProfile

	authenticated bool
	language      string
	theme         model.Theme

	observers []registration
	nextObsID int

	started bool
	now     func() time.Time
	logger  logger.Logger
}

type registration struct {
	id  int
	obs Observer
}

// New constructs an empty Store. Call Start before use.
func New(opts ...Option) *Store {
	s := &Store{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads st as the initial state. Starting a started store is a no-op.
func (s *Store) Start(ctx context.Context, st State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("store")
	}

	lang, ok := i18n.Normalize(st.Language)
	if !ok {
		lang = i18n.DefaultLanguage
	}
	theme := st.Theme
	if !theme.Valid() {
		theme = model.ThemeLight
	}

	s.projects = model.CloneProjects(st.Projects)
	s.index = make(map[string]int, len(s.projects))
	for i, p := range s.projects {
		if _, dup := s.index[p.ID]; dup {
			return fmt.Errorf("%w: duplicate project id %q", ErrValidation, p.ID)
		}
		s.index[p.ID] = i
	}
	s.feedback = model.CloneFeedback(st.Feedback)
	s.stats = st.FeedbackStats
	s.user = st.User
	s.authenticated = st.Authenticated
	s.language = lang
	s.theme = theme
	s.started = true

	s.logger.Info(ctx, "store started",
		logger.Int("projects", len(s.projects)),
		logger.Int("feedback", len(s.feedback)),
		logger.String("language", s.language),
		logger.String("theme", string(s.theme)),
	)
	return nil
}

// Stop detaches every observer. Mutations after Stop fail with ErrNotStarted;
// reads keep returning the last state.
func (s *Store) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.observers = nil
	s.started = false
	s.logger.Info(ctx, "store stopped")
}

// Subscribe registers obs for every subsequent change and returns a function
// that removes it.
func (s *Store) Subscribe(obs Observer) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextObsID++
	id := s.nextObsID
	s.observers = append(s.observers, registration{id: id, obs: obs})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, r := range s.observers {
			if r.id == id {
				s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

// notify must be called with the write lock held.
func (s *Store) notify(ctx context.Context, keys ...Key) {
	if len(s.observers) == 0 {
		return
	}
	st := s.snapshotLocked()
	for _, k := range keys {
		for _, r := range s.observers {
			// each observer gets its own copy
			r.obs.Observe(ctx, Change{Key: k, Value: st.Value(k)})
		}
	}
}

// Snapshot returns a deep copy of the whole state.
func (s *Store) Snapshot(_ context.Context) State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() State {
	return State{
		Authenticated: s.authenticated,
		Language:      s.language,
		Theme:         s.theme,
		Projects:      model.CloneProjects(s.projects),
		Feedback:      model.CloneFeedback(s.feedback),
		FeedbackStats: s.stats,
		User:          s.user,
	}
}

// Projects returns every project in insertion order.
func (s *Store) Projects(_ context.Context) []model.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.CloneProjects(s.projects)
}

// ProjectCount returns the number of projects.
func (s *Store) ProjectCount(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.projects)
}

// Project returns the project with the given id or ErrNotFound.
func (s *Store) Project(_ context.Context, id string) (model.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return model.Project{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.projects[i].Clone(), nil
}

// Feedback returns every entry, most recent first.
func (s *Store) Feedback(_ context.Context) []model.FeedbackEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.CloneFeedback(s.feedback)
}

// FeedbackStats returns the review aggregate.
func (s *Store) FeedbackStats(_ context.Context) model.FeedbackStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// User returns the profile.
func (s *Store) User(_ context.Context) model.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Authenticated reports the session flag.
func (s *Store) Authenticated(_ context.Context) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// Language returns the selected language code.
func (s *Store) Language(_ context.Context) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.language
}

// Theme returns the selected color scheme.
func (s *Store) Theme(_ context.Context) model.Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

// UpdateProject merges patch into the project with the given id.
func (s *Store) UpdateProject(ctx context.Context, id string, patch model.ProjectPatch) (model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.updateProjectLocked(ctx, id, patch)
	metrics.RecordStoreMutation("update_project", result(err))
	return p, err
}

func (s *Store) updateProjectLocked(ctx context.Context, id string, patch model.ProjectPatch) (model.Project, error) {
	if !s.started {
		return model.Project{}, ErrNotStarted
	}
	i, ok := s.index[id]
	if !ok {
		return model.Project{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := validateProjectPatch(patch); err != nil {
		return model.Project{}, err
	}
	if patch.Empty() {
		return s.projects[i].Clone(), nil
	}

	p := s.projects[i].Clone()
	if patch.Name != nil {
		p.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.Progress != nil {
		p.Progress = *patch.Progress
	}
	if patch.Budget != nil {
		p.Budget = *patch.Budget
	}
	if patch.Manager != nil {
		p.Manager = *patch.Manager
	}
	if patch.StartDate != nil {
		p.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		p.EndDate = *patch.EndDate
	}
	if patch.Location != nil {
		p.Coordinates = *patch.Location
	}
	if patch.Notes != nil {
		if p.Stages == nil {
			p.Stages = make(map[model.Status]model.Stage)
		}
		st := p.Stages[patch.Notes.Stage]
		st.Notes = patch.Notes.Notes
		p.Stages[patch.Notes.Stage] = st
	}

	s.projects[i] = p
	s.logger.Debug(ctx, "project updated", logger.String("id", id))
	s.notify(ctx, KeyProjects)
	return p.Clone(), nil
}

func validateProjectPatch(p model.ProjectPatch) error {
	switch {
	case p.Name != nil && strings.TrimSpace(*p.Name) == "":
		return fmt.Errorf("%w: name must not be empty", ErrValidation)
	case p.Status != nil && !p.Status.Valid():
		return fmt.Errorf("%w: unknown status %q", ErrValidation, *p.Status)
	case p.Progress != nil && (*p.Progress < 0 || *p.Progress > 100):
		return fmt.Errorf("%w: progress %d outside 0-100", ErrValidation, *p.Progress)
	case p.Budget != nil && *p.Budget <= 0:
		return fmt.Errorf("%w: budget must be positive", ErrValidation)
	case p.Notes != nil && !p.Notes.Stage.Valid():
		return fmt.Errorf("%w: unknown stage %q", ErrValidation, p.Notes.Stage)
	}
	for _, d := range []*string{p.StartDate, p.EndDate} {
		if d == nil {
			continue
		}
		if _, err := time.Parse(model.DateLayout, *d); err != nil {
			return fmt.Errorf("%w: date %q is not YYYY-MM-DD", ErrValidation, *d)
		}
	}
	return nil
}

// UpdateProjectStage sets the completion of one stage of a project. Other
// fields, including status, are left untouched. An unknown stage is a no-op
// that returns the project unchanged.
func (s *Store) UpdateProjectStage(ctx context.Context, id string, stage model.Status, complete int) (model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.updateStageLocked(ctx, id, stage, complete)
	metrics.RecordStoreMutation("update_project_stage", result(err))
	return p, err
}

func (s *Store) updateStageLocked(ctx context.Context, id string, stage model.Status, complete int) (model.Project, error) {
	if !s.started {
		return model.Project{}, ErrNotStarted
	}
	i, ok := s.index[id]
	if !ok {
		return model.Project{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if !stage.Valid() {
		s.logger.Debug(ctx, "ignoring unknown stage", logger.String("id", id), logger.String("stage", string(stage)))
		return s.projects[i].Clone(), nil
	}
	if complete < 0 || complete > 100 {
		return model.Project{}, fmt.Errorf("%w: completion %d outside 0-100", ErrValidation, complete)
	}

	p := s.projects[i].Clone()
	if p.Stages == nil {
		p.Stages = make(map[model.Status]model.Stage)
	}
	st := p.Stages[stage]
	st.Complete = complete
	p.Stages[stage] = st

	s.projects[i] = p
	s.notify(ctx, KeyProjects)
	return p.Clone(), nil
}

// AddFeedback records a review. The entry gets the next id and today's date,
// goes to the front of the list, and the aggregate is updated incrementally.
func (s *Store) AddFeedback(ctx context.Context, in model.FeedbackInput) (model.FeedbackEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.addFeedbackLocked(ctx, in)
	metrics.RecordStoreMutation("add_feedback", result(err))
	if err == nil {
		metrics.RecordFeedbackSubmitted(e.Rating)
	}
	return e, err
}

func (s *Store) addFeedbackLocked(ctx context.Context, in model.FeedbackInput) (model.FeedbackEntry, error) {
	if !s.started {
		return model.FeedbackEntry{}, ErrNotStarted
	}
	if in.Rating < model.MinRating || in.Rating > model.MaxRating {
		return model.FeedbackEntry{}, fmt.Errorf("%w: rating %d outside %d-%d", ErrValidation, in.Rating, model.MinRating, model.MaxRating)
	}
	if strings.TrimSpace(in.ProjectID) == "" {
		return model.FeedbackEntry{}, fmt.Errorf("%w: missing project id", ErrValidation)
	}
	i, ok := s.index[in.ProjectID]
	if !ok {
		return model.FeedbackEntry{}, fmt.Errorf("%w: unknown project %q", ErrValidation, in.ProjectID)
	}
	if strings.TrimSpace(in.Name) == "" {
		return model.FeedbackEntry{}, fmt.Errorf("%w: missing author name", ErrValidation)
	}

	name := in.ProjectName
	if strings.TrimSpace(name) == "" {
		name = s.projects[i].Name
	}

	e := model.FeedbackEntry{
		ID:          s.nextFeedbackID(),
		ProjectID:   in.ProjectID,
		ProjectName: name,
		Name:        in.Name,
		Rating:      in.Rating,
		Comment:     in.Comment,
		Suggestions: in.Suggestions,
		Date:        s.now().Format(model.DateLayout),
	}

	fb := make([]model.FeedbackEntry, 0, len(s.feedback)+1)
	fb = append(fb, e)
	fb = append(fb, s.feedback...)

	n := s.stats.TotalReviews
	avg := (s.stats.AverageRating*float64(n) + float64(in.Rating)) / float64(n+1)

	s.feedback = fb
	s.stats = model.FeedbackStats{TotalReviews: n + 1, AverageRating: analytics.Round1(avg)}

	s.logger.Debug(ctx, "feedback added",
		logger.Int("id", e.ID),
		logger.String("project", e.ProjectID),
		logger.Int("rating", e.Rating),
	)
	s.notify(ctx, KeyFeedback, KeyFeedbackStats)
	return e, nil
}

// nextFeedbackID is one past the largest id in use, which equals len+1 for
// the contiguous ids the store hands out.
func (s *Store) nextFeedbackID() int {
	maxID := 0
	for _, f := range s.feedback {
		if f.ID > maxID {
			maxID = f.ID
		}
	}
	return maxID + 1
}

// UpdateUser merges patch into the profile.
func (s *Store) UpdateUser(ctx context.Context, patch model.UserPatch) (model.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		metrics.RecordStoreMutation("update_user", result(ErrNotStarted))
		return model.UserProfile{}, ErrNotStarted
	}
	s.user = patch.Apply(s.user)
	s.notify(ctx, KeyUser)
	metrics.RecordStoreMutation("update_user", result(nil))
	return s.user, nil
}

// Login marks the session authenticated. No credentials are checked.
func (s *Store) Login(ctx context.Context) error {
	return s.setAuthenticated(ctx, true, "login")
}

// Logout marks the session anonymous.
func (s *Store) Logout(ctx context.Context) error {
	return s.setAuthenticated(ctx, false, "logout")
}

func (s *Store) setAuthenticated(ctx context.Context, v bool, op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		metrics.RecordStoreMutation(op, result(ErrNotStarted))
		return ErrNotStarted
	}
	if s.authenticated != v {
		s.authenticated = v
		s.notify(ctx, KeyAuthenticated)
	}
	metrics.RecordStoreMutation(op, result(nil))
	return nil
}

// ToggleTheme flips light and dark and returns the new theme.
func (s *Store) ToggleTheme(ctx context.Context) (model.Theme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		metrics.RecordStoreMutation("toggle_theme", result(ErrNotStarted))
		return "", ErrNotStarted
	}
	s.theme = s.theme.Toggle()
	s.notify(ctx, KeyTheme)
	metrics.RecordStoreMutation("toggle_theme", result(nil))
	return s.theme, nil
}

// ChangeLanguage selects a supported language. Regional tags are reduced to
// their language ("pt-BR" becomes "pt").
func (s *Store) ChangeLanguage(ctx context.Context, lang string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		metrics.RecordStoreMutation("change_language", result(ErrNotStarted))
		return "", ErrNotStarted
	}
	norm, ok := i18n.Normalize(lang)
	if !ok {
		metrics.RecordStoreMutation("change_language", result(ErrValidation))
		return "", fmt.Errorf("%w: unsupported language %q", ErrValidation, lang)
	}
	if norm != s.language {
		s.language = norm
		s.notify(ctx, KeyLanguage)
	}
	metrics.RecordStoreMutation("change_language", result(nil))
	return norm, nil
}

func result(err error) string {
	if err == nil {
		return "ok"
	}
	return "error"
}
