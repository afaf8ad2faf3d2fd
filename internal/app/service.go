// Package service wires the dashboard components together and implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/okian/elevatos/internal/adapters/mirror"
	"github.com/okian/elevatos/internal/adapters/repository"
	"github.com/okian/elevatos/internal/config"
	"github.com/okian/elevatos/internal/domain/analytics"
	"github.com/okian/elevatos/internal/domain/model"
	"github.com/okian/elevatos/internal/domain/seed"
	"github.com/okian/elevatos/internal/domain/store"
	"github.com/okian/elevatos/internal/domain/types"
	"github.com/okian/elevatos/pkg/logger"
	"github.com/okian/elevatos/pkg/metrics"
)

// ErrNotStarted is returned by operations that need a running service. It
// wraps store.ErrNotStarted.
var ErrNotStarted = fmt.Errorf("service: %w", store.ErrNotStarted)

// Service owns the store, its persistence mirror and the reference data.
type Service struct {
	mu sync.RWMutex

	cfg *config.Config

	// Core components
	repo      repository.Store
	ownsRepo  bool
	mirror    *mirror.Mirror
	store     *store.Store
	observers []func()

	// Reference data fixed at startup
	countries    []model.Country
	countryStats []model.CountryStat
	monthly      []model.MonthlyFigure
	activities   []model.Activity

	// State
	started   bool
	startedAt time.Time
	outcomes  map[store.Key]string
	now       func() time.Time

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithConfig sets the configuration. Defaults to config.New().
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		if cfg != nil {
			s.cfg = cfg
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRepository injects the persistence backend instead of opening the one
// named by the configuration. The service does not close an injected
// repository.
func WithRepository(repo repository.Store) Option {
	return func(s *Service) {
		s.repo = repo
	}
}

// WithClock overrides the time source used to date feedback.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a Service. Nothing is opened until Start.
func New(opts ...Option) *Service {
	s := &Service{
		cfg: config.New(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start opens the repository, loads the persisted state over the seed data
// and starts the store and its mirror.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting dashboard service...", logger.String("backend", s.cfg.StorageBackend))

	if s.repo == nil {
		repo, err := s.openRepository(ctx)
		if err != nil {
			return err
		}
		s.repo = repo
		s.ownsRepo = true
	}

	projects := seed.New(seed.WithSeed(s.cfg.Seed)).Projects()
	fallback := store.State{
		Language:      s.cfg.DefaultLanguage,
		Theme:         model.Theme(s.cfg.DefaultTheme),
		Projects:      projects,
		Feedback:      seed.Feedback(projects),
		FeedbackStats: seed.FeedbackStats(),
		User:          seed.User(),
	}

	s.mirror = mirror.New(s.repo,
		mirror.WithQueueCapacity(s.cfg.MirrorQueueSize),
		mirror.WithLogger(s.logger.Named("mirror")),
	)
	initial, outcomes := s.mirror.Load(ctx, fallback)

	s.store = store.New(
		store.WithLogger(s.logger.Named("store")),
		store.WithClock(s.now),
	)
	if err := s.store.Start(ctx, initial); err != nil {
		s.closeRepository(ctx)
		return fmt.Errorf("start store: %w", err)
	}

	// the writer outlives the start request
	s.mirror.Start(context.WithoutCancel(ctx))
	s.observers = []func(){
		s.store.Subscribe(s.mirror),
		s.store.Subscribe(store.ObserverFunc(observeMetrics)),
	}
	publishMetrics(initial)

	s.countries = seed.Countries()
	s.countryStats = seed.CountryStats()
	s.monthly = seed.MonthlyFigures()
	s.activities = seed.Activities(initial.Projects)

	s.outcomes = outcomes
	s.startedAt = s.now()
	s.started = true
	s.logger.Info(ctx, "dashboard service started",
		logger.Int("projects", len(initial.Projects)),
		logger.Int("feedback", len(initial.Feedback)),
		logger.String("language", initial.Language),
		logger.String("theme", string(initial.Theme)),
	)
	return nil
}

func (s *Service) openRepository(ctx context.Context) (repository.Store, error) {
	switch s.cfg.StorageBackend {
	case config.BackendSQLite:
		repo, err := repository.NewSQLiteStore(ctx, s.cfg.SQLitePath,
			repository.WithLogger(s.logger.Named("repository")),
		)
		if err != nil {
			return nil, fmt.Errorf("open sqlite repository: %w", err)
		}
		return repo, nil
	case config.BackendMemory, "":
		return repository.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: unknown storage backend %q", config.ErrInvalidConfig, s.cfg.StorageBackend)
	}
}

func (s *Service) closeRepository(ctx context.Context) error {
	if !s.ownsRepo || s.repo == nil {
		return nil
	}
	err := s.repo.Close()
	if err != nil {
		s.logger.Error(ctx, "error closing repository", logger.Error(err))
	}
	s.repo = nil
	s.ownsRepo = false
	return err
}

// Stop detaches the observers, drains pending writes and closes the
// repository it opened.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}

	s.logger.Info(ctx, "stopping dashboard service...")

	for _, unsubscribe := range s.observers {
		unsubscribe()
	}
	s.observers = nil
	s.store.Stop(ctx)

	mirrorErr := s.mirror.Close(ctx)
	if mirrorErr != nil {
		s.logger.Error(ctx, "error flushing mirror", logger.Error(mirrorErr))
	}
	repoErr := s.closeRepository(ctx)

	s.started = false
	s.logger.Info(ctx, "dashboard service stopped")
	return errors.Join(mirrorErr, repoErr)
}

// running returns the store while the service is started.
func (s *Service) running() (*store.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.store, nil
}

func observeMetrics(_ context.Context, c store.Change) {
	switch c.Key {
	case store.KeyProjects:
		if projects, ok := c.Value.([]model.Project); ok {
			publishProjects(projects)
		}
	case store.KeyFeedbackStats:
		if st, ok := c.Value.(model.FeedbackStats); ok {
			metrics.UpdateFeedbackStats(st.TotalReviews, st.AverageRating)
		}
	}
}

func publishMetrics(st store.State) {
	publishProjects(st.Projects)
	metrics.UpdateFeedbackStats(st.FeedbackStats.TotalReviews, st.FeedbackStats.AverageRating)
}

func publishProjects(projects []model.Project) {
	metrics.UpdateProjectsTotal(len(projects))
	for _, tl := range analytics.CountByStatus(projects, model.Statuses()) {
		metrics.UpdateProjectsByStatus(string(tl.Status), tl.Count)
	}
}

// Session returns the signed-in flag and display preferences.
func (s *Service) Session(ctx context.Context) (types.Session, error) {
	st, err := s.running()
	if err != nil {
		return types.Session{}, err
	}
	return sessionOf(ctx, st), nil
}

func sessionOf(ctx context.Context, st *store.Store) types.Session {
	return types.Session{
		Authenticated: st.Authenticated(ctx),
		Language:      st.Language(ctx),
		Theme:         st.Theme(ctx),
	}
}

// Login marks the session authenticated.
func (s *Service) Login(ctx context.Context) (types.Session, error) {
	st, err := s.running()
	if err != nil {
		return types.Session{}, err
	}
	if err := st.Login(ctx); err != nil {
		return types.Session{}, err
	}
	return sessionOf(ctx, st), nil
}

// Logout clears the authenticated flag.
func (s *Service) Logout(ctx context.Context) (types.Session, error) {
	st, err := s.running()
	if err != nil {
		return types.Session{}, err
	}
	if err := st.Logout(ctx); err != nil {
		return types.Session{}, err
	}
	return sessionOf(ctx, st), nil
}

// ToggleTheme flips between light and dark.
func (s *Service) ToggleTheme(ctx context.Context) (types.Session, error) {
	st, err := s.running()
	if err != nil {
		return types.Session{}, err
	}
	if _, err := st.ToggleTheme(ctx); err != nil {
		return types.Session{}, err
	}
	return sessionOf(ctx, st), nil
}

// ChangeLanguage switches the display language.
func (s *Service) ChangeLanguage(ctx context.Context, lang string) (types.Session, error) {
	st, err := s.running()
	if err != nil {
		return types.Session{}, err
	}
	if _, err := st.ChangeLanguage(ctx, lang); err != nil {
		return types.Session{}, err
	}
	return sessionOf(ctx, st), nil
}

// Projects lists the projects matching f in store order.
func (s *Service) Projects(ctx context.Context, f analytics.Filter) ([]model.Project, error) {
	st, err := s.running()
	if err != nil {
		return nil, err
	}
	return f.Apply(st.Projects(ctx)), nil
}

// Project returns one project by id.
func (s *Service) Project(ctx context.Context, id string) (model.Project, error) {
	st, err := s.running()
	if err != nil {
		return model.Project{}, err
	}
	return st.Project(ctx, id)
}

// UpdateProject applies a partial update to a project.
func (s *Service) UpdateProject(ctx context.Context, id string, patch model.ProjectPatch) (model.Project, error) {
	st, err := s.running()
	if err != nil {
		return model.Project{}, err
	}
	return st.UpdateProject(ctx, id, patch)
}

// UpdateProjectStage sets the completion of one stage of a project.
func (s *Service) UpdateProjectStage(ctx context.Context, id string, stage model.Status, complete int) (model.Project, error) {
	st, err := s.running()
	if err != nil {
		return model.Project{}, err
	}
	return st.UpdateProjectStage(ctx, id, stage, complete)
}

// Feedback returns the most recent reviews, newest first. A limit of zero
// or less returns all of them.
func (s *Service) Feedback(ctx context.Context, limit int) ([]model.FeedbackEntry, error) {
	st, err := s.running()
	if err != nil {
		return nil, err
	}
	entries := st.Feedback(ctx)
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	return entries, nil
}

// AddFeedback records a review. A blank author name defaults to the current
// user.
func (s *Service) AddFeedback(ctx context.Context, in model.FeedbackInput) (model.FeedbackEntry, error) {
	st, err := s.running()
	if err != nil {
		return model.FeedbackEntry{}, err
	}
	if strings.TrimSpace(in.Name) == "" {
		in.Name = st.User(ctx).Name
	}
	return st.AddFeedback(ctx, in)
}

// FeedbackStats returns the running review aggregate.
func (s *Service) FeedbackStats(ctx context.Context) (model.FeedbackStats, error) {
	st, err := s.running()
	if err != nil {
		return model.FeedbackStats{}, err
	}
	return st.FeedbackStats(ctx), nil
}

// User returns the current profile.
func (s *Service) User(ctx context.Context) (model.UserProfile, error) {
	st, err := s.running()
	if err != nil {
		return model.UserProfile{}, err
	}
	return st.User(ctx), nil
}

// UpdateUser merges patch into the profile.
func (s *Service) UpdateUser(ctx context.Context, patch model.UserPatch) (model.UserProfile, error) {
	st, err := s.running()
	if err != nil {
		return model.UserProfile{}, err
	}
	return st.UpdateUser(ctx, patch)
}

// Report builds the analytics payload in lang, or in the session language
// when lang is empty.
func (s *Service) Report(ctx context.Context, lang string) (types.Report, error) {
	st, err := s.running()
	if err != nil {
		return types.Report{}, err
	}
	snap := st.Snapshot(ctx)
	if lang == "" {
		lang = snap.Language
	}

	s.mu.RLock()
	in := analytics.ReportInput{
		Language:      lang,
		Projects:      snap.Projects,
		Countries:     s.countries,
		CountryStats:  s.countryStats,
		Monthly:       s.monthly,
		FeedbackStats: snap.FeedbackStats,
	}
	s.mu.RUnlock()

	return analytics.BuildReport(in), nil
}

// Statuses returns the labelled status breakdown of the current projects.
func (s *Service) Statuses(ctx context.Context, lang string) ([]types.StatusCount, error) {
	st, err := s.running()
	if err != nil {
		return nil, err
	}
	if lang == "" {
		lang = st.Language(ctx)
	}
	return analytics.StatusBreakdown(lang, st.Projects(ctx)), nil
}

// Countries returns the markets in display order.
func (s *Service) Countries(_ context.Context) []model.Country {
	return seed.Countries()
}

// Activities returns the recent-activity feed.
func (s *Service) Activities(_ context.Context) []model.Activity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Activity, len(s.activities))
	copy(out, s.activities)
	return out
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started": s.started,
		"backend": s.cfg.StorageBackend,
	}

	if s.started {
		fs := s.store.FeedbackStats(ctx)
		stats["projects"] = s.store.ProjectCount(ctx)
		stats["feedback"] = len(s.store.Feedback(ctx))
		stats["totalReviews"] = fs.TotalReviews
		stats["averageRating"] = fs.AverageRating
		stats["pendingWrites"] = s.mirror.Pending()
		stats["uptimeSeconds"] = int64(s.now().Sub(s.startedAt).Seconds())

		loaded := make(map[string]string, len(s.outcomes))
		for k, v := range s.outcomes {
			loaded[string(k)] = v
		}
		stats["loadOutcomes"] = loaded

		metrics.UpdateMirrorPending(s.mirror.Pending())
	}

	return stats
}
