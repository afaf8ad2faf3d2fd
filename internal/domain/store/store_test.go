package store_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/okian/elevatos/internal/domain/model"
	"github.com/okian/elevatos/internal/domain/seed"
	"github.com/okian/elevatos/internal/domain/store"
	"github.com/okian/elevatos/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

var fixedNow = time.Date(2024, time.April, 2, 15, 4, 5, 0, time.UTC)

func seedState() store.State {
	projects := seed.New().Projects()
	return store.State{
		Language:      "pt",
		Theme:         model.ThemeLight,
		Projects:      projects,
		Feedback:      seed.Feedback(projects),
		FeedbackStats: seed.FeedbackStats(),
		User:          seed.User(),
	}
}

func startedStore(t *testing.T) *store.Store {
	t.Helper()
	if err := logger.Init(logger.WithWriter(io.Discard)); err != nil {
		t.Fatalf("logger init: %v", err)
	}
	s := store.New(store.WithClock(func() time.Time { return fixedNow }))
	if err := s.Start(context.Background(), seedState()); err != nil {
		t.Fatalf("start: %v", err)
	}
	return s
}

type recorder struct {
	mu      sync.Mutex
	changes []store.Change
}

func (r *recorder) Observe(_ context.Context, c store.Change) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, c)
}

func (r *recorder) keys() []store.Key {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]store.Key, 0, len(r.changes))
	for _, c := range r.changes {
		out = append(out, c.Key)
	}
	return out
}

func TestStore_Lifecycle(t *testing.T) {
	Convey("Given a store that was never started", t, func() {
		So(logger.Init(logger.WithWriter(io.Discard)), ShouldBeNil)
		s := store.New()
		ctx := context.Background()

		Convey("Then mutations fail with ErrNotStarted", func() {
			_, err := s.ToggleTheme(ctx)
			So(errors.Is(err, store.ErrNotStarted), ShouldBeTrue)
			So(errors.Is(s.Login(ctx), store.ErrNotStarted), ShouldBeTrue)
		})

		Convey("When started with duplicate project ids", func() {
			st := seedState()
			st.Projects = append(st.Projects, st.Projects[0])
			err := s.Start(ctx, st)

			Convey("Then Start is rejected", func() {
				So(errors.Is(err, store.ErrValidation), ShouldBeTrue)
			})
		})

		Convey("When started with an unknown language and theme", func() {
			st := seedState()
			st.Language = "de"
			st.Theme = "sepia"
			So(s.Start(ctx, st), ShouldBeNil)

			Convey("Then the defaults are used", func() {
				So(s.Language(ctx), ShouldEqual, "pt")
				So(s.Theme(ctx), ShouldEqual, model.ThemeLight)
			})
		})

		Convey("When stopped after start", func() {
			So(s.Start(ctx, seedState()), ShouldBeNil)
			rec := &recorder{}
			s.Subscribe(rec)
			s.Stop(ctx)

			Convey("Then reads still work but mutations fail", func() {
				So(s.ProjectCount(ctx), ShouldEqual, 144)
				_, err := s.ChangeLanguage(ctx, "en")
				So(errors.Is(err, store.ErrNotStarted), ShouldBeTrue)
				So(rec.keys(), ShouldBeEmpty)
			})
		})
	})
}

func TestStore_UpdateProjectStage(t *testing.T) {
	Convey("Given a started store", t, func() {
		s := startedStore(t)
		ctx := context.Background()
		rec := &recorder{}
		s.Subscribe(rec)
		before := s.Snapshot(ctx)

		Convey("When a stage of PROJ-0001 is updated", func() {
			orig, err := s.Project(ctx, "PROJ-0001")
			So(err, ShouldBeNil)

			p, err := s.UpdateProjectStage(ctx, "PROJ-0001", model.StatusInstallation, 50)
			So(err, ShouldBeNil)

			Convey("Then only that stage's completion changes", func() {
				So(p.Stages[model.StatusInstallation].Complete, ShouldEqual, 50)
				So(p.Stages[model.StatusInstallation].Notes, ShouldEqual, orig.Stages[model.StatusInstallation].Notes)
				So(p.Status, ShouldEqual, orig.Status)
				So(p.Progress, ShouldEqual, orig.Progress)

				expected := orig.Clone()
				st := expected.Stages[model.StatusInstallation]
				st.Complete = 50
				expected.Stages[model.StatusInstallation] = st
				So(p, ShouldResemble, expected)
			})

			Convey("Then every other project is untouched", func() {
				after := s.Projects(ctx)
				So(after[1:], ShouldResemble, before.Projects[1:])
			})

			Convey("Then a single projects change is published", func() {
				So(rec.keys(), ShouldResemble, []store.Key{store.KeyProjects})
				projects, ok := rec.changes[0].Value.([]model.Project)
				So(ok, ShouldBeTrue)
				So(projects[0].Stages[model.StatusInstallation].Complete, ShouldEqual, 50)
			})
		})

		Convey("When the project does not exist", func() {
			_, err := s.UpdateProjectStage(ctx, "PROJ-9999", model.StatusSales, 10)

			Convey("Then ErrNotFound is returned and nothing changes", func() {
				So(errors.Is(err, store.ErrNotFound), ShouldBeTrue)
				So(s.Snapshot(ctx), ShouldResemble, before)
				So(rec.keys(), ShouldBeEmpty)
			})
		})

		Convey("When the stage key is unknown", func() {
			p, err := s.UpdateProjectStage(ctx, "PROJ-0001", "entrega", 10)

			Convey("Then it is a silent no-op", func() {
				So(err, ShouldBeNil)
				So(p, ShouldResemble, before.Projects[0])
				So(rec.keys(), ShouldBeEmpty)
			})
		})

		Convey("When completion is out of range", func() {
			_, err := s.UpdateProjectStage(ctx, "PROJ-0001", model.StatusSales, 101)

			Convey("Then the update is rejected", func() {
				So(errors.Is(err, store.ErrValidation), ShouldBeTrue)
				So(s.Snapshot(ctx), ShouldResemble, before)
			})
		})
	})
}

func TestStore_UpdateProject(t *testing.T) {
	Convey("Given a started store", t, func() {
		s := startedStore(t)
		ctx := context.Background()
		rec := &recorder{}
		s.Subscribe(rec)
		before := s.Snapshot(ctx)

		Convey("When a partial patch is applied", func() {
			status := model.StatusAfterSales
			progress := 100
			p, err := s.UpdateProject(ctx, "PROJ-0002", model.ProjectPatch{Status: &status, Progress: &progress})
			So(err, ShouldBeNil)

			Convey("Then only the patched fields change", func() {
				expected := before.Projects[1].Clone()
				expected.Status = status
				expected.Progress = progress
				So(p, ShouldResemble, expected)
				So(rec.keys(), ShouldResemble, []store.Key{store.KeyProjects})
			})
		})

		Convey("When stage notes are patched", func() {
			p, err := s.UpdateProject(ctx, "PROJ-0003", model.ProjectPatch{
				Notes: &model.StageNotes{Stage: model.StatusSales, Notes: "Contrato revisado"},
			})
			So(err, ShouldBeNil)

			Convey("Then the completion of that stage is kept", func() {
				So(p.Stages[model.StatusSales].Notes, ShouldEqual, "Contrato revisado")
				So(p.Stages[model.StatusSales].Complete, ShouldEqual, before.Projects[2].Stages[model.StatusSales].Complete)
			})
		})

		Convey("When the patch is invalid", func() {
			progress := 120
			bad := "31/12/2025"
			blank := "  "

			for _, patch := range []model.ProjectPatch{
				{Progress: &progress},
				{EndDate: &bad},
				{Name: &blank},
			} {
				_, err := s.UpdateProject(ctx, "PROJ-0001", patch)
				So(errors.Is(err, store.ErrValidation), ShouldBeTrue)
			}

			Convey("Then the state is unchanged", func() {
				So(s.Snapshot(ctx), ShouldResemble, before)
				So(rec.keys(), ShouldBeEmpty)
			})
		})

		Convey("When the patch is empty", func() {
			p, err := s.UpdateProject(ctx, "PROJ-0001", model.ProjectPatch{})

			Convey("Then the project is returned and nothing is published", func() {
				So(err, ShouldBeNil)
				So(p, ShouldResemble, before.Projects[0])
				So(rec.keys(), ShouldBeEmpty)
			})
		})

		Convey("When the id is unknown", func() {
			name := "x"
			_, err := s.UpdateProject(ctx, "nope", model.ProjectPatch{Name: &name})

			Convey("Then ErrNotFound is returned", func() {
				So(errors.Is(err, store.ErrNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestStore_AddFeedback(t *testing.T) {
	Convey("Given the seeded store with 234 reviews averaging 4.8", t, func() {
		s := startedStore(t)
		ctx := context.Background()
		rec := &recorder{}
		s.Subscribe(rec)
		before := s.Snapshot(ctx)

		Convey("When a 5 star review is added", func() {
			e, err := s.AddFeedback(ctx, model.FeedbackInput{
				ProjectID: "PROJ-0001",
				Name:      "Cliente Teste",
				Rating:    5,
				Comment:   "Ótimo",
			})
			So(err, ShouldBeNil)

			Convey("Then the entry gets the next id and today's date", func() {
				So(e.ID, ShouldEqual, 7)
				So(e.Date, ShouldEqual, "2024-04-02")
				So(e.ProjectName, ShouldEqual, before.Projects[0].Name)
			})

			Convey("Then it is first in the list followed by the previous entries", func() {
				fb := s.Feedback(ctx)
				So(len(fb), ShouldEqual, len(before.Feedback)+1)
				So(fb[0], ShouldResemble, e)
				So(fb[1:], ShouldResemble, before.Feedback)
			})

			Convey("Then the aggregate is 235 reviews averaging 4.8", func() {
				So(s.FeedbackStats(ctx), ShouldResemble, model.FeedbackStats{TotalReviews: 235, AverageRating: 4.8})
			})

			Convey("Then feedback and stats changes are published in order", func() {
				So(rec.keys(), ShouldResemble, []store.Key{store.KeyFeedback, store.KeyFeedbackStats})
			})
		})

		Convey("When reviews are added to an empty history", func() {
			st := seedState()
			st.Feedback = nil
			st.FeedbackStats = model.FeedbackStats{}
			fresh := store.New(store.WithClock(func() time.Time { return fixedNow }))
			So(fresh.Start(ctx, st), ShouldBeNil)

			_, err := fresh.AddFeedback(ctx, model.FeedbackInput{ProjectID: "PROJ-0002", Name: "A", Rating: 4})
			So(err, ShouldBeNil)
			e, err := fresh.AddFeedback(ctx, model.FeedbackInput{ProjectID: "PROJ-0002", Name: "B", Rating: 5})
			So(err, ShouldBeNil)

			Convey("Then ids start at 1 and the average is exact", func() {
				So(e.ID, ShouldEqual, 2)
				So(fresh.FeedbackStats(ctx), ShouldResemble, model.FeedbackStats{TotalReviews: 2, AverageRating: 4.5})
			})
		})

		Convey("When the input is invalid", func() {
			cases := []model.FeedbackInput{
				{ProjectID: "PROJ-0001", Name: "A", Rating: 0},
				{ProjectID: "PROJ-0001", Name: "A", Rating: 6},
				{ProjectID: "PROJ-9999", Name: "A", Rating: 3},
				{ProjectID: "PROJ-0001", Name: " ", Rating: 3},
				{Name: "A", Rating: 3},
			}
			for _, in := range cases {
				_, err := s.AddFeedback(ctx, in)
				So(errors.Is(err, store.ErrValidation), ShouldBeTrue)
			}

			Convey("Then neither the list nor the aggregate move", func() {
				So(s.Snapshot(ctx), ShouldResemble, before)
				So(rec.keys(), ShouldBeEmpty)
			})
		})
	})
}

func TestStore_SessionPreferences(t *testing.T) {
	Convey("Given a started store", t, func() {
		s := startedStore(t)
		ctx := context.Background()
		rec := &recorder{}
		unsubscribe := s.Subscribe(rec)

		Convey("When logging in twice and out once", func() {
			So(s.Login(ctx), ShouldBeNil)
			So(s.Login(ctx), ShouldBeNil)
			So(s.Authenticated(ctx), ShouldBeTrue)
			So(s.Logout(ctx), ShouldBeNil)

			Convey("Then only real transitions are published", func() {
				So(rec.keys(), ShouldResemble, []store.Key{store.KeyAuthenticated, store.KeyAuthenticated})
				So(s.Authenticated(ctx), ShouldBeFalse)
			})
		})

		Convey("When the theme is toggled twice", func() {
			first, err := s.ToggleTheme(ctx)
			So(err, ShouldBeNil)
			second, err := s.ToggleTheme(ctx)
			So(err, ShouldBeNil)

			Convey("Then it goes dark and back", func() {
				So(first, ShouldEqual, model.ThemeDark)
				So(second, ShouldEqual, model.ThemeLight)
				So(len(rec.keys()), ShouldEqual, 2)
			})
		})

		Convey("When the language changes", func() {
			lang, err := s.ChangeLanguage(ctx, "es-AR")
			So(err, ShouldBeNil)

			Convey("Then the tag is reduced to the base language", func() {
				So(lang, ShouldEqual, "es")
				So(s.Language(ctx), ShouldEqual, "es")
				So(rec.keys(), ShouldResemble, []store.Key{store.KeyLanguage})
			})

			Convey("Then an unsupported language is rejected", func() {
				_, err := s.ChangeLanguage(ctx, "fr")
				So(errors.Is(err, store.ErrValidation), ShouldBeTrue)
				So(s.Language(ctx), ShouldEqual, "es")
			})
		})

		Convey("When the user is patched", func() {
			role := "Diretor"
			u, err := s.UpdateUser(ctx, model.UserPatch{Role: &role})
			So(err, ShouldBeNil)

			Convey("Then the profile changes and a user change is published", func() {
				So(u.Role, ShouldEqual, "Diretor")
				So(u.Name, ShouldEqual, "Roberto Silva")
				So(rec.keys(), ShouldResemble, []store.Key{store.KeyUser})
				So(store.KeyUser.Mirrored(), ShouldBeFalse)
			})
		})

		Convey("When the observer unsubscribes", func() {
			unsubscribe()
			_, err := s.ToggleTheme(ctx)
			So(err, ShouldBeNil)

			Convey("Then it receives nothing", func() {
				So(rec.keys(), ShouldBeEmpty)
			})
		})
	})
}

func TestStore_SnapshotIsolation(t *testing.T) {
	Convey("Given a snapshot taken from the store", t, func() {
		s := startedStore(t)
		ctx := context.Background()
		snap := s.Snapshot(ctx)

		Convey("When the snapshot is mutated", func() {
			snap.Projects[0].Stages[model.StatusSales] = model.Stage{Complete: -1}
			snap.Feedback[0].Rating = 1

			Convey("Then the store is unaffected", func() {
				p, err := s.Project(ctx, snap.Projects[0].ID)
				So(err, ShouldBeNil)
				So(p.Stages[model.StatusSales].Complete, ShouldNotEqual, -1)
				So(s.Feedback(ctx)[0].Rating, ShouldNotEqual, 1)
			})
		})
	})
}

func TestStore_ConcurrentFeedback(t *testing.T) {
	Convey("Given many concurrent reviews", t, func() {
		s := startedStore(t)
		ctx := context.Background()
		const n = 50

		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = s.AddFeedback(ctx, model.FeedbackInput{ProjectID: "PROJ-0001", Name: "c", Rating: 5})
			}()
		}
		wg.Wait()

		Convey("Then every review is counted once with a unique id", func() {
			So(s.FeedbackStats(ctx).TotalReviews, ShouldEqual, 234+n)
			seen := map[int]bool{}
			for _, f := range s.Feedback(ctx) {
				So(seen[f.ID], ShouldBeFalse)
				seen[f.ID] = true
			}
			So(len(seen), ShouldEqual, 6+n)
		})
	})
}
