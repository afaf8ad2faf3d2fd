package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/elevatos/internal/adapters/http/api"
	service "github.com/okian/elevatos/internal/app"
	"github.com/okian/elevatos/internal/domain/model"
	"github.com/okian/elevatos/internal/domain/types"
	"github.com/okian/elevatos/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// newMux starts a memory-backed service and registers every route over it.
func newMux(t *testing.T) (*http.ServeMux, *service.Service) {
	t.Helper()
	svc := service.New(service.WithClock(func() time.Time {
		return time.Date(2024, time.April, 3, 12, 0, 0, 0, time.UTC)
	}))
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start service: %v", err)
	}
	t.Cleanup(func() { _ = svc.Stop(context.Background()) })

	mux := http.NewServeMux()
	api.NewServer(svc, svc, api.WithMaxFeedbackLimit(10)).Register(context.Background(), mux)
	return mux, svc
}

func do(mux http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decode[T any](w *httptest.ResponseRecorder) T {
	var v T
	_ = json.Unmarshal(w.Body.Bytes(), &v)
	return v
}

type errorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"requestId"`
}

func TestServer_Health(t *testing.T) {
	Convey("Given a registered server", t, func() {
		mux, _ := newMux(t)

		Convey("When /healthz is requested", func() {
			w := do(mux, http.MethodGet, "/healthz", "")

			Convey("Then it reports ok with a request id", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decode[map[string]string](w)["status"], ShouldEqual, "ok")
				So(w.Header().Get(api.RequestIDHeader), ShouldNotBeEmpty)
			})
		})

		Convey("When /metrics is scraped after a request", func() {
			do(mux, http.MethodGet, "/healthz", "")
			w := do(mux, http.MethodGet, "/metrics", "")

			Convey("Then the service registry is exposed", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "elevatos_dashboard_http_requests_total")
				So(w.Body.String(), ShouldContainSubstring, "elevatos_dashboard_projects")
			})
		})

		Convey("When /stats is requested", func() {
			w := do(mux, http.MethodGet, "/stats", "")

			Convey("Then service stats are returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				stats := decode[map[string]any](w)
				So(stats["started"], ShouldEqual, true)
				So(stats["projects"], ShouldEqual, 144.0)
			})
		})

		Convey("When an incoming request id is sent", func() {
			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			req.Header.Set(api.RequestIDHeader, "abc-123")
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it is echoed", func() {
				So(w.Header().Get(api.RequestIDHeader), ShouldEqual, "abc-123")
			})
		})

		Convey("When a route is called with the wrong method", func() {
			w := do(mux, http.MethodDelete, "/healthz", "")

			Convey("Then it is not allowed", func() {
				So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
			})
		})
	})
}

func TestServer_Session(t *testing.T) {
	Convey("Given a registered server", t, func() {
		mux, _ := newMux(t)

		Convey("When the session is read", func() {
			sess := decode[types.Session](do(mux, http.MethodGet, "/session", ""))

			Convey("Then the defaults are returned", func() {
				So(sess.Authenticated, ShouldBeFalse)
				So(sess.Language, ShouldEqual, "pt")
				So(sess.Theme, ShouldEqual, model.ThemeLight)
			})
		})

		Convey("When the user logs in, toggles the theme and picks a language", func() {
			So(do(mux, http.MethodPost, "/session/login", "").Code, ShouldEqual, http.StatusOK)
			So(do(mux, http.MethodPost, "/preferences/theme/toggle", "").Code, ShouldEqual, http.StatusOK)
			w := do(mux, http.MethodPut, "/preferences/language", `{"language":"es-MX"}`)

			Convey("Then the session reflects all three", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				sess := decode[types.Session](w)
				So(sess.Authenticated, ShouldBeTrue)
				So(sess.Theme, ShouldEqual, model.ThemeDark)
				So(sess.Language, ShouldEqual, "es")
			})

			Convey("And logout clears the flag", func() {
				sess := decode[types.Session](do(mux, http.MethodPost, "/session/logout", ""))
				So(sess.Authenticated, ShouldBeFalse)
			})
		})

		Convey("When an unsupported language is sent", func() {
			w := do(mux, http.MethodPut, "/preferences/language", `{"language":"fr"}`)

			Convey("Then it is rejected", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				body := decode[errorBody](w)
				So(body.Code, ShouldEqual, "bad_request")
				So(body.RequestID, ShouldEqual, w.Header().Get(api.RequestIDHeader))
			})
		})

		Convey("When the body has unknown fields", func() {
			w := do(mux, http.MethodPut, "/preferences/language", `{"language":"en","lang":"en"}`)

			Convey("Then it is rejected", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestServer_Projects(t *testing.T) {
	Convey("Given a registered server", t, func() {
		mux, _ := newMux(t)

		Convey("When projects are listed", func() {
			all := decode[[]model.Project](do(mux, http.MethodGet, "/projects", ""))
			cl := decode[[]model.Project](do(mux, http.MethodGet, "/projects?status=all&country=CL", ""))

			Convey("Then filters apply", func() {
				So(len(all), ShouldEqual, 144)
				So(len(cl), ShouldEqual, 28)
			})
		})

		Convey("When an unknown filter value is used", func() {
			Convey("Then the request is rejected", func() {
				So(do(mux, http.MethodGet, "/projects?status=done", "").Code, ShouldEqual, http.StatusBadRequest)
				So(do(mux, http.MethodGet, "/projects?country=PE", "").Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When a project is fetched", func() {
			w := do(mux, http.MethodGet, "/projects/PROJ-0010", "")
			missing := do(mux, http.MethodGet, "/projects/PROJ-9999", "")

			Convey("Then known ids resolve and unknown ones 404", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decode[model.Project](w).ID, ShouldEqual, "PROJ-0010")
				So(missing.Code, ShouldEqual, http.StatusNotFound)
				So(decode[errorBody](missing).Code, ShouldEqual, "not_found")
			})
		})

		Convey("When a stage is updated", func() {
			w := do(mux, http.MethodPut, "/projects/PROJ-0001/stages/fabricacao", `{"complete":55}`)

			Convey("Then the stage changes", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				p := decode[model.Project](w)
				So(p.Stages[model.StatusManufacturing].Complete, ShouldEqual, 55)
			})
		})

		Convey("When a stage update is invalid", func() {
			Convey("Then it is rejected", func() {
				So(do(mux, http.MethodPut, "/projects/PROJ-0001/stages/venda", `{"complete":140}`).Code, ShouldEqual, http.StatusBadRequest)
				So(do(mux, http.MethodPut, "/projects/PROJ-0001/stages/venda", `{}`).Code, ShouldEqual, http.StatusBadRequest)
				So(do(mux, http.MethodPut, "/projects/PROJ-0001/stages/venda", ``).Code, ShouldEqual, http.StatusBadRequest)
				So(do(mux, http.MethodPut, "/projects/NOPE/stages/venda", `{"complete":1}`).Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When a project is patched", func() {
			w := do(mux, http.MethodPatch, "/projects/PROJ-0003", `{"manager":"Ana Costa","progress":80}`)

			Convey("Then only the given fields change", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				p := decode[model.Project](w)
				So(p.Manager, ShouldEqual, "Ana Costa")
				So(p.Progress, ShouldEqual, 80)
				So(p.ID, ShouldEqual, "PROJ-0003")
			})
		})
	})
}

func TestServer_Feedback(t *testing.T) {
	Convey("Given a registered server", t, func() {
		mux, _ := newMux(t)

		Convey("When feedback is submitted", func() {
			w := do(mux, http.MethodPost, "/feedback", `{"projectId":"PROJ-0002","rating":5,"comment":"Excelente"}`)

			Convey("Then it is created and listed first", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)
				entry := decode[model.FeedbackEntry](w)
				So(entry.ID, ShouldEqual, 7)
				So(entry.Name, ShouldEqual, "Roberto Silva")
				So(entry.Date, ShouldEqual, "2024-04-03")

				list := decode[[]model.FeedbackEntry](do(mux, http.MethodGet, "/feedback?limit=3", ""))
				So(len(list), ShouldEqual, 3)
				So(list[0].ID, ShouldEqual, 7)

				stats := decode[model.FeedbackStats](do(mux, http.MethodGet, "/feedback/stats", ""))
				So(stats.TotalReviews, ShouldEqual, 235)
				So(stats.AverageRating, ShouldEqual, 4.8)
			})
		})

		Convey("When the rating is out of range", func() {
			w := do(mux, http.MethodPost, "/feedback", `{"projectId":"PROJ-0002","rating":9}`)

			Convey("Then it is rejected", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the limit is invalid", func() {
			Convey("Then it is rejected", func() {
				So(do(mux, http.MethodGet, "/feedback?limit=0", "").Code, ShouldEqual, http.StatusBadRequest)
				So(do(mux, http.MethodGet, "/feedback?limit=abc", "").Code, ShouldEqual, http.StatusBadRequest)
				w := do(mux, http.MethodGet, "/feedback?limit=11", "")
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decode[errorBody](w).Code, ShouldEqual, "limit_exceeded")
			})
		})

		Convey("When no limit is given", func() {
			list := decode[[]model.FeedbackEntry](do(mux, http.MethodGet, "/feedback", ""))

			Convey("Then all entries are returned", func() {
				So(len(list), ShouldEqual, 6)
			})
		})
	})
}

func TestServer_UserAndViews(t *testing.T) {
	Convey("Given a registered server", t, func() {
		mux, _ := newMux(t)

		Convey("When the user is patched", func() {
			w := do(mux, http.MethodPatch, "/user", `{"email":"r.silva@elevatos.com"}`)

			Convey("Then the profile changes", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				u := decode[model.UserProfile](do(mux, http.MethodGet, "/user", ""))
				So(u.Email, ShouldEqual, "r.silva@elevatos.com")
				So(u.Name, ShouldEqual, "Roberto Silva")
			})
		})

		Convey("When a report is requested in Spanish", func() {
			w := do(mux, http.MethodGet, "/reports?lang=es", "")

			Convey("Then it is localized", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				r := decode[types.Report](w)
				So(r.Language, ShouldEqual, "es")
				So(r.KPIs[0].Title, ShouldEqual, "Total de Proyectos")
				So(r.TotalProjects, ShouldEqual, 144)
			})
		})

		Convey("When an unsupported language is requested", func() {
			Convey("Then it is rejected", func() {
				So(do(mux, http.MethodGet, "/reports?lang=de", "").Code, ShouldEqual, http.StatusBadRequest)
				So(do(mux, http.MethodGet, "/statuses?lang=de", "").Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the lookup lists are requested", func() {
			statuses := decode[[]types.StatusCount](do(mux, http.MethodGet, "/statuses?lang=en", ""))
			countries := decode[[]model.Country](do(mux, http.MethodGet, "/countries", ""))
			activities := decode[[]model.Activity](do(mux, http.MethodGet, "/activities", ""))

			Convey("Then they are populated", func() {
				So(len(statuses), ShouldEqual, 4)
				So(statuses[0].Label, ShouldEqual, "Sales")
				So(len(countries), ShouldEqual, 5)
				So(countries[0].Code, ShouldEqual, "BR")
				So(len(activities), ShouldEqual, 5)
			})
		})
	})
}

// failingDeps fails every call it overrides; the rest are never reached.
type failingDeps struct {
	api.Dependencies
}

func (failingDeps) User(context.Context) (model.UserProfile, error) {
	return model.UserProfile{}, errors.New("backend down")
}

type staticStats map[string]interface{}

func (s staticStats) GetStats() map[string]interface{} { return s }

func TestServer_Errors(t *testing.T) {
	Convey("Given a server over a failing dependency", t, func() {
		mux := http.NewServeMux()
		api.NewServer(failingDeps{}, staticStats{"started": false}).Register(context.Background(), mux)

		Convey("When the failing route is hit", func() {
			w := do(mux, http.MethodGet, "/user", "")

			Convey("Then a 500 is returned", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(decode[errorBody](w).Code, ShouldEqual, "internal_error")
			})
		})
	})

	Convey("Given a server over a stopped service", t, func() {
		svc := service.New()
		mux := http.NewServeMux()
		api.NewServer(svc, svc).Register(context.Background(), mux)

		Convey("When any store route is hit", func() {
			w := do(mux, http.MethodGet, "/session", "")

			Convey("Then the service is reported unavailable", func() {
				So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
				So(decode[errorBody](w).Code, ShouldEqual, "unavailable")
			})
		})
	})
}

func TestError(t *testing.T) {
	Convey("Given API errors", t, func() {
		cause := errors.New("boom")

		Convey("Then kinds and causes are both reachable", func() {
			err := api.WrapKind("api.op", api.ErrBadRequest, cause)
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.op: bad request: boom")
			So(api.NewKind("api.op", api.ErrUnsupported).Error(), ShouldEqual, "api.op: unsupported value")
			So(api.Wrap("api.op", cause).Error(), ShouldEqual, "api.op: boom")
		})
	})
}
