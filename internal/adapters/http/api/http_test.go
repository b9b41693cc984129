package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/mergington/activities/internal/adapters/http/api"
	"github.com/mergington/activities/internal/adapters/repository"
	"github.com/mergington/activities/internal/domain/types"
	"github.com/mergington/activities/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	_ = logger.SetLevelString("error")
}

// mockRegistry is an in-test registry with the same error contract as the real store.
type mockRegistry struct {
	mu         sync.Mutex
	order      []string
	members    map[string][]string
	failAll    error
	lastEmail  string
	lastTarget string
}

func newMockRegistry() *mockRegistry {
	return &mockRegistry{
		order: []string{"Chess Club", "Programming Class"},
		members: map[string][]string{
			"Chess Club":        {"michael@mergington.edu"},
			"Programming Class": {},
		},
	}
}

func (m *mockRegistry) Activities(_ context.Context) (types.ActivityList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return nil, m.failAll
	}
	out := types.ActivityList{}
	for _, name := range m.order {
		out = append(out, types.NamedActivity{Name: name, ActivityView: types.ActivityView{
			Description:     name + " description",
			Schedule:        "Fridays",
			MaxParticipants: 10,
			Participants:    append([]string{}, m.members[name]...),
		}})
	}
	return out, nil
}

func (m *mockRegistry) Signup(_ context.Context, activity, email string) (types.MessageResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastTarget, m.lastEmail = activity, email
	if m.failAll != nil {
		return types.MessageResponse{}, m.failAll
	}
	members, ok := m.members[activity]
	if !ok {
		return types.MessageResponse{}, fmt.Errorf("%w: %s", repository.ErrActivityNotFound, activity)
	}
	for _, p := range members {
		if p == email {
			return types.MessageResponse{}, fmt.Errorf("%s is %w for %s", email, repository.ErrAlreadySignedUp, activity)
		}
	}
	m.members[activity] = append(members, email)
	return types.MessageResponse{Message: "Signed up " + email + " for " + activity}, nil
}

func (m *mockRegistry) Unregister(_ context.Context, activity, email string) (types.MessageResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastTarget, m.lastEmail = activity, email
	if m.failAll != nil {
		return types.MessageResponse{}, m.failAll
	}
	members, ok := m.members[activity]
	if !ok {
		return types.MessageResponse{}, fmt.Errorf("%w: %s", repository.ErrActivityNotFound, activity)
	}
	for i, p := range members {
		if p == email {
			m.members[activity] = append(members[:i], members[i+1:]...)
			return types.MessageResponse{Message: "Unregistered " + email + " from " + activity}, nil
		}
	}
	return types.MessageResponse{}, fmt.Errorf("%s is %w for %s", email, repository.ErrNotSignedUp, activity)
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func newTestMux(reg *mockRegistry) *http.ServeMux {
	server := api.NewServer(reg, &mockStatsProvider{stats: map[string]interface{}{"started": true, "activities": 2}}, nil)
	mux := http.NewServeMux()
	server.Register(context.Background(), mux)
	return mux
}

func do(mux http.Handler, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, http.NoBody)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func membershipURL(activity, action, email string) string {
	return "/activities/" + url.PathEscape(activity) + "/" + action + "?email=" + url.QueryEscape(email)
}

func decodeDetail(w *httptest.ResponseRecorder) string {
	var body types.ErrorDetail
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return body.Detail
}

func TestServer_Register(t *testing.T) {
	Convey("Given a new API server", t, func() {
		mux := newTestMux(newMockRegistry())

		Convey("Then health endpoint should serve metrics", func() {
			w := do(mux, "GET", "/healthz")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/plain")
		})

		Convey("Then stats endpoint should return provider stats", func() {
			w := do(mux, "GET", "/stats")
			So(w.Code, ShouldEqual, http.StatusOK)
			var stats map[string]any
			So(json.Unmarshal(w.Body.Bytes(), &stats), ShouldBeNil)
			So(stats["started"], ShouldEqual, true)
			So(stats["activities"], ShouldEqual, float64(2))
		})

		Convey("Then every response should carry a request id", func() {
			w := do(mux, "GET", "/activities")
			So(w.Header().Get(api.HeaderRequestID), ShouldNotBeEmpty)
		})

		Convey("Then an incoming request id should be echoed", func() {
			req := httptest.NewRequest("GET", "/activities", http.NoBody)
			req.Header.Set(api.HeaderRequestID, "req-123")
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Header().Get(api.HeaderRequestID), ShouldEqual, "req-123")
		})

		Convey("Then wrong methods should be rejected", func() {
			So(do(mux, "GET", "/activities/Chess%20Club/signup?email=a@b").Code, ShouldEqual, http.StatusMethodNotAllowed)
			So(do(mux, "POST", "/activities").Code, ShouldEqual, http.StatusMethodNotAllowed)
		})

		Convey("Then unknown routes should 404", func() {
			So(do(mux, "GET", "/unknown").Code, ShouldEqual, http.StatusNotFound)
		})
	})

	Convey("Given a nil mux", t, func() {
		server := api.NewServer(newMockRegistry(), &mockStatsProvider{}, nil)

		Convey("Then Register should panic", func() {
			So(func() { server.Register(context.Background(), nil) }, ShouldPanic)
		})
	})
}

func TestActivitiesHandler(t *testing.T) {
	Convey("Given the activities endpoint", t, func() {
		reg := newMockRegistry()
		mux := newTestMux(reg)

		Convey("When listing activities", func() {
			w := do(mux, "GET", "/activities")

			Convey("Then it should return an ordered JSON object", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldEqual, "application/json; charset=utf-8")

				var list types.ActivityList
				So(json.Unmarshal(w.Body.Bytes(), &list), ShouldBeNil)
				So(list.Names(), ShouldResemble, []string{"Chess Club", "Programming Class"})

				var raw map[string]map[string]any
				So(json.Unmarshal(w.Body.Bytes(), &raw), ShouldBeNil)
				for _, a := range raw {
					So(a, ShouldContainKey, "description")
					So(a, ShouldContainKey, "schedule")
					So(a, ShouldContainKey, "max_participants")
					So(a["participants"], ShouldHaveSameTypeAs, []any{})
				}
			})
		})

		Convey("When the registry fails", func() {
			reg.failAll = errors.New("boom")
			w := do(mux, "GET", "/activities")

			Convey("Then it should answer 500 without leaking the cause", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(decodeDetail(w), ShouldEqual, "Internal Server Error")
			})
		})
	})
}

func TestMembershipHandlers(t *testing.T) {
	Convey("Given the membership endpoints", t, func() {
		reg := newMockRegistry()
		mux := newTestMux(reg)

		Convey("When signing up a new student", func() {
			w := do(mux, "POST", membershipURL("Chess Club", "signup", "newstudent@mergington.edu"))

			Convey("Then it should return a message", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var body types.MessageResponse
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body.Message, ShouldEqual, "Signed up newstudent@mergington.edu for Chess Club")
			})

			Convey("And the path and query values should be decoded", func() {
				So(reg.lastTarget, ShouldEqual, "Chess Club")
				So(reg.lastEmail, ShouldEqual, "newstudent@mergington.edu")
			})

			Convey("And a duplicate signup should answer 400", func() {
				w := do(mux, "POST", membershipURL("Chess Club", "signup", "newstudent@mergington.edu"))
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeDetail(w), ShouldContainSubstring, "already signed up")
			})
		})

		Convey("When signing up for an unknown activity", func() {
			w := do(mux, "POST", membershipURL("NonExistentClub", "signup", "student@mergington.edu"))

			Convey("Then it should answer 404 Activity not found", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(decodeDetail(w), ShouldEqual, "Activity not found")
			})
		})

		Convey("When unregistering an enrolled student", func() {
			w := do(mux, "POST", membershipURL("Chess Club", "unregister", "michael@mergington.edu"))

			Convey("Then it should return a message", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "Unregistered michael@mergington.edu from Chess Club")
			})

			Convey("And a second unregister should answer 400", func() {
				w := do(mux, "POST", membershipURL("Chess Club", "unregister", "michael@mergington.edu"))
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeDetail(w), ShouldContainSubstring, "not signed up")
			})
		})

		Convey("When unregistering from an unknown activity", func() {
			w := do(mux, "POST", membershipURL("NonExistentClub", "unregister", "student@mergington.edu"))

			Convey("Then it should answer 404", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(strings.ToLower(decodeDetail(w)), ShouldContainSubstring, "not found")
			})
		})

		Convey("When the email parameter is missing", func() {
			signup := do(mux, "POST", "/activities/Chess%20Club/signup")
			unregister := do(mux, "POST", "/activities/Chess%20Club/unregister?email=")

			Convey("Then both should answer 422 without touching the registry", func() {
				So(signup.Code, ShouldEqual, http.StatusUnprocessableEntity)
				So(unregister.Code, ShouldEqual, http.StatusUnprocessableEntity)
				So(decodeDetail(signup), ShouldEqual, "missing email query parameter")
				So(reg.lastEmail, ShouldBeEmpty)
			})
		})

		Convey("When the email contains a plus sign", func() {
			w := do(mux, "POST", membershipURL("Programming Class", "signup", "ada+club@mergington.edu"))

			Convey("Then it should be passed through verbatim", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(reg.lastEmail, ShouldEqual, "ada+club@mergington.edu")
			})
		})
	})
}

func TestKindError(t *testing.T) {
	Convey("Given a wrapped kind error", t, func() {
		cause := errors.New("store offline")
		err := api.WrapKind("api.signup", api.ErrInternal, cause)

		Convey("Then it should match both the kind and the cause", func() {
			So(errors.Is(err, api.ErrInternal), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(errors.Is(err, api.ErrBadRequest), ShouldBeFalse)
			So(err.Error(), ShouldEqual, "api.signup: internal error: store offline")
		})
	})
}
