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

	"github.com/okian/aporte/internal/adapters/http/api"
	"github.com/okian/aporte/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing
type mockDependencies struct {
	awarded      int
	total        int
	recordErr    error
	standings    []model.Row
	standingsErr error
	history      []model.ArchivedPeriod
	historyErr   error
	recorded     []model.Contribution
}

func (m *mockDependencies) RecordContribution(ctx context.Context, c model.Contribution) (int, int, error) {
	if m.recordErr != nil {
		return 0, 0, m.recordErr
	}
	m.recorded = append(m.recorded, c)
	return m.awarded, m.total, nil
}

func (m *mockDependencies) CurrentStandings(ctx context.Context) ([]model.Row, error) {
	if m.standingsErr != nil {
		return nil, m.standingsErr
	}
	return m.standings, nil
}

func (m *mockDependencies) History(ctx context.Context, limit int) ([]model.ArchivedPeriod, error) {
	if m.historyErr != nil {
		return nil, m.historyErr
	}
	if limit < len(m.history) {
		return m.history[:limit], nil
	}
	return m.history, nil
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) Stats() map[string]interface{} {
	return m.stats
}

func newTestMux(deps *mockDependencies) *http.ServeMux {
	server := api.NewServer(deps, &mockStatsProvider{stats: map[string]interface{}{"participants": 0}}, 100)
	mux := http.NewServeMux()
	server.Register(context.Background(), mux)
	return mux
}

func TestServer_Register(t *testing.T) {
	Convey("Given a new API server", t, func() {
		deps := &mockDependencies{awarded: 1, total: 1}
		mux := newTestMux(deps)

		Convey("Then the health endpoint should be accessible", func() {
			req := httptest.NewRequest("GET", "/healthz", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("And the stats endpoint should return JSON", func() {
			req := httptest.NewRequest("GET", "/stats", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldContainSubstring, "application/json")
		})
	})
}

func TestContributionsEndpoint(t *testing.T) {
	Convey("Given a contributions endpoint", t, func() {
		deps := &mockDependencies{awarded: 2, total: 5}
		mux := newTestMux(deps)

		Convey("When posting a valid contribution", func() {
			body := `{"user_id": 42, "name": "Alice", "width": 1024, "height": 1024}`
			req := httptest.NewRequest("POST", "/contributions", strings.NewReader(body))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should acknowledge with the award and total", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var resp struct {
					ContributionID string `json:"contribution_id"`
					Awarded        int    `json:"awarded"`
					Total          int    `json:"total"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.ContributionID, ShouldNotBeEmpty)
				So(resp.Awarded, ShouldEqual, 2)
				So(resp.Total, ShouldEqual, 5)
			})

			Convey("And the contribution should reach the engine", func() {
				So(len(deps.recorded), ShouldEqual, 1)
				So(deps.recorded[0].UserID, ShouldEqual, model.UserID(42))
				So(deps.recorded[0].DisplayName, ShouldEqual, "Alice")
				So(deps.recorded[0].ID, ShouldNotBeEmpty)
			})
		})

		Convey("When posting malformed JSON", func() {
			req := httptest.NewRequest("POST", "/contributions", strings.NewReader("{not json"))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should reject with 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When posting without a user id", func() {
			body := `{"name": "Alice", "width": 100, "height": 100}`
			req := httptest.NewRequest("POST", "/contributions", strings.NewReader(body))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should reject with 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When posting with a blank name", func() {
			body := `{"user_id": 42, "name": "   ", "width": 100, "height": 100}`
			req := httptest.NewRequest("POST", "/contributions", strings.NewReader(body))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should reject with 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the engine fails", func() {
			deps.recordErr = errors.New("boom")
			body := `{"user_id": 42, "name": "Alice", "width": 100, "height": 100}`
			req := httptest.NewRequest("POST", "/contributions", strings.NewReader(body))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should respond with 500", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
			})
		})

		Convey("When using the wrong method", func() {
			req := httptest.NewRequest("GET", "/contributions", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should respond with 404", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestStandingsEndpoint(t *testing.T) {
	Convey("Given a standings endpoint", t, func() {
		deps := &mockDependencies{
			standings: []model.Row{
				{UserID: 1, DisplayName: "Alice", Points: 5},
				{UserID: 2, DisplayName: "Bob", Points: 3},
				{UserID: 3, DisplayName: "Carol", Points: 1},
			},
		}
		mux := newTestMux(deps)

		Convey("When requesting without a limit", func() {
			req := httptest.NewRequest("GET", "/standings", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then all rows should be returned in order", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var rows []model.Row
				So(json.Unmarshal(w.Body.Bytes(), &rows), ShouldBeNil)
				So(len(rows), ShouldEqual, 3)
				So(rows[0].DisplayName, ShouldEqual, "Alice")
				So(rows[2].DisplayName, ShouldEqual, "Carol")
			})
		})

		Convey("When requesting with a limit", func() {
			req := httptest.NewRequest("GET", "/standings?limit=2", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then only the top rows should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var rows []model.Row
				So(json.Unmarshal(w.Body.Bytes(), &rows), ShouldBeNil)
				So(len(rows), ShouldEqual, 2)
			})
		})

		Convey("When requesting with an invalid limit", func() {
			req := httptest.NewRequest("GET", "/standings?limit=abc", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When requesting with an excessive limit", func() {
			req := httptest.NewRequest("GET", "/standings?limit=5000", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the engine fails", func() {
			deps.standingsErr = errors.New("boom")
			req := httptest.NewRequest("GET", "/standings", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			So(w.Code, ShouldEqual, http.StatusInternalServerError)
		})
	})
}

func TestHistoryEndpoint(t *testing.T) {
	Convey("Given a history endpoint", t, func() {
		deps := &mockDependencies{
			history: []model.ArchivedPeriod{
				{
					Start:   time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
					End:     time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
					Ranking: []model.Row{{UserID: 1, DisplayName: "Alice", Points: 4}},
				},
				{
					Start:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
					End:     time.Date(2025, 1, 14, 0, 0, 0, 0, time.UTC),
					Ranking: []model.Row{{UserID: 2, DisplayName: "Bob", Points: 2}},
				},
			},
		}
		mux := newTestMux(deps)

		Convey("When requesting history", func() {
			req := httptest.NewRequest("GET", "/history", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then archived periods should use date formatted bounds", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var periods []struct {
					PeriodStart string      `json:"period_start"`
					PeriodEnd   string      `json:"period_end"`
					Ranking     []model.Row `json:"ranking"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &periods), ShouldBeNil)
				So(len(periods), ShouldEqual, 2)
				So(periods[0].PeriodStart, ShouldEqual, "2025-01-15")
				So(periods[0].PeriodEnd, ShouldEqual, "2025-01-31")
				So(periods[0].Ranking[0].DisplayName, ShouldEqual, "Alice")
			})
		})

		Convey("When requesting with a limit", func() {
			req := httptest.NewRequest("GET", "/history?limit=1", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then only that many periods should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var periods []json.RawMessage
				So(json.Unmarshal(w.Body.Bytes(), &periods), ShouldBeNil)
				So(len(periods), ShouldEqual, 1)
			})
		})

		Convey("When requesting with an invalid limit", func() {
			req := httptest.NewRequest("GET", "/history?limit=-1", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}
