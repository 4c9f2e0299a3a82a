package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"hawaii-climate/internal/dates"
	"hawaii-climate/internal/modules/climate/types"
	"hawaii-climate/internal/modules/climate/views"
)

type mockRepo struct {
	precipitation    []types.PrecipitationReading
	precipitationErr error
	stations         []string
	stationsErr      error
	stationPrcp      []types.PrecipitationReading
	stationPrcpErr   error
	summaries        []types.TemperatureSummary
	summariesErr     error

	// recorded arguments
	gotStation string
	gotFrom    dates.Date
	gotTo      dates.Date
	gotStart   dates.Date
	gotEnd     dates.Date
	calls      int
}

func (m *mockRepo) GetPrecipitation(ctx context.Context) ([]types.PrecipitationReading, error) {
	m.calls++
	return m.precipitation, m.precipitationErr
}

func (m *mockRepo) GetStations(ctx context.Context) ([]string, error) {
	m.calls++
	return m.stations, m.stationsErr
}

func (m *mockRepo) GetStationPrecipitation(ctx context.Context, station string, from, to dates.Date) ([]types.PrecipitationReading, error) {
	m.calls++
	m.gotStation, m.gotFrom, m.gotTo = station, from, to
	return m.stationPrcp, m.stationPrcpErr
}

func (m *mockRepo) GetTemperatureSummary(ctx context.Context, start dates.Date) ([]types.TemperatureSummary, error) {
	m.calls++
	m.gotStart = start
	return m.summaries, m.summariesErr
}

func (m *mockRepo) GetTemperatureSummaryRange(ctx context.Context, start, end dates.Date) ([]types.TemperatureSummary, error) {
	m.calls++
	m.gotStart, m.gotEnd = start, end
	return m.summaries, m.summariesErr
}

var testOpts = Options{
	TobsStation:     "USC00519281",
	TobsWindowStart: dates.Date{Year: 2016, Month: time.August, Day: 23},
	TobsWindowEnd:   dates.Date{Year: 2017, Month: time.August, Day: 23},
}

func newTestMux(repo *mockRepo) *http.ServeMux {
	mux := http.NewServeMux()
	NewClimateController(repo, testOpts).RegisterRoutes(mux)
	return mux
}

func serve(t *testing.T, mux *http.ServeMux, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func ptr(f float64) *float64 { return &f }

func Test_handleHome(t *testing.T) {
	if err := views.LoadTemplates(); err != nil {
		t.Fatalf("LoadTemplates: %v", err)
	}
	rec := serve(t, newTestMux(&mockRepo{}), "/")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q; want text/html; charset=utf-8", ct)
	}
	body := rec.Body.String()
	for _, route := range []string{"/api/v1.0/precipitation", "/api/v1.0/stations", "/api/v1.0/tobs", "/api/v1.0/start_date/end_date"} {
		if !strings.Contains(body, route) {
			t.Errorf("home body missing %q", route)
		}
	}
}

func Test_handlePrecipitation(t *testing.T) {
	t.Run("one object per row", func(t *testing.T) {
		repo := &mockRepo{precipitation: []types.PrecipitationReading{
			{Date: "2017-08-23", Prcp: ptr(0)},
			{Date: "2017-08-23", Prcp: ptr(0.2)},
			{Date: "2017-08-22", Prcp: nil},
		}}
		rec := serve(t, newTestMux(repo), "/api/v1.0/precipitation")

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d; want %d", rec.Code, http.StatusOK)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
			t.Errorf("Content-Type = %q; want application/json", ct)
		}
		got := strings.TrimSpace(rec.Body.String())
		want := `[{"2017-08-23":0},{"2017-08-23":0.2},{"2017-08-22":null}]`
		if got != want {
			t.Errorf("body = %s; want %s", got, want)
		}
	})

	t.Run("empty is an empty array", func(t *testing.T) {
		rec := serve(t, newTestMux(&mockRepo{}), "/api/v1.0/precipitation")
		if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
			t.Errorf("body = %s; want []", got)
		}
	})

	t.Run("repository failure is 500", func(t *testing.T) {
		rec := serve(t, newTestMux(&mockRepo{precipitationErr: errors.New("db error")}), "/api/v1.0/precipitation")
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status = %d; want %d", rec.Code, http.StatusInternalServerError)
		}
		if !strings.Contains(rec.Body.String(), `"error"`) {
			t.Errorf("body = %q; expected error JSON", rec.Body.String())
		}
	})
}

func Test_handleStations(t *testing.T) {
	t.Run("returns identifiers", func(t *testing.T) {
		repo := &mockRepo{stations: []string{"USC00519397", "USC00513117"}}
		rec := serve(t, newTestMux(repo), "/api/v1.0/stations")

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d; want %d", rec.Code, http.StatusOK)
		}
		var got []string
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(got) != 2 || got[0] != "USC00519397" || got[1] != "USC00513117" {
			t.Errorf("stations = %v", got)
		}
	})

	t.Run("empty is an empty array", func(t *testing.T) {
		rec := serve(t, newTestMux(&mockRepo{}), "/api/v1.0/stations")
		if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
			t.Errorf("body = %s; want []", got)
		}
	})

	t.Run("repository failure is 500", func(t *testing.T) {
		rec := serve(t, newTestMux(&mockRepo{stationsErr: errors.New("db error")}), "/api/v1.0/stations")
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status = %d; want %d", rec.Code, http.StatusInternalServerError)
		}
	})
}

func Test_handleTobs(t *testing.T) {
	t.Run("flattens readings for the configured window", func(t *testing.T) {
		repo := &mockRepo{stationPrcp: []types.PrecipitationReading{
			{Date: "2016-08-23", Prcp: ptr(1.79)},
			{Date: "2016-08-24", Prcp: nil},
		}}
		rec := serve(t, newTestMux(repo), "/api/v1.0/tobs")

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d; want %d", rec.Code, http.StatusOK)
		}
		got := strings.TrimSpace(rec.Body.String())
		want := `["2016-08-23",1.79,"2016-08-24",null]`
		if got != want {
			t.Errorf("body = %s; want %s", got, want)
		}
		if repo.gotStation != testOpts.TobsStation {
			t.Errorf("station = %q; want %q", repo.gotStation, testOpts.TobsStation)
		}
		if repo.gotFrom != testOpts.TobsWindowStart || repo.gotTo != testOpts.TobsWindowEnd {
			t.Errorf("window = %v..%v; want %v..%v", repo.gotFrom, repo.gotTo, testOpts.TobsWindowStart, testOpts.TobsWindowEnd)
		}
	})

	t.Run("window comes from options", func(t *testing.T) {
		repo := &mockRepo{}
		opts := Options{
			TobsStation:     "USC00513117",
			TobsWindowStart: dates.Date{Year: 2012, Month: time.January, Day: 1},
			TobsWindowEnd:   dates.Date{Year: 2012, Month: time.December, Day: 31},
		}
		mux := http.NewServeMux()
		NewClimateController(repo, opts).RegisterRoutes(mux)
		rec := serve(t, mux, "/api/v1.0/tobs")

		if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
			t.Errorf("body = %s; want []", got)
		}
		if repo.gotStation != "USC00513117" || repo.gotFrom != opts.TobsWindowStart || repo.gotTo != opts.TobsWindowEnd {
			t.Errorf("query = %s %v..%v; want options", repo.gotStation, repo.gotFrom, repo.gotTo)
		}
	})

	t.Run("repository failure is 500", func(t *testing.T) {
		rec := serve(t, newTestMux(&mockRepo{stationPrcpErr: errors.New("db error")}), "/api/v1.0/tobs")
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status = %d; want %d", rec.Code, http.StatusInternalServerError)
		}
	})
}

func Test_handleTemperatureFrom(t *testing.T) {
	summaries := []types.TemperatureSummary{{Date: "2017-08-23", TMin: 77, TMax: 80, TAvg: 78.5}}
	want := dates.Date{Year: 2017, Month: time.August, Day: 23}

	for _, in := range []string{"2017-08-23", "20170823", url.PathEscape("2017 08 23")} {
		t.Run(in, func(t *testing.T) {
			repo := &mockRepo{summaries: summaries}
			rec := serve(t, newTestMux(repo), "/api/v1.0/"+in)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d; want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
			}
			if repo.gotStart != want {
				t.Errorf("start = %v; want %v", repo.gotStart, want)
			}
			got := strings.TrimSpace(rec.Body.String())
			wantBody := `[{"date":"2017-08-23","TMIN":77,"TMAX":80,"TAVG":78.5}]`
			if got != wantBody {
				t.Errorf("body = %s; want %s", got, wantBody)
			}
		})
	}

	t.Run("empty result", func(t *testing.T) {
		rec := serve(t, newTestMux(&mockRepo{}), "/api/v1.0/2030-01-01")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d; want %d", rec.Code, http.StatusOK)
		}
		if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
			t.Errorf("body = %s; want []", got)
		}
	})

	t.Run("repository failure is 500", func(t *testing.T) {
		rec := serve(t, newTestMux(&mockRepo{summariesErr: errors.New("db error")}), "/api/v1.0/2017-08-23")
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status = %d; want %d", rec.Code, http.StatusInternalServerError)
		}
	})
}

func Test_handleTemperatureRange(t *testing.T) {
	repo := &mockRepo{summaries: []types.TemperatureSummary{{Date: "2017-08-23", TMin: 77, TMax: 80, TAvg: 78.5}}}
	rec := serve(t, newTestMux(repo), "/api/v1.0/20170801/"+url.PathEscape("2017 08 23"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	if repo.gotStart.String() != "2017-08-01" || repo.gotEnd.String() != "2017-08-23" {
		t.Errorf("range = %v..%v; want 2017-08-01..2017-08-23", repo.gotStart, repo.gotEnd)
	}
}

func Test_invalidDates(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "single slash separated", path: "/api/v1.0/2017/08/23", want: rangeDateMessage},
		{name: "range slash separated", path: "/api/v1.0/2017/08/23/2017-08-24", want: rangeDateMessage},
		{name: "single escaped slash", path: "/api/v1.0/" + url.PathEscape("2017/08/23"), want: singleDateMessage},
		{name: "single month 13", path: "/api/v1.0/2017-13-01", want: singleDateMessage},
		{name: "single word", path: "/api/v1.0/yesterday", want: singleDateMessage},
		{name: "range bad start", path: "/api/v1.0/2017.08.23/2017-08-24", want: rangeDateMessage},
		{name: "range bad end", path: "/api/v1.0/2017-08-23/20170231", want: rangeDateMessage},
		{name: "range escaped slash end", path: "/api/v1.0/2017-08-23/" + url.PathEscape("2017/08/24"), want: rangeDateMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRepo{}
			rec := serve(t, newTestMux(repo), tt.path)

			if rec.Code != http.StatusNotFound {
				t.Fatalf("status = %d; want %d", rec.Code, http.StatusNotFound)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
				t.Errorf("Content-Type = %q; want application/json", ct)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["error"] != tt.want {
				t.Errorf("error = %q; want %q", body["error"], tt.want)
			}
			if repo.calls != 0 {
				t.Errorf("repository called %d times for invalid input", repo.calls)
			}
		})
	}
}
