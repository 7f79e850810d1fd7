package mcp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func apiStub(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/workouts", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("start") == "" {
			t.Error("missing start parameter")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id":1,"device_id":1,"user_id":1,"start_time":"2026-01-29T08:00:00Z",
			 "end_time":"2026-01-29T08:45:00Z","duration_sec":2700,"activity_kind":16,
			 "distance_m":8123.4}
		]`))
	})
	mux.HandleFunc("/api/v1/workouts/1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":1,"device_id":1,"user_id":1,
			"start_time":"2026-01-29T08:00:00Z","end_time":"2026-01-29T08:45:00Z",
			"activity_kind":16,"distance_m":8123.4}`))
	})
	mux.HandleFunc("/api/v1/workouts/1/points", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"idx":0,"time":"2026-01-29T08:00:00Z","lat":48.1,"lon":-1.55,"ele":35.0}]`))
	})
	mux.HandleFunc("/api/v1/workouts/404", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"workout not found"}`))
	})
	mux.HandleFunc("/api/v1/stats", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"total_workouts":12,"total_points":3400}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPClientQueryWorkouts(t *testing.T) {
	c := NewHTTPClient(apiStub(t).URL)

	workouts, err := c.QueryWorkouts(context.Background(),
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), 50)
	if err != nil {
		t.Fatal(err)
	}
	if len(workouts) != 1 {
		t.Fatalf("workouts = %d, want 1", len(workouts))
	}
	if workouts[0].ID != 1 || workouts[0].ActivityKind != 16 {
		t.Errorf("workout = %+v", workouts[0])
	}
	if workouts[0].DurationSec == nil || *workouts[0].DurationSec != 2700 {
		t.Errorf("duration = %v, want 2700", workouts[0].DurationSec)
	}
}

func TestHTTPClientGetWorkout(t *testing.T) {
	c := NewHTTPClient(apiStub(t).URL)

	row, err := c.GetWorkout(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if row == nil || row.ID != 1 {
		t.Fatalf("row = %+v", row)
	}

	missing, err := c.GetWorkout(context.Background(), 404)
	if err != nil {
		t.Fatal(err)
	}
	if missing != nil {
		t.Error("missing workout should be nil, not an error")
	}
}

func TestHTTPClientQueryPoints(t *testing.T) {
	c := NewHTTPClient(apiStub(t).URL)

	points, err := c.QueryPoints(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 1 || points[0].Lat != 48.1 {
		t.Errorf("points = %+v", points)
	}
	if points[0].Elevation == nil || *points[0].Elevation != 35.0 {
		t.Errorf("elevation = %v", points[0].Elevation)
	}
}

func TestHTTPClientWorkoutDistance(t *testing.T) {
	c := NewHTTPClient(apiStub(t).URL)

	m, ok, err := c.WorkoutDistance(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if !ok || m != 8123.4 {
		t.Errorf("distance = %v, ok=%v", m, ok)
	}

	_, ok, err = c.WorkoutDistance(context.Background(), 404)
	if err != nil || ok {
		t.Errorf("missing workout distance ok=%v err=%v", ok, err)
	}
}

func TestHTTPClientGetDataStats(t *testing.T) {
	c := NewHTTPClient(apiStub(t).URL)

	stats, err := c.GetDataStats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalWorkouts != 12 || stats.TotalPoints != 3400 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestHTTPClientErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	c := NewHTTPClient(srv.URL)
	if _, err := c.GetDataStats(context.Background()); err == nil {
		t.Fatal("expected error for 500 response")
	}
}
