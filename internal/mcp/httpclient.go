package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kerlouan/fitbridge/internal/models"
	"github.com/kerlouan/fitbridge/internal/storage"
)

// HTTPClient implements DataSource by calling the fitbridge REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, int, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("httpclient: read body: %w", err)
	}
	return body, resp.StatusCode, nil
}

func (c *HTTPClient) getOK(ctx context.Context, path string, params url.Values) ([]byte, error) {
	body, status, err := c.get(ctx, path, params)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, status, body)
	}
	return body, nil
}

func timeParams(start, end time.Time) url.Values {
	v := url.Values{}
	v.Set("start", start.Format(time.RFC3339))
	v.Set("end", end.Format(time.RFC3339))
	return v
}

// workoutPayload mirrors the API's workout shape: a row plus its
// computed distance.
type workoutPayload struct {
	models.WorkoutRow
	DistanceM *float64 `json:"distance_m"`
}

func (c *HTTPClient) QueryWorkouts(ctx context.Context, start, end time.Time, limit int) ([]models.WorkoutRow, error) {
	params := timeParams(start, end)
	params.Set("limit", strconv.Itoa(limit))

	body, err := c.getOK(ctx, "/api/v1/workouts", params)
	if err != nil {
		return nil, err
	}
	var payload []workoutPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("httpclient: decode workouts: %w", err)
	}
	out := make([]models.WorkoutRow, len(payload))
	for i, p := range payload {
		out[i] = p.WorkoutRow
	}
	return out, nil
}

func (c *HTTPClient) GetWorkout(ctx context.Context, id int64) (*models.WorkoutRow, error) {
	body, status, err := c.get(ctx, "/api/v1/workouts/"+strconv.FormatInt(id, 10), nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("httpclient: workout %d returned %d: %s", id, status, body)
	}
	var payload workoutPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("httpclient: decode workout: %w", err)
	}
	return &payload.WorkoutRow, nil
}

func (c *HTTPClient) QueryPoints(ctx context.Context, workoutID int64) ([]models.GeoPoint, error) {
	body, err := c.getOK(ctx, "/api/v1/workouts/"+strconv.FormatInt(workoutID, 10)+"/points", nil)
	if err != nil {
		return nil, err
	}
	var points []models.GeoPoint
	if err := json.Unmarshal(body, &points); err != nil {
		return nil, fmt.Errorf("httpclient: decode points: %w", err)
	}
	return points, nil
}

func (c *HTTPClient) WorkoutDistance(ctx context.Context, workoutID int64) (float64, bool, error) {
	body, status, err := c.get(ctx, "/api/v1/workouts/"+strconv.FormatInt(workoutID, 10), nil)
	if err != nil {
		return 0, false, err
	}
	if status == http.StatusNotFound {
		return 0, false, nil
	}
	if status != http.StatusOK {
		return 0, false, fmt.Errorf("httpclient: workout %d returned %d: %s", workoutID, status, body)
	}
	var payload workoutPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, false, fmt.Errorf("httpclient: decode workout: %w", err)
	}
	if payload.DistanceM == nil {
		return 0, false, nil
	}
	return *payload.DistanceM, true, nil
}

func (c *HTTPClient) GetDataStats(ctx context.Context) (*storage.DataStats, error) {
	body, err := c.getOK(ctx, "/api/v1/stats", nil)
	if err != nil {
		return nil, err
	}
	var stats storage.DataStats
	if err := json.Unmarshal(body, &stats); err != nil {
		return nil, fmt.Errorf("httpclient: decode stats: %w", err)
	}
	return &stats, nil
}
