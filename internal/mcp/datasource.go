package mcp

import (
	"context"
	"time"

	"github.com/kerlouan/fitbridge/internal/models"
	"github.com/kerlouan/fitbridge/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. Both *storage.DB
// (local) and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	QueryWorkouts(ctx context.Context, start, end time.Time, limit int) ([]models.WorkoutRow, error)
	GetWorkout(ctx context.Context, id int64) (*models.WorkoutRow, error)
	QueryPoints(ctx context.Context, workoutID int64) ([]models.GeoPoint, error)
	WorkoutDistance(ctx context.Context, workoutID int64) (float64, bool, error)
	GetDataStats(ctx context.Context) (*storage.DataStats, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
