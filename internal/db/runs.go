package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/banshee-data/pointgrid/internal/stats"
	"github.com/google/uuid"
)

// ErrRunNotFound is returned by Get for an unknown run ID.
var ErrRunNotFound = errors.New("search run not found")

// Run records the parameters and neighbor-count summary of one radius
// search over a cloud.
type Run struct {
	RunID        string        `json:"run_id"`
	Cloud        string        `json:"cloud"`
	Points       int           `json:"points"`
	Radius       float64       `json:"radius"`
	MaxNeighbors int           `json:"max_neighbors"`
	Cylindrical  bool          `json:"cylindrical"`
	Workers      int           `json:"workers"`
	Seed         uint64        `json:"seed"`
	Summary      stats.Summary `json:"summary"`
	Duration     time.Duration `json:"duration"`

	DecimateResolution float64 `json:"decimate_resolution,omitempty"`
	DecimatedPoints    int     `json:"decimated_points,omitempty"`

	CreatedAt int64 `json:"created_at"`
}

// RunStore provides persistence for search runs.
type RunStore struct {
	db *sql.DB
}

// NewRunStore creates a RunStore on a migrated database.
func NewRunStore(db *sql.DB) *RunStore {
	return &RunStore{db: db}
}

const runColumns = `
	run_id, cloud, points, radius, max_neighbors, cylindrical, workers, seed,
	queries, mean, std_dev, min, max, p50, p95, capped,
	duration_nanos, decimate_resolution, decimated_points, created_at`

// Insert persists run. An empty RunID is filled with a new UUID and a zero
// CreatedAt with the current time.
func (s *RunStore) Insert(run *Run) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.CreatedAt == 0 {
		run.CreatedAt = time.Now().UnixNano()
	}

	sum := run.Summary
	_, err := s.db.Exec(`INSERT INTO search_runs (`+runColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.Cloud, run.Points, run.Radius, run.MaxNeighbors, run.Cylindrical, run.Workers, int64(run.Seed),
		sum.N, sum.Mean, sum.StdDev, sum.Min, sum.Max, sum.P50, sum.P95, sum.Capped,
		run.Duration.Nanoseconds(), run.DecimateResolution, run.DecimatedPoints, run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert search run: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var (
		run      Run
		seed     int64
		duration int64
	)
	sum := &run.Summary
	err := row.Scan(
		&run.RunID, &run.Cloud, &run.Points, &run.Radius, &run.MaxNeighbors, &run.Cylindrical, &run.Workers, &seed,
		&sum.N, &sum.Mean, &sum.StdDev, &sum.Min, &sum.Max, &sum.P50, &sum.P95, &sum.Capped,
		&duration, &run.DecimateResolution, &run.DecimatedPoints, &run.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	run.Seed = uint64(seed)
	run.Duration = time.Duration(duration)
	return &run, nil
}

// Get returns the run with the given ID.
func (s *RunStore) Get(runID string) (*Run, error) {
	row := s.db.QueryRow(`SELECT `+runColumns+` FROM search_runs WHERE run_id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("get search run %s: %w", runID, err)
	}
	return run, nil
}

// List returns up to limit runs, newest first. limit <= 0 returns all.
func (s *RunStore) List(limit int) ([]*Run, error) {
	query := `SELECT ` + runColumns + ` FROM search_runs ORDER BY created_at DESC, run_id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return s.query(query, args...)
}

// ListByCloud returns every run over the named cloud, ordered by radius.
func (s *RunStore) ListByCloud(cloud string) ([]*Run, error) {
	return s.query(`SELECT `+runColumns+` FROM search_runs WHERE cloud = ? ORDER BY radius, created_at`, cloud)
}

func (s *RunStore) query(query string, args ...any) ([]*Run, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query search runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan search run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Delete removes the run with the given ID.
func (s *RunStore) Delete(runID string) error {
	res, err := s.db.Exec(`DELETE FROM search_runs WHERE run_id = ?`, runID)
	if err != nil {
		return fmt.Errorf("delete search run %s: %w", runID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete search run %s: %w", runID, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return nil
}
