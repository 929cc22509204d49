package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/banshee-data/pointgrid/internal/config"
	"github.com/banshee-data/pointgrid/internal/db"
	"github.com/banshee-data/pointgrid/internal/fsutil"
	"github.com/banshee-data/pointgrid/internal/timeutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestAnalyser(store *db.RunStore) (*analyser, *fsutil.MemoryFileSystem) {
	mfs := fsutil.NewMemoryFileSystem()
	return &analyser{
		fs:    mfs,
		clock: timeutil.NewStepClock(epoch, 40*time.Millisecond),
		store: store,
	}, mfs
}

func TestParseRadii(t *testing.T) {
	got, err := parseRadii("0.5, 1.0,1.5")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 1.0, 1.5}, got)

	got, err = parseRadii("  ")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = parseRadii("1,wide")
	assert.Error(t, err)
}

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags([]string{"-cloud", "uniform", "-points", "100", "-radii", "0.5,2", "-seed", "9", "-version"})
	require.NoError(t, err)
	assert.Equal(t, "uniform", opts.Cloud)
	assert.Equal(t, 100, opts.Points)
	assert.Equal(t, []float64{0.5, 2}, opts.Radii)
	assert.Equal(t, uint64(9), opts.Seed)
	assert.True(t, opts.ShowVersion)

	_, err = parseFlags([]string{"-points", "-1"})
	assert.Error(t, err)
	_, err = parseFlags([]string{"-radii", "x"})
	assert.Error(t, err)
}

func TestAnalyse(t *testing.T) {
	database, err := db.NewDB(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer database.Close()
	store := db.NewRunStore(database.DB)

	a, mfs := newTestAnalyser(store)
	opts := Options{
		Cloud:     "gaussian",
		Points:    2000,
		Radii:     []float64{0.5, 1.0, 1.5},
		OutputDir: "/out",
		Seed:      123,
	}
	result, err := a.analyse(opts, config.DefaultSearchConfig())
	require.NoError(t, err)
	require.Len(t, result.Runs, 3)
	assert.Equal(t, 2000, result.Points)

	for i, run := range result.Runs {
		assert.Equal(t, 2000, run.Summary.N)
		assert.GreaterOrEqual(t, run.Summary.Min, 1.0, "every point finds itself")
		assert.Equal(t, 40*time.Millisecond, run.Duration)
		assert.Equal(t, epoch.Add(time.Duration(2*i)*40*time.Millisecond).UnixNano(), run.CreatedAt)
	}
	assert.Less(t, result.Runs[0].Summary.Mean, result.Runs[2].Summary.Mean)

	runs, err := store.ListByCloud("gaussian")
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, result.Runs[1].RunID, runs[1].RunID)

	want := []string{
		"/out/gaussian_neighbors_r0.5.png",
		"/out/gaussian_neighbors_r1.5.png",
		"/out/gaussian_neighbors_r1.png",
		"/out/gaussian_report.html",
		"/out/gaussian_result.json",
		"/out/gaussian_spread.png",
	}
	assert.Equal(t, want, mfs.Files())

	png, err := mfs.ReadFile("/out/gaussian_spread.png")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	data, err := mfs.ReadFile("/out/gaussian_result.json")
	require.NoError(t, err)
	var decoded Result
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Len(t, decoded.Runs, 3)
	assert.Len(t, decoded.Files, 6)
}

func TestAnalyse_Decimate(t *testing.T) {
	a, mfs := newTestAnalyser(nil)
	opts := Options{Cloud: "uniform", Points: 5000, Decimate: 2, Seed: 1}
	result, err := a.analyse(opts, config.DefaultSearchConfig())
	require.NoError(t, err)

	assert.Equal(t, 5000, result.Points)
	// A 10 m cube at 2 m resolution has at most 6^3 occupied cells.
	assert.Positive(t, result.DecimatedPoints)
	assert.LessOrEqual(t, result.DecimatedPoints, 216)
	require.Len(t, result.Runs, 1)
	assert.Equal(t, result.DecimatedPoints, result.Runs[0].Summary.N)
	assert.Empty(t, mfs.Files(), "nothing written without an output directory")
}

func TestAnalyse_UnknownCloud(t *testing.T) {
	a, _ := newTestAnalyser(nil)
	_, err := a.analyse(Options{Cloud: "torus", Points: 10}, config.DefaultSearchConfig())
	assert.Error(t, err)
}

func TestAnalyse_InvalidRadius(t *testing.T) {
	a, _ := newTestAnalyser(nil)
	_, err := a.analyse(Options{Cloud: "uniform", Points: 10, Radii: []float64{-1}}, config.DefaultSearchConfig())
	assert.Error(t, err)
}
