package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"

	"github.com/banshee-data/pointgrid/internal/radius"
)

// DefaultConfigPath is the path to the canonical search defaults file.
const DefaultConfigPath = "config/pointgrid.defaults.json"

const maxFileSize = 1 * 1024 * 1024 // 1MB

// SearchConfig holds radius-search and subsampling parameters. Every field
// is optional; the Get* methods fall back to built-in defaults.
type SearchConfig struct {
	Radius       *float64 `json:"radius,omitempty"`
	MaxNeighbors *int     `json:"max_neighbors,omitempty"`
	Workers      *int     `json:"workers,omitempty"` // 0 means one per CPU
	Cylindrical  *bool    `json:"cylindrical,omitempty"`

	// Subsampling
	DecimateResolution *float64 `json:"decimate_resolution,omitempty"` // 0 disables
	RandomSeed         *uint64  `json:"random_seed,omitempty"`         // 0 keeps input order
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrInt(v int) *int             { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrUint64(v uint64) *uint64    { return &v }

// EmptySearchConfig returns a SearchConfig with all fields unset.
func EmptySearchConfig() *SearchConfig {
	return &SearchConfig{}
}

// DefaultSearchConfig returns a SearchConfig with every field set to its
// built-in default.
func DefaultSearchConfig() *SearchConfig {
	c := EmptySearchConfig()
	return &SearchConfig{
		Radius:             ptrFloat64(c.GetRadius()),
		MaxNeighbors:       ptrInt(c.GetMaxNeighbors()),
		Workers:            ptrInt(0),
		Cylindrical:        ptrBool(c.GetCylindrical()),
		DecimateResolution: ptrFloat64(c.GetDecimateResolution()),
		RandomSeed:         ptrUint64(c.GetRandomSeed()),
	}
}

// LoadSearchConfig loads a SearchConfig from a JSON file.
// The file must have a .json extension and be under 1MB. Fields omitted
// from the file keep their defaults, so partial configs are safe.
func LoadSearchConfig(path string) (*SearchConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptySearchConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath, searching the current
// directory and its parents up to the repository root. Panics if the file
// cannot be loaded; intended for tests and tools.
func MustLoadDefaultConfig() *SearchConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // from cmd/tools/grid-analyse/
	}
	for _, path := range candidates {
		if cfg, err := LoadSearchConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run from repository root")
}

// Validate checks the fields that are set.
func (c *SearchConfig) Validate() error {
	if c.Radius != nil {
		if r := *c.Radius; !(r > 0) || math.IsInf(r, 0) {
			return fmt.Errorf("radius must be positive and finite, got %f", r)
		}
	}
	if c.MaxNeighbors != nil && *c.MaxNeighbors < 0 {
		return fmt.Errorf("max_neighbors must be non-negative, got %d", *c.MaxNeighbors)
	}
	if c.Workers != nil && *c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", *c.Workers)
	}
	if c.DecimateResolution != nil {
		if r := *c.DecimateResolution; r < 0 || math.IsNaN(r) || math.IsInf(r, 0) {
			return fmt.Errorf("decimate_resolution must be zero or positive and finite, got %f", r)
		}
	}
	return nil
}

// GetRadius returns the radius value or the default.
func (c *SearchConfig) GetRadius() float64 {
	if c.Radius == nil {
		return 1.0
	}
	return *c.Radius
}

// GetMaxNeighbors returns the max_neighbors value or the default.
func (c *SearchConfig) GetMaxNeighbors() int {
	if c.MaxNeighbors == nil {
		return radius.DefaultMaxNeighbors
	}
	return *c.MaxNeighbors
}

// GetWorkers returns the worker count, resolving 0 or unset to GOMAXPROCS.
func (c *SearchConfig) GetWorkers() int {
	if c.Workers == nil || *c.Workers == 0 {
		return runtime.GOMAXPROCS(0)
	}
	return *c.Workers
}

// GetCylindrical returns the cylindrical value or the default.
func (c *SearchConfig) GetCylindrical() bool {
	if c.Cylindrical == nil {
		return false
	}
	return *c.Cylindrical
}

// GetDecimateResolution returns the decimate_resolution value or the
// default (0, disabled).
func (c *SearchConfig) GetDecimateResolution() float64 {
	if c.DecimateResolution == nil {
		return 0
	}
	return *c.DecimateResolution
}

// GetRandomSeed returns the random_seed value or the default.
func (c *SearchConfig) GetRandomSeed() uint64 {
	if c.RandomSeed == nil {
		return 0
	}
	return *c.RandomSeed
}

// Params converts the configuration to search parameters.
func (c *SearchConfig) Params() radius.Params {
	return radius.Params{
		Radius:       c.GetRadius(),
		MaxNeighbors: c.GetMaxNeighbors(),
		Cylindrical:  c.GetCylindrical(),
		Workers:      c.GetWorkers(),
	}
}
