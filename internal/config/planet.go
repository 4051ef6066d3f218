package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Default planet and streaming values.
const (
	DefaultPlanetRadius   = 6371000.0
	DefaultSurfaceOffset  = 8.0
	DefaultTerrainDepth   = 1.0
	DefaultMaxBuildHeight = 15.0

	DefaultStreamRadius     = 1 // 3x3x3 neighbourhood
	DefaultMaxNewPerTick    = 2
	DefaultLODFactor        = 4
	DefaultLODRadius        = 2
	DefaultRenderDistance   = 8
	DefaultTelemetryAddress = ""
)

// Planet describes one planet. Every subsystem derives its sphere geometry from
// this value through spheremath, so two planets can coexist in one process.
type Planet struct {
	Radius         float64 `json:"radius"`
	SurfaceOffset  float64 `json:"surfaceOffset"`
	TerrainDepth   float64 `json:"terrainDepth"`
	MaxBuildHeight float64 `json:"maxBuildHeight"`
}

// Streaming controls how many chunks are kept around the observer and how much
// work a single tick may do.
type Streaming struct {
	// Radius of the full-detail neighbourhood in chunks (1 => 3x3x3).
	Radius int `json:"radius"`
	// MaxNewPerTick caps chunk creations per tick; excess candidates wait.
	MaxNewPerTick int `json:"maxNewPerTick"`
	// LODFactor is the merge factor of proxy cells. 0 or 1 disables the proxy ring.
	LODFactor int `json:"lodFactor"`
	// LODRadius is the proxy ring radius in coarse cells.
	LODRadius int `json:"lodRadius"`
}

// Settings is the file-level configuration of a run.
type Settings struct {
	Planet         Planet    `json:"planet"`
	Streaming      Streaming `json:"streaming"`
	RenderDistance int       `json:"renderDistance"`
	Telemetry      string    `json:"telemetry"`
}

// DefaultPlanet returns an Earth-sized planet.
func DefaultPlanet() Planet {
	return Planet{
		Radius:         DefaultPlanetRadius,
		SurfaceOffset:  DefaultSurfaceOffset,
		TerrainDepth:   DefaultTerrainDepth,
		MaxBuildHeight: DefaultMaxBuildHeight,
	}
}

// DefaultStreaming returns the default streaming budget.
func DefaultStreaming() Streaming {
	return Streaming{
		Radius:        DefaultStreamRadius,
		MaxNewPerTick: DefaultMaxNewPerTick,
		LODFactor:     DefaultLODFactor,
		LODRadius:     DefaultLODRadius,
	}
}

// Default returns the full default settings.
func Default() Settings {
	return Settings{
		Planet:         DefaultPlanet(),
		Streaming:      DefaultStreaming(),
		RenderDistance: DefaultRenderDistance,
		Telemetry:      DefaultTelemetryAddress,
	}
}

var (
	ErrInvalidRadius    = errors.New("planet radius must be positive")
	ErrInvalidDepth     = errors.New("terrain depth must be positive")
	ErrInvalidBuild     = errors.New("max build height must not be negative")
	ErrInvalidStreaming = errors.New("streaming radius and per-tick cap must be positive")
)

// Validate checks the planet parameters.
func (p Planet) Validate() error {
	if !(p.Radius > 0) {
		return ErrInvalidRadius
	}
	if !(p.TerrainDepth > 0) {
		return ErrInvalidDepth
	}
	if p.MaxBuildHeight < 0 {
		return ErrInvalidBuild
	}
	return nil
}

// Validate checks the streaming budget.
func (s Streaming) Validate() error {
	if s.Radius < 0 || s.MaxNewPerTick < 1 || s.LODFactor < 0 || s.LODRadius < 0 {
		return ErrInvalidStreaming
	}
	return nil
}

// Validate checks every section.
func (s Settings) Validate() error {
	if err := s.Planet.Validate(); err != nil {
		return fmt.Errorf("planet: %w", err)
	}
	if err := s.Streaming.Validate(); err != nil {
		return fmt.Errorf("streaming: %w", err)
	}
	return nil
}

// Load reads settings from a JSON file on top of the defaults.
// A missing file is not an error; the defaults are returned.
func Load(path string) (Settings, error) {
	s := Default()
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return s, fmt.Errorf("could not read settings file: %w", err)
	}

	if err := json.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("could not parse settings file %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}
