package fov

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid fov config")

// LayerMask selects which obstacle or target layers a query considers.
type LayerMask uint32

// AllLayers matches every layer.
const AllLayers LayerMask = ^LayerMask(0)

// MaxSteps caps the rays in one sweep, ViewAngle*MeshResolution.
const MaxSteps = 1 << 20

// Config holds the tunables of a single field of view.
type Config struct {
	ViewAngle             float64   `toml:"view_angle"`
	ViewRadius            float64   `toml:"view_radius"`
	MeshResolution        float64   `toml:"mesh_resolution"`
	EdgeResolveIterations int       `toml:"edge_resolve_iterations"`
	EdgeDstThreshold      float64   `toml:"edge_dst_threshold"`
	DetectInterval        float64   `toml:"detect_interval"`
	MaskCutawayDst        float64   `toml:"mask_cutaway_dst"`
	ObstacleMask          LayerMask `toml:"obstacle_mask"`
	TargetMask            LayerMask `toml:"target_mask"`
}

// DefaultConfig returns the stock field of view settings.
func DefaultConfig() Config {
	return Config{
		ViewAngle:             90,
		ViewRadius:            5,
		MeshResolution:        1,
		EdgeResolveIterations: 1,
		EdgeDstThreshold:      1,
		DetectInterval:        0.1,
		MaskCutawayDst:        0.15,
		ObstacleMask:          AllLayers,
		TargetMask:            AllLayers,
	}
}

// Validate reports the first out-of-range option.
func (c Config) Validate() error {
	switch {
	case !finite(c.ViewAngle) || c.ViewAngle < 0 || c.ViewAngle > 360:
		return fmt.Errorf("view angle %v outside [0, 360]: %w", c.ViewAngle, ErrInvalidConfig)
	case !finite(c.ViewRadius) || c.ViewRadius <= 0:
		return fmt.Errorf("view radius %v must be positive: %w", c.ViewRadius, ErrInvalidConfig)
	case !finite(c.MeshResolution) || c.MeshResolution <= 0:
		return fmt.Errorf("mesh resolution %v must be positive: %w", c.MeshResolution, ErrInvalidConfig)
	case c.ViewAngle*c.MeshResolution > MaxSteps:
		return fmt.Errorf("%v degrees at resolution %v exceeds %d steps: %w", c.ViewAngle, c.MeshResolution, MaxSteps, ErrInvalidConfig)
	case c.EdgeResolveIterations < 0:
		return fmt.Errorf("edge resolve iterations %d must not be negative: %w", c.EdgeResolveIterations, ErrInvalidConfig)
	case !finite(c.EdgeDstThreshold) || c.EdgeDstThreshold < 0:
		return fmt.Errorf("edge distance threshold %v must not be negative: %w", c.EdgeDstThreshold, ErrInvalidConfig)
	case !finite(c.DetectInterval) || c.DetectInterval < 0:
		return fmt.Errorf("detect interval %v must not be negative: %w", c.DetectInterval, ErrInvalidConfig)
	case !finite(c.MaskCutawayDst):
		return fmt.Errorf("mask cutaway %v must be finite: %w", c.MaskCutawayDst, ErrInvalidConfig)
	}
	return nil
}

// DetectEvery converts DetectInterval to a duration, clamping negatives to zero.
func (c Config) DetectEvery() time.Duration {
	return time.Duration(math.Max(c.DetectInterval, 0) * float64(time.Second))
}

// LoadConfig reads a TOML file on top of DefaultConfig and validates the result.
func LoadConfig(path string) (Config, error) {
	return LoadConfigOver(path, DefaultConfig())
}

// LoadConfigOver is LoadConfig with base supplying the keys the file omits.
func LoadConfigOver(path string, base Config) (Config, error) {
	cfg := base
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("decoding %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%q: %w", path, err)
	}
	return cfg, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
