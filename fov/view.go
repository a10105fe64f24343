// Package fov builds field of view meshes: it sweeps a cone of rays against
// an obstacle oracle, refines the silhouette edges between samples, and fans
// the resulting polygon into triangles in the viewer's local frame. It also
// detects targets inside the cone on a slower schedule.
package fov

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// View computes visibility polygons for one field of view configuration.
// It keeps no per-tick state, so one View may serve many poses.
type View struct {
	cfg    Config
	caster Caster
}

// Polygon is the ordered world-space boundary produced by one sweep.
type Polygon struct {
	Points  []mgl64.Vec3
	Samples int
	Edges   int
	Casts   int
}

// NewView validates cfg and binds it to an obstacle oracle.
func NewView(cfg Config, caster Caster) (*View, error) {
	if caster == nil {
		return nil, fmt.Errorf("nil caster: %w", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &View{cfg: cfg, caster: caster}, nil
}

// Config returns the validated configuration.
func (v *View) Config() Config { return v.cfg }

// cast queries the oracle along an absolute angle.
func (v *View) cast(origin mgl64.Vec3, angle float64) (CastSample, error) {
	hit, err := v.caster.Cast(origin, Direction(angle), v.cfg.ViewRadius, v.cfg.ObstacleMask)
	if err != nil {
		return CastSample{}, fmt.Errorf("cast at %.3f deg: %w", angle, err)
	}
	return CastSample{CastResult: hit, Angle: angle}, nil
}

// Sweep casts once per sampler angle and returns the raw samples in sweep order.
func (v *View) Sweep(pose Pose) ([]CastSample, error) {
	angles := Angles(pose.Facing, v.cfg.ViewAngle, v.cfg.MeshResolution)
	samples := make([]CastSample, len(angles))
	if batch, ok := v.caster.(BatchCaster); ok {
		dirs := make([]mgl64.Vec3, len(angles))
		for i, a := range angles {
			dirs[i] = Direction(a)
		}
		hits, err := batch.CastAll(pose.Position, dirs, v.cfg.ViewRadius, v.cfg.ObstacleMask)
		if err != nil {
			return nil, fmt.Errorf("batch cast: %w", err)
		}
		if len(hits) != len(angles) {
			return nil, fmt.Errorf("batch cast returned %d hits for %d directions", len(hits), len(angles))
		}
		for i, h := range hits {
			samples[i] = CastSample{CastResult: h, Angle: angles[i]}
		}
		return samples, nil
	}
	for i, a := range angles {
		s, err := v.cast(pose.Position, a)
		if err != nil {
			return nil, err
		}
		samples[i] = s
	}
	return samples, nil
}

// Polygon sweeps the cone and refines every edge between neighbouring samples.
// Refined edge points precede the sample that closed the edge.
func (v *View) Polygon(pose Pose) (*Polygon, error) {
	samples, err := v.Sweep(pose)
	if err != nil {
		return nil, err
	}
	poly := &Polygon{
		Points:  make([]mgl64.Vec3, 0, len(samples)+4),
		Samples: len(samples),
		Casts:   len(samples),
	}
	for i, curr := range samples {
		if i > 0 {
			prev := samples[i-1]
			if EdgeBetween(prev, curr, v.cfg.EdgeDstThreshold) {
				edge, err := v.FindEdge(pose.Position, prev, curr)
				if err != nil {
					return nil, err
				}
				poly.Edges++
				poly.Casts += v.cfg.EdgeResolveIterations
				poly.Points = append(poly.Points, edge.Points()...)
			}
		}
		poly.Points = append(poly.Points, curr.Point)
	}
	return poly, nil
}

// Build runs a full sweep and triangulates it in the viewer's local frame.
// On any oracle failure it returns no mesh.
func (v *View) Build(pose Pose) (*Mesh, error) {
	poly, err := v.Polygon(pose)
	if err != nil {
		return nil, err
	}
	return BuildMesh(pose, poly.Points, v.cfg.MaskCutawayDst), nil
}
