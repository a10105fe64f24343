// Package scene is a flat world of infinitely tall wall segments and point
// targets. It answers the obstacle and target queries of package fov.
package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"fovmesh/fov"
)

// Default layers used by generated and loaded scenes.
const (
	LayerWalls   fov.LayerMask = 1 << 0
	LayerTargets fov.LayerMask = 1 << 1
)

const parallelEps = 1e-10

// Segment is a wall between two points on the XZ plane.
type Segment struct {
	A, B  mgl64.Vec2
	Layer fov.LayerMask
}

// Target is a point of interest on some layer.
type Target struct {
	fov.Target
	Layer fov.LayerMask
}

// World holds walls and targets. Build it up front; once shared with casting
// goroutines it must not be modified.
type World struct {
	segments []Segment
	targets  []Target
}

// NewWorld returns an empty world.
func NewWorld() *World {
	return &World{}
}

// AddWall adds a wall from a to b.
func (w *World) AddWall(a, b mgl64.Vec2, layer fov.LayerMask) {
	w.segments = append(w.segments, Segment{A: a, B: b, Layer: layer})
}

// AddBox adds the four walls of an axis-aligned rectangle.
func (w *World) AddBox(lo, hi mgl64.Vec2, layer fov.LayerMask) {
	c1 := mgl64.Vec2{hi.X(), lo.Y()}
	c3 := mgl64.Vec2{lo.X(), hi.Y()}
	w.AddWall(lo, c1, layer)
	w.AddWall(c1, hi, layer)
	w.AddWall(hi, c3, layer)
	w.AddWall(c3, lo, layer)
}

// AddTarget places a target and returns its generated id.
func (w *World) AddTarget(pos mgl64.Vec3, layer fov.LayerMask) string {
	id := uuid.NewString()
	w.targets = append(w.targets, Target{Target: fov.Target{ID: id, Position: pos}, Layer: layer})
	return id
}

// Segments returns the walls. Callers must not modify the slice.
func (w *World) Segments() []Segment { return w.segments }

// Targets returns the targets. Callers must not modify the slice.
func (w *World) Targets() []Target { return w.targets }

// Cast finds the nearest wall on mask hit by the ray within maxDistance.
// Walls are infinitely tall, so only the XZ part of dir is tested; the
// returned distance is measured along dir.
func (w *World) Cast(origin, dir mgl64.Vec3, maxDistance float64, mask fov.LayerMask) (fov.CastResult, error) {
	best := maxDistance
	found := false
	for _, seg := range w.segments {
		if seg.Layer&mask == 0 {
			continue
		}
		if t, ok := raySegment(origin, dir, seg); ok && t <= best {
			best = t
			found = true
		}
	}
	if !found {
		return fov.Miss(origin, dir, maxDistance), nil
	}
	return fov.CastResult{Hit: true, Point: origin.Add(dir.Mul(best)), Distance: best}, nil
}

// TargetsInRadius returns targets on mask within radius of origin.
func (w *World) TargetsInRadius(origin mgl64.Vec3, radius float64, mask fov.LayerMask) ([]fov.Target, error) {
	var out []fov.Target
	for _, t := range w.targets {
		if t.Layer&mask == 0 {
			continue
		}
		if t.Position.Sub(origin).Len() <= radius {
			out = append(out, t.Target)
		}
	}
	return out, nil
}

// Occluded reports whether a wall on mask blocks the line from origin to target.
func (w *World) Occluded(origin, target mgl64.Vec3, mask fov.LayerMask) (bool, error) {
	return fov.OccludedBy(w, origin, target, mask)
}

// raySegment solves origin + t*dir = A + u*(B-A) on the XZ plane and returns
// t when the ray meets the segment ahead of origin.
func raySegment(origin, dir mgl64.Vec3, seg Segment) (float64, bool) {
	dx, dz := dir.X(), dir.Z()
	segDX := seg.B.X() - seg.A.X()
	segDZ := seg.B.Y() - seg.A.Y()

	denom := dx*segDZ - dz*segDX
	if math.Abs(denom) < parallelEps {
		return 0, false
	}
	diffX := seg.A.X() - origin.X()
	diffZ := seg.A.Y() - origin.Z()

	t := (diffX*segDZ - diffZ*segDX) / denom
	u := (diffX*dz - diffZ*dx) / denom
	if u < 0 || u > 1 || t < 0 {
		return 0, false
	}
	return t, true
}
