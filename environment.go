package main

import (
	"math/rand"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"

	"fovmesh/fov"
	"fovmesh/scene"
)

// liveWorld forwards obstacle and target queries to whichever scene is
// current, so views survive a scene reload.
type liveWorld struct {
	current atomic.Pointer[scene.World]
}

// newLiveWorld wraps w.
func newLiveWorld(w *scene.World) *liveWorld {
	lw := &liveWorld{}
	lw.current.Store(w)
	return lw
}

// Swap installs w for all subsequent queries.
func (lw *liveWorld) Swap(w *scene.World) { lw.current.Store(w) }

// World returns the current scene.
func (lw *liveWorld) World() *scene.World { return lw.current.Load() }

func (lw *liveWorld) Cast(origin, dir mgl64.Vec3, maxDistance float64, mask fov.LayerMask) (fov.CastResult, error) {
	return lw.World().Cast(origin, dir, maxDistance, mask)
}

func (lw *liveWorld) TargetsInRadius(origin mgl64.Vec3, radius float64, mask fov.LayerMask) ([]fov.Target, error) {
	return lw.World().TargetsInRadius(origin, radius, mask)
}

func (lw *liveWorld) Occluded(origin, target mgl64.Vec3, mask fov.LayerMask) (bool, error) {
	return lw.World().Occluded(origin, target, mask)
}

// generateWorld procedurally creates a walled arena around the spawn point.
func generateWorld(rng *rand.Rand, spawn mgl64.Vec2) *scene.World {
	return scene.Generate(rng, scene.GenerateOptions{
		Width:             worldW,
		Height:            worldH,
		Walls:             wallSegments,
		MinLen:            wallMinLen,
		MaxLen:            wallMaxLen,
		Thickness:         wallThickness,
		ThicknessVariance: wallThicknessVariance,
		ExclusionRadius:   wallExclusionRadius,
		Spawn:             spawn,
		Targets:           targetCount,
		TargetHeight:      targetHeight,
	})
}

// blocked reports whether moving from pos by delta would pass through a
// wall or come within playerRadius of one.
func (lw *liveWorld) blocked(pos, delta mgl64.Vec3) bool {
	dist := delta.Len()
	if dist == 0 {
		return false
	}
	hit, err := lw.Cast(pos, delta.Mul(1/dist), dist+playerRadius, obstacleLayers)
	return err != nil || hit.Hit
}

// freeSpot picks a random position at least clearance away from every wall.
func (lw *liveWorld) freeSpot(rng *rand.Rand, clearance float64) mgl64.Vec3 {
	for attempts := 0; attempts < 64; attempts++ {
		p := mgl64.Vec3{1 + rng.Float64()*(worldW-2), 0, 1 + rng.Float64()*(worldH-2)}
		if lw.clearance(p, clearance) {
			return p
		}
	}
	return mgl64.Vec3{worldW / 2, 0, worldH / 2}
}

// clearance casts a ring of rays and reports whether none of them stops
// within r.
func (lw *liveWorld) clearance(p mgl64.Vec3, r float64) bool {
	for a := 0.0; a < 360; a += 30 {
		hit, err := lw.Cast(p, fov.Direction(a), r, obstacleLayers)
		if err != nil || hit.Hit {
			return false
		}
	}
	return true
}
