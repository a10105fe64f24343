package fov

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

var errOracle = errors.New("oracle down")

// wallX is a wall on the plane x = X spanning [ZMin, ZMax].
type wallX struct {
	X, ZMin, ZMax float64
	calls         atomic.Int64
}

func (w *wallX) Cast(origin, dir mgl64.Vec3, maxDistance float64, _ LayerMask) (CastResult, error) {
	w.calls.Add(1)
	if dir.X() <= 0 {
		return Miss(origin, dir, maxDistance), nil
	}
	t := (w.X - origin.X()) / dir.X()
	z := origin.Z() + t*dir.Z()
	if t < 0 || t > maxDistance || z < w.ZMin || z > w.ZMax {
		return Miss(origin, dir, maxDistance), nil
	}
	return CastResult{Hit: true, Point: origin.Add(dir.Mul(t)), Distance: t}, nil
}

// batchWall adds CastAll to wallX and records how often it was used.
type batchWall struct {
	*wallX
	batches atomic.Int64
	short   bool
}

func (b *batchWall) CastAll(origin mgl64.Vec3, dirs []mgl64.Vec3, maxDistance float64, mask LayerMask) ([]CastResult, error) {
	b.batches.Add(1)
	out := make([]CastResult, 0, len(dirs))
	for _, d := range dirs {
		r, _ := b.wallX.Cast(origin, d, maxDistance, mask)
		out = append(out, r)
	}
	if b.short {
		out = out[:len(out)-1]
	}
	return out, nil
}

var emptySpace = CasterFunc(func(origin, dir mgl64.Vec3, maxDistance float64, _ LayerMask) (CastResult, error) {
	return Miss(origin, dir, maxDistance), nil
})

var brokenCaster = CasterFunc(func(mgl64.Vec3, mgl64.Vec3, float64, LayerMask) (CastResult, error) {
	return CastResult{}, errOracle
})

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// pointTargets answers target queries from a fixed list with an optional
// blocking caster.
type pointTargets struct {
	targets []Target
	walls   Caster
	err     error
}

func (p *pointTargets) TargetsInRadius(origin mgl64.Vec3, radius float64, _ LayerMask) ([]Target, error) {
	if p.err != nil {
		return nil, p.err
	}
	var out []Target
	for _, t := range p.targets {
		if t.Position.Sub(origin).Len() <= radius {
			out = append(out, t)
		}
	}
	return out, nil
}

func (p *pointTargets) Occluded(origin, target mgl64.Vec3, mask LayerMask) (bool, error) {
	if p.walls == nil {
		return false, nil
	}
	return OccludedBy(p.walls, origin, target, mask)
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.ViewAngle = 60
	cfg.ViewRadius = 5
	return cfg
}
