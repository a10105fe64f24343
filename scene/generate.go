package scene

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
)

// GenerateOptions tunes procedural wall placement.
type GenerateOptions struct {
	Width, Height     float64
	Walls             int
	MinLen, MaxLen    float64
	Thickness         float64
	ThicknessVariance float64
	ExclusionRadius   float64
	Spawn             mgl64.Vec2
	Targets           int
	TargetHeight      float64
}

type rect struct{ lo, hi mgl64.Vec2 }

func (r rect) contains(p mgl64.Vec2) bool {
	return p.X() >= r.lo.X() && p.X() <= r.hi.X() && p.Y() >= r.lo.Y() && p.Y() <= r.hi.Y()
}

// Generate builds a bordered world with random axis-aligned wall slabs and
// scattered targets. No wall or target lands within ExclusionRadius of Spawn.
func Generate(rng *rand.Rand, opts GenerateOptions) *World {
	w := NewWorld()
	w.AddBox(mgl64.Vec2{0, 0}, mgl64.Vec2{opts.Width, opts.Height}, LayerWalls)

	var slabs []rect
	lengthRange := opts.MaxLen - opts.MinLen
	if lengthRange < 0 {
		lengthRange = 0
	}
	for placed, attempts := 0, 0; placed < opts.Walls && attempts < opts.Walls*8; attempts++ {
		length := opts.MinLen + rng.Float64()*lengthRange
		half := opts.Thickness / 2
		if opts.ThicknessVariance > 0 {
			half += rng.Float64() * opts.ThicknessVariance / 2
		}
		horizontal := rng.Intn(2) == 0
		x := 2 + rng.Float64()*math.Max(opts.Width-4, 0)
		z := 2 + rng.Float64()*math.Max(opts.Height-4, 0)

		lo := mgl64.Vec2{x - half, z - half}
		hi := mgl64.Vec2{x + half, z + length}
		if horizontal {
			hi = mgl64.Vec2{x + length, z + half}
		}
		lo, hi = clampRect(lo, hi, 1, 1, opts.Width-1, opts.Height-1)
		if hi.X() <= lo.X() || hi.Y() <= lo.Y() {
			continue
		}
		if rectDistance(lo, hi, opts.Spawn) < opts.ExclusionRadius {
			continue
		}
		w.AddBox(lo, hi, LayerWalls)
		slabs = append(slabs, rect{lo, hi})
		placed++
	}

	for placed, attempts := 0, 0; placed < opts.Targets && attempts < opts.Targets*16; attempts++ {
		p := mgl64.Vec2{1 + rng.Float64()*math.Max(opts.Width-2, 0), 1 + rng.Float64()*math.Max(opts.Height-2, 0)}
		if p.Sub(opts.Spawn).Len() < opts.ExclusionRadius || insideAny(slabs, p) {
			continue
		}
		w.AddTarget(mgl64.Vec3{p.X(), opts.TargetHeight, p.Y()}, LayerTargets)
		placed++
	}
	return w
}

// clampRect constrains a rectangle to the inclusive bounds.
func clampRect(lo, hi mgl64.Vec2, minX, minZ, maxX, maxZ float64) (mgl64.Vec2, mgl64.Vec2) {
	return mgl64.Vec2{math.Max(lo.X(), minX), math.Max(lo.Y(), minZ)},
		mgl64.Vec2{math.Min(hi.X(), maxX), math.Min(hi.Y(), maxZ)}
}

// rectDistance is the distance from p to the nearest point of the rectangle.
func rectDistance(lo, hi, p mgl64.Vec2) float64 {
	cx := math.Max(lo.X(), math.Min(p.X(), hi.X()))
	cz := math.Max(lo.Y(), math.Min(p.Y(), hi.Y()))
	return math.Hypot(p.X()-cx, p.Y()-cz)
}

func insideAny(rects []rect, p mgl64.Vec2) bool {
	for _, r := range rects {
		if r.contains(p) {
			return true
		}
	}
	return false
}
