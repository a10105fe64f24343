package fov

import "github.com/go-gl/mathgl/mgl64"

// CastResult is the answer of one obstacle query.
type CastResult struct {
	Hit      bool
	Point    mgl64.Vec3
	Distance float64
}

// Miss builds the no-obstacle answer: the ray runs its full length.
func Miss(origin, dir mgl64.Vec3, maxDistance float64) CastResult {
	return CastResult{Point: origin.Add(dir.Mul(maxDistance)), Distance: maxDistance}
}

// CastSample is a CastResult tagged with the absolute angle it was cast at.
type CastSample struct {
	CastResult
	Angle float64
}

// Caster answers whether a ray from origin along dir meets an obstacle on one
// of the mask's layers within maxDistance. Implementations must be free of
// side effects; the sweep calls Cast many times per tick.
type Caster interface {
	Cast(origin, dir mgl64.Vec3, maxDistance float64, mask LayerMask) (CastResult, error)
}

// BatchCaster is implemented by casters that answer many directions from one
// origin at once. The sweep prefers it for its initial samples.
type BatchCaster interface {
	Caster
	CastAll(origin mgl64.Vec3, dirs []mgl64.Vec3, maxDistance float64, mask LayerMask) ([]CastResult, error)
}

// CasterFunc adapts a function to Caster.
type CasterFunc func(origin, dir mgl64.Vec3, maxDistance float64, mask LayerMask) (CastResult, error)

// Cast calls f.
func (f CasterFunc) Cast(origin, dir mgl64.Vec3, maxDistance float64, mask LayerMask) (CastResult, error) {
	return f(origin, dir, maxDistance, mask)
}
