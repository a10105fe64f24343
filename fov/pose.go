package fov

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Pose is where a viewer stands and which way it faces. Facing is in degrees
// around the vertical Y axis; facing 0 looks along +X.
type Pose struct {
	Position mgl64.Vec3
	Facing   float64
}

// DirFromAngle returns the horizontal unit vector for angle degrees. A local
// angle is measured from the pose's facing; a global one is absolute.
func (p Pose) DirFromAngle(angle float64, global bool) mgl64.Vec3 {
	if !global {
		angle += p.Facing
	}
	return Direction(angle)
}

// Forward is the unit vector the pose faces.
func (p Pose) Forward() mgl64.Vec3 {
	return Direction(p.Facing)
}

// WorldToLocal maps world points into the viewer frame: the viewer sits at the
// origin and looks along local +X.
func (p Pose) WorldToLocal() mgl64.Mat4 {
	rot := mgl64.HomogRotate3DY(mgl64.DegToRad(p.Facing))
	return rot.Mul4(mgl64.Translate3D(-p.Position.X(), -p.Position.Y(), -p.Position.Z()))
}

// LocalToWorld is the inverse of WorldToLocal.
func (p Pose) LocalToWorld() mgl64.Mat4 {
	rot := mgl64.HomogRotate3DY(-mgl64.DegToRad(p.Facing))
	return mgl64.Translate3D(p.Position.X(), p.Position.Y(), p.Position.Z()).Mul4(rot)
}

// Direction returns (cos a, 0, sin a) for an absolute angle in degrees.
func Direction(angle float64) mgl64.Vec3 {
	rad := mgl64.DegToRad(angle)
	return mgl64.Vec3{math.Cos(rad), 0, math.Sin(rad)}
}

// AngleBetween returns the unsigned angle in degrees between two vectors.
func AngleBetween(a, b mgl64.Vec3) float64 {
	la, lb := a.Len(), b.Len()
	if la == 0 || lb == 0 {
		return 0
	}
	cos := a.Dot(b) / (la * lb)
	cos = math.Max(-1, math.Min(1, cos))
	return mgl64.RadToDeg(math.Acos(cos))
}
