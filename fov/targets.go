package fov

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Target is something a viewer may spot.
type Target struct {
	ID       string
	Position mgl64.Vec3
}

// TargetQuery finds candidate targets and checks line of sight to them.
type TargetQuery interface {
	TargetsInRadius(origin mgl64.Vec3, radius float64, mask LayerMask) ([]Target, error)
	Occluded(origin, target mgl64.Vec3, mask LayerMask) (bool, error)
}

// OccludedBy answers a line of sight check with an obstacle caster: the
// target is hidden when a ray towards it stops short.
func OccludedBy(c Caster, origin, target mgl64.Vec3, mask LayerMask) (bool, error) {
	delta := target.Sub(origin)
	dist := delta.Len()
	if dist == 0 {
		return false, nil
	}
	hit, err := c.Cast(origin, delta.Mul(1/dist), dist, mask)
	if err != nil {
		return false, err
	}
	return hit.Hit, nil
}

// DetectTargets returns the targets within the view radius, strictly inside
// the cone and not hidden behind an obstacle, in query order.
func DetectTargets(cfg Config, pose Pose, q TargetQuery) ([]Target, error) {
	candidates, err := q.TargetsInRadius(pose.Position, cfg.ViewRadius, cfg.TargetMask)
	if err != nil {
		return nil, fmt.Errorf("querying targets: %w", err)
	}
	forward := pose.Forward()
	visible := make([]Target, 0, len(candidates))
	for _, t := range candidates {
		toTarget := t.Position.Sub(pose.Position)
		if AngleBetween(forward, toTarget) >= cfg.ViewAngle/2 {
			continue
		}
		hidden, err := q.Occluded(pose.Position, t.Position, cfg.ObstacleMask)
		if err != nil {
			return nil, fmt.Errorf("line of sight to %s: %w", t.ID, err)
		}
		if !hidden {
			visible = append(visible, t)
		}
	}
	return visible, nil
}
