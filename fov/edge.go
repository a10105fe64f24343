package fov

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// EdgeResult brackets an obstacle silhouette found between two samples.
// Min is the last midpoint that still looked like the first sample and Max the
// last one that did not; either is nil when that side was never chosen.
type EdgeResult struct {
	Min, Max           *mgl64.Vec3
	MinAngle, MaxAngle float64
}

// Points returns the set edge points in insertion order, Min before Max.
func (e EdgeResult) Points() []mgl64.Vec3 {
	pts := make([]mgl64.Vec3, 0, 2)
	if e.Min != nil {
		pts = append(pts, *e.Min)
	}
	if e.Max != nil {
		pts = append(pts, *e.Max)
	}
	return pts
}

// EdgeBetween reports whether visibility is discontinuous between two
// neighbouring samples: the hit status flips, or both hit at distances more
// than threshold apart.
func EdgeBetween(prev, curr CastSample, threshold float64) bool {
	if prev.Hit != curr.Hit {
		return true
	}
	return prev.Hit && curr.Hit && math.Abs(prev.Distance-curr.Distance) > threshold
}

// FindEdge binary searches the angle between from and to for the silhouette,
// casting once per configured iteration.
func (v *View) FindEdge(origin mgl64.Vec3, from, to CastSample) (EdgeResult, error) {
	res := EdgeResult{MinAngle: from.Angle, MaxAngle: to.Angle}
	for i := 0; i < v.cfg.EdgeResolveIterations; i++ {
		angle := (res.MinAngle + res.MaxAngle) / 2
		mid, err := v.cast(origin, angle)
		if err != nil {
			return EdgeResult{}, err
		}
		exceeded := math.Abs(from.Distance-mid.Distance) > v.cfg.EdgeDstThreshold
		pt := mid.Point
		if mid.Hit == from.Hit && !exceeded {
			res.MinAngle = angle
			res.Min = &pt
		} else {
			res.MaxAngle = angle
			res.Max = &pt
		}
	}
	return res, nil
}
