package main

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// gridOffset is a pixel offset from a marker's center.
type gridOffset struct {
	dx int
	dy int
}

// markerFootprint lists the pixels of a filled disc of radius markerRad.
var markerFootprint = precomputeFootprint(markerRad)

func precomputeFootprint(radius int) []gridOffset {
	footprint := make([]gridOffset, 0, (2*radius+1)*(2*radius+1))
	r2 := radius * radius
	for y := -radius; y <= radius; y++ {
		for x := -radius; x <= radius; x++ {
			if x*x+y*y <= r2 {
				footprint = append(footprint, gridOffset{dx: x, dy: y})
			}
		}
	}
	return footprint
}

// toScreen maps a world position on the XZ plane to pixel coordinates.
func toScreen(p mgl64.Vec3) (int, int) {
	return int(math.Round(p.X() * pixelsPerUnit)), int(math.Round(p.Z() * pixelsPerUnit))
}
