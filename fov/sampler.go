package fov

import "math"

// StepCount is the number of angular steps across the cone. It rounds half to
// even, matching the engine rounding the sweep was tuned against, and never
// exceeds MaxSteps.
func StepCount(viewAngle, resolution float64) int {
	n := math.RoundToEven(viewAngle * resolution)
	switch {
	case n < 0 || math.IsNaN(n):
		return 0
	case n > MaxSteps:
		return MaxSteps
	}
	return int(n)
}

// Angles returns the absolute sweep angles for a cone centered on facing.
// There are StepCount+1 of them covering both cone edges; a zero step count
// yields facing alone.
func Angles(facing, viewAngle, resolution float64) []float64 {
	steps := StepCount(viewAngle, resolution)
	if steps == 0 {
		return []float64{facing}
	}
	stepSize := viewAngle / float64(steps)
	start := facing - viewAngle/2
	angles := make([]float64, steps+1)
	for i := range angles {
		angles[i] = start + stepSize*float64(i)
	}
	return angles
}
