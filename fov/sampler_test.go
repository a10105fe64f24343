package fov

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAngles(t *testing.T) {
	tests := []struct {
		name      string
		facing    float64
		viewAngle float64
		res       float64
		wantLen   int
		first     float64
		last      float64
	}{
		{"ninety degrees one per degree", 0, 90, 1, 91, -45, 45},
		{"offset facing", 30, 90, 1, 91, -15, 75},
		{"half resolution", 0, 60, 0.5, 31, -30, 30},
		{"full circle", 0, 360, 1, 361, -180, 180},
		{"zero angle", 12, 0, 1, 1, 12, 12},
		{"resolution rounds to zero", 0, 1, 0.4, 1, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Angles(tt.facing, tt.viewAngle, tt.res)
			require.Len(t, got, tt.wantLen)
			assert.InDelta(t, tt.first, got[0], 1e-9)
			assert.InDelta(t, tt.last, got[len(got)-1], 1e-9)
			for i := 1; i < len(got); i++ {
				assert.Greater(t, got[i], got[i-1])
			}
		})
	}
}

func TestStepCountRoundsHalfToEven(t *testing.T) {
	assert.Equal(t, 2, StepCount(5, 0.5))
	assert.Equal(t, 4, StepCount(7, 0.5))
	assert.Equal(t, 0, StepCount(-10, 1))
	assert.Equal(t, 90, StepCount(90, 1))
}

func TestStepCountClampsHugeSweeps(t *testing.T) {
	assert.Equal(t, MaxSteps, StepCount(360, 1e20))
	assert.Equal(t, MaxSteps, StepCount(math.Inf(1), 1))
	assert.Len(t, Angles(0, 360, 1e20), MaxSteps+1)
}
