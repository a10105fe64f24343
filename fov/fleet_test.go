package fov

import (
	"context"
	"fmt"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFleetRebuild(t *testing.T) {
	good, err := NewView(testConfig(), &wallX{X: 2, ZMin: -10, ZMax: 10})
	require.NoError(t, err)
	bad, err := NewView(testConfig(), brokenCaster)
	require.NoError(t, err)

	var jobs []Job
	for i := 0; i < 12; i++ {
		v := good
		if i%4 == 3 {
			v = bad
		}
		jobs = append(jobs, Job{ID: fmt.Sprint(i), View: v, Pose: Pose{Position: mgl64.Vec3{0, 0, float64(i) / 10}}})
	}

	results, err := NewFleet(3).Rebuild(context.Background(), jobs)
	require.NoError(t, err)
	require.Len(t, results, len(jobs))
	for i, res := range results {
		assert.Equal(t, jobs[i].ID, res.ID)
		assert.Equal(t, jobs[i].Pose, res.Pose)
		if i%4 == 3 {
			assert.ErrorIs(t, res.Err, errOracle)
			assert.Nil(t, res.Mesh)
			continue
		}
		require.NoError(t, res.Err)
		assert.Equal(t, 60, res.Mesh.TriangleCount())
	}
}

func TestFleetRebuildCanceled(t *testing.T) {
	v, err := NewView(testConfig(), emptySpace)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = NewFleet(0).Rebuild(ctx, []Job{{ID: "a", View: v}})
	assert.ErrorIs(t, err, context.Canceled)
}
