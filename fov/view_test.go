package fov

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewViewRejectsBadInput(t *testing.T) {
	_, err := NewView(testConfig(), nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	cfg := testConfig()
	cfg.ViewRadius = 0
	_, err = NewView(cfg, emptySpace)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	cfg = testConfig()
	cfg.MeshResolution = 1e20
	_, err = NewView(cfg, emptySpace)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestPolygonWallAhead(t *testing.T) {
	wall := &wallX{X: 2, ZMin: -10, ZMax: 10}
	v, err := NewView(testConfig(), wall)
	require.NoError(t, err)

	poly, err := v.Polygon(Pose{})
	require.NoError(t, err)
	assert.Equal(t, 61, poly.Samples)
	assert.Zero(t, poly.Edges)
	assert.Equal(t, 61, poly.Casts)
	require.Len(t, poly.Points, 61)
	for _, p := range poly.Points {
		assert.InDelta(t, 2, p.X(), 1e-9)
		d := p.Len()
		assert.GreaterOrEqual(t, d, 2-1e-9)
		assert.LessOrEqual(t, d, 2/math.Cos(mgl64.DegToRad(30))+1e-9)
	}

	mesh, err := v.Build(Pose{})
	require.NoError(t, err)
	assert.Len(t, mesh.Vertices, 62)
	assert.Equal(t, 60, mesh.TriangleCount())
}

func TestPolygonNoObstacles(t *testing.T) {
	cfg := testConfig()
	v, err := NewView(cfg, emptySpace)
	require.NoError(t, err)

	pose := Pose{Position: mgl64.Vec3{4, 0, 4}, Facing: 135}
	mesh, err := v.Build(pose)
	require.NoError(t, err)
	require.Len(t, mesh.Vertices, 62)
	offset := mgl64.Vec3{cfg.MaskCutawayDst, 0, 0}
	for _, vert := range mesh.Vertices[1:] {
		assert.InDelta(t, 5, vert.Sub(offset).Len(), 1e-9)
	}
}

func TestPolygonRefinesEdges(t *testing.T) {
	// The wall ends at 12 degrees; samples at 10 and 15 degrees straddle it.
	edgeZ := 5 * math.Tan(mgl64.DegToRad(12))
	wall := &wallX{X: 5, ZMin: -10, ZMax: edgeZ}
	cfg := testConfig()
	cfg.ViewAngle = 30
	cfg.ViewRadius = 10
	cfg.MeshResolution = 0.2
	cfg.EdgeResolveIterations = 4
	v, err := NewView(cfg, wall)
	require.NoError(t, err)

	poly, err := v.Polygon(Pose{})
	require.NoError(t, err)
	assert.Equal(t, 7, poly.Samples)
	assert.Equal(t, 1, poly.Edges)
	assert.Equal(t, 7+4, poly.Casts)
	assert.Equal(t, int64(poly.Casts), wall.calls.Load())
	// Both sides of the edge were visited, so two points were inserted.
	assert.Len(t, poly.Points, 9)
}

func TestFindEdgeConverges(t *testing.T) {
	edgeZ := 5 * math.Tan(mgl64.DegToRad(12))
	wall := &wallX{X: 5, ZMin: -10, ZMax: edgeZ}
	cfg := testConfig()
	cfg.ViewRadius = 10

	var prevWidth float64 = 5
	prevErr := math.Inf(1)
	for iters := 1; iters <= 8; iters++ {
		cfg.EdgeResolveIterations = iters
		v, err := NewView(cfg, wall)
		require.NoError(t, err)
		from, err := v.cast(mgl64.Vec3{}, 10)
		require.NoError(t, err)
		to, err := v.cast(mgl64.Vec3{}, 15)
		require.NoError(t, err)
		require.True(t, from.Hit)
		require.False(t, to.Hit)

		edge, err := v.FindEdge(mgl64.Vec3{}, from, to)
		require.NoError(t, err)
		assert.LessOrEqual(t, edge.MinAngle, 12.0)
		assert.GreaterOrEqual(t, edge.MaxAngle, 12.0)
		width := edge.MaxAngle - edge.MinAngle
		assert.InDelta(t, 5/math.Pow(2, float64(iters)), width, 1e-9)
		assert.Less(t, width, prevWidth)
		prevWidth = width

		// The first midpoint, 12.5 degrees, already misses.
		if iters < 2 {
			assert.Nil(t, edge.Min)
			continue
		}
		require.NotNil(t, edge.Min)
		minAngle := mgl64.RadToDeg(math.Atan2(edge.Min.Z(), edge.Min.X()))
		assert.InDelta(t, edge.MinAngle, minAngle, 1e-9)
		edgeErr := math.Abs(12 - minAngle)
		assert.LessOrEqual(t, edgeErr, prevErr)
		prevErr = edgeErr
	}
}

func TestFindEdgeZeroIterations(t *testing.T) {
	cfg := testConfig()
	cfg.EdgeResolveIterations = 0
	v, err := NewView(cfg, brokenCaster)
	require.NoError(t, err)

	edge, err := v.FindEdge(mgl64.Vec3{}, CastSample{Angle: 1}, CastSample{Angle: 2})
	require.NoError(t, err)
	assert.Nil(t, edge.Min)
	assert.Nil(t, edge.Max)
	assert.Empty(t, edge.Points())
}

func TestEdgeBetween(t *testing.T) {
	hit := func(d float64) CastSample { return CastSample{CastResult: CastResult{Hit: true, Distance: d}} }
	miss := CastSample{CastResult: CastResult{Distance: 5}}
	tests := []struct {
		name       string
		prev, curr CastSample
		want       bool
	}{
		{"hit to miss", hit(2), miss, true},
		{"miss to hit", miss, hit(2), true},
		{"both miss", miss, miss, false},
		{"close hits", hit(2), hit(2.5), false},
		{"threshold is exclusive", hit(2), hit(3), false},
		{"far hits", hit(2), hit(3.5), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EdgeBetween(tt.prev, tt.curr, 1))
		})
	}
}

func TestBuildIsIdempotent(t *testing.T) {
	wall := &wallX{X: 3, ZMin: -1, ZMax: 2}
	cfg := testConfig()
	cfg.EdgeResolveIterations = 5
	v, err := NewView(cfg, wall)
	require.NoError(t, err)

	pose := Pose{Position: mgl64.Vec3{0.5, 0, 0.2}, Facing: 10}
	a, err := v.Build(pose)
	require.NoError(t, err)
	b, err := v.Build(pose)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestBuildFailsOnOracleError(t *testing.T) {
	v, err := NewView(testConfig(), brokenCaster)
	require.NoError(t, err)
	mesh, err := v.Build(Pose{})
	assert.Nil(t, mesh)
	assert.ErrorIs(t, err, errOracle)
}

func TestSweepUsesBatchCaster(t *testing.T) {
	b := &batchWall{wallX: &wallX{X: 2, ZMin: -10, ZMax: 10}}
	v, err := NewView(testConfig(), b)
	require.NoError(t, err)

	samples, err := v.Sweep(Pose{})
	require.NoError(t, err)
	assert.Len(t, samples, 61)
	assert.Equal(t, int64(1), b.batches.Load())
	assert.InDelta(t, -30, samples[0].Angle, 1e-9)

	b.short = true
	_, err = v.Sweep(Pose{})
	assert.Error(t, err)
}
