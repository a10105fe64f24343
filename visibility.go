package main

import (
	"time"

	"fovmesh/fov"
)

// refreshViews rebuilds every viewer's mesh in parallel. A viewer whose
// rebuild fails keeps no mesh for this tick; the error is logged.
func (g *Game) refreshViews() error {
	vs := g.viewers()
	jobs := make([]fov.Job, len(vs))
	for i, v := range vs {
		jobs[i] = fov.Job{ID: v.id, View: v.view, Pose: v.pose}
	}
	start := time.Now()
	results, err := g.fleet.Rebuild(g.ctx, jobs)
	if err != nil {
		return err
	}
	g.lastBuild = time.Since(start)
	for _, res := range results {
		if res.Err != nil {
			g.logThrottled("rebuild %s: %v", res.ID, res.Err)
		}
	}
	g.results = results
	return nil
}

// meshStats sums vertices and triangles over the latest results.
func (g *Game) meshStats() (vertices, triangles, failed int) {
	for _, res := range g.results {
		if res.Err != nil || res.Mesh == nil {
			failed++
			continue
		}
		vertices += len(res.Mesh.Vertices)
		triangles += res.Mesh.TriangleCount()
	}
	return vertices, triangles, failed
}
