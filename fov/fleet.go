package fov

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Job asks for one viewer's mesh.
type Job struct {
	ID   string
	View *View
	Pose Pose
}

// Result carries one viewer's mesh, or the error that left it without one
// this tick.
type Result struct {
	ID   string
	Pose Pose
	Mesh *Mesh
	Err  error
}

// Fleet rebuilds independent viewers concurrently.
type Fleet struct {
	limit int
}

// NewFleet bounds concurrency to limit goroutines; limit <= 0 uses NumCPU.
func NewFleet(limit int) *Fleet {
	if limit <= 0 {
		limit = runtime.NumCPU()
	}
	return &Fleet{limit: limit}
}

// Rebuild builds every job's mesh. Results keep job order. A viewer whose
// oracle fails gets a Result with Err set; the call itself fails only when
// ctx is done.
func (f *Fleet) Rebuild(ctx context.Context, jobs []Job) ([]Result, error) {
	results := make([]Result, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.limit)
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			mesh, err := job.View.Build(job.Pose)
			results[i] = Result{ID: job.ID, Pose: job.Pose, Mesh: mesh, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
