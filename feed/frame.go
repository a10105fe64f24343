// Package feed streams field of view meshes to external renderers over
// websockets.
package feed

import (
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"

	"fovmesh/fov"
)

// Viewer is one viewer's mesh on the wire. Vertices are in the viewer's
// local frame; Position and Facing place that frame in the world.
type Viewer struct {
	ID        string       `json:"id"`
	Position  mgl64.Vec3   `json:"position"`
	Facing    float64      `json:"facing"`
	Vertices  []mgl64.Vec3 `json:"vertices"`
	Triangles []int        `json:"triangles"`
	Visible   []fov.Target `json:"visible,omitempty"`
	Error     string       `json:"error,omitempty"`
}

// Frame is everything published for one tick.
type Frame struct {
	Seq     uint64   `json:"seq"`
	Viewers []Viewer `json:"viewers"`
}

// NewViewer converts a rebuild result. A failed rebuild carries its error and
// no geometry.
func NewViewer(res fov.Result, visible []fov.Target) Viewer {
	v := Viewer{
		ID:       res.ID,
		Position: res.Pose.Position,
		Facing:   res.Pose.Facing,
		Visible:  visible,
	}
	if res.Err != nil {
		v.Error = res.Err.Error()
		return v
	}
	if res.Mesh != nil {
		m := res.Mesh.Clone()
		v.Vertices = m.Vertices
		v.Triangles = m.Triangles
	}
	return v
}

// Hub holds the latest frame. One goroutine publishes; stream writers read.
type Hub struct {
	latest atomic.Pointer[Frame]
	seq    atomic.Uint64
}

// Publish stamps viewers with the next sequence number and makes them the
// latest frame. The hub owns viewers afterwards.
func (h *Hub) Publish(viewers []Viewer) uint64 {
	seq := h.seq.Add(1)
	h.latest.Store(&Frame{Seq: seq, Viewers: viewers})
	return seq
}

// Latest returns the newest frame, or nil before the first Publish.
func (h *Hub) Latest() *Frame {
	return h.latest.Load()
}
