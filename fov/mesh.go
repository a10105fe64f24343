package fov

import "github.com/go-gl/mathgl/mgl64"

// Mesh is a triangle fan around the viewer. Vertex 0 is the local origin and
// every triangle is (0, i+1, i+2).
type Mesh struct {
	Vertices  []mgl64.Vec3
	Triangles []int
}

// BuildMesh converts world boundary points into a local-space fan. Each point
// is pushed cutaway units along the local forward axis so the mask overlaps
// the obstacle it stops at.
func BuildMesh(pose Pose, points []mgl64.Vec3, cutaway float64) *Mesh {
	n := len(points)
	tris := n - 1
	if tris < 0 {
		tris = 0
	}
	m := &Mesh{
		Vertices:  make([]mgl64.Vec3, n+1),
		Triangles: make([]int, 0, tris*3),
	}
	toLocal := pose.WorldToLocal()
	offset := mgl64.Vec3{cutaway, 0, 0}
	for i, p := range points {
		m.Vertices[i+1] = mgl64.TransformCoordinate(p, toLocal).Add(offset)
		if i < n-1 {
			m.Triangles = append(m.Triangles, 0, i+1, i+2)
		}
	}
	return m
}

// TriangleCount is len(Triangles)/3.
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles) / 3
}

// Clone returns a deep copy safe to hand to another goroutine.
func (m *Mesh) Clone() *Mesh {
	c := &Mesh{
		Vertices:  make([]mgl64.Vec3, len(m.Vertices)),
		Triangles: make([]int, len(m.Triangles)),
	}
	copy(c.Vertices, m.Vertices)
	copy(c.Triangles, m.Triangles)
	return c
}

// World returns the vertices mapped back into world space for pose.
func (m *Mesh) World(pose Pose) []mgl64.Vec3 {
	toWorld := pose.LocalToWorld()
	out := make([]mgl64.Vec3, len(m.Vertices))
	for i, v := range m.Vertices {
		out[i] = mgl64.TransformCoordinate(v, toWorld)
	}
	return out
}
