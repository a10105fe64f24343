package main

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"fovmesh/fov"
)

var (
	backgroundColor = color.RGBA{12, 14, 20, 255}
	wallColor       = color.RGBA{90, 110, 170, 255}
	targetColor     = color.RGBA{240, 200, 60, 255}
	spottedColor    = color.RGBA{255, 80, 80, 255}
	playerColor     = color.RGBA{255, 0, 0, 255}
	sentryColor     = color.RGBA{0, 200, 255, 255}
	gizmoColor      = color.RGBA{255, 255, 255, 120}
	playerMeshColor = [4]float32{1, 1, 0.6, 0.35}
	sentryMeshColor = [4]float32{0.3, 0.8, 1, 0.25}
)

// newWhiteImage returns a 1x1 white source for DrawTriangles.
func newWhiteImage() *ebiten.Image {
	img := ebiten.NewImage(3, 3)
	img.Fill(color.White)
	return img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
}

// Draw renders walls, view meshes, targets and optional overlays.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	vs := g.viewers()
	for i, res := range g.results {
		if res.Err != nil || res.Mesh == nil {
			continue
		}
		clr := playerMeshColor
		if i > 0 {
			clr = sentryMeshColor
		}
		g.drawMesh(screen, res.Mesh.World(res.Pose), res.Mesh.Triangles, clr)
	}

	world := g.world.World()
	for _, seg := range world.Segments() {
		x0, y0 := toScreen(mgl64.Vec3{seg.A.X(), 0, seg.A.Y()})
		x1, y1 := toScreen(mgl64.Vec3{seg.B.X(), 0, seg.B.Y()})
		drawLine(screen, x0, y0, x1, y1, wallColor)
	}

	spotted := make(map[string]bool)
	for _, v := range vs {
		for _, t := range v.detector.Visible() {
			spotted[t.ID] = true
		}
	}
	for _, t := range world.Targets() {
		clr := targetColor
		if spotted[t.ID] {
			clr = spottedColor
		}
		drawMarker(screen, t.Position, clr)
	}

	for _, v := range vs {
		clr := playerColor
		if v.sentry {
			clr = sentryColor
		}
		drawMarker(screen, v.pose.Position, clr)
		if g.showGizmos {
			g.drawGizmos(screen, v)
		}
	}

	if *debugFlag {
		g.drawDebug(screen)
	}
}

// Layout reports the logical screen size used by Ebiten.
func (g *Game) Layout(_, _ int) (int, int) { return screenW, screenH }

// drawMesh fills a triangle list given in world coordinates.
func (g *Game) drawMesh(screen *ebiten.Image, verts []mgl64.Vec3, tris []int, clr [4]float32) {
	if len(verts) == 0 || len(verts) > math.MaxUint16 {
		return
	}
	g.vertices = g.vertices[:0]
	for _, v := range verts {
		g.vertices = append(g.vertices, ebiten.Vertex{
			DstX:   float32(v.X() * pixelsPerUnit),
			DstY:   float32(v.Z() * pixelsPerUnit),
			SrcX:   1,
			SrcY:   1,
			ColorR: clr[0],
			ColorG: clr[1],
			ColorB: clr[2],
			ColorA: clr[3],
		})
	}
	g.indices = g.indices[:0]
	for _, idx := range tris {
		g.indices = append(g.indices, uint16(idx))
	}
	screen.DrawTriangles(g.vertices, g.indices, g.whiteImage, &ebiten.DrawTrianglesOptions{})
}

// drawGizmos draws the view radius, the two cone edges and a line to every
// target the viewer currently sees.
func (g *Game) drawGizmos(screen *ebiten.Image, v *viewer) {
	cfg := v.view.Config()
	cx, cy := toScreen(v.pose.Position)

	prevX, prevY := toScreen(v.pose.Position.Add(fov.Direction(0).Mul(cfg.ViewRadius)))
	for i := 1; i <= gizmoCircleSegments; i++ {
		a := 360 * float64(i) / gizmoCircleSegments
		x, y := toScreen(v.pose.Position.Add(fov.Direction(a).Mul(cfg.ViewRadius)))
		drawLine(screen, prevX, prevY, x, y, gizmoColor)
		prevX, prevY = x, y
	}

	for _, half := range []float64{-cfg.ViewAngle / 2, cfg.ViewAngle / 2} {
		end := v.pose.Position.Add(v.pose.DirFromAngle(half, false).Mul(cfg.ViewRadius))
		x, y := toScreen(end)
		drawLine(screen, cx, cy, x, y, gizmoColor)
	}

	for _, t := range v.detector.Visible() {
		x, y := toScreen(t.Position)
		drawLine(screen, cx, cy, x, y, spottedColor)
	}
}

func (g *Game) drawDebug(screen *ebiten.Image) {
	vertices, triangles, failed := g.meshStats()
	var seq uint64
	if g.hub != nil {
		if f := g.hub.Latest(); f != nil {
			seq = f.Seq
		}
	}
	caster := "cpu"
	if g.gpuCaster != nil {
		caster = g.gpuCaster.DeviceName()
	}
	msg := fmt.Sprintf("FPS: %.1f  TPS: %.1f\nRebuild: %.2f ms (%d viewers, %s)\nMesh: %d verts, %d tris, %d failed\nFeed frame: %d\nWASD move, mouse look, G gizmos, R regenerate, F1 debug",
		ebiten.ActualFPS(), ebiten.ActualTPS(), g.lastBuild.Seconds()*1000, len(g.results), caster,
		vertices, triangles, failed, seq)
	ebitenutil.DebugPrint(screen, msg)
}

// drawMarker fills a small disc at a world position.
func drawMarker(screen *ebiten.Image, p mgl64.Vec3, clr color.Color) {
	cx, cy := toScreen(p)
	for _, offset := range markerFootprint {
		x, y := cx+offset.dx, cy+offset.dy
		if x >= 0 && x < screenW && y >= 0 && y < screenH {
			screen.Set(x, y, clr)
		}
	}
}

// drawLine plots a line segment using Bresenham's integer algorithm.
func drawLine(screen *ebiten.Image, x0, y0, x1, y1 int, clr color.Color) {
	dx := int(math.Abs(float64(x1 - x0)))
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -int(math.Abs(float64(y1 - y0)))
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		if x0 >= 0 && x0 < screenW && y0 >= 0 && y0 < screenH {
			screen.Set(x0, y0, clr)
		}
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}
