package main

import (
	"image"
	"math"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// enableAutoWalk schedules scripted movement for a limited duration.
func (g *Game) enableAutoWalk(duration time.Duration) {
	g.autoWalk = true
	g.autoWalkDeadline = time.Now().Add(duration)
	if g.autoWalkRand == nil {
		g.autoWalkRand = rand.New(rand.NewSource(time.Now().UnixNano() + 3))
	}
	g.autoWalkFrameCount = 0
}

// movePlayer applies movement and look input for one tick of dt seconds.
func (g *Game) movePlayer(dt float64) {
	dx, dz := g.movementVector()
	step := mgl64.Vec3{dx * moveSpeed * dt, 0, dz * moveSpeed * dt}
	pos := g.player.pose.Position
	if step.Len() > 0 && !g.world.blocked(pos, step) {
		next := pos.Add(step)
		next[0] = mgl64.Clamp(next[0], playerRadius, worldW-playerRadius)
		next[2] = mgl64.Clamp(next[2], playerRadius, worldH-playerRadius)
		g.player.pose.Position = next
	}

	if g.autoWalk && (dx != 0 || dz != 0) {
		g.player.pose.Facing = mgl64.RadToDeg(math.Atan2(dz, dx))
		return
	}
	g.lookAtCursor()
}

// lookAtCursor turns the player toward the mouse cursor.
func (g *Game) lookAtCursor() {
	cx, cy := ebiten.CursorPosition()
	if !image.Pt(cx, cy).In(image.Rect(0, 0, screenW, screenH)) {
		return
	}
	p := g.player.pose.Position
	wx := float64(cx)/pixelsPerUnit - p.X()
	wz := float64(cy)/pixelsPerUnit - p.Z()
	if wx == 0 && wz == 0 {
		return
	}
	g.player.pose.Facing = mgl64.RadToDeg(math.Atan2(wz, wx))
}

// movementVector selects either manual or automatic movement direction.
func (g *Game) movementVector() (float64, float64) {
	if g.autoWalk {
		if time.Now().After(g.autoWalkDeadline) {
			g.autoWalk = false
			return 0, 0
		}
		return g.autoWalkVector()
	}
	return manualMovementVector()
}

// manualMovementVector returns the WASD direction, normalized on diagonals.
func manualMovementVector() (float64, float64) {
	dx, dz := 0.0, 0.0
	if ebiten.IsKeyPressed(ebiten.KeyW) {
		dz--
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) {
		dz++
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) {
		dx--
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) {
		dx++
	}
	if dx != 0 && dz != 0 {
		dx *= 0.7071
		dz *= 0.7071
	}
	return dx, dz
}

// autoWalkVector returns a pseudo-random, collision-aware movement direction.
func (g *Game) autoWalkVector() (float64, float64) {
	pos := g.player.pose.Position
	for attempts := 0; attempts < 5; attempts++ {
		if g.autoWalkFrameCount <= 0 {
			g.randomizeAutoWalkDirection()
		}
		probe := mgl64.Vec3{g.autoWalkDirX, 0, g.autoWalkDirZ}.Mul(moveSpeed / defaultTPS)
		next := pos.Add(probe)
		if next.X() > playerRadius && next.X() < worldW-playerRadius &&
			next.Z() > playerRadius && next.Z() < worldH-playerRadius &&
			!g.world.blocked(pos, probe) {
			g.autoWalkFrameCount--
			return g.autoWalkDirX, g.autoWalkDirZ
		}
		g.autoWalkFrameCount = 0
	}
	return 0, 0
}

// randomizeAutoWalkDirection chooses a new heading for automatic walking.
func (g *Game) randomizeAutoWalkDirection() {
	angle := g.autoWalkRand.Float64() * 2 * math.Pi
	g.autoWalkDirX = math.Cos(angle)
	g.autoWalkDirZ = math.Sin(angle)
	g.autoWalkFrameCount = 20 + g.autoWalkRand.Intn(50)
}

// handleControls processes toggle hotkeys.
func (g *Game) handleControls() {
	if inpututil.IsKeyJustPressed(ebiten.KeyG) {
		g.showGizmos = !g.showGizmos
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		*debugFlag = !*debugFlag
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) && g.procedural {
		g.regenerate()
	}
}
