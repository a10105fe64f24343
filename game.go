package main

import (
	"context"
	"errors"
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"

	"fovmesh/feed"
	"fovmesh/fov"
	"fovmesh/scene"
)

// viewer is one field of view in the demo: the player or a sentry.
type viewer struct {
	id       string
	pose     fov.Pose
	view     *fov.View
	detector *fov.Detector

	// Sentries oscillate around baseFacing; phase is in degrees.
	sentry     bool
	baseFacing float64
	phase      float64
}

// Game holds the demo world, its viewers and the latest rebuilt meshes.
type Game struct {
	ctx   context.Context
	world *liveWorld
	cfg   fov.Config

	player   *viewer
	sentries []*viewer
	fleet    *fov.Fleet
	results  []fov.Result
	hub      *feed.Hub

	gpuCaster *openCLCaster

	levelRand   *rand.Rand
	procedural  bool
	showGizmos  bool
	lastTick    time.Time
	lastBuild   time.Duration
	lastErrLog  time.Time
	failedTicks int

	autoWalk           bool
	autoWalkDeadline   time.Time
	autoWalkRand       *rand.Rand
	autoWalkDirX       float64
	autoWalkDirZ       float64
	autoWalkFrameCount int

	whiteImage *ebiten.Image
	vertices   []ebiten.Vertex
	indices    []uint16
}

// gameOptions collects what newGame needs from flags and main.
type gameOptions struct {
	cfg        fov.Config
	world      *scene.World
	procedural bool
	seed       int64
	sentries   int
	useOpenCL  bool
	hub        *feed.Hub
	showGizmos bool
}

// newGame constructs a fully initialized Game instance. On error any device
// resources it acquired are released.
func newGame(ctx context.Context, opts gameOptions) (_ *Game, err error) {
	g := &Game{
		ctx:          ctx,
		world:        newLiveWorld(opts.world),
		cfg:          opts.cfg,
		fleet:        fov.NewFleet(0),
		hub:          opts.hub,
		levelRand:    rand.New(rand.NewSource(opts.seed)),
		procedural:   opts.procedural,
		showGizmos:   opts.showGizmos,
		autoWalkRand: rand.New(rand.NewSource(opts.seed + 2)),
		whiteImage:   newWhiteImage(),
	}
	defer func() {
		if err != nil {
			g.Close()
		}
	}()
	var caster fov.Caster = g.world
	if opts.useOpenCL {
		gpu, err := newOpenCLCaster(g.world, opts.world.Segments())
		if err != nil {
			log.Printf("OpenCL caster unavailable, casting on the CPU: %v", err)
		} else {
			log.Printf("OpenCL caster enabled (device: %s)", gpu.DeviceName())
			g.gpuCaster = gpu
			caster = gpu
		}
	}

	spawn := mgl64.Vec3{worldW / 2, 0, worldH / 2}
	player, err := g.newViewer(caster, fov.Pose{Position: spawn, Facing: -90})
	if err != nil {
		return nil, err
	}
	g.player = player

	for i := 0; i < opts.sentries; i++ {
		pos := g.world.freeSpot(g.levelRand, 1.5)
		s, err := g.newViewer(caster, fov.Pose{Position: pos, Facing: g.levelRand.Float64() * 360})
		if err != nil {
			return nil, err
		}
		s.sentry = true
		s.baseFacing = s.pose.Facing
		s.phase = g.levelRand.Float64() * 360
		g.sentries = append(g.sentries, s)
	}
	return g, nil
}

func (g *Game) newViewer(caster fov.Caster, pose fov.Pose) (*viewer, error) {
	view, err := fov.NewView(g.cfg, caster)
	if err != nil {
		return nil, err
	}
	det, err := fov.NewDetector(g.cfg, g.world, nil)
	if err != nil {
		return nil, err
	}
	return &viewer{id: uuid.NewString(), pose: pose, view: view, detector: det}, nil
}

// installWorld swaps in a new scene. It is safe to call from the scene
// watcher goroutine.
func (g *Game) installWorld(w *scene.World) {
	g.world.Swap(w)
	if g.gpuCaster != nil {
		if err := g.gpuCaster.SetSegments(w.Segments()); err != nil {
			log.Printf("uploading walls to OpenCL: %v", err)
		}
	}
	log.Printf("scene installed: %d walls, %d targets", len(w.Segments()), len(w.Targets()))
}

// viewers returns the player followed by the sentries.
func (g *Game) viewers() []*viewer {
	return append([]*viewer{g.player}, g.sentries...)
}

// Update moves the player and sentries, then rebuilds every mesh and runs
// target detection.
func (g *Game) Update() error {
	now := time.Now()
	dt := 1.0 / defaultTPS
	if !g.lastTick.IsZero() {
		dt = math.Min(now.Sub(g.lastTick).Seconds(), 0.1)
	}
	g.lastTick = now

	g.handleControls()
	g.movePlayer(dt)
	g.sweepSentries(dt)

	if err := g.refreshViews(); err != nil {
		if errors.Is(err, context.Canceled) {
			return ebiten.Termination
		}
		return err
	}
	g.detectTargets()
	g.publish()
	return nil
}

// sweepSentries swings every sentry back and forth around its base facing.
func (g *Game) sweepSentries(dt float64) {
	for _, s := range g.sentries {
		s.phase = math.Mod(s.phase+sentrySpinDeg*dt, 360)
		s.pose.Facing = s.baseFacing + sentrySweepDeg/2*math.Sin(mgl64.DegToRad(s.phase))
	}
}

// detectTargets polls each viewer's detector. Failures are logged and leave
// that viewer with nothing visible until the next successful pass.
func (g *Game) detectTargets() {
	for _, v := range g.viewers() {
		if _, err := v.detector.Poll(v.pose); err != nil {
			g.logThrottled("detect %s: %v", v.id, err)
		}
	}
}

// publish hands the latest meshes to feed clients.
func (g *Game) publish() {
	if g.hub == nil || len(g.results) == 0 {
		return
	}
	vs := g.viewers()
	out := make([]feed.Viewer, 0, len(g.results))
	for i, res := range g.results {
		var visible []fov.Target
		if i < len(vs) {
			visible = vs[i].detector.Visible()
		}
		out = append(out, feed.NewViewer(res, visible))
	}
	g.hub.Publish(out)
}

// logThrottled logs at most once per errorLogInterval and counts the rest.
func (g *Game) logThrottled(format string, args ...any) {
	g.failedTicks++
	now := time.Now()
	if now.Sub(g.lastErrLog) < errorLogInterval {
		return
	}
	if g.failedTicks > 1 {
		log.Printf("(%d failures since last report)", g.failedTicks-1)
	}
	log.Printf(format, args...)
	g.lastErrLog = now
	g.failedTicks = 0
}

// regenerate builds a fresh procedural scene around the player.
func (g *Game) regenerate() {
	p := g.player.pose.Position
	g.installWorld(generateWorld(g.levelRand, mgl64.Vec2{p.X(), p.Z()}))
}

// Close releases device resources.
func (g *Game) Close() {
	if g.gpuCaster != nil {
		g.gpuCaster.Close()
		g.gpuCaster = nil
	}
}
