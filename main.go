package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"math/rand"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"

	"fovmesh/feed"
	"fovmesh/scene"
)

func main() {
	flag.Parse()
	runtime.GOMAXPROCS(runtime.NumCPU())

	if *cpuProfileFlag != "" {
		stop, err := startCPUProfile(*cpuProfileFlag)
		if err != nil {
			log.Fatalf("starting CPU profile: %v", err)
		}
		defer stop()
	}

	cfg, err := resolveConfig()
	if err != nil {
		log.Fatalf("field of view config: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	seed := *seedFlag
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	world, procedural, err := initialWorld(seed)
	if err != nil {
		log.Fatalf("loading scene: %v", err)
	}

	var hub *feed.Hub
	if *serveAddrFlag != "" {
		hub = &feed.Hub{}
	}

	g, err := newGame(ctx, gameOptions{
		cfg:        cfg,
		world:      world,
		procedural: procedural,
		seed:       seed,
		sentries:   *sentriesFlag,
		useOpenCL:  *openCLFlag,
		hub:        hub,
		showGizmos: *showGizmosFlag,
	})
	if err != nil {
		log.Fatalf("creating game: %v", err)
	}

	if *autoWalkFlag > 0 {
		g.enableAutoWalk(*autoWalkFlag)
	}

	var watchDone <-chan struct{}
	if !procedural {
		onErr := func(err error) { log.Printf("scene reload: %v", err) }
		watchDone, err = scene.Watch(ctx, *scenePathFlag, g.installWorld, onErr)
		if err != nil {
			log.Printf("watching scene, hot reload disabled: %v", err)
		}
	}

	if hub != nil {
		stopFeed, err := serveFeed(*serveAddrFlag, feed.NewServer(hub, *feedFPSFlag))
		if err != nil {
			log.Fatalf("starting mesh feed: %v", err)
		}
		defer stopFeed()
	}

	ebiten.SetWindowSize(screenW, screenH)
	ebiten.SetWindowTitle("Field of View")
	ebiten.SetTPS(int(defaultTPS))
	if err := ebiten.RunGame(g); err != nil {
		log.Printf("game exited: %v", err)
	}
	// The watcher may still be installing a scene on the caster.
	cancel()
	if watchDone != nil {
		<-watchDone
	}
	g.Close()
	if *memProfileFlag != "" {
		if err := writeHeapProfile(*memProfileFlag); err != nil {
			log.Printf("writing heap profile: %v", err)
		}
	}
}

// initialWorld loads -scene, or generates walls around the spawn point. The
// second result is true for generated worlds.
func initialWorld(seed int64) (*scene.World, bool, error) {
	if *scenePathFlag != "" {
		w, err := scene.Load(*scenePathFlag)
		return w, false, err
	}
	rng := rand.New(rand.NewSource(seed + 1))
	return generateWorld(rng, mgl64.Vec2{worldW / 2, worldH / 2}), true, nil
}

// serveFeed starts the mesh feed in the background. The returned func shuts
// it down.
func serveFeed(addr string, handler http.Handler) (func(), error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	log.Printf("mesh feed on ws://%v/stream", l.Addr())

	hs := &http.Server{
		Handler:     handler,
		ReadTimeout: time.Second * 10,
	}
	go func() {
		if err := hs.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("mesh feed: %v", err)
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), feedShutdownTimeout)
		defer cancel()
		if err := hs.Shutdown(ctx); err != nil {
			log.Printf("mesh feed shutdown: %v", err)
		}
	}, nil
}
