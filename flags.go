package main

import (
	"flag"

	"fovmesh/fov"
)

// Command-line flags. The fov flags override values loaded from -config only
// when given explicitly.
var (
	// configPathFlag names a TOML file with field of view settings.
	configPathFlag = flag.String("config", "", "TOML file with field of view settings")

	// scenePathFlag names a YAML scene; empty generates walls procedurally.
	scenePathFlag = flag.String("scene", "", "YAML scene file (walls, boxes, targets); reloaded on change")

	seedFlag = flag.Int64("seed", 0, "seed for procedural walls and sentry placement (0 = time based)")

	viewAngleFlag      = flag.Float64("view-angle", 90, "view cone angle in degrees (0-360)")
	viewRadiusFlag     = flag.Float64("view-radius", defaultViewRadius, "view radius in world units")
	meshResolutionFlag = flag.Float64("mesh-resolution", 1, "sweep samples per degree")
	edgeIterationsFlag = flag.Int("edge-iterations", defaultEdgeIterations, "binary search iterations per visibility edge")
	edgeThresholdFlag  = flag.Float64("edge-threshold", defaultEdgeThreshold, "distance jump that marks an edge between two hits")
	detectIntervalFlag = flag.Float64("detect-interval", 0.1, "seconds between target detection passes")
	maskCutawayFlag    = flag.Float64("mask-cutaway", 0.15, "push mesh vertices this far into obstacles")

	// sentriesFlag adds rotating guards, each with its own field of view.
	sentriesFlag = flag.Int("sentries", 3, "number of rotating sentries")

	// openCLFlag batches the initial sweep casts on an OpenCL device.
	openCLFlag = flag.Bool("opencl", false, "cast sweep rays on an OpenCL device (requires -tags opencl)")

	// serveAddrFlag publishes meshes to websocket clients.
	serveAddrFlag = flag.String("serve", "", "address for the mesh feed (/stream websocket, /frame JSON), e.g. :9000")

	feedFPSFlag = flag.Float64("feed-fps", 30, "maximum frames per second sent to each feed client")

	// showGizmosFlag draws the radius circle, cone edges and target lines.
	showGizmosFlag = flag.Bool("gizmos", true, "draw view radius, cone edges and lines to visible targets")

	// debugFlag enables the FPS and sweep statistics overlay.
	debugFlag = flag.Bool("debug", false, "show FPS and sweep statistics overlay")

	// autoWalkFlag walks the player randomly for the given duration.
	autoWalkFlag = flag.Duration("auto-walk", 0, "walk randomly for this long after start")

	cpuProfileFlag = flag.String("cpuprofile", "", "write a CPU profile to this path while running")
	memProfileFlag = flag.String("memprofile", "", "write a heap profile to this path on exit")
)

// resolveConfig loads -config when set and applies explicitly given flags.
func resolveConfig() (fov.Config, error) {
	cfg := fov.DefaultConfig()
	cfg.ViewRadius = defaultViewRadius
	cfg.EdgeResolveIterations = defaultEdgeIterations
	cfg.EdgeDstThreshold = defaultEdgeThreshold
	cfg.ObstacleMask = obstacleLayers
	cfg.TargetMask = targetLayers
	if *configPathFlag != "" {
		loaded, err := fov.LoadConfigOver(*configPathFlag, cfg)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "view-angle":
			cfg.ViewAngle = *viewAngleFlag
		case "view-radius":
			cfg.ViewRadius = *viewRadiusFlag
		case "mesh-resolution":
			cfg.MeshResolution = *meshResolutionFlag
		case "edge-iterations":
			cfg.EdgeResolveIterations = *edgeIterationsFlag
		case "edge-threshold":
			cfg.EdgeDstThreshold = *edgeThresholdFlag
		case "detect-interval":
			cfg.DetectInterval = *detectIntervalFlag
		case "mask-cutaway":
			cfg.MaskCutawayDst = *maskCutawayFlag
		}
	})
	return cfg, cfg.Validate()
}
