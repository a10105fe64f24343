package main

import (
	"time"

	"fovmesh/scene"
)

// World, rendering and movement constants for the demo. World units map to
// pixelsPerUnit screen pixels; the ground plane is X (right) by Z (down).
const (
	worldW, worldH        = 64, 48
	pixelsPerUnit         = 12
	screenW               = worldW * pixelsPerUnit
	screenH               = worldH * pixelsPerUnit
	defaultTPS            = 60.0
	moveSpeed             = 6.0 // units per second
	playerRadius          = 0.4
	markerRad             = 3 // pixels
	wallSegments          = 18
	wallMinLen            = 4.0
	wallMaxLen            = 14.0
	wallThickness         = 0.6
	wallThicknessVariance = 0.8
	wallExclusionRadius   = 4.0
	targetCount           = 14
	targetHeight          = 0.5
	sentrySpinDeg         = 40.0 // degrees per second
	sentrySweepDeg        = 120.0
	gizmoCircleSegments   = 64
	errorLogInterval      = 2 * time.Second
	feedShutdownTimeout   = 5 * time.Second
)

// Field of view defaults tuned for the demo's world scale.
const (
	defaultViewRadius     = 14.0
	defaultEdgeIterations = 6
	defaultEdgeThreshold  = 0.5
)

// Layers queried by the demo's views.
const (
	obstacleLayers = scene.LayerWalls
	targetLayers   = scene.LayerTargets
)
