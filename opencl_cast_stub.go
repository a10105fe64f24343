//go:build !opencl

package main

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"

	"fovmesh/fov"
	"fovmesh/scene"
)

var errNoOpenCL = errors.New("OpenCL support is not enabled; rebuild with -tags opencl")

type openCLCaster struct{}

func newOpenCLCaster(fallback fov.Caster, segments []scene.Segment) (*openCLCaster, error) {
	return nil, errNoOpenCL
}

func (c *openCLCaster) SetSegments(segments []scene.Segment) error { return errNoOpenCL }

func (c *openCLCaster) Cast(origin, dir mgl64.Vec3, maxDistance float64, mask fov.LayerMask) (fov.CastResult, error) {
	return fov.CastResult{}, errNoOpenCL
}

func (c *openCLCaster) CastAll(origin mgl64.Vec3, dirs []mgl64.Vec3, maxDistance float64, mask fov.LayerMask) ([]fov.CastResult, error) {
	return nil, errNoOpenCL
}

func (c *openCLCaster) Close() {}

func (c *openCLCaster) DeviceName() string { return "" }
