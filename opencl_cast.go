//go:build opencl

package main

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"unsafe"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jgillich/go-opencl/cl"

	"fovmesh/fov"
	"fovmesh/scene"
)

var errCasterClosed = errors.New("OpenCL caster is closed")

// openCLCaster answers a whole sweep of rays in one kernel launch. Single
// casts (edge refinement, movement, occlusion) go to the CPU fallback.
type openCLCaster struct {
	fallback fov.Caster

	mu         sync.Mutex
	context    *cl.Context
	queue      *cl.CommandQueue
	program    *cl.Program
	kernel     *cl.Kernel
	segBuf     *cl.MemObject
	layerBuf   *cl.MemObject
	dirBuf     *cl.MemObject
	distBuf    *cl.MemObject
	segCap     int
	rayCap     int
	segCount   int
	dirs       []float32
	dists      []float32
	deviceName string
}

const castKernelSource = `__kernel void cast_rays(
    const float ox,
    const float oz,
    const float max_dist,
    const int mask,
    const int seg_count,
    const int ray_count,
    __global const float* segs,
    __global const int* layers,
    __global const float* dirs,
    __global float* dist)
{
    int i = get_global_id(0);
    if (i >= ray_count) {
        return;
    }
    float dx = dirs[2 * i];
    float dz = dirs[2 * i + 1];
    float best = max_dist;
    int found = 0;
    for (int s = 0; s < seg_count; s++) {
        if ((layers[s] & mask) == 0) {
            continue;
        }
        float ax = segs[4 * s];
        float az = segs[4 * s + 1];
        float sdx = segs[4 * s + 2] - ax;
        float sdz = segs[4 * s + 3] - az;
        float denom = dx * sdz - dz * sdx;
        if (fabs(denom) < 1e-10f) {
            continue;
        }
        float diffx = ax - ox;
        float diffz = az - oz;
        float t = (diffx * sdz - diffz * sdx) / denom;
        float u = (diffx * dz - diffz * dx) / denom;
        if (u < 0.0f || u > 1.0f || t < 0.0f || t > best) {
            continue;
        }
        best = t;
        found = 1;
    }
    dist[i] = found ? best : -1.0f;
}`

func newOpenCLCaster(fallback fov.Caster, segments []scene.Segment) (*openCLCaster, error) {
	platforms, err := cl.GetPlatforms()
	if err != nil {
		msg := "querying OpenCL platforms"
		if strings.Contains(err.Error(), "-1001") {
			msg += ": no ICD loader reported any platforms; install OpenCL drivers and verify with `clinfo`"
		}
		return nil, fmt.Errorf("%s: %w", msg, err)
	}
	if len(platforms) == 0 {
		return nil, errors.New("no OpenCL platforms available; ensure a vendor driver is installed and detected by `clinfo`")
	}
	device := pickDevice(platforms, cl.DeviceTypeGPU)
	if device == nil {
		device = pickDevice(platforms, cl.DeviceTypeCPU)
	}
	if device == nil {
		return nil, errors.New("no suitable OpenCL devices found")
	}

	context, err := cl.CreateContext([]*cl.Device{device})
	if err != nil {
		return nil, fmt.Errorf("creating OpenCL context: %w", err)
	}
	c := &openCLCaster{fallback: fallback, context: context, deviceName: device.Name()}
	c.queue, err = context.CreateCommandQueue(device, 0)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("creating OpenCL command queue: %w", err)
	}
	c.program, err = context.CreateProgramWithSource([]string{castKernelSource})
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("creating OpenCL program: %w", err)
	}
	if err := c.program.BuildProgram([]*cl.Device{device}, ""); err != nil {
		c.Close()
		if buildErr, ok := err.(cl.BuildError); ok {
			return nil, fmt.Errorf("building OpenCL program: %s", string(buildErr))
		}
		return nil, fmt.Errorf("building OpenCL program: %w", err)
	}
	c.kernel, err = c.program.CreateKernel("cast_rays")
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("creating OpenCL kernel: %w", err)
	}
	if err := c.SetSegments(segments); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func pickDevice(platforms []*cl.Platform, kind cl.DeviceType) *cl.Device {
	for _, p := range platforms {
		devices, err := p.GetDevices(kind)
		if err != nil && err != cl.ErrDeviceNotFound {
			continue
		}
		if len(devices) > 0 {
			return devices[0]
		}
	}
	return nil
}

// SetSegments uploads the walls used by later CastAll calls.
func (c *openCLCaster) SetSegments(segments []scene.Segment) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.context == nil {
		return errCasterClosed
	}

	n := len(segments)
	if n > c.segCap || c.segBuf == nil {
		capacity := max(n, 64)
		if err := c.realloc(&c.segBuf, cl.MemReadOnly, capacity*4*4); err != nil {
			return fmt.Errorf("allocating segment buffer: %w", err)
		}
		if err := c.realloc(&c.layerBuf, cl.MemReadOnly, capacity*4); err != nil {
			return fmt.Errorf("allocating layer buffer: %w", err)
		}
		c.segCap = capacity
	}
	c.segCount = n
	if n == 0 {
		return nil
	}
	coords := make([]float32, 0, n*4)
	layers := make([]int32, 0, n)
	for _, s := range segments {
		coords = append(coords, float32(s.A.X()), float32(s.A.Y()), float32(s.B.X()), float32(s.B.Y()))
		layers = append(layers, int32(s.Layer))
	}
	if _, err := c.queue.EnqueueWriteBufferFloat32(c.segBuf, true, 0, coords, nil); err != nil {
		return fmt.Errorf("writing segment buffer: %w", err)
	}
	byteLen := len(layers) * int(unsafe.Sizeof(int32(0)))
	if _, err := c.queue.EnqueueWriteBuffer(c.layerBuf, true, 0, byteLen, unsafe.Pointer(&layers[0]), nil); err != nil {
		return fmt.Errorf("writing layer buffer: %w", err)
	}
	return nil
}

func (c *openCLCaster) realloc(buf **cl.MemObject, flags cl.MemFlag, size int) error {
	if *buf != nil {
		(*buf).Release()
		*buf = nil
	}
	b, err := c.context.CreateEmptyBuffer(flags, size)
	if err != nil {
		return err
	}
	*buf = b
	return nil
}

func (c *openCLCaster) ensureRays(n int) error {
	if n <= c.rayCap && c.dirBuf != nil {
		return nil
	}
	capacity := max(n, 512)
	if err := c.realloc(&c.dirBuf, cl.MemReadOnly, capacity*2*4); err != nil {
		return fmt.Errorf("allocating direction buffer: %w", err)
	}
	if err := c.realloc(&c.distBuf, cl.MemWriteOnly, capacity*4); err != nil {
		return fmt.Errorf("allocating distance buffer: %w", err)
	}
	c.rayCap = capacity
	return nil
}

// Cast delegates to the CPU fallback.
func (c *openCLCaster) Cast(origin, dir mgl64.Vec3, maxDistance float64, mask fov.LayerMask) (fov.CastResult, error) {
	return c.fallback.Cast(origin, dir, maxDistance, mask)
}

// CastAll casts every direction from origin on the device.
func (c *openCLCaster) CastAll(origin mgl64.Vec3, dirs []mgl64.Vec3, maxDistance float64, mask fov.LayerMask) ([]fov.CastResult, error) {
	if len(dirs) == 0 {
		return nil, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.context == nil {
		return nil, errCasterClosed
	}

	n := len(dirs)
	if err := c.ensureRays(n); err != nil {
		return nil, err
	}
	c.dirs = c.dirs[:0]
	for _, d := range dirs {
		c.dirs = append(c.dirs, float32(d.X()), float32(d.Z()))
	}
	if cap(c.dists) < n {
		c.dists = make([]float32, n)
	}
	c.dists = c.dists[:n]

	if _, err := c.queue.EnqueueWriteBufferFloat32(c.dirBuf, false, 0, c.dirs, nil); err != nil {
		return nil, fmt.Errorf("writing direction buffer: %w", err)
	}
	if err := c.kernel.SetArgs(
		float32(origin.X()),
		float32(origin.Z()),
		float32(maxDistance),
		int32(mask),
		int32(c.segCount),
		int32(n),
		c.segBuf,
		c.layerBuf,
		c.dirBuf,
		c.distBuf,
	); err != nil {
		return nil, fmt.Errorf("setting kernel arguments: %w", err)
	}
	if _, err := c.queue.EnqueueNDRangeKernel(c.kernel, nil, []int{n}, nil, nil); err != nil {
		return nil, fmt.Errorf("enqueueing kernel: %w", err)
	}
	if _, err := c.queue.EnqueueReadBufferFloat32(c.distBuf, true, 0, c.dists, nil); err != nil {
		return nil, fmt.Errorf("reading distance buffer: %w", err)
	}

	out := make([]fov.CastResult, n)
	for i, d := range c.dists {
		if d < 0 {
			out[i] = fov.Miss(origin, dirs[i], maxDistance)
			continue
		}
		t := float64(d)
		out[i] = fov.CastResult{Hit: true, Point: origin.Add(dirs[i].Mul(t)), Distance: t}
	}
	return out, nil
}

func (c *openCLCaster) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, buf := range []**cl.MemObject{&c.distBuf, &c.dirBuf, &c.layerBuf, &c.segBuf} {
		if *buf != nil {
			(*buf).Release()
			*buf = nil
		}
	}
	if c.kernel != nil {
		c.kernel.Release()
		c.kernel = nil
	}
	if c.program != nil {
		c.program.Release()
		c.program = nil
	}
	if c.queue != nil {
		c.queue.Release()
		c.queue = nil
	}
	if c.context != nil {
		c.context.Release()
		c.context = nil
	}
}

func (c *openCLCaster) DeviceName() string {
	return c.deviceName
}
