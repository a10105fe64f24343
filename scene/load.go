package scene

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"fovmesh/fov"
)

// File is the on-disk scene description. Points on the ground are [x, z];
// target positions are [x, y, z].
type File struct {
	Walls []struct {
		From  [2]float64    `yaml:"from"`
		To    [2]float64    `yaml:"to"`
		Layer fov.LayerMask `yaml:"layer"`
	} `yaml:"walls"`
	Boxes []struct {
		Min   [2]float64    `yaml:"min"`
		Max   [2]float64    `yaml:"max"`
		Layer fov.LayerMask `yaml:"layer"`
	} `yaml:"boxes"`
	Targets []struct {
		ID    string        `yaml:"id"`
		At    [3]float64    `yaml:"at"`
		Layer fov.LayerMask `yaml:"layer"`
	} `yaml:"targets"`
}

// Load reads a YAML scene file.
func Load(path string) (*World, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	w, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("decoding %q: %w", path, err)
	}
	return w, nil
}

// Parse decodes a YAML scene. Unknown keys are rejected; a zero layer means
// the default wall or target layer, and a missing target id is generated.
func Parse(raw []byte) (*World, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	w := NewWorld()
	for _, wall := range f.Walls {
		w.AddWall(mgl64.Vec2(wall.From), mgl64.Vec2(wall.To), orLayer(wall.Layer, LayerWalls))
	}
	for i, box := range f.Boxes {
		if box.Max[0] <= box.Min[0] || box.Max[1] <= box.Min[1] {
			return nil, fmt.Errorf("box %d: max %v must exceed min %v", i, box.Max, box.Min)
		}
		w.AddBox(mgl64.Vec2(box.Min), mgl64.Vec2(box.Max), orLayer(box.Layer, LayerWalls))
	}
	for _, t := range f.Targets {
		layer := orLayer(t.Layer, LayerTargets)
		if t.ID == "" {
			w.AddTarget(mgl64.Vec3(t.At), layer)
			continue
		}
		w.targets = append(w.targets, Target{Target: fov.Target{ID: t.ID, Position: mgl64.Vec3(t.At)}, Layer: layer})
	}
	return w, nil
}

func orLayer(l, def fov.LayerMask) fov.LayerMask {
	if l == 0 {
		return def
	}
	return l
}
