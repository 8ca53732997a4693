package config

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/posebridge/bridge"
)

// Frame is the reference frame placing the simulation origin in the scene.
// Translation is in scene units; Rotation is XYZ Euler angles in radians.
type Frame struct {
	Translation [3]float64 `yaml:"translation"`
	Rotation    [3]float64 `yaml:"rotation"`
}

// Planar keeps the in-plane part of the frame: x, y and the rotation about Z.
func (f Frame) Planar() bridge.Pose2 {
	return bridge.NewPose2(f.Translation[0], f.Translation[1], f.Rotation[2])
}

func (f Frame) Spatial() bridge.Pose3 {
	return bridge.NewPose3(mgl64.Vec3(f.Translation), eulerXYZ(f.Rotation))
}

// Transform is a scene-space placement in a world file.
type Transform struct {
	Translation [3]float64 `yaml:"translation"`
	Rotation    [3]float64 `yaml:"rotation"`
	Scale       [3]float64 `yaml:"scale"`
}

func (t *Transform) applyDefaults() {
	if t.Scale == ([3]float64{}) {
		t.Scale = [3]float64{1, 1, 1}
	}
}

// Scene converts the placement into a scene transform.
func (t Transform) Scene() bridge.SceneTransform {
	return bridge.SceneTransform{
		Translation: mgl64.Vec3(t.Translation),
		Rotation:    eulerXYZ(t.Rotation),
		Scale:       mgl64.Vec3(t.Scale),
	}
}

func (w *World) GravityVector() cp.Vector {
	return cp.Vector{X: w.Gravity[0], Y: w.Gravity[1]}
}

func eulerXYZ(r [3]float64) mgl64.Quat {
	if r == ([3]float64{}) {
		return mgl64.QuatIdent()
	}
	return mgl64.AnglesToQuat(r[0], r[1], r[2], mgl64.XYZ)
}
