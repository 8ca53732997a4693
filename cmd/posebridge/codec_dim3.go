//go:build dim3

package main

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/posebridge/bridge"
)

// poseDoc carries the rotation as a unit quaternion w, x, y, z.
type poseDoc struct {
	Translation [3]float64 `yaml:"translation,flow"`
	Rotation    [4]float64 `yaml:"rotation,flow"`
}

func (d poseDoc) pose() bridge.Pose {
	rot := mgl64.QuatIdent()
	if d.Rotation != ([4]float64{}) {
		rot = quatFromDoc(d.Rotation)
	}
	return bridge.NewPose3(mgl64.Vec3(d.Translation), rot)
}

func newPoseDoc(p bridge.Pose) poseDoc {
	return poseDoc{Translation: [3]float64(p.Translation), Rotation: quatToDoc(p.Rotation)}
}
