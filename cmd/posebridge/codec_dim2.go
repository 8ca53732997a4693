//go:build !dim3

package main

import "github.com/milk9111/posebridge/bridge"

type poseDoc struct {
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Angle float64 `yaml:"angle"`
}

func (d poseDoc) pose() bridge.Pose {
	return bridge.NewPose2(d.X, d.Y, d.Angle)
}

func newPoseDoc(p bridge.Pose) poseDoc {
	return poseDoc{X: p.Translation.X, Y: p.Translation.Y, Angle: p.Angle}
}
