//go:build !dim3

package config

import "github.com/milk9111/posebridge/bridge"

// Pose returns the frame in the active bridge mode.
func (f Frame) Pose() bridge.Pose {
	return f.Planar()
}
