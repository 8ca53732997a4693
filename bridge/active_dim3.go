//go:build dim3

package bridge

// Dimensions is the dimensional mode the binary was built for.
const Dimensions = 3

// Pose is the simulation pose of the active mode.
type Pose = Pose3

// Active is the bridge of the active mode.
type Active = Spatial
