// Package bridge converts between a physics simulation's rigid poses and a
// scene graph's transforms.
//
// A simulation pose is an isometry (rotation then translation) in simulation
// length units. A scene transform is a translation, rotation and visual scale
// in scene length units. The two are related by a positive scale factor and a
// reference frame that places the simulation origin inside the scene:
//
//	scene = frame ∘ scale(pose)
//	pose  = unscale(frame⁻¹ ∘ scene)
//
// The frame is applied after the pose, so the pose is expressed in the frame's
// coordinate space. Its translation is in scene units.
//
// Every conversion is a pure function of its arguments. Nothing is cached and
// the functions are safe to call from any number of goroutines.
//
// Two implementations share the Bridge contract: Planar for 2D simulations and
// Spatial for 3D ones. Both are always compiled; the one a program uses through
// Pose, Active, ToSceneTransform and ToSimulationPose is picked at build time
// with the dim3 build tag.
package bridge

// Bridge converts poses of type P to scene transforms and back.
//
// Implementations must satisfy, for every pose p, scale s > 0 and frame f:
//
//	ToSimulationPose(ToSceneTransform(p, s, f), s, f) ≈ p
//
// within floating point rounding. The scale must be strictly positive; it is
// not checked.
type Bridge[P any] interface {
	// ToSceneTransform scales the pose's translation, places it in the frame
	// and returns the matching scene transform with a default visual scale.
	ToSceneTransform(pose P, scale float64, frame P) SceneTransform
	// ToSimulationPose is the inverse of ToSceneTransform. The transform's
	// Scale field is ignored.
	ToSimulationPose(t SceneTransform, scale float64, frame P) P
	// Identity returns the pose that leaves other poses unchanged.
	Identity() P
}
