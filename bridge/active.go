package bridge

// ToSceneTransform converts with the bridge selected at build time.
func ToSceneTransform(pose Pose, scale float64, frame Pose) SceneTransform {
	return Active{}.ToSceneTransform(pose, scale, frame)
}

// ToSimulationPose converts with the bridge selected at build time.
func ToSimulationPose(t SceneTransform, scale float64, frame Pose) Pose {
	return Active{}.ToSimulationPose(t, scale, frame)
}

// IdentityPose returns the identity pose of the active mode.
func IdentityPose() Pose {
	return Active{}.Identity()
}
