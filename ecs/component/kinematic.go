package component

// KinematicScript drives a kinematic body from a tengo script. The script
// sees t, dt, x, y, angle and every entry of Params as globals and may
// reassign x, y and angle (scene units, radians).
type KinematicScript struct {
	Path   string
	Source []byte
	Params map[string]float64
}

var KinematicScriptComponent = NewComponent[KinematicScript]("kinematic_script")
