package bridge

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// axisEpsilon is the smallest rotation-axis length treated as a real rotation.
const axisEpsilon = 1e-8

var zAxis = mgl64.Vec3{0, 0, 1}

// SceneTransform is a placement in the scene graph.
type SceneTransform struct {
	Translation mgl64.Vec3
	Rotation    mgl64.Quat
	Scale       mgl64.Vec3
}

// DefaultSceneTransform returns the identity placement with unit scale.
func DefaultSceneTransform() SceneTransform {
	return SceneTransform{
		Rotation: mgl64.QuatIdent(),
		Scale:    mgl64.Vec3{1, 1, 1},
	}
}

// WithScale returns a copy of t carrying the given visual scale.
func (t SceneTransform) WithScale(scale mgl64.Vec3) SceneTransform {
	t.Scale = scale
	return t
}

// PlanarAngle returns the rotation about +Z, in (-π, π].
//
// It is the Z component of the rotation's scaled axis-angle vector, so any
// rotation out of the XY plane is dropped.
func (t SceneTransform) PlanarAngle() float64 {
	q := t.Rotation
	length := q.V.Len()
	if length < axisEpsilon {
		return 0
	}
	angle := 2 * math.Atan2(length, q.W)
	return WrapAngle(angle * q.V.Z() / length)
}

// WrapAngle maps a to the equivalent angle in (-π, π].
func WrapAngle(a float64) float64 {
	a = math.Remainder(a, 2*math.Pi)
	if a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
