package bridge

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Pose3 is a rigid placement in space: a rotation by the unit quaternion
// Rotation followed by Translation.
//
// When a Pose3 acts on another pose (the receiver of Mul, InverseMul and
// Inverse) a zero Rotation is read as the identity, so the zero value is a
// usable identity frame. Rotations are otherwise taken as given and never
// renormalised.
type Pose3 struct {
	Translation mgl64.Vec3
	Rotation    mgl64.Quat
}

// IdentityPose3 returns the identity placement.
func IdentityPose3() Pose3 {
	return Pose3{Rotation: mgl64.QuatIdent()}
}

// NewPose3 returns the pose at translation with the given rotation.
func NewPose3(translation mgl64.Vec3, rotation mgl64.Quat) Pose3 {
	return Pose3{Translation: translation, Rotation: rotation}
}

func (p Pose3) rotation() mgl64.Quat {
	if p.Rotation == (mgl64.Quat{}) {
		return mgl64.QuatIdent()
	}
	return p.Rotation
}

// Mul returns p ∘ q, the pose q expressed in p's coordinate space.
func (p Pose3) Mul(q Pose3) Pose3 {
	rot := p.rotation()
	return Pose3{
		Translation: p.Translation.Add(rot.Rotate(q.Translation)),
		Rotation:    rot.Mul(q.Rotation),
	}
}

// InverseMul returns p⁻¹ ∘ q without forming p⁻¹.
func (p Pose3) InverseMul(q Pose3) Pose3 {
	inv := p.rotation().Conjugate()
	return Pose3{
		Translation: inv.Rotate(q.Translation.Sub(p.Translation)),
		Rotation:    inv.Mul(q.Rotation),
	}
}

// Inverse returns the pose that undoes p.
func (p Pose3) Inverse() Pose3 {
	inv := p.rotation().Conjugate()
	return Pose3{
		Translation: inv.Rotate(p.Translation).Mul(-1),
		Rotation:    inv,
	}
}

// Scaled multiplies the translation by s.
func (p Pose3) Scaled(s float64) Pose3 {
	p.Translation = p.Translation.Mul(s)
	return p
}

func (p Pose3) unscaled(s float64) Pose3 {
	p.Translation = mgl64.Vec3{p.Translation[0] / s, p.Translation[1] / s, p.Translation[2] / s}
	return p
}

// ApproxEqual compares translations component-wise and rotations as
// orientations, so q and -q are equal.
func (p Pose3) ApproxEqual(q Pose3, epsilon float64) bool {
	for i := range p.Translation {
		if math.Abs(p.Translation[i]-q.Translation[i]) > epsilon {
			return false
		}
	}
	a, b := p.Rotation, q.Rotation
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	if math.Abs(a.W-b.W) > epsilon {
		return false
	}
	for i := range a.V {
		if math.Abs(a.V[i]-b.V[i]) > epsilon {
			return false
		}
	}
	return true
}

// Spatial is the 3D bridge.
type Spatial struct{}

var _ Bridge[Pose3] = Spatial{}

func (Spatial) Identity() Pose3 {
	return IdentityPose3()
}

// ToSceneTransform applies the scale once, to the pose's translation only.
func (Spatial) ToSceneTransform(pose Pose3, scale float64, frame Pose3) SceneTransform {
	composed := frame.Mul(pose.Scaled(scale))
	out := DefaultSceneTransform()
	out.Translation = composed.Translation
	out.Rotation = composed.Rotation
	return out
}

func (Spatial) ToSimulationPose(t SceneTransform, scale float64, frame Pose3) Pose3 {
	return frame.InverseMul(Pose3{Translation: t.Translation, Rotation: t.Rotation}).unscaled(scale)
}
