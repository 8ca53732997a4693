package bridge

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
)

// Pose2 is a planar rigid placement: a rotation by Angle radians followed by
// Translation. The zero value is the identity.
type Pose2 struct {
	Translation cp.Vector
	Angle       float64
}

// NewPose2 returns the pose at (x, y) rotated by angle radians.
func NewPose2(x, y, angle float64) Pose2 {
	return Pose2{Translation: cp.Vector{X: x, Y: y}, Angle: angle}
}

// Mul returns p ∘ q, the pose q expressed in p's coordinate space.
func (p Pose2) Mul(q Pose2) Pose2 {
	return Pose2{
		Translation: p.Translation.Add(q.Translation.Rotate(cp.ForAngle(p.Angle))),
		Angle:       p.Angle + q.Angle,
	}
}

// InverseMul returns p⁻¹ ∘ q without forming p⁻¹.
func (p Pose2) InverseMul(q Pose2) Pose2 {
	return Pose2{
		Translation: q.Translation.Sub(p.Translation).Unrotate(cp.ForAngle(p.Angle)),
		Angle:       q.Angle - p.Angle,
	}
}

// Inverse returns the pose that undoes p.
func (p Pose2) Inverse() Pose2 {
	return Pose2{
		Translation: p.Translation.Neg().Unrotate(cp.ForAngle(p.Angle)),
		Angle:       -p.Angle,
	}
}

// Scaled multiplies the translation by s.
func (p Pose2) Scaled(s float64) Pose2 {
	p.Translation = p.Translation.Mult(s)
	return p
}

func (p Pose2) unscaled(s float64) Pose2 {
	p.Translation = cp.Vector{X: p.Translation.X / s, Y: p.Translation.Y / s}
	return p
}

// ApproxEqual compares translations component-wise and angles modulo 2π.
func (p Pose2) ApproxEqual(q Pose2, epsilon float64) bool {
	return math.Abs(p.Translation.X-q.Translation.X) <= epsilon &&
		math.Abs(p.Translation.Y-q.Translation.Y) <= epsilon &&
		math.Abs(WrapAngle(p.Angle-q.Angle)) <= epsilon
}

// Planar is the 2D bridge. Scene transforms it produces lie in the XY plane
// (z = 0) and rotate about +Z.
type Planar struct{}

var _ Bridge[Pose2] = Planar{}

func (Planar) Identity() Pose2 {
	return Pose2{}
}

func (Planar) ToSceneTransform(pose Pose2, scale float64, frame Pose2) SceneTransform {
	composed := frame.Mul(pose.Scaled(scale))
	out := DefaultSceneTransform()
	out.Translation = mgl64.Vec3{composed.Translation.X, composed.Translation.Y, 0}
	out.Rotation = mgl64.QuatRotate(composed.Angle, zAxis)
	return out
}

// ToSimulationPose keeps only the XY translation and the rotation about +Z.
// Anything out of plane is discarded without error.
func (Planar) ToSimulationPose(t SceneTransform, scale float64, frame Pose2) Pose2 {
	projected := Pose2{
		Translation: cp.Vector{X: t.Translation.X(), Y: t.Translation.Y()},
		Angle:       t.PlanarAngle(),
	}
	return frame.InverseMul(projected).unscaled(scale)
}
