package bridge

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func offsetFrame3() Pose3 {
	deg45 := mgl64.DegToRad(45)
	return NewPose3(mgl64.Vec3{10, 20, 30}, mgl64.AnglesToQuat(deg45, deg45, deg45, mgl64.XYZ))
}

func assertVec3InDelta(t *testing.T, want, got mgl64.Vec3, delta float64) {
	t.Helper()
	for i := range want {
		assert.InDeltaf(t, want[i], got[i], delta, "component %d: want %v got %v", i, want, got)
	}
}

func assertQuatInDelta(t *testing.T, want, got mgl64.Quat, delta float64) {
	t.Helper()
	assert.InDeltaf(t, want.W, got.W, delta, "w: want %v got %v", want, got)
	assertVec3InDelta(t, want.V, got.V, delta)
}

func TestSpatialRoundTripIdentity(t *testing.T) {
	cases := []struct {
		name string
		pose Pose3
	}{
		{"identity", IdentityPose3()},
		{"translated", NewPose3(mgl64.Vec3{1, -2, 3}, mgl64.QuatIdent())},
		{"rotated_x", NewPose3(mgl64.Vec3{}, mgl64.QuatRotate(1.2, mgl64.Vec3{1, 0, 0}))},
		{"euler", NewPose3(mgl64.Vec3{-7.5, 0.25, 100}, mgl64.AnglesToQuat(0.3, -1.1, 2.9, mgl64.XYZ))},
		{"half_turn", NewPose3(mgl64.Vec3{0.001, 0, 0}, mgl64.QuatRotate(mgl64.DegToRad(180), mgl64.Vec3{0, 1, 0}))},
	}

	b := Spatial{}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := b.ToSimulationPose(b.ToSceneTransform(tc.pose, 1, b.Identity()), 1, b.Identity())
			assertVec3InDelta(t, tc.pose.Translation, got.Translation, 1e-6)
			assertQuatInDelta(t, tc.pose.Rotation, got.Rotation, 1e-6)
		})
	}
}

func TestSpatialRoundTripUnderOffset(t *testing.T) {
	b := Spatial{}
	frame := offsetFrame3()
	original := SceneTransform{
		Translation: mgl64.Vec3{3, 2, 1},
		Rotation:    mgl64.AnglesToQuat(5, 4, 3, mgl64.XYZ),
		Scale:       mgl64.Vec3{1, 1, 1},
	}

	converted := b.ToSceneTransform(b.ToSimulationPose(original, 1, frame), 1, frame)

	assertVec3InDelta(t, original.Translation, converted.Translation, 1e-3)
	assertQuatInDelta(t, original.Rotation, converted.Rotation, 1e-3)
	assertVec3InDelta(t, original.Scale, converted.Scale, 1e-3)
}

func TestSpatialRoundTripScaled(t *testing.T) {
	b := Spatial{}
	poses := []Pose3{
		NewPose3(mgl64.Vec3{3, 2, 1}, mgl64.AnglesToQuat(5, 4, 3, mgl64.XYZ)),
		NewPose3(mgl64.Vec3{-0.5, 12, 0}, mgl64.QuatRotate(-2, mgl64.Vec3{0, 0, 1})),
	}
	frames := map[string]Pose3{
		"identity": IdentityPose3(),
		"zero":     {},
		"offset":   offsetFrame3(),
	}

	for frameName, frame := range frames {
		for _, scale := range []float64{0.01, 0.5, 1, 2, 32, 1000} {
			for i, pose := range poses {
				scene := b.ToSceneTransform(pose, scale, frame)
				got := b.ToSimulationPose(scene, scale, frame)
				require.Truef(t, pose.ApproxEqual(got, 1e-9),
					"frame=%s scale=%v pose=%d: want %+v got %+v", frameName, scale, i, pose, got)
			}
		}
	}
}

func TestSpatialAppliesScaleOnce(t *testing.T) {
	b := Spatial{}
	pose := NewPose3(mgl64.Vec3{1, 2, 3}, mgl64.QuatIdent())

	got := b.ToSceneTransform(pose, 10, b.Identity())

	assert.Equal(t, mgl64.Vec3{10, 20, 30}, got.Translation)
}

func TestSpatialScaleLinearity(t *testing.T) {
	b := Spatial{}
	pose := NewPose3(mgl64.Vec3{3, -2, 1.5}, mgl64.AnglesToQuat(0.4, 0.2, -0.9, mgl64.XYZ))
	const s = 2.5

	base := b.ToSceneTransform(pose, s, b.Identity())
	for _, k := range []float64{0.1, 1, 3, 40} {
		scaled := b.ToSceneTransform(pose, k*s, b.Identity())
		assertVec3InDelta(t, base.Translation.Mul(k), scaled.Translation, 1e-9)
	}
}

func TestSpatialScaleNeverMutatesRotation(t *testing.T) {
	b := Spatial{}
	pose := NewPose3(mgl64.Vec3{3, 2, 1}, mgl64.AnglesToQuat(5, 4, 3, mgl64.XYZ))
	frame := offsetFrame3()

	want := b.ToSceneTransform(pose, 1, frame).Rotation
	for _, scale := range []float64{1e-4, 0.3, 7, 1e6} {
		assert.Equal(t, want, b.ToSceneTransform(pose, scale, frame).Rotation)
	}

	scene := b.ToSceneTransform(pose, 1, frame)
	wantPose := b.ToSimulationPose(scene, 1, frame).Rotation
	for _, scale := range []float64{1e-4, 0.3, 7, 1e6} {
		assert.Equal(t, wantPose, b.ToSimulationPose(scene, scale, frame).Rotation)
	}
}

func TestSpatialNearDegenerateRotationIsStable(t *testing.T) {
	b := Spatial{}
	transform := SceneTransform{
		Translation: mgl64.Vec3{-2.1855694e-8, 0, 0},
		Rotation:    mgl64.Quat{W: 0.99999994, V: mgl64.Vec3{0, 1.6292068e-7, 0}}.Normalize(),
		Scale:       mgl64.Vec3{1, 1, 1},
	}

	converted := b.ToSceneTransform(b.ToSimulationPose(transform, 1, b.Identity()), 1, b.Identity())

	assert.Equal(t, transform, converted)
}

func TestSpatialIgnoresSceneScale(t *testing.T) {
	b := Spatial{}
	frame := offsetFrame3()
	scene := SceneTransform{
		Translation: mgl64.Vec3{4, 5, 6},
		Rotation:    mgl64.QuatRotate(0.7, mgl64.Vec3{0, 1, 0}),
		Scale:       mgl64.Vec3{3, 3, 3},
	}

	withScale := b.ToSimulationPose(scene, 2, frame)
	withoutScale := b.ToSimulationPose(scene.WithScale(mgl64.Vec3{1, 1, 1}), 2, frame)
	assert.Equal(t, withoutScale, withScale)

	out := b.ToSceneTransform(withScale, 2, frame)
	assert.Equal(t, mgl64.Vec3{1, 1, 1}, out.Scale)
}

func TestSpatialFrameComposesAfterPose(t *testing.T) {
	b := Spatial{}
	// Quarter turn about +Z carries +X onto +Y.
	frame := NewPose3(mgl64.Vec3{10, 0, 0}, mgl64.QuatRotate(mgl64.DegToRad(90), mgl64.Vec3{0, 0, 1}))
	pose := NewPose3(mgl64.Vec3{1, 0, 0}, mgl64.QuatRotate(mgl64.DegToRad(90), mgl64.Vec3{1, 0, 0}))

	got := b.ToSceneTransform(pose, 1, frame)

	assertVec3InDelta(t, mgl64.Vec3{10, 1, 0}, got.Translation, 1e-12)
	assertQuatInDelta(t, frame.Rotation.Mul(pose.Rotation), got.Rotation, 1e-12)
}

func TestPose3Algebra(t *testing.T) {
	a := NewPose3(mgl64.Vec3{1, 2, 3}, mgl64.AnglesToQuat(0.1, 0.2, 0.3, mgl64.XYZ))
	b := NewPose3(mgl64.Vec3{-4, 0.5, 9}, mgl64.AnglesToQuat(-1, 2, 0.5, mgl64.XYZ))

	tests := []struct {
		name string
		got  Pose3
		want Pose3
	}{
		{"inverse_cancels_left", a.Inverse().Mul(a), IdentityPose3()},
		{"inverse_cancels_right", a.Mul(a.Inverse()), IdentityPose3()},
		{"inverse_mul_matches_inverse", a.InverseMul(b), a.Inverse().Mul(b)},
		{"inverse_mul_undoes_mul", a.InverseMul(a.Mul(b)), b},
		{"zero_receiver_is_identity", Pose3{}.Mul(b), b},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Truef(t, tc.want.ApproxEqual(tc.got, 1e-12), "want %+v got %+v", tc.want, tc.got)
		})
	}
}
