package component

import "github.com/jakecoffman/cp"

type BodyKind string

const (
	BodyDynamic   BodyKind = "dynamic"
	BodyStatic    BodyKind = "static"
	BodyKinematic BodyKind = "kinematic"
)

type ShapeKind string

const (
	ShapeBox    ShapeKind = "box"
	ShapeCircle ShapeKind = "circle"
)

// RigidBody stores Chipmunk2D runtime data and collider configuration. Sizes
// are in simulation units.
type RigidBody struct {
	Body       *cp.Body
	Shape      *cp.Shape
	Kind       BodyKind
	ShapeKind  ShapeKind
	Width      float64
	Height     float64
	Radius     float64
	Mass       float64
	Friction   float64
	Elasticity float64
}

func (rb *RigidBody) Static() bool {
	return rb.Kind == BodyStatic
}

func (rb *RigidBody) Kinematic() bool {
	return rb.Kind == BodyKinematic
}

var RigidBodyComponent = NewComponent[RigidBody]("rigid_body")
