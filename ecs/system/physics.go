package system

import (
	"context"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/posebridge/bridge"
	"github.com/milk9111/posebridge/ecs"
	"github.com/milk9111/posebridge/ecs/component"
	"go.uber.org/zap"
)

const (
	defaultTimestep   = 1.0 / 60.0
	defaultIterations = 10
)

// PhysicsSettings is the snapshot of world-level parameters the physics pass
// reads. It is swapped only between steps.
type PhysicsSettings struct {
	// Scale is scene units per simulation unit.
	Scale      float64
	Frame      bridge.Pose2
	Gravity    cp.Vector
	Timestep   float64
	Iterations uint
}

func (s PhysicsSettings) withDefaults() PhysicsSettings {
	if s.Scale <= 0 {
		s.Scale = 1
	}
	if s.Timestep <= 0 {
		s.Timestep = defaultTimestep
	}
	if s.Iterations == 0 {
		s.Iterations = defaultIterations
	}
	return s
}

// PhysicsSystem steps a Chipmunk space and keeps it in sync with the scene
// transforms of entities carrying a RigidBody.
type PhysicsSystem struct {
	space    *cp.Space
	settings PhysicsSettings
	planar   bridge.Planar
	logger   *zap.Logger
	metrics  *Metrics
	elapsed  float64

	entities map[ecs.Entity]*bodyInfo

	// scratch buffers reused across steps
	dynamic []ecs.Entity
	poses   []bridge.Pose2
	scene   []bridge.SceneTransform
}

type bodyInfo struct {
	body  *cp.Body
	shape *cp.Shape
	kind  component.BodyKind
}

type PhysicsOption func(*PhysicsSystem)

func WithLogger(logger *zap.Logger) PhysicsOption {
	return func(ps *PhysicsSystem) {
		if logger != nil {
			ps.logger = logger
		}
	}
}

func WithMetrics(m *Metrics) PhysicsOption {
	return func(ps *PhysicsSystem) {
		ps.metrics = m
	}
}

func NewPhysicsSystem(settings PhysicsSettings, opts ...PhysicsOption) *PhysicsSystem {
	ps := &PhysicsSystem{
		logger:   zap.NewNop(),
		entities: make(map[ecs.Entity]*bodyInfo),
	}
	for _, opt := range opts {
		opt(ps)
	}
	ps.space = cp.NewSpace()
	ps.applySettings(settings)
	return ps
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

func (ps *PhysicsSystem) Settings() PhysicsSettings {
	return ps.settings
}

// Elapsed is the simulated time in seconds.
func (ps *PhysicsSystem) Elapsed() float64 {
	return ps.elapsed
}

// SetSettings replaces the settings snapshot. Existing bodies keep their
// simulation poses; only the mapping to the scene changes.
func (ps *PhysicsSystem) SetSettings(settings PhysicsSettings) {
	if ps == nil {
		return
	}
	ps.applySettings(settings)
	ps.logger.Info("physics settings updated",
		zap.Float64("scale", ps.settings.Scale),
		zap.Float64("timestep", ps.settings.Timestep),
	)
}

func (ps *PhysicsSystem) applySettings(settings PhysicsSettings) {
	ps.settings = settings.withDefaults()
	ps.space.Iterations = ps.settings.Iterations
	ps.space.SetGravity(ps.settings.Gravity)
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	start := time.Now()

	ps.cleanupEntities(w)
	ps.syncEntities(w)
	ps.driveKinematic(w)

	ps.space.Step(ps.settings.Timestep)
	ps.elapsed += ps.settings.Timestep

	ps.syncTransforms(w)

	ps.metrics.observeStep(time.Since(start).Seconds(), len(ps.entities))
}

// Body returns the simulation body backing e.
func (ps *PhysicsSystem) Body(e ecs.Entity) (*cp.Body, bool) {
	info, ok := ps.entities[e]
	if !ok {
		return nil, false
	}
	return info.body, true
}

// SimulationPose reads the current simulation pose of e's body.
func (ps *PhysicsSystem) SimulationPose(e ecs.Entity) (bridge.Pose2, bool) {
	info, ok := ps.entities[e]
	if !ok || info.body == nil {
		return bridge.Pose2{}, false
	}
	return bridge.Pose2{Translation: info.body.Position(), Angle: info.body.Angle()}, true
}

func (ps *PhysicsSystem) syncEntities(w *ecs.World) {
	created := 0
	ecs.ForEach2(w, component.RigidBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, rb *component.RigidBody, transform *bridge.SceneTransform) {
		if info := ps.entities[e]; info != nil {
			if rb.Body == nil || rb.Shape == nil {
				rb.Body = info.body
				rb.Shape = info.shape
			}
			return
		}

		pose := ps.planar.ToSimulationPose(*transform, ps.settings.Scale, ps.settings.Frame)
		info := ps.createBody(pose, rb)
		ps.entities[e] = info
		rb.Body = info.body
		rb.Shape = info.shape
		created++

		w.Events().Push(ecs.Event{
			Type: string(ecs.BodyEventCreated),
			Data: ecs.BodyEvent{Entity: e, Kind: ecs.BodyEventCreated},
		})
		ps.logger.Debug("body created",
			zap.Stringer("entity", e),
			zap.String("kind", string(rb.Kind)),
			zap.Float64("x", pose.Translation.X),
			zap.Float64("y", pose.Translation.Y),
			zap.Float64("angle", pose.Angle),
		)
	})
	ps.metrics.synced(directionToSimulation, created)
}

func (ps *PhysicsSystem) createBody(pose bridge.Pose2, rb *component.RigidBody) *bodyInfo {
	width, height, radius := rb.Width, rb.Height, rb.Radius
	circle := rb.ShapeKind == component.ShapeCircle
	if circle && radius <= 0 {
		radius = 0.5
	}
	if !circle && (width <= 0 || height <= 0) {
		width, height = 1, 1
	}

	kind := rb.Kind
	if kind == "" {
		kind = component.BodyDynamic
	}

	var body *cp.Body
	switch kind {
	case component.BodyStatic:
		body = cp.NewStaticBody()
	case component.BodyKinematic:
		body = cp.NewKinematicBody()
	default:
		mass := rb.Mass
		if mass <= 0 {
			mass = 1
		}
		var moment float64
		if circle {
			moment = cp.MomentForCircle(mass, 0, radius, cp.Vector{})
		} else {
			moment = cp.MomentForBox(mass, width, height)
		}
		body = cp.NewBody(mass, moment)
	}
	body.SetPosition(pose.Translation)
	body.SetAngle(pose.Angle)

	var shape *cp.Shape
	if circle {
		shape = cp.NewCircle(body, radius, cp.Vector{})
	} else {
		shape = cp.NewBox(body, width, height, 0)
	}
	shape.SetFriction(rb.Friction)
	shape.SetElasticity(rb.Elasticity)

	ps.space.AddBody(body)
	ps.space.AddShape(shape)

	return &bodyInfo{body: body, shape: shape, kind: kind}
}

// driveKinematic gives every kinematic body the velocity that carries it to
// its scene-driven target within one step.
func (ps *PhysicsSystem) driveKinematic(w *ecs.World) {
	dt := ps.settings.Timestep
	driven := 0
	ecs.ForEach2(w, component.RigidBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, rb *component.RigidBody, transform *bridge.SceneTransform) {
		if !rb.Kinematic() {
			return
		}
		info := ps.entities[e]
		if info == nil || info.body == nil {
			return
		}
		target := ps.planar.ToSimulationPose(*transform, ps.settings.Scale, ps.settings.Frame)
		body := info.body
		body.SetVelocityVector(target.Translation.Sub(body.Position()).Mult(1 / dt))
		body.SetAngularVelocity(bridge.WrapAngle(target.Angle-body.Angle()) / dt)
		driven++
	})
	ps.metrics.synced(directionToSimulation, driven)
}

// syncTransforms writes dynamic body poses back to the scene, keeping each
// transform's visual scale.
func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	ps.dynamic = ps.dynamic[:0]
	ps.poses = ps.poses[:0]
	ecs.ForEach2(w, component.RigidBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, _ *component.RigidBody, _ *bridge.SceneTransform) {
		info := ps.entities[e]
		if info == nil || info.kind != component.BodyDynamic {
			return
		}
		ps.dynamic = append(ps.dynamic, e)
		ps.poses = append(ps.poses, bridge.Pose2{Translation: info.body.Position(), Angle: info.body.Angle()})
	})
	if len(ps.poses) == 0 {
		return
	}

	if cap(ps.scene) < len(ps.poses) {
		ps.scene = make([]bridge.SceneTransform, len(ps.poses))
	}
	ps.scene = ps.scene[:len(ps.poses)]
	if err := bridge.SceneTransforms(context.Background(), ps.planar, ps.poses, ps.settings.Scale, ps.settings.Frame, ps.scene); err != nil {
		ps.logger.Error("sync transforms", zap.Error(err))
		return
	}

	for i, e := range ps.dynamic {
		transform, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			continue
		}
		*transform = ps.scene[i].WithScale(transform.Scale)
	}
	ps.metrics.synced(directionToScene, len(ps.dynamic))
}

func (ps *PhysicsSystem) cleanupEntities(w *ecs.World) {
	for e, info := range ps.entities {
		if w.IsAlive(e) && ecs.Has(w, e, component.RigidBodyComponent.Kind()) {
			continue
		}
		if info.shape != nil {
			ps.space.RemoveShape(info.shape)
		}
		if info.body != nil {
			ps.space.RemoveBody(info.body)
		}
		delete(ps.entities, e)

		w.Events().Push(ecs.Event{
			Type: string(ecs.BodyEventRemoved),
			Data: ecs.BodyEvent{Entity: e, Kind: ecs.BodyEventRemoved},
		})
		ps.logger.Debug("body removed", zap.Stringer("entity", e))
	}
}
