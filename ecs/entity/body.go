package entity

import (
	"fmt"

	"github.com/milk9111/posebridge/config"
	"github.com/milk9111/posebridge/ecs"
	"github.com/milk9111/posebridge/ecs/component"
	"github.com/milk9111/posebridge/ecs/system"
)

// PhysicsSettings maps a world file onto the physics system settings.
func PhysicsSettings(cfg *config.World) system.PhysicsSettings {
	return system.PhysicsSettings{
		Scale:      cfg.Scale,
		Frame:      cfg.ReferenceFrame.Planar(),
		Gravity:    cfg.GravityVector(),
		Timestep:   cfg.Timestep,
		Iterations: cfg.Iterations,
	}
}

// BuildBodies creates one entity per body in cfg and returns them in file
// order. cfg is expected to be validated.
func BuildBodies(w *ecs.World, cfg *config.World) ([]ecs.Entity, error) {
	out := make([]ecs.Entity, 0, len(cfg.Bodies))
	for i := range cfg.Bodies {
		e, err := BuildBody(w, &cfg.Bodies[i])
		if err != nil {
			return out, err
		}
		out = append(out, e)
	}
	return out, nil
}

func BuildBody(w *ecs.World, spec *config.Body) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)

	transform := spec.Transform.Scene()
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &transform); err != nil {
		return e, fmt.Errorf("entity: body %q: add transform: %w", spec.Name, err)
	}

	if spec.Name != "" {
		name := component.Name(spec.Name)
		if err := ecs.Add(w, e, component.NameComponent.Kind(), &name); err != nil {
			return e, fmt.Errorf("entity: body %q: add name: %w", spec.Name, err)
		}
	}

	if err := ecs.Add(w, e, component.RigidBodyComponent.Kind(), &component.RigidBody{
		Kind:       component.BodyKind(spec.Kind),
		ShapeKind:  component.ShapeKind(spec.Shape),
		Width:      spec.Width,
		Height:     spec.Height,
		Radius:     spec.Radius,
		Mass:       spec.Mass,
		Friction:   spec.Friction,
		Elasticity: spec.Elasticity,
	}); err != nil {
		return e, fmt.Errorf("entity: body %q: add rigid body: %w", spec.Name, err)
	}

	if spec.Script != "" {
		if err := ecs.Add(w, e, component.KinematicScriptComponent.Kind(), &component.KinematicScript{
			Path:   spec.Script,
			Source: spec.ScriptSource,
			Params: spec.Params,
		}); err != nil {
			return e, fmt.Errorf("entity: body %q: add script: %w", spec.Name, err)
		}
	}

	return e, nil
}

// Named returns the entity carrying name.
func Named(w *ecs.World, name string) (ecs.Entity, bool) {
	for _, e := range w.Query(component.NameComponent.Kind()) {
		n, ok := ecs.Get(w, e, component.NameComponent.Kind())
		if ok && string(*n) == name {
			return e, true
		}
	}
	return 0, false
}
