package system

import (
	"errors"
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/posebridge/bridge"
	"github.com/milk9111/posebridge/ecs"
	"github.com/milk9111/posebridge/ecs/component"
	"go.uber.org/zap"
)

var ErrScriptOutput = errors.New("system: script output is not numeric")

var scriptOutputs = []string{"x", "y", "angle"}

// KinematicSystem runs each entity's kinematic script once per step and
// writes the resulting pose to the entity's scene transform. It must run
// before PhysicsSystem so the physics pass sees the new targets.
type KinematicSystem struct {
	logger   *zap.Logger
	timestep float64
	elapsed  float64
	runtimes map[ecs.Entity]*kinematicRuntime
}

type kinematicRuntime struct {
	path     string
	compiled *tengo.Compiled
}

func NewKinematicSystem(timestep float64, logger *zap.Logger) *KinematicSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timestep <= 0 {
		timestep = defaultTimestep
	}
	return &KinematicSystem{
		logger:   logger,
		timestep: timestep,
		runtimes: make(map[ecs.Entity]*kinematicRuntime),
	}
}

func (ks *KinematicSystem) SetTimestep(dt float64) {
	if dt > 0 {
		ks.timestep = dt
	}
}

func (ks *KinematicSystem) Update(w *ecs.World) {
	if ks == nil || w == nil {
		return
	}
	ks.elapsed += ks.timestep

	seen := make(map[ecs.Entity]struct{}, len(ks.runtimes))
	ecs.ForEach2(w, component.KinematicScriptComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, script *component.KinematicScript, transform *bridge.SceneTransform) {
		seen[e] = struct{}{}
		if err := ks.drive(e, script, transform); err != nil {
			ks.logger.Warn("kinematic script failed",
				zap.Stringer("entity", e),
				zap.String("script", script.Path),
				zap.Error(err),
			)
		}
	})

	for e := range ks.runtimes {
		if _, ok := seen[e]; !ok {
			delete(ks.runtimes, e)
		}
	}
}

func (ks *KinematicSystem) drive(e ecs.Entity, script *component.KinematicScript, transform *bridge.SceneTransform) error {
	rt, err := ks.runtime(e, script)
	if err != nil {
		return err
	}

	inputs := map[string]float64{
		"t":     ks.elapsed,
		"dt":    ks.timestep,
		"x":     transform.Translation.X(),
		"y":     transform.Translation.Y(),
		"angle": transform.PlanarAngle(),
	}
	for name, v := range inputs {
		if err := rt.compiled.Set(name, v); err != nil {
			return err
		}
	}
	if err := rt.compiled.Run(); err != nil {
		return err
	}

	out := make(map[string]float64, len(scriptOutputs))
	for _, name := range scriptOutputs {
		v := rt.compiled.Get(name)
		switch v.ValueType() {
		case "float", "int":
			out[name] = v.Float()
		default:
			return fmt.Errorf("%w: %s is %s", ErrScriptOutput, name, v.ValueType())
		}
	}

	transform.Translation = mgl64.Vec3{out["x"], out["y"], transform.Translation.Z()}
	transform.Rotation = mgl64.QuatRotate(out["angle"], mgl64.Vec3{0, 0, 1})
	return nil
}

func (ks *KinematicSystem) runtime(e ecs.Entity, script *component.KinematicScript) (*kinematicRuntime, error) {
	if rt, ok := ks.runtimes[e]; ok && rt.path == script.Path {
		return rt, nil
	}
	if len(script.Source) == 0 {
		return nil, fmt.Errorf("system: kinematic script %q is empty", script.Path)
	}

	s := tengo.NewScript(script.Source)
	for name, v := range script.Params {
		_ = s.Add(name, v)
	}
	for _, name := range []string{"t", "dt", "x", "y", "angle"} {
		_ = s.Add(name, 0.0)
	}
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("system: compile %s: %w", script.Path, err)
	}

	rt := &kinematicRuntime{path: script.Path, compiled: compiled}
	ks.runtimes[e] = rt
	ks.logger.Debug("kinematic script compiled", zap.Stringer("entity", e), zap.String("script", script.Path))
	return rt, nil
}
