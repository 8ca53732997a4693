// Package config loads world files: the scale factor, reference frame,
// simulation parameters and body list a posebridge run starts from.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path"
	"path/filepath"

	"github.com/milk9111/posebridge/worlds"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidScale    = errors.New("config: scale must be a positive finite number")
	ErrInvalidTimestep = errors.New("config: timestep must be a positive finite number")
	ErrUnknownBodyKind = errors.New("config: unknown body kind")
	ErrUnknownShape    = errors.New("config: unknown shape")
	ErrInvalidShape    = errors.New("config: shape dimensions must be positive")
	ErrDuplicateBody   = errors.New("config: duplicate body name")
)

const (
	DefaultScale      = 1.0
	DefaultTimestep   = 1.0 / 60.0
	DefaultIterations = 10
)

const (
	BodyDynamic   = "dynamic"
	BodyStatic    = "static"
	BodyKinematic = "kinematic"

	ShapeBox    = "box"
	ShapeCircle = "circle"
)

// World is a decoded world file.
type World struct {
	Scale          float64    `yaml:"scale"`
	Timestep       float64    `yaml:"timestep"`
	Iterations     uint       `yaml:"iterations"`
	Gravity        [2]float64 `yaml:"gravity"`
	ReferenceFrame Frame      `yaml:"reference_frame"`
	Bodies         []Body     `yaml:"bodies"`

	// Path is where the world was read from; empty for in-memory worlds.
	Path string `yaml:"-"`
}

type Body struct {
	Name       string             `yaml:"name"`
	Kind       string             `yaml:"kind"`
	Shape      string             `yaml:"shape"`
	Width      float64            `yaml:"width"`
	Height     float64            `yaml:"height"`
	Radius     float64            `yaml:"radius"`
	Mass       float64            `yaml:"mass"`
	Friction   float64            `yaml:"friction"`
	Elasticity float64            `yaml:"elasticity"`
	Transform  Transform          `yaml:"transform"`
	Script     string             `yaml:"script"`
	Params     map[string]float64 `yaml:"params"`

	// ScriptSource holds the resolved script contents after Load.
	ScriptSource []byte `yaml:"-"`
}

// Load reads a world file from disk, falling back to the embedded worlds,
// then applies defaults, environment overrides and validation. An empty path
// loads worlds.Default.
func Load(name string) (*World, error) {
	if name == "" {
		name = worlds.Default
	}
	data, embedded, err := read(name)
	if err != nil {
		return nil, fmt.Errorf("config: load %s: %w", name, err)
	}

	w, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("config: load %s: %w", name, err)
	}
	w.Path = name

	env, err := ParseEnv()
	if err != nil {
		return nil, err
	}
	env.Apply(w)

	if err := w.Validate(); err != nil {
		return nil, fmt.Errorf("config: load %s: %w", name, err)
	}
	if err := w.loadScripts(name, embedded); err != nil {
		return nil, err
	}
	return w, nil
}

// Decode parses a world document and fills in defaults. It does not
// validate.
func Decode(data []byte) (*World, error) {
	var w World
	if err := yaml.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("config: unmarshal world: %w", err)
	}
	w.applyDefaults()
	return &w, nil
}

func (w *World) applyDefaults() {
	if w.Scale == 0 {
		w.Scale = DefaultScale
	}
	if w.Timestep == 0 {
		w.Timestep = DefaultTimestep
	}
	if w.Iterations == 0 {
		w.Iterations = DefaultIterations
	}
	for i := range w.Bodies {
		b := &w.Bodies[i]
		if b.Kind == "" {
			b.Kind = BodyDynamic
		}
		if b.Shape == "" {
			b.Shape = ShapeBox
		}
		if b.Kind == BodyDynamic && b.Mass <= 0 {
			b.Mass = 1
		}
		b.Transform.applyDefaults()
	}
}

// Validate reports the first invalid setting.
func (w *World) Validate() error {
	if err := ValidateScale(w.Scale); err != nil {
		return err
	}
	if !positiveFinite(w.Timestep) {
		return fmt.Errorf("%w: %v", ErrInvalidTimestep, w.Timestep)
	}

	names := make(map[string]struct{}, len(w.Bodies))
	for i, b := range w.Bodies {
		label := b.Name
		if label == "" {
			label = fmt.Sprintf("#%d", i)
		} else {
			if _, dup := names[b.Name]; dup {
				return fmt.Errorf("%w: %q", ErrDuplicateBody, b.Name)
			}
			names[b.Name] = struct{}{}
		}

		switch b.Kind {
		case BodyDynamic, BodyStatic, BodyKinematic:
		default:
			return fmt.Errorf("body %s: %w %q", label, ErrUnknownBodyKind, b.Kind)
		}

		switch b.Shape {
		case ShapeBox:
			if !positiveFinite(b.Width) || !positiveFinite(b.Height) {
				return fmt.Errorf("body %s: %w: box %vx%v", label, ErrInvalidShape, b.Width, b.Height)
			}
		case ShapeCircle:
			if !positiveFinite(b.Radius) {
				return fmt.Errorf("body %s: %w: radius %v", label, ErrInvalidShape, b.Radius)
			}
		default:
			return fmt.Errorf("body %s: %w %q", label, ErrUnknownShape, b.Shape)
		}
	}
	return nil
}

// ValidateScale reports whether s can serve as a scale factor.
func ValidateScale(s float64) error {
	if !positiveFinite(s) {
		return fmt.Errorf("%w: %v", ErrInvalidScale, s)
	}
	return nil
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// read returns the file contents and whether they came from the embedded
// worlds.
func read(name string) ([]byte, bool, error) {
	data, err := os.ReadFile(name)
	if err == nil {
		return data, false, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, false, err
	}
	data, embErr := worlds.Read(name)
	if embErr != nil {
		return nil, false, err
	}
	return data, true, nil
}

// loadScripts resolves each body script relative to the world file.
func (w *World) loadScripts(worldPath string, embedded bool) error {
	for i := range w.Bodies {
		b := &w.Bodies[i]
		if b.Script == "" {
			continue
		}
		var (
			data []byte
			err  error
		)
		if embedded {
			data, err = worlds.Read(path.Join(path.Dir(filepath.ToSlash(worldPath)), b.Script))
		} else {
			data, err = os.ReadFile(filepath.Join(filepath.Dir(worldPath), b.Script))
		}
		if err != nil {
			return fmt.Errorf("config: body %q script %s: %w", b.Name, b.Script, err)
		}
		b.ScriptSource = data
	}
	return nil
}
