package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

const EnvPrefix = "POSEBRIDGE_"

// Env holds the settings that may be overridden from the environment.
type Env struct {
	Scale    *float64 `env:"SCALE"`
	Timestep *float64 `env:"TIMESTEP"`
	LogLevel string   `env:"LOG_LEVEL" envDefault:"info"`
}

// ParseEnv loads POSEBRIDGE_* variables.
func ParseEnv() (Env, error) {
	var e Env
	if err := env.ParseWithOptions(&e, env.Options{Prefix: EnvPrefix}); err != nil {
		return Env{}, fmt.Errorf("config: parse env: %w", err)
	}
	return e, nil
}

// Apply overrides world settings that are set in e.
func (e Env) Apply(w *World) {
	if e.Scale != nil {
		w.Scale = *e.Scale
	}
	if e.Timestep != nil {
		w.Timestep = *e.Timestep
	}
}
