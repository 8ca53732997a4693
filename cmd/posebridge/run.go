package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/milk9111/posebridge/config"
	"github.com/milk9111/posebridge/ecs"
	"github.com/milk9111/posebridge/ecs/component"
	"github.com/milk9111/posebridge/ecs/entity"
	"github.com/milk9111/posebridge/ecs/system"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type runOptions struct {
	world       string
	steps       int
	watch       bool
	metricsAddr string
}

type runDoc struct {
	Steps   int       `yaml:"steps"`
	Elapsed float64   `yaml:"elapsed"`
	Bodies  []bodyDoc `yaml:"bodies"`
}

type bodyDoc struct {
	Name      string   `yaml:"name"`
	Kind      string   `yaml:"kind"`
	Transform sceneDoc `yaml:"transform"`
}

func newRunCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Step a world file headlessly and print the final scene transforms",
		Long: `run loads a world file, steps it through Chipmunk2D and prints every
body's scene transform as YAML. With --steps 0 it runs in real time until
interrupted, which together with --watch allows tuning a world live.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := root.logger()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			return runWorld(cmd.Context(), logger, opts, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&opts.world, "world", "w", "", "world file (default: embedded demo world)")
	cmd.Flags().IntVar(&opts.steps, "steps", 600, "number of steps; 0 runs in real time until interrupted")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "reload scale, frame, gravity and timestep when the world file changes")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :2112")
	return cmd
}

func runWorld(ctx context.Context, logger *zap.Logger, opts *runOptions, out io.Writer) error {
	if opts.steps < 0 {
		return fmt.Errorf("run: steps must not be negative: %d", opts.steps)
	}
	cfg, err := config.Load(opts.world)
	if err != nil {
		return err
	}
	logger = logger.With(zap.String("world", cfg.Path))

	w := ecs.NewWorld()
	if _, err := entity.BuildBodies(w, cfg); err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	metrics := system.NewMetrics(reg)
	if opts.metricsAddr != "" {
		stop, err := serveMetrics(opts.metricsAddr, reg, logger)
		if err != nil {
			return err
		}
		defer stop()
	}

	kinematic := system.NewKinematicSystem(cfg.Timestep, logger)
	physics := system.NewPhysicsSystem(entity.PhysicsSettings(cfg), system.WithLogger(logger), system.WithMetrics(metrics))
	sched := ecs.NewScheduler(kinematic, physics)

	var reloads <-chan *config.World
	var reloadErrs <-chan error
	if opts.watch && cfg.Path != "" {
		watcher, err := config.NewWatcher(cfg.Path)
		if err != nil {
			return fmt.Errorf("run: watch %s: %w", cfg.Path, err)
		}
		defer watcher.Close()
		reloads, reloadErrs = watcher.Worlds, watcher.Errors
	}

	var tick <-chan time.Time
	if opts.steps == 0 {
		ticker := time.NewTicker(time.Duration(cfg.Timestep * float64(time.Second)))
		defer ticker.Stop()
		tick = ticker.C
	}

	logger.Info("run started", zap.Int("steps", opts.steps), zap.Int("bodies", len(cfg.Bodies)))

	steps := 0
loop:
	for opts.steps == 0 || steps < opts.steps {
		select {
		case <-ctx.Done():
			break loop
		case next, ok := <-reloads:
			if !ok {
				reloads = nil
				continue
			}
			physics.SetSettings(entity.PhysicsSettings(next))
			kinematic.SetTimestep(next.Timestep)
			logger.Info("world reloaded", zap.Float64("scale", next.Scale))
			continue
		case err, ok := <-reloadErrs:
			if !ok {
				reloadErrs = nil
				continue
			}
			logger.Warn("world reload failed", zap.Error(err))
			continue
		default:
		}

		if tick != nil {
			select {
			case <-ctx.Done():
				break loop
			case <-tick:
			}
		}
		sched.Update(w)
		for _, evt := range w.Events().Drain() {
			if body, ok := evt.Data.(ecs.BodyEvent); ok {
				logger.Debug(evt.Type, zap.Stringer("entity", body.Entity))
			}
		}
		steps++
	}

	logger.Info("run finished", zap.Int("steps", steps), zap.Float64("elapsed", physics.Elapsed()))
	return writeRunDoc(out, w, steps, physics.Elapsed())
}

func writeRunDoc(out io.Writer, w *ecs.World, steps int, elapsed float64) error {
	doc := runDoc{Steps: steps, Elapsed: elapsed}
	for _, e := range ecs.Entities(w) {
		transform, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			continue
		}
		body := bodyDoc{Name: e.String(), Transform: newSceneDoc(*transform)}
		if name, ok := ecs.Get(w, e, component.NameComponent.Kind()); ok {
			body.Name = string(*name)
		}
		if rb, ok := ecs.Get(w, e, component.RigidBodyComponent.Kind()); ok {
			body.Kind = string(rb.Kind)
		}
		doc.Bodies = append(doc.Bodies, body)
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("run: encode output: %w", err)
	}
	return enc.Close()
}

func serveMetrics(addr string, reg *prometheus.Registry, logger *zap.Logger) (func(), error) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("run: serve metrics: %w", err)
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", zap.Error(err))
		}
	}()
	logger.Info("serving metrics", zap.String("addr", ln.Addr().String()))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("metrics shutdown", zap.Error(err))
		}
	}, nil
}
