package main

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/posebridge/bridge"
	"github.com/milk9111/posebridge/config"
	"github.com/milk9111/posebridge/ecs"
	"github.com/milk9111/posebridge/ecs/component"
	"github.com/milk9111/posebridge/ecs/entity"
	"github.com/milk9111/posebridge/ecs/system"
	"github.com/milk9111/posebridge/render"
	"go.uber.org/zap"
)

const (
	baseWidth  = 1280
	baseHeight = 720
)

var (
	colorBackground = color.RGBA{0x12, 0x14, 0x1c, 0xff}
	colorDynamic    = color.RGBA{0x6c, 0xc4, 0xff, 0xff}
	colorStatic     = color.RGBA{0x9a, 0x9a, 0x9a, 0xff}
	colorKinematic  = color.RGBA{0xff, 0xb3, 0x47, 0xff}
	colorFrame      = color.RGBA{0xff, 0x4d, 0x6d, 0xff}
	colorDebug      = color.RGBA{0x50, 0xff, 0x78, 0x80}
)

type Game struct {
	frames int
	paused bool
	debug  bool

	cfg     *config.World
	world   *ecs.World
	sched   *ecs.Scheduler
	physics *system.PhysicsSystem
	kin     *system.KinematicSystem
	camera  render.Camera
	watcher *config.Watcher
	logger  *zap.Logger
}

func NewGame(worldPath string, watch, debug bool, logger *zap.Logger) (*Game, error) {
	cfg, err := config.Load(worldPath)
	if err != nil {
		return nil, err
	}

	g := &Game{
		debug:  debug,
		camera: render.Camera{Zoom: 1},
		logger: logger.With(zap.String("world", cfg.Path)),
	}
	if err := g.reset(cfg); err != nil {
		return nil, err
	}

	if watch {
		w, err := config.NewWatcher(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("viewer: watch %s: %w", cfg.Path, err)
		}
		g.watcher = w
	}
	return g, nil
}

// reset rebuilds the world from cfg.
func (g *Game) reset(cfg *config.World) error {
	world := ecs.NewWorld()
	if _, err := entity.BuildBodies(world, cfg); err != nil {
		return err
	}
	g.cfg = cfg
	g.world = world
	g.kin = system.NewKinematicSystem(cfg.Timestep, g.logger)
	g.physics = system.NewPhysicsSystem(entity.PhysicsSettings(cfg), system.WithLogger(g.logger))
	g.sched = ecs.NewScheduler(g.kin, g.physics)
	return nil
}

func (g *Game) tps() int {
	return int(math.Round(1 / g.cfg.Timestep))
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) Update() error {
	g.frames++
	g.pollReload()

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.paused = !g.paused
	case inpututil.IsKeyJustPressed(ebiten.KeyD):
		g.debug = !g.debug
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		if cfg, err := config.Load(g.cfg.Path); err != nil {
			g.logger.Warn("reload failed", zap.Error(err))
		} else if err := g.reset(cfg); err != nil {
			g.logger.Warn("reset failed", zap.Error(err))
		}
	}

	_, wheel := ebiten.Wheel()
	if wheel != 0 {
		g.camera.Zoom = math.Max(0.1, g.camera.Zoom*math.Pow(1.1, wheel))
	}

	if !g.paused || inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.sched.Update(g.world)
		g.world.Events().Drain()
	}
	return nil
}

func (g *Game) pollReload() {
	if g.watcher == nil {
		return
	}
	select {
	case next, ok := <-g.watcher.Worlds:
		if ok {
			g.cfg.Scale, g.cfg.ReferenceFrame, g.cfg.Gravity, g.cfg.Timestep = next.Scale, next.ReferenceFrame, next.Gravity, next.Timestep
			g.physics.SetSettings(entity.PhysicsSettings(next))
			g.kin.SetTimestep(next.Timestep)
			ebiten.SetTPS(g.tps())
		}
	case err, ok := <-g.watcher.Errors:
		if ok {
			g.logger.Warn("world reload failed", zap.Error(err))
		}
	default:
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)

	g.drawFrame(screen)
	ecs.ForEach2(g.world, component.RigidBodyComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, rb *component.RigidBody, t *bridge.SceneTransform) {
		g.drawPolyline(screen, render.Outline(*t, rb, g.cfg.Scale), bodyColor(rb.Kind))
	})
	if g.debug {
		cp.DrawSpace(g.physics.Space(), &debugDrawer{game: g, screen: screen})
	}

	status := "running"
	if g.paused {
		status = "paused (N steps)"
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.2f  t=%.2fs  scale=%.1f  %s\nspace pause  d debug  r reload  wheel zoom",
		ebiten.ActualFPS(), g.physics.Elapsed(), g.cfg.Scale, status))
}

// drawFrame marks the simulation origin and axes in the scene.
func (g *Game) drawFrame(screen *ebiten.Image) {
	frame := g.cfg.ReferenceFrame.Planar()
	origin := frame.Translation
	rot := cp.ForAngle(frame.Angle)
	axis := g.cfg.Scale
	g.drawPolyline(screen, []cp.Vector{origin.Add(cp.Vector{X: axis}.Rotate(rot)), origin, origin.Add(cp.Vector{Y: axis}.Rotate(rot))}, colorFrame)
}

func (g *Game) drawPolyline(screen *ebiten.Image, pts []cp.Vector, clr color.Color) {
	for i := 1; i < len(pts); i++ {
		x0, y0 := g.camera.ToScreen(pts[i-1])
		x1, y1 := g.camera.ToScreen(pts[i])
		vector.StrokeLine(screen, x0, y0, x1, y1, 1.5, clr, true)
	}
}

func bodyColor(kind component.BodyKind) color.Color {
	switch kind {
	case component.BodyStatic:
		return colorStatic
	case component.BodyKinematic:
		return colorKinematic
	default:
		return colorDynamic
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return baseWidth, baseHeight
}
