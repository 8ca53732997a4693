package main

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/posebridge/bridge"
)

const debugCircleSegments = 24

// debugDrawer renders Chipmunk's own view of the space, mapped through the
// bridge so it lines up with the scene outlines when the sync is correct.
type debugDrawer struct {
	game   *Game
	screen *ebiten.Image
}

func (d *debugDrawer) toScene(p cp.Vector) cp.Vector {
	cfg := d.game.cfg
	t := bridge.Planar{}.ToSceneTransform(bridge.Pose2{Translation: p}, cfg.Scale, cfg.ReferenceFrame.Planar())
	return cp.Vector{X: t.Translation.X(), Y: t.Translation.Y()}
}

func (d *debugDrawer) line(a, b cp.Vector) {
	d.game.drawPolyline(d.screen, []cp.Vector{d.toScene(a), d.toScene(b)}, colorDebug)
}

func (d *debugDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	prev := pos.Add(cp.Vector{X: radius})
	for i := 1; i <= debugCircleSegments; i++ {
		a := 2 * math.Pi * float64(i) / debugCircleSegments
		next := pos.Add(cp.Vector{X: radius * math.Cos(a), Y: radius * math.Sin(a)})
		d.line(prev, next)
		prev = next
	}
	d.line(pos, pos.Add(cp.ForAngle(angle).Mult(radius)))
}

func (d *debugDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.line(a, b)
}

func (d *debugDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.line(a, b)
}

func (d *debugDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	for i := 0; i < count; i++ {
		d.line(verts[i], verts[(i+1)%count])
	}
}

func (d *debugDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	d.line(pos, pos)
}

func (d *debugDrawer) Flags() uint {
	return cp.DRAW_SHAPES
}

func (d *debugDrawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 0.3, G: 1, B: 0.5, A: 0.5}
}

func (d *debugDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	return d.OutlineColor()
}

func (d *debugDrawer) ConstraintColor() cp.FColor {
	return d.OutlineColor()
}

func (d *debugDrawer) CollisionPointColor() cp.FColor {
	return d.OutlineColor()
}

func (d *debugDrawer) Data() interface{} {
	return nil
}
