// Package render turns scene transforms and colliders into screen-space
// geometry. It draws nothing itself.
package render

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/posebridge/bridge"
	"github.com/milk9111/posebridge/ecs/component"
)

const circleSegments = 24

// Outline returns the collider of rb as a closed polygon in scene units,
// placed by t. scale converts simulation sizes to scene sizes. Circles carry
// a trailing spoke from the center so their rotation is visible.
func Outline(t bridge.SceneTransform, rb *component.RigidBody, scale float64) []cp.Vector {
	center := cp.Vector{X: t.Translation.X(), Y: t.Translation.Y()}
	rot := cp.ForAngle(t.PlanarAngle())
	place := func(local cp.Vector) cp.Vector {
		return center.Add(local.Mult(scale).Rotate(rot))
	}

	if rb.ShapeKind == component.ShapeCircle {
		pts := make([]cp.Vector, 0, circleSegments+3)
		for i := 0; i <= circleSegments; i++ {
			a := 2 * math.Pi * float64(i) / circleSegments
			pts = append(pts, place(cp.Vector{X: rb.Radius * math.Cos(a), Y: rb.Radius * math.Sin(a)}))
		}
		return append(pts, center)
	}

	hw, hh := rb.Width/2, rb.Height/2
	return []cp.Vector{
		place(cp.Vector{X: -hw, Y: -hh}),
		place(cp.Vector{X: hw, Y: -hh}),
		place(cp.Vector{X: hw, Y: hh}),
		place(cp.Vector{X: -hw, Y: hh}),
		place(cp.Vector{X: -hw, Y: -hh}),
	}
}

// Camera maps scene units to screen pixels.
type Camera struct {
	X, Y float64
	Zoom float64
}

func (c Camera) ToScreen(p cp.Vector) (float32, float32) {
	zoom := c.Zoom
	if zoom == 0 {
		zoom = 1
	}
	return float32((p.X - c.X) * zoom), float32((p.Y - c.Y) * zoom)
}
