package render

import (
	"math"

	"github.com/Garsondee/Shadow-Sense/internal/game"
)

const (
	minZoom = 0.2
	maxZoom = 4.0
)

// Camera maps world coordinates to screen pixels. Center is the world point
// shown in the middle of the screen.
type Camera struct {
	Center        game.Vec2
	Zoom          float64
	Width, Height int
}

// ToScreen converts a world point to screen coordinates.
func (c Camera) ToScreen(p game.Vec2) (float32, float32) {
	x := (p.X-c.Center.X)*c.Zoom + float64(c.Width)/2
	y := (p.Y-c.Center.Y)*c.Zoom + float64(c.Height)/2
	return float32(x), float32(y)
}

// ToWorld converts screen coordinates back to a world point.
func (c Camera) ToWorld(x, y int) game.Vec2 {
	return game.Vec2{
		X: (float64(x)-float64(c.Width)/2)/c.Zoom + c.Center.X,
		Y: (float64(y)-float64(c.Height)/2)/c.Zoom + c.Center.Y,
	}
}

// Fit centres the camera on the box [lo, hi] and zooms so it fills the
// screen with margin pixels to spare.
func (c *Camera) Fit(lo, hi game.Vec2, margin float64) {
	c.Center = lo.Add(hi).Scale(0.5)
	w, h := hi.X-lo.X, hi.Y-lo.Y
	if w <= 0 || h <= 0 || c.Width <= 0 || c.Height <= 0 {
		c.Zoom = 1
		return
	}
	zx := (float64(c.Width) - 2*margin) / w
	zy := (float64(c.Height) - 2*margin) / h
	c.Zoom = clampZoom(math.Min(zx, zy))
}

// ZoomBy scales the zoom by factor, keeping it within limits.
func (c *Camera) ZoomBy(factor float64) {
	c.Zoom = clampZoom(c.Zoom * factor)
}

// Viewport returns the world-space box visible on screen.
func (c Camera) Viewport() (game.Vec2, game.Vec2) {
	return c.ToWorld(0, 0), c.ToWorld(c.Width, c.Height)
}

func clampZoom(z float64) float64 {
	return math.Max(minZoom, math.Min(maxZoom, z))
}
