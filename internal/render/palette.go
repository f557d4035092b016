// Package render draws game.RenderFrame snapshots with ebiten and drives an
// interactive session: player movement, smoke drops, pause and speed control.
package render

import (
	"image/color"

	"golang.org/x/image/colornames"

	"github.com/Garsondee/Shadow-Sense/internal/game"
)

var (
	colBackground = color.RGBA{R: 10, G: 11, B: 14, A: 255}
	colFloor      = color.RGBA{R: 26, G: 28, B: 34, A: 255}
	colWall       = colornames.Slategray
	colWallEdge   = colornames.Lightslategray
	colBlocker    = color.RGBA{R: 150, G: 150, B: 160, A: 150}
	colTarget     = colornames.Limegreen
	colPath       = color.RGBA{R: 90, G: 140, B: 255, A: 140}
	colGoal       = colornames.Cornflowerblue
	colLastSeen   = colornames.Orange
	colAlert      = colornames.Crimson
	colHUDPanel   = color.RGBA{R: 6, G: 8, B: 10, A: 210}
	colHUDEdge    = color.RGBA{R: 70, G: 90, B: 110, A: 180}
)

// enemyColor codes the enemy body by behaviour.
func enemyColor(v game.EnemyView) color.RGBA {
	if v.Mode == game.ModeChasing {
		return colAlert
	}
	return colornames.Gold
}

// lightTint is the colour a light is composited with. A cone whose owner can
// see the target turns red.
func lightTint(v game.LightView) color.RGBA {
	if v.Visible {
		return colAlert
	}
	if v.Color == (color.RGBA{}) {
		return colornames.White
	}
	return v.Color
}
