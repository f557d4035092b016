package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/Garsondee/Shadow-Sense/internal/game"
)

const (
	fanSteps     = 48
	lightOpacity = 0.28
	bodyRadius   = 12
)

// Renderer draws frames. It owns an offscreen buffer for light fans so
// overlapping cones do not blow out when composited.
type Renderer struct {
	Cam      Camera
	ShowPath bool

	lightBuf *ebiten.Image
}

// Draw renders f onto screen.
func (r *Renderer) Draw(screen *ebiten.Image, f game.RenderFrame) {
	screen.Fill(colBackground)
	r.drawFloor(screen, f)
	r.drawLights(screen, f.Lights)
	r.drawRects(screen, f.Static, colWall, colWallEdge)
	r.drawRects(screen, f.Blockers, colBlocker, colBlocker)
	if r.ShowPath {
		r.drawPaths(screen, f.Enemies)
	}
	r.drawEnemies(screen, f.Enemies)
	if f.Target != nil {
		x, y := r.Cam.ToScreen(f.Target.Pos)
		vector.FillCircle(screen, x, y, float32(10*r.Cam.Zoom), colTarget, true)
	}
}

func (r *Renderer) drawFloor(screen *ebiten.Image, f game.RenderFrame) {
	lo, hi := boundsOf(f.Static)
	x0, y0 := r.Cam.ToScreen(lo)
	x1, y1 := r.Cam.ToScreen(hi)
	vector.FillRect(screen, x0, y0, x1-x0, y1-y0, colFloor, false)
}

// drawRects fills the bounding box of each polygon. Walls and blockers are
// always axis-aligned rectangles.
func (r *Renderer) drawRects(screen *ebiten.Image, polys []game.Polygon, fill, edge color.RGBA) {
	for _, p := range polys {
		lo, hi := p.Bounds()
		x0, y0 := r.Cam.ToScreen(lo)
		x1, y1 := r.Cam.ToScreen(hi)
		vector.FillRect(screen, x0, y0, x1-x0, y1-y0, fill, false)
		vector.StrokeRect(screen, x0, y0, x1-x0, y1-y0, 1.0, edge, false)
	}
}

// drawLights fills each light's fan white into the buffer, one tint at a
// time, and composites the buffer with that tint at low opacity.
func (r *Renderer) drawLights(screen *ebiten.Image, lights []game.LightView) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	if r.lightBuf == nil || r.lightBuf.Bounds().Dx() != w || r.lightBuf.Bounds().Dy() != h {
		r.lightBuf = ebiten.NewImage(w, h)
	}

	groups := map[color.RGBA][]game.Polygon{}
	var order []color.RGBA
	for _, lv := range lights {
		if !lv.InView {
			continue
		}
		fan := lv.Fan(fanSteps)
		if len(fan) < 3 {
			continue
		}
		tint := lightTint(lv)
		if _, ok := groups[tint]; !ok {
			order = append(order, tint)
		}
		groups[tint] = append(groups[tint], fan)
	}

	for _, tint := range order {
		r.lightBuf.Clear()
		for _, fan := range groups[tint] {
			var path vector.Path
			x, y := r.Cam.ToScreen(fan[0])
			path.MoveTo(x, y)
			for _, p := range fan[1:] {
				x, y = r.Cam.ToScreen(p)
				path.LineTo(x, y)
			}
			path.Close()
			vector.FillPath(r.lightBuf, &path, &vector.FillOptions{}, &vector.DrawPathOptions{AntiAlias: true})
		}
		opts := &ebiten.DrawImageOptions{}
		opts.ColorScale.ScaleWithColor(tint)
		opts.ColorScale.ScaleAlpha(lightOpacity)
		screen.DrawImage(r.lightBuf, opts)
	}
}

func (r *Renderer) drawPaths(screen *ebiten.Image, enemies []game.EnemyView) {
	for _, e := range enemies {
		if !e.Moving {
			continue
		}
		px, py := r.Cam.ToScreen(e.Pos)
		for _, wp := range e.Path {
			x, y := r.Cam.ToScreen(wp)
			vector.StrokeLine(screen, px, py, x, y, 1.0, colPath, false)
			px, py = x, y
		}
		gx, gy := r.Cam.ToScreen(e.Goal)
		vector.StrokeCircle(screen, gx, gy, 4, 1.0, colGoal, true)
	}
}

func (r *Renderer) drawEnemies(screen *ebiten.Image, enemies []game.EnemyView) {
	rad := float32(bodyRadius * r.Cam.Zoom)
	for _, e := range enemies {
		x, y := r.Cam.ToScreen(e.Pos)
		vector.FillCircle(screen, x, y, rad, enemyColor(e), true)

		nose := e.Pos.Add(game.FromAngle(e.Facing).Scale(bodyRadius * 1.6))
		nx, ny := r.Cam.ToScreen(nose)
		vector.StrokeLine(screen, x, y, nx, ny, 2.0, colornames.White, false)

		if e.Mode == game.ModeSearching {
			lx, ly := r.Cam.ToScreen(e.LastSeen)
			vector.StrokeLine(screen, lx-4, ly-4, lx+4, ly+4, 2.0, colLastSeen, false)
			vector.StrokeLine(screen, lx-4, ly+4, lx+4, ly-4, 2.0, colLastSeen, false)
		}
	}
}

// boundsOf returns the box enclosing every polygon.
func boundsOf(polys []game.Polygon) (game.Vec2, game.Vec2) {
	if len(polys) == 0 {
		return game.Vec2{}, game.Vec2{}
	}
	lo, hi := polys[0].Bounds()
	for _, p := range polys[1:] {
		a, b := p.Bounds()
		lo.X, lo.Y = min(lo.X, a.X), min(lo.Y, a.Y)
		hi.X, hi.Y = max(hi.X, b.X), max(hi.Y, b.Y)
	}
	return lo, hi
}
