package render

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/sirupsen/logrus"

	"github.com/Garsondee/Shadow-Sense/internal/game"
	"github.com/Garsondee/Shadow-Sense/internal/logger"
	"github.com/Garsondee/Shadow-Sense/internal/physics"
)

const (
	playerSpeed = 170.0
	smokeTTL    = 6.0
	fitMargin   = 24.0
)

// Session is one loaded level: the world and the physics space behind it.
type Session struct {
	Level string
	World *game.World
	Space *physics.Space
	DT    float64
}

// Loader builds a session for the named level. An empty name reloads the
// configured level.
type Loader func(level string) (*Session, error)

// Game implements ebiten.Game over a Session.
type Game struct {
	load    Loader
	reload  <-chan string
	session *Session
	view    Renderer
	log     *logrus.Entry

	width, height int

	simSpeed  float64 // 0=paused, 0.5, 1, 2, 4
	tickAccum float64
	showHUD   bool
	status    string
	prevKeys  map[ebiten.Key]bool
	prevMouse bool
}

// NewGame loads the first session. reload may be nil; every value received
// on it triggers a rebuild of the current level.
func NewGame(load Loader, reload <-chan string, width, height int) (*Game, error) {
	g := &Game{
		load:     load,
		reload:   reload,
		log:      logger.Component("render"),
		width:    width,
		height:   height,
		simSpeed: 1,
		showHUD:  true,
		prevKeys: make(map[ebiten.Key]bool),
	}
	if err := g.switchLevel(""); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Game) switchLevel(name string) error {
	s, err := g.load(name)
	if err != nil {
		return err
	}
	g.session = s
	g.view.Cam.Width, g.view.Cam.Height = g.width, g.height
	lo, hi := s.World.Grid.WorldBounds()
	g.view.Cam.Fit(lo, hi, fitMargin)
	g.log.WithFields(logrus.Fields{
		"level":   s.Level,
		"enemies": len(s.World.Enemies),
	}).Info("level loaded")
	return nil
}

func (g *Game) Update() error {
	g.pollReload()
	g.handleInput()

	if g.simSpeed <= 0 {
		return nil
	}
	g.tickAccum += g.simSpeed
	for g.tickAccum >= 1.0 {
		g.tickAccum -= 1.0
		if err := g.simTick(); err != nil {
			return err
		}
	}
	return nil
}

func (g *Game) simTick() error {
	s := g.session
	w := s.World
	w.ViewMin, w.ViewMax = g.view.Cam.Viewport()
	if err := w.Step(s.DT); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	s.Space.Step(s.DT)
	if w.Target != nil && !w.Grid.Walkable(w.Grid.WorldToGrid(w.Target.Pos)) {
		g.log.WithField("pos", w.Target.Pos).Warn("player inside a wall")
	}
	return nil
}

func (g *Game) pollReload() {
	if g.reload == nil {
		return
	}
	select {
	case name, ok := <-g.reload:
		if !ok {
			g.reload = nil
			return
		}
		if err := g.switchLevel(g.session.Level); err != nil {
			g.status = "reload failed: " + err.Error()
			g.log.WithError(err).WithField("file", name).Error("hot reload failed")
			return
		}
		g.status = "reloaded " + name
	default:
	}
}

// justPressed reports a key edge and records the current state.
func (g *Game) justPressed(k ebiten.Key, cur map[ebiten.Key]bool) bool {
	down := ebiten.IsKeyPressed(k)
	cur[k] = down
	return down && !g.prevKeys[k]
}

func (g *Game) handleInput() {
	cur := map[ebiten.Key]bool{}
	w := g.session.World

	if g.justPressed(ebiten.KeyP, cur) {
		if g.simSpeed == 0 {
			g.simSpeed = 1
		} else {
			g.simSpeed = 0
		}
	}
	if g.justPressed(ebiten.KeyPeriod, cur) {
		g.simSpeed = nextSpeed(g.simSpeed, 1)
	}
	if g.justPressed(ebiten.KeyComma, cur) {
		g.simSpeed = nextSpeed(g.simSpeed, -1)
	}
	if g.justPressed(ebiten.KeyH, cur) {
		g.showHUD = !g.showHUD
	}
	if g.justPressed(ebiten.KeyTab, cur) {
		g.view.ShowPath = !g.view.ShowPath
	}
	if g.justPressed(ebiten.KeyR, cur) {
		if err := g.switchLevel(g.session.Level); err != nil {
			g.status = "reload failed: " + err.Error()
		}
	}
	if g.justPressed(ebiten.KeyN, cur) && w.Grid.NextLevel != "" {
		if err := g.switchLevel(w.Grid.NextLevel); err != nil {
			g.status = "next level failed: " + err.Error()
		}
	}
	if g.justPressed(ebiten.KeyF2, cur) {
		g.copyReport()
	}
	if g.justPressed(ebiten.KeyEqual, cur) {
		g.view.Cam.ZoomBy(1.25)
	}
	if g.justPressed(ebiten.KeyMinus, cur) {
		g.view.Cam.ZoomBy(0.8)
	}
	g.prevKeys = cur

	if _, dy := ebiten.Wheel(); dy != 0 {
		if dy > 0 {
			g.view.Cam.ZoomBy(1.1)
		} else {
			g.view.Cam.ZoomBy(1 / 1.1)
		}
	}

	// Left click drops a smoke cloud.
	down := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	if down && !g.prevMouse {
		mx, my := ebiten.CursorPosition()
		g.session.World.AddBlocker(g.view.Cam.ToWorld(mx, my), smokeTTL)
	}
	g.prevMouse = down

	g.movePlayer()
}

func (g *Game) movePlayer() {
	t := g.session.World.Target
	if t == nil {
		return
	}
	var v game.Vec2
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		v.Y--
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		v.Y++
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		v.X--
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		v.X++
	}
	g.session.Space.SetVelocity(t.Collider, v.Normalize(game.Vec2{}).Scale(playerSpeed))
}

// copyReport puts the sim log summary on the system clipboard.
func (g *Game) copyReport() {
	w := g.session.World
	report := w.Log.Summary(w) + "\n" + w.Log.FormatRange(w.Tick-600, w.Tick)
	if err := clipboard.WriteAll(report); err != nil {
		g.status = "clipboard: " + err.Error()
		g.log.WithError(err).Warn("copy report failed")
		return
	}
	g.status = fmt.Sprintf("report copied (%d bytes)", len(report))
}

// nextSpeed steps through the fixed speed ladder.
func nextSpeed(cur float64, dir int) float64 {
	ladder := []float64{0.5, 1, 2, 4}
	i := 0
	for i < len(ladder)-1 && ladder[i] < cur {
		i++
	}
	i += dir
	if i < 0 {
		i = 0
	}
	if i >= len(ladder) {
		i = len(ladder) - 1
	}
	return ladder[i]
}

func (g *Game) Draw(screen *ebiten.Image) {
	w := g.session.World
	g.view.Draw(screen, w.Frame())
	if g.showHUD {
		g.drawHUD(screen)
	}
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	w := g.session.World
	speed := fmt.Sprintf("%.1fx", g.simSpeed)
	if g.simSpeed == 0 {
		speed = "PAUSED"
	}
	chasing := 0
	for i := range w.Enemies {
		if w.Enemies[i].Mode() == game.ModeChasing {
			chasing++
		}
	}
	lines := []string{
		fmt.Sprintf("%s  T=%d  %s", g.session.Level, w.Tick, speed),
		fmt.Sprintf("enemies %d  chasing %d  smoke %d", len(w.Enemies), chasing, len(w.Blockers)),
		"WASD move  click smoke  P pause  ,/. speed",
		"Tab paths  R reload  N next  F2 copy  H hud",
	}
	if g.status != "" {
		lines = append(lines, g.status)
	}

	const lineH, charW, pad = 14, 6, 6
	maxLen := 0
	for _, l := range lines {
		maxLen = max(maxLen, len(l))
	}
	bw := float32(maxLen*charW + 2*pad)
	bh := float32(len(lines)*lineH + 2*pad)
	vector.FillRect(screen, 4, 4, bw, bh, colHUDPanel, false)
	vector.StrokeRect(screen, 4, 4, bw, bh, 1.0, colHUDEdge, false)
	for i, l := range lines {
		ebitenutil.DebugPrintAt(screen, l, 4+pad, 4+pad+i*lineH)
	}
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}
