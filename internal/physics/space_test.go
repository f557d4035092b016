package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garsondee/Shadow-Sense/internal/game"
)

func wallAt(x, y, w, h float64) game.Polygon {
	return game.RectPolygon(game.Vec2{X: x, Y: y}, game.Vec2{X: x + w, Y: y + h})
}

func TestCastRay_HitsNearestWall(t *testing.T) {
	s := NewSpace([]game.Polygon{wallAt(100, -50, 20, 100), wallAt(200, -50, 20, 100)})

	hit, ok := s.CastRay(game.Vec2{}, game.Vec2{X: 1}, 500, nil)
	require.True(t, ok)
	assert.Equal(t, game.WallCollider, hit.Collider)
	assert.InDelta(t, 100, hit.Point.X, 1e-6)
	assert.InDelta(t, 100, hit.Distance, 1e-6)
}

func TestCastRay_MissBeyondRange(t *testing.T) {
	s := NewSpace([]game.Polygon{wallAt(100, -50, 20, 100)})
	_, ok := s.CastRay(game.Vec2{}, game.Vec2{X: 1}, 50, nil)
	assert.False(t, ok)
}

func TestCastRay_FilterSkipsOwnCollider(t *testing.T) {
	s := NewSpace(nil)
	self := s.AddCircle(game.Vec2{}, 12)
	other := s.AddCircle(game.Vec2{X: 200}, 10)
	require.NotEqual(t, self, other)

	hit, ok := s.CastRay(game.Vec2{}, game.Vec2{X: 1}, 500, func(id game.ColliderID) bool { return id != self })
	require.True(t, ok)
	assert.Equal(t, other, hit.Collider)
	assert.InDelta(t, 190, hit.Distance, 1e-6)

	_, ok = s.CastRay(game.Vec2{}, game.Vec2{X: 1}, 500, func(game.ColliderID) bool { return false })
	assert.False(t, ok, "a filter rejecting everything sees nothing")
}

func TestCastRay_WallShadowsBody(t *testing.T) {
	s := NewSpace([]game.Polygon{wallAt(100, -50, 20, 100)})
	target := s.AddCircle(game.Vec2{X: 300}, 10)

	hit, ok := s.CastRay(game.Vec2{}, game.Vec2{X: 2}, 500, nil)
	require.True(t, ok)
	assert.NotEqual(t, target, hit.Collider)
	assert.Equal(t, game.WallCollider, hit.Collider)
}

func TestSpace_VelocityIntegrates(t *testing.T) {
	s := NewSpace(nil)
	id := s.AddCircle(game.Vec2{X: 10, Y: 10}, 5)
	s.SetVelocity(id, game.Vec2{X: 60})
	s.Step(1.0 / 60) // applies the command
	p, _ := s.Position(id)
	assert.InDelta(t, 10, p.X, 1e-9)
	for i := 0; i < 60; i++ {
		s.Step(1.0 / 60)
	}
	p, ok := s.Position(id)
	require.True(t, ok)
	assert.InDelta(t, 70, p.X, 1e-6)
	assert.InDelta(t, 10, p.Y, 1e-6)
}

func TestSpace_WallStopsBody(t *testing.T) {
	s := NewSpace([]game.Polygon{wallAt(100, -100, 20, 200)})
	id := s.AddCircle(game.Vec2{X: 50}, 10)
	for i := 0; i < 120; i++ {
		s.SetVelocity(id, game.Vec2{X: 120})
		s.Step(1.0 / 60)
	}
	p, _ := s.Position(id)
	assert.InDelta(t, 90, p.X, 1.5, "body should rest against the wall face")
}

func TestSpace_BodySlidesAlongWall(t *testing.T) {
	s := NewSpace([]game.Polygon{wallAt(100, -200, 20, 400)})
	id := s.AddCircle(game.Vec2{X: 50}, 10)
	for i := 0; i < 60; i++ {
		s.SetVelocity(id, game.Vec2{X: 120, Y: 60})
		s.Step(1.0 / 60)
	}
	p, _ := s.Position(id)
	assert.Less(t, p.X, 92.0)
	assert.Greater(t, p.Y, 50.0, "the tangential part of the command should survive the contact")
}

func TestSpace_SetPositionAndUnknownID(t *testing.T) {
	s := NewSpace(nil)
	id := s.AddCircle(game.Vec2{}, 5)
	s.SetPosition(id, game.Vec2{X: 40, Y: -8})
	p, ok := s.Position(id)
	require.True(t, ok)
	assert.Equal(t, game.Vec2{X: 40, Y: -8}, p)

	_, ok = s.Position(99)
	assert.False(t, ok)
	s.SetVelocity(99, game.Vec2{X: 1}) // no-op
}

func TestSpace_DrivesWorld(t *testing.T) {
	g := game.ParseGrid("c\n#######\n#E   P#\n#######\n", 32)
	s := NewSpace(game.NewObstacleRegistry(g).Static())
	w, err := game.NewWorld(g, s, game.DefaultTuning())
	require.NoError(t, err)

	ep := g.GridToWorld(game.GridPos{X: 1, Y: 1})
	tp := g.GridToWorld(game.GridPos{X: 5, Y: 1})
	w.AddEnemy(s.AddCircle(ep, 12), ep, 0, 3)
	w.Target = &game.Target{Collider: s.AddCircle(tp, 10), Pos: tp}

	for i := 0; i < 30; i++ {
		require.NoError(t, w.Step(1.0/60))
		s.Step(1.0 / 60)
	}
	assert.Equal(t, game.ModeChasing, w.Enemies[0].Mode())
	p, _ := s.Position(w.Enemies[0].Collider)
	assert.Greater(t, p.X, ep.X)
}
