package game

import (
	"math"
	"strings"
)

// Tile classifies one cell of the level grid.
type Tile uint8

const (
	TileEmpty       Tile = iota // open floor
	TileWall                    // blocks movement and sight
	TilePickup                  // collectable card, walkable
	TilePlayerSpawn             // consumed at load, then walkable
	TileEnemySpawn              // consumed at load, then walkable
)

func (t Tile) String() string {
	switch t {
	case TileEmpty:
		return "empty"
	case TileWall:
		return "wall"
	case TilePickup:
		return "pickup"
	case TilePlayerSpawn:
		return "player_spawn"
	case TileEnemySpawn:
		return "enemy_spawn"
	default:
		return "unknown"
	}
}

// tileLegend maps level-file characters to tiles.
var tileLegend = map[rune]Tile{
	' ': TileEmpty,
	'#': TileWall,
	'$': TilePickup,
	'P': TilePlayerSpawn,
	'E': TileEnemySpawn,
}

// GridPos identifies one tile. Comparable, so it doubles as a map key.
type GridPos struct {
	X, Y int
}

// Less orders grid positions lexicographically by (X, Y).
func (p GridPos) Less(o GridPos) bool {
	if p.X != o.X {
		return p.X < o.X
	}
	return p.Y < o.Y
}

// GridMap is the static tile classification of a level.
type GridMap struct {
	Width     int
	Height    int
	TileSize  float64 // world units per cell
	Tiles     []Tile  // row-major: index = x + y*Width
	NextLevel string  // free-form label from the first line of the level file
}

// NewGridMap creates an all-empty grid.
func NewGridMap(width, height int, tileSize float64) *GridMap {
	return &GridMap{
		Width:    width,
		Height:   height,
		TileSize: tileSize,
		Tiles:    make([]Tile, width*height),
	}
}

// ParseGrid builds a GridMap from level text. The first line is the next-level
// label; every following line is a row. Characters outside the legend are
// skipped without complaint, so ragged input must be rejected by LoadLevel.
func ParseGrid(text string, tileSize float64) *GridMap {
	label, body, _ := strings.Cut(text, "\n")
	g := &GridMap{TileSize: tileSize, NextLevel: strings.TrimRight(label, "\r")}

	rows := strings.Split(body, "\n")
	if n := len(rows); n > 0 && strings.TrimRight(rows[n-1], "\r") == "" {
		rows = rows[:n-1]
	}
	for i, row := range rows {
		count := 0
		for _, ch := range row {
			t, ok := tileLegend[ch]
			if !ok {
				continue
			}
			g.Tiles = append(g.Tiles, t)
			count++
		}
		if i == 0 {
			g.Width = count
		}
	}
	g.Height = len(rows)
	return g
}

// inBounds returns true if p is inside the grid.
func (g *GridMap) inBounds(p GridPos) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < g.Width && p.Y < g.Height
}

// TileAt returns the tile at p. Anything outside the grid reads as a wall,
// so the border never needs explicit wall tiles.
func (g *GridMap) TileAt(p GridPos) Tile {
	if !g.inBounds(p) {
		return TileWall
	}
	i := p.X + p.Y*g.Width
	if i >= len(g.Tiles) {
		return TileWall
	}
	return g.Tiles[i]
}

// Walkable returns true if p can be entered by an agent.
func (g *GridMap) Walkable(p GridPos) bool {
	return g.TileAt(p) != TileWall
}

// SetTile overwrites the tile at p. Used by builders and tests only; the
// grid is never mutated during a simulation.
func (g *GridMap) SetTile(p GridPos, t Tile) {
	if !g.inBounds(p) {
		return
	}
	g.Tiles[p.X+p.Y*g.Width] = t
}

// WorldToGrid converts a world point to the nearest grid cell. The grid is
// centred on the world origin.
func (g *GridMap) WorldToGrid(w Vec2) GridPos {
	return GridPos{
		X: int(math.Round(w.X/g.TileSize)) + g.Width/2,
		Y: int(math.Round(w.Y/g.TileSize)) + g.Height/2,
	}
}

// GridToWorld returns the world-space centre of cell p.
func (g *GridMap) GridToWorld(p GridPos) Vec2 {
	return Vec2{
		X: float64(p.X-g.Width/2) * g.TileSize,
		Y: float64(p.Y-g.Height/2) * g.TileSize,
	}
}

// SpawnPoints returns every cell of the given kind in row-major order.
func (g *GridMap) SpawnPoints(kind Tile) []GridPos {
	var out []GridPos
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			p := GridPos{x, y}
			if g.TileAt(p) == kind {
				out = append(out, p)
			}
		}
	}
	return out
}

// WallCount returns how many wall tiles the grid holds.
func (g *GridMap) WallCount() int {
	n := 0
	for _, t := range g.Tiles {
		if t == TileWall {
			n++
		}
	}
	return n
}

// WorldBounds returns the min and max world corners covered by the grid.
func (g *GridMap) WorldBounds() (Vec2, Vec2) {
	half := g.TileSize / 2
	lo := g.GridToWorld(GridPos{0, 0}).Sub(Vec2{half, half})
	hi := g.GridToWorld(GridPos{g.Width - 1, g.Height - 1}).Add(Vec2{half, half})
	return lo, hi
}
