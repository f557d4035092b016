package game

import "testing"

const ringLevel = `next
#####
#E  #
# # #
#  P#
#####
`

func TestParseGrid_Dimensions(t *testing.T) {
	g := ParseGrid(ringLevel, 32)
	if g.Width != 5 || g.Height != 5 {
		t.Fatalf("expected 5x5, got %dx%d", g.Width, g.Height)
	}
	if len(g.Tiles) != g.Width*g.Height {
		t.Fatalf("expected %d tiles, got %d", g.Width*g.Height, len(g.Tiles))
	}
	if g.NextLevel != "next" {
		t.Fatalf("expected next-level label %q, got %q", "next", g.NextLevel)
	}
}

func TestParseGrid_Legend(t *testing.T) {
	g := ParseGrid("x\n #$PE\n", 16)
	want := []Tile{TileEmpty, TileWall, TilePickup, TilePlayerSpawn, TileEnemySpawn}
	for i, w := range want {
		if got := g.TileAt(GridPos{i, 0}); got != w {
			t.Fatalf("col %d: expected %s, got %s", i, w, got)
		}
	}
}

func TestParseGrid_SkipsUnknownAndCR(t *testing.T) {
	g := ParseGrid("x\r\n#?#\r\n #\r\n", 16)
	if g.Width != 2 || g.Height != 2 {
		t.Fatalf("expected 2x2 after skipping, got %dx%d", g.Width, g.Height)
	}
	if g.NextLevel != "x" {
		t.Fatalf("label should lose its CR, got %q", g.NextLevel)
	}
}

func TestTileAt_OutOfBoundsIsWall(t *testing.T) {
	g := NewGridMap(3, 3, 16)
	for _, p := range []GridPos{{-1, 0}, {0, -1}, {3, 0}, {0, 3}} {
		if g.TileAt(p) != TileWall {
			t.Fatalf("%v: out-of-bounds cell should read as wall", p)
		}
		if g.Walkable(p) {
			t.Fatalf("%v: out-of-bounds cell should not be walkable", p)
		}
	}
	if !g.Walkable(GridPos{1, 1}) {
		t.Fatal("empty cell should be walkable")
	}
}

func TestSpawnsAreWalkable(t *testing.T) {
	g := ParseGrid(ringLevel, 32)
	e := g.SpawnPoints(TileEnemySpawn)
	p := g.SpawnPoints(TilePlayerSpawn)
	if len(e) != 1 || e[0] != (GridPos{1, 1}) {
		t.Fatalf("expected enemy spawn at (1,1), got %v", e)
	}
	if len(p) != 1 || p[0] != (GridPos{3, 3}) {
		t.Fatalf("expected player spawn at (3,3), got %v", p)
	}
	if !g.Walkable(e[0]) || !g.Walkable(p[0]) {
		t.Fatal("spawn tiles should be walkable")
	}
}

func TestWorldGridRoundTrip(t *testing.T) {
	g := NewGridMap(10, 8, 32)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			p := GridPos{x, y}
			if got := g.WorldToGrid(g.GridToWorld(p)); got != p {
				t.Fatalf("round trip %v -> %v", p, got)
			}
		}
	}
	// The grid is centred: the middle cell sits on the world origin.
	if c := g.GridToWorld(GridPos{5, 4}); c != (Vec2{}) {
		t.Fatalf("expected centre cell at origin, got %v", c)
	}
	// A point a little off a cell centre still maps to that cell.
	if got := g.WorldToGrid(Vec2{32 + 10, -32 - 10}); got != (GridPos{6, 3}) {
		t.Fatalf("expected (6,3), got %v", got)
	}
}

func TestWorldBounds(t *testing.T) {
	g := NewGridMap(4, 2, 10)
	lo, hi := g.WorldBounds()
	if lo != (Vec2{-25, -15}) || hi != (Vec2{15, 5}) {
		t.Fatalf("unexpected bounds %v %v", lo, hi)
	}
}

func TestGridPosLess(t *testing.T) {
	if !(GridPos{1, 5}).Less(GridPos{2, 0}) {
		t.Fatal("x orders first")
	}
	if !(GridPos{1, 1}).Less(GridPos{1, 2}) {
		t.Fatal("y breaks x ties")
	}
	if (GridPos{1, 1}).Less(GridPos{1, 1}) {
		t.Fatal("Less must be strict")
	}
}
