package board

import (
	"math/rand/v2"
	"testing"

	"github.com/lukev/catan2p/internal/rules"
)

func TestStandardBoardCounts(t *testing.T) {
	b := NewStandardBoard()
	if len(b.Tiles) != rules.TileCount {
		t.Fatalf("tiles = %d, want %d", len(b.Tiles), rules.TileCount)
	}
	if len(b.Vertices) != rules.VertexCount {
		t.Fatalf("vertices = %d, want %d", len(b.Vertices), rules.VertexCount)
	}
	if len(b.Edges) != rules.EdgeCount {
		t.Fatalf("edges = %d, want %d", len(b.Edges), rules.EdgeCount)
	}
	if len(b.Ports) != rules.PortCount {
		t.Fatalf("ports = %d, want %d", len(b.Ports), rules.PortCount)
	}
}

func TestStandardBoardTerrainAndPipMultisets(t *testing.T) {
	b := NewStandardBoard()
	terrainCount := map[rules.TerrainKind]int{}
	pipCount := map[int]int{}
	desertCount := 0
	for _, tile := range b.Tiles {
		terrainCount[tile.Terrain]++
		if tile.Terrain == rules.TerrainDesert {
			desertCount++
			if tile.Pip != 0 {
				t.Errorf("desert tile has pip %d, want 0", tile.Pip)
			}
			if !tile.HasRobber {
				t.Errorf("desert tile should start with robber")
			}
			continue
		}
		if tile.Pip < 2 || tile.Pip > 12 || tile.Pip == 7 {
			t.Errorf("invalid pip %d", tile.Pip)
		}
		pipCount[tile.Pip]++
	}
	if desertCount != 1 {
		t.Fatalf("desert count = %d, want 1", desertCount)
	}
	want := map[rules.TerrainKind]int{
		rules.TerrainLumber: 4, rules.TerrainBrick: 3, rules.TerrainWool: 4,
		rules.TerrainGrain: 4, rules.TerrainOre: 3, rules.TerrainDesert: 1,
	}
	for k, v := range want {
		if terrainCount[k] != v {
			t.Errorf("terrain %v count = %d, want %d", k, terrainCount[k], v)
		}
	}
}

func TestEveryVertexHasOneToThreeTiles(t *testing.T) {
	b := NewStandardBoard()
	for _, v := range b.Vertices {
		if len(v.Tiles) < 1 || len(v.Tiles) > 3 {
			t.Errorf("vertex %d touches %d tiles, want 1-3", v.ID, len(v.Tiles))
		}
		if len(v.Edges) < 2 || len(v.Edges) > 3 {
			t.Errorf("vertex %d has %d incident edges, want 2-3", v.ID, len(v.Edges))
		}
	}
}

func TestEdgeEndpointsAreAdjacent(t *testing.T) {
	b := NewStandardBoard()
	for _, e := range b.Edges {
		found := false
		for _, av := range b.AdjacentVertices(e.V1) {
			if av == e.V2 {
				found = true
			}
		}
		if !found {
			t.Errorf("edge %d endpoints %d-%d not mutually adjacent", e.ID, e.V1, e.V2)
		}
		id, ok := b.EdgeBetween(e.V1, e.V2)
		if !ok || id != e.ID {
			t.Errorf("EdgeBetween(%d,%d) = %d,%v want %d,true", e.V1, e.V2, id, ok, e.ID)
		}
	}
}

func TestPortMultiset(t *testing.T) {
	b := NewStandardBoard()
	count := map[rules.PortKind]int{}
	for _, p := range b.Ports {
		count[p.Kind]++
	}
	if count[rules.PortAny] != 4 {
		t.Errorf("ANY ports = %d, want 4", count[rules.PortAny])
	}
	for _, k := range []rules.PortKind{rules.PortBrick, rules.PortLumber, rules.PortWool, rules.PortGrain, rules.PortOre} {
		if count[k] != 1 {
			t.Errorf("port %v count = %d, want 1", k, count[k])
		}
	}
}

func TestRandomBoardPreservesMultisets(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	b := NewRandomBoard(rng)
	if len(b.Tiles) != rules.TileCount || len(b.Ports) != rules.PortCount {
		t.Fatalf("randomized board has wrong counts")
	}
	terrainCount := map[rules.TerrainKind]int{}
	for _, tile := range b.Tiles {
		terrainCount[tile.Terrain]++
	}
	if terrainCount[rules.TerrainDesert] != 1 {
		t.Errorf("randomized board desert count = %d, want 1", terrainCount[rules.TerrainDesert])
	}
}

func TestWithRobberAtMovesOnlyRobberFlag(t *testing.T) {
	b := NewStandardBoard()
	orig := b.RobberTile()
	var target int
	for _, tile := range b.Tiles {
		if tile.ID != orig {
			target = tile.ID
			break
		}
	}
	nb := b.WithRobberAt(target)

	if b.RobberTile() != orig {
		t.Errorf("original board's robber moved: got %d want %d", b.RobberTile(), orig)
	}
	if nb.RobberTile() != target {
		t.Errorf("new board robber = %d, want %d", nb.RobberTile(), target)
	}
	if nb.GetTile(orig).HasRobber {
		t.Errorf("new board still flags old robber tile")
	}
	if !nb.GetTile(target).HasRobber {
		t.Errorf("new board does not flag target tile")
	}
	// Vertices/edges/ports are shared, not recomputed.
	if len(nb.Vertices) != len(b.Vertices) {
		t.Errorf("vertex slice diverged after robber move")
	}
}
