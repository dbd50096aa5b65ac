package board

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/lukev/catan2p/internal/rules"
)

// Tile is one of the 19 fixed board positions.
type Tile struct {
	ID       int
	Hex      Hex
	Terrain  rules.TerrainKind
	Pip      int // 0 for the desert
	HasRobber bool
}

// Vertex is one of the 54 settlement/city spots, identified by the land
// tiles it touches (1, 2 or 3 of them).
type Vertex struct {
	ID    int
	Tiles []int // tile IDs touching this vertex, board order
	Edges []int // edge IDs incident to this vertex
}

// Edge is one of the 72 road spots, identified by its two endpoint
// vertices.
type Edge struct {
	ID  int
	V1  int
	V2  int
}

// Port is one of the 9 fixed trade structures.
type Port struct {
	Kind rules.PortKind
	V1   int
	V2   int
}

// Board is the immutable geometry shared across every State derived from
// it. The only thing that ever changes per-State is which tile currently
// holds the robber, which is modeled as a tile-ID overlay rather than a
// mutation of the shared Board (§4.1).
type Board struct {
	Tiles    []Tile
	Vertices []Vertex
	Edges    []Edge
	Ports    []Port

	tileByHex   map[Hex]int
	vertexOfKey map[vertexKey]int
	robberTile  int

	adjVertexByEdge map[[2]int]int // {v1,v2} in both orders -> edge id
	portByVertex    map[int]rules.PortKind
}

type vertexKey [3]Hex

func canonVertexKey(hs [3]Hex) vertexKey {
	sort.Slice(hs[:], func(i, j int) bool {
		if hs[i].Q != hs[j].Q {
			return hs[i].Q < hs[j].Q
		}
		return hs[i].R < hs[j].R
	})
	return vertexKey(hs)
}

// geometry is the topology shared by every board variant: which tile
// positions exist and how their vertices/edges identify with each other.
// It never depends on resource/pip/port content, so it is computed once.
type geometry struct {
	hexes       []Hex
	tileByHex   map[Hex]int
	vertexOfKey map[vertexKey]int
	vertexTiles [][]int // per vertex id: land tile ids touching it
	vertexHexes []vertexKey
	edgeOfPair  map[[2]Hex]int
	edgeVerts   [][2]int // per edge id: the two vertex ids
	tileVerts   [][6]int
	tileEdges   [][6]int
}

var std = buildGeometry()

func buildGeometry() *geometry {
	hexes := standardHexes()
	tileByHex := make(map[Hex]int, len(hexes))
	for i, h := range hexes {
		tileByHex[h] = i
	}

	g := &geometry{
		hexes:       hexes,
		tileByHex:   tileByHex,
		vertexOfKey: make(map[vertexKey]int),
		edgeOfPair:  make(map[[2]Hex]int),
		tileVerts:   make([][6]int, len(hexes)),
		tileEdges:   make([][6]int, len(hexes)),
	}

	// Vertices: for land tile h and corner direction d, the vertex touches
	// {h, neighbor(h,d), neighbor(h,d-1)}.
	for ti, h := range hexes {
		for d := 0; d < 6; d++ {
			key := canonVertexKey([3]Hex{h, h.Neighbor(d), h.Neighbor(d - 1)})
			vid, ok := g.vertexOfKey[key]
			if !ok {
				vid = len(g.vertexHexes)
				g.vertexOfKey[key] = vid
				g.vertexHexes = append(g.vertexHexes, key)
				g.vertexTiles = append(g.vertexTiles, nil)
			}
			g.tileVerts[ti][d] = vid
		}
	}
	for vid, key := range g.vertexHexes {
		for _, h := range key {
			if tid, ok := tileByHex[h]; ok {
				g.vertexTiles[vid] = appendUnique(g.vertexTiles[vid], tid)
			}
		}
	}

	// Edges: for land tile h and side direction d, the edge touches {h,
	// neighbor(h,d)} and connects vertex(h,d) and vertex(h,(d+1)%6).
	for ti, h := range hexes {
		for d := 0; d < 6; d++ {
			other := h.Neighbor(d)
			pair := canonPair(h, other)
			eid, ok := g.edgeOfPair[pair]
			if !ok {
				eid = len(g.edgeVerts)
				g.edgeOfPair[pair] = eid
				v1 := g.tileVerts[ti][d]
				v2 := g.tileVerts[ti][(d+1)%6]
				g.edgeVerts = append(g.edgeVerts, [2]int{v1, v2})
			}
			g.tileEdges[ti][d] = eid
		}
	}

	return g
}

func canonPair(a, b Hex) [2]Hex {
	if a.Q > b.Q || (a.Q == b.Q && a.R > b.R) {
		a, b = b, a
	}
	return [2]Hex{a, b}
}

func appendUnique(s []int, v int) []int {
	for _, x := range s {
		if x == v {
			return s
		}
	}
	return append(s, v)
}

// NewStandardBoard builds the fixed, non-randomized layout: tiles and pips
// assigned in board-position order from the canonical distributions.
func NewStandardBoard() *Board {
	terrains := rules.TerrainDistribution()
	pips := rules.PipDistribution()
	ports := rules.PortDistribution()
	return build(terrains, pips, ports)
}

// NewRandomBoard re-samples terrain/pip assignment over the 19 positions
// and port kinds over the 9 port positions, preserving both multisets, and
// re-shuffles deterministically from rng.
func NewRandomBoard(rng *rand.Rand) *Board {
	terrains := rules.TerrainDistribution()
	pips := rules.PipDistribution()
	ports := rules.PortDistribution()
	rng.Shuffle(len(terrains), func(i, j int) { terrains[i], terrains[j] = terrains[j], terrains[i] })
	rng.Shuffle(len(pips), func(i, j int) { pips[i], pips[j] = pips[j], pips[i] })
	rng.Shuffle(len(ports), func(i, j int) { ports[i], ports[j] = ports[j], ports[i] })
	return build(terrains, pips, ports)
}

func build(terrains []rules.TerrainKind, pips []int, portKinds []rules.PortKind) *Board {
	if len(terrains) != len(std.hexes) {
		panic(fmt.Sprintf("board: expected %d terrains, got %d", len(std.hexes), len(terrains)))
	}

	b := &Board{
		tileByHex:       std.tileByHex,
		vertexOfKey:     std.vertexOfKey,
		adjVertexByEdge: make(map[[2]int]int, len(std.edgeVerts)),
		portByVertex:    make(map[int]rules.PortKind),
	}

	pipIdx := 0
	robber := -1
	for ti, h := range std.hexes {
		t := Tile{ID: ti, Hex: h, Terrain: terrains[ti]}
		if t.Terrain == rules.TerrainDesert {
			t.Pip = 0
			t.HasRobber = true
			robber = ti
		} else {
			t.Pip = pips[pipIdx]
			pipIdx++
		}
		b.Tiles = append(b.Tiles, t)
	}
	b.robberTile = robber

	for vid, tiles := range std.vertexTiles {
		v := Vertex{ID: vid, Tiles: append([]int(nil), tiles...)}
		b.Vertices = append(b.Vertices, v)
	}
	for eid, ends := range std.edgeVerts {
		b.Edges = append(b.Edges, Edge{ID: eid, V1: ends[0], V2: ends[1]})
		b.Vertices[ends[0]].Edges = appendUnique(b.Vertices[ends[0]].Edges, eid)
		b.Vertices[ends[1]].Edges = appendUnique(b.Vertices[ends[1]].Edges, eid)
		b.adjVertexByEdge[[2]int{ends[0], ends[1]}] = eid
		b.adjVertexByEdge[[2]int{ends[1], ends[0]}] = eid
	}

	portEdges := boundaryEdgeIDs()
	if len(portKinds) > len(portEdges) {
		panic("board: not enough boundary edges for port count")
	}
	step := len(portEdges) / len(portKinds)
	for i, kind := range portKinds {
		e := b.Edges[portEdges[(i*step)%len(portEdges)]]
		b.Ports = append(b.Ports, Port{Kind: kind, V1: e.V1, V2: e.V2})
		b.portByVertex[e.V1] = kind
		b.portByVertex[e.V2] = kind
	}

	return b
}

// boundaryEdgeIDs returns edge ids whose two tiles are not both land tiles,
// i.e. the edges on the outer perimeter of the board, sorted by edge id.
func boundaryEdgeIDs() []int {
	seen := make(map[int]bool)
	var out []int
	for ti, h := range std.hexes {
		for d := 0; d < 6; d++ {
			other := h.Neighbor(d)
			if _, isLand := std.tileByHex[other]; isLand {
				continue
			}
			eid := std.tileEdges[ti][d]
			if !seen[eid] {
				seen[eid] = true
				out = append(out, eid)
			}
		}
	}
	sort.Ints(out)
	return out
}

// GetTile returns the tile by ID.
func (b *Board) GetTile(id int) Tile { return b.Tiles[id] }

// GetVertex returns the vertex by ID.
func (b *Board) GetVertex(id int) Vertex { return b.Vertices[id] }

// GetEdge returns the edge by ID.
func (b *Board) GetEdge(id int) Edge { return b.Edges[id] }

// RobberTile returns the tile ID currently holding the robber.
func (b *Board) RobberTile() int { return b.robberTile }

// WithRobberAt returns a shallow-copied Board with the robber moved to
// newTile. Only the two affected Tile entries change; Vertices/Edges/Ports
// slices are shared by reference since they are never mutated (§4.1: the
// robber flag is re-expressed as a per-state tile overlay, not a mutable
// flag on the shared board).
func (b *Board) WithRobberAt(newTile int) *Board {
	nb := *b
	nb.Tiles = append([]Tile(nil), b.Tiles...)
	nb.Tiles[b.robberTile].HasRobber = false
	nb.Tiles[newTile].HasRobber = true
	nb.robberTile = newTile
	return &nb
}

// EdgeBetween returns the edge id connecting v1 and v2, if adjacent.
func (b *Board) EdgeBetween(v1, v2 int) (int, bool) {
	id, ok := b.adjVertexByEdge[[2]int{v1, v2}]
	return id, ok
}

// AdjacentVertices returns the vertex ids directly connected to v by a
// single edge (the "distance rule" neighborhood).
func (b *Board) AdjacentVertices(v int) []int {
	var out []int
	for _, eid := range b.Vertices[v].Edges {
		e := b.Edges[eid]
		if e.V1 == v {
			out = append(out, e.V2)
		} else {
			out = append(out, e.V1)
		}
	}
	return out
}

// PortAt returns the port kind reachable at vertex v, if any.
func (b *Board) PortAt(v int) (rules.PortKind, bool) {
	k, ok := b.portByVertex[v]
	return k, ok
}

// TilesWithPip returns tile IDs whose pip equals roll.
func (b *Board) TilesWithPip(roll int) []int {
	var out []int
	for _, t := range b.Tiles {
		if t.Pip == roll {
			out = append(out, t.ID)
		}
	}
	return out
}
