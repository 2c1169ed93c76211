// Package waypoint holds the navigation graph bots route over and the
// spatial index used to find waypoints near a point.
package waypoint

import (
	"math"

	"github.com/lab1702/arena-bots/game"
)

// Graph geometry
const (
	MaxLinks = 6         // links per waypoint
	Radius   = 16.0      // waypoints are spheres of this radius in the index
	MinDist  = 4.0       // closer than this counts as standing on a waypoint
	JumpMin  = 4.0       // smallest height difference worth a jump
	JumpMax  = 32.0      // highest reachable step
	MaxNodes = 1<<16 - 1 // NodeID is 16 bits and 0 is reserved
)

// Waypoint is one node of the graph. Links are packed: the first NoNode ends the list.
type Waypoint struct {
	Pos    game.Vec3
	Weight int
	Links  [MaxLinks]game.NodeID

	// search scratch, valid while route == Graph.routeGen
	cur, est float64
	route    uint16
	prev     game.NodeID
	closed   bool
}

// Graph is a flat waypoint table. Slot 0 is a sentinel so that the zero
// NodeID never names a real waypoint.
type Graph struct {
	nodes    []Waypoint
	terrain  TerrainLookup
	cache    *Cache
	routeGen uint16
	open     nodeHeap
}

// New returns an empty graph. terrain may be nil, in which case every new
// waypoint gets weight 0.
func New(terrain TerrainLookup) *Graph {
	g := &Graph{nodes: make([]Waypoint, 1, 256), terrain: terrain}
	g.cache = newCache(g)
	return g
}

// SetTerrain sets the lookup used to weigh waypoints added or moved from now on.
func (g *Graph) SetTerrain(t TerrainLookup) { g.terrain = t }

// Cache returns the spatial index kept in step with this graph.
func (g *Graph) Cache() *Cache { return g.cache }

// Len returns the number of waypoints. Valid ids are 1..Len().
func (g *Graph) Len() int { return len(g.nodes) - 1 }

// Valid reports whether id names an existing waypoint.
func (g *Graph) Valid(id game.NodeID) bool {
	return id != game.NoNode && int(id) < len(g.nodes)
}

// Node returns a copy of waypoint id.
func (g *Graph) Node(id game.NodeID) (Waypoint, bool) {
	if !g.Valid(id) {
		return Waypoint{}, false
	}
	return g.nodes[id], true
}

// Pos returns the position of id, or the zero vector when id is invalid.
func (g *Graph) Pos(id game.NodeID) game.Vec3 {
	if !g.Valid(id) {
		return game.Vec3{}
	}
	return g.nodes[id].Pos
}

func (g *Graph) Weight(id game.NodeID) int {
	if !g.Valid(id) {
		return 0
	}
	return g.nodes[id].Weight
}

// Links returns the link array of id.
func (g *Graph) Links(id game.NodeID) [MaxLinks]game.NodeID {
	if !g.Valid(id) {
		return [MaxLinks]game.NodeID{}
	}
	return g.nodes[id].Links
}

// Linked reports whether id has at least one outgoing link.
func (g *Graph) Linked(id game.NodeID) bool {
	return g.Valid(id) && g.nodes[id].Links[0] != game.NoNode
}

// HasLink reports whether a links to b.
func (g *Graph) HasLink(a, b game.NodeID) bool {
	if !g.Valid(a) || !g.Valid(b) {
		return false
	}
	for _, l := range g.nodes[a].Links {
		if l == game.NoNode {
			break
		}
		if l == b {
			return true
		}
	}
	return false
}

// Add appends a waypoint at pos and returns its id, or NoNode when the graph is full.
// Appended waypoints land in the index's dynamic region without a rebuild.
func (g *Graph) Add(pos game.Vec3) game.NodeID {
	if g.Len() >= MaxNodes {
		return game.NoNode
	}
	g.nodes = append(g.nodes, Waypoint{Pos: pos, Weight: Weigh(g.terrain, pos)})
	return game.NodeID(len(g.nodes) - 1)
}

// Link adds a one-way link a→b. When a already has MaxLinks links the
// farthest one is replaced if b is closer. It reports whether b is linked
// afterwards.
func (g *Graph) Link(a, b game.NodeID) bool {
	if a == b || !g.Valid(a) || !g.Valid(b) {
		return false
	}
	w := &g.nodes[a]
	far, farDist := -1, -1.0
	for i, l := range w.Links {
		if l == b {
			return true
		}
		if l == game.NoNode {
			w.Links[i] = b
			return true
		}
		if d := w.Pos.SquareDist(g.nodes[l].Pos); d > farDist {
			far, farDist = i, d
		}
	}
	if w.Pos.SquareDist(g.nodes[b].Pos) >= farDist {
		return false
	}
	w.Links[far] = b
	return true
}

// LinkBoth links a and b in both directions.
func (g *Graph) LinkBoth(a, b game.NodeID) bool {
	ab := g.Link(a, b)
	ba := g.Link(b, a)
	return ab && ba
}

// Unlink removes the link a→b, keeping the list packed.
func (g *Graph) Unlink(a, b game.NodeID) {
	if !g.Valid(a) {
		return
	}
	links := &g.nodes[a].Links
	n := 0
	for _, l := range links {
		if l != game.NoNode && l != b {
			links[n] = l
			n++
		}
	}
	for ; n < MaxLinks; n++ {
		links[n] = game.NoNode
	}
}

// Move relocates a waypoint and reweighs it.
func (g *Graph) Move(id game.NodeID, pos game.Vec3) {
	if !g.Valid(id) {
		return
	}
	g.nodes[id].Pos = pos
	g.nodes[id].Weight = Weigh(g.terrain, pos)
	g.cache.Invalidate(id)
}

// SetWeight overrides the terrain weight. Negative weights mark static hazards.
func (g *Graph) SetWeight(id game.NodeID, weight int) {
	if !g.Valid(id) {
		return
	}
	g.nodes[id].Weight = weight
}

// Clear drops every waypoint.
func (g *Graph) Clear() {
	g.nodes = g.nodes[:1]
	g.nodes[0] = Waypoint{}
	g.routeGen = 0
	g.cache.Reset()
}

// Hazards returns the ids of waypoints with a negative weight.
func (g *Graph) Hazards() []game.NodeID {
	var out []game.NodeID
	for i := 1; i < len(g.nodes); i++ {
		if g.nodes[i].Weight < 0 {
			out = append(out, game.NodeID(i))
		}
	}
	return out
}

// EdgeCost is the cost of stepping from a onto b.
func (g *Graph) EdgeCost(a, b game.NodeID) float64 {
	return g.nodes[a].Pos.Dist(g.nodes[b].Pos) * float64(max(g.nodes[b].Weight, 1))
}

// PathCost sums EdgeCost along path. Invalid or unlinked steps cost +Inf.
func (g *Graph) PathCost(path []game.NodeID) float64 {
	total := 0.0
	for i := 1; i < len(path); i++ {
		if !g.HasLink(path[i-1], path[i]) {
			return math.Inf(1)
		}
		total += g.EdgeCost(path[i-1], path[i])
	}
	return total
}
