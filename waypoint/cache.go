package waypoint

import (
	"math"
	"sort"

	"github.com/lab1702/arena-bots/game"
)

// Index tuning
const (
	NumRegions       = 8    // region slots; the last one is reserved for overflow
	FullRebuildEdits = 1000 // invalidating edits before every region is dropped
	DynamicLimit     = 64   // appended waypoints scanned linearly before they get a region
)

type kdNode struct {
	split [2]float64 // split[0]: max extent of the left set, split[1]: min extent of the right set
	child [2]uint32  // node index, or a waypoint id when leaf is set
	leaf  [2]bool
	axis  uint8
}

type region struct {
	first, last game.NodeID // inclusive id range; first == NoNode when unused
	nodes       []kdNode
	dirty       bool
}

func (r *region) covers(id game.NodeID) bool {
	return r.first != game.NoNode && id >= r.first && id <= r.last
}

// Cache is a spatial index over a Graph, split into id-range regions that are
// rebuilt lazily. Waypoints past the last indexed id form the dynamic region
// and are scanned linearly.
type Cache struct {
	g       *Graph
	regions [NumRegions]region
	built   int // highest id covered by a region
	edits   int
	full    bool // every region must be rebuilt
	stack   []uint32
	scratch []game.NodeID
}

func newCache(g *Graph) *Cache {
	return &Cache{g: g, full: true}
}

// Invalidate records that waypoint id moved. After FullRebuildEdits edits the
// whole index is dropped; otherwise only the region holding id is.
func (c *Cache) Invalidate(id game.NodeID) {
	c.edits++
	if c.edits >= FullRebuildEdits {
		c.edits = 0
		c.full = true
		return
	}
	for i := range c.regions {
		if c.regions[i].covers(id) {
			c.regions[i].dirty = true
			return
		}
	}
	// dynamic region: always scanned, nothing to drop
}

// Reset drops every region; the next query rebuilds from scratch.
func (c *Cache) Reset() {
	for i := range c.regions {
		c.regions[i] = region{nodes: c.regions[i].nodes[:0]}
	}
	c.built = 0
	c.edits = 0
	c.full = true
}

// Rebuild forces a full rebuild now.
func (c *Cache) Rebuild() {
	c.Reset()
	c.prepare()
}

// Pending returns how many regions are waiting to be rebuilt. A pending full
// rebuild counts every region.
func (c *Cache) Pending() int {
	if c.full {
		return NumRegions
	}
	n := 0
	for i := range c.regions {
		if c.regions[i].dirty {
			n++
		}
	}
	return n
}

// Dynamic returns the number of waypoints outside every region.
func (c *Cache) Dynamic() int {
	return max(c.g.Len()-c.built, 0)
}

func (c *Cache) prepare() {
	n := c.g.Len()
	if c.full || c.built > n {
		c.full = false
		for i := range c.regions {
			c.regions[i] = region{nodes: c.regions[i].nodes[:0]}
		}
		c.built = 0
		if n == 0 {
			return
		}
		chunk := (n + NumRegions - 2) / (NumRegions - 1)
		for i := 0; i < NumRegions-1; i++ {
			first := 1 + i*chunk
			if first > n {
				break
			}
			c.regions[i].first = game.NodeID(first)
			c.regions[i].last = game.NodeID(min(first+chunk-1, n))
			c.build(&c.regions[i])
		}
		c.built = n
		return
	}
	for i := range c.regions {
		if c.regions[i].dirty {
			c.build(&c.regions[i])
		}
	}
	if n-c.built >= DynamicLimit {
		c.absorb(n)
	}
}

// absorb moves the dynamic region into the first free slot, or grows the
// overflow slot when every slot is taken.
func (c *Cache) absorb(n int) {
	for i := range c.regions {
		r := &c.regions[i]
		if r.first == game.NoNode {
			r.first = game.NodeID(c.built + 1)
			r.last = game.NodeID(n)
			c.build(r)
			c.built = n
			return
		}
	}
	r := &c.regions[NumRegions-1]
	r.last = game.NodeID(n)
	c.build(r)
	c.built = n
}

func (c *Cache) build(r *region) {
	r.dirty = false
	r.nodes = r.nodes[:0]
	if r.first == game.NoNode {
		return
	}
	ids := c.scratch[:0]
	bbmin := game.V(math.Inf(1), math.Inf(1), math.Inf(1))
	bbmax := game.V(math.Inf(-1), math.Inf(-1), math.Inf(-1))
	for id := r.first; id <= r.last && c.g.Valid(id); id++ {
		ids = append(ids, id)
		bbmin, bbmax = grow(bbmin, bbmax, c.g.nodes[id].Pos)
		if id == math.MaxUint16 {
			break
		}
	}
	c.scratch = ids
	if len(ids) > 0 {
		c.buildNode(r, ids, bbmin, bbmax)
	}
}

func grow(bbmin, bbmax, p game.Vec3) (game.Vec3, game.Vec3) {
	lo := game.V(p.X-Radius, p.Y-Radius, p.Z-Radius)
	hi := game.V(p.X+Radius, p.Y+Radius, p.Z+Radius)
	return game.V(math.Min(bbmin.X, lo.X), math.Min(bbmin.Y, lo.Y), math.Min(bbmin.Z, lo.Z)),
		game.V(math.Max(bbmax.X, hi.X), math.Max(bbmax.Y, hi.Y), math.Max(bbmax.Z, hi.Z))
}

// buildNode partitions ids and appends the subtree, returning its root index.
func (c *Cache) buildNode(r *region, ids []game.NodeID, bbmin, bbmax game.Vec3) uint32 {
	idx := uint32(len(r.nodes))
	r.nodes = append(r.nodes, kdNode{})

	if len(ids) == 1 {
		p := c.g.nodes[ids[0]].Pos
		r.nodes[idx] = kdNode{
			split: [2]float64{p.X + Radius, math.Inf(1)},
			child: [2]uint32{uint32(ids[0]), uint32(game.NoNode)},
			leaf:  [2]bool{true, true},
		}
		return idx
	}

	axis := 0
	if bbmax.Y-bbmin.Y > bbmax.X-bbmin.X {
		axis = 1
	}
	split := (bbmin.Axis(axis) + bbmax.Axis(axis)) / 2

	left, right := 0, len(ids)
	for left < right {
		p := c.g.nodes[ids[left]].Pos.Axis(axis)
		amin, amax := p-Radius, p+Radius
		if math.Max(split-amin, 0) > math.Max(amax-split, 0) {
			left++
		} else {
			right--
			ids[left], ids[right] = ids[right], ids[left]
		}
	}
	if left == 0 || left == len(ids) {
		sort.Slice(ids, func(i, j int) bool {
			pi, pj := c.g.nodes[ids[i]].Pos.Axis(axis), c.g.nodes[ids[j]].Pos.Axis(axis)
			if pi != pj {
				return pi < pj
			}
			return ids[i] < ids[j]
		})
		left = len(ids) / 2
	}

	var node kdNode
	node.axis = uint8(axis)
	node.split = [2]float64{math.Inf(-1), math.Inf(1)}
	lmin, lmax := game.V(math.Inf(1), math.Inf(1), math.Inf(1)), game.V(math.Inf(-1), math.Inf(-1), math.Inf(-1))
	rmin, rmax := lmin, lmax
	for i, id := range ids {
		p := c.g.nodes[id].Pos
		if i < left {
			node.split[0] = math.Max(node.split[0], p.Axis(axis)+Radius)
			lmin, lmax = grow(lmin, lmax, p)
		} else {
			node.split[1] = math.Min(node.split[1], p.Axis(axis)-Radius)
			rmin, rmax = grow(rmin, rmax, p)
		}
	}

	sides := [2][]game.NodeID{ids[:left], ids[left:]}
	bounds := [2][2]game.Vec3{{lmin, lmax}, {rmin, rmax}}
	for side, set := range sides {
		if len(set) == 1 {
			node.child[side] = uint32(set[0])
			node.leaf[side] = true
		} else {
			node.child[side] = c.buildNode(r, set, bounds[side][0], bounds[side][1])
		}
	}
	r.nodes[idx] = node
	return idx
}

// Closest returns the waypoint nearest to pos within maxDist, optionally only
// among waypoints with at least one link. It returns NoNode when none qualifies.
func (c *Cache) Closest(pos game.Vec3, maxDist float64, needLinks bool) game.NodeID {
	c.prepare()
	best, bestDist := game.NoNode, maxDist*maxDist
	consider := func(id game.NodeID) {
		if id == game.NoNode || (needLinks && !c.g.Linked(id)) {
			return
		}
		if d := c.g.nodes[id].Pos.SquareDist(pos); d < bestDist {
			best, bestDist = id, d
		}
	}
	for i := range c.regions {
		r := &c.regions[i]
		if len(r.nodes) == 0 {
			continue
		}
		c.stack = append(c.stack[:0], 0)
		for len(c.stack) > 0 {
			n := &r.nodes[c.stack[len(c.stack)-1]]
			c.stack = c.stack[:len(c.stack)-1]
			reach := math.Sqrt(bestDist)
			d := pos.Axis(int(n.axis))
			if d-reach < n.split[0] {
				c.visit(n, 0, consider)
			}
			if d+reach > n.split[1] {
				c.visit(n, 1, consider)
			}
		}
	}
	for id := c.built + 1; id <= c.g.Len(); id++ {
		consider(game.NodeID(id))
	}
	return best
}

func (c *Cache) visit(n *kdNode, side int, leaf func(game.NodeID)) {
	if n.leaf[side] {
		leaf(game.NodeID(n.child[side]))
	} else {
		c.stack = append(c.stack, n.child[side])
	}
}

// Within appends to dst every waypoint whose distance from pos lies in
// [minDist, maxDist].
func (c *Cache) Within(pos game.Vec3, minDist, maxDist float64, dst []game.NodeID) []game.NodeID {
	c.prepare()
	lo, hi := minDist*minDist, maxDist*maxDist
	consider := func(id game.NodeID) {
		if id == game.NoNode {
			return
		}
		if d := c.g.nodes[id].Pos.SquareDist(pos); d >= lo && d <= hi {
			dst = append(dst, id)
		}
	}
	for i := range c.regions {
		r := &c.regions[i]
		if len(r.nodes) == 0 {
			continue
		}
		c.stack = append(c.stack[:0], 0)
		for len(c.stack) > 0 {
			n := &r.nodes[c.stack[len(c.stack)-1]]
			c.stack = c.stack[:len(c.stack)-1]
			d := pos.Axis(int(n.axis))
			if d-maxDist < n.split[0] {
				c.visit(n, 0, consider)
			}
			if d+maxDist > n.split[1] {
				c.visit(n, 1, consider)
			}
		}
	}
	for id := c.built + 1; id <= c.g.Len(); id++ {
		consider(game.NodeID(id))
	}
	return dst
}
