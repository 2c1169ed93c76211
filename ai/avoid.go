package ai

import (
	"sort"

	"github.com/lab1702/arena-bots/game"
	"github.com/lab1702/arena-bots/waypoint"
)

type obstacle struct {
	owner game.Ref
	count int
	above float64 // highest point of the obstacle; negative means never step over
}

// AvoidSet lists occupied waypoints grouped by owner. Each obstacle owns the
// next count entries of nodes, so every entry belongs to exactly one owner.
type AvoidSet struct {
	obstacles []obstacle
	nodes     []game.NodeID
	scratch   []game.NodeID
}

func (s *AvoidSet) Clear() {
	s.obstacles = s.obstacles[:0]
	s.nodes = s.nodes[:0]
}

// Len returns the number of entries.
func (s *AvoidSet) Len() int { return len(s.nodes) }

// Add records id as occupied by owner. Consecutive adds for the same owner
// and height extend one obstacle.
func (s *AvoidSet) Add(owner game.Ref, above float64, id game.NodeID) {
	if n := len(s.obstacles); n == 0 || s.obstacles[n-1].owner != owner || s.obstacles[n-1].above != above {
		s.obstacles = append(s.obstacles, obstacle{owner: owner, above: above})
	}
	s.obstacles[len(s.obstacles)-1].count++
	s.nodes = append(s.nodes, id)
}

// AvoidNear adds every waypoint within limit of pos.
func (s *AvoidSet) AvoidNear(c *waypoint.Cache, owner game.Ref, above float64, pos game.Vec3, limit float64) {
	s.scratch = c.Within(pos, 0, limit, s.scratch[:0])
	for _, id := range s.scratch {
		s.Add(owner, above, id)
	}
}

// Merge appends every obstacle of o.
func (s *AvoidSet) Merge(o *AvoidSet) {
	cur := 0
	for _, ob := range o.obstacles {
		for _, id := range o.nodes[cur : cur+ob.count] {
			s.Add(ob.owner, ob.above, id)
		}
		cur += ob.count
	}
}

// Find reports whether id is occupied by anyone other than self.
func (s *AvoidSet) Find(id game.NodeID, self game.Ref) bool {
	_, ok := s.lookup(id, self)
	return ok
}

func (s *AvoidSet) lookup(id game.NodeID, self game.Ref) (obstacle, bool) {
	cur := 0
	for _, ob := range s.obstacles {
		next := cur + ob.count
		if !self.Valid() || ob.owner != self {
			for _, n := range s.nodes[cur:next] {
				if n == id {
					return ob, true
				}
			}
		}
		cur = next
	}
	return obstacle{}, false
}

// Each calls fn for every entry not owned by self.
func (s *AvoidSet) Each(self game.Ref, fn func(owner game.Ref, id game.NodeID)) {
	cur := 0
	for _, ob := range s.obstacles {
		next := cur + ob.count
		if !self.Valid() || ob.owner != self {
			for _, n := range s.nodes[cur:next] {
				fn(ob.owner, n)
			}
		}
		cur = next
	}
}

// avoid rebuilds the obstacle set from live agents, static hazards and danger zones.
func (w *World) avoid() {
	w.obstacles.Clear()
	guess := game.DefaultRadius
	for _, a := range w.svc.Registry.Agents() {
		if !a.Alive() {
			continue
		}
		above := a.Pos.Z + a.EyeHeight + a.AboveEye + 1
		w.obstacles.AvoidNear(w.cache, game.Some(a.ID), above, a.Pos, guess+a.Radius)
	}
	for _, id := range w.graph.Hazards() {
		w.obstacles.AvoidNear(w.cache, game.None, -1, w.graph.Pos(id), waypoint.Radius)
	}
	if w.svc.Dangers != nil {
		for _, d := range w.svc.Dangers.Dangers() {
			w.obstacles.AvoidNear(w.cache, d.Owner, d.Pos.Z+d.Radius, d.Pos, d.Radius+guess)
		}
	}
}

// remap checks whether the bot can use waypoint id. When id is occupied by
// someone else or was visited recently, the closest usable linked waypoint
// around it is tried, and with retry also its links. It returns the waypoint
// to head for and its position.
func (w *World) remap(b *Brain, a *game.Agent, id game.NodeID, pos game.Vec3, retry bool) (game.NodeID, game.Vec3, bool) {
	if !w.graph.Valid(id) {
		return game.NoNode, pos, false
	}
	self := game.Some(b.id)
	ob, foreign := w.obstacles.lookup(id, self)
	if !foreign && !b.hasPrevNode(id) {
		return id, pos, true
	}
	if foreign && ob.above < 0 {
		return game.NoNode, pos, false
	}
	usable := func(n game.NodeID) bool {
		return n != id && w.graph.Linked(n) && !b.hasPrevNode(n) && !w.obstacles.Find(n, self) &&
			w.graph.Pos(n).Z-a.Pos.Z < waypoint.JumpMax
	}
	w.nearby = w.cache.Within(pos, 0, w.tun.Navigation.SightMin, w.nearby[:0])
	sort.Slice(w.nearby, func(i, j int) bool {
		return w.graph.Pos(w.nearby[i]).SquareDist(pos) < w.graph.Pos(w.nearby[j]).SquareDist(pos)
	})
	for _, n := range w.nearby {
		if usable(n) {
			return n, w.graph.Pos(n), true
		}
	}
	if retry {
		for _, n := range w.graph.Links(id) {
			if n == game.NoNode {
				break
			}
			if usable(n) {
				return n, w.graph.Pos(n), true
			}
		}
	}
	return game.NoNode, pos, false
}
