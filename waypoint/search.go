package waypoint

import (
	"container/heap"

	"github.com/lab1702/arena-bots/game"
)

type openItem struct {
	id game.NodeID
	f  float64
}

type nodeHeap []openItem

func (h nodeHeap) Len() int           { return len(h) }
func (h nodeHeap) Less(i, j int) bool { return h[i].f < h[j].f }
func (h nodeHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x any)        { *h = append(*h, x.(openItem)) }
func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// nextGen starts a new search. Scratch fields are stamped with the
// generation so they never need clearing except on wrap-around.
func (g *Graph) nextGen() uint16 {
	g.routeGen++
	if g.routeGen == 0 {
		for i := range g.nodes {
			g.nodes[i].route = 0
		}
		g.routeGen = 1
	}
	return g.routeGen
}

// Search finds the cheapest path from 'from' to 'goal' over links, where
// stepping onto a waypoint costs distance × max(weight, 1). Waypoints for
// which forbid returns true are never entered; from and goal are always
// allowed. The path is appended to dst in order from..goal.
func (g *Graph) Search(from, goal game.NodeID, forbid func(game.NodeID) bool, dst []game.NodeID) ([]game.NodeID, bool) {
	if !g.Valid(from) || !g.Valid(goal) {
		return dst, false
	}
	if from == goal {
		return append(dst, from), true
	}
	gen := g.nextGen()
	goalPos := g.nodes[goal].Pos

	start := &g.nodes[from]
	start.route, start.cur, start.prev, start.closed = gen, 0, game.NoNode, false
	start.est = start.Pos.Dist(goalPos)
	g.open = append(g.open[:0], openItem{id: from, f: start.est})

	for g.open.Len() > 0 {
		item := heap.Pop(&g.open).(openItem)
		n := &g.nodes[item.id]
		if n.closed || item.f > n.cur+n.est {
			continue
		}
		if item.id == goal {
			return g.unwind(goal, dst), true
		}
		n.closed = true
		for _, l := range n.Links {
			if l == game.NoNode {
				break
			}
			if l != goal && forbid != nil && forbid(l) {
				continue
			}
			next := &g.nodes[l]
			cost := n.cur + g.EdgeCost(item.id, l)
			if next.route == gen {
				if next.closed || cost >= next.cur {
					continue
				}
			} else {
				next.route = gen
				next.closed = false
				next.est = next.Pos.Dist(goalPos)
			}
			next.cur = cost
			next.prev = item.id
			heap.Push(&g.open, openItem{id: l, f: cost + next.est})
		}
	}
	return dst, false
}

func (g *Graph) unwind(goal game.NodeID, dst []game.NodeID) []game.NodeID {
	start := len(dst)
	for id := goal; id != game.NoNode; id = g.nodes[id].prev {
		dst = append(dst, id)
	}
	for i, j := start, len(dst)-1; i < j; i, j = i+1, j-1 {
		dst[i], dst[j] = dst[j], dst[i]
	}
	return dst
}
