package ai

import "github.com/lab1702/arena-bots/game"

// route searches from 'from' to 'goal'. With retries <= 1 the bot's recent
// ring is off limits (except from); with retries <= 0 so is every waypoint
// occupied by someone else, except from, goal and their direct neighbours.
func (w *World) route(b *Brain, from, goal game.NodeID, retries int) ([]game.NodeID, bool) {
	if !w.graph.Linked(from) || !w.graph.Valid(goal) {
		return nil, false
	}
	self := game.Some(b.id)
	forbid := func(id game.NodeID) bool {
		if id == from {
			return false
		}
		if retries <= 1 && b.hasPrevNode(id) {
			return true
		}
		if retries <= 0 && id != goal && w.obstacles.Find(id, self) {
			return !w.graph.HasLink(from, id) && !w.graph.HasLink(goal, id) && !w.graph.HasLink(id, goal)
		}
		return false
	}
	path, ok := w.graph.Search(from, goal, forbid, w.path[:0])
	w.path = path
	return path, ok
}

// makeRoute plans from the bot's last waypoint to goal, relaxing the search
// on failure: first obstacles are ignored, then the recent ring as well. With
// changed set an existing route that already ends at goal is kept.
func (w *World) makeRoute(b *Brain, a *game.Agent, f *Frame, goal game.NodeID, changed bool, retries int) bool {
	if !w.graph.Valid(a.LastNode) {
		return false
	}
	if changed && len(b.route) > 1 && b.route[len(b.route)-1] == goal {
		return true
	}
	for ; retries <= 2; retries++ {
		if path, ok := w.route(b, a.LastNode, goal, retries); ok {
			b.route = append(b.route[:0], path...)
			f.Override = false
			w.trace(b, "route", "from", a.LastNode, "goal", goal, "len", len(path), "attempt", retries)
			return true
		}
	}
	w.trace(b, "no route", "from", a.LastNode, "goal", goal)
	return false
}

// makeRouteTo routes to the linked waypoint closest to pos.
func (w *World) makeRouteTo(b *Brain, a *game.Agent, f *Frame, pos game.Vec3, changed bool, retries int) bool {
	node := w.cache.Closest(pos, w.tun.Navigation.SightMin, true)
	if !node.Valid() {
		return false
	}
	return w.makeRoute(b, a, f, node, changed, retries)
}

// randomNode routes to a random waypoint between guard and wander from pos.
func (w *World) randomNode(b *Brain, a *game.Agent, f *Frame, pos game.Vec3, guard, wander float64) bool {
	self := game.Some(b.id)
	w.candidates = w.cache.Within(pos, guard, wander, w.candidates[:0])
	tries := 0
	for len(w.candidates) > 0 && tries < w.tun.Navigation.RandomTries {
		i := w.rng.Intn(len(w.candidates))
		n := w.candidates[i]
		last := len(w.candidates) - 1
		w.candidates[i] = w.candidates[last]
		w.candidates = w.candidates[:last]
		if n == a.LastNode || !w.graph.Linked(n) || b.hasPrevNode(n) || w.obstacles.Find(n, self) {
			continue
		}
		tries++
		if w.makeRoute(b, a, f, n, true, 0) {
			return true
		}
	}
	return false
}

// randomLink picks a link of n that is neither recent nor already on the route.
func (w *World) randomLink(b *Brain, n game.NodeID) game.NodeID {
	var picks [8]game.NodeID
	count := 0
	for _, l := range w.graph.Links(n) {
		if l == game.NoNode {
			break
		}
		if b.hasPrevNode(l) || onRoute(b.route, l) {
			continue
		}
		picks[count] = l
		count++
	}
	if count == 0 {
		return game.NoNode
	}
	return picks[w.rng.Intn(count)]
}

func onRoute(route []game.NodeID, n game.NodeID) bool {
	for _, r := range route {
		if r == n {
			return true
		}
	}
	return false
}

// anyNode builds a short random walk along links from the last waypoint,
// retrying once with the recent ring cleared.
func (w *World) anyNode(b *Brain, a *game.Agent) bool {
	if !w.graph.Valid(a.LastNode) {
		return false
	}
	for k := 0; k < 2; k++ {
		b.clear(k != 0)
		n := w.randomLink(b, a.LastNode)
		if !n.Valid() {
			continue
		}
		b.route = append(b.route, a.LastNode, n)
		for i := 0; i < w.tun.Navigation.WanderLinks; i++ {
			if n = w.randomLink(b, n); !n.Valid() {
				break
			}
			b.route = append(b.route, n)
		}
		return true
	}
	return false
}
