package ai

import (
	"github.com/lab1702/arena-bots/game"
	"github.com/lab1702/arena-bots/waypoint"
)

// hunt advances the bot along its route and sets the spot to steer at. With
// no usable route it falls back to a short random walk.
func (w *World) hunt(b *Brain, a *game.Agent) bool {
	if len(b.route) > 0 {
		n := w.closeNode(b, a)
		if n >= 0 && w.checkRoute(b, a, n) {
			n = w.closeNode(b, a)
		}
		if n >= 0 {
			last := len(b.route) - 1
			if n == last {
				switch w.wpSpot(b, a, b.route[n], true) {
				case 2:
					b.clear(false)
					return true
				case 1:
					return true
				}
			} else {
				b.route = b.route[:copy(b.route, b.route[n:])]
				if w.wpSpot(b, a, b.route[1], false) != 0 {
					return true
				}
			}
		}
	}
	b.top().Override = false
	return w.anyNode(b, a) && w.wpSpot(b, a, b.route[1], false) != 0
}

// closeNode returns the route index nearest the bot within CloseDist,
// preferring waypoints that remap cleanly, or -1.
func (w *World) closeNode(b *Brain, a *game.Agent) int {
	nav := w.tun.Navigation
	node1, node2 := -1, -1
	best1, best2 := nav.CloseDist*nav.CloseDist, nav.CloseDist*nav.CloseDist
	far := nav.FarDist * nav.FarDist
	for i, id := range b.route {
		if !w.graph.Valid(id) {
			continue
		}
		pos := w.graph.Pos(id)
		dist := pos.SquareDist(a.Pos)
		if dist > far {
			continue
		}
		if _, rpos, ok := w.remap(b, a, id, pos, false); ok {
			dist = rpos.SquareDist(a.Pos)
			if dist < best1 {
				node1, best1 = i, dist
			}
		} else if dist < best2 {
			node2, best2 = i, dist
		}
	}
	if node1 >= 0 {
		return node1
	}
	return node2
}

// wpSpot sets the spot to waypoint id or a remapped neighbour. It returns 0
// when nothing is usable, 1 when the spot is set and, with check, 2 when the
// bot is already standing on it.
func (w *World) wpSpot(b *Brain, a *game.Agent, id game.NodeID, check bool) int {
	if !w.graph.Valid(id) {
		return 0
	}
	for k := 0; k < 2; k++ {
		n, pos, ok := w.remap(b, a, id, w.graph.Pos(id), k != 0)
		if !ok {
			continue
		}
		b.spot = pos
		b.targNode = n
		if !check || a.Pos.SquareDist(pos) > waypoint.MinDist*waypoint.MinDist {
			return 1
		}
		return 2
	}
	return 0
}

// checkRoute looks a few waypoints ahead of route index n. When one of them
// is occupied or was visited recently, the route is replanned from the
// bot's waypoint to the first clear one beyond it.
func (w *World) checkRoute(b *Brain, a *game.Agent, n int) bool {
	if n < 0 || n >= len(b.route) {
		return false
	}
	if b.lastCheck == 0 {
		b.lastCheck = w.now
		return false
	}
	last := len(b.route) - 1
	if w.now-b.lastCheck < w.tun.Navigation.CheckInterval || last-n < 3 {
		return false
	}
	b.lastCheck = w.now
	from := a.LastNode
	if !w.graph.Valid(from) {
		from = b.route[n]
	}
	self := game.Some(b.id)
	blocked := func(id game.NodeID) bool { return b.hasPrevNode(id) || w.obstacles.Find(id, self) }
	ahead := min(last-n-1, NumPrevNodes)
	for j := 1; j <= ahead; j++ {
		p := n + j
		if !blocked(b.route[p]) {
			continue
		}
		if last-p < 3 {
			return false
		}
		for i := p + 1; i <= last; i++ {
			t := b.route[i]
			if blocked(t) {
				continue
			}
			path, ok := w.route(b, from, t, 0)
			if !ok {
				return false
			}
			w.trace(b, "detour", "around", b.route[p], "via", t)
			spliced := make([]game.NodeID, 0, len(path)+last-i)
			spliced = append(spliced, path...)
			spliced = append(spliced, b.route[i+1:]...)
			b.route = spliced
			return true
		}
		return false
	}
	return false
}

// jumpTo jumps when the spot is above reach, when the ladder is escalating,
// or at random on a skill scaled cadence.
func (w *World) jumpTo(b *Brain, a *game.Agent, f *Frame, pos game.Vec3) {
	off := pos.Sub(a.Pos)
	sequenced := b.blockSeq > 0 || b.targSeq > 0
	offGround := a.InAir && !a.InWater
	if offGround || w.now < b.jumpSeed || (!sequenced && off.Z < waypoint.JumpMin && w.now < b.jumpRand) {
		return
	}
	a.Intent.Jump = true
	seed := int64(skillCeiling - a.Skill)
	if a.InWater {
		seed *= jumpWaterSeed
	} else {
		seed *= jumpLandSeed
	}
	b.jumpSeed = w.now + seed + w.rng.Int63n(seed)
	if f.Idle != 0 {
		seed *= jumpIdleMult
	} else {
		seed *= jumpMoveMult
	}
	b.jumpRand = w.now + seed + w.rng.Int63n(seed)
}
