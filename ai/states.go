package ai

import (
	"github.com/lab1702/arena-bots/game"
	"github.com/lab1702/arena-bots/waypoint"
)

// doWait looks for something to do: a mode or assist interest, a target in
// sight, any target, then a random place to go. Wait is never popped.
func (w *World) doWait(b *Brain, a *game.Agent, f *Frame) StepResult {
	b.clear(true)
	if w.check(b, a, f) || w.find(b, a, f) {
		return Continue
	}
	if w.target(b, a, 4, false, 0) || w.target(b, a, 4, true, 0) {
		return Continue
	}
	if w.randomNode(b, a, f, a.Pos, w.tun.Navigation.SightMin, wanderAnywhere) {
		w.switchState(b, StateInterest, TravelNode, game.Some(int(b.route[len(b.route)-1])))
		return Continue
	}
	return Pop
}

func (w *World) doDefend(b *Brain, a *game.Agent, f *Frame) StepResult {
	if !a.Alive() {
		return Pop
	}
	nav := w.tun.Navigation
	switch f.Travel {
	case TravelNode:
		if w.check(b, a, f) {
			return Continue
		}
		if n := nodeTarget(f); w.graph.Valid(n) {
			return result(w.defend(b, a, f, w.graph.Pos(n), nav.SightMin, nav.SightMax, 0))
		}
	case TravelEntity:
		if w.check(b, a, f) {
			return Continue
		}
		if it, ok := w.item(f.Target); ok {
			return result(w.defend(b, a, f, it.Pos, nav.SightMin, nav.SightMax, 0))
		}
	case TravelAffinity:
		if w.svc.Mode != nil {
			return result(w.svc.Mode.Defend(w.handle(b, a, f)))
		}
	case TravelPlayer:
		if w.check(b, a, f) {
			return Continue
		}
		if e, ok := w.agent(f.Target); ok && e.Alive() {
			return result(w.defend(b, a, f, e.Pos, nav.SightMin, nav.SightMax, 0))
		}
	}
	return Pop
}

func (w *World) doPursue(b *Brain, a *game.Agent, f *Frame) StepResult {
	if !a.Alive() {
		return Pop
	}
	nav := w.tun.Navigation
	switch f.Travel {
	case TravelNode:
		if w.check(b, a, f) {
			return Continue
		}
		if n := nodeTarget(f); w.graph.Valid(n) {
			return result(w.defend(b, a, f, w.graph.Pos(n), nav.SightMin, nav.SightMax, 0))
		}
	case TravelAffinity:
		if w.svc.Mode != nil {
			return result(w.svc.Mode.Pursue(w.handle(b, a, f)))
		}
	case TravelPlayer:
		if e, ok := w.agent(f.Target); ok && e.Alive() {
			wander := game.Weapons[game.WeaponRifle].Range
			if a.Weapon.Valid() {
				wander = game.Weapons[a.Weapon].Range
			}
			return result(w.patrol(b, a, f, e.Pos, nav.SightMin, wander, 1, false))
		}
	}
	return Pop
}

// doInterest investigates a waypoint or item until it gets there, dropping
// out early for anything better.
func (w *World) doInterest(b *Brain, a *game.Agent, f *Frame) StepResult {
	if !a.Alive() {
		return Pop
	}
	switch f.Travel {
	case TravelNode:
		if w.check(b, a, f) || w.find(b, a, f) {
			return Continue
		}
		if w.target(b, a, 4, true, 0) {
			return Continue
		}
		if n := nodeTarget(f); w.graph.Valid(n) && w.graph.Pos(n).Dist(a.Pos) > w.tun.Navigation.CloseDist {
			return result(w.makeRouteTo(b, a, f, w.graph.Pos(n), true, 0))
		}
	case TravelEntity:
		if it, ok := w.item(f.Target); ok && it.Spawned && w.wantsItem(a, it) {
			return result(w.makeRouteTo(b, a, f, it.Pos, true, 0))
		}
	}
	return Pop
}

func nodeTarget(f *Frame) game.NodeID {
	id, ok := f.Target.Get()
	if !ok || id <= 0 || id > waypoint.MaxNodes {
		return game.NoNode
	}
	return game.NodeID(id)
}

// defend holds within guard of pos, marking the frame idle, and otherwise
// patrols back towards it.
func (w *World) defend(b *Brain, a *game.Agent, f *Frame, pos game.Vec3, guard, wander float64, walk int) bool {
	pursue := 0
	if a.Weapon == game.WeaponMelee {
		pursue = 1
	}
	hasEnemy := w.enemy(b, a, pos, wander, pursue)
	if walk == 0 {
		if a.Pos.SquareDist(pos) <= guard*guard {
			if hasEnemy {
				f.Idle = 2
			} else {
				f.Idle = 1
			}
			if !hasEnemy && w.now-f.Millis < w.tun.Navigation.GuardIdle {
				return true
			}
			if hasEnemy {
				return true
			}
			// bored: wander off and come back
			f.Idle = 0
			f.Millis = w.now
			walk = 2
		} else {
			walk = 1
		}
	}
	return w.patrol(b, a, f, pos, guard, wander, walk, false)
}

// patrol routes back to pos, or away from it to a random waypoint when
// already there (walk 2 forces the wander). Override marks the outbound leg.
func (w *World) patrol(b *Brain, a *game.Agent, f *Frame, pos game.Vec3, guard, wander float64, walk int, retry bool) bool {
	if walk == 2 || f.Override || (walk != 0 && a.Pos.SquareDist(pos) <= guard*guard) || !w.makeRouteTo(b, a, f, pos, true, 0) {
		if !f.Override && w.randomNode(b, a, f, pos, guard, wander) {
			f.Override = true
			return true
		}
		if len(b.route) == 0 {
			f.Override = false
			if !retry {
				return w.patrol(b, a, f, pos, guard, wander, walk, true)
			}
			return false
		}
	}
	f.Override = false
	return true
}

// check gives the game mode first say over the current frame.
func (w *World) check(b *Brain, a *game.Agent, f *Frame) bool {
	if w.svc.Mode == nil {
		return false
	}
	return w.svc.Mode.Check(w.handle(b, a, f))
}
