package ai

import "github.com/lab1702/arena-bots/game"

// Interest is a scored proposal for a state switch. The lowest score that can
// be routed to wins. Scores are distances in world units, weighted by need.
type Interest struct {
	State  StateKind
	Travel TravelKind
	Node   game.NodeID // where to route
	Target game.Ref
	Score  float64
}

// GameMode lets mode rules steer bots. Find appends interests; Check may take
// over the current frame; Defend and Pursue resolve TravelAffinity targets.
// Each returns whether it handled the bot.
type GameMode interface {
	Find(h *Handle, interests []Interest) []Interest
	Check(h *Handle) bool
	Defend(h *Handle) bool
	Pursue(h *Handle) bool
}

// Handle is the view of one bot handed to GameMode callbacks.
type Handle struct {
	w     *World
	b     *Brain
	f     *Frame
	Agent *game.Agent
}

func (w *World) handle(b *Brain, a *game.Agent, f *Frame) *Handle {
	return &Handle{w: w, b: b, f: f, Agent: a}
}

// Frame returns the frame being evaluated.
func (h *Handle) Frame() Frame { return *h.f }

func (h *Handle) Now() int64 { return h.w.now }

// Enemy returns the bot's current enemy, if any.
func (h *Handle) Enemy() game.Ref { return h.b.enemy }

// MakeRoute plans a route to node, keeping the current one if it already ends there.
func (h *Handle) MakeRoute(node game.NodeID) bool {
	return h.w.makeRoute(h.b, h.Agent, h.f, node, true, 0)
}

// MakeRouteTo plans a route to the linked waypoint closest to pos.
func (h *Handle) MakeRouteTo(pos game.Vec3) bool {
	return h.w.makeRouteTo(h.b, h.Agent, h.f, pos, true, 0)
}

// Defend holds position around pos, patrolling when there is nothing to do.
func (h *Handle) Defend(pos game.Vec3) bool {
	return h.w.defend(h.b, h.Agent, h.f, pos, h.w.tun.Navigation.SightMin, h.w.tun.Navigation.SightMax, 0)
}

// Patrol wanders between guard and wander around pos and comes back.
func (h *Handle) Patrol(pos game.Vec3, guard, wander float64) bool {
	return h.w.patrol(h.b, h.Agent, h.f, pos, guard, wander, 1, false)
}

// SwitchState replaces or pushes a frame.
func (h *Handle) SwitchState(kind StateKind, travel TravelKind, target game.Ref) {
	h.w.switchState(h.b, kind, travel, target)
	h.f = h.b.top()
}

// CheckOthers reports whether a teammate bot already runs the given frame.
func (h *Handle) CheckOthers(kind StateKind, travel TravelKind, target game.Ref) bool {
	others, _ := h.w.checkOthers(h.Agent, kind, travel, target, true)
	return others
}

// ClosestNode returns the linked waypoint nearest pos within sight range.
func (h *Handle) ClosestNode(pos game.Vec3) game.NodeID {
	return h.w.cache.Closest(pos, h.w.tun.Navigation.SightMax, true)
}
