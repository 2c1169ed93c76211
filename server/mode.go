package server

import (
	"github.com/lab1702/arena-bots/ai"
	"github.com/lab1702/arena-bots/game"
)

// Game modes selectable by name
const (
	ModeDeathmatch = "deathmatch"
	ModeHold       = "hold"
)

// holdMode asks teams to defend the map's hold points. Bots score a hold by
// distance and skip the ones a teammate bot already covers.
type holdMode struct {
	holds []HoldPoint
	guard float64
}

func newHoldMode(holds []HoldPoint, guard float64) *holdMode {
	return &holdMode{holds: holds, guard: guard}
}

func (m *holdMode) Find(h *ai.Handle, interests []ai.Interest) []ai.Interest {
	if h.Agent.Team == game.TeamNone {
		return interests
	}
	for i, hp := range m.holds {
		node := h.ClosestNode(hp.Pos)
		if !node.Valid() {
			continue
		}
		interests = append(interests, ai.Interest{
			State:  ai.StateDefend,
			Travel: ai.TravelAffinity,
			Node:   node,
			Target: game.Some(i),
			Score:  h.Agent.Pos.Dist(hp.Pos),
		})
	}
	return interests
}

func (m *holdMode) Check(h *ai.Handle) bool { return false }

func (m *holdMode) Defend(h *ai.Handle) bool {
	hp, ok := m.hold(h)
	if !ok {
		return false
	}
	return h.Defend(hp.Pos)
}

func (m *holdMode) Pursue(h *ai.Handle) bool {
	hp, ok := m.hold(h)
	if !ok {
		return false
	}
	return h.Patrol(hp.Pos, m.guard, m.guard*4)
}

func (m *holdMode) hold(h *ai.Handle) (HoldPoint, bool) {
	i, ok := h.Frame().Target.Get()
	if !ok || i < 0 || i >= len(m.holds) {
		return HoldPoint{}, false
	}
	return m.holds[i], true
}
