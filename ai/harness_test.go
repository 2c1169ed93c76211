package ai

import (
	"testing"

	"github.com/lab1702/arena-bots/game"
	"github.com/lab1702/arena-bots/tuning"
	"github.com/lab1702/arena-bots/waypoint"
)

// spacing between waypoints of the test line graphs
const spacing = 64.0

type fakeRegistry struct {
	agents   []*game.Agent
	suicides map[int]int
}

func newRegistry() *fakeRegistry {
	return &fakeRegistry{suicides: make(map[int]int)}
}

func (r *fakeRegistry) Agents() []*game.Agent { return r.agents }

func (r *fakeRegistry) Agent(id int) (*game.Agent, bool) {
	for _, a := range r.agents {
		if a.ID == id {
			return a, true
		}
	}
	return nil, false
}

func (r *fakeRegistry) Suicide(id int) {
	r.suicides[id]++
	if a, ok := r.Agent(id); ok {
		a.Status = game.StatusDead
	}
}

// spawn adds a live agent standing at pos.
func (r *fakeRegistry) spawn(team int, bot bool, pos game.Vec3) *game.Agent {
	a := game.NewAgent(len(r.agents))
	a.Status = game.StatusAlive
	a.Team = team
	a.IsBot = bot
	a.Pos = pos
	a.Skill = 50
	a.Ammo = game.DefaultLoadout()
	a.Weapon = game.WeaponRifle
	r.agents = append(r.agents, a)
	return a
}

// blockedMover never moves anybody and always reports a collision.
type blockedMover struct{}

func (blockedMover) Move(a *game.Agent, dt int64) { a.Blocked = true }

// openSight(true) sees everything and openSight(false) nothing.
type openSight bool

func (s openSight) LineOfSight(from, to game.Vec3) bool { return bool(s) }

type fixedItems []Item

func (f fixedItems) Items() []Item { return f }

// nodePos is the position of waypoint id in a line graph.
func nodePos(id game.NodeID) game.Vec3 {
	return game.V(float64(id-1)*spacing, 0, 0)
}

// lineGraph builds 1<->2<->...<->n along X.
func lineGraph(n int) *waypoint.Graph {
	g := waypoint.New(nil)
	var prev game.NodeID
	for i := 1; i <= n; i++ {
		id := g.Add(nodePos(game.NodeID(i)))
		if prev.Valid() {
			g.LinkBoth(prev, id)
		}
		prev = id
	}
	return g
}

func newTestWorld(t *testing.T, g *waypoint.Graph, reg *fakeRegistry) *World {
	t.Helper()
	w := NewWorld(g, Services{Registry: reg}, tuning.Default(), nil)
	w.Seed(1)
	return w
}

// attach puts a under AI control with a fixed weapon preference.
func attach(t *testing.T, w *World, a *game.Agent) *Brain {
	t.Helper()
	if !w.Attach(a.ID) {
		t.Fatalf("attach %d failed", a.ID)
	}
	b, _ := w.Brain(a.ID)
	b.weapPref = game.WeaponRifle
	return b
}

func assertLinked(t *testing.T, g *waypoint.Graph, route []game.NodeID) {
	t.Helper()
	for i := 1; i < len(route); i++ {
		if !g.HasLink(route[i-1], route[i]) {
			t.Errorf("route %v: %d does not link to %d", route, route[i-1], route[i])
		}
	}
}

func sameRoute(a, b []game.NodeID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
