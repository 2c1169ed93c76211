// Package ai is the bot decision and navigation core: obstacle tracking,
// route planning over the waypoint graph, the per-bot state stack, combat
// and aiming, and the stuck recovery ladder.
package ai

import (
	"io"
	"math/rand"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/lab1702/arena-bots/game"
	"github.com/lab1702/arena-bots/tuning"
	"github.com/lab1702/arena-bots/waypoint"
)

// World is the AI context for one loaded map. It is not safe for concurrent
// use; the host calls Update from its tick loop.
type World struct {
	ID uuid.UUID

	graph *waypoint.Graph
	cache *waypoint.Cache
	svc   Services
	tun   tuning.Tuning
	log   *log.Logger
	rng   *rand.Rand

	obstacles AvoidSet
	brains    map[int]*Brain

	now       int64
	lastAvoid int64
	avoided   bool
	iteration int
	dropping  bool
	debug     bool

	// scratch
	candidates []game.NodeID
	nearby     []game.NodeID
	path       []game.NodeID
	tried      []int
	interests  []Interest
}

// NewWorld creates the AI context for a map. logger may be nil.
func NewWorld(g *waypoint.Graph, svc Services, t tuning.Tuning, logger *log.Logger) *World {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	id := uuid.New()
	return &World{
		ID:     id,
		graph:  g,
		cache:  g.Cache(),
		svc:    svc,
		tun:    t,
		log:    logger.With("world", id.String()[:8]),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		brains: make(map[int]*Brain),
	}
}

// Seed makes the world's random choices repeatable.
func (w *World) Seed(seed int64) { w.rng.Seed(seed) }

// Graph returns the waypoint graph the world routes over.
func (w *World) Graph() *waypoint.Graph { return w.graph }

// Obstacles returns the current avoidance set.
func (w *World) Obstacles() *AvoidSet { return &w.obstacles }

// SetDropping makes human agents drop and link waypoints as they move.
func (w *World) SetDropping(on bool) { w.dropping = on }

// Close forgets every bot. The world must not be used afterwards.
func (w *World) Close() {
	w.brains = make(map[int]*Brain)
	w.obstacles.Clear()
	w.log.Info("ai world closed")
}

// Attach puts agent id under AI control.
func (w *World) Attach(id int) bool {
	a, ok := w.svc.Registry.Agent(id)
	if !ok {
		return false
	}
	if _, ok := w.brains[id]; ok {
		return true
	}
	a.Skill = max(game.MinSkill, min(a.Skill, game.MaxSkill))
	pref := weaponPrefs[w.rng.Intn(len(weaponPrefs)-1)]
	b := newBrain(id, pref)
	b.life = a.Spawned
	b.views = w.views(a.Skill)
	w.brains[id] = b
	w.log.Info("bot attached", "agent", id, "name", a.Name, "skill", a.Skill, "pref", pref)
	return true
}

// Detach releases agent id from AI control.
func (w *World) Detach(id int) {
	if _, ok := w.brains[id]; ok {
		delete(w.brains, id)
		w.log.Info("bot detached", "agent", id)
	}
}

// Respawned resets the memory of a bot that has just come back to life.
func (w *World) Respawned(id int) {
	b, ok := w.brains[id]
	if !ok {
		return
	}
	b.reset(false, w.now)
	b.resetLadder()
	b.dead = false
	if a, ok := w.svc.Registry.Agent(id); ok {
		b.life = a.Spawned
		b.views = w.views(a.Skill)
	}
}

// Brain returns the memory of a controlled agent.
func (w *World) Brain(id int) (*Brain, bool) {
	b, ok := w.brains[id]
	return b, ok
}

// Controlled returns the number of bots.
func (w *World) Controlled() int { return len(w.brains) }

func (w *World) agent(r game.Ref) (*game.Agent, bool) {
	id, ok := r.Get()
	if !ok {
		return nil, false
	}
	return w.svc.Registry.Agent(id)
}

// Update advances every bot by one tick. now is the simulation clock in millis.
func (w *World) Update(now int64) {
	dt := game.TickMillis
	if w.now != 0 && now > w.now {
		dt = now - w.now
	}
	w.now = now

	if !w.avoided || now-w.lastAvoid >= w.tun.Navigation.AvoidInterval {
		w.avoid()
		w.lastAvoid = now
		w.avoided = true
	}

	agents := w.svc.Registry.Agents()
	for _, a := range agents {
		w.navigate(a)
	}

	count := 0
	for _, a := range agents {
		if _, ok := w.brains[a.ID]; ok {
			count++
		}
	}
	if count == 0 {
		return
	}
	w.iteration = w.iteration%count + 1

	n := 0
	for _, a := range agents {
		b, ok := w.brains[a.ID]
		if !ok {
			continue
		}
		n++
		w.tick(b, a, n == w.iteration, dt)
	}
}

func (w *World) tick(b *Brain, a *game.Agent, run bool, dt int64) {
	if !a.Alive() {
		if !b.dead {
			b.reset(false, w.now)
			b.resetLadder()
			b.dead = true
		}
		a.StopMoving()
		b.lastRun = w.now
		return
	}
	if b.dead || a.Spawned != b.life {
		b.reset(false, w.now)
		b.resetLadder()
		b.dead = false
		b.life = a.Spawned
		b.views = w.views(a.Skill)
	}
	w.think(b, a, run, dt)
	b.lastRun = w.now
}

// navigate tracks the waypoint each agent stands on, feeds the recent ring of
// bots, and lets humans drop waypoints when enabled.
func (w *World) navigate(a *game.Agent) {
	if !a.Alive() {
		a.LastNode = game.NoNode
		return
	}
	b := w.brains[a.ID]
	dropping := w.dropping && !a.IsBot
	if dropping && w.svc.Terrain != nil {
		if m := w.svc.Terrain.Material(a.Pos); m == waypoint.MatLava || m == waypoint.MatDeath {
			dropping = false
		}
	}
	dist := w.tun.Navigation.SightMin
	if dropping || b != nil {
		dist = waypoint.Radius
	}
	cur := w.cache.Closest(a.Pos, dist, false)
	if !cur.Valid() && b != nil && !w.graph.Valid(a.LastNode) {
		cur = w.cache.Closest(a.Pos, w.tun.Navigation.SightMin, true)
	}
	prev := a.LastNode
	if !cur.Valid() {
		if !dropping {
			return
		}
		if cur = w.graph.Add(a.Pos); !cur.Valid() {
			return
		}
		w.log.Debug("waypoint dropped", "agent", a.ID, "node", cur)
	}
	if dropping && cur != prev && w.graph.Valid(prev) {
		w.graph.Link(prev, cur)
		if !a.InAir {
			w.graph.Link(cur, prev)
		}
	}
	a.LastNode = cur
	if b != nil && w.graph.Valid(prev) && cur != prev {
		b.addPrevNode(prev)
	}
}

// FrameView is the inspector form of a Frame.
type FrameView struct {
	State    string `json:"state"`
	Travel   string `json:"travel"`
	Target   string `json:"target"`
	Age      int64  `json:"age"`
	Idle     int    `json:"idle"`
	Override bool   `json:"override"`
}

// BrainView is a read-only dump of one bot.
type BrainView struct {
	Agent  int            `json:"agent"`
	Stack  []FrameView    `json:"stack"`
	Route  []game.NodeID  `json:"route"`
	Prev   []game.NodeID  `json:"prev"`
	Enemy  string         `json:"enemy"`
	Weapon string         `json:"weapon"`
	Spot   game.Vec3      `json:"spot"`
	Ladder map[string]int `json:"ladder"`
}

// Snapshot dumps every bot, ordered by agent id.
func (w *World) Snapshot() []BrainView {
	out := make([]BrainView, 0, len(w.brains))
	for id, b := range w.brains {
		v := BrainView{
			Agent:  id,
			Route:  b.Route(),
			Prev:   b.PrevNodes(),
			Enemy:  b.enemy.String(),
			Weapon: b.weapPref.String(),
			Spot:   b.spot,
			Ladder: map[string]int{"blocked": b.blockSeq, "fixated": b.targSeq, "hunt": b.huntSeq},
		}
		for _, f := range b.stack {
			v.Stack = append(v.Stack, FrameView{
				State:    f.Kind.String(),
				Travel:   f.Travel.String(),
				Target:   f.Target.String(),
				Age:      w.now - f.Millis,
				Idle:     f.Idle,
				Override: f.Override,
			})
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Agent < out[j].Agent })
	return out
}
