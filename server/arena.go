package server

import (
	"math"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/lab1702/arena-bots/ai"
	"github.com/lab1702/arena-bots/game"
	"github.com/lab1702/arena-bots/waypoint"
)

// Arena timing and damage
const (
	ItemRespawn    = 10000 // millis before a taken pickup comes back
	PickupDist     = 16.0
	LavaDamage     = 40 // per second
	SuicidePenalty = 1  // frags lost on suicide
)

type itemState struct {
	ItemSpawn
	spawned bool
	takenAt int64
}

// Arena is the host simulation: the agent registry, world geometry, items,
// and projectiles. It implements the services the AI consumes.
type Arena struct {
	Map MapDef

	agents []*game.Agent // registry order, by id
	byID   map[int]*game.Agent
	nextID int
	vz     map[int]float64
	diedAt map[int]int64

	grid        *SpatialGrid
	items       []itemState
	itemView    []ai.Item
	projectiles []*Projectile
	projID      int
	dangers     []ai.Danger
	near        []int

	now int64
	rng *rand.Rand
	log *log.Logger
}

// NewArena creates an empty arena for a map.
func NewArena(m MapDef, rng *rand.Rand, logger *log.Logger) *Arena {
	ar := &Arena{
		Map:    m,
		byID:   make(map[int]*game.Agent),
		vz:     make(map[int]float64),
		diedAt: make(map[int]int64),
		grid:   NewSpatialGrid(m.Width, m.Depth),
		rng:    rng,
		log:    logger,
	}
	for _, it := range m.Items {
		ar.items = append(ar.items, itemState{ItemSpawn: it, spawned: true})
	}
	return ar
}

// Agents returns every agent in id order.
func (ar *Arena) Agents() []*game.Agent { return ar.agents }

// Agent resolves an id.
func (ar *Arena) Agent(id int) (*game.Agent, bool) {
	a, ok := ar.byID[id]
	return a, ok
}

// Suicide kills an agent by its own hand.
func (ar *Arena) Suicide(id int) {
	if a, ok := ar.byID[id]; ok && a.Alive() {
		ar.kill(a, a)
	}
}

// Join adds an agent and spawns it.
func (ar *Arena) Join(name string, team int, bot bool, skill int) *game.Agent {
	a := game.NewAgent(ar.nextID)
	ar.nextID++
	a.Name = name
	a.Team = team
	a.IsBot = bot
	a.Skill = skill
	ar.agents = append(ar.agents, a)
	ar.byID[a.ID] = a
	ar.spawn(a)
	return a
}

// Leave removes an agent.
func (ar *Arena) Leave(id int) bool {
	if _, ok := ar.byID[id]; !ok {
		return false
	}
	delete(ar.byID, id)
	delete(ar.vz, id)
	delete(ar.diedAt, id)
	for i, a := range ar.agents {
		if a.ID == id {
			ar.agents = append(ar.agents[:i], ar.agents[i+1:]...)
			break
		}
	}
	return true
}

// spawn puts a at the free spawn point farthest from any enemy.
func (ar *Arena) spawn(a *game.Agent) {
	best, bestDist := game.V(ar.Map.Width/2, ar.Map.Depth/2, 0), -1.0
	start := ar.rng.Intn(max(len(ar.Map.Spawns), 1))
	for i := range ar.Map.Spawns {
		p := ar.Map.Spawns[(start+i)%len(ar.Map.Spawns)]
		nearest := math.Inf(1)
		for _, e := range ar.agents {
			if e == a || !e.Alive() || game.SameTeam(a.Team, e.Team) {
				continue
			}
			nearest = math.Min(nearest, e.Pos.Dist(p))
		}
		if nearest > bestDist {
			best, bestDist = p, nearest
		}
	}
	a.Pos = best
	a.Yaw = float64(ar.rng.Intn(360))
	a.Pitch = 0
	a.Status = game.StatusAlive
	a.Health = game.MaxHealth
	a.Ammo = game.DefaultLoadout()
	a.Weapon = game.WeaponRifle
	a.LastAction, a.GunWait = 0, 0
	a.Intent = game.MoveIntent{}
	a.Blocked, a.InAir, a.InWater = false, false, false
	a.LastNode = game.NoNode
	a.Spawned++
	ar.vz[a.ID] = 0
	delete(ar.diedAt, a.ID)
}

// respawn brings back agents dead for at least delay and returns their ids.
func (ar *Arena) respawn(delay int64) []int {
	var ids []int
	for _, a := range ar.agents {
		if a.Status != game.StatusDead {
			continue
		}
		if at, ok := ar.diedAt[a.ID]; ok && ar.now-at >= delay {
			ar.spawn(a)
			ids = append(ids, a.ID)
		}
	}
	return ids
}

// kill marks victim dead and scores the frag.
func (ar *Arena) kill(victim, killer *game.Agent) {
	victim.Status = game.StatusDead
	victim.Health = 0
	victim.Deaths++
	victim.StopMoving()
	ar.diedAt[victim.ID] = ar.now
	switch {
	case killer == nil || killer == victim:
		victim.Frags -= SuicidePenalty
		ar.log.Debug("suicide", "agent", victim.ID, "name", victim.Name)
	default:
		killer.Frags++
		ar.log.Debug("frag", "killer", killer.Name, "victim", victim.Name)
	}
}

// damage hurts e and kills it when its health runs out.
func (ar *Arena) damage(e, attacker *game.Agent, amount int) {
	if !e.Alive() || amount <= 0 {
		return
	}
	e.Health -= amount
	if e.Health <= 0 {
		ar.kill(e, attacker)
	}
}

// LineOfSight reports whether nothing solid lies between from and to.
func (ar *Arena) LineOfSight(from, to game.Vec3) bool {
	for _, w := range ar.Map.Walls {
		if w.Segment(from, to) {
			return false
		}
	}
	return true
}

// Inside reports whether pos is in the open part of the arena.
func (ar *Arena) Inside(pos game.Vec3) bool {
	if pos.X < 0 || pos.Y < 0 || pos.X > ar.Map.Width || pos.Y > ar.Map.Depth {
		return false
	}
	for _, w := range ar.Map.Walls {
		if w.Contains(pos) {
			return false
		}
	}
	return true
}

// Material returns the zone material at pos.
func (ar *Arena) Material(pos game.Vec3) waypoint.Material {
	for _, z := range ar.Map.Zones {
		if z.Contains(pos) {
			return z.Material
		}
	}
	return waypoint.MatEmpty
}

// DropDistance returns how far pos is above the floor below it.
func (ar *Arena) DropDistance(pos game.Vec3) float64 {
	if d := pos.Z - ar.floorAt(pos.X, pos.Y, pos.Z); d >= 0 {
		return d
	}
	return -1
}

// floorAt returns the highest floor at (x, y) that is not above top.
func (ar *Arena) floorAt(x, y, top float64) float64 {
	floor := 0.0
	for _, z := range ar.Map.Zones {
		if z.ContainsXY(x, y) {
			floor = math.Min(floor, z.Min.Z)
		}
	}
	for _, w := range ar.Map.Walls {
		if w.ContainsXY(x, y) && w.Max.Z <= top {
			floor = math.Max(floor, w.Max.Z)
		}
	}
	return floor
}

// Items lists the pickups.
func (ar *Arena) Items() []ai.Item {
	ar.itemView = ar.itemView[:0]
	for _, it := range ar.items {
		ar.itemView = append(ar.itemView, ai.Item{Pos: it.Pos, Weapon: it.Weapon, Amount: it.Amount, Spawned: it.spawned})
	}
	return ar.itemView
}

// Dangers lists live explosives.
func (ar *Arena) Dangers() []ai.Danger {
	ar.dangers = ar.dangers[:0]
	for _, p := range ar.projectiles {
		wp := game.Weapons[p.Weapon]
		if !wp.Explosive {
			continue
		}
		ar.dangers = append(ar.dangers, ai.Danger{Owner: game.Some(p.Owner), Pos: p.Pos, Radius: SplashRadius})
	}
	return ar.dangers
}

// updateItems handles pickups and item respawns.
func (ar *Arena) updateItems() {
	for i := range ar.items {
		it := &ar.items[i]
		if !it.spawned {
			if ar.now-it.takenAt >= ItemRespawn {
				it.spawned = true
			}
			continue
		}
		for _, a := range ar.agents {
			if !a.Alive() || a.Pos.Dist(it.Pos) > PickupDist {
				continue
			}
			wp := game.Weapons[it.Weapon]
			if a.Ammo[it.Weapon] >= wp.MaxAmmo {
				continue
			}
			a.Ammo[it.Weapon] = min(a.Ammo[it.Weapon]+it.Amount, wp.MaxAmmo)
			it.spawned = false
			it.takenAt = ar.now
			break
		}
	}
}

// updateHazards applies lava damage and death pits.
func (ar *Arena) updateHazards(dt int64) {
	for _, a := range ar.agents {
		if !a.Alive() {
			continue
		}
		switch ar.Material(a.Pos.AddZ(1)) {
		case waypoint.MatDeath:
			ar.kill(a, nil)
		case waypoint.MatLava:
			ar.damage(a, nil, max(int(LavaDamage*dt/1000), 1))
		}
	}
}

// BuildGraph fills g with a waypoint grid over the arena floor, linking
// neighbours that can see each other and are within jumping height.
// Waypoints over death pits are left unlinked as hazards.
func (ar *Arena) BuildGraph(g *waypoint.Graph) {
	g.Clear()
	g.SetTerrain(ar)
	cols := int(ar.Map.Width / GridSpacing)
	rows := int(ar.Map.Depth / GridSpacing)
	ids := make([]game.NodeID, cols*rows)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			x := (float64(c) + 0.5) * GridSpacing
			y := (float64(r) + 0.5) * GridSpacing
			z, ok := ar.standable(x, y)
			if !ok {
				continue
			}
			pos := game.V(x, y, z)
			if ar.Material(game.V(x, y, -1)) == waypoint.MatDeath {
				pos.Z = 0
				if id := g.Add(pos); id.Valid() {
					g.SetWeight(id, -1)
				}
				continue
			}
			ids[r*cols+c] = g.Add(pos)
		}
	}
	// orthogonal neighbours first so diagonals only fill spare link slots
	dirs := [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {-1, -1}, {1, -1}, {-1, 1}}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			a := ids[r*cols+c]
			if !a.Valid() {
				continue
			}
			for _, d := range dirs {
				nc, nr := c+d[0], r+d[1]
				if nc < 0 || nr < 0 || nc >= cols || nr >= rows {
					continue
				}
				b := ids[nr*cols+nc]
				if !b.Valid() {
					continue
				}
				pa, pb := g.Pos(a), g.Pos(b)
				if pb.Z-pa.Z > waypoint.JumpMax || ar.crossesPit(pa, pb) {
					continue
				}
				// sight line at eye height above the higher end
				top := max(pa.Z, pb.Z) + game.DefaultEyeHeight/2
				if ar.LineOfSight(game.V(pa.X, pa.Y, top), game.V(pb.X, pb.Y, top)) {
					g.Link(a, b)
				}
			}
		}
	}
	g.Cache().Rebuild()
}

// standable returns the floor height at (x, y) if an agent fits there.
func (ar *Arena) standable(x, y float64) (float64, bool) {
	z := ar.floorAt(x, y, waypoint.JumpMax)
	margin := game.DefaultRadius + 1
	for _, w := range ar.Map.Walls {
		if w.Grow(margin).ContainsXY(x, y) && w.Max.Z > z+waypoint.JumpMin {
			return 0, false
		}
	}
	return z, true
}

// crossesPit reports whether walking from a to b passes within a body
// radius of a death zone.
func (ar *Arena) crossesPit(a, b game.Vec3) bool {
	const samples = 8
	for _, z := range ar.Map.Zones {
		if z.Material != waypoint.MatDeath {
			continue
		}
		box := z.Grow(game.DefaultRadius)
		for i := 0; i <= samples; i++ {
			p := a.Add(b.Sub(a).Scale(float64(i) / samples))
			if box.ContainsXY(p.X, p.Y) {
				return true
			}
		}
	}
	return false
}
