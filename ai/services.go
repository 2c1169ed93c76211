package ai

import (
	"github.com/lab1702/arena-bots/game"
	"github.com/lab1702/arena-bots/waypoint"
)

// Registry owns the agents. The AI never keeps an *Agent across ticks; it
// resolves ids through the registry every time.
type Registry interface {
	// Agents returns every agent slot in a stable order.
	Agents() []*game.Agent
	Agent(id int) (*game.Agent, bool)
	// Suicide kills the agent so it respawns somewhere else.
	Suicide(id int)
}

// Sight answers line-of-sight raycasts.
type Sight interface {
	LineOfSight(from, to game.Vec3) bool
}

// Mover integrates a.Intent, a.Yaw and a.Pitch into a new pose and reports
// Blocked/InAir/InWater back on the agent.
type Mover interface {
	Move(a *game.Agent, dt int64)
}

// Danger is a short-lived area bots route around, such as a live grenade.
type Danger struct {
	Owner  game.Ref
	Pos    game.Vec3
	Radius float64
}

// DangerSource lists the current danger zones.
type DangerSource interface {
	Dangers() []Danger
}

// Item is a pickup bots may detour for.
type Item struct {
	Pos     game.Vec3
	Weapon  game.WeaponID
	Amount  int
	Spawned bool
}

// ItemSource lists the map's pickups by stable index.
type ItemSource interface {
	Items() []Item
}

// Services bundles the collaborators a World consumes. Only Registry is
// required.
type Services struct {
	Registry Registry
	Sight    Sight
	Mover    Mover
	Terrain  waypoint.TerrainLookup
	Mode     GameMode
	Dangers  DangerSource
	Items    ItemSource
	TeamPlay bool // bots assist teammates
}
