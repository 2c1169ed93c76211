package game

import (
	"math"
	"strconv"
	"time"
)

// Arena limits and timing
const (
	MaxAgents = 64

	// Game timing
	FPS            = 20
	UpdateInterval = time.Second / FPS // 50ms per tick
	TickMillis     = int64(UpdateInterval / time.Millisecond)
)

// Team IDs. TeamNone agents are hostile to everybody (free-for-all).
const (
	TeamNone  = 0
	TeamRed   = 1
	TeamBlue  = 2
	TeamGreen = 3
)

// TeamNames maps team IDs to the short names used by commands and the inspector.
var TeamNames = map[int]string{
	TeamNone:  "none",
	TeamRed:   "red",
	TeamBlue:  "blue",
	TeamGreen: "green",
}

// SameTeam reports whether two team IDs are allied.
func SameTeam(a, b int) bool {
	return a != TeamNone && a == b
}

// Agent status
const (
	StatusFree  = 0
	StatusAlive = 1
	StatusDead  = 2
)

// Skill bounds. MaxSkill is "perfect": no aim error, full field of view.
const (
	MinSkill     = 1
	PerfectSkill = 100
	MaxSkill     = 101
)

// NodeID indexes a waypoint. Zero is reserved and means "no waypoint".
type NodeID uint16

// NoNode is the absent waypoint.
const NoNode NodeID = 0

// Valid reports whether n refers to a waypoint slot (it may still be out of range
// for a particular graph).
func (n NodeID) Valid() bool { return n != NoNode }

// Ref is an optional agent/entity index. The zero value is absent.
type Ref struct {
	idx int32
	ok  bool
}

// Some wraps a present index.
func Some(i int) Ref { return Ref{idx: int32(i), ok: true} }

// None is the absent reference.
var None = Ref{}

// Get returns the index and whether it is present.
func (r Ref) Get() (int, bool) { return int(r.idx), r.ok }

// Valid reports whether r holds an index.
func (r Ref) Valid() bool { return r.ok }

// Is reports whether r holds exactly i.
func (r Ref) Is(i int) bool { return r.ok && int(r.idx) == i }

func (r Ref) String() string {
	if !r.ok {
		return "-"
	}
	return strconv.Itoa(int(r.idx))
}

// MoveIntent is what the AI hands the movement executor each tick.
type MoveIntent struct {
	Move      int  `json:"move"`   // -1 back, 0, +1 forward
	Strafe    int  `json:"strafe"` // -1 left, 0, +1 right
	Jump      bool `json:"jump"`
	Attacking bool `json:"attacking"`
}

// Agent is one participant in the arena, human or bot. The registry owns it;
// the AI only writes Yaw/Pitch, Intent, and Weapon.
type Agent struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Team   int    `json:"team"`
	Status int    `json:"status"`
	IsBot  bool   `json:"isBot"`
	Skill  int    `json:"skill"`

	// Pose. Pos is the feet position.
	Pos       Vec3    `json:"pos"`
	Yaw       float64 `json:"yaw"`   // degrees
	Pitch     float64 `json:"pitch"` // degrees
	EyeHeight float64 `json:"-"`
	AboveEye  float64 `json:"-"`
	Radius    float64 `json:"-"`

	// Reported by the movement executor
	Blocked bool `json:"blocked"`
	InAir   bool `json:"inAir"`
	InWater bool `json:"inWater"`

	// Weapons
	Weapon     WeaponID        `json:"weapon"`
	Ammo       [NumWeapons]int `json:"ammo"`
	LastAction int64           `json:"-"` // millis of last shot
	GunWait    int64           `json:"-"` // millis until the weapon is ready again
	Intent     MoveIntent      `json:"intent"`
	LastNode   NodeID          `json:"lastNode"`
	Health     int             `json:"health"`
	Frags      int             `json:"frags"`
	Deaths     int             `json:"deaths"`
	Spawned    int64           `json:"-"` // lifecycle counter, bumped on every respawn
}

// Default body dimensions
const (
	DefaultEyeHeight = 14.0
	DefaultAboveEye  = 2.0
	DefaultRadius    = 4.1
	MaxHealth        = 100
)

// NewAgent returns an agent slot with default body dimensions.
func NewAgent(id int) *Agent {
	return &Agent{
		ID:        id,
		Status:    StatusFree,
		Skill:     MinSkill,
		EyeHeight: DefaultEyeHeight,
		AboveEye:  DefaultAboveEye,
		Radius:    DefaultRadius,
		Health:    MaxHealth,
	}
}

// Alive reports whether the agent is in play.
func (a *Agent) Alive() bool { return a != nil && a.Status == StatusAlive }

// HeadPos returns the eye position.
func (a *Agent) HeadPos() Vec3 { return a.Pos.AddZ(a.EyeHeight) }

// HasAmmo reports whether the given weapon can fire.
func (a *Agent) HasAmmo(w WeaponID) bool {
	return w.Valid() && (Weapons[w].Melee || a.Ammo[w] > 0)
}

// StopMoving clears the movement intent.
func (a *Agent) StopMoving() {
	a.Intent = MoveIntent{}
}

// Distance calculates distance between two points on the ground plane
func Distance(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}

// NormalizeYaw keeps a yaw angle in [0, 360)
func NormalizeYaw(yaw float64) float64 {
	for yaw < 0 {
		yaw += 360
	}
	for yaw >= 360 {
		yaw -= 360
	}
	return yaw
}

// ClampPitch keeps a pitch angle in [-90, 90]
func ClampPitch(pitch float64) float64 {
	return math.Max(-90, math.Min(90, pitch))
}

// YawPitch returns the yaw and pitch (degrees) that look from 'from' to 'to'.
func YawPitch(from, to Vec3) (yaw, pitch float64) {
	d := to.Sub(from)
	dist := d.Magnitude()
	if dist == 0 {
		return 0, 0
	}
	yaw = NormalizeYaw(math.Atan2(d.Y, d.X)*180/math.Pi - 90)
	pitch = math.Asin(d.Z/dist) * 180 / math.Pi
	return yaw, pitch
}
