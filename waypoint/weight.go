package waypoint

import "github.com/lab1702/arena-bots/game"

// Material classifies the volume at a point.
type Material int

const (
	MatEmpty Material = iota
	MatWater
	MatLava
	MatDeath
)

// Liquid reports whether m slows movement.
func (m Material) Liquid() bool { return m == MatWater || m == MatLava }

// TerrainLookup answers the world queries used to weigh waypoints.
type TerrainLookup interface {
	// Inside reports whether pos is inside the playable world.
	Inside(pos game.Vec3) bool
	// Material returns the volume material at pos.
	Material(pos game.Vec3) Material
	// DropDistance returns the distance straight down from pos to the floor,
	// or a negative value when there is none.
	DropDistance(pos game.Vec3) float64
}

// Hazard weights
const (
	WeightOutside = -2 // outside the world
	liquidFactor  = 5
	deathFactor   = 10
	poolFactor    = 2
	floorProbe    = 8.0
)

// Weigh classifies the terrain under pos. Higher weights make a waypoint more
// expensive to route through; negative weights are hazards to avoid entirely.
func Weigh(t TerrainLookup, pos game.Vec3) int {
	if t == nil {
		return 0
	}
	probe := pos.AddZ(JumpMin)
	if !t.Inside(probe) {
		return WeightOutside
	}
	weight := 1
	if t.Material(probe).Liquid() {
		weight *= liquidFactor
	}
	if dist := t.DropDistance(probe); dist >= 0 {
		weight = int(dist / JumpMin)
		floor := probe.AddZ(-max(dist-floorProbe, 0))
		switch m := t.Material(floor); {
		case m == MatDeath || m == MatLava:
			weight *= deathFactor
		case m.Liquid():
			weight *= poolFactor
		}
	}
	return weight
}
