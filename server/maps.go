package server

import (
	"fmt"
	"sort"

	"github.com/lab1702/arena-bots/game"
	"github.com/lab1702/arena-bots/waypoint"
)

// Box is an axis aligned solid or volume.
type Box struct {
	Min game.Vec3 `json:"min"`
	Max game.Vec3 `json:"max"`
}

// Contains reports whether p lies inside the box.
func (b Box) Contains(p game.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// ContainsXY reports whether the column above (x, y) passes through the box.
func (b Box) ContainsXY(x, y float64) bool {
	return x >= b.Min.X && x <= b.Max.X && y >= b.Min.Y && y <= b.Max.Y
}

// Grow returns the box expanded by r horizontally.
func (b Box) Grow(r float64) Box {
	return Box{Min: game.V(b.Min.X-r, b.Min.Y-r, b.Min.Z), Max: game.V(b.Max.X+r, b.Max.Y+r, b.Max.Z)}
}

// Segment reports whether the segment from-to passes through the box (slab test).
func (b Box) Segment(from, to game.Vec3) bool {
	d := to.Sub(from)
	tmin, tmax := 0.0, 1.0
	for i := 0; i < 3; i++ {
		o, dir := from.Axis(i), d.Axis(i)
		lo, hi := b.Min.Axis(i), b.Max.Axis(i)
		if dir == 0 {
			if o < lo || o > hi {
				return false
			}
			continue
		}
		t1, t2 := (lo-o)/dir, (hi-o)/dir
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
		if tmin > tmax {
			return false
		}
	}
	return true
}

// Zone is a volume of liquid or a death pit.
type Zone struct {
	Box
	Material waypoint.Material `json:"material"`
}

// ItemSpawn is a pickup location.
type ItemSpawn struct {
	Pos    game.Vec3     `json:"pos"`
	Weapon game.WeaponID `json:"weapon"`
	Amount int           `json:"amount"`
}

// HoldPoint is a named position the hold game mode asks teams to defend.
type HoldPoint struct {
	Name string    `json:"name"`
	Pos  game.Vec3 `json:"pos"`
}

// MapDef describes an arena. The floor is at Z=0 except where zones dig
// below it or walls raise it.
type MapDef struct {
	Name   string      `json:"name"`
	Width  float64     `json:"width"`
	Depth  float64     `json:"depth"`
	Walls  []Box       `json:"walls"`
	Zones  []Zone      `json:"zones"`
	Spawns []game.Vec3 `json:"spawns"`
	Items  []ItemSpawn `json:"items"`
	Holds  []HoldPoint `json:"holds"`
}

// Waypoint grid spacing for generated graphs
const GridSpacing = 32.0

var maps = map[string]func() MapDef{
	"yard": yardMap,
	"pit":  pitMap,
}

// MapNames returns the built-in map names.
func MapNames() []string {
	names := make([]string, 0, len(maps))
	for name := range maps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadMap returns a built-in map.
func LoadMap(name string) (MapDef, error) {
	build, ok := maps[name]
	if !ok {
		return MapDef{}, fmt.Errorf("unknown map %q", name)
	}
	return build(), nil
}

func pillar(x, y, size, height float64) Box {
	return Box{Min: game.V(x, y, 0), Max: game.V(x+size, y+size, height)}
}

// yardMap is an open square with four pillars, a jumpable crate, a water
// pool and a lava strip.
func yardMap() MapDef {
	return MapDef{
		Name:  "yard",
		Width: 1024,
		Depth: 1024,
		Walls: []Box{
			pillar(224, 224, 64, 128),
			pillar(736, 224, 64, 128),
			pillar(224, 736, 64, 128),
			pillar(736, 736, 64, 128),
			pillar(480, 480, 64, 24),
		},
		Zones: []Zone{
			{Box: Box{Min: game.V(64, 448, -16), Max: game.V(192, 576, 0)}, Material: waypoint.MatWater},
			{Box: Box{Min: game.V(864, 464, -8), Max: game.V(928, 560, 0)}, Material: waypoint.MatLava},
		},
		Spawns: []game.Vec3{
			game.V(64, 64, 0), game.V(960, 64, 0), game.V(64, 960, 0), game.V(960, 960, 0),
			game.V(512, 64, 0), game.V(512, 960, 0), game.V(64, 320, 0), game.V(960, 704, 0),
		},
		Items: []ItemSpawn{
			{Pos: game.V(512, 512, 24), Weapon: game.WeaponRocket, Amount: 5},
			{Pos: game.V(128, 128, 0), Weapon: game.WeaponShotgun, Amount: 10},
			{Pos: game.V(896, 896, 0), Weapon: game.WeaponGrenade, Amount: 5},
			{Pos: game.V(896, 128, 0), Weapon: game.WeaponRifle, Amount: 5},
		},
		Holds: []HoldPoint{
			{Name: "north", Pos: game.V(512, 864, 0)},
			{Name: "south", Pos: game.V(512, 160, 0)},
		},
	}
}

// pitMap is a small corridor arena with a death pit in the middle.
func pitMap() MapDef {
	return MapDef{
		Name:  "pit",
		Width: 512,
		Depth: 256,
		Walls: []Box{
			{Min: game.V(160, 0, 0), Max: game.V(176, 96, 96)},
			{Min: game.V(336, 160, 0), Max: game.V(352, 256, 96)},
		},
		Zones: []Zone{
			{Box: Box{Min: game.V(224, 96, -64), Max: game.V(288, 160, 0)}, Material: waypoint.MatDeath},
		},
		Spawns: []game.Vec3{game.V(32, 128, 0), game.V(480, 128, 0), game.V(32, 32, 0), game.V(480, 224, 0)},
		Items: []ItemSpawn{
			{Pos: game.V(256, 32, 0), Weapon: game.WeaponShotgun, Amount: 10},
		},
		Holds: []HoldPoint{{Name: "middle", Pos: game.V(256, 224, 0)}},
	}
}
