package game

// WeaponID indexes the weapon table
type WeaponID int

const (
	WeaponMelee WeaponID = iota
	WeaponRifle
	WeaponShotgun
	WeaponRocket
	WeaponGrenade
	NumWeapons
)

// Valid reports whether w names a weapon.
func (w WeaponID) Valid() bool { return w >= 0 && w < NumWeapons }

func (w WeaponID) String() string {
	if !w.Valid() {
		return "none"
	}
	return Weapons[w].Name
}

// Weapon holds the properties the AI needs to pick, aim and fire a weapon.
type Weapon struct {
	Name        string
	Range       float64 // maximum engagement distance
	MinRange    float64 // explosives avoid firing closer than this
	AttackDelay int64   // millis between shots
	Damage      int
	ProjSpeed   float64 // 0 for hitscan
	AimSkew     float64 // aim error multiplier; larger for forgiving weapons
	AimHeight   float64 // fraction of eye height to aim at above the feet
	MaxAmmo     int
	Melee       bool // never runs out of ammo
	Explosive   bool
}

// Weapons is the weapon table, indexed by WeaponID
var Weapons = [NumWeapons]Weapon{
	WeaponMelee: {
		Name: "melee", Range: 12, AttackDelay: 500, Damage: 50,
		AimSkew: 1, AimHeight: 0.5, Melee: true,
	},
	WeaponRifle: {
		Name: "rifle", Range: 1024, AttackDelay: 1500, Damage: 100,
		AimSkew: 1, AimHeight: 0.8, MaxAmmo: 10,
	},
	WeaponShotgun: {
		Name: "shotgun", Range: 256, AttackDelay: 1000, Damage: 60,
		AimSkew: 3, AimHeight: 0.6, MaxAmmo: 20,
	},
	WeaponRocket: {
		Name: "rocket", Range: 512, MinRange: 32, AttackDelay: 800, Damage: 80,
		ProjSpeed: 160, AimSkew: 6, AimHeight: 0.1, MaxAmmo: 10, Explosive: true,
	},
	WeaponGrenade: {
		Name: "grenade", Range: 384, MinRange: 32, AttackDelay: 600, Damage: 70,
		ProjSpeed: 200, AimSkew: 8, AimHeight: 0, MaxAmmo: 10, Explosive: true,
	},
}

// DefaultLoadout is the ammo an agent spawns with.
func DefaultLoadout() [NumWeapons]int {
	var ammo [NumWeapons]int
	ammo[WeaponRifle] = 5
	ammo[WeaponShotgun] = 10
	return ammo
}

// InRange reports whether dist is within w's usable band.
func (w WeaponID) InRange(dist float64) bool {
	if !w.Valid() {
		return false
	}
	wp := &Weapons[w]
	return dist <= wp.Range && dist >= wp.MinRange
}
