package server

import (
	"math"

	"github.com/lab1702/arena-bots/game"
)

// SplashRadius is the blast radius of explosive weapons.
const SplashRadius = 48.0

// Projectile is a rocket or grenade in flight.
type Projectile struct {
	ID     int           `json:"id"`
	Owner  int           `json:"owner"`
	Weapon game.WeaponID `json:"weapon"`
	Pos    game.Vec3     `json:"pos"`
	Vel    game.Vec3     `json:"vel"`
	Fuse   int64         `json:"-"` // millis left
}

// fire discharges a's weapon when it is attacking and the weapon is ready.
func (ar *Arena) fire(a *game.Agent) {
	if !a.Alive() || !a.Intent.Attacking || !a.HasAmmo(a.Weapon) {
		return
	}
	if ar.now-a.LastAction < a.GunWait {
		return
	}
	wp := &game.Weapons[a.Weapon]
	a.LastAction = ar.now
	a.GunWait = wp.AttackDelay
	if !wp.Melee {
		a.Ammo[a.Weapon]--
	}

	dir := game.Direction(a.Yaw, a.Pitch)
	eye := a.HeadPos()
	if wp.ProjSpeed > 0 {
		ar.projID++
		ar.projectiles = append(ar.projectiles, &Projectile{
			ID:     ar.projID,
			Owner:  a.ID,
			Weapon: a.Weapon,
			Pos:    eye.Add(dir.Scale(a.Radius + 1)),
			Vel:    dir.Scale(wp.ProjSpeed),
			Fuse:   int64(wp.Range / wp.ProjSpeed * 1000),
		})
		return
	}
	if hit, _ := ar.trace(a, eye, dir, wp.Range); hit != nil {
		ar.damage(hit, a, wp.Damage)
	}
}

// trace finds the first agent other than shooter hit by the ray from o along
// unit direction d within maxDist, and the distance to it.
func (ar *Arena) trace(shooter *game.Agent, o, d game.Vec3, maxDist float64) (*game.Agent, float64) {
	var best *game.Agent
	bestT := maxDist
	flat := d.X*d.X + d.Y*d.Y
	for _, e := range ar.agents {
		if e == shooter || !e.Alive() || game.SameTeam(shooter.Team, e.Team) {
			continue
		}
		t, ok := rayBody(o, d, flat, e)
		if !ok || t > bestT {
			continue
		}
		if !ar.LineOfSight(o, o.Add(d.Scale(t))) {
			continue
		}
		best, bestT = e, t
	}
	return best, bestT
}

// rayBody intersects a ray with e's body cylinder.
func rayBody(o, d game.Vec3, flat float64, e *game.Agent) (float64, bool) {
	top := e.Pos.Z + e.EyeHeight + e.AboveEye
	if flat < 1e-9 {
		// straight up or down
		if o.Dist2D(e.Pos) > e.Radius {
			return 0, false
		}
		if d.Z > 0 {
			return math.Max(e.Pos.Z-o.Z, 0), o.Z <= top
		}
		return math.Max(o.Z-top, 0), o.Z >= e.Pos.Z
	}
	cx, cy := e.Pos.X-o.X, e.Pos.Y-o.Y
	tc := (cx*d.X + cy*d.Y) / flat
	px, py := o.X+d.X*tc-e.Pos.X, o.Y+d.Y*tc-e.Pos.Y
	miss := px*px + py*py
	if miss > e.Radius*e.Radius {
		return 0, false
	}
	t := tc - math.Sqrt((e.Radius*e.Radius-miss)/flat)
	if t < 0 {
		t = tc
	}
	if t < 0 {
		return 0, false
	}
	z := o.Z + d.Z*t
	if z < e.Pos.Z || z > top {
		return 0, false
	}
	return t, true
}

// updateProjectiles moves explosives and detonates them when they hit
// something or their fuse runs out. Filters in place.
func (ar *Arena) updateProjectiles(dt int64) {
	sec := float64(dt) / 1000
	keep := ar.projectiles[:0]
	for _, p := range ar.projectiles {
		next := p.Pos.Add(p.Vel.Scale(sec))
		p.Fuse -= dt
		if at, ok := ar.contact(p, next); ok {
			ar.explode(p, at)
			continue
		}
		if p.Fuse <= 0 || !ar.LineOfSight(p.Pos, next) || !ar.Inside(next) ||
			next.Z <= ar.floorAt(next.X, next.Y, next.Z) {
			ar.explode(p, p.Pos)
			continue
		}
		p.Pos = next
		keep = append(keep, p)
	}
	for i := len(keep); i < len(ar.projectiles); i++ {
		ar.projectiles[i] = nil
	}
	ar.projectiles = keep
}

// contact reports where p, moving to next, first touches an enemy body.
func (ar *Arena) contact(p *Projectile, next game.Vec3) (game.Vec3, bool) {
	step := next.Sub(p.Pos)
	length := step.Magnitude()
	if length == 0 {
		return p.Pos, false
	}
	d := step.Scale(1 / length)
	flat := d.X*d.X + d.Y*d.Y
	owner := ar.byID[p.Owner]
	best := math.Inf(1)
	ar.near = ar.grid.Nearby(next.X, next.Y, ar.near[:0])
	for _, id := range ar.near {
		e, ok := ar.byID[id]
		if !ok || !e.Alive() || e.ID == p.Owner {
			continue
		}
		if owner != nil && game.SameTeam(owner.Team, e.Team) {
			continue
		}
		if t, ok := rayBody(p.Pos, d, flat, e); ok && t <= length && t < best {
			best = t
		}
	}
	if math.IsInf(best, 1) {
		return p.Pos, false
	}
	return p.Pos.Add(d.Scale(best)), true
}

// explode deals splash damage falling off with distance. Teammates of the
// owner are spared; the owner is not.
func (ar *Arena) explode(p *Projectile, at game.Vec3) {
	owner := ar.byID[p.Owner]
	wp := &game.Weapons[p.Weapon]
	ar.near = ar.grid.Nearby(at.X, at.Y, ar.near[:0])
	for _, id := range ar.near {
		e, ok := ar.byID[id]
		if !ok || !e.Alive() {
			continue
		}
		if owner != nil && e != owner && game.SameTeam(owner.Team, e.Team) {
			continue
		}
		mid := e.Pos.AddZ(e.EyeHeight / 2)
		d := mid.Dist(at)
		if d > SplashRadius || !ar.LineOfSight(at, mid) {
			continue
		}
		ar.damage(e, owner, int(float64(wp.Damage)*(1-d/SplashRadius)))
	}
}
