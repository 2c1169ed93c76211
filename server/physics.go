package server

import (
	"github.com/lab1702/arena-bots/game"
	"github.com/lab1702/arena-bots/waypoint"
)

// Movement constants, units per second
const (
	RunSpeed   = 160.0
	SwimSpeed  = 80.0
	JumpSpeed  = 180.0
	Gravity    = 600.0
	StepHeight = waypoint.JumpMin // walk up ledges this high without jumping
	groundEps  = 0.5
)

// Move integrates a.Intent with a's yaw into a new position, sliding along
// walls and other agents, and reports Blocked, InAir, and InWater.
func (ar *Arena) Move(a *game.Agent, dt int64) {
	if !a.Alive() || dt <= 0 {
		return
	}
	sec := float64(dt) / 1000

	speed := RunSpeed
	if a.InWater {
		speed = SwimSpeed
	}
	wish := game.Forward(a.Yaw).Scale(float64(a.Intent.Move)).
		Add(game.Right(a.Yaw).Scale(float64(a.Intent.Strafe)))
	wish.Z = 0

	next := a.Pos
	a.Blocked = false
	if !wish.IsZero() {
		wish = wish.Normalize().Scale(speed * sec)
		switch {
		case ar.free(a, next.Add(wish)):
			next = next.Add(wish)
		case ar.free(a, game.V(next.X+wish.X, next.Y, next.Z)):
			next.X += wish.X
			a.Blocked = true
		case ar.free(a, game.V(next.X, next.Y+wish.Y, next.Z)):
			next.Y += wish.Y
			a.Blocked = true
		default:
			a.Blocked = true
		}
	}

	vz := ar.vz[a.ID]
	grounded := a.Pos.Z <= ar.floorAt(a.Pos.X, a.Pos.Y, a.Pos.Z+StepHeight)+groundEps
	if a.Intent.Jump && (grounded || a.InWater) {
		vz = JumpSpeed
	}
	if a.InWater {
		vz -= Gravity / 2 * sec
	} else {
		vz -= Gravity * sec
	}
	next.Z += vz * sec

	floor := ar.floorAt(next.X, next.Y, max(a.Pos.Z, next.Z)+StepHeight)
	if next.Z <= floor {
		next.Z = floor
		vz = 0
	}
	ar.vz[a.ID] = vz

	a.Pos = next
	a.InAir = next.Z > floor+groundEps
	a.InWater = ar.Material(next.AddZ(1)).Liquid()
}

// free reports whether a fits at p.
func (ar *Arena) free(a *game.Agent, p game.Vec3) bool {
	r := a.Radius
	if p.X < r || p.Y < r || p.X > ar.Map.Width-r || p.Y > ar.Map.Depth-r {
		return false
	}
	height := a.EyeHeight + a.AboveEye
	for _, w := range ar.Map.Walls {
		if w.Grow(r).ContainsXY(p.X, p.Y) && w.Max.Z > p.Z+StepHeight && w.Min.Z < p.Z+height {
			return false
		}
	}
	// climbing out of a pool needs a jump
	if ar.floorAt(p.X, p.Y, p.Z+StepHeight) > p.Z+StepHeight {
		return false
	}
	ar.near = ar.grid.Nearby(p.X, p.Y, ar.near[:0])
	for _, id := range ar.near {
		o, ok := ar.byID[id]
		if !ok || o == a || !o.Alive() {
			continue
		}
		if d := o.Pos.Sub(p).Z; d >= height || -d >= o.EyeHeight+o.AboveEye {
			continue
		}
		sum := a.Radius + o.Radius
		// moving apart is always allowed
		if d := p.Dist2D(o.Pos); d < sum && d < a.Pos.Dist2D(o.Pos) {
			return false
		}
	}
	return true
}
