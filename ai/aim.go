package ai

import (
	"math"

	"github.com/lab1702/arena-bots/game"
)

// views returns the horizontal FOV, vertical FOV and sight distance for a
// skill. Skills past PerfectSkill see everything the tuning allows.
func (w *World) views(skill int) [3]float64 {
	v, nav := w.tun.View, w.tun.Navigation
	if skill > game.PerfectSkill {
		return [3]float64{v.FOVMax, v.FOVMax * 3 / 4, nav.SightMax}
	}
	t := float64(max(skill, game.MinSkill)-game.MinSkill) / float64(game.PerfectSkill-game.MinSkill)
	x := v.FOVMin + (v.FOVMax-v.FOVMin)*t
	return [3]float64{x, x * 3 / 4, nav.SightMin + (nav.SightMax-nav.SightMin)*t}
}

// aimPos is where the bot aims at e: a weapon dependent height above the
// feet, plus a jitter that is resampled on a skill scaled cadence.
func (w *World) aimPos(b *Brain, a, e *game.Agent) game.Vec3 {
	wp := a.Weapon
	if !wp.Valid() {
		wp = game.WeaponMelee
	}
	pos := e.Pos.AddZ(e.EyeHeight * game.Weapons[wp].AimHeight)
	if a.Skill > game.PerfectSkill {
		b.aimRnd = game.Vec3{}
		return pos
	}
	if w.now >= b.nextAim {
		scale := e.Radius * game.Weapons[wp].AimSkew / float64(max(a.Skill, game.MinSkill))
		b.aimRnd = game.V(
			(w.rng.Float64()*2-1)*scale,
			(w.rng.Float64()*2-1)*scale,
			(w.rng.Float64()*2-1)*scale,
		)
		dur := int64(skillCeiling-a.Skill) * w.tun.Aim.Cadence
		b.nextAim = w.now + dur + w.rng.Int63n(dur+1)
	}
	return pos.Add(b.aimRnd)
}

// AimOffset returns the current aim jitter of a bot.
func (b *Brain) AimOffset() game.Vec3 { return b.aimRnd }

// scaleYawPitch turns the agent a fraction frame of the way towards the
// target orientation. Pitch moves scale times as fast as yaw.
func scaleYawPitch(a *game.Agent, targYaw, targPitch, frame, scale float64) {
	yaw, pitch := a.Yaw, a.Pitch
	for yaw < targYaw-180 {
		yaw += 360
	}
	for yaw > targYaw+180 {
		yaw -= 360
	}
	frame = math.Min(frame, 1)
	yaw += (targYaw - yaw) * frame
	pitch += (targPitch - pitch) * math.Min(frame*scale, 1)
	a.Yaw = game.NormalizeYaw(yaw)
	a.Pitch = game.ClampPitch(pitch)
}

// yawDiff returns the signed difference to - from in (-180, 180].
func yawDiff(from, to float64) float64 {
	d := math.Mod(to-from, 360)
	if d > 180 {
		d -= 360
	} else if d <= -180 {
		d += 360
	}
	return d
}

// lockOn snaps melee aim onto a close enemy.
func (w *World) lockOn(a *game.Agent, ep game.Vec3) bool {
	return a.Weapon == game.WeaponMelee && a.HeadPos().Dist(ep) <= w.tun.Aim.LockOn
}
