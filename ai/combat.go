package ai

import (
	"math"

	"github.com/lab1702/arena-bots/game"
)

// targetable reports whether a may attack e.
func targetable(a, e *game.Agent) bool {
	return e != nil && e != a && e.ID != a.ID && e.Alive() && !game.SameTeam(a.Team, e.Team)
}

// canSee reports whether ep is inside the bot's view cone and line of sight.
func (w *World) canSee(b *Brain, a *game.Agent, dp, ep game.Vec3) bool {
	if dp.Dist(ep) > b.views[2] {
		return false
	}
	yaw, pitch := game.YawPitch(dp, ep)
	if math.Abs(yawDiff(a.Yaw, yaw)) > b.views[0] || math.Abs(pitch-a.Pitch) > b.views[1] {
		return false
	}
	return w.svc.Sight == nil || w.svc.Sight.LineOfSight(dp, ep)
}

// target picks the nearest targetable agent, visible unless force is set or
// it is within the awareness radius, and engages it. minDist, when positive,
// caps the distance. Candidates that refuse violence are skipped.
func (w *World) target(b *Brain, a *game.Agent, pursue int, force bool, minDist float64) bool {
	dp := a.HeadPos()
	aware := w.tun.Combat.Awareness * w.tun.Combat.Awareness
	w.tried = w.tried[:0]
	for {
		var t *game.Agent
		best := math.Inf(1)
		for _, e := range w.svc.Registry.Agents() {
			if !targetable(a, e) || tried(w.tried, e.ID) {
				continue
			}
			ep := w.aimPos(b, a, e)
			dist := ep.SquareDist(dp)
			if dist >= best || (minDist > 0 && dist > minDist*minDist) {
				continue
			}
			if force || dist <= aware || w.canSee(b, a, dp, ep) {
				t, best = e, dist
			}
		}
		if t == nil {
			return false
		}
		if w.violence(b, a, t, pursue) {
			return true
		}
		w.tried = append(w.tried, t.ID)
	}
}

func tried(ids []int, id int) bool {
	for _, t := range ids {
		if t == id {
			return true
		}
	}
	return false
}

// violence makes e the bot's enemy. With pursue set it also tries to push a
// Pursue frame towards e; at pursue >= MaxPursue an unreachable e is refused.
func (w *World) violence(b *Brain, a, e *game.Agent, pursue int) bool {
	if !targetable(a, e) {
		return false
	}
	if pursue > 0 {
		f := b.top()
		if (f.Travel != TravelAffinity || pursue%2 == 0) && w.makeRoute(b, a, f, e.LastNode, true, 0) {
			w.switchState(b, StatePursue, TravelPlayer, game.Some(e.ID))
		} else if pursue >= w.tun.Combat.MaxPursue {
			return false
		}
	}
	if !b.enemy.Is(e.ID) {
		b.enemy = game.Some(e.ID)
		b.enemySeen = w.now
		b.enemyMillis = w.now
		w.trace(b, "enemy", "target", e.ID, "pursue", pursue)
	}
	return true
}

// enemy engages the nearest targetable agent that is visible or within guard.
func (w *World) enemy(b *Brain, a *game.Agent, pos game.Vec3, guard float64, pursue int) bool {
	dp := a.HeadPos()
	var t *game.Agent
	best := math.Inf(1)
	for _, e := range w.svc.Registry.Agents() {
		if !targetable(a, e) {
			continue
		}
		ep := w.aimPos(b, a, e)
		dist := ep.SquareDist(dp)
		if dist < best && (dist <= guard*guard || w.canSee(b, a, dp, ep)) {
			t, best = e, dist
		}
	}
	return t != nil && w.violence(b, a, t, pursue)
}

func (w *World) hasRange(a, e *game.Agent, weapon game.WeaponID) bool {
	if e == nil {
		return true
	}
	return weapon.InRange(e.Pos.Dist(a.HeadPos()))
}

// request picks the weapon for the current enemy and runs the aim and fire
// pass. It reports whether the bot is engaging.
func (w *World) request(b *Brain, a *game.Agent, f *Frame) bool {
	e, ok := w.agent(b.enemy)
	if !ok || !targetable(a, e) {
		e = nil
	}
	cur, pref := a.Weapon, b.weapPref
	if !a.HasAmmo(cur) || !w.hasRange(a, e, cur) ||
		(cur != pref && (!cur.Valid() || game.Weapons[cur].Melee || a.HasAmmo(pref))) {
		next := game.WeaponID(-1)
		if a.HasAmmo(pref) && w.hasRange(a, e, pref) {
			next = pref
		} else {
			for _, wp := range weaponPrefs {
				if a.HasAmmo(wp) && w.hasRange(a, e, wp) {
					next = wp
					break
				}
			}
		}
		if next.Valid() && next != cur {
			a.Weapon = next
			w.trace(b, "weapon", "from", cur, "to", next)
		}
	}
	return w.process(b, a, f) >= 2
}

func (w *World) canShoot(a, e *game.Agent) bool {
	return a.Weapon.InRange(e.Pos.Dist(a.HeadPos())) && targetable(a, e) &&
		a.HasAmmo(a.Weapon) && w.now-a.LastAction >= a.GunWait
}

// hasTarget reports whether the aim error is inside the fire window. The
// window is the field of view scaled by how well the target is sighted and by
// a reaction ramp that opens up over time since the enemy was engaged.
func (w *World) hasTarget(b *Brain, a *game.Agent, yaw, pitch, dist, sight float64) bool {
	if !a.Weapon.InRange(dist) && (a.Skill > game.PerfectSkill || w.rng.Intn(max(a.Skill, 1)) != 0) {
		return false
	}
	wp := game.Weapons[a.Weapon]
	if wp.Melee {
		return true
	}
	ramp := float64(a.Skill) * float64(wp.AttackDelay) / w.tun.Aim.Reaction
	limit := 1.0
	if wp.ProjSpeed > 0 {
		limit = w.tun.Aim.ProjRamp
	}
	react := limit
	if ramp > 0 {
		react = math.Max(0, math.Min(float64(w.now-b.enemyMillis)/ramp, limit))
	}
	window := sight * react
	return math.Abs(yawDiff(a.Yaw, yaw)) <= b.views[0]*window && math.Abs(pitch-a.Pitch) <= b.views[1]*window
}

// process is the per-tick aim, fire and move pass. It returns 0 with no
// enemy, 1 tracking an enemy, 2 aiming at it and 3 firing.
func (w *World) process(b *Brain, a *game.Agent, f *Frame) int {
	a.Intent.Attacking = false
	a.Intent.Jump = false
	result := 0
	stupify := 0
	if a.Skill <= w.tun.Aim.Stupidity+w.rng.Intn(15) {
		stupify = w.rng.Intn(a.Skill * 1000)
	}
	skmod := game.MaxSkill - a.Skill
	frame := 1.0
	if a.Skill <= game.PerfectSkill {
		frame = float64(w.now-b.lastRun) / (float64(max(skmod, 1)) * w.tun.Aim.Turn)
	}
	dp := a.HeadPos()
	idle := f.Idle == 1 || (stupify != 0 && stupify <= skmod)
	b.dontMove = false
	switch {
	case idle:
		b.lastHunt = w.now
		b.dontMove = true
		b.spot = game.Vec3{}
	case w.hunt(b, a):
		b.targYaw, b.targPitch = game.YawPitch(dp, b.spot.AddZ(a.EyeHeight))
		b.lastHunt = w.now
	default:
		idle = true
		b.dontMove = true
	}
	if !b.dontMove {
		w.jumpTo(b, a, f, b.spot)
	}

	e, enemyOK := w.agent(b.enemy)
	enemyOK = enemyOK && targetable(a, e)
	if !enemyOK && w.target(b, a, 0, false, w.tun.Navigation.SightMin) {
		e, enemyOK = w.agent(b.enemy)
	}
	if enemyOK {
		ep := w.aimPos(b, a, e)
		yaw, pitch := game.YawPitch(dp, ep)
		insight := w.canSee(b, a, dp, ep)
		hasSeen := b.enemySeen != 0 && w.now-b.enemySeen <= int64(a.Skill*seenPerSkill)+w.tun.Combat.SeenGrace
		quick := b.enemySeen != 0 && w.now-b.enemySeen <= int64(skmod+quickSight)
		if insight {
			b.enemySeen = w.now
		}
		if idle || insight || hasSeen || quick {
			skew := guessSkew
			switch {
			case insight || a.Skill > game.PerfectSkill:
				skew = insightSkew
			case hasSeen:
				skew = seenSkew
			}
			if w.lockOn(a, ep) {
				b.targYaw = yaw
				frame *= 2
			}
			scaleYawPitch(a, yaw, pitch, frame, skew)
			if insight || quick {
				if w.canShoot(a, e) && w.hasTarget(b, a, yaw, pitch, dp.Dist(ep), skew) {
					a.Intent.Attacking = true
					b.lastAction = w.now
					result = 3
				} else {
					result = 2
				}
			} else {
				result = 1
			}
		} else {
			if w.now-b.enemySeen > int64(a.Skill*lostPerSkill)+w.tun.Combat.ForgetTime {
				w.trace(b, "enemy lost", "target", b.enemy)
				b.enemy = game.None
				b.enemySeen, b.enemyMillis = 0, 0
			}
		}
	} else {
		b.enemy = game.None
		b.enemySeen, b.enemyMillis = 0, 0
	}
	if result == 0 {
		scaleYawPitch(a, b.targYaw, b.targPitch, frame*idleTurn, 1)
	}

	if b.dontMove {
		a.Intent.Move, a.Intent.Strafe = 0, 0
	} else {
		d := aimDirs[int(math.Floor((game.NormalizeYaw(b.targYaw-a.Yaw)+22.5)/45))&7]
		a.Intent.Move, a.Intent.Strafe = d.move, d.strafe
	}
	return result
}

// logic is the per-tick pass every bot gets: aim, fire, move and the
// recovery ladder. Wait frames stand still.
func (w *World) logic(b *Brain, a *game.Agent, dt int64) {
	f := b.top()
	allowMove := f.Kind != StateWait
	if !allowMove {
		a.StopMoving()
	} else if !w.request(b, a, f) {
		w.target(b, a, 0, f.Idle != 0, 0)
	}
	f = b.top()
	if w.svc.Mover != nil {
		w.svc.Mover.Move(a, dt)
	}
	if allowMove && f.Idle == 0 {
		w.timeouts(b, a, dt)
	}
}
