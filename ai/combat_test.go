package ai

import (
	"math"
	"testing"

	"github.com/lab1702/arena-bots/game"
)

func TestViewsBySkill(t *testing.T) {
	w := newTestWorld(t, lineGraph(1), newRegistry())
	v, nav := w.tun.View, w.tun.Navigation

	tests := []struct {
		skill int
		want  [3]float64
	}{
		{game.MinSkill, [3]float64{v.FOVMin, v.FOVMin * 3 / 4, nav.SightMin}},
		{game.PerfectSkill, [3]float64{v.FOVMax, v.FOVMax * 3 / 4, nav.SightMax}},
		{game.MaxSkill, [3]float64{v.FOVMax, v.FOVMax * 3 / 4, nav.SightMax}},
		{200, [3]float64{v.FOVMax, v.FOVMax * 3 / 4, nav.SightMax}},
	}
	for _, tt := range tests {
		got := w.views(tt.skill)
		for i := range got {
			if math.Abs(got[i]-tt.want[i]) > 1e-9 {
				t.Errorf("views(%d)[%d] = %v, want %v", tt.skill, i, got[i], tt.want[i])
			}
		}
	}

	mid := w.views(50)
	if mid[0] <= v.FOVMin || mid[0] >= v.FOVMax {
		t.Errorf("views(50) fov %v should lie strictly between the bounds", mid[0])
	}
}

func TestAimOffsetPerfectSkill(t *testing.T) {
	reg := newRegistry()
	bot := reg.spawn(game.TeamRed, true, game.V(0, 0, 0))
	enemy := reg.spawn(game.TeamBlue, false, game.V(0, 200, 0))
	w := newTestWorld(t, lineGraph(1), reg)
	bot.Skill = game.MaxSkill
	b := attach(t, w, bot)

	want := enemy.Pos.AddZ(enemy.EyeHeight * game.Weapons[bot.Weapon].AimHeight)
	for now := int64(0); now < 20000; now += 37 {
		w.now = now
		if got := w.aimPos(b, bot, enemy); got != want {
			t.Fatalf("t=%d: aim %v, want %v", now, got, want)
		}
		if !b.AimOffset().IsZero() {
			t.Fatalf("t=%d: offset %v should be zero", now, b.AimOffset())
		}
	}
}

func TestAimOffsetBounded(t *testing.T) {
	reg := newRegistry()
	bot := reg.spawn(game.TeamRed, true, game.V(0, 0, 0))
	enemy := reg.spawn(game.TeamBlue, false, game.V(0, 200, 0))
	w := newTestWorld(t, lineGraph(1), reg)
	b := attach(t, w, bot)

	for _, skill := range []int{1, 25, 50, 99} {
		bot.Skill = skill
		limit := enemy.Radius * game.Weapons[bot.Weapon].AimSkew / float64(skill)
		changes := 0
		last := game.Vec3{}
		b.nextAim = 0
		for now := int64(0); now < 60000; now += 50 {
			w.now = now
			w.aimPos(b, bot, enemy)
			off := b.AimOffset()
			for i := 0; i < 3; i++ {
				if math.Abs(off.Axis(i)) > limit {
					t.Fatalf("skill %d: offset %v exceeds %v", skill, off, limit)
				}
			}
			if off != last {
				changes++
				last = off
			}
		}
		if changes < 2 {
			t.Errorf("skill %d: jitter resampled only %d times", skill, changes)
		}
	}
}

func TestScaleYawPitchWraps(t *testing.T) {
	tests := []struct {
		name             string
		yaw, targ, frame float64
		want             float64
	}{
		{"halfway across north", 350, 10, 0.5, 0},
		{"halfway back across", 10, 350, 0.5, 0},
		{"full step", 90, 180, 1, 180},
		{"clamped step", 90, 180, 5, 180},
		{"no step", 90, 180, 0, 90},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := game.NewAgent(0)
			a.Yaw = tt.yaw
			scaleYawPitch(a, tt.targ, 0, tt.frame, 1)
			if math.Abs(a.Yaw-tt.want) > 1e-9 {
				t.Errorf("yaw = %v, want %v", a.Yaw, tt.want)
			}
		})
	}
}

func TestAimDirsStrafeSide(t *testing.T) {
	// target 90 degrees counter-clockwise is to the left
	d := aimDirs[int(math.Floor((game.NormalizeYaw(90-0)+22.5)/45))&7]
	if d.move != 0 || d.strafe != -1 {
		t.Errorf("left target gives %+v, want strafe -1", d)
	}
	d = aimDirs[int(math.Floor((game.NormalizeYaw(-90)+22.5)/45))&7]
	if d.move != 0 || d.strafe != 1 {
		t.Errorf("right target gives %+v, want strafe +1", d)
	}
	d = aimDirs[int(math.Floor((game.NormalizeYaw(180)+22.5)/45))&7]
	if d.move != -1 || d.strafe != 0 {
		t.Errorf("target behind gives %+v, want backwards", d)
	}
}

func TestTargetableTeams(t *testing.T) {
	reg := newRegistry()
	bot := reg.spawn(game.TeamRed, true, game.V(0, 0, 0))
	mate := reg.spawn(game.TeamRed, false, game.V(10, 0, 0))
	foe := reg.spawn(game.TeamBlue, false, game.V(20, 0, 0))
	loner := reg.spawn(game.TeamNone, false, game.V(30, 0, 0))
	dead := reg.spawn(game.TeamBlue, false, game.V(40, 0, 0))
	dead.Status = game.StatusDead

	tests := []struct {
		e    *game.Agent
		want bool
	}{
		{bot, false},
		{mate, false},
		{foe, true},
		{loner, true},
		{dead, false},
		{nil, false},
	}
	for _, tt := range tests {
		if got := targetable(bot, tt.e); got != tt.want {
			t.Errorf("targetable(%v) = %v, want %v", tt.e, got, tt.want)
		}
	}
}

func TestPerfectBotFires(t *testing.T) {
	g := lineGraph(5)
	reg := newRegistry()
	bot := reg.spawn(game.TeamRed, true, nodePos(1))
	bot.Skill = game.MaxSkill
	enemy := reg.spawn(game.TeamBlue, false, nodePos(4))
	w := newTestWorld(t, g, reg)
	w.svc.Sight = openSight(true)
	b := attach(t, w, bot)
	b.push(StateDefend, TravelNode, game.Some(1), 0)

	fired := false
	for now := int64(50); now <= 1000 && !fired; now += 50 {
		w.Update(now)
		fired = bot.Intent.Attacking
	}
	if !fired {
		t.Fatal("a perfect bot with a clear shot should fire")
	}
	if !b.Enemy().Is(enemy.ID) {
		t.Errorf("enemy = %v, want %d", b.Enemy(), enemy.ID)
	}
	wantYaw, _ := game.YawPitch(bot.HeadPos(), w.aimPos(b, bot, enemy))
	if math.Abs(yawDiff(bot.Yaw, wantYaw)) > 1e-6 {
		t.Errorf("yaw %v, want %v", bot.Yaw, wantYaw)
	}
}

func TestFireWindow(t *testing.T) {
	// skill 50: the rifle ramp is 375ms, the rocket ramp 200ms
	tests := []struct {
		name    string
		weapon  game.WeaponID
		sight   float64
		elapsed int64
		off     float64 // yaw error in degrees, against a 100 degree view
		want    bool
	}{
		{"in sight late wide", game.WeaponRifle, insightSkew, 10000, 120, true},
		{"seen late wide", game.WeaponRifle, seenSkew, 10000, 120, false},
		{"seen late", game.WeaponRifle, seenSkew, 10000, 90, true},
		{"guessed late", game.WeaponRifle, guessSkew, 10000, 60, false},
		{"guessed late narrow", game.WeaponRifle, guessSkew, 10000, 40, true},
		{"in sight on engage", game.WeaponRifle, insightSkew, 0, 10, false},
		{"in sight on engage dead on", game.WeaponRifle, insightSkew, 0, 0, true},
		{"in sight ramping", game.WeaponRifle, insightSkew, 150, 50, true},
		{"guessed ramping", game.WeaponRifle, guessSkew, 150, 50, false},
		{"rocket in sight late", game.WeaponRocket, insightSkew, 10000, 30, true},
		{"rocket in sight late wide", game.WeaponRocket, insightSkew, 10000, 40, false},
		{"rocket guessed late", game.WeaponRocket, guessSkew, 10000, 10, true},
		{"rocket guessed late wide", game.WeaponRocket, guessSkew, 10000, 15, false},
		{"melee ignores aim", game.WeaponMelee, guessSkew, 0, 170, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := newRegistry()
			bot := reg.spawn(game.TeamRed, true, game.V(0, 0, 0))
			w := newTestWorld(t, lineGraph(1), reg)
			b := attach(t, w, bot)
			bot.Weapon = tt.weapon
			bot.Yaw, bot.Pitch = 0, 0
			b.views = [3]float64{100, 75, 1000}
			b.enemyMillis = 5000
			w.now = 5000 + tt.elapsed

			dist := 200.0
			if tt.weapon == game.WeaponMelee {
				dist = 10
			}
			if got := w.hasTarget(b, bot, tt.off, 0, dist, tt.sight); got != tt.want {
				t.Errorf("hasTarget = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBlindBotHoldsFire(t *testing.T) {
	g := lineGraph(5)
	reg := newRegistry()
	bot := reg.spawn(game.TeamRed, true, nodePos(1))
	reg.spawn(game.TeamBlue, false, nodePos(5))
	w := newTestWorld(t, g, reg)
	w.svc.Sight = openSight(false)
	b := attach(t, w, bot)
	b.push(StateDefend, TravelNode, game.Some(1), 0)

	for now := int64(50); now <= 2000; now += 50 {
		w.Update(now)
		if bot.Intent.Attacking {
			t.Fatalf("t=%d: fired without line of sight", now)
		}
	}
}

func TestRequestSwitchesWeapon(t *testing.T) {
	g := lineGraph(3)
	reg := newRegistry()
	bot := reg.spawn(game.TeamRed, true, nodePos(1))
	bot.LastNode = 1
	w := newTestWorld(t, g, reg)
	b := attach(t, w, bot)
	f := b.push(StateDefend, TravelNode, game.Some(1), 0)

	tests := []struct {
		name string
		pref game.WeaponID
		cur  game.WeaponID
		ammo [game.NumWeapons]int
		want game.WeaponID
	}{
		{"preferred has ammo", game.WeaponRocket, game.WeaponRifle, [game.NumWeapons]int{0, 5, 10, 3, 0}, game.WeaponRocket},
		{"preferred empty", game.WeaponRocket, game.WeaponMelee, [game.NumWeapons]int{0, 5, 10, 0, 0}, game.WeaponShotgun},
		{"current empty", game.WeaponGrenade, game.WeaponGrenade, [game.NumWeapons]int{0, 5, 0, 0, 0}, game.WeaponRifle},
		{"nothing left", game.WeaponRifle, game.WeaponRifle, [game.NumWeapons]int{}, game.WeaponMelee},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b.weapPref = tt.pref
			bot.Weapon = tt.cur
			bot.Ammo = tt.ammo
			w.request(b, bot, f)
			if bot.Weapon != tt.want {
				t.Errorf("weapon = %v, want %v", bot.Weapon, tt.want)
			}
		})
	}
}
