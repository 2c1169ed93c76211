package server

import (
	"testing"

	"github.com/lab1702/arena-bots/game"
	"github.com/lab1702/arena-bots/waypoint"
)

func TestLineOfSight(t *testing.T) {
	ar := newTestArena(t, "yard")
	tests := []struct {
		name     string
		from, to game.Vec3
		want     bool
	}{
		{"open floor", game.V(64, 64, 10), game.V(960, 64, 10), true},
		{"through pillar", game.V(200, 256, 10), game.V(320, 256, 10), false},
		{"over crate", game.V(460, 512, 40), game.V(560, 512, 40), true},
		{"into crate", game.V(460, 512, 10), game.V(560, 512, 10), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ar.LineOfSight(tt.from, tt.to); got != tt.want {
				t.Errorf("LineOfSight = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTerrain(t *testing.T) {
	ar := newTestArena(t, "yard")

	if ar.Inside(game.V(256, 256, 10)) {
		t.Error("inside a pillar counts as open space")
	}
	if ar.Inside(game.V(-1, 100, 0)) {
		t.Error("outside the bounds counts as open space")
	}
	if !ar.Inside(game.V(100, 100, 4)) {
		t.Error("open floor counts as solid")
	}

	materials := []struct {
		pos  game.Vec3
		want waypoint.Material
	}{
		{game.V(128, 512, -4), waypoint.MatWater},
		{game.V(896, 512, -4), waypoint.MatLava},
		{game.V(512, 200, 4), waypoint.MatEmpty},
	}
	for _, m := range materials {
		if got := ar.Material(m.pos); got != m.want {
			t.Errorf("Material(%v) = %d, want %d", m.pos, got, m.want)
		}
	}

	if d := ar.DropDistance(game.V(512, 512, 30)); d != 6 {
		t.Errorf("drop onto crate = %v, want 6", d)
	}
	if d := ar.DropDistance(game.V(128, 512, 4)); d != 20 {
		t.Errorf("drop into pool = %v, want 20", d)
	}
}

func TestMoveBlockedByPillar(t *testing.T) {
	ar := newTestArena(t, "yard")
	a := place(ar, game.TeamNone, game.V(200, 256, 0), faceEast)
	a.Intent.Move = 1

	for i := 0; i < 5; i++ {
		tick(ar, game.TickMillis)
	}
	if !a.Blocked {
		t.Error("agent walking into a pillar is not blocked")
	}
	if a.Pos.X > 224-a.Radius {
		t.Errorf("agent went into the pillar: x = %.2f", a.Pos.X)
	}
}

func TestMoveForwardAndStrafe(t *testing.T) {
	ar := newTestArena(t, "yard")
	a := place(ar, game.TeamNone, game.V(512, 200, 0), faceNorth)
	a.Intent.Move = 1
	tick(ar, 100)
	if a.Pos.Y <= 200 || a.Blocked {
		t.Fatalf("forward: pos %v blocked %v", a.Pos, a.Blocked)
	}

	a.Intent = game.MoveIntent{Strafe: 1}
	x := a.Pos.X
	tick(ar, 100)
	if a.Pos.X <= x {
		t.Errorf("strafing right while facing +Y should move along +X: %.2f -> %.2f", x, a.Pos.X)
	}
}

func TestJumpAndLand(t *testing.T) {
	ar := newTestArena(t, "yard")
	a := place(ar, game.TeamNone, game.V(512, 300, 0), faceNorth)
	a.Intent.Jump = true
	tick(ar, game.TickMillis)
	a.Intent.Jump = false
	if !a.InAir || a.Pos.Z <= 0 {
		t.Fatalf("after jump: z %.2f inAir %v", a.Pos.Z, a.InAir)
	}
	for i := 0; i < 20; i++ {
		tick(ar, game.TickMillis)
	}
	if a.InAir || a.Pos.Z != 0 {
		t.Errorf("did not land: z %.2f inAir %v", a.Pos.Z, a.InAir)
	}
}

func TestAgentsCollide(t *testing.T) {
	ar := newTestArena(t, "yard")
	a := place(ar, game.TeamNone, game.V(500, 300, 0), faceEast)
	place(ar, game.TeamNone, game.V(510, 300, 0), faceWest)
	a.Intent.Move = 1
	tick(ar, game.TickMillis)
	if !a.Blocked {
		t.Error("walking into another agent is not blocked")
	}
}

func TestRifleKills(t *testing.T) {
	ar := newTestArena(t, "yard")
	shooter := place(ar, game.TeamNone, game.V(100, 100, 0), faceNorth)
	target := place(ar, game.TeamNone, game.V(100, 200, 0), faceSouth)
	shooter.Intent.Attacking = true

	ar.grid.IndexAgents(ar.agents)
	ar.fire(shooter)
	if target.Alive() {
		t.Fatalf("target survived a rifle hit with %d health", target.Health)
	}
	if shooter.Frags != 1 || target.Deaths != 1 {
		t.Errorf("frags %d deaths %d, want 1 and 1", shooter.Frags, target.Deaths)
	}
	if shooter.Ammo[game.WeaponRifle] != 4 {
		t.Errorf("rifle ammo = %d, want 4", shooter.Ammo[game.WeaponRifle])
	}

	// still cooling down
	ar.fire(shooter)
	if shooter.Ammo[game.WeaponRifle] != 4 {
		t.Error("fired again before the attack delay passed")
	}
}

func TestNoFriendlyFire(t *testing.T) {
	ar := newTestArena(t, "yard")
	shooter := place(ar, game.TeamRed, game.V(100, 100, 0), faceNorth)
	mate := place(ar, game.TeamRed, game.V(100, 200, 0), faceSouth)
	shooter.Intent.Attacking = true
	ar.fire(shooter)
	if mate.Health != game.MaxHealth {
		t.Errorf("teammate took damage: health %d", mate.Health)
	}
}

func TestGrenadeSplash(t *testing.T) {
	ar := newTestArena(t, "yard")
	shooter := place(ar, game.TeamNone, game.V(100, 100, 0), faceNorth)
	target := place(ar, game.TeamNone, game.V(100, 160, 0), faceSouth)
	shooter.Weapon = game.WeaponGrenade
	shooter.Ammo[game.WeaponGrenade] = 5
	shooter.Intent.Attacking = true

	ar.grid.IndexAgents(ar.agents)
	ar.fire(shooter)
	shooter.Intent.Attacking = false
	if len(ar.projectiles) != 1 {
		t.Fatalf("projectiles = %d, want 1", len(ar.projectiles))
	}
	if got := ar.Dangers(); len(got) != 1 || !got[0].Owner.Is(shooter.ID) {
		t.Errorf("Dangers() = %+v", got)
	}

	for i := 0; i < 10 && len(ar.projectiles) > 0; i++ {
		tick(ar, game.TickMillis)
	}
	if len(ar.projectiles) != 0 {
		t.Fatal("grenade never exploded")
	}
	if target.Health >= game.MaxHealth || !target.Alive() {
		t.Errorf("target health %d alive %v, want wounded", target.Health, target.Alive())
	}
	if shooter.Health != game.MaxHealth {
		t.Errorf("shooter caught its own splash: health %d", shooter.Health)
	}
}

func TestItemPickupAndRespawn(t *testing.T) {
	ar := newTestArena(t, "yard")
	a := place(ar, game.TeamNone, game.V(128, 128, 0), faceNorth)
	before := a.Ammo[game.WeaponShotgun]

	tick(ar, game.TickMillis)
	if a.Ammo[game.WeaponShotgun] != min(before+10, game.Weapons[game.WeaponShotgun].MaxAmmo) {
		t.Errorf("shotgun ammo = %d", a.Ammo[game.WeaponShotgun])
	}
	if ar.Items()[1].Spawned {
		t.Fatal("taken item still spawned")
	}

	a.Pos = game.V(700, 128, 0)
	for ar.now < ItemRespawn+game.TickMillis {
		tick(ar, 1000)
	}
	if !ar.Items()[1].Spawned {
		t.Error("item did not come back")
	}
}

func TestDeathPitAndRespawn(t *testing.T) {
	ar := newTestArena(t, "pit")
	a := place(ar, game.TeamNone, game.V(256, 128, 0), faceNorth)
	spawned := a.Spawned

	for i := 0; i < 20 && a.Alive(); i++ {
		tick(ar, game.TickMillis)
	}
	if a.Alive() {
		t.Fatalf("agent over the pit survived at z %.2f", a.Pos.Z)
	}
	if a.Frags != -SuicidePenalty {
		t.Errorf("frags = %d, want %d", a.Frags, -SuicidePenalty)
	}

	if ids := ar.respawn(1000); len(ids) != 0 {
		t.Errorf("respawned too early: %v", ids)
	}
	ar.now += 1000
	ids := ar.respawn(1000)
	if len(ids) != 1 || ids[0] != a.ID {
		t.Fatalf("respawn = %v, want [%d]", ids, a.ID)
	}
	if !a.Alive() || a.Spawned != spawned+1 || a.Health != game.MaxHealth {
		t.Errorf("after respawn: alive %v spawned %d health %d", a.Alive(), a.Spawned, a.Health)
	}
}

func TestSuicide(t *testing.T) {
	ar := newTestArena(t, "yard")
	a := place(ar, game.TeamNone, game.V(100, 100, 0), faceNorth)
	ar.Suicide(a.ID)
	if a.Alive() || a.Deaths != 1 {
		t.Errorf("after Suicide: alive %v deaths %d", a.Alive(), a.Deaths)
	}
	ar.Suicide(a.ID)
	if a.Deaths != 1 {
		t.Error("dead agents can die again")
	}
}

func TestBuildGraph(t *testing.T) {
	ar := newTestArena(t, "yard")
	g := waypoint.New(nil)
	ar.BuildGraph(g)

	if g.Len() == 0 {
		t.Fatal("no waypoints generated")
	}
	for id := game.NodeID(1); int(id) <= g.Len(); id++ {
		p := g.Pos(id)
		if !ar.Inside(p.AddZ(1)) {
			t.Errorf("waypoint %d at %v is inside geometry", id, p)
		}
		if g.Weight(id) >= 0 && !g.Linked(id) {
			t.Errorf("waypoint %d at %v has no links", id, p)
		}
	}

	from := g.Cache().Closest(game.V(64, 64, 0), 64, true)
	to := g.Cache().Closest(game.V(960, 960, 0), 64, true)
	path, ok := g.Search(from, to, nil, nil)
	if !ok || len(path) < 2 {
		t.Fatalf("no route across the yard from %d to %d", from, to)
	}

	crate := g.Cache().Closest(game.V(496, 496, 24), 8, true)
	if !crate.Valid() || g.Pos(crate).Z != 24 {
		t.Errorf("no linked waypoint on the crate: %d", crate)
	}
}

func TestBuildGraphPitHazards(t *testing.T) {
	ar := newTestArena(t, "pit")
	g := waypoint.New(nil)
	ar.BuildGraph(g)

	hazards := g.Hazards()
	if len(hazards) == 0 {
		t.Fatal("death pit produced no hazard waypoints")
	}
	for _, h := range hazards {
		if g.Linked(h) {
			t.Errorf("hazard %d is linked", h)
		}
	}
	for id := game.NodeID(1); int(id) <= g.Len(); id++ {
		for _, l := range g.Links(id) {
			if !l.Valid() {
				break
			}
			if g.Weight(l) < 0 {
				t.Errorf("waypoint %d links into hazard %d", id, l)
			}
		}
	}

	// the corridor is still connected around the pit
	from := g.Cache().Closest(game.V(32, 128, 0), 64, true)
	to := g.Cache().Closest(game.V(480, 128, 0), 64, true)
	if _, ok := g.Search(from, to, nil, nil); !ok {
		t.Error("no route around the pit")
	}
}
