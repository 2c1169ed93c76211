package game

import (
	"math"
	"testing"
)

func TestNormalizeYaw(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{360, 0},
		{-90, 270},
		{725, 5},
		{359.5, 359.5},
	}
	for _, tt := range tests {
		if got := NormalizeYaw(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("NormalizeYaw(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestYawPitchMatchesForward(t *testing.T) {
	for yaw := 0.0; yaw < 360; yaw += 15 {
		to := Forward(yaw).Scale(100)
		got, pitch := YawPitch(Vec3{}, to)
		diff := math.Abs(got - yaw)
		if diff > 1e-6 && math.Abs(diff-360) > 1e-6 {
			t.Errorf("yaw %v: YawPitch gives %v", yaw, got)
		}
		if math.Abs(pitch) > 1e-9 {
			t.Errorf("yaw %v: flat target gives pitch %v", yaw, pitch)
		}
	}
	if _, pitch := YawPitch(Vec3{}, V(0, 10, 10)); math.Abs(pitch-45) > 1e-9 {
		t.Errorf("pitch = %v, want 45", pitch)
	}
	if yaw, pitch := YawPitch(V(1, 1, 1), V(1, 1, 1)); yaw != 0 || pitch != 0 {
		t.Error("looking at yourself should give zero angles")
	}
}

func TestSameTeam(t *testing.T) {
	if SameTeam(TeamNone, TeamNone) {
		t.Error("free-for-all agents are never allies")
	}
	if !SameTeam(TeamRed, TeamRed) || SameTeam(TeamRed, TeamBlue) {
		t.Error("team comparison wrong")
	}
}

func TestRef(t *testing.T) {
	if None.Valid() || None.Is(0) {
		t.Error("None must be absent")
	}
	r := Some(0)
	if !r.Valid() || !r.Is(0) || r.Is(1) {
		t.Error("Some(0) must hold index 0")
	}
	if i, ok := r.Get(); !ok || i != 0 {
		t.Errorf("Get = %d, %v", i, ok)
	}
	if None.String() != "-" || Some(12).String() != "12" {
		t.Errorf("String: %q %q", None.String(), Some(12).String())
	}
}

func TestWeaponsInRange(t *testing.T) {
	tests := []struct {
		w    WeaponID
		dist float64
		want bool
	}{
		{WeaponMelee, 10, true},
		{WeaponMelee, 20, false},
		{WeaponRocket, 16, false},
		{WeaponRocket, 100, true},
		{WeaponRifle, 1000, true},
		{NumWeapons, 1, false},
	}
	for _, tt := range tests {
		if got := tt.w.InRange(tt.dist); got != tt.want {
			t.Errorf("%v.InRange(%v) = %v, want %v", tt.w, tt.dist, got, tt.want)
		}
	}
}

func TestHasAmmo(t *testing.T) {
	a := NewAgent(0)
	a.Ammo = DefaultLoadout()
	if !a.HasAmmo(WeaponMelee) || !a.HasAmmo(WeaponRifle) || a.HasAmmo(WeaponRocket) {
		t.Errorf("loadout ammo wrong: %v", a.Ammo)
	}
	if a.HasAmmo(-1) {
		t.Error("invalid weapons never fire")
	}
}
