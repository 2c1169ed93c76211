package ai

import "github.com/lab1702/arena-bots/game"

// AI Constants
// Distances and timings that scale with the map live in tuning.Tuning; these
// are structural limits of the decision core.
const (
	// Memory sizes
	NumPrevNodes = 6 // recently visited waypoints a bot refuses to backtrack onto
	stackHint    = 8 // initial state stack capacity

	// Dispatch bounds
	maxRestarts   = 4  // RestartFromTop re-evaluations allowed per think
	maxThinkSteps = 16 // handler dispatches allowed per think

	// Wait picks a wander target anywhere beyond the guard radius
	wanderAnywhere = 1e16

	// Skill scaling
	skillCeiling = 111 // (skillCeiling - skill) drives jitter and jump cadence
	quickSight   = 30  // extra millis an enemy counts as "just seen"
	seenPerSkill = 10  // millis of sight memory per skill point
	lostPerSkill = 50  // millis per skill point before an unseen enemy is dropped

	// Fire discipline
	insightSkew = 1.5 // orientation catch-up when the target is visible
	seenSkew    = 1.0 // target seen recently
	guessSkew   = 0.5 // target position is a guess
	idleTurn    = 0.25

	// Jumping
	jumpWaterSeed = 3
	jumpLandSeed  = 5
	jumpIdleMult  = 50
	jumpMoveMult  = 25
)

// weaponPrefs is the fallback order when the preferred weapon is empty or out of range.
var weaponPrefs = []game.WeaponID{
	game.WeaponRocket,
	game.WeaponShotgun,
	game.WeaponRifle,
	game.WeaponGrenade,
	game.WeaponMelee,
}

// aimDirs maps the bearing of the look target relative to the body, in 45°
// sectors counter-clockwise from straight ahead, to a move/strafe pair.
var aimDirs = [8]struct{ move, strafe int }{
	{1, 0},
	{1, -1},
	{0, -1},
	{-1, -1},
	{-1, 0},
	{-1, 1},
	{0, 1},
	{1, 1},
}
