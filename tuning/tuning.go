// Package tuning loads the bot behaviour constants from YAML.
package tuning

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed tuning.schema.json
var schemaSource string

type Tuning struct {
	Navigation Navigation `yaml:"navigation" json:"navigation"`
	View       View       `yaml:"view" json:"view"`
	Aim        Aim        `yaml:"aim" json:"aim"`
	Combat     Combat     `yaml:"combat" json:"combat"`
	Recovery   Recovery   `yaml:"recovery" json:"recovery"`
	Arena      Arena      `yaml:"arena" json:"arena"`
}

type Navigation struct {
	CloseDist     float64 `yaml:"close_dist" json:"close_dist"` // arrived at a point of interest
	SightMin      float64 `yaml:"sight_min" json:"sight_min"`   // guard radius, route search radius
	SightMax      float64 `yaml:"sight_max" json:"sight_max"`   // wander radius
	FarDist       float64 `yaml:"far_dist" json:"far_dist"`     // route nodes past this are ignored when resyncing
	AvoidInterval int64   `yaml:"avoid_interval_ms" json:"avoid_interval_ms"`
	RandomTries   int     `yaml:"random_tries" json:"random_tries"` // route attempts per random wander pick
	WanderLinks   int     `yaml:"wander_links" json:"wander_links"` // length of a link-walk fallback route
	CheckInterval int64   `yaml:"check_interval_ms" json:"check_interval_ms"`
	GuardIdle     int64   `yaml:"guard_idle_ms" json:"guard_idle_ms"` // idle defenders start patrolling after this
}

// View interpolates from the Min values at skill 1 to the Max values at skill 100.
type View struct {
	FOVMin float64 `yaml:"fov_min" json:"fov_min"`
	FOVMax float64 `yaml:"fov_max" json:"fov_max"`
}

type Aim struct {
	Cadence   int64   `yaml:"cadence_ms" json:"cadence_ms"` // jitter resample period per missing skill point
	Turn      float64 `yaml:"turn" json:"turn"`             // orientation blend per tick, scaled by skill
	LockOn    float64 `yaml:"lock_on" json:"lock_on"`       // melee lock-on distance
	Reaction  float64 `yaml:"reaction" json:"reaction"`     // divisor on skill*attack delay for the fire window ramp
	ProjRamp  float64 `yaml:"proj_ramp" json:"proj_ramp"`   // fire window cap for projectile weapons
	Stupidity int     `yaml:"stupidity" json:"stupidity"`   // skills below this occasionally freeze
}

type Combat struct {
	MaxPursue  int     `yaml:"max_pursue" json:"max_pursue"`
	Awareness  float64 `yaml:"awareness" json:"awareness"` // enemies this close are noticed without sight
	SeenGrace  int64   `yaml:"seen_grace_ms" json:"seen_grace_ms"`
	ForgetTime int64   `yaml:"forget_ms" json:"forget_ms"`
}

type Recovery struct {
	LadderStep int64 `yaml:"ladder_step_ms" json:"ladder_step_ms"`
	HuntGrace  int64 `yaml:"hunt_grace_ms" json:"hunt_grace_ms"`
}

type Arena struct {
	RespawnDelay  int64 `yaml:"respawn_delay_ms" json:"respawn_delay_ms"`
	SnapshotTicks int   `yaml:"snapshot_ticks" json:"snapshot_ticks"`
	BotSkill      int   `yaml:"bot_skill" json:"bot_skill"`
}

// Default returns the compiled-in tuning.
func Default() Tuning {
	return Tuning{
		Navigation: Navigation{
			CloseDist:     32,
			SightMin:      64,
			SightMax:      1024,
			FarDist:       256,
			AvoidInterval: 1000,
			RandomTries:   8,
			WanderLinks:   6,
			CheckInterval: 500,
			GuardIdle:     8000,
		},
		View: View{
			FOVMin: 90,
			FOVMax: 180,
		},
		Aim: Aim{
			Cadence:   10,
			Turn:      10,
			LockOn:    16,
			Reaction:  200,
			ProjRamp:  0.25,
			Stupidity: 10,
		},
		Combat: Combat{
			MaxPursue:  3,
			Awareness:  32,
			SeenGrace:  3000,
			ForgetTime: 3000,
		},
		Recovery: Recovery{
			LadderStep: 1000,
			HuntGrace:  1000,
		},
		Arena: Arena{
			RespawnDelay:  2000,
			SnapshotTicks: 10,
			BotSkill:      50,
		},
	}
}

var compiled *jsonschema.Schema

func schema() (*jsonschema.Schema, error) {
	if compiled != nil {
		return compiled, nil
	}
	s, err := jsonschema.CompileString("tuning.schema.json", schemaSource)
	if err != nil {
		return nil, fmt.Errorf("tuning schema: %w", err)
	}
	compiled = s
	return s, nil
}

// Validate checks t against the embedded schema.
func (t Tuning) Validate() error {
	s, err := schema()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(t)
	if err != nil {
		return err
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return err
	}
	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("tuning: %w", err)
	}
	if t.View.FOVMin > t.View.FOVMax {
		return fmt.Errorf("tuning: view.fov_min %.0f exceeds fov_max %.0f", t.View.FOVMin, t.View.FOVMax)
	}
	if t.Navigation.SightMin > t.Navigation.SightMax {
		return fmt.Errorf("tuning: navigation.sight_min %.0f exceeds sight_max %.0f", t.Navigation.SightMin, t.Navigation.SightMax)
	}
	return nil
}

// Parse overlays YAML onto the defaults and validates the result.
func Parse(raw []byte) (Tuning, error) {
	t := Default()
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, err
	}
	return t, nil
}

// Load reads a tuning file. Keys missing from the file keep their defaults.
func Load(path string) (Tuning, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Default(), err
	}
	return Parse(raw)
}
