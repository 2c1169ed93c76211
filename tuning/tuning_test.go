package tuning

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default tuning should validate: %v", err)
	}
}

func TestParseOverlaysDefaults(t *testing.T) {
	tun, err := Parse([]byte("view:\n  fov_min: 60\ncombat:\n  max_pursue: 5\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tun.View.FOVMin != 60 {
		t.Errorf("expected fov_min 60, got %v", tun.View.FOVMin)
	}
	if tun.View.FOVMax != Default().View.FOVMax {
		t.Errorf("fov_max should keep its default, got %v", tun.View.FOVMax)
	}
	if tun.Combat.MaxPursue != 5 {
		t.Errorf("expected max_pursue 5, got %d", tun.Combat.MaxPursue)
	}
}

func TestParseRejectsOutOfRange(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"skill too high", "arena:\n  bot_skill: 150\n", "bot_skill"},
		{"negative close dist", "navigation:\n  close_dist: -1\n", "close_dist"},
		{"fov inverted", "view:\n  fov_min: 170\n  fov_max: 100\n", "fov_min"},
		{"bad yaml", "view: [", "tuning.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(path, []byte("recovery:\n  ladder_step_ms: 2000\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	tun, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tun.Recovery.LadderStep != 2000 {
		t.Errorf("expected ladder step 2000, got %d", tun.Recovery.LadderStep)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
