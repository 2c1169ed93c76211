package server

import (
	"io"
	"math/rand"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/lab1702/arena-bots/game"
	"github.com/lab1702/arena-bots/tuning"
)

// Facing yaws. 0 looks along +Y and yaw grows counter-clockwise.
const (
	faceNorth = 0.0   // +Y
	faceWest  = 90.0  // -X
	faceSouth = 180.0 // -Y
	faceEast  = 270.0 // +X
)

func newTestArena(t *testing.T, name string) *Arena {
	t.Helper()
	m, err := LoadMap(name)
	if err != nil {
		t.Fatalf("LoadMap(%q): %v", name, err)
	}
	return NewArena(m, rand.New(rand.NewSource(1)), log.New(io.Discard))
}

// place joins an agent and puts it at pos facing yaw.
func place(ar *Arena, team int, pos game.Vec3, yaw float64) *game.Agent {
	a := ar.Join("test", team, false, game.PerfectSkill)
	a.Pos = pos
	a.Yaw = yaw
	ar.vz[a.ID] = 0
	return a
}

// tick runs the arena side of a server step.
func tick(ar *Arena, dt int64) {
	ar.now += dt
	ar.grid.IndexAgents(ar.agents)
	for _, a := range ar.agents {
		ar.Move(a, dt)
	}
	ar.grid.IndexAgents(ar.agents)
	for _, a := range ar.agents {
		ar.fire(a)
	}
	ar.updateProjectiles(dt)
	ar.updateHazards(dt)
	ar.updateItems()
}

func testConfig(mapName string) Config {
	return Config{
		Map:    mapName,
		Seed:   1,
		Tuning: tuning.Default(),
	}
}
