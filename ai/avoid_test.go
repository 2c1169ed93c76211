package ai

import (
	"testing"

	"github.com/lab1702/arena-bots/game"
)

func TestAvoidSetPartition(t *testing.T) {
	var s AvoidSet
	a, b := game.Some(1), game.Some(2)
	s.Add(a, 10, 1)
	s.Add(a, 10, 2)
	s.Add(b, 10, 3)
	s.Add(a, 10, 4)
	s.Add(game.None, -1, 5)

	if s.Len() != 5 {
		t.Fatalf("Len = %d, want 5", s.Len())
	}
	total := 0
	for _, ob := range s.obstacles {
		total += ob.count
	}
	if total != s.Len() {
		t.Errorf("obstacle counts sum to %d, entries %d", total, s.Len())
	}

	owners := map[game.NodeID]game.Ref{}
	s.Each(game.None, func(owner game.Ref, id game.NodeID) { owners[id] = owner })
	want := map[game.NodeID]game.Ref{1: a, 2: a, 3: b, 4: a, 5: game.None}
	for id, owner := range want {
		if owners[id] != owner {
			t.Errorf("node %d owned by %v, want %v", id, owners[id], owner)
		}
	}

	tests := []struct {
		id   game.NodeID
		self game.Ref
		want bool
	}{
		{1, a, false},
		{1, b, true},
		{3, b, false},
		{3, a, true},
		{4, a, false},
		{5, a, true},
		{6, game.None, false},
	}
	for _, tt := range tests {
		if got := s.Find(tt.id, tt.self); got != tt.want {
			t.Errorf("Find(%d, %v) = %v, want %v", tt.id, tt.self, got, tt.want)
		}
	}

	var merged AvoidSet
	merged.Add(b, 1, 9)
	merged.Merge(&s)
	if merged.Len() != 6 || !merged.Find(4, b) || merged.Find(9, b) {
		t.Errorf("merge lost entries: len %d", merged.Len())
	}
}

func TestAvoidSetKeepsHeights(t *testing.T) {
	tests := []struct {
		name      string
		adds      []float64 // heights added in order for nodes 1, 2, ...
		obstacles int
	}{
		{"same height", []float64{10, 10, 10}, 1},
		{"hazard then danger", []float64{-1, 40}, 2},
		{"danger then hazard", []float64{40, -1}, 2},
		{"alternating", []float64{-1, 40, -1}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s AvoidSet
			for i, above := range tt.adds {
				s.Add(game.None, above, game.NodeID(i+1))
			}
			if len(s.obstacles) != tt.obstacles {
				t.Errorf("%d obstacles, want %d", len(s.obstacles), tt.obstacles)
			}
			for i, above := range tt.adds {
				ob, ok := s.lookup(game.NodeID(i+1), game.Some(9))
				if !ok || ob.above != above {
					t.Errorf("node %d: above %v (found %v), want %v", i+1, ob.above, ok, above)
				}
			}
		})
	}
}

func TestAvoidOwnFootprint(t *testing.T) {
	g := lineGraph(5)
	reg := newRegistry()
	bot := reg.spawn(game.TeamRed, true, nodePos(2))
	other := reg.spawn(game.TeamBlue, true, nodePos(4))
	w := newTestWorld(t, g, reg)
	w.avoid()

	if w.obstacles.Find(2, game.Some(bot.ID)) {
		t.Error("a bot's own waypoint must not be an obstacle for it")
	}
	if !w.obstacles.Find(2, game.Some(other.ID)) {
		t.Error("the bot's waypoint should be an obstacle for others")
	}
	w.obstacles.Each(game.Some(other.ID), func(owner game.Ref, id game.NodeID) {
		if owner.Is(other.ID) {
			t.Errorf("Each yielded self-owned node %d", id)
		}
	})
}

func TestAvoidHazardsAndDangers(t *testing.T) {
	g := lineGraph(5)
	g.SetWeight(3, -1)
	reg := newRegistry()
	bot := reg.spawn(game.TeamRed, true, nodePos(1))
	bot.LastNode = 1
	w := newTestWorld(t, g, reg)
	b := attach(t, w, bot)
	w.svc.Dangers = dangerList{{Owner: game.None, Pos: nodePos(5), Radius: 8}}
	w.avoid()

	if !w.obstacles.Find(3, game.Some(bot.ID)) {
		t.Error("hazard waypoint should be avoided")
	}
	if !w.obstacles.Find(5, game.Some(bot.ID)) {
		t.Error("danger zone should be avoided")
	}
	if n, _, ok := w.remap(b, bot, 3, g.Pos(3), true); ok {
		t.Errorf("hazards are never remapped, got %d", n)
	}
}

type dangerList []Danger

func (d dangerList) Dangers() []Danger { return d }

func TestRemap(t *testing.T) {
	g := lineGraph(5)
	// a side branch next to 3
	side := g.Add(game.V(2*spacing, 20, 0))
	g.LinkBoth(3, side)
	reg := newRegistry()
	bot := reg.spawn(game.TeamRed, true, nodePos(1))
	reg.spawn(game.TeamBlue, true, nodePos(3))
	w := newTestWorld(t, g, reg)
	b := attach(t, w, bot)
	w.avoid()

	if n, pos, ok := w.remap(b, bot, 2, g.Pos(2), false); !ok || n != 2 || pos != g.Pos(2) {
		t.Errorf("free waypoint should map to itself, got %d %v %v", n, pos, ok)
	}
	n, pos, ok := w.remap(b, bot, 3, g.Pos(3), false)
	if !ok || n != side || pos != g.Pos(side) {
		t.Errorf("occupied waypoint should remap to the side branch, got %d %v %v", n, pos, ok)
	}

	b.addPrevNode(2)
	if n, _, ok := w.remap(b, bot, 2, g.Pos(2), false); !ok || n == 2 {
		t.Errorf("recently visited waypoint should remap elsewhere, got %d %v", n, ok)
	}
}
