package ai

import (
	"math/rand"
	"testing"

	"github.com/lab1702/arena-bots/game"
	"github.com/lab1702/arena-bots/waypoint"
)

func TestRouteLine(t *testing.T) {
	g := lineGraph(5)
	reg := newRegistry()
	bot := reg.spawn(game.TeamRed, true, nodePos(1))
	w := newTestWorld(t, g, reg)
	b := attach(t, w, bot)
	w.avoid()

	route, ok := w.route(b, 1, 5, 0)
	if !ok {
		t.Fatal("expected a route on an empty line")
	}
	want := []game.NodeID{1, 2, 3, 4, 5}
	if !sameRoute(route, want) {
		t.Errorf("route = %v, want %v", route, want)
	}
}

func TestRouteAroundOccupiedNode(t *testing.T) {
	g := lineGraph(5)
	reg := newRegistry()
	bot := reg.spawn(game.TeamRed, true, nodePos(1))
	bot.LastNode = 1
	reg.spawn(game.TeamRed, false, nodePos(3))
	w := newTestWorld(t, g, reg)
	b := attach(t, w, bot)
	w.avoid()

	if !w.obstacles.Find(3, game.Some(bot.ID)) {
		t.Fatal("waypoint 3 should be occupied by the other agent")
	}
	if route, ok := w.route(b, 1, 5, 0); ok && onRoute(route, 3) {
		t.Errorf("attempt 0 must not pass through an occupied waypoint, got %v", route)
	}
	route, ok := w.route(b, 1, 5, 1)
	if !ok {
		t.Fatal("attempt 1 ignores obstacles and should succeed")
	}
	if !onRoute(route, 3) {
		t.Errorf("attempt 1 route %v should pass through 3", route)
	}
	assertLinked(t, g, route)

	f := b.top()
	if !w.makeRoute(b, bot, f, 5, false, 0) {
		t.Fatal("makeRoute should fall back to attempt 1")
	}
	if !sameRoute(b.Route(), []game.NodeID{1, 2, 3, 4, 5}) {
		t.Errorf("makeRoute stored %v", b.Route())
	}
}

func TestRouteRecentRing(t *testing.T) {
	g := lineGraph(5)
	reg := newRegistry()
	bot := reg.spawn(game.TeamRed, true, nodePos(1))
	w := newTestWorld(t, g, reg)
	b := attach(t, w, bot)
	w.avoid()
	b.addPrevNode(2)

	for _, tc := range []struct {
		retries int
		ok      bool
	}{
		{0, false},
		{1, false},
		{2, true},
	} {
		_, ok := w.route(b, 1, 5, tc.retries)
		if ok != tc.ok {
			t.Errorf("retries %d: ok = %v, want %v", tc.retries, ok, tc.ok)
		}
	}
}

func TestRouteConsecutiveLinked(t *testing.T) {
	// 6x6 grid with a few random cross links
	g := waypoint.New(nil)
	const size = 6
	id := func(x, y int) game.NodeID { return game.NodeID(y*size + x + 1) }
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			g.Add(game.V(float64(x)*spacing, float64(y)*spacing, 0))
		}
	}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if x+1 < size {
				g.LinkBoth(id(x, y), id(x+1, y))
			}
			if y+1 < size {
				g.LinkBoth(id(x, y), id(x, y+1))
			}
		}
	}
	reg := newRegistry()
	bot := reg.spawn(game.TeamRed, true, g.Pos(1))
	w := newTestWorld(t, g, reg)
	b := attach(t, w, bot)
	w.avoid()

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		from := game.NodeID(rng.Intn(size*size) + 1)
		goal := game.NodeID(rng.Intn(size*size) + 1)
		route, ok := w.route(b, from, goal, 2)
		if !ok {
			t.Fatalf("no route %d -> %d", from, goal)
		}
		if route[0] != from || route[len(route)-1] != goal {
			t.Errorf("route %v does not run %d -> %d", route, from, goal)
		}
		assertLinked(t, g, route)
	}
}

func TestAnyNodeWalk(t *testing.T) {
	g := lineGraph(10)
	reg := newRegistry()
	bot := reg.spawn(game.TeamRed, true, nodePos(5))
	bot.LastNode = 5
	w := newTestWorld(t, g, reg)
	b := attach(t, w, bot)

	if !w.anyNode(b, bot) {
		t.Fatal("anyNode should find a walk on a line")
	}
	route := b.Route()
	if route[0] != 5 || len(route) < 2 {
		t.Fatalf("walk %v should start at the last waypoint", route)
	}
	assertLinked(t, g, route)
	seen := make(map[game.NodeID]bool)
	for _, n := range route {
		if seen[n] {
			t.Errorf("walk %v revisits %d", route, n)
		}
		seen[n] = true
	}
}

func TestRandomNodeSkipsOwnWaypoint(t *testing.T) {
	g := lineGraph(5)
	reg := newRegistry()
	bot := reg.spawn(game.TeamRed, true, nodePos(1))
	bot.LastNode = 1
	w := newTestWorld(t, g, reg)
	b := attach(t, w, bot)
	w.avoid()

	for i := 0; i < 20; i++ {
		b.clear(true)
		if !w.randomNode(b, bot, b.top(), bot.Pos, 0, wanderAnywhere) {
			t.Fatal("randomNode failed on an open line")
		}
		route := b.Route()
		if goal := route[len(route)-1]; goal == 1 {
			t.Errorf("random goal must not be the waypoint the bot stands on")
		}
	}
}
