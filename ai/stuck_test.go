package ai

import (
	"testing"

	"github.com/lab1702/arena-bots/game"
)

func TestBlockedBotSuicidesOnce(t *testing.T) {
	g := lineGraph(8)
	reg := newRegistry()
	bot := reg.spawn(game.TeamRed, true, nodePos(1))
	w := newTestWorld(t, g, reg)
	w.svc.Mover = blockedMover{}
	attach(t, w, bot)

	for now := int64(50); now <= 20000; now += 50 {
		w.Update(now)
	}
	if n := reg.suicides[bot.ID]; n != 1 {
		t.Fatalf("suicides = %d, want exactly 1", n)
	}
	if bot.Alive() {
		t.Error("bot should be dead after the last resort")
	}
}

func TestLadderStages(t *testing.T) {
	g := lineGraph(5)
	reg := newRegistry()
	bot := reg.spawn(game.TeamRed, true, nodePos(1))
	bot.LastNode = 1
	w := newTestWorld(t, g, reg)
	b := attach(t, w, bot)
	step := w.tun.Recovery.LadderStep

	setup := func() {
		b.wipe(true, w.now)
		b.push(StateInterest, TravelNode, game.Some(5), w.now)
		b.route = append(b.route[:0], 1, 2, 3, 4, 5)
		b.targNode = 2
		b.enemy = game.Some(9)
	}
	setup()
	bot.Blocked = true
	w.now = 1

	b.blockTime = step
	w.timeouts(b, bot, 1)
	if b.blockSeq != 1 || len(b.route) != 0 || !b.hasPrevNode(2) {
		t.Errorf("stage 1: seq %d route %v prev %v", b.blockSeq, b.route, b.PrevNodes())
	}

	setup()
	b.blockTime = 2 * step
	w.timeouts(b, bot, 1)
	if b.blockSeq != 2 || len(b.stack) != 1 || !b.enemy.Valid() {
		t.Errorf("stage 2 soft reset: seq %d stack %d enemy %v", b.blockSeq, len(b.stack), b.enemy)
	}

	setup()
	b.blockTime = 3 * step
	w.timeouts(b, bot, 1)
	if b.blockSeq != 3 || len(b.stack) != 1 || b.enemy.Valid() {
		t.Errorf("stage 3 hard reset: seq %d stack %d enemy %v", b.blockSeq, len(b.stack), b.enemy)
	}
	if reg.suicides[bot.ID] != 0 {
		t.Fatal("no suicide before stage 4")
	}

	setup()
	b.blockTime = 4 * step
	w.timeouts(b, bot, 1)
	if reg.suicides[bot.ID] != 1 {
		t.Errorf("stage 4: suicides = %d", reg.suicides[bot.ID])
	}
	if b.blockSeq != 0 || b.blockTime != 0 {
		t.Errorf("ladder should restart after a suicide, seq %d time %d", b.blockSeq, b.blockTime)
	}
}

func TestLadderProgressResets(t *testing.T) {
	g := lineGraph(5)
	reg := newRegistry()
	bot := reg.spawn(game.TeamRed, true, nodePos(1))
	w := newTestWorld(t, g, reg)
	b := attach(t, w, bot)

	w.now = 5000
	b.blockTime, b.blockSeq = 1500, 1
	b.targNode, b.targLast = 3, 2
	b.targTime, b.targSeq = 1500, 1
	b.lastHunt, b.huntSeq = w.now-10, 2

	bot.Blocked = false
	w.timeouts(b, bot, 50)
	if b.blockTime != 0 || b.blockSeq != 0 {
		t.Errorf("moving freely should reset the blocked counter")
	}
	if b.targTime != 0 || b.targSeq != 0 || b.targLast != 3 {
		t.Errorf("a new target waypoint should reset the fixation counter")
	}
	if b.huntSeq != 0 {
		t.Errorf("recent hunting should reset the hunt counter")
	}
}
