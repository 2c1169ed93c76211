package ai

import "github.com/lab1702/arena-bots/game"

// timeouts runs the recovery ladder. Three counters (blocked by collision,
// fixated on one waypoint, unable to hunt) each climb a stage every
// LadderStep without progress: mark the waypoint and drop the route, soft
// reset, hard reset, and finally suicide.
func (w *World) timeouts(b *Brain, a *game.Agent, dt int64) {
	step := w.tun.Recovery.LadderStep

	if a.Blocked {
		b.blockTime += dt
		if b.blockTime > int64(b.blockSeq+1)*step {
			b.blockSeq++
			if w.escalate(b, a, b.blockSeq, "blocked") {
				return
			}
		}
	} else {
		b.blockTime, b.blockSeq = 0, 0
	}

	if b.targNode == b.targLast {
		b.targTime += dt
		if b.targTime > int64(b.targSeq+1)*step {
			b.targSeq++
			if w.escalate(b, a, b.targSeq, "fixated") {
				return
			}
		}
	} else {
		b.targTime, b.targSeq = 0, 0
		b.targLast = b.targNode
	}

	if b.lastHunt != 0 {
		idle := w.now - b.lastHunt
		if idle <= w.tun.Recovery.HuntGrace {
			b.huntSeq = 0
		} else if idle > int64(b.huntSeq+1)*step {
			b.huntSeq++
			w.escalate(b, a, b.huntSeq, "hunt")
		}
	}
}

// escalate applies ladder stage seq and reports whether the bot was killed.
func (w *World) escalate(b *Brain, a *game.Agent, seq int, reason string) bool {
	w.trace(b, "stuck", "reason", reason, "stage", seq, "node", b.targNode)
	switch seq {
	case 1:
		b.addPrevNode(b.targNode)
		b.clear(false)
	case 2:
		b.reset(true, w.now)
	case 3:
		b.reset(false, w.now)
	default:
		w.log.Warn("bot stuck, respawning", "agent", a.ID, "reason", reason)
		b.resetLadder()
		w.svc.Registry.Suicide(a.ID)
		return true
	}
	return false
}
