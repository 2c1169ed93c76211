package ai

import "github.com/lab1702/arena-bots/game"

// StateKind is the behaviour a frame runs.
type StateKind uint8

const (
	StateWait StateKind = iota
	StateDefend
	StatePursue
	StateInterest
)

var stateNames = [...]string{"wait", "defend", "pursue", "interest"}

func (k StateKind) String() string {
	if int(k) < len(stateNames) {
		return stateNames[k]
	}
	return "unknown"
}

// TravelKind says what a frame's Target refers to.
type TravelKind uint8

const (
	TravelNode     TravelKind = iota // a waypoint id
	TravelPlayer                     // an agent id
	TravelAffinity                   // resolved by the game mode
	TravelEntity                     // an item index
)

var travelNames = [...]string{"node", "player", "affinity", "entity"}

func (k TravelKind) String() string {
	if int(k) < len(travelNames) {
		return travelNames[k]
	}
	return "unknown"
}

// Frame is one entry of a bot's state stack.
type Frame struct {
	Kind     StateKind
	Travel   TravelKind
	Target   game.Ref
	Millis   int64 // when the frame was created or last reused
	Idle     int   // 0 busy, 1 holding with no enemy, 2 holding with an enemy in view
	Override bool  // a temporary detour is in progress
}

// StepResult is what a state handler asks the driver to do next.
type StepResult int

const (
	Continue StepResult = iota
	Pop
	RestartFromTop
)

func result(ok bool) StepResult {
	if ok {
		return Continue
	}
	return Pop
}

// switchState reuses the top frame when it already runs the same behaviour,
// or when it is a plain waypoint interest; otherwise it pushes a new frame.
func (w *World) switchState(b *Brain, kind StateKind, travel TravelKind, target game.Ref) {
	f := b.top()
	if (f.Kind == kind && f.Travel == travel) || (f.Kind == StateInterest && f.Travel == TravelNode) {
		f.Kind = kind
		f.Travel = travel
		f.Target = target
		f.Millis = w.now
		f.Override = false
		w.trace(b, "switch", "state", kind, "travel", travel, "target", target, "reused", true)
		return
	}
	b.push(kind, travel, target, w.now)
	w.trace(b, "switch", "state", kind, "travel", travel, "target", target, "depth", len(b.stack))
}

// think evaluates the state stack. With run set the top frame's handler is
// dispatched. A popped frame is removed from the stack; when the handler
// pushed a new frame before failing, that frame is evaluated next, otherwise
// the exposed frame is refreshed and evaluated in the same tick. The per-tick
// logic pass always follows.
func (w *World) think(b *Brain, a *game.Agent, run bool, dt int64) {
	if len(b.stack) == 0 {
		b.push(StateWait, TravelNode, game.None, w.now)
	}
	if run && a.Alive() {
		restarts := 0
		for steps := 0; steps < maxThinkSteps; steps++ {
			f := b.top()
			f.Idle = 0
			depth := len(b.stack)
			res := w.step(b, a, f)
			if res == Continue || (res == Pop && f.Kind == StateWait) {
				break
			}
			if res == Pop {
				grew := len(b.stack) > depth
				b.remove(f, w.now)
				if grew {
					res = RestartFromTop
				}
			}
			if res == RestartFromTop {
				restarts++
				if restarts > maxRestarts {
					w.trace(b, "restart limit", "state", b.top().Kind)
					break
				}
				continue
			}
			next := b.top()
			next.Millis = w.now
			next.Override = false
		}
	}
	w.logic(b, a, dt)
}

func (w *World) step(b *Brain, a *game.Agent, f *Frame) StepResult {
	switch f.Kind {
	case StateWait:
		return w.doWait(b, a, f)
	case StateDefend:
		return w.doDefend(b, a, f)
	case StatePursue:
		return w.doPursue(b, a, f)
	case StateInterest:
		return w.doInterest(b, a, f)
	}
	return Pop
}
