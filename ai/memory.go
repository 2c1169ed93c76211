package ai

import "github.com/lab1702/arena-bots/game"

// Brain is the per-bot memory. It is created when an agent comes under AI
// control and reset whenever the agent dies or respawns.
type Brain struct {
	id    int
	life  int64 // agent.Spawned this memory belongs to
	dead  bool
	stack []*Frame
	route []game.NodeID // forward order; route[0] is where the bot is, the last entry is the goal

	prev     [NumPrevNodes]game.NodeID
	prevNext int

	// combat
	enemy       game.Ref
	enemySeen   int64
	enemyMillis int64
	weapPref    game.WeaponID
	lastAction  int64

	// aim
	aimRnd    game.Vec3
	nextAim   int64
	targYaw   float64
	targPitch float64
	views     [3]float64 // horizontal fov, vertical fov, sight distance

	// movement
	spot     game.Vec3
	targNode game.NodeID
	targLast game.NodeID
	dontMove bool
	jumpSeed int64
	jumpRand int64

	// recovery ladder
	blockTime int64
	blockSeq  int
	targTime  int64
	targSeq   int
	lastHunt  int64
	huntSeq   int

	lastRun   int64
	lastCheck int64
}

func newBrain(id int, pref game.WeaponID) *Brain {
	b := &Brain{id: id, weapPref: pref, stack: make([]*Frame, 0, stackHint)}
	b.push(StateWait, TravelNode, game.None, 0)
	return b
}

// ID returns the agent id this memory belongs to.
func (b *Brain) ID() int { return b.id }

func (b *Brain) top() *Frame { return b.stack[len(b.stack)-1] }

func (b *Brain) push(kind StateKind, travel TravelKind, target game.Ref, now int64) *Frame {
	f := &Frame{Kind: kind, Travel: travel, Target: target, Millis: now}
	b.stack = append(b.stack, f)
	return f
}

// remove drops f wherever it sits in the stack. The stack is never left empty.
func (b *Brain) remove(f *Frame, now int64) {
	for i := len(b.stack) - 1; i >= 0; i-- {
		if b.stack[i] == f {
			copy(b.stack[i:], b.stack[i+1:])
			b.stack[len(b.stack)-1] = nil
			b.stack = b.stack[:len(b.stack)-1]
			break
		}
	}
	if len(b.stack) == 0 {
		b.push(StateWait, TravelNode, game.None, now)
	}
}

func (b *Brain) addPrevNode(n game.NodeID) {
	if n == game.NoNode || b.prev[(b.prevNext+NumPrevNodes-1)%NumPrevNodes] == n {
		return
	}
	b.prev[b.prevNext] = n
	b.prevNext = (b.prevNext + 1) % NumPrevNodes
}

func (b *Brain) hasPrevNode(n game.NodeID) bool {
	if n == game.NoNode {
		return false
	}
	for _, p := range b.prev {
		if p == n {
			return true
		}
	}
	return false
}

// clear drops the route and movement target, and the recent ring with prev.
func (b *Brain) clear(prev bool) {
	b.route = b.route[:0]
	b.targNode = game.NoNode
	b.spot = game.Vec3{}
	if prev {
		b.prev = [NumPrevNodes]game.NodeID{}
		b.prevNext = 0
	}
}

// wipe clears the route and collapses the stack to a single Wait frame.
func (b *Brain) wipe(prev bool, now int64) {
	b.clear(prev)
	for i := range b.stack {
		b.stack[i] = nil
	}
	b.stack = b.stack[:0]
	b.push(StateWait, TravelNode, game.None, now)
}

// reset is the ladder's soft (keeps aim and weapon memory) or hard reset.
// Neither touches the ladder counters themselves.
func (b *Brain) reset(soft bool, now int64) {
	b.wipe(true, now)
	if soft {
		return
	}
	b.enemy = game.None
	b.enemySeen, b.enemyMillis = 0, 0
	b.lastAction = 0
	b.aimRnd = game.Vec3{}
	b.nextAim = 0
	b.targYaw, b.targPitch = 0, 0
	b.dontMove = false
	b.jumpSeed, b.jumpRand = 0, 0
	b.lastCheck = 0
}

func (b *Brain) resetLadder() {
	b.blockTime, b.blockSeq = 0, 0
	b.targTime, b.targSeq = 0, 0
	b.targLast = game.NoNode
	b.lastHunt, b.huntSeq = 0, 0
}

// StateStack returns a copy of the state stack, bottom first.
func (b *Brain) StateStack() []Frame {
	out := make([]Frame, len(b.stack))
	for i, f := range b.stack {
		out[i] = *f
	}
	return out
}

// Route returns a copy of the planned route.
func (b *Brain) Route() []game.NodeID {
	return append([]game.NodeID(nil), b.route...)
}

// PrevNodes returns the recent-visit ring, oldest first, without empty slots.
func (b *Brain) PrevNodes() []game.NodeID {
	var out []game.NodeID
	for i := 0; i < NumPrevNodes; i++ {
		if n := b.prev[(b.prevNext+i)%NumPrevNodes]; n != game.NoNode {
			out = append(out, n)
		}
	}
	return out
}

func (b *Brain) Enemy() game.Ref { return b.enemy }

// Views returns the horizontal FOV, vertical FOV and sight distance.
func (b *Brain) Views() (fovX, fovY, sight float64) { return b.views[0], b.views[1], b.views[2] }

func (b *Brain) Spot() game.Vec3 { return b.spot }

func (b *Brain) WeaponPref() game.WeaponID { return b.weapPref }
