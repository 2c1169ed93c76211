package ai

import "github.com/lab1702/arena-bots/game"

// find gathers interests from pickups, the game mode and teammates and takes
// the best one that can be routed to.
func (w *World) find(b *Brain, a *game.Agent, f *Frame) bool {
	w.interests = w.itemInterests(a, w.interests[:0])
	if w.svc.Mode != nil {
		w.interests = w.svc.Mode.Find(w.handle(b, a, f), w.interests)
	}
	if w.svc.TeamPlay {
		w.interests = w.assist(a, w.interests)
	}
	return w.parseInterests(b, a, f, w.interests)
}

func (w *World) item(r game.Ref) (Item, bool) {
	i, ok := r.Get()
	if !ok || w.svc.Items == nil {
		return Item{}, false
	}
	items := w.svc.Items.Items()
	if i < 0 || i >= len(items) {
		return Item{}, false
	}
	return items[i], true
}

func (w *World) wantsItem(a *game.Agent, it Item) bool {
	if !it.Weapon.Valid() || game.Weapons[it.Weapon].Melee {
		return false
	}
	return a.Ammo[it.Weapon] < game.Weapons[it.Weapon].MaxAmmo
}

// itemInterests proposes spawned pickups the bot is short of. Emptier weapons
// score lower (better).
func (w *World) itemInterests(a *game.Agent, interests []Interest) []Interest {
	if w.svc.Items == nil {
		return interests
	}
	for i, it := range w.svc.Items.Items() {
		if !it.Spawned || !w.wantsItem(a, it) {
			continue
		}
		node := w.cache.Closest(it.Pos, w.tun.Navigation.SightMin, true)
		if !node.Valid() {
			continue
		}
		want := 1 + float64(a.Ammo[it.Weapon])/float64(game.Weapons[it.Weapon].MaxAmmo)
		interests = append(interests, Interest{
			State:  StateInterest,
			Travel: TravelEntity,
			Node:   node,
			Target: game.Some(i),
			Score:  a.Pos.Dist(it.Pos) * want,
		})
	}
	return interests
}

// assist proposes guarding human teammates.
func (w *World) assist(a *game.Agent, interests []Interest) []Interest {
	for _, e := range w.svc.Registry.Agents() {
		if e.ID == a.ID || e.IsBot || !e.Alive() || !game.SameTeam(a.Team, e.Team) || !e.LastNode.Valid() {
			continue
		}
		interests = append(interests, Interest{
			State:  StateDefend,
			Travel: TravelPlayer,
			Node:   e.LastNode,
			Target: game.Some(e.ID),
			Score:  e.Pos.Dist(a.Pos),
		})
	}
	return interests
}

// parseInterests repeatedly takes the lowest scoring interest and switches
// to it if a route exists. Defend interests already covered by a teammate
// bot are skipped.
func (w *World) parseInterests(b *Brain, a *game.Agent, f *Frame, interests []Interest) bool {
	for len(interests) > 0 {
		q := 0
		for i := range interests {
			if interests[i].Score < interests[q].Score {
				q = i
			}
		}
		n := interests[q]
		last := len(interests) - 1
		interests[q] = interests[last]
		interests = interests[:last]

		if n.State == StateDefend {
			if others, _ := w.checkOthers(a, n.State, n.Travel, n.Target, true); others {
				continue
			}
		}
		if w.makeRoute(b, a, f, n.Node, true, 0) {
			w.switchState(b, n.State, n.Travel, n.Target)
			return true
		}
	}
	return false
}

// checkOthers reports whether another live bot (a teammate when teams is set)
// has the given top frame, and how many agents were considered.
func (w *World) checkOthers(a *game.Agent, kind StateKind, travel TravelKind, target game.Ref, teams bool) (bool, int) {
	members := 0
	found := false
	for _, e := range w.svc.Registry.Agents() {
		if teams && a != nil && !game.SameTeam(a.Team, e.Team) {
			continue
		}
		members++
		if (a != nil && e.ID == a.ID) || !e.Alive() {
			continue
		}
		ob, ok := w.brains[e.ID]
		if !ok {
			continue
		}
		top := ob.top()
		if top.Kind == kind && top.Travel == travel && top.Target == target {
			found = true
		}
	}
	return found, members
}
