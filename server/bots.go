package server

import (
	"fmt"

	"github.com/lab1702/arena-bots/game"
)

// BotNames for generating random bot names
var BotNames = []string{
	"HAL-9000", "R2-D2", "C-3PO", "Data", "Bishop", "T-800",
	"Johnny-5", "WALL-E", "EVE", "Optimus", "Bender", "K-2SO",
	"BB-8", "IG-88", "HK-47", "GLaDOS", "SHODAN", "Cortana",
	"Friday", "Jarvis", "Vision", "Ultron", "Skynet", "Agent-Smith",
}

// AddBot adds a bot on team with the given skill and returns its agent id.
func (s *Server) AddBot(team, skill int) (int, error) {
	if _, ok := game.TeamNames[team]; !ok {
		return -1, fmt.Errorf("unknown team %d", team)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.arena.agents) >= game.MaxAgents {
		return -1, fmt.Errorf("arena full (%d agents)", game.MaxAgents)
	}
	return s.addBot(team, skill), nil
}

func (s *Server) addBot(team, skill int) int {
	skill = max(game.MinSkill, min(skill, game.MaxSkill))
	name := fmt.Sprintf("[BOT] %s", BotNames[s.rng.Intn(len(BotNames))])
	a := s.arena.Join(name, team, true, skill)
	s.world.Attach(a.ID)
	s.log.Info("bot added", "agent", a.ID, "name", name, "team", game.TeamNames[team], "skill", skill)
	return a.ID
}

// RemoveBot removes a bot. It reports false when id is not a bot.
func (s *Server) RemoveBot(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.arena.Agent(id)
	if !ok || !a.IsBot {
		return false
	}
	s.world.Detach(id)
	s.arena.Leave(id)
	s.log.Info("bot removed", "agent", id, "name", a.Name)
	return true
}

// Bots returns the ids of all bots in join order.
func (s *Server) Bots() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []int
	for _, a := range s.arena.agents {
		if a.IsBot {
			ids = append(ids, a.ID)
		}
	}
	return ids
}
