package server

import (
	"encoding/json"
	"math"
	"net/http"
	"strings"

	"github.com/lab1702/arena-bots/game"
)

// HandleBots returns the state stack, route, and ladder counters of every bot.
func (s *Server) HandleBots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", "application/json")

	s.mu.Lock()
	bots := s.world.Snapshot()
	s.mu.Unlock()

	if err := json.NewEncoder(w).Encode(bots); err != nil {
		s.log.Warn("encode bots", "err", err)
	}
}

// HandleScores returns frags and deaths per agent.
func (s *Server) HandleScores(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", "application/json")

	type score struct {
		ID     int    `json:"id"`
		Name   string `json:"name"`
		Team   string `json:"team"`
		Bot    bool   `json:"bot"`
		Frags  int    `json:"frags"`
		Deaths int    `json:"deaths"`
	}
	s.mu.Lock()
	scores := make([]score, 0, len(s.arena.agents))
	for _, a := range s.arena.agents {
		scores = append(scores, score{
			ID: a.ID, Name: a.Name, Team: game.TeamNames[a.Team], Bot: a.IsBot,
			Frags: a.Frags, Deaths: a.Deaths,
		})
	}
	s.mu.Unlock()

	if err := json.NewEncoder(w).Encode(scores); err != nil {
		s.log.Warn("encode scores", "err", err)
	}
}

// HandleHealth reports liveness.
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// sanitizeName removes non-alphanumeric characters and truncates
func sanitizeName(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, name)

	const maxNameLength = 20
	if len(cleaned) > maxNameLength {
		cleaned = cleaned[:maxNameLength]
	}
	return cleaned
}

// validAngle maps NaN and infinities to zero and wraps into (-360, 360)
func validAngle(deg float64) float64 {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return 0
	}
	return math.Mod(deg, 360)
}

func clampUnit(v int) int {
	return max(-1, min(v, 1))
}
