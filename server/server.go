// Package server hosts an arena simulation for the bots: agents, geometry,
// weapons, a tick loop driving the AI world, and a websocket inspector.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/lab1702/arena-bots/ai"
	"github.com/lab1702/arena-bots/game"
	"github.com/lab1702/arena-bots/store"
	"github.com/lab1702/arena-bots/tuning"
	"github.com/lab1702/arena-bots/waypoint"
)

// Config selects the map, rules, and collaborators of a Server.
type Config struct {
	Map      string
	Mode     string // ModeDeathmatch or ModeHold
	Bots     int    // bots added at start
	TeamPlay bool
	Debug    bool  // trace bot decisions
	Seed     int64 // 0 picks a time based seed
	Tuning   tuning.Tuning
	Store    store.Store // optional
	Logger   *log.Logger
}

// Server owns the arena and the AI world and runs them on a fixed tick.
type Server struct {
	mu    sync.Mutex
	cfg   Config
	arena *Arena
	graph *waypoint.Graph
	world *ai.World
	log   *log.Logger
	rng   *rand.Rand

	clients    map[uuid.UUID]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan ServerMessage
	done       chan struct{}
	stopOnce   sync.Once

	now   int64
	frame int64
}

// NewServer loads the map and its waypoints. Waypoints come from cfg.Store
// when it has them and are generated from the map geometry otherwise.
func NewServer(ctx context.Context, cfg Config) (*Server, error) {
	m, err := LoadMap(cfg.Map)
	if err != nil {
		return nil, err
	}
	if cfg.Mode == "" {
		cfg.Mode = ModeDeathmatch
	}
	if cfg.Mode != ModeDeathmatch && cfg.Mode != ModeHold {
		return nil, fmt.Errorf("unknown mode %q", cfg.Mode)
	}
	if err := cfg.Tuning.Validate(); err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	s := &Server{
		cfg:        cfg,
		arena:      NewArena(m, rng, logger.WithPrefix("arena")),
		log:        logger,
		rng:        rng,
		clients:    make(map[uuid.UUID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan ServerMessage, 256),
		done:       make(chan struct{}),
	}
	if s.graph, err = s.loadGraph(ctx); err != nil {
		return nil, err
	}

	svc := ai.Services{
		Registry: s.arena,
		Sight:    s.arena,
		Mover:    s.arena,
		Terrain:  s.arena,
		Dangers:  s.arena,
		Items:    s.arena,
		TeamPlay: cfg.TeamPlay,
	}
	if cfg.Mode == ModeHold {
		svc.Mode = newHoldMode(m.Holds, cfg.Tuning.Navigation.SightMin)
	}
	s.world = ai.NewWorld(s.graph, svc, cfg.Tuning, logger.WithPrefix("ai"))
	s.world.Seed(seed)
	s.world.SetDebug(cfg.Debug)

	for i := 0; i < cfg.Bots; i++ {
		team := game.TeamNone
		if cfg.Mode == ModeHold || cfg.TeamPlay {
			team = game.TeamRed + i%2
		}
		s.addBot(team, cfg.Tuning.Arena.BotSkill)
	}
	logger.Info("arena ready", "map", m.Name, "mode", cfg.Mode, "waypoints", s.graph.Len(), "bots", cfg.Bots)
	return s, nil
}

func (s *Server) loadGraph(ctx context.Context) (*waypoint.Graph, error) {
	if s.cfg.Store != nil {
		g, err := s.cfg.Store.Load(ctx, s.cfg.Map)
		switch {
		case err == nil:
			g.SetTerrain(s.arena)
			g.Cache().Rebuild()
			s.log.Info("waypoints loaded", "map", s.cfg.Map, "count", g.Len())
			return g, nil
		case !errors.Is(err, store.ErrNotFound):
			return nil, fmt.Errorf("load waypoints: %w", err)
		}
	}
	g := waypoint.New(s.arena)
	s.arena.BuildGraph(g)
	s.log.Info("waypoints generated", "map", s.cfg.Map, "count", g.Len())
	return g, nil
}

// SaveWaypoints writes the current graph to the store.
func (s *Server) SaveWaypoints(ctx context.Context) error {
	if s.cfg.Store == nil {
		return errors.New("no waypoint store configured")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.cfg.Store.Save(ctx, s.cfg.Map, s.graph); err != nil {
		return fmt.Errorf("save waypoints: %w", err)
	}
	s.log.Info("waypoints saved", "map", s.cfg.Map, "count", s.graph.Len())
	return nil
}

// Run drives the tick loop and the client hub until ctx is cancelled or
// Shutdown is called.
func (s *Server) Run(ctx context.Context) {
	go s.gameLoop(ctx)

	for {
		select {
		case <-ctx.Done():
			s.closeClients()
			return
		case <-s.done:
			s.closeClients()
			return

		case client := <-s.register:
			s.clients[client.ID] = client
			s.log.Info("client connected", "client", client.ID)

		case client := <-s.unregister:
			if _, ok := s.clients[client.ID]; ok {
				delete(s.clients, client.ID)
				close(client.send)
				if client.agent >= 0 {
					s.mu.Lock()
					s.arena.Leave(client.agent)
					s.mu.Unlock()
				}
				s.log.Info("client disconnected", "client", client.ID)
			}

		case message := <-s.broadcast:
			for _, client := range s.clients {
				select {
				case client.send <- message:
				default:
					s.log.Warn("client send buffer full, skipping broadcast", "client", client.ID)
				}
			}
		}
	}
}

func (s *Server) closeClients() {
	for id, client := range s.clients {
		close(client.send)
		delete(s.clients, id)
	}
}

// Shutdown stops Run and the tick loop.
func (s *Server) Shutdown() {
	s.stopOnce.Do(func() {
		close(s.done)
		s.mu.Lock()
		s.world.Close()
		s.mu.Unlock()
	})
}

func (s *Server) gameLoop(ctx context.Context) {
	ticker := time.NewTicker(game.UpdateInterval)
	defer ticker.Stop()

	every := max(s.cfg.Tuning.Arena.SnapshotTicks, 1)
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case <-ticker.C:
			s.Step(game.TickMillis)
			if s.frame%int64(every) == 0 {
				s.sendSnapshot()
			}
		}
	}
}

// Step advances the simulation by dt millis.
func (s *Server) Step(dt int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.now += dt
	s.frame++
	ar := s.arena
	ar.now = s.now
	ar.grid.IndexAgents(ar.agents)

	for _, a := range ar.agents {
		if _, bot := s.world.Brain(a.ID); !bot {
			ar.Move(a, dt)
		}
	}
	s.world.Update(s.now)

	ar.grid.IndexAgents(ar.agents)
	for _, a := range ar.agents {
		ar.fire(a)
	}
	ar.updateProjectiles(dt)
	ar.updateHazards(dt)
	ar.updateItems()
	for _, id := range ar.respawn(s.cfg.Tuning.Arena.RespawnDelay) {
		s.world.Respawned(id)
	}
}

// Now returns the simulation clock in millis.
func (s *Server) Now() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Snapshot is the state streamed to inspectors.
type Snapshot struct {
	Frame       int64          `json:"frame"`
	Now         int64          `json:"now"`
	Map         string         `json:"map"`
	Agents      []game.Agent   `json:"agents"`
	Projectiles []Projectile   `json:"projectiles"`
	Bots        []ai.BrainView `json:"bots"`
}

// Snapshot copies the current state.
func (s *Server) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		Frame: s.frame,
		Now:   s.now,
		Map:   s.arena.Map.Name,
		Bots:  s.world.Snapshot(),
	}
	for _, a := range s.arena.agents {
		snap.Agents = append(snap.Agents, *a)
	}
	for _, p := range s.arena.projectiles {
		snap.Projectiles = append(snap.Projectiles, *p)
	}
	return snap
}

func (s *Server) sendSnapshot() {
	msg := ServerMessage{Type: MsgTypeSnapshot, Data: s.Snapshot()}
	select {
	case s.broadcast <- msg:
	case <-s.done:
	default:
		s.log.Debug("broadcast queue full, dropping snapshot", "frame", msg.Data.(Snapshot).Frame)
	}
}
