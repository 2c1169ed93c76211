package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/lab1702/arena-bots/game"
)

// isValidOrigin checks if the origin is allowed to connect
func (s *Server) isValidOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		// non-browser client
		return true
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		s.log.Warn("invalid origin URL", "origin", origin)
		return false
	}

	if r.Host == originURL.Host {
		return true
	}

	// local development
	if strings.HasPrefix(originURL.Host, "localhost:") ||
		strings.HasPrefix(originURL.Host, "127.0.0.1:") ||
		originURL.Host == "localhost" ||
		originURL.Host == "127.0.0.1" {
		return true
	}

	s.log.Warn("rejected websocket origin", "origin", origin)
	return false
}

// Message types
const (
	MsgTypeJoin      = "join"
	MsgTypeInput     = "input"
	MsgTypeAddBot    = "addbot"
	MsgTypeRemoveBot = "removebot"
	MsgTypeSave      = "save"
	MsgTypeDrop      = "drop"
	MsgTypeDebug     = "debug"
	MsgTypeQuit      = "quit"

	MsgTypeJoined   = "joined"
	MsgTypeSnapshot = "snapshot"
	MsgTypeOK       = "ok"
	MsgTypeError    = "error"
)

// ClientMessage represents a message from client to server
type ClientMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// ServerMessage represents a message from server to client
type ServerMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Client is one websocket connection. It may control one human agent.
type Client struct {
	ID     uuid.UUID
	agent  int // -1 until joined
	conn   *websocket.Conn
	send   chan ServerMessage
	server *Server
}

// HandleWebSocket upgrades an inspector or player connection.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		CheckOrigin:       s.isValidOrigin,
		EnableCompression: true,
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error("websocket upgrade", "err", err)
		return
	}

	client := &Client{
		ID:     uuid.New(),
		agent:  -1,
		conn:   conn,
		send:   make(chan ServerMessage, 256),
		server: s,
	}

	select {
	case s.register <- client:
	case <-s.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// readPump handles incoming messages from the client
func (c *Client) readPump() {
	defer func() {
		select {
		case c.server.unregister <- c:
		case <-c.server.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.server.log.Warn("websocket read", "client", c.ID, "err", err)
			}
			return
		}
		if msg.Type == MsgTypeQuit {
			return
		}
		c.handleMessage(msg)
	}
}

// writePump sends messages to the client
func (c *Client) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// reply queues a message for this client only.
func (c *Client) reply(typ string, data any) {
	select {
	case c.send <- ServerMessage{Type: typ, Data: data}:
	default:
		c.server.log.Warn("client send buffer full, dropping reply", "client", c.ID, "type", typ)
	}
}

func (c *Client) fail(msg string) { c.reply(MsgTypeError, map[string]string{"message": msg}) }

// JoinData is the payload of a join message.
type JoinData struct {
	Name string `json:"name"`
	Team int    `json:"team"`
}

// InputData is the payload of an input message.
type InputData struct {
	Move   int           `json:"move"`
	Strafe int           `json:"strafe"`
	Jump   bool          `json:"jump"`
	Attack bool          `json:"attack"`
	Yaw    float64       `json:"yaw"`
	Pitch  float64       `json:"pitch"`
	Weapon game.WeaponID `json:"weapon"`
}

// BotData is the payload of addbot and removebot messages.
type BotData struct {
	ID    int `json:"id"`
	Team  int `json:"team"`
	Skill int `json:"skill"`
}

// handleMessage processes a message from the client
func (c *Client) handleMessage(msg ClientMessage) {
	defer func() {
		if r := recover(); r != nil {
			c.server.log.Error("panic in message handler", "client", c.ID, "type", msg.Type, "panic", r)
		}
	}()

	switch msg.Type {
	case MsgTypeJoin:
		c.handleJoin(msg.Data)
	case MsgTypeInput:
		c.handleInput(msg.Data)
	case MsgTypeAddBot:
		c.handleAddBot(msg.Data)
	case MsgTypeRemoveBot:
		c.handleRemoveBot(msg.Data)
	case MsgTypeSave:
		c.handleSave()
	case MsgTypeDrop:
		c.handleDrop(msg.Data)
	case MsgTypeDebug:
		c.handleDebug(msg.Data)
	default:
		c.server.log.Warn("unknown message type", "client", c.ID, "type", msg.Type)
		c.fail("unknown message type: " + msg.Type)
	}
}

func (c *Client) handleJoin(data json.RawMessage) {
	var d JoinData
	if err := json.Unmarshal(data, &d); err != nil {
		c.fail("invalid join data")
		return
	}
	if _, ok := game.TeamNames[d.Team]; !ok {
		c.fail("invalid team")
		return
	}
	name := sanitizeName(d.Name)
	if name == "" {
		name = "player"
	}
	s := c.server
	s.mu.Lock()
	if c.agent >= 0 {
		s.mu.Unlock()
		c.fail("already joined")
		return
	}
	if len(s.arena.agents) >= game.MaxAgents {
		s.mu.Unlock()
		c.fail("arena full")
		return
	}
	a := s.arena.Join(name, d.Team, false, game.PerfectSkill)
	c.agent = a.ID
	s.mu.Unlock()
	s.log.Info("player joined", "client", c.ID, "agent", a.ID, "name", name)
	c.reply(MsgTypeJoined, map[string]int{"id": a.ID})
}

func (c *Client) handleInput(data json.RawMessage) {
	var d InputData
	if err := json.Unmarshal(data, &d); err != nil {
		c.fail("invalid input data")
		return
	}
	s := c.server
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.arena.Agent(c.agent)
	if !ok || !a.Alive() {
		return
	}
	a.Intent = game.MoveIntent{
		Move:      clampUnit(d.Move),
		Strafe:    clampUnit(d.Strafe),
		Jump:      d.Jump,
		Attacking: d.Attack,
	}
	a.Yaw = game.NormalizeYaw(validAngle(d.Yaw))
	a.Pitch = game.ClampPitch(validAngle(d.Pitch))
	if d.Weapon.Valid() && a.HasAmmo(d.Weapon) {
		a.Weapon = d.Weapon
	}
}

func (c *Client) handleAddBot(data json.RawMessage) {
	var d BotData
	if err := json.Unmarshal(data, &d); err != nil {
		c.fail("invalid bot data")
		return
	}
	if d.Skill == 0 {
		d.Skill = c.server.cfg.Tuning.Arena.BotSkill
	}
	id, err := c.server.AddBot(d.Team, d.Skill)
	if err != nil {
		c.fail(err.Error())
		return
	}
	c.reply(MsgTypeOK, map[string]int{"id": id})
}

func (c *Client) handleRemoveBot(data json.RawMessage) {
	var d BotData
	if err := json.Unmarshal(data, &d); err != nil {
		c.fail("invalid bot data")
		return
	}
	if !c.server.RemoveBot(d.ID) {
		c.fail("no such bot")
		return
	}
	c.reply(MsgTypeOK, map[string]int{"id": d.ID})
}

func (c *Client) handleSave() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.server.SaveWaypoints(ctx); err != nil {
		c.fail(err.Error())
		return
	}
	c.reply(MsgTypeOK, nil)
}

func (c *Client) handleDrop(data json.RawMessage) {
	var d struct {
		On bool `json:"on"`
	}
	if err := json.Unmarshal(data, &d); err != nil {
		c.fail("invalid drop data")
		return
	}
	s := c.server
	s.mu.Lock()
	s.world.SetDropping(d.On)
	s.mu.Unlock()
	c.reply(MsgTypeOK, nil)
}

func (c *Client) handleDebug(data json.RawMessage) {
	var d struct {
		On bool `json:"on"`
	}
	if err := json.Unmarshal(data, &d); err != nil {
		c.fail("invalid debug data")
		return
	}
	s := c.server
	s.mu.Lock()
	s.world.SetDebug(d.On)
	s.mu.Unlock()
	c.reply(MsgTypeOK, nil)
}
