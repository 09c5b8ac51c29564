package web

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// WebSocket upgrader with reasonable settings
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins for now, tighten in production
		return true
	},
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

// Update types pushed to watchers of a game.
const (
	UpdateState      = "state"
	UpdatePlayerMove = "player_move"
	UpdateEnemyMove  = "enemy_move"
	UpdateGameEnd    = "game_end"
)

// Hub maintains active WebSocket connections
type Hub struct {
	// Registered clients by game ID
	gameClients map[string]map[*Client]bool

	// Broadcast channel for game updates
	broadcast chan GameUpdate

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Closed when Run returns
	done chan struct{}

	mu sync.RWMutex
}

// Client represents a WebSocket connection
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	gameID string
	remote string
}

// GameUpdate represents an update to broadcast
type GameUpdate struct {
	GameID string      `json:"gameId"`
	Type   string      `json:"type"`
	Data   interface{} `json:"data"`
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		gameClients: make(map[string]map[*Client]bool),
		broadcast:   make(chan GameUpdate, 256),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		done:        make(chan struct{}),
	}
}

// Run starts the hub's main event loop and returns when ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.gameClients[client.gameID] == nil {
				h.gameClients[client.gameID] = make(map[*Client]bool)
			}
			h.gameClients[client.gameID][client] = true
			h.mu.Unlock()

			log.Info().
				Str("gameID", client.gameID).
				Str("remote", client.remote).
				Msg("Client connected to game")

		case client := <-h.unregister:
			h.mu.Lock()
			h.drop(client)
			h.mu.Unlock()

			log.Info().
				Str("gameID", client.gameID).
				Str("remote", client.remote).
				Msg("Client disconnected from game")

		case update := <-h.broadcast:
			message, err := json.Marshal(update)
			if err != nil {
				log.Error().Err(err).Msg("Failed to marshal game update")
				continue
			}

			h.mu.Lock()
			for client := range h.gameClients[update.GameID] {
				select {
				case client.send <- message:
				default:
					// Client's send channel is full, close it
					h.drop(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// drop removes a client and closes its send channel. Callers hold mu.
func (h *Hub) drop(client *Client) {
	clients, ok := h.gameClients[client.gameID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.send)

	// Clean up empty game rooms
	if len(clients) == 0 {
		delete(h.gameClients, client.gameID)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, clients := range h.gameClients {
		for client := range clients {
			h.drop(client)
		}
	}
}

// BroadcastGameUpdate sends an update to all clients watching a game
func (h *Hub) BroadcastGameUpdate(update GameUpdate) {
	select {
	case h.broadcast <- update:
	default:
		log.Warn().Str("gameID", update.GameID).Msg("Broadcast channel full, dropping update")
	}
}

// Watchers counts the clients connected to a game.
func (h *Hub) Watchers(gameID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.gameClients[gameID])
}

// WebSocketHandler handles WebSocket upgrade requests
func (s *Service) WebSocketHandler(w http.ResponseWriter, r *http.Request) {
	// Get game ID from query params
	gameID := r.URL.Query().Get("gameId")
	if gameID == "" {
		http.Error(w, "Missing gameId parameter", http.StatusBadRequest)
		return
	}
	game, err := s.games.Get(gameID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	initial, err := json.Marshal(GameUpdate{GameID: gameID, Type: UpdateState, Data: game.View()})
	if err != nil {
		log.Error().Err(err).Str("gameID", gameID).Msg("Failed to marshal initial state")
		http.Error(w, "Failed to load game", http.StatusInternalServerError)
		return
	}

	// Upgrade connection
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}

	client := &Client{
		hub:    s.hub,
		conn:   conn,
		send:   make(chan []byte, 256),
		gameID: gameID,
		remote: r.RemoteAddr,
	}
	// the board as it stands goes out before any live update
	client.send <- initial

	select {
	case client.hub.register <- client:
	case <-client.hub.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// readPump handles incoming messages from the WebSocket
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Msg("WebSocket error")
			}
			break
		}

		// Watchers only talk to us to keep the connection alive
		var msg struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(message, &msg); err == nil && msg.Type == "ping" {
			if data, err := json.Marshal(map[string]string{"type": "pong"}); err == nil {
				c.hub.mu.RLock()
				if c.hub.gameClients[c.gameID][c] {
					select {
					case c.send <- data:
					default:
					}
				}
				c.hub.mu.RUnlock()
			}
		}
	}
}

// writePump handles sending messages to the WebSocket
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
