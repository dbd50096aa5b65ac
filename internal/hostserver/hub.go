package hostserver

import (
	"log"
	"sync"
)

type gameBroadcastMessage struct {
	GameID  string
	Message []byte
}

// Hub maintains connected websocket clients and per-game subscriptions, so
// a snapshot pushed for one game only reaches clients watching that game.
type Hub struct {
	clients map[*Client]bool

	gameBroadcast chan gameBroadcastMessage
	register      chan *Client
	unregister    chan *Client

	mu sync.RWMutex

	gameSubscribers map[string]map[*Client]bool
	clientGames     map[*Client]map[string]bool
}

// NewHub creates a new Hub instance.
func NewHub() *Hub {
	return &Hub{
		gameBroadcast:   make(chan gameBroadcastMessage),
		register:        make(chan *Client),
		unregister:      make(chan *Client),
		clients:         make(map[*Client]bool),
		gameSubscribers: make(map[string]map[*Client]bool),
		clientGames:     make(map[*Client]map[string]bool),
	}
}

// Run starts the hub loop. It must run in its own goroutine for the
// lifetime of the server.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			log.Printf("hostserver: client connected, total=%d", len(h.clients))

		case client := <-h.unregister:
			h.mu.Lock()
			h.unregisterClientLocked(client)
			h.mu.Unlock()

		case msg := <-h.gameBroadcast:
			h.mu.RLock()
			for client := range h.gameSubscribers[msg.GameID] {
				h.sendToClientLocked(client, msg.Message)
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) unregisterClientLocked(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}

	delete(h.clients, client)
	if games := h.clientGames[client]; games != nil {
		for gameID := range games {
			if subscribers := h.gameSubscribers[gameID]; subscribers != nil {
				delete(subscribers, client)
				if len(subscribers) == 0 {
					delete(h.gameSubscribers, gameID)
				}
			}
		}
		delete(h.clientGames, client)
	}

	close(client.send)
	log.Printf("hostserver: client disconnected, total=%d", len(h.clients))
}

func (h *Hub) sendToClientLocked(client *Client, message []byte) {
	select {
	case client.send <- message:
	default:
		close(client.send)
		delete(h.clients, client)
		if games := h.clientGames[client]; games != nil {
			for gameID := range games {
				if subscribers := h.gameSubscribers[gameID]; subscribers != nil {
					delete(subscribers, client)
					if len(subscribers) == 0 {
						delete(h.gameSubscribers, gameID)
					}
				}
			}
			delete(h.clientGames, client)
		}
	}
}

// BroadcastSnapshot sends message to every client subscribed to gameID.
func (h *Hub) BroadcastSnapshot(gameID string, message []byte) {
	h.gameBroadcast <- gameBroadcastMessage{GameID: gameID, Message: message}
}

// JoinGame subscribes a client to a game's snapshot stream.
func (h *Hub) JoinGame(client *Client, gameID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.clients[client]; !exists {
		return
	}

	if h.gameSubscribers[gameID] == nil {
		h.gameSubscribers[gameID] = make(map[*Client]bool)
	}
	h.gameSubscribers[gameID][client] = true

	if h.clientGames[client] == nil {
		h.clientGames[client] = make(map[string]bool)
	}
	h.clientGames[client][gameID] = true
}

// LeaveGame unsubscribes a client from a game's snapshot stream.
func (h *Hub) LeaveGame(client *Client, gameID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if subscribers := h.gameSubscribers[gameID]; subscribers != nil {
		delete(subscribers, client)
		if len(subscribers) == 0 {
			delete(h.gameSubscribers, gameID)
		}
	}

	if games := h.clientGames[client]; games != nil {
		delete(games, gameID)
		if len(games) == 0 {
			delete(h.clientGames, client)
		}
	}
}

// ClientCount returns the number of currently connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
