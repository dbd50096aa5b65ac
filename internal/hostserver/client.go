package hostserver

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lukev/catan2p/internal/catan"
	"github.com/lukev/catan2p/internal/sim"
	"github.com/lukev/catan2p/internal/snapshot"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

// clientMessage is the envelope a websocket client sends to subscribe to a
// game or submit an action.
type clientMessage struct {
	Type    string          `json:"type"`
	GameID  string          `json:"gameId"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// serverMessage is the envelope pushed to subscribers.
type serverMessage struct {
	Type     string             `json:"type"`
	GameID   string             `json:"gameId"`
	Snapshot *snapshot.Snapshot `json:"snapshot,omitempty"`
	Error    string             `json:"error,omitempty"`
}

// Client is one live websocket connection, bridging it to the Hub and the
// Registry of hosted games.
type Client struct {
	hub      *Hub
	registry *Registry
	conn     *websocket.Conn
	send     chan []byte

	subscribed map[string]bool
}

// ServeWs upgrades r into a websocket connection and registers a Client
// for it on hub.
func ServeWs(hub *Hub, registry *Registry, upgrader websocket.Upgrader, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("hostserver: upgrade failed: %v", err)
		return
	}

	client := &Client{
		hub:        hub,
		registry:   registry,
		conn:       conn,
		send:       make(chan []byte, 256),
		subscribed: make(map[string]bool),
	}
	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}

func (c *Client) readPump() {
	defer func() {
		for gameID := range c.subscribed {
			c.hub.LeaveGame(c, gameID)
		}
		c.hub.unregister <- c
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		c.handleMessage(raw)
	}
}

func (c *Client) handleMessage(raw []byte) {
	var msg clientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendError("", fmt.Sprintf("bad message: %v", err))
		return
	}

	switch msg.Type {
	case "subscribe":
		c.subscribe(msg.GameID)
	case "unsubscribe":
		c.hub.LeaveGame(c, msg.GameID)
		delete(c.subscribed, msg.GameID)
	case "action":
		c.applyAction(msg.GameID, msg.Payload)
	default:
		c.sendError(msg.GameID, fmt.Sprintf("unknown message type %q", msg.Type))
	}
}

func (c *Client) subscribe(gameID string) {
	driver := c.registry.Driver(gameID)
	if driver == nil {
		c.sendError(gameID, "no such game")
		return
	}
	c.hub.JoinGame(c, gameID)
	c.subscribed[gameID] = true
	c.pushSnapshot(gameID, driver)
}

func (c *Client) applyAction(gameID string, payload json.RawMessage) {
	driver := c.registry.Driver(gameID)
	if driver == nil {
		c.sendError(gameID, "no such game")
		return
	}

	var action catan.Action
	if err := json.Unmarshal(payload, &action); err != nil {
		c.sendError(gameID, fmt.Sprintf("bad action: %v", err))
		return
	}

	if _, _, _, _, err := driver.Step(action); err != nil {
		c.sendError(gameID, err.Error())
		return
	}
	if out, ok := marshalSnapshot(gameID, driver); ok {
		c.hub.BroadcastSnapshot(gameID, out)
	}
}

func (c *Client) pushSnapshot(gameID string, driver *sim.Driver) {
	out, ok := marshalSnapshot(gameID, driver)
	if !ok {
		return
	}
	select {
	case c.send <- out:
	default:
	}
}

func marshalSnapshot(gameID string, driver *sim.Driver) ([]byte, bool) {
	snap := snapshot.From(driver.State())
	out, err := json.Marshal(serverMessage{Type: "snapshot", GameID: gameID, Snapshot: &snap})
	if err != nil {
		log.Printf("hostserver: marshal snapshot: %v", err)
		return nil, false
	}
	return out, true
}

func (c *Client) sendError(gameID, message string) {
	out, err := json.Marshal(serverMessage{Type: "error", GameID: gameID, Error: message})
	if err != nil {
		return
	}
	select {
	case c.send <- out:
	default:
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			if err := c.handleWriteMessage(message, ok); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.handlePing(); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleWriteMessage(message []byte, ok bool) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	if !ok {
		_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
		return fmt.Errorf("channel closed")
	}

	w, err := c.conn.NextWriter(websocket.TextMessage)
	if err != nil {
		return err
	}
	if _, err := w.Write(message); err != nil {
		return err
	}
	return w.Close()
}

func (c *Client) handlePing() error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.PingMessage, nil)
}
