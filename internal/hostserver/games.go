// Package hostserver hosts many concurrent catan games over HTTP and
// pushes live state to subscribers over WebSocket.
package hostserver

import (
	"strconv"
	"sync"
	"time"

	"github.com/lukev/catan2p/internal/catan"
	"github.com/lukev/catan2p/internal/sim"
)

// GameMeta is the lobby-facing summary of one hosted game.
type GameMeta struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	GameOver  bool      `json:"gameOver"`
}

type hostedGame struct {
	meta   GameMeta
	driver *sim.Driver
}

// Registry owns every hosted game's driver. One registry backs one server
// process; it is safe for concurrent use from many request goroutines.
type Registry struct {
	mu     sync.RWMutex
	games  map[string]*hostedGame
	nextID int
}

// NewRegistry creates an empty game registry.
func NewRegistry() *Registry {
	return &Registry{games: make(map[string]*hostedGame), nextID: 1}
}

// CreateGame starts a new game under a fresh id and returns its metadata.
func (r *Registry) CreateGame(name string, opts catan.NewGameOptions) GameMeta {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := strconv.Itoa(r.nextID)
	r.nextID++

	meta := GameMeta{ID: id, Name: name, CreatedAt: time.Now()}
	r.games[id] = &hostedGame{meta: meta, driver: sim.New(catan.NewGame(opts))}
	return meta
}

// ListGames returns the metadata for every hosted game, refreshed with its
// current GameOver flag.
func (r *Registry) ListGames() []GameMeta {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]GameMeta, 0, len(r.games))
	for _, g := range r.games {
		meta := g.meta
		meta.GameOver = g.driver.State().GameOver
		out = append(out, meta)
	}
	return out
}

// Driver returns the driver for id, or nil if no such game exists.
func (r *Registry) Driver(id string) *sim.Driver {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.games[id]
	if !ok {
		return nil
	}
	return g.driver
}
