package hostserver

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lukev/catan2p/internal/catan"
	"github.com/lukev/catan2p/internal/snapshot"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// development default; a deployed host server should restrict this.
		return true
	},
}

// Handler bundles a Hub and Registry behind an HTTP router.
type Handler struct {
	hub      *Hub
	registry *Registry
}

// NewHandler wires hub and registry into a router.
func NewHandler(hub *Hub, registry *Registry) *Handler {
	return &Handler{hub: hub, registry: registry}
}

// RegisterRoutes attaches every hostserver endpoint to router.
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/games", h.handleCreateGame).Methods("POST")
	router.HandleFunc("/games", h.handleListGames).Methods("GET")
	router.HandleFunc("/games/{id}", h.handleGetGame).Methods("GET")
	router.HandleFunc("/games/{id}/actions", h.handlePostAction).Methods("POST")
	router.HandleFunc("/ws", h.handleWebsocket)
	router.Handle("/metrics", promhttp.Handler())
	router.HandleFunc("/health", h.handleHealth).Methods("GET")
}

func (h *Handler) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Seed1 uint64 `json:"seed1"`
		Seed2 uint64 `json:"seed2"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	meta := h.registry.CreateGame(req.Name, catan.NewGameOptions{Seed1: req.Seed1, Seed2: req.Seed2})
	writeJSON(w, http.StatusCreated, meta)
}

func (h *Handler) handleListGames(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.registry.ListGames())
}

func (h *Handler) handleGetGame(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	driver := h.registry.Driver(id)
	if driver == nil {
		http.Error(w, "no such game", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, snapshot.From(driver.State()))
}

func (h *Handler) handlePostAction(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	driver := h.registry.Driver(id)
	if driver == nil {
		http.Error(w, "no such game", http.StatusNotFound)
		return
	}

	var action catan.Action
	if err := json.NewDecoder(r.Body).Decode(&action); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	next, _, done, _, err := driver.Step(action)
	if err != nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}

	if out, ok := marshalSnapshot(id, driver); ok {
		h.hub.BroadcastSnapshot(id, out)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"snapshot": snapshot.From(next),
		"gameOver": done,
	})
}

func (h *Handler) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	ServeWs(h.hub, h.registry, upgrader, w, r)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
