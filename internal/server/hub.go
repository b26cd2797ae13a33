package server

import (
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hersh/blockfall/internal/player"
	"github.com/hersh/blockfall/internal/protocol"
)

// HubConfig configures sessions opened by a Hub.
type HubConfig struct {
	// Frame is the engine tick period.
	Frame time.Duration
	// SnapshotEvery is how often a snapshot is pushed without input.
	SnapshotEvery time.Duration
	// Seed fixes every session's piece sequence when non-zero.
	Seed   uint64
	Logger *slog.Logger
}

func (c HubConfig) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// Hub tracks the open sessions and their players.
type Hub struct {
	cfg    HubConfig
	roster *player.Roster

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewHub(cfg HubConfig) *Hub {
	return &Hub{
		cfg:      cfg,
		roster:   player.NewRoster(),
		sessions: make(map[string]*Session),
	}
}

// Open creates a session for a new player. The caller runs it.
func (h *Hub) Open(name string, publish Publish) *Session {
	id := uuid.NewString()
	seed := h.cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	if name == "" {
		name = "Player"
	}
	h.roster.Add(id, name)
	s := NewSession(id, seed, h.cfg, publish, h.roster)

	h.mu.Lock()
	h.sessions[id] = s
	h.mu.Unlock()

	h.cfg.logger().Info("session opened", "session", id, "player", name, "seed", seed)
	return s
}

// Close forgets a session. It does not stop it.
func (h *Hub) Close(id string) {
	h.mu.Lock()
	delete(h.sessions, id)
	h.mu.Unlock()

	if p, ok := h.roster.Get(id); ok {
		h.cfg.logger().Info("session closed", "session", id, "player", p.Name, "score", p.Score)
	}
	h.roster.Remove(id)
}

func (h *Hub) Session(id string) (*Session, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s, ok := h.sessions[id]
	return s, ok
}

func (h *Hub) Roster() *player.Roster {
	return h.roster
}

// List describes every open session, best score first.
func (h *Hub) List() []protocol.SessionInfo {
	players := h.roster.All()
	infos := make([]protocol.SessionInfo, 0, len(players))
	for _, p := range players {
		infos = append(infos, protocol.SessionInfo{
			SessionID:  p.ID,
			PlayerName: p.Name,
			Score:      p.Score,
			Level:      p.Level,
			Lines:      p.Lines,
			Alive:      p.IsAlive,
		})
	}
	return infos
}
