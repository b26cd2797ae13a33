package player

import (
	"sort"
	"sync"
	"time"
)

// Player is one connected session owner and the last stats it reported.
type Player struct {
	ID       string
	Name     string
	Score    int
	Level    int
	Lines    int
	IsAlive  bool
	JoinedAt time.Time
}

// Roster tracks connected players. Safe for concurrent use.
type Roster struct {
	mu      sync.RWMutex
	players map[string]*Player
}

func NewRoster() *Roster {
	return &Roster{
		players: make(map[string]*Player),
	}
}

func (r *Roster) Add(id, name string) Player {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := &Player{
		ID:       id,
		Name:     name,
		Level:    1,
		IsAlive:  true,
		JoinedAt: time.Now(),
	}
	r.players[id] = p
	return *p
}

func (r *Roster) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.players, id)
}

// Get returns a copy of the player with id.
func (r *Roster) Get(id string) (Player, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.players[id]
	if !ok {
		return Player{}, false
	}
	return *p, true
}

func (r *Roster) SetName(id, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.players[id]; ok {
		p.Name = name
	}
}

// Report records the latest stats of a player's game.
func (r *Roster) Report(id string, score, level, lines int, alive bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.players[id]; ok {
		p.Score = score
		p.Level = level
		p.Lines = lines
		p.IsAlive = alive
	}
}

// All returns copies of every player, highest score first.
func (r *Roster) All() []Player {
	r.mu.RLock()
	players := make([]Player, 0, len(r.players))
	for _, p := range r.players {
		players = append(players, *p)
	}
	r.mu.RUnlock()

	sort.Slice(players, func(i, j int) bool {
		if players[i].Score != players[j].Score {
			return players[i].Score > players[j].Score
		}
		return players[i].JoinedAt.Before(players[j].JoinedAt)
	})
	return players
}

func (r *Roster) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.players)
}

func (r *Roster) CountAlive() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, p := range r.players {
		if p.IsAlive {
			count++
		}
	}
	return count
}
