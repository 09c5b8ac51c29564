package session

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var ErrUnknownGame = errors.New("game not found")

// Registry holds the live games keyed by ID.
type Registry struct {
	mu    sync.RWMutex
	games map[string]*Game
	log   zerolog.Logger
}

func NewRegistry(logger zerolog.Logger) *Registry {
	return &Registry{
		games: make(map[string]*Game),
		log:   logger,
	}
}

// Create starts a new game under a fresh ID.
func (r *Registry) Create(opts Options) (*Game, error) {
	g, err := New(uuid.NewString(), opts, r.log)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.games[g.ID] = g
	r.mu.Unlock()
	return g, nil
}

func (r *Registry) Get(id string) (*Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.games[id]
	if !ok {
		return nil, ErrUnknownGame
	}
	return g, nil
}

func (r *Registry) Remove(id string) {
	r.mu.Lock()
	delete(r.games, id)
	r.mu.Unlock()
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.games)
}

// List returns the live games, oldest first.
func (r *Registry) List() []*Game {
	r.mu.RLock()
	games := make([]*Game, 0, len(r.games))
	for _, g := range r.games {
		games = append(games, g)
	}
	r.mu.RUnlock()

	sort.Slice(games, func(i, j int) bool {
		return games[i].CreatedAt.Before(games[j].CreatedAt)
	})
	return games
}

// Reap drops games idle for longer than idle and returns how many went.
func (r *Registry) Reap(idle time.Duration, now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	reaped := 0
	for id, g := range r.games {
		if now.Sub(g.LastActive()) > idle {
			delete(r.games, id)
			reaped++
		}
	}
	if reaped > 0 {
		r.log.Info().Int("reaped", reaped).Int("live", len(r.games)).Msg("Reaped idle games")
	}
	return reaped
}
