package store

import (
	"context"
	"sync"
	"time"

	"github.com/kollektive-hackathon/coinflip-backend/internal/pkg/model"
)

// MemoryStore keeps games in a process-wide table. Suitable for local runs
// and tests; the mutex covers every read-modify-write so it satisfies the
// same atomicity contract as the database-backed store.
type MemoryStore struct {
	mu    sync.Mutex
	games map[string]*model.Game
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{games: make(map[string]*model.Game)}
}

func (s *MemoryStore) Create(_ context.Context, game *model.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.games[game.Id] = cloneGame(game)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*model.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	game, ok := s.games[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneGame(game), nil
}

func (s *MemoryStore) Update(_ context.Context, id string, mutate func(*model.Game) error) (*model.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.games[id]
	if !ok {
		return nil, ErrNotFound
	}

	// Mutate a copy so a failed mutation leaves the stored record untouched.
	updated := cloneGame(current)
	if err := mutate(updated); err != nil {
		return nil, err
	}

	s.games[id] = updated
	return cloneGame(updated), nil
}

func cloneGame(g *model.Game) *model.Game {
	c := *g
	c.PlayerAReveal = cloneString(g.PlayerAReveal)
	c.PlayerBAddress = cloneString(g.PlayerBAddress)
	c.PlayerBCommitment = cloneString(g.PlayerBCommitment)
	c.PlayerBReveal = cloneString(g.PlayerBReveal)
	c.Winner = cloneString(g.Winner)
	c.TimeCompleted = cloneTime(g.TimeCompleted)
	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
