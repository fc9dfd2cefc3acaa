package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/kollektive-hackathon/coinflip-backend/internal/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGame(id string) *model.Game {
	return &model.Game{
		Id:                id,
		PlayerAAddress:    "A1",
		PlayerACommitment: "commitment",
		Pot:               1,
		Status:            model.GameWaiting,
		PayoutStatus:      model.PayoutNone,
	}
}

func TestMemoryStore_CreateAndGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, newGame("g1")))

	game, err := s.Get(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, "g1", game.Id)
	assert.Equal(t, model.GameWaiting, game.Status)
}

func TestMemoryStore_GetUnknown(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, newGame("g1")))

	first, err := s.Get(ctx, "g1")
	require.NoError(t, err)
	first.Status = model.GameDone
	winner := "A1"
	first.Winner = &winner

	second, err := s.Get(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, model.GameWaiting, second.Status)
	assert.Nil(t, second.Winner)
}

func TestMemoryStore_UpdateUnknown(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.Update(context.Background(), "missing", func(g *model.Game) error {
		return nil
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_UpdateMutateErrorRollsBack(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, newGame("g1")))

	boom := errors.New("rejected")
	_, err := s.Update(ctx, "g1", func(g *model.Game) error {
		g.Status = model.GameDone
		return boom
	})
	require.ErrorIs(t, err, boom)

	game, err := s.Get(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, model.GameWaiting, game.Status)
}

func TestMemoryStore_ConcurrentUpdatesAreSerialized(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, newGame("g1")))

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := s.Update(ctx, "g1", func(g *model.Game) error {
				g.Pot++
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	game, err := s.Get(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, uint64(1+workers), game.Pot)
}

func TestMemoryStore_ExactlyOneTransition(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	game := newGame("g1")
	game.Status = model.GameReady
	require.NoError(t, s.Create(ctx, game))

	failed := errors.New("already done")

	const workers = 20
	var transitions int32
	var mu sync.Mutex
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := s.Update(ctx, "g1", func(g *model.Game) error {
				if g.Status == model.GameDone {
					return failed
				}
				g.Status = model.GameDone
				return nil
			})
			if err == nil {
				mu.Lock()
				transitions++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), transitions)
}
