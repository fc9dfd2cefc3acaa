package store

import (
	"context"
	"errors"

	"github.com/kollektive-hackathon/coinflip-backend/internal/pkg/model"
)

// ErrNotFound is returned when no game exists under the requested id.
var ErrNotFound = errors.New("store: game not found")

// GameStore is a keyed repository of game records.
//
// Update runs mutate under per-id mutual exclusion: the read, the mutate
// callback and the write commit as one unit, so two concurrent updates of
// the same game cannot interleave. A mutate error aborts the write and is
// returned unchanged to the caller. Get is snapshot consistent and is not
// serialized against writers.
type GameStore interface {
	Create(ctx context.Context, game *model.Game) error
	Get(ctx context.Context, id string) (*model.Game, error)
	Update(ctx context.Context, id string, mutate func(*model.Game) error) (*model.Game, error)
}
