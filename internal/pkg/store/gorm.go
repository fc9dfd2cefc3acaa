package store

import (
	"context"
	"errors"

	"github.com/kollektive-hackathon/coinflip-backend/internal/pkg/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore persists games in Postgres. Update takes a row lock (SELECT ...
// FOR UPDATE) inside a transaction, which gives the per-id mutual exclusion
// the resolution engine relies on.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Create(ctx context.Context, game *model.Game) error {
	return s.db.WithContext(ctx).Create(game).Error
}

func (s *GormStore) Get(ctx context.Context, id string) (*model.Game, error) {
	var game model.Game
	result := s.db.WithContext(ctx).Where("id = ?", id).First(&game)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &game, nil
}

func (s *GormStore) Update(ctx context.Context, id string, mutate func(*model.Game) error) (*model.Game, error) {
	var updated *model.Game
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var game model.Game
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&game)
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if result.Error != nil {
			return result.Error
		}

		if err := mutate(&game); err != nil {
			return err
		}

		if result := tx.Save(&game); result.Error != nil {
			return result.Error
		}
		updated = &game
		return nil
	})

	if err != nil {
		return nil, err
	}
	return updated, nil
}
