package model

import (
	"time"
)

type Game struct {
	Id                string       `json:"id"`
	PlayerAAddress    string       `json:"playerAAddress"`
	PlayerACommitment string       `json:"playerACommitment"`
	PlayerAReveal     *string      `json:"playerAReveal,omitempty"`
	PlayerBAddress    *string      `json:"playerBAddress,omitempty"`
	PlayerBCommitment *string      `json:"playerBCommitment,omitempty"`
	PlayerBReveal     *string      `json:"playerBReveal,omitempty"`
	Pot               uint64       `json:"pot"`
	Status            GameStatus   `json:"status"`
	Winner            *string      `json:"winner,omitempty"`
	PayoutStatus      PayoutStatus `json:"payoutStatus"`
	TimeCreated       time.Time    `json:"timeCreated"`
	TimeCompleted     *time.Time   `json:"timeCompleted,omitempty"`
}

func (Game) TableName() string {
	return "game"
}

// HasPlayerB reports whether a challenger has joined.
func (g *Game) HasPlayerB() bool {
	return g.PlayerBAddress != nil
}

// BothRevealed reports whether both pre-images are on record.
func (g *Game) BothRevealed() bool {
	return g.PlayerAReveal != nil && g.PlayerBReveal != nil
}
