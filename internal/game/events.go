package game

import "github.com/kollektive-hackathon/coinflip-backend/internal/pkg/model"

// Event types pushed to websocket listeners of a game topic.
const (
	EventPlayerJoined   = "PLAYER_JOINED"
	EventPlayerRevealed = "PLAYER_REVEALED"
	EventGameResolved   = "GAME_RESOLVED"
	EventPayoutUpdated  = "PAYOUT_UPDATED"
)

type GameEvent struct {
	Type         string             `json:"type"`
	GameId       string             `json:"gameId"`
	Status       model.GameStatus   `json:"status,omitempty"`
	Winner       *string            `json:"winner,omitempty"`
	PayoutStatus model.PayoutStatus `json:"payoutStatus,omitempty"`
}
