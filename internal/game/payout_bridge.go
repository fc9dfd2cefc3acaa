package game

import (
	"context"
	"fmt"
	"time"

	gcppubsub "cloud.google.com/go/pubsub"
	"github.com/jpillora/backoff"
	"github.com/kollektive-hackathon/coinflip-backend/internal/pkg/chain"
	"github.com/kollektive-hackathon/coinflip-backend/internal/pkg/model"
	"github.com/kollektive-hackathon/coinflip-backend/internal/pkg/pubsub"
	"github.com/kollektive-hackathon/coinflip-backend/internal/pkg/store"
	"github.com/kollektive-hackathon/coinflip-backend/internal/pkg/utils"
	"github.com/rs/zerolog/log"
)

const maxPublishAttempts = 5

// TokenTransfer is the payload of a TOKEN_TRANSFER chain command. The
// external executor moves pot tokens from the vault to the winner and
// reports back on the payout result subscriptions.
type TokenTransfer struct {
	GameId string      `json:"gameId"`
	To     string      `json:"to"`
	Amount uint64      `json:"amount"`
	Vault  chain.Vault `json:"vault"`
}

// PayoutResult is published by the executor for both outcomes.
type PayoutResult struct {
	GameId      string `json:"gameId"`
	TxSignature string `json:"txSignature"`
	Error       string `json:"error"`
}

type payoutBridge struct {
	store store.GameStore
	hub   notificationHub
}

// sendPayout hands the transfer to the executor. Publish failures are
// retried with backoff and finally recorded as a failed payout; game
// resolution is already committed and is never rolled back from here.
func (b *payoutBridge) sendPayout(gameId string, winner string, pot uint64) {
	transfer := TokenTransfer{
		GameId: gameId,
		To:     winner,
		Amount: pot,
		Vault:  chain.GetVault(),
	}
	cmd := chain.NewCommand("TOKEN_TRANSFER", []any{transfer})

	go func() {
		bo := &backoff.Backoff{
			Min:    100 * time.Millisecond,
			Max:    30 * time.Second,
			Factor: 2,
			Jitter: true,
		}

		for attempt := 1; attempt <= maxPublishAttempts; attempt++ {
			err := pubsub.PublishSync(cmd)
			if err == nil {
				return
			}
			log.Warn().Err(err).Msg(fmt.Sprintf("Failed to publish payout command for game %s, attempt %d", gameId, attempt))
			time.Sleep(bo.Duration())
		}

		log.Error().Msg(fmt.Sprintf("Giving up on payout command for game %s", gameId))
		b.recordPayoutStatus(context.Background(), gameId, model.PayoutFailed)
	}()
}

func (b *payoutBridge) handlePayoutCompleted(ctx context.Context, message *gcppubsub.Message) {
	log.Info().Msg("Received message payload " + string(message.Data))
	messagePayload, err := utils.JsonDecodeByteStream[PayoutResult](message.Data)
	if err != nil {
		log.Warn().Err(err).Msg("Error while parsing PayoutResult message")
		return
	}

	b.recordPayoutStatus(ctx, messagePayload.GameId, model.PayoutCompleted)
	message.Ack()
}

func (b *payoutBridge) handlePayoutFailed(ctx context.Context, message *gcppubsub.Message) {
	log.Info().Msg("Received message payload " + string(message.Data))
	messagePayload, err := utils.JsonDecodeByteStream[PayoutResult](message.Data)
	if err != nil {
		log.Warn().Err(err).Msg("Error while parsing PayoutResult message")
		return
	}

	log.Warn().Msg(fmt.Sprintf("Payout for game %s failed: %s", messagePayload.GameId, messagePayload.Error))
	b.recordPayoutStatus(ctx, messagePayload.GameId, model.PayoutFailed)
	message.Ack()
}

func (b *payoutBridge) recordPayoutStatus(ctx context.Context, gameId string, status model.PayoutStatus) {
	updated, err := b.store.Update(ctx, gameId, func(g *model.Game) error {
		g.PayoutStatus = status
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Msg(fmt.Sprintf("Error recording payout status for game %s", gameId))
		return
	}

	b.hub.Publish(gameId, GameEvent{
		Type:         EventPayoutUpdated,
		GameId:       gameId,
		Status:       updated.Status,
		Winner:       updated.Winner,
		PayoutStatus: updated.PayoutStatus,
	})
}
