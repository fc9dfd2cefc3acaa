package game

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/kollektive-hackathon/coinflip-backend/internal/pkg/commit"
	"github.com/kollektive-hackathon/coinflip-backend/internal/pkg/model"
	"github.com/kollektive-hackathon/coinflip-backend/internal/pkg/reject"
	"github.com/kollektive-hackathon/coinflip-backend/internal/pkg/store"
	"github.com/rs/zerolog/log"
)

const (
	invalidGameError     = "error.game.invalid"
	gameNotFoundError    = "error.game.not-found"
	invalidAddressError  = "error.game.invalid-address"
	alreadyRevealedError = "error.game.already-revealed"
	invalidRevealError   = "error.game.invalid-reveal"
	lengthMismatchError  = "error.commit.length-mismatch"
)

// Mutate-level failures, mapped onto the problem taxonomy once the store
// update has been rolled back.
var (
	errInvalidGame     = errors.New("game missing or not joinable")
	errBadCommitment   = errors.New("commitment is not a well-formed digest")
	errSelfJoin        = errors.New("joining address already owns the game")
	errInvalidAddress  = errors.New("address is not part of the game")
	errAlreadyRevealed = errors.New("player already revealed")
	errInvalidReveal   = errors.New("reveal does not match commitment")
)

type payoutSender interface {
	sendPayout(gameId string, winner string, pot uint64)
}

type notificationHub interface {
	Publish(topic string, event any)
}

type gameService struct {
	store  store.GameStore
	bridge payoutSender
	hub    notificationHub
}

type revealResult struct {
	Player   string
	Resolved bool
	Winner   string
}

func (gs *gameService) createGame(ctx context.Context, request CreateGameRequest) (*model.Game, *reject.ProblemWithTrace) {
	if problem := validateCommitment(request.Address, request.Commitment); problem != nil {
		return nil, problem
	}

	game := &model.Game{
		Id:                uuid.New().String(),
		PlayerAAddress:    request.Address,
		PlayerACommitment: request.Commitment,
		Pot:               1,
		Status:            model.GameWaiting,
		PayoutStatus:      model.PayoutNone,
		TimeCreated:       time.Now().UTC(),
	}

	if err := gs.store.Create(ctx, game); err != nil {
		return nil, &reject.ProblemWithTrace{
			Problem: reject.UnexpectedProblem(err),
			Cause:   err,
		}
	}

	return game, nil
}

func (gs *gameService) joinGame(ctx context.Context, gameId string, request JoinGameRequest) (*model.Game, *reject.ProblemWithTrace) {
	if problem := validateCommitment(request.Address, request.Commitment); problem != nil {
		return nil, problem
	}

	updated, err := gs.store.Update(ctx, gameId, func(g *model.Game) error {
		if g.Status != model.GameWaiting {
			return errInvalidGame
		}
		if g.PlayerAAddress == request.Address {
			return errSelfJoin
		}

		g.PlayerBAddress = &request.Address
		g.PlayerBCommitment = &request.Commitment
		g.Status = model.GameReady
		g.Pot = 2
		return nil
	})

	if err != nil {
		return nil, gs.joinProblem(err)
	}

	gs.hub.Publish(gameId, GameEvent{
		Type:   EventPlayerJoined,
		GameId: gameId,
		Status: updated.Status,
	})

	return updated, nil
}

// reveal accepts a pre-image for one of the two players. The second valid
// reveal resolves the game inside the same atomic update: winner derivation
// and the ready to done transition commit together, so a racing duplicate
// observes the finished game instead of resolving it twice. The payout
// trigger fires after the commit, once, from the call that resolved.
func (gs *gameService) reveal(ctx context.Context, gameId string, request RevealRequest) (*revealResult, *reject.ProblemWithTrace) {
	var result revealResult

	updated, err := gs.store.Update(ctx, gameId, func(g *model.Game) error {
		if g.Status == model.GameDone {
			// Finished games are closed to reveals; same surface as a
			// missing game.
			return store.ErrNotFound
		}

		digest := commit.Hash(request.Reveal)
		reveal := request.Reveal

		switch {
		case g.PlayerAAddress == request.Address:
			if g.PlayerAReveal != nil {
				return errAlreadyRevealed
			}
			if digest != g.PlayerACommitment {
				return errInvalidReveal
			}
			g.PlayerAReveal = &reveal
			result.Player = "A"

		case g.HasPlayerB() && *g.PlayerBAddress == request.Address:
			if g.PlayerBReveal != nil {
				return errAlreadyRevealed
			}
			if digest != *g.PlayerBCommitment {
				return errInvalidReveal
			}
			g.PlayerBReveal = &reveal
			result.Player = "B"

		default:
			return errInvalidAddress
		}

		if !g.BothRevealed() {
			return nil
		}

		outcome, outcomeErr := commit.Outcome(*g.PlayerAReveal, *g.PlayerBReveal)
		if outcomeErr != nil {
			return outcomeErr
		}

		winner := g.PlayerAAddress
		if outcome == commit.WinnerB {
			winner = *g.PlayerBAddress
		}

		now := time.Now().UTC()
		g.Winner = &winner
		g.Status = model.GameDone
		g.PayoutStatus = model.PayoutPending
		g.TimeCompleted = &now

		result.Resolved = true
		result.Winner = winner
		return nil
	})

	if err != nil {
		return nil, gs.revealProblem(err)
	}

	if result.Resolved {
		log.Info().Msg("Game " + gameId + " resolved, winner " + result.Winner)
		gs.bridge.sendPayout(gameId, result.Winner, updated.Pot)
		gs.hub.Publish(gameId, GameEvent{
			Type:   EventGameResolved,
			GameId: gameId,
			Status: updated.Status,
			Winner: updated.Winner,
		})
	} else {
		gs.hub.Publish(gameId, GameEvent{
			Type:   EventPlayerRevealed,
			GameId: gameId,
			Status: updated.Status,
		})
	}

	return &result, nil
}

func (gs *gameService) getGame(ctx context.Context, gameId string) (*model.Game, *reject.ProblemWithTrace) {
	game, err := gs.store.Get(ctx, gameId)
	if errors.Is(err, store.ErrNotFound) {
		return nil, gameNotFound(err)
	}
	if err != nil {
		return nil, &reject.ProblemWithTrace{
			Problem: reject.UnexpectedProblem(err),
			Cause:   err,
		}
	}
	return game, nil
}

func (gs *gameService) joinProblem(err error) *reject.ProblemWithTrace {
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, errInvalidGame):
		return &reject.ProblemWithTrace{
			Problem: reject.NewProblem().
				WithTitle("Invalid game").
				WithStatus(http.StatusBadRequest).
				WithCode(invalidGameError).
				Build(),
			Cause: err,
		}
	case errors.Is(err, errSelfJoin):
		return &reject.ProblemWithTrace{
			Problem: reject.NewProblem().
				WithTitle("Cannot join own game").
				WithStatus(http.StatusBadRequest).
				WithCode(invalidAddressError).
				Build(),
			Cause: err,
		}
	default:
		return &reject.ProblemWithTrace{
			Problem: reject.UnexpectedProblem(err),
			Cause:   err,
		}
	}
}

func (gs *gameService) revealProblem(err error) *reject.ProblemWithTrace {
	var lengthMismatch *commit.LengthMismatchError

	switch {
	case errors.Is(err, store.ErrNotFound):
		return gameNotFound(err)
	case errors.Is(err, errInvalidAddress):
		return &reject.ProblemWithTrace{
			Problem: reject.NewProblem().
				WithTitle("Invalid address").
				WithStatus(http.StatusBadRequest).
				WithCode(invalidAddressError).
				Build(),
			Cause: err,
		}
	case errors.Is(err, errAlreadyRevealed):
		return &reject.ProblemWithTrace{
			Problem: reject.NewProblem().
				WithTitle("Already revealed").
				WithStatus(http.StatusBadRequest).
				WithCode(alreadyRevealedError).
				Build(),
			Cause: err,
		}
	case errors.Is(err, errInvalidReveal):
		return &reject.ProblemWithTrace{
			Problem: reject.NewProblem().
				WithTitle("Invalid reveal").
				WithStatus(http.StatusBadRequest).
				WithCode(invalidRevealError).
				Build(),
			Cause: err,
		}
	case errors.As(err, &lengthMismatch):
		// Commitments are validated as fixed-length digests, so this only
		// fires on an internal invariant violation.
		return &reject.ProblemWithTrace{
			Problem: reject.NewProblem().
				WithTitle("Outcome derivation failed").
				WithStatus(http.StatusInternalServerError).
				WithCode(lengthMismatchError).
				Build(),
			Cause: err,
		}
	default:
		return &reject.ProblemWithTrace{
			Problem: reject.UnexpectedProblem(err),
			Cause:   err,
		}
	}
}

func gameNotFound(err error) *reject.ProblemWithTrace {
	return &reject.ProblemWithTrace{
		Problem: reject.NewProblem().
			WithTitle("Game not found").
			WithStatus(http.StatusNotFound).
			WithCode(gameNotFoundError).
			Build(),
		Cause: err,
	}
}

func validateCommitment(address string, commitment string) *reject.ProblemWithTrace {
	if address == "" {
		problem := reject.NewProblem().
			WithTitle("Invalid request payload").
			WithStatus(http.StatusBadRequest).
			WithCode(invalidAddressError).
			WithDetail("address is required").
			Build()
		return &reject.ProblemWithTrace{Problem: problem, Cause: errInvalidAddress}
	}
	if !commit.ValidDigest(commitment) {
		problem := reject.RequestValidationProblem()
		problem.Detail = "commitment must be a hex encoded 256-bit digest"
		return &reject.ProblemWithTrace{Problem: problem, Cause: errBadCommitment}
	}
	return nil
}
