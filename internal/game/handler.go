package game

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kollektive-hackathon/coinflip-backend/internal/pkg/model"
	"github.com/kollektive-hackathon/coinflip-backend/internal/pkg/pubsub"
	"github.com/kollektive-hackathon/coinflip-backend/internal/pkg/reject"
	"github.com/kollektive-hackathon/coinflip-backend/internal/pkg/store"
	"github.com/kollektive-hackathon/coinflip-backend/internal/pkg/ws"
)

type gameHandler struct {
	gameService gameService
}

type GameResponse struct {
	Id     string           `json:"id"`
	Status model.GameStatus `json:"status"`
}

type RevealResponse struct {
	Winner  *string `json:"winner,omitempty"`
	Message string  `json:"message"`
}

func RegisterRoutesAndSubscriptions(rg *gin.RouterGroup, gameStore store.GameStore) {
	hub := ws.NewNotificationHub()
	bridge := &payoutBridge{
		store: gameStore,
		hub:   hub,
	}
	handler := gameHandler{
		gameService: gameService{
			store:  gameStore,
			bridge: bridge,
			hub:    hub,
		},
	}

	routes := rg.Group("/game")
	routes.POST("", handler.createGame)
	routes.GET("/:id", handler.getGameStatus)
	routes.POST("/:id/join", handler.joinGame)
	routes.POST("/:id/reveal", handler.reveal)

	go pubsub.Subscribe(pubsub.SubscriptionHandler{
		SubscriptionId: "chain.solana.payouts.completed",
		Handler:        bridge.handlePayoutCompleted,
	})
	go pubsub.Subscribe(pubsub.SubscriptionHandler{
		SubscriptionId: "chain.solana.payouts.failed",
		Handler:        bridge.handlePayoutFailed,
	})
}

func (gh *gameHandler) createGame(c *gin.Context) {
	body := CreateGameRequest{}
	if err := c.BindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, reject.BodyParseProblem())
		return
	}

	game, err := gh.gameService.createGame(c.Request.Context(), body)
	if err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	c.JSON(http.StatusOK, GameResponse{Id: game.Id, Status: game.Status})
}

func (gh *gameHandler) joinGame(c *gin.Context) {
	body := JoinGameRequest{}
	if err := c.BindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, reject.BodyParseProblem())
		return
	}

	game, err := gh.gameService.joinGame(c.Request.Context(), c.Param("id"), body)
	if err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	c.JSON(http.StatusOK, GameResponse{Id: game.Id, Status: game.Status})
}

func (gh *gameHandler) reveal(c *gin.Context) {
	body := RevealRequest{}
	if err := c.BindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, reject.BodyParseProblem())
		return
	}

	result, err := gh.gameService.reveal(c.Request.Context(), c.Param("id"), body)
	if err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	if result.Resolved {
		winner := result.Winner
		c.JSON(http.StatusOK, RevealResponse{
			Winner:  &winner,
			Message: "Game complete and payout sent",
		})
		return
	}

	c.JSON(http.StatusOK, RevealResponse{
		Message: "Reveal accepted for player " + result.Player,
	})
}

func (gh *gameHandler) getGameStatus(c *gin.Context) {
	game, err := gh.gameService.getGame(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	c.JSON(http.StatusOK, game)
}
