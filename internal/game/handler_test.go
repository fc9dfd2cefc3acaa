package game

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kollektive-hackathon/coinflip-backend/internal/pkg/commit"
	"github.com/kollektive-hackathon/coinflip-backend/internal/pkg/model"
	"github.com/kollektive-hackathon/coinflip-backend/internal/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter() (*gin.Engine, *fakePayoutBridge) {
	gin.SetMode(gin.TestMode)

	bridge := &fakePayoutBridge{}
	handler := gameHandler{
		gameService: gameService{
			store:  store.NewMemoryStore(),
			bridge: bridge,
			hub:    &fakeHub{},
		},
	}

	router := gin.New()
	routes := router.Group("/coinflip-api").Group("/game")
	routes.POST("", handler.createGame)
	routes.GET("/:id", handler.getGameStatus)
	routes.POST("/:id/join", handler.joinGame)
	routes.POST("/:id/reveal", handler.reveal)

	return router, bridge
}

func doJSON(t *testing.T, router *gin.Engine, method string, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestGameFlowOverHTTP(t *testing.T) {
	router, bridge := newTestRouter()

	// Create
	recorder := doJSON(t, router, http.MethodPost, "/coinflip-api/game", CreateGameRequest{
		Address:    "A1",
		Commitment: commit.Hash("s1salt1"),
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	var created GameResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &created))
	assert.NotEmpty(t, created.Id)
	assert.Equal(t, model.GameWaiting, created.Status)

	// Join
	recorder = doJSON(t, router, http.MethodPost, "/coinflip-api/game/"+created.Id+"/join", JoinGameRequest{
		Address:    "B1",
		Commitment: commit.Hash("s2salt2"),
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	var joined GameResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &joined))
	assert.Equal(t, model.GameReady, joined.Status)

	// First reveal
	recorder = doJSON(t, router, http.MethodPost, "/coinflip-api/game/"+created.Id+"/reveal", RevealRequest{
		Address: "A1",
		Reveal:  "s1salt1",
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	var firstReveal RevealResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &firstReveal))
	assert.Nil(t, firstReveal.Winner)
	assert.Equal(t, "Reveal accepted for player A", firstReveal.Message)

	// Second reveal resolves
	recorder = doJSON(t, router, http.MethodPost, "/coinflip-api/game/"+created.Id+"/reveal", RevealRequest{
		Address: "B1",
		Reveal:  "s2salt2",
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	var secondReveal RevealResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &secondReveal))
	require.NotNil(t, secondReveal.Winner)
	assert.Equal(t, "B1", *secondReveal.Winner)
	assert.Equal(t, "Game complete and payout sent", secondReveal.Message)
	assert.Equal(t, 1, bridge.callCount())

	// Snapshot
	recorder = doJSON(t, router, http.MethodGet, "/coinflip-api/game/"+created.Id, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var snapshot model.Game
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &snapshot))
	assert.Equal(t, model.GameDone, snapshot.Status)
	require.NotNil(t, snapshot.Winner)
	assert.Equal(t, "B1", *snapshot.Winner)
	assert.Equal(t, uint64(2), snapshot.Pot)
}

func TestGetGameStatus_Unknown(t *testing.T) {
	router, _ := newTestRouter()

	recorder := doJSON(t, router, http.MethodGet, "/coinflip-api/game/missing", nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestCreateGame_BadPayload(t *testing.T) {
	router, _ := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/coinflip-api/game", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestJoinGame_InvalidGameOverHTTP(t *testing.T) {
	router, _ := newTestRouter()

	recorder := doJSON(t, router, http.MethodPost, "/coinflip-api/game/missing/join", JoinGameRequest{
		Address:    "B1",
		Commitment: commit.Hash("s2salt2"),
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	var problem map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &problem))
	assert.Equal(t, invalidGameError, problem["message"])
}
