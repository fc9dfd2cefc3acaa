package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kollektive-hackathon/coinflip-backend/internal/game"
	"github.com/kollektive-hackathon/coinflip-backend/internal/pkg/middleware"
	"github.com/kollektive-hackathon/coinflip-backend/internal/pkg/pubsub"
	"github.com/kollektive-hackathon/coinflip-backend/internal/pkg/store"
	"github.com/kollektive-hackathon/coinflip-backend/internal/ws"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	setupViper()
	setupZerolog()
	pubsub.InitPubSub()
	gameStore := setupStore()
	apiRouter := setupApiRouter(gameStore)

	defer func() { pubsub.CloseClient() }()

	port := viper.Get("PORT").(string)
	server := &http.Server{
		Addr:         port,
		Handler:      apiRouter,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	server.ListenAndServe()
}

func setupStore() store.GameStore {
	dbUrl, _ := viper.Get("DB_URL").(string)
	if dbUrl == "" {
		log.Info().Msg("DB_URL not set, using in-memory game store")
		return store.NewMemoryStore()
	}

	db, err := gorm.Open(postgres.Open(dbUrl), &gorm.Config{})

	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}

	sqlDb, _ := db.DB()

	sqlDb.SetMaxOpenConns(50)
	sqlDb.SetConnMaxLifetime(time.Minute * 10)

	return store.NewGormStore(db)
}

func setupApiRouter(gameStore store.GameStore) *gin.Engine {
	apiRouter := gin.Default()
	routerGroup := apiRouter.Group("/coinflip-api")

	middleware.RegisterGlobalMiddleware(apiRouter)

	ws.RegisterRoutes(routerGroup)
	game.RegisterRoutesAndSubscriptions(routerGroup, gameStore)

	return apiRouter
}

func setupViper() {
	viper.AutomaticEnv()
	viper.SetConfigFile("./.env")
}

func setupZerolog() {
	zerolog.LevelFieldName = "severity"
	zerolog.TimestampFieldName = "time"
	zerolog.TimeFieldFormat = time.RFC3339Nano
}
