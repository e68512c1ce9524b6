package main

import (
	"os"

	"github.com/zbonzo/Warlock-sub004/internal/api"
	"github.com/zbonzo/Warlock-sub004/internal/constants"
	"github.com/zbonzo/Warlock-sub004/internal/logging"
	"github.com/zbonzo/Warlock-sub004/internal/network"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Local development convenience; a missing .env file is not an error.
	_ = godotenv.Load()
	checkEnvVars([]string{constants.EnvSessionSecret, constants.EnvGoogleClientID, constants.EnvGoogleClientSecret})

	// Rule configuration file (required). Path may be provided via the
	// WARLOCK_CONFIG env var or defaults to ./warlock_config.json in the
	// current working directory.
	configPath := os.Getenv(constants.EnvConfigPath)
	if configPath == "" {
		configPath = "./warlock_config.json"
	}
	cfg := loadConfigOrExit(configPath)

	// Allow the DB path to be configured via WARLOCK_DB. Default to a
	// `data/` directory inside the module for local development.
	dbPath := os.Getenv(constants.EnvDBPath)
	if dbPath == "" {
		dbPath = "./data/warlock.db"
	}
	repo := createRepositoryOrExit(dbPath)

	broadcaster := network.NewBroadcaster()
	handler := api.NewGameHandler(repo, cfg.Rules, cfg.ActionTimeout, broadcaster)
	authHandler := api.NewAuthHandler(repo)

	startTimeoutScanner(repo, cfg.Rules, cfg.ActionTimeout, broadcaster)

	router := gin.Default()

	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		// Public endpoints
		apiRoutes.GET(constants.RouteAbilities, handler.ListAbilities)
		apiRoutes.GET(constants.RoutePublicGames, handler.ListPublicGames)
		apiRoutes.GET(constants.RouteLeaderboard, handler.ListLeaderboard)
		apiRoutes.GET(constants.RouteVersion, api.Version)
		apiRoutes.GET(constants.RouteGameWatch, handler.WatchGame)

		// Authenticated endpoints
		protected := apiRoutes.Group("")
		protected.Use(api.AuthRequired())

		protected.GET(constants.RoutePlayerStats, handler.GetPlayerStats)
		protected.POST(constants.RoutePlayerStats, handler.UpdatePlayerProfile)
		protected.POST(constants.RouteGames, handler.CreateGame)
		protected.POST(constants.RouteGamesJoin, handler.JoinGame)
		protected.GET(constants.RouteGameByID, handler.GetGame)
		protected.POST(constants.RouteGameStart, handler.StartGame)
		protected.POST(constants.RouteGameEnd, handler.EndGame)
		protected.POST(constants.RouteGameLeave, handler.LeaveGame)
		protected.POST(constants.RouteGameAction, handler.SubmitAction)
	}

	router.POST(constants.RouteAuthGoogleCallBack, authHandler.GoogleOAuthCallback)

	// Start server on configured address
	addr := cfg.ServerAddress
	logging.Info("Server started", logging.Fields{constants.LogFieldAddr: addr})
	if err := router.Run(addr); err != nil {
		logging.Fatal("Failed to start server", err, nil)
	}
}

func checkEnvVars(vars []string) {
	for _, v := range vars {
		if os.Getenv(v) == "" {
			logging.Fatal("Required environment variable not set", nil, logging.Fields{"var": v})
		}
	}
}
