package main

import (
	"os"

	"github.com/gin-gonic/gin"

	"github.com/arnavshah/task-planner-api/pkg/config"
	"github.com/arnavshah/task-planner-api/pkg/handlers"
	"github.com/arnavshah/task-planner-api/pkg/logging"
)

func main() {
	// Try root and parent directories for flexibility
	envFile := config.LoadDotEnv()

	cfg := config.ServerFromEnv()
	log := logging.New(cfg.LogLevel, cfg.LogPretty)
	if envFile != "" {
		log.Debug().Str("path", envFile).Msg("loaded env file")
	}

	if cfg.GinMode == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	h, err := handlers.Setup(cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("could not initialise server")
		os.Exit(1)
	}
	r := handlers.NewRouter(h)

	log.Info().Str("port", cfg.Port).Msg("server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Error().Err(err).Msg("could not run server")
		os.Exit(1)
	}
}
