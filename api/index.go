package handler

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/arnavshah/task-planner-api/pkg/config"
	"github.com/arnavshah/task-planner-api/pkg/handlers"
	"github.com/arnavshah/task-planner-api/pkg/logging"
)

var r *gin.Engine

func init() {
	// Load .env if it exists (for local testing with vercel dev)
	config.LoadDotEnv(".env", "../.env")

	cfg := config.ServerFromEnv()
	log := logging.New(cfg.LogLevel, false)

	gin.SetMode(gin.ReleaseMode)
	h, err := handlers.Setup(cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("could not initialise handler")
		os.Exit(1)
	}
	r = handlers.NewRouter(h)
}

// Handler is the entry point for Vercel Go Runtime
func Handler(w http.ResponseWriter, req *http.Request) {
	r.ServeHTTP(w, req)
}
