package handlers

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/arnavshah/task-planner-api/pkg/auth"
	"github.com/arnavshah/task-planner-api/pkg/config"
	"github.com/arnavshah/task-planner-api/pkg/database"
)

// ErrMissingSecret is returned by Setup when a signing secret is empty
var ErrMissingSecret = errors.New("JWT_SECRET and API_MASTER_SECRET must both be set")

// Setup opens the database, seeds the admin user and loads the planner
// defaults (PLANNER_* variables and the optional PLANNER_CONFIG file).
// Empty signing secrets are refused outside gin's test mode.
func Setup(cfg config.ServerConfig, log zerolog.Logger) (*Handler, error) {
	if gin.Mode() != gin.TestMode && (cfg.JWTSecret == "" || cfg.MasterSecret == "") {
		return nil, ErrMissingSecret
	}

	db, err := database.Open(database.Config{DSN: cfg.DatabaseURL, Path: cfg.DataPath})
	if err != nil {
		return nil, err
	}

	authn := auth.New(cfg.JWTSecret, cfg.MasterSecret)
	created, err := authn.EnsureAdmin(db, cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		return nil, fmt.Errorf("seed admin user: %w", err)
	}
	if created {
		log.Info().Str("username", cfg.AdminUsername).Msg("created admin user")
	}

	h := New(db, authn, log)
	h.KeyRatePerSec = cfg.KeyRatePerSec
	h.MaxNodesCap = cfg.MaxNodesCap
	h.MaxTimeCap = cfg.MaxTimeCap
	if h.Scheduler, h.Costs, err = config.Load(cfg.PlannerConfig); err != nil {
		return nil, fmt.Errorf("load planner config: %w", err)
	}
	return h, nil
}
