package handlers

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/arnavshah/task-planner-api/pkg/auth"
	"github.com/arnavshah/task-planner-api/pkg/config"
	"github.com/arnavshah/task-planner-api/pkg/database"
)

// Handler contains dependencies for the route handlers
type Handler struct {
	DB   *gorm.DB
	Auth *auth.Authenticator
	Log  zerolog.Logger

	// Scheduler and Costs are the defaults requests override
	Scheduler config.SchedulerConfig
	Costs     config.CostConfig

	// KeyRatePerSec caps burst traffic per API key; 0 disables it
	KeyRatePerSec int

	// MaxNodesCap and MaxTimeCap bound the budgets a request may ask for; 0 disables a cap
	MaxNodesCap int
	MaxTimeCap  time.Duration

	limiters sync.Map // key id -> *rate.Limiter
}

// New builds a Handler with the default planner configuration
func New(db *gorm.DB, authn *auth.Authenticator, log zerolog.Logger) *Handler {
	return &Handler{
		DB:        db,
		Auth:      authn,
		Log:       log,
		Scheduler: config.DefaultSchedulerConfig(),
		Costs:     config.DefaultCostConfig(),

		MaxNodesCap: config.DefaultMaxNodesCap,
		MaxTimeCap:  config.DefaultMaxTimeCap,
	}
}

func bearer(c *gin.Context) string {
	return strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
}

// AuthMiddleware verifies the JWT token for admin routes
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearer(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		claims, err := h.Auth.VerifyToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set("username", claims.Username)
		c.Next()
	}
}

// APIKeyMiddleware verifies the HMAC API key, enforces its daily request limit
// and throttles bursts
func (h *Handler) APIKeyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := bearer(c)
		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "API Key required"})
			return
		}

		userID, err := h.Auth.VerifyHMACKey(key)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid API Key signature"})
			return
		}

		// Keys are registered on first use. A revoked key keeps its row, so it is
		// found here and refused rather than registered again.
		var apiKey database.APIKey
		err = h.DB.Where(database.APIKey{Key: key}).Attrs(database.APIKey{
			Name:       userID,
			KeyPreview: auth.KeyPreview(key),
			RateLimit:  10000,
		}).FirstOrCreate(&apiKey).Error
		if err != nil {
			h.Log.Error().Err(err).Msg("load api key")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not load API key"})
			return
		}

		if apiKey.Revoked {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "API Key revoked"})
			return
		}

		if !h.allow(apiKey.ID) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}

		used, err := database.RequestsOn(h.DB, apiKey.ID, database.Today())
		if err == nil && apiKey.RateLimit > 0 && used >= apiKey.RateLimit {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Daily request limit reached"})
			return
		}

		now := time.Now()
		h.DB.Model(&apiKey).Update("last_used", &now)

		c.Set("apiKey", &apiKey)
		c.Set("userID", userID)
		c.Next()
	}
}

func (h *Handler) allow(keyID uint) bool {
	if h.KeyRatePerSec <= 0 {
		return true
	}
	l, _ := h.limiters.LoadOrStore(keyID, rate.NewLimiter(rate.Limit(h.KeyRatePerSec), h.KeyRatePerSec))
	return l.(*rate.Limiter).Allow()
}

// RecordUsage records API usage in the database using an efficient upsert
func (h *Handler) RecordUsage(c *gin.Context, taskCount, placedCount int) {
	apiKeyRaw, exists := c.Get("apiKey")
	if !exists {
		return
	}
	apiKey := apiKeyRaw.(*database.APIKey)

	// Use OnConflict for a single-query upsert (supported by both Postgres and SQLite)
	err := h.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"request_count": gorm.Expr("request_count + ?", 1),
			"total_tasks":   gorm.Expr("total_tasks + ?", taskCount),
			"total_placed":  gorm.Expr("total_placed + ?", placedCount),
		}),
	}).Create(&database.APIUsage{
		KeyID:        apiKey.ID,
		Date:         database.Today(),
		RequestCount: 1,
		TotalTasks:   taskCount,
		TotalPlaced:  placedCount,
	}).Error
	if err != nil {
		h.Log.Warn().Err(err).Uint("key_id", apiKey.ID).Msg("record usage")
	}
}
