package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arnavshah/task-planner-api/pkg/logging"
)

// Version is reported by the index route
const Version = "3.0.0"

// NewRouter wires every route. The server binary and the serverless entry share it.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(logging.Middleware(h.Log), gin.Recovery())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Weekly Task Planner API",
			"version": Version,
		})
	})

	r.POST("/admin/login", h.Login)

	// Admin Endpoints
	admin := r.Group("/admin")
	admin.Use(h.AuthMiddleware())
	{
		admin.POST("/keys", h.GenerateKey)
		admin.GET("/keys", h.ListKeys)
		admin.PUT("/keys/:id", h.UpdateKeyLimit)
		admin.DELETE("/keys/:id", h.RevokeKey)
		admin.GET("/usage/:id", h.GetUsage)
	}

	// Planner Endpoints
	api := r.Group("/api")
	api.Use(h.APIKeyMiddleware())
	{
		api.POST("/plan", h.PlanJSON)
		api.POST("/plan/csv", h.PlanCSV)
		api.POST("/compare", h.Compare)
		api.POST("/validate", h.ValidateInput)
		api.GET("/usage", h.GetMyUsage)
	}

	// Parity Routes
	r.POST("/plan/json", h.APIKeyMiddleware(), h.PlanJSON)
	r.POST("/plan/csv", h.APIKeyMiddleware(), h.PlanCSV)

	return r
}
