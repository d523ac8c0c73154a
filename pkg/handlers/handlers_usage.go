package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arnavshah/task-planner-api/pkg/database"
)

// usageDay is one day of planner traffic for a key
type usageDay struct {
	Date     string  `json:"date"`
	Requests int     `json:"requests"`
	Tasks    int     `json:"tasks"`
	Placed   int     `json:"placed"`
	PlacedPc float64 `json:"placed_pct"`
}

// GetMyUsage reports the calling key's last 30 days, its standing against
// today's request limit, and totals across those days
func (h *Handler) GetMyUsage(c *gin.Context) {
	apiKeyRaw, exists := c.Get("apiKey")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "API Key context missing"})
		return
	}
	apiKey := apiKeyRaw.(*database.APIKey)

	var rows []database.APIUsage
	if err := h.DB.Where("key_id = ?", apiKey.ID).Order("date desc").Limit(30).Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch usage details"})
		return
	}

	today := database.Today()
	usedToday := 0
	var total usageDay
	days := make([]usageDay, 0, len(rows))
	for _, u := range rows {
		day := usageDay{Date: u.Date, Requests: u.RequestCount, Tasks: u.TotalTasks, Placed: u.TotalPlaced}
		if u.TotalTasks > 0 {
			day.PlacedPc = 100 * float64(u.TotalPlaced) / float64(u.TotalTasks)
		}
		if u.Date == today {
			usedToday = u.RequestCount
		}
		total.Requests += day.Requests
		total.Tasks += day.Tasks
		total.Placed += day.Placed
		days = append(days, day)
	}

	remaining := apiKey.RateLimit - usedToday
	if remaining < 0 {
		remaining = 0
	}

	c.JSON(http.StatusOK, gin.H{
		"key_name":   apiKey.Name,
		"rate_limit": apiKey.RateLimit,
		"today": gin.H{
			"date":      today,
			"requests":  usedToday,
			"remaining": remaining,
		},
		"days": days,
		"totals": gin.H{
			"requests": total.Requests,
			"tasks":    total.Tasks,
			"placed":   total.Placed,
		},
	})
}
