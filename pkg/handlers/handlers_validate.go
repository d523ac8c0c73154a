package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arnavshah/task-planner-api/pkg/ingest"
	"github.com/arnavshah/task-planner-api/pkg/models"
	"github.com/arnavshah/task-planner-api/pkg/validator"
)

// ValidateInput runs the pre-flight checks without planning
func (h *Handler) ValidateInput(c *gin.Context) {
	var input models.PlanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, models.ValidationResponse{Errors: []string{err.Error()}})
		return
	}

	if len(input.Tasks) == 0 {
		c.JSON(http.StatusOK, models.ValidationResponse{Errors: []string{"At least one task is required"}})
		return
	}

	tasks, err := ingest.BuildTasks(input.Tasks, h.Log)
	if err != nil {
		c.JSON(http.StatusOK, models.ValidationResponse{Errors: []string{err.Error()}, Tasks: len(input.Tasks)})
		return
	}

	resp := models.ValidationResponse{Valid: true, Tasks: len(tasks), Warnings: validator.Warnings(tasks)}
	if err := validator.Validate(tasks); err != nil {
		resp.Valid = false
		resp.Errors = splitJoined(err)
		for _, id := range validator.DetectCycle(tasks) {
			resp.Cycle = append(resp.Cycle, tasks[id].Name)
		}
	}
	c.JSON(http.StatusOK, resp)
}

// splitJoined flattens errors.Join trees into their messages
func splitJoined(err error) []string {
	var joined interface{ Unwrap() []error }
	if !errors.As(err, &joined) {
		return []string{err.Error()}
	}
	var out []string
	for _, e := range joined.Unwrap() {
		out = append(out, splitJoined(e)...)
	}
	return out
}
