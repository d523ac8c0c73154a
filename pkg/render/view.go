package render

import (
	"github.com/arnavshah/task-planner-api/pkg/models"
	"github.com/arnavshah/task-planner-api/pkg/scheduler"
)

// View flattens a search result into the response shape shared by the API and the CLI
func View(res scheduler.Result) models.PlanResponse {
	state := res.State
	views := make([]models.PlacementView, 0, len(state.Placed))
	for _, p := range state.SortedPlacements() {
		views = append(views, models.PlacementView{
			TaskID:   p.TaskID,
			TaskName: taskName(state, p.TaskID),
			Day:      p.Slot.Day.String(),
			Start:    p.Slot.Start.String(),
			End:      p.Slot.End.String(),
			Cost:     p.Cost,
		})
	}
	return models.PlanResponse{
		Complete:    state.IsComplete(),
		Cost:        state.CostSoFar,
		Placements:  views,
		UnplacedIDs: state.UnplacedIDs(),
		Stats:       res.Stats,
	}
}
