package scheduler

import (
	"github.com/arnavshah/task-planner-api/pkg/config"
	"github.com/arnavshah/task-planner-api/pkg/models"
)

// Generator enumerates legal placements and prices them. It never mutates a state.
type Generator struct {
	cfg   config.SchedulerConfig
	costs config.CostConfig
}

// NewGenerator validates both configs before building the generator
func NewGenerator(cfg config.SchedulerConfig, costs config.CostConfig) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := costs.Validate(); err != nil {
		return nil, err
	}
	return &Generator{cfg: cfg, costs: costs}, nil
}

// Config returns the calendar the generator walks
func (g *Generator) Config() config.SchedulerConfig { return g.cfg }

// GeneratePlacements walks every work day from work start to work end in slot-sized
// steps and keeps the candidates that fit the day, do not overlap anything placed
// and come after all of the task's dependencies.
func (g *Generator) GeneratePlacements(task *models.Task, state *models.ScheduleState) []models.Placement {
	// Nothing can be legal until every dependency has a slot.
	if !state.DependenciesPlaced(task) {
		return nil
	}

	step := g.cfg.Slot()
	var placements []models.Placement
	for _, day := range g.cfg.WorkDays {
		for cursor := g.cfg.WorkStart; ; cursor = cursor.Add(step) {
			end := cursor.Add(task.Duration)
			if end.After(g.cfg.WorkEnd) {
				break
			}
			slot := models.TimeSlot{Start: cursor, End: end, Day: day}
			if state.CanPlace(task, slot, g.cfg.DependencyOrdering) {
				placements = append(placements, models.Placement{
					TaskID: task.ID,
					Slot:   slot,
					Cost:   g.PlacementCost(task, slot),
				})
			}
		}
	}
	return placements
}

// PlacementCost is the flat placement fee plus the miss penalty when the task has
// ideal windows and none of them envelops slot
func (g *Generator) PlacementCost(task *models.Task, slot models.TimeSlot) int {
	cost := g.costs.PlacementCost
	if len(task.IdealWindows) == 0 {
		return cost
	}
	for _, ideal := range task.IdealWindows {
		if ideal.Envelops(slot) {
			return cost
		}
	}
	return cost + g.costs.MissPenalty
}

// EstimateRemaining guesses the cost of placing every task in unplaced on top of state.
// Each pending task costs the placement fee, plus the miss penalty when none of its
// ideal windows is still free. Free means "would not overlap", dependencies are ignored.
// This is a heuristic and can overestimate: a partly blocked window still has room
// for a short task but counts as taken.
func (g *Generator) EstimateRemaining(state *models.ScheduleState, unplaced map[string]*models.Task) int {
	estimate := len(unplaced) * g.costs.PlacementCost
	for _, task := range unplaced {
		if len(task.IdealWindows) == 0 {
			continue
		}
		available := false
		for _, ideal := range task.IdealWindows {
			if state.HasSpaceFor(ideal) {
				available = true
				break
			}
		}
		if !available {
			estimate += g.costs.MissPenalty
		}
	}
	return estimate
}

// LowerBound is a cost no completion of state can undercut: what is placed so far
// plus the flat fee for every pending task. Unlike the estimate it never overestimates.
func (g *Generator) LowerBound(state *models.ScheduleState) int {
	return state.CostSoFar + len(state.Unplaced)*g.costs.PlacementCost
}

// SuccessorLowerBound is LowerBound of the state p would lead to, without building it
func (g *Generator) SuccessorLowerBound(state *models.ScheduleState, p models.Placement) int {
	return state.CostSoFar + p.Cost + (len(state.Unplaced)-1)*g.costs.PlacementCost
}

// SuccessorEstimate is the EstimatedTotalCost Successor would assign, computed
// from state and p alone so queued candidates need no state of their own.
func (g *Generator) SuccessorEstimate(state *models.ScheduleState, task *models.Task, p models.Placement) int {
	estimate := state.CostSoFar + p.Cost
	for id, pending := range state.Unplaced {
		if id == task.ID {
			continue
		}
		estimate += g.costs.PlacementCost
		if len(pending.IdealWindows) == 0 {
			continue
		}
		available := false
		for _, ideal := range pending.IdealWindows {
			if !ideal.Intersects(p.Slot) && state.HasSpaceFor(ideal) {
				available = true
				break
			}
		}
		if !available {
			estimate += g.costs.MissPenalty
		}
	}
	return estimate
}

// Successor builds the state reached by applying p to state
func (g *Generator) Successor(state *models.ScheduleState, task *models.Task, p models.Placement) *models.ScheduleState {
	remaining := state.Without(task.ID)
	next := state.WithPlacement(p, remaining, 0)
	next.EstimatedTotalCost = next.CostSoFar + g.EstimateRemaining(next, remaining)
	return next
}
