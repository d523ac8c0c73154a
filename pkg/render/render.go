package render

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/arnavshah/task-planner-api/pkg/config"
	"github.com/arnavshah/task-planner-api/pkg/models"
	"github.com/arnavshah/task-planner-api/pkg/scheduler"
)

var (
	warn = color.New(color.Bold, color.FgYellow).SprintFunc()
	ok   = color.New(color.Bold, color.FgGreen).SprintFunc()
)

// WeekGrid renders the schedule as one row per slot step and one column per work day.
// A cell holds the name of the task occupying that step.
func WeekGrid(state *models.ScheduleState, cfg config.SchedulerConfig) string {
	header := table.Row{"Time"}
	for _, d := range cfg.WorkDays {
		header = append(header, d.String())
	}

	byDay := make(map[int][]models.Placement)
	for _, p := range state.SortedPlacements() {
		byDay[int(p.Slot.Day)] = append(byDay[int(p.Slot.Day)], p)
	}

	grid := table.NewWriter()
	grid.AppendHeader(header)
	step := cfg.Slot()
	for t := cfg.WorkStart; t.Before(cfg.WorkEnd); t = t.Add(step) {
		cell := models.TimeSlot{Start: t, End: t.Add(step)}
		row := table.Row{t.String()}
		for _, d := range cfg.WorkDays {
			cell.Day = d
			row = append(row, occupant(state, byDay[int(d)], cell))
		}
		grid.AppendRow(row)
	}
	return grid.Render()
}

func occupant(state *models.ScheduleState, placements []models.Placement, cell models.TimeSlot) string {
	for _, p := range placements {
		if p.Slot.Intersects(cell) {
			return taskName(state, p.TaskID)
		}
	}
	return ""
}

// Placements lists every placement in calendar order, followed by the total
func Placements(state *models.ScheduleState) string {
	list := table.NewWriter()
	list.AppendHeader(table.Row{"#", "Task", "Day", "Start", "End", "Cost"})
	for i, p := range state.SortedPlacements() {
		list.AppendRow(table.Row{i + 1, taskName(state, p.TaskID), p.Slot.Day, p.Slot.Start, p.Slot.End, p.Cost})
	}
	list.AppendFooter(table.Row{"", "", "", "", "Total", state.CostSoFar})
	return list.Render()
}

// Status is a one-line verdict on a planning result
func Status(state *models.ScheduleState) string {
	if state.IsComplete() {
		return ok(fmt.Sprintf("complete schedule, %d tasks, cost %d", len(state.Placed), state.CostSoFar))
	}
	return warn(fmt.Sprintf("incomplete schedule: %d of %d tasks unplaced (best found under budget, not proven optimal)",
		len(state.Unplaced), len(state.Tasks())))
}

var comparisonHeader = table.Row{
	"Strategy",
	"Complete",
	"Cost",
	"Placed",
	"Nodes",
	"Elapsed",
	"Budget Hit",
}

// Comparison tabulates strategy results side by side
func Comparison(results []scheduler.Result) string {
	cmp := table.NewWriter()
	cmp.AppendHeader(comparisonHeader)
	for _, r := range results {
		complete := ok("yes")
		if !r.State.IsComplete() {
			complete = warn("no")
		}
		cmp.AppendRow(table.Row{
			r.Stats.Strategy,
			complete,
			r.State.CostSoFar,
			fmt.Sprintf("%d/%d", len(r.State.Placed), len(r.State.Tasks())),
			r.Stats.NodesExplored,
			fmt.Sprintf("%dms", r.Stats.ElapsedMs),
			r.Stats.BudgetHit,
		})
	}
	return cmp.Render()
}

func taskName(state *models.ScheduleState, id string) string {
	if t, found := state.Task(id); found {
		return t.Name
	}
	return id
}
