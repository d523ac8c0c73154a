package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnavshah/task-planner-api/pkg/config"
	"github.com/arnavshah/task-planner-api/pkg/models"
)

type taskDef struct {
	id      string
	minutes int
	deps    []string
	windows []models.TimeSlot
}

func window(day time.Weekday, sh, sm, eh, em int) models.TimeSlot {
	return models.TimeSlot{Start: models.Clock(sh, sm), End: models.Clock(eh, em), Day: day}
}

func buildStart(t *testing.T, defs ...taskDef) *models.ScheduleState {
	t.Helper()
	tasks := make(map[string]*models.Task, len(defs))
	for _, d := range defs {
		task, err := models.NewTask(d.id, "Task "+d.id, "", time.Duration(d.minutes)*time.Minute, d.deps, d.windows)
		require.NoError(t, err)
		tasks[d.id] = task
	}
	return models.NewStartState(tasks)
}

// mondayConfig keeps the search space small enough for quick tests
func mondayConfig() config.SchedulerConfig {
	cfg := config.DefaultSchedulerConfig()
	cfg.WorkDays = []time.Weekday{time.Monday}
	cfg.MaxNodes = 20000
	cfg.MaxTime = 10 * time.Second
	return cfg
}

// threeTaskStart is A before B, with C independent, each with a Monday ideal window
func threeTaskStart(t *testing.T) *models.ScheduleState {
	return buildStart(t,
		taskDef{id: "A", minutes: 30, windows: []models.TimeSlot{window(time.Monday, 8, 0, 9, 0)}},
		taskDef{id: "B", minutes: 60, deps: []string{"A"}, windows: []models.TimeSlot{window(time.Monday, 9, 0, 11, 0)}},
		taskDef{id: "C", minutes: 60, windows: []models.TimeSlot{window(time.Monday, 14, 0, 16, 0)}},
	)
}

// mixedStart is a five task problem over two days with a dependency chain
func mixedStart(t *testing.T) *models.ScheduleState {
	return buildStart(t,
		taskDef{id: "design", minutes: 90, windows: []models.TimeSlot{window(time.Monday, 9, 0, 12, 0)}},
		taskDef{id: "build", minutes: 120, deps: []string{"design"}},
		taskDef{id: "review", minutes: 30, deps: []string{"build"}, windows: []models.TimeSlot{window(time.Tuesday, 8, 0, 9, 0)}},
		taskDef{id: "standup", minutes: 20, windows: []models.TimeSlot{window(time.Monday, 8, 0, 8, 30), window(time.Tuesday, 8, 0, 8, 30)}},
		taskDef{id: "email", minutes: 40},
	)
}

func twoDayConfig() config.SchedulerConfig {
	cfg := mondayConfig()
	cfg.WorkDays = []time.Weekday{time.Monday, time.Tuesday}
	cfg.SlotMinutes = 30
	cfg.MaxNodes = 5000
	return cfg
}

// assertWellFormed checks the invariants every returned state must hold
func assertWellFormed(t *testing.T, cfg config.SchedulerConfig, start, got *models.ScheduleState) {
	t.Helper()
	require.NotNil(t, got)

	// Every task is either placed or pending, never both.
	assert.Equal(t, len(start.Unplaced), len(got.Placed)+len(got.Unplaced))
	for id := range got.Placed {
		_, pending := got.Unplaced[id]
		assert.False(t, pending, "task %s is both placed and pending", id)
	}

	workDays := make(map[time.Weekday]bool)
	for _, d := range cfg.WorkDays {
		workDays[d] = true
	}

	total := 0
	placements := got.SortedPlacements()
	for i, p := range placements {
		total += p.Cost
		task, ok := got.Task(p.TaskID)
		require.True(t, ok)

		assert.Equal(t, task.Duration, p.Slot.Duration(), "task %s keeps its duration", p.TaskID)
		assert.True(t, workDays[p.Slot.Day], "task %s on a work day", p.TaskID)
		assert.False(t, p.Slot.Start.Before(cfg.WorkStart), "task %s starts inside work hours", p.TaskID)
		assert.False(t, p.Slot.End.After(cfg.WorkEnd), "task %s ends inside work hours", p.TaskID)

		for _, other := range placements[i+1:] {
			assert.False(t, p.Slot.Intersects(other.Slot), "%s overlaps %s", p.TaskID, other.TaskID)
		}
		for _, depID := range task.DependencyIDs {
			dep, placed := got.Placed[depID]
			require.True(t, placed, "dependency %s of %s is placed", depID, p.TaskID)
			assert.True(t, dep.Slot.EndsBy(p.Slot), "dependency %s finishes before %s", depID, p.TaskID)
		}
	}
	assert.Equal(t, total, got.CostSoFar)
	assert.GreaterOrEqual(t, got.EstimatedTotalCost, got.CostSoFar)
}

func searchers(t *testing.T, cfg config.SchedulerConfig, costs config.CostConfig) []Searcher {
	t.Helper()
	bt, err := NewBacktracking(cfg, costs)
	require.NoError(t, err)
	bf, err := NewBestFirst(cfg, costs)
	require.NoError(t, err)
	return []Searcher{bt, bf}
}
