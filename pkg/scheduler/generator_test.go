package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnavshah/task-planner-api/pkg/config"
	"github.com/arnavshah/task-planner-api/pkg/models"
)

func newGenerator(t *testing.T, cfg config.SchedulerConfig) *Generator {
	t.Helper()
	gen, err := NewGenerator(cfg, config.DefaultCostConfig())
	require.NoError(t, err)
	return gen
}

func TestGenerator_GeneratePlacements(t *testing.T) {
	cfg := mondayConfig()
	cfg.WorkStart, cfg.WorkEnd = models.Clock(8, 0), models.Clock(10, 0)
	cfg.SlotMinutes = 30
	gen := newGenerator(t, cfg)

	start := buildStart(t, taskDef{id: "a", minutes: 60}, taskDef{id: "b", minutes: 30, deps: []string{"a"}})
	a, _ := start.Task("a")
	b, _ := start.Task("b")

	got := gen.GeneratePlacements(a, start)
	require.Len(t, got, 3, "08:00, 08:30 and 09:00; 09:30 would run past work end")
	assert.Equal(t, window(time.Monday, 8, 0, 9, 0), got[0].Slot)
	assert.Equal(t, window(time.Monday, 9, 0, 10, 0), got[2].Slot)
	for _, p := range got {
		assert.Equal(t, "a", p.TaskID)
		assert.Equal(t, 10, p.Cost)
	}

	assert.Empty(t, gen.GeneratePlacements(b, start), "dependent waits for its dependency")

	afterA := gen.Successor(start, a, got[0])
	bSlots := gen.GeneratePlacements(b, afterA)
	require.Len(t, bSlots, 2)
	assert.Equal(t, window(time.Monday, 9, 0, 9, 30), bSlots[0].Slot)
	assert.Equal(t, window(time.Monday, 9, 30, 10, 0), bSlots[1].Slot)
}

func TestGenerator_WalksEveryWorkDay(t *testing.T) {
	cfg := mondayConfig()
	cfg.WorkDays = []time.Weekday{time.Wednesday, time.Monday}
	cfg.WorkStart, cfg.WorkEnd = models.Clock(8, 0), models.Clock(9, 0)
	cfg.SlotMinutes = 60
	gen := newGenerator(t, cfg)

	start := buildStart(t, taskDef{id: "a", minutes: 60})
	a, _ := start.Task("a")
	got := gen.GeneratePlacements(a, start)
	require.Len(t, got, 2)
	assert.Equal(t, time.Wednesday, got[0].Slot.Day, "days are walked in config order")
	assert.Equal(t, time.Monday, got[1].Slot.Day)
}

func TestGenerator_PlacementCost(t *testing.T) {
	gen := newGenerator(t, mondayConfig())
	start := buildStart(t,
		taskDef{id: "free", minutes: 30},
		taskDef{id: "picky", minutes: 30, windows: []models.TimeSlot{
			window(time.Monday, 8, 0, 9, 0),
			window(time.Tuesday, 13, 0, 14, 0),
		}},
	)
	free, _ := start.Task("free")
	picky, _ := start.Task("picky")

	assert.Equal(t, 10, gen.PlacementCost(free, window(time.Friday, 16, 0, 16, 30)))
	assert.Equal(t, 10, gen.PlacementCost(picky, window(time.Monday, 8, 30, 9, 0)))
	assert.Equal(t, 10, gen.PlacementCost(picky, window(time.Tuesday, 13, 0, 13, 30)))
	assert.Equal(t, 20, gen.PlacementCost(picky, window(time.Monday, 8, 40, 9, 10)), "partly outside is a miss")
	assert.Equal(t, 20, gen.PlacementCost(picky, window(time.Tuesday, 8, 0, 8, 30)), "window on another day is a miss")
}

func TestGenerator_EstimateRemaining(t *testing.T) {
	gen := newGenerator(t, mondayConfig())
	start := buildStart(t,
		taskDef{id: "blocker", minutes: 60},
		taskDef{id: "picky", minutes: 30, windows: []models.TimeSlot{window(time.Monday, 8, 0, 9, 0)}},
		taskDef{id: "free", minutes: 30},
	)
	assert.Equal(t, 30, gen.EstimateRemaining(start, start.Unplaced))

	blocker, _ := start.Task("blocker")
	blocked := gen.Successor(start, blocker, models.Placement{TaskID: "blocker", Slot: window(time.Monday, 8, 30, 9, 30), Cost: 10})
	assert.Equal(t, 30, gen.EstimateRemaining(blocked, blocked.Unplaced), "two tasks left, the picky one has lost its window")
	assert.Equal(t, 40, blocked.EstimatedTotalCost)
	assert.Equal(t, 30, gen.LowerBound(blocked), "lower bound ignores window misses")

	elsewhere := gen.Successor(start, blocker, models.Placement{TaskID: "blocker", Slot: window(time.Monday, 10, 0, 11, 0), Cost: 10})
	assert.Equal(t, 30, elsewhere.EstimatedTotalCost)
	assert.GreaterOrEqual(t, elsewhere.EstimatedTotalCost, elsewhere.CostSoFar)
}

func TestGenerator_SuccessorEstimateMatchesSuccessor(t *testing.T) {
	gen := newGenerator(t, mondayConfig())
	start := threeTaskStart(t)
	placed := gen.Successor(start, start.Unplaced["C"], models.Placement{TaskID: "C", Slot: window(time.Monday, 14, 0, 15, 0), Cost: 10})

	for _, state := range []*models.ScheduleState{start, placed} {
		for _, id := range state.UnplacedIDs() {
			task := state.Unplaced[id]
			for _, p := range gen.GeneratePlacements(task, state) {
				next := gen.Successor(state, task, p)
				require.Equal(t, next.EstimatedTotalCost, gen.SuccessorEstimate(state, task, p), "%s at %s", id, p.Slot)
				require.Equal(t, gen.LowerBound(next), gen.SuccessorLowerBound(state, p), "%s at %s", id, p.Slot)
			}
		}
	}
}

func TestGenerator_RejectsInvalidConfig(t *testing.T) {
	cfg := mondayConfig()
	cfg.WorkDays = nil
	_, err := NewGenerator(cfg, config.DefaultCostConfig())
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}
