package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTask(t *testing.T, id string, minutes int, deps ...string) *Task {
	t.Helper()
	task, err := NewTask(id, "task "+id, "", time.Duration(minutes)*time.Minute, deps, nil)
	require.NoError(t, err)
	return task
}

func TestNewStartState(t *testing.T) {
	tasks := map[string]*Task{"a": mustTask(t, "a", 30), "b": mustTask(t, "b", 60, "a")}
	start := NewStartState(tasks)

	assert.Empty(t, start.Placed)
	assert.Len(t, start.Unplaced, 2)
	assert.Zero(t, start.CostSoFar)
	assert.False(t, start.IsComplete())

	delete(tasks, "a")
	assert.Len(t, start.Unplaced, 2, "start state owns its maps")
	_, ok := start.Task("a")
	assert.True(t, ok)
}

func TestScheduleState_WithPlacementLeavesParentUntouched(t *testing.T) {
	start := NewStartState(map[string]*Task{"a": mustTask(t, "a", 30), "b": mustTask(t, "b", 30)})
	p := Placement{TaskID: "a", Slot: slot(time.Monday, 8, 0, 8, 30), Cost: 10}

	next := start.WithPlacement(p, start.Without("a"), 10)

	assert.Empty(t, start.Placed)
	assert.Len(t, start.Unplaced, 2)
	assert.Zero(t, start.CostSoFar)

	assert.Equal(t, p, next.Placed["a"])
	assert.Equal(t, []string{"b"}, next.UnplacedIDs())
	assert.Equal(t, 10, next.CostSoFar)
	assert.Equal(t, 20, next.EstimatedTotalCost)
	assert.Len(t, next.Tasks(), 2, "task index is shared across states")
}

func TestScheduleState_HasSpaceFor(t *testing.T) {
	start := NewStartState(map[string]*Task{"a": mustTask(t, "a", 60), "b": mustTask(t, "b", 30)})
	state := start.WithPlacement(Placement{TaskID: "a", Slot: slot(time.Monday, 9, 0, 10, 0)}, start.Without("a"), 0)

	assert.False(t, state.HasSpaceFor(slot(time.Monday, 9, 30, 10, 0)))
	assert.True(t, state.HasSpaceFor(slot(time.Monday, 10, 0, 10, 30)))
	assert.True(t, state.HasSpaceFor(slot(time.Tuesday, 9, 0, 10, 0)))
}

func TestScheduleState_DependenciesPlacedBefore(t *testing.T) {
	a := mustTask(t, "a", 60)
	b := mustTask(t, "b", 60, "a")
	start := NewStartState(map[string]*Task{"a": a, "b": b})

	assert.False(t, start.DependenciesPlaced(b))
	assert.False(t, start.DependenciesPlacedBefore(b, slot(time.Friday, 9, 0, 10, 0), FinishToStart),
		"unplaced dependency blocks the dependent")

	state := start.WithPlacement(Placement{TaskID: "a", Slot: slot(time.Monday, 9, 0, 10, 0)}, start.Without("a"), 0)
	assert.True(t, state.DependenciesPlaced(b))

	overlapping := slot(time.Monday, 9, 30, 10, 30)
	after := slot(time.Monday, 10, 0, 11, 0)
	before := slot(time.Monday, 8, 0, 9, 0)

	assert.False(t, state.DependenciesPlacedBefore(b, overlapping, FinishToStart))
	assert.True(t, state.DependenciesPlacedBefore(b, after, FinishToStart))
	assert.False(t, state.DependenciesPlacedBefore(b, before, FinishToStart))

	assert.True(t, state.DependenciesPlacedBefore(b, overlapping, StartToStart))
	assert.False(t, state.DependenciesPlacedBefore(b, slot(time.Monday, 9, 0, 10, 0), StartToStart),
		"same start is not strictly earlier")

	assert.True(t, state.DependenciesPlacedBefore(b, slot(time.Tuesday, 8, 0, 9, 0), FinishToStart))
}

func TestScheduleState_Signature(t *testing.T) {
	start := NewStartState(map[string]*Task{"a": mustTask(t, "a", 30), "b": mustTask(t, "b", 30)})
	pa := Placement{TaskID: "a", Slot: slot(time.Monday, 8, 0, 8, 30)}
	pb := Placement{TaskID: "b", Slot: slot(time.Monday, 9, 0, 9, 30)}

	ab := start.WithPlacement(pa, start.Without("a"), 0)
	ab = ab.WithPlacement(pb, ab.Without("b"), 0)
	ba := start.WithPlacement(pb, start.Without("b"), 0)
	ba = ba.WithPlacement(pa, ba.Without("a"), 0)

	assert.Equal(t, ab.Signature(), ba.Signature())
	assert.NotEqual(t, start.Signature(), ab.Signature())
	assert.True(t, ab.IsComplete())
	assert.Equal(t, []Placement{pa, pb}, ab.SortedPlacements())
}

func TestParseDependencyOrdering(t *testing.T) {
	o, ok := ParseDependencyOrdering("")
	assert.True(t, ok)
	assert.Equal(t, FinishToStart, o)

	o, ok = ParseDependencyOrdering("Start-To-Start")
	assert.True(t, ok)
	assert.Equal(t, StartToStart, o)
	assert.Equal(t, "start_to_start", o.String())

	_, ok = ParseDependencyOrdering("whenever")
	assert.False(t, ok)
}
