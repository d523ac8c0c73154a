package models

import (
	"sort"
	"strings"
)

// DependencyOrdering decides how a dependency has to sit relative to its dependent
type DependencyOrdering int

const (
	// FinishToStart requires the dependency to end by the time the dependent starts
	FinishToStart DependencyOrdering = iota
	// StartToStart only requires the dependency to start strictly earlier
	StartToStart
)

func (o DependencyOrdering) String() string {
	switch o {
	case StartToStart:
		return "start_to_start"
	default:
		return "finish_to_start"
	}
}

// ParseDependencyOrdering maps a config string to an ordering
func ParseDependencyOrdering(s string) (DependencyOrdering, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "finish_to_start", "finish-to-start", "fs":
		return FinishToStart, true
	case "start_to_start", "start-to-start", "ss":
		return StartToStart, true
	}
	return FinishToStart, false
}

// ScheduleState is a partial schedule. States are never mutated once built:
// every transition goes through WithPlacement, which returns a new state.
type ScheduleState struct {
	Placed             map[string]Placement
	Unplaced           map[string]*Task
	CostSoFar          int
	EstimatedTotalCost int

	// tasks indexes every task of the planning problem, placed or not.
	// It is shared between all states of a run and never written after creation.
	tasks map[string]*Task
}

// NewStartState builds the state planning starts from: nothing placed, every task pending
func NewStartState(tasks map[string]*Task) *ScheduleState {
	all := make(map[string]*Task, len(tasks))
	unplaced := make(map[string]*Task, len(tasks))
	for id, t := range tasks {
		all[id] = t
		unplaced[id] = t
	}
	return &ScheduleState{
		Placed:   map[string]Placement{},
		Unplaced: unplaced,
		tasks:    all,
	}
}

// IsComplete reports whether every task has been placed
func (s *ScheduleState) IsComplete() bool {
	return len(s.Unplaced) == 0
}

// Task looks up any task of the problem by id
func (s *ScheduleState) Task(id string) (*Task, bool) {
	t, ok := s.tasks[id]
	return t, ok
}

// Tasks returns the full task index. Callers must not modify it.
func (s *ScheduleState) Tasks() map[string]*Task {
	return s.tasks
}

// HasSpaceFor checks that slot does not overlap any placed task
func (s *ScheduleState) HasSpaceFor(slot TimeSlot) bool {
	for _, p := range s.Placed {
		if p.Slot.Intersects(slot) {
			return false
		}
	}
	return true
}

// DependenciesPlacedBefore checks that every dependency of task is already placed
// and ordered before slot according to ordering
func (s *ScheduleState) DependenciesPlacedBefore(task *Task, slot TimeSlot, ordering DependencyOrdering) bool {
	for _, depID := range task.DependencyIDs {
		dep, ok := s.Placed[depID]
		if !ok {
			return false
		}
		switch ordering {
		case StartToStart:
			if !dep.Slot.StartsBefore(slot) {
				return false
			}
		default:
			if !dep.Slot.EndsBy(slot) || !dep.Slot.StartsBefore(slot) {
				return false
			}
		}
	}
	return true
}

// DependenciesPlaced reports whether every dependency of task has a placement
func (s *ScheduleState) DependenciesPlaced(task *Task) bool {
	for _, depID := range task.DependencyIDs {
		if _, ok := s.Placed[depID]; !ok {
			return false
		}
	}
	return true
}

// CanPlace is the full legality check for task at slot
func (s *ScheduleState) CanPlace(task *Task, slot TimeSlot, ordering DependencyOrdering) bool {
	return s.HasSpaceFor(slot) && s.DependenciesPlacedBefore(task, slot, ordering)
}

// WithPlacement returns a successor state with p added. The receiver is left untouched.
// estimatedRemaining is the heuristic for the tasks still pending after p.
func (s *ScheduleState) WithPlacement(p Placement, remaining map[string]*Task, estimatedRemaining int) *ScheduleState {
	placed := make(map[string]Placement, len(s.Placed)+1)
	for id, existing := range s.Placed {
		placed[id] = existing
	}
	placed[p.TaskID] = p

	cost := s.CostSoFar + p.Cost
	return &ScheduleState{
		Placed:             placed,
		Unplaced:           remaining,
		CostSoFar:          cost,
		EstimatedTotalCost: cost + estimatedRemaining,
		tasks:              s.tasks,
	}
}

// Without returns a copy of the unplaced set minus id
func (s *ScheduleState) Without(id string) map[string]*Task {
	out := make(map[string]*Task, len(s.Unplaced))
	for k, t := range s.Unplaced {
		if k != id {
			out[k] = t
		}
	}
	return out
}

// UnplacedIDs returns pending task ids in a stable order
func (s *ScheduleState) UnplacedIDs() []string {
	return sortedKeys(s.Unplaced)
}

// PlacedIDs returns placed task ids in a stable order
func (s *ScheduleState) PlacedIDs() []string {
	return sortedKeys(s.Placed)
}

// SortedPlacements returns placements in calendar order
func (s *ScheduleState) SortedPlacements() []Placement {
	out := make([]Placement, 0, len(s.Placed))
	for _, p := range s.Placed {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Slot.Day != out[j].Slot.Day || out[i].Slot.Start != out[j].Slot.Start {
			return out[i].Slot.StartsBefore(out[j].Slot)
		}
		return out[i].TaskID < out[j].TaskID
	})
	return out
}

// Signature identifies the set of placements regardless of the order they were made in
func (s *ScheduleState) Signature() string {
	var b strings.Builder
	for _, id := range s.PlacedIDs() {
		p := s.Placed[id]
		b.WriteString(id)
		b.WriteByte('@')
		b.WriteString(p.Slot.String())
		b.WriteByte(';')
	}
	return b.String()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
