package validator

import (
	"errors"
	"fmt"
	"sort"

	"github.com/arnavshah/task-planner-api/pkg/models"
)

var (
	// ErrCircularDependency means the dependency graph has a cycle
	ErrCircularDependency = errors.New("circular dependency")
	// ErrUnknownDependency means a task depends on an id outside the task set
	ErrUnknownDependency = errors.New("unknown dependency")
	// ErrWindowTooShort means none of a task's ideal windows can hold it
	ErrWindowTooShort = errors.New("task does not fit any ideal window")
)

// Validate runs the checks a task set must pass before planning and joins all
// failures. Ideal windows are not checked here, see Warnings.
func Validate(tasks map[string]*models.Task) error {
	var errs []error
	if err := CheckDependencies(tasks); err != nil {
		errs = append(errs, err)
	}
	if cycle := DetectCycle(tasks); cycle != nil {
		errs = append(errs, fmt.Errorf("%w: %v", ErrCircularDependency, names(tasks, cycle)))
	}
	return errors.Join(errs...)
}

// Warnings lists problems that do not stop planning but make some costs unavoidable
func Warnings(tasks map[string]*models.Task) []string {
	err := CheckIdealWindows(tasks)
	if err == nil {
		return nil
	}
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return []string{err.Error()}
	}
	var out []string
	for _, e := range joined.Unwrap() {
		out = append(out, e.Error())
	}
	return out
}

// CheckDependencies reports dependencies on ids missing from the task set
func CheckDependencies(tasks map[string]*models.Task) error {
	var errs []error
	for _, id := range sortedIDs(tasks) {
		task := tasks[id]
		for _, dep := range task.DependencyIDs {
			if _, ok := tasks[dep]; !ok {
				errs = append(errs, fmt.Errorf("%w: %q depends on %s", ErrUnknownDependency, task.Name, dep))
			}
		}
	}
	return errors.Join(errs...)
}

// DetectCycle returns the cycle path if one exists, or nil if the graph is acyclic.
// Uses DFS with coloring: white (unvisited), gray (in progress), black (done).
// A task depending on itself is reported as a one-element cycle.
func DetectCycle(tasks map[string]*models.Task) []string {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	color := make(map[string]int, len(tasks))
	parent := make(map[string]string, len(tasks))

	var dfs func(node string) []string
	dfs = func(node string) []string {
		color[node] = gray
		deps := append([]string(nil), tasks[node].DependencyIDs...)
		sort.Strings(deps)
		for _, next := range deps {
			if _, ok := tasks[next]; !ok {
				continue
			}
			if color[next] == gray {
				cycle := []string{node}
				for cur := node; cur != next; {
					cur = parent[cur]
					cycle = append(cycle, cur)
				}
				for i, j := 0, len(cycle)-1; i < j; i, j = i+1, j-1 {
					cycle[i], cycle[j] = cycle[j], cycle[i]
				}
				return cycle
			}
			if color[next] == white {
				parent[next] = node
				if cycle := dfs(next); cycle != nil {
					return cycle
				}
			}
		}
		color[node] = black
		return nil
	}

	for _, id := range sortedIDs(tasks) {
		if color[id] == white {
			if cycle := dfs(id); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}

// CheckIdealWindows reports tasks that declare ideal windows but fit in none of them.
// Such tasks can still be planned; every placement pays the miss penalty.
func CheckIdealWindows(tasks map[string]*models.Task) error {
	var errs []error
	for _, id := range sortedIDs(tasks) {
		task := tasks[id]
		if len(task.IdealWindows) == 0 {
			continue
		}
		fits := false
		for _, w := range task.IdealWindows {
			if w.Duration() >= task.Duration {
				fits = true
				break
			}
		}
		if !fits {
			errs = append(errs, fmt.Errorf("%w: %q needs %s, windows %v", ErrWindowTooShort, task.Name, task.Duration, task.IdealWindows))
		}
	}
	return errors.Join(errs...)
}

func names(tasks map[string]*models.Task, ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		if t, ok := tasks[id]; ok {
			out[i] = t.Name
		} else {
			out[i] = id
		}
	}
	return out
}

func sortedIDs(tasks map[string]*models.Task) []string {
	ids := make([]string, 0, len(tasks))
	for id := range tasks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
