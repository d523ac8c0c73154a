package scheduler

import (
	"golang.org/x/sync/errgroup"

	"github.com/arnavshah/task-planner-api/pkg/models"
)

// Compare runs every searcher on the same start state concurrently. Results come
// back in argument order. Each search owns its own run bookkeeping, and states are
// never mutated, so sharing start between goroutines is safe.
func Compare(start *models.ScheduleState, searchers ...Searcher) ([]Result, error) {
	if start == nil {
		return nil, ErrNilStartState
	}

	results := make([]Result, len(searchers))
	var g errgroup.Group
	for i, s := range searchers {
		i, s := i, s
		g.Go(func() error {
			results[i] = s.Search(start)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
