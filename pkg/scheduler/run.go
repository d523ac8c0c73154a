package scheduler

import (
	"math"
	"time"

	"github.com/arnavshah/task-planner-api/pkg/config"
	"github.com/arnavshah/task-planner-api/pkg/models"
)

// searchRun carries the mutable bookkeeping of one search invocation.
// Strategies create one per call, so a single strategy value can serve
// concurrent callers.
type searchRun struct {
	maxNodes  int
	maxTime   time.Duration
	started   time.Time
	nodes     int
	peak      int
	best      *models.ScheduleState
	bestCost  int
	budgetHit bool
}

func newSearchRun(cfg config.SchedulerConfig) *searchRun {
	return &searchRun{
		maxNodes: cfg.MaxNodes,
		maxTime:  cfg.MaxTime,
		started:  time.Now(),
		bestCost: math.MaxInt,
	}
}

// visit counts a node and reports whether the budget is now exhausted
func (r *searchRun) visit() bool {
	r.nodes++
	return r.exhausted()
}

func (r *searchRun) exhausted() bool {
	if r.budgetHit {
		return true
	}
	// A zero time budget stops at the first node, whatever the clock resolution.
	if r.nodes > r.maxNodes || time.Since(r.started) >= r.maxTime {
		r.budgetHit = true
	}
	return r.budgetHit
}

// offer records state as the new best if it is complete and strictly cheaper
func (r *searchRun) offer(state *models.ScheduleState) bool {
	if !state.IsComplete() || state.CostSoFar >= r.bestCost {
		return false
	}
	r.best = state
	r.bestCost = state.CostSoFar
	return true
}

func (r *searchRun) elapsed() time.Duration {
	return time.Since(r.started)
}

// Result is a finished search: the returned state plus what it cost to find
type Result struct {
	State *models.ScheduleState
	Found bool
	Stats models.SearchStats
}

func (r *searchRun) result(strategy string, start *models.ScheduleState) Result {
	res := Result{
		State: start,
		Stats: models.SearchStats{
			Strategy:      strategy,
			NodesExplored: r.nodes,
			ElapsedMs:     r.elapsed().Milliseconds(),
			BudgetHit:     r.budgetHit,
			FrontierPeak:  r.peak,
		},
	}
	if r.best != nil {
		res.State = r.best
		res.Found = true
	}
	return res
}
