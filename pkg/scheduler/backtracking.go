package scheduler

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/arnavshah/task-planner-api/pkg/config"
	"github.com/arnavshah/task-planner-api/pkg/models"
)

// Backtracking is a depth-first branch-and-bound search. It always expands the
// most constrained task and tries its cheapest placements first.
type Backtracking struct {
	gen *Generator
	log zerolog.Logger
}

// NewBacktracking builds the strategy, rejecting invalid configs
func NewBacktracking(cfg config.SchedulerConfig, costs config.CostConfig, opts ...Option) (*Backtracking, error) {
	gen, err := NewGenerator(cfg, costs)
	if err != nil {
		return nil, err
	}
	o := buildOptions(opts)
	return &Backtracking{gen: gen, log: o.logger.With().Str("strategy", StrategyBacktracking).Logger()}, nil
}

// Name identifies the strategy in stats and logs
func (b *Backtracking) Name() string { return StrategyBacktracking }

// FindSchedule returns the best complete schedule found, or start when none was
func (b *Backtracking) FindSchedule(start *models.ScheduleState) *models.ScheduleState {
	return b.Search(start).State
}

// Search runs the branch-and-bound and reports the work it took
func (b *Backtracking) Search(start *models.ScheduleState) Result {
	if start == nil {
		return Result{}
	}
	run := newSearchRun(b.gen.Config())
	b.log.Info().Int("unplaced", len(start.Unplaced)).Msg("starting backtracking search")

	b.search(run, start)

	res := run.result(StrategyBacktracking, start)
	if res.Found {
		b.log.Info().
			Int("cost", run.bestCost).
			Int("nodes", run.nodes).
			Dur("elapsed", run.elapsed()).
			Msg("found best solution")
	} else {
		b.log.Warn().
			Int("nodes", run.nodes).
			Dur("elapsed", run.elapsed()).
			Bool("budget_hit", run.budgetHit).
			Msg("no complete schedule found")
	}
	return res
}

// search explores the subtree under state and reports whether a new best
// complete schedule was found in it. The best schedule itself lives on run.
func (b *Backtracking) search(run *searchRun, state *models.ScheduleState) bool {
	if run.visit() {
		return run.best != nil
	}

	if state.IsComplete() {
		if run.offer(state) {
			b.log.Debug().Int("cost", state.CostSoFar).Int("nodes", run.nodes).Msg("new best solution")
			return true
		}
		return false
	}

	// Bound: even the optimistic estimate does not beat what we have.
	if state.EstimatedTotalCost >= run.bestCost {
		return false
	}

	task, placements := b.mostConstrained(state)
	if task == nil {
		return false
	}

	sort.SliceStable(placements, func(i, j int) bool {
		return placements[i].Cost < placements[j].Cost
	})

	found := false
	for _, p := range placements {
		if b.search(run, b.gen.Successor(state, task, p)) {
			found = true
		}
		if run.exhausted() {
			break
		}
	}
	return found
}

// mostConstrained picks the pending task with the fewest legal placements,
// skipping tasks that have none. Ties go to the lowest task id.
func (b *Backtracking) mostConstrained(state *models.ScheduleState) (*models.Task, []models.Placement) {
	var (
		chosen     *models.Task
		placements []models.Placement
	)
	for _, id := range state.UnplacedIDs() {
		task := state.Unplaced[id]
		candidates := b.gen.GeneratePlacements(task, state)
		if len(candidates) == 0 {
			continue
		}
		if chosen == nil || len(candidates) < len(placements) {
			chosen = task
			placements = candidates
		}
	}
	return chosen, placements
}
