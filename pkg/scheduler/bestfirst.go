package scheduler

import (
	"github.com/rs/zerolog"

	"github.com/arnavshah/task-planner-api/pkg/config"
	"github.com/arnavshah/task-planner-api/pkg/models"
)

// BestFirst expands states in order of estimated total cost (A*-style).
// Every pending task is offered at every step; the queue order does the steering.
type BestFirst struct {
	gen *Generator
	log zerolog.Logger
}

// NewBestFirst builds the strategy, rejecting invalid configs
func NewBestFirst(cfg config.SchedulerConfig, costs config.CostConfig, opts ...Option) (*BestFirst, error) {
	gen, err := NewGenerator(cfg, costs)
	if err != nil {
		return nil, err
	}
	o := buildOptions(opts)
	return &BestFirst{gen: gen, log: o.logger.With().Str("strategy", StrategyBestFirst).Logger()}, nil
}

// Name identifies the strategy in stats and logs
func (s *BestFirst) Name() string { return StrategyBestFirst }

// FindSchedule returns the best complete schedule found, or start when none was
func (s *BestFirst) FindSchedule(start *models.ScheduleState) *models.ScheduleState {
	return s.Search(start).State
}

// Search pops the cheapest-looking state until the frontier is empty or the budget
// runs out. Finding a complete schedule does not end the search on its own, but
// states that cannot beat it any more are dropped without being expanded.
func (s *BestFirst) Search(start *models.ScheduleState) Result {
	if start == nil {
		return Result{}
	}
	cfg := s.gen.Config()
	run := newSearchRun(cfg)
	s.log.Info().Int("unplaced", len(start.Unplaced)).Msg("starting best-first search")

	q := newFrontier(cfg.MaxFrontier)
	expanded := make(map[stateKey]struct{})
	q.push(candidate{estimate: start.EstimatedTotalCost, pending: len(start.Unplaced)})

	for q.Len() > 0 {
		item := q.pop()
		// The same placements reached in another order are expanded once.
		if _, done := expanded[item.key]; done {
			continue
		}
		expanded[item.key] = struct{}{}

		current := start
		if item.parent != nil {
			current = s.gen.Successor(item.parent, item.task, item.placement)
		}
		run.nodes++

		complete := current.IsComplete()
		if complete && run.offer(current) {
			s.log.Debug().Int("cost", current.CostSoFar).Int("nodes", run.nodes).Msg("new best solution")
		}
		if run.exhausted() {
			s.log.Warn().Int("nodes", run.nodes).Msg("best-first search stopped: node or time limit reached")
			break
		}
		if complete {
			continue
		}

		// Every completion of current costs at least its lower bound.
		if s.gen.LowerBound(current) >= run.bestCost {
			continue
		}

		for _, id := range current.UnplacedIDs() {
			task := current.Unplaced[id]
			for _, p := range s.gen.GeneratePlacements(task, current) {
				if s.gen.SuccessorLowerBound(current, p) >= run.bestCost {
					continue
				}
				key := item.key.with(p)
				if _, done := expanded[key]; done {
					continue
				}
				q.push(candidate{
					parent:    current,
					task:      task,
					placement: p,
					estimate:  s.gen.SuccessorEstimate(current, task, p),
					pending:   len(current.Unplaced) - 1,
					key:       key,
				})
			}
		}
		if q.Len() > run.peak {
			run.peak = q.Len()
		}
	}

	if q.dropped > 0 {
		s.log.Debug().Int("dropped", q.dropped).Int("limit", cfg.MaxFrontier).Msg("frontier trimmed")
	}
	res := run.result(StrategyBestFirst, start)
	s.log.Info().
		Int("nodes", run.nodes).
		Bool("found", res.Found).
		Int("cost", res.State.CostSoFar).
		Dur("elapsed", run.elapsed()).
		Msg("best-first search explored nodes")
	return res
}
