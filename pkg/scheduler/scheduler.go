package scheduler

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/arnavshah/task-planner-api/pkg/config"
	"github.com/arnavshah/task-planner-api/pkg/models"
)

// Strategy names accepted by NewStrategy
const (
	StrategyBacktracking = "backtracking"
	StrategyBestFirst    = "best_first"
)

var (
	// ErrNilStartState is returned when planning is asked to start from nothing
	ErrNilStartState = errors.New("start state must not be nil")
	// ErrUnknownStrategy is returned by NewStrategy for names it does not know
	ErrUnknownStrategy = errors.New("unknown planning strategy")
)

// Strategy turns a start state into the best schedule it can find.
// A returned state with pending tasks means no complete schedule was found.
type Strategy interface {
	FindSchedule(start *models.ScheduleState) *models.ScheduleState
}

// Searcher is a Strategy that also reports search statistics
type Searcher interface {
	Strategy
	Name() string
	Search(start *models.ScheduleState) Result
}

// Option customises a strategy
type Option func(*options)

type options struct {
	logger zerolog.Logger
}

// WithLogger sends search lifecycle events to l
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

func buildOptions(opts []Option) options {
	o := options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewStrategy resolves a strategy by name. An empty name picks backtracking.
func NewStrategy(name string, cfg config.SchedulerConfig, costs config.CostConfig, opts ...Option) (Searcher, error) {
	switch NormalizeStrategy(name) {
	case StrategyBacktracking:
		return NewBacktracking(cfg, costs, opts...)
	case StrategyBestFirst:
		return NewBestFirst(cfg, costs, opts...)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// NormalizeStrategy maps user-facing aliases to canonical strategy names
func NormalizeStrategy(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "backtracking", "bt", "branch_and_bound":
		return StrategyBacktracking
	case "best_first", "best-first", "bestfirst", "astar", "a*", "a_star":
		return StrategyBestFirst
	}
	return name
}

// Scheduler is the single entry point for planning
type Scheduler struct {
	strategy Strategy
}

// New wraps strategy. A nil strategy falls back to Default's backtracking.
func New(strategy Strategy) *Scheduler {
	if strategy == nil {
		return Default()
	}
	return &Scheduler{strategy: strategy}
}

// Default plans with backtracking over the default configuration
func Default() *Scheduler {
	bt, err := NewBacktracking(config.DefaultSchedulerConfig(), config.DefaultCostConfig())
	if err != nil {
		// Defaults always validate.
		panic(err)
	}
	return &Scheduler{strategy: bt}
}

// Strategy returns the strategy the scheduler delegates to
func (s *Scheduler) Strategy() Strategy { return s.strategy }

// Plan runs the strategy from start and returns its result untouched
func (s *Scheduler) Plan(start *models.ScheduleState) (*models.ScheduleState, error) {
	if start == nil {
		return nil, ErrNilStartState
	}
	return s.strategy.FindSchedule(start), nil
}

// PlanWithStats is Plan plus search statistics. Strategies that do not report
// their own statistics are timed from the outside.
func (s *Scheduler) PlanWithStats(start *models.ScheduleState) (Result, error) {
	if start == nil {
		return Result{}, ErrNilStartState
	}
	if searcher, ok := s.strategy.(Searcher); ok {
		return searcher.Search(start), nil
	}

	began := time.Now()
	state := s.strategy.FindSchedule(start)
	return Result{
		State: state,
		Found: state != start && state.IsComplete(),
		Stats: models.SearchStats{
			Strategy:  fmt.Sprintf("%T", s.strategy),
			ElapsedMs: time.Since(began).Milliseconds(),
		},
	}, nil
}
