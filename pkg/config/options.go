package config

import (
	"fmt"
	"time"

	"github.com/arnavshah/task-planner-api/pkg/models"
)

// Apply layers opts on top of the given configs and validates the result.
// Zero values in opts mean "keep the current setting".
func Apply(sc SchedulerConfig, cc CostConfig, opts models.PlanOptions) (SchedulerConfig, CostConfig, error) {
	if opts.WorkStart != "" {
		t, err := models.ParseTimeOfDay(opts.WorkStart)
		if err != nil {
			return sc, cc, fmt.Errorf("%w: work start: %v", ErrInvalidConfig, err)
		}
		sc.WorkStart = t
	}
	if opts.WorkEnd != "" {
		t, err := models.ParseTimeOfDay(opts.WorkEnd)
		if err != nil {
			return sc, cc, fmt.Errorf("%w: work end: %v", ErrInvalidConfig, err)
		}
		sc.WorkEnd = t
	}
	if len(opts.WorkDays) > 0 {
		days := make([]time.Weekday, 0, len(opts.WorkDays))
		for _, name := range opts.WorkDays {
			d, err := models.ParseWeekday(name)
			if err != nil {
				return sc, cc, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
			}
			days = append(days, d)
		}
		sc.WorkDays = days
	}
	if opts.SlotMinutes != 0 {
		sc.SlotMinutes = opts.SlotMinutes
	}
	if opts.MaxNodes != 0 {
		sc.MaxNodes = opts.MaxNodes
	}
	if opts.MaxTimeMs != nil {
		sc.MaxTime = time.Duration(*opts.MaxTimeMs) * time.Millisecond
	}
	if opts.DependencyOrdering != "" {
		o, ok := models.ParseDependencyOrdering(opts.DependencyOrdering)
		if !ok {
			return sc, cc, fmt.Errorf("%w: unknown dependency ordering %q", ErrInvalidConfig, opts.DependencyOrdering)
		}
		sc.DependencyOrdering = o
	}
	if opts.PlacementCost != nil {
		cc.PlacementCost = *opts.PlacementCost
	}
	if opts.MissPenalty != nil {
		cc.MissPenalty = *opts.MissPenalty
	}

	if err := sc.Validate(); err != nil {
		return sc, cc, err
	}
	if err := cc.Validate(); err != nil {
		return sc, cc, err
	}
	return sc, cc, nil
}
