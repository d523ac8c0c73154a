package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/arnavshah/task-planner-api/pkg/models"
)

// ErrInvalidConfig wraps every configuration validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

// SchedulerConfig bounds the calendar and the search effort
type SchedulerConfig struct {
	WorkStart          models.TimeOfDay
	WorkEnd            models.TimeOfDay
	WorkDays           []time.Weekday
	SlotMinutes        int
	MaxNodes           int
	MaxTime            time.Duration
	DependencyOrdering models.DependencyOrdering

	// MaxFrontier caps the states best-first keeps queued. Past it the
	// worst-estimated half is dropped.
	MaxFrontier int
}

// DefaultSchedulerConfig is an 08:00-17:00 week with 10 minute steps
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		WorkStart:          models.Clock(8, 0),
		WorkEnd:            models.Clock(17, 0),
		WorkDays:           append([]time.Weekday(nil), models.Week...),
		SlotMinutes:        10,
		MaxNodes:           10000,
		MaxTime:            30 * time.Second,
		DependencyOrdering: models.FinishToStart,
		MaxFrontier:        100000,
	}
}

// NewSchedulerConfig builds and validates a config over the full week
func NewSchedulerConfig(workStart, workEnd models.TimeOfDay, slotMinutes, maxNodes int, maxTime time.Duration) (SchedulerConfig, error) {
	cfg := DefaultSchedulerConfig()
	cfg.WorkStart = workStart
	cfg.WorkEnd = workEnd
	cfg.SlotMinutes = slotMinutes
	cfg.MaxNodes = maxNodes
	cfg.MaxTime = maxTime
	if err := cfg.Validate(); err != nil {
		return SchedulerConfig{}, err
	}
	return cfg, nil
}

// Validate rejects configs the planner cannot work with. Nothing is clamped.
func (c SchedulerConfig) Validate() error {
	if !c.WorkStart.Before(c.WorkEnd) {
		return fmt.Errorf("%w: work start %s must be before work end %s", ErrInvalidConfig, c.WorkStart, c.WorkEnd)
	}
	if c.WorkEnd.Sub(0) > 24*time.Hour {
		return fmt.Errorf("%w: work end %s is past midnight", ErrInvalidConfig, c.WorkEnd)
	}
	if c.SlotMinutes <= 0 {
		return fmt.Errorf("%w: slot minutes must be > 0, got %d", ErrInvalidConfig, c.SlotMinutes)
	}
	if c.MaxNodes <= 0 {
		return fmt.Errorf("%w: max nodes must be > 0, got %d", ErrInvalidConfig, c.MaxNodes)
	}
	if c.MaxFrontier <= 0 {
		return fmt.Errorf("%w: max frontier must be > 0, got %d", ErrInvalidConfig, c.MaxFrontier)
	}
	if c.MaxTime < 0 {
		return fmt.Errorf("%w: max time must be >= 0, got %s", ErrInvalidConfig, c.MaxTime)
	}
	if len(c.WorkDays) == 0 {
		return fmt.Errorf("%w: at least one work day is required", ErrInvalidConfig)
	}
	seen := make(map[time.Weekday]bool, len(c.WorkDays))
	for _, d := range c.WorkDays {
		if d < time.Sunday || d > time.Saturday {
			return fmt.Errorf("%w: unknown work day %d", ErrInvalidConfig, d)
		}
		if seen[d] {
			return fmt.Errorf("%w: duplicate work day %s", ErrInvalidConfig, d)
		}
		seen[d] = true
	}
	return nil
}

// Slot is the placement granularity as a duration
func (c SchedulerConfig) Slot() time.Duration {
	return time.Duration(c.SlotMinutes) * time.Minute
}

// CostConfig prices a placement
type CostConfig struct {
	PlacementCost int
	MissPenalty   int
}

// DefaultCostConfig charges 10 per placement and 10 per ideal-window miss
func DefaultCostConfig() CostConfig {
	return CostConfig{PlacementCost: 10, MissPenalty: 10}
}

// NewCostConfig builds and validates a cost config
func NewCostConfig(placementCost, missPenalty int) (CostConfig, error) {
	c := CostConfig{PlacementCost: placementCost, MissPenalty: missPenalty}
	if err := c.Validate(); err != nil {
		return CostConfig{}, err
	}
	return c, nil
}

// Validate rejects negative costs
func (c CostConfig) Validate() error {
	if c.PlacementCost < 0 {
		return fmt.Errorf("%w: placement cost must be >= 0, got %d", ErrInvalidConfig, c.PlacementCost)
	}
	if c.MissPenalty < 0 {
		return fmt.Errorf("%w: miss penalty must be >= 0, got %d", ErrInvalidConfig, c.MissPenalty)
	}
	return nil
}
