package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrEmptyTaskName is returned when a task is built without a name
	ErrEmptyTaskName = errors.New("task name must not be empty")
	// ErrNonPositiveDuration is returned when a task duration is zero or negative
	ErrNonPositiveDuration = errors.New("task duration must be positive")
	// ErrInvertedSlot is returned when a time slot starts after it ends
	ErrInvertedSlot = errors.New("time slot start must not be after end")
)

// Task is a unit of work waiting for a place in the week
type Task struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Description   string        `json:"description,omitempty"`
	Duration      time.Duration `json:"-"`
	DependencyIDs []string      `json:"dependency_ids,omitempty"`
	IdealWindows  []TimeSlot    `json:"ideal_windows,omitempty"`
}

// NewTask validates and builds a task. Slices are copied so the caller cannot
// mutate the task afterwards.
func NewTask(id, name, description string, duration time.Duration, deps []string, windows []TimeSlot) (*Task, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyTaskName
	}
	if duration <= 0 {
		return nil, fmt.Errorf("%w: %q has %s", ErrNonPositiveDuration, name, duration)
	}
	return &Task{
		ID:            id,
		Name:          name,
		Description:   description,
		Duration:      duration,
		DependencyIDs: append([]string(nil), deps...),
		IdealWindows:  append([]TimeSlot(nil), windows...),
	}, nil
}

// DurationMinutes returns the task duration in whole minutes
func (t *Task) DurationMinutes() int {
	return int(t.Duration / time.Minute)
}

// MarshalJSON adds duration_minutes to the encoded task
func (t Task) MarshalJSON() ([]byte, error) {
	type alias Task
	return json.Marshal(struct {
		alias
		DurationMinutes int `json:"duration_minutes"`
	}{alias(t), t.DurationMinutes()})
}

// TimeSlot is a [Start, End) range on a single day of the week
type TimeSlot struct {
	Start TimeOfDay
	End   TimeOfDay
	Day   time.Weekday
}

// NewTimeSlot builds a slot, rejecting start > end
func NewTimeSlot(start, end TimeOfDay, day time.Weekday) (TimeSlot, error) {
	if start.After(end) {
		return TimeSlot{}, fmt.Errorf("%w: %s-%s", ErrInvertedSlot, start, end)
	}
	return TimeSlot{Start: start, End: end, Day: day}, nil
}

// Intersects checks if two slots on the same day overlap
func (s TimeSlot) Intersects(other TimeSlot) bool {
	return s.Day == other.Day && s.Start.Before(other.End) && other.Start.Before(s.End)
}

// Envelops checks if other lies entirely inside s on the same day
func (s TimeSlot) Envelops(other TimeSlot) bool {
	return s.Day == other.Day && !other.Start.Before(s.Start) && !other.End.After(s.End)
}

// Duration is the length of the slot
func (s TimeSlot) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// StartsBefore compares slot starts in calendar order
func (s TimeSlot) StartsBefore(other TimeSlot) bool {
	if s.Day != other.Day {
		return DayIndex(s.Day) < DayIndex(other.Day)
	}
	return s.Start.Before(other.Start)
}

// EndsBy reports whether s is finished by the time other starts, in calendar order
func (s TimeSlot) EndsBy(other TimeSlot) bool {
	if s.Day != other.Day {
		return DayIndex(s.Day) < DayIndex(other.Day)
	}
	return !s.End.After(other.Start)
}

func (s TimeSlot) String() string {
	return fmt.Sprintf("%s %s-%s", s.Day, s.Start, s.End)
}

type timeSlotJSON struct {
	Day   string    `json:"day"`
	Start TimeOfDay `json:"start"`
	End   TimeOfDay `json:"end"`
}

// MarshalJSON renders the day by name
func (s TimeSlot) MarshalJSON() ([]byte, error) {
	return json.Marshal(timeSlotJSON{Day: s.Day.String(), Start: s.Start, End: s.End})
}

// UnmarshalJSON reads {"day": "Monday", "start": "08:00", "end": "09:00"}
func (s *TimeSlot) UnmarshalJSON(data []byte) error {
	var raw timeSlotJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	day, err := ParseWeekday(raw.Day)
	if err != nil {
		return err
	}
	slot, err := NewTimeSlot(raw.Start, raw.End, day)
	if err != nil {
		return err
	}
	*s = slot
	return nil
}

// Placement is a task pinned to a slot, with the cost charged for it
type Placement struct {
	TaskID string   `json:"task_id"`
	Slot   TimeSlot `json:"slot"`
	Cost   int      `json:"cost"`
}
