package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slot(day time.Weekday, sh, sm, eh, em int) TimeSlot {
	return TimeSlot{Start: Clock(sh, sm), End: Clock(eh, em), Day: day}
}

func TestTimeSlot_Intersects(t *testing.T) {
	tests := []struct {
		name string
		a, b TimeSlot
		want bool
	}{
		{"Overlapping", slot(time.Monday, 8, 0, 9, 0), slot(time.Monday, 8, 30, 9, 30), true},
		{"Contained", slot(time.Monday, 8, 0, 12, 0), slot(time.Monday, 9, 0, 10, 0), true},
		{"TouchingEnds", slot(time.Monday, 8, 0, 9, 0), slot(time.Monday, 9, 0, 10, 0), false},
		{"Disjoint", slot(time.Monday, 8, 0, 9, 0), slot(time.Monday, 10, 0, 11, 0), false},
		{"DifferentDays", slot(time.Monday, 8, 0, 9, 0), slot(time.Tuesday, 8, 0, 9, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Intersects(tt.b))
			assert.Equal(t, tt.want, tt.b.Intersects(tt.a), "intersection must be symmetric")
		})
	}
}

func TestTimeSlot_Envelops(t *testing.T) {
	window := slot(time.Monday, 8, 0, 9, 0)

	assert.True(t, window.Envelops(slot(time.Monday, 8, 0, 8, 30)), "shared start is inside")
	assert.True(t, window.Envelops(slot(time.Monday, 8, 30, 9, 0)), "shared end is inside")
	assert.True(t, window.Envelops(window))
	assert.False(t, window.Envelops(slot(time.Monday, 8, 40, 9, 10)))
	assert.False(t, window.Envelops(slot(time.Tuesday, 8, 0, 8, 30)))
}

func TestTimeSlot_CalendarOrder(t *testing.T) {
	mon := slot(time.Monday, 15, 0, 16, 0)
	tue := slot(time.Tuesday, 8, 0, 9, 0)
	sun := slot(time.Sunday, 8, 0, 9, 0)

	assert.True(t, mon.StartsBefore(tue))
	assert.True(t, tue.StartsBefore(sun), "sunday closes the week")
	assert.False(t, sun.StartsBefore(mon))

	assert.True(t, slot(time.Monday, 8, 0, 9, 0).EndsBy(slot(time.Monday, 9, 0, 10, 0)))
	assert.False(t, slot(time.Monday, 8, 0, 9, 30).EndsBy(slot(time.Monday, 9, 0, 10, 0)))
	assert.True(t, mon.EndsBy(tue))
}

func TestNewTimeSlot(t *testing.T) {
	_, err := NewTimeSlot(Clock(10, 0), Clock(9, 0), time.Monday)
	require.ErrorIs(t, err, ErrInvertedSlot)

	s, err := NewTimeSlot(Clock(9, 0), Clock(9, 0), time.Monday)
	require.NoError(t, err)
	assert.Zero(t, s.Duration())
}

func TestNewTask(t *testing.T) {
	_, err := NewTask("t1", "  ", "", time.Hour, nil, nil)
	require.ErrorIs(t, err, ErrEmptyTaskName)

	_, err = NewTask("t1", "Write", "", 0, nil, nil)
	require.ErrorIs(t, err, ErrNonPositiveDuration)

	deps := []string{"t0"}
	task, err := NewTask("t1", "Write", "", 90*time.Minute, deps, nil)
	require.NoError(t, err)
	assert.Equal(t, 90, task.DurationMinutes())

	deps[0] = "changed"
	assert.Equal(t, []string{"t0"}, task.DependencyIDs, "task keeps its own copy of the dependencies")
}

func TestTask_MarshalJSON(t *testing.T) {
	task, err := NewTask("t1", "Write", "", 45*time.Minute, nil,
		[]TimeSlot{slot(time.Wednesday, 8, 0, 9, 0)})
	require.NoError(t, err)

	data, err := json.Marshal(task)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.EqualValues(t, 45, decoded["duration_minutes"])
	windows := decoded["ideal_windows"].([]any)
	assert.Equal(t, "Wednesday", windows[0].(map[string]any)["day"])
	assert.Equal(t, "08:00", windows[0].(map[string]any)["start"])
}

func TestParseTimeOfDay(t *testing.T) {
	got, err := ParseTimeOfDay("08:30")
	require.NoError(t, err)
	assert.Equal(t, Clock(8, 30), got)
	assert.Equal(t, "08:30", got.String())

	got, err = ParseTimeOfDay(" 17:00:00 ")
	require.NoError(t, err)
	assert.Equal(t, Clock(17, 0), got)

	for _, bad := range []string{"", "8", "25:00", "noon"} {
		_, err := ParseTimeOfDay(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseWeekday(t *testing.T) {
	for in, want := range map[string]time.Weekday{
		"monday":   time.Monday,
		"MONDAY":   time.Monday,
		"Tue":      time.Tuesday,
		" sun ":    time.Sunday,
		"Saturday": time.Saturday,
	} {
		got, err := ParseWeekday(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseWeekday("someday")
	assert.Error(t, err)
}

func TestDayIndex(t *testing.T) {
	for i, d := range Week {
		assert.Equal(t, i, DayIndex(d))
	}
}
