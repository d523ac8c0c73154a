package ingest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnavshah/task-planner-api/pkg/models"
	"github.com/arnavshah/task-planner-api/pkg/validator"
)

func byName(tasks map[string]*models.Task) map[string]*models.Task {
	out := make(map[string]*models.Task, len(tasks))
	for _, t := range tasks {
		out[t.Name] = t
	}
	return out
}

func TestBuildTasks(t *testing.T) {
	specs := []models.TaskSpec{
		{Name: "Plan", DurationMinutes: 30, IdealStart: "08:00", IdealEnd: "09:00", Days: []string{"MONDAY", "wed"}},
		{Name: "Ship", DurationMinutes: 60, DependsOn: []string{"Plan", "Nobody"}},
	}
	tasks, err := BuildTasks(specs, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	named := byName(tasks)
	plan, ship := named["Plan"], named["Ship"]
	assert.Equal(t, 30*time.Minute, plan.Duration)
	assert.Equal(t, []models.TimeSlot{
		{Start: models.Clock(8, 0), End: models.Clock(9, 0), Day: time.Monday},
		{Start: models.Clock(8, 0), End: models.Clock(9, 0), Day: time.Wednesday},
	}, plan.IdealWindows)
	assert.Equal(t, []string{plan.ID}, ship.DependencyIDs, "unknown dependency names are dropped")
	assert.Empty(t, ship.IdealWindows)

	again, err := BuildTasks(specs, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, plan.ID, byName(again)["Plan"].ID, "ids are stable across builds")
	assert.Equal(t, TaskID("Plan", 0), plan.ID)
}

func TestBuildTasks_Errors(t *testing.T) {
	for name, specs := range map[string][]models.TaskSpec{
		"DuplicateName": {{Name: "a", DurationMinutes: 10}, {Name: "a", DurationMinutes: 20}},
		"NoDuration":    {{Name: "a"}},
		"NoName":        {{DurationMinutes: 10}},
		"BadTime":       {{Name: "a", DurationMinutes: 10, IdealStart: "8am", IdealEnd: "09:00", Days: []string{"mon"}}},
		"BadDay":        {{Name: "a", DurationMinutes: 10, IdealStart: "08:00", IdealEnd: "09:00", Days: []string{"someday"}}},
		"Inverted":      {{Name: "a", DurationMinutes: 10, IdealStart: "10:00", IdealEnd: "09:00", Days: []string{"mon"}}},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := BuildTasks(specs, zerolog.Nop())
			assert.Error(t, err)
		})
	}
}

func TestReadSpecs(t *testing.T) {
	list := []byte(`
- name: Write report
  durationMinutes: 45
  idealStart: "09:00"
  idealEnd: "10:00"
  days: [Tuesday]
- name: Send report
  durationMinutes: 10
  dependsOn: [Write report]
`)
	specs, err := ReadSpecs(list)
	require.NoError(t, err)
	require.Len(t, specs, 2)
	assert.Equal(t, 45, specs[0].DurationMinutes)
	assert.Equal(t, []string{"Write report"}, specs[1].DependsOn)

	wrapped := []byte(`{"tasks": [{"name": "Email", "durationMinutes": 20}]}`)
	specs, err = ReadSpecs(wrapped)
	require.NoError(t, err)
	require.Len(t, specs, 1)
	assert.Equal(t, "Email", specs[0].Name)

	_, err = ReadSpecs([]byte("tasks: [unterminated"))
	assert.Error(t, err)
}

func TestLoadFile_RoundTripsMarshalSpecs(t *testing.T) {
	data, err := MarshalSpecs(FallbackSpecs())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "tasks.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	tasks, err := LoadFile(path, zerolog.Nop())
	require.NoError(t, err)
	assert.Len(t, tasks, len(FallbackSpecs()))

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"), zerolog.Nop())
	assert.Error(t, err)
}

func TestFallbackTasks(t *testing.T) {
	tasks := FallbackTasks()
	require.Len(t, tasks, 10)
	require.NoError(t, validator.Validate(tasks))

	named := byName(tasks)
	demo := named["Client Demo"]
	require.NotNil(t, demo)
	require.Len(t, demo.DependencyIDs, 1)
	assert.Equal(t, named["Deployment to Staging"].ID, demo.DependencyIDs[0])

	unit := named["Unit Testing"]
	assert.ElementsMatch(t,
		[]string{named["Backend Implementation"].ID, named["Frontend Implementation"].ID},
		unit.DependencyIDs)

	assert.NotEmpty(t, validator.Warnings(tasks), "some built-in tasks outgrow their ideal window")
}
