package ingest

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	yaml "go.yaml.in/yaml/v3"

	"github.com/arnavshah/task-planner-api/pkg/models"
)

// Seeder produces an initial task set
type Seeder interface {
	Seed(ctx context.Context, input string) (map[string]*models.Task, error)
}

// taskNamespace scopes the name-derived task ids
var taskNamespace = uuid.MustParse("6f2f5a0e-4d8a-4a8e-9a36-0c1c9f6f2d11")

// TaskID derives a stable id from a task's name and its position in the input,
// so the same file always yields the same ids and planning runs repeat exactly.
func TaskID(name string, ordinal int) string {
	return uuid.NewSHA1(taskNamespace, []byte(strconv.Itoa(ordinal)+"/"+name)).String()
}

// BuildTasks turns specs into tasks. Dependencies refer to earlier or later specs
// by name; names that match nothing are logged and dropped.
func BuildTasks(specs []models.TaskSpec, log zerolog.Logger) (map[string]*models.Task, error) {
	nameToID := make(map[string]string, len(specs))
	for i, spec := range specs {
		if _, dup := nameToID[spec.Name]; dup {
			return nil, fmt.Errorf("duplicate task name %q", spec.Name)
		}
		nameToID[spec.Name] = TaskID(spec.Name, i)
	}

	tasks := make(map[string]*models.Task, len(specs))
	for _, spec := range specs {
		windows, err := idealWindows(spec)
		if err != nil {
			return nil, fmt.Errorf("task %q: %w", spec.Name, err)
		}

		var deps []string
		for _, depName := range spec.DependsOn {
			depID, ok := nameToID[depName]
			if !ok {
				log.Warn().Str("task", spec.Name).Str("dependency", depName).Msg("dependency not found, ignoring")
				continue
			}
			deps = append(deps, depID)
		}

		id := nameToID[spec.Name]
		task, err := models.NewTask(id, spec.Name, spec.Description,
			time.Duration(spec.DurationMinutes)*time.Minute, deps, windows)
		if err != nil {
			return nil, err
		}
		tasks[id] = task
	}
	return tasks, nil
}

func idealWindows(spec models.TaskSpec) ([]models.TimeSlot, error) {
	if spec.IdealStart == "" && spec.IdealEnd == "" {
		return nil, nil
	}
	start, err := models.ParseTimeOfDay(spec.IdealStart)
	if err != nil {
		return nil, err
	}
	end, err := models.ParseTimeOfDay(spec.IdealEnd)
	if err != nil {
		return nil, err
	}

	windows := make([]models.TimeSlot, 0, len(spec.Days))
	for _, name := range spec.Days {
		day, err := models.ParseWeekday(name)
		if err != nil {
			return nil, err
		}
		slot, err := models.NewTimeSlot(start, end, day)
		if err != nil {
			return nil, err
		}
		windows = append(windows, slot)
	}
	return windows, nil
}

// taskFile is the on-disk layout: either a bare list or {tasks: [...]}
type taskFile struct {
	Tasks []models.TaskSpec `yaml:"tasks"`
}

// ReadSpecs parses YAML or JSON task definitions
func ReadSpecs(data []byte) ([]models.TaskSpec, error) {
	var list []models.TaskSpec
	if err := yaml.Unmarshal(data, &list); err == nil {
		return list, nil
	}
	var file taskFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse task file: %w", err)
	}
	return file.Tasks, nil
}

// LoadFile reads a YAML or JSON task file and builds its tasks
func LoadFile(path string, log zerolog.Logger) (map[string]*models.Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read task file: %w", err)
	}
	specs, err := ReadSpecs(data)
	if err != nil {
		return nil, err
	}
	return BuildTasks(specs, log)
}

// MarshalSpecs renders specs as a YAML task file
func MarshalSpecs(specs []models.TaskSpec) ([]byte, error) {
	return yaml.Marshal(taskFile{Tasks: specs})
}
