package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	yaml "go.yaml.in/yaml/v3"

	"github.com/arnavshah/task-planner-api/pkg/models"
)

// LoadDotEnv loads the first .env file found among paths. Missing files are not an error.
func LoadDotEnv(paths ...string) string {
	if len(paths) == 0 {
		paths = []string{".env", "../.env", "../../.env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			if err := godotenv.Load(p); err == nil {
				return p
			}
		}
	}
	return ""
}

// ReadOptionsFile reads planner settings from a YAML (or JSON) file
func ReadOptionsFile(path string) (models.PlanOptions, error) {
	var opts models.PlanOptions
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("read planner config: %w", err)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("parse planner config %s: %w", path, err)
	}
	return opts, nil
}

// OptionsFromEnv reads PLANNER_* variables
func OptionsFromEnv() (models.PlanOptions, error) {
	var opts models.PlanOptions
	opts.WorkStart = os.Getenv("PLANNER_WORK_START")
	opts.WorkEnd = os.Getenv("PLANNER_WORK_END")
	opts.DependencyOrdering = os.Getenv("PLANNER_DEPENDENCY_ORDERING")
	if v := os.Getenv("PLANNER_WORK_DAYS"); v != "" {
		for _, d := range strings.Split(v, ",") {
			if d = strings.TrimSpace(d); d != "" {
				opts.WorkDays = append(opts.WorkDays, d)
			}
		}
	}

	ints := []struct {
		key string
		set func(int)
	}{
		{"PLANNER_SLOT_MINUTES", func(n int) { opts.SlotMinutes = n }},
		{"PLANNER_MAX_NODES", func(n int) { opts.MaxNodes = n }},
		{"PLANNER_MAX_TIME_MS", func(n int) { ms := int64(n); opts.MaxTimeMs = &ms }},
		{"PLANNER_PLACEMENT_COST", func(n int) { opts.PlacementCost = &n }},
		{"PLANNER_MISS_PENALTY", func(n int) { opts.MissPenalty = &n }},
	}
	for _, e := range ints {
		raw := os.Getenv(e.key)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return opts, fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, e.key, raw)
		}
		e.set(n)
	}
	return opts, nil
}

// Load resolves planner settings: defaults, then the optional file, then the environment
func Load(path string) (SchedulerConfig, CostConfig, error) {
	sc, cc := DefaultSchedulerConfig(), DefaultCostConfig()

	if path != "" {
		fileOpts, err := ReadOptionsFile(path)
		if err != nil {
			return sc, cc, err
		}
		if sc, cc, err = Apply(sc, cc, fileOpts); err != nil {
			return sc, cc, err
		}
	}

	envOpts, err := OptionsFromEnv()
	if err != nil {
		return sc, cc, err
	}
	return Apply(sc, cc, envOpts)
}
