package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/arnavshah/task-planner-api/pkg/config"
	"github.com/arnavshah/task-planner-api/pkg/ingest"
	"github.com/arnavshah/task-planner-api/pkg/logging"
	"github.com/arnavshah/task-planner-api/pkg/models"
	"github.com/arnavshah/task-planner-api/pkg/render"
	"github.com/arnavshah/task-planner-api/pkg/scheduler"
	"github.com/arnavshah/task-planner-api/pkg/validator"
)

func logger() zerolog.Logger {
	return logging.NewWithWriter(os.Stderr, flagLogLevel, true)
}

// loadTasks resolves the task set from --tasks, --text or the built-in examples
func loadTasks(ctx context.Context, log zerolog.Logger) (map[string]*models.Task, error) {
	switch {
	case flagTasks != "":
		return ingest.LoadFile(flagTasks, log)
	case flagText != "":
		return ingest.NewLLMSeeder("", flagModel, log).Seed(ctx, flagText)
	default:
		log.Info().Msg("no --tasks or --text given, using the built-in example tasks")
		return ingest.FallbackTasks(), nil
	}
}

// loadConfig layers command-line flags over defaults, the config file and PLANNER_* variables
func loadConfig() (config.SchedulerConfig, config.CostConfig, error) {
	config.LoadDotEnv()
	sc, cc, err := config.Load(flagConfig)
	if err != nil {
		return sc, cc, err
	}
	opts := models.PlanOptions{MaxNodes: flagMaxNodes, WorkDays: flagDays}
	if flagMaxTimeMs >= 0 {
		opts.MaxTimeMs = &flagMaxTimeMs
	}
	return config.Apply(sc, cc, opts)
}

// prepare is shared logic for plan and compare
func prepare(cmd *cobra.Command, log zerolog.Logger) (*models.ScheduleState, config.SchedulerConfig, config.CostConfig, error) {
	sc, cc, err := loadConfig()
	if err != nil {
		return nil, sc, cc, fmt.Errorf("load config: %w", err)
	}
	tasks, err := loadTasks(cmd.Context(), log)
	if err != nil {
		return nil, sc, cc, err
	}
	if len(tasks) == 0 {
		return nil, sc, cc, fmt.Errorf("no tasks to plan")
	}
	if err := validator.Validate(tasks); err != nil {
		return nil, sc, cc, fmt.Errorf("invalid tasks: %w", err)
	}
	for _, w := range validator.Warnings(tasks) {
		log.Warn().Msg(w)
	}
	return models.NewStartState(tasks), sc, cc, nil
}

func planCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Find the cheapest weekly schedule for the tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger()
			start, sc, cc, err := prepare(cmd, log)
			if err != nil {
				return err
			}

			s, err := scheduler.NewStrategy(flagStrategy, sc, cc, scheduler.WithLogger(log))
			if err != nil {
				return err
			}
			res, err := scheduler.New(s).PlanWithStats(start)
			if err != nil {
				return err
			}

			if flagJSON {
				resp := render.View(res)
				if flagGrid {
					resp.Grid = render.WeekGrid(res.State, sc)
				}
				return outputJSON(resp)
			}

			if flagGrid {
				fmt.Println(render.WeekGrid(res.State, sc))
			}
			fmt.Println(render.Placements(res.State))
			fmt.Println(render.Status(res.State))
			fmt.Printf("%s: %d nodes in %dms\n", res.Stats.Strategy, res.Stats.NodesExplored, res.Stats.ElapsedMs)
			return nil
		},
	}

	cmd.Flags().StringVar(&flagStrategy, "strategy", scheduler.StrategyBacktracking, "Search strategy (backtracking, best_first)")
	cmd.Flags().BoolVar(&flagGrid, "grid", true, "Print the week grid")

	return cmd
}

func compareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare",
		Short: "Run every strategy on the same tasks and compare them",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger()
			start, sc, cc, err := prepare(cmd, log)
			if err != nil {
				return err
			}

			var searchers []scheduler.Searcher
			for _, name := range []string{scheduler.StrategyBacktracking, scheduler.StrategyBestFirst} {
				s, err := scheduler.NewStrategy(name, sc, cc, scheduler.WithLogger(log))
				if err != nil {
					return err
				}
				searchers = append(searchers, s)
			}
			results, err := scheduler.Compare(start, searchers...)
			if err != nil {
				return err
			}

			if flagJSON {
				resp := models.CompareResponse{}
				for _, r := range results {
					resp.Results = append(resp.Results, render.View(r))
				}
				return outputJSON(resp)
			}
			fmt.Println(render.Comparison(results))
			return nil
		},
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check tasks for dependency cycles and impossible ideal windows",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger()
			tasks, err := loadTasks(cmd.Context(), log)
			if err != nil {
				return err
			}

			resp := models.ValidationResponse{Valid: true, Tasks: len(tasks), Warnings: validator.Warnings(tasks)}
			if err := validator.Validate(tasks); err != nil {
				resp.Valid = false
				resp.Errors = []string{err.Error()}
				for _, id := range validator.DetectCycle(tasks) {
					resp.Cycle = append(resp.Cycle, tasks[id].Name)
				}
			}

			if flagJSON {
				return outputJSON(resp)
			}
			for _, w := range resp.Warnings {
				fmt.Println("warning:", w)
			}
			if resp.Valid {
				fmt.Printf("%d tasks, no blocking problems found\n", resp.Tasks)
				return nil
			}
			return fmt.Errorf("%d tasks failed validation:\n%s", resp.Tasks, resp.Errors[0])
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed [description]",
		Short: "Extract tasks from free text and print them as a task file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger()
			text := flagText
			if len(args) == 1 {
				text = args[0]
			}

			specs := ingest.FallbackSpecs()
			if text != "" {
				extracted, err := ingest.NewLLMSeeder("", flagModel, log).Extract(cmd.Context(), text)
				if err != nil {
					log.Warn().Err(err).Msg("extraction failed, printing the built-in tasks")
				} else {
					specs = extracted
				}
			}

			if flagJSON {
				return outputJSON(specs)
			}
			data, err := ingest.MarshalSpecs(specs)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(data)
			return err
		},
	}
}

func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
