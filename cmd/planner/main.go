package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	flagTasks     string
	flagText      string
	flagStrategy  string
	flagConfig    string
	flagMaxNodes  int
	flagMaxTimeMs int64
	flagDays      []string
	flagGrid      bool
	flagJSON      bool
	flagLogLevel  string
	flagModel     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "planner",
		Short: "Plan a week of tasks into free time slots",
		Long: `Planner reads a set of tasks with durations, ideal windows and dependencies,
then searches for the cheapest overlap-free placement of every task into the
working week using backtracking or best-first search.`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&flagTasks, "tasks", "", "Task file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&flagText, "text", "", "Free-text task description to extract tasks from")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Planner config file (YAML)")
	rootCmd.PersistentFlags().IntVar(&flagMaxNodes, "max-nodes", 0, "Search node budget (0 keeps the configured value)")
	rootCmd.PersistentFlags().Int64Var(&flagMaxTimeMs, "max-time", -1, "Search time budget in milliseconds (-1 keeps the configured value)")
	rootCmd.PersistentFlags().StringSliceVar(&flagDays, "days", nil, "Working days, e.g. mon,tue,wed")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Machine-readable JSON output")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagModel, "model", "", "Language model used for --text")

	rootCmd.AddCommand(planCmd())
	rootCmd.AddCommand(compareCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
