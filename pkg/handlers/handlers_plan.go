package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/arnavshah/task-planner-api/pkg/config"
	"github.com/arnavshah/task-planner-api/pkg/ingest"
	"github.com/arnavshah/task-planner-api/pkg/models"
	"github.com/arnavshah/task-planner-api/pkg/render"
	"github.com/arnavshah/task-planner-api/pkg/scheduler"
	"github.com/arnavshah/task-planner-api/pkg/validator"
)

// planRequest is a validated request ready for the engine
type planRequest struct {
	start    *models.ScheduleState
	cfg      config.SchedulerConfig
	costs    config.CostConfig
	warnings []string
}

// requestError carries the HTTP status a preparation failure maps to
type requestError struct {
	status int
	err    error
}

func (e *requestError) Error() string { return e.err.Error() }
func (e *requestError) Unwrap() error { return e.err }

func (h *Handler) prepare(specs []models.TaskSpec, opts models.PlanOptions) (*planRequest, error) {
	if len(specs) == 0 {
		return nil, &requestError{http.StatusBadRequest, errors.New("at least one task is required")}
	}
	tasks, err := ingest.BuildTasks(specs, h.Log)
	if err != nil {
		return nil, &requestError{http.StatusBadRequest, err}
	}
	if err := validator.Validate(tasks); err != nil {
		return nil, &requestError{http.StatusUnprocessableEntity, err}
	}
	cfg, costs, err := config.Apply(h.Scheduler, h.Costs, opts)
	if err != nil {
		return nil, &requestError{http.StatusBadRequest, err}
	}
	warnings := validator.Warnings(tasks)
	for _, w := range warnings {
		h.Log.Warn().Str("reason", w).Msg("task set warning")
	}
	warnings = append(warnings, h.capBudgets(&cfg)...)
	return &planRequest{start: models.NewStartState(tasks), cfg: cfg, costs: costs, warnings: warnings}, nil
}

// capBudgets lowers search budgets above the server ceilings and says so
func (h *Handler) capBudgets(cfg *config.SchedulerConfig) []string {
	var notes []string
	if h.MaxNodesCap > 0 && cfg.MaxNodes > h.MaxNodesCap {
		notes = append(notes, fmt.Sprintf("max_nodes %d lowered to the server limit %d", cfg.MaxNodes, h.MaxNodesCap))
		cfg.MaxNodes = h.MaxNodesCap
	}
	if h.MaxTimeCap > 0 && cfg.MaxTime > h.MaxTimeCap {
		notes = append(notes, fmt.Sprintf("max_time_ms %d lowered to the server limit %d",
			cfg.MaxTime.Milliseconds(), h.MaxTimeCap.Milliseconds()))
		cfg.MaxTime = h.MaxTimeCap
	}
	for _, n := range notes {
		h.Log.Info().Str("reason", n).Msg("search budget capped")
	}
	return notes
}

func (h *Handler) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		status = reqErr.status
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func (h *Handler) run(req *planRequest, strategy string) (scheduler.Result, error) {
	s, err := scheduler.NewStrategy(strategy, req.cfg, req.costs, scheduler.WithLogger(h.Log))
	if err != nil {
		return scheduler.Result{}, &requestError{http.StatusBadRequest, err}
	}
	return scheduler.New(s).PlanWithStats(req.start)
}

// PlanJSON handles the JSON-based planning request
func (h *Handler) PlanJSON(c *gin.Context) {
	var input models.PlanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req, err := h.prepare(input.Tasks, input.Options)
	if err != nil {
		h.fail(c, err)
		return
	}
	res, err := h.run(req, input.Strategy)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.RecordUsage(c, len(req.start.Unplaced), len(res.State.Placed))

	resp := render.View(res)
	resp.Warnings = req.warnings
	if input.Grid {
		resp.Grid = render.WeekGrid(res.State, req.cfg)
	}
	c.JSON(http.StatusOK, resp)
}

// Compare runs both strategies on the same task set
func (h *Handler) Compare(c *gin.Context) {
	var input models.PlanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req, err := h.prepare(input.Tasks, input.Options)
	if err != nil {
		h.fail(c, err)
		return
	}

	var searchers []scheduler.Searcher
	for _, name := range []string{scheduler.StrategyBacktracking, scheduler.StrategyBestFirst} {
		s, err := scheduler.NewStrategy(name, req.cfg, req.costs, scheduler.WithLogger(h.Log))
		if err != nil {
			h.fail(c, err)
			return
		}
		searchers = append(searchers, s)
	}

	results, err := scheduler.Compare(req.start, searchers...)
	if err != nil {
		h.fail(c, err)
		return
	}

	placed := 0
	resp := models.CompareResponse{Results: make([]models.PlanResponse, 0, len(results))}
	for _, r := range results {
		placed += len(r.State.Placed)
		view := render.View(r)
		view.Warnings = req.warnings
		resp.Results = append(resp.Results, view)
	}
	h.RecordUsage(c, len(req.start.Unplaced), placed)
	c.JSON(http.StatusOK, resp)
}

// PlanCSV handles CSV task uploads and answers with the schedule as CSV
func (h *Handler) PlanCSV(c *gin.Context) {
	tasksFile, err := c.FormFile("tasks_file")
	if err != nil || tasksFile == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tasks_file is required"})
		return
	}

	f, err := tasksFile.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open tasks file"})
		return
	}
	defer f.Close()

	specs, err := readTaskCSV(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req, err := h.prepare(specs, models.PlanOptions{})
	if err != nil {
		h.fail(c, err)
		return
	}
	res, err := h.run(req, c.PostForm("strategy"))
	if err != nil {
		h.fail(c, err)
		return
	}

	h.RecordUsage(c, len(req.start.Unplaced), len(res.State.Placed))

	var out strings.Builder
	writer := csv.NewWriter(&out)
	_ = writer.Write([]string{"task_id", "task_name", "day", "start", "end", "cost"})
	for _, v := range render.View(res).Placements {
		_ = writer.Write([]string{v.TaskID, v.TaskName, v.Day, v.Start, v.End, strconv.Itoa(v.Cost)})
	}
	writer.Flush()

	c.JSON(http.StatusOK, gin.H{
		"csv":      out.String(),
		"complete": res.State.IsComplete(),
		"cost":     res.State.CostSoFar,
		"warnings": req.warnings,
	})
}

// readTaskCSV parses name,duration_minutes[,ideal_start,ideal_end,days,depends_on,description].
// List columns are "|" separated.
func readTaskCSV(r io.Reader) ([]models.TaskSpec, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		return nil, errors.New("failed to read tasks header")
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"name", "duration_minutes"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("tasks file is missing the %q column", required)
		}
	}

	field := func(record []string, name string) string {
		if i, ok := cols[name]; ok && i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}
	list := func(record []string, name string) []string {
		raw := field(record, name)
		if raw == "" {
			return nil
		}
		var out []string
		for _, part := range strings.Split(raw, "|") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	}

	var specs []models.TaskSpec
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		minutes, err := strconv.Atoi(field(record, "duration_minutes"))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid duration_minutes", line)
		}
		specs = append(specs, models.TaskSpec{
			Name:            field(record, "name"),
			Description:     field(record, "description"),
			DurationMinutes: minutes,
			IdealStart:      field(record, "ideal_start"),
			IdealEnd:        field(record, "ideal_end"),
			Days:            list(record, "days"),
			DependsOn:       list(record, "depends_on"),
		})
	}
	return specs, nil
}
