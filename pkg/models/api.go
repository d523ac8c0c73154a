package models

// TaskSpec is the wire form of a task, as written in task files, request bodies
// and language-model extractions. Dependencies and ids are resolved by name.
// Its keys are camelCase, unlike the rest of the API, because they are the keys
// the extraction prompt asks the model to produce.
type TaskSpec struct {
	Name            string   `json:"name" yaml:"name"`
	Description     string   `json:"description,omitempty" yaml:"description,omitempty"`
	DurationMinutes int      `json:"durationMinutes" yaml:"durationMinutes"`
	IdealStart      string   `json:"idealStart,omitempty" yaml:"idealStart,omitempty"`
	IdealEnd        string   `json:"idealEnd,omitempty" yaml:"idealEnd,omitempty"`
	Days            []string `json:"days,omitempty" yaml:"days,omitempty"`
	DependsOn       []string `json:"dependsOn,omitempty" yaml:"dependsOn,omitempty"`
}

// PlanOptions are the per-request overrides of the planner configuration
type PlanOptions struct {
	WorkStart          string   `json:"work_start,omitempty" yaml:"work_start,omitempty"`
	WorkEnd            string   `json:"work_end,omitempty" yaml:"work_end,omitempty"`
	WorkDays           []string `json:"work_days,omitempty" yaml:"work_days,omitempty"`
	SlotMinutes        int      `json:"slot_minutes,omitempty" yaml:"slot_minutes,omitempty"`
	MaxNodes           int      `json:"max_nodes,omitempty" yaml:"max_nodes,omitempty"`
	MaxTimeMs          *int64   `json:"max_time_ms,omitempty" yaml:"max_time_ms,omitempty"`
	DependencyOrdering string   `json:"dependency_ordering,omitempty" yaml:"dependency_ordering,omitempty"`
	PlacementCost      *int     `json:"placement_cost,omitempty" yaml:"placement_cost,omitempty"`
	MissPenalty        *int     `json:"miss_penalty,omitempty" yaml:"miss_penalty,omitempty"`
}

// PlanInput is the data structure for the planning endpoints
type PlanInput struct {
	Tasks    []TaskSpec  `json:"tasks" binding:"required"`
	Strategy string      `json:"strategy,omitempty"`
	Options  PlanOptions `json:"options,omitempty"`
	Grid     bool        `json:"grid,omitempty"`
}

// PlacementView is a placement flattened for clients that render a week grid
type PlacementView struct {
	TaskID   string `json:"task_id"`
	TaskName string `json:"task_name"`
	Day      string `json:"day"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Cost     int    `json:"cost"`
}

// SearchStats describes how much work a strategy did
type SearchStats struct {
	Strategy      string `json:"strategy"`
	NodesExplored int    `json:"nodes_explored"`
	ElapsedMs     int64  `json:"elapsed_ms"`
	BudgetHit     bool   `json:"budget_hit"`
	FrontierPeak  int    `json:"frontier_peak,omitempty"`
}

// PlanResponse is the data structure for the planning result
type PlanResponse struct {
	Complete    bool            `json:"complete"`
	Cost        int             `json:"cost"`
	Placements  []PlacementView `json:"placements"`
	UnplacedIDs []string        `json:"unplaced_task_ids"`
	Stats       SearchStats     `json:"stats"`
	Warnings    []string        `json:"warnings,omitempty"`
	Grid        string          `json:"grid,omitempty"`
}

// CompareResponse holds one result per strategy, in request order
type CompareResponse struct {
	Results []PlanResponse `json:"results"`
}

// ValidationResponse reports pre-flight validation of a task set
type ValidationResponse struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
	Cycle    []string `json:"cycle,omitempty"`
	Tasks    int      `json:"task_count"`
}
