package farm

import "strings"

type TaskType string

const (
	TaskWaterCrops   TaskType = "water_crops"
	TaskHarvestCrops TaskType = "harvest_crops"
	TaskPlantSeeds   TaskType = "plant_seeds"
	TaskShipItems    TaskType = "ship_items"
	TaskClearDebris  TaskType = "clear_debris"
	TaskBuySeeds     TaskType = "buy_seeds"
	TaskRefillWater  TaskType = "refill_water"
	TaskTillSoil     TaskType = "till_soil"
	TaskNavigate     TaskType = "navigate"
	TaskUnknown      TaskType = "unknown"
)

// TaskTypeFromDescription maps legacy free-text task descriptions to a
// typed task. New plans carry the type explicitly; this fallback exists
// only at the boundary for externally supplied task lists. Checks are
// ordered so more specific phrases win.
func TaskTypeFromDescription(desc string) TaskType {
	d := strings.ToLower(desc)
	switch {
	case strings.Contains(d, "water") && strings.Contains(d, "crop"):
		return TaskWaterCrops
	case strings.Contains(d, "harvest"):
		return TaskHarvestCrops
	case strings.Contains(d, "plant") && strings.Contains(d, "seed"):
		return TaskPlantSeeds
	case strings.Contains(d, "ship") || strings.Contains(d, "sell"):
		return TaskShipItems
	case strings.Contains(d, "clear") && strings.Contains(d, "debris"):
		return TaskClearDebris
	case strings.Contains(d, "buy") && strings.Contains(d, "seed"):
		return TaskBuySeeds
	case strings.Contains(d, "refill") && strings.Contains(d, "water"):
		return TaskRefillWater
	case strings.Contains(d, "till") || strings.Contains(d, "hoe"):
		return TaskTillSoil
	default:
		return TaskUnknown
	}
}

// Task is one entry of a daily plan before prerequisite resolution.
type Task struct {
	ID          string   `json:"id"`
	Type        TaskType `json:"type"`
	Description string   `json:"description"`
	Priority    int      `json:"priority"`
}

// ResolvedTask is one entry of the executor-ready queue. Prerequisite
// entries always precede the task they unblock.
type ResolvedTask struct {
	TaskID        string            `json:"task_id"`
	Type          TaskType          `json:"type"`
	Description   string            `json:"description"`
	IsPrereq      bool              `json:"is_prereq"`
	PrereqFor     string            `json:"prereq_for,omitempty"`
	Params        map[string]string `json:"params,omitempty"`
	EstimatedTime int               `json:"estimated_time"`
}

// SkippedTask records a task dropped during resolution, always with a
// human-readable reason. Unsatisfiable tasks are communicated, never
// silently discarded.
type SkippedTask struct {
	TaskID      string `json:"task_id"`
	Description string `json:"description"`
	Reason      string `json:"reason"`
}

type TaskProgress struct {
	TaskID    string   `json:"task_id"`
	Type      TaskType `json:"type"`
	Total     int      `json:"total"`
	Completed int      `json:"completed"`
	Failed    int      `json:"failed"`
	Skipped   int      `json:"skipped"`
}

type TaskState string

const (
	StateIdle        TaskState = "IDLE"
	StateMoving      TaskState = "MOVING_TO_TARGET"
	StateExecuting   TaskState = "EXECUTING_AT_TARGET"
	StateNeedsRefill TaskState = "NEEDS_REFILL"
	StateComplete    TaskState = "TASK_COMPLETE"
	StateInterrupted TaskState = "INTERRUPTED"
	StateBlocked     TaskState = "BLOCKED"
)
