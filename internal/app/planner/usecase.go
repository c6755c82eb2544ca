package planner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"farmhand/internal/app/inventory"
	"farmhand/internal/app/ports"
	"farmhand/internal/app/resolve"
	"farmhand/internal/domain/farm"
)

var ErrInvalidRequest = errors.New("invalid plan request")

// UseCase builds the day's task queue: generate raw tasks by priority
// policy (or accept an externally supplied list), run the prerequisite
// resolver once, persist the outcome, and hand the resolved queue to
// the caller. Repositories may be nil for a dry planning pass.
type UseCase struct {
	Resolver resolve.Resolver
	Plans    ports.PlanRepository
	Notes    ports.NoteRepository
	Tx       ports.TxManager
	Now      func() time.Time
}

type Request struct {
	AgentID string      `json:"agent_id"`
	Day     int         `json:"day"`
	Tasks   []farm.Task `json:"tasks,omitempty"`
}

type Response struct {
	PlanID  string              `json:"plan_id"`
	Queue   []farm.ResolvedTask `json:"queue"`
	Skipped []farm.SkippedTask  `json:"skipped"`
}

func (u UseCase) Execute(ctx context.Context, req Request, snap farm.Snapshot) (Response, error) {
	if req.AgentID == "" {
		return Response{}, ErrInvalidRequest
	}
	nowFn := u.Now
	if nowFn == nil {
		nowFn = time.Now
	}

	tasks := req.Tasks
	if len(tasks) == 0 {
		tasks = GenerateTasks(snap, req.Day, u.Resolver.Tuning)
	}

	result := u.Resolver.Resolve(tasks, snap)
	planID := fmt.Sprintf("plan-%s-%d", req.AgentID, req.Day)

	if err := u.runInTx(ctx, func(ctx context.Context) error {
		return u.persist(ctx, req, planID, result, nowFn)
	}); err != nil {
		return Response{}, err
	}

	return Response{PlanID: planID, Queue: result.Queue, Skipped: result.Skipped}, nil
}

// persist writes the plan run and its advisory notes. Both go in one
// transaction when a manager is configured so a half-saved plan never
// shows up as the latest one.
func (u UseCase) persist(ctx context.Context, req Request, planID string, result resolve.Result, nowFn func() time.Time) error {
	if u.Plans != nil {
		record := ports.PlanRecord{
			PlanID:    planID,
			AgentID:   req.AgentID,
			Day:       req.Day,
			Resolved:  result.Queue,
			Skipped:   result.Skipped,
			CreatedAt: nowFn(),
		}
		if err := u.Plans.Save(ctx, record); err != nil {
			return err
		}
	}
	if u.Notes != nil && len(result.Notes) > 0 {
		notes := make([]ports.NoteRecord, 0, len(result.Notes))
		for _, text := range result.Notes {
			notes = append(notes, ports.NoteRecord{AgentID: req.AgentID, Text: text, CreatedAt: nowFn()})
		}
		if err := u.Notes.Append(ctx, req.AgentID, notes); err != nil {
			return err
		}
	}
	return nil
}

func (u UseCase) runInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if u.Tx == nil {
		return fn(ctx)
	}
	return u.Tx.RunInTx(ctx, fn)
}

// GenerateTasks derives the day's raw task list from the snapshot.
// Priority policy: harvest what is ready before it spoils, keep living
// crops watered, get new seeds in the ground, then clear and prepare
// more land, and ship surplus last.
func GenerateTasks(snap farm.Snapshot, day int, tuning farm.Tuning) []farm.Task {
	var tasks []farm.Task
	priority := 0
	add := func(taskType farm.TaskType, description string) {
		priority++
		tasks = append(tasks, farm.Task{
			ID:          fmt.Sprintf("day%d-%d-%s", day, priority, taskType),
			Type:        taskType,
			Description: description,
			Priority:    priority,
		})
	}

	var ready, dry int
	for _, crop := range snap.Location.Crops {
		if crop.ReadyForHarvest {
			ready++
		} else if !crop.Watered {
			dry++
		}
	}
	if ready > 0 {
		add(farm.TaskHarvestCrops, fmt.Sprintf("Harvest %d ready crops", ready))
	}
	if dry > 0 {
		add(farm.TaskWaterCrops, fmt.Sprintf("Water %d dry crops", dry))
	}

	planted := make(map[farm.Point]bool, len(snap.Location.Crops))
	for _, crop := range snap.Location.Crops {
		planted[crop.Pos] = true
	}
	freeTilled := 0
	for _, pos := range snap.Location.TilledTiles {
		if !planted[pos] {
			freeTilled++
		}
	}
	if freeTilled > 0 {
		add(farm.TaskPlantSeeds, fmt.Sprintf("Plant seeds on %d tilled tiles", freeTilled))
	}

	debris := 0
	for _, obj := range snap.Location.Objects {
		if farm.IsDebrisName(obj.Name) || obj.Type == "Litter" || obj.Type == "debris" {
			debris++
		}
	}
	if debris > 0 {
		add(farm.TaskClearDebris, fmt.Sprintf("Clear %d pieces of debris", debris))
	}

	if sellable, ok := inventory.FirstSellable(snap.Inventory, tuning); ok {
		add(farm.TaskShipItems, "Ship surplus "+sellable.Name)
	}

	return tasks
}
