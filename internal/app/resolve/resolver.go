package resolve

import (
	"fmt"

	"farmhand/internal/app/inventory"
	"farmhand/internal/domain/farm"
)

// Result is one planning pass over a prioritized task list. The queue
// preserves input priority order, with prerequisite entries inserted
// immediately before the task they unblock. Skipped tasks always carry
// a reason, echoed into Notes for episodic memory.
type Result struct {
	Queue   []farm.ResolvedTask `json:"queue"`
	Skipped []farm.SkippedTask  `json:"skipped"`
	Notes   []string            `json:"notes"`
}

// Resolver decides, fresh on every pass, which resource prerequisites
// each task needs before the executor may commit to it. Nothing here
// persists between passes.
type Resolver struct {
	Tuning farm.Tuning
}

// estimated minutes per task type, used for schedule display only.
var estimatedMinutes = map[farm.TaskType]int{
	farm.TaskWaterCrops:   20,
	farm.TaskHarvestCrops: 15,
	farm.TaskPlantSeeds:   20,
	farm.TaskShipItems:    10,
	farm.TaskClearDebris:  30,
	farm.TaskBuySeeds:     15,
	farm.TaskRefillWater:  5,
	farm.TaskTillSoil:     25,
	farm.TaskNavigate:     5,
}

func (r Resolver) Resolve(tasks []farm.Task, snap farm.Snapshot) Result {
	var out Result
	for _, task := range tasks {
		taskType := task.Type
		if taskType == "" || taskType == farm.TaskUnknown {
			taskType = farm.TaskTypeFromDescription(task.Description)
		}

		switch taskType {
		case farm.TaskWaterCrops:
			if snap.Player.WateringCanWater <= 0 {
				out.Queue = append(out.Queue, prereq(task, farm.TaskRefillWater, "Refill watering can", nil))
			}
			out.Queue = append(out.Queue, resolved(task, taskType))

		case farm.TaskPlantSeeds:
			prereqs, reason := r.plantPrereqs(snap, task)
			if reason != "" {
				out.Skipped = append(out.Skipped, farm.SkippedTask{
					TaskID:      task.ID,
					Description: task.Description,
					Reason:      reason,
				})
				out.Notes = append(out.Notes, fmt.Sprintf("skipped %q: %s", task.Description, reason))
				continue
			}
			out.Queue = append(out.Queue, prereqs...)
			out.Queue = append(out.Queue, resolved(task, taskType))

		case farm.TaskUnknown:
			// Inference failed; pass the task through untouched and let
			// the executor's empty-target handling deal with it.
			out.Queue = append(out.Queue, resolved(task, farm.TaskUnknown))

		default:
			// harvest, ship, clear, till and the explicit prereq types
			// need nothing: tools live in fixed inventory slots.
			out.Queue = append(out.Queue, resolved(task, taskType))
		}
	}
	return out
}

// plantPrereqs returns the prerequisite entries for a plant_seeds
// task, or a non-empty reason when the task cannot be made viable this
// pass.
func (r Resolver) plantPrereqs(snap farm.Snapshot, task farm.Task) ([]farm.ResolvedTask, string) {
	if len(inventory.Seeds(snap.Inventory)) > 0 {
		return nil, ""
	}

	seed, ok := r.Tuning.CheapestSeed()
	if !ok {
		return nil, "no seeds in inventory and no seed catalog to buy from"
	}

	shopSteps := []farm.ResolvedTask{
		prereq(task, farm.TaskNavigate, "Walk to the seed shop", map[string]string{"location": farm.SeedShopLocationName}),
		prereq(task, farm.TaskBuySeeds, "Buy "+seed.Name, map[string]string{"seed": seed.Name}),
	}

	if snap.Player.Money >= seed.Price {
		return shopSteps, ""
	}

	sellable, ok := inventory.FirstSellable(snap.Inventory, r.Tuning)
	if !ok {
		return nil, fmt.Sprintf("no seeds, %dg on hand (cheapest seed %dg), and nothing sellable", snap.Player.Money, seed.Price)
	}

	steps := []farm.ResolvedTask{
		prereq(task, farm.TaskShipItems, "Ship "+sellable.Name+" to afford seeds", map[string]string{"item": sellable.Name}),
	}
	return append(steps, shopSteps...), ""
}

func resolved(task farm.Task, taskType farm.TaskType) farm.ResolvedTask {
	return farm.ResolvedTask{
		TaskID:        task.ID,
		Type:          taskType,
		Description:   task.Description,
		EstimatedTime: estimatedMinutes[taskType],
	}
}

func prereq(task farm.Task, taskType farm.TaskType, description string, params map[string]string) farm.ResolvedTask {
	return farm.ResolvedTask{
		TaskID:        task.ID + ":" + string(taskType),
		Type:          taskType,
		Description:   description,
		IsPrereq:      true,
		PrereqFor:     task.ID,
		Params:        params,
		EstimatedTime: estimatedMinutes[taskType],
	}
}
