package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"farmhand/internal/adapter/bridge/stardew"
	commentarymem "farmhand/internal/adapter/commentary/memory"
	metricsinmem "farmhand/internal/adapter/metrics/inmemory"
	memrepo "farmhand/internal/adapter/repo/memory"
	"farmhand/internal/app/planner"
	"farmhand/internal/app/resolve"
	"farmhand/internal/app/session"
	"farmhand/internal/domain/farm"
)

const tickInterval = 300 * time.Millisecond

// The agent binary drives one full day against a live game: plan the
// task queue from a fresh snapshot, then run each task tick by tick,
// executing every emitted action over the bridge and feeding the
// result back.
func main() {
	url := strings.TrimSpace(os.Getenv("FARMHAND_BRIDGE_URL"))
	if url == "" {
		url = "ws://localhost:8765/game"
	}
	agentID := strings.TrimSpace(os.Getenv("FARMHAND_AGENT_ID"))
	if agentID == "" {
		agentID = "farmhand"
	}
	tuning := farm.DefaultTuning()
	if path := strings.TrimSpace(os.Getenv("FARMHAND_TUNING_PATH")); path != "" {
		var err error
		tuning, err = farm.LoadTuning(path)
		if err != nil {
			log.Fatalf("load tuning %s: %v", path, err)
		}
	}

	ctx := context.Background()
	bridge := stardew.NewClient(stardew.Config{URL: url})
	if err := bridge.Connect(ctx); err != nil {
		log.Fatalf("connect to game bridge: %v", err)
	}
	defer bridge.Close()

	store := memrepo.NewStore()
	sink := commentarymem.NewSink(256)
	plannerUC := planner.UseCase{
		Resolver: resolve.Resolver{Tuning: tuning},
		Plans:    memrepo.NewPlanRepo(store),
		Notes:    memrepo.NewNoteRepo(store),
		Now:      time.Now,
	}
	sessionUC := &session.UseCase{
		Planner:  plannerUC,
		Progress: memrepo.NewProgressRepo(store),
		Events:   memrepo.NewEventRepo(store),
		Sink:     sink,
		Metrics:  metricsinmem.NewRecorder(),
		Oracle:   bridge,
		Tuning:   tuning,
		Now:      time.Now,
	}

	snap, err := bridge.Snapshot(ctx)
	if err != nil {
		log.Fatalf("initial snapshot: %v", err)
	}
	plan, err := plannerUC.Execute(ctx, planner.Request{AgentID: agentID, Day: 1}, snap)
	if err != nil {
		log.Fatalf("plan day: %v", err)
	}
	log.Printf("plan %s: %d tasks, %d skipped", plan.PlanID, len(plan.Queue), len(plan.Skipped))
	for _, skipped := range plan.Skipped {
		log.Printf("skipped %s: %s", skipped.TaskID, skipped.Reason)
	}

	for _, task := range plan.Queue {
		runTask(ctx, bridge, sessionUC, agentID, task)
	}
	log.Printf("day complete")
}

func runTask(ctx context.Context, bridge *stardew.Client, sessionUC *session.UseCase, agentID string, task farm.ResolvedTask) {
	snap, err := bridge.Snapshot(ctx)
	if err != nil {
		log.Printf("snapshot before %s: %v, skipping task", task.TaskID, err)
		return
	}

	start, err := sessionUC.StartTask(ctx, session.StartTaskRequest{
		AgentID:  agentID,
		TaskID:   task.TaskID,
		TaskType: task.Type,
	}, snap)
	if err != nil {
		log.Printf("start %s: %v", task.TaskID, err)
		return
	}
	if start.State == farm.StateBlocked {
		log.Printf("task %s blocked: no targets", task.TaskID)
		_ = sessionUC.ClearTask(agentID)
		if task.Type == farm.TaskPlantSeeds {
			// No tilled ground to plant on: survey a fresh batch of
			// cells and cultivate them from scratch instead.
			runFarming(ctx, bridge, sessionUC, agentID)
		}
		return
	}
	log.Printf("task %s (%s): %d targets", task.TaskID, task.Type, start.Progress.Total)

	for {
		snap, err := bridge.Snapshot(ctx)
		if err != nil {
			log.Printf("snapshot during %s: %v", task.TaskID, err)
			_ = sessionUC.Interrupt(agentID, "lost game connection")
			return
		}
		sur, err := bridge.Surroundings(ctx)
		if err != nil {
			sur = farm.Surroundings{NearestWaterDistance: -1}
		}

		tick, err := sessionUC.Tick(ctx, session.TickRequest{AgentID: agentID, Surroundings: sur}, snap)
		if err != nil {
			log.Printf("tick %s: %v", task.TaskID, err)
			return
		}

		switch tick.State {
		case farm.StateComplete:
			log.Printf("task %s complete: %d done, %d failed, %d skipped",
				task.TaskID, tick.Progress.Completed, tick.Progress.Failed, tick.Progress.Skipped)
			_ = sessionUC.ClearTask(agentID)
			return
		case farm.StateInterrupted, farm.StateBlocked:
			status, _ := sessionUC.Status(agentID)
			log.Printf("task %s stopped in %s: %s", task.TaskID, tick.State, status.InterruptReason)
			_ = sessionUC.ClearTask(agentID)
			return
		}

		if tick.Action == nil {
			time.Sleep(tickInterval)
			continue
		}

		ok, message, err := bridge.Execute(ctx, *tick.Action)
		if err != nil {
			log.Printf("execute %s: %v", tick.Action.Kind, err)
			_ = sessionUC.Interrupt(agentID, "lost game connection")
			return
		}
		if tick.Action.Kind == farm.ActionSkill {
			if _, err := sessionUC.ReportResult(ctx, session.ResultRequest{
				AgentID: agentID,
				Success: ok,
				Error:   message,
			}); err != nil {
				log.Printf("report result: %v", err)
				return
			}
		}
		time.Sleep(tickInterval)
	}
}

func runFarming(ctx context.Context, bridge *stardew.Client, sessionUC *session.UseCase, agentID string) {
	snap, err := bridge.Snapshot(ctx)
	if err != nil {
		log.Printf("snapshot before farming: %v", err)
		return
	}

	plan, err := sessionUC.StartFarming(ctx, session.StartFarmingRequest{
		AgentID:           agentID,
		SeedCount:         intEnv("FARMHAND_SEED_COUNT", 15),
		Radius:            intEnv("FARMHAND_FARM_RADIUS", 20),
		CheckReachability: true,
	}, snap)
	if err != nil {
		log.Printf("start farming: %v", err)
		return
	}
	log.Printf("farming %d cells with %s", plan.Cells, plan.SeedName)

	for {
		snap, err := bridge.Snapshot(ctx)
		if err != nil {
			log.Printf("snapshot during farming: %v", err)
			return
		}

		tick, err := sessionUC.FarmTick(ctx, agentID, snap)
		if err != nil {
			log.Printf("farm tick: %v", err)
			return
		}
		if tick.Done {
			log.Printf("farming complete: %d/%d cells", tick.Finished, tick.Total)
			return
		}
		if tick.Action == nil {
			log.Printf("farming progress: %d/%d cells", tick.Finished, tick.Total)
			continue
		}

		ok, message, err := bridge.Execute(ctx, *tick.Action)
		if err != nil {
			log.Printf("execute %s: %v", tick.Action.Kind, err)
			return
		}
		if !ok && tick.Action.Kind == farm.ActionUseTool {
			log.Printf("cell action failed (%s), skipping cell", message)
			_ = sessionUC.SkipFarmCell(agentID)
		}
		time.Sleep(tickInterval)
	}
}

func intEnv(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
