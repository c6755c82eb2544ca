package gormrepo

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"farmhand/internal/app/ports"
	"farmhand/internal/domain/farm"
)

func requireDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("FARMHAND_DB_DSN")
	if dsn == "" {
		t.Skip("FARMHAND_DB_DSN is required for integration test")
	}
	return dsn
}

func TestPlanRepo_SaveAndGetLatest(t *testing.T) {
	dsn := requireDSN(t)
	db, err := OpenPostgres(dsn)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	ctx := context.Background()
	agentID := "it-plan-roundtrip"
	_ = db.Exec("DELETE FROM plan_runs WHERE agent_id = ?", agentID).Error

	repo := NewPlanRepo(db)
	first := ports.PlanRecord{
		PlanID:  "plan-" + agentID + "-1",
		AgentID: agentID,
		Day:     1,
		Resolved: []farm.ResolvedTask{{
			TaskID:        "t1",
			Type:          farm.TaskWaterCrops,
			Description:   "Water 4 dry crops",
			EstimatedTime: 30,
		}},
		Skipped:   []farm.SkippedTask{{TaskID: "t2", Description: "Plant seeds", Reason: "no seeds, no money, nothing to sell"}},
		CreatedAt: time.Now().Add(-time.Minute),
	}
	second := ports.PlanRecord{
		PlanID:  "plan-" + agentID + "-2",
		AgentID: agentID,
		Day:     2,
		Resolved: []farm.ResolvedTask{{
			TaskID:      "t3",
			Type:        farm.TaskHarvestCrops,
			Description: "Harvest 2 ready crops",
		}},
		CreatedAt: time.Now(),
	}
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("save first plan: %v", err)
	}
	if err := repo.Save(ctx, second); err != nil {
		t.Fatalf("save second plan: %v", err)
	}

	got, err := repo.GetLatest(ctx, agentID)
	if err != nil {
		t.Fatalf("get latest: %v", err)
	}
	if got.PlanID != second.PlanID {
		t.Fatalf("expected latest plan %q, got %q", second.PlanID, got.PlanID)
	}
	if len(got.Resolved) != 1 || got.Resolved[0].Type != farm.TaskHarvestCrops {
		t.Fatalf("resolved queue did not survive the round trip: %+v", got.Resolved)
	}
}

func TestPlanRepo_GetLatestNotFound(t *testing.T) {
	dsn := requireDSN(t)
	db, err := OpenPostgres(dsn)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}

	repo := NewPlanRepo(db)
	_, err = repo.GetLatest(context.Background(), "it-plan-missing")
	if !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNoteRepo_AppendAndList(t *testing.T) {
	dsn := requireDSN(t)
	db, err := OpenPostgres(dsn)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	ctx := context.Background()
	agentID := "it-note-roundtrip"
	_ = db.Exec("DELETE FROM agent_notes WHERE agent_id = ?", agentID).Error

	repo := NewNoteRepo(db)
	notes := []ports.NoteRecord{
		{AgentID: agentID, Text: "skipped planting: no seeds", CreatedAt: time.Now().Add(-time.Minute)},
		{AgentID: agentID, Text: "bought 5 Parsnip Seeds", CreatedAt: time.Now()},
	}
	if err := repo.Append(ctx, agentID, notes); err != nil {
		t.Fatalf("append notes: %v", err)
	}

	got, err := repo.ListByAgentID(ctx, agentID, 1)
	if err != nil {
		t.Fatalf("list notes: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 note with limit, got %d", len(got))
	}
	if got[0].Text != "bought 5 Parsnip Seeds" {
		t.Fatalf("expected newest note first, got %q", got[0].Text)
	}
}

func TestProgressRepo_UpsertAndGet(t *testing.T) {
	dsn := requireDSN(t)
	db, err := OpenPostgres(dsn)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	ctx := context.Background()
	agentID := "it-progress-upsert"
	_ = db.Exec("DELETE FROM task_progress WHERE agent_id = ?", agentID).Error

	repo := NewProgressRepo(db)
	record := ports.ProgressRecord{
		AgentID: agentID,
		Progress: farm.TaskProgress{
			TaskID:    "t1",
			Type:      farm.TaskWaterCrops,
			Total:     4,
			Completed: 1,
		},
		State:     farm.StateMoving,
		UpdatedAt: time.Now(),
	}
	if err := repo.Save(ctx, record); err != nil {
		t.Fatalf("save progress: %v", err)
	}

	record.Progress.Completed = 4
	record.State = farm.StateComplete
	record.UpdatedAt = time.Now()
	if err := repo.Save(ctx, record); err != nil {
		t.Fatalf("upsert progress: %v", err)
	}

	got, err := repo.GetByTaskID(ctx, agentID, "t1")
	if err != nil {
		t.Fatalf("get progress: %v", err)
	}
	if got.Progress.Completed != 4 || got.State != farm.StateComplete {
		t.Fatalf("upsert did not overwrite: %+v", got)
	}

	if _, err := repo.GetByTaskID(ctx, agentID, "missing"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing task, got %v", err)
	}
}

func TestEventRepo_AppendAndList(t *testing.T) {
	dsn := requireDSN(t)
	db, err := OpenPostgres(dsn)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	ctx := context.Background()
	agentID := "it-event-roundtrip"
	_ = db.Exec("DELETE FROM commentary_events WHERE agent_id = ?", agentID).Error

	repo := NewEventRepo(db)
	events := []ports.CommentaryEvent{
		{Type: ports.EventTaskStarted, TaskID: "t1", OccurredAt: time.Now().Add(-time.Minute), Payload: map[string]any{"total": 4}},
		{Type: ports.EventMilestone, TaskID: "t1", OccurredAt: time.Now(), Payload: map[string]any{"percent": 50}},
	}
	if err := repo.Append(ctx, agentID, events); err != nil {
		t.Fatalf("append events: %v", err)
	}

	got, err := repo.ListByAgentID(ctx, agentID, 0)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	if got[0].Type != ports.EventMilestone {
		t.Fatalf("expected newest event first, got %q", got[0].Type)
	}
	if got[0].Payload["percent"] != float64(50) {
		t.Fatalf("payload did not survive the round trip: %+v", got[0].Payload)
	}
}
