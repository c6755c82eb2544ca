package ports

import (
	"context"
	"time"

	"farmhand/internal/domain/farm"
)

// PlanRecord is one planning pass: the resolved queue the executor
// will consume plus everything that had to be skipped.
type PlanRecord struct {
	PlanID    string
	AgentID   string
	Day       int
	Resolved  []farm.ResolvedTask
	Skipped   []farm.SkippedTask
	CreatedAt time.Time
}

type PlanRepository interface {
	Save(ctx context.Context, plan PlanRecord) error
	GetLatest(ctx context.Context, agentID string) (PlanRecord, error)
}

// NoteRecord is one line of episodic memory, fed by the resolver's
// unresolvable-task reasons so the next planning pass can react.
type NoteRecord struct {
	AgentID   string
	Text      string
	CreatedAt time.Time
}

type NoteRepository interface {
	Append(ctx context.Context, agentID string, notes []NoteRecord) error
	ListByAgentID(ctx context.Context, agentID string, limit int) ([]NoteRecord, error)
}

type ProgressRecord struct {
	AgentID   string
	Progress  farm.TaskProgress
	State     farm.TaskState
	UpdatedAt time.Time
}

type ProgressRepository interface {
	Save(ctx context.Context, record ProgressRecord) error
	GetByTaskID(ctx context.Context, agentID, taskID string) (ProgressRecord, error)
}

type EventRepository interface {
	Append(ctx context.Context, agentID string, events []CommentaryEvent) error
	ListByAgentID(ctx context.Context, agentID string, limit int) ([]CommentaryEvent, error)
}
