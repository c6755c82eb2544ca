package model

import "time"

// PlanRun is one persisted planning pass. The resolved queue and the
// skipped list are stored as JSON blobs; only the newest run per agent
// is ever read back.
type PlanRun struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	PlanID    string    `gorm:"column:plan_id;not null"`
	AgentID   string    `gorm:"column:agent_id;not null;index"`
	Day       int32     `gorm:"column:day;not null"`
	Resolved  []byte    `gorm:"column:resolved;type:jsonb"`
	Skipped   []byte    `gorm:"column:skipped;type:jsonb"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
}

func (PlanRun) TableName() string { return "plan_runs" }

type AgentNote struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	AgentID   string    `gorm:"column:agent_id;not null;index"`
	Text      string    `gorm:"column:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
}

func (AgentNote) TableName() string { return "agent_notes" }

// TaskProgress is the live counter row for one agent/task pair,
// upserted on every tick.
type TaskProgress struct {
	AgentID   string    `gorm:"column:agent_id;primaryKey"`
	TaskID    string    `gorm:"column:task_id;primaryKey"`
	TaskType  string    `gorm:"column:task_type;not null"`
	State     string    `gorm:"column:state;not null"`
	Total     int32     `gorm:"column:total;not null"`
	Completed int32     `gorm:"column:completed;not null"`
	Failed    int32     `gorm:"column:failed;not null"`
	Skipped   int32     `gorm:"column:skipped;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (TaskProgress) TableName() string { return "task_progress" }

type CommentaryEvent struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	AgentID    string    `gorm:"column:agent_id;not null;index"`
	Type       string    `gorm:"column:type;not null"`
	TaskID     string    `gorm:"column:task_id"`
	OccurredAt time.Time `gorm:"column:occurred_at;not null;index"`
	Payload    []byte    `gorm:"column:payload;type:jsonb"`
}

func (CommentaryEvent) TableName() string { return "commentary_events" }
