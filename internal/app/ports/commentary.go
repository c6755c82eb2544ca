package ports

import "time"

const (
	EventTaskStarted  = "task_started"
	EventMilestone    = "milestone"
	EventTaskComplete = "task_complete"
	EventTargetFailed = "target_failed"
	EventRowChange    = "row_change"
	EventIdleCheckIn  = "idle_check_in"
)

// CommentaryEvent is a fire-and-forget telemetry record for the
// narration layer. Losing or dropping events never affects execution.
type CommentaryEvent struct {
	Type       string         `json:"type"`
	TaskID     string         `json:"task_id,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload,omitempty"`
}

type CommentarySink interface {
	Publish(event CommentaryEvent)
}
