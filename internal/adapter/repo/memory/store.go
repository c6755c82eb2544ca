package memory

import (
	"sync"

	"farmhand/internal/app/ports"
)

type Store struct {
	mu       sync.RWMutex
	plans    map[string][]ports.PlanRecord
	notes    map[string][]ports.NoteRecord
	progress map[string]ports.ProgressRecord
	events   map[string][]ports.CommentaryEvent
}

func NewStore() *Store {
	return &Store{
		plans:    make(map[string][]ports.PlanRecord),
		notes:    make(map[string][]ports.NoteRecord),
		progress: make(map[string]ports.ProgressRecord),
		events:   make(map[string][]ports.CommentaryEvent),
	}
}

func progressKey(agentID, taskID string) string {
	return agentID + "::" + taskID
}
