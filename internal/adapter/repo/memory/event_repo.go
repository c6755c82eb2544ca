package memory

import (
	"context"

	"farmhand/internal/app/ports"
)

type EventRepo struct {
	store *Store
}

func NewEventRepo(store *Store) EventRepo {
	return EventRepo{store: store}
}

func (r EventRepo) Append(_ context.Context, agentID string, events []ports.CommentaryEvent) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.events[agentID] = append(r.store.events[agentID], events...)
	return nil
}

func (r EventRepo) ListByAgentID(_ context.Context, agentID string, limit int) ([]ports.CommentaryEvent, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	events := r.store.events[agentID]
	out := make([]ports.CommentaryEvent, 0, len(events))
	for i := len(events) - 1; i >= 0; i-- {
		out = append(out, events[i])
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}
