package memory

import (
	"context"

	"farmhand/internal/app/ports"
)

type ProgressRepo struct {
	store *Store
}

func NewProgressRepo(store *Store) ProgressRepo {
	return ProgressRepo{store: store}
}

func (r ProgressRepo) Save(_ context.Context, record ports.ProgressRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.progress[progressKey(record.AgentID, record.Progress.TaskID)] = record
	return nil
}

func (r ProgressRepo) GetByTaskID(_ context.Context, agentID, taskID string) (ports.ProgressRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	record, ok := r.store.progress[progressKey(agentID, taskID)]
	if !ok {
		return ports.ProgressRecord{}, ports.ErrNotFound
	}
	return record, nil
}
