package memory

import (
	"context"

	"farmhand/internal/app/ports"
)

type NoteRepo struct {
	store *Store
}

func NewNoteRepo(store *Store) NoteRepo {
	return NoteRepo{store: store}
}

func (r NoteRepo) Append(_ context.Context, agentID string, notes []ports.NoteRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.notes[agentID] = append(r.store.notes[agentID], notes...)
	return nil
}

// ListByAgentID returns notes newest first, matching the SQL-backed
// repo's ordering.
func (r NoteRepo) ListByAgentID(_ context.Context, agentID string, limit int) ([]ports.NoteRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	notes := r.store.notes[agentID]
	out := make([]ports.NoteRecord, 0, len(notes))
	for i := len(notes) - 1; i >= 0; i-- {
		out = append(out, notes[i])
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}
